package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"trustlink/internal/verification/handler/mocks"
	"trustlink/internal/verification/models"
	"trustlink/pkg/domain"
	dErrors "trustlink/pkg/domain-errors"
	"trustlink/pkg/platform/hashing"
	authmw "trustlink/pkg/platform/middleware/auth"
	"trustlink/pkg/testutil"
)

const (
	callerHex = "0x8ba1f109551bd432803012645ac136ddd64dba72"
	otherHex  = "0x00000000000000000000000000000000000000aa"
	hashHex   = "0x1111111111111111111111111111111111111111111111111111111111111111"
)

// subjectValidator treats the bearer token as the subject.
type subjectValidator struct{}

func (subjectValidator) ValidateToken(token string) (*authmw.JWTClaims, error) {
	if token == "expired" {
		return nil, errors.New("token has expired")
	}
	return &authmw.JWTClaims{Subject: token}, nil
}

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
	caller  domain.Principal
	other   domain.Principal
	hash    domain.DataHash
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.router = chi.NewRouter()
	New(s.service, subjectValidator{}, logger).Register(s.router)

	var err error
	s.caller, err = domain.ParsePrincipal(callerHex)
	s.Require().NoError(err)
	s.other, err = domain.ParsePrincipal(otherHex)
	s.Require().NoError(err)
	s.hash, err = domain.ParseDataHash(hashHex)
	s.Require().NoError(err)
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) TestRequiresBearerToken() {
	s.Run("missing", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/registry/total-users"))
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})

	s.Run("expired", func() {
		req := testutil.WithBearer(testutil.NewRequest(s.T(), http.MethodGet, "/api/registry/total-users"), "expired")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
	})
}

func (s *HandlerSuite) authed(req *http.Request) *http.Request {
	return testutil.WithBearer(req, callerHex)
}

func (s *HandlerSuite) TestStoreKind() {
	s.Run("stores with supplied hash and timestamp", func() {
		s.service.EXPECT().GetCurrentTimestamp(gomock.Any()).Return(uint64(999))
		s.service.EXPECT().StoreVerification(gomock.Any(), models.TypeEmail, s.hash, uint64(42)).Return(nil)

		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/verification/email",
			`{"data_hash":"`+hashHex+`","timestamp":42}`)
		rr := testutil.DoRequest(s.router, s.authed(req))

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[models.StoreResponse](s.T(), rr)
		s.Equal(s.caller, resp.Principal)
		s.Equal(models.TypeEmail, resp.VerificationType)
		s.Equal(uint64(42), resp.Timestamp)
	})

	s.Run("hashes raw data and defaults timestamp", func() {
		raw := `{"lat":52.1,"lng":4.3}`
		want, err := hashing.HashJSON([]byte(raw))
		s.Require().NoError(err)

		s.service.EXPECT().GetCurrentTimestamp(gomock.Any()).Return(uint64(1700000000))
		s.service.EXPECT().StoreVerification(gomock.Any(), models.TypeAddress, want, uint64(1700000000)).Return(nil)

		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/verification/address", `{"data":`+raw+`}`)
		rr := testutil.DoRequest(s.router, s.authed(req))
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	})

	s.Run("unknown kind", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/verification/document", `{"data_hash":"`+hashHex+`"}`)
		rr := testutil.DoRequest(s.router, s.authed(req))
		testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
	})

	s.Run("hash and data together are rejected", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/verification/email",
			`{"data_hash":"`+hashHex+`","data":{"a":1}}`)
		rr := testutil.DoRequest(s.router, s.authed(req))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *HandlerSuite) TestStoreTyped() {
	s.Run("forwards the code", func() {
		s.service.EXPECT().GetCurrentTimestamp(gomock.Any()).Return(uint64(1))
		s.service.EXPECT().StoreVerification(gomock.Any(), models.TypeTrustScore, s.hash, uint64(7)).Return(nil)

		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/verification",
			`{"type":5,"data_hash":"`+hashHex+`","timestamp":7}`)
		rr := testutil.DoRequest(s.router, s.authed(req))
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	})

	s.Run("invalid type from service", func() {
		s.service.EXPECT().GetCurrentTimestamp(gomock.Any()).Return(uint64(1))
		s.service.EXPECT().StoreVerification(gomock.Any(), models.TypeDocument, s.hash, uint64(7)).
			Return(models.NewInvalidVerificationTypeError())

		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/verification",
			`{"type":6,"data_hash":"`+hashHex+`","timestamp":7}`)
		rr := testutil.DoRequest(s.router, s.authed(req))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("code outside uint8", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/verification",
			`{"type":300,"data_hash":"`+hashHex+`"}`)
		rr := testutil.DoRequest(s.router, s.authed(req))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("missing type", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/verification", `{"data_hash":"`+hashHex+`"}`)
		rr := testutil.DoRequest(s.router, s.authed(req))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *HandlerSuite) TestDeactivate() {
	s.Run("by code", func() {
		s.service.EXPECT().DeactivateVerification(gomock.Any(), models.TypeDocument).Return(nil)
		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodDelete, "/api/verification/6")))
		testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
	})

	s.Run("by slug", func() {
		s.service.EXPECT().DeactivateVerification(gomock.Any(), models.TypeCommunity).Return(nil)
		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodDelete, "/api/verification/community")))
		testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
	})

	s.Run("large codes saturate", func() {
		s.service.EXPECT().DeactivateVerification(gomock.Any(), models.VerificationType(255)).
			Return(models.NewInvalidVerificationTypeError())
		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodDelete, "/api/verification/100000")))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("garbage", func() {
		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodDelete, "/api/verification/-1")))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *HandlerSuite) TestReads() {
	s.Run("my entry", func() {
		s.service.EXPECT().GetMyVerification(gomock.Any(), models.TypeDevice).
			Return(models.Entry{DataHash: s.hash, Timestamp: 3, IsActive: true}, nil)
		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/api/verification/me/2")))
		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[models.EntryResponse](s.T(), rr)
		s.Equal("device", resp.Kind)
		s.True(resp.IsActive)
		s.Equal(s.caller, resp.Principal)
	})

	s.Run("other user's entry", func() {
		s.service.EXPECT().GetUserVerification(gomock.Any(), s.other, models.VerificationType(9)).Return(models.Entry{}, nil)
		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/api/verification/users/"+otherHex+"/9")))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "is_active", false)
	})

	s.Run("exists", func() {
		s.service.EXPECT().HasVerification(gomock.Any(), s.other, models.TypeIdentity).Return(true, nil)
		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/api/verification/users/"+otherHex+"/identity/exists")))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "exists", true)
	})

	s.Run("invalid principal", func() {
		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/api/verification/users/not-an-address")))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("all for user renders empty arrays", func() {
		s.service.EXPECT().GetUserAllVerifications(gomock.Any(), s.other).Return(models.AllVerifications{}, nil)
		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/api/verification/users/"+otherHex)))
		testutil.AssertStatusOK(s.T(), rr)
		s.Contains(string(testutil.ReadBody(s.T(), rr)), `"statuses":[]`)
	})

	s.Run("mine", func() {
		s.service.EXPECT().GetMyAllVerifications(gomock.Any()).Return(models.AllVerifications{
			Types: []models.VerificationType{1, 3}, Hashes: []domain.DataHash{s.hash, s.hash},
			Timestamps: []uint64{1, 3}, Statuses: []bool{true, true},
		}, nil)
		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/api/verification/me")))
		testutil.AssertStatusOK(s.T(), rr)
		body := testutil.ReadBody(s.T(), rr)
		s.Contains(string(body), `"types":[1,3]`)
		var resp models.AllVerificationsResponse
		s.Require().NoError(json.Unmarshal(body, &resp))
		s.Equal([]models.VerificationType{1, 3}, resp.Types)
	})

	s.Run("status and completion", func() {
		s.service.EXPECT().GetVerificationStatus(gomock.Any(), s.other).Return(models.VerificationStatus{Email: true}, nil)
		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/api/verification/status/"+otherHex)))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "email", true)

		s.service.EXPECT().GetCompletionPercentage(gomock.Any(), s.other).Return(uint8(16), nil)
		rr = testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/api/verification/completion/"+otherHex)))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "percentage", float64(16))
	})

	s.Run("internal errors hide detail", func() {
		s.service.EXPECT().GetTotalUsers(gomock.Any()).
			Return(uint64(0), dErrors.Wrap(errors.New("pq: connection refused"), dErrors.CodeInternal, "failed to read total users"))
		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/api/registry/total-users")))
		testutil.AssertStatus(s.T(), rr, http.StatusInternalServerError)
		s.NotContains(string(testutil.ReadBody(s.T(), rr)), "connection refused")
	})
}

func (s *HandlerSuite) TestRegistryEndpoints() {
	s.service.EXPECT().GetTotalUsers(gomock.Any()).Return(uint64(3), nil)
	rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/api/registry/total-users")))
	testutil.AssertJSONContains(s.T(), rr, "total_users", float64(3))

	s.service.EXPECT().GetCurrentTimestamp(gomock.Any()).Return(uint64(1718452800))
	rr = testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/api/registry/timestamp")))
	testutil.AssertJSONContains(s.T(), rr, "timestamp", float64(1718452800))

	s.service.EXPECT().GetAllStoredHashesAndTimestamps(gomock.Any()).Return(models.StoredDocuments{
		Principals: []domain.Principal{s.other}, Hashes: []domain.DataHash{s.hash}, Timestamps: []uint64{5},
	}, nil)
	rr = testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/api/registry/documents")))
	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[models.StoredDocumentsResponse](s.T(), rr)
	s.Equal([]domain.Principal{s.other}, resp.Principals)

	rr = testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/api/verification/types")))
	testutil.AssertStatusOK(s.T(), rr)
	types := testutil.UnmarshalResponse[[]models.TypeInfo](s.T(), rr)
	s.Len(*types, models.TypeCount)
}

func (s *HandlerSuite) TestLegacyDocument() {
	s.Run("store", func() {
		s.service.EXPECT().GetCurrentTimestamp(gomock.Any()).Return(uint64(10))
		s.service.EXPECT().StoreHash(gomock.Any(), s.hash, uint64(10)).Return(nil)
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/hash-document", `{"data_hash":"`+hashHex+`"}`)
		rr := testutil.DoRequest(s.router, s.authed(req))
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		testutil.AssertJSONContains(s.T(), rr, "verification_type", float64(6))
	})

	s.Run("read", func() {
		s.service.EXPECT().HashDocument(gomock.Any()).Return(models.Document{DataHash: s.hash, Timestamp: 10}, nil)
		rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/api/hash-document")))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "data_hash", hashHex)
	})

	s.Run("verify", func() {
		s.service.EXPECT().VerifyDocument(gomock.Any(), s.hash, uint64(10)).Return(true, nil)
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/verify-document", `{"data_hash":"`+hashHex+`","timestamp":10}`)
		rr := testutil.DoRequest(s.router, s.authed(req))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "valid", true)
	})

	s.Run("verify needs timestamp", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/api/verify-document", `{"data_hash":"`+hashHex+`"}`)
		rr := testutil.DoRequest(s.router, s.authed(req))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
		s.True(strings.Contains(string(testutil.ReadBody(s.T(), rr)), "timestamp"))
	})
}
