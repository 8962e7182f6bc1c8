// Package handler exposes the verification registry over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"trustlink/internal/verification/models"
	"trustlink/pkg/domain"
	dErrors "trustlink/pkg/domain-errors"
	"trustlink/pkg/platform/httputil"
	authmw "trustlink/pkg/platform/middleware/auth"
	"trustlink/pkg/requestcontext"
)

// Service is the registry surface the handler drives.
type Service interface {
	StoreVerification(ctx context.Context, vtype models.VerificationType, hash domain.DataHash, timestamp uint64) error
	StoreHash(ctx context.Context, hash domain.DataHash, timestamp uint64) error
	DeactivateVerification(ctx context.Context, vtype models.VerificationType) error
	HashDocument(ctx context.Context) (models.Document, error)
	VerifyDocument(ctx context.Context, hash domain.DataHash, timestamp uint64) (bool, error)
	GetMyVerification(ctx context.Context, vtype models.VerificationType) (models.Entry, error)
	GetUserVerification(ctx context.Context, principal domain.Principal, vtype models.VerificationType) (models.Entry, error)
	GetMyAllVerifications(ctx context.Context) (models.AllVerifications, error)
	GetUserAllVerifications(ctx context.Context, principal domain.Principal) (models.AllVerifications, error)
	HasVerification(ctx context.Context, principal domain.Principal, vtype models.VerificationType) (bool, error)
	GetVerificationStatus(ctx context.Context, principal domain.Principal) (models.VerificationStatus, error)
	GetCompletionPercentage(ctx context.Context, principal domain.Principal) (uint8, error)
	GetAllStoredHashesAndTimestamps(ctx context.Context) (models.StoredDocuments, error)
	GetTotalUsers(ctx context.Context) (uint64, error)
	GetCurrentTimestamp(ctx context.Context) uint64
}

type Handler struct {
	service   Service
	logger    *slog.Logger
	validator authmw.JWTValidator
}

func New(service Service, validator authmw.JWTValidator, logger *slog.Logger) *Handler {
	return &Handler{
		service:   service,
		logger:    logger,
		validator: validator,
	}
}

// Register mounts the /api routes. Every route requires a bearer token whose
// subject becomes the caller principal.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(authmw.RequireAuth(h.validator, h.logger))

		r.Route("/verification", func(r chi.Router) {
			r.Post("/", h.HandleStoreTyped)
			r.Get("/types", h.HandleListTypes)
			r.Get("/me", h.HandleGetMyAll)
			r.Get("/me/{type}", h.HandleGetMine)
			r.Get("/users/{principal}", h.HandleGetUserAll)
			r.Get("/users/{principal}/{type}", h.HandleGetUser)
			r.Get("/users/{principal}/{type}/exists", h.HandleHasVerification)
			r.Get("/status/{principal}", h.HandleStatus)
			r.Get("/completion/{principal}", h.HandleCompletion)
			r.Post("/{kind}", h.HandleStoreKind)
			r.Delete("/{type}", h.HandleDeactivate)
		})

		r.Route("/registry", func(r chi.Router) {
			r.Get("/total-users", h.HandleTotalUsers)
			r.Get("/timestamp", h.HandleTimestamp)
			r.Get("/documents", h.HandleStoredDocuments)
		})

		r.Post("/hash-document", h.HandleStoreHash)
		r.Get("/hash-document", h.HandleHashDocument)
		r.Post("/verify-document", h.HandleVerifyDocument)
	})
}

// HandleStoreKind stores one of the six primary types named by slug.
func (h *Handler) HandleStoreKind(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	vtype, ok := models.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown verification kind"))
		return
	}
	req, ok := httputil.DecodeAndValidate[models.StoreRequest](ctx, w, r, h.logger, requestID)
	if !ok {
		return
	}
	h.store(w, r, vtype, req, h.service.StoreVerification)
}

// HandleStoreTyped is the generic write taking the type code in the body.
func (h *Handler) HandleStoreTyped(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndValidate[models.TypedStoreRequest](ctx, w, r, h.logger, requestID)
	if !ok {
		return
	}
	vtype, err := req.VerificationType()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.store(w, r, vtype, &req.StoreRequest, h.service.StoreVerification)
}

func (h *Handler) HandleStoreHash(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndValidate[models.StoreRequest](ctx, w, r, h.logger, requestID)
	if !ok {
		return
	}
	h.store(w, r, models.TypeDocument, req, func(ctx context.Context, _ models.VerificationType, hash domain.DataHash, ts uint64) error {
		return h.service.StoreHash(ctx, hash, ts)
	})
}

type storeFunc func(ctx context.Context, vtype models.VerificationType, hash domain.DataHash, timestamp uint64) error

func (h *Handler) store(w http.ResponseWriter, r *http.Request, vtype models.VerificationType, req *models.StoreRequest, fn storeFunc) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	hash, err := req.ResolveHash()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	timestamp := req.ResolveTimestamp(h.service.GetCurrentTimestamp(ctx))

	if err := fn(ctx, vtype, hash, timestamp); err != nil {
		h.logFailure(ctx, "failed to store verification", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, models.StoreResponse{
		Principal:        requestcontext.Principal(ctx),
		VerificationType: vtype,
		DataHash:         hash,
		Timestamp:        timestamp,
	})
}

func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	vtype, ok := h.typeParam(w, r)
	if !ok {
		return
	}
	if err := h.service.DeactivateVerification(ctx, vtype); err != nil {
		h.logFailure(ctx, "failed to deactivate verification", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleGetMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vtype, ok := h.typeParam(w, r)
	if !ok {
		return
	}
	entry, err := h.service.GetMyVerification(ctx, vtype)
	if err != nil {
		h.writeReadError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entryResponse(requestcontext.Principal(ctx), vtype, entry))
}

func (h *Handler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principalParam(w, r)
	if !ok {
		return
	}
	vtype, ok := h.typeParam(w, r)
	if !ok {
		return
	}
	entry, err := h.service.GetUserVerification(r.Context(), principal, vtype)
	if err != nil {
		h.writeReadError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entryResponse(principal, vtype, entry))
}

func (h *Handler) HandleHasVerification(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principalParam(w, r)
	if !ok {
		return
	}
	vtype, ok := h.typeParam(w, r)
	if !ok {
		return
	}
	exists, err := h.service.HasVerification(r.Context(), principal, vtype)
	if err != nil {
		h.writeReadError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ExistsResponse{Exists: exists})
}

func (h *Handler) HandleGetMyAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	all, err := h.service.GetMyAllVerifications(ctx)
	if err != nil {
		h.writeReadError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.NewAllVerificationsResponse(requestcontext.Principal(ctx), all))
}

func (h *Handler) HandleGetUserAll(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principalParam(w, r)
	if !ok {
		return
	}
	all, err := h.service.GetUserAllVerifications(r.Context(), principal)
	if err != nil {
		h.writeReadError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.NewAllVerificationsResponse(principal, all))
}

func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principalParam(w, r)
	if !ok {
		return
	}
	status, err := h.service.GetVerificationStatus(r.Context(), principal)
	if err != nil {
		h.writeReadError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.StatusResponse{Principal: principal, VerificationStatus: status})
}

func (h *Handler) HandleCompletion(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principalParam(w, r)
	if !ok {
		return
	}
	pct, err := h.service.GetCompletionPercentage(r.Context(), principal)
	if err != nil {
		h.writeReadError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.CompletionResponse{Principal: principal, Percentage: pct})
}

func (h *Handler) HandleListTypes(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, models.Catalogue())
}

func (h *Handler) HandleTotalUsers(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.GetTotalUsers(r.Context())
	if err != nil {
		h.writeReadError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.TotalUsersResponse{TotalUsers: total})
}

func (h *Handler) HandleTimestamp(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, models.TimestampResponse{Timestamp: h.service.GetCurrentTimestamp(r.Context())})
}

// HandleStoredDocuments returns the whole legacy enumeration in one response.
func (h *Handler) HandleStoredDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.service.GetAllStoredHashesAndTimestamps(r.Context())
	if err != nil {
		h.writeReadError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.NewStoredDocumentsResponse(docs))
}

func (h *Handler) HandleHashDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.HashDocument(r.Context())
	if err != nil {
		h.writeReadError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.DocumentResponse{DataHash: doc.DataHash, Timestamp: doc.Timestamp})
}

func (h *Handler) HandleVerifyDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndValidate[models.VerifyDocumentRequest](ctx, w, r, h.logger, requestID)
	if !ok {
		return
	}
	hash, err := req.ResolveHash()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	valid, err := h.service.VerifyDocument(ctx, hash, *req.Timestamp)
	if err != nil {
		h.writeReadError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.VerifyDocumentResponse{Valid: valid})
}

func entryResponse(principal domain.Principal, vtype models.VerificationType, entry models.Entry) models.EntryResponse {
	return models.EntryResponse{
		Principal:        principal,
		VerificationType: vtype,
		Kind:             vtype.String(),
		DataHash:         entry.DataHash,
		Timestamp:        entry.Timestamp,
		IsActive:         entry.IsActive,
	}
}

func (h *Handler) principalParam(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	principal, err := domain.ParsePrincipal(chi.URLParam(r, "principal"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid principal"))
		return domain.Principal{}, false
	}
	return principal, true
}

// typeParam accepts a slug or a decimal code. Codes beyond uint8 behave like
// any other unknown code, so they saturate at 255.
func (h *Handler) typeParam(w http.ResponseWriter, r *http.Request) (models.VerificationType, bool) {
	raw := chi.URLParam(r, "type")
	if vtype, ok := models.ParseKind(raw); ok {
		return vtype, true
	}
	if raw == models.TypeDocument.String() {
		return models.TypeDocument, true
	}
	code, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid verification type"))
		return 0, false
	}
	if code > 255 {
		code = 255
	}
	return models.VerificationType(code), true
}

func (h *Handler) writeReadError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	h.logFailure(ctx, "verification read failed", requestcontext.RequestID(ctx), err)
	httputil.WriteError(w, err)
}

func (h *Handler) logFailure(ctx context.Context, msg, requestID string, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) || dErrors.HasCode(err, dErrors.CodeTimeout) {
		h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err)
		return
	}
	h.logger.WarnContext(ctx, msg, "request_id", requestID, "error", err)
}
