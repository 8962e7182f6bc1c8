package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GET(path string) error
	DELETE(path string) error
	GetResponseField(field string) (any, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	PrincipalFor(alias string) string
	Remember(name, value string)
	Recall(name string) (string, bool)
}

// RegisterSteps registers verification registry step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &verificationSteps{tc: tc}

	// Write steps
	ctx.Step(`^I store an? "([^"]*)" verification with hash "([^"]*)"$`, steps.storeKindWithHash)
	ctx.Step(`^I store an? "([^"]*)" verification with hash "([^"]*)" at (\d+)$`, steps.storeKindWithHashAt)
	ctx.Step(`^I store an? "([^"]*)" verification with data '([^']*)'$`, steps.storeKindWithData)
	ctx.Step(`^I store verification type (\d+) with hash "([^"]*)"$`, steps.storeTypedWithHash)
	ctx.Step(`^I store the document hash "([^"]*)" at (\d+)$`, steps.storeDocument)
	ctx.Step(`^I deactivate my "([^"]*)" verification$`, steps.deactivate)

	// Read steps
	ctx.Step(`^I fetch my "([^"]*)" verification$`, steps.fetchMine)
	ctx.Step(`^I fetch all my verifications$`, steps.fetchAllMine)
	ctx.Step(`^I fetch the "([^"]*)" verification of "([^"]*)"$`, steps.fetchUser)
	ctx.Step(`^I check whether "([^"]*)" has an? "([^"]*)" verification$`, steps.checkExists)
	ctx.Step(`^I request the completion of "([^"]*)"$`, steps.requestCompletion)
	ctx.Step(`^I request the verification status of "([^"]*)"$`, steps.requestStatus)
	ctx.Step(`^I fetch my document$`, steps.fetchDocument)
	ctx.Step(`^I verify the document hash "([^"]*)" at (\d+)$`, steps.verifyDocument)
	ctx.Step(`^I list the stored documents$`, steps.listDocuments)

	// Counter steps
	ctx.Step(`^I note the total user count$`, steps.noteTotalUsers)
	ctx.Step(`^the total user count should have grown by (\d+)$`, steps.totalUsersGrewBy)

	// Assertion steps
	ctx.Step(`^the stored documents should include "([^"]*)"$`, steps.documentsShouldInclude)
	ctx.Step(`^the stored documents should not include "([^"]*)"$`, steps.documentsShouldNotInclude)
	ctx.Step(`^my verification list should have (\d+) entr(?:y|ies)$`, steps.listShouldHaveEntries)
}

type verificationSteps struct {
	tc TestContext
}

func (s *verificationSteps) storeKindWithHash(ctx context.Context, kind, hash string) error {
	return s.tc.POST("/api/verification/"+kind, map[string]any{"data_hash": hash})
}

func (s *verificationSteps) storeKindWithHashAt(ctx context.Context, kind, hash string, ts int64) error {
	return s.tc.POST("/api/verification/"+kind, map[string]any{"data_hash": hash, "timestamp": ts})
}

func (s *verificationSteps) storeKindWithData(ctx context.Context, kind, data string) error {
	return s.tc.POST("/api/verification/"+kind, map[string]any{"data": json.RawMessage(data)})
}

func (s *verificationSteps) storeTypedWithHash(ctx context.Context, code int, hash string) error {
	return s.tc.POST("/api/verification/", map[string]any{"type": code, "data_hash": hash})
}

func (s *verificationSteps) storeDocument(ctx context.Context, hash string, ts int64) error {
	return s.tc.POST("/api/hash-document", map[string]any{"data_hash": hash, "timestamp": ts})
}

func (s *verificationSteps) deactivate(ctx context.Context, kind string) error {
	return s.tc.DELETE("/api/verification/" + kind)
}

func (s *verificationSteps) fetchMine(ctx context.Context, kind string) error {
	return s.tc.GET("/api/verification/me/" + kind)
}

func (s *verificationSteps) fetchAllMine(ctx context.Context) error {
	return s.tc.GET("/api/verification/me")
}

func (s *verificationSteps) fetchUser(ctx context.Context, kind, alias string) error {
	return s.tc.GET("/api/verification/users/" + s.tc.PrincipalFor(alias) + "/" + kind)
}

func (s *verificationSteps) checkExists(ctx context.Context, alias, kind string) error {
	return s.tc.GET("/api/verification/users/" + s.tc.PrincipalFor(alias) + "/" + kind + "/exists")
}

func (s *verificationSteps) requestCompletion(ctx context.Context, alias string) error {
	return s.tc.GET("/api/verification/completion/" + s.tc.PrincipalFor(alias))
}

func (s *verificationSteps) requestStatus(ctx context.Context, alias string) error {
	return s.tc.GET("/api/verification/status/" + s.tc.PrincipalFor(alias))
}

func (s *verificationSteps) fetchDocument(ctx context.Context) error {
	return s.tc.GET("/api/hash-document")
}

func (s *verificationSteps) verifyDocument(ctx context.Context, hash string, ts int64) error {
	return s.tc.POST("/api/verify-document", map[string]any{"data_hash": hash, "timestamp": ts})
}

func (s *verificationSteps) listDocuments(ctx context.Context) error {
	return s.tc.GET("/api/registry/documents")
}

func (s *verificationSteps) totalUsers() (uint64, error) {
	if err := s.tc.GET("/api/registry/total-users"); err != nil {
		return 0, err
	}
	if status := s.tc.GetLastResponseStatus(); status != 200 {
		return 0, fmt.Errorf("total users returned %d", status)
	}
	var body struct {
		TotalUsers uint64 `json:"total_users"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &body); err != nil {
		return 0, fmt.Errorf("failed to parse total users: %w", err)
	}
	return body.TotalUsers, nil
}

func (s *verificationSteps) noteTotalUsers(ctx context.Context) error {
	n, err := s.totalUsers()
	if err != nil {
		return err
	}
	s.tc.Remember("total_users", strconv.FormatUint(n, 10))
	return nil
}

// totalUsersGrewBy assumes no other client registers users concurrently.
func (s *verificationSteps) totalUsersGrewBy(ctx context.Context, delta int) error {
	raw, ok := s.tc.Recall("total_users")
	if !ok {
		return fmt.Errorf("total user count was not noted")
	}
	before, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return err
	}
	after, err := s.totalUsers()
	if err != nil {
		return err
	}
	if after-before != uint64(delta) { //nolint:gosec // step regex only matches digits
		return fmt.Errorf("expected total users to grow by %d, went from %d to %d", delta, before, after)
	}
	return nil
}

func (s *verificationSteps) storedPrincipals() ([]string, error) {
	var body struct {
		Principals []string `json:"principals"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &body); err != nil {
		return nil, fmt.Errorf("failed to parse stored documents: %w", err)
	}
	return body.Principals, nil
}

func (s *verificationSteps) documentsShouldInclude(ctx context.Context, alias string) error {
	principals, err := s.storedPrincipals()
	if err != nil {
		return err
	}
	want := s.tc.PrincipalFor(alias)
	for _, p := range principals {
		if p == want {
			return nil
		}
	}
	return fmt.Errorf("stored documents do not include %s (%s)", alias, want)
}

func (s *verificationSteps) documentsShouldNotInclude(ctx context.Context, alias string) error {
	principals, err := s.storedPrincipals()
	if err != nil {
		return err
	}
	want := s.tc.PrincipalFor(alias)
	for _, p := range principals {
		if p == want {
			return fmt.Errorf("stored documents unexpectedly include %s (%s)", alias, want)
		}
	}
	return nil
}

func (s *verificationSteps) listShouldHaveEntries(ctx context.Context, n int) error {
	types, err := s.tc.GetResponseField("types")
	if err != nil {
		return err
	}
	list, ok := types.([]any)
	if !ok {
		return fmt.Errorf("types is not a list: %v", types)
	}
	if len(list) != n {
		return fmt.Errorf("expected %d entries, got %d", n, len(list))
	}
	return nil
}
