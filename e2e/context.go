package e2e

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// Matches the server default when JWT_SIGNING_KEY is not set.
	devSigningKey   = "dev-secret-key-change-in-production"
	defaultIssuer   = "trustlink"
	defaultAudience = "trustlink-api"
)

// TestContext holds state between test steps
type TestContext struct {
	BaseURL          string
	HTTPClient       *http.Client
	LastResponse     *http.Response
	LastResponseBody []byte
	AccessToken      string

	signingKey string
	issuer     string
	audience   string
	principals map[string]string
	remembered map[string]string
}

// NewTestContext creates a new test context
func NewTestContext() *TestContext {
	tc := &TestContext{
		BaseURL:    getenv("BASE_URL", "http://localhost:8080"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		signingKey: getenv("JWT_SIGNING_KEY", devSigningKey),
		issuer:     getenv("JWT_ISSUER", defaultIssuer),
		audience:   getenv("JWT_AUDIENCE", defaultAudience),
	}
	tc.Reset()
	return tc
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Reset clears per-scenario state. Aliases map to fresh random principals
// so scenarios do not see each other's registry entries.
func (tc *TestContext) Reset() {
	tc.LastResponse = nil
	tc.LastResponseBody = nil
	tc.AccessToken = ""
	tc.principals = make(map[string]string)
	tc.remembered = make(map[string]string)
}

// PrincipalFor returns the principal bound to alias in this scenario.
func (tc *TestContext) PrincipalFor(alias string) string {
	if p, ok := tc.principals[alias]; ok {
		return p
	}
	var raw [20]byte
	_, _ = rand.Read(raw[:])
	p := "0x" + hex.EncodeToString(raw[:])
	tc.principals[alias] = p
	return p
}

// AuthenticateAs mints an access token whose subject is alias's principal.
func (tc *TestContext) AuthenticateAs(alias string) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   tc.PrincipalFor(alias),
		Issuer:    tc.issuer,
		Audience:  jwt.ClaimStrings{tc.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
	})
	signed, err := token.SignedString([]byte(tc.signingKey))
	if err != nil {
		return fmt.Errorf("sign access token: %w", err)
	}
	tc.AccessToken = signed
	return nil
}

func (tc *TestContext) ClearAccessToken() {
	tc.AccessToken = ""
}

// POST makes a POST request and stores the response
func (tc *TestContext) POST(path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	return tc.do(http.MethodPost, path, bytes.NewReader(data))
}

// GET makes a GET request and stores the response
func (tc *TestContext) GET(path string) error {
	return tc.do(http.MethodGet, path, nil)
}

func (tc *TestContext) DELETE(path string) error {
	return tc.do(http.MethodDelete, path, nil)
}

func (tc *TestContext) do(method, path string, body io.Reader) error {
	req, err := http.NewRequestWithContext(context.Background(), method, tc.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tc.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.AccessToken)
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}

	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

// GetResponseField extracts a top-level field from the JSON response
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var data map[string]any
	if err := json.Unmarshal(tc.LastResponseBody, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	value, ok := data[field]
	if !ok {
		return nil, fmt.Errorf("field %s not found in response", field)
	}
	return value, nil
}

// ResponseContains checks if the response body contains a field or text
func (tc *TestContext) ResponseContains(text string) bool {
	if strings.Contains(string(tc.LastResponseBody), text) {
		return true
	}
	var data map[string]any
	if err := json.Unmarshal(tc.LastResponseBody, &data); err == nil {
		if _, ok := data[text]; ok {
			return true
		}
	}
	return false
}

// Remember stores a value under name for later steps in the scenario.
func (tc *TestContext) Remember(name, value string) {
	tc.remembered[name] = value
}

func (tc *TestContext) Recall(name string) (string, bool) {
	v, ok := tc.remembered[name]
	return v, ok
}

func (tc *TestContext) GetLastResponseStatus() int {
	if tc.LastResponse == nil {
		return 0
	}
	return tc.LastResponse.StatusCode
}

func (tc *TestContext) GetLastResponseBody() []byte {
	return tc.LastResponseBody
}
