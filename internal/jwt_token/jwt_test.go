package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustlink/pkg/domain"
	dErrors "trustlink/pkg/domain-errors"
)

var jwtService = NewJWTService("test-signing-key", "test-issuer", "test-audience")

func testPrincipal(t *testing.T) domain.Principal {
	t.Helper()
	p, err := domain.ParsePrincipal("0x8ba1f109551bd432803012645ac136ddd64dba72")
	require.NoError(t, err)
	return p
}

func Test_GenerateAccessToken(t *testing.T) {
	principal := testPrincipal(t)

	token, err := jwtService.GenerateAccessToken(principal, time.Hour)
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, principal.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func Test_ValidateToken_Rejections(t *testing.T) {
	principal := testPrincipal(t)

	expired, err := jwtService.GenerateAccessToken(principal, -time.Hour)
	require.NoError(t, err)
	otherKey, err := NewJWTService("other-key", "test-issuer", "test-audience").GenerateAccessToken(principal, time.Hour)
	require.NoError(t, err)
	otherAudience, err := NewJWTService("test-signing-key", "test-issuer", "someone-else").GenerateAccessToken(principal, time.Hour)
	require.NoError(t, err)
	otherIssuer, err := NewJWTService("test-signing-key", "evil", "test-audience").GenerateAccessToken(principal, time.Hour)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		message string
	}{
		{"garbage", "invalid-token-string", "invalid token"},
		{"expired", expired, "token has expired"},
		{"wrong key", otherKey, "invalid token"},
		{"wrong audience", otherAudience, "invalid token"},
		{"wrong issuer", otherIssuer, "invalid token"},
		{"alg none", none, "invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := jwtService.ValidateToken(tt.token)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func Test_Adapter(t *testing.T) {
	principal := testPrincipal(t)
	token, err := jwtService.GenerateAccessToken(principal, time.Minute)
	require.NoError(t, err)

	claims, err := NewJWTServiceAdapter(jwtService).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, principal.String(), claims.Subject)
	assert.NotEmpty(t, claims.JTI)
}
