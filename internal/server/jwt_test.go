package server

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/brand-compliance/internal/config"
)

const testSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

func setupTestJWTService(_ *testing.T, expirationHours int) *JWTService {
	return NewJWTService(&config.JWTConfig{
		Secret:          testSecret,
		Issuer:          config.DefaultJWTIssuer,
		ExpirationHours: expirationHours,
	})
}

func signClaims(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: claims}).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := setupTestJWTService(t, 24)

	token, err := service.GenerateToken("design-tool")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "design-tool", claims.Subject)
	assert.Equal(t, config.DefaultJWTIssuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestJWTService_UniqueTokenIDs(t *testing.T) {
	service := setupTestJWTService(t, 24)

	token1, err := service.GenerateToken("cli")
	require.NoError(t, err)
	token2, err := service.GenerateToken("cli")
	require.NoError(t, err)

	assert.NotEqual(t, token1, token2)
}

func TestJWTService_GenerateToken_EmptySubject(t *testing.T) {
	_, err := setupTestJWTService(t, 24).GenerateToken("")
	assert.Error(t, err)
}

func TestJWTService_ValidateToken_Errors(t *testing.T) {
	service := setupTestJWTService(t, 24)
	now := time.Now()
	valid := jwt.RegisteredClaims{
		Subject:   "cli",
		Issuer:    config.DefaultJWTIssuer,
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))
	expired.IssuedAt = jwt.NewNumericDate(now.Add(-2 * time.Hour))
	wrongIssuer := valid
	wrongIssuer.Issuer = "someone-else"
	noExpiry := valid
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name     string
		token    string
		contains string
	}{
		{name: "empty", token: "", contains: "empty"},
		{name: "one part", token: "invalid", contains: "malformed"},
		{name: "four parts", token: "invalid.token.format.extra", contains: "malformed"},
		{name: "wrong secret", token: signClaims(t, "different-secret-key-for-jwt-signing-minimum-32-bytes", valid), contains: "signature"},
		{name: "expired", token: signClaims(t, testSecret, expired), contains: "expired"},
		{name: "wrong issuer", token: signClaims(t, testSecret, wrongIssuer), contains: "issuer"},
		{name: "missing expiry", token: signClaims(t, testSecret, noExpiry), contains: "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateToken(tt.token)
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestJWTService_DefaultIssuer(t *testing.T) {
	service := NewJWTService(&config.JWTConfig{Secret: testSecret, ExpirationHours: 1})

	token, err := service.GenerateToken("cli")
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultJWTIssuer, claims.Issuer)
}

func TestJWTService_AsTokenValidator(t *testing.T) {
	service := setupTestJWTService(t, 1)
	token, err := service.GenerateToken("cli")
	require.NoError(t, err)

	claims, err := service.AsTokenValidator().ValidateToken(token)
	require.NoError(t, err)
	subject, err := claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "cli", subject)
}
