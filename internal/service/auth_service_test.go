package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-edge-api/internal/models"
	"github.com/noah-isme/lms-edge-api/pkg/config"
)

func signTestToken(t *testing.T, secret string, claims models.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateTokenRoundTrip(t *testing.T) {
	svc := NewAuthService(config.AuthConfig{TokenSecret: "secret"})
	raw := signTestToken(t, "secret", models.Claims{
		UserID: "user-1",
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := svc.ValidateToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := NewAuthService(config.AuthConfig{TokenSecret: "secret"})
	raw := signTestToken(t, "other-secret", models.Claims{UserID: "user-1"})

	_, err := svc.ValidateToken(raw)
	require.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewAuthService(config.AuthConfig{TokenSecret: "secret"})
	raw := signTestToken(t, "secret", models.Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err := svc.ValidateToken(raw)
	require.Error(t, err)
}

func TestValidateTokenMissingUser(t *testing.T) {
	svc := NewAuthService(config.AuthConfig{TokenSecret: "secret"})
	raw := signTestToken(t, "secret", models.Claims{})

	_, err := svc.ValidateToken(raw)
	require.Error(t, err)
}
