package auth

import (
	"testing"
	"time"

	"github.com/gdugdh24/sitter-presence-backend/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	token, exp, err := svc.Issue("sitter-1", domain.RoleSitter)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "sitter-1", claims.UserID)
	assert.Equal(t, domain.RoleSitter, claims.Role)
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenService(testSecret, time.Hour).Issue("u1", domain.RoleOwner)
	require.NoError(t, err)

	_, err = NewTokenService("another-secret-another-secret-xx", time.Hour).Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc := NewTokenService(testSecret, time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, _, err := svc.Issue("u1", domain.RoleOwner)
	require.NoError(t, err)

	_, err = NewTokenService(testSecret, time.Minute).Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_RejectsMissingRole(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewTokenService(testSecret, time.Hour).Verify(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	_, err := NewTokenService(testSecret, time.Hour).Verify("not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
