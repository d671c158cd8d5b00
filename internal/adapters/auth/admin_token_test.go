package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roysafi/poll/internal/core/ports"
)

func TestAdminTokens(t *testing.T) {
	tokens, err := NewAdminTokens("test-secret")
	require.NoError(t, err)

	token, err := tokens.Issue("campaign-office", time.Hour)
	require.NoError(t, err)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "campaign-office", claims.Subject)
}

func TestAdminTokens_Rejects(t *testing.T) {
	tokens, err := NewAdminTokens("test-secret")
	require.NoError(t, err)

	other, err := NewAdminTokens("other-secret")
	require.NoError(t, err)
	foreign, err := other.Issue("someone", time.Hour)
	require.NoError(t, err)

	expired, err := tokens.Issue("campaign-office", -time.Minute)
	require.NoError(t, err)

	noRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "voter",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "campaign-office",
		"role": "admin",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":        "not-a-token",
		"wrong secret":   foreign,
		"expired":        expired,
		"missing role":   noRole,
		"missing expiry": noExpiry,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Verify(token)
			assert.ErrorIs(t, err, ports.ErrInvalidToken)
		})
	}
}

func TestNewAdminTokens_RequiresSecret(t *testing.T) {
	_, err := NewAdminTokens("")
	assert.Error(t, err)
}
