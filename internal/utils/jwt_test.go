package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedIDToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-sign-key"))
	require.NoError(t, err)

	return signed
}

func TestParseIDTokenClaims_FullClaimSet(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signedIDToken(t, jwt.MapClaims{
		"sub":   "user-118200",
		"email": "someone@example.com",
		"exp":   expiry.Unix(),
	})

	session, err := ParseIDTokenClaims(raw)

	require.NoError(t, err)
	assert.Equal(t, "user-118200", session.UserID)
	assert.Equal(t, "someone@example.com", session.Email)
	require.NotNil(t, session.ExpiresAt)
	assert.True(t, expiry.Equal(*session.ExpiresAt))
	assert.Empty(t, session.Token, "bearer token is set by the caller, not the parser")
}

func TestParseIDTokenClaims_SubjectOnly(t *testing.T) {
	raw := signedIDToken(t, jwt.MapClaims{"sub": "user-1"})

	session, err := ParseIDTokenClaims(raw)

	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
	assert.Empty(t, session.Email)
	assert.Nil(t, session.ExpiresAt)
}

func TestParseIDTokenClaims_MissingSubject(t *testing.T) {
	raw := signedIDToken(t, jwt.MapClaims{"email": "nobody@example.com"})

	_, err := ParseIDTokenClaims(raw)

	require.Error(t, err)
}

func TestParseIDTokenClaims_MalformedToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "empty string", token: ""},
		{name: "not a jwt", token: "definitely-not-a-jwt"},
		{name: "two segments", token: "aaaa.bbbb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseIDTokenClaims(tt.token)
			assert.Error(t, err)
		})
	}
}
