package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-auth-tests"

func signToken(t *testing.T, secret string, mutate func(jwt.MapClaims)) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": "42",
		"iss": TokenIssuer,
		"aud": TokenAudience,
		"jti": "test-jti",
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	if mutate != nil {
		mutate(claims)
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParseUserToken(t *testing.T) {
	t.Parallel()
	token := signToken(t, testSecret, nil)

	claims, err := ParseUserToken(token, testSecret)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "test-jti", claims.JTI)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestParseUserToken_Rejections(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		token string
	}{
		{"Garbage", "not.a.token"},
		{"Wrong Secret", signToken(t, "some-other-secret", nil)},
		{"Expired", signToken(t, testSecret, func(c jwt.MapClaims) {
			c["exp"] = time.Now().Add(-time.Hour).Unix()
		})},
		{"Wrong Issuer", signToken(t, testSecret, func(c jwt.MapClaims) {
			c["iss"] = "someone-else"
		})},
		{"Wrong Audience", signToken(t, testSecret, func(c jwt.MapClaims) {
			c["aud"] = "other-client"
		})},
		{"Missing Subject", signToken(t, testSecret, func(c jwt.MapClaims) {
			delete(c, "sub")
		})},
		{"Non-Numeric Subject", signToken(t, testSecret, func(c jwt.MapClaims) {
			c["sub"] = "abc"
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUserToken(tt.token, testSecret)
			assert.Error(t, err)
		})
	}
}

func TestParseUserToken_RejectsUnsignedAlgorithm(t *testing.T) {
	t.Parallel()
	claims := jwt.MapClaims{
		"sub": "42",
		"iss": TokenIssuer,
		"aud": TokenAudience,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, parseErr := ParseUserToken(token, testSecret)
	assert.Error(t, parseErr)
}

func TestParseUserToken_MissingJTIIsTolerated(t *testing.T) {
	t.Parallel()
	token := signToken(t, testSecret, func(c jwt.MapClaims) {
		delete(c, "jti")
	})

	claims, err := ParseUserToken(token, testSecret)
	require.NoError(t, err)
	assert.Empty(t, claims.JTI)
}
