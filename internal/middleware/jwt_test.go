package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestHS256Validator_Validate(t *testing.T) {
	v, err := NewHS256Validator("test-secret")
	require.NoError(t, err)

	now := time.Now()
	tokenStr := signHS256(t, "test-secret", jwt.MapClaims{
		"sub":                "g1",
		"iss":                "local-dev",
		"aud":                "restoration-tracker",
		"preferred_username": "jsmith",
		"identity_provider":  "idir",
		"email":              "jane@example.com",
		"name":               "Jane Smith",
		"iat":                now.Unix(),
		"exp":                now.Add(time.Hour).Unix(),
	})

	claims, err := v.Validate(context.Background(), tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "g1", claims.Subject)
	assert.Equal(t, "local-dev", claims.Issuer)
	assert.Equal(t, []string{"restoration-tracker"}, claims.Audience)
	assert.Equal(t, "jsmith", claims.PreferredUsername)
	assert.Equal(t, "idir", claims.IdentityProvider)
	require.NotNil(t, claims.Email)
	assert.Equal(t, "jane@example.com", *claims.Email)
	require.NotNil(t, claims.Name)
	assert.Equal(t, "Jane Smith", *claims.Name)
}

func TestHS256Validator_RejectsWrongSecret(t *testing.T) {
	v, err := NewHS256Validator("right-secret")
	require.NoError(t, err)

	tokenStr := signHS256(t, "wrong-secret", jwt.MapClaims{
		"sub": "g1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err = v.Validate(context.Background(), tokenStr)
	assert.Error(t, err)
}

func TestHS256Validator_RejectsExpiredToken(t *testing.T) {
	v, err := NewHS256Validator("test-secret")
	require.NoError(t, err)

	tokenStr := signHS256(t, "test-secret", jwt.MapClaims{
		"sub": "g1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err = v.Validate(context.Background(), tokenStr)
	assert.Error(t, err)
}

func TestHS256Validator_RejectsUnsignedToken(t *testing.T) {
	v, err := NewHS256Validator("test-secret")
	require.NoError(t, err)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "g1"})
	unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = v.Validate(context.Background(), unsigned)
	assert.Error(t, err)
}

func TestHS256Validator_AudienceList(t *testing.T) {
	v, err := NewHS256Validator("test-secret")
	require.NoError(t, err)

	tokenStr := signHS256(t, "test-secret", jwt.MapClaims{
		"sub": "g1",
		"aud": []string{"a", "b"},
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	claims, err := v.Validate(context.Background(), tokenStr)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, claims.Audience)
}

func TestNewHS256Validator_RequiresSecret(t *testing.T) {
	_, err := NewHS256Validator("")
	assert.Error(t, err)
}
