package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT("42", "customer", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "customer", claims.Role)
}

func TestParseJWT_Expired(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT("42", "customer", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token)
	assert.Error(t, err)
}

func TestParseJWT_WrongSecret(t *testing.T) {
	SetJWTSecret("first")
	token, err := GenerateJWT("7", "admin", time.Hour)
	require.NoError(t, err)

	SetJWTSecret("second")
	_, err = ParseJWT(token)
	assert.Error(t, err)
}
