package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidateJWT(t *testing.T) {
	token, err := IssueJWT("secret", "user-1", "a@b.co", "student", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "a@b.co", claims.Email)
	assert.Equal(t, "student", claims.Role)
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	token, err := IssueJWT("secret", "user-1", "a@b.co", "student", time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "other")
	assert.Error(t, err)
}

func TestValidateJWT_Expired(t *testing.T) {
	token, err := IssueJWT("secret", "user-1", "a@b.co", "student", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "secret")
	assert.Error(t, err)
}

func TestValidateJWT_Garbage(t *testing.T) {
	_, err := ValidateJWT("not-a-token", "secret")
	assert.Error(t, err)
}
