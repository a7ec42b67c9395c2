package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewService("test-session-secret-123456789", time.Hour)

	tokenString, err := svc.Generate("officer@makassar.go.id", "Kota Makassar", "upstream-access-token")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := svc.Validate(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "officer@makassar.go.id", claims.Email)
	assert.Equal(t, "Kota Makassar", claims.Region)
	assert.Equal(t, "upstream-access-token", claims.AccessToken)
	assert.Equal(t, "officer@makassar.go.id", claims.Subject)
}

func TestValidate_WrongSecret(t *testing.T) {
	svc := NewService("correct-secret", time.Hour)
	other := NewService("other-secret", time.Hour)

	tokenString, err := svc.Generate("a@b.c", "Kota Parepare", "tok")
	require.NoError(t, err)

	_, err = other.Validate(tokenString)
	assert.Error(t, err)
}

func TestValidate_Expired(t *testing.T) {
	svc := NewService("test-secret", -time.Minute)

	tokenString, err := svc.Generate("a@b.c", "Kabupaten Gowa", "tok")
	require.NoError(t, err)

	_, err = svc.Validate(tokenString)
	assert.Error(t, err)
	assert.True(t, svc.IsExpired(tokenString))
}

func TestValidate_Garbage(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	_, err := svc.Validate("not-a-token")
	assert.Error(t, err)
	assert.True(t, svc.IsExpired("not-a-token"))
}
