package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hangar/pkg/domain"
	dErrors "hangar/pkg/domain-errors"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService("test-signing-key", "hangar", time.Hour)

	token, err := svc.GenerateAccessToken("alice")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.AccountID("alice"), claims.Account)
}

func TestValidateRejectsWrongKey(t *testing.T) {
	token, err := NewService("key-one", "hangar", time.Hour).GenerateAccessToken("alice")
	require.NoError(t, err)

	_, err = NewService("key-two", "hangar", time.Hour).ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := NewService("test-signing-key", "hangar", -time.Minute)
	token, err := svc.GenerateAccessToken("alice")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	token, err := NewService("test-signing-key", "other", time.Hour).GenerateAccessToken("alice")
	require.NoError(t, err)

	_, err = NewService("test-signing-key", "hangar", time.Hour).ValidateToken(token)
	require.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := NewService("test-signing-key", "hangar", time.Hour).ValidateToken("not-a-token")
	require.Error(t, err)
}
