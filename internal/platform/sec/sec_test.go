// Copyright (c) 2026 SOYO. All rights reserved.

package sec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	service, err := NewTokenService("access-secret", "refresh-secret", "soyo.test")
	require.NoError(t, err)
	return service
}

func TestNewTokenService_RejectsBadSecrets(t *testing.T) {
	_, err := NewTokenService("", "refresh-secret", "soyo.test")
	assert.Error(t, err, "empty access secret must be rejected")

	_, err = NewTokenService("access-secret", "", "soyo.test")
	assert.Error(t, err, "empty refresh secret must be rejected")

	_, err = NewTokenService("same-secret", "same-secret", "soyo.test")
	assert.Error(t, err, "identical secrets must be rejected")
}

func TestAccessToken_RoundTrip(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.GenerateAccessToken("user-1", time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "soyo.test", claims.Issuer)
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.GenerateAccessToken("user-1", -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyAccessToken_Malformed(t *testing.T) {
	service := newTestTokenService(t)

	_, err := service.VerifyAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	_, err = service.VerifyAccessToken("")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

// A refresh token must never verify as an access token, and vice versa.
// The two token kinds are signed with distinct secrets.
func TestTokenKinds_DoNotCrossVerify(t *testing.T) {
	service := newTestTokenService(t)

	refreshToken, err := service.GenerateRefreshToken("user-1", time.Hour)
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(refreshToken)
	assert.ErrorIs(t, err, ErrTokenMalformed)

	accessToken, err := service.GenerateAccessToken("user-1", time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyRefreshToken(accessToken)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestPasswordHash_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, CheckPasswordHash("wrong password", hash))
	assert.False(t, CheckPasswordHash("correct horse battery staple", "not-a-hash"))
}

func TestHashToken_Deterministic(t *testing.T) {
	first := HashToken("some-refresh-token")
	second := HashToken("some-refresh-token")
	other := HashToken("another-refresh-token")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Len(t, first, 64, "sha-256 hex digest is 64 characters")
}
