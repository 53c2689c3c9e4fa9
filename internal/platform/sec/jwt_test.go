// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/arvio/internal/platform/sec"
)

/*
TestTokenService_RoundTrip signs an access token and verifies that all
identity claims survive the trip.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	svc := sec.NewTokenServiceFromKeys(key, "arvio.app")

	token, err := svc.GenerateAccessToken("user-1", "reviewer", "moderator", true, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := svc.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", parsed.UserID)
	assert.Equal(t, "reviewer", parsed.Username)
	assert.Equal(t, "moderator", parsed.Role)
	assert.True(t, parsed.IsStaff)
	assert.Equal(t, "arvio.app", parsed.Issuer)
}

/*
TestTokenService_Expired rejects tokens past their lifetime.
*/
func TestTokenService_Expired(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	svc := sec.NewTokenServiceFromKeys(key, "arvio.app")

	token, err := svc.GenerateAccessToken("user-1", "reviewer", "user", false, -time.Minute)
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_WrongKey rejects tokens signed by a different key pair.
*/
func TestTokenService_WrongKey(t *testing.T) {
	signer, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	token, err := sec.NewTokenServiceFromKeys(signer, "arvio.app").
		GenerateAccessToken("user-1", "reviewer", "user", false, time.Hour)
	require.NoError(t, err)

	_, err = sec.NewTokenServiceFromKeys(other, "arvio.app").VerifyToken(token)
	assert.Error(t, err)
}
