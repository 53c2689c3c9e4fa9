// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testCodec(at time.Time, ttl time.Duration) *ConfirmationCodec {
	codec := NewConfirmationCodec("test-secret", ttl)
	codec.now = func() time.Time { return at }
	return codec
}

/*
TestConfirmationCodec_RoundTrip checks that a freshly issued code
verifies for the same account and fails for anyone else.
*/
func TestConfirmationCodec_RoundTrip(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := testCodec(issued, 24*time.Hour)

	code := codec.Generate("user-1", "tai@arvio.app", time.Time{})

	assert.True(t, codec.Verify(code, "user-1", "tai@arvio.app", time.Time{}))
	assert.False(t, codec.Verify(code, "user-2", "tai@arvio.app", time.Time{}))
	assert.False(t, codec.Verify(code, "user-1", "other@arvio.app", time.Time{}))
}

/*
TestConfirmationCodec_Expiry checks the TTL window on both ends.
*/
func TestConfirmationCodec_Expiry(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := testCodec(issued, time.Hour)

	code := codec.Generate("user-1", "tai@arvio.app", time.Time{})

	// Still inside the window.
	codec.now = func() time.Time { return issued.Add(59 * time.Minute) }
	assert.True(t, codec.Verify(code, "user-1", "tai@arvio.app", time.Time{}))

	// Aged out.
	codec.now = func() time.Time { return issued.Add(61 * time.Minute) }
	assert.False(t, codec.Verify(code, "user-1", "tai@arvio.app", time.Time{}))

	// Future-dated codes never verify.
	codec.now = func() time.Time { return issued.Add(-time.Minute) }
	assert.False(t, codec.Verify(code, "user-1", "tai@arvio.app", time.Time{}))
}

/*
TestConfirmationCodec_StateBinding checks that a successful exchange
(which stamps the account) kills every previously issued code.
*/
func TestConfirmationCodec_StateBinding(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := testCodec(issued, 24*time.Hour)

	code := codec.Generate("user-1", "tai@arvio.app", time.Time{})
	assert.True(t, codec.Verify(code, "user-1", "tai@arvio.app", time.Time{}))

	confirmedAt := issued.Add(5 * time.Minute)
	assert.False(t, codec.Verify(code, "user-1", "tai@arvio.app", confirmedAt))

	// A code issued against the new state works again.
	codec.now = func() time.Time { return confirmedAt.Add(time.Minute) }
	fresh := codec.Generate("user-1", "tai@arvio.app", confirmedAt)
	assert.True(t, codec.Verify(fresh, "user-1", "tai@arvio.app", confirmedAt))
}

/*
TestConfirmationCodec_Malformed rejects garbage input outright.
*/
func TestConfirmationCodec_Malformed(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := testCodec(issued, time.Hour)

	assert.False(t, codec.Verify("", "user-1", "tai@arvio.app", time.Time{}))
	assert.False(t, codec.Verify("nodash", "user-1", "tai@arvio.app", time.Time{}))
	assert.False(t, codec.Verify("!!bad!!-deadbeef", "user-1", "tai@arvio.app", time.Time{}))
}

/*
TestConfirmationCodec_ResendIdempotent checks that regenerating for an
unchanged account at the same instant yields the identical code.
*/
func TestConfirmationCodec_ResendIdempotent(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := testCodec(issued, time.Hour)

	first := codec.Generate("user-1", "tai@arvio.app", time.Time{})
	second := codec.Generate("user-1", "tai@arvio.app", time.Time{})
	assert.Equal(t, first, second)
}
