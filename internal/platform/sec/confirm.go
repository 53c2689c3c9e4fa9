// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ConfirmationCodec derives and verifies the emailed confirmation codes
// that stand in for passwords during signup.
//
// # Design
//
// A code is an HMAC-SHA256 over (user ID, email, account state timestamp)
// plus an issue timestamp, formatted as "<ts-base36>-<mac-hex>". Codes are
// verified by recomputation, so no token table exists, they cannot be
// forged without the server secret, and they die on their own in two ways:
//
//   - the issue timestamp ages past the TTL window;
//   - the account state timestamp changes (a successful token exchange
//     stamps the account), which invalidates every previously issued code.
type ConfirmationCodec struct {
	secret []byte
	ttl    time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// NewConfirmationCodec creates a codec with the given server secret and
// validity window.
func NewConfirmationCodec(secret string, ttl time.Duration) *ConfirmationCodec {
	return &ConfirmationCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Generate derives the confirmation code currently valid for the account.
//
// state is the account's confirmation timestamp (zero until the first
// successful token exchange). Calling Generate repeatedly for an unchanged
// account within the same second yields the same code, which makes signup
// resends naturally idempotent.
func (codec *ConfirmationCodec) Generate(userID, email string, state time.Time) string {
	issuedAt := codec.now().Unix()
	return codec.encode(userID, email, state, issuedAt)
}

// Verify reports whether code is authentic, unexpired, and bound to the
// account's current state.
func (codec *ConfirmationCodec) Verify(code, userID, email string, state time.Time) bool {
	tsPart, macPart, found := strings.Cut(code, "-")
	if !found {
		return false
	}

	issuedAt, err := strconv.ParseInt(tsPart, 36, 64)
	if err != nil {
		return false
	}

	// Reject future-dated and expired codes.
	age := codec.now().Unix() - issuedAt
	if age < 0 || age > int64(codec.ttl.Seconds()) {
		return false
	}

	expected := codec.encode(userID, email, state, issuedAt)
	_, expectedMAC, _ := strings.Cut(expected, "-")
	return hmac.Equal([]byte(macPart), []byte(expectedMAC))
}

// encode builds the "<ts-base36>-<mac-hex>" form for a given issue time.
func (codec *ConfirmationCodec) encode(userID, email string, state time.Time, issuedAt int64) string {
	stateUnix := int64(0)
	if !state.IsZero() {
		stateUnix = state.Unix()
	}

	mac := hmac.New(sha256.New, codec.secret)
	fmt.Fprintf(mac, "%s|%s|%d|%d", userID, email, stateUnix, issuedAt)
	digest := mac.Sum(nil)

	// 16 MAC bytes keep the emailed code short while leaving a 128-bit
	// forgery margin.
	return strconv.FormatInt(issuedAt, 36) + "-" + hex.EncodeToString(digest[:16])
}
