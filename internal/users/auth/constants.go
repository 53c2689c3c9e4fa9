// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// Without refresh tokens a leaked access token cannot be revoked,
	// so the window stays short.
	AccessTokenTTL = 1 * time.Hour

	// ConfirmationCodeTTL is the validity window of an emailed signup code.
	// Long-lived (24 hours) as users might not check email immediately.
	ConfirmationCodeTTL = 24 * time.Hour

	// SignupResendCooldown is the minimum interval between confirmation
	// emails for one address, enforced via Redis.
	SignupResendCooldown = 1 * time.Minute
)
