// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/arvio/internal/platform/constants"
)

// # Signup Throttle

// RedisSignupThrottle implements SignupThrottle using Redis SETNX semantics.
type RedisSignupThrottle struct {
	client *redis.Client
}

// NewSignupThrottle creates a new Redis-backed SignupThrottle.
func NewSignupThrottle(client *redis.Client) *RedisSignupThrottle {
	return &RedisSignupThrottle{client: client}
}

/*
AcquireSendSlot reserves the right to email the given address.

Description: A single SET NX with TTL makes the check-and-reserve atomic,
so concurrent signups for the same address race safely. The key expires on
its own; nothing is ever cleaned up manually.

Parameters:
  - context: context.Context
  - email: string
  - cooldown: time.Duration

Returns:
  - bool: true when the caller won the slot
  - error: Connectivity failures
*/
func (throttle *RedisSignupThrottle) AcquireSendSlot(context context.Context, email string, cooldown time.Duration) (bool, error) {

	key := constants.RedisPrefixSignupCooldown + email

	acquired, err := throttle.client.SetNX(context, key, "1", cooldown).Result()
	if err != nil {
		return false, fmt.Errorf("redis_signup_throttle_failed: %w", err)
	}

	return acquired, nil
}
