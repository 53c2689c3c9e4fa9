// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the core identity and access management (IAM) system.

It handles the passwordless enrollment protocol: signup issues an emailed
confirmation code, and the token endpoint exchanges that code for an
RSA-signed JWT.

Architecture:

  - Service: Orchestrates business logic (Signup, Token exchange).
  - Repository: Abstracted interfaces for Postgres (Users) and Redis (Throttle).
  - Security: HMAC-derived confirmation codes and RSA-signed JWTs.

The package ensures that identity data remains consistent and secure throughout
the platform's lifecycle.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/arvio/internal/platform/apperr"
	"github.com/taibuivan/arvio/internal/platform/ctxutil"
	"github.com/taibuivan/arvio/internal/platform/dberr"
	"github.com/taibuivan/arvio/internal/platform/mail"
	"github.com/taibuivan/arvio/internal/platform/sec"
	"github.com/taibuivan/arvio/pkg/pointer"
	"github.com/taibuivan/arvio/pkg/uuid"
)

// errInvalidCode rejects a forged, stale, or expired confirmation code.
// The code is the credential here, so a bad one is 401 like a bad bearer
// token, with its own machine-readable identifier.
func errInvalidCode() *apperr.AppError {
	return &apperr.AppError{
		Code:       "INVALID_CONFIRMATION_CODE",
		Message:    "Confirmation code is invalid or expired",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - role: The role of the account.
	//   - isStaff: Whether the account carries the staff override.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, username, role string, isStaff bool, timeToLive time.Duration) (string, error)
}

// CodeCodec defines the contract for deriving and checking confirmation codes.
type CodeCodec interface {
	// Generate derives the code currently valid for the account state.
	Generate(userID, email string, state time.Time) string
	// Verify reports whether code is authentic, unexpired, and current.
	Verify(code, userID, email string, state time.Time) bool
}

// Service implements the signup and token-exchange use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to code derivation,
// signup, or exchange logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	throttle       SignupThrottle
	codec          CodeCodec
	tokenProvider  TokenProvider
	mailer         mail.Mailer
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	throttle SignupThrottle,
	codec CodeCodec,
	tokenProv TokenProvider,
	mailer mail.Mailer,
) *Service {
	return &Service{
		userRepository: userRepo,
		throttle:       throttle,
		codec:          codec,
		tokenProvider:  tokenProv,
		mailer:         mailer,
	}
}

// # Signup Flow

// SignupInput holds the data required to enroll (or re-acknowledge) a member.
type SignupInput struct {
	Username string
	Email    string
}

/*
Signup registers a new account or re-sends the confirmation code to an
existing one.

Description: When the (username, email) pair matches an existing account
exactly, the operation is an idempotent resend. A partial match — either
identifier already bound to a different account — is a conflict.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *User: Created or re-acknowledged entity
  - err: Conflict (if identity is partially taken) or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*User, error) {

	// Only a not-found answer means "absent". Anything else is a storage
	// failure and must not be mistaken for a taken identifier.
	byUsername, usernameErr := service.userRepository.FindByUsername(context, input.Username)
	if usernameErr != nil && apperr.As(usernameErr) == nil {
		return nil, fmt.Errorf("auth_service_username_lookup_failed: %w", usernameErr)
	}

	byEmail, emailErr := service.userRepository.FindByEmail(context, input.Email)
	if emailErr != nil && apperr.As(emailErr) == nil {
		return nil, fmt.Errorf("auth_service_email_lookup_failed: %w", emailErr)
	}

	// Exact pair match: the member is asking for their code again.
	if usernameErr == nil && emailErr == nil && byUsername.ID == byEmail.ID {
		service.sendConfirmationCode(context, byUsername)
		return byUsername, nil
	}

	// Partial matches bind one identifier to a different account.
	if usernameErr == nil {
		return nil, apperr.Conflict("Username is already taken")
	}
	if emailErr == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:       uuid.New(),
		Username: input.Username,
		Email:    input.Email,
		Role:     sec.RoleUser,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		// Two first signups for the same pair can both pass the lookups
		// above; the unique constraints decide the winner.
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Username or email is already registered")
		}
		return nil, fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	service.sendConfirmationCode(context, user)

	return user, nil
}

// sendConfirmationCode derives the account's current code and emails it,
// honoring the per-address cooldown.
//
// Signup success never depends on delivery: a still-active cooldown skips
// the mail, a throttle outage fails open, and mailer errors are logged
// and swallowed. The code is recomputable, so the member can always ask
// again.
func (service *Service) sendConfirmationCode(context context.Context, user *User) {

	allowed, err := service.throttle.AcquireSendSlot(context, user.Email, SignupResendCooldown)
	if err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "confirmation_throttle_unavailable",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		allowed = true
	}
	if !allowed {
		ctxutil.GetLogger(context).InfoContext(context, "confirmation_mail_skipped_cooldown",
			slog.String("user_id", user.ID),
		)
		return
	}

	code := service.codec.Generate(user.ID, user.Email, pointer.Val(user.ConfirmedAt))

	body := fmt.Sprintf(
		"Hello %s,\n\nYour Arvio confirmation code is:\n\n    %s\n\nExchange it at POST /api/v1/auth/token to receive your access token.\n",
		user.Username, code,
	)

	if err := service.mailer.Send(context, user.Email, "Your Arvio confirmation code", body); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "confirmation_mail_failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}
}

// # Token Exchange Flow

// TokenInput defines the credentials for a code-for-token exchange.
type TokenInput struct {
	Username         string
	ConfirmationCode string
}

// AccessGrant represents a successfully issued access token.
type AccessGrant struct {
	Token string
	User  *User
}

/*
Token exchanges a valid confirmation code for a JWT access token.

Description: Verifies the code against the account's current state, stamps
the account (retiring all previously issued codes), and signs an access
token carrying the member's identity and role.

Parameters:
  - context: context.Context
  - input: TokenInput

Returns:
  - *AccessGrant: Transport-ready token and user
  - err: NotFound (unknown username), invalid-code, or storage failures
*/
func (service *Service) Token(context context.Context, input TokenInput) (*AccessGrant, error) {

	// Unknown usernames are 404, not 400: the account is the resource here.
	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		return nil, apperr.NotFound("User")
	}

	if !service.codec.Verify(input.ConfirmationCode, user.ID, user.Email, pointer.Val(user.ConfirmedAt)) {
		return nil, errInvalidCode()
	}

	// Stamp the exchange. Every code bound to the previous state dies here.
	now := time.Now()
	if err := service.userRepository.StampConfirmed(context, user.ID, now); err != nil {
		return nil, fmt.Errorf("auth_service_stamp_failed: %w", err)
	}
	user.ConfirmedAt = &now

	accessToken, err := service.tokenProvider.GenerateAccessToken(
		user.ID, user.Username, string(user.Role), user.IsStaff, AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &AccessGrant{Token: accessToken, User: user}, nil
}
