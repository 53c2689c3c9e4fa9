// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/arvio/internal/platform/apperr"
	"github.com/taibuivan/arvio/internal/platform/dberr"
	"github.com/taibuivan/arvio/internal/platform/sec"
	"github.com/taibuivan/arvio/internal/users/auth"
	"github.com/taibuivan/arvio/pkg/pagination"
	"github.com/taibuivan/arvio/pkg/uuid"
)

// # Service Layer

// Service orchestrates business logic for the member directory and the
// self-service profile surface.
type Service struct {
	accountRepository AccountRepository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(accountRepo AccountRepository, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		logger:            logger,
	}
}

// # Directory Administration

/*
List returns a page of accounts, optionally filtered by username search.

Parameters:
  - context: context.Context
  - search: string
  - params: pagination.Params

Returns:
  - []*auth.User: Page of accounts
  - int: Total matching count
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, search string, params pagination.Params) ([]*auth.User, int, error) {
	users, total, err := service.accountRepository.List(context, search, params)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, total, nil
}

// CreateInput holds the fields an administrator provisions directly.
type CreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      sec.Role
}

/*
Create provisions a new account with an explicit role.

Description: Unlike self-signup, administrator-created accounts may start
at any rung of the role ladder. Uniqueness is pre-checked and backed by
the database constraints for the concurrent case.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *auth.User: Created entity
  - error: Conflict or storage failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*auth.User, error) {

	if _, err := service.accountRepository.FindByUsername(context, input.Username); err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	user := &auth.User{
		ID:        uuid.New(),
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	}

	if err := service.accountRepository.Create(context, user); err != nil {
		// Concurrent duplicate slipped past the pre-check.
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Username or email is already taken")
		}
		return nil, fmt.Errorf("account_service_create_failed: %w", err)
	}

	service.logger.Info("account_created",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

/*
GetByUsername retrieves a single account for administration.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *auth.User: The account
  - error: Not found or execution failures
*/
func (service *Service) GetByUsername(context context.Context, username string) (*auth.User, error) {
	return service.accountRepository.FindByUsername(context, username)
}

// UpdateInput defines the fields an administrator may patch. Nil means
// "leave unchanged".
type UpdateInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *sec.Role
}

/*
UpdateByUsername applies a partial set of changes to an account,
including role reassignment.

Parameters:
  - context: context.Context
  - username: string
  - input: UpdateInput

Returns:
  - *auth.User: The updated account
  - error: Not found, validation, or storage failures
*/
func (service *Service) UpdateByUsername(context context.Context, username string, input UpdateInput) (*auth.User, error) {

	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}

	service.applyProfilePatch(user, input.Email, input.FirstName, input.LastName, input.Bio)

	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   auth.FieldRole,
				Message: "Must be one of: user, moderator, admin",
			})
		}
		user.Role = *input.Role
	}

	if err := service.accountRepository.Update(context, user); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Email is already registered")
		}
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("account_updated", slog.String("user_id", user.ID))

	return user, nil
}

/*
DeleteByUsername permanently removes an account.

Description: Reviews and comments authored by the member go with it via
foreign-key cascades.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - error: Not found or execution failures
*/
func (service *Service) DeleteByUsername(context context.Context, username string) error {

	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		return err
	}

	if err := service.accountRepository.Delete(context, user.ID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	service.logger.Warn("account_deleted", slog.String("user_id", user.ID))

	return nil
}

// # Self-Service Profile

/*
GetProfile retrieves the full private identity of the calling member.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	return service.accountRepository.FindByID(context, userID)
}

// UpdateProfileInput defines the subset of fields a member may change on
// their own account. The role is deliberately absent.
type UpdateProfileInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
}

/*
UpdateProfile applies a partial set of changes to the caller's own account.

Description: The role field is pinned — whatever the request body claims,
a member keeps the role an administrator gave them.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated profile
  - error: Update or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	service.applyProfilePatch(user, input.Email, input.FirstName, input.LastName, input.Bio)

	if err := service.accountRepository.Update(context, user); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Email is already registered")
		}
		return nil, fmt.Errorf("account_service_update_profile_failed: %w", err)
	}

	service.logger.Info("profile_updated", slog.String("user_id", userID))

	return user, nil
}

// applyProfilePatch copies the provided (non-nil) profile fields onto the entity.
func (service *Service) applyProfilePatch(user *auth.User, email, firstName, lastName, bio *string) {
	if email != nil {
		user.Email = *email
	}
	if firstName != nil {
		user.FirstName = *firstName
	}
	if lastName != nil {
		user.LastName = *lastName
	}
	if bio != nil {
		user.Bio = *bio
	}
}
