// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles user administration and self-service profiles.

Administrators manage the full member directory (create, list, update,
delete, and role assignment); every authenticated member can read and
edit their own profile through the /me surface.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Authorization: Role checks happen at the routing layer; the /me
    surface additionally pins the role so members cannot promote themselves.
*/
package account

import (
	"context"

	"github.com/taibuivan/arvio/internal/users/auth"
	"github.com/taibuivan/arvio/pkg/pagination"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for the member directory.
type AccountRepository interface {
	/*
		List returns a page of accounts, optionally filtered by a username
		substring search.

		Parameters:
		  - context: context.Context
		  - search: string (empty means no filter)
		  - params: pagination.Params

		Returns:
		  - []*auth.User: Page of accounts ordered by username
		  - int: Total matching count
		  - error: Retrieval failures
	*/
	List(context context.Context, search string, params pagination.Params) ([]*auth.User, int, error)

	/*
		FindByUsername retrieves an account by its unique username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*auth.User, error)

	/*
		FindByID retrieves an account by its primary key.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		Create persists an administrator-provisioned account.

		Parameters:
		  - context: context.Context
		  - user: *auth.User

		Returns:
		  - error: Constraint violations or storage failures
	*/
	Create(context context.Context, user *auth.User) error

	/*
		Update modifies the mutable fields of an existing account.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		Delete permanently removes an account and, via cascading foreign
		keys, everything it authored.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Execution failures
	*/
	Delete(context context.Context, id string) error
}
