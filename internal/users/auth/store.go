// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		StampConfirmed records the moment of a successful code exchange.

		Description: Sets confirmedat to the given time, which retires every
		confirmation code issued against the previous account state.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - at: time.Time

		Returns:
		  - error: Persistence failures
	*/
	StampConfirmed(context context.Context, userID string, at time.Time) error
}

// # Volatile Data Access

// SignupThrottle limits how often confirmation emails go out per address.
type SignupThrottle interface {

	/*
		AcquireSendSlot reserves the right to email the given address.

		Description: Returns false when a send happened within the cooldown
		window. The reservation expires on its own.

		Parameters:
		  - context: context.Context
		  - email: string
		  - cooldown: time.Duration

		Returns:
		  - bool: Whether the caller may send
		  - error: Connectivity failures
	*/
	AcquireSendSlot(context context.Context, email string, cooldown time.Duration) (bool, error)
}
