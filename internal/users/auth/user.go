// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the passwordless identity protocol.

Members never hold a password. Signup records (or re-acknowledges) an
account and emails a confirmation code; the token endpoint exchanges a
valid code for a signed JWT access token.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no
external dependencies and encapsulate all business rules related to
user identity.
*/
package auth

import (
	"time"

	"github.com/taibuivan/arvio/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Arvio platform.
type User struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	Bio       string   `json:"bio,omitempty"`
	Role      sec.Role `json:"role"`

	// IsStaff grants admin-level access regardless of Role. It can only be
	// set operationally (never through the API) and is omitted from JSON.
	IsStaff bool `json:"-"`

	// ConfirmedAt is the moment of the most recent successful code
	// exchange. It doubles as the state the confirmation codec binds
	// codes to: stamping it invalidates every previously issued code.
	ConfirmedAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldConfirmationCode = "confirmation_code"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldBio              = "bio"
	FieldRole             = "role"
	FieldToken            = "token"
	FieldMessage          = "message"
)

// # Input Constraints

// Upper bounds for identity fields, matching the column definitions.
const (
	MaxUsernameLen = 150
	MaxEmailLen    = 254
	MaxNamePartLen = 150
	MaxBioLen      = 1000
)
