// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"net/http"

	"github.com/taibuivan/arvio/internal/platform/apperr"
)

/*
Access policies for the Arvio API.

Each policy is a pure function from (actor claims, HTTP method, resource
facts) to an allow/deny decision, so the full permission matrix is unit
testable without a router or database. Endpoint-level policies are applied
by middleware; the per-object authorship policy is applied by services
after the resource has been loaded, which keeps lookups returning 404
before any 403 can leak resource existence.
*/

// IsSafeMethod reports whether the HTTP method only reads state.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// IsAdmin reports whether the actor holds admin capability.
//
// Staff accounts count as admin regardless of the stored role, so
// operational accounts always keep full access. The capability is derived
// here, never persisted, so it cannot drift from the role enum.
func IsAdmin(claims *AuthClaims) bool {
	if claims == nil {
		return false
	}
	return Role(claims.Role) == RoleAdmin || claims.IsStaff
}

// IsModerator reports whether the actor holds at least moderator capability.
func IsModerator(claims *AuthClaims) bool {
	if claims == nil {
		return false
	}
	return Role(claims.Role).AtLeast(RoleModerator) || claims.IsStaff
}

// AdminOrReadOnly gates catalog management (categories, genres, titles):
// anyone may read, only admins may mutate. These resources have no owner,
// so the decision needs no per-object facts.
func AdminOrReadOnly(claims *AuthClaims, method string) error {
	if IsSafeMethod(method) {
		return nil
	}
	if claims == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if !IsAdmin(claims) {
		return apperr.Forbidden("Insufficient permissions")
	}
	return nil
}

// AuthorModeratorAdminOrReadOnly gates review and comment mutation. It is
// an object-level decision: authorship differs per resource, so it must be
// evaluated against the loaded resource's author.
func AuthorModeratorAdminOrReadOnly(claims *AuthClaims, method, authorID string) error {
	if IsSafeMethod(method) {
		return nil
	}
	if claims == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if !CanMutateAuthored(claims, authorID) {
		return apperr.Forbidden("Insufficient permissions")
	}
	return nil
}

// CanMutateAuthored is the unsafe-method branch of
// [AuthorModeratorAdminOrReadOnly]: the author, any moderator, or any
// admin may mutate an authored resource.
func CanMutateAuthored(claims *AuthClaims, authorID string) bool {
	if claims == nil {
		return false
	}
	return IsModerator(claims) || IsAdmin(claims) || claims.UserID == authorID
}

// AdminOnly gates the user-management surface. Anonymous and non-admin
// actors are denied entirely, reads included.
func AdminOnly(claims *AuthClaims) error {
	if claims == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if !IsAdmin(claims) {
		return apperr.Forbidden("Insufficient permissions")
	}
	return nil
}
