// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/arvio/internal/platform/apperr"
	"github.com/taibuivan/arvio/internal/platform/sec"
)

func claims(userID string, role sec.Role, staff bool) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: userID, Username: userID, Role: string(role), IsStaff: staff}
}

/*
TestIsAdmin verifies that admin privileges come from either the role
or the staff flag, and never from anything else.
*/
func TestIsAdmin(t *testing.T) {
	tests := []struct {
		name    string
		actor   *sec.AuthClaims
		isAdmin bool
	}{
		{"anonymous", nil, false},
		{"plain_user", claims("u1", sec.RoleUser, false), false},
		{"moderator", claims("m1", sec.RoleModerator, false), false},
		{"admin_role", claims("a1", sec.RoleAdmin, false), true},
		{"staff_user", claims("u2", sec.RoleUser, true), true},
		{"staff_moderator", claims("m2", sec.RoleModerator, true), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isAdmin, sec.IsAdmin(tt.actor))
		})
	}
}

/*
TestAdminOrReadOnly covers the reference-data policy: anyone may read,
only admins may write.
*/
func TestAdminOrReadOnly(t *testing.T) {
	tests := []struct {
		name     string
		actor    *sec.AuthClaims
		method   string
		wantCode string
	}{
		{"anonymous_read", nil, http.MethodGet, ""},
		{"anonymous_write", nil, http.MethodPost, "UNAUTHORIZED"},
		{"user_read", claims("u1", sec.RoleUser, false), http.MethodGet, ""},
		{"user_write", claims("u1", sec.RoleUser, false), http.MethodPost, "FORBIDDEN"},
		{"moderator_write", claims("m1", sec.RoleModerator, false), http.MethodDelete, "FORBIDDEN"},
		{"admin_write", claims("a1", sec.RoleAdmin, false), http.MethodPost, ""},
		{"staff_write", claims("u2", sec.RoleUser, true), http.MethodPatch, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sec.AdminOrReadOnly(tt.actor, tt.method)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantCode, ae.Code)
		})
	}
}

/*
TestAuthorModeratorAdminOrReadOnly covers the authored-content policy
used by reviews and comments.
*/
func TestAuthorModeratorAdminOrReadOnly(t *testing.T) {
	const authorID = "author-1"

	tests := []struct {
		name     string
		actor    *sec.AuthClaims
		method   string
		wantCode string
	}{
		{"anonymous_read", nil, http.MethodGet, ""},
		{"anonymous_write", nil, http.MethodPatch, "UNAUTHORIZED"},
		{"author_edits_own", claims(authorID, sec.RoleUser, false), http.MethodPatch, ""},
		{"stranger_edits", claims("other", sec.RoleUser, false), http.MethodPatch, "FORBIDDEN"},
		{"stranger_deletes", claims("other", sec.RoleUser, false), http.MethodDelete, "FORBIDDEN"},
		{"moderator_edits_any", claims("mod", sec.RoleModerator, false), http.MethodPatch, ""},
		{"admin_deletes_any", claims("adm", sec.RoleAdmin, false), http.MethodDelete, ""},
		{"staff_deletes_any", claims("stf", sec.RoleUser, true), http.MethodDelete, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sec.AuthorModeratorAdminOrReadOnly(tt.actor, tt.method, authorID)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantCode, ae.Code)
		})
	}
}

/*
TestAdminOnly verifies the user-administration gate.
*/
func TestAdminOnly(t *testing.T) {
	assert.Error(t, sec.AdminOnly(nil))
	assert.Error(t, sec.AdminOnly(claims("u1", sec.RoleUser, false)))
	assert.Error(t, sec.AdminOnly(claims("m1", sec.RoleModerator, false)))
	assert.NoError(t, sec.AdminOnly(claims("a1", sec.RoleAdmin, false)))
	assert.NoError(t, sec.AdminOnly(claims("u2", sec.RoleUser, true)))
}

/*
TestRole_AtLeast checks the role ordering used for ladder comparisons.
*/
func TestRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleModerator))
	assert.True(t, sec.RoleModerator.AtLeast(sec.RoleUser))
	assert.False(t, sec.RoleUser.AtLeast(sec.RoleModerator))
	assert.True(t, sec.RoleUser.AtLeast(sec.RoleUser))
}

/*
TestRole_Valid rejects unknown role names.
*/
func TestRole_Valid(t *testing.T) {
	assert.True(t, sec.RoleUser.Valid())
	assert.True(t, sec.RoleModerator.Valid())
	assert.True(t, sec.RoleAdmin.Valid())
	assert.False(t, sec.Role("superuser").Valid())
	assert.False(t, sec.Role("").Valid())
}
