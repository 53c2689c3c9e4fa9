// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/arvio/internal/platform/apperr"
	"github.com/taibuivan/arvio/internal/platform/sec"
	"github.com/taibuivan/arvio/internal/users/auth"
	"github.com/taibuivan/arvio/pkg/pagination"
)

// # Test Doubles

type fakeAccountRepo struct {
	users map[string]*auth.User // keyed by ID
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{users: map[string]*auth.User{}}
}

func (r *fakeAccountRepo) List(_ context.Context, search string, params pagination.Params) ([]*auth.User, int, error) {
	var matched []*auth.User
	for _, u := range r.users {
		matched = append(matched, u)
	}
	return matched, len(matched), nil
}

func (r *fakeAccountRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeAccountRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeAccountRepo) Create(_ context.Context, user *auth.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeAccountRepo) Update(_ context.Context, user *auth.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeAccountRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(r.users, id)
	return nil
}

func newTestService(repo *fakeAccountRepo) *Service {
	return NewService(repo, slog.Default())
}

// # Directory Administration

/*
TestCreate_AssignsRole verifies an administrator can provision accounts
at any rung of the ladder.
*/
func TestCreate_AssignsRole(t *testing.T) {
	repo := newFakeAccountRepo()
	service := newTestService(repo)

	user, err := service.Create(context.Background(), CreateInput{
		Username: "curator",
		Email:    "curator@arvio.app",
		Role:     sec.RoleModerator,
	})

	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, user.Role)
	assert.NotEmpty(t, user.ID)
}

/*
TestCreate_DuplicateUsername rejects a second account with the same name.
*/
func TestCreate_DuplicateUsername(t *testing.T) {
	repo := newFakeAccountRepo()
	service := newTestService(repo)

	_, err := service.Create(context.Background(), CreateInput{Username: "curator", Email: "a@arvio.app", Role: sec.RoleUser})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), CreateInput{Username: "curator", Email: "b@arvio.app", Role: sec.RoleUser})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

/*
TestUpdateByUsername_RoleChange covers promotion and the invalid-role guard.
*/
func TestUpdateByUsername_RoleChange(t *testing.T) {
	repo := newFakeAccountRepo()
	service := newTestService(repo)

	_, err := service.Create(context.Background(), CreateInput{Username: "reader", Email: "reader@arvio.app", Role: sec.RoleUser})
	require.NoError(t, err)

	promoted := sec.RoleModerator
	user, err := service.UpdateByUsername(context.Background(), "reader", UpdateInput{Role: &promoted})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, user.Role)

	bogus := sec.Role("superuser")
	_, err = service.UpdateByUsername(context.Background(), "reader", UpdateInput{Role: &bogus})
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
}

/*
TestDeleteByUsername removes the account; a second delete is 404.
*/
func TestDeleteByUsername(t *testing.T) {
	repo := newFakeAccountRepo()
	service := newTestService(repo)

	_, err := service.Create(context.Background(), CreateInput{Username: "reader", Email: "reader@arvio.app", Role: sec.RoleUser})
	require.NoError(t, err)

	require.NoError(t, service.DeleteByUsername(context.Background(), "reader"))
	assert.Empty(t, repo.users)

	err = service.DeleteByUsername(context.Background(), "reader")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Self-Service Profile

/*
TestUpdateProfile_RolePinned verifies a member edit never touches the role,
because the input type cannot carry one.
*/
func TestUpdateProfile_RolePinned(t *testing.T) {
	repo := newFakeAccountRepo()
	service := newTestService(repo)

	created, err := service.Create(context.Background(), CreateInput{Username: "reader", Email: "reader@arvio.app", Role: sec.RoleUser})
	require.NoError(t, err)

	bio := "Long-form reviews only."
	updated, err := service.UpdateProfile(context.Background(), created.ID, UpdateProfileInput{Bio: &bio})
	require.NoError(t, err)

	assert.Equal(t, "Long-form reviews only.", updated.Bio)
	assert.Equal(t, sec.RoleUser, updated.Role)
	assert.Equal(t, "reader@arvio.app", updated.Email)
}
