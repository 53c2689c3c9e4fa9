// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/arvio/internal/platform/apperr"
	"github.com/taibuivan/arvio/internal/platform/sec"
)

// # Test Doubles

type fakeUserRepo struct {
	users     map[string]*User // keyed by ID
	lookupErr error            // forced failure for FindByUsername/FindByEmail
	createErr error            // forced failure for Create
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*User{}}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*User, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) Create(_ context.Context, user *User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) StampConfirmed(_ context.Context, userID string, at time.Time) error {
	u, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	u.ConfirmedAt = &at
	return nil
}

type fakeThrottle struct {
	denied bool
	err    error
	calls  int
}

func (t *fakeThrottle) AcquireSendSlot(_ context.Context, _ string, _ time.Duration) (bool, error) {
	t.calls++
	return !t.denied, t.err
}

type fakeMailer struct {
	sent []string // recorded bodies
	to   []string
}

func (m *fakeMailer) Send(_ context.Context, to, _, body string) error {
	m.to = append(m.to, to)
	m.sent = append(m.sent, body)
	return nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, username, role string, isStaff bool, _ time.Duration) (string, error) {
	return "jwt:" + userID + ":" + role, nil
}

func newTestService(repo *fakeUserRepo, throttle *fakeThrottle, mailer *fakeMailer) *Service {
	codec := sec.NewConfirmationCodec("test-secret", ConfirmationCodeTTL)
	return NewService(repo, throttle, codec, fakeTokenProvider{}, mailer)
}

// # Signup

/*
TestSignup_CreatesAccountAndSendsCode covers the happy path of a brand
new enrollment.
*/
func TestSignup_CreatesAccountAndSendsCode(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeMailer{}
	service := newTestService(repo, &fakeThrottle{}, mailer)

	user, err := service.Signup(context.Background(), SignupInput{
		Username: "reader",
		Email:    "reader@arvio.app",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.Nil(t, user.ConfirmedAt)

	require.Len(t, mailer.to, 1)
	assert.Equal(t, "reader@arvio.app", mailer.to[0])
}

/*
TestSignup_RepeatIsResend verifies signup idempotency: the exact same
pair re-sends the code without creating a second account.
*/
func TestSignup_RepeatIsResend(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeMailer{}
	service := newTestService(repo, &fakeThrottle{}, mailer)

	first, err := service.Signup(context.Background(), SignupInput{Username: "reader", Email: "reader@arvio.app"})
	require.NoError(t, err)

	second, err := service.Signup(context.Background(), SignupInput{Username: "reader", Email: "reader@arvio.app"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.users, 1)
	assert.Len(t, mailer.sent, 2)
}

/*
TestSignup_PartialMatchConflicts rejects signups where one identifier is
already bound to a different account.
*/
func TestSignup_PartialMatchConflicts(t *testing.T) {
	repo := newFakeUserRepo()
	service := newTestService(repo, &fakeThrottle{}, &fakeMailer{})

	_, err := service.Signup(context.Background(), SignupInput{Username: "reader", Email: "reader@arvio.app"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input SignupInput
	}{
		{"username_taken", SignupInput{Username: "reader", Email: "other@arvio.app"}},
		{"email_taken", SignupInput{Username: "other", Email: "reader@arvio.app"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Signup(context.Background(), tt.input)
			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "CONFLICT", ae.Code)
		})
	}
}

/*
TestSignup_CooldownSkipsMailButSucceeds pins the success contract: an
identical repeat signup during the resend cooldown skips the mail and
still returns the account without error.
*/
func TestSignup_CooldownSkipsMailButSucceeds(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeMailer{}
	throttle := &fakeThrottle{}
	service := newTestService(repo, throttle, mailer)

	first, err := service.Signup(context.Background(), SignupInput{Username: "reader", Email: "reader@arvio.app"})
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)

	throttle.denied = true

	second, err := service.Signup(context.Background(), SignupInput{Username: "reader", Email: "reader@arvio.app"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, mailer.sent, 1, "cooldown must gate the mail, not the signup")
}

/*
TestSignup_ThrottleOutageFailsOpen keeps enrollment usable when Redis is
down: the cooldown is lost but the code still goes out.
*/
func TestSignup_ThrottleOutageFailsOpen(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeMailer{}
	service := newTestService(repo, &fakeThrottle{err: errors.New("redis: connection refused")}, mailer)

	_, err := service.Signup(context.Background(), SignupInput{Username: "reader", Email: "reader@arvio.app"})

	require.NoError(t, err)
	assert.Len(t, mailer.sent, 1)
}

/*
TestSignup_RaceLostSurfacesConflict covers two concurrent first signups
for the same pair: both pass the lookups, the loser's unique violation
must come back as a conflict, not an opaque failure.
*/
func TestSignup_RaceLostSurfacesConflict(t *testing.T) {
	repo := newFakeUserRepo()
	repo.createErr = &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	service := newTestService(repo, &fakeThrottle{}, &fakeMailer{})

	_, err := service.Signup(context.Background(), SignupInput{Username: "reader", Email: "reader@arvio.app"})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
	assert.Equal(t, http.StatusConflict, ae.HTTPStatus)
}

/*
TestSignup_LookupFailureIsNotConflict keeps a transient storage failure
during the duplicate lookups from being mislabeled as a taken identifier.
*/
func TestSignup_LookupFailureIsNotConflict(t *testing.T) {
	repo := newFakeUserRepo()
	repo.lookupErr = errors.New("pg: connection reset")
	service := newTestService(repo, &fakeThrottle{}, &fakeMailer{})

	_, err := service.Signup(context.Background(), SignupInput{Username: "reader", Email: "reader@arvio.app"})

	require.Error(t, err)
	assert.Nil(t, apperr.As(err), "infrastructure failures must propagate, not map to 4xx")
	assert.Empty(t, repo.users)
}

// # Token Exchange

/*
TestToken_ExchangeHappyPath walks the full protocol: signup, derive the
current code, exchange it, and confirm the old code is retired.
*/
func TestToken_ExchangeHappyPath(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeMailer{}
	codec := sec.NewConfirmationCodec("test-secret", ConfirmationCodeTTL)
	service := NewService(repo, &fakeThrottle{}, codec, fakeTokenProvider{}, mailer)

	user, err := service.Signup(context.Background(), SignupInput{Username: "reader", Email: "reader@arvio.app"})
	require.NoError(t, err)

	code := codec.Generate(user.ID, user.Email, time.Time{})

	grant, err := service.Token(context.Background(), TokenInput{Username: "reader", ConfirmationCode: code})
	require.NoError(t, err)
	assert.Equal(t, "jwt:"+user.ID+":user", grant.Token)
	require.NotNil(t, repo.users[user.ID].ConfirmedAt)

	// The exchange stamped the account, so the same code no longer works.
	_, err = service.Token(context.Background(), TokenInput{Username: "reader", ConfirmationCode: code})
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "INVALID_CONFIRMATION_CODE", ae.Code)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
}

/*
TestToken_UnknownUsername returns 404: the account is the resource.
*/
func TestToken_UnknownUsername(t *testing.T) {
	service := newTestService(newFakeUserRepo(), &fakeThrottle{}, &fakeMailer{})

	_, err := service.Token(context.Background(), TokenInput{Username: "ghost", ConfirmationCode: "whatever"})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
}

/*
TestToken_BadCode rejects a code that never came from the codec. The code
is the credential, so the rejection is a 401.
*/
func TestToken_BadCode(t *testing.T) {
	repo := newFakeUserRepo()
	service := newTestService(repo, &fakeThrottle{}, &fakeMailer{})

	_, err := service.Signup(context.Background(), SignupInput{Username: "reader", Email: "reader@arvio.app"})
	require.NoError(t, err)

	_, err = service.Token(context.Background(), TokenInput{Username: "reader", ConfirmationCode: "abc-def"})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "INVALID_CONFIRMATION_CODE", ae.Code)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
}
