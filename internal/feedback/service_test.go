// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feedback

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/arvio/internal/platform/apperr"
	"github.com/taibuivan/arvio/internal/platform/sec"
	"github.com/taibuivan/arvio/pkg/pagination"
	"github.com/taibuivan/arvio/pkg/pointer"
)

func claims(userID, username string, role sec.Role) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: userID, Username: username, Role: string(role)}
}

type fakeTitleChecker struct {
	known map[string]bool
}

func (c *fakeTitleChecker) TitleExists(_ context.Context, titleID string) (bool, error) {
	return c.known[titleID], nil
}

type fakeReviewRepo struct {
	reviews   map[string]*Review
	createErr error // forced failure for the constraint-backstop path
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[string]*Review{}}
}

func (r *fakeReviewRepo) ListByTitle(_ context.Context, titleID string, _ pagination.Params) ([]*Review, int, error) {
	var out []*Review
	for _, review := range r.reviews {
		if review.TitleID == titleID {
			out = append(out, review)
		}
	}
	return out, len(out), nil
}

func (r *fakeReviewRepo) FindByID(_ context.Context, titleID, reviewID string) (*Review, error) {
	review, ok := r.reviews[reviewID]
	if !ok || review.TitleID != titleID {
		return nil, apperr.NotFound("Review")
	}
	return review, nil
}

func (r *fakeReviewRepo) FindByAuthorAndTitle(_ context.Context, authorID, titleID string) (*Review, error) {
	for _, review := range r.reviews {
		if review.Author.ID == authorID && review.TitleID == titleID {
			return review, nil
		}
	}
	return nil, apperr.NotFound("Review")
}

func (r *fakeReviewRepo) Create(_ context.Context, review *Review) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.reviews[review.ID] = review
	return nil
}

func (r *fakeReviewRepo) Update(_ context.Context, review *Review) error {
	if _, ok := r.reviews[review.ID]; !ok {
		return apperr.NotFound("Review")
	}
	r.reviews[review.ID] = review
	return nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, reviewID string) error {
	if _, ok := r.reviews[reviewID]; !ok {
		return apperr.NotFound("Review")
	}
	delete(r.reviews, reviewID)
	return nil
}

type fakeCommentRepo struct {
	comments map[string]*Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[string]*Comment{}}
}

func (r *fakeCommentRepo) ListByReview(_ context.Context, reviewID string, _ pagination.Params) ([]*Comment, int, error) {
	var out []*Comment
	for _, comment := range r.comments {
		if comment.ReviewID == reviewID {
			out = append(out, comment)
		}
	}
	return out, len(out), nil
}

func (r *fakeCommentRepo) FindByID(_ context.Context, reviewID, commentID string) (*Comment, error) {
	comment, ok := r.comments[commentID]
	if !ok || comment.ReviewID != reviewID {
		return nil, apperr.NotFound("Comment")
	}
	return comment, nil
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *Comment) error {
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) Update(_ context.Context, comment *Comment) error {
	if _, ok := r.comments[comment.ID]; !ok {
		return apperr.NotFound("Comment")
	}
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, commentID string) error {
	if _, ok := r.comments[commentID]; !ok {
		return apperr.NotFound("Comment")
	}
	delete(r.comments, commentID)
	return nil
}

func newTestService() (*Service, *fakeReviewRepo, *fakeCommentRepo) {
	reviews := newFakeReviewRepo()
	comments := newFakeCommentRepo()
	titles := &fakeTitleChecker{known: map[string]bool{"title-1": true}}
	return NewService(reviews, comments, titles, slog.Default()), reviews, comments
}

/*
TestCreateReview covers the happy path and the 404 on an unknown title.
*/
func TestCreateReview(t *testing.T) {
	service, repo, _ := newTestService()

	review, err := service.CreateReview(context.Background(), claims("u1", "alice", sec.RoleUser), "title-1", ReviewInput{
		Text:  "Slow start, strong finish.",
		Score: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", review.Author.Username)
	assert.Len(t, repo.reviews, 1)

	_, err = service.CreateReview(context.Background(), claims("u1", "alice", sec.RoleUser), "title-missing", ReviewInput{
		Text:  "x",
		Score: 5,
	})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestCreateReview_ScoreBounds rejects scores outside 1..10.
*/
func TestCreateReview_ScoreBounds(t *testing.T) {
	service, _, _ := newTestService()

	for _, score := range []int{0, 11, -1} {
		_, err := service.CreateReview(context.Background(), claims("u1", "alice", sec.RoleUser), "title-1", ReviewInput{
			Text:  "out of range",
			Score: score,
		})
		require.Error(t, err, "score %d", score)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	}

	for _, score := range []int{MinScore, MaxScore} {
		_, err := service.CreateReview(context.Background(), claims("u1", "alice", sec.RoleUser), "title-1", ReviewInput{
			Text:  "boundary",
			Score: score,
		})
		if err != nil {
			// second boundary hits the duplicate rule, which is fine here
			assert.NotEqual(t, "VALIDATION_ERROR", apperr.As(err).Code)
		}
	}
}

/*
TestCreateReview_Duplicate checks both duplicate paths: the application
pre-check and the database constraint backstop surface the same code.
*/
func TestCreateReview_Duplicate(t *testing.T) {
	service, repo, _ := newTestService()

	_, err := service.CreateReview(context.Background(), claims("u1", "alice", sec.RoleUser), "title-1", ReviewInput{Text: "first", Score: 7})
	require.NoError(t, err)

	_, err = service.CreateReview(context.Background(), claims("u1", "alice", sec.RoleUser), "title-1", ReviewInput{Text: "second", Score: 3})
	require.Error(t, err)
	assert.Equal(t, "ALREADY_REVIEWED", apperr.As(err).Code)

	// Concurrent duplicate: pre-check misses, constraint fires.
	repo.createErr = &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	_, err = service.CreateReview(context.Background(), claims("u2", "bob", sec.RoleUser), "title-1", ReviewInput{Text: "race", Score: 5})
	require.Error(t, err)
	assert.Equal(t, "ALREADY_REVIEWED", apperr.As(err).Code)
}

/*
TestUpdateReview_Permissions walks the mutation ladder: author and
moderator may patch, an unrelated user may not.
*/
func TestUpdateReview_Permissions(t *testing.T) {
	service, _, _ := newTestService()

	review, err := service.CreateReview(context.Background(), claims("u1", "alice", sec.RoleUser), "title-1", ReviewInput{Text: "mine", Score: 6})
	require.NoError(t, err)

	_, err = service.UpdateReview(context.Background(), claims("u2", "bob", sec.RoleUser), "title-1", review.ID, ReviewPatch{
		Score: pointer.To(1),
	})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	updated, err := service.UpdateReview(context.Background(), claims("u1", "alice", sec.RoleUser), "title-1", review.ID, ReviewPatch{
		Score: pointer.To(9),
	})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Score)

	updated, err = service.UpdateReview(context.Background(), claims("u3", "mod", sec.RoleModerator), "title-1", review.ID, ReviewPatch{
		Text: pointer.To("cleaned up"),
	})
	require.NoError(t, err)
	assert.Equal(t, "cleaned up", updated.Text)
}

/*
TestReview_NotFoundBeforeForbidden: a denied caller probing a missing
review learns nothing beyond 404.
*/
func TestReview_NotFoundBeforeForbidden(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.UpdateReview(context.Background(), claims("u2", "bob", sec.RoleUser), "title-1", "no-such-review", ReviewPatch{
		Score: pointer.To(2),
	})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	err = service.DeleteReview(context.Background(), claims("u2", "bob", sec.RoleUser), "title-1", "no-such-review")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestComments covers creation under a review, the composite parent
resolution, and the moderator override on deletion.
*/
func TestComments(t *testing.T) {
	service, _, commentRepo := newTestService()

	review, err := service.CreateReview(context.Background(), claims("u1", "alice", sec.RoleUser), "title-1", ReviewInput{Text: "good", Score: 8})
	require.NoError(t, err)

	comment, err := service.CreateComment(context.Background(), claims("u2", "bob", sec.RoleUser), "title-1", review.ID, "agreed")
	require.NoError(t, err)
	assert.Equal(t, review.ID, comment.ReviewID)
	assert.WithinDuration(t, time.Now(), comment.PubDate, time.Minute)

	// The same comment under a mismatched title reads as missing.
	_, err = service.GetComment(context.Background(), "title-other", review.ID, comment.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	// An unrelated user cannot remove it; a moderator can.
	err = service.DeleteComment(context.Background(), claims("u3", "carol", sec.RoleUser), "title-1", review.ID, comment.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	err = service.DeleteComment(context.Background(), claims("u4", "mod", sec.RoleModerator), "title-1", review.ID, comment.ID)
	require.NoError(t, err)
	assert.Empty(t, commentRepo.comments)
}
