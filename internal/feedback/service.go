// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/arvio/internal/platform/apperr"
	"github.com/taibuivan/arvio/internal/platform/dberr"
	"github.com/taibuivan/arvio/internal/platform/sec"
	"github.com/taibuivan/arvio/internal/platform/validate"
	"github.com/taibuivan/arvio/pkg/pagination"
	"github.com/taibuivan/arvio/pkg/uuid"
)

// errAlreadyReviewed is the single rejection both the pre-check and the
// constraint backstop surface, so concurrent duplicates read identically.
func errAlreadyReviewed() *apperr.AppError {
	return apperr.Domain("ALREADY_REVIEWED", "You have already reviewed this title")
}

// errNotYours denies mutation of someone else's content without hinting
// at anything beyond the permission itself.
func errNotYours() *apperr.AppError {
	return apperr.Forbidden("You do not have permission to modify this resource")
}

// Service orchestrates reviews and comments. Every lookup resolves the
// full parent chain first, so permission checks only ever run against
// resources that exist (404 before 403).
type Service struct {
	reviews  ReviewRepository
	comments CommentRepository
	titles   TitleChecker
	logger   *slog.Logger
}

// NewService constructs the feedback [Service] with its dependencies.
func NewService(reviews ReviewRepository, comments CommentRepository, titles TitleChecker, logger *slog.Logger) *Service {
	return &Service{reviews: reviews, comments: comments, titles: titles, logger: logger}
}

// requireTitle 404s when the parent title does not exist.
func (service *Service) requireTitle(context context.Context, titleID string) error {
	exists, err := service.titles.TitleExists(context, titleID)
	if err != nil {
		return fmt.Errorf("feedback_service_title_check_failed: %w", err)
	}
	if !exists {
		return apperr.NotFound("Title")
	}
	return nil
}

// # Reviews

// ListReviews returns a page of reviews for a title, oldest first.
func (service *Service) ListReviews(context context.Context, titleID string, params pagination.Params) ([]*Review, int, error) {
	if err := service.requireTitle(context, titleID); err != nil {
		return nil, 0, err
	}
	return service.reviews.ListByTitle(context, titleID, params)
}

// GetReview retrieves one review under its title. A review ID paired
// with the wrong title reads as not found.
func (service *Service) GetReview(context context.Context, titleID, reviewID string) (*Review, error) {
	return service.reviews.FindByID(context, titleID, reviewID)
}

// ReviewInput holds the author-editable review fields.
type ReviewInput struct {
	Text  string
	Score int
}

/*
CreateReview adds the caller's review of a title.

Description: A user reviews a title at most once. The application
pre-check catches the common duplicate; the unique constraint on
(author, title) catches the concurrent one, and both surface the same
ALREADY_REVIEWED rejection.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims (authenticated caller)
  - titleID: string
  - input: ReviewInput

Returns:
  - *Review: Created review
  - error: Not found, validation, duplicate, or storage failures
*/
func (service *Service) CreateReview(context context.Context, claims *sec.AuthClaims, titleID string, input ReviewInput) (*Review, error) {

	if err := service.requireTitle(context, titleID); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, input.Text).
		MaxLen(FieldText, input.Text, MaxTextLen).
		Range(FieldScore, input.Score, MinScore, MaxScore)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.reviews.FindByAuthorAndTitle(context, claims.UserID, titleID); err == nil {
		return nil, errAlreadyReviewed()
	}

	review := &Review{
		ID:      uuid.New(),
		TitleID: titleID,
		Author:  Author{ID: claims.UserID, Username: claims.Username},
		Text:    input.Text,
		Score:   input.Score,
		PubDate: time.Now(),
	}

	if err := service.reviews.Create(context, review); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, errAlreadyReviewed()
		}
		return nil, fmt.Errorf("feedback_service_create_review_failed: %w", err)
	}

	service.logger.Info("review_created", "review_id", review.ID, "title_id", titleID, "author_id", claims.UserID)
	return review, nil
}

// ReviewPatch holds the optional fields of a review update.
type ReviewPatch struct {
	Text  *string
	Score *int
}

/*
UpdateReview applies a partial patch to a review.

Description: The review is loaded before any permission check runs, so
an unknown review 404s for everyone. Mutation is allowed for the
author, moderators, and admins.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims
  - titleID: string
  - reviewID: string
  - patch: ReviewPatch

Returns:
  - *Review: Updated review
  - error: Not found, forbidden, validation, or storage failures
*/
func (service *Service) UpdateReview(context context.Context, claims *sec.AuthClaims, titleID, reviewID string, patch ReviewPatch) (*Review, error) {

	review, err := service.reviews.FindByID(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if !sec.CanMutateAuthored(claims, review.Author.ID) {
		return nil, errNotYours()
	}

	if patch.Text != nil {
		review.Text = *patch.Text
	}
	if patch.Score != nil {
		review.Score = *patch.Score
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, review.Text).
		MaxLen(FieldText, review.Text, MaxTextLen).
		Range(FieldScore, review.Score, MinScore, MaxScore)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.reviews.Update(context, review); err != nil {
		if apperr.As(err) != nil {
			return nil, err
		}
		return nil, fmt.Errorf("feedback_service_update_review_failed: %w", err)
	}

	return review, nil
}

// DeleteReview removes a review and, via cascade, its comments.
func (service *Service) DeleteReview(context context.Context, claims *sec.AuthClaims, titleID, reviewID string) error {

	review, err := service.reviews.FindByID(context, titleID, reviewID)
	if err != nil {
		return err
	}

	if !sec.CanMutateAuthored(claims, review.Author.ID) {
		return errNotYours()
	}

	if err := service.reviews.Delete(context, review.ID); err != nil {
		if apperr.As(err) != nil {
			return err
		}
		return fmt.Errorf("feedback_service_delete_review_failed: %w", err)
	}

	service.logger.Warn("review_deleted", "review_id", reviewID, "actor_id", claims.UserID)
	return nil
}

// # Comments

// ListComments returns a page of comments under a review, oldest first.
func (service *Service) ListComments(context context.Context, titleID, reviewID string, params pagination.Params) ([]*Comment, int, error) {
	if _, err := service.reviews.FindByID(context, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return service.comments.ListByReview(context, reviewID, params)
}

// GetComment retrieves one comment, resolving the title→review→comment
// chain so any mismatched pairing 404s.
func (service *Service) GetComment(context context.Context, titleID, reviewID, commentID string) (*Comment, error) {
	if _, err := service.reviews.FindByID(context, titleID, reviewID); err != nil {
		return nil, err
	}
	return service.comments.FindByID(context, reviewID, commentID)
}

// CreateComment adds the caller's reply to a review. Any authenticated
// role may comment.
func (service *Service) CreateComment(context context.Context, claims *sec.AuthClaims, titleID, reviewID, text string) (*Comment, error) {

	if _, err := service.reviews.FindByID(context, titleID, reviewID); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, text).MaxLen(FieldText, text, MaxTextLen)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:       uuid.New(),
		ReviewID: reviewID,
		Author:   Author{ID: claims.UserID, Username: claims.Username},
		Text:     text,
		PubDate:  time.Now(),
	}

	if err := service.comments.Create(context, comment); err != nil {
		return nil, fmt.Errorf("feedback_service_create_comment_failed: %w", err)
	}

	return comment, nil
}

// UpdateComment replaces a comment's text. Author, moderator, or admin.
func (service *Service) UpdateComment(context context.Context, claims *sec.AuthClaims, titleID, reviewID, commentID, text string) (*Comment, error) {

	comment, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if !sec.CanMutateAuthored(claims, comment.Author.ID) {
		return nil, errNotYours()
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, text).MaxLen(FieldText, text, MaxTextLen)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	comment.Text = text
	if err := service.comments.Update(context, comment); err != nil {
		if apperr.As(err) != nil {
			return nil, err
		}
		return nil, fmt.Errorf("feedback_service_update_comment_failed: %w", err)
	}

	return comment, nil
}

// DeleteComment removes a comment. Author, moderator, or admin.
func (service *Service) DeleteComment(context context.Context, claims *sec.AuthClaims, titleID, reviewID, commentID string) error {

	comment, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if !sec.CanMutateAuthored(claims, comment.Author.ID) {
		return errNotYours()
	}

	if err := service.comments.Delete(context, comment.ID); err != nil {
		if apperr.As(err) != nil {
			return err
		}
		return fmt.Errorf("feedback_service_delete_comment_failed: %w", err)
	}

	return nil
}
