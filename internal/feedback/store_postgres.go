// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feedback

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/arvio/internal/platform/apperr"
	"github.com/taibuivan/arvio/internal/platform/database/schema"
	"github.com/taibuivan/arvio/pkg/pagination"
)

// PostgresReviewRepository implements [ReviewRepository] using pgx. It
// also satisfies [TitleChecker] so feedback can verify a parent title
// without importing the catalogue package.
type PostgresReviewRepository struct {
	db *pgxpool.Pool
}

// NewPostgresReviewRepository constructs a PostgreSQL backed review store.
func NewPostgresReviewRepository(db *pgxpool.Pool) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db}
}

// reviewSelect joins the author account for display identity.
func reviewSelect() string {
	return fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, r.%s, r.%s, a.%s, a.%s`,
		schema.FeedbackReview.ID, schema.FeedbackReview.TitleID,
		schema.FeedbackReview.Text, schema.FeedbackReview.Score, schema.FeedbackReview.PubDate,
		schema.UserAccount.ID, schema.UserAccount.Username,
	)
}

func scanReview(row pgx.Row, extra ...any) (*Review, error) {
	review := &Review{}
	dest := []any{
		&review.ID, &review.TitleID, &review.Text, &review.Score, &review.PubDate,
		&review.Author.ID, &review.Author.Username,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return review, nil
}

func (repository *PostgresReviewRepository) ListByTitle(context context.Context, titleID string, params pagination.Params) ([]*Review, int, error) {
	query := fmt.Sprintf(`%s, COUNT(*) OVER() AS total
		FROM %s r
		JOIN %s a ON a.%s = r.%s
		WHERE r.%s = $1
		ORDER BY r.%s ASC
		LIMIT $2 OFFSET $3`,
		reviewSelect(),
		schema.FeedbackReview.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.FeedbackReview.AuthorID,
		schema.FeedbackReview.TitleID,
		schema.FeedbackReview.PubDate,
	)

	rows, err := repository.db.Query(context, query, titleID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*Review, 0)
	total := 0

	for rows.Next() {
		review, err := scanReview(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to iterate reviews: %w", err)
	}

	return reviews, total, nil
}

func (repository *PostgresReviewRepository) FindByID(context context.Context, titleID, reviewID string) (*Review, error) {
	query := fmt.Sprintf(`%s
		FROM %s r
		JOIN %s a ON a.%s = r.%s
		WHERE r.%s = $1 AND r.%s = $2`,
		reviewSelect(),
		schema.FeedbackReview.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.FeedbackReview.AuthorID,
		schema.FeedbackReview.ID, schema.FeedbackReview.TitleID,
	)

	review, err := scanReview(repository.db.QueryRow(context, query, reviewID, titleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Review")
		}
		return nil, fmt.Errorf("postgres: failed to find review: %w", err)
	}

	return review, nil
}

func (repository *PostgresReviewRepository) FindByAuthorAndTitle(context context.Context, authorID, titleID string) (*Review, error) {
	query := fmt.Sprintf(`%s
		FROM %s r
		JOIN %s a ON a.%s = r.%s
		WHERE r.%s = $1 AND r.%s = $2`,
		reviewSelect(),
		schema.FeedbackReview.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.FeedbackReview.AuthorID,
		schema.FeedbackReview.AuthorID, schema.FeedbackReview.TitleID,
	)

	review, err := scanReview(repository.db.QueryRow(context, query, authorID, titleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Review")
		}
		return nil, fmt.Errorf("postgres: failed to find review by author: %w", err)
	}

	return review, nil
}

func (repository *PostgresReviewRepository) Create(context context.Context, review *Review) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.FeedbackReview.Table,
		schema.FeedbackReview.ID, schema.FeedbackReview.TitleID, schema.FeedbackReview.AuthorID,
		schema.FeedbackReview.Text, schema.FeedbackReview.Score, schema.FeedbackReview.PubDate,
	)

	// Unique violations pass through raw for the service to classify.
	_, err := repository.db.Exec(context, query,
		review.ID, review.TitleID, review.Author.ID, review.Text, review.Score, review.PubDate,
	)
	return err
}

func (repository *PostgresReviewRepository) Update(context context.Context, review *Review) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3`,
		schema.FeedbackReview.Table,
		schema.FeedbackReview.Text, schema.FeedbackReview.Score,
		schema.FeedbackReview.ID,
	)

	result, err := repository.db.Exec(context, query, review.Text, review.Score, review.ID)
	if err != nil {
		return fmt.Errorf("postgres: failed to update review: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}

	return nil
}

func (repository *PostgresReviewRepository) Delete(context context.Context, reviewID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.FeedbackReview.Table, schema.FeedbackReview.ID,
	)

	result, err := repository.db.Exec(context, query, reviewID)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete review: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}

	return nil
}

// TitleExists implements [TitleChecker] against catalog.title.
func (repository *PostgresReviewRepository) TitleExists(context context.Context, titleID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.CatalogTitle.Table, schema.CatalogTitle.ID,
	)

	var exists bool
	if err := repository.db.QueryRow(context, query, titleID).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres: failed to check title existence: %w", err)
	}

	return exists, nil
}

// PostgresCommentRepository implements [CommentRepository] using pgx.
type PostgresCommentRepository struct {
	db *pgxpool.Pool
}

// NewPostgresCommentRepository constructs a PostgreSQL backed comment store.
func NewPostgresCommentRepository(db *pgxpool.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

func commentSelect() string {
	return fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, c.%s, a.%s, a.%s`,
		schema.FeedbackComment.ID, schema.FeedbackComment.ReviewID,
		schema.FeedbackComment.Text, schema.FeedbackComment.PubDate,
		schema.UserAccount.ID, schema.UserAccount.Username,
	)
}

func scanComment(row pgx.Row, extra ...any) (*Comment, error) {
	comment := &Comment{}
	dest := []any{
		&comment.ID, &comment.ReviewID, &comment.Text, &comment.PubDate,
		&comment.Author.ID, &comment.Author.Username,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return comment, nil
}

func (repository *PostgresCommentRepository) ListByReview(context context.Context, reviewID string, params pagination.Params) ([]*Comment, int, error) {
	query := fmt.Sprintf(`%s, COUNT(*) OVER() AS total
		FROM %s c
		JOIN %s a ON a.%s = c.%s
		WHERE c.%s = $1
		ORDER BY c.%s ASC
		LIMIT $2 OFFSET $3`,
		commentSelect(),
		schema.FeedbackComment.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.FeedbackComment.AuthorID,
		schema.FeedbackComment.ReviewID,
		schema.FeedbackComment.PubDate,
	)

	rows, err := repository.db.Query(context, query, reviewID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	total := 0

	for rows.Next() {
		comment, err := scanComment(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to iterate comments: %w", err)
	}

	return comments, total, nil
}

func (repository *PostgresCommentRepository) FindByID(context context.Context, reviewID, commentID string) (*Comment, error) {
	query := fmt.Sprintf(`%s
		FROM %s c
		JOIN %s a ON a.%s = c.%s
		WHERE c.%s = $1 AND c.%s = $2`,
		commentSelect(),
		schema.FeedbackComment.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.FeedbackComment.AuthorID,
		schema.FeedbackComment.ID, schema.FeedbackComment.ReviewID,
	)

	comment, err := scanComment(repository.db.QueryRow(context, query, commentID, reviewID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, fmt.Errorf("postgres: failed to find comment: %w", err)
	}

	return comment, nil
}

func (repository *PostgresCommentRepository) Create(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5)`,
		schema.FeedbackComment.Table,
		schema.FeedbackComment.ID, schema.FeedbackComment.ReviewID, schema.FeedbackComment.AuthorID,
		schema.FeedbackComment.Text, schema.FeedbackComment.PubDate,
	)

	_, err := repository.db.Exec(context, query,
		comment.ID, comment.ReviewID, comment.Author.ID, comment.Text, comment.PubDate,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to create comment: %w", err)
	}

	return nil
}

func (repository *PostgresCommentRepository) Update(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2`,
		schema.FeedbackComment.Table, schema.FeedbackComment.Text, schema.FeedbackComment.ID,
	)

	result, err := repository.db.Exec(context, query, comment.Text, comment.ID)
	if err != nil {
		return fmt.Errorf("postgres: failed to update comment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}

func (repository *PostgresCommentRepository) Delete(context context.Context, commentID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.FeedbackComment.Table, schema.FeedbackComment.ID,
	)

	result, err := repository.db.Exec(context, query, commentID)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete comment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}
