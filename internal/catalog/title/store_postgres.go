// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package title provides the PostgreSQL implementation for the title
catalogue's data access.

It leans on a few Postgres features to keep hydration to one round-trip:
  - JSON Aggregation: Sub-queries fold the genre links into a JSON array.
  - Window Functions: COUNT(*) OVER() returns the total alongside the page.
  - Derived Columns: AVG(score) over feedback.review computes the rating
    at read time, so stored data never drifts from review activity.
*/
package title

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/arvio/internal/catalog/reference"
	"github.com/taibuivan/arvio/internal/platform/apperr"
	"github.com/taibuivan/arvio/internal/platform/database/schema"
	"github.com/taibuivan/arvio/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed title store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// hydratedColumns is the shared SELECT list for single-title and list
// queries: core fields plus the derived rating, the left-joined category,
// and the JSON-aggregated genres.
func hydratedColumns() string {
	return fmt.Sprintf(`
		t.%s, t.%s, t.%s, t.%s, t.%s, t.%s,
		(SELECT AVG(r.%s)::float8 FROM %s r WHERE r.%s = t.%s) AS rating,
		c.%s, c.%s, c.%s,
		COALESCE((
			SELECT json_agg(json_build_object('id', g.%s, 'name', g.%s, 'slug', g.%s) ORDER BY g.%s)
			FROM %s g
			JOIN %s tg ON g.%s = tg.%s
			WHERE tg.%s = t.%s
		), '[]') AS genres`,
		schema.CatalogTitle.ID, schema.CatalogTitle.Name, schema.CatalogTitle.Year,
		schema.CatalogTitle.Description, schema.CatalogTitle.CreatedAt, schema.CatalogTitle.UpdatedAt,
		schema.FeedbackReview.Score, schema.FeedbackReview.Table,
		schema.FeedbackReview.TitleID, schema.CatalogTitle.ID,
		schema.CatalogCategory.ID, schema.CatalogCategory.Name, schema.CatalogCategory.Slug,
		schema.CatalogGenre.ID, schema.CatalogGenre.Name, schema.CatalogGenre.Slug, schema.CatalogGenre.Name,
		schema.CatalogGenre.Table,
		schema.TitleGenre.Table, schema.CatalogGenre.ID, schema.TitleGenre.GenreID,
		schema.TitleGenre.TitleID, schema.CatalogTitle.ID,
	)
}

// scanHydrated maps one hydrated row into a Title. The extra destinations
// let List thread its window-function total through the same code path.
func scanHydrated(row pgx.Row, extra ...any) (*Title, error) {
	title := &Title{}
	var description *string
	var categoryID, categoryName, categorySlug *string
	var genresJSON []byte

	dest := []any{
		&title.ID, &title.Name, &title.Year, &description,
		&title.CreatedAt, &title.UpdatedAt,
		&title.Rating,
		&categoryID, &categoryName, &categorySlug,
		&genresJSON,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if description != nil {
		title.Description = *description
	}
	if categoryID != nil {
		title.Category = &reference.Term{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
	}
	if err := json.Unmarshal(genresJSON, &title.Genres); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal genres: %w", err)
	}

	return title, nil
}

/*
List returns a filtered, paginated slice of titles and the total count.

Description: A single query hydrates everything: the window function
COUNT(*) OVER() carries the total, a correlated sub-query computes the
mean review score, and json_agg folds genre links in without an N+1.
Results order by rating ascending with unrated titles first, so the
least-reviewed works surface at the top of the catalogue.

Parameters:
  - context: context.Context
  - filter: Filter (category slug, genre slug, name substring, year)
  - params: pagination.Params

Returns:
  - []*Title: Slice of hydrated title entities
  - int: Total count matching filters
  - error: Database execution errors
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, params pagination.Params) ([]*Title, int, error) {

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s,
			COUNT(*) OVER() AS total
		FROM %s t
		LEFT JOIN %s c ON c.%s = t.%s
		WHERE TRUE`,
		hydratedColumns(),
		schema.CatalogTitle.Table,
		schema.CatalogCategory.Table, schema.CatalogCategory.ID, schema.CatalogTitle.CategoryID,
	))

	// Dynamic WHERE clause construction
	if filter.CategorySlug != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.%s = $%d", schema.CatalogCategory.Slug, argID))
		args = append(args, filter.CategorySlug)
		argID++
	}

	if len(filter.GenreSlugs) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM %s tg
			JOIN %s g ON g.%s = tg.%s
			WHERE tg.%s = t.%s AND g.%s = ANY($%d)
		)`,
			schema.TitleGenre.Table,
			schema.CatalogGenre.Table, schema.CatalogGenre.ID, schema.TitleGenre.GenreID,
			schema.TitleGenre.TitleID, schema.CatalogTitle.ID, schema.CatalogGenre.Slug, argID,
		))
		args = append(args, filter.GenreSlugs)
		argID++
	}

	if filter.Name != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.%s ILIKE '%%' || $%d || '%%'", schema.CatalogTitle.Name, argID))
		args = append(args, filter.Name)
		argID++
	}

	if filter.Year != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.%s = $%d", schema.CatalogTitle.Year, argID))
		args = append(args, *filter.Year)
		argID++
	}

	// Unrated titles sort before rated ones; name breaks ties.
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY rating ASC NULLS FIRST, t.%s ASC", schema.CatalogTitle.Name))

	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list titles: %w", err)
	}
	defer rows.Close()

	titles := make([]*Title, 0)
	total := 0

	for rows.Next() {
		title, err := scanHydrated(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan title: %w", err)
		}
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to iterate titles: %w", err)
	}

	return titles, total, nil
}

/*
FindByID retrieves a single title with its category, genres, and derived
rating hydrated in one round-trip.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Title: Fully hydrated entity
  - error: apperr.NotFound if the title does not exist
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Title, error) {

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s t
		LEFT JOIN %s c ON c.%s = t.%s
		WHERE t.%s = $1`,
		hydratedColumns(),
		schema.CatalogTitle.Table,
		schema.CatalogCategory.Table, schema.CatalogCategory.ID, schema.CatalogTitle.CategoryID,
		schema.CatalogTitle.ID,
	)

	title, err := scanHydrated(repository.db.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Title")
		}
		return nil, fmt.Errorf("postgres: failed to find title by id: %w", err)
	}

	return title, nil
}

/*
Create persists a new title and its genre links inside one transaction,
so a failed link insert never leaves a half-created title behind.

Parameters:
  - context: context.Context
  - title: *Title (CategoryID and GenreIDs already resolved to UUIDs)

Returns:
  - error: Execution failures
*/
func (repository *PostgresRepository) Create(context context.Context, title *Title) error {

	transaction, err := repository.db.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}
	defer transaction.Rollback(context)

	now := time.Now()
	title.CreatedAt = now
	title.UpdatedAt = now

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.CatalogTitle.Table,
		schema.CatalogTitle.ID, schema.CatalogTitle.Name, schema.CatalogTitle.Year,
		schema.CatalogTitle.Description, schema.CatalogTitle.CategoryID,
		schema.CatalogTitle.CreatedAt, schema.CatalogTitle.UpdatedAt,
	)

	_, err = transaction.Exec(context, query,
		title.ID, title.Name, title.Year,
		nullableString(title.Description), title.CategoryID,
		title.CreatedAt, title.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to create title: %w", err)
	}

	if len(title.GenreIDs) > 0 {
		if err := repository.replaceGenres(context, transaction, title.ID, title.GenreIDs); err != nil {
			return err
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit create transaction: %w", err)
	}

	return nil
}

/*
Update persists field changes and, when GenreIDs is non-nil, replaces the
genre associations. Both run inside one transaction.

Parameters:
  - context: context.Context
  - title: *Title

Returns:
  - error: apperr.NotFound if the title does not exist
*/
func (repository *PostgresRepository) Update(context context.Context, title *Title) error {

	transaction, err := repository.db.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = NOW()
		WHERE %s = $5`,
		schema.CatalogTitle.Table,
		schema.CatalogTitle.Name, schema.CatalogTitle.Year,
		schema.CatalogTitle.Description, schema.CatalogTitle.CategoryID,
		schema.CatalogTitle.UpdatedAt,
		schema.CatalogTitle.ID,
	)

	result, err := transaction.Exec(context, query,
		title.Name, title.Year, nullableString(title.Description), title.CategoryID, title.ID,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to update title: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Title")
	}

	if title.GenreIDs != nil {
		if err := repository.replaceGenres(context, transaction, title.ID, title.GenreIDs); err != nil {
			return err
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit update transaction: %w", err)
	}

	return nil
}

/*
Delete removes a title permanently. The schema cascades take its reviews,
comments, and genre links along.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound if the title does not exist
*/
func (repository *PostgresRepository) Delete(context context.Context, id string) error {

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.CatalogTitle.Table, schema.CatalogTitle.ID)

	result, err := repository.db.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete title: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Title")
	}

	return nil
}

// replaceGenres synchronizes the title↔genre junction with a clear-and-insert
// pass, batching the inserts into one network trip.
func (repository *PostgresRepository) replaceGenres(context context.Context, transaction pgx.Tx, titleID string, genreIDs []string) error {

	delQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.TitleGenre.Table, schema.TitleGenre.TitleID)
	if _, err := transaction.Exec(context, delQuery, titleID); err != nil {
		return fmt.Errorf("postgres: failed to clear genre links: %w", err)
	}

	if len(genreIDs) == 0 {
		return nil
	}

	insQuery := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2)",
		schema.TitleGenre.Table, schema.TitleGenre.TitleID, schema.TitleGenre.GenreID)

	batch := &pgx.Batch{}
	for _, genreID := range genreIDs {
		batch.Queue(insQuery, titleID, genreID)
	}

	response := transaction.SendBatch(context, batch)
	if err := response.Close(); err != nil {
		return fmt.Errorf("postgres: failed to batch insert genre links: %w", err)
	}

	return nil
}

// nullableString maps "" to SQL NULL.
func nullableString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
