// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/arvio/internal/platform/database/schema"
	"github.com/taibuivan/arvio/internal/platform/dberr"
	"github.com/taibuivan/arvio/pkg/pagination"
)

// PostgresRepository implements [Repository] for one name+slug table.
// Categories and genres each get their own instance over the shared code.
type PostgresRepository struct {
	db    *pgxpool.Pool
	table schema.NamedSlugTable
}

// NewPostgresRepository creates a repository bound to the given table definition.
func NewPostgresRepository(db *pgxpool.Pool, table schema.NamedSlugTable) *PostgresRepository {
	return &PostgresRepository{db: db, table: table}
}

func (repository *PostgresRepository) List(context context.Context, search string, params pagination.Params) ([]*Term, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, COUNT(*) OVER() AS total
		FROM %s
		WHERE ($1 = '' OR %s ILIKE '%%' || $1 || '%%')
		ORDER BY %s ASC
		LIMIT $2 OFFSET $3`,
		repository.table.ID, repository.table.Name, repository.table.Slug, repository.table.CreatedAt,
		repository.table.Table,
		repository.table.Name,
		repository.table.Name,
	)

	rows, err := repository.db.Query(context, query, search, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_terms")
	}
	defer rows.Close()

	terms := make([]*Term, 0)
	total := 0

	for rows.Next() {
		term := &Term{}
		if err := rows.Scan(&term.ID, &term.Name, &term.Slug, &term.CreatedAt, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_term")
		}
		terms = append(terms, term)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_terms_rows")
	}

	return terms, total, nil
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Term, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		repository.table.ID, repository.table.Name, repository.table.Slug, repository.table.CreatedAt,
		repository.table.Table, repository.table.Slug,
	)

	term := &Term{}
	err := repository.db.QueryRow(context, query, slug).Scan(&term.ID, &term.Name, &term.Slug, &term.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "get_term_by_slug")
	}

	return term, nil
}

func (repository *PostgresRepository) Create(context context.Context, term *Term) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		repository.table.Table,
		repository.table.ID, repository.table.Name, repository.table.Slug, repository.table.CreatedAt,
	)

	if term.CreatedAt.IsZero() {
		term.CreatedAt = time.Now()
	}

	// Unique violations pass through raw so the service can classify them.
	_, err := repository.db.Exec(context, query, term.ID, term.Name, term.Slug, term.CreatedAt)
	return err
}

func (repository *PostgresRepository) Update(context context.Context, currentSlug string, term *Term) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3`,
		repository.table.Table,
		repository.table.Name, repository.table.Slug,
		repository.table.Slug,
	)

	// Unique violations pass through raw so the service can classify them.
	tag, err := repository.db.Exec(context, query, term.Name, term.Slug, currentSlug)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

func (repository *PostgresRepository) DeleteBySlug(context context.Context, slug string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		repository.table.Table, repository.table.Slug,
	)

	tag, err := repository.db.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, "delete_term")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}
