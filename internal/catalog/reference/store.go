// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"

	"github.com/taibuivan/arvio/pkg/pagination"
)

// # Reference Data Access

// Repository defines the data access contract for one classification table.
type Repository interface {

	/*
		List retrieves a page of terms, optionally filtered by a
		case-insensitive name search.

		Parameters:
		  - context: context.Context
		  - search: string (empty means no filter)
		  - params: pagination.Params

		Returns:
		  - []*Term: Page of terms ordered by name
		  - int: Total matching count
		  - error: Database retrieval failures
	*/
	List(context context.Context, search string, params pagination.Params) ([]*Term, int, error)

	/*
		GetBySlug retrieves a term by its URL identifier.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - *Term: Hydrated entity
		  - error: dberr.ErrNotFound if missing
	*/
	GetBySlug(context context.Context, slug string) (*Term, error)

	/*
		Create persists a new term.

		Parameters:
		  - context: context.Context
		  - term: *Term

		Returns:
		  - error: Constraint violations (propagated raw) or storage failures
	*/
	Create(context context.Context, term *Term) error

	/*
		Update persists name and slug changes to an existing term,
		addressed by its current slug.

		Parameters:
		  - context: context.Context
		  - currentSlug: string (slug before the update)
		  - term: *Term (new field values)

		Returns:
		  - error: dberr.ErrNotFound, constraint violations (raw), or
		    execution failures
	*/
	Update(context context.Context, currentSlug string, term *Term) error

	/*
		DeleteBySlug removes a term by its URL identifier.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - error: dberr.ErrNotFound or execution failures
	*/
	DeleteBySlug(context context.Context, slug string) error
}
