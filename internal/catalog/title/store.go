// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"

	"github.com/taibuivan/arvio/pkg/pagination"
)

// # Title Data Access

// Repository defines the data access contract for the title catalogue.
type Repository interface {

	/*
		List retrieves a filtered, paginated slice of titles with their
		category, genres, and derived rating hydrated.

		Parameters:
		  - context: context.Context
		  - filter: Filter (category slug, genre slug, name, year)
		  - params: pagination.Params

		Returns:
		  - []*Title: Page of titles, rating ascending with unrated first
		  - int: Total matching count
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter, params pagination.Params) ([]*Title, int, error)

	/*
		FindByID retrieves a single hydrated title.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Title: Hydrated entity including derived rating
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*Title, error)

	/*
		Create persists a new title and its genre links atomically.

		Parameters:
		  - context: context.Context
		  - title: *Title (CategoryID and GenreIDs already resolved)

		Returns:
		  - error: Execution failures
	*/
	Create(context context.Context, title *Title) error

	/*
		Update persists field changes and, when GenreIDs is non-nil,
		replaces the genre associations atomically.

		Parameters:
		  - context: context.Context
		  - title: *Title

		Returns:
		  - error: apperr.NotFound if missing, or execution failures
	*/
	Update(context context.Context, title *Title) error

	/*
		Delete removes a title. Reviews, comments, and genre links go
		with it via schema cascades.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound if missing, or execution failures
	*/
	Delete(context context.Context, id string) error
}
