// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package title defines the core work entity of the Arvio catalogue.

A title is any reviewable work (a film, a book, an album) classified by
exactly one optional category and any number of genres. Its rating is
never stored: it is the arithmetic mean of review scores, computed at
read time and null while the title has no reviews.
*/
package title

import (
	"time"

	"github.com/taibuivan/arvio/internal/catalog/reference"
)

// # Core Entity

// Title represents a single reviewable work in the catalogue.
type Title struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Year        int              `json:"year"` // Release year, never in the future
	Description string           `json:"description,omitempty"`
	Category    *reference.Term  `json:"category"` // nil = uncategorized
	Genres      []reference.Term `json:"genres"`
	Rating      *float64         `json:"rating"` // Mean review score; nil with no reviews

	// # Junction IDs (Input only)
	CategoryID *string  `json:"-"`
	GenreIDs   []string `json:"-"` // nil = leave associations untouched

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Search & Filtering

// Filter holds the parameters for a filtered title list query.
type Filter struct {
	CategorySlug string   // exact category slug match
	GenreSlugs   []string // titles linked to any of these genres
	Name         string   // case-insensitive substring match
	Year         *int
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldYear        = "year"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldGenres      = "genres"
)

// Validation bounds.
const (
	MaxTitleNameLen   = 256
	MinTitleYear      = 1 // calendar year zero does not exist
	MaxDescriptionLen = 5000
)
