// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reference manages the "Master Data" side of the catalog: the
categories and genres that classify every title.

Both entities share one shape (name plus URL slug), so a single Term
type and a single repository implementation serve both, parameterized
by their table definition.

# Core Responsibility

  - Taxonomy: categories partition the catalog ("Movies", "Books"),
    genres may apply to any number of titles ("Drama", "Sci-Fi").
  - Discovery: slugs feed the title filter surface.
  - Governance: anyone may browse; only administrators mutate.
*/
package reference

import "time"

// # Domain Entities

// Term is a single classification entry — a category or a genre.
type Term struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"-"`
}

// # Field Identifiers

const (
	FieldName = "name"
	FieldSlug = "slug"
)

// # Input Constraints

const (
	MaxNameLen = 256
	MaxSlugLen = 50
)
