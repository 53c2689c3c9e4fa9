// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// NamedSlugTable represents a name+slug reference table. Categories and
// genres share an identical shape, so one definition serves both.
type NamedSlugTable struct {
	Table     string
	ID        string
	Name      string
	Slug      string
	CreatedAt string
}

// CatalogCategory is the schema definition for catalog.category
var CatalogCategory = NamedSlugTable{
	Table:     "catalog.category",
	ID:        "id",
	Name:      "name",
	Slug:      "slug",
	CreatedAt: "createdat",
}

// CatalogGenre is the schema definition for catalog.genre
var CatalogGenre = NamedSlugTable{
	Table:     "catalog.genre",
	ID:        "id",
	Name:      "name",
	Slug:      "slug",
	CreatedAt: "createdat",
}

func (t NamedSlugTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug, t.CreatedAt}
}
