// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"fmt"

	"github.com/taibuivan/arvio/internal/platform/apperr"
	"github.com/taibuivan/arvio/internal/platform/dberr"
	"github.com/taibuivan/arvio/pkg/pagination"
	"github.com/taibuivan/arvio/pkg/slug"
	"github.com/taibuivan/arvio/pkg/uuid"
)

// # Service Layer

// Service orchestrates business rules for one classification table.
//
// Two instances exist at runtime — one for categories, one for genres —
// differing only in repository binding and display label.
type Service struct {
	repo  Repository
	label string // "Category" or "Genre", used in client-facing messages
}

// NewService constructs a reference [Service] for the given term kind.
func NewService(repo Repository, label string) *Service {
	return &Service{repo: repo, label: label}
}

/*
List returns a page of terms, optionally filtered by name search.

Parameters:
  - context: context.Context
  - search: string
  - params: pagination.Params

Returns:
  - []*Term: Page of terms
  - int: Total matching count
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, search string, params pagination.Params) ([]*Term, int, error) {
	return service.repo.List(context, search, params)
}

// CreateInput holds the fields for a new classification term.
type CreateInput struct {
	Name string
	Slug string // optional; derived from Name when empty
}

/*
Create validates and persists a new term.

Description: When no slug is provided one is derived from the name.
Slug uniqueness is pre-checked and backed by the database constraint
for the concurrent case.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Term: Created entity
  - error: Validation, conflict, or storage failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Term, error) {

	if input.Slug == "" {
		input.Slug = slug.From(input.Name)
	}

	if _, err := service.repo.GetBySlug(context, input.Slug); err == nil {
		return nil, apperr.Conflict(service.label + " slug is already in use")
	}

	term := &Term{
		ID:   uuid.New(),
		Name: input.Name,
		Slug: input.Slug,
	}

	if err := service.repo.Create(context, term); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict(service.label + " slug is already in use")
		}
		return nil, fmt.Errorf("reference_service_create_failed: %w", err)
	}

	return term, nil
}

/*
Get retrieves a single term by slug.

Parameters:
  - context: context.Context
  - termSlug: string

Returns:
  - *Term: Hydrated entity
  - error: Labeled not-found or retrieval failures
*/
func (service *Service) Get(context context.Context, termSlug string) (*Term, error) {
	term, err := service.repo.GetBySlug(context, termSlug)
	if err != nil {
		if apperr.As(err) != nil {
			return nil, apperr.NotFound(service.label)
		}
		return nil, fmt.Errorf("reference_service_get_failed: %w", err)
	}
	return term, nil
}

// UpdateInput holds the optional patch fields for a term.
type UpdateInput struct {
	Name *string
	Slug *string
}

/*
Update applies a partial patch to a term addressed by its current slug.

Description: Changing the slug re-checks uniqueness the same way Create
does. Omitted fields keep their stored values.

Parameters:
  - context: context.Context
  - termSlug: string (current slug)
  - input: UpdateInput

Returns:
  - *Term: Updated entity
  - error: Not found, conflict, or storage failures
*/
func (service *Service) Update(context context.Context, termSlug string, input UpdateInput) (*Term, error) {

	term, err := service.Get(context, termSlug)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		term.Name = *input.Name
	}
	if input.Slug != nil && *input.Slug != termSlug {
		if _, err := service.repo.GetBySlug(context, *input.Slug); err == nil {
			return nil, apperr.Conflict(service.label + " slug is already in use")
		}
		term.Slug = *input.Slug
	}

	if err := service.repo.Update(context, termSlug, term); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict(service.label + " slug is already in use")
		}
		if apperr.As(err) != nil {
			return nil, apperr.NotFound(service.label)
		}
		return nil, fmt.Errorf("reference_service_update_failed: %w", err)
	}

	return term, nil
}

/*
Delete removes a term by slug.

Description: Titles referencing a deleted category fall back to
uncategorized via the schema's ON DELETE SET NULL; genre links cascade.

Parameters:
  - context: context.Context
  - termSlug: string

Returns:
  - error: Not found or execution failures
*/
func (service *Service) Delete(context context.Context, termSlug string) error {
	if err := service.repo.DeleteBySlug(context, termSlug); err != nil {
		if apperr.As(err) != nil {
			return apperr.NotFound(service.label)
		}
		return fmt.Errorf("reference_service_delete_failed: %w", err)
	}
	return nil
}
