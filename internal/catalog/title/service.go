// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/arvio/internal/catalog/reference"
	"github.com/taibuivan/arvio/internal/platform/apperr"
	"github.com/taibuivan/arvio/pkg/pagination"
	"github.com/taibuivan/arvio/pkg/uuid"
)

// # Service Layer

// Service orchestrates business rules for the title catalogue.
//
// Category and genre inputs arrive as slugs; the service resolves them
// against the reference repositories before anything touches storage,
// so an unknown slug fails as a validation error rather than a foreign
// key violation.
type Service struct {
	titleRepository Repository
	categories      reference.Repository
	genres          reference.Repository
	logger          *slog.Logger
}

// NewService constructs the title [Service] with its dependencies.
func NewService(titleRepository Repository, categories, genres reference.Repository, logger *slog.Logger) *Service {
	return &Service{
		titleRepository: titleRepository,
		categories:      categories,
		genres:          genres,
		logger:          logger,
	}
}

/*
List returns a page of titles matching the filter.

Parameters:
  - context: context.Context
  - filter: Filter
  - params: pagination.Params

Returns:
  - []*Title: Page of hydrated titles
  - int: Total matching count
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, filter Filter, params pagination.Params) ([]*Title, int, error) {
	return service.titleRepository.List(context, filter, params)
}

/*
Get retrieves a single title with rating, category, and genres hydrated.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Title: Hydrated entity
  - error: Not found or retrieval failures
*/
func (service *Service) Get(context context.Context, id string) (*Title, error) {
	return service.titleRepository.FindByID(context, id)
}

// CreateInput holds the fields for a new title. Category and genres are
// addressed by slug.
type CreateInput struct {
	Name         string
	Year         int
	Description  string
	CategorySlug string
	GenreSlugs   []string
}

/*
Create validates and persists a new title.

Description: The release year may not exceed the current calendar year.
Unknown category or genre slugs are rejected before the insert.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Title: Created entity, fully hydrated
  - error: Validation or storage failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Title, error) {

	if err := validateYear(input.Year); err != nil {
		return nil, err
	}

	categoryID, err := service.resolveCategory(context, input.CategorySlug)
	if err != nil {
		return nil, err
	}

	genreIDs, err := service.resolveGenres(context, input.GenreSlugs)
	if err != nil {
		return nil, err
	}

	title := &Title{
		ID:          uuid.New(),
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		CategoryID:  categoryID,
		GenreIDs:    genreIDs,
	}

	if err := service.titleRepository.Create(context, title); err != nil {
		return nil, fmt.Errorf("title_service_create_failed: %w", err)
	}

	service.logger.Info("title_created", "title_id", title.ID, "name", title.Name)

	// Re-read for the hydrated category, genres, and (null) rating.
	return service.titleRepository.FindByID(context, title.ID)
}

// UpdateInput holds the optional patch fields for a title. A nil field is
// left untouched; an explicit empty CategorySlug clears the category, and
// a non-nil empty GenreSlugs clears all genre links.
type UpdateInput struct {
	Name         *string
	Year         *int
	Description  *string
	CategorySlug *string
	GenreSlugs   []string
}

/*
Update applies a partial patch to a title.

Parameters:
  - context: context.Context
  - id: string
  - input: UpdateInput

Returns:
  - *Title: Updated entity, fully hydrated
  - error: Not found, validation, or storage failures
*/
func (service *Service) Update(context context.Context, id string, input UpdateInput) (*Title, error) {

	title, err := service.titleRepository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		title.Name = *input.Name
	}
	if input.Year != nil {
		if err := validateYear(*input.Year); err != nil {
			return nil, err
		}
		title.Year = *input.Year
	}
	if input.Description != nil {
		title.Description = *input.Description
	}

	// Carry the stored category unless the patch names one.
	if title.Category != nil {
		title.CategoryID = &title.Category.ID
	}
	if input.CategorySlug != nil {
		categoryID, err := service.resolveCategory(context, *input.CategorySlug)
		if err != nil {
			return nil, err
		}
		title.CategoryID = categoryID
	}

	if input.GenreSlugs != nil {
		genreIDs, err := service.resolveGenres(context, input.GenreSlugs)
		if err != nil {
			return nil, err
		}
		if genreIDs == nil {
			genreIDs = []string{} // explicit clear, not "untouched"
		}
		title.GenreIDs = genreIDs
	}

	if err := service.titleRepository.Update(context, title); err != nil {
		if apperr.As(err) != nil {
			return nil, err
		}
		return nil, fmt.Errorf("title_service_update_failed: %w", err)
	}

	return service.titleRepository.FindByID(context, id)
}

/*
Delete removes a title. Its reviews and comments cascade away with it.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Not found or execution failures
*/
func (service *Service) Delete(context context.Context, id string) error {
	if err := service.titleRepository.Delete(context, id); err != nil {
		if apperr.As(err) != nil {
			return err
		}
		return fmt.Errorf("title_service_delete_failed: %w", err)
	}

	service.logger.Warn("title_deleted", "title_id", id)
	return nil
}

// # Slug Resolution

// resolveCategory maps a category slug to its UUID. Empty means
// uncategorized (nil).
func (service *Service) resolveCategory(context context.Context, categorySlug string) (*string, error) {
	if categorySlug == "" {
		return nil, nil
	}

	term, err := service.categories.GetBySlug(context, categorySlug)
	if err != nil {
		if apperr.As(err) != nil {
			return nil, apperr.ValidationError("Unknown category slug", apperr.FieldError{
				Field:   FieldCategory,
				Message: fmt.Sprintf("No category with slug %q", categorySlug),
			})
		}
		return nil, fmt.Errorf("title_service_resolve_category_failed: %w", err)
	}

	return &term.ID, nil
}

// resolveGenres maps genre slugs to UUIDs, deduplicating repeats.
func (service *Service) resolveGenres(context context.Context, genreSlugs []string) ([]string, error) {
	if len(genreSlugs) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool, len(genreSlugs))
	genreIDs := make([]string, 0, len(genreSlugs))

	for _, genreSlug := range genreSlugs {
		term, err := service.genres.GetBySlug(context, genreSlug)
		if err != nil {
			if apperr.As(err) != nil {
				return nil, apperr.ValidationError("Unknown genre slug", apperr.FieldError{
					Field:   FieldGenres,
					Message: fmt.Sprintf("No genre with slug %q", genreSlug),
				})
			}
			return nil, fmt.Errorf("title_service_resolve_genre_failed: %w", err)
		}

		if !seen[term.ID] {
			seen[term.ID] = true
			genreIDs = append(genreIDs, term.ID)
		}
	}

	return genreIDs, nil
}

// validateYear rejects future release years.
func validateYear(year int) error {
	currentYear := time.Now().Year()
	if year < MinTitleYear || year > currentYear {
		return apperr.ValidationError("Invalid release year", apperr.FieldError{
			Field:   FieldYear,
			Message: fmt.Sprintf("Must be between %d and %d", MinTitleYear, currentYear),
		})
	}
	return nil
}
