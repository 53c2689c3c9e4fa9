// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/arvio/internal/catalog/reference"
	"github.com/taibuivan/arvio/internal/platform/apperr"
	"github.com/taibuivan/arvio/internal/platform/dberr"
	"github.com/taibuivan/arvio/pkg/pagination"
	"github.com/taibuivan/arvio/pkg/pointer"
)

// fakeRefRepo serves slug lookups for categories or genres.
type fakeRefRepo struct {
	terms map[string]*reference.Term // keyed by slug
}

func newFakeRefRepo(names ...string) *fakeRefRepo {
	repo := &fakeRefRepo{terms: map[string]*reference.Term{}}
	for i, name := range names {
		slug := name // callers pass slugs directly
		repo.terms[slug] = &reference.Term{ID: string(rune('a' + i)), Name: name, Slug: slug}
	}
	return repo
}

func (r *fakeRefRepo) List(_ context.Context, _ string, _ pagination.Params) ([]*reference.Term, int, error) {
	return nil, 0, nil
}

func (r *fakeRefRepo) GetBySlug(_ context.Context, slug string) (*reference.Term, error) {
	if t, ok := r.terms[slug]; ok {
		return t, nil
	}
	return nil, dberr.ErrNotFound
}

func (r *fakeRefRepo) Create(_ context.Context, _ *reference.Term) error           { return nil }
func (r *fakeRefRepo) Update(_ context.Context, _ string, _ *reference.Term) error { return nil }
func (r *fakeRefRepo) DeleteBySlug(_ context.Context, _ string) error              { return nil }

// fakeTitleRepo stores titles in memory and hydrates associations from
// the reference fakes on read, the way the real store's joins do.
type fakeTitleRepo struct {
	titles     map[string]*Title
	categories *fakeRefRepo
	genres     *fakeRefRepo
}

func newFakeTitleRepo(categories, genres *fakeRefRepo) *fakeTitleRepo {
	return &fakeTitleRepo{titles: map[string]*Title{}, categories: categories, genres: genres}
}

func (r *fakeTitleRepo) List(_ context.Context, _ Filter, _ pagination.Params) ([]*Title, int, error) {
	var out []*Title
	for _, t := range r.titles {
		out = append(out, t)
	}
	return out, len(out), nil
}

func (r *fakeTitleRepo) FindByID(_ context.Context, id string) (*Title, error) {
	stored, ok := r.titles[id]
	if !ok {
		return nil, apperr.NotFound("Title")
	}

	hydrated := *stored
	hydrated.Category = nil
	if stored.CategoryID != nil {
		for _, term := range r.categories.terms {
			if term.ID == *stored.CategoryID {
				hydrated.Category = term
			}
		}
	}
	hydrated.Genres = nil
	for _, genreID := range stored.GenreIDs {
		for _, term := range r.genres.terms {
			if term.ID == genreID {
				hydrated.Genres = append(hydrated.Genres, *term)
			}
		}
	}
	return &hydrated, nil
}

func (r *fakeTitleRepo) Create(_ context.Context, title *Title) error {
	r.titles[title.ID] = title
	return nil
}

func (r *fakeTitleRepo) Update(_ context.Context, title *Title) error {
	if _, ok := r.titles[title.ID]; !ok {
		return apperr.NotFound("Title")
	}
	r.titles[title.ID] = title
	return nil
}

func (r *fakeTitleRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.titles[id]; !ok {
		return apperr.NotFound("Title")
	}
	delete(r.titles, id)
	return nil
}

func newTestService() (*Service, *fakeTitleRepo) {
	categories := newFakeRefRepo("movies", "books")
	genres := newFakeRefRepo("drama", "comedy")
	repo := newFakeTitleRepo(categories, genres)
	service := NewService(repo, categories, genres, slog.Default())
	return service, repo
}

/*
TestCreate_ResolvesSlugs checks that category and genre slugs resolve to
stored associations, and that a fresh title carries no rating.
*/
func TestCreate_ResolvesSlugs(t *testing.T) {
	service, _ := newTestService()

	title, err := service.Create(context.Background(), CreateInput{
		Name:         "The Long Goodbye",
		Year:         1973,
		CategorySlug: "movies",
		GenreSlugs:   []string{"drama", "comedy", "drama"},
	})
	require.NoError(t, err)

	require.NotNil(t, title.Category)
	assert.Equal(t, "movies", title.Category.Slug)
	assert.Len(t, title.Genres, 2) // duplicate slug collapsed
	assert.Nil(t, title.Rating)
}

/*
TestCreate_FutureYear rejects release years past the current calendar year.
*/
func TestCreate_FutureYear(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Create(context.Background(), CreateInput{
		Name: "Tomorrow",
		Year: time.Now().Year() + 1,
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
}

/*
TestCreate_UnknownSlug rejects slugs with no matching term before any
persistence happens.
*/
func TestCreate_UnknownSlug(t *testing.T) {
	service, repo := newTestService()

	_, err := service.Create(context.Background(), CreateInput{
		Name:       "Mystery",
		Year:       2001,
		GenreSlugs: []string{"horror"},
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Empty(t, repo.titles)

	_, err = service.Create(context.Background(), CreateInput{
		Name:         "Mystery",
		Year:         2001,
		CategorySlug: "podcasts",
	})
	require.Error(t, err)
	assert.Empty(t, repo.titles)
}

/*
TestUpdate_CategoryLifecycle covers carrying, changing, and clearing the
category through partial patches.
*/
func TestUpdate_CategoryLifecycle(t *testing.T) {
	service, _ := newTestService()

	created, err := service.Create(context.Background(), CreateInput{
		Name:         "Dune",
		Year:         1965,
		CategorySlug: "books",
	})
	require.NoError(t, err)

	// Patch without category keeps the stored one.
	updated, err := service.Update(context.Background(), created.ID, UpdateInput{
		Name: pointer.To("Dune Messiah"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Category)
	assert.Equal(t, "books", updated.Category.Slug)

	// Explicit empty slug clears it.
	updated, err = service.Update(context.Background(), created.ID, UpdateInput{
		CategorySlug: pointer.To(""),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Category)
}

/*
TestUpdate_FutureYear rejects the patch and leaves the title unchanged.
*/
func TestUpdate_FutureYear(t *testing.T) {
	service, repo := newTestService()

	created, err := service.Create(context.Background(), CreateInput{Name: "Solaris", Year: 1961})
	require.NoError(t, err)

	_, err = service.Update(context.Background(), created.ID, UpdateInput{
		Year: pointer.To(time.Now().Year() + 5),
	})
	require.Error(t, err)
	assert.Equal(t, 1961, repo.titles[created.ID].Year)
}

/*
TestDelete covers removal and the not-found error on a repeat.
*/
func TestDelete(t *testing.T) {
	service, repo := newTestService()

	created, err := service.Create(context.Background(), CreateInput{Name: "Stalker", Year: 1979})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), created.ID))
	assert.Empty(t, repo.titles)

	err = service.Delete(context.Background(), created.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
