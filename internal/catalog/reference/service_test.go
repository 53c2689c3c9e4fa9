// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/arvio/internal/platform/apperr"
	"github.com/taibuivan/arvio/internal/platform/dberr"
	"github.com/taibuivan/arvio/pkg/pagination"
)

type fakeTermRepo struct {
	terms map[string]*Term // keyed by slug
}

func newFakeTermRepo() *fakeTermRepo {
	return &fakeTermRepo{terms: map[string]*Term{}}
}

func (r *fakeTermRepo) List(_ context.Context, search string, _ pagination.Params) ([]*Term, int, error) {
	var out []*Term
	for _, t := range r.terms {
		out = append(out, t)
	}
	return out, len(out), nil
}

func (r *fakeTermRepo) GetBySlug(_ context.Context, slug string) (*Term, error) {
	if t, ok := r.terms[slug]; ok {
		return t, nil
	}
	return nil, dberr.ErrNotFound
}

func (r *fakeTermRepo) Create(_ context.Context, term *Term) error {
	r.terms[term.Slug] = term
	return nil
}

func (r *fakeTermRepo) Update(_ context.Context, currentSlug string, term *Term) error {
	if _, ok := r.terms[currentSlug]; !ok {
		return dberr.ErrNotFound
	}
	delete(r.terms, currentSlug)
	r.terms[term.Slug] = term
	return nil
}

func (r *fakeTermRepo) DeleteBySlug(_ context.Context, slug string) error {
	if _, ok := r.terms[slug]; !ok {
		return dberr.ErrNotFound
	}
	delete(r.terms, slug)
	return nil
}

/*
TestCreate_DerivesSlug checks slug derivation from Unicode names.
*/
func TestCreate_DerivesSlug(t *testing.T) {
	service := NewService(newFakeTermRepo(), "Genre")

	tests := []struct {
		name     string
		termName string
		wantSlug string
	}{
		{"simple", "Drama", "drama"},
		{"spaces", "Science Fiction", "science-fiction"},
		{"accents", "Fantastique Déjà Vu", "fantastique-deja-vu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, err := service.Create(context.Background(), CreateInput{Name: tt.termName})
			require.NoError(t, err)
			assert.Equal(t, tt.wantSlug, term.Slug)
		})
	}
}

/*
TestCreate_ExplicitSlugWins checks a provided slug is used as-is.
*/
func TestCreate_ExplicitSlugWins(t *testing.T) {
	service := NewService(newFakeTermRepo(), "Category")

	term, err := service.Create(context.Background(), CreateInput{Name: "Movies", Slug: "films"})
	require.NoError(t, err)
	assert.Equal(t, "films", term.Slug)
}

/*
TestCreate_DuplicateSlug rejects a second term with the same slug.
*/
func TestCreate_DuplicateSlug(t *testing.T) {
	service := NewService(newFakeTermRepo(), "Genre")

	_, err := service.Create(context.Background(), CreateInput{Name: "Drama"})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), CreateInput{Name: "DRAMA", Slug: "drama"})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
	assert.Contains(t, ae.Message, "Genre")
}

/*
TestUpdate_RenameAndReslug covers a patch that changes both fields, and
the conflict when the new slug is taken.
*/
func TestUpdate_RenameAndReslug(t *testing.T) {
	repo := newFakeTermRepo()
	service := NewService(repo, "Genre")

	_, err := service.Create(context.Background(), CreateInput{Name: "Sci Fi"})
	require.NoError(t, err)
	_, err = service.Create(context.Background(), CreateInput{Name: "Drama"})
	require.NoError(t, err)

	name := "Science Fiction"
	newSlug := "science-fiction"
	term, err := service.Update(context.Background(), "sci-fi", UpdateInput{Name: &name, Slug: &newSlug})
	require.NoError(t, err)
	assert.Equal(t, "Science Fiction", term.Name)
	assert.Equal(t, "science-fiction", term.Slug)
	assert.NotContains(t, repo.terms, "sci-fi")

	taken := "drama"
	_, err = service.Update(context.Background(), "science-fiction", UpdateInput{Slug: &taken})
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

/*
TestDelete covers removal and the labeled not-found error.
*/
func TestDelete(t *testing.T) {
	repo := newFakeTermRepo()
	service := NewService(repo, "Category")

	_, err := service.Create(context.Background(), CreateInput{Name: "Movies"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), "movies"))
	assert.Empty(t, repo.terms)

	err = service.Delete(context.Background(), "movies")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
	assert.Contains(t, ae.Message, "Category")
}
