// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/arvio/internal/platform/middleware"
	requestutil "github.com/taibuivan/arvio/internal/platform/request"
	"github.com/taibuivan/arvio/internal/platform/respond"
	"github.com/taibuivan/arvio/internal/platform/validate"
	"github.com/taibuivan/arvio/pkg/pagination"
)

// Handler implements the HTTP endpoints for one classification table.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for the term collection.
//
// # Endpoints
//   - GET    /        : List terms (public).
//   - POST   /        : Create a term (admin).
//   - GET    /{slug}  : Retrieve a term (public).
//   - PATCH  /{slug}  : Update a term (admin).
//   - DELETE /{slug}  : Delete a term (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.AdminOrReadOnly)

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{slug}", handler.get)
	router.Patch("/{slug}", handler.update)
	router.Delete("/{slug}", handler.delete)

	return router
}

type createTermRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

/*
List returns a page of terms.

GET /api/v1/{categories|genres}?search=&page=&limit=

Response:
  - 200: Paginated list of terms
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	terms, total, err := handler.service.List(request.Context(), search, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, terms, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Create adds a new term.

POST /api/v1/{categories|genres}

Request:
  - Body: createTermRequest (Name required, Slug optional)

Response:
  - 201: Created term
  - 400: Validation failure
  - 409: Slug already in use
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createTermRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxNameLen)
	if input.Slug != "" {
		validator.Slug(FieldSlug, input.Slug).
			MaxLen(FieldSlug, input.Slug, MaxSlugLen)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	term, err := handler.service.Create(request.Context(), CreateInput{
		Name: input.Name,
		Slug: input.Slug,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, term)
}

type updateTermRequest struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}

/*
Get retrieves a single term.

GET /api/v1/{categories|genres}/{slug}

Response:
  - 200: Term
  - 404: Unknown slug
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	termSlug := requestutil.Param(request, "slug")

	term, err := handler.service.Get(request.Context(), termSlug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, term)
}

/*
Update applies a partial patch to a term.

PATCH /api/v1/{categories|genres}/{slug}

Request:
  - Body: updateTermRequest (all fields optional)

Response:
  - 200: Updated term
  - 400: Validation failure
  - 404: Unknown slug
  - 409: New slug already in use
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	termSlug := requestutil.Param(request, "slug")

	var input updateTermRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Required(FieldName, *input.Name).
			MaxLen(FieldName, *input.Name, MaxNameLen)
	}
	if input.Slug != nil {
		validator.Slug(FieldSlug, *input.Slug).
			MaxLen(FieldSlug, *input.Slug, MaxSlugLen)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	term, err := handler.service.Update(request.Context(), termSlug, UpdateInput{
		Name: input.Name,
		Slug: input.Slug,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, term)
}

/*
Delete removes a term by slug.

DELETE /api/v1/{categories|genres}/{slug}

Response:
  - 204: Term removed
  - 404: Unknown slug
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	termSlug := requestutil.Param(request, "slug")

	if err := handler.service.Delete(request.Context(), termSlug); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
