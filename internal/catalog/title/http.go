// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/arvio/internal/platform/middleware"
	requestutil "github.com/taibuivan/arvio/internal/platform/request"
	"github.com/taibuivan/arvio/internal/platform/respond"
	"github.com/taibuivan/arvio/internal/platform/validate"
	"github.com/taibuivan/arvio/pkg/convert"
	"github.com/taibuivan/arvio/pkg/pagination"
	"github.com/taibuivan/arvio/pkg/pointer"
	queryutil "github.com/taibuivan/arvio/pkg/query"
)

// Handler implements the HTTP endpoints for the title catalogue.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for the title collection. The reviews
// router, when given, is mounted under each title so review and comment
// paths always carry their parent title ID.
//
// # Endpoints
//   - GET    /           : List titles (public, filterable).
//   - POST   /           : Create a title (admin).
//   - GET    /{titleID}  : Retrieve a title (public).
//   - PATCH  /{titleID}  : Update a title (admin).
//   - DELETE /{titleID}  : Delete a title (admin).
//   - *      /{titleID}/reviews/* : Mounted feedback surface.
func (handler *Handler) Routes(reviews chi.Router) chi.Router {
	router := chi.NewRouter()

	router.Group(func(group chi.Router) {
		group.Use(middleware.AdminOrReadOnly)
		group.Get("/", handler.list)
		group.Post("/", handler.create)
		group.Get("/{titleID}", handler.get)
		group.Patch("/{titleID}", handler.update)
		group.Delete("/{titleID}", handler.delete)
	})

	if reviews != nil {
		router.Mount("/{titleID}/reviews", reviews)
	}

	return router
}

type createTitleRequest struct {
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Category    string   `json:"category"` // category slug
	Genres      []string `json:"genres"`   // genre slugs
}

type updateTitleRequest struct {
	Name        *string  `json:"name"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Genres      []string `json:"genres"`
}

/*
List returns a page of titles.

GET /api/v1/titles?category=&genre=&name=&year=&page=&limit=

The genre parameter accepts a comma-separated list; a title matches when
it carries any of the listed genres.

Response:
  - 200: Paginated list, each title annotated with its mean review score
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	query := request.URL.Query()

	filter := Filter{
		CategorySlug: query.Get("category"),
		GenreSlugs:   queryutil.StringSlice(query.Get("genre")),
		Name:         query.Get("name"),
	}
	if rawYear := query.Get("year"); rawYear != "" {
		filter.Year = pointer.To(convert.ToInt(rawYear))
	}

	titles, total, err := handler.service.List(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Get retrieves a single title.

GET /api/v1/titles/{titleID}

Response:
  - 200: Title with category, genres, and rating
  - 404: Unknown title
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "titleID")

	title, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

/*
Create adds a new title to the catalogue.

POST /api/v1/titles

Request:
  - Body: createTitleRequest (Name and Year required)

Response:
  - 201: Created title
  - 400: Validation failure (including unknown category/genre slug)
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createTitleRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxTitleNameLen).
		MaxLen(FieldDescription, input.Description, MaxDescriptionLen).
		Custom(FieldYear, input.Year == 0, "This field is required")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Create(request.Context(), CreateInput{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genres,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, title)
}

/*
Update applies a partial patch to a title.

PATCH /api/v1/titles/{titleID}

Request:
  - Body: updateTitleRequest (all fields optional; empty category clears
    it, empty genres list clears all links)

Response:
  - 200: Updated title
  - 400: Validation failure
  - 404: Unknown title
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "titleID")

	var input updateTitleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Required(FieldName, *input.Name).
			MaxLen(FieldName, *input.Name, MaxTitleNameLen)
	}
	validator.MaxLen(FieldDescription, pointer.Val(input.Description), MaxDescriptionLen)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Update(request.Context(), id, UpdateInput{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genres,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

/*
Delete removes a title and everything reviewed under it.

DELETE /api/v1/titles/{titleID}

Response:
  - 204: Title removed
  - 404: Unknown title
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "titleID")

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
