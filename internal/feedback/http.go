// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feedback

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/arvio/internal/platform/middleware"
	requestutil "github.com/taibuivan/arvio/internal/platform/request"
	"github.com/taibuivan/arvio/internal/platform/respond"
	"github.com/taibuivan/arvio/internal/platform/validate"
	"github.com/taibuivan/arvio/pkg/pagination"
)

// Handler implements the HTTP endpoints for reviews and comments.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the review router, meant to be mounted under
// /titles/{titleID}/reviews. Reads are public; writes need a token, with
// author/moderator/admin checks applied per object in the service.
//
// # Endpoints
//   - GET    /             : List reviews for the title (public).
//   - POST   /             : Create the caller's review (authenticated).
//   - GET    /{reviewID}   : Retrieve a review (public).
//   - PATCH  /{reviewID}   : Update a review (author/moderator/admin).
//   - DELETE /{reviewID}   : Delete a review (author/moderator/admin).
//   - *      /{reviewID}/comments/* : Comment surface, same gating.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listReviews)
	router.With(middleware.RequireAuth).Post("/", handler.createReview)
	router.Get("/{reviewID}", handler.getReview)
	router.With(middleware.RequireAuth).Patch("/{reviewID}", handler.updateReview)
	router.With(middleware.RequireAuth).Delete("/{reviewID}", handler.deleteReview)

	router.Mount("/{reviewID}/comments", handler.commentRoutes())

	return router
}

func (handler *Handler) commentRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listComments)
	router.With(middleware.RequireAuth).Post("/", handler.createComment)
	router.Get("/{commentID}", handler.getComment)
	router.With(middleware.RequireAuth).Patch("/{commentID}", handler.updateComment)
	router.With(middleware.RequireAuth).Delete("/{commentID}", handler.deleteComment)

	return router
}

type createReviewRequest struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

type updateReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

type commentRequest struct {
	Text string `json:"text"`
}

// # Review Endpoints

func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	titleID := requestutil.Param(request, "titleID")

	reviews, total, err := handler.service.ListReviews(request.Context(), titleID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) getReview(writer http.ResponseWriter, request *http.Request) {
	titleID := requestutil.Param(request, "titleID")
	reviewID := requestutil.Param(request, "reviewID")

	review, err := handler.service.GetReview(request.Context(), titleID, reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

/*
CreateReview adds the caller's scored review of a title.

POST /api/v1/titles/{titleID}/reviews

Response:
  - 201: Created review
  - 400: Validation failure or ALREADY_REVIEWED
  - 404: Unknown title
*/
func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createReviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	review, err := handler.service.CreateReview(request.Context(), claims, requestutil.Param(request, "titleID"), ReviewInput{
		Text:  input.Text,
		Score: input.Score,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, review)
}

func (handler *Handler) updateReview(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateReviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	review, err := handler.service.UpdateReview(
		request.Context(), claims,
		requestutil.Param(request, "titleID"), requestutil.Param(request, "reviewID"),
		ReviewPatch{Text: input.Text, Score: input.Score},
	)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.service.DeleteReview(
		request.Context(), claims,
		requestutil.Param(request, "titleID"), requestutil.Param(request, "reviewID"),
	)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Comment Endpoints

func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	comments, total, err := handler.service.ListComments(
		request.Context(),
		requestutil.Param(request, "titleID"), requestutil.Param(request, "reviewID"),
		params,
	)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) getComment(writer http.ResponseWriter, request *http.Request) {
	comment, err := handler.service.GetComment(
		request.Context(),
		requestutil.Param(request, "titleID"), requestutil.Param(request, "reviewID"),
		requestutil.Param(request, "commentID"),
	)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	comment, err := handler.service.CreateComment(
		request.Context(), claims,
		requestutil.Param(request, "titleID"), requestutil.Param(request, "reviewID"),
		input.Text,
	)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	comment, err := handler.service.UpdateComment(
		request.Context(), claims,
		requestutil.Param(request, "titleID"), requestutil.Param(request, "reviewID"),
		requestutil.Param(request, "commentID"),
		input.Text,
	)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.service.DeleteComment(
		request.Context(), claims,
		requestutil.Param(request, "titleID"), requestutil.Param(request, "reviewID"),
		requestutil.Param(request, "commentID"),
	)

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
