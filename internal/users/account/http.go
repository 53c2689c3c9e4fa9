// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/arvio/internal/platform/apperr"
	"github.com/taibuivan/arvio/internal/platform/middleware"
	requestutil "github.com/taibuivan/arvio/internal/platform/request"
	"github.com/taibuivan/arvio/internal/platform/respond"
	"github.com/taibuivan/arvio/internal/platform/sec"
	"github.com/taibuivan/arvio/internal/platform/validate"
	"github.com/taibuivan/arvio/internal/users/auth"
	"github.com/taibuivan/arvio/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the member-directory and profile HTTP endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with account routes.
//
// # Endpoints
//   - GET    /me         : Own profile (any authenticated member).
//   - PATCH  /me         : Edit own profile (role pinned).
//   - GET    /           : List accounts (admin).
//   - POST   /           : Provision an account (admin).
//   - GET    /{username} : Read one account (admin).
//   - PATCH  /{username} : Edit one account, including role (admin).
//   - DELETE /{username} : Remove an account (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Self-service profile. The literal /me route wins over {username}.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.getProfile)
		r.Patch("/me", handler.updateProfile)
	})

	// Directory administration
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/", handler.list)
		r.Post("/", handler.create)
		r.Get("/{username}", handler.get)
		r.Patch("/{username}", handler.update)
		r.Delete("/{username}", handler.delete)
	})

	return router
}

// # Request Payloads

type createUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

type updateUserRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

// updateProfileRequest deliberately has no Role field: whatever a member
// sends for "role" is ignored.
type updateProfileRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
}

// # Directory Administration

/*
List returns the member directory.

GET /api/v1/users?search=&page=&limit=

Response:
  - 200: Paginated list of users
  - 403: ErrForbidden: Caller is not an administrator
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	users, total, err := handler.accountService.List(request.Context(), search, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Create provisions a new account with an explicit role.

POST /api/v1/users

Request:
  - Body: createUserRequest

Response:
  - 201: Created account
  - 400: Validation failure
  - 409: Username or email taken
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createUserRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Role == "" {
		input.Role = string(sec.RoleUser)
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldUsername, input.Username).
		MaxLen(auth.FieldUsername, input.Username, auth.MaxUsernameLen).
		Username(auth.FieldUsername, input.Username).
		Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email).
		MaxLen(auth.FieldEmail, input.Email, auth.MaxEmailLen).
		MaxLen(auth.FieldFirstName, input.FirstName, auth.MaxNamePartLen).
		MaxLen(auth.FieldLastName, input.LastName, auth.MaxNamePartLen).
		MaxLen(auth.FieldBio, input.Bio, auth.MaxBioLen).
		OneOf(auth.FieldRole, input.Role, string(sec.RoleUser), string(sec.RoleModerator), string(sec.RoleAdmin))

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Create(request.Context(), CreateInput{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      sec.Role(input.Role),
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Get reads a single account.

GET /api/v1/users/{username}

Response:
  - 200: The account
  - 404: Unknown username
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	user, err := handler.accountService.GetByUsername(request.Context(), username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Update patches a single account, including its role.

PATCH /api/v1/users/{username}

Request:
  - Body: updateUserRequest (all fields optional)

Response:
  - 200: The updated account
  - 400: Validation failure
  - 404: Unknown username
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := validateProfilePatch(input.Email, input.FirstName, input.LastName, input.Bio); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var role *sec.Role
	if input.Role != nil {
		r := sec.Role(*input.Role)
		role = &r
	}

	user, err := handler.accountService.UpdateByUsername(request.Context(), username, UpdateInput{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      role,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Delete removes an account and everything it authored.

DELETE /api/v1/users/{username}

Response:
  - 204: Account removed
  - 404: Unknown username
  - 405: Attempt to delete through the /me alias
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	// The /me alias is read/patch only.
	if username == "me" {
		respond.Error(writer, request, &apperr.AppError{
			Code:       "METHOD_NOT_ALLOWED",
			Message:    "Profile deletion is not available",
			HTTPStatus: http.StatusMethodNotAllowed,
		})
		return
	}

	if err := handler.accountService.DeleteByUsername(request.Context(), username); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Self-Service Profile

/*
GetProfile returns the caller's own account.

GET /api/v1/users/me

Response:
  - 200: The profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
UpdateProfile patches the caller's own account. The role is pinned.

PATCH /api/v1/users/me

Request:
  - Body: updateProfileRequest (all fields optional)

Response:
  - 200: The updated profile
  - 400: Validation failure
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := validateProfilePatch(input.Email, input.FirstName, input.LastName, input.Bio); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// validateProfilePatch checks whichever profile fields are present.
func validateProfilePatch(email, firstName, lastName, bio *string) error {
	validator := &validate.Validator{}

	if email != nil {
		validator.Required(auth.FieldEmail, *email).
			Email(auth.FieldEmail, *email).
			MaxLen(auth.FieldEmail, *email, auth.MaxEmailLen)
	}
	if firstName != nil {
		validator.MaxLen(auth.FieldFirstName, *firstName, auth.MaxNamePartLen)
	}
	if lastName != nil {
		validator.MaxLen(auth.FieldLastName, *lastName, auth.MaxNamePartLen)
	}
	if bio != nil {
		validator.MaxLen(auth.FieldBio, *bio, auth.MaxBioLen)
	}

	return validator.Err()
}
