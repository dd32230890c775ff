package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sportclub-app/sportclub-backend/internal/logger"
	"github.com/sportclub-app/sportclub-backend/internal/middlewares"
	"github.com/sportclub-app/sportclub-backend/internal/models"
	"github.com/sportclub-app/sportclub-backend/internal/repositories"
	"github.com/sportclub-app/sportclub-backend/internal/services"
)

// UserReader defines the read operations the user handlers need.
type UserReader interface {
	Get(ctx context.Context, id int64) (*models.UserDB, error)
	List(ctx context.Context) ([]models.UserDB, error)
	ListPaginated(ctx context.Context, params models.PageParams, filter models.UserFilter) (*models.Page[models.UserDB], error)
}

// UserUpdater defines the update operation the user handlers need.
type UserUpdater interface {
	Update(ctx context.Context, id int64, in services.UserUpdateInput) (*models.UserDB, error)
}

// UserSearcher defines the substring-search operation the user
// handlers need.
type UserSearcher interface {
	Search(ctx context.Context, params models.PageParams, substr string, viewerID int64) (*models.Page[models.UserDB], error)
}

// UserUpdateRequest represents a partial account update
// swagger:model UserUpdateRequest
type UserUpdateRequest struct {
	// Username
	Username *string `json:"username,omitempty"`

	// Full name
	FullName *string `json:"full_name,omitempty"`

	// Email
	Email *string `json:"email,omitempty"`

	// Avatar image link
	Avatar *string `json:"avatar,omitempty"`

	// New password
	Password *string `json:"password,omitempty"`
}

func (req *UserUpdateRequest) validate() error {
	if req.Username != nil {
		if err := validateUsername(*req.Username); err != nil {
			return err
		}
	}
	if req.Password != nil {
		if err := validatePassword(*req.Password); err != nil {
			return err
		}
	}
	if req.FullName != nil {
		if err := validateFullName(*req.FullName); err != nil {
			return err
		}
	}
	if req.Email != nil {
		if err := validateEmail(*req.Email); err != nil {
			return err
		}
	}
	return nil
}

func (req *UserUpdateRequest) toInput() services.UserUpdateInput {
	return services.UserUpdateInput{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Avatar:   req.Avatar,
		Password: req.Password,
	}
}

// NewGetUserHandler returns an HTTP handler for reading one account.
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} models.UserDB "User"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Router /users/{user_id} [get]
func NewGetUserHandler(svc UserReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "user_id")
		if err != nil {
			writeError(w, http.StatusNotFound, "User not found.")
			return
		}

		user, err := svc.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				writeError(w, http.StatusNotFound, "User not found.")
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}

// NewListUsersHandler returns an HTTP handler listing all accounts
// ordered by username.
// @Summary List all users
// @Tags users
// @Produce json
// @Success 200 {array} models.UserDB "Users ordered by username"
// @Router /users/ [get]
func NewListUsersHandler(svc UserReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.List(r.Context())
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, users)
	}
}

// NewListUsersPaginatedHandler returns an HTTP handler for the
// paginated, filtered user listing.
// @Summary List users paginated
// @Description Page envelope with equality filters; absent filters match everything.
// @Tags users
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Param username query string false "Exact username"
// @Param full_name query string false "Exact full name"
// @Param is_superuser query bool false "Superuser flag"
// @Success 200 {object} models.Page[models.UserDB] "One page of users"
// @Router /users/paginated/ [get]
func NewListUsersPaginatedHandler(svc UserReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := pageParams(r)

		var filter models.UserFilter
		q := r.URL.Query()
		if v := q.Get("username"); v != "" {
			filter.Username = &v
		}
		if v := q.Get("full_name"); v != "" {
			filter.FullName = &v
		}
		if v := q.Get("is_superuser"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				writeError(w, http.StatusUnprocessableEntity, "is_superuser must be a boolean")
				return
			}
			filter.IsSuperuser = &b
		}

		page, err := svc.ListPaginated(r.Context(), params, filter)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, page)
	}
}

// NewSearchUsersPaginatedHandler returns an HTTP handler searching the
// caller's own registrations by username substring.
// @Summary Search users paginated
// @Description Page envelope of accounts registered by the caller whose username contains the substring.
// @Tags users
// @Produce json
// @Param searched_substr query string true "Username substring"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} models.Page[models.UserDB] "One page of matching users"
// @Failure 403 {object} handlers.ErrorResponse "Could not validate credentials"
// @Failure 422 {object} handlers.ErrorResponse "Missing search substring"
// @Router /users/search_users_paginated/ [get]
// @Security BearerAuth
func NewSearchUsersPaginatedHandler(svc UserSearcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			writeError(w, http.StatusForbidden, "Could not validate credentials.")
			return
		}

		substr := r.URL.Query().Get("searched_substr")
		if substr == "" {
			writeError(w, http.StatusUnprocessableEntity, "searched_substr is required")
			return
		}

		page, err := svc.Search(r.Context(), pageParams(r), substr, user.ID)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, page)
	}
}

// NewUpdateUserHandler returns an HTTP handler for the superuser-gated
// partial account update.
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Param userUpdateRequest body handlers.UserUpdateRequest true "Partial update"
// @Success 200 {object} models.UserDB "Updated user"
// @Failure 403 {object} handlers.ErrorResponse "Not enough permissions"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Failure 422 {object} handlers.ErrorResponse "Schema violation"
// @Router /users/{user_id} [put]
// @Security BearerAuth
func NewUpdateUserHandler(svc UserUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "user_id")
		if err != nil {
			writeError(w, http.StatusNotFound, "User not found.")
			return
		}

		var req UserUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		user, err := svc.Update(r.Context(), id, req.toInput())
		if err != nil {
			handleUserUpdateError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}

func handleUserUpdateError(w http.ResponseWriter, err error) {
	var conflict *repositories.ConflictError
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "The user with this id does not exist in the system")
	case errors.As(err, &conflict):
		writeError(w, http.StatusBadRequest, conflict.Msg)
	default:
		logger.Log.Errorw("internal server error", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// pathID parses an integer id out of the chi route context.
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// pageParams reads page/size query params; defaults applied downstream.
func pageParams(r *http.Request) models.PageParams {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	return models.PageParams{Page: page, Size: size}
}
