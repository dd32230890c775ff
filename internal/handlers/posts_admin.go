package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sportclub-app/sportclub-backend/internal/middlewares"
	"github.com/sportclub-app/sportclub-backend/internal/models"
	"github.com/sportclub-app/sportclub-backend/internal/services"
)

// PostAdminWriter defines the write operations the privileged post
// handlers need.
type PostAdminWriter interface {
	CreateAdmin(ctx context.Context, user *models.UserDB, in services.PostAdminInput) (*models.PostDB, error)
	UpdateAdmin(ctx context.Context, user *models.UserDB, id int64, in services.PostAdminUpdateInput) (*models.PostDB, error)
}

// PostAdminRequest represents the JSON body for the privileged create,
// with an optional moderation status override
// swagger:model PostAdminRequest
type PostAdminRequest struct {
	PostRequest

	// Moderation status override
	// enum: pending,approved,rejected
	Status *models.PostStatus `json:"status,omitempty"`
}

// PostAdminUpdateRequest represents the privileged partial update
// swagger:model PostAdminUpdateRequest
type PostAdminUpdateRequest struct {
	PostUpdateRequest

	// Moderation status
	// enum: pending,approved,rejected
	Status *models.PostStatus `json:"status,omitempty"`
}

// NewCreatePostAdminHandler returns an HTTP handler for the privileged
// post creation path.
// @Summary Create a post (admin)
// @Description Superuser only; the moderation status may be set directly, bypassing the pending default.
// @Tags posts
// @Accept json
// @Produce json
// @Param postAdminRequest body handlers.PostAdminRequest true "New post with optional status"
// @Success 201 {object} models.PostDB "Created post"
// @Failure 403 {object} handlers.ErrorResponse "Not enough permissions"
// @Failure 422 {object} handlers.ErrorResponse "Schema violation"
// @Router /posts/admin/ [post]
// @Security BearerAuth
func NewCreatePostAdminHandler(svc PostAdminWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			writeError(w, http.StatusForbidden, "Could not validate credentials.")
			return
		}

		var req PostAdminRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
		if err := validateTitle(req.Title); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if req.Status != nil && !req.Status.Valid() {
			writeError(w, http.StatusUnprocessableEntity, "invalid moderation status")
			return
		}

		post, err := svc.CreateAdmin(r.Context(), user, services.PostAdminInput{
			PostInput: services.PostInput{
				Title:       req.Title,
				Description: req.Description,
				Photo:       req.Photo,
			},
			Status: req.Status,
		})
		if err != nil {
			handlePostWriteError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, post)
	}
}

// NewUpdatePostAdminHandler returns an HTTP handler for the privileged
// partial update, including moderation transitions.
// @Summary Update a post (admin)
// @Description Superuser only; no ownership check, moderation status settable.
// @Tags posts
// @Accept json
// @Produce json
// @Param post_id path int true "Post ID"
// @Param postAdminUpdateRequest body handlers.PostAdminUpdateRequest true "Partial update with optional status"
// @Success 200 {object} models.PostDB "Updated post"
// @Failure 403 {object} handlers.ErrorResponse "Not enough permissions"
// @Failure 404 {object} handlers.ErrorResponse "Post doesn't exist"
// @Failure 422 {object} handlers.ErrorResponse "Schema violation"
// @Router /posts/admin/{post_id} [put]
// @Security BearerAuth
func NewUpdatePostAdminHandler(svc PostAdminWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			writeError(w, http.StatusForbidden, "Could not validate credentials.")
			return
		}

		id, err := pathID(r, "post_id")
		if err != nil {
			writeError(w, http.StatusNotFound, "Post doesn't exist.")
			return
		}

		var req PostAdminUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if req.Status != nil && !req.Status.Valid() {
			writeError(w, http.StatusUnprocessableEntity, "invalid moderation status")
			return
		}

		post, err := svc.UpdateAdmin(r.Context(), user, id, services.PostAdminUpdateInput{
			PostUpdateInput: services.PostUpdateInput{
				Title:       req.Title,
				Description: req.Description,
				Photo:       req.Photo,
			},
			Status: req.Status,
		})
		if err != nil {
			handlePostWriteError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, post)
	}
}
