package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sportclub-app/sportclub-backend/internal/logger"
	"github.com/sportclub-app/sportclub-backend/internal/middlewares"
	"github.com/sportclub-app/sportclub-backend/internal/models"
	"github.com/sportclub-app/sportclub-backend/internal/repositories"
	"github.com/sportclub-app/sportclub-backend/internal/services"
)

// PostReader defines the read operations the post handlers need.
type PostReader interface {
	Get(ctx context.Context, id int64) (*models.PostDetail, error)
	List(ctx context.Context, filter models.PostFilter) ([]models.PostDB, error)
}

// PostWriter defines the write operations the non-privileged post
// handlers need.
type PostWriter interface {
	Create(ctx context.Context, user *models.UserDB, in services.PostInput) (*models.PostDB, error)
	Update(ctx context.Context, user *models.UserDB, id int64, in services.PostUpdateInput) (*models.PostDB, error)
}

// PostRequest represents the JSON body for creating a post
// swagger:model PostRequest
type PostRequest struct {
	// Title
	// required: true
	// default: Club news
	Title string `json:"title"`

	// Body text
	Description *string `json:"description,omitempty"`

	// Photo link
	Photo *string `json:"photo,omitempty"`
}

// PostUpdateRequest represents a partial post update
// swagger:model PostUpdateRequest
type PostUpdateRequest struct {
	// Title
	Title *string `json:"title,omitempty"`

	// Body text
	Description *string `json:"description,omitempty"`

	// Photo link
	Photo *string `json:"photo,omitempty"`
}

func (req *PostUpdateRequest) validate() error {
	if req.Title != nil {
		return validateTitle(*req.Title)
	}
	return nil
}

// NewGetPostHandler returns an HTTP handler for the enriched post read.
// @Summary Get post by id
// @Description Returns the post with the owner's public profile joined in.
// @Tags posts
// @Produce json
// @Param post_id path int true "Post ID"
// @Success 200 {object} models.PostDetail "Post with owner profile"
// @Failure 404 {object} handlers.ErrorResponse "Post doesn't exist"
// @Router /posts/{post_id} [get]
func NewGetPostHandler(svc PostReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "post_id")
		if err != nil {
			writeError(w, http.StatusNotFound, "Post doesn't exist.")
			return
		}

		post, err := svc.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, services.ErrPostNotFound) {
				writeError(w, http.StatusNotFound, "Post doesn't exist.")
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, post)
	}
}

// NewListPostsHandler returns an HTTP handler for the filtered listing.
// @Summary List posts
// @Description Most recent first. Absent filters match everything; present ones are equality-matched.
// @Tags posts
// @Produce json
// @Param owner_id query int false "Owning user id"
// @Param title query string false "Exact title"
// @Success 200 {array} models.PostDB "Posts ordered by creation time desc"
// @Router /posts/ [get]
func NewListPostsHandler(svc PostReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter models.PostFilter
		q := r.URL.Query()
		if v := q.Get("owner_id"); v != "" {
			ownerID, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				writeError(w, http.StatusUnprocessableEntity, "owner_id must be an integer")
				return
			}
			filter.OwnerID = &ownerID
		}
		if v := q.Get("title"); v != "" {
			filter.Title = &v
		}

		posts, err := svc.List(r.Context(), filter)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, posts)
	}
}

// NewCreatePostHandler returns an HTTP handler for post creation.
// Moderation always starts at pending on this path.
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param postRequest body handlers.PostRequest true "New post"
// @Success 201 {object} models.PostDB "Created post"
// @Failure 400 {object} handlers.ErrorResponse "Integrity failure"
// @Failure 403 {object} handlers.ErrorResponse "Could not validate credentials"
// @Failure 422 {object} handlers.ErrorResponse "Schema violation"
// @Router /posts/ [post]
// @Security BearerAuth
func NewCreatePostHandler(svc PostWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			writeError(w, http.StatusForbidden, "Could not validate credentials.")
			return
		}

		var req PostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
		if err := validateTitle(req.Title); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		post, err := svc.Create(r.Context(), user, services.PostInput{
			Title:       req.Title,
			Description: req.Description,
			Photo:       req.Photo,
		})
		if err != nil {
			handlePostWriteError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, post)
	}
}

// NewUpdatePostHandler returns an HTTP handler for the owner-only
// partial post update.
// @Summary Update a post
// @Description Owner only; a non-owner receives 403. Moderation status is not settable here.
// @Tags posts
// @Accept json
// @Produce json
// @Param post_id path int true "Post ID"
// @Param postUpdateRequest body handlers.PostUpdateRequest true "Partial update"
// @Success 200 {object} models.PostDB "Updated post"
// @Failure 403 {object} handlers.ErrorResponse "Not enough permissions"
// @Failure 404 {object} handlers.ErrorResponse "Post doesn't exist"
// @Failure 422 {object} handlers.ErrorResponse "Schema violation"
// @Router /posts/{post_id} [put]
// @Security BearerAuth
func NewUpdatePostHandler(svc PostWriter) http.HandlerFunc {
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

		var req PostUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		post, err := svc.Update(r.Context(), user, id, services.PostUpdateInput{
			Title:       req.Title,
			Description: req.Description,
			Photo:       req.Photo,
		})
		if err != nil {
			handlePostWriteError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, post)
	}
}

func handlePostWriteError(w http.ResponseWriter, err error) {
	var conflict *repositories.ConflictError
	switch {
	case errors.Is(err, services.ErrPostNotFound):
		writeError(w, http.StatusNotFound, "Post doesn't exist.")
	case errors.Is(err, services.ErrNotOwner):
		writeError(w, http.StatusForbidden, "Not enough permissions.")
	case errors.As(err, &conflict):
		writeError(w, http.StatusBadRequest, conflict.Msg)
	default:
		logger.Log.Errorw("internal server error", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
