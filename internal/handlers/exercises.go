package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sportclub-app/sportclub-backend/internal/logger"
	"github.com/sportclub-app/sportclub-backend/internal/middlewares"
	"github.com/sportclub-app/sportclub-backend/internal/models"
	"github.com/sportclub-app/sportclub-backend/internal/repositories"
	"github.com/sportclub-app/sportclub-backend/internal/services"
)

// ExerciseProvider defines the operations the exercise handlers need.
type ExerciseProvider interface {
	Get(ctx context.Context, id int64) (*models.ExerciseDB, error)
	Create(ctx context.Context, user *models.UserDB, in services.ExerciseInput) (*models.ExerciseDB, error)
	Update(ctx context.Context, user *models.UserDB, id int64, in services.ExerciseUpdateInput) (*models.ExerciseDB, error)
	ListMine(ctx context.Context, user *models.UserDB) ([]models.ExerciseDB, error)
	Daily(ctx context.Context) (*models.ExerciseDB, error)
}

// ExerciseRequest represents the JSON body for creating an exercise
// swagger:model ExerciseRequest
type ExerciseRequest struct {
	// Exercise body
	// required: true
	// default: 3x10 squats
	Text string `json:"text"`

	// Photo link
	Photo *string `json:"photo,omitempty"`

	// Scheduled time
	// required: true
	Time time.Time `json:"time"`
}

// ExerciseUpdateRequest represents a partial exercise update
// swagger:model ExerciseUpdateRequest
type ExerciseUpdateRequest struct {
	// Exercise body
	Text *string `json:"text,omitempty"`

	// Photo link
	Photo *string `json:"photo,omitempty"`

	// Scheduled time
	Time *time.Time `json:"time,omitempty"`
}

// NewGetExerciseHandler returns an HTTP handler for reading one exercise.
// @Summary Get exercise by id
// @Tags exercises
// @Produce json
// @Param exercise_id path int true "Exercise ID"
// @Success 200 {object} models.ExerciseDB "Exercise"
// @Failure 404 {object} handlers.ErrorResponse "Exercise doesn't exist"
// @Router /exercises/{exercise_id} [get]
func NewGetExerciseHandler(svc ExerciseProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "exercise_id")
		if err != nil {
			writeError(w, http.StatusNotFound, "Exercise doesn't exist.")
			return
		}

		exercise, err := svc.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, services.ErrExerciseNotFound) {
				writeError(w, http.StatusNotFound, "Exercise doesn't exist.")
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, exercise)
	}
}

// NewCreateExerciseHandler returns an HTTP handler for exercise creation.
// @Summary Create an exercise
// @Tags exercises
// @Accept json
// @Produce json
// @Param exerciseRequest body handlers.ExerciseRequest true "New exercise"
// @Success 201 {object} models.ExerciseDB "Created exercise"
// @Failure 400 {object} handlers.ErrorResponse "Integrity failure"
// @Failure 403 {object} handlers.ErrorResponse "Could not validate credentials"
// @Failure 422 {object} handlers.ErrorResponse "Schema violation"
// @Router /exercises/ [post]
// @Security BearerAuth
func NewCreateExerciseHandler(svc ExerciseProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			writeError(w, http.StatusForbidden, "Could not validate credentials.")
			return
		}

		var req ExerciseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
		if err := validateText(req.Text); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if req.Time.IsZero() {
			writeError(w, http.StatusUnprocessableEntity, "time is required")
			return
		}

		exercise, err := svc.Create(r.Context(), user, services.ExerciseInput{
			Text:  req.Text,
			Photo: req.Photo,
			Time:  req.Time,
		})
		if err != nil {
			handleExerciseWriteError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, exercise)
	}
}

// NewUpdateExerciseHandler returns an HTTP handler for the owner-only
// partial exercise update.
// @Summary Update an exercise
// @Tags exercises
// @Accept json
// @Produce json
// @Param exercise_id path int true "Exercise ID"
// @Param exerciseUpdateRequest body handlers.ExerciseUpdateRequest true "Partial update"
// @Success 200 {object} models.ExerciseDB "Updated exercise"
// @Failure 403 {object} handlers.ErrorResponse "Not enough permissions"
// @Failure 404 {object} handlers.ErrorResponse "Exercise doesn't exist"
// @Failure 422 {object} handlers.ErrorResponse "Schema violation"
// @Router /exercises/{exercise_id} [put]
// @Security BearerAuth
func NewUpdateExerciseHandler(svc ExerciseProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			writeError(w, http.StatusForbidden, "Could not validate credentials.")
			return
		}

		id, err := pathID(r, "exercise_id")
		if err != nil {
			writeError(w, http.StatusNotFound, "Exercise doesn't exist.")
			return
		}

		var req ExerciseUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
		if req.Text != nil {
			if err := validateText(*req.Text); err != nil {
				writeError(w, http.StatusUnprocessableEntity, err.Error())
				return
			}
		}

		exercise, err := svc.Update(r.Context(), user, id, services.ExerciseUpdateInput{
			Text:  req.Text,
			Photo: req.Photo,
			Time:  req.Time,
		})
		if err != nil {
			handleExerciseWriteError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, exercise)
	}
}

// NewListMyExercisesHandler returns an HTTP handler listing the
// caller's exercises, most recent first.
// @Summary List own exercises
// @Tags exercises
// @Produce json
// @Success 200 {array} models.ExerciseDB "Caller's exercises, time desc"
// @Failure 403 {object} handlers.ErrorResponse "Could not validate credentials"
// @Router /exercises/all/ [get]
// @Security BearerAuth
func NewListMyExercisesHandler(svc ExerciseProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			writeError(w, http.StatusForbidden, "Could not validate credentials.")
			return
		}

		exercises, err := svc.ListMine(r.Context(), user)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, exercises)
	}
}

// NewDailyExerciseHandler returns an HTTP handler for the daily
// exercise: the most recent entry of the distinguished superuser
// account.
// @Summary Get the daily exercise
// @Tags exercises
// @Produce json
// @Success 200 {object} models.ExerciseDB "Daily exercise, or null when none exists"
// @Router /exercises/daily/ [get]
func NewDailyExerciseHandler(svc ExerciseProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		exercise, err := svc.Daily(r.Context())
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, exercise)
	}
}

func handleExerciseWriteError(w http.ResponseWriter, err error) {
	var conflict *repositories.ConflictError
	switch {
	case errors.Is(err, services.ErrExerciseNotFound):
		writeError(w, http.StatusNotFound, "Exercise doesn't exist.")
	case errors.Is(err, services.ErrNotOwner):
		writeError(w, http.StatusForbidden, "Not enough permissions.")
	case errors.As(err, &conflict):
		writeError(w, http.StatusBadRequest, conflict.Msg)
	default:
		logger.Log.Errorw("internal server error", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
