package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sportclub-app/sportclub-backend/internal/middlewares"
)

// NewGetMeHandler returns an HTTP handler for reading the current account.
// @Summary Get current user
// @Tags users
// @Produce json
// @Success 200 {object} models.UserDB "Current user"
// @Failure 403 {object} handlers.ErrorResponse "Could not validate credentials"
// @Router /users/me/ [get]
// @Security BearerAuth
func NewGetMeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			writeError(w, http.StatusForbidden, "Could not validate credentials.")
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}

// NewUpdateMeHandler returns an HTTP handler for the partial self-update.
// @Summary Update current user
// @Tags users
// @Accept json
// @Produce json
// @Param userUpdateRequest body handlers.UserUpdateRequest true "Partial update"
// @Success 200 {object} models.UserDB "Updated user"
// @Failure 403 {object} handlers.ErrorResponse "Could not validate credentials"
// @Failure 422 {object} handlers.ErrorResponse "Schema violation"
// @Router /users/me/ [put]
// @Security BearerAuth
func NewUpdateMeHandler(svc UserUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			writeError(w, http.StatusForbidden, "Could not validate credentials.")
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

		updated, err := svc.Update(r.Context(), user.ID, req.toInput())
		if err != nil {
			handleUserUpdateError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, updated)
	}
}
