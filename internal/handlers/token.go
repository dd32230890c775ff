package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sportclub-app/sportclub-backend/internal/logger"
	"github.com/sportclub-app/sportclub-backend/internal/middlewares"
	"github.com/sportclub-app/sportclub-backend/internal/services"
)

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// TokenResponse is the OAuth2-style access token body
// swagger:model TokenResponse
type TokenResponse struct {
	// Signed access token
	AccessToken string `json:"access_token"`

	// Token type
	// default: bearer
	TokenType string `json:"token_type"`
}

// NewAccessTokenHandler returns an HTTP handler for form-based login.
// @Summary Obtain an access token
// @Description OAuth2-compatible form login: username + password in the form body.
// @Tags login
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} handlers.TokenResponse "Access token"
// @Failure 400 {object} handlers.ErrorResponse "Incorrect username or password"
// @Router /access-token [post]
func NewAccessTokenHandler(svc Loginer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid form body.")
			return
		}

		username := r.PostFormValue("username")
		password := r.PostFormValue("password")

		token, err := svc.Login(r.Context(), username, password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				writeError(w, http.StatusBadRequest, "Incorrect username or password")
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, TokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
		})
	}
}

// NewTestTokenHandler returns an HTTP handler that echoes the account
// resolved from the presented token. Lets clients verify a stored
// token without touching any other resource.
// @Summary Test access token
// @Tags login
// @Produce json
// @Success 200 {object} models.UserDB "Token subject"
// @Failure 403 {object} handlers.ErrorResponse "Could not validate credentials"
// @Router /test-token [post]
// @Security BearerAuth
func NewTestTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			writeError(w, http.StatusForbidden, "Could not validate credentials.")
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}
