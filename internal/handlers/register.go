package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sportclub-app/sportclub-backend/internal/logger"
	"github.com/sportclub-app/sportclub-backend/internal/middlewares"
	"github.com/sportclub-app/sportclub-backend/internal/models"
	"github.com/sportclub-app/sportclub-backend/internal/repositories"
	"github.com/sportclub-app/sportclub-backend/internal/services"
)

// Registerer defines the interface that the registration service must implement.
type Registerer interface {
	Register(ctx context.Context, in services.RegisterInput, createdBy *int64) (*models.UserDB, error)
}

// RegisterRequest represents the JSON body for account registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Username
	// required: true
	// default: john
	Username string `json:"username"`

	// Password
	// required: true
	// default: secret123
	Password string `json:"password"`

	// Full name
	// default: John Doe
	FullName string `json:"full_name"`

	// Email
	// required: true
	// default: john@example.com
	Email string `json:"email"`

	// Avatar image link
	Avatar *string `json:"avatar,omitempty"`

	// Superuser flag
	IsSuperuser bool `json:"is_superuser"`

	// Activity flag
	IsActive bool `json:"is_active"`

	// Approval flag
	IsApproved bool `json:"is_approved"`
}

func (req *RegisterRequest) validate() error {
	if err := validateUsername(req.Username); err != nil {
		return err
	}
	if err := validatePassword(req.Password); err != nil {
		return err
	}
	if err := validateFullName(req.FullName); err != nil {
		return err
	}
	return validateEmail(req.Email)
}

// NewRegisterHandler returns an HTTP handler for account registration.
// Reachable only through the superuser-gated route group.
// @Summary Register a new account
// @Description Creates a new account with a hashed credential. Superuser only.
// @Tags users
// @Accept json
// @Produce json
// @Param registerRequest body handlers.RegisterRequest true "Account registration request"
// @Success 201 {object} models.UserDB "Account created"
// @Failure 400 {object} handlers.ErrorResponse "Duplicate username or integrity failure"
// @Failure 403 {object} handlers.ErrorResponse "Not enough permissions"
// @Failure 422 {object} handlers.ErrorResponse "Schema violation"
// @Router /register [post]
// @Security BearerAuth
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		var createdBy *int64
		if current := middlewares.GetUserFromContext(r.Context()); current != nil {
			createdBy = &current.ID
		}

		user, err := svc.Register(r.Context(), services.RegisterInput{
			Username:    req.Username,
			Password:    req.Password,
			FullName:    req.FullName,
			Email:       req.Email,
			Avatar:      req.Avatar,
			IsSuperuser: req.IsSuperuser,
			IsActive:    req.IsActive,
			IsApproved:  req.IsApproved,
		}, createdBy)
		if err != nil {
			var conflict *repositories.ConflictError
			switch {
			case errors.Is(err, services.ErrUserAlreadyExists):
				writeError(w, http.StatusBadRequest, "Username or email already registered")
			case errors.As(err, &conflict):
				writeError(w, http.StatusBadRequest, conflict.Msg)
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, user)
	}
}
