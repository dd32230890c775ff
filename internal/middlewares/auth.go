package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sportclub-app/sportclub-backend/internal/logger"
	"github.com/sportclub-app/sportclub-backend/internal/models"
)

// Tokener defines the token operations needed by the auth middleware.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetUserID(ctx context.Context, tokenString string) (int64, error)
}

// UserGetter loads the account for a verified token subject.
type UserGetter interface {
	Get(ctx context.Context, id int64) (*models.UserDB, error)
}

// AuthMiddleware resolves the bearer token to an account and stores it
// in the request context. Any failure (missing, invalid or expired token,
// or an absent account) responds 403: the original API used 403 rather
// than 401 for unauthenticated requests and that behavior is kept.
func AuthMiddleware(tokener Tokener, users UserGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				writeAuthError(w, "Could not validate credentials.")
				return
			}

			userID, err := tokener.GetUserID(ctx, tokenString)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				writeAuthError(w, "Could not validate credentials.")
				return
			}

			user, err := users.Get(ctx, userID)
			if err != nil {
				logger.Log.Errorw("failed to load token subject", "user_id", userID, "err", err)
				writeErrorBody(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			if user == nil {
				logger.Log.Errorw("token subject not found", "user_id", userID)
				writeAuthError(w, "Could not validate credentials.")
				return
			}

			next.ServeHTTP(w, r.WithContext(SetUserToContext(ctx, user)))
		})
	}
}

// RequireSuperuser rejects requests whose resolved account lacks the
// superuser flag. Must run after AuthMiddleware.
func RequireSuperuser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil || !user.IsSuperuser {
			writeAuthError(w, "Not enough permissions.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeAuthError(w http.ResponseWriter, msg string) {
	writeErrorBody(w, http.StatusForbidden, msg)
}

func writeErrorBody(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

type userContextKey struct{}

var userKey = userContextKey{}

// SetUserToContext stores the authenticated account in the context.
func SetUserToContext(ctx context.Context, user *models.UserDB) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext retrieves the authenticated account. Returns nil if not present.
func GetUserFromContext(ctx context.Context) *models.UserDB {
	user, _ := ctx.Value(userKey).(*models.UserDB)
	return user
}
