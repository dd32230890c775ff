package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sportclub-app/sportclub-backend/internal/logger"
	"github.com/sportclub-app/sportclub-backend/internal/models"
)

var userColumns = []string{
	"id", "username", "password_hash", "full_name", "email", "avatar",
	"is_superuser", "is_active", "is_approved", "created_at", "created_by",
}

var userSortKeys = []string{"id", "username", "full_name", "email", "created_at"}

// UserRepository mediates all reads and writes for user accounts.
type UserRepository struct {
	*Repository[models.UserDB]
}

// NewUserRepository creates a user repository over db.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{
		Repository: New[models.UserDB](db, "users", userColumns, userSortKeys),
	}
}

// GetByName returns the user with the given unique username, or nil.
func (r *UserRepository) GetByName(ctx context.Context, username string) (*models.UserDB, error) {
	query := `
		SELECT id, username, password_hash, full_name, email, avatar,
		       is_superuser, is_active, is_approved, created_at, created_by
		FROM users
		WHERE username = $1
	`

	var user models.UserDB
	err := sqlx.GetContext(ctx, r.ext(ctx), &user, query, username)

	logger.Log.Infow("query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserCreate carries the validated fields for a new account.
// PasswordHash must already be a bcrypt hash.
type UserCreate struct {
	Username     string
	PasswordHash string
	FullName     string
	Email        string
	Avatar       *string
	IsSuperuser  bool
	IsActive     bool
	IsApproved   bool
	CreatedBy    *int64
}

// Create inserts a new account. Uniqueness races are not pre-checked;
// a duplicate username or email surfaces as a ConflictError.
func (r *UserRepository) Create(ctx context.Context, in UserCreate) (*models.UserDB, error) {
	return r.Insert(ctx, map[string]any{
		"username":      in.Username,
		"password_hash": in.PasswordHash,
		"full_name":     in.FullName,
		"email":         in.Email,
		"avatar":        in.Avatar,
		"is_superuser":  in.IsSuperuser,
		"is_active":     in.IsActive,
		"is_approved":   in.IsApproved,
		"created_by":    in.CreatedBy,
	})
}

// ListPaginatedFiltered returns a page of users matching the filter,
// most recently created first. Absent filter fields match everything.
func (r *UserRepository) ListPaginatedFiltered(ctx context.Context, params models.PageParams, filter models.UserFilter) (*models.Page[models.UserDB], error) {
	var preds []Predicate
	if filter.Username != nil {
		preds = append(preds, Eq("username", *filter.Username))
	}
	if filter.FullName != nil {
		preds = append(preds, Eq("full_name", *filter.FullName))
	}
	if filter.IsSuperuser != nil {
		preds = append(preds, Eq("is_superuser", *filter.IsSuperuser))
	}

	return r.ListPaginated(ctx, params, ListQuery{
		Where:   And(preds...),
		OrderBy: "created_at",
		Order:   OrderDesc,
	})
}

// SearchPaginated returns a page of the accounts created by viewerID
// whose username contains substr, case-insensitively, most recently
// created first.
func (r *UserRepository) SearchPaginated(ctx context.Context, params models.PageParams, substr string, viewerID int64) (*models.Page[models.UserDB], error) {
	return r.ListPaginated(ctx, params, ListQuery{
		Where:   And(Contains("username", substr), Eq("created_by", viewerID)),
		OrderBy: "created_at",
		Order:   OrderDesc,
	})
}
