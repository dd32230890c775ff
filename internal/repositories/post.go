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

var postColumns = []string{
	"id", "title", "description", "photo", "owner_id", "status", "created_at",
}

var postSortKeys = []string{"id", "title", "created_at"}

// PostRepository mediates all reads and writes for posts.
type PostRepository struct {
	*Repository[models.PostDB]
}

// NewPostRepository creates a post repository over db.
func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{
		Repository: New[models.PostDB](db, "posts", postColumns, postSortKeys),
	}
}

// PostCreate carries the validated fields for a new post.
type PostCreate struct {
	Title       string
	Description *string
	Photo       *string
	OwnerID     int64
	Status      models.PostStatus
}

// Create inserts a new post. A zero Status falls back to pending, the
// moderation starting state for the non-privileged path.
func (r *PostRepository) Create(ctx context.Context, in PostCreate) (*models.PostDB, error) {
	status := in.Status
	if status == "" {
		status = models.PostStatusPending
	}
	return r.Insert(ctx, map[string]any{
		"title":       in.Title,
		"description": in.Description,
		"photo":       in.Photo,
		"owner_id":    in.OwnerID,
		"status":      status,
	})
}

// GetDetail returns the post enriched with the owner's public profile,
// or nil when absent.
func (r *PostRepository) GetDetail(ctx context.Context, id int64) (*models.PostDetail, error) {
	query := `
		SELECT p.id, p.title, p.description, p.photo, p.owner_id, p.status, p.created_at,
		       u.id AS owner_user_id, u.username AS owner_username, u.avatar AS owner_avatar
		FROM posts p
		JOIN users u ON u.id = p.owner_id
		WHERE p.id = $1
	`

	var row struct {
		models.PostDB
		models.UserPublic
	}
	err := sqlx.GetContext(ctx, r.ext(ctx), &row, query, id)

	logger.Log.Infow("query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &models.PostDetail{PostDB: row.PostDB, Owner: row.UserPublic}, nil
}

// ListFilteredByTime returns posts matching the filter, most recent
// first. Absent filter fields match everything; present fields are
// equality-matched and combined conjunctively.
func (r *PostRepository) ListFilteredByTime(ctx context.Context, filter models.PostFilter) ([]models.PostDB, error) {
	var preds []Predicate
	if filter.OwnerID != nil {
		preds = append(preds, Eq("owner_id", *filter.OwnerID))
	}
	if filter.Title != nil {
		preds = append(preds, Eq("title", *filter.Title))
	}

	return r.ListFiltered(ctx, ListQuery{
		Where:   And(preds...),
		OrderBy: "created_at",
		Order:   OrderDesc,
	})
}
