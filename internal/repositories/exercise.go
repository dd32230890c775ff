package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sportclub-app/sportclub-backend/internal/logger"
	"github.com/sportclub-app/sportclub-backend/internal/models"
)

var exerciseColumns = []string{"id", "text", "photo", "time", "owner_id"}

var exerciseSortKeys = []string{"id", "time"}

// ExerciseRepository mediates all reads and writes for exercises.
type ExerciseRepository struct {
	*Repository[models.ExerciseDB]
}

// NewExerciseRepository creates an exercise repository over db.
func NewExerciseRepository(db *sqlx.DB) *ExerciseRepository {
	return &ExerciseRepository{
		Repository: New[models.ExerciseDB](db, "exercises", exerciseColumns, exerciseSortKeys),
	}
}

// ExerciseCreate carries the validated fields for a new exercise.
type ExerciseCreate struct {
	Text    string
	Photo   *string
	Time    time.Time
	OwnerID int64
}

// Create inserts a new exercise owned by OwnerID.
func (r *ExerciseRepository) Create(ctx context.Context, in ExerciseCreate) (*models.ExerciseDB, error) {
	return r.Insert(ctx, map[string]any{
		"text":     in.Text,
		"photo":    in.Photo,
		"time":     in.Time,
		"owner_id": in.OwnerID,
	})
}

// ListByOwner returns the owner's exercises, most recent first.
func (r *ExerciseRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.ExerciseDB, error) {
	return r.ListFiltered(ctx, ListQuery{
		Where:   Eq("owner_id", ownerID),
		OrderBy: "time",
		Order:   OrderDesc,
	})
}

// GetDaily returns the most recent exercise belonging to the
// distinguished superuser account, or nil when there is none.
func (r *ExerciseRepository) GetDaily(ctx context.Context, superuserName string) (*models.ExerciseDB, error) {
	query := `
		SELECT e.id, e.text, e.photo, e.time, e.owner_id
		FROM exercises e
		JOIN users u ON u.id = e.owner_id
		WHERE u.username = $1 AND u.is_superuser
		ORDER BY e.time DESC
		LIMIT 1
	`

	var exercise models.ExerciseDB
	err := sqlx.GetContext(ctx, r.ext(ctx), &exercise, query, superuserName)

	logger.Log.Infow("query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{superuserName},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &exercise, nil
}
