package services

import (
	"context"
	"errors"
	"time"

	"github.com/sportclub-app/sportclub-backend/internal/logger"
	"github.com/sportclub-app/sportclub-backend/internal/models"
	"github.com/sportclub-app/sportclub-backend/internal/repositories"
)

// ErrExerciseNotFound is returned when an exercise id resolves to nothing.
var ErrExerciseNotFound = errors.New("exercise not found")

// ExerciseRepo defines the repository operations the exercise service needs.
type ExerciseRepo interface {
	Get(ctx context.Context, id int64) (*models.ExerciseDB, error)
	Create(ctx context.Context, in repositories.ExerciseCreate) (*models.ExerciseDB, error)
	Update(ctx context.Context, id int64, values map[string]any) (*models.ExerciseDB, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.ExerciseDB, error)
	GetDaily(ctx context.Context, superuserName string) (*models.ExerciseDB, error)
}

// ExerciseInput carries the validated fields for a new exercise.
type ExerciseInput struct {
	Text  string
	Photo *string
	Time  time.Time
}

// ExerciseUpdateInput carries a partial exercise update.
type ExerciseUpdateInput struct {
	Text  *string
	Photo *string
	Time  *time.Time
}

// ExerciseService handles exercise reads and writes. superuserName is
// the distinguished account whose latest entry is the daily exercise.
type ExerciseService struct {
	repo          ExerciseRepo
	superuserName string
}

// NewExerciseService creates a new ExerciseService instance.
func NewExerciseService(repo ExerciseRepo, superuserName string) *ExerciseService {
	return &ExerciseService{repo: repo, superuserName: superuserName}
}

// Get returns the exercise with the given id.
func (svc *ExerciseService) Get(ctx context.Context, id int64) (*models.ExerciseDB, error) {
	exercise, err := svc.repo.Get(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get exercise", "id", id, "err", err)
		return nil, err
	}
	if exercise == nil {
		return nil, ErrExerciseNotFound
	}
	return exercise, nil
}

// Create creates an exercise owned by user.
func (svc *ExerciseService) Create(ctx context.Context, user *models.UserDB, in ExerciseInput) (*models.ExerciseDB, error) {
	return svc.repo.Create(ctx, repositories.ExerciseCreate{
		Text:    in.Text,
		Photo:   in.Photo,
		Time:    in.Time,
		OwnerID: user.ID,
	})
}

// Update applies a partial update to an exercise owned by user.
func (svc *ExerciseService) Update(ctx context.Context, user *models.UserDB, id int64, in ExerciseUpdateInput) (*models.ExerciseDB, error) {
	exercise, err := svc.repo.Get(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get exercise", "id", id, "err", err)
		return nil, err
	}
	if exercise == nil {
		return nil, ErrExerciseNotFound
	}
	if exercise.OwnerID != user.ID {
		logger.Log.Errorw("exercise update by non-owner", "id", id, "user_id", user.ID)
		return nil, ErrNotOwner
	}

	values := map[string]any{}
	if in.Text != nil {
		values["text"] = *in.Text
	}
	if in.Photo != nil {
		values["photo"] = *in.Photo
	}
	if in.Time != nil {
		values["time"] = *in.Time
	}

	return svc.repo.Update(ctx, id, values)
}

// ListMine returns the caller's exercises, most recent first.
func (svc *ExerciseService) ListMine(ctx context.Context, user *models.UserDB) ([]models.ExerciseDB, error) {
	return svc.repo.ListByOwner(ctx, user.ID)
}

// Daily returns the most recent exercise of the distinguished
// superuser account, or nil when there is none.
func (svc *ExerciseService) Daily(ctx context.Context) (*models.ExerciseDB, error) {
	return svc.repo.GetDaily(ctx, svc.superuserName)
}
