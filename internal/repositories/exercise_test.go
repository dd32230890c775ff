package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExerciseRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExerciseRepository(db)

	when := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta(
		"INSERT INTO exercises (text, photo, time, owner_id) VALUES ($1, $2, $3, $4) " +
			"RETURNING id, text, photo, time, owner_id",
	)
	mock.ExpectQuery(query).
		WithArgs("3x10 squats", nil, when, int64(7)).
		WillReturnRows(exerciseRows(1))

	exercise, err := repo.Create(context.Background(), ExerciseCreate{
		Text:    "3x10 squats",
		Time:    when,
		OwnerID: 7,
	})
	require.NoError(t, err)
	require.NotNil(t, exercise)
	assert.Equal(t, int64(1), exercise.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExerciseRepository_ListByOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExerciseRepository(db)

	query := regexp.QuoteMeta(
		"SELECT id, text, photo, time, owner_id FROM exercises WHERE (owner_id = $1) ORDER BY time DESC",
	)
	mock.ExpectQuery(query).WithArgs(int64(7)).WillReturnRows(exerciseRows(2, 1))

	exercises, err := repo.ListByOwner(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, exercises, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExerciseRepository_GetDaily(t *testing.T) {
	query := regexp.QuoteMeta("WHERE u.username = $1 AND u.is_superuser ORDER BY e.time DESC LIMIT 1")

	t.Run("Present", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewExerciseRepository(db)

		mock.ExpectQuery(query).WithArgs("admin").WillReturnRows(exerciseRows(3))

		exercise, err := repo.GetDaily(context.Background(), "admin")
		require.NoError(t, err)
		require.NotNil(t, exercise)
		assert.Equal(t, int64(3), exercise.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("AbsentIsNilNil", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewExerciseRepository(db)

		mock.ExpectQuery(query).WithArgs("admin").WillReturnRows(sqlmock.NewRows(nil))

		exercise, err := repo.GetDaily(context.Background(), "admin")
		assert.NoError(t, err)
		assert.Nil(t, exercise)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
