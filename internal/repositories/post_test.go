package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportclub-app/sportclub-backend/internal/models"
)

func postRows(ids ...int64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "title", "description", "photo", "owner_id", "status", "created_at"})
	for _, id := range ids {
		rows.AddRow(id, "open training", nil, nil, int64(5), "pending", time.Now())
	}
	return rows
}

func TestPostRepository_Create(t *testing.T) {
	query := regexp.QuoteMeta(
		"INSERT INTO posts (title, description, photo, owner_id, status) VALUES ($1, $2, $3, $4, $5) " +
			"RETURNING id, title, description, photo, owner_id, status, created_at",
	)

	t.Run("ZeroStatusDefaultsToPending", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectQuery(query).
			WithArgs("open training", nil, nil, int64(5), "pending").
			WillReturnRows(postRows(1))

		post, err := repo.Create(context.Background(), PostCreate{
			Title:   "open training",
			OwnerID: 5,
		})
		require.NoError(t, err)
		require.NotNil(t, post)
		assert.Equal(t, models.PostStatusPending, post.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ExplicitStatusIsKept", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db)

		rows := sqlmock.NewRows([]string{"id", "title", "description", "photo", "owner_id", "status", "created_at"}).
			AddRow(int64(2), "open training", nil, nil, int64(5), "approved", time.Now())

		mock.ExpectQuery(query).
			WithArgs("open training", nil, nil, int64(5), "approved").
			WillReturnRows(rows)

		post, err := repo.Create(context.Background(), PostCreate{
			Title:   "open training",
			OwnerID: 5,
			Status:  models.PostStatusApproved,
		})
		require.NoError(t, err)
		require.NotNil(t, post)
		assert.Equal(t, models.PostStatusApproved, post.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostRepository_GetDetail(t *testing.T) {
	query := regexp.QuoteMeta("JOIN users u ON u.id = p.owner_id WHERE p.id = $1")

	t.Run("FoundWithOwner", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db)

		rows := sqlmock.NewRows([]string{
			"id", "title", "description", "photo", "owner_id", "status", "created_at",
			"owner_user_id", "owner_username", "owner_avatar",
		}).AddRow(int64(1), "open training", nil, nil, int64(5), "approved", time.Now(),
			int64(5), "coach", nil)

		mock.ExpectQuery(query).WithArgs(int64(1)).WillReturnRows(rows)

		detail, err := repo.GetDetail(context.Background(), 1)
		require.NoError(t, err)
		require.NotNil(t, detail)
		assert.Equal(t, int64(1), detail.ID)
		assert.Equal(t, int64(5), detail.Owner.ID)
		assert.Equal(t, "coach", detail.Owner.Username)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("AbsentIsNilNil", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectQuery(query).WithArgs(int64(99)).WillReturnRows(sqlmock.NewRows(nil))

		detail, err := repo.GetDetail(context.Background(), 99)
		assert.NoError(t, err)
		assert.Nil(t, detail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostRepository_ListFilteredByTime(t *testing.T) {
	t.Run("OwnerAndTitle", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db)

		query := regexp.QuoteMeta(
			"SELECT id, title, description, photo, owner_id, status, created_at FROM posts " +
				"WHERE (owner_id = $1) AND (title = $2) ORDER BY created_at DESC",
		)
		mock.ExpectQuery(query).WithArgs(int64(5), "open training").WillReturnRows(postRows(1, 2))

		ownerID := int64(5)
		title := "open training"
		posts, err := repo.ListFilteredByTime(context.Background(), models.PostFilter{
			OwnerID: &ownerID,
			Title:   &title,
		})
		require.NoError(t, err)
		assert.Len(t, posts, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NoFilterListsEverything", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db)

		query := regexp.QuoteMeta(
			"SELECT id, title, description, photo, owner_id, status, created_at FROM posts " +
				"ORDER BY created_at DESC",
		)
		mock.ExpectQuery(query).WillReturnRows(postRows(1, 2, 3))

		posts, err := repo.ListFilteredByTime(context.Background(), models.PostFilter{})
		require.NoError(t, err)
		assert.Len(t, posts, 3)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
