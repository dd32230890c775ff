package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sportclub-app/sportclub-backend/internal/models"
)

func setupUserPostgresContainer(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp"),
	}

	container, err := tc.GenericContainer(context.Background(), tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)

	host, _ := container.Host(context.Background())
	port, _ := container.MappedPort(context.Background(), "5432")

	dsn := fmt.Sprintf("postgres://postgres:password@%s:%d/testdb?sslmode=disable", host, port.Int())

	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("pgx", dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	assert.NoError(t, err)

	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(25) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		full_name VARCHAR(50) NOT NULL DEFAULT '',
		email VARCHAR(254) NOT NULL UNIQUE,
		avatar TEXT,
		is_superuser BOOLEAN NOT NULL DEFAULT FALSE,
		is_active BOOLEAN NOT NULL DEFAULT FALSE,
		is_approved BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_by BIGINT REFERENCES users(id)
	);
	`
	_, err = db.Exec(schema)
	assert.NoError(t, err)

	teardown := func() {
		db.Close()
		container.Terminate(context.Background())
	}

	return db, teardown
}

func TestUserRepository_CreateAndGetByName(t *testing.T) {
	db, teardown := setupUserPostgresContainer(t)
	defer teardown()

	repo := NewUserRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, UserCreate{
		Username:     "alice",
		PasswordHash: "$2a$10$hash",
		FullName:     "Alice A",
		Email:        "alice@example.com",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.IsSuperuser)
	assert.False(t, created.CreatedAt.IsZero())

	t.Run("ByName", func(t *testing.T) {
		user, err := repo.GetByName(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, created.ID, user.ID)
		assert.Equal(t, "$2a$10$hash", user.PasswordHash)
	})

	t.Run("UnknownName", func(t *testing.T) {
		user, err := repo.GetByName(ctx, "nobody")
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("ByID", func(t *testing.T) {
		user, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "alice", user.Username)
	})
}

func TestUserRepository_DuplicateUsernameIsConflict(t *testing.T) {
	db, teardown := setupUserPostgresContainer(t)
	defer teardown()

	repo := NewUserRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, UserCreate{
		Username: "bob", PasswordHash: "h", Email: "bob@example.com",
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, UserCreate{
		Username: "bob", PasswordHash: "h", Email: "bob2@example.com",
	})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Value already exists.", conflict.Msg)
}

func TestUserRepository_UpdatePartial(t *testing.T) {
	db, teardown := setupUserPostgresContainer(t)
	defer teardown()

	repo := NewUserRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, UserCreate{
		Username: "carol", PasswordHash: "h", FullName: "Carol", Email: "carol@example.com",
	})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, map[string]any{"full_name": "Carol C"})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Carol C", updated.FullName)
	assert.Equal(t, "carol", updated.Username)
	assert.Equal(t, "h", updated.PasswordHash)

	t.Run("AbsentRow", func(t *testing.T) {
		gone, err := repo.Update(ctx, created.ID+1000, map[string]any{"full_name": "x"})
		assert.NoError(t, err)
		assert.Nil(t, gone)
	})
}

func TestUserRepository_ListPaginatedFiltered(t *testing.T) {
	db, teardown := setupUserPostgresContainer(t)
	defer teardown()

	repo := NewUserRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, UserCreate{
			Username:     fmt.Sprintf("member%d", i),
			PasswordHash: "h",
			FullName:     "Member",
			Email:        fmt.Sprintf("member%d@example.com", i),
		})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, UserCreate{
		Username: "root", PasswordHash: "h", Email: "root@example.com", IsSuperuser: true,
	})
	require.NoError(t, err)

	t.Run("NoFilter", func(t *testing.T) {
		page, err := repo.ListPaginatedFiltered(ctx, models.PageParams{Page: 1, Size: 2}, models.UserFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), page.Total)
		assert.Equal(t, 2, page.Pages)
		assert.Len(t, page.Items, 2)
	})

	t.Run("SuperuserFilter", func(t *testing.T) {
		isSuper := true
		page, err := repo.ListPaginatedFiltered(ctx, models.PageParams{}, models.UserFilter{IsSuperuser: &isSuper})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "root", page.Items[0].Username)
	})

	t.Run("ConjunctiveFilters", func(t *testing.T) {
		fullName := "Member"
		isSuper := true
		page, err := repo.ListPaginatedFiltered(ctx, models.PageParams{}, models.UserFilter{
			FullName:    &fullName,
			IsSuperuser: &isSuper,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), page.Total)
		assert.Empty(t, page.Items)
	})
}

func TestUserRepository_SearchPaginated(t *testing.T) {
	db, teardown := setupUserPostgresContainer(t)
	defer teardown()

	repo := NewUserRepository(db)
	ctx := context.Background()

	creator, err := repo.Create(ctx, UserCreate{
		Username: "coach", PasswordHash: "h", Email: "coach@example.com", IsSuperuser: true,
	})
	require.NoError(t, err)

	for _, name := range []string{"walter", "waltraud", "gustavo"} {
		_, err := repo.Create(ctx, UserCreate{
			Username:     name,
			PasswordHash: "h",
			Email:        name + "@example.com",
			CreatedBy:    &creator.ID,
		})
		require.NoError(t, err)
	}
	// Same substring, different creator: must not surface.
	_, err = repo.Create(ctx, UserCreate{
		Username: "walden", PasswordHash: "h", Email: "walden@example.com",
	})
	require.NoError(t, err)

	t.Run("SubstringScopedToCreator", func(t *testing.T) {
		page, err := repo.SearchPaginated(ctx, models.PageParams{}, "wal", creator.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
		for _, u := range page.Items {
			assert.Contains(t, u.Username, "wal")
			require.NotNil(t, u.CreatedBy)
			assert.Equal(t, creator.ID, *u.CreatedBy)
		}
	})

	t.Run("MatchIsCaseInsensitive", func(t *testing.T) {
		page, err := repo.SearchPaginated(ctx, models.PageParams{}, "WALT", creator.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
	})

	t.Run("NoMatches", func(t *testing.T) {
		page, err := repo.SearchPaginated(ctx, models.PageParams{}, "zzz", creator.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), page.Total)
		assert.Empty(t, page.Items)
	})
}

func TestUserRepository_Delete(t *testing.T) {
	db, teardown := setupUserPostgresContainer(t)
	defer teardown()

	repo := NewUserRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, UserCreate{
		Username: "dave", PasswordHash: "h", Email: "dave@example.com",
	})
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, "dave", deleted.Username)

	again, err := repo.Delete(ctx, created.ID)
	assert.NoError(t, err)
	assert.Nil(t, again)
}
