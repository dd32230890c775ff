package services

import (
	"context"
	"errors"

	"github.com/sportclub-app/sportclub-backend/internal/logger"
	"github.com/sportclub-app/sportclub-backend/internal/models"
	"github.com/sportclub-app/sportclub-backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// ErrUserNotFound is returned when a user id resolves to no account.
var ErrUserNotFound = errors.New("user not found")

// UserRepo defines the repository operations the user service needs.
type UserRepo interface {
	Get(ctx context.Context, id int64) (*models.UserDB, error)
	ListOrdered(ctx context.Context, orderBy string, order repositories.Order) ([]models.UserDB, error)
	ListPaginatedFiltered(ctx context.Context, params models.PageParams, filter models.UserFilter) (*models.Page[models.UserDB], error)
	SearchPaginated(ctx context.Context, params models.PageParams, substr string, viewerID int64) (*models.Page[models.UserDB], error)
	Update(ctx context.Context, id int64, values map[string]any) (*models.UserDB, error)
}

// UserUpdateInput carries a partial account update. Nil fields are left
// untouched; a supplied password is re-hashed.
type UserUpdateInput struct {
	Username *string
	FullName *string
	Email    *string
	Avatar   *string
	Password *string
}

// UserService handles account reads and updates.
type UserService struct {
	repo UserRepo
}

// NewUserService creates a new UserService instance.
func NewUserService(repo UserRepo) *UserService {
	return &UserService{repo: repo}
}

// Get returns the account with the given id.
func (svc *UserService) Get(ctx context.Context, id int64) (*models.UserDB, error) {
	user, err := svc.repo.Get(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get user", "id", id, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// List returns all accounts ordered by username.
func (svc *UserService) List(ctx context.Context) ([]models.UserDB, error) {
	return svc.repo.ListOrdered(ctx, "username", repositories.OrderAsc)
}

// ListPaginated returns one page of accounts matching the filter.
func (svc *UserService) ListPaginated(ctx context.Context, params models.PageParams, filter models.UserFilter) (*models.Page[models.UserDB], error) {
	return svc.repo.ListPaginatedFiltered(ctx, params, filter)
}

// Search returns one page of the accounts created by viewerID whose
// username contains the given substring.
func (svc *UserService) Search(ctx context.Context, params models.PageParams, substr string, viewerID int64) (*models.Page[models.UserDB], error) {
	return svc.repo.SearchPaginated(ctx, params, substr, viewerID)
}

// Update applies a partial update to the account with the given id.
func (svc *UserService) Update(ctx context.Context, id int64, in UserUpdateInput) (*models.UserDB, error) {
	values := map[string]any{}
	if in.Username != nil {
		values["username"] = *in.Username
	}
	if in.FullName != nil {
		values["full_name"] = *in.FullName
	}
	if in.Email != nil {
		values["email"] = *in.Email
	}
	if in.Avatar != nil {
		values["avatar"] = *in.Avatar
	}
	if in.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Log.Errorw("failed to hash password", "err", err)
			return nil, err
		}
		values["password_hash"] = string(hashed)
	}

	user, err := svc.repo.Update(ctx, id, values)
	if err != nil {
		logger.Log.Errorw("failed to update user", "id", id, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
