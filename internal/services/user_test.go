package services

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/sportclub-app/sportclub-backend/internal/models"
	"github.com/sportclub-app/sportclub-backend/internal/repositories"
)

func TestUserService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name      string
		mockSetup func(repo *MockUserRepo)
		wantErr   error
	}{
		{
			name: "Found",
			mockSetup: func(repo *MockUserRepo) {
				repo.EXPECT().Get(gomock.Any(), int64(1)).
					Return(&models.UserDB{ID: 1, Username: "walter"}, nil)
			},
		},
		{
			name: "NotFound",
			mockSetup: func(repo *MockUserRepo) {
				repo.EXPECT().Get(gomock.Any(), int64(1)).Return(nil, nil)
			},
			wantErr: ErrUserNotFound,
		},
		{
			name: "RepoError",
			mockSetup: func(repo *MockUserRepo) {
				repo.EXPECT().Get(gomock.Any(), int64(1)).
					Return(nil, errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMockUserRepo(ctrl)
			tt.mockSetup(repo)

			svc := NewUserService(repo)
			user, err := svc.Get(context.Background(), 1)

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, int64(1), user.ID)
			}
		})
	}
}

func TestUserService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockUserRepo(ctrl)
	expected := []models.UserDB{{ID: 1, Username: "alice"}, {ID: 2, Username: "bob"}}
	repo.EXPECT().ListOrdered(gomock.Any(), "username", repositories.OrderAsc).
		Return(expected, nil)

	svc := NewUserService(repo)
	users, err := svc.List(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, expected, users)
}

func TestUserService_ListPaginated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockUserRepo(ctrl)
	params := models.PageParams{Page: 2, Size: 10}
	username := "walter"
	filter := models.UserFilter{Username: &username}
	expected := &models.Page[models.UserDB]{
		Items: []models.UserDB{{ID: 1, Username: "walter"}},
		Total: 1, Page: 2, Size: 10, Pages: 1,
	}
	repo.EXPECT().ListPaginatedFiltered(gomock.Any(), params, filter).
		Return(expected, nil)

	svc := NewUserService(repo)
	page, err := svc.ListPaginated(context.Background(), params, filter)

	assert.NoError(t, err)
	assert.Equal(t, expected, page)
}

func TestUserService_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockUserRepo(ctrl)
	params := models.PageParams{Page: 1, Size: 20}
	expected := &models.Page[models.UserDB]{
		Items: []models.UserDB{{ID: 3, Username: "walter"}},
		Total: 1, Page: 1, Size: 20, Pages: 1,
	}
	repo.EXPECT().SearchPaginated(gomock.Any(), params, "wal", int64(9)).
		Return(expected, nil)

	svc := NewUserService(repo)
	page, err := svc.Search(context.Background(), params, "wal", 9)

	assert.NoError(t, err)
	assert.Equal(t, expected, page)
}

func TestUserService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fullName := "Walter White"
	password := "newsecret1"

	tests := []struct {
		name      string
		input     UserUpdateInput
		mockSetup func(repo *MockUserRepo)
		wantErr   error
	}{
		{
			name:  "PlainFields",
			input: UserUpdateInput{FullName: &fullName},
			mockSetup: func(repo *MockUserRepo) {
				repo.EXPECT().Update(gomock.Any(), int64(1), map[string]any{"full_name": fullName}).
					Return(&models.UserDB{ID: 1, FullName: fullName}, nil)
			},
		},
		{
			name:  "PasswordIsHashed",
			input: UserUpdateInput{Password: &password},
			mockSetup: func(repo *MockUserRepo) {
				repo.EXPECT().Update(gomock.Any(), int64(1), gomock.Any()).
					DoAndReturn(func(_ context.Context, id int64, values map[string]any) (*models.UserDB, error) {
						hashed, ok := values["password_hash"].(string)
						assert.True(t, ok)
						assert.NotEqual(t, password, hashed)
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)))
						_, plainPresent := values["password"]
						assert.False(t, plainPresent)
						return &models.UserDB{ID: 1}, nil
					})
			},
		},
		{
			name:  "NotFound",
			input: UserUpdateInput{FullName: &fullName},
			mockSetup: func(repo *MockUserRepo) {
				repo.EXPECT().Update(gomock.Any(), int64(1), gomock.Any()).Return(nil, nil)
			},
			wantErr: ErrUserNotFound,
		},
		{
			name:  "RepoError",
			input: UserUpdateInput{FullName: &fullName},
			mockSetup: func(repo *MockUserRepo) {
				repo.EXPECT().Update(gomock.Any(), int64(1), gomock.Any()).
					Return(nil, errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMockUserRepo(ctrl)
			tt.mockSetup(repo)

			svc := NewUserService(repo)
			user, err := svc.Update(context.Background(), 1, tt.input)

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
			}
		})
	}
}
