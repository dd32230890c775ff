package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/sportclub-app/sportclub-backend/internal/models"
)

func TestAuthMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	activeUser := &models.UserDB{ID: 7, Username: "walter"}

	tests := []struct {
		name             string
		mockSetup        func(tok *MockTokener, users *MockUserGetter)
		expectedStatus   int
		expectedError    string
		expectNextCalled bool
	}{
		{
			name: "NoToken",
			mockSetup: func(tok *MockTokener, users *MockUserGetter) {
				tok.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("", errors.New("no token"))
			},
			expectedStatus:   http.StatusForbidden,
			expectNextCalled: false,
		},
		{
			name: "InvalidToken",
			mockSetup: func(tok *MockTokener, users *MockUserGetter) {
				tok.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("sometoken", nil)
				tok.EXPECT().GetUserID(gomock.Any(), "sometoken").
					Return(int64(0), errors.New("invalid token"))
			},
			expectedStatus:   http.StatusForbidden,
			expectNextCalled: false,
		},
		{
			name: "SubjectNotFound",
			mockSetup: func(tok *MockTokener, users *MockUserGetter) {
				tok.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("validtoken", nil)
				tok.EXPECT().GetUserID(gomock.Any(), "validtoken").
					Return(int64(42), nil)
				users.EXPECT().Get(gomock.Any(), int64(42)).
					Return(nil, nil)
			},
			expectedStatus:   http.StatusForbidden,
			expectedError:    "Could not validate credentials.",
			expectNextCalled: false,
		},
		{
			name: "SubjectLookupError",
			mockSetup: func(tok *MockTokener, users *MockUserGetter) {
				tok.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("validtoken", nil)
				tok.EXPECT().GetUserID(gomock.Any(), "validtoken").
					Return(int64(42), nil)
				users.EXPECT().Get(gomock.Any(), int64(42)).
					Return(nil, errors.New("db down"))
			},
			expectedStatus:   http.StatusInternalServerError,
			expectedError:    "Internal server error",
			expectNextCalled: false,
		},
		{
			name: "ValidToken",
			mockSetup: func(tok *MockTokener, users *MockUserGetter) {
				tok.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("validtoken", nil)
				tok.EXPECT().GetUserID(gomock.Any(), "validtoken").
					Return(int64(7), nil)
				users.EXPECT().Get(gomock.Any(), int64(7)).
					Return(activeUser, nil)
			},
			expectedStatus:   http.StatusOK,
			expectNextCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTokener := NewMockTokener(ctrl)
			mockUsers := NewMockUserGetter(ctrl)
			tt.mockSetup(mockTokener, mockUsers)

			// Wrap a next handler to check if it was called and the
			// account landed in the context
			nextCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				assert.Equal(t, activeUser, GetUserFromContext(r.Context()))
				w.WriteHeader(http.StatusOK)
			})

			handler := AuthMiddleware(mockTokener, mockUsers)(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectNextCalled, nextCalled)
			if tt.expectedError != "" {
				assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
				assert.JSONEq(t, `{"error":"`+tt.expectedError+`"}`, rr.Body.String())
			}
		})
	}
}

func TestRequireSuperuser(t *testing.T) {
	tests := []struct {
		name             string
		user             *models.UserDB
		expectedStatus   int
		expectNextCalled bool
	}{
		{
			name:             "NoUserInContext",
			user:             nil,
			expectedStatus:   http.StatusForbidden,
			expectNextCalled: false,
		},
		{
			name:             "RegularUser",
			user:             &models.UserDB{ID: 1, Username: "walter"},
			expectedStatus:   http.StatusForbidden,
			expectNextCalled: false,
		},
		{
			name:             "Superuser",
			user:             &models.UserDB{ID: 2, Username: "admin", IsSuperuser: true},
			expectedStatus:   http.StatusOK,
			expectNextCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			handler := RequireSuperuser(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.user != nil {
				req = req.WithContext(SetUserToContext(context.Background(), tt.user))
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectNextCalled, nextCalled)
		})
	}
}

func TestGetUserFromContext_Empty(t *testing.T) {
	assert.Nil(t, GetUserFromContext(context.Background()))
}
