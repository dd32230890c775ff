package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportclub-app/sportclub-backend/internal/jwt"
	"github.com/sportclub-app/sportclub-backend/internal/middlewares"
	"github.com/sportclub-app/sportclub-backend/internal/models"
	"github.com/sportclub-app/sportclub-backend/internal/repositories"
	"github.com/sportclub-app/sportclub-backend/internal/services"
)

// Covers the full token round trip against the real codec and the real
// middleware chain: register an account, log in with its credentials,
// then resolve the issued token back to the account. Only the
// repository layer is replaced with an in-memory store.
func TestTokenFlowEndToEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	byID := map[int64]*models.UserDB{}
	byName := map[string]*models.UserDB{}
	nextID := int64(1)

	reader := services.NewMockUserReader(ctrl)
	reader.EXPECT().GetByName(gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(_ context.Context, name string) (*models.UserDB, error) {
			return byName[name], nil
		})
	reader.EXPECT().Get(gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(_ context.Context, id int64) (*models.UserDB, error) {
			return byID[id], nil
		})

	writer := services.NewMockUserWriter(ctrl)
	writer.EXPECT().Create(gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(_ context.Context, in repositories.UserCreate) (*models.UserDB, error) {
			user := &models.UserDB{
				ID:           nextID,
				Username:     in.Username,
				PasswordHash: in.PasswordHash,
				FullName:     in.FullName,
				Email:        in.Email,
				Avatar:       in.Avatar,
				IsSuperuser:  in.IsSuperuser,
				IsActive:     in.IsActive,
				IsApproved:   in.IsApproved,
				CreatedAt:    time.Now(),
				CreatedBy:    in.CreatedBy,
			}
			nextID++
			byID[user.ID] = user
			byName[user.Username] = user
			return user, nil
		})

	tokens := jwt.New(jwt.WithSecretKey("flow-secret"), jwt.WithExpiration(time.Hour))
	auth := services.NewAuthService(reader, writer, tokens, nil)
	authMW := middlewares.AuthMiddleware(tokens, reader)

	r := chi.NewRouter()
	r.Post("/api/v1/access-token", NewAccessTokenHandler(auth))
	r.Group(func(r chi.Router) {
		r.Use(authMW)
		r.Post("/api/v1/test-token", NewTestTokenHandler())
		r.Get("/api/v1/users/me/", NewGetMeHandler())
		r.Group(func(r chi.Router) {
			r.Use(middlewares.RequireSuperuser)
			r.Post("/api/v1/register", NewRegisterHandler(auth))
		})
	})

	// Superuser bootstrapped the same way startup does it.
	admin, err := auth.Register(context.Background(), services.RegisterInput{
		Username:    "admin",
		Password:    "adminsecret1",
		Email:       "admin@example.com",
		IsSuperuser: true,
		IsActive:    true,
		IsApproved:  true,
	}, nil)
	require.NoError(t, err)

	login := func(username, password string) (int, string) {
		form := url.Values{"username": {username}, "password": {password}}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/access-token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		var resp TokenResponse
		_ = json.NewDecoder(rr.Body).Decode(&resp)
		return rr.Code, resp.AccessToken
	}

	code, adminToken := login("admin", "adminsecret1")
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, adminToken)

	// Admin registers a member over HTTP.
	body, _ := json.Marshal(RegisterRequest{
		Username: "newmember",
		Password: "secret123",
		FullName: "New Member",
		Email:    "member@example.com",
		IsActive: true,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/register", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created models.UserDB
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, admin.ID, *created.CreatedBy)

	// The member's credentials mint a token that resolves back to them.
	code, memberToken := login("newmember", "secret123")
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, memberToken)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/me/", nil)
	req.Header.Set("Authorization", "Bearer "+memberToken)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	var me models.UserDB
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&me))
	assert.Equal(t, created.ID, me.ID)
	assert.Equal(t, "newmember", me.Username)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/test-token", nil)
	req.Header.Set("Authorization", "Bearer "+memberToken)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	// Without a token the same route refuses.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/me/", nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.JSONEq(t, `{"error":"Could not validate credentials."}`, rr.Body.String())

	// A tampered token refuses the same way.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/me/", nil)
	req.Header.Set("Authorization", "Bearer "+memberToken+"x")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// A member token is not enough for the superuser-gated route.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/register", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+memberToken)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.JSONEq(t, `{"error":"Not enough permissions."}`, rr.Body.String())
}
