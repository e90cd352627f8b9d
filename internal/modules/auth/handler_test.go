package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"artfolio/internal/database"
	"artfolio/internal/middleware"
	"artfolio/internal/pkg/jwt"
	"artfolio/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		User struct {
			ID    int64  `json:"id"`
			Role  string `json:"role"`
			Email string `json:"email"`
		} `json:"user"`
		Token string `json:"token"`
	} `json:"data"`
	Error struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { database.Close(db) })

	users := repository.NewUserRepository(db)
	jwtSvc := jwt.New("auth-handler-secret", time.Hour)
	handler := NewHandler(NewService(users, jwtSvc).WithBcryptCost(bcrypt.MinCost))

	router := gin.New()
	api := router.Group("/api")
	handler.RegisterPublicRoutes(api)
	protected := api.Group("")
	protected.Use(middleware.JWTAuth(jwtSvc), middleware.ActiveUser(users))
	handler.RegisterProtectedRoutes(protected)
	return router
}

func performRequest(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, w *httptest.ResponseRecorder) authEnvelope {
	t.Helper()
	var env authEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestRegisterLoginMe(t *testing.T) {
	router := setupRouter(t)

	w := performRequest(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "mira", "email": "mira@example.com", "password": "secret1", "role": "artist",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg := decode(t, w)
	assert.Equal(t, "artist", reg.Data.User.Role)
	assert.NotEmpty(t, reg.Data.Token)
	assert.NotContains(t, w.Body.String(), "password")

	w = performRequest(router, http.MethodPost, "/api/auth/login", gin.H{"login": "MIRA", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := decode(t, w).Data.Token

	w = performRequest(router, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mira@example.com")

	w = performRequest(router, http.MethodPut, "/api/users/me", gin.H{"bio": "oil on canvas", "commission_open": true}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"commission_open":true`)

	w = performRequest(router, http.MethodGet, "/api/users/1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "mira@example.com")
}

func TestRegister_Errors(t *testing.T) {
	router := setupRouter(t)

	body := gin.H{"username": "ivan", "email": "ivan@example.com", "password": "secret1"}
	require.Equal(t, http.StatusCreated, performRequest(router, http.MethodPost, "/api/auth/register", body, "").Code)

	w := performRequest(router, http.MethodPost, "/api/auth/register", body, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "USER_EXISTS", decode(t, w).Error.Code)

	w = performRequest(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "root", "email": "root@example.com", "password": "secret1", "role": "admin",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, w).Error.Code)

	w = performRequest(router, http.MethodPost, "/api/auth/register", gin.H{"username": "x"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.Equal(t, "required", env.Error.Details["email"])
}

func TestLogin_BadCredentials(t *testing.T) {
	router := setupRouter(t)
	require.Equal(t, http.StatusCreated, performRequest(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "olga", "email": "olga@example.com", "password": "secret1",
	}, "").Code)

	w := performRequest(router, http.MethodPost, "/api/auth/login", gin.H{"login": "olga@example.com", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decode(t, w).Error.Code)
}

func TestVisitorCannotOpenCommissions(t *testing.T) {
	router := setupRouter(t)
	w := performRequest(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "pavel", "email": "pavel@example.com", "password": "secret1",
	}, "")
	token := decode(t, w).Data.Token

	w = performRequest(router, http.MethodPut, "/api/users/me", gin.H{"commission_open": true}, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "NOT_AN_ARTIST", decode(t, w).Error.Code)
}

func TestGetUser_InvalidID(t *testing.T) {
	router := setupRouter(t)
	w := performRequest(router, http.MethodGet, "/api/users/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(router, http.MethodGet, "/api/users/99", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegister_UsernameCollisions(t *testing.T) {
	router := setupRouter(t)

	require.Equal(t, http.StatusCreated, performRequest(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "Alice", "email": "alice@example.com", "password": "secret1",
	}, "").Code)

	w := performRequest(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "alice", "email": "alice2@example.com", "password": "secret2",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "USER_EXISTS", decode(t, w).Error.Code)

	w = performRequest(router, http.MethodPost, "/api/auth/login", gin.H{"login": "alice", "password": "secret1"}, "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = performRequest(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "victim@x.io", "email": "squatter@example.com", "password": "secret1",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "excludes", decode(t, w).Error.Details["username"])

	require.Equal(t, http.StatusCreated, performRequest(router, http.MethodPost, "/api/auth/register", gin.H{
		"username": "victim", "email": "victim@x.io", "password": "secret1",
	}, "").Code)
	w = performRequest(router, http.MethodPost, "/api/auth/login", gin.H{"login": "victim@x.io", "password": "secret1"}, "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRegister_UsernameLengthCountsAfterTrim(t *testing.T) {
	router := setupRouter(t)

	for i, name := range []string{"     ", " ab "} {
		w := performRequest(router, http.MethodPost, "/api/auth/register", gin.H{
			"username": name, "email": fmt.Sprintf("blank%d@example.com", i), "password": "secret1",
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "username %q", name)
		assert.Equal(t, "VALIDATION_ERROR", decode(t, w).Error.Code)
	}
}
