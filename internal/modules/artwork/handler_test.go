package artwork

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"artfolio/internal/database"
	"artfolio/internal/domain"
	"artfolio/internal/middleware"
	"artfolio/internal/pkg/jwt"
	"artfolio/internal/repository"
	"artfolio/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router *gin.Engine
	users  *repository.UserRepository
	jwt    *jwt.Service
	disk   *storage.LocalDisk
}

func setupRouter(t *testing.T) *testEnv {
	t.Helper()
	return setupRouterWithURL(t, "/static")
}

func setupRouterWithURL(t *testing.T, publicURL string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { database.Close(db) })

	users := repository.NewUserRepository(db)
	disk := storage.NewLocalDisk(t.TempDir(), publicURL)
	images := storage.NewImageStore(disk, 1<<20)
	jwtSvc := jwt.New("artwork-handler-secret", time.Hour)

	svc := NewService(repository.NewArtworkRepository(db), users, images, nil)
	handler := NewHandler(svc, 1<<20)

	router := gin.New()
	api := router.Group("/api")
	public := api.Group("")
	public.Use(middleware.OptionalAuth(jwtSvc), middleware.KnownUser(users))
	protected := api.Group("")
	protected.Use(middleware.JWTAuth(jwtSvc), middleware.ActiveUser(users))
	handler.RegisterRoutes(public, protected)

	return &testEnv{router: router, users: users, jwt: jwtSvc, disk: disk}
}

func (e *testEnv) user(t *testing.T, name string, role domain.UserRole) string {
	t.Helper()
	u := &domain.User{Username: name, Email: name + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(t, e.users.Create(context.Background(), u))
	token, err := e.jwt.GenerateToken(u.ID, string(role))
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func pngFile(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

type artworkEnvelope struct {
	Data struct {
		ID        int64    `json:"id"`
		ImageURL  string   `json:"image_url"`
		Tags      []string `json:"tags"`
		IsForSale bool     `json:"is_for_sale"`
		Liked     bool     `json:"liked"`
		LikeCount int      `json:"like_count"`
	} `json:"data"`
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) artworkEnvelope {
	t.Helper()
	var env artworkEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestCreate_Multipart(t *testing.T) {
	env := setupRouter(t)
	artist := env.user(t, "ilya", domain.RoleArtist)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "Harbor"))
	require.NoError(t, mw.WriteField("price", "100"))
	require.NoError(t, mw.WriteField("tags", "Sea, boats"))
	require.NoError(t, mw.WriteField("is_for_sale", "true"))
	fw, err := mw.CreateFormFile("image", "harbor.png")
	require.NoError(t, err)
	_, err = fw.Write(pngFile(t))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/artworks", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+artist)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	out := decode(t, w)
	assert.Regexp(t, `^/static/artworks/\d{4}/\d{2}/\d{2}/[0-9a-f-]+\.png$`, out.Data.ImageURL)
	assert.Equal(t, []string{"sea", "boats"}, out.Data.Tags)
	assert.True(t, out.Data.IsForSale)
}

func (e *testEnv) upload(t *testing.T, token, title string) artworkEnvelope {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", title))
	fw, err := mw.CreateFormFile("image", "art.png")
	require.NoError(t, err)
	_, err = fw.Write(pngFile(t))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/artworks", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)
}

func (e *testEnv) stored(t *testing.T, url, publicURL string) bool {
	t.Helper()
	rc, err := e.disk.Get(context.Background(), strings.TrimPrefix(url, publicURL+"/"))
	if err != nil {
		return false
	}
	rc.Close()
	return true
}

func TestDelete_OnlyRemovesOwnUpload(t *testing.T) {
	const publicURL = "https://cdn.artfolio.test/static"
	env := setupRouterWithURL(t, publicURL)
	alice := env.user(t, "alice", domain.RoleArtist)
	mallory := env.user(t, "mallory", domain.RoleArtist)

	original := env.upload(t, alice, "Original")
	require.True(t, strings.HasPrefix(original.Data.ImageURL, publicURL+"/artworks/"))
	require.True(t, env.stored(t, original.Data.ImageURL, publicURL))

	w := env.do(http.MethodPost, "/api/artworks", gin.H{"title": "Copy", "image_url": original.Data.ImageURL}, mallory)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	copied := decode(t, w)

	w = env.do(http.MethodDelete, "/api/artworks/"+strconv.FormatInt(copied.Data.ID, 10), nil, mallory)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, env.stored(t, original.Data.ImageURL, publicURL))

	w = env.do(http.MethodDelete, "/api/artworks/"+strconv.FormatInt(original.Data.ID, 10), nil, alice)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, env.stored(t, original.Data.ImageURL, publicURL))
}

func TestCreate_RejectsNonImage(t *testing.T) {
	env := setupRouter(t)
	artist := env.user(t, "ilya", domain.RoleArtist)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "Notes"))
	fw, err := mw.CreateFormFile("image", "notes.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("just some text"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/artworks", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+artist)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, w).Error.Code)
}

func TestCreate_Roles(t *testing.T) {
	env := setupRouter(t)
	body := gin.H{"title": "Sketch", "price": 10, "image_url": "https://cdn.example/sketch.png"}

	w := env.do(http.MethodPost, "/api/artworks", body, env.user(t, "root", domain.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPost, "/api/artworks", body, env.user(t, "vera", domain.RoleVisitor))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPost, "/api/artworks", body, env.user(t, "anna", domain.RoleArtist))
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestLike_ToggleTwiceRestores(t *testing.T) {
	env := setupRouter(t)
	artist := env.user(t, "anna", domain.RoleArtist)
	fan := env.user(t, "fan", domain.RoleVisitor)

	w := env.do(http.MethodPost, "/api/artworks", gin.H{"title": "Dawn", "image_url": "https://cdn.example/d.png"}, artist)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w).Data.ID
	path := "/api/artworks/" + itoa(id) + "/like"

	w = env.do(http.MethodPatch, path, nil, fan)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode(t, w).Data.Liked)
	assert.Equal(t, 1, decode(t, w).Data.LikeCount)

	w = env.do(http.MethodPatch, path, nil, fan)
	assert.False(t, decode(t, w).Data.Liked)
	assert.Equal(t, 0, decode(t, w).Data.LikeCount)

	for i := 0; i < 2; i++ {
		w = env.do(http.MethodPut, path, nil, fan)
		assert.Equal(t, 1, decode(t, w).Data.LikeCount)
	}
	for i := 0; i < 2; i++ {
		w = env.do(http.MethodDelete, path, nil, fan)
		assert.Equal(t, 0, decode(t, w).Data.LikeCount)
	}

	w = env.do(http.MethodPatch, path, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGet_InvalidAndMissing(t *testing.T) {
	env := setupRouter(t)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/artworks/abc", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/artworks/42", nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/artworks?sort=random", nil, "").Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
