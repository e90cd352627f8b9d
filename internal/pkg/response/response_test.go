package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/ok", func(c *gin.Context) { Success(c, http.StatusCreated, gin.H{"id": 1}) })
	r.GET("/page", func(c *gin.Context) { Paginated(c, []int{1, 2}, 12, 2, 2) })
	r.GET("/fail", func(c *gin.Context) {
		ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "bad", map[string]string{"title": "required"})
	})
	r.GET("/abort", func(c *gin.Context) { Abort(c, http.StatusForbidden, "FORBIDDEN", "no") }, func(c *gin.Context) {
		t.Fatal("chain should stop after Abort")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"id":1}}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/page", nil))
	assert.JSONEq(t, `{"success":true,"data":{"items":[1,2],"total":12,"page":2,"limit":2}}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "required", body.Error.Details["title"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/abort", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBindError_FieldDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type req struct {
		Title string `json:"title" binding:"required"`
	}
	r := gin.New()
	r.POST("/bind", func(c *gin.Context) {
		var in req
		if err := c.ShouldBindJSON(&in); err != nil {
			BindError(c, err)
			return
		}
		Success(c, http.StatusOK, in)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"required"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "details")
}
