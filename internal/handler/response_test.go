package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ashwinyue/next-qa/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSuccessResponse(t *testing.T) {
	assert := testutil.NewAssertHelper(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, gin.H{"name": "batch-1"})

	assert.Equal(http.StatusOK, w.Code)

	var resp SuccessResponse
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(resp.Success)
	assert.NotNil(resp.Data)
}

func TestErrorMapsRecordNotFound(t *testing.T) {
	assert := testutil.NewAssertHelper(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, gorm.ErrRecordNotFound)

	assert.Equal(http.StatusNotFound, w.Code)

	var resp ErrorResponse
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(404, resp.Code)
}

func TestErrorDefaultsToInternal(t *testing.T) {
	assert := testutil.NewAssertHelper(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, errors.New("boom"))

	assert.Equal(http.StatusInternalServerError, w.Code)
}

func TestSuccessWithPaginationTotalPages(t *testing.T) {
	assert := testutil.NewAssertHelper(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SuccessWithPagination(c, []string{"a", "b"}, 41, 1, 20)

	var resp struct {
		Success bool           `json:"success"`
		Data    PaginationData `json:"data"`
	}
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(int64(41), resp.Data.Total)
	assert.Equal(3, resp.Data.TotalPages)
}

func TestGetPaginationDefaults(t *testing.T) {
	// gin 在首次读取后缓存 query 参数，因此每个请求都要用全新的 Context
	tests := []struct {
		name     string
		query    string
		wantPage int
		wantSize int
	}{
		{"out of range falls back", "/?page=0&page_size=500", 1, 20},
		{"explicit values", "/?page=3&page_size=50", 3, 50},
		{"missing params", "/", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := testutil.NewAssertHelper(t)

			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, tt.query, nil)

			page, size := getPagination(c)
			assert.Equal(tt.wantPage, page)
			assert.Equal(tt.wantSize, size)
		})
	}
}
