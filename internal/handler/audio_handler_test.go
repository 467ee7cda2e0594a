package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-qa/internal/service"
	"github.com/ashwinyue/next-qa/internal/service/audioimport"
)

// ========== 对象存储未配置测试 ==========

func TestAudioImportWithoutStorageReturns503(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/audio/import/recordings", nil)
	c.Params = gin.Params{{Key: "container", Value: "recordings"}}

	svc := &service.Services{AudioImport: audioimport.NewService(nil, nil)}
	NewAudioHandler(svc).Import(c)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}
