package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wish-wall-server/internal/platform/service"

	"github.com/gin-gonic/gin"
)

// 测试内容：验证各类业务错误映射到对应的 HTTP 状态码与消息。
func TestWriteServiceError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", service.NewValidationError("bad"), http.StatusBadRequest, "bad"},
		{"not_found", service.NewNotFoundError("missing"), http.StatusNotFound, "missing"},
		{"internal", service.WrapInternalError("Failed to save wish", errors.New("io")), http.StatusInternalServerError, "Failed to save wish"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "fallback"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			WriteServiceError(c, tc.err, "fallback")

			if w.Code != tc.wantCode {
				t.Fatalf("期望 %d，实际为 %d", tc.wantCode, w.Code)
			}
			if !strings.Contains(w.Body.String(), tc.wantMsg) {
				t.Fatalf("期望响应包含 %q，实际为 %s", tc.wantMsg, w.Body.String())
			}
		})
	}
}
