package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/ventureflow/backend/internal/interfaces/http/dto"
)

func bodyLimitRouter(maxBytes, uploadBytes int64) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), BodyLimit(maxBytes, uploadBytes))
	router.POST("/test", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too large")
			return
		}
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestBodyLimit(t *testing.T) {
	t.Run("allows request within limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader("small body"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		bodyLimitRouter(1024, 4096).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects declared length over the limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewReader(bytes.Repeat([]byte("x"), 200)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		bodyLimitRouter(100, 4096).ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		errInfo := decodeError(t, w)
		assert.Equal(t, dto.ErrCodeRequestTooLarge, errInfo.Code)
		assert.NotEmpty(t, errInfo.RequestID)
	})

	t.Run("caps bodies with unknown length", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", io.NopCloser(strings.NewReader(strings.Repeat("x", 200))))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		bodyLimitRouter(100, 4096).ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("multipart uses the upload limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewReader(bytes.Repeat([]byte("x"), 200)))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
		w := httptest.NewRecorder()
		bodyLimitRouter(100, 4096).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
