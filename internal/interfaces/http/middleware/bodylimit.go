package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ventureflow/backend/internal/interfaces/http/dto"
)

// BodyLimit limits request body size. Multipart uploads get uploadBytes,
// every other request maxBytes.
func BodyLimit(maxBytes, uploadBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := maxBytes
		if strings.HasPrefix(c.ContentType(), "multipart/") && uploadBytes > limit {
			limit = uploadBytes
		}
		if c.Request.ContentLength > limit {
			abortWithError(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
