package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UploadBodyLimitMiddleware 限制上传接口的请求体大小 (MB)
func UploadBodyLimitMiddleware(maxSizeMB int) gin.HandlerFunc {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	maxBytes := int64(maxSizeMB) * 1024 * 1024

	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes && c.Request.ContentLength != -1 {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("Upload must not exceed %dMB", maxSizeMB)})
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
