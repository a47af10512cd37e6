package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"owlfi/backend/pkg/response"
)

// BodyLimit 请求体大小限制中间件
// maxBytes 适用于普通 JSON 请求；multipart 上传（ICS 文件）使用 uploadMaxBytes
func BodyLimit(maxBytes, uploadMaxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := maxBytes
		if uploadMaxBytes > 0 && strings.HasPrefix(c.ContentType(), "multipart/") {
			limit = uploadMaxBytes
		}
		if c.Request.ContentLength > limit {
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "请求体过大")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}

		c.Next()

		if c.IsAborted() || c.Writer.Written() {
			return
		}
		var tooLarge *http.MaxBytesError
		for _, err := range c.Errors {
			if errors.As(err.Err, &tooLarge) {
				response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "请求体过大")
				return
			}
		}
	}
}
