package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lukhanyo05/cooltech-credentials/pkg/response"
)

// BodyLimit 全局请求体大小限制中间件
// 声明长度超限时直接返回 413；未声明长度的请求由 MaxBytesReader 截断，
// 绑定阶段读到上限时同样返回 413
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "Request body too large")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
