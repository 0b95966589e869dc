package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderXRequestID 请求 ID 的传递头。
const HeaderXRequestID = "X-Request-ID"

type requestIDKey struct{}

// RequestID 为每个请求分配唯一 ID，写入响应头和请求上下文。
// 客户端已携带 X-Request-ID 时沿用客户端的值。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Header(HeaderXRequestID, requestID)
		ctx := context.WithValue(c.Request.Context(), requestIDKey{}, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID 从上下文中取出请求 ID，不存在时返回空字符串。
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
