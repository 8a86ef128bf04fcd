package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDMiddleware 请求 ID 中间件
// 客户端没带 X-Request-ID 时生成一个;同时塞进 request context
// 供审计日志取用
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		ctx := c.Request.Context()
		ctx = context.WithValue(ctx, "request_id", requestID)
		ctx = context.WithValue(ctx, "ip", c.ClientIP())
		ctx = context.WithValue(ctx, "user_agent", c.Request.UserAgent())
		if userID := c.GetString("user_id"); userID != "" {
			ctx = context.WithValue(ctx, "user_id", userID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// UserContextMiddleware 用户上下文中间件
// 认证之后把用户 ID 搬进 request context,服务层审计要用
func UserContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetString("user_id"); userID != "" {
			ctx := context.WithValue(c.Request.Context(), "user_id", userID)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
