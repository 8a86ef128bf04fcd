package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware 全局令牌桶限流
// 结果夜的提交洪峰先吃突发额度,超出的回 429 并告知重试间隔
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Code:      http.StatusTooManyRequests,
				Message:   "too many requests",
				RequestID: c.GetString("request_id"),
			})
			return
		}
		c.Next()
	}
}
