package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// HTTPSRedirectMiddleware 生产环境强制 HTTPS
// 计票提交都是 POST,用 308 重定向保住方法和请求体,301 会被降级成 GET
func HTTPSRedirectMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsHTTPS(c) {
			c.Next()
			return
		}

		host := c.Request.Host
		if host == "" {
			host = "localhost"
		}
		c.Redirect(http.StatusPermanentRedirect, "https://"+host+c.Request.RequestURI)
		c.Abort()
	}
}

// IsHTTPS 判断请求是否经由 HTTPS 进入
// 生产部署在反向代理后面,先看转发头再看连接本身
func IsHTTPS(c *gin.Context) bool {
	if strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
		return true
	}
	if c.GetHeader("X-Forwarded-SSL") == "on" {
		return true
	}
	return c.Request.TLS != nil || c.Request.URL.Scheme == "https"
}
