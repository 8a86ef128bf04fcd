package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// contextPrincipalKey gin 上下文里主体的键
const contextPrincipalKey = "principal"

// AuthMiddleware JWT 认证中间件
// 验证通过后把主体写入上下文,供后续授权中间件消费
func AuthMiddleware(validator *KeycloakTokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "missing authorization header",
			})
			c.Abort()
			return
		}

		// 移除 "Bearer " 前缀
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "invalid token",
				"detail":  err.Error(),
			})
			c.Abort()
			return
		}

		principal := &Principal{
			UserID:        claims.Sub,
			Role:          claims.Role(),
			Permissions:   claims.Permissions,
			Authenticated: true,
		}

		// 将用户信息存储到上下文
		c.Set("user_id", claims.Sub)
		c.Set("username", claims.PreferredUsername)
		c.Set("email", claims.Email)
		c.Set("name", claims.Name)
		c.Set("roles", claims.RealmAccess.Roles)
		c.Set(contextPrincipalKey, principal)

		c.Next()
	}
}

// PrincipalFromContext 从 gin 上下文取出主体
// 没有认证信息时返回未认证主体,后续判定一律拒绝
func PrincipalFromContext(c *gin.Context) *Principal {
	if v, ok := c.Get(contextPrincipalKey); ok {
		if p, ok := v.(*Principal); ok {
			return p
		}
	}
	return &Principal{}
}

// RequirePermission 授权中间件
// 拒绝时只回一个笼统的 forbidden,不透露缺哪项权限
func RequirePermission(authorizer *Authorizer, resource string, action Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := PrincipalFromContext(c)
		if !authorizer.CanPerformAction(principal, resource, action) {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    403,
				"message": "forbidden",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
