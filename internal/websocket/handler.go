package websocket

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gorillaWS "github.com/gorilla/websocket"
	"github.com/mautops/election-gin/internal/auth"
)

var upgrader = gorillaWS.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// 在生产环境中应该检查 Origin
		return true
	},
}

// WebSocketHandler WebSocket 处理器
// 支持 token 认证和按投票站订阅 (?stations=1,2,3)
func WebSocketHandler(hub *Hub, validator *auth.KeycloakTokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 从 query 参数获取 token
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		// 2. 验证 token
		claims, err := validator.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// 3. 解析投票站订阅过滤
		stations := parseStationFilter(c.Query("stations"))

		// 4. 升级连接
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade connection"})
			return
		}

		// 5. 创建并注册客户端
		client := NewClient(
			uuid.New().String(),
			claims.Sub,
			stations,
			hub,
			conn,
		)
		hub.Register <- client

		// 6. 启动 readPump 和 writePump
		go client.ReadPump()
		go client.WritePump()
	}
}

// parseStationFilter 解析逗号分隔的投票站 ID 列表
func parseStationFilter(raw string) []int {
	if raw == "" {
		return nil
	}

	var ids []int
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
