package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mautops/election-gin/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefault 测试默认配置
func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "election", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, float64(100), cfg.RateLimit.RPS)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "stdout", cfg.Log.Output)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

// TestLoad_FromFile 测试从配置文件加载
func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
env: production
server:
  port: 9090
database:
  host: db.internal
  dbname: election_prod
rate_limit:
  rps: 50
  burst: 80
log:
  level: error
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.True(t, config.IsProduction(cfg))
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "election_prod", cfg.Database.DBName)
	assert.Equal(t, float64(50), cfg.RateLimit.RPS)
	assert.Equal(t, 80, cfg.RateLimit.Burst)
	assert.Equal(t, "error", cfg.Log.Level)

	// 文件没给的字段落回默认值
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "postgres", cfg.Database.User)
}

// TestLoad_FileNotFound 测试配置文件不存在
func TestLoad_FileNotFound(t *testing.T) {
	_, err := config.Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

// TestIsProduction 测试环境判定
func TestIsProduction(t *testing.T) {
	assert.False(t, config.IsProduction(nil))
	assert.False(t, config.IsProduction(&config.Config{Env: "development"}))
	assert.True(t, config.IsProduction(&config.Config{Env: "production"}))
}
