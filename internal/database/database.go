package database

import (
	"context"
	"fmt"
	"time"

	"github.com/mautops/election-gin/internal/config"
	"github.com/mautops/election-gin/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PoolConfig 连接池配置
type PoolConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime int // 秒
	ConnMaxIdleTime int // 秒
}

// BuildDSN 构建 PostgreSQL DSN
func BuildDSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
}

// GetPoolConfig 获取连接池配置
func GetPoolConfig() *PoolConfig {
	return &PoolConfig{
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: 3600, // 1 小时
		ConnMaxIdleTime: 600,  // 10 分钟
	}
}

// GetProductionPoolConfig 获取生产环境连接池配置
// 开票夜写入集中,连接数放大
func GetProductionPoolConfig() *PoolConfig {
	return &PoolConfig{
		MaxIdleConns:    20,
		MaxOpenConns:    200,
		ConnMaxLifetime: 3600, // 1 小时
		ConnMaxIdleTime: 300,  // 5 分钟
	}
}

// Connect 连接数据库
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	return connect(cfg, GetPoolConfig())
}

// ConnectProduction 连接数据库（生产环境配置）
func ConnectProduction(cfg config.DatabaseConfig) (*gorm.DB, error) {
	return connect(cfg, GetProductionPoolConfig())
}

// connect 建立连接并应用连接池参数
// 配置里给了的参数优先,没给的用 fallback
func connect(cfg config.DatabaseConfig, fallback *PoolConfig) (*gorm.DB, error) {
	dsn := BuildDSN(cfg)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	pool := &PoolConfig{
		MaxIdleConns:    cfg.MaxIdleConns,
		MaxOpenConns:    cfg.MaxOpenConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	}
	if pool.MaxIdleConns == 0 {
		pool.MaxIdleConns = fallback.MaxIdleConns
	}
	if pool.MaxOpenConns == 0 {
		pool.MaxOpenConns = fallback.MaxOpenConns
	}
	if pool.ConnMaxLifetime == 0 {
		pool.ConnMaxLifetime = fallback.ConnMaxLifetime
	}
	if pool.ConnMaxIdleTime == 0 {
		pool.ConnMaxIdleTime = fallback.ConnMaxIdleTime
	}

	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(pool.ConnMaxIdleTime) * time.Second)

	return db, nil
}

// Migrate 执行数据库迁移
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.UserModel{},
		&model.CandidateModel{},
		&model.PollingStationModel{},
		&model.ResultSubmissionModel{},
		&model.ResultSubmissionDetailModel{},
		&model.ResultModel{},
		&model.ElectionResultModel{},
		&model.VerificationTaskModel{},
		&model.VerificationHistoryModel{},
		&model.SubmissionDocumentModel{},
		&model.HourlyTurnoutModel{},
		&model.AuditLogModel{},
	); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	// 创建索引
	if err := CreateIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// CreateIndexes 创建数据库索引
// AutoMigrate 覆盖不到的组合查询索引在这里补
func CreateIndexes(db *gorm.DB) error {
	// result_submissions 表索引
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_submissions_status_created ON result_submissions(status, created_at)").Error; err != nil {
		return fmt.Errorf("failed to create idx_submissions_status_created: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_submissions_submitted_by ON result_submissions(submitted_by)").Error; err != nil {
		return fmt.Errorf("failed to create idx_submissions_submitted_by: %w", err)
	}

	// polling_stations 表索引
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_stations_region_status ON polling_stations(region, status)").Error; err != nil {
		return fmt.Errorf("failed to create idx_stations_region_status: %w", err)
	}

	// verification_tasks 表索引
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_tasks_status_priority ON verification_tasks(status, priority)").Error; err != nil {
		return fmt.Errorf("failed to create idx_tasks_status_priority: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_tasks_assigned_to ON verification_tasks(assigned_to)").Error; err != nil {
		return fmt.Errorf("failed to create idx_tasks_assigned_to: %w", err)
	}

	// verification_history 表索引
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_history_task_created ON verification_history(task_id, created_at)").Error; err != nil {
		return fmt.Errorf("failed to create idx_history_task_created: %w", err)
	}

	// results 表索引
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_results_candidate ON results(candidate_id)").Error; err != nil {
		return fmt.Errorf("failed to create idx_results_candidate: %w", err)
	}

	// audit_logs 表索引
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_audit_resource ON audit_logs(resource_type, resource_id)").Error; err != nil {
		return fmt.Errorf("failed to create idx_audit_resource: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_audit_created_at ON audit_logs(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create idx_audit_created_at: %w", err)
	}

	return nil
}

// ConnectWithRetry 带重试的数据库连接
func ConnectWithRetry(cfg config.DatabaseConfig, maxRetries int, retryInterval time.Duration) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < maxRetries; i++ {
		db, err = Connect(cfg)
		if err == nil {
			return db, nil
		}

		// 如果不是最后一次重试，等待后重试
		if i < maxRetries-1 {
			time.Sleep(retryInterval)
			retryInterval *= 2 // 指数退避
		}
	}

	return nil, fmt.Errorf("failed to connect database after %d retries: %w", maxRetries, err)
}

// CheckHealth 检查数据库连接健康状态
func CheckHealth(db *gorm.DB) bool {
	if db == nil {
		return false
	}

	sqlDB, err := db.DB()
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return false
	}

	return true
}

// Reconnect 重新连接数据库
func Reconnect(cfg config.DatabaseConfig, oldDB *gorm.DB) (*gorm.DB, error) {
	// 关闭旧连接
	if oldDB != nil {
		if sqlDB, err := oldDB.DB(); err == nil {
			sqlDB.Close()
		}
	}

	// 重新连接
	return Connect(cfg)
}
