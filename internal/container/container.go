package container

import (
	"fmt"
	"time"

	"github.com/mautops/election-gin/internal/api"
	"github.com/mautops/election-gin/internal/auth"
	"github.com/mautops/election-gin/internal/config"
	"github.com/mautops/election-gin/internal/database"
	"github.com/mautops/election-gin/internal/repository"
	"github.com/mautops/election-gin/internal/service"
	"github.com/mautops/election-gin/internal/websocket"
	"gorm.io/gorm"
)

// Container 依赖注入容器
// 管理数据库、仓储、服务和控制器的装配
type Container struct {
	db                *gorm.DB
	hub               *websocket.Hub
	keycloakValidator *auth.KeycloakTokenValidator
	authorizer        *auth.Authorizer

	reconcileService    service.ReconcileService
	twoStepService      service.TwoStepService
	submissionService   service.SubmissionService
	verificationService service.VerificationService
	statisticsService   service.StatisticsService
	turnoutService      service.TurnoutService
	documentService     service.DocumentService
	auditLogService     service.AuditLogService

	submissionController   *api.SubmissionController
	verificationController *api.VerificationController
	resultController       *api.ResultController
	referenceController    *api.ReferenceController
	turnoutController      *api.TurnoutController
	documentController     *api.DocumentController
}

// NewContainer 创建依赖注入容器
// 根据配置初始化所有依赖组件
func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. 初始化数据库（带重试机制）
	// 默认重试 3 次，初始间隔 1 秒，指数退避
	var db *gorm.DB
	var err error
	if config.IsProduction(cfg) {
		db, err = database.ConnectProduction(cfg.Database)
	} else {
		db, err = database.ConnectWithRetry(cfg.Database, 3, time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// 执行数据库迁移
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return NewContainerWithDB(cfg, db)
}

// NewContainerWithDB 基于现有数据库连接装配容器
// 测试时注入内存 SQLite 用
func NewContainerWithDB(cfg *config.Config, db *gorm.DB) (*Container, error) {
	// 2. 初始化仓储
	submissionRepo := repository.NewSubmissionRepository(db)
	detailRepo := repository.NewSubmissionDetailRepository(db)
	resultRepo := repository.NewResultRepository(db)
	electionResultRepo := repository.NewElectionResultRepository(db)
	taskRepo := repository.NewVerificationTaskRepository(db)
	historyRepo := repository.NewVerificationHistoryRepository(db)
	candidateRepo := repository.NewCandidateRepository(db)
	stationRepo := repository.NewPollingStationRepository(db)
	turnoutRepo := repository.NewHourlyTurnoutRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	// 3. 初始化服务
	auditLogService := service.NewAuditLogService(auditLogRepo)
	reconcileService := service.NewReconcileService(db, auditLogService)
	twoStepService := service.NewTwoStepService(db, auditLogService)
	submissionService := service.NewSubmissionService(db, submissionRepo, detailRepo, auditLogService)
	verificationService := service.NewVerificationService(db, taskRepo, historyRepo, auditLogService)
	statisticsService := service.NewStatisticsService(db)
	turnoutService := service.NewTurnoutService(db, turnoutRepo, auditLogService)
	documentService := service.NewDocumentService(db, documentRepo, auditLogService)

	// 4. 初始化认证与授权
	keycloakValidator := auth.NewKeycloakTokenValidator(cfg.Keycloak.Issuer)
	authorizer := auth.NewAuthorizer(auth.NewPermissionRegistry())

	// 5. 初始化 WebSocket Hub
	hub := websocket.NewHub()

	// 6. 初始化控制器
	submissionController := api.NewSubmissionController(reconcileService, twoStepService, submissionService, hub)
	verificationController := api.NewVerificationController(verificationService)
	resultController := api.NewResultController(resultRepo, electionResultRepo, statisticsService)
	referenceController := api.NewReferenceController(candidateRepo, stationRepo)
	turnoutController := api.NewTurnoutController(turnoutService)
	documentController := api.NewDocumentController(documentService)

	return &Container{
		db:                     db,
		hub:                    hub,
		keycloakValidator:      keycloakValidator,
		authorizer:             authorizer,
		reconcileService:       reconcileService,
		twoStepService:         twoStepService,
		submissionService:      submissionService,
		verificationService:    verificationService,
		statisticsService:      statisticsService,
		turnoutService:         turnoutService,
		documentService:        documentService,
		auditLogService:        auditLogService,
		submissionController:   submissionController,
		verificationController: verificationController,
		resultController:       resultController,
		referenceController:    referenceController,
		turnoutController:      turnoutController,
		documentController:     documentController,
	}, nil
}

// DB 获取数据库连接
func (c *Container) DB() *gorm.DB {
	return c.db
}

// Hub 获取 WebSocket Hub
func (c *Container) Hub() *websocket.Hub {
	return c.hub
}

// KeycloakValidator 获取 Keycloak Token 验证器
func (c *Container) KeycloakValidator() *auth.KeycloakTokenValidator {
	return c.keycloakValidator
}

// Authorizer 获取授权器
func (c *Container) Authorizer() *auth.Authorizer {
	return c.authorizer
}

// ReconcileService 获取对账服务
func (c *Container) ReconcileService() service.ReconcileService {
	return c.reconcileService
}

// TwoStepService 获取两步提交服务
func (c *Container) TwoStepService() service.TwoStepService {
	return c.twoStepService
}

// SubmissionService 获取提交管理服务
func (c *Container) SubmissionService() service.SubmissionService {
	return c.submissionService
}

// VerificationService 获取核验服务
func (c *Container) VerificationService() service.VerificationService {
	return c.verificationService
}

// StatisticsService 获取统计服务
func (c *Container) StatisticsService() service.StatisticsService {
	return c.statisticsService
}

// AuditLogService 获取审计日志服务
func (c *Container) AuditLogService() service.AuditLogService {
	return c.auditLogService
}

// RouterConfig 构造路由装配配置
func (c *Container) RouterConfig(cfg *config.Config) *api.RouterConfig {
	return &api.RouterConfig{
		DB:             c.db,
		Hub:            c.hub,
		Validator:      c.keycloakValidator,
		Authorize:      c.authorizer,
		Submissions:    c.submissionController,
		Verifications:  c.verificationController,
		Results:        c.resultController,
		Reference:      c.referenceController,
		Turnout:        c.turnoutController,
		Documents:      c.documentController,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
		ForceHTTPS:     config.IsProduction(cfg),
	}
}

// Close 关闭容器,清理资源
func (c *Container) Close() error {
	if c.db != nil {
		sqlDB, err := c.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	return nil
}
