package api

import (
	"github.com/gin-gonic/gin"
	_ "github.com/mautops/election-gin/docs" // 导入生成的 docs 包
	"github.com/mautops/election-gin/internal/auth"
	"github.com/mautops/election-gin/internal/websocket"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// RouterConfig 路由装配所需的全部依赖
type RouterConfig struct {
	DB        *gorm.DB
	Hub       *websocket.Hub
	Validator *auth.KeycloakTokenValidator
	Authorize *auth.Authorizer

	Submissions   *SubmissionController
	Verifications *VerificationController
	Results       *ResultController
	Reference     *ReferenceController
	Turnout       *TurnoutController
	Documents     *DocumentController

	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	ForceHTTPS     bool
}

// SetupRoutes 配置路由
func SetupRoutes(cfg *RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// 全局中间件
	if cfg.ForceHTTPS {
		router.Use(HTTPSRedirectMiddleware())
	}
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogMiddleware())
	router.Use(ErrorHandlerMiddleware())
	router.Use(SecurityHeadersMiddleware())
	if len(cfg.AllowedOrigins) > 0 {
		router.Use(CORSMiddleware(cfg.AllowedOrigins))
	}
	if cfg.RateLimitRPS > 0 {
		router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	// 健康检查
	healthController := NewHealthController(cfg.DB)
	router.GET("/health", healthController.Check)

	// Prometheus 指标端点
	router.GET("/metrics", MetricsHandler)

	// WebSocket 路由 (按投票站订阅实时事件)
	if cfg.Hub != nil && cfg.Validator != nil {
		router.GET("/ws/stations", websocket.WebSocketHandler(cfg.Hub, cfg.Validator))
	}

	// Swagger UI 路由
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL("http://localhost:8080/swagger/doc.json"), // Swagger JSON URL
	))

	// API v1 路由组,全部需要认证
	v1 := router.Group("/api/v1")
	if cfg.Validator != nil {
		v1.Use(auth.AuthMiddleware(cfg.Validator))
		v1.Use(UserContextMiddleware())
	}

	authz := cfg.Authorize
	guard := func(resource string, action auth.Action) gin.HandlerFunc {
		return auth.RequirePermission(authz, resource, action)
	}

	// 提交管理路由
	if cfg.Submissions != nil {
		submissions := v1.Group("/submissions")
		{
			submissions.POST("", guard(auth.ResourceResults, auth.ActionCreate), cfg.Submissions.Reconcile)
			submissions.GET("", guard(auth.ResourceResults, auth.ActionRead), cfg.Submissions.List)
			submissions.GET("/:id", guard(auth.ResourceResults, auth.ActionRead), cfg.Submissions.Get)
			submissions.GET("/:id/details", guard(auth.ResourceResults, auth.ActionRead), cfg.Submissions.Details)
			submissions.PUT("/:id/status", guard(auth.ResourceResults, auth.ActionVerify), cfg.Submissions.ChangeStatus)
			submissions.DELETE("/:id", guard(auth.ResourceResults, auth.ActionDelete), cfg.Submissions.Delete)

			// 两步提交流程
			submissions.POST("/totals", guard(auth.ResourceResults, auth.ActionCreate), cfg.Submissions.Step1)
			submissions.POST("/:id/votes", guard(auth.ResourceResults, auth.ActionUpdate), cfg.Submissions.Step2)
			submissions.GET("/draft/:id", guard(auth.ResourceResults, auth.ActionRead), cfg.Submissions.Draft)
		}
	}

	// 核验任务路由
	if cfg.Verifications != nil {
		verifications := v1.Group("/verifications")
		{
			verifications.POST("", guard(auth.ResourceResults, auth.ActionVerify), cfg.Verifications.Create)
			verifications.GET("", guard(auth.ResourceResults, auth.ActionRead), cfg.Verifications.List)
			verifications.GET("/:id", guard(auth.ResourceResults, auth.ActionRead), cfg.Verifications.Get)
			verifications.GET("/:id/history", guard(auth.ResourceResults, auth.ActionRead), cfg.Verifications.History)
			verifications.POST("/:id/assign", guard(auth.ResourceResults, auth.ActionVerify), cfg.Verifications.Assign)
			verifications.POST("/:id/complete", guard(auth.ResourceResults, auth.ActionVerify), cfg.Verifications.Complete)
			verifications.POST("/:id/finalize", guard(auth.ResourceResults, auth.ActionVerify), cfg.Verifications.Finalize)
			verifications.POST("/:id/suspend", guard(auth.ResourceResults, auth.ActionVerify), cfg.Verifications.Suspend)
			verifications.POST("/:id/resume", guard(auth.ResourceResults, auth.ActionVerify), cfg.Verifications.Resume)
			verifications.POST("/:id/cancel", guard(auth.ResourceResults, auth.ActionVerify), cfg.Verifications.Cancel)
			verifications.DELETE("/:id", guard(auth.ResourceResults, auth.ActionDelete), cfg.Verifications.Delete)
		}
	}

	// 结果查询与统计路由
	if cfg.Results != nil {
		results := v1.Group("/results")
		{
			results.GET("/stations/:id", guard(auth.ResourceResults, auth.ActionRead), cfg.Results.ByStation)
			results.GET("/candidates/:id", guard(auth.ResourceResults, auth.ActionRead), cfg.Results.ByCandidate)
		}

		statistics := v1.Group("/statistics")
		{
			statistics.GET("/candidates", guard(auth.ResourceReports, auth.ActionRead), cfg.Results.CandidateSummary)
			statistics.GET("/regions", guard(auth.ResourceReports, auth.ActionRead), cfg.Results.RegionSummary)
			statistics.GET("/national", guard(auth.ResourceReports, auth.ActionRead), cfg.Results.NationalSummary)
			statistics.GET("/submissions", guard(auth.ResourceReports, auth.ActionRead), cfg.Results.SubmissionsByStatus)
		}
	}

	// 基础数据路由
	if cfg.Reference != nil {
		candidates := v1.Group("/candidates")
		{
			candidates.GET("", guard(auth.ResourceCandidates, auth.ActionRead), cfg.Reference.ListCandidates)
			candidates.GET("/:id", guard(auth.ResourceCandidates, auth.ActionRead), cfg.Reference.GetCandidate)
			candidates.POST("", guard(auth.ResourceCandidates, auth.ActionCreate), cfg.Reference.CreateCandidate)
		}

		stations := v1.Group("/stations")
		{
			stations.GET("", guard(auth.ResourcePollingStations, auth.ActionRead), cfg.Reference.ListStations)
			stations.GET("/:id", guard(auth.ResourcePollingStations, auth.ActionRead), cfg.Reference.GetStation)
			stations.POST("", guard(auth.ResourcePollingStations, auth.ActionCreate), cfg.Reference.CreateStation)
		}
	}

	// 分时参与率路由
	if cfg.Turnout != nil {
		turnout := v1.Group("/turnout")
		{
			turnout.POST("", guard(auth.ResourceResults, auth.ActionCreate), cfg.Turnout.Report)
			turnout.GET("/stations/:id", guard(auth.ResourceResults, auth.ActionRead), cfg.Turnout.ByStation)
			turnout.GET("/hours/:hour", guard(auth.ResourceResults, auth.ActionRead), cfg.Turnout.ByHour)
		}
	}

	// 附件路由
	if cfg.Documents != nil {
		documents := v1.Group("/documents")
		{
			documents.POST("", guard(auth.ResourceResults, auth.ActionUpdate), cfg.Documents.Attach)
			documents.GET("/:id", guard(auth.ResourceResults, auth.ActionRead), cfg.Documents.Get)
			documents.GET("/submissions/:id", guard(auth.ResourceResults, auth.ActionRead), cfg.Documents.ListBySubmission)
			documents.DELETE("/:id", guard(auth.ResourceResults, auth.ActionDelete), cfg.Documents.Delete)
		}
	}

	return router
}
