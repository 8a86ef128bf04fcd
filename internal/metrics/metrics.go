package metrics

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

var (
	// API 请求计数器
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	// API 请求响应时间
	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// 结果提交处理数
	submissionsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_processed_total",
			Help: "Total number of result submissions processed",
		},
		[]string{"status"}, // draft, submitted, verified, rejected
	)

	// 审核任务创建数
	verificationTasksCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "verification_tasks_created_total",
			Help: "Total number of verification tasks created",
		},
	)

	// 审核任务完成数
	verificationTasksCompletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verification_tasks_completed_total",
			Help: "Total number of verification tasks completed",
		},
		[]string{"decision"}, // approved, rejected
	)

	// 数据库连接数
	databaseConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_active",
			Help: "Number of active database connections",
		},
	)

	databaseConnectionsIdle = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	databaseConnectionsMax = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_max",
			Help: "Maximum number of database connections",
		},
	)

	// 投票站状态分布
	stationsByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "polling_stations_by_status",
			Help: "Number of polling stations by status",
		},
		[]string{"status"},
	)

	// 提交状态分布
	submissionsByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "submissions_by_status",
			Help: "Number of result submissions by status",
		},
		[]string{"status"},
	)
)

var (
	once sync.Once
)

func init() {
	// 注册指标
	prometheus.MustRegister(apiRequestsTotal)
	prometheus.MustRegister(apiRequestDuration)
	prometheus.MustRegister(submissionsProcessedTotal)
	prometheus.MustRegister(verificationTasksCreatedTotal)
	prometheus.MustRegister(verificationTasksCompletedTotal)
	prometheus.MustRegister(databaseConnectionsActive)
	prometheus.MustRegister(databaseConnectionsIdle)
	prometheus.MustRegister(databaseConnectionsMax)
	prometheus.MustRegister(stationsByStatus)
	prometheus.MustRegister(submissionsByStatus)

	// 注册 Go 运行时指标（只注册一次）
	once.Do(func() {
		// 尝试注册 Go 运行时指标，如果已注册则忽略错误
		_ = prometheus.Register(prometheus.NewGoCollector())
		_ = prometheus.Register(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	})
}

// Handler 返回 Prometheus 指标处理器
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAPIRequest 记录 API 请求
func RecordAPIRequest(method, path string, status int, duration float64) {
	statusText := http.StatusText(status)
	if statusText == "" {
		statusText = fmt.Sprintf("%d", status)
	}
	apiRequestsTotal.WithLabelValues(method, path, statusText).Inc()
	apiRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordSubmissionProcessed 记录一次提交处理
func RecordSubmissionProcessed(status string) {
	submissionsProcessedTotal.WithLabelValues(status).Inc()
}

// RecordVerificationTaskCreated 记录审核任务创建
func RecordVerificationTaskCreated() {
	verificationTasksCreatedTotal.Inc()
}

// RecordVerificationTaskCompleted 记录审核任务完成
func RecordVerificationTaskCompleted(decision string) {
	verificationTasksCompletedTotal.WithLabelValues(decision).Inc()
}

// UpdateDatabaseConnections 更新数据库连接数指标
func UpdateDatabaseConnections(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	stats := sqlDB.Stats()
	databaseConnectionsActive.Set(float64(stats.OpenConnections - stats.Idle))
	databaseConnectionsIdle.Set(float64(stats.Idle))
	databaseConnectionsMax.Set(float64(stats.MaxOpenConnections))

	return nil
}

// UpdateStationsByStatus 更新投票站状态分布指标
func UpdateStationsByStatus(status string, count float64) {
	stationsByStatus.WithLabelValues(status).Set(count)
}

// UpdateSubmissionsByStatus 更新提交状态分布指标
func UpdateSubmissionsByStatus(status string, count float64) {
	submissionsByStatus.WithLabelValues(status).Set(count)
}
