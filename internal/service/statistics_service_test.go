package service_test

import (
	"testing"
	"time"

	"github.com/mautops/election-gin/internal/model"
	"github.com/mautops/election-gin/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDBForStatistics 创建统计测试数据库
// 两个大区、三个投票站、两名候选人的小样本
func setupTestDBForStatistics(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.PollingStationModel{},
		&model.CandidateModel{},
		&model.ResultSubmissionModel{},
		&model.ResultModel{},
		&model.VerificationTaskModel{},
	)
	require.NoError(t, err)

	stations := []*model.PollingStationModel{
		{ID: 1, Name: "EPP A", Region: "Littoral", RegisteredVoters: 1000, VotesSubmitted: 600, Status: model.StationStatusReporting},
		{ID: 2, Name: "EPP B", Region: "Littoral", RegisteredVoters: 500, VotesSubmitted: 0, Status: model.StationStatusOpen},
		{ID: 3, Name: "EPP C", Region: "Centre", RegisteredVoters: 800, VotesSubmitted: 400, Status: model.StationStatusReporting},
	}
	require.NoError(t, db.Create(&stations).Error)

	candidates := []*model.CandidateModel{
		{ID: 1, FirstName: "Paul", LastName: "Essomba", Party: "RDPC", IsActive: true},
		{ID: 2, FirstName: "Marie", LastName: "Ngo Bassa", Party: "SDF", IsActive: true},
	}
	require.NoError(t, db.Create(&candidates).Error)

	results := []*model.ResultModel{
		{PollingStationID: 1, CandidateID: 1, Votes: 350, Timestamp: time.Now()},
		{PollingStationID: 1, CandidateID: 2, Votes: 250, Timestamp: time.Now()},
		{PollingStationID: 3, CandidateID: 1, Votes: 250, Timestamp: time.Now()},
		{PollingStationID: 3, CandidateID: 2, Votes: 150, Timestamp: time.Now()},
	}
	require.NoError(t, db.Create(&results).Error)

	submissions := []*model.ResultSubmissionModel{
		{ID: 1, PollingStationID: 1, SubmittedBy: 7, TotalVotes: 600, Status: model.SubmissionStatusVerified, SubmittedAt: time.Now()},
		{ID: 2, PollingStationID: 3, SubmittedBy: 7, TotalVotes: 400, Status: model.SubmissionStatusSubmitted, SubmittedAt: time.Now()},
	}
	require.NoError(t, db.Create(&submissions).Error)

	tasks := []*model.VerificationTaskModel{
		{SubmissionID: 2, TaskType: model.TaskTypeResultVerification, Status: model.TaskStatusPending, Priority: model.TaskPriorityNormal, CreatedBy: 5},
		{SubmissionID: 1, TaskType: model.TaskTypeResultVerification, Status: model.TaskStatusCompleted, Priority: model.TaskPriorityNormal, CreatedBy: 5},
	}
	require.NoError(t, db.Create(&tasks).Error)

	return db
}

// TestStatisticsService_GetSubmissionStatisticsByStatus 测试按状态统计提交
func TestStatisticsService_GetSubmissionStatisticsByStatus(t *testing.T) {
	db := setupTestDBForStatistics(t)
	svc := service.NewStatisticsService(db)

	stats, err := svc.GetSubmissionStatisticsByStatus()
	require.NoError(t, err)
	require.Len(t, stats, 2)

	counts := make(map[string]int64, len(stats))
	for _, s := range stats {
		counts[s.Status] = s.Count
	}
	assert.Equal(t, int64(1), counts[model.SubmissionStatusVerified])
	assert.Equal(t, int64(1), counts[model.SubmissionStatusSubmitted])
}

// TestStatisticsService_GetResultsByCandidate 测试候选人维度汇总
func TestStatisticsService_GetResultsByCandidate(t *testing.T) {
	db := setupTestDBForStatistics(t)
	svc := service.NewStatisticsService(db)

	stats, err := svc.GetResultsByCandidate()
	require.NoError(t, err)
	require.Len(t, stats, 2)

	// 按票数降序
	assert.Equal(t, 1, stats[0].CandidateID)
	assert.Equal(t, int64(600), stats[0].TotalVotes)
	assert.Equal(t, int64(2), stats[0].StationCount)
	assert.Equal(t, "Paul Essomba", stats[0].CandidateName)
	assert.Equal(t, "RDPC", stats[0].Party)
	assert.InDelta(t, 60.0, stats[0].Percentage, 0.001)

	assert.Equal(t, 2, stats[1].CandidateID)
	assert.Equal(t, int64(400), stats[1].TotalVotes)
	assert.InDelta(t, 40.0, stats[1].Percentage, 0.001)
}

// TestStatisticsService_GetResultsByRegion 测试大区维度汇总
func TestStatisticsService_GetResultsByRegion(t *testing.T) {
	db := setupTestDBForStatistics(t)
	svc := service.NewStatisticsService(db)

	stats, err := svc.GetResultsByRegion()
	require.NoError(t, err)
	require.Len(t, stats, 2)

	// 按大区名升序
	assert.Equal(t, "Centre", stats[0].Region)
	assert.Equal(t, int64(1), stats[0].StationCount)
	assert.InDelta(t, 50.0, stats[0].TurnoutRate, 0.001)

	assert.Equal(t, "Littoral", stats[1].Region)
	assert.Equal(t, int64(2), stats[1].StationCount)
	assert.Equal(t, int64(1), stats[1].ReportingCount)
	assert.Equal(t, int64(1500), stats[1].RegisteredVoters)
	assert.Equal(t, int64(600), stats[1].VotesSubmitted)
	assert.InDelta(t, 40.0, stats[1].TurnoutRate, 0.001)
}

// TestStatisticsService_GetNationalSummary 测试全国汇总
func TestStatisticsService_GetNationalSummary(t *testing.T) {
	db := setupTestDBForStatistics(t)
	svc := service.NewStatisticsService(db)

	summary, err := svc.GetNationalSummary()
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.StationCount)
	assert.Equal(t, int64(2), summary.ReportingCount)
	assert.Equal(t, int64(2300), summary.RegisteredVoters)
	assert.Equal(t, int64(1000), summary.VotesSubmitted)
	assert.InDelta(t, 100.0*1000/2300, summary.TurnoutRate, 0.001)
	assert.Equal(t, int64(1), summary.VerifiedSubmissions)
	assert.Equal(t, int64(1), summary.PendingVerifications)
}

// TestStatisticsService_Empty 测试空库统计
func TestStatisticsService_Empty(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.PollingStationModel{},
		&model.CandidateModel{},
		&model.ResultSubmissionModel{},
		&model.ResultModel{},
		&model.VerificationTaskModel{},
	))
	svc := service.NewStatisticsService(db)

	stats, err := svc.GetResultsByCandidate()
	require.NoError(t, err)
	assert.Len(t, stats, 0)

	summary, err := svc.GetNationalSummary()
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.StationCount)
	assert.Equal(t, float64(0), summary.TurnoutRate)
}
