package service_test

import (
	"context"
	"testing"

	"github.com/mautops/election-gin/internal/model"
	"github.com/mautops/election-gin/internal/repository"
	"github.com/mautops/election-gin/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDBForTurnout 创建分时段参与率测试数据库
func setupTestDBForTurnout(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.PollingStationModel{},
		&model.HourlyTurnoutModel{},
	)
	require.NoError(t, err)

	station := &model.PollingStationModel{
		ID:               1,
		Name:             "EPP Nkol-Eton",
		Region:           "Centre",
		RegisteredVoters: 500,
		Status:           model.StationStatusOpen,
	}
	require.NoError(t, db.Create(station).Error)

	return db
}

// newTurnoutService 装配分时段参与率服务
func newTurnoutService(db *gorm.DB) service.TurnoutService {
	return service.NewTurnoutService(db, repository.NewHourlyTurnoutRepository(db), nil)
}

// TestTurnoutService_Report 测试上报分时段参与率
func TestTurnoutService_Report(t *testing.T) {
	db := setupTestDBForTurnout(t)
	svc := newTurnoutService(db)

	turnout, err := svc.Report(context.Background(), &service.ReportTurnoutRequest{
		PollingStationID: 1,
		Hour:             12,
		CumulativeVotes:  245,
		ReportedBy:       7,
	})
	require.NoError(t, err)
	require.NotNil(t, turnout)
	assert.InDelta(t, 49.0, turnout.TurnoutRate, 0.001)
}

// TestTurnoutService_Report_Overwrite 测试同站同小时重复上报覆盖
func TestTurnoutService_Report_Overwrite(t *testing.T) {
	db := setupTestDBForTurnout(t)
	svc := newTurnoutService(db)

	_, err := svc.Report(context.Background(), &service.ReportTurnoutRequest{
		PollingStationID: 1,
		Hour:             12,
		CumulativeVotes:  200,
		ReportedBy:       7,
	})
	require.NoError(t, err)

	_, err = svc.Report(context.Background(), &service.ReportTurnoutRequest{
		PollingStationID: 1,
		Hour:             12,
		CumulativeVotes:  245,
		ReportedBy:       8,
	})
	require.NoError(t, err)

	rows, err := svc.GetByStation(1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 245, rows[0].CumulativeVotes)
	assert.Equal(t, 8, rows[0].ReportedBy)
}

// TestTurnoutService_Report_Validation 测试上报校验
func TestTurnoutService_Report_Validation(t *testing.T) {
	db := setupTestDBForTurnout(t)
	svc := newTurnoutService(db)

	// 小时越界 + 累计人数为负,问题一并返回
	_, err := svc.Report(context.Background(), &service.ReportTurnoutRequest{
		PollingStationID: 1,
		Hour:             25,
		CumulativeVotes:  -1,
		ReportedBy:       7,
	})
	require.Error(t, err)

	var errs service.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 2)
}

// TestTurnoutService_Report_ExceedsRegistered 测试累计人数超登记选民
func TestTurnoutService_Report_ExceedsRegistered(t *testing.T) {
	db := setupTestDBForTurnout(t)
	svc := newTurnoutService(db)

	_, err := svc.Report(context.Background(), &service.ReportTurnoutRequest{
		PollingStationID: 1,
		Hour:             16,
		CumulativeVotes:  600,
		ReportedBy:       7,
	})
	require.Error(t, err)

	var errs service.ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 1)
	assert.Equal(t, service.CodeVotesExceedRegistered, errs[0].Code)
}

// TestTurnoutService_Report_StationNotFound 测试投票站不存在
func TestTurnoutService_Report_StationNotFound(t *testing.T) {
	db := setupTestDBForTurnout(t)
	svc := newTurnoutService(db)

	_, err := svc.Report(context.Background(), &service.ReportTurnoutRequest{
		PollingStationID: 42,
		Hour:             12,
		CumulativeVotes:  100,
		ReportedBy:       7,
	})
	require.Error(t, err)
	assert.True(t, service.IsNotFound(err))
}

// TestTurnoutService_GetByStation 测试按投票站查询,按小时升序
func TestTurnoutService_GetByStation(t *testing.T) {
	db := setupTestDBForTurnout(t)
	svc := newTurnoutService(db)

	for _, h := range []int{16, 8, 12} {
		_, err := svc.Report(context.Background(), &service.ReportTurnoutRequest{
			PollingStationID: 1,
			Hour:             h,
			CumulativeVotes:  h * 10,
			ReportedBy:       7,
		})
		require.NoError(t, err)
	}

	rows, err := svc.GetByStation(1)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 8, rows[0].Hour)
	assert.Equal(t, 12, rows[1].Hour)
	assert.Equal(t, 16, rows[2].Hour)
}

// TestTurnoutService_GetByHour 测试按小时查询
func TestTurnoutService_GetByHour(t *testing.T) {
	db := setupTestDBForTurnout(t)
	svc := newTurnoutService(db)

	_, err := svc.Report(context.Background(), &service.ReportTurnoutRequest{
		PollingStationID: 1,
		Hour:             12,
		CumulativeVotes:  245,
		ReportedBy:       7,
	})
	require.NoError(t, err)

	rows, err := svc.GetByHour(12)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = svc.GetByHour(24)
	require.Error(t, err)
}
