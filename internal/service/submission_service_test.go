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

// setupTestDBForSubmission 创建提交管理测试数据库
func setupTestDBForSubmission(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.PollingStationModel{},
		&model.CandidateModel{},
		&model.ResultSubmissionModel{},
		&model.ResultSubmissionDetailModel{},
		&model.ResultModel{},
		&model.ElectionResultModel{},
	)
	require.NoError(t, err)

	return db
}

// newSubmissionService 装配提交管理服务
func newSubmissionService(db *gorm.DB) service.SubmissionService {
	return service.NewSubmissionService(
		db,
		repository.NewSubmissionRepository(db),
		repository.NewSubmissionDetailRepository(db),
		nil,
	)
}

// seedSubmissionViaReconcile 走对账链路种一条带明细和投影的提交
func seedSubmissionViaReconcile(t *testing.T, db *gorm.DB) *model.ResultSubmissionModel {
	seedStationAndCandidates(t, db)

	submission, err := service.NewReconcileService(db, nil).Reconcile(context.Background(), &service.ReconcileRequest{
		PollingStationID: 1,
		SubmittedBy:      7,
		TotalVotes:       600,
		BlankVotes:       30,
		NullVotes:        20,
		CandidateVotes: []service.CandidateVotes{
			{CandidateID: 1, Votes: 300},
			{CandidateID: 2, Votes: 250},
		},
	})
	require.NoError(t, err)
	return submission
}

// TestSubmissionService_Get 测试获取提交
func TestSubmissionService_Get(t *testing.T) {
	db := setupTestDBForSubmission(t)
	seeded := seedSubmissionViaReconcile(t, db)
	svc := newSubmissionService(db)

	found, err := svc.Get(seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)
	assert.Equal(t, 600, found.TotalVotes)
}

// TestSubmissionService_Get_NotFound 测试获取不存在的提交
func TestSubmissionService_Get_NotFound(t *testing.T) {
	db := setupTestDBForSubmission(t)
	svc := newSubmissionService(db)

	_, err := svc.Get(999)
	require.Error(t, err)
	assert.True(t, service.IsNotFound(err))
}

// TestSubmissionService_GetByStation 测试按投票站获取提交
func TestSubmissionService_GetByStation(t *testing.T) {
	db := setupTestDBForSubmission(t)
	seeded := seedSubmissionViaReconcile(t, db)
	svc := newSubmissionService(db)

	found, err := svc.GetByStation(1)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)

	_, err = svc.GetByStation(42)
	require.Error(t, err)
	assert.True(t, service.IsNotFound(err))
}

// TestSubmissionService_Details 测试获取提交明细
func TestSubmissionService_Details(t *testing.T) {
	db := setupTestDBForSubmission(t)
	seeded := seedSubmissionViaReconcile(t, db)
	svc := newSubmissionService(db)

	details, err := svc.Details(seeded.ID)
	require.NoError(t, err)
	assert.Len(t, details, 2)
}

// TestSubmissionService_ChangeStatus_Verified 测试落定为已审核
func TestSubmissionService_ChangeStatus_Verified(t *testing.T) {
	db := setupTestDBForSubmission(t)
	seeded := seedSubmissionViaReconcile(t, db)
	svc := newSubmissionService(db)

	err := svc.ChangeStatus(context.Background(), seeded.ID, &service.ChangeStatusRequest{
		Status:     model.SubmissionStatusVerified,
		VerifiedBy: 5,
	})
	require.NoError(t, err)

	updated, err := svc.Get(seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionStatusVerified, updated.Status)
	assert.NotNil(t, updated.VerifiedAt)
	require.NotNil(t, updated.VerifiedBy)
	assert.Equal(t, 5, *updated.VerifiedBy)

	// 投影表 verified 标记一并翻转
	var unverified int64
	db.Model(&model.ResultModel{}).Where("verified = ?", false).Count(&unverified)
	assert.Equal(t, int64(0), unverified)
	db.Model(&model.ElectionResultModel{}).Where("verified = ?", false).Count(&unverified)
	assert.Equal(t, int64(0), unverified)
}

// TestSubmissionService_ChangeStatus_Invalid 测试非法目标状态
func TestSubmissionService_ChangeStatus_Invalid(t *testing.T) {
	db := setupTestDBForSubmission(t)
	seeded := seedSubmissionViaReconcile(t, db)
	svc := newSubmissionService(db)

	err := svc.ChangeStatus(context.Background(), seeded.ID, &service.ChangeStatusRequest{
		Status: "approved",
	})
	require.Error(t, err)

	var errs service.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, service.CodeInvalidStatus, errs[0].Code)
}

// TestSubmissionService_ChangeStatus_AlreadyVerified 测试已审核提交不可改判
func TestSubmissionService_ChangeStatus_AlreadyVerified(t *testing.T) {
	db := setupTestDBForSubmission(t)
	seeded := seedSubmissionViaReconcile(t, db)
	svc := newSubmissionService(db)

	require.NoError(t, svc.ChangeStatus(context.Background(), seeded.ID, &service.ChangeStatusRequest{
		Status:     model.SubmissionStatusVerified,
		VerifiedBy: 5,
	}))

	err := svc.ChangeStatus(context.Background(), seeded.ID, &service.ChangeStatusRequest{
		Status:     model.SubmissionStatusRejected,
		VerifiedBy: 5,
	})
	require.Error(t, err)
	assert.True(t, service.IsConflict(err))

	// 状态保持 verified,投影表标记不被翻回
	unchanged, err := svc.Get(seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionStatusVerified, unchanged.Status)

	var unverified int64
	db.Model(&model.ResultModel{}).Where("verified = ?", false).Count(&unverified)
	assert.Equal(t, int64(0), unverified)
}

// TestSubmissionService_ChangeStatus_Draft 测试草稿不能跳过提交直接审核
func TestSubmissionService_ChangeStatus_Draft(t *testing.T) {
	db := setupTestDBForSubmission(t)
	svc := newSubmissionService(db)

	draft := &model.ResultSubmissionModel{
		PollingStationID: 1,
		SubmittedBy:      7,
		TotalVotes:       600,
		RegisteredVoters: 1000,
		Status:           model.SubmissionStatusDraft,
	}
	require.NoError(t, db.Create(draft).Error)

	err := svc.ChangeStatus(context.Background(), draft.ID, &service.ChangeStatusRequest{
		Status:     model.SubmissionStatusVerified,
		VerifiedBy: 5,
	})
	require.Error(t, err)
	assert.True(t, service.IsConflict(err))

	unchanged, err := svc.Get(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionStatusDraft, unchanged.Status)
}

// TestSubmissionService_ChangeStatus_NotFound 测试提交不存在
func TestSubmissionService_ChangeStatus_NotFound(t *testing.T) {
	db := setupTestDBForSubmission(t)
	svc := newSubmissionService(db)

	err := svc.ChangeStatus(context.Background(), 999, &service.ChangeStatusRequest{
		Status: model.SubmissionStatusRejected,
	})
	require.Error(t, err)
	assert.True(t, service.IsNotFound(err))
}

// TestSubmissionService_Delete 测试删除提交
func TestSubmissionService_Delete(t *testing.T) {
	db := setupTestDBForSubmission(t)
	seeded := seedSubmissionViaReconcile(t, db)
	svc := newSubmissionService(db)

	require.NoError(t, svc.Delete(context.Background(), seeded.ID))

	// 明细和两张投影一起清掉
	var detailCount, resultCount, electionCount int64
	db.Model(&model.ResultSubmissionDetailModel{}).Where("submission_id = ?", seeded.ID).Count(&detailCount)
	db.Model(&model.ResultModel{}).Where("polling_station_id = ?", 1).Count(&resultCount)
	db.Model(&model.ElectionResultModel{}).Where("polling_station_id = ?", 1).Count(&electionCount)
	assert.Equal(t, int64(0), detailCount)
	assert.Equal(t, int64(0), resultCount)
	assert.Equal(t, int64(0), electionCount)

	// 站点计数回零并关站
	var station model.PollingStationModel
	require.NoError(t, db.First(&station, 1).Error)
	assert.Equal(t, 0, station.VotesSubmitted)
	assert.Equal(t, float64(0), station.TurnoutRate)
	assert.Equal(t, model.StationStatusClosed, station.Status)
}

// TestSubmissionService_Delete_VerifiedConflict 测试已审核提交不允许删除
func TestSubmissionService_Delete_VerifiedConflict(t *testing.T) {
	db := setupTestDBForSubmission(t)
	seeded := seedSubmissionViaReconcile(t, db)
	svc := newSubmissionService(db)

	require.NoError(t, svc.ChangeStatus(context.Background(), seeded.ID, &service.ChangeStatusRequest{
		Status:     model.SubmissionStatusVerified,
		VerifiedBy: 5,
	}))

	err := svc.Delete(context.Background(), seeded.ID)
	require.Error(t, err)
	assert.True(t, service.IsConflict(err))
}

// TestSubmissionService_List 测试按条件查询提交
func TestSubmissionService_List(t *testing.T) {
	db := setupTestDBForSubmission(t)
	seedSubmissionViaReconcile(t, db)
	svc := newSubmissionService(db)

	submitted := model.SubmissionStatusSubmitted
	submissions, err := svc.List(&repository.SubmissionFilter{Status: &submitted})
	require.NoError(t, err)
	assert.Len(t, submissions, 1)

	verified := model.SubmissionStatusVerified
	submissions, err = svc.List(&repository.SubmissionFilter{Status: &verified})
	require.NoError(t, err)
	assert.Len(t, submissions, 0)
}
