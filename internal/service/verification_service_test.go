package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/mautops/election-gin/internal/model"
	"github.com/mautops/election-gin/internal/repository"
	"github.com/mautops/election-gin/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDBForVerification 创建审核任务测试数据库
// 预置一个投票站、一条提交和一名审核员
func setupTestDBForVerification(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.UserModel{},
		&model.PollingStationModel{},
		&model.ResultSubmissionModel{},
		&model.ResultModel{},
		&model.ElectionResultModel{},
		&model.VerificationTaskModel{},
		&model.VerificationHistoryModel{},
	)
	require.NoError(t, err)

	user := &model.UserModel{
		ID:        5,
		FirstName: "Alice",
		LastName:  "Mbarga",
		Email:     "alice@example.org",
		Role:      "Supervisor",
		IsActive:  true,
	}
	require.NoError(t, db.Create(user).Error)

	submission := &model.ResultSubmissionModel{
		ID:               1,
		PollingStationID: 1,
		SubmittedBy:      7,
		TotalVotes:       600,
		RegisteredVoters: 1000,
		BlankVotes:       30,
		NullVotes:        20,
		Status:           model.SubmissionStatusSubmitted,
		SubmittedAt:      time.Now(),
	}
	require.NoError(t, db.Create(submission).Error)

	return db
}

// newVerificationService 装配审核任务服务
func newVerificationService(db *gorm.DB) service.VerificationService {
	return service.NewVerificationService(
		db,
		repository.NewVerificationTaskRepository(db),
		repository.NewVerificationHistoryRepository(db),
		nil,
	)
}

// TestVerificationService_Create 测试创建审核任务
func TestVerificationService_Create(t *testing.T) {
	db := setupTestDBForVerification(t)
	svc := newVerificationService(db)

	task, err := svc.Create(context.Background(), &service.CreateVerificationTaskRequest{
		SubmissionID: 1,
		CreatedBy:    5,
	})
	require.NoError(t, err)
	require.NotNil(t, task)

	// 缺省任务类型和优先级
	assert.Equal(t, model.TaskTypeResultVerification, task.TaskType)
	assert.Equal(t, model.TaskPriorityNormal, task.Priority)
	assert.Equal(t, model.TaskStatusPending, task.Status)
	assert.Nil(t, task.AssignedTo)

	// 创建即落第一条历史
	history, err := svc.History(task.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "created", history[0].Action)
	assert.Equal(t, model.TaskStatusPending, history[0].ToStatus)
}

// TestVerificationService_Create_SubmissionNotFound 测试提交不存在
func TestVerificationService_Create_SubmissionNotFound(t *testing.T) {
	db := setupTestDBForVerification(t)
	svc := newVerificationService(db)

	_, err := svc.Create(context.Background(), &service.CreateVerificationTaskRequest{
		SubmissionID: 999,
		CreatedBy:    5,
	})
	require.Error(t, err)
	assert.True(t, service.IsNotFound(err))
}

// TestVerificationService_Create_BadDueDate 测试非法截止时间
func TestVerificationService_Create_BadDueDate(t *testing.T) {
	db := setupTestDBForVerification(t)
	svc := newVerificationService(db)

	_, err := svc.Create(context.Background(), &service.CreateVerificationTaskRequest{
		SubmissionID: 1,
		CreatedBy:    5,
		DueDate:      "tomorrow",
	})
	require.Error(t, err)

	var errs service.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "due_date", errs[0].Field)
}

// TestVerificationService_Assign 测试指派任务
func TestVerificationService_Assign(t *testing.T) {
	db := setupTestDBForVerification(t)
	svc := newVerificationService(db)

	task, err := svc.Create(context.Background(), &service.CreateVerificationTaskRequest{
		SubmissionID: 1,
		CreatedBy:    5,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Assign(context.Background(), task.ID, 5))

	assigned, err := svc.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusInProgress, assigned.Status)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, 5, *assigned.AssignedTo)
	assert.NotNil(t, assigned.StartedAt)
}

// TestVerificationService_Assign_UserNotFound 测试指派给不存在的用户
func TestVerificationService_Assign_UserNotFound(t *testing.T) {
	db := setupTestDBForVerification(t)
	svc := newVerificationService(db)

	task, err := svc.Create(context.Background(), &service.CreateVerificationTaskRequest{
		SubmissionID: 1,
		CreatedBy:    5,
	})
	require.NoError(t, err)

	err = svc.Assign(context.Background(), task.ID, 999)
	require.Error(t, err)
	assert.True(t, service.IsNotFound(err))
}

// TestVerificationService_Assign_SuspendedConflict 测试挂起任务拒绝指派
func TestVerificationService_Assign_SuspendedConflict(t *testing.T) {
	db := setupTestDBForVerification(t)
	svc := newVerificationService(db)

	task, err := svc.Create(context.Background(), &service.CreateVerificationTaskRequest{
		SubmissionID: 1,
		CreatedBy:    5,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Suspend(context.Background(), task.ID, "attente de documents"))

	// 挂起状态只能走 Resume,指派不能把任务直接拉回 in_progress
	err = svc.Assign(context.Background(), task.ID, 5)
	require.Error(t, err)
	assert.True(t, service.IsConflict(err))

	suspended, err := svc.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusSuspended, suspended.Status)
	assert.Nil(t, suspended.AssignedTo)
}

// TestVerificationService_Assign_Reassign 测试进行中任务允许改派
func TestVerificationService_Assign_Reassign(t *testing.T) {
	db := setupTestDBForVerification(t)
	svc := newVerificationService(db)

	other := &model.UserModel{
		ID:        6,
		FirstName: "Bernard",
		LastName:  "Fouda",
		Email:     "bernard@example.org",
		Role:      "Supervisor",
		IsActive:  true,
	}
	require.NoError(t, db.Create(other).Error)

	task, err := svc.Create(context.Background(), &service.CreateVerificationTaskRequest{
		SubmissionID: 1,
		CreatedBy:    5,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Assign(context.Background(), task.ID, 5))
	require.NoError(t, svc.Assign(context.Background(), task.ID, 6))

	reassigned, err := svc.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusInProgress, reassigned.Status)
	require.NotNil(t, reassigned.AssignedTo)
	assert.Equal(t, 6, *reassigned.AssignedTo)
}

// TestVerificationService_Complete 测试完成审核
func TestVerificationService_Complete(t *testing.T) {
	db := setupTestDBForVerification(t)
	svc := newVerificationService(db)

	task, err := svc.Create(context.Background(), &service.CreateVerificationTaskRequest{
		SubmissionID: 1,
		CreatedBy:    5,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Assign(context.Background(), task.ID, 5))

	err = svc.Complete(context.Background(), task.ID, &service.CompleteVerificationRequest{
		Decision: service.DecisionApproved,
		Comments: "票数核对无误",
	})
	require.NoError(t, err)

	completed, err := svc.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusCompleted, completed.Status)
	assert.Equal(t, service.DecisionApproved, completed.Decision)
	assert.NotNil(t, completed.CompletedAt)

	// created / assigned / completed 三条历史
	history, err := svc.History(task.ID)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

// TestVerificationService_Complete_InvalidDecision 测试非法结论
func TestVerificationService_Complete_InvalidDecision(t *testing.T) {
	db := setupTestDBForVerification(t)
	svc := newVerificationService(db)

	task, err := svc.Create(context.Background(), &service.CreateVerificationTaskRequest{
		SubmissionID: 1,
		CreatedBy:    5,
	})
	require.NoError(t, err)

	err = svc.Complete(context.Background(), task.ID, &service.CompleteVerificationRequest{
		Decision: "maybe",
	})
	require.Error(t, err)

	var errs service.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, service.CodeInvalidStatus, errs[0].Code)
}

// TestVerificationService_Complete_TerminalConflict 测试终态任务拒绝再完成
func TestVerificationService_Complete_TerminalConflict(t *testing.T) {
	db := setupTestDBForVerification(t)
	svc := newVerificationService(db)

	task, err := svc.Create(context.Background(), &service.CreateVerificationTaskRequest{
		SubmissionID: 1,
		CreatedBy:    5,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(context.Background(), task.ID, "doublon"))

	err = svc.Complete(context.Background(), task.ID, &service.CompleteVerificationRequest{
		Decision: service.DecisionApproved,
	})
	require.Error(t, err)
	assert.True(t, service.IsConflict(err))
}

// TestVerificationService_SuspendResume 测试挂起与恢复
func TestVerificationService_SuspendResume(t *testing.T) {
	db := setupTestDBForVerification(t)
	svc := newVerificationService(db)

	task, err := svc.Create(context.Background(), &service.CreateVerificationTaskRequest{
		SubmissionID: 1,
		CreatedBy:    5,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Assign(context.Background(), task.ID, 5))

	require.NoError(t, svc.Suspend(context.Background(), task.ID, "attente de documents"))
	suspended, err := svc.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusSuspended, suspended.Status)

	// 已有指派人,恢复后回到 in_progress
	require.NoError(t, svc.Resume(context.Background(), task.ID, "documents reçus"))
	resumed, err := svc.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusInProgress, resumed.Status)
}

// TestVerificationService_Resume_Unassigned 测试未指派任务恢复回 pending
func TestVerificationService_Resume_Unassigned(t *testing.T) {
	db := setupTestDBForVerification(t)
	svc := newVerificationService(db)

	task, err := svc.Create(context.Background(), &service.CreateVerificationTaskRequest{
		SubmissionID: 1,
		CreatedBy:    5,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Suspend(context.Background(), task.ID, ""))
	require.NoError(t, svc.Resume(context.Background(), task.ID, ""))

	resumed, err := svc.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusPending, resumed.Status)
}

// TestVerificationService_Resume_NotSuspended 测试非挂起任务拒绝恢复
func TestVerificationService_Resume_NotSuspended(t *testing.T) {
	db := setupTestDBForVerification(t)
	svc := newVerificationService(db)

	task, err := svc.Create(context.Background(), &service.CreateVerificationTaskRequest{
		SubmissionID: 1,
		CreatedBy:    5,
	})
	require.NoError(t, err)

	err = svc.Resume(context.Background(), task.ID, "")
	require.Error(t, err)
	assert.True(t, service.IsConflict(err))
}

// TestVerificationService_Delete_HasHistory 测试有历史的任务不允许删除
func TestVerificationService_Delete_HasHistory(t *testing.T) {
	db := setupTestDBForVerification(t)
	svc := newVerificationService(db)

	// 创建即落历史,走正常流程产生的任务永远带审计轨迹
	task, err := svc.Create(context.Background(), &service.CreateVerificationTaskRequest{
		SubmissionID: 1,
		CreatedBy:    5,
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), task.ID)
	require.Error(t, err)
	assert.True(t, service.IsConflict(err))
}

// TestVerificationService_Delete_NoHistory 测试无历史的任务可删除
func TestVerificationService_Delete_NoHistory(t *testing.T) {
	db := setupTestDBForVerification(t)
	svc := newVerificationService(db)

	// 绕过服务直接落库,模拟外部导入的无历史任务
	task := &model.VerificationTaskModel{
		SubmissionID: 1,
		TaskType:     model.TaskTypeResultVerification,
		Status:       model.TaskStatusPending,
		Priority:     model.TaskPriorityNormal,
		CreatedBy:    5,
	}
	require.NoError(t, db.Create(task).Error)

	require.NoError(t, svc.Delete(context.Background(), task.ID))

	_, err := svc.Get(task.ID)
	require.Error(t, err)
	assert.True(t, service.IsNotFound(err))
}

// TestVerificationService_FinalizeVerification_Approved 测试终审通过
func TestVerificationService_FinalizeVerification_Approved(t *testing.T) {
	db := setupTestDBForVerification(t)
	svc := newVerificationService(db)

	// 提交有两条投影行,终审通过后 verified 一并翻转
	results := []*model.ResultModel{
		{PollingStationID: 1, CandidateID: 1, Votes: 300, Timestamp: time.Now()},
		{PollingStationID: 1, CandidateID: 2, Votes: 250, Timestamp: time.Now()},
	}
	require.NoError(t, db.Create(&results).Error)
	require.NoError(t, db.Create(&model.ElectionResultModel{
		CandidateID: 1, PollingStationID: 1, Votes: 300, TotalVotes: 600, SubmittedAt: time.Now(),
	}).Error)

	task, err := svc.Create(context.Background(), &service.CreateVerificationTaskRequest{
		SubmissionID: 1,
		CreatedBy:    5,
	})
	require.NoError(t, err)

	err = svc.FinalizeVerification(context.Background(), task.ID, &service.FinalizeVerificationRequest{
		Decision:   service.DecisionApproved,
		Comments:   "procès-verbal conforme",
		VerifiedBy: 5,
	})
	require.NoError(t, err)

	completed, err := svc.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusCompleted, completed.Status)
	assert.Equal(t, service.DecisionApproved, completed.Decision)

	var submission model.ResultSubmissionModel
	require.NoError(t, db.First(&submission, 1).Error)
	assert.Equal(t, model.SubmissionStatusVerified, submission.Status)
	assert.NotNil(t, submission.VerifiedAt)
	require.NotNil(t, submission.VerifiedBy)
	assert.Equal(t, 5, *submission.VerifiedBy)

	var unverified int64
	db.Model(&model.ResultModel{}).Where("polling_station_id = ? AND verified = ?", 1, false).Count(&unverified)
	assert.Equal(t, int64(0), unverified)
	db.Model(&model.ElectionResultModel{}).Where("polling_station_id = ? AND verified = ?", 1, false).Count(&unverified)
	assert.Equal(t, int64(0), unverified)
}

// TestVerificationService_FinalizeVerification_Rejected 测试终审驳回
func TestVerificationService_FinalizeVerification_Rejected(t *testing.T) {
	db := setupTestDBForVerification(t)
	svc := newVerificationService(db)

	task, err := svc.Create(context.Background(), &service.CreateVerificationTaskRequest{
		SubmissionID: 1,
		CreatedBy:    5,
	})
	require.NoError(t, err)

	err = svc.FinalizeVerification(context.Background(), task.ID, &service.FinalizeVerificationRequest{
		Decision:   service.DecisionRejected,
		Comments:   "totaux incohérents",
		VerifiedBy: 5,
	})
	require.NoError(t, err)

	var submission model.ResultSubmissionModel
	require.NoError(t, db.First(&submission, 1).Error)
	assert.Equal(t, model.SubmissionStatusRejected, submission.Status)
	assert.Nil(t, submission.VerifiedAt)
}

// TestVerificationService_FinalizeVerification_TerminalConflict 测试终态任务拒绝终审
func TestVerificationService_FinalizeVerification_TerminalConflict(t *testing.T) {
	db := setupTestDBForVerification(t)
	svc := newVerificationService(db)

	task, err := svc.Create(context.Background(), &service.CreateVerificationTaskRequest{
		SubmissionID: 1,
		CreatedBy:    5,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(context.Background(), task.ID, ""))

	err = svc.FinalizeVerification(context.Background(), task.ID, &service.FinalizeVerificationRequest{
		Decision:   service.DecisionApproved,
		VerifiedBy: 5,
	})
	require.Error(t, err)
	assert.True(t, service.IsConflict(err))
}

// TestVerificationService_List 测试按条件查询任务
func TestVerificationService_List(t *testing.T) {
	db := setupTestDBForVerification(t)
	svc := newVerificationService(db)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), &service.CreateVerificationTaskRequest{
			SubmissionID: 1,
			CreatedBy:    5,
			Priority:     model.TaskPriorityHigh,
		})
		require.NoError(t, err)
	}

	pending := model.TaskStatusPending
	tasks, err := svc.List(&repository.VerificationTaskFilter{Status: &pending})
	require.NoError(t, err)
	assert.Len(t, tasks, 3)
}
