package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mautops/election-gin/internal/metrics"
	"github.com/mautops/election-gin/internal/model"
	"github.com/mautops/election-gin/internal/repository"
	"gorm.io/gorm"
)

// 审核结论
const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// VerificationService 审核任务服务接口
type VerificationService interface {
	Create(ctx context.Context, req *CreateVerificationTaskRequest) (*model.VerificationTaskModel, error)
	Get(id int) (*model.VerificationTaskModel, error)
	List(filter *repository.VerificationTaskFilter) ([]*model.VerificationTaskModel, error)
	History(taskID int) ([]*model.VerificationHistoryModel, error)
	Assign(ctx context.Context, id int, userID int) error
	Complete(ctx context.Context, id int, req *CompleteVerificationRequest) error
	Suspend(ctx context.Context, id int, reason string) error
	Resume(ctx context.Context, id int, reason string) error
	Cancel(ctx context.Context, id int, reason string) error
	Delete(ctx context.Context, id int) error
	FinalizeVerification(ctx context.Context, taskID int, req *FinalizeVerificationRequest) error
}

// CreateVerificationTaskRequest 创建审核任务请求
// @Description 创建审核任务的请求参数
type CreateVerificationTaskRequest struct {
	SubmissionID int    `json:"submission_id" example:"1" binding:"required"` // 提交 ID
	TaskType     string `json:"task_type" example:"result_verification"`      // 任务类型
	Priority     string `json:"priority" example:"normal"`                    // 优先级
	CreatedBy    int    `json:"created_by" example:"1" binding:"required"`    // 创建人 ID
	DueDate      string `json:"due_date" example:"2026-10-12T18:00:00Z"`      // 截止时间(RFC3339)
}

// CompleteVerificationRequest 完成审核请求
// @Description 完成审核任务的请求参数
type CompleteVerificationRequest struct {
	Decision string `json:"decision" example:"approved" binding:"required"` // 审核结论 approved/rejected
	Comments string `json:"comments" example:"票数核对无误"`                      // 审核意见
}

// FinalizeVerificationRequest 终审请求
// @Description 一个事务内完成任务并落定提交状态的请求参数
type FinalizeVerificationRequest struct {
	Decision   string `json:"decision" example:"approved" binding:"required"` // 审核结论 approved/rejected
	Comments   string `json:"comments" example:"票数核对无误"`                      // 审核意见
	VerifiedBy int    `json:"verified_by" example:"1" binding:"required"`     // 审核人 ID
}

// verificationService 审核任务服务实现
type verificationService struct {
	db          *gorm.DB
	taskRepo    repository.VerificationTaskRepository
	historyRepo repository.VerificationHistoryRepository
	auditLogSvc AuditLogService
}

// NewVerificationService 创建审核任务服务
func NewVerificationService(
	db *gorm.DB,
	taskRepo repository.VerificationTaskRepository,
	historyRepo repository.VerificationHistoryRepository,
	auditLogSvc AuditLogService,
) VerificationService {
	return &verificationService{
		db:          db,
		taskRepo:    taskRepo,
		historyRepo: historyRepo,
		auditLogSvc: auditLogSvc,
	}
}

// Create 创建审核任务
// 新任务总是 pending 且未指派;复核同一提交时另建新任务,不改写已完成的
func (s *verificationService) Create(ctx context.Context, req *CreateVerificationTaskRequest) (*model.VerificationTaskModel, error) {
	var submission model.ResultSubmissionModel
	if err := s.db.Where("id = ?", req.SubmissionID).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "submission", ID: strconv.Itoa(req.SubmissionID)}
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	taskType := req.TaskType
	if taskType == "" {
		taskType = model.TaskTypeResultVerification
	}
	priority := req.Priority
	if priority == "" {
		priority = model.TaskPriorityNormal
	}

	task := &model.VerificationTaskModel{
		SubmissionID: req.SubmissionID,
		TaskType:     taskType,
		Status:       model.TaskStatusPending,
		Priority:     priority,
		CreatedBy:    req.CreatedBy,
	}
	if req.DueDate != "" {
		due, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			return nil, ValidationErrors{{
				Field:   "due_date",
				Code:    CodeMissingField,
				Message: "due date must be RFC3339 formatted",
			}}
		}
		task.DueDate = &due
	}
	if err := task.Validate(); err != nil {
		return nil, ValidationErrors{{
			Field:   "task",
			Code:    CodeMissingField,
			Message: err.Error(),
		}}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return fmt.Errorf("failed to create verification task: %w", err)
		}
		return appendHistory(tx, task.ID, "", model.TaskStatusPending, "created", req.CreatedBy, "")
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordVerificationTaskCreated()

	if s.auditLogSvc != nil {
		userID := getUserIDFromContext(ctx)
		if userID != "" {
			details := fmt.Sprintf(`{"task_id":%d,"submission_id":%d}`, task.ID, task.SubmissionID)
			_ = s.auditLogSvc.RecordAction(ctx, userID, "create", "verification_task", strconv.Itoa(task.ID), details)
		}
	}

	return task, nil
}

// Get 获取审核任务详情
func (s *verificationService) Get(id int) (*model.VerificationTaskModel, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "verification task", ID: strconv.Itoa(id)}
		}
		return nil, fmt.Errorf("failed to get verification task: %w", err)
	}
	return task, nil
}

// List 按条件查询审核任务
func (s *verificationService) List(filter *repository.VerificationTaskFilter) ([]*model.VerificationTaskModel, error) {
	return s.taskRepo.FindByFilter(filter)
}

// History 获取任务的审核历史
func (s *verificationService) History(taskID int) ([]*model.VerificationHistoryModel, error) {
	if _, err := s.Get(taskID); err != nil {
		return nil, err
	}
	return s.historyRepo.FindByTaskID(taskID)
}

// Assign 指派审核任务
// 被指派人必须存在;任务从 pending 进入 in_progress,in_progress 允许改派;
// 挂起的任务先走 Resume,不能借指派绕过
func (s *verificationService) Assign(ctx context.Context, id int, userID int) error {
	var user model.UserModel
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "user", ID: strconv.Itoa(userID)}
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	err := s.transition(id, func(task *model.VerificationTaskModel) (string, error) {
		if task.Status != model.TaskStatusPending && task.Status != model.TaskStatusInProgress {
			return "", &ConflictError{
				Reason:  ConflictTaskTerminal,
				Message: fmt.Sprintf("task %d cannot be assigned from status %s", task.ID, task.Status),
			}
		}
		now := time.Now()
		task.AssignedTo = &userID
		task.Status = model.TaskStatusInProgress
		if task.StartedAt == nil {
			task.StartedAt = &now
		}
		return "assigned", nil
	}, userID, "")
	if err != nil {
		return err
	}

	if s.auditLogSvc != nil {
		actorID := getUserIDFromContext(ctx)
		if actorID != "" {
			details := fmt.Sprintf(`{"task_id":%d,"assigned_to":%d}`, id, userID)
			_ = s.auditLogSvc.RecordAction(ctx, actorID, "assign", "verification_task", strconv.Itoa(id), details)
		}
	}

	return nil
}

// Complete 完成审核任务
// 只允许从 pending 或 in_progress 完成
func (s *verificationService) Complete(ctx context.Context, id int, req *CompleteVerificationRequest) error {
	if req.Decision != DecisionApproved && req.Decision != DecisionRejected {
		return ValidationErrors{{
			Field:   "decision",
			Code:    CodeInvalidStatus,
			Message: "decision must be approved or rejected",
		}}
	}

	actor := actorIDFromContext(ctx)
	err := s.transition(id, func(task *model.VerificationTaskModel) (string, error) {
		if task.Status != model.TaskStatusPending && task.Status != model.TaskStatusInProgress {
			return "", &ConflictError{
				Reason:  ConflictTaskTerminal,
				Message: fmt.Sprintf("task %d cannot be completed from status %s", task.ID, task.Status),
			}
		}
		now := time.Now()
		task.Status = model.TaskStatusCompleted
		task.CompletedAt = &now
		task.Decision = req.Decision
		if req.Comments != "" {
			task.Comments = req.Comments
		}
		return "completed", nil
	}, actor, req.Comments)
	if err != nil {
		return err
	}

	metrics.RecordVerificationTaskCompleted(req.Decision)

	if s.auditLogSvc != nil {
		userID := getUserIDFromContext(ctx)
		if userID != "" {
			details := fmt.Sprintf(`{"task_id":%d,"decision":"%s"}`, id, req.Decision)
			_ = s.auditLogSvc.RecordAction(ctx, userID, "complete", "verification_task", strconv.Itoa(id), details)
		}
	}

	return nil
}

// Suspend 挂起审核任务
func (s *verificationService) Suspend(ctx context.Context, id int, reason string) error {
	actor := actorIDFromContext(ctx)
	return s.transition(id, func(task *model.VerificationTaskModel) (string, error) {
		if task.IsTerminal() {
			return "", &ConflictError{
				Reason:  ConflictTaskTerminal,
				Message: fmt.Sprintf("task %d is in terminal status %s", task.ID, task.Status),
			}
		}
		task.Status = model.TaskStatusSuspended
		return "suspended", nil
	}, actor, reason)
}

// Resume 恢复挂起的审核任务
// 已有指派人的回到 in_progress,否则回到 pending
func (s *verificationService) Resume(ctx context.Context, id int, reason string) error {
	actor := actorIDFromContext(ctx)
	return s.transition(id, func(task *model.VerificationTaskModel) (string, error) {
		if task.Status != model.TaskStatusSuspended {
			return "", &ConflictError{
				Reason:  ConflictTaskTerminal,
				Message: fmt.Sprintf("task %d is not suspended", task.ID),
			}
		}
		if task.AssignedTo != nil {
			task.Status = model.TaskStatusInProgress
		} else {
			task.Status = model.TaskStatusPending
		}
		return "resumed", nil
	}, actor, reason)
}

// Cancel 取消审核任务
func (s *verificationService) Cancel(ctx context.Context, id int, reason string) error {
	actor := actorIDFromContext(ctx)
	return s.transition(id, func(task *model.VerificationTaskModel) (string, error) {
		if task.IsTerminal() {
			return "", &ConflictError{
				Reason:  ConflictTaskTerminal,
				Message: fmt.Sprintf("task %d is in terminal status %s", task.ID, task.Status),
			}
		}
		task.Status = model.TaskStatusCancelled
		return "cancelled", nil
	}, actor, reason)
}

// Delete 删除审核任务
// 有审核历史的任务不允许删除,保住审计轨迹
func (s *verificationService) Delete(ctx context.Context, id int) error {
	task, err := s.Get(id)
	if err != nil {
		return err
	}

	count, err := s.historyRepo.CountByTaskID(id)
	if err != nil {
		return fmt.Errorf("failed to count task history: %w", err)
	}
	if count > 0 {
		return &ConflictError{
			Reason:  ConflictHasHistory,
			Message: fmt.Sprintf("task %d has %d history entries and cannot be deleted", id, count),
		}
	}

	if err := s.taskRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete verification task: %w", err)
	}

	if s.auditLogSvc != nil {
		userID := getUserIDFromContext(ctx)
		if userID != "" {
			details := fmt.Sprintf(`{"task_id":%d,"submission_id":%d}`, task.ID, task.SubmissionID)
			_ = s.auditLogSvc.RecordAction(ctx, userID, "delete", "verification_task", strconv.Itoa(id), details)
		}
	}

	return nil
}

// FinalizeVerification 终审
// 完成任务和落定提交状态在一个事务内,避免两步之间出现可见的中间态
func (s *verificationService) FinalizeVerification(ctx context.Context, taskID int, req *FinalizeVerificationRequest) error {
	if req.Decision != DecisionApproved && req.Decision != DecisionRejected {
		return ValidationErrors{{
			Field:   "decision",
			Code:    CodeInvalidStatus,
			Message: "decision must be approved or rejected",
		}}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var task model.VerificationTaskModel
		if err := tx.Where("id = ?", taskID).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "verification task", ID: strconv.Itoa(taskID)}
			}
			return fmt.Errorf("failed to get verification task: %w", err)
		}
		if task.Status != model.TaskStatusPending && task.Status != model.TaskStatusInProgress {
			return &ConflictError{
				Reason:  ConflictTaskTerminal,
				Message: fmt.Sprintf("task %d cannot be completed from status %s", task.ID, task.Status),
			}
		}

		fromStatus := task.Status
		now := time.Now()
		task.Status = model.TaskStatusCompleted
		task.CompletedAt = &now
		task.Decision = req.Decision
		if req.Comments != "" {
			task.Comments = req.Comments
		}
		if err := tx.Save(&task).Error; err != nil {
			return fmt.Errorf("failed to save verification task: %w", err)
		}
		if err := appendHistory(tx, task.ID, fromStatus, task.Status, "completed", req.VerifiedBy, req.Comments); err != nil {
			return err
		}

		submissionStatus := model.SubmissionStatusVerified
		if req.Decision == DecisionRejected {
			submissionStatus = model.SubmissionStatusRejected
		}
		return applySubmissionStatus(tx, task.SubmissionID, submissionStatus, req.VerifiedBy)
	})
	if err != nil {
		return translateDBError(err)
	}

	metrics.RecordVerificationTaskCompleted(req.Decision)

	if s.auditLogSvc != nil {
		userID := getUserIDFromContext(ctx)
		if userID != "" {
			details := fmt.Sprintf(`{"task_id":%d,"decision":"%s"}`, taskID, req.Decision)
			_ = s.auditLogSvc.RecordAction(ctx, userID, "finalize", "verification_task", strconv.Itoa(taskID), details)
		}
	}

	return nil
}

// transition 执行一次任务状态流转
// 状态变更与历史追加同一事务,历史只增不改
func (s *verificationService) transition(id int, mutate func(*model.VerificationTaskModel) (string, error), actorID int, comments string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var task model.VerificationTaskModel
		if err := tx.Where("id = ?", id).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "verification task", ID: strconv.Itoa(id)}
			}
			return fmt.Errorf("failed to get verification task: %w", err)
		}

		fromStatus := task.Status
		action, err := mutate(&task)
		if err != nil {
			return err
		}

		if err := tx.Save(&task).Error; err != nil {
			return fmt.Errorf("failed to save verification task: %w", err)
		}
		return appendHistory(tx, task.ID, fromStatus, task.Status, action, actorID, comments)
	})
}

// appendHistory 追加一条审核历史
func appendHistory(tx *gorm.DB, taskID int, fromStatus, toStatus, action string, actorID int, comments string) error {
	history := &model.VerificationHistoryModel{
		TaskID:     taskID,
		FromStatus: fromStatus,
		ToStatus:   toStatus,
		Action:     action,
		ActorID:    actorID,
		Comments:   comments,
		CreatedAt:  time.Now(),
	}
	if err := tx.Create(history).Error; err != nil {
		return fmt.Errorf("failed to append verification history: %w", err)
	}
	return nil
}

// actorIDFromContext 从 context 解析操作人数字 ID
func actorIDFromContext(ctx context.Context) int {
	userID := getUserIDFromContext(ctx)
	if userID == "" {
		return 0
	}
	id, err := strconv.Atoi(userID)
	if err != nil {
		return 0
	}
	return id
}
