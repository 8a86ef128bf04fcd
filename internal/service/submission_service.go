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

// SubmissionService 结果提交服务接口
type SubmissionService interface {
	Get(id int) (*model.ResultSubmissionModel, error)
	GetByStation(stationID int) (*model.ResultSubmissionModel, error)
	List(filter *repository.SubmissionFilter) ([]*model.ResultSubmissionModel, error)
	Details(id int) ([]*model.ResultSubmissionDetailModel, error)
	ChangeStatus(ctx context.Context, id int, req *ChangeStatusRequest) error
	Delete(ctx context.Context, id int) error
}

// ChangeStatusRequest 提交状态变更请求
// @Description 落定提交状态的请求参数
type ChangeStatusRequest struct {
	Status     string `json:"status" example:"verified" binding:"required"` // 目标状态 verified/rejected
	VerifiedBy int    `json:"verified_by" example:"1"`                      // 审核人 ID
}

// submissionService 结果提交服务实现
type submissionService struct {
	db             *gorm.DB
	submissionRepo repository.SubmissionRepository
	detailRepo     repository.SubmissionDetailRepository
	auditLogSvc    AuditLogService
}

// NewSubmissionService 创建结果提交服务
func NewSubmissionService(
	db *gorm.DB,
	submissionRepo repository.SubmissionRepository,
	detailRepo repository.SubmissionDetailRepository,
	auditLogSvc AuditLogService,
) SubmissionService {
	return &submissionService{
		db:             db,
		submissionRepo: submissionRepo,
		detailRepo:     detailRepo,
		auditLogSvc:    auditLogSvc,
	}
}

// Get 获取提交详情
func (s *submissionService) Get(id int) (*model.ResultSubmissionModel, error) {
	submission, err := s.submissionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "submission", ID: strconv.Itoa(id)}
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return submission, nil
}

// GetByStation 获取投票站的提交
func (s *submissionService) GetByStation(stationID int) (*model.ResultSubmissionModel, error) {
	submission, err := s.submissionRepo.FindByStationID(stationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "submission for polling station", ID: strconv.Itoa(stationID)}
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return submission, nil
}

// List 按条件查询提交
func (s *submissionService) List(filter *repository.SubmissionFilter) ([]*model.ResultSubmissionModel, error) {
	return s.submissionRepo.FindByFilter(filter)
}

// Details 获取提交的候选人明细
func (s *submissionService) Details(id int) ([]*model.ResultSubmissionDetailModel, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	return s.detailRepo.FindBySubmissionID(id)
}

// ChangeStatus 落定提交状态
// verified 时同一事务内把两张投影表的 verified 标记一并翻转
func (s *submissionService) ChangeStatus(ctx context.Context, id int, req *ChangeStatusRequest) error {
	switch req.Status {
	case model.SubmissionStatusVerified, model.SubmissionStatusRejected:
	default:
		return ValidationErrors{{
			Field:   "status",
			Code:    CodeInvalidStatus,
			Message: "status must be verified or rejected",
		}}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return applySubmissionStatus(tx, id, req.Status, req.VerifiedBy)
	})
	if err != nil {
		return translateDBError(err)
	}

	metrics.RecordSubmissionProcessed(req.Status)

	if s.auditLogSvc != nil {
		userID := getUserIDFromContext(ctx)
		if userID != "" {
			details := fmt.Sprintf(`{"submission_id":%d,"status":"%s"}`, id, req.Status)
			_ = s.auditLogSvc.RecordAction(ctx, userID, "change_status", "submission", strconv.Itoa(id), details)
		}
	}

	return nil
}

// Delete 删除提交
// 已审核的提交不允许删除;删除时明细和两张投影一起清掉,站点计数回零
func (s *submissionService) Delete(ctx context.Context, id int) error {
	submission, err := s.Get(id)
	if err != nil {
		return err
	}
	if submission.IsVerified() {
		return &ConflictError{
			Reason:  ConflictSubmissionVerified,
			Message: fmt.Sprintf("submission %d is verified and cannot be deleted", id),
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.ResultSubmissionDetailModel{}, "submission_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete submission details: %w", err)
		}
		if err := tx.Delete(&model.ResultModel{}, "polling_station_id = ?", submission.PollingStationID).Error; err != nil {
			return fmt.Errorf("failed to delete results: %w", err)
		}
		if err := tx.Delete(&model.ElectionResultModel{}, "polling_station_id = ?", submission.PollingStationID).Error; err != nil {
			return fmt.Errorf("failed to delete election results: %w", err)
		}
		if err := tx.Delete(&model.ResultSubmissionModel{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete submission: %w", err)
		}

		return tx.Model(&model.PollingStationModel{}).
			Where("id = ?", submission.PollingStationID).
			Updates(map[string]interface{}{
				"votes_submitted": 0,
				"turnout_rate":    0,
				"status":          model.StationStatusClosed,
			}).Error
	})
	if err != nil {
		return translateDBError(err)
	}

	if s.auditLogSvc != nil {
		userID := getUserIDFromContext(ctx)
		if userID != "" {
			details := fmt.Sprintf(`{"submission_id":%d,"polling_station_id":%d}`, id, submission.PollingStationID)
			_ = s.auditLogSvc.RecordAction(ctx, userID, "delete", "submission", strconv.Itoa(id), details)
		}
	}

	return nil
}

// applySubmissionStatus 落定提交状态的共享写入路径
// ChangeStatus 和 FinalizeVerification 都走这里,不重复实现;
// 只有 submitted 可以落定,已审核的不可改判,草稿不能跳过提交直接审核;
// 被驳回后需要重新对账回到 submitted 才能再审
func applySubmissionStatus(tx *gorm.DB, submissionID int, status string, verifiedBy int) error {
	var submission model.ResultSubmissionModel
	if err := tx.Where("id = ?", submissionID).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "submission", ID: strconv.Itoa(submissionID)}
		}
		return fmt.Errorf("failed to get submission: %w", err)
	}

	if submission.Status != model.SubmissionStatusSubmitted {
		reason := ConflictSubmissionNotSubmitted
		if submission.IsVerified() {
			reason = ConflictSubmissionVerified
		}
		return &ConflictError{
			Reason:  reason,
			Message: fmt.Sprintf("submission %d cannot change status from %s to %s", submissionID, submission.Status, status),
		}
	}

	submission.Status = status
	if status == model.SubmissionStatusVerified {
		now := time.Now()
		submission.VerifiedAt = &now
		if verifiedBy != 0 {
			submission.VerifiedBy = &verifiedBy
		}
	}
	if err := tx.Save(&submission).Error; err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}

	verified := status == model.SubmissionStatusVerified
	if err := tx.Model(&model.ResultModel{}).
		Where("polling_station_id = ?", submission.PollingStationID).
		Update("verified", verified).Error; err != nil {
		return fmt.Errorf("failed to update result verified flags: %w", err)
	}
	if err := tx.Model(&model.ElectionResultModel{}).
		Where("polling_station_id = ?", submission.PollingStationID).
		Update("verified", verified).Error; err != nil {
		return fmt.Errorf("failed to update election result verified flags: %w", err)
	}
	return nil
}
