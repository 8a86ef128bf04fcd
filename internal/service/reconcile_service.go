package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mautops/election-gin/internal/metrics"
	"github.com/mautops/election-gin/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReconcileService 提交对账服务接口
// 接收投票站计票,校验后同步写入提交、明细和两张投影表
type ReconcileService interface {
	Reconcile(ctx context.Context, req *ReconcileRequest) (*model.ResultSubmissionModel, error)
}

// CandidateVotes 单候选人票数
// @Description 候选人票数条目
type CandidateVotes struct {
	CandidateID int `json:"candidate_id" example:"1" binding:"required"` // 候选人 ID
	Votes       int `json:"votes" example:"300"`                        // 票数
}

// ReconcileRequest 对账请求
// @Description 提交投票站计票的请求参数
type ReconcileRequest struct {
	PollingStationID int              `json:"polling_station_id" example:"1" binding:"required"` // 投票站 ID
	SubmittedBy      int              `json:"submitted_by" example:"1" binding:"required"`       // 提交人 ID
	SubmissionType   string           `json:"submission_type" example:"final"`                   // 提交类型
	TotalVotes       int              `json:"total_votes" example:"600"`                         // 总票数
	BlankVotes       int              `json:"blank_votes" example:"30"`                          // 空白票
	NullVotes        int              `json:"null_votes" example:"20"`                           // 无效票
	Notes            string           `json:"notes" example:"备注"`                                // 备注
	CandidateVotes   []CandidateVotes `json:"candidate_votes"`                                   // 各候选人票数
}

// reconcileService 提交对账服务实现
type reconcileService struct {
	db          *gorm.DB
	auditLogSvc AuditLogService
}

// NewReconcileService 创建提交对账服务
func NewReconcileService(db *gorm.DB, auditLogSvc AuditLogService) ReconcileService {
	return &reconcileService{db: db, auditLogSvc: auditLogSvc}
}

// Reconcile 对账并落库
// 全部校验通过前不产生任何写入;写入阶段在单事务内完成
func (s *reconcileService) Reconcile(ctx context.Context, req *ReconcileRequest) (*model.ResultSubmissionModel, error) {
	station, err := findStation(s.db, req.PollingStationID)
	if err != nil {
		return nil, err
	}

	if errs := validateTally(req, station.RegisteredVoters); len(errs) > 0 {
		return nil, errs
	}

	if err := validateCandidates(s.db, req.CandidateVotes); err != nil {
		return nil, err
	}

	var submission *model.ResultSubmissionModel
	err = s.db.Transaction(func(tx *gorm.DB) error {
		locked, err := lockStation(tx, req.PollingStationID)
		if err != nil {
			return err
		}

		submission, err = upsertSubmission(tx, locked, req, model.SubmissionStatusSubmitted)
		if err != nil {
			return err
		}

		if err := replaceDetails(tx, submission, req.CandidateVotes); err != nil {
			return err
		}

		if err := syncProjections(tx, submission, req.CandidateVotes); err != nil {
			return err
		}

		if err := refreshStation(tx, locked, submission); err != nil {
			return err
		}

		return refreshCandidateTotals(tx, req.CandidateVotes)
	})
	if err != nil {
		return nil, translateDBError(err)
	}

	metrics.RecordSubmissionProcessed(submission.Status)

	if s.auditLogSvc != nil {
		userID := getUserIDFromContext(ctx)
		if userID != "" {
			details := fmt.Sprintf(`{"submission_id":%d,"polling_station_id":%d,"total_votes":%d}`,
				submission.ID, submission.PollingStationID, submission.TotalVotes)
			_ = s.auditLogSvc.RecordAction(ctx, userID, "reconcile", "submission", strconv.Itoa(submission.ID), details)
		}
	}

	return submission, nil
}

// findStation 查找投票站
func findStation(db *gorm.DB, stationID int) (*model.PollingStationModel, error) {
	var station model.PollingStationModel
	if err := db.Where("id = ?", stationID).First(&station).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "polling station", ID: strconv.Itoa(stationID)}
		}
		return nil, fmt.Errorf("failed to get polling station: %w", err)
	}
	return &station, nil
}

// validateTally 校验计票数字
// 返回全部校验问题,不在第一个错误处截断
func validateTally(req *ReconcileRequest, registeredVoters int) ValidationErrors {
	var errs ValidationErrors

	if req.SubmittedBy == 0 {
		errs = append(errs, &ValidationError{
			Field:   "submitted_by",
			Code:    CodeMissingField,
			Message: "submitted by is required",
		})
	}
	if req.TotalVotes < 0 {
		errs = append(errs, &ValidationError{
			Field:   "total_votes",
			Code:    CodeNegativeVotes,
			Message: "total votes cannot be negative",
		})
	}
	if req.BlankVotes < 0 {
		errs = append(errs, &ValidationError{
			Field:   "blank_votes",
			Code:    CodeNegativeVotes,
			Message: "blank votes cannot be negative",
		})
	}
	if req.NullVotes < 0 {
		errs = append(errs, &ValidationError{
			Field:   "null_votes",
			Code:    CodeNegativeVotes,
			Message: "null votes cannot be negative",
		})
	}

	candidateSum := 0
	for _, cv := range req.CandidateVotes {
		if cv.Votes < 0 {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("candidate_votes[%d]", cv.CandidateID),
				Code:    CodeNegativeVotes,
				Message: fmt.Sprintf("votes for candidate %d cannot be negative", cv.CandidateID),
			})
			continue
		}
		candidateSum += cv.Votes
	}

	if req.TotalVotes > registeredVoters {
		errs = append(errs, &ValidationError{
			Field:   "total_votes",
			Code:    CodeVotesExceedRegistered,
			Message: fmt.Sprintf("total votes %d exceed registered voters %d", req.TotalVotes, registeredVoters),
		})
	}

	// 核心对账不变式:候选人票数 + 空白票 + 无效票 == 总票数
	if len(errs) == 0 && candidateSum+req.BlankVotes+req.NullVotes != req.TotalVotes {
		errs = append(errs, &ValidationError{
			Field:   "total_votes",
			Code:    CodeVoteSumMismatch,
			Message: fmt.Sprintf("candidate votes %d + blank %d + null %d do not equal total %d",
				candidateSum, req.BlankVotes, req.NullVotes, req.TotalVotes),
		})
	}

	return errs
}

// validateCandidates 校验候选人存在且在选
func validateCandidates(db *gorm.DB, votes []CandidateVotes) error {
	if len(votes) == 0 {
		return nil
	}

	ids := make([]int, 0, len(votes))
	for _, cv := range votes {
		ids = append(ids, cv.CandidateID)
	}

	var count int64
	if err := db.Model(&model.CandidateModel{}).
		Where("id IN ? AND is_active = ?", ids, true).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check candidates: %w", err)
	}
	if int(count) != len(ids) {
		return ValidationErrors{{
			Field:   "candidate_votes",
			Code:    CodeUnknownCandidate,
			Message: "one or more candidates do not exist or are inactive",
		}}
	}
	return nil
}

// lockStation 锁定投票站行
// 同一投票站的对账必须串行,postgres 用行锁,sqlite 事务本身已互斥
func lockStation(tx *gorm.DB, stationID int) (*model.PollingStationModel, error) {
	query := tx
	if tx.Dialector.Name() == "postgres" {
		query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var station model.PollingStationModel
	if err := query.Where("id = ?", stationID).First(&station).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "polling station", ID: strconv.Itoa(stationID)}
		}
		return nil, fmt.Errorf("failed to lock polling station: %w", err)
	}
	return &station, nil
}

// upsertSubmission 创建或原地更新投票站的提交
// 已审核的提交拒绝覆盖
func upsertSubmission(tx *gorm.DB, station *model.PollingStationModel, req *ReconcileRequest, status string) (*model.ResultSubmissionModel, error) {
	now := time.Now()

	submissionType := req.SubmissionType
	if submissionType == "" {
		submissionType = model.SubmissionTypeFinal
	}

	var submission model.ResultSubmissionModel
	err := tx.Where("polling_station_id = ?", station.ID).First(&submission).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to get submission: %w", err)
		}
		submission = model.ResultSubmissionModel{
			PollingStationID: station.ID,
		}
	}

	if submission.IsVerified() {
		return nil, &ConflictError{
			Reason:  ConflictSubmissionVerified,
			Message: fmt.Sprintf("submission for polling station %d is already verified", station.ID),
		}
	}

	submission.SubmittedBy = req.SubmittedBy
	submission.SubmissionType = submissionType
	submission.TotalVotes = req.TotalVotes
	submission.RegisteredVoters = station.RegisteredVoters
	submission.BlankVotes = req.BlankVotes
	submission.NullVotes = req.NullVotes
	submission.Notes = req.Notes
	submission.Status = status
	submission.SubmittedAt = now
	submission.ComputeTurnout()

	if err := tx.Save(&submission).Error; err != nil {
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}
	return &submission, nil
}

// replaceDetails 整体替换提交明细
// 先全删后插,零票候选人不落行
func replaceDetails(tx *gorm.DB, submission *model.ResultSubmissionModel, votes []CandidateVotes) error {
	if err := tx.Delete(&model.ResultSubmissionDetailModel{}, "submission_id = ?", submission.ID).Error; err != nil {
		return fmt.Errorf("failed to delete submission details: %w", err)
	}

	details := make([]*model.ResultSubmissionDetailModel, 0, len(votes))
	for _, cv := range votes {
		if cv.Votes <= 0 {
			continue
		}
		details = append(details, &model.ResultSubmissionDetailModel{
			SubmissionID: submission.ID,
			CandidateID:  cv.CandidateID,
			Votes:        cv.Votes,
			Percentage:   votePercentage(cv.Votes, submission.TotalVotes),
		})
	}
	if len(details) == 0 {
		return nil
	}
	if err := tx.Create(&details).Error; err != nil {
		return fmt.Errorf("failed to insert submission details: %w", err)
	}
	return nil
}

// syncProjections 同步两张投影表
// Result 和 ElectionResult 都从同一份票数生成,从不各写各的;
// 归零或缺席的候选人在两张表里的陈旧行一并清除
func syncProjections(tx *gorm.DB, submission *model.ResultSubmissionModel, votes []CandidateVotes) error {
	now := time.Now()
	kept := make([]int, 0, len(votes))

	for _, cv := range votes {
		if cv.Votes <= 0 {
			continue
		}
		kept = append(kept, cv.CandidateID)

		result := model.ResultModel{
			PollingStationID: submission.PollingStationID,
			CandidateID:      cv.CandidateID,
			Votes:            cv.Votes,
			Timestamp:        now,
			SubmittedBy:      &submission.SubmittedBy,
			Verified:         false,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "polling_station_id"}, {Name: "candidate_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"votes", "timestamp", "submitted_by", "verified", "updated_at",
			}),
		}).Create(&result).Error; err != nil {
			return fmt.Errorf("failed to upsert result: %w", err)
		}

		electionResult := model.ElectionResultModel{
			CandidateID:      cv.CandidateID,
			PollingStationID: submission.PollingStationID,
			Votes:            cv.Votes,
			Percentage:       votePercentage(cv.Votes, submission.TotalVotes),
			TotalVotes:       submission.TotalVotes,
			SubmittedAt:      now,
			Verified:         false,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "candidate_id"}, {Name: "polling_station_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"votes", "percentage", "total_votes", "submitted_at", "verified", "updated_at",
			}),
		}).Create(&electionResult).Error; err != nil {
			return fmt.Errorf("failed to upsert election result: %w", err)
		}
	}

	staleResults := tx.Where("polling_station_id = ?", submission.PollingStationID)
	staleElection := tx.Where("polling_station_id = ?", submission.PollingStationID)
	if len(kept) > 0 {
		staleResults = staleResults.Where("candidate_id NOT IN ?", kept)
		staleElection = staleElection.Where("candidate_id NOT IN ?", kept)
	}
	if err := staleResults.Delete(&model.ResultModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete stale results: %w", err)
	}
	if err := staleElection.Delete(&model.ElectionResultModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete stale election results: %w", err)
	}
	return nil
}

// refreshStation 回写投票站的提交票数和参与率
func refreshStation(tx *gorm.DB, station *model.PollingStationModel, submission *model.ResultSubmissionModel) error {
	now := time.Now()
	station.VotesSubmitted = submission.TotalVotes
	station.ComputeTurnout()
	station.Status = model.StationStatusReporting
	station.LastUpdate = &now

	if err := tx.Save(station).Error; err != nil {
		return fmt.Errorf("failed to update polling station: %w", err)
	}
	return nil
}

// refreshCandidateTotals 重算涉及候选人的累计票数
func refreshCandidateTotals(tx *gorm.DB, votes []CandidateVotes) error {
	for _, cv := range votes {
		var total int64
		if err := tx.Model(&model.ResultModel{}).
			Where("candidate_id = ?", cv.CandidateID).
			Select("COALESCE(SUM(votes), 0)").
			Scan(&total).Error; err != nil {
			return fmt.Errorf("failed to sum candidate votes: %w", err)
		}
		if err := tx.Model(&model.CandidateModel{}).
			Where("id = ?", cv.CandidateID).
			Update("total_votes", total).Error; err != nil {
			return fmt.Errorf("failed to update candidate total: %w", err)
		}
	}
	return nil
}

// votePercentage 计算票数占比
func votePercentage(votes, totalVotes int) float64 {
	if totalVotes <= 0 {
		return 0
	}
	return float64(votes) / float64(totalVotes) * 100
}

// translateDBError 把存储层错误翻译成业务错误
func translateDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &ConflictError{
			Reason:  ConflictStaleSubmission,
			Message: "submission changed concurrently, reload and retry",
		}
	}
	return err
}
