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
)

// TwoStepService 两步提交服务接口
// 第一步登记总票数形成草稿,第二步录入各候选人票数后定稿
type TwoStepService interface {
	SubmitTotals(ctx context.Context, req *SubmitTotalsRequest) (*model.ResultSubmissionModel, error)
	SubmitCandidateVotes(ctx context.Context, req *SubmitCandidateVotesRequest) (*model.ResultSubmissionModel, error)
	ResumeDraft(ctx context.Context, submissionID int) (*DraftState, error)
}

// SubmitTotalsRequest 第一步请求
// @Description 登记投票站总票数的请求参数
type SubmitTotalsRequest struct {
	PollingStationID int    `json:"polling_station_id" example:"1" binding:"required"` // 投票站 ID
	SubmittedBy      int    `json:"submitted_by" example:"1" binding:"required"`       // 提交人 ID
	SubmissionType   string `json:"submission_type" example:"final"`                   // 提交类型
	TotalVotes       int    `json:"total_votes" example:"600"`                         // 总票数
	BlankVotes       int    `json:"blank_votes" example:"30"`                          // 空白票
	NullVotes        int    `json:"null_votes" example:"20"`                           // 无效票
	Notes            string `json:"notes" example:"备注"`                                // 备注
}

// SubmitCandidateVotesRequest 第二步请求
// @Description 录入各候选人票数的请求参数
type SubmitCandidateVotesRequest struct {
	SubmissionID   int              `json:"submission_id" example:"1" binding:"required"` // 第一步返回的提交 ID
	CandidateVotes []CandidateVotes `json:"candidate_votes" binding:"required"`           // 各候选人票数
}

// DraftState 草稿恢复快照
// @Description 恢复进行中提交时返回的草稿状态
type DraftState struct {
	Submission     *model.ResultSubmissionModel `json:"submission"`      // 第一步字段
	CandidateVotes []CandidateVotes             `json:"candidate_votes"` // 第二步票数,未录入的在选候选人默认 0 票
}

// twoStepService 两步提交服务实现
type twoStepService struct {
	db          *gorm.DB
	auditLogSvc AuditLogService
}

// NewTwoStepService 创建两步提交服务
func NewTwoStepService(db *gorm.DB, auditLogSvc AuditLogService) TwoStepService {
	return &twoStepService{db: db, auditLogSvc: auditLogSvc}
}

// SubmitTotals 第一步:登记总票数
// 只写提交本体,不碰明细和投影表
func (s *twoStepService) SubmitTotals(ctx context.Context, req *SubmitTotalsRequest) (*model.ResultSubmissionModel, error) {
	station, err := findStation(s.db, req.PollingStationID)
	if err != nil {
		return nil, err
	}

	totalsReq := &ReconcileRequest{
		PollingStationID: req.PollingStationID,
		SubmittedBy:      req.SubmittedBy,
		SubmissionType:   req.SubmissionType,
		TotalVotes:       req.TotalVotes,
		BlankVotes:       req.BlankVotes,
		NullVotes:        req.NullVotes,
		Notes:            req.Notes,
	}

	var errs ValidationErrors
	for _, ve := range validateTally(totalsReq, station.RegisteredVoters) {
		// 第一步还没有候选人票数,总和校验留到第二步
		if ve.Code == CodeVoteSumMismatch {
			continue
		}
		errs = append(errs, ve)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	var submission *model.ResultSubmissionModel
	err = s.db.Transaction(func(tx *gorm.DB) error {
		locked, err := lockStation(tx, req.PollingStationID)
		if err != nil {
			return err
		}
		submission, err = upsertSubmission(tx, locked, totalsReq, model.SubmissionStatusDraft)
		return err
	})
	if err != nil {
		return nil, translateDBError(err)
	}

	if s.auditLogSvc != nil {
		userID := getUserIDFromContext(ctx)
		if userID != "" {
			details := fmt.Sprintf(`{"submission_id":%d,"polling_station_id":%d,"total_votes":%d}`,
				submission.ID, submission.PollingStationID, submission.TotalVotes)
			_ = s.auditLogSvc.RecordAction(ctx, userID, "submit_totals", "submission", strconv.Itoa(submission.ID), details)
		}
	}

	return submission, nil
}

// SubmitCandidateVotes 第二步:录入候选人票数并定稿
// 总和不变式在提交时重新校验,两步之间总票数被改动也能拦住
func (s *twoStepService) SubmitCandidateVotes(ctx context.Context, req *SubmitCandidateVotesRequest) (*model.ResultSubmissionModel, error) {
	if err := validateCandidates(s.db, req.CandidateVotes); err != nil {
		return nil, err
	}

	var submission *model.ResultSubmissionModel
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.ResultSubmissionModel
		if err := tx.Where("id = ?", req.SubmissionID).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "submission", ID: strconv.Itoa(req.SubmissionID)}
			}
			return fmt.Errorf("failed to get submission: %w", err)
		}

		locked, err := lockStation(tx, existing.PollingStationID)
		if err != nil {
			return err
		}

		// 站点行锁之后重读,拿到的才是当前草稿
		if err := tx.Where("id = ?", req.SubmissionID).First(&existing).Error; err != nil {
			return fmt.Errorf("failed to reload submission: %w", err)
		}

		if existing.IsVerified() {
			return &ConflictError{
				Reason:  ConflictSubmissionVerified,
				Message: fmt.Sprintf("submission %d is already verified", existing.ID),
			}
		}

		if errs := checkStepTwoInvariant(&existing, req.CandidateVotes); len(errs) > 0 {
			return errs
		}

		now := time.Now()
		existing.Status = model.SubmissionStatusSubmitted
		existing.SubmittedAt = now
		existing.ComputeTurnout()
		if err := tx.Save(&existing).Error; err != nil {
			return fmt.Errorf("failed to save submission: %w", err)
		}

		if err := replaceDetails(tx, &existing, req.CandidateVotes); err != nil {
			return err
		}
		if err := syncProjections(tx, &existing, req.CandidateVotes); err != nil {
			return err
		}
		if err := refreshStation(tx, locked, &existing); err != nil {
			return err
		}
		if err := refreshCandidateTotals(tx, req.CandidateVotes); err != nil {
			return err
		}

		submission = &existing
		return nil
	})
	if err != nil {
		return nil, translateDBError(err)
	}

	metrics.RecordSubmissionProcessed(submission.Status)

	if s.auditLogSvc != nil {
		userID := getUserIDFromContext(ctx)
		if userID != "" {
			details := fmt.Sprintf(`{"submission_id":%d,"candidates":%d}`, submission.ID, len(req.CandidateVotes))
			_ = s.auditLogSvc.RecordAction(ctx, userID, "submit_candidate_votes", "submission", strconv.Itoa(submission.ID), details)
		}
	}

	return submission, nil
}

// ResumeDraft 恢复进行中的草稿
// 第一步字段取自提交本体,第二步票数取自既有明细,
// 没有明细的在选候选人默认 0 票
func (s *twoStepService) ResumeDraft(ctx context.Context, submissionID int) (*DraftState, error) {
	var submission model.ResultSubmissionModel
	if err := s.db.Where("id = ?", submissionID).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "submission", ID: strconv.Itoa(submissionID)}
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	var candidates []*model.CandidateModel
	if err := s.db.Where("is_active = ?", true).Order("id ASC").Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to get candidates: %w", err)
	}

	var details []*model.ResultSubmissionDetailModel
	if err := s.db.Where("submission_id = ?", submissionID).Find(&details).Error; err != nil {
		return nil, fmt.Errorf("failed to get submission details: %w", err)
	}

	existing := make(map[int]int, len(details))
	for _, d := range details {
		existing[d.CandidateID] = d.Votes
	}

	votes := make([]CandidateVotes, 0, len(candidates))
	for _, c := range candidates {
		votes = append(votes, CandidateVotes{
			CandidateID: c.ID,
			Votes:       existing[c.ID],
		})
	}

	return &DraftState{
		Submission:     &submission,
		CandidateVotes: votes,
	}, nil
}

// checkStepTwoInvariant 第二步提交时的总和校验
func checkStepTwoInvariant(submission *model.ResultSubmissionModel, votes []CandidateVotes) ValidationErrors {
	var errs ValidationErrors

	candidateSum := 0
	for _, cv := range votes {
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

	if len(errs) == 0 && candidateSum+submission.BlankVotes+submission.NullVotes != submission.TotalVotes {
		errs = append(errs, &ValidationError{
			Field:   "candidate_votes",
			Code:    CodeVoteSumMismatch,
			Message: fmt.Sprintf("candidate votes %d + blank %d + null %d do not equal total %d",
				candidateSum, submission.BlankVotes, submission.NullVotes, submission.TotalVotes),
		})
	}

	return errs
}
