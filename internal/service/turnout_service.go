package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/mautops/election-gin/internal/model"
	"github.com/mautops/election-gin/internal/repository"
	"gorm.io/gorm"
)

// TurnoutService 分时段参与率服务接口
// 投票日白天按小时上报累计人数,和计票提交是两条独立链路
type TurnoutService interface {
	Report(ctx context.Context, req *ReportTurnoutRequest) (*model.HourlyTurnoutModel, error)
	GetByStation(stationID int) ([]*model.HourlyTurnoutModel, error)
	GetByHour(hour int) ([]*model.HourlyTurnoutModel, error)
}

// ReportTurnoutRequest 分时段参与率上报请求
// @Description 上报投票站某一小时累计投票人数的请求参数
type ReportTurnoutRequest struct {
	PollingStationID int `json:"polling_station_id" example:"1" binding:"required"` // 投票站 ID
	Hour             int `json:"hour" example:"12"`                                 // 小时(0-23)
	CumulativeVotes  int `json:"cumulative_votes" example:"245"`                    // 累计投票人数
	ReportedBy       int `json:"reported_by" example:"1" binding:"required"`        // 上报人 ID
}

// turnoutService 分时段参与率服务实现
type turnoutService struct {
	db          *gorm.DB
	turnoutRepo repository.HourlyTurnoutRepository
	auditLogSvc AuditLogService
}

// NewTurnoutService 创建分时段参与率服务
func NewTurnoutService(db *gorm.DB, turnoutRepo repository.HourlyTurnoutRepository, auditLogSvc AuditLogService) TurnoutService {
	return &turnoutService{
		db:          db,
		turnoutRepo: turnoutRepo,
		auditLogSvc: auditLogSvc,
	}
}

// Report 上报一小时的累计投票人数
// 同一站同一小时重复上报按覆盖处理
func (s *turnoutService) Report(ctx context.Context, req *ReportTurnoutRequest) (*model.HourlyTurnoutModel, error) {
	station, err := findStation(s.db, req.PollingStationID)
	if err != nil {
		return nil, err
	}

	var errs ValidationErrors
	if req.Hour < 0 || req.Hour > 23 {
		errs = append(errs, &ValidationError{
			Field:   "hour",
			Code:    CodeMissingField,
			Message: "hour must be between 0 and 23",
		})
	}
	if req.CumulativeVotes < 0 {
		errs = append(errs, &ValidationError{
			Field:   "cumulative_votes",
			Code:    CodeNegativeVotes,
			Message: "cumulative votes cannot be negative",
		})
	}
	if req.CumulativeVotes > station.RegisteredVoters {
		errs = append(errs, &ValidationError{
			Field:   "cumulative_votes",
			Code:    CodeVotesExceedRegistered,
			Message: fmt.Sprintf("cumulative votes %d exceed registered voters %d", req.CumulativeVotes, station.RegisteredVoters),
		})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	turnout := &model.HourlyTurnoutModel{
		PollingStationID: req.PollingStationID,
		Hour:             req.Hour,
		CumulativeVotes:  req.CumulativeVotes,
		ReportedBy:       req.ReportedBy,
		ReportedAt:       time.Now(),
	}
	if station.RegisteredVoters > 0 {
		turnout.TurnoutRate = float64(req.CumulativeVotes) / float64(station.RegisteredVoters) * 100
	}

	if err := s.turnoutRepo.Upsert(turnout); err != nil {
		return nil, fmt.Errorf("failed to save hourly turnout: %w", err)
	}

	if s.auditLogSvc != nil {
		userID := getUserIDFromContext(ctx)
		if userID != "" {
			details := fmt.Sprintf(`{"polling_station_id":%d,"hour":%d,"cumulative_votes":%d}`,
				req.PollingStationID, req.Hour, req.CumulativeVotes)
			_ = s.auditLogSvc.RecordAction(ctx, userID, "report_turnout", "turnout", strconv.Itoa(req.PollingStationID), details)
		}
	}

	return turnout, nil
}

// GetByStation 查询投票站的分时段参与率
func (s *turnoutService) GetByStation(stationID int) ([]*model.HourlyTurnoutModel, error) {
	if _, err := findStation(s.db, stationID); err != nil {
		return nil, err
	}
	return s.turnoutRepo.FindByStationID(stationID)
}

// GetByHour 查询某一小时全部投票站的上报
func (s *turnoutService) GetByHour(hour int) ([]*model.HourlyTurnoutModel, error) {
	if hour < 0 || hour > 23 {
		return nil, ValidationErrors{{
			Field:   "hour",
			Code:    CodeMissingField,
			Message: "hour must be between 0 and 23",
		}}
	}
	return s.turnoutRepo.FindByHour(hour)
}
