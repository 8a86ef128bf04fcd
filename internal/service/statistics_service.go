package service

import (
	"fmt"

	"github.com/mautops/election-gin/internal/model"
	"gorm.io/gorm"
)

// StatisticsService 统计服务接口
// 所有读端返回显式类型的投影结构,不返回临时拼出来的匿名形状
type StatisticsService interface {
	GetSubmissionStatisticsByStatus() ([]*SubmissionStatisticsByStatus, error)
	GetResultsByCandidate() ([]*CandidateResultSummary, error)
	GetResultsByRegion() ([]*RegionResultSummary, error)
	GetNationalSummary() (*NationalSummary, error)
}

// SubmissionStatisticsByStatus 按状态统计提交
type SubmissionStatisticsByStatus struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// CandidateResultSummary 候选人维度汇总
type CandidateResultSummary struct {
	CandidateID   int     `json:"candidate_id"`
	CandidateName string  `json:"candidate_name"`
	Party         string  `json:"party"`
	TotalVotes    int64   `json:"total_votes"`
	Percentage    float64 `json:"percentage"`
	StationCount  int64   `json:"station_count"`
}

// RegionResultSummary 大区维度汇总
type RegionResultSummary struct {
	Region           string  `json:"region"`
	StationCount     int64   `json:"station_count"`
	ReportingCount   int64   `json:"reporting_count"`
	RegisteredVoters int64   `json:"registered_voters"`
	VotesSubmitted   int64   `json:"votes_submitted"`
	TurnoutRate      float64 `json:"turnout_rate"`
}

// NationalSummary 全国汇总
type NationalSummary struct {
	StationCount         int64   `json:"station_count"`
	ReportingCount       int64   `json:"reporting_count"`
	RegisteredVoters     int64   `json:"registered_voters"`
	VotesSubmitted       int64   `json:"votes_submitted"`
	TurnoutRate          float64 `json:"turnout_rate"`
	VerifiedSubmissions  int64   `json:"verified_submissions"`
	PendingVerifications int64   `json:"pending_verifications"`
}

// statisticsService 统计服务实现
type statisticsService struct {
	db *gorm.DB
}

// NewStatisticsService 创建统计服务
func NewStatisticsService(db *gorm.DB) StatisticsService {
	return &statisticsService{db: db}
}

// GetSubmissionStatisticsByStatus 按状态统计提交
func (s *statisticsService) GetSubmissionStatisticsByStatus() ([]*SubmissionStatisticsByStatus, error) {
	var results []struct {
		Status string
		Count  int64
	}

	err := s.db.Model(&model.ResultSubmissionModel{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&results).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get submission statistics by status: %w", err)
	}

	stats := make([]*SubmissionStatisticsByStatus, 0, len(results))
	for _, r := range results {
		stats = append(stats, &SubmissionStatisticsByStatus{
			Status: r.Status,
			Count:  r.Count,
		})
	}

	return stats, nil
}

// GetResultsByCandidate 候选人维度汇总
func (s *statisticsService) GetResultsByCandidate() ([]*CandidateResultSummary, error) {
	var rows []struct {
		CandidateID  int
		TotalVotes   int64
		StationCount int64
	}

	err := s.db.Model(&model.ResultModel{}).
		Select("candidate_id, COALESCE(SUM(votes), 0) as total_votes, COUNT(*) as station_count").
		Group("candidate_id").
		Order("total_votes DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate results by candidate: %w", err)
	}

	var grandTotal int64
	for _, r := range rows {
		grandTotal += r.TotalVotes
	}

	stats := make([]*CandidateResultSummary, 0, len(rows))
	for _, r := range rows {
		summary := &CandidateResultSummary{
			CandidateID:  r.CandidateID,
			TotalVotes:   r.TotalVotes,
			StationCount: r.StationCount,
		}
		if grandTotal > 0 {
			summary.Percentage = float64(r.TotalVotes) / float64(grandTotal) * 100
		}

		var candidate model.CandidateModel
		if err := s.db.Where("id = ?", r.CandidateID).First(&candidate).Error; err == nil {
			summary.CandidateName = candidate.FullName()
			summary.Party = candidate.Party
		}
		stats = append(stats, summary)
	}

	return stats, nil
}

// GetResultsByRegion 大区维度汇总
func (s *statisticsService) GetResultsByRegion() ([]*RegionResultSummary, error) {
	var rows []struct {
		Region           string
		StationCount     int64
		ReportingCount   int64
		RegisteredVoters int64
		VotesSubmitted   int64
	}

	err := s.db.Model(&model.PollingStationModel{}).
		Select(`region,
			COUNT(*) as station_count,
			SUM(CASE WHEN status = 'reporting' THEN 1 ELSE 0 END) as reporting_count,
			COALESCE(SUM(registered_voters), 0) as registered_voters,
			COALESCE(SUM(votes_submitted), 0) as votes_submitted`).
		Group("region").
		Order("region ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate results by region: %w", err)
	}

	stats := make([]*RegionResultSummary, 0, len(rows))
	for _, r := range rows {
		summary := &RegionResultSummary{
			Region:           r.Region,
			StationCount:     r.StationCount,
			ReportingCount:   r.ReportingCount,
			RegisteredVoters: r.RegisteredVoters,
			VotesSubmitted:   r.VotesSubmitted,
		}
		if r.RegisteredVoters > 0 {
			summary.TurnoutRate = float64(r.VotesSubmitted) / float64(r.RegisteredVoters) * 100
		}
		stats = append(stats, summary)
	}

	return stats, nil
}

// GetNationalSummary 全国汇总
func (s *statisticsService) GetNationalSummary() (*NationalSummary, error) {
	summary := &NationalSummary{}

	if err := s.db.Model(&model.PollingStationModel{}).Count(&summary.StationCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count polling stations: %w", err)
	}
	if err := s.db.Model(&model.PollingStationModel{}).
		Where("status = ?", model.StationStatusReporting).
		Count(&summary.ReportingCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count reporting stations: %w", err)
	}
	if err := s.db.Model(&model.PollingStationModel{}).
		Select("COALESCE(SUM(registered_voters), 0)").
		Scan(&summary.RegisteredVoters).Error; err != nil {
		return nil, fmt.Errorf("failed to sum registered voters: %w", err)
	}
	if err := s.db.Model(&model.PollingStationModel{}).
		Select("COALESCE(SUM(votes_submitted), 0)").
		Scan(&summary.VotesSubmitted).Error; err != nil {
		return nil, fmt.Errorf("failed to sum submitted votes: %w", err)
	}
	if summary.RegisteredVoters > 0 {
		summary.TurnoutRate = float64(summary.VotesSubmitted) / float64(summary.RegisteredVoters) * 100
	}

	if err := s.db.Model(&model.ResultSubmissionModel{}).
		Where("status = ?", model.SubmissionStatusVerified).
		Count(&summary.VerifiedSubmissions).Error; err != nil {
		return nil, fmt.Errorf("failed to count verified submissions: %w", err)
	}
	if err := s.db.Model(&model.VerificationTaskModel{}).
		Where("status IN ?", []string{model.TaskStatusPending, model.TaskStatusInProgress}).
		Count(&summary.PendingVerifications).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending verifications: %w", err)
	}

	return summary, nil
}
