package model

import (
	"errors"
	"time"
)

// ElectionResultModel 选举结果聚合数据模型
// 以候选人为中心的第二份反规范化投影,与 ResultModel 同源同步
// 两张投影表都由同一段对账逻辑写入,不允许各自维护
type ElectionResultModel struct {
	ID               int       `gorm:"primaryKey;autoIncrement" json:"id"`
	CandidateID      int       `gorm:"not null;uniqueIndex:idx_election_results_candidate_station" json:"candidate_id"`
	PollingStationID int       `gorm:"not null;uniqueIndex:idx_election_results_candidate_station" json:"polling_station_id"`
	Votes            int       `gorm:"not null;default:0" json:"votes"`
	Percentage       float64   `gorm:"not null;default:0" json:"percentage"`
	TotalVotes       int       `gorm:"not null;default:0" json:"total_votes"`
	SubmittedAt      time.Time `gorm:"not null" json:"submitted_at"`
	Verified         bool      `gorm:"not null;default:false;index" json:"verified"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

// TableName 指定表名
func (ElectionResultModel) TableName() string {
	return "election_results"
}

// Validate 验证选举结果模型
func (erm *ElectionResultModel) Validate() error {
	if erm.CandidateID == 0 {
		return errors.New("candidate ID is required")
	}
	if erm.PollingStationID == 0 {
		return errors.New("polling station ID is required")
	}
	if erm.Votes < 0 {
		return errors.New("votes cannot be negative")
	}
	return nil
}
