package model

import (
	"errors"
	"time"
)

// ResultModel 扁平结果数据模型
// (投票站, 候选人) 最新票数的反规范化快读路径
// 与 result_submission_details 保持锁步:有票的候选人恰好一行,归零的候选人删除
type ResultModel struct {
	ID                int       `gorm:"primaryKey;autoIncrement" json:"id"`
	PollingStationID  int       `gorm:"not null;uniqueIndex:idx_results_station_candidate" json:"polling_station_id"`
	CandidateID       int       `gorm:"not null;uniqueIndex:idx_results_station_candidate" json:"candidate_id"`
	Votes             int       `gorm:"not null;default:0" json:"votes"`
	Timestamp         time.Time `gorm:"not null" json:"timestamp"`
	SubmittedBy       *int      `json:"submitted_by,omitempty"`
	Verified          bool      `gorm:"not null;default:false;index" json:"verified"`
	VerificationNotes string    `gorm:"type:text" json:"verification_notes,omitempty"`
	CreatedAt         time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null" json:"updated_at"`
}

// TableName 指定表名
func (ResultModel) TableName() string {
	return "results"
}

// Validate 验证结果模型
func (rm *ResultModel) Validate() error {
	if rm.PollingStationID == 0 {
		return errors.New("polling station ID is required")
	}
	if rm.CandidateID == 0 {
		return errors.New("candidate ID is required")
	}
	if rm.Votes < 0 {
		return errors.New("votes cannot be negative")
	}
	return nil
}
