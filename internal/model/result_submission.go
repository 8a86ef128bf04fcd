package model

import (
	"errors"
	"time"
)

// 结果提交状态
const (
	SubmissionStatusDraft     = "draft"
	SubmissionStatusSubmitted = "submitted"
	SubmissionStatusVerified  = "verified"
	SubmissionStatusRejected  = "rejected"
)

// 提交类型
const (
	SubmissionTypeFinal   = "final"
	SubmissionTypePartial = "partial"
)

// ResultSubmissionModel 结果提交数据模型
// 一个投票站一个报告周期的计票工作单元;同一投票站重复提交时原地更新
// blank_votes/null_votes 是一等列,不再编码进 notes 字段
type ResultSubmissionModel struct {
	ID               int        `gorm:"primaryKey;autoIncrement" json:"id"`
	PollingStationID int        `gorm:"not null;uniqueIndex" json:"polling_station_id"`
	SubmittedBy      int        `gorm:"not null;index" json:"submitted_by"`
	SubmissionType   string     `gorm:"type:varchar(32);not null;default:'final'" json:"submission_type"`
	TotalVotes       int        `gorm:"not null;default:0" json:"total_votes"`
	RegisteredVoters int        `gorm:"not null;default:0" json:"registered_voters"`
	BlankVotes       int        `gorm:"not null;default:0" json:"blank_votes"`
	NullVotes        int        `gorm:"not null;default:0" json:"null_votes"`
	TurnoutRate      float64    `gorm:"not null;default:0" json:"turnout_rate"`
	Status           string     `gorm:"type:varchar(32);not null;default:'draft';index" json:"status"`
	SubmittedAt      time.Time  `gorm:"not null;index" json:"submitted_at"`
	VerifiedAt       *time.Time `json:"verified_at,omitempty"`
	VerifiedBy       *int       `json:"verified_by,omitempty"`
	Notes            string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt        time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null" json:"updated_at"`
}

// TableName 指定表名
func (ResultSubmissionModel) TableName() string {
	return "result_submissions"
}

// ComputeTurnout 重新计算参与率
func (rsm *ResultSubmissionModel) ComputeTurnout() {
	if rsm.RegisteredVoters > 0 {
		rsm.TurnoutRate = float64(rsm.TotalVotes) / float64(rsm.RegisteredVoters) * 100
	} else {
		rsm.TurnoutRate = 0
	}
}

// IsVerified 提交是否已通过审核
// 已审核的提交禁止覆盖和删除
func (rsm *ResultSubmissionModel) IsVerified() bool {
	return rsm.Status == SubmissionStatusVerified
}

// Validate 验证结果提交模型
func (rsm *ResultSubmissionModel) Validate() error {
	if rsm.PollingStationID == 0 {
		return errors.New("polling station ID is required")
	}
	if rsm.SubmittedBy == 0 {
		return errors.New("submitted by is required")
	}
	if rsm.TotalVotes < 0 {
		return errors.New("total votes cannot be negative")
	}
	if rsm.BlankVotes < 0 {
		return errors.New("blank votes cannot be negative")
	}
	if rsm.NullVotes < 0 {
		return errors.New("null votes cannot be negative")
	}
	return nil
}
