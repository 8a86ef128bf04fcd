package model

import (
	"errors"
	"time"
)

// CandidateModel 候选人数据模型
// 参考数据,核心流程只读;累计票数由上层统计任务维护
type CandidateModel struct {
	ID         int       `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName  string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName   string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Party      string    `gorm:"type:varchar(255);not null;index" json:"party"`
	Photo      string    `gorm:"type:varchar(500)" json:"photo,omitempty"`
	Profession string    `gorm:"type:varchar(255)" json:"profession,omitempty"`
	Email      string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone      string    `gorm:"type:varchar(50)" json:"phone,omitempty"`
	IsActive   bool      `gorm:"not null;default:true;index" json:"is_active"`
	TotalVotes int       `gorm:"not null;default:0" json:"total_votes"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

// TableName 指定表名
func (CandidateModel) TableName() string {
	return "candidates"
}

// FullName 候选人全名
func (cm *CandidateModel) FullName() string {
	return cm.FirstName + " " + cm.LastName
}

// Validate 验证候选人模型
func (cm *CandidateModel) Validate() error {
	if cm.FirstName == "" {
		return errors.New("candidate first name is required")
	}
	if cm.LastName == "" {
		return errors.New("candidate last name is required")
	}
	if cm.Party == "" {
		return errors.New("candidate party is required")
	}
	return nil
}
