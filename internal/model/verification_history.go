package model

import (
	"errors"
	"time"
)

// VerificationHistoryModel 审核历史数据模型
// 任务每次状态流转追加一条,只增不改
type VerificationHistoryModel struct {
	ID         int       `gorm:"primaryKey;autoIncrement" json:"id"`
	TaskID     int       `gorm:"not null;index" json:"task_id"`
	FromStatus string    `gorm:"type:varchar(32)" json:"from_status,omitempty"`
	ToStatus   string    `gorm:"type:varchar(32);not null" json:"to_status"`
	Action     string    `gorm:"type:varchar(64);not null" json:"action"`
	ActorID    int       `gorm:"not null" json:"actor_id"`
	Comments   string    `gorm:"type:text" json:"comments,omitempty"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
}

// TableName 指定表名
func (VerificationHistoryModel) TableName() string {
	return "verification_history"
}

// Validate 验证审核历史模型
func (vhm *VerificationHistoryModel) Validate() error {
	if vhm.TaskID == 0 {
		return errors.New("task ID is required")
	}
	if vhm.ToStatus == "" {
		return errors.New("to status is required")
	}
	if vhm.ActorID == 0 {
		return errors.New("actor ID is required")
	}
	return nil
}
