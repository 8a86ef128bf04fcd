package model

import (
	"errors"
	"time"
)

// 审核任务状态
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusSuspended  = "suspended"
	TaskStatusCancelled  = "cancelled"
)

// 审核任务优先级
const (
	TaskPriorityLow    = "low"
	TaskPriorityNormal = "normal"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

// 审核任务类型
const (
	TaskTypeResultVerification   = "result_verification"
	TaskTypeDocumentVerification = "document_verification"
	TaskTypeRecount              = "recount"
)

// VerificationTaskModel 审核任务数据模型
// 挂在提交上的工作项,终态为 completed 或 cancelled
type VerificationTaskModel struct {
	ID           int        `gorm:"primaryKey;autoIncrement" json:"id"`
	SubmissionID int        `gorm:"not null;index" json:"submission_id"`
	TaskType     string     `gorm:"type:varchar(32);not null;default:'result_verification'" json:"task_type"`
	Status       string     `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`
	Priority     string     `gorm:"type:varchar(16);not null;default:'normal';index" json:"priority"`
	AssignedTo   *int       `gorm:"index" json:"assigned_to,omitempty"`
	CreatedBy    int        `gorm:"not null" json:"created_by"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Decision     string     `gorm:"type:varchar(32)" json:"decision,omitempty"`
	Comments     string     `gorm:"type:text" json:"comments,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

// TableName 指定表名
func (VerificationTaskModel) TableName() string {
	return "verification_tasks"
}

// IsTerminal 任务是否处于终态
// 终态任务不再接受指派和状态流转
func (vtm *VerificationTaskModel) IsTerminal() bool {
	return vtm.Status == TaskStatusCompleted || vtm.Status == TaskStatusCancelled
}

// Validate 验证审核任务模型
func (vtm *VerificationTaskModel) Validate() error {
	if vtm.SubmissionID == 0 {
		return errors.New("submission ID is required")
	}
	if vtm.CreatedBy == 0 {
		return errors.New("created by is required")
	}
	switch vtm.Priority {
	case TaskPriorityLow, TaskPriorityNormal, TaskPriorityHigh, TaskPriorityUrgent:
	default:
		return errors.New("invalid task priority")
	}
	return nil
}
