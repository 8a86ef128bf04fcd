package repository

import (
	"github.com/mautops/election-gin/internal/model"
	"gorm.io/gorm"
)

// VerificationHistoryRepository 审核历史仓储接口
type VerificationHistoryRepository interface {
	Save(history *model.VerificationHistoryModel) error
	FindByTaskID(taskID int) ([]*model.VerificationHistoryModel, error)
	CountByTaskID(taskID int) (int64, error)
}

// verificationHistoryRepository 审核历史仓储实现
type verificationHistoryRepository struct {
	db *gorm.DB
}

// NewVerificationHistoryRepository 创建审核历史仓储
func NewVerificationHistoryRepository(db *gorm.DB) VerificationHistoryRepository {
	return &verificationHistoryRepository{db: db}
}

// Save 保存审核历史
func (r *verificationHistoryRepository) Save(history *model.VerificationHistoryModel) error {
	return r.db.Save(history).Error
}

// FindByTaskID 根据任务 ID 查找审核历史
func (r *verificationHistoryRepository) FindByTaskID(taskID int) ([]*model.VerificationHistoryModel, error) {
	var histories []*model.VerificationHistoryModel
	err := r.db.Where("task_id = ?", taskID).Order("created_at ASC").Find(&histories).Error
	return histories, err
}

// CountByTaskID 统计任务的历史条数
func (r *verificationHistoryRepository) CountByTaskID(taskID int) (int64, error) {
	var count int64
	err := r.db.Model(&model.VerificationHistoryModel{}).Where("task_id = ?", taskID).Count(&count).Error
	return count, err
}
