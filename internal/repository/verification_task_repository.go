package repository

import (
	"github.com/mautops/election-gin/internal/model"
	"gorm.io/gorm"
)

// VerificationTaskRepository 审核任务仓储接口
type VerificationTaskRepository interface {
	Save(task *model.VerificationTaskModel) error
	FindByID(id int) (*model.VerificationTaskModel, error)
	FindAll() ([]*model.VerificationTaskModel, error)
	FindByFilter(filter *VerificationTaskFilter) ([]*model.VerificationTaskModel, error)
	Delete(id int) error
	CountByStatus(status string) (int64, error)
}

// VerificationTaskFilter 审核任务查询过滤器
type VerificationTaskFilter struct {
	Status       *string
	Priority     *string
	AssignedTo   *int
	SubmissionID *int
	StartTime    *string
	EndTime      *string
}

// verificationTaskRepository 审核任务仓储实现
type verificationTaskRepository struct {
	db *gorm.DB
}

// NewVerificationTaskRepository 创建审核任务仓储
func NewVerificationTaskRepository(db *gorm.DB) VerificationTaskRepository {
	return &verificationTaskRepository{db: db}
}

// Save 保存审核任务
func (r *verificationTaskRepository) Save(task *model.VerificationTaskModel) error {
	return r.db.Save(task).Error
}

// FindByID 根据 ID 查找审核任务
func (r *verificationTaskRepository) FindByID(id int) (*model.VerificationTaskModel, error) {
	var task model.VerificationTaskModel
	if err := r.db.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindAll 查找所有审核任务
func (r *verificationTaskRepository) FindAll() ([]*model.VerificationTaskModel, error) {
	var tasks []*model.VerificationTaskModel
	err := r.db.Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

// FindByFilter 根据过滤器查找审核任务
func (r *verificationTaskRepository) FindByFilter(filter *VerificationTaskFilter) ([]*model.VerificationTaskModel, error) {
	var tasks []*model.VerificationTaskModel
	query := r.db.Model(&model.VerificationTaskModel{})

	if filter != nil {
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.Priority != nil {
			query = query.Where("priority = ?", *filter.Priority)
		}
		if filter.AssignedTo != nil {
			query = query.Where("assigned_to = ?", *filter.AssignedTo)
		}
		if filter.SubmissionID != nil {
			query = query.Where("submission_id = ?", *filter.SubmissionID)
		}
		if filter.StartTime != nil {
			query = query.Where("created_at >= ?", *filter.StartTime)
		}
		if filter.EndTime != nil {
			query = query.Where("created_at <= ?", *filter.EndTime)
		}
	}

	err := query.Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

// Delete 删除审核任务
func (r *verificationTaskRepository) Delete(id int) error {
	return r.db.Delete(&model.VerificationTaskModel{}, "id = ?", id).Error
}

// CountByStatus 按状态统计审核任务数量
func (r *verificationTaskRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&model.VerificationTaskModel{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
