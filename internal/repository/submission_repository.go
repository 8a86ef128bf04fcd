package repository

import (
	"github.com/mautops/election-gin/internal/model"
	"gorm.io/gorm"
)

// SubmissionRepository 结果提交仓储接口
type SubmissionRepository interface {
	Save(submission *model.ResultSubmissionModel) error
	FindByID(id int) (*model.ResultSubmissionModel, error)
	FindByStationID(stationID int) (*model.ResultSubmissionModel, error)
	FindAll() ([]*model.ResultSubmissionModel, error)
	FindByFilter(filter *SubmissionFilter) ([]*model.ResultSubmissionModel, error)
	Delete(id int) error
	CountByStatus(status string) (int64, error)
}

// SubmissionFilter 结果提交查询过滤器
type SubmissionFilter struct {
	Status           *string
	PollingStationID *int
	SubmittedBy      *int
	StartTime        *string
	EndTime          *string
}

// submissionRepository 结果提交仓储实现
type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository 创建结果提交仓储
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

// Save 保存结果提交
func (r *submissionRepository) Save(submission *model.ResultSubmissionModel) error {
	return r.db.Save(submission).Error
}

// FindByID 根据 ID 查找结果提交
func (r *submissionRepository) FindByID(id int) (*model.ResultSubmissionModel, error) {
	var submission model.ResultSubmissionModel
	if err := r.db.Where("id = ?", id).First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindByStationID 根据投票站 ID 查找结果提交
// 每个投票站最多一条提交记录
func (r *submissionRepository) FindByStationID(stationID int) (*model.ResultSubmissionModel, error) {
	var submission model.ResultSubmissionModel
	if err := r.db.Where("polling_station_id = ?", stationID).First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindAll 查找所有结果提交
func (r *submissionRepository) FindAll() ([]*model.ResultSubmissionModel, error) {
	var submissions []*model.ResultSubmissionModel
	err := r.db.Order("submitted_at DESC").Find(&submissions).Error
	return submissions, err
}

// FindByFilter 根据过滤器查找结果提交
func (r *submissionRepository) FindByFilter(filter *SubmissionFilter) ([]*model.ResultSubmissionModel, error) {
	var submissions []*model.ResultSubmissionModel
	query := r.db.Model(&model.ResultSubmissionModel{})

	if filter != nil {
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.PollingStationID != nil {
			query = query.Where("polling_station_id = ?", *filter.PollingStationID)
		}
		if filter.SubmittedBy != nil {
			query = query.Where("submitted_by = ?", *filter.SubmittedBy)
		}
		if filter.StartTime != nil {
			query = query.Where("submitted_at >= ?", *filter.StartTime)
		}
		if filter.EndTime != nil {
			query = query.Where("submitted_at <= ?", *filter.EndTime)
		}
	}

	err := query.Order("submitted_at DESC").Find(&submissions).Error
	return submissions, err
}

// Delete 删除结果提交
func (r *submissionRepository) Delete(id int) error {
	return r.db.Delete(&model.ResultSubmissionModel{}, "id = ?", id).Error
}

// CountByStatus 按状态统计结果提交数量
func (r *submissionRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&model.ResultSubmissionModel{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
