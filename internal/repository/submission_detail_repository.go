package repository

import (
	"github.com/mautops/election-gin/internal/model"
	"gorm.io/gorm"
)

// SubmissionDetailRepository 提交明细仓储接口
type SubmissionDetailRepository interface {
	FindBySubmissionID(submissionID int) ([]*model.ResultSubmissionDetailModel, error)
	DeleteBySubmissionID(submissionID int) error
	SaveBatch(details []*model.ResultSubmissionDetailModel) error
}

// submissionDetailRepository 提交明细仓储实现
type submissionDetailRepository struct {
	db *gorm.DB
}

// NewSubmissionDetailRepository 创建提交明细仓储
func NewSubmissionDetailRepository(db *gorm.DB) SubmissionDetailRepository {
	return &submissionDetailRepository{db: db}
}

// FindBySubmissionID 根据提交 ID 查找明细
func (r *submissionDetailRepository) FindBySubmissionID(submissionID int) ([]*model.ResultSubmissionDetailModel, error) {
	var details []*model.ResultSubmissionDetailModel
	err := r.db.Where("submission_id = ?", submissionID).Order("candidate_id ASC").Find(&details).Error
	return details, err
}

// DeleteBySubmissionID 删除提交的全部明细
func (r *submissionDetailRepository) DeleteBySubmissionID(submissionID int) error {
	return r.db.Delete(&model.ResultSubmissionDetailModel{}, "submission_id = ?", submissionID).Error
}

// SaveBatch 批量保存明细
func (r *submissionDetailRepository) SaveBatch(details []*model.ResultSubmissionDetailModel) error {
	if len(details) == 0 {
		return nil
	}
	return r.db.Create(&details).Error
}
