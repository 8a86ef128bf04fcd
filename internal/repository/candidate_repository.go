package repository

import (
	"github.com/mautops/election-gin/internal/model"
	"gorm.io/gorm"
)

// CandidateRepository 候选人仓储接口
type CandidateRepository interface {
	Save(candidate *model.CandidateModel) error
	FindByID(id int) (*model.CandidateModel, error)
	FindAll() ([]*model.CandidateModel, error)
	FindActive() ([]*model.CandidateModel, error)
	Delete(id int) error
}

// candidateRepository 候选人仓储实现
type candidateRepository struct {
	db *gorm.DB
}

// NewCandidateRepository 创建候选人仓储
func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

// Save 保存候选人
func (r *candidateRepository) Save(candidate *model.CandidateModel) error {
	return r.db.Save(candidate).Error
}

// FindByID 根据 ID 查找候选人
func (r *candidateRepository) FindByID(id int) (*model.CandidateModel, error) {
	var candidate model.CandidateModel
	if err := r.db.Where("id = ?", id).First(&candidate).Error; err != nil {
		return nil, err
	}
	return &candidate, nil
}

// FindAll 查找所有候选人
func (r *candidateRepository) FindAll() ([]*model.CandidateModel, error) {
	var candidates []*model.CandidateModel
	err := r.db.Order("last_name ASC, first_name ASC").Find(&candidates).Error
	return candidates, err
}

// FindActive 查找所有在选候选人
func (r *candidateRepository) FindActive() ([]*model.CandidateModel, error) {
	var candidates []*model.CandidateModel
	err := r.db.Where("is_active = ?", true).Order("last_name ASC, first_name ASC").Find(&candidates).Error
	return candidates, err
}

// Delete 删除候选人
func (r *candidateRepository) Delete(id int) error {
	return r.db.Delete(&model.CandidateModel{}, "id = ?", id).Error
}
