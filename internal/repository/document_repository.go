package repository

import (
	"time"

	"github.com/mautops/election-gin/internal/model"
	"gorm.io/gorm"
)

// DocumentRepository 提交附件仓储接口
type DocumentRepository interface {
	Save(document *model.SubmissionDocumentModel) error
	FindByID(id int) (*model.SubmissionDocumentModel, error)
	FindBySubmissionID(submissionID int) ([]*model.SubmissionDocumentModel, error)
	SoftDelete(id int) error
}

// documentRepository 提交附件仓储实现
type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository 创建提交附件仓储
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Save 保存附件元数据
func (r *documentRepository) Save(document *model.SubmissionDocumentModel) error {
	return r.db.Save(document).Error
}

// FindByID 根据 ID 查找附件
// 已软删除的附件视同不存在
func (r *documentRepository) FindByID(id int) (*model.SubmissionDocumentModel, error) {
	var document model.SubmissionDocumentModel
	if err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&document).Error; err != nil {
		return nil, err
	}
	return &document, nil
}

// FindBySubmissionID 根据提交 ID 查找附件列表
func (r *documentRepository) FindBySubmissionID(submissionID int) ([]*model.SubmissionDocumentModel, error) {
	var documents []*model.SubmissionDocumentModel
	err := r.db.Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		Order("uploaded_at DESC").
		Find(&documents).Error
	return documents, err
}

// SoftDelete 软删除附件
func (r *documentRepository) SoftDelete(id int) error {
	now := time.Now()
	return r.db.Model(&model.SubmissionDocumentModel{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", &now).Error
}
