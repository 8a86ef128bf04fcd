package model

import (
	"errors"
	"time"
)

// 附件文档类型
const (
	DocumentTypeTallySheet = "tally_sheet"
	DocumentTypePhoto      = "photo"
	DocumentTypeReport     = "report"
	DocumentTypeOther      = "other"
)

// SubmissionDocumentModel 提交附件数据模型
// 只登记元数据,文件本体由外部存储持有;删除为软删除
type SubmissionDocumentModel struct {
	ID           int        `gorm:"primaryKey;autoIncrement" json:"id"`
	SubmissionID int        `gorm:"not null;index" json:"submission_id"`
	DocumentType string     `gorm:"type:varchar(32);not null;default:'other'" json:"document_type"`
	FileName     string     `gorm:"type:varchar(255);not null" json:"file_name"`
	FilePath     string     `gorm:"type:varchar(512);not null" json:"file_path"`
	FileSize     int64      `gorm:"not null;default:0" json:"file_size"`
	ContentType  string     `gorm:"type:varchar(128)" json:"content_type,omitempty"`
	UploadedBy   int        `gorm:"not null" json:"uploaded_by"`
	UploadedAt   time.Time  `gorm:"not null" json:"uploaded_at"`
	DeletedAt    *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 指定表名
func (SubmissionDocumentModel) TableName() string {
	return "submission_documents"
}

// Validate 验证附件文档模型
func (sdm *SubmissionDocumentModel) Validate() error {
	if sdm.SubmissionID == 0 {
		return errors.New("submission ID is required")
	}
	if sdm.FileName == "" {
		return errors.New("file name is required")
	}
	if sdm.FilePath == "" {
		return errors.New("file path is required")
	}
	if sdm.UploadedBy == 0 {
		return errors.New("uploaded by is required")
	}
	return nil
}
