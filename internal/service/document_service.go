package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mautops/election-gin/internal/model"
	"github.com/mautops/election-gin/internal/repository"
	"gorm.io/gorm"
)

// DocumentService 提交附件服务接口
// 只管理元数据,文件本体在外部存储
type DocumentService interface {
	Attach(ctx context.Context, req *AttachDocumentRequest) (*model.SubmissionDocumentModel, error)
	Get(id int) (*model.SubmissionDocumentModel, error)
	ListBySubmission(submissionID int) ([]*model.SubmissionDocumentModel, error)
	Delete(ctx context.Context, id int) error
}

// AttachDocumentRequest 登记附件请求
// @Description 给提交登记附件元数据的请求参数
type AttachDocumentRequest struct {
	SubmissionID int    `json:"submission_id" example:"1" binding:"required"`    // 提交 ID
	DocumentType string `json:"document_type" example:"tally_sheet"`             // 附件类型
	FileName     string `json:"file_name" example:"pv-001.pdf" binding:"required"` // 文件名
	FilePath     string `json:"file_path" example:"sha256/ab/cd" binding:"required"` // 内容寻址路径
	FileSize     int64  `json:"file_size" example:"102400"`                      // 文件大小
	ContentType  string `json:"content_type" example:"application/pdf"`          // MIME 类型
	UploadedBy   int    `json:"uploaded_by" example:"1" binding:"required"`      // 上传人 ID
}

// documentService 提交附件服务实现
type documentService struct {
	db           *gorm.DB
	documentRepo repository.DocumentRepository
	auditLogSvc  AuditLogService
}

// NewDocumentService 创建提交附件服务
func NewDocumentService(db *gorm.DB, documentRepo repository.DocumentRepository, auditLogSvc AuditLogService) DocumentService {
	return &documentService{
		db:           db,
		documentRepo: documentRepo,
		auditLogSvc:  auditLogSvc,
	}
}

// Attach 登记附件元数据
func (s *documentService) Attach(ctx context.Context, req *AttachDocumentRequest) (*model.SubmissionDocumentModel, error) {
	var submission model.ResultSubmissionModel
	if err := s.db.Where("id = ?", req.SubmissionID).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "submission", ID: strconv.Itoa(req.SubmissionID)}
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	documentType := req.DocumentType
	if documentType == "" {
		documentType = model.DocumentTypeOther
	}

	document := &model.SubmissionDocumentModel{
		SubmissionID: req.SubmissionID,
		DocumentType: documentType,
		FileName:     req.FileName,
		FilePath:     req.FilePath,
		FileSize:     req.FileSize,
		ContentType:  req.ContentType,
		UploadedBy:   req.UploadedBy,
		UploadedAt:   time.Now(),
	}
	if err := document.Validate(); err != nil {
		return nil, ValidationErrors{{
			Field:   "document",
			Code:    CodeMissingField,
			Message: err.Error(),
		}}
	}

	if err := s.documentRepo.Save(document); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	if s.auditLogSvc != nil {
		userID := getUserIDFromContext(ctx)
		if userID != "" {
			details := fmt.Sprintf(`{"document_id":%d,"submission_id":%d,"file_name":"%s"}`,
				document.ID, document.SubmissionID, document.FileName)
			_ = s.auditLogSvc.RecordAction(ctx, userID, "attach", "document", strconv.Itoa(document.ID), details)
		}
	}

	return document, nil
}

// Get 获取附件元数据
func (s *documentService) Get(id int) (*model.SubmissionDocumentModel, error) {
	document, err := s.documentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "document", ID: strconv.Itoa(id)}
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return document, nil
}

// ListBySubmission 查询提交的全部附件
func (s *documentService) ListBySubmission(submissionID int) ([]*model.SubmissionDocumentModel, error) {
	var submission model.ResultSubmissionModel
	if err := s.db.Where("id = ?", submissionID).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "submission", ID: strconv.Itoa(submissionID)}
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return s.documentRepo.FindBySubmissionID(submissionID)
}

// Delete 软删除附件
func (s *documentService) Delete(ctx context.Context, id int) error {
	document, err := s.Get(id)
	if err != nil {
		return err
	}

	if err := s.documentRepo.SoftDelete(id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if s.auditLogSvc != nil {
		userID := getUserIDFromContext(ctx)
		if userID != "" {
			details := fmt.Sprintf(`{"document_id":%d,"submission_id":%d}`, document.ID, document.SubmissionID)
			_ = s.auditLogSvc.RecordAction(ctx, userID, "delete", "document", strconv.Itoa(id), details)
		}
	}

	return nil
}
