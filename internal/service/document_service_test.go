package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/mautops/election-gin/internal/model"
	"github.com/mautops/election-gin/internal/repository"
	"github.com/mautops/election-gin/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDBForDocument 创建附件测试数据库
func setupTestDBForDocument(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.ResultSubmissionModel{},
		&model.SubmissionDocumentModel{},
	)
	require.NoError(t, err)

	submission := &model.ResultSubmissionModel{
		ID:               1,
		PollingStationID: 1,
		SubmittedBy:      7,
		TotalVotes:       600,
		Status:           model.SubmissionStatusSubmitted,
		SubmittedAt:      time.Now(),
	}
	require.NoError(t, db.Create(submission).Error)

	return db
}

// newDocumentService 装配附件服务
func newDocumentService(db *gorm.DB) service.DocumentService {
	return service.NewDocumentService(db, repository.NewDocumentRepository(db), nil)
}

// TestDocumentService_Attach 测试登记附件
func TestDocumentService_Attach(t *testing.T) {
	db := setupTestDBForDocument(t)
	svc := newDocumentService(db)

	document, err := svc.Attach(context.Background(), &service.AttachDocumentRequest{
		SubmissionID: 1,
		DocumentType: model.DocumentTypeTallySheet,
		FileName:     "pv-001.pdf",
		FilePath:     "sha256/ab/cd",
		FileSize:     102400,
		ContentType:  "application/pdf",
		UploadedBy:   7,
	})
	require.NoError(t, err)
	require.NotNil(t, document)
	assert.Equal(t, model.DocumentTypeTallySheet, document.DocumentType)
	assert.NotZero(t, document.ID)
}

// TestDocumentService_Attach_DefaultType 测试附件类型缺省
func TestDocumentService_Attach_DefaultType(t *testing.T) {
	db := setupTestDBForDocument(t)
	svc := newDocumentService(db)

	document, err := svc.Attach(context.Background(), &service.AttachDocumentRequest{
		SubmissionID: 1,
		FileName:     "photo.jpg",
		FilePath:     "sha256/ef/01",
		UploadedBy:   7,
	})
	require.NoError(t, err)
	assert.Equal(t, model.DocumentTypeOther, document.DocumentType)
}

// TestDocumentService_Attach_SubmissionNotFound 测试提交不存在
func TestDocumentService_Attach_SubmissionNotFound(t *testing.T) {
	db := setupTestDBForDocument(t)
	svc := newDocumentService(db)

	_, err := svc.Attach(context.Background(), &service.AttachDocumentRequest{
		SubmissionID: 999,
		FileName:     "pv-001.pdf",
		FilePath:     "sha256/ab/cd",
		UploadedBy:   7,
	})
	require.Error(t, err)
	assert.True(t, service.IsNotFound(err))
}

// TestDocumentService_Attach_MissingFileName 测试缺文件名
func TestDocumentService_Attach_MissingFileName(t *testing.T) {
	db := setupTestDBForDocument(t)
	svc := newDocumentService(db)

	_, err := svc.Attach(context.Background(), &service.AttachDocumentRequest{
		SubmissionID: 1,
		FilePath:     "sha256/ab/cd",
		UploadedBy:   7,
	})
	require.Error(t, err)

	var errs service.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, service.CodeMissingField, errs[0].Code)
}

// TestDocumentService_ListBySubmission 测试查询提交的附件
func TestDocumentService_ListBySubmission(t *testing.T) {
	db := setupTestDBForDocument(t)
	svc := newDocumentService(db)

	for _, name := range []string{"pv-001.pdf", "annexe.jpg"} {
		_, err := svc.Attach(context.Background(), &service.AttachDocumentRequest{
			SubmissionID: 1,
			FileName:     name,
			FilePath:     "sha256/" + name,
			UploadedBy:   7,
		})
		require.NoError(t, err)
	}

	documents, err := svc.ListBySubmission(1)
	require.NoError(t, err)
	assert.Len(t, documents, 2)

	_, err = svc.ListBySubmission(999)
	require.Error(t, err)
	assert.True(t, service.IsNotFound(err))
}

// TestDocumentService_Delete 测试软删除附件
func TestDocumentService_Delete(t *testing.T) {
	db := setupTestDBForDocument(t)
	svc := newDocumentService(db)

	document, err := svc.Attach(context.Background(), &service.AttachDocumentRequest{
		SubmissionID: 1,
		FileName:     "pv-001.pdf",
		FilePath:     "sha256/ab/cd",
		UploadedBy:   7,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), document.ID))

	// 软删除后对查询不可见
	_, err = svc.Get(document.ID)
	require.Error(t, err)
	assert.True(t, service.IsNotFound(err))

	documents, err := svc.ListBySubmission(1)
	require.NoError(t, err)
	assert.Len(t, documents, 0)

	// 行还在库里,deleted_at 已打标
	var raw model.SubmissionDocumentModel
	require.NoError(t, db.Where("id = ?", document.ID).First(&raw).Error)
	assert.NotNil(t, raw.DeletedAt)
}
