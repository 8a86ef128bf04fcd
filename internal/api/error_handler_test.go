package api_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mautops/election-gin/internal/api"
	"github.com/mautops/election-gin/internal/service"
	"github.com/stretchr/testify/assert"
)

// performWithError 让 HandleServiceError 处理一个服务层错误
func performWithError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/boom", func(c *gin.Context) {
		api.HandleServiceError(c, err)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	router.ServeHTTP(w, req)
	return w
}

// TestHandleServiceError_ValidationErrors 测试校验错误逐条返回 400
func TestHandleServiceError_ValidationErrors(t *testing.T) {
	errs := service.ValidationErrors{
		{Field: "total_votes", Code: service.CodeVotesExceedRegistered, Message: "total votes 1200 exceed registered voters 1000"},
		{Field: "blank_votes", Code: service.CodeNegativeVotes, Message: "blank votes cannot be negative"},
	}

	w := performWithError(t, errs)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), service.CodeVotesExceedRegistered)
	assert.Contains(t, w.Body.String(), service.CodeNegativeVotes)
}

// TestHandleServiceError_SingleValidationError 测试单条校验错误
func TestHandleServiceError_SingleValidationError(t *testing.T) {
	err := &service.ValidationError{
		Field:   "status",
		Code:    service.CodeInvalidStatus,
		Message: "status must be verified or rejected",
	}

	w := performWithError(t, err)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), service.CodeInvalidStatus)
}

// TestHandleServiceError_NotFound 测试资源不存在映射 404
func TestHandleServiceError_NotFound(t *testing.T) {
	err := &service.NotFoundError{Resource: "submission", ID: "42"}

	w := performWithError(t, err)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "submission 42 not found")
}

// TestHandleServiceError_Conflict 测试业务冲突映射 409
func TestHandleServiceError_Conflict(t *testing.T) {
	err := &service.ConflictError{
		Reason:  service.ConflictSubmissionVerified,
		Message: "submission 42 is already verified",
	}

	w := performWithError(t, err)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), service.ConflictSubmissionVerified)
}

// TestHandleServiceError_Unavailable 测试存储不可用映射 503
func TestHandleServiceError_Unavailable(t *testing.T) {
	w := performWithError(t, service.ErrUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// TestHandleServiceError_Unknown 测试未知错误映射 500
func TestHandleServiceError_Unknown(t *testing.T) {
	w := performWithError(t, errors.New("disk on fire"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
