package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mautops/election-gin/internal/service"
)

// APIError API 错误
type APIError struct {
	Code    int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	return e.Message
}

// ErrorHandlerMiddleware 错误处理中间件
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()

			var apiErr *APIError
			if errors.As(err, &apiErr) {
				Error(c, apiErr.Code, apiErr.Message, apiErr.Detail)
			} else {
				Error(c, http.StatusInternalServerError, "internal server error", err.Error())
			}
		}
	}
}

// WrapError 包装错误
func WrapError(err error, code int, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Detail:  err.Error(),
	}
}

// HandleServiceError 把服务层错误翻译成 HTTP 响应
// 校验错误逐条返回;冲突和未找到映射到 409/404;
// 存储层不可用按 503 上抛,不用假数据顶替
func HandleServiceError(c *gin.Context, err error) {
	var validationErrs service.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "validation failed",
			"errors":  validationErrs,
		})
		return
	}

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "validation failed",
			"errors":  service.ValidationErrors{validationErr},
		})
		return
	}

	var notFoundErr *service.NotFoundError
	if errors.As(err, &notFoundErr) {
		Error(c, http.StatusNotFound, notFoundErr.Error(), "")
		return
	}

	var conflictErr *service.ConflictError
	if errors.As(err, &conflictErr) {
		Error(c, http.StatusConflict, conflictErr.Message, conflictErr.Reason)
		return
	}

	if errors.Is(err, service.ErrUnavailable) {
		Error(c, http.StatusServiceUnavailable, "service unavailable", "")
		return
	}

	Error(c, http.StatusInternalServerError, "internal server error", err.Error())
}
