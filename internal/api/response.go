package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应信封
// @Description 统一响应信封,code 为 0 表示成功
type Response struct {
	Code    int         `json:"code" example:"0"`
	Message string      `json:"message" example:"success"`
	Data    interface{} `json:"data"`
}

// ErrorResponse 错误响应
// @Description 错误响应,detail 为机器可读的原因码,request_id 用于排查
type ErrorResponse struct {
	Code      int    `json:"code" example:"409"`
	Message   string `json:"message" example:"submission for polling station 12 is already verified"`
	Detail    string `json:"detail,omitempty" example:"submission_verified"`
	RequestID string `json:"request_id,omitempty"`
}

// PaginatedResponse 分页响应
// @Description 分页响应,data 为列表,pagination 为分页信息
type PaginatedResponse struct {
	Code       int            `json:"code" example:"0"`
	Message    string         `json:"message" example:"success"`
	Data       interface{}    `json:"data"`
	Pagination PaginationInfo `json:"pagination"`
}

// PaginationInfo 分页信息
// @Description 当前页码、每页数量、总记录数和总页数
type PaginationInfo struct {
	Page      int   `json:"page" example:"1"`
	PageSize  int   `json:"page_size" example:"20"`
	Total     int64 `json:"total" example:"360"`
	TotalPage int   `json:"total_page" example:"18"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
// code 落在 HTTP 状态码区间时直接作为响应状态码
func Error(c *gin.Context, code int, message string, detail string) {
	statusCode := http.StatusInternalServerError
	if code >= 400 && code < 600 {
		statusCode = code
	}

	c.JSON(statusCode, ErrorResponse{
		Code:      code,
		Message:   message,
		Detail:    detail,
		RequestID: c.GetString("request_id"),
	})
}

// Paginated 分页响应
func Paginated(c *gin.Context, data interface{}, pagination PaginationInfo) {
	c.JSON(http.StatusOK, PaginatedResponse{
		Code:       0,
		Message:    "success",
		Data:       data,
		Pagination: pagination,
	})
}
