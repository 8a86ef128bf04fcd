package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mautops/election-gin/internal/service"
)

// DocumentController 提交附件控制器
type DocumentController struct {
	documentService service.DocumentService
}

// NewDocumentController 创建提交附件控制器
func NewDocumentController(documentService service.DocumentService) *DocumentController {
	return &DocumentController{
		documentService: documentService,
	}
}

// Attach 登记附件
// @Summary      登记附件元数据
// @Description  只登记元数据,文件本体由外部存储持有
// @Tags         附件
// @Accept       json
// @Produce      json
// @Param        request body service.AttachDocumentRequest true "附件信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /documents [post]
// @Security     BearerAuth
func (c *DocumentController) Attach(ctx *gin.Context) {
	var req service.AttachDocumentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	document, err := c.documentService.Attach(ctx.Request.Context(), &req)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, document)
}

// Get 获取附件元数据
// @Summary      获取附件元数据
// @Tags         附件
// @Produce      json
// @Param        id path int true "附件 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id} [get]
// @Security     BearerAuth
func (c *DocumentController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	document, err := c.documentService.Get(id)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, document)
}

// ListBySubmission 查询提交的附件列表
// @Summary      查询提交的附件列表
// @Tags         附件
// @Produce      json
// @Param        id path int true "提交 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /submissions/{id}/documents [get]
// @Security     BearerAuth
func (c *DocumentController) ListBySubmission(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	documents, err := c.documentService.ListBySubmission(id)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, documents)
}

// Delete 软删除附件
// @Summary      删除附件
// @Tags         附件
// @Produce      json
// @Param        id path int true "附件 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id} [delete]
// @Security     BearerAuth
func (c *DocumentController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.documentService.Delete(ctx.Request.Context(), id); err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, nil)
}
