package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mautops/election-gin/internal/repository"
	"github.com/mautops/election-gin/internal/service"
)

// VerificationController 审核任务控制器
type VerificationController struct {
	verificationService service.VerificationService
}

// NewVerificationController 创建审核任务控制器
func NewVerificationController(verificationService service.VerificationService) *VerificationController {
	return &VerificationController{
		verificationService: verificationService,
	}
}

// Create 创建审核任务
// @Summary      创建审核任务
// @Description  给提交创建一个待审核的任务,初始未指派
// @Tags         审核任务
// @Accept       json
// @Produce      json
// @Param        request body service.CreateVerificationTaskRequest true "任务信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /verification-tasks [post]
// @Security     BearerAuth
func (c *VerificationController) Create(ctx *gin.Context) {
	var req service.CreateVerificationTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	task, err := c.verificationService.Create(ctx.Request.Context(), &req)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, task)
}

// Get 获取审核任务详情
// @Summary      获取审核任务详情
// @Tags         审核任务
// @Produce      json
// @Param        id path int true "任务 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /verification-tasks/{id} [get]
// @Security     BearerAuth
func (c *VerificationController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	task, err := c.verificationService.Get(id)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, task)
}

// List 查询审核任务列表
// @Summary      查询审核任务列表
// @Tags         审核任务
// @Produce      json
// @Param        status query string false "状态过滤"
// @Param        assigned_to query int false "审核人过滤"
// @Param        submission_id query int false "提交过滤"
// @Success      200  {object}  Response
// @Router       /verification-tasks [get]
// @Security     BearerAuth
func (c *VerificationController) List(ctx *gin.Context) {
	filter := &repository.VerificationTaskFilter{}
	if status := ctx.Query("status"); status != "" {
		filter.Status = &status
	}
	if assignedStr := ctx.Query("assigned_to"); assignedStr != "" {
		assignedTo, err := strconv.Atoi(assignedStr)
		if err != nil {
			Error(ctx, http.StatusBadRequest, "invalid assigned_to", "must be an integer")
			return
		}
		filter.AssignedTo = &assignedTo
	}
	if submissionStr := ctx.Query("submission_id"); submissionStr != "" {
		submissionID, err := strconv.Atoi(submissionStr)
		if err != nil {
			Error(ctx, http.StatusBadRequest, "invalid submission_id", "must be an integer")
			return
		}
		filter.SubmissionID = &submissionID
	}

	tasks, err := c.verificationService.List(filter)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, tasks)
}

// History 获取任务审核历史
// @Summary      获取任务审核历史
// @Tags         审核任务
// @Produce      json
// @Param        id path int true "任务 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /verification-tasks/{id}/history [get]
// @Security     BearerAuth
func (c *VerificationController) History(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	history, err := c.verificationService.History(id)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, history)
}

// Assign 指派审核任务
// @Summary      指派审核任务
// @Tags         审核任务
// @Accept       json
// @Produce      json
// @Param        id path int true "任务 ID"
// @Param        request body AssignRequest true "被指派人"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /verification-tasks/{id}/assign [post]
// @Security     BearerAuth
func (c *VerificationController) Assign(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req AssignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if err := c.verificationService.Assign(ctx.Request.Context(), id, req.UserID); err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, nil)
}

// AssignRequest 指派请求
// @Description 指派审核任务的请求参数
type AssignRequest struct {
	UserID int `json:"user_id" example:"1" binding:"required"` // 被指派人 ID
}

// Complete 完成审核任务
// @Summary      完成审核任务
// @Tags         审核任务
// @Accept       json
// @Produce      json
// @Param        id path int true "任务 ID"
// @Param        request body service.CompleteVerificationRequest true "审核结论"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /verification-tasks/{id}/complete [post]
// @Security     BearerAuth
func (c *VerificationController) Complete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req service.CompleteVerificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if err := c.verificationService.Complete(ctx.Request.Context(), id, &req); err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, nil)
}

// Finalize 终审
// @Summary      终审
// @Description  一个事务内完成任务并把提交置为 verified/rejected
// @Tags         审核任务
// @Accept       json
// @Produce      json
// @Param        id path int true "任务 ID"
// @Param        request body service.FinalizeVerificationRequest true "终审结论"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /verification-tasks/{id}/finalize [post]
// @Security     BearerAuth
func (c *VerificationController) Finalize(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req service.FinalizeVerificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if err := c.verificationService.FinalizeVerification(ctx.Request.Context(), id, &req); err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, nil)
}

// Suspend 挂起审核任务
func (c *VerificationController) Suspend(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if err := c.verificationService.Suspend(ctx.Request.Context(), id, req.Reason); err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, nil)
}

// Resume 恢复审核任务
func (c *VerificationController) Resume(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if err := c.verificationService.Resume(ctx.Request.Context(), id, req.Reason); err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, nil)
}

// Cancel 取消审核任务
func (c *VerificationController) Cancel(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if err := c.verificationService.Cancel(ctx.Request.Context(), id, req.Reason); err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, nil)
}

// Delete 删除审核任务
// @Summary      删除审核任务
// @Description  有审核历史的任务拒绝删除
// @Tags         审核任务
// @Produce      json
// @Param        id path int true "任务 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /verification-tasks/{id} [delete]
// @Security     BearerAuth
func (c *VerificationController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.verificationService.Delete(ctx.Request.Context(), id); err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, nil)
}
