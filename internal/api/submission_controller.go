package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mautops/election-gin/internal/repository"
	"github.com/mautops/election-gin/internal/service"
	"github.com/mautops/election-gin/internal/websocket"
)

// SubmissionController 结果提交控制器
type SubmissionController struct {
	reconcileService  service.ReconcileService
	twoStepService    service.TwoStepService
	submissionService service.SubmissionService
	hub               *websocket.Hub
}

// NewSubmissionController 创建结果提交控制器
func NewSubmissionController(
	reconcileService service.ReconcileService,
	twoStepService service.TwoStepService,
	submissionService service.SubmissionService,
	hub *websocket.Hub,
) *SubmissionController {
	return &SubmissionController{
		reconcileService:  reconcileService,
		twoStepService:    twoStepService,
		submissionService: submissionService,
		hub:               hub,
	}
}

// parseIDParam 解析路径中的数字 ID
func parseIDParam(ctx *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id <= 0 {
		Error(ctx, http.StatusBadRequest, "invalid "+name, "must be a positive integer")
		return 0, false
	}
	return id, true
}

// Reconcile 单次提交对账
// @Summary      提交投票站计票
// @Description  一次请求提交总票数和各候选人票数,校验通过后同步写入全部结果表
// @Tags         结果提交
// @Accept       json
// @Produce      json
// @Param        request body service.ReconcileRequest true "计票信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /submissions/reconcile [post]
// @Security     BearerAuth
func (c *SubmissionController) Reconcile(ctx *gin.Context) {
	var req service.ReconcileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	submission, err := c.reconcileService.Reconcile(ctx.Request.Context(), &req)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	c.broadcastStationUpdate(submission.PollingStationID, submission.Status)
	Success(ctx, submission)
}

// Step1 两步提交第一步
// @Summary      登记投票站总票数
// @Description  创建或更新草稿提交,返回的提交 ID 用于第二步
// @Tags         结果提交
// @Accept       json
// @Produce      json
// @Param        request body service.SubmitTotalsRequest true "总票数信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /submissions/step1 [post]
// @Security     BearerAuth
func (c *SubmissionController) Step1(ctx *gin.Context) {
	var req service.SubmitTotalsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	submission, err := c.twoStepService.SubmitTotals(ctx.Request.Context(), &req)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, submission)
}

// Step2 两步提交第二步
// @Summary      录入各候选人票数
// @Description  总和校验通过后定稿提交并同步全部结果表
// @Tags         结果提交
// @Accept       json
// @Produce      json
// @Param        request body service.SubmitCandidateVotesRequest true "候选人票数"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /submissions/step2 [post]
// @Security     BearerAuth
func (c *SubmissionController) Step2(ctx *gin.Context) {
	var req service.SubmitCandidateVotesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	submission, err := c.twoStepService.SubmitCandidateVotes(ctx.Request.Context(), &req)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	c.broadcastStationUpdate(submission.PollingStationID, submission.Status)
	Success(ctx, submission)
}

// Draft 恢复草稿
// @Summary      恢复进行中的提交
// @Description  返回第一步字段和第二步候选人票数,未录入的在选候选人默认 0 票
// @Tags         结果提交
// @Accept       json
// @Produce      json
// @Param        id path int true "提交 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /submissions/{id}/draft [get]
// @Security     BearerAuth
func (c *SubmissionController) Draft(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	draft, err := c.twoStepService.ResumeDraft(ctx.Request.Context(), id)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, draft)
}

// Get 获取提交详情
// @Summary      获取提交详情
// @Tags         结果提交
// @Produce      json
// @Param        id path int true "提交 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /submissions/{id} [get]
// @Security     BearerAuth
func (c *SubmissionController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	submission, err := c.submissionService.Get(id)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, submission)
}

// List 查询提交列表
// @Summary      查询提交列表
// @Tags         结果提交
// @Produce      json
// @Param        status query string false "状态过滤"
// @Param        polling_station_id query int false "投票站过滤"
// @Success      200  {object}  Response
// @Router       /submissions [get]
// @Security     BearerAuth
func (c *SubmissionController) List(ctx *gin.Context) {
	filter := &repository.SubmissionFilter{}
	if status := ctx.Query("status"); status != "" {
		filter.Status = &status
	}
	if stationStr := ctx.Query("polling_station_id"); stationStr != "" {
		stationID, err := strconv.Atoi(stationStr)
		if err != nil {
			Error(ctx, http.StatusBadRequest, "invalid polling_station_id", "must be an integer")
			return
		}
		filter.PollingStationID = &stationID
	}

	submissions, err := c.submissionService.List(filter)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, submissions)
}

// Details 获取提交的候选人明细
// @Summary      获取提交明细
// @Tags         结果提交
// @Produce      json
// @Param        id path int true "提交 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /submissions/{id}/details [get]
// @Security     BearerAuth
func (c *SubmissionController) Details(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	details, err := c.submissionService.Details(id)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, details)
}

// ChangeStatus 落定提交状态
// @Summary      落定提交状态
// @Description  把提交置为 verified 或 rejected,verified 时一并翻转结果表标记
// @Tags         结果提交
// @Accept       json
// @Produce      json
// @Param        id path int true "提交 ID"
// @Param        request body service.ChangeStatusRequest true "目标状态"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /submissions/{id}/status [post]
// @Security     BearerAuth
func (c *SubmissionController) ChangeStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req service.ChangeStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if err := c.submissionService.ChangeStatus(ctx.Request.Context(), id, &req); err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, nil)
}

// Delete 删除提交
// @Summary      删除提交
// @Description  已审核的提交拒绝删除
// @Tags         结果提交
// @Produce      json
// @Param        id path int true "提交 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /submissions/{id} [delete]
// @Security     BearerAuth
func (c *SubmissionController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.submissionService.Delete(ctx.Request.Context(), id); err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, nil)
}

// broadcastStationUpdate 广播投票站结果变更
func (c *SubmissionController) broadcastStationUpdate(stationID int, status string) {
	if c.hub == nil {
		return
	}
	c.hub.BroadcastStationEvent(stationID, &websocket.StationEvent{
		Type:             "submission_updated",
		PollingStationID: stationID,
		Status:           status,
	})
}
