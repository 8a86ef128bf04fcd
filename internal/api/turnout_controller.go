package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mautops/election-gin/internal/service"
)

// TurnoutController 分时段参与率控制器
type TurnoutController struct {
	turnoutService service.TurnoutService
}

// NewTurnoutController 创建分时段参与率控制器
func NewTurnoutController(turnoutService service.TurnoutService) *TurnoutController {
	return &TurnoutController{
		turnoutService: turnoutService,
	}
}

// Report 上报分时段参与率
// @Summary      上报分时段参与率
// @Description  投票日按小时上报累计投票人数,同站同小时重复上报按覆盖处理
// @Tags         参与率
// @Accept       json
// @Produce      json
// @Param        request body service.ReportTurnoutRequest true "参与率信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /turnouts [post]
// @Security     BearerAuth
func (c *TurnoutController) Report(ctx *gin.Context) {
	var req service.ReportTurnoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	turnout, err := c.turnoutService.Report(ctx.Request.Context(), &req)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, turnout)
}

// ByStation 查询投票站的分时段参与率
// @Summary      查询投票站的分时段参与率
// @Tags         参与率
// @Produce      json
// @Param        id path int true "投票站 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /turnouts/stations/{id} [get]
// @Security     BearerAuth
func (c *TurnoutController) ByStation(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	turnouts, err := c.turnoutService.GetByStation(id)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, turnouts)
}

// ByHour 查询某一小时全部投票站的上报
// @Summary      查询某一小时的参与率上报
// @Tags         参与率
// @Produce      json
// @Param        hour path int true "小时(0-23)"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Router       /turnouts/hours/{hour} [get]
// @Security     BearerAuth
func (c *TurnoutController) ByHour(ctx *gin.Context) {
	hour, err := strconv.Atoi(ctx.Param("hour"))
	if err != nil {
		Error(ctx, http.StatusBadRequest, "invalid hour", "must be an integer")
		return
	}

	turnouts, err := c.turnoutService.GetByHour(hour)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, turnouts)
}
