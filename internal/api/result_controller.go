package api

import (
	"github.com/gin-gonic/gin"
	"github.com/mautops/election-gin/internal/repository"
	"github.com/mautops/election-gin/internal/service"
)

// ResultController 结果查询控制器
// 只读端点,全部返回显式类型的投影
type ResultController struct {
	resultRepo         repository.ResultRepository
	electionResultRepo repository.ElectionResultRepository
	statisticsService  service.StatisticsService
}

// NewResultController 创建结果查询控制器
func NewResultController(
	resultRepo repository.ResultRepository,
	electionResultRepo repository.ElectionResultRepository,
	statisticsService service.StatisticsService,
) *ResultController {
	return &ResultController{
		resultRepo:         resultRepo,
		electionResultRepo: electionResultRepo,
		statisticsService:  statisticsService,
	}
}

// ByStation 查询投票站结果
// @Summary      查询投票站结果
// @Tags         结果查询
// @Produce      json
// @Param        id path int true "投票站 ID"
// @Success      200  {object}  Response
// @Router       /results/stations/{id} [get]
// @Security     BearerAuth
func (c *ResultController) ByStation(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	results, err := c.resultRepo.FindByStationID(id)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, results)
}

// ByCandidate 查询候选人的分站结果
// @Summary      查询候选人的分站结果
// @Tags         结果查询
// @Produce      json
// @Param        id path int true "候选人 ID"
// @Success      200  {object}  Response
// @Router       /results/candidates/{id} [get]
// @Security     BearerAuth
func (c *ResultController) ByCandidate(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	results, err := c.electionResultRepo.FindByCandidateID(id)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, results)
}

// CandidateSummary 候选人维度汇总
// @Summary      候选人维度汇总
// @Tags         统计
// @Produce      json
// @Success      200  {object}  Response
// @Router       /statistics/candidates [get]
// @Security     BearerAuth
func (c *ResultController) CandidateSummary(ctx *gin.Context) {
	stats, err := c.statisticsService.GetResultsByCandidate()
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, stats)
}

// RegionSummary 大区维度汇总
// @Summary      大区维度汇总
// @Tags         统计
// @Produce      json
// @Success      200  {object}  Response
// @Router       /statistics/regions [get]
// @Security     BearerAuth
func (c *ResultController) RegionSummary(ctx *gin.Context) {
	stats, err := c.statisticsService.GetResultsByRegion()
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, stats)
}

// NationalSummary 全国汇总
// @Summary      全国汇总
// @Tags         统计
// @Produce      json
// @Success      200  {object}  Response
// @Router       /statistics/national [get]
// @Security     BearerAuth
func (c *ResultController) NationalSummary(ctx *gin.Context) {
	summary, err := c.statisticsService.GetNationalSummary()
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, summary)
}

// SubmissionsByStatus 提交状态分布
// @Summary      提交状态分布
// @Tags         统计
// @Produce      json
// @Success      200  {object}  Response
// @Router       /statistics/submissions [get]
// @Security     BearerAuth
func (c *ResultController) SubmissionsByStatus(ctx *gin.Context) {
	stats, err := c.statisticsService.GetSubmissionStatisticsByStatus()
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, stats)
}
