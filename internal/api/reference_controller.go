package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mautops/election-gin/internal/model"
	"github.com/mautops/election-gin/internal/repository"
	"github.com/mautops/election-gin/internal/utils"
)

// ReferenceController 参考数据控制器
// 候选人和投票站的读写端点;地理层级的批量管理不在本服务
type ReferenceController struct {
	candidateRepo repository.CandidateRepository
	stationRepo   repository.PollingStationRepository
}

// NewReferenceController 创建参考数据控制器
func NewReferenceController(
	candidateRepo repository.CandidateRepository,
	stationRepo repository.PollingStationRepository,
) *ReferenceController {
	return &ReferenceController{
		candidateRepo: candidateRepo,
		stationRepo:   stationRepo,
	}
}

// ListCandidates 查询候选人列表
// @Summary      查询候选人列表
// @Tags         参考数据
// @Produce      json
// @Param        active query bool false "只看在选候选人"
// @Success      200  {object}  Response
// @Router       /candidates [get]
// @Security     BearerAuth
func (c *ReferenceController) ListCandidates(ctx *gin.Context) {
	var candidates []*model.CandidateModel
	var err error

	if ctx.Query("active") == "true" {
		candidates, err = c.candidateRepo.FindActive()
	} else {
		candidates, err = c.candidateRepo.FindAll()
	}
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, candidates)
}

// GetCandidate 获取候选人详情
// @Summary      获取候选人详情
// @Tags         参考数据
// @Produce      json
// @Param        id path int true "候选人 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /candidates/{id} [get]
// @Security     BearerAuth
func (c *ReferenceController) GetCandidate(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	candidate, err := c.candidateRepo.FindByID(id)
	if err != nil {
		Error(ctx, http.StatusNotFound, "candidate not found", "")
		return
	}

	Success(ctx, candidate)
}

// CreateCandidate 创建候选人
// @Summary      创建候选人
// @Tags         参考数据
// @Accept       json
// @Produce      json
// @Param        request body model.CandidateModel true "候选人信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Router       /candidates [post]
// @Security     BearerAuth
func (c *ReferenceController) CreateCandidate(ctx *gin.Context) {
	var candidate model.CandidateModel
	if err := ctx.ShouldBindJSON(&candidate); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	if err := utils.ValidatePersonName(candidate.FirstName); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid first name", err.Error())
		return
	}
	if err := utils.ValidatePersonName(candidate.LastName); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid last name", err.Error())
		return
	}
	if err := candidate.Validate(); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid candidate", err.Error())
		return
	}

	if err := c.candidateRepo.Save(&candidate); err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, candidate)
}

// ListStations 查询投票站列表
// @Summary      查询投票站列表
// @Tags         参考数据
// @Produce      json
// @Param        region query string false "大区过滤"
// @Param        status query string false "状态过滤"
// @Success      200  {object}  Response
// @Router       /polling-stations [get]
// @Security     BearerAuth
func (c *ReferenceController) ListStations(ctx *gin.Context) {
	filter := &repository.PollingStationFilter{}
	if region := ctx.Query("region"); region != "" {
		filter.Region = &region
	}
	if department := ctx.Query("department"); department != "" {
		filter.Department = &department
	}
	if status := ctx.Query("status"); status != "" {
		filter.Status = &status
	}
	filter.SortBy = ctx.Query("sort")
	filter.SortOrder = ctx.Query("order")

	stations, err := c.stationRepo.FindByFilter(filter)
	if err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, stations)
}

// GetStation 获取投票站详情
// @Summary      获取投票站详情
// @Tags         参考数据
// @Produce      json
// @Param        id path int true "投票站 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /polling-stations/{id} [get]
// @Security     BearerAuth
func (c *ReferenceController) GetStation(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	station, err := c.stationRepo.FindByID(id)
	if err != nil {
		Error(ctx, http.StatusNotFound, "polling station not found", "")
		return
	}

	Success(ctx, station)
}

// CreateStation 创建投票站
// @Summary      创建投票站
// @Tags         参考数据
// @Accept       json
// @Produce      json
// @Param        request body model.PollingStationModel true "投票站信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Router       /polling-stations [post]
// @Security     BearerAuth
func (c *ReferenceController) CreateStation(ctx *gin.Context) {
	var station model.PollingStationModel
	if err := ctx.ShouldBindJSON(&station); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	if err := utils.ValidateStationName(station.Name); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid station name", err.Error())
		return
	}
	if err := station.Validate(); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid polling station", err.Error())
		return
	}
	if station.Status == "" {
		station.Status = model.StationStatusPending
	}

	if err := c.stationRepo.Save(&station); err != nil {
		HandleServiceError(ctx, err)
		return
	}

	Success(ctx, station)
}
