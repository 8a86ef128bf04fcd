package repository

import (
	"github.com/mautops/election-gin/internal/model"
	"github.com/mautops/election-gin/internal/utils"
	"gorm.io/gorm"
)

// PollingStationRepository 投票站仓储接口
type PollingStationRepository interface {
	Save(station *model.PollingStationModel) error
	FindByID(id int) (*model.PollingStationModel, error)
	FindAll() ([]*model.PollingStationModel, error)
	FindByFilter(filter *PollingStationFilter) ([]*model.PollingStationModel, error)
	Delete(id int) error
	CountByStatus(status string) (int64, error)
	SumRegisteredVoters() (int64, error)
}

// PollingStationFilter 投票站查询过滤器
// SortBy/SortOrder 来自查询参数,入库前必须过 utils 白名单清洗
type PollingStationFilter struct {
	Region         *string
	Department     *string
	Arrondissement *string
	Status         *string
	SortBy         string
	SortOrder      string
}

// stationSortFields 允许排序的列
var stationSortFields = map[string]bool{
	"name":              true,
	"region":            true,
	"department":        true,
	"registered_voters": true,
	"votes_submitted":   true,
	"turnout_rate":      true,
	"status":            true,
	"created_at":        true,
}

// pollingStationRepository 投票站仓储实现
type pollingStationRepository struct {
	db *gorm.DB
}

// NewPollingStationRepository 创建投票站仓储
func NewPollingStationRepository(db *gorm.DB) PollingStationRepository {
	return &pollingStationRepository{db: db}
}

// Save 保存投票站
func (r *pollingStationRepository) Save(station *model.PollingStationModel) error {
	return r.db.Save(station).Error
}

// FindByID 根据 ID 查找投票站
func (r *pollingStationRepository) FindByID(id int) (*model.PollingStationModel, error) {
	var station model.PollingStationModel
	if err := r.db.Where("id = ?", id).First(&station).Error; err != nil {
		return nil, err
	}
	return &station, nil
}

// FindAll 查找所有投票站
func (r *pollingStationRepository) FindAll() ([]*model.PollingStationModel, error) {
	var stations []*model.PollingStationModel
	err := r.db.Order("region ASC, name ASC").Find(&stations).Error
	return stations, err
}

// FindByFilter 根据过滤器查找投票站
func (r *pollingStationRepository) FindByFilter(filter *PollingStationFilter) ([]*model.PollingStationModel, error) {
	var stations []*model.PollingStationModel
	query := r.db.Model(&model.PollingStationModel{})

	order := "region ASC, name ASC"
	if filter != nil {
		if filter.Region != nil {
			query = query.Where("region = ?", *filter.Region)
		}
		if filter.Department != nil {
			query = query.Where("department = ?", *filter.Department)
		}
		if filter.Arrondissement != nil {
			query = query.Where("arrondissement = ?", *filter.Arrondissement)
		}
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.SortBy != "" {
			order = utils.OrderClause(filter.SortBy, filter.SortOrder, stationSortFields, order)
		}
	}

	err := query.Order(order).Find(&stations).Error
	return stations, err
}

// Delete 删除投票站
func (r *pollingStationRepository) Delete(id int) error {
	return r.db.Delete(&model.PollingStationModel{}, "id = ?", id).Error
}

// CountByStatus 按状态统计投票站数量
func (r *pollingStationRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&model.PollingStationModel{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// SumRegisteredVoters 统计全部登记选民数
func (r *pollingStationRepository) SumRegisteredVoters() (int64, error) {
	var total int64
	err := r.db.Model(&model.PollingStationModel{}).
		Select("COALESCE(SUM(registered_voters), 0)").
		Scan(&total).Error
	return total, err
}
