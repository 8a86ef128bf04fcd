package repository

import (
	"github.com/mautops/election-gin/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HourlyTurnoutRepository 分时段参与率仓储接口
type HourlyTurnoutRepository interface {
	Upsert(turnout *model.HourlyTurnoutModel) error
	FindByStationID(stationID int) ([]*model.HourlyTurnoutModel, error)
	FindLatestByStationID(stationID int) (*model.HourlyTurnoutModel, error)
	FindByHour(hour int) ([]*model.HourlyTurnoutModel, error)
}

// hourlyTurnoutRepository 分时段参与率仓储实现
type hourlyTurnoutRepository struct {
	db *gorm.DB
}

// NewHourlyTurnoutRepository 创建分时段参与率仓储
func NewHourlyTurnoutRepository(db *gorm.DB) HourlyTurnoutRepository {
	return &hourlyTurnoutRepository{db: db}
}

// Upsert 保存分时段参与率
// 同一投票站同一小时重复上报时覆盖
func (r *hourlyTurnoutRepository) Upsert(turnout *model.HourlyTurnoutModel) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "polling_station_id"}, {Name: "hour"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"cumulative_votes", "turnout_rate", "reported_by", "reported_at", "updated_at",
		}),
	}).Create(turnout).Error
}

// FindByStationID 根据投票站 ID 查找分时段参与率
func (r *hourlyTurnoutRepository) FindByStationID(stationID int) ([]*model.HourlyTurnoutModel, error) {
	var turnouts []*model.HourlyTurnoutModel
	err := r.db.Where("polling_station_id = ?", stationID).Order("hour ASC").Find(&turnouts).Error
	return turnouts, err
}

// FindLatestByStationID 查找投票站最近一次上报
func (r *hourlyTurnoutRepository) FindLatestByStationID(stationID int) (*model.HourlyTurnoutModel, error) {
	var turnout model.HourlyTurnoutModel
	if err := r.db.Where("polling_station_id = ?", stationID).Order("hour DESC").First(&turnout).Error; err != nil {
		return nil, err
	}
	return &turnout, nil
}

// FindByHour 查找某一小时全部投票站的上报
func (r *hourlyTurnoutRepository) FindByHour(hour int) ([]*model.HourlyTurnoutModel, error) {
	var turnouts []*model.HourlyTurnoutModel
	err := r.db.Where("hour = ?", hour).Order("polling_station_id ASC").Find(&turnouts).Error
	return turnouts, err
}
