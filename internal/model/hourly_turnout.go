package model

import (
	"errors"
	"time"
)

// HourlyTurnoutModel 分时段参与率数据模型
// 投票日当天按小时上报的累计投票人数,(投票站, 小时) 唯一
type HourlyTurnoutModel struct {
	ID               int       `gorm:"primaryKey;autoIncrement" json:"id"`
	PollingStationID int       `gorm:"not null;uniqueIndex:idx_turnout_station_hour" json:"polling_station_id"`
	Hour             int       `gorm:"not null;uniqueIndex:idx_turnout_station_hour" json:"hour"`
	CumulativeVotes  int       `gorm:"not null;default:0" json:"cumulative_votes"`
	TurnoutRate      float64   `gorm:"not null;default:0" json:"turnout_rate"`
	ReportedBy       int       `gorm:"not null" json:"reported_by"`
	ReportedAt       time.Time `gorm:"not null" json:"reported_at"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

// TableName 指定表名
func (HourlyTurnoutModel) TableName() string {
	return "hourly_turnouts"
}

// Validate 验证分时段参与率模型
func (htm *HourlyTurnoutModel) Validate() error {
	if htm.PollingStationID == 0 {
		return errors.New("polling station ID is required")
	}
	if htm.Hour < 0 || htm.Hour > 23 {
		return errors.New("hour must be between 0 and 23")
	}
	if htm.CumulativeVotes < 0 {
		return errors.New("cumulative votes cannot be negative")
	}
	if htm.ReportedBy == 0 {
		return errors.New("reported by is required")
	}
	return nil
}
