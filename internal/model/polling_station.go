package model

import (
	"errors"
	"time"
)

// 投票站状态
const (
	StationStatusPending   = "pending"
	StationStatusOpen      = "open"
	StationStatusClosed    = "closed"
	StationStatusReporting = "reporting"
)

// PollingStationModel 投票站数据模型
// 每个物理投票点对应一条记录;turnout_rate 始终由 votes_submitted 推导
type PollingStationModel struct {
	ID               int        `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string     `gorm:"type:varchar(255);not null;index" json:"name"`
	Region           string     `gorm:"type:varchar(100);index" json:"region,omitempty"`
	Department       string     `gorm:"type:varchar(100)" json:"department,omitempty"`
	Arrondissement   string     `gorm:"type:varchar(100)" json:"arrondissement,omitempty"`
	Commune          string     `gorm:"type:varchar(100)" json:"commune,omitempty"`
	Address          string     `gorm:"type:varchar(500)" json:"address,omitempty"`
	RegisteredVoters int        `gorm:"not null;default:0" json:"registered_voters"`
	VotesSubmitted   int        `gorm:"not null;default:0" json:"votes_submitted"`
	TurnoutRate      float64    `gorm:"not null;default:0" json:"turnout_rate"`
	Status           string     `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`
	LastUpdate       *time.Time `json:"last_update,omitempty"`
	CreatedAt        time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null" json:"updated_at"`
}

// TableName 指定表名
func (PollingStationModel) TableName() string {
	return "polling_stations"
}

// ComputeTurnout 重新计算参与率
// votes_submitted 变化时必须调用,参与率永远不独立录入
func (psm *PollingStationModel) ComputeTurnout() {
	if psm.RegisteredVoters > 0 {
		psm.TurnoutRate = float64(psm.VotesSubmitted) / float64(psm.RegisteredVoters) * 100
	} else {
		psm.TurnoutRate = 0
	}
}

// Validate 验证投票站模型
func (psm *PollingStationModel) Validate() error {
	if psm.Name == "" {
		return errors.New("polling station name is required")
	}
	if psm.RegisteredVoters < 0 {
		return errors.New("registered voters cannot be negative")
	}
	return nil
}
