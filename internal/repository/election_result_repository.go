package repository

import (
	"github.com/mautops/election-gin/internal/model"
	"gorm.io/gorm"
)

// ElectionResultRepository 选举结果聚合仓储接口
type ElectionResultRepository interface {
	FindByCandidateID(candidateID int) ([]*model.ElectionResultModel, error)
	FindByStationID(stationID int) ([]*model.ElectionResultModel, error)
	FindAll() ([]*model.ElectionResultModel, error)
}

// electionResultRepository 选举结果聚合仓储实现
type electionResultRepository struct {
	db *gorm.DB
}

// NewElectionResultRepository 创建选举结果聚合仓储
func NewElectionResultRepository(db *gorm.DB) ElectionResultRepository {
	return &electionResultRepository{db: db}
}

// FindByCandidateID 根据候选人 ID 查找聚合结果
func (r *electionResultRepository) FindByCandidateID(candidateID int) ([]*model.ElectionResultModel, error) {
	var results []*model.ElectionResultModel
	err := r.db.Where("candidate_id = ?", candidateID).Order("polling_station_id ASC").Find(&results).Error
	return results, err
}

// FindByStationID 根据投票站 ID 查找聚合结果
func (r *electionResultRepository) FindByStationID(stationID int) ([]*model.ElectionResultModel, error) {
	var results []*model.ElectionResultModel
	err := r.db.Where("polling_station_id = ?", stationID).Order("candidate_id ASC").Find(&results).Error
	return results, err
}

// FindAll 查找所有聚合结果
func (r *electionResultRepository) FindAll() ([]*model.ElectionResultModel, error) {
	var results []*model.ElectionResultModel
	err := r.db.Order("candidate_id ASC, polling_station_id ASC").Find(&results).Error
	return results, err
}
