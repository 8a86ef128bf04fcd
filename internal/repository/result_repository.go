package repository

import (
	"github.com/mautops/election-gin/internal/model"
	"gorm.io/gorm"
)

// ResultRepository 扁平结果仓储接口
type ResultRepository interface {
	FindByStationID(stationID int) ([]*model.ResultModel, error)
	FindByCandidateID(candidateID int) ([]*model.ResultModel, error)
	FindAll() ([]*model.ResultModel, error)
	SumVotesByCandidate() (map[int]int, error)
}

// resultRepository 扁平结果仓储实现
type resultRepository struct {
	db *gorm.DB
}

// NewResultRepository 创建扁平结果仓储
func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

// FindByStationID 根据投票站 ID 查找结果
func (r *resultRepository) FindByStationID(stationID int) ([]*model.ResultModel, error) {
	var results []*model.ResultModel
	err := r.db.Where("polling_station_id = ?", stationID).Order("candidate_id ASC").Find(&results).Error
	return results, err
}

// FindByCandidateID 根据候选人 ID 查找结果
func (r *resultRepository) FindByCandidateID(candidateID int) ([]*model.ResultModel, error) {
	var results []*model.ResultModel
	err := r.db.Where("candidate_id = ?", candidateID).Order("polling_station_id ASC").Find(&results).Error
	return results, err
}

// FindAll 查找所有结果
func (r *resultRepository) FindAll() ([]*model.ResultModel, error) {
	var results []*model.ResultModel
	err := r.db.Order("polling_station_id ASC, candidate_id ASC").Find(&results).Error
	return results, err
}

// candidateVoteSum 候选人票数聚合行
type candidateVoteSum struct {
	CandidateID int
	Total       int
}

// SumVotesByCandidate 按候选人聚合总票数
func (r *resultRepository) SumVotesByCandidate() (map[int]int, error) {
	var rows []candidateVoteSum
	err := r.db.Model(&model.ResultModel{}).
		Select("candidate_id, SUM(votes) AS total").
		Group("candidate_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[int]int, len(rows))
	for _, row := range rows {
		sums[row.CandidateID] = row.Total
	}
	return sums, nil
}
