package model

import "errors"

// ResultSubmissionDetailModel 提交明细数据模型
// 每条记录对应 (提交, 候选人) 一对;重新提交时整体替换,从不增量修补
type ResultSubmissionDetailModel struct {
	ID           int     `gorm:"primaryKey;autoIncrement" json:"id"`
	SubmissionID int     `gorm:"not null;uniqueIndex:idx_detail_submission_candidate" json:"submission_id"`
	CandidateID  int     `gorm:"not null;uniqueIndex:idx_detail_submission_candidate" json:"candidate_id"`
	Votes        int     `gorm:"not null;default:0" json:"votes"`
	Percentage   float64 `gorm:"not null;default:0" json:"percentage"`
}

// TableName 指定表名
func (ResultSubmissionDetailModel) TableName() string {
	return "result_submission_details"
}

// Validate 验证提交明细模型
func (rsdm *ResultSubmissionDetailModel) Validate() error {
	if rsdm.SubmissionID == 0 {
		return errors.New("submission ID is required")
	}
	if rsdm.CandidateID == 0 {
		return errors.New("candidate ID is required")
	}
	if rsdm.Votes < 0 {
		return errors.New("votes cannot be negative")
	}
	return nil
}
