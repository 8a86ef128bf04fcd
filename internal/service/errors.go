package service

import (
	"errors"
	"fmt"
	"strings"
)

// 校验错误码
const (
	CodeVotesExceedRegistered = "votes_exceed_registered"
	CodeVoteSumMismatch       = "vote_sum_mismatch"
	CodeNegativeVotes         = "negative_votes"
	CodeMissingField          = "missing_field"
	CodeUnknownCandidate      = "unknown_candidate"
	CodeInvalidStatus         = "invalid_status"
)

// 冲突原因
const (
	ConflictSubmissionVerified     = "submission_verified"
	ConflictSubmissionNotSubmitted = "submission_not_submitted"
	ConflictHasHistory             = "has_history"
	ConflictStaleSubmission        = "stale_submission"
	ConflictTaskTerminal           = "task_terminal"
)

// ErrUnavailable 下游依赖不可用
// 数据层故障时原样上抛,不降级为演示数据
var ErrUnavailable = errors.New("service unavailable")

// ValidationError 单字段校验错误
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error 实现 error 接口
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors 校验错误集合
// 一次提交的全部校验问题一并返回,不在第一个错误处截断
type ValidationErrors []*ValidationError

// Error 实现 error 接口
func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "; ")
}

// NotFoundError 资源不存在错误
type NotFoundError struct {
	Resource string
	ID       string
}

// Error 实现 error 接口
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError 业务状态冲突错误
type ConflictError struct {
	Reason  string
	Message string
}

// Error 实现 error 接口
func (e *ConflictError) Error() string {
	return e.Message
}

// IsNotFound 判断是否为资源不存在错误
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// IsConflict 判断是否为业务冲突错误
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
