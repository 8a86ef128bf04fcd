package auth

import (
	"fmt"
	"strings"
)

// PermissionLevel 权限风险等级
type PermissionLevel int

// 权限风险等级,从低到高
const (
	LevelLow PermissionLevel = iota + 1
	LevelMedium
	LevelHigh
	LevelCritical
)

// String 等级名称
func (l PermissionLevel) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelMedium:
		return "medium"
	case LevelHigh:
		return "high"
	case LevelCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Action 操作类型
type Action string

// 操作类型
const (
	ActionRead    Action = "read"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionManage  Action = "manage"
	ActionExport  Action = "export"
	ActionImport  Action = "import"
	ActionVerify  Action = "verify"
	ActionPublish Action = "publish"
	ActionAdmin   Action = "admin"
)

// 资源
const (
	ResourceUsers           = "users"
	ResourceCandidates      = "candidates"
	ResourceResults         = "results"
	ResourcePollingStations = "pollingstations"
	ResourceReports         = "reports"
	ResourceSystem          = "system"
	ResourceElections       = "elections"
)

// Permission 一项可授予的能力
// ID 恒为 "{resource}.{action}",全局唯一
type Permission struct {
	ID          string
	DisplayName string
	Description string
	Resource    string
	Action      Action
	Level       PermissionLevel
}

// PermissionID 构造权限 ID
func PermissionID(resource string, action Action) string {
	return fmt.Sprintf("%s.%s", strings.ToLower(resource), strings.ToLower(string(action)))
}
