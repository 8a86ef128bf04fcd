package auth

import (
	"fmt"
	"sort"
)

// actionLevel 声明表条目
type actionLevel struct {
	action Action
	level  PermissionLevel
}

// permissionTable 资源到操作的声明表
// 注册表的唯一数据来源,进程启动时展开一次
var permissionTable = map[string][]actionLevel{
	ResourceUsers: {
		{ActionRead, LevelMedium},
		{ActionCreate, LevelHigh},
		{ActionUpdate, LevelHigh},
		{ActionDelete, LevelCritical},
		{ActionManage, LevelCritical},
	},
	ResourceCandidates: {
		{ActionRead, LevelLow},
		{ActionCreate, LevelHigh},
		{ActionUpdate, LevelHigh},
		{ActionDelete, LevelCritical},
	},
	ResourceResults: {
		{ActionRead, LevelLow},
		{ActionCreate, LevelMedium},
		{ActionUpdate, LevelMedium},
		{ActionDelete, LevelHigh},
		{ActionVerify, LevelHigh},
		{ActionExport, LevelMedium},
		{ActionPublish, LevelCritical},
	},
	ResourcePollingStations: {
		{ActionRead, LevelLow},
		{ActionCreate, LevelHigh},
		{ActionUpdate, LevelMedium},
		{ActionDelete, LevelCritical},
		{ActionImport, LevelHigh},
	},
	ResourceReports: {
		{ActionRead, LevelLow},
		{ActionCreate, LevelMedium},
		{ActionExport, LevelMedium},
	},
	ResourceSystem: {
		{ActionRead, LevelMedium},
		{ActionManage, LevelCritical},
		{ActionAdmin, LevelCritical},
	},
	ResourceElections: {
		{ActionRead, LevelLow},
		{ActionCreate, LevelCritical},
		{ActionUpdate, LevelHigh},
		{ActionManage, LevelCritical},
	},
}

// PermissionRegistry 权限注册表
// 启动时构建一次,之后只读;按引用注入,不做全局单例
type PermissionRegistry struct {
	permissions map[string]*Permission
	rolePerms   map[string]map[string]struct{}
}

// NewPermissionRegistry 构建权限注册表
// 通用角色按等级和操作切片推导,特殊角色用显式清单
func NewPermissionRegistry() *PermissionRegistry {
	r := &PermissionRegistry{
		permissions: make(map[string]*Permission),
		rolePerms:   make(map[string]map[string]struct{}),
	}

	for resource, entries := range permissionTable {
		for _, e := range entries {
			id := PermissionID(resource, e.action)
			r.permissions[id] = &Permission{
				ID:          id,
				DisplayName: fmt.Sprintf("%s %s", e.action, resource),
				Description: fmt.Sprintf("allows %s on %s", e.action, resource),
				Resource:    resource,
				Action:      e.action,
				Level:       e.level,
			}
		}
	}

	r.rolePerms[RoleSuperAdmin] = r.selectPermissions(func(p *Permission) bool {
		return true
	})
	r.rolePerms[RoleAdministrator] = r.selectPermissions(func(p *Permission) bool {
		return p.Action != ActionAdmin
	})
	r.rolePerms[RoleSupervisor] = r.selectPermissions(func(p *Permission) bool {
		return p.Level <= LevelMedium || p.Action == ActionVerify || p.Resource == ResourceReports
	})
	r.rolePerms[RoleOperator] = r.selectPermissions(func(p *Permission) bool {
		if p.Level == LevelLow {
			return true
		}
		if p.Resource == ResourceResults && (p.Action == ActionCreate || p.Action == ActionUpdate) {
			return true
		}
		return false
	})
	r.rolePerms[RoleObserver] = r.selectPermissions(func(p *Permission) bool {
		return p.Action == ActionRead && p.Level <= LevelMedium
	})

	r.rolePerms[RolePresidentBureau] = r.explicitSet(
		PermissionID(ResourceResults, ActionRead),
		PermissionID(ResourceResults, ActionCreate),
		PermissionID(ResourceResults, ActionUpdate),
		PermissionID(ResourcePollingStations, ActionRead),
		PermissionID(ResourceCandidates, ActionRead),
		PermissionID(ResourceReports, ActionRead),
	)
	r.rolePerms[RoleAssesseur] = r.explicitSet(
		PermissionID(ResourceResults, ActionRead),
		PermissionID(ResourcePollingStations, ActionRead),
		PermissionID(ResourceCandidates, ActionRead),
	)

	return r
}

// selectPermissions 按谓词切出权限 ID 集合
func (r *PermissionRegistry) selectPermissions(keep func(*Permission) bool) map[string]struct{} {
	set := make(map[string]struct{})
	for id, p := range r.permissions {
		if keep(p) {
			set[id] = struct{}{}
		}
	}
	return set
}

// explicitSet 按显式清单构造权限 ID 集合
// 清单里引用未注册的 ID 属于编程错误,直接 panic
func (r *PermissionRegistry) explicitSet(ids ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := r.permissions[id]; !ok {
			panic(fmt.Sprintf("auth: unknown permission id %q in role definition", id))
		}
		set[id] = struct{}{}
	}
	return set
}

// Get 按 ID 查权限
func (r *PermissionRegistry) Get(id string) (*Permission, bool) {
	p, ok := r.permissions[id]
	return p, ok
}

// AllPermissions 返回全部权限,按 ID 排序
func (r *PermissionRegistry) AllPermissions() []*Permission {
	perms := make([]*Permission, 0, len(r.permissions))
	for _, p := range r.permissions {
		perms = append(perms, p)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i].ID < perms[j].ID })
	return perms
}

// RolePermissions 返回角色解析出的权限 ID 列表,排序稳定
func (r *PermissionRegistry) RolePermissions(role string) []string {
	set, ok := r.rolePerms[role]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RoleHasPermission 判断角色是否持有权限
func (r *PermissionRegistry) RoleHasPermission(role string, permissionID string) bool {
	set, ok := r.rolePerms[role]
	if !ok {
		return false
	}
	_, ok = set[permissionID]
	return ok
}

// RoleMaxLevel 角色持有权限的最高等级
func (r *PermissionRegistry) RoleMaxLevel(role string) PermissionLevel {
	set, ok := r.rolePerms[role]
	if !ok {
		return 0
	}
	var max PermissionLevel
	for id := range set {
		if p, ok := r.permissions[id]; ok && p.Level > max {
			max = p.Level
		}
	}
	return max
}
