package auth

// Principal 已认证主体
// 角色和权限声明都来自认证层签发的 token,本包只消费不签发
type Principal struct {
	UserID        string
	Role          string
	Permissions   []string
	Authenticated bool
}

// Authorizer 授权决策服务
// 持有只读注册表,所有判定都是无状态纯查询
type Authorizer struct {
	registry *PermissionRegistry
}

// NewAuthorizer 创建授权决策服务
func NewAuthorizer(registry *PermissionRegistry) *Authorizer {
	return &Authorizer{registry: registry}
}

// CanPerformAction 判定主体能否对资源执行操作
// 未认证一律拒绝;先看显式权限声明,再落到角色解析
func (a *Authorizer) CanPerformAction(p *Principal, resource string, action Action) bool {
	if p == nil || !p.Authenticated {
		return false
	}

	id := PermissionID(resource, action)
	for _, claim := range p.Permissions {
		if claim == id {
			return true
		}
	}

	if p.Role == "" {
		return false
	}
	return a.registry.RoleHasPermission(p.Role, id)
}

// HasPermission 判定主体是否持有指定权限 ID
func (a *Authorizer) HasPermission(p *Principal, permissionID string) bool {
	if p == nil || !p.Authenticated {
		return false
	}
	for _, claim := range p.Permissions {
		if claim == permissionID {
			return true
		}
	}
	if p.Role == "" {
		return false
	}
	return a.registry.RoleHasPermission(p.Role, permissionID)
}

// HasMinimumPermissionLevel 判定主体是否在任意资源上达到指定风险等级
// 用于"至少有 Medium 级别访问"这类与具体资源无关的门槛检查
func (a *Authorizer) HasMinimumPermissionLevel(p *Principal, level PermissionLevel) bool {
	if p == nil || !p.Authenticated {
		return false
	}

	for _, claim := range p.Permissions {
		if perm, ok := a.registry.Get(claim); ok && perm.Level >= level {
			return true
		}
	}

	if p.Role == "" {
		return false
	}
	return a.registry.RoleMaxLevel(p.Role) >= level
}
