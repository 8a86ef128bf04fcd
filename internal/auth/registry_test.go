package auth_test

import (
	"testing"

	"github.com/mautops/election-gin/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPermissionID 测试权限 ID 格式
func TestPermissionID(t *testing.T) {
	assert.Equal(t, "results.verify", auth.PermissionID(auth.ResourceResults, auth.ActionVerify))
	assert.Equal(t, "users.read", auth.PermissionID("Users", "READ"))
}

// TestPermissionRegistry_Get 测试按 ID 查权限
func TestPermissionRegistry_Get(t *testing.T) {
	registry := auth.NewPermissionRegistry()

	perm, ok := registry.Get("results.publish")
	require.True(t, ok)
	assert.Equal(t, auth.ResourceResults, perm.Resource)
	assert.Equal(t, auth.ActionPublish, perm.Action)
	assert.Equal(t, auth.LevelCritical, perm.Level)

	_, ok = registry.Get("results.dance")
	assert.False(t, ok)
}

// TestPermissionRegistry_AllPermissions 测试全量权限排序稳定
func TestPermissionRegistry_AllPermissions(t *testing.T) {
	registry := auth.NewPermissionRegistry()

	perms := registry.AllPermissions()
	require.NotEmpty(t, perms)
	for i := 1; i < len(perms); i++ {
		assert.Less(t, perms[i-1].ID, perms[i].ID)
	}
}

// TestPermissionRegistry_SuperAdmin 测试超级管理员全量授权
func TestPermissionRegistry_SuperAdmin(t *testing.T) {
	registry := auth.NewPermissionRegistry()

	for _, perm := range registry.AllPermissions() {
		assert.True(t, registry.RoleHasPermission(auth.RoleSuperAdmin, perm.ID),
			"SuperAdmin should hold %s", perm.ID)
	}
	assert.True(t, registry.RoleHasPermission(auth.RoleSuperAdmin, "system.admin"))
}

// TestPermissionRegistry_Administrator 测试管理员不含 admin 操作
func TestPermissionRegistry_Administrator(t *testing.T) {
	registry := auth.NewPermissionRegistry()

	assert.True(t, registry.RoleHasPermission(auth.RoleAdministrator, "users.delete"))
	assert.True(t, registry.RoleHasPermission(auth.RoleAdministrator, "results.publish"))
	assert.False(t, registry.RoleHasPermission(auth.RoleAdministrator, "system.admin"))
}

// TestPermissionRegistry_Observer 测试观察员只读
func TestPermissionRegistry_Observer(t *testing.T) {
	registry := auth.NewPermissionRegistry()

	assert.True(t, registry.RoleHasPermission(auth.RoleObserver, "results.read"))
	assert.True(t, registry.RoleHasPermission(auth.RoleObserver, "candidates.read"))
	assert.False(t, registry.RoleHasPermission(auth.RoleObserver, "results.create"))
	assert.False(t, registry.RoleHasPermission(auth.RoleObserver, "results.delete"))
	assert.False(t, registry.RoleHasPermission(auth.RoleObserver, "results.verify"))
}

// TestPermissionRegistry_Operator 测试录入员可写计票
func TestPermissionRegistry_Operator(t *testing.T) {
	registry := auth.NewPermissionRegistry()

	assert.True(t, registry.RoleHasPermission(auth.RoleOperator, "results.create"))
	assert.True(t, registry.RoleHasPermission(auth.RoleOperator, "results.update"))
	assert.True(t, registry.RoleHasPermission(auth.RoleOperator, "pollingstations.read"))
	assert.False(t, registry.RoleHasPermission(auth.RoleOperator, "results.verify"))
	assert.False(t, registry.RoleHasPermission(auth.RoleOperator, "results.delete"))
}

// TestPermissionRegistry_Supervisor 测试监督员可审核
func TestPermissionRegistry_Supervisor(t *testing.T) {
	registry := auth.NewPermissionRegistry()

	assert.True(t, registry.RoleHasPermission(auth.RoleSupervisor, "results.verify"))
	assert.True(t, registry.RoleHasPermission(auth.RoleSupervisor, "reports.export"))
	assert.False(t, registry.RoleHasPermission(auth.RoleSupervisor, "results.publish"))
	assert.False(t, registry.RoleHasPermission(auth.RoleSupervisor, "users.delete"))
}

// TestPermissionRegistry_BureauRoles 测试投票站角色的显式清单
func TestPermissionRegistry_BureauRoles(t *testing.T) {
	registry := auth.NewPermissionRegistry()

	assert.True(t, registry.RoleHasPermission(auth.RolePresidentBureau, "results.create"))
	assert.True(t, registry.RoleHasPermission(auth.RolePresidentBureau, "results.update"))
	assert.False(t, registry.RoleHasPermission(auth.RolePresidentBureau, "results.verify"))

	assert.True(t, registry.RoleHasPermission(auth.RoleAssesseur, "results.read"))
	assert.False(t, registry.RoleHasPermission(auth.RoleAssesseur, "results.create"))
}

// TestPermissionRegistry_UnknownRole 测试未知角色无任何权限
func TestPermissionRegistry_UnknownRole(t *testing.T) {
	registry := auth.NewPermissionRegistry()

	assert.False(t, registry.RoleHasPermission("Ghost", "results.read"))
	assert.Nil(t, registry.RolePermissions("Ghost"))
	assert.Equal(t, auth.PermissionLevel(0), registry.RoleMaxLevel("Ghost"))
}

// TestPermissionRegistry_RoleMaxLevel 测试角色最高风险等级
func TestPermissionRegistry_RoleMaxLevel(t *testing.T) {
	registry := auth.NewPermissionRegistry()

	assert.Equal(t, auth.LevelCritical, registry.RoleMaxLevel(auth.RoleSuperAdmin))
	assert.Equal(t, auth.LevelMedium, registry.RoleMaxLevel(auth.RoleObserver))
}

// TestPermissionRegistry_RolePermissionsSorted 测试角色权限列表排序稳定
func TestPermissionRegistry_RolePermissionsSorted(t *testing.T) {
	registry := auth.NewPermissionRegistry()

	ids := registry.RolePermissions(auth.RoleOperator)
	require.NotEmpty(t, ids)
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}
}
