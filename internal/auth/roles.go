package auth

// 角色
const (
	RoleSuperAdmin      = "SuperAdmin"
	RoleAdministrator   = "Administrator"
	RoleSupervisor      = "Supervisor"
	RoleOperator        = "Operator"
	RoleObserver        = "Observer"
	RolePresidentBureau = "PresidentBureau"
	RoleAssesseur       = "Assesseur"
)

// AllRoles 全部已知角色
func AllRoles() []string {
	return []string{
		RoleSuperAdmin,
		RoleAdministrator,
		RoleSupervisor,
		RoleOperator,
		RoleObserver,
		RolePresidentBureau,
		RoleAssesseur,
	}
}
