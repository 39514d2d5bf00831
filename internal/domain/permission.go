package domain

type Role string

const (
	RoleDeveloper Role = "DEVELOPER"
	RoleMaster    Role = "MASTER"
	RoleAdmin     Role = "ADMIN"
	RoleAgent     Role = "AGENT"
)

type Permission string

const (
	PermissionProposalView         Permission = "proposal:view"
	PermissionProposalCreate       Permission = "proposal:create"
	PermissionProposalUpdate       Permission = "proposal:update"
	PermissionProposalChangeStatus Permission = "proposal:change_status"
	PermissionProposalDelete       Permission = "proposal:delete"
	PermissionProposalHardDelete   Permission = "proposal:hard_delete"
	PermissionProposalManageAll    Permission = "proposal:manage_all"
	PermissionBookingView          Permission = "booking:view"
	PermissionUserView             Permission = "user:view"
	PermissionUserManage           Permission = "user:manage"
	PermissionAgencySettings       Permission = "agency:settings"
	PermissionSystemJobs           Permission = "system:jobs"
)

var roleLevels = map[Role]int{
	RoleAgent:     1,
	RoleAdmin:     2,
	RoleMaster:    3,
	RoleDeveloper: 4,
}

var rolePermissions = buildRolePermissions()

// Cada papel herda as permissões do papel imediatamente abaixo
func buildRolePermissions() map[Role]map[Permission]bool {
	agent := []Permission{
		PermissionProposalView,
		PermissionProposalCreate,
		PermissionProposalUpdate,
		PermissionProposalChangeStatus,
		PermissionProposalDelete,
		PermissionBookingView,
	}
	admin := append(append([]Permission{}, agent...),
		PermissionProposalHardDelete,
		PermissionProposalManageAll,
		PermissionUserView,
		PermissionUserManage,
	)
	master := append(append([]Permission{}, admin...),
		PermissionAgencySettings,
	)
	developer := append(append([]Permission{}, master...),
		PermissionSystemJobs,
	)

	table := map[Role]map[Permission]bool{}
	for role, permissions := range map[Role][]Permission{
		RoleAgent:     agent,
		RoleAdmin:     admin,
		RoleMaster:    master,
		RoleDeveloper: developer,
	} {
		table[role] = make(map[Permission]bool, len(permissions))
		for _, permission := range permissions {
			table[role][permission] = true
		}
	}

	return table
}

func (r Role) IsValid() bool {
	_, ok := roleLevels[r]
	return ok
}

func (r Role) Level() int {
	return roleLevels[r]
}

// AtLeast compara a hierarquia DEVELOPER > MASTER > ADMIN > AGENT
func (r Role) AtLeast(other Role) bool {
	return r.IsValid() && r.Level() >= other.Level()
}

func (r Role) HasPermission(permission Permission) bool {
	return rolePermissions[r][permission]
}

func (r Role) Permissions() []Permission {
	permissions := make([]Permission, 0, len(rolePermissions[r]))
	for permission := range rolePermissions[r] {
		permissions = append(permissions, permission)
	}
	return permissions
}
