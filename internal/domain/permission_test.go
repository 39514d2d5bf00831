package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_PermissionsAreCumulative(t *testing.T) {
	hierarchy := []Role{RoleAgent, RoleAdmin, RoleMaster, RoleDeveloper}

	for i := 1; i < len(hierarchy); i++ {
		lower, higher := hierarchy[i-1], hierarchy[i]
		for _, permission := range lower.Permissions() {
			assert.Truef(t, higher.HasPermission(permission), "%s deveria herdar %s de %s", higher, permission, lower)
		}
		assert.True(t, higher.AtLeast(lower))
		assert.False(t, lower.AtLeast(higher))
	}
}

func TestRole_HasPermission(t *testing.T) {
	tests := []struct {
		role       Role
		permission Permission
		expected   bool
	}{
		{RoleAgent, PermissionProposalCreate, true},
		{RoleAgent, PermissionProposalHardDelete, false},
		{RoleAgent, PermissionUserManage, false},
		{RoleAdmin, PermissionProposalHardDelete, true},
		{RoleAdmin, PermissionAgencySettings, false},
		{RoleMaster, PermissionAgencySettings, true},
		{RoleMaster, PermissionSystemJobs, false},
		{RoleDeveloper, PermissionSystemJobs, true},
		{Role("GUEST"), PermissionProposalView, false},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.expected, tt.role.HasPermission(tt.permission), "%s / %s", tt.role, tt.permission)
	}
}

func TestActor_CanManage(t *testing.T) {
	agent := Actor{UserID: "u1", Role: RoleAgent}
	admin := Actor{UserID: "u2", Role: RoleAdmin}

	assert.True(t, agent.CanManage("u1"))
	assert.False(t, agent.CanManage("u9"))
	assert.True(t, admin.CanManage("u9"))
	assert.True(t, SystemActor.CanManage("u9"))
	assert.True(t, SystemActor.IsSystem())
	assert.False(t, agent.IsSystem())
}
