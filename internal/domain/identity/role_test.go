package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Classification(t *testing.T) {
	tests := []struct {
		role      Role
		manager   bool
		chainWide bool
	}{
		{RoleDistrictManager, true, true},
		{RoleStoreManager, true, false},
		{RoleShiftLeader, false, false},
		{RoleSalesAssociate, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			assert.True(t, tt.role.IsValid())
			assert.Equal(t, tt.manager, tt.role.IsManager())
			assert.Equal(t, tt.chainWide, tt.role.IsChainWide())
		})
	}
	assert.False(t, Role("XX").IsValid())
}

func TestRole_CanManage(t *testing.T) {
	assert.True(t, RoleDistrictManager.CanManage(RoleDistrictManager))
	assert.True(t, RoleDistrictManager.CanManage(RoleSalesAssociate))
	assert.True(t, RoleStoreManager.CanManage(RoleShiftLeader))
	assert.True(t, RoleStoreManager.CanManage(RoleSalesAssociate))
	assert.False(t, RoleStoreManager.CanManage(RoleStoreManager))
	assert.False(t, RoleStoreManager.CanManage(RoleDistrictManager))
	assert.False(t, RoleShiftLeader.CanManage(RoleSalesAssociate))
	assert.False(t, RoleSalesAssociate.CanManage(RoleSalesAssociate))
}

func TestRole_Permissions(t *testing.T) {
	t.Run("payroll generation is DM only", func(t *testing.T) {
		assert.True(t, RoleDistrictManager.HasPermission(PermPayrollGenerate))
		for _, r := range []Role{RoleStoreManager, RoleShiftLeader, RoleSalesAssociate} {
			assert.False(t, r.HasPermission(PermPayrollGenerate), r)
		}
	})

	t.Run("transfer approval needs a manager", func(t *testing.T) {
		assert.True(t, RoleStoreManager.HasPermission(PermTransferApprove))
		assert.False(t, RoleShiftLeader.HasPermission(PermTransferApprove))
		assert.True(t, RoleShiftLeader.HasPermission(PermTransferCreate))
		assert.False(t, RoleSalesAssociate.HasPermission(PermTransferCreate))
	})

	t.Run("everyone sells and clocks in", func(t *testing.T) {
		for _, r := range AllRoles {
			assert.True(t, r.HasPermission(PermSalesCreate), r)
			assert.True(t, r.HasPermission(PermAttendanceSelf), r)
		}
	})

	t.Run("grants are cumulative", func(t *testing.T) {
		for i := 1; i < len(AllRoles); i++ {
			senior := AllRoles[i-1]
			for _, p := range AllRoles[i].Permissions() {
				assert.True(t, senior.HasPermission(p), "%s should inherit %s", senior, p)
			}
		}
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		perms := RoleSalesAssociate.Permissions()
		perms[0] = "tampered"
		assert.NotEqual(t, "tampered", RoleSalesAssociate.Permissions()[0])
	})

	assert.False(t, Role("XX").HasPermission(PermStoreRead))
}
