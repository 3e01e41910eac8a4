package security

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/infrastructure/logger"
)

func TestPermissionFor(t *testing.T) {
	cases := []struct {
		kind   domain.Kind
		action domain.Action
		want   Permission
	}{
		{domain.KindEmployee, domain.GetAll, PermReadRecords},
		{domain.KindAllocation, domain.GetAllocDelByEmpName, PermReadRecords},
		{domain.KindProject, domain.DownloadExcel, PermExportRecords},
		{domain.KindAllocation, domain.Add, PermWriteAllocations},
		{domain.KindAllocation, domain.UpdateID, PermWriteAllocations},
		{domain.KindProject, domain.Add, PermWriteRecords},
		{domain.KindEmployee, domain.UpdateName, PermWriteRecords},
		{domain.KindAllocation, domain.DeleteEmpID, PermDeleteRecords},
		{domain.KindEmployee, domain.DeleteAll, PermDeleteRecords},
		{domain.KindGeneric, domain.RegisterWithDetails, PermManageUsers},
		{domain.KindGeneric, domain.UpdatePassword, PermReadRecords},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PermissionFor(tc.kind, tc.action), "%s/%s", tc.kind, tc.action)
	}
}

func TestMembersCannotDelete(t *testing.T) {
	as := NewAuthorizationService(logger.Discard())

	assert.NoError(t, as.ValidatePermission(RoleFor(false), PermWriteAllocations))
	assert.Error(t, as.ValidatePermission(RoleFor(false), PermDeleteRecords))
	assert.Error(t, as.ValidatePermission(RoleFor(false), PermManageUsers))
	assert.NoError(t, as.ValidatePermission(RoleFor(true), PermDeleteRecords))
	assert.Len(t, as.GetRolePermissions(RoleAdmin), 6)
}
