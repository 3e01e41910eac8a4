package security

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
)

// Role represents a user role
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// RoleFor maps the admin flag of a session to a role.
func RoleFor(isAdmin bool) Role {
	if isAdmin {
		return RoleAdmin
	}
	return RoleMember
}

// Permission represents an action permission
type Permission string

const (
	PermReadRecords      Permission = "read_records"
	PermExportRecords    Permission = "export_records"
	PermWriteAllocations Permission = "write_allocations"
	PermWriteRecords     Permission = "write_records"
	PermDeleteRecords    Permission = "delete_records"
	PermManageUsers      Permission = "manage_users"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermReadRecords,
		PermExportRecords,
		PermWriteAllocations,
		PermWriteRecords,
		PermDeleteRecords,
		PermManageUsers,
	},
	RoleMember: {
		PermReadRecords,
		PermExportRecords,
		PermWriteAllocations,
	},
}

// PermissionFor returns what calling action on kind requires. Reads need
// PermReadRecords; allocation writes are open to members, other writes and
// every delete are admin-only.
func PermissionFor(kind domain.Kind, action domain.Action) Permission {
	switch {
	case action == domain.DownloadExcel:
		return PermExportRecords
	case action == domain.RegisterWithDetails:
		return PermManageUsers
	case kind == domain.KindGeneric:
		// session actions act on the caller's own login
		return PermReadRecords
	case action.Method() == http.MethodDelete:
		return PermDeleteRecords
	case action.Method() == http.MethodGet:
		return PermReadRecords
	case kind == domain.KindAllocation:
		return PermWriteAllocations
	}
	return PermWriteRecords
}

// AuthorizationService handles authorization checks
type AuthorizationService struct {
	logger *slog.Logger
}

// NewAuthorizationService creates a new authorization service
func NewAuthorizationService(logger *slog.Logger) *AuthorizationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthorizationService{
		logger: logger,
	}
}

// HasPermission checks if a role has a specific permission
func (as *AuthorizationService) HasPermission(role Role, permission Permission) bool {
	return slices.Contains(RolePermissions[role], permission)
}

// ValidatePermission validates that a role has a specific permission
func (as *AuthorizationService) ValidatePermission(role Role, permission Permission) error {
	if !as.HasPermission(role, permission) {
		as.logger.Warn("permission denied",
			slog.String("role", string(role)),
			slog.String("permission", string(permission)),
		)
		return fmt.Errorf("permission denied: %s role cannot %s", role, permission)
	}
	return nil
}

// GetRolePermissions returns all permissions for a role
func (as *AuthorizationService) GetRolePermissions(role Role) []Permission {
	return RolePermissions[role]
}
