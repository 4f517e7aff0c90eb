// Package rbac maps roles to the operations their route groups may
// reach. It is a static table: roles are fixed at account creation.
package rbac

import "workload/internal/model"

const (
	PermissionCreateEmployee = "employee:create"
	PermissionListEmployees  = "employee:list"
	PermissionCreateTask     = "task:create"
	PermissionDeleteTask     = "task:delete"
	PermissionReadAllTasks   = "task:read_all"
	PermissionReadOwnTasks   = "task:read_own"
	PermissionUpdateStatus   = "task:update_status"
	PermissionComment        = "task:comment"
)

var rolePermissions = map[model.Role][]string{
	model.RoleAdmin: {
		PermissionCreateEmployee,
		PermissionListEmployees,
		PermissionCreateTask,
		PermissionDeleteTask,
		PermissionReadAllTasks,
	},
	model.RoleEmployee: {
		PermissionReadOwnTasks,
		PermissionUpdateStatus,
		PermissionComment,
	},
}

// HasPermission checks whether a role grants the given permission.
func HasPermission(role model.Role, permission string) bool {
	permissions, ok := rolePermissions[role]
	if !ok {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// CheckPermission returns a typed error when the role lacks the
// permission, so handlers can map it to a response.
func CheckPermission(role model.Role, permission string) error {
	if !HasPermission(role, permission) {
		return &PermissionDeniedError{
			Role:       role,
			Permission: permission,
		}
	}
	return nil
}

type PermissionDeniedError struct {
	Role       model.Role
	Permission string
}

func (e *PermissionDeniedError) Error() string {
	return "insufficient permissions"
}
