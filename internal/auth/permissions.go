package auth

import "github.com/clinicpos/record-api/internal/model"

// Permission names an operation class that roles grant.
type Permission string

const (
	PermCreatePatients     Permission = "patients:create"
	PermViewPatients       Permission = "patients:view"
	PermCreateAppointments Permission = "appointments:create"
	PermManageStaff        Permission = "staff:manage"
)

var rolePermissions = map[model.Role]map[Permission]struct{}{
	model.RoleAdmin: {
		PermCreatePatients:     {},
		PermViewPatients:       {},
		PermCreateAppointments: {},
		PermManageStaff:        {},
	},
	model.RoleUser: {
		PermCreatePatients:     {},
		PermViewPatients:       {},
		PermCreateAppointments: {},
	},
	model.RoleViewer: {
		PermViewPatients: {},
	},
}

// HasPermission reports whether the role grants the permission.
func HasPermission(role model.Role, permission Permission) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = perms[permission]
	return ok
}
