// internal/domain/models/roles.go
package models

// Roles determine visibility and mutation rights throughout the app.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleMember  = "member"
)

// ValidRole reports whether s is one of the three recognized roles.
func ValidRole(s string) bool {
	switch s {
	case RoleAdmin, RoleManager, RoleMember:
		return true
	}
	return false
}
