package models

// Role names. The set is flat: no role implies another.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleWorker  = "worker"
)

// DefaultRole is assigned to every self-registered user.
const DefaultRole = RoleWorker

var knownRoles = map[string]bool{
	RoleAdmin:   true,
	RoleManager: true,
	RoleWorker:  true,
}

// IsValidRole reports whether role is one of the known role names.
func IsValidRole(role string) bool {
	return knownRoles[role]
}

// HasRole reports whether role is listed in allowed.
func HasRole(role string, allowed ...string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
