package domain

import "time"

// Role identifies the position a member holds in the congregation.
type Role string

const (
	RoleMember     Role = "member"
	RoleAdmin      Role = "admin"
	RoleReverend   Role = "reverend"
	RoleEvangelist Role = "evangelist"
)

// ValidRole reports whether the value is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleMember, RoleAdmin, RoleReverend, RoleEvangelist:
		return true
	}
	return false
}

// User is a registered member of the congregation. PasswordHash never leaves
// the persistence and auth layers.
type User struct {
	ID           string
	Name         string
	Email        string
	PhoneNumber  string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
