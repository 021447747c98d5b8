package entity

import "time"

// Roles known to the dashboard.
const (
	RoleAdmin         = "admin"
	RoleStaff         = "staff"
	RoleBarangayAdmin = "barangay_admin"
	RoleWorkers       = "workers"
)

// User statuses.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User is a dashboard account (public.users).
type User struct {
	ID               string
	Username         string
	PasswordHash     string // bcrypt
	Role             string
	AssignedBarangay string // empty for city-wide accounts
	Status           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsValidRole reports whether role is one of the known roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleStaff, RoleBarangayAdmin, RoleWorkers:
		return true
	}
	return false
}
