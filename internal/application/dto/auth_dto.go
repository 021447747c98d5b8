package dto

import "time"

// LoginRequest body for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

// UserResponse account without credentials.
type UserResponse struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	Role             string `json:"role"`
	AssignedBarangay string `json:"assigned_barangay,omitempty"`
	Status           string `json:"status"`
}

// LoginResponse session token plus the logged-in account.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// PrincipalResponse body for GET /api/auth/me.
type PrincipalResponse struct {
	ID                 string    `json:"id"`
	Username           string    `json:"username"`
	Role               string    `json:"role"`
	AssignedBarangay   string    `json:"assigned_barangay,omitempty"`
	SessionExpiry      time.Time `json:"session_expiry"`
	CanManageInventory bool      `json:"can_manage_inventory"`
}
