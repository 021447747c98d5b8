package entity

import "time"

// Session is the server-side record behind an opaque session token.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Username         string    `json:"username"`
	Role             string    `json:"role"`
	AssignedBarangay string    `json:"assigned_barangay"`
	CreatedAt        time.Time `json:"created_at"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// Principal is the authenticated caller resolved from a session.
type Principal struct {
	ID               string
	Username         string
	Role             string
	AssignedBarangay string
	SessionID        string
	SessionExpiry    time.Time
}

// PrincipalFromSession projects a session record into a Principal.
func PrincipalFromSession(s *Session) *Principal {
	return &Principal{
		ID:               s.UserID,
		Username:         s.Username,
		Role:             s.Role,
		AssignedBarangay: s.AssignedBarangay,
		SessionID:        s.ID,
		SessionExpiry:    s.ExpiresAt,
	}
}
