package entity

import "time"

// Resource types recorded in the audit log.
const (
	AuditResourceMedication = "medication"
)

// AuditLog is an append-only audit row keyed by resource type and id.
type AuditLog struct {
	ID           string
	ResourceType string
	ResourceID   string
	ActorID      string
	Action       string
	Changes      map[string]any
	CreatedAt    time.Time
}
