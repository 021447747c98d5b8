// Package access holds the authorization guard: who may manage stock and which barangays a caller sees.
// Every boundary (route middleware, use case, list query) calls these same predicates.
package access

import (
	"strings"

	"github.com/nagacare/health-admin-api/internal/domain/entity"
)

// CanManageInventory reports whether role holds inventory-management rights.
// Only community health workers do; admin and staff manage applications and appointments.
func CanManageInventory(role string) bool {
	return role == entity.RoleWorkers
}

// IsInScope reports whether a caller with role and assignedBarangay may see or act on targetBarangay.
// Admins see everything; everyone else only their own assigned barangay.
func IsInScope(role, assignedBarangay, targetBarangay string) bool {
	if role == entity.RoleAdmin {
		return true
	}
	assigned := NormalizeBarangay(assignedBarangay)
	if assigned == "" {
		return false
	}
	return assigned == NormalizeBarangay(targetBarangay)
}

// CanView applies IsInScope to a record owned by recordBarangay.
// Records without an owning barangay (central supply) are visible to any authenticated caller.
func CanView(p *entity.Principal, recordBarangay string) bool {
	if p == nil {
		return false
	}
	if NormalizeBarangay(recordBarangay) == "" {
		return true
	}
	return IsInScope(p.Role, p.AssignedBarangay, recordBarangay)
}

// VisibleBarangays returns the barangay filter for list queries: nil for admins (no filter),
// otherwise the caller's barangay plus the central supply. ok is false when a non-admin
// has no assigned barangay.
func VisibleBarangays(p *entity.Principal) (barangays []string, ok bool) {
	if p == nil {
		return nil, false
	}
	if p.Role == entity.RoleAdmin {
		return nil, true
	}
	assigned := NormalizeBarangay(p.AssignedBarangay)
	if assigned == "" {
		return nil, false
	}
	return []string{assigned, ""}, true
}

// NormalizeBarangay trims and upper-cases a barangay name the way it is stored.
func NormalizeBarangay(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
