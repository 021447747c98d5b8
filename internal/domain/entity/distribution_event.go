package entity

import "time"

// Distribution action types.
const (
	ActionAllocate     = "allocate"
	ActionDispense     = "dispense"
	ActionRestock      = "restock"
	ActionRedistribute = "redistribute"
	ActionAdjust       = "adjust"
)

// Adjustment directions for ActionAdjust.
const (
	AdjustIncrease = "increase"
	AdjustDecrease = "decrease"
)

// IsValidActionType reports whether t is one of the five distribution actions.
func IsValidActionType(t string) bool {
	switch t {
	case ActionAllocate, ActionDispense, ActionRestock, ActionRedistribute, ActionAdjust:
		return true
	}
	return false
}

// DistributionEvent is the append-only record of one successful distribution action.
type DistributionEvent struct {
	ID           string
	ActionType   string
	MedicationID string
	Quantity     int64 // always positive
	Barangay     string
	FromBarangay string
	ToBarangay   string
	Notes        string
	PerformedBy  string
	OccurredAt   time.Time

	// Populated on reads.
	MedicineName string
	BatchNumber  string
}
