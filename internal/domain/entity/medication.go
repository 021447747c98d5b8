package entity

import "time"

// Medication is one batch of a medicine held under a barangay (or the central supply when Barangay is empty).
// Quantity is never negative; it only changes through distribution actions.
type Medication struct {
	ID                string
	MedicineName      string
	Category          string
	BatchNumber       string
	Quantity          int64
	ExpirationDate    time.Time
	LowStockThreshold int64
	Barangay          string
	CreatedBy         string
	UpdatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsCentral reports whether the item belongs to the City Health Office central supply.
func (m *Medication) IsCentral() bool {
	return m.Barangay == ""
}

// MedicationPatch carries metadata edits. Nil fields are left untouched.
type MedicationPatch struct {
	MedicineName      *string
	Category          *string
	BatchNumber       *string
	ExpirationDate    *time.Time
	LowStockThreshold *int64
}

// IsEmpty reports whether the patch changes nothing.
func (p MedicationPatch) IsEmpty() bool {
	return p.MedicineName == nil && p.Category == nil && p.BatchNumber == nil &&
		p.ExpirationDate == nil && p.LowStockThreshold == nil
}
