package entity

import "time"

// Resident is a registered barangay resident.
type Resident struct {
	ID            string
	Barangay      string
	Purok         string
	FullName      string
	BirthDate     *time.Time
	Sex           string
	ContactNumber string
	PhilhealthNo  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ScanLog records a successful QR identification of a resident.
type ScanLog struct {
	ID         string
	ResidentID string
	ScannedBy  string
	ScannedAt  time.Time
	DeviceInfo string
	Notes      string
}
