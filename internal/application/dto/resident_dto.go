package dto

import "time"

// ScanRequest body for POST /api/scanner/scan.
type ScanRequest struct {
	Raw        string `json:"raw" validate:"required,max=2048"`
	DeviceInfo string `json:"device_info,omitempty" validate:"omitempty,max=255"`
	Notes      string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ResidentResponse resident record.
type ResidentResponse struct {
	ID            string `json:"id"`
	FullName      string `json:"full_name"`
	Barangay      string `json:"barangay"`
	Purok         string `json:"purok,omitempty"`
	BirthDate     string `json:"birth_date,omitempty"`
	Sex           string `json:"sex,omitempty"`
	ContactNumber string `json:"contact_number,omitempty"`
	PhilhealthNo  string `json:"philhealth_no,omitempty"`
}

// ScanLogResponse one past scan.
type ScanLogResponse struct {
	ID         string    `json:"id"`
	ScannedBy  string    `json:"scanned_by"`
	ScannedAt  time.Time `json:"scanned_at"`
	DeviceInfo string    `json:"device_info,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}

// ResidentProfileResponse resident plus recent scans.
type ResidentProfileResponse struct {
	Resident    ResidentResponse  `json:"resident"`
	RecentScans []ScanLogResponse `json:"recent_scans"`
}
