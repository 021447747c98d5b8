package dto

import "time"

// CreateMedicationRequest body for POST /api/medications. An empty barangay registers central supply.
type CreateMedicationRequest struct {
	MedicineName      string `json:"medicine_name" validate:"required,max=200"`
	Category          string `json:"category" validate:"required,max=100"`
	BatchNumber       string `json:"batch_number" validate:"required,max=100"`
	Quantity          int64  `json:"quantity" validate:"min=0"`
	ExpirationDate    string `json:"expiration_date" validate:"required,datetime=2006-01-02"`
	LowStockThreshold *int64 `json:"low_stock_threshold,omitempty" validate:"omitempty,min=0"`
	Barangay          string `json:"barangay,omitempty" validate:"omitempty,max=100"`
}

// UpdateMedicationRequest body for PUT /api/medications/:id. Quantity is accepted only to be rejected:
// stock changes go through distribution actions.
type UpdateMedicationRequest struct {
	MedicineName      *string  `json:"medicine_name,omitempty" validate:"omitempty,min=1,max=200"`
	Category          *string  `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	BatchNumber       *string  `json:"batch_number,omitempty" validate:"omitempty,min=1,max=100"`
	ExpirationDate    *string  `json:"expiration_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	LowStockThreshold *int64   `json:"low_stock_threshold,omitempty" validate:"omitempty,min=0"`
	Quantity          *float64 `json:"quantity,omitempty"`
}

// MedicationResponse one inventory item with its derived stock state.
type MedicationResponse struct {
	ID                string    `json:"id"`
	MedicineName      string    `json:"medicine_name"`
	Category          string    `json:"category"`
	BatchNumber       string    `json:"batch_number"`
	Quantity          int64     `json:"quantity"`
	ExpirationDate    string    `json:"expiration_date"`
	LowStockThreshold int64     `json:"low_stock_threshold"`
	Barangay          string    `json:"barangay,omitempty"`
	State             string    `json:"state"`
	DaysToExpiry      int       `json:"days_to_expiry"`
	IsLowStock        bool      `json:"is_low_stock"`
	IsExpiringSoon    bool      `json:"is_expiring_soon"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DistributionRequest body for POST /api/medications/distribution.
type DistributionRequest struct {
	ActionType   string  `json:"actionType" validate:"required,oneof=allocate dispense restock redistribute adjust"`
	MedicationID string  `json:"medicationId" validate:"required,max=64"`
	Quantity     float64 `json:"quantity" validate:"gt=0"`
	Barangay     string  `json:"barangay,omitempty" validate:"omitempty,max=100"`
	FromBarangay string  `json:"fromBarangay,omitempty" validate:"omitempty,max=100"`
	ToBarangay   string  `json:"toBarangay,omitempty" validate:"omitempty,max=100"`
	Notes        string  `json:"notes,omitempty" validate:"omitempty,max=500"`
	Adjustment   string  `json:"adjustment,omitempty" validate:"omitempty,oneof=increase decrease"`
}

// DistributionEventResponse one ledger event.
type DistributionEventResponse struct {
	ID           string    `json:"id"`
	ActionType   string    `json:"actionType"`
	MedicationID string    `json:"medicationId"`
	MedicineName string    `json:"medicineName,omitempty"`
	BatchNumber  string    `json:"batchNumber,omitempty"`
	Quantity     int64     `json:"quantity"`
	Barangay     string    `json:"barangay,omitempty"`
	FromBarangay string    `json:"fromBarangay,omitempty"`
	ToBarangay   string    `json:"toBarangay,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	PerformedBy  string    `json:"performedBy"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// AlertResponse inventory alert.
type AlertResponse struct {
	Type         string `json:"type"`
	MedicationID string `json:"medication_id"`
	Severity     string `json:"severity"`
	Message      string `json:"message"`
}

// SuggestionResponse recommended distribution action.
type SuggestionResponse struct {
	Type                string `json:"type"`
	MedicationID        string `json:"medication_id"`
	Message             string `json:"message"`
	RecommendedQuantity int64  `json:"recommended_quantity,omitempty"`
	FromBarangay        string `json:"from_barangay,omitempty"`
	ToBarangay          string `json:"to_barangay,omitempty"`
}

// InventoryOverviewResponse body for GET /api/medications.
// Mode is "cho" for city-wide callers and "barangay" for barangay-scoped ones.
type InventoryOverviewResponse struct {
	Mode        string                      `json:"mode"`
	Barangay    string                      `json:"barangay,omitempty"`
	Barangays   []string                    `json:"barangays"`
	Items       []MedicationResponse        `json:"items"`
	Alerts      []AlertResponse             `json:"alerts"`
	Suggestions []SuggestionResponse        `json:"suggestions"`
	History     []DistributionEventResponse `json:"history"`
	GeneratedAt time.Time                   `json:"generated_at"`
}

// DistributionResponse body returned after a distribution action is recorded.
type DistributionResponse struct {
	Message string                    `json:"message"`
	Event   DistributionEventResponse `json:"event"`
}
