package repository

import (
	"context"

	"github.com/nagacare/health-admin-api/internal/domain/entity"
)

// MedicationFilter narrows medication listings. Nil Barangays means every barangay.
// An empty string inside Barangays selects the central supply.
// MedicineName and BatchNumber, when set, select one batch across barangays.
type MedicationFilter struct {
	Barangays    []string
	MedicineName string
	BatchNumber  string
}

// MedicationRepository is the inventory ledger port. Implementations bound to a transaction
// must keep ApplyDelta atomic: the non-negative check and the write are one statement.
type MedicationRepository interface {
	// GetByID returns nil, nil when the item does not exist.
	GetByID(ctx context.Context, id string) (*entity.Medication, error)
	// FindEquivalent returns the item with the same medicine and batch under barangay, or nil, nil.
	FindEquivalent(ctx context.Context, medicineName, batchNumber, barangay string) (*entity.Medication, error)
	// EnsureEquivalent returns the equivalent of source under barangay, creating it with zero quantity if needed.
	EnsureEquivalent(ctx context.Context, source *entity.Medication, barangay, actorID string) (*entity.Medication, error)
	Create(ctx context.Context, m *entity.Medication) error
	// LockForUpdate locks the given rows (in a stable order) until the transaction ends.
	LockForUpdate(ctx context.Context, ids ...string) error
	// ApplyDelta adds delta to quantity. Returns domain.ErrInsufficientStock if the result would be
	// negative and domain.ErrNotFound if the item does not exist; in both cases nothing changes.
	ApplyDelta(ctx context.Context, id string, delta int64, actorID string) (*entity.Medication, error)
	// Update edits metadata only; quantity is untouched.
	Update(ctx context.Context, id string, patch entity.MedicationPatch, actorID string) (*entity.Medication, error)
	List(ctx context.Context, filter MedicationFilter) ([]*entity.Medication, error)
	// ListBarangays returns the distinct barangays that hold stock.
	ListBarangays(ctx context.Context) ([]string, error)
}
