package repository

import (
	"context"

	"github.com/nagacare/health-admin-api/internal/domain/entity"
)

// DistributionFilter narrows history listings. Nil Barangays means every barangay;
// otherwise an event matches when its barangay, from or to barangay is in the list.
type DistributionFilter struct {
	Barangays    []string
	MedicationID string
	Limit        int
}

// DistributionRepository is the append-only store of distribution events.
type DistributionRepository interface {
	Append(ctx context.Context, event *entity.DistributionEvent) error
	List(ctx context.Context, filter DistributionFilter) ([]*entity.DistributionEvent, error)
}
