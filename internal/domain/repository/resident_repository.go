package repository

import (
	"context"

	"github.com/nagacare/health-admin-api/internal/domain/entity"
)

// ResidentRepository is the resident-lookup collaborator. GetByID returns nil, nil when absent.
type ResidentRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Resident, error)
}

// ScanLogRepository stores QR scan history.
type ScanLogRepository interface {
	Create(ctx context.Context, log *entity.ScanLog) error
	ListByResident(ctx context.Context, residentID string, limit int) ([]*entity.ScanLog, error)
}
