package inventory

import (
	"context"

	"github.com/nagacare/health-admin-api/internal/application/dto"
	"github.com/nagacare/health-admin-api/internal/domain/repository"
)

// TxRunner runs fn inside one database transaction, passing repositories bound to it.
// A non-nil error from fn rolls everything back: stock changes, events and audit rows commit together.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		medRepo repository.MedicationRepository,
		distRepo repository.DistributionRepository,
		auditRepo repository.AuditLogRepository,
	) error) error
}

// ReportGenerator renders an inventory overview as a printable document.
type ReportGenerator interface {
	GenerateInventoryReport(overview *dto.InventoryOverviewResponse) ([]byte, error)
}
