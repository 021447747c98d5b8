package repository

import (
	"context"

	"github.com/nagacare/health-admin-api/internal/domain/entity"
)

// AuditLogRepository appends audit rows. There is no update or delete.
type AuditLogRepository interface {
	Append(ctx context.Context, entry *entity.AuditLog) error
}
