package postgres

import (
	"context"
	"fmt"

	"github.com/nagacare/health-admin-api/internal/domain/entity"
	"github.com/nagacare/health-admin-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo append-only audit_logs (pool or tx).
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository builds the adapter. Pass a pool or a tx.
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Append inserts one audit row; Changes is stored as jsonb.
func (r *AuditLogRepo) Append(ctx context.Context, a *entity.AuditLog) error {
	changes := a.Changes
	if changes == nil {
		changes = map[string]any{}
	}
	query := `
		INSERT INTO audit_logs (id, resource_type, resource_id, actor_id, action, changes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, a.ID, a.ResourceType, a.ResourceID, nullable(a.ActorID), a.Action, changes, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("append audit log: %w", err)
	}
	return nil
}
