package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nagacare/health-admin-api/internal/domain"
	"github.com/nagacare/health-admin-api/internal/domain/entity"
	"github.com/nagacare/health-admin-api/internal/domain/repository"
)

var _ repository.DistributionRepository = (*DistributionRepo)(nil)

// DistributionRepo append-only medication_distribution_history (pool or tx).
type DistributionRepo struct {
	q Querier
}

// NewDistributionRepository builds the adapter. Pass a pool or a tx.
func NewDistributionRepository(q Querier) *DistributionRepo {
	return &DistributionRepo{q: q}
}

// Append inserts one event. Empty scope fields are stored as NULL.
func (r *DistributionRepo) Append(ctx context.Context, e *entity.DistributionEvent) error {
	query := `
		INSERT INTO medication_distribution_history
			(id, action_type, medication_id, quantity, barangay, from_barangay, to_barangay, notes, action_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.ActionType, e.MedicationID, e.Quantity,
		nullable(e.Barangay), nullable(e.FromBarangay), nullable(e.ToBarangay), nullable(e.Notes),
		e.PerformedBy, e.OccurredAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("append distribution event: %w", err)
	}
	return nil
}

// List returns events newest first. An event is in scope when any of its barangay fields is in
// the filter; events naming no barangay belong to the central supply and match the empty string.
func (r *DistributionRepo) List(ctx context.Context, filter repository.DistributionFilter) ([]*entity.DistributionEvent, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT h.id, h.action_type, h.medication_id, h.quantity,
			COALESCE(h.barangay, ''), COALESCE(h.from_barangay, ''), COALESCE(h.to_barangay, ''),
			COALESCE(h.notes, ''), h.action_by, h.created_at,
			COALESCE(m.medicine_name, ''), COALESCE(m.batch_number, '')
		FROM medication_distribution_history h
		LEFT JOIN medication_inventory m ON m.id = h.medication_id
		WHERE ($1::text[] IS NULL
			OR h.barangay = ANY($1) OR h.from_barangay = ANY($1) OR h.to_barangay = ANY($1)
			OR ('' = ANY($1) AND h.barangay IS NULL AND h.from_barangay IS NULL AND h.to_barangay IS NULL))
		  AND ($2 = '' OR h.medication_id::text = $2)
		ORDER BY h.created_at DESC, h.id DESC
		LIMIT $3`
	rows, err := r.q.Query(ctx, query, filter.Barangays, filter.MedicationID, limit)
	if err != nil {
		return nil, fmt.Errorf("list distribution events: %w", err)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.DistributionEvent, error) {
		var e entity.DistributionEvent
		err := row.Scan(
			&e.ID, &e.ActionType, &e.MedicationID, &e.Quantity,
			&e.Barangay, &e.FromBarangay, &e.ToBarangay,
			&e.Notes, &e.PerformedBy, &e.OccurredAt,
			&e.MedicineName, &e.BatchNumber,
		)
		return &e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan distribution events: %w", err)
	}
	return events, nil
}
