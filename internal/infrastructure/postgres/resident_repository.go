package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nagacare/health-admin-api/internal/domain/entity"
	"github.com/nagacare/health-admin-api/internal/domain/repository"
)

var (
	_ repository.ResidentRepository = (*ResidentRepo)(nil)
	_ repository.ScanLogRepository  = (*ScanLogRepo)(nil)
)

// ResidentRepo read-only resident lookups.
type ResidentRepo struct {
	q Querier
}

// NewResidentRepository builds the adapter.
func NewResidentRepository(q Querier) *ResidentRepo {
	return &ResidentRepo{q: q}
}

// GetByID returns nil, nil when absent.
func (r *ResidentRepo) GetByID(ctx context.Context, id string) (*entity.Resident, error) {
	query := `
		SELECT id, upper(btrim(barangay)), COALESCE(purok, ''), full_name, birth_date,
			COALESCE(sex, ''), COALESCE(contact_number, ''), COALESCE(philhealth_no, ''),
			created_at, updated_at
		FROM residents WHERE id = $1`
	var res entity.Resident
	err := r.q.QueryRow(ctx, query, id).Scan(
		&res.ID, &res.Barangay, &res.Purok, &res.FullName, &res.BirthDate,
		&res.Sex, &res.ContactNumber, &res.PhilhealthNo, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get resident: %w", err)
	}
	return &res, nil
}

// ScanLogRepo qr_scan_logs.
type ScanLogRepo struct {
	q Querier
}

// NewScanLogRepository builds the adapter.
func NewScanLogRepository(q Querier) *ScanLogRepo {
	return &ScanLogRepo{q: q}
}

// Create inserts one scan log.
func (r *ScanLogRepo) Create(ctx context.Context, l *entity.ScanLog) error {
	query := `
		INSERT INTO qr_scan_logs (id, resident_id, scanned_by, scanned_at, device_info, notes)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, l.ID, l.ResidentID, l.ScannedBy, l.ScannedAt, nullable(l.DeviceInfo), nullable(l.Notes))
	if err != nil {
		return fmt.Errorf("insert scan log: %w", err)
	}
	return nil
}

// ListByResident returns the newest scans first.
func (r *ScanLogRepo) ListByResident(ctx context.Context, residentID string, limit int) ([]*entity.ScanLog, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT id, resident_id, scanned_by, scanned_at, COALESCE(device_info, ''), COALESCE(notes, '')
		FROM qr_scan_logs WHERE resident_id = $1
		ORDER BY scanned_at DESC
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, residentID, limit)
	if err != nil {
		return nil, fmt.Errorf("list scan logs: %w", err)
	}
	logs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.ScanLog, error) {
		var l entity.ScanLog
		err := row.Scan(&l.ID, &l.ResidentID, &l.ScannedBy, &l.ScannedAt, &l.DeviceInfo, &l.Notes)
		return &l, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan scan logs: %w", err)
	}
	return logs, nil
}
