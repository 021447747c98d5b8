package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nagacare/health-admin-api/internal/domain"
	"github.com/nagacare/health-admin-api/internal/domain/entity"
	"github.com/nagacare/health-admin-api/internal/domain/repository"
)

var _ repository.MedicationRepository = (*MedicationRepo)(nil)

const medicationColumns = `id, medicine_name, category, batch_number, quantity, expiration_date,
	low_stock_threshold, barangay, created_by, updated_by, created_at, updated_at`

// MedicationRepo medication_inventory ledger (pool or tx).
type MedicationRepo struct {
	q Querier
}

// NewMedicationRepository builds the adapter. Pass a pool or a tx.
func NewMedicationRepository(q Querier) *MedicationRepo {
	return &MedicationRepo{q: q}
}

func scanMedication(row pgx.Row) (*entity.Medication, error) {
	var m entity.Medication
	var createdBy, updatedBy *string
	err := row.Scan(
		&m.ID, &m.MedicineName, &m.Category, &m.BatchNumber, &m.Quantity, &m.ExpirationDate,
		&m.LowStockThreshold, &m.Barangay, &createdBy, &updatedBy, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.CreatedBy = deref(createdBy)
	m.UpdatedBy = deref(updatedBy)
	return &m, nil
}

// GetByID returns nil, nil when the item does not exist.
func (r *MedicationRepo) GetByID(ctx context.Context, id string) (*entity.Medication, error) {
	query := `SELECT ` + medicationColumns + ` FROM medication_inventory WHERE id = $1`
	m, err := scanMedication(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get medication: %w", err)
	}
	return m, nil
}

// FindEquivalent looks up the same medicine batch under barangay.
func (r *MedicationRepo) FindEquivalent(ctx context.Context, medicineName, batchNumber, barangay string) (*entity.Medication, error) {
	query := `SELECT ` + medicationColumns + ` FROM medication_inventory
		WHERE medicine_name = $1 AND batch_number = $2 AND barangay = $3`
	m, err := scanMedication(r.q.QueryRow(ctx, query, medicineName, batchNumber, barangay))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find equivalent medication: %w", err)
	}
	return m, nil
}

// EnsureEquivalent inserts a zero-quantity copy of source under barangay unless one exists,
// then returns whichever row is there.
func (r *MedicationRepo) EnsureEquivalent(ctx context.Context, source *entity.Medication, barangay, actorID string) (*entity.Medication, error) {
	query := `
		INSERT INTO medication_inventory (id, medicine_name, category, batch_number, quantity, expiration_date,
			low_stock_threshold, barangay, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, $5, $6, $7, $8, $8, now(), now())
		ON CONFLICT (medicine_name, batch_number, barangay) DO NOTHING`
	_, err := r.q.Exec(ctx, query,
		uuid.New().String(), source.MedicineName, source.Category, source.BatchNumber,
		source.ExpirationDate, source.LowStockThreshold, barangay, nullable(actorID),
	)
	if err != nil {
		return nil, fmt.Errorf("ensure equivalent medication: %w", err)
	}
	m, err := r.FindEquivalent(ctx, source.MedicineName, source.BatchNumber, barangay)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("ensure equivalent medication: row for %q vanished", barangay)
	}
	return m, nil
}

// Create inserts a new batch.
func (r *MedicationRepo) Create(ctx context.Context, m *entity.Medication) error {
	query := `
		INSERT INTO medication_inventory (` + medicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.MedicineName, m.Category, m.BatchNumber, m.Quantity, m.ExpirationDate,
		m.LowStockThreshold, m.Barangay, nullable(m.CreatedBy), nullable(m.UpdatedBy), m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return domain.NewValidationError("quantity", "must be a non-negative number")
		}
		return fmt.Errorf("insert medication: %w", err)
	}
	return nil
}

// LockForUpdate takes row locks in id order so concurrent two-row transfers cannot deadlock.
func (r *MedicationRepo) LockForUpdate(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	unique := map[string]struct{}{}
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	query := `SELECT id FROM medication_inventory WHERE id = ANY($1::uuid[]) ORDER BY id FOR UPDATE`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		if isInvalidID(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("lock medications: %w", err)
	}
	defer rows.Close()
	locked := 0
	for rows.Next() {
		locked++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("lock medications: %w", err)
	}
	if locked != len(unique) {
		return domain.ErrNotFound
	}
	return nil
}

// ApplyDelta is a single conditional UPDATE: the non-negative check and the write cannot interleave
// with another writer on the same row.
func (r *MedicationRepo) ApplyDelta(ctx context.Context, id string, delta int64, actorID string) (*entity.Medication, error) {
	query := `
		UPDATE medication_inventory
		SET quantity = quantity + $2, updated_by = $3, updated_at = now()
		WHERE id = $1 AND quantity + $2 >= 0
		RETURNING ` + medicationColumns
	m, err := scanMedication(r.q.QueryRow(ctx, query, id, delta, nullable(actorID)))
	if err == nil {
		return m, nil
	}
	switch {
	case isInvalidID(err):
		return nil, domain.ErrNotFound
	case isCheckViolation(err):
		return nil, domain.ErrInsufficientStock
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("apply stock delta: %w", err)
	}

	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM medication_inventory WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("apply stock delta: %w", err)
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	return nil, domain.ErrInsufficientStock
}

// Update writes only the non-nil metadata fields.
func (r *MedicationRepo) Update(ctx context.Context, id string, patch entity.MedicationPatch, actorID string) (*entity.Medication, error) {
	query := `
		UPDATE medication_inventory SET
			medicine_name = COALESCE($2, medicine_name),
			category = COALESCE($3, category),
			batch_number = COALESCE($4, batch_number),
			expiration_date = COALESCE($5, expiration_date),
			low_stock_threshold = COALESCE($6, low_stock_threshold),
			updated_by = $7,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + medicationColumns
	m, err := scanMedication(r.q.QueryRow(ctx, query, id,
		patch.MedicineName, patch.Category, patch.BatchNumber, patch.ExpirationDate, patch.LowStockThreshold,
		nullable(actorID),
	))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows), isInvalidID(err):
			return nil, domain.ErrNotFound
		case isUniqueViolation(err):
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("update medication: %w", err)
	}
	return m, nil
}

// List returns items under the filter's barangays (all when nil), grouped by barangay.
func (r *MedicationRepo) List(ctx context.Context, filter repository.MedicationFilter) ([]*entity.Medication, error) {
	query := `SELECT ` + medicationColumns + ` FROM medication_inventory
		WHERE ($1::text[] IS NULL OR barangay = ANY($1))
		  AND ($2 = '' OR medicine_name = $2)
		  AND ($3 = '' OR batch_number = $3)
		ORDER BY barangay, medicine_name, batch_number`
	rows, err := r.q.Query(ctx, query, filter.Barangays, filter.MedicineName, filter.BatchNumber)
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	defer rows.Close()
	var out []*entity.Medication
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan medication: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListBarangays returns the distinct barangays holding stock records.
func (r *MedicationRepo) ListBarangays(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT DISTINCT barangay FROM medication_inventory WHERE barangay <> '' ORDER BY barangay`)
	if err != nil {
		return nil, fmt.Errorf("list medication barangays: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
