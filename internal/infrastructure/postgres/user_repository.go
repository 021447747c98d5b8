package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nagacare/health-admin-api/internal/domain/entity"
	"github.com/nagacare/health-admin-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo UserRepository over PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository builds the user adapter.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, username, password_hash, role, COALESCE(assigned_barangay, ''), status, created_at, updated_at`

func (r *UserRepo) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	var u entity.User
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.AssignedBarangay, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetByID returns nil, nil when absent.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := r.findOne(ctx, "id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// FindByUsername matches case-insensitively; returns nil, nil when absent.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	u, err := r.findOne(ctx, "lower(username) = lower($1)", username)
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

// ListAssignedBarangays returns the distinct normalized barangays assigned to accounts.
func (r *UserRepo) ListAssignedBarangays(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT upper(btrim(assigned_barangay)) AS barangay
		FROM users
		WHERE COALESCE(btrim(assigned_barangay), '') <> ''
		ORDER BY barangay`)
	if err != nil {
		return nil, fmt.Errorf("list assigned barangays: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
