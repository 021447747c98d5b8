package postgres_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagacare/health-admin-api/internal/application/inventory"
	"github.com/nagacare/health-admin-api/internal/domain"
	"github.com/nagacare/health-admin-api/internal/domain/entity"
	"github.com/nagacare/health-admin-api/internal/domain/repository"
	"github.com/nagacare/health-admin-api/internal/infrastructure/postgres"
)

// newLedgerPool connects to DATABASE_URL inside a throwaway schema loaded from db/schema.sql.
func newLedgerPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping postgres ledger tests")
	}
	ctx := context.Background()

	schema := "nagacare_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	admin, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		_ = admin.Close(context.Background())
	})

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schema + ",public"
	cfg.MaxConns = 8
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	ddl, err := os.ReadFile(filepath.Join("..", "..", "..", "db", "schema.sql"))
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(ddl))
	require.NoError(t, err)
	return pool
}

func seedWorker(t *testing.T, pool *pgxpool.Pool, barangay string) *entity.Principal {
	t.Helper()
	id := uuid.NewString()
	username := "worker-" + id[:8]
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, username, password_hash, role, assigned_barangay) VALUES ($1, $2, 'x', $3, $4)`,
		id, username, entity.RoleWorkers, barangay)
	require.NoError(t, err)
	return &entity.Principal{ID: id, Username: username, Role: entity.RoleWorkers, AssignedBarangay: barangay}
}

func seedBatch(t *testing.T, pool *pgxpool.Pool, batch, barangay string, qty int64) string {
	t.Helper()
	now := time.Now().UTC()
	m := &entity.Medication{
		ID:                uuid.NewString(),
		MedicineName:      "Amoxicillin",
		Category:          "Antibiotic",
		BatchNumber:       batch,
		Quantity:          qty,
		ExpirationDate:    now.AddDate(1, 0, 0),
		LowStockThreshold: 5,
		Barangay:          barangay,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(t, postgres.NewMedicationRepository(pool).Create(context.Background(), m))
	return m.ID
}

func quantityOf(t *testing.T, pool *pgxpool.Pool, id string) int64 {
	t.Helper()
	var qty int64
	require.NoError(t, pool.QueryRow(context.Background(),
		`SELECT quantity FROM medication_inventory WHERE id = $1`, id).Scan(&qty))
	return qty
}

func countRows(t *testing.T, pool *pgxpool.Pool, table string) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(context.Background(), "SELECT count(*) FROM "+table).Scan(&n))
	return n
}

func TestLedger_ConcurrentFullDispenseOneWins(t *testing.T) {
	pool := newLedgerPool(t)
	worker := seedWorker(t, pool, "CONCEPCION")
	uc := inventory.NewDistributeUseCase(postgres.NewTxRunner(pool), nil)

	const rounds = 5
	const stock = 40
	for round := 0; round < rounds; round++ {
		id := seedBatch(t, pool, "AMX-"+uuid.NewString()[:8], "CONCEPCION", stock)

		start := make(chan struct{})
		errs := make([]error, 2)
		var wg sync.WaitGroup
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				_, errs[i] = uc.Distribute(context.Background(), worker, inventory.DistributeInput{
					ActionType: entity.ActionDispense, MedicationID: id, Quantity: stock,
				})
			}(i)
		}
		close(start)
		wg.Wait()

		var ok, short int
		for _, err := range errs {
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				short++
			default:
				t.Fatalf("round %d: unexpected error: %v", round, err)
			}
		}
		assert.Equal(t, 1, ok, "round %d", round)
		assert.Equal(t, 1, short, "round %d", round)
		assert.Equal(t, int64(0), quantityOf(t, pool, id), "round %d", round)
	}
	assert.Equal(t, rounds, countRows(t, pool, "medication_distribution_history"))
	assert.Equal(t, rounds, countRows(t, pool, "audit_logs"))
}

func TestLedger_FailedSecondLegLeavesBothRowsUnchanged(t *testing.T) {
	pool := newLedgerPool(t)
	worker := seedWorker(t, pool, "CONCEPCION")
	src := seedBatch(t, pool, "AMX-RB", "CONCEPCION", 30)
	dst := seedBatch(t, pool, "AMX-RB", "TRIANGULO", 2)
	runner := postgres.NewTxRunner(pool)

	cases := map[string]struct {
		leg     func(ctx context.Context, medRepo repository.MedicationRepository) error
		wantErr error
	}{
		"destination underflow": {
			leg: func(ctx context.Context, medRepo repository.MedicationRepository) error {
				_, err := medRepo.ApplyDelta(ctx, dst, -1000, worker.ID)
				return err
			},
			wantErr: domain.ErrInsufficientStock,
		},
		"foreign key violation": {
			leg: func(ctx context.Context, medRepo repository.MedicationRepository) error {
				_, err := medRepo.ApplyDelta(ctx, dst, 12, uuid.NewString())
				return err
			},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := runner.Run(context.Background(), func(
				medRepo repository.MedicationRepository,
				_ repository.DistributionRepository,
				_ repository.AuditLogRepository,
			) error {
				ctx := context.Background()
				if err := medRepo.LockForUpdate(ctx, src, dst); err != nil {
					return err
				}
				after, err := medRepo.ApplyDelta(ctx, src, -12, worker.ID)
				if err != nil {
					return err
				}
				require.Equal(t, int64(18), after.Quantity)
				return tc.leg(ctx, medRepo)
			})
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
			assert.Equal(t, int64(30), quantityOf(t, pool, src))
			assert.Equal(t, int64(2), quantityOf(t, pool, dst))
		})
	}
	assert.Zero(t, countRows(t, pool, "medication_distribution_history"))
}

func TestLedger_OpposingRedistributesConserveStock(t *testing.T) {
	pool := newLedgerPool(t)
	concepcion := seedWorker(t, pool, "CONCEPCION")
	triangulo := seedWorker(t, pool, "TRIANGULO")
	a := seedBatch(t, pool, "AMX-SW", "CONCEPCION", 100)
	b := seedBatch(t, pool, "AMX-SW", "TRIANGULO", 100)
	uc := inventory.NewDistributeUseCase(postgres.NewTxRunner(pool), nil)

	const perSide = 10
	start := make(chan struct{})
	errCh := make(chan error, 2*perSide)
	var wg sync.WaitGroup
	send := func(p *entity.Principal, id, from, to string) {
		defer wg.Done()
		<-start
		_, err := uc.Distribute(context.Background(), p, inventory.DistributeInput{
			ActionType: entity.ActionRedistribute, MedicationID: id, Quantity: 3, FromBarangay: from, ToBarangay: to,
		})
		errCh <- err
	}
	for i := 0; i < perSide; i++ {
		wg.Add(2)
		go send(concepcion, a, "CONCEPCION", "TRIANGULO")
		go send(triangulo, b, "TRIANGULO", "CONCEPCION")
	}
	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}
	assert.Equal(t, int64(100), quantityOf(t, pool, a))
	assert.Equal(t, int64(100), quantityOf(t, pool, b))
	assert.Equal(t, 2*perSide, countRows(t, pool, "medication_distribution_history"))
}
