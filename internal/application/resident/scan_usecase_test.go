package resident_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagacare/health-admin-api/internal/application/resident"
	"github.com/nagacare/health-admin-api/internal/domain"
	"github.com/nagacare/health-admin-api/internal/domain/entity"
	"github.com/nagacare/health-admin-api/internal/domain/qrcode"
	"github.com/nagacare/health-admin-api/internal/testutil/memstore"
)

const residentID = "3fa85f64-5717-4562-b3fc-2c963f66afa6"

func setup(t *testing.T) (*resident.ScanUseCase, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	birth := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	store.AddResident(&entity.Resident{ID: residentID, FullName: "Ana Dela Cruz", Barangay: "CONCEPCION", Purok: "Purok 3", BirthDate: &birth})
	uc := resident.NewScanUseCase(store.Residents(), store.Scans(), nil)
	return uc, store
}

func payloadFor(t *testing.T, id string) string {
	t.Helper()
	b, err := json.Marshal(qrcode.NewResidentPayload(id))
	require.NoError(t, err)
	return string(b)
}

func worker(barangay string) *entity.Principal {
	return &entity.Principal{ID: "w-1", Role: entity.RoleWorkers, AssignedBarangay: barangay}
}

func TestScan_Success(t *testing.T) {
	uc, store := setup(t)

	out, err := uc.Scan(context.Background(), worker("CONCEPCION"), resident.ScanInput{Raw: payloadFor(t, residentID), DeviceInfo: " Android "})
	require.NoError(t, err)
	assert.Equal(t, "Ana Dela Cruz", out.Resident.FullName)
	assert.Equal(t, "1990-05-17", out.Resident.BirthDate)
	require.Len(t, out.RecentScans, 1)
	assert.Equal(t, "Android", out.RecentScans[0].DeviceInfo)
	assert.Len(t, store.ScanLogs(), 1)
}

func TestScan_InvalidPayloadIsGeneric(t *testing.T) {
	uc, store := setup(t)
	for _, raw := range []string{"", "hello", `{"type":"nagacare_resident","v":2,"id":"` + residentID + `"}`, `[1,2]`} {
		_, err := uc.Scan(context.Background(), worker("CONCEPCION"), resident.ScanInput{Raw: raw})
		assert.ErrorIs(t, err, domain.ErrInvalidQRPayload, raw)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
	}
	assert.Empty(t, store.ScanLogs())
}

func TestScan_UnknownResidentIsDistinct(t *testing.T) {
	uc, _ := setup(t)
	_, err := uc.Scan(context.Background(), worker("CONCEPCION"), resident.ScanInput{Raw: payloadFor(t, "9b2f4c1e-8a7d-4e3b-9c6a-1d2e3f4a5b6c")})
	assert.ErrorIs(t, err, domain.ErrResidentNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrInvalidQRPayload)
}

func TestScan_OutOfScope(t *testing.T) {
	uc, store := setup(t)
	_, err := uc.Scan(context.Background(), worker("TRIANGULO"), resident.ScanInput{Raw: payloadFor(t, residentID)})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, store.ScanLogs())

	_, err = uc.Scan(context.Background(), &entity.Principal{ID: "a", Role: entity.RoleAdmin}, resident.ScanInput{Raw: payloadFor(t, residentID)})
	assert.NoError(t, err)
}

func TestScan_LogFailureIsNotFatal(t *testing.T) {
	uc, store := setup(t)
	store.FailScanLog = errors.New("disk full")
	out, err := uc.Scan(context.Background(), worker("CONCEPCION"), resident.ScanInput{Raw: payloadFor(t, residentID)})
	require.NoError(t, err)
	assert.Empty(t, out.RecentScans)
}

func TestProfile(t *testing.T) {
	uc, store := setup(t)
	out, err := uc.Profile(context.Background(), worker("CONCEPCION"), residentID)
	require.NoError(t, err)
	assert.Equal(t, residentID, out.Resident.ID)
	assert.Empty(t, store.ScanLogs(), "profile lookups are not scans")

	_, err = uc.Profile(context.Background(), worker("CONCEPCION"), "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Profile(context.Background(), nil, residentID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
