// Package resident serves resident profiles reached by QR scan or direct lookup.
package resident

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nagacare/health-admin-api/internal/application/dto"
	"github.com/nagacare/health-admin-api/internal/domain"
	"github.com/nagacare/health-admin-api/internal/domain/access"
	"github.com/nagacare/health-admin-api/internal/domain/entity"
	"github.com/nagacare/health-admin-api/internal/domain/qrcode"
	"github.com/nagacare/health-admin-api/internal/domain/repository"
	"github.com/nagacare/health-admin-api/pkg/logger"
)

const recentScansLimit = 10

// ScanInput one scanned QR code.
type ScanInput struct {
	Raw        string
	DeviceInfo string
	Notes      string
}

// ScanUseCase resolves scanned identity codes to resident profiles.
type ScanUseCase struct {
	residents repository.ResidentRepository
	scans     repository.ScanLogRepository
	log       *logger.Logger
	now       func() time.Time
}

// NewScanUseCase builds the use case.
func NewScanUseCase(residents repository.ResidentRepository, scans repository.ScanLogRepository, log *logger.Logger) *ScanUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ScanUseCase{residents: residents, scans: scans, log: log, now: time.Now}
}

// WithClock replaces the clock used to stamp scan logs.
func (uc *ScanUseCase) WithClock(now func() time.Time) *ScanUseCase {
	uc.now = now
	return uc
}

// Scan validates the payload, loads the resident and records the scan.
// Any payload defect yields domain.ErrInvalidQRPayload without naming the cause;
// a well-formed code for an unknown resident yields domain.ErrResidentNotFound.
func (uc *ScanUseCase) Scan(ctx context.Context, p *entity.Principal, in ScanInput) (*dto.ResidentProfileResponse, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	payload := qrcode.ParseAndValidate(in.Raw)
	if payload == nil {
		uc.log.Debug().Str("user_id", p.ID).Int("length", len(in.Raw)).Msg("qr payload rejected")
		return nil, domain.ErrInvalidQRPayload
	}

	r, err := uc.load(ctx, p, payload.ID)
	if err != nil {
		return nil, err
	}

	entry := &entity.ScanLog{
		ID:         uuid.New().String(),
		ResidentID: r.ID,
		ScannedBy:  p.ID,
		ScannedAt:  uc.now(),
		DeviceInfo: strings.TrimSpace(in.DeviceInfo),
		Notes:      strings.TrimSpace(in.Notes),
	}
	if err := uc.scans.Create(ctx, entry); err != nil {
		uc.log.Error().Err(err).Str("resident_id", r.ID).Msg("scan log write failed")
	}
	return uc.profile(ctx, r)
}

// Profile returns a resident by id without recording a scan.
func (uc *ScanUseCase) Profile(ctx context.Context, p *entity.Principal, residentID string) (*dto.ResidentProfileResponse, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	id := strings.TrimSpace(residentID)
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NewValidationError("id", "must be a UUID")
	}
	r, err := uc.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return uc.profile(ctx, r)
}

func (uc *ScanUseCase) load(ctx context.Context, p *entity.Principal, id string) (*entity.Resident, error) {
	r, err := uc.residents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		uc.log.Info().Str("resident_id", id).Str("user_id", p.ID).Msg("qr resident not found")
		return nil, domain.ErrResidentNotFound
	}
	if !access.IsInScope(p.Role, p.AssignedBarangay, r.Barangay) {
		return nil, domain.ErrForbidden
	}
	return r, nil
}

func (uc *ScanUseCase) profile(ctx context.Context, r *entity.Resident) (*dto.ResidentProfileResponse, error) {
	logs, err := uc.scans.ListByResident(ctx, r.ID, recentScansLimit)
	if err != nil {
		return nil, err
	}
	out := &dto.ResidentProfileResponse{
		Resident: dto.ResidentResponse{
			ID:            r.ID,
			FullName:      r.FullName,
			Barangay:      r.Barangay,
			Purok:         r.Purok,
			Sex:           r.Sex,
			ContactNumber: r.ContactNumber,
			PhilhealthNo:  r.PhilhealthNo,
		},
		RecentScans: make([]dto.ScanLogResponse, 0, len(logs)),
	}
	if r.BirthDate != nil {
		out.Resident.BirthDate = r.BirthDate.Format("2006-01-02")
	}
	for _, l := range logs {
		out.RecentScans = append(out.RecentScans, dto.ScanLogResponse{
			ID:         l.ID,
			ScannedBy:  l.ScannedBy,
			ScannedAt:  l.ScannedAt,
			DeviceInfo: l.DeviceInfo,
			Notes:      l.Notes,
		})
	}
	return out, nil
}
