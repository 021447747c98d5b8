package inventory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nagacare/health-admin-api/internal/application/dto"
	"github.com/nagacare/health-admin-api/internal/domain"
	"github.com/nagacare/health-admin-api/internal/domain/access"
	"github.com/nagacare/health-admin-api/internal/domain/entity"
	domaininv "github.com/nagacare/health-admin-api/internal/domain/inventory"
	"github.com/nagacare/health-admin-api/internal/domain/repository"
	"github.com/nagacare/health-admin-api/pkg/logger"
)

const (
	defaultLowStockThreshold = 20
	historyLimit             = 100
	dateLayout               = "2006-01-02"
)

// MedicationUseCase catalog operations plus the scoped inventory overview and report.
type MedicationUseCase struct {
	txRunner TxRunner
	medRepo  repository.MedicationRepository
	distRepo repository.DistributionRepository
	userRepo repository.UserRepository
	report   ReportGenerator
	log      *logger.Logger
	now      func() time.Time
}

// NewMedicationUseCase builds the use case. report may be nil when PDF export is not wired.
func NewMedicationUseCase(
	txRunner TxRunner,
	medRepo repository.MedicationRepository,
	distRepo repository.DistributionRepository,
	userRepo repository.UserRepository,
	report ReportGenerator,
	log *logger.Logger,
) *MedicationUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &MedicationUseCase{
		txRunner: txRunner,
		medRepo:  medRepo,
		distRepo: distRepo,
		userRepo: userRepo,
		report:   report,
		log:      log,
		now:      time.Now,
	}
}

// WithClock replaces the clock used for expiry math and timestamps.
func (uc *MedicationUseCase) WithClock(now func() time.Time) *MedicationUseCase {
	uc.now = now
	return uc
}

// Create registers a new batch. Only inventory managers may create, and only inside their scope
// or in the central supply.
func (uc *MedicationUseCase) Create(ctx context.Context, p *entity.Principal, in dto.CreateMedicationRequest) (*dto.MedicationResponse, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	if !access.CanManageInventory(p.Role) {
		return nil, domain.ErrForbidden
	}

	name := strings.TrimSpace(in.MedicineName)
	category := strings.TrimSpace(in.Category)
	batch := strings.TrimSpace(in.BatchNumber)
	switch {
	case name == "":
		return nil, domain.NewValidationError("medicine_name", "is required")
	case category == "":
		return nil, domain.NewValidationError("category", "is required")
	case batch == "":
		return nil, domain.NewValidationError("batch_number", "is required")
	case in.Quantity < 0:
		return nil, domain.NewValidationError("quantity", "must be a non-negative number")
	}
	expiration, err := time.Parse(dateLayout, strings.TrimSpace(in.ExpirationDate))
	if err != nil {
		return nil, domain.NewValidationError("expiration_date", "must be a date in YYYY-MM-DD format")
	}
	threshold := int64(defaultLowStockThreshold)
	if in.LowStockThreshold != nil {
		if *in.LowStockThreshold < 0 {
			return nil, domain.NewValidationError("low_stock_threshold", "must be a non-negative number")
		}
		threshold = *in.LowStockThreshold
	}
	barangay := access.NormalizeBarangay(in.Barangay)
	if barangay != "" && !access.IsInScope(p.Role, p.AssignedBarangay, barangay) {
		return nil, domain.ErrForbidden
	}

	now := uc.now()
	m := &entity.Medication{
		ID:                uuid.New().String(),
		MedicineName:      name,
		Category:          category,
		BatchNumber:       batch,
		Quantity:          in.Quantity,
		ExpirationDate:    expiration,
		LowStockThreshold: threshold,
		Barangay:          barangay,
		CreatedBy:         p.ID,
		UpdatedBy:         p.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	err = uc.txRunner.Run(ctx, func(
		medRepo repository.MedicationRepository,
		_ repository.DistributionRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		existing, err := medRepo.FindEquivalent(ctx, name, batch, barangay)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if err := medRepo.Create(ctx, m); err != nil {
			return err
		}
		return auditRepo.Append(ctx, &entity.AuditLog{
			ID:           uuid.New().String(),
			ResourceType: entity.AuditResourceMedication,
			ResourceID:   m.ID,
			ActorID:      p.ID,
			Action:       "create_medication",
			Changes: map[string]any{
				"medicine_name":       name,
				"category":            category,
				"batch_number":        batch,
				"quantity":            m.Quantity,
				"expiration_date":     expiration.Format(dateLayout),
				"low_stock_threshold": threshold,
				"barangay":            barangay,
			},
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("medication_id", m.ID).Str("user_id", p.ID).Msg("medication created")
	out := uc.toMedicationResponse(m, now)
	return &out, nil
}

// Update edits batch metadata. Quantity cannot be set here.
func (uc *MedicationUseCase) Update(ctx context.Context, p *entity.Principal, id string, in dto.UpdateMedicationRequest) (*dto.MedicationResponse, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	if !access.CanManageInventory(p.Role) {
		return nil, domain.ErrForbidden
	}
	if in.Quantity != nil {
		return nil, domain.NewValidationError("quantity", "is changed only through distribution actions")
	}

	var patch entity.MedicationPatch
	changes := map[string]any{}
	if in.MedicineName != nil {
		v := strings.TrimSpace(*in.MedicineName)
		if v == "" {
			return nil, domain.NewValidationError("medicine_name", "must not be empty")
		}
		patch.MedicineName = &v
		changes["medicine_name"] = v
	}
	if in.Category != nil {
		v := strings.TrimSpace(*in.Category)
		if v == "" {
			return nil, domain.NewValidationError("category", "must not be empty")
		}
		patch.Category = &v
		changes["category"] = v
	}
	if in.BatchNumber != nil {
		v := strings.TrimSpace(*in.BatchNumber)
		if v == "" {
			return nil, domain.NewValidationError("batch_number", "must not be empty")
		}
		patch.BatchNumber = &v
		changes["batch_number"] = v
	}
	if in.ExpirationDate != nil {
		t, err := time.Parse(dateLayout, strings.TrimSpace(*in.ExpirationDate))
		if err != nil {
			return nil, domain.NewValidationError("expiration_date", "must be a date in YYYY-MM-DD format")
		}
		patch.ExpirationDate = &t
		changes["expiration_date"] = t.Format(dateLayout)
	}
	if in.LowStockThreshold != nil {
		if *in.LowStockThreshold < 0 {
			return nil, domain.NewValidationError("low_stock_threshold", "must be a non-negative number")
		}
		v := *in.LowStockThreshold
		patch.LowStockThreshold = &v
		changes["low_stock_threshold"] = v
	}
	if patch.IsEmpty() {
		return nil, domain.NewValidationError("body", "no fields to update")
	}

	var updated *entity.Medication
	err := uc.txRunner.Run(ctx, func(
		medRepo repository.MedicationRepository,
		_ repository.DistributionRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		current, err := medRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if !access.CanView(p, current.Barangay) {
			return domain.ErrForbidden
		}
		if err := checkBatchRename(ctx, medRepo, current, patch); err != nil {
			return err
		}
		updated, err = medRepo.Update(ctx, id, patch, p.ID)
		if err != nil {
			return err
		}
		return auditRepo.Append(ctx, &entity.AuditLog{
			ID:           uuid.New().String(),
			ResourceType: entity.AuditResourceMedication,
			ResourceID:   id,
			ActorID:      p.ID,
			Action:       "update_medication",
			Changes:      map[string]any{"changes": changes},
			CreatedAt:    uc.now(),
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("medication_id", id).Str("user_id", p.ID).Msg("medication updated")
	out := uc.toMedicationResponse(updated, uc.now())
	return &out, nil
}

// checkBatchRename refuses to change medicine name or batch number while copies of the batch
// exist under other barangays: allocate and redistribute find those copies by name and batch.
func checkBatchRename(ctx context.Context, medRepo repository.MedicationRepository, current *entity.Medication, patch entity.MedicationPatch) error {
	field := ""
	switch {
	case patch.MedicineName != nil && *patch.MedicineName != current.MedicineName:
		field = "medicine_name"
	case patch.BatchNumber != nil && *patch.BatchNumber != current.BatchNumber:
		field = "batch_number"
	default:
		return nil
	}
	copies, err := medRepo.List(ctx, repository.MedicationFilter{MedicineName: current.MedicineName, BatchNumber: current.BatchNumber})
	if err != nil {
		return err
	}
	for _, m := range copies {
		if m.ID != current.ID {
			return domain.NewValidationError(field, "cannot change while this batch is stocked under other barangays")
		}
	}
	return nil
}

// Get returns one item if the caller can see it.
func (uc *MedicationUseCase) Get(ctx context.Context, p *entity.Principal, id string) (*dto.MedicationResponse, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	m, err := uc.medRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if !access.CanView(p, m.Barangay) {
		return nil, domain.ErrForbidden
	}
	out := uc.toMedicationResponse(m, uc.now())
	return &out, nil
}

// Overview lists the caller's visible stock with derived alerts, suggestions and recent history.
func (uc *MedicationUseCase) Overview(ctx context.Context, p *entity.Principal) (*dto.InventoryOverviewResponse, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	scope, ok := access.VisibleBarangays(p)
	if !ok {
		return nil, domain.NewValidationError("assigned_barangay", "no assigned barangay found for this user")
	}

	items, err := uc.medRepo.List(ctx, repository.MedicationFilter{Barangays: scope})
	if err != nil {
		return nil, err
	}
	events, err := uc.distRepo.List(ctx, repository.DistributionFilter{Barangays: scope, Limit: historyLimit})
	if err != nil {
		return nil, err
	}
	barangays, err := uc.knownBarangays(ctx, p, scope)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	out := &dto.InventoryOverviewResponse{
		Mode:        "cho",
		Barangays:   barangays,
		Items:       make([]dto.MedicationResponse, 0, len(items)),
		History:     make([]dto.DistributionEventResponse, 0, len(events)),
		GeneratedAt: now,
	}
	if scope != nil {
		out.Mode = "barangay"
		out.Barangay = access.NormalizeBarangay(p.AssignedBarangay)
	}
	for _, m := range items {
		out.Items = append(out.Items, uc.toMedicationResponse(m, now))
	}
	for _, e := range events {
		out.History = append(out.History, ToEventResponse(e))
	}

	alerts, suggestions := domaininv.BuildInsights(items, now)
	out.Alerts = make([]dto.AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out.Alerts = append(out.Alerts, dto.AlertResponse{Type: a.Type, MedicationID: a.MedicationID, Severity: a.Severity, Message: a.Message})
	}
	out.Suggestions = make([]dto.SuggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		out.Suggestions = append(out.Suggestions, dto.SuggestionResponse{
			Type:                s.Type,
			MedicationID:        s.MedicationID,
			Message:             s.Message,
			RecommendedQuantity: s.RecommendedQuantity,
			FromBarangay:        s.FromBarangay,
			ToBarangay:          s.ToBarangay,
		})
	}
	return out, nil
}

// History returns the caller's visible distribution events, newest first.
// medicationID narrows to one item; limit is clamped to 1..100.
func (uc *MedicationUseCase) History(ctx context.Context, p *entity.Principal, medicationID string, limit int) ([]dto.DistributionEventResponse, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	scope, ok := access.VisibleBarangays(p)
	if !ok {
		return nil, domain.NewValidationError("assigned_barangay", "no assigned barangay found for this user")
	}
	if limit <= 0 || limit > historyLimit {
		limit = historyLimit
	}
	events, err := uc.distRepo.List(ctx, repository.DistributionFilter{
		Barangays:    scope,
		MedicationID: strings.TrimSpace(medicationID),
		Limit:        limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.DistributionEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, ToEventResponse(e))
	}
	return out, nil
}

// Report renders the caller's overview as a PDF.
func (uc *MedicationUseCase) Report(ctx context.Context, p *entity.Principal) ([]byte, error) {
	if uc.report == nil {
		return nil, domain.ErrNotFound
	}
	overview, err := uc.Overview(ctx, p)
	if err != nil {
		return nil, err
	}
	return uc.report.GenerateInventoryReport(overview)
}

// knownBarangays merges barangays holding stock with those assigned to accounts.
// Scoped callers only see their own.
func (uc *MedicationUseCase) knownBarangays(ctx context.Context, p *entity.Principal, scope []string) ([]string, error) {
	if scope != nil {
		return []string{access.NormalizeBarangay(p.AssignedBarangay)}, nil
	}
	fromStock, err := uc.medRepo.ListBarangays(ctx)
	if err != nil {
		return nil, err
	}
	fromUsers, err := uc.userRepo.ListAssignedBarangays(ctx)
	if err != nil {
		return nil, err
	}
	set := map[string]struct{}{}
	for _, list := range [][]string{fromStock, fromUsers} {
		for _, b := range list {
			if n := access.NormalizeBarangay(b); n != "" {
				set[n] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(set))
	for b := range set {
		out = append(out, b)
	}
	sort.Strings(out)
	return out, nil
}

func (uc *MedicationUseCase) toMedicationResponse(m *entity.Medication, now time.Time) dto.MedicationResponse {
	state := domaininv.StateOf(m)
	return dto.MedicationResponse{
		ID:                m.ID,
		MedicineName:      m.MedicineName,
		Category:          m.Category,
		BatchNumber:       m.BatchNumber,
		Quantity:          m.Quantity,
		ExpirationDate:    m.ExpirationDate.Format(dateLayout),
		LowStockThreshold: m.LowStockThreshold,
		Barangay:          m.Barangay,
		State:             string(state),
		DaysToExpiry:      domaininv.DaysToExpiry(m.ExpirationDate, now),
		IsLowStock:        state != domaininv.StateOK,
		IsExpiringSoon:    domaininv.IsExpiringSoon(m.ExpirationDate, now),
		UpdatedAt:         m.UpdatedAt,
	}
}

// ToEventResponse maps a ledger event to its HTTP shape.
func ToEventResponse(e *entity.DistributionEvent) dto.DistributionEventResponse {
	return dto.DistributionEventResponse{
		ID:           e.ID,
		ActionType:   e.ActionType,
		MedicationID: e.MedicationID,
		MedicineName: e.MedicineName,
		BatchNumber:  e.BatchNumber,
		Quantity:     e.Quantity,
		Barangay:     e.Barangay,
		FromBarangay: e.FromBarangay,
		ToBarangay:   e.ToBarangay,
		Notes:        e.Notes,
		PerformedBy:  e.PerformedBy,
		OccurredAt:   e.OccurredAt,
	}
}
