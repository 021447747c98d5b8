package inventory

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nagacare/health-admin-api/internal/domain"
	"github.com/nagacare/health-admin-api/internal/domain/access"
	"github.com/nagacare/health-admin-api/internal/domain/entity"
	"github.com/nagacare/health-admin-api/internal/domain/repository"
	"github.com/nagacare/health-admin-api/pkg/logger"
)

// maxDistributionQuantity caps a single action.
const maxDistributionQuantity = 1_000_000

// DistributeInput one distribution action as submitted by a caller.
type DistributeInput struct {
	ActionType   string
	MedicationID string
	Quantity     float64
	Barangay     string
	FromBarangay string
	ToBarangay   string
	Notes        string
	Adjustment   string // adjust only: increase (default) or decrease
}

// distributionPlan is a validated, normalized DistributeInput.
type distributionPlan struct {
	action       string
	medicationID string
	quantity     int64
	barangay     string
	from         string
	to           string
	notes        string
	decrease     bool
}

// DistributeUseCase applies allocate, dispense, restock, redistribute and adjust actions.
// Every successful action changes the ledger, appends one DistributionEvent and one audit row
// in a single transaction.
type DistributeUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewDistributeUseCase builds the use case.
func NewDistributeUseCase(txRunner TxRunner, log *logger.Logger) *DistributeUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DistributeUseCase{txRunner: txRunner, log: log, now: time.Now}
}

// WithClock replaces the clock used to stamp events.
func (uc *DistributeUseCase) WithClock(now func() time.Time) *DistributeUseCase {
	uc.now = now
	return uc
}

// Distribute validates in, checks the caller's rights and scope, then applies the action.
func (uc *DistributeUseCase) Distribute(ctx context.Context, p *entity.Principal, in DistributeInput) (*entity.DistributionEvent, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	if !access.CanManageInventory(p.Role) {
		return nil, domain.ErrForbidden
	}
	plan, err := validateDistribution(in)
	if err != nil {
		return nil, err
	}
	if err := checkScopeFields(p, plan); err != nil {
		return nil, err
	}

	now := uc.now()
	var event *entity.DistributionEvent
	err = uc.txRunner.Run(ctx, func(
		medRepo repository.MedicationRepository,
		distRepo repository.DistributionRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		item, err := medRepo.GetByID(ctx, plan.medicationID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if !access.CanView(p, item.Barangay) {
			return domain.ErrForbidden
		}

		var changes map[string]any
		event, changes, err = uc.apply(ctx, medRepo, p, plan, item)
		if err != nil {
			return err
		}
		event.ID = uuid.New().String()
		event.ActionType = plan.action
		event.Quantity = plan.quantity
		event.Notes = plan.notes
		event.PerformedBy = p.ID
		event.OccurredAt = now
		if err := distRepo.Append(ctx, event); err != nil {
			return err
		}

		changes["event_id"] = event.ID
		changes["quantity"] = plan.quantity
		if plan.notes != "" {
			changes["notes"] = plan.notes
		}
		return auditRepo.Append(ctx, &entity.AuditLog{
			ID:           uuid.New().String(),
			ResourceType: entity.AuditResourceMedication,
			ResourceID:   event.MedicationID,
			ActorID:      p.ID,
			Action:       "distribution_" + plan.action,
			Changes:      changes,
			CreatedAt:    now,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("action", plan.action).
		Str("medication_id", event.MedicationID).
		Int64("quantity", plan.quantity).
		Str("user_id", p.ID).
		Msg("distribution applied")
	return event, nil
}

// apply performs the ledger mutation for plan and returns the event skeleton plus audit changes.
func (uc *DistributeUseCase) apply(
	ctx context.Context,
	medRepo repository.MedicationRepository,
	p *entity.Principal,
	plan distributionPlan,
	item *entity.Medication,
) (*entity.DistributionEvent, map[string]any, error) {
	switch plan.action {
	case entity.ActionAllocate:
		if !item.IsCentral() {
			return nil, nil, domain.NewValidationError("medicationId", "allocations must draw from central supply")
		}
		dest, err := medRepo.EnsureEquivalent(ctx, item, plan.barangay, p.ID)
		if err != nil {
			return nil, nil, err
		}
		changes, err := transfer(ctx, medRepo, p.ID, item, dest, plan.quantity)
		if err != nil {
			return nil, nil, err
		}
		return &entity.DistributionEvent{MedicationID: item.ID, Barangay: plan.barangay}, changes, nil

	case entity.ActionRedistribute:
		source := item
		if item.Barangay != plan.from {
			eq, err := medRepo.FindEquivalent(ctx, item.MedicineName, item.BatchNumber, plan.from)
			if err != nil {
				return nil, nil, err
			}
			if eq == nil {
				return nil, nil, domain.ErrNotFound
			}
			source = eq
		}
		dest, err := medRepo.EnsureEquivalent(ctx, source, plan.to, p.ID)
		if err != nil {
			return nil, nil, err
		}
		changes, err := transfer(ctx, medRepo, p.ID, source, dest, plan.quantity)
		if err != nil {
			return nil, nil, err
		}
		return &entity.DistributionEvent{MedicationID: source.ID, FromBarangay: plan.from, ToBarangay: plan.to}, changes, nil

	case entity.ActionDispense:
		if plan.barangay != "" && plan.barangay != item.Barangay {
			return nil, nil, domain.NewValidationError("barangay", "does not match the item's barangay")
		}
		return singleLeg(ctx, medRepo, p.ID, item, -plan.quantity)

	case entity.ActionRestock:
		return singleLeg(ctx, medRepo, p.ID, item, plan.quantity)

	case entity.ActionAdjust:
		delta := plan.quantity
		if plan.decrease {
			delta = -delta
		}
		event, changes, err := singleLeg(ctx, medRepo, p.ID, item, delta)
		if err != nil {
			return nil, nil, err
		}
		changes["adjustment"] = delta
		return event, changes, nil
	}
	return nil, nil, domain.NewValidationError("actionType", "unsupported action")
}

func singleLeg(ctx context.Context, medRepo repository.MedicationRepository, actorID string, item *entity.Medication, delta int64) (*entity.DistributionEvent, map[string]any, error) {
	after, err := medRepo.ApplyDelta(ctx, item.ID, delta, actorID)
	if err != nil {
		return nil, nil, err
	}
	return &entity.DistributionEvent{MedicationID: item.ID, Barangay: item.Barangay}, map[string]any{
		"quantity_before": after.Quantity - delta,
		"quantity_after":  after.Quantity,
	}, nil
}

// transfer moves qty from source to dest. Both rows are locked first; any failure
// aborts the surrounding transaction so neither leg persists.
func transfer(ctx context.Context, medRepo repository.MedicationRepository, actorID string, source, dest *entity.Medication, qty int64) (map[string]any, error) {
	if err := medRepo.LockForUpdate(ctx, source.ID, dest.ID); err != nil {
		return nil, err
	}
	src, err := medRepo.ApplyDelta(ctx, source.ID, -qty, actorID)
	if err != nil {
		return nil, err
	}
	dst, err := medRepo.ApplyDelta(ctx, dest.ID, qty, actorID)
	if err != nil {
		return nil, fmt.Errorf("credit %s: %w", dest.ID, err)
	}
	return map[string]any{
		"source_id":                   source.ID,
		"source_quantity_before":      src.Quantity + qty,
		"source_quantity_after":       src.Quantity,
		"destination_id":              dest.ID,
		"destination_barangay":        dest.Barangay,
		"destination_quantity_before": dst.Quantity - qty,
		"destination_quantity_after":  dst.Quantity,
	}, nil
}

func validateDistribution(in DistributeInput) (distributionPlan, error) {
	plan := distributionPlan{
		action:       strings.TrimSpace(in.ActionType),
		medicationID: strings.TrimSpace(in.MedicationID),
		barangay:     access.NormalizeBarangay(in.Barangay),
		from:         access.NormalizeBarangay(in.FromBarangay),
		to:           access.NormalizeBarangay(in.ToBarangay),
		notes:        strings.TrimSpace(in.Notes),
	}
	if !entity.IsValidActionType(plan.action) {
		return plan, domain.NewValidationError("actionType", "must be one of allocate, dispense, restock, redistribute, adjust")
	}
	if plan.medicationID == "" {
		return plan, domain.NewValidationError("medicationId", "is required")
	}

	q := in.Quantity
	switch {
	case math.IsNaN(q) || math.IsInf(q, 0) || q <= 0:
		return plan, domain.NewValidationError("quantity", "must be a positive number")
	case q != math.Trunc(q):
		return plan, domain.NewValidationError("quantity", "must be a whole number")
	case q > maxDistributionQuantity:
		return plan, domain.NewValidationError("quantity", "is too large")
	}
	plan.quantity = int64(q)

	if len(plan.notes) > 500 {
		return plan, domain.NewValidationError("notes", "must be at most 500 characters")
	}

	switch plan.action {
	case entity.ActionAllocate:
		if plan.barangay == "" {
			return plan, domain.NewValidationError("barangay", "is required for allocate")
		}
	case entity.ActionRedistribute:
		if plan.from == "" {
			return plan, domain.NewValidationError("fromBarangay", "is required for redistribute")
		}
		if plan.to == "" {
			return plan, domain.NewValidationError("toBarangay", "is required for redistribute")
		}
		if plan.from == plan.to {
			return plan, domain.NewValidationError("toBarangay", "must differ from fromBarangay")
		}
	case entity.ActionAdjust:
		switch strings.ToLower(strings.TrimSpace(in.Adjustment)) {
		case "", entity.AdjustIncrease:
		case entity.AdjustDecrease:
			plan.decrease = true
		default:
			return plan, domain.NewValidationError("adjustment", "must be increase or decrease")
		}
	}
	return plan, nil
}

// checkScopeFields rejects scope fields naming barangays outside the caller's visibility.
// The destination of a redistribution is the one barangay a caller may name outside its own.
func checkScopeFields(p *entity.Principal, plan distributionPlan) error {
	if plan.barangay != "" && !access.IsInScope(p.Role, p.AssignedBarangay, plan.barangay) {
		return domain.ErrForbidden
	}
	if plan.from != "" && !access.IsInScope(p.Role, p.AssignedBarangay, plan.from) {
		return domain.ErrForbidden
	}
	return nil
}
