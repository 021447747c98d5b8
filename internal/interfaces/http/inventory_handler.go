package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nagacare/health-admin-api/internal/application/dto"
	"github.com/nagacare/health-admin-api/internal/application/inventory"
	"github.com/nagacare/health-admin-api/internal/domain/entity"
	"github.com/nagacare/health-admin-api/pkg/logger"
	"github.com/nagacare/health-admin-api/pkg/metrics"
)

const defaultHistoryLimit = 50

// InventoryHandler handles distribution actions and the distribution history.
type InventoryHandler struct {
	distribute *inventory.DistributeUseCase
	meds       *inventory.MedicationUseCase
	metrics    *metrics.Metrics
	log        *logger.Logger
}

// NewInventoryHandler builds the handler.
func NewInventoryHandler(distribute *inventory.DistributeUseCase, meds *inventory.MedicationUseCase, m *metrics.Metrics, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{distribute: distribute, meds: meds, metrics: m, log: log}
}

// Distribute godoc
// @Summary      Record a distribution action
// @Description  allocate, dispense, restock, redistribute or adjust. The stock change, the
//
//	distribution event and the audit row are committed together or not at all.
//
// @Tags         medications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DistributionRequest  true  "actionType, medicationId, quantity and the scope fields the action needs"
// @Success      201   {object}  dto.DistributionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/medications/distribution [post]
func (h *InventoryHandler) Distribute(c *fiber.Ctx) error {
	var in dto.DistributionRequest
	if err := parseBody(c, &in); err != nil {
		h.metrics.ObserveDistribution(actionLabel(in.ActionType), outcomeOf(err))
		return writeError(c, h.log, err)
	}
	ev, err := h.distribute.Distribute(c.Context(), GetPrincipal(c), inventory.DistributeInput{
		ActionType:   in.ActionType,
		MedicationID: in.MedicationID,
		Quantity:     in.Quantity,
		Barangay:     in.Barangay,
		FromBarangay: in.FromBarangay,
		ToBarangay:   in.ToBarangay,
		Notes:        in.Notes,
		Adjustment:   in.Adjustment,
	})
	h.metrics.ObserveDistribution(actionLabel(in.ActionType), outcomeOf(err))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.DistributionResponse{
		Message: "distribution recorded",
		Event:   inventory.ToEventResponse(ev),
	})
}

// actionLabel keeps the metric label set closed: client text outside the five actions is "unknown".
func actionLabel(actionType string) string {
	if entity.IsValidActionType(actionType) {
		return actionType
	}
	return metrics.LabelUnknown
}

// History godoc
// @Summary      Distribution history
// @Description  Most recent events first, limited to the caller's barangay.
// @Tags         medications
// @Security     Bearer
// @Produce      json
// @Param        medication_id  query  string  false  "Only events for this item"
// @Param        limit          query  int     false  "1-100, default 50"
// @Success      200  {array}   dto.DistributionEventResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/medications/history [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	out, err := h.meds.History(c.Context(), GetPrincipal(c), c.Query("medication_id"), c.QueryInt("limit", defaultHistoryLimit))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
