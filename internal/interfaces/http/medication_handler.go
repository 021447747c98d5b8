package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nagacare/health-admin-api/internal/application/dto"
	"github.com/nagacare/health-admin-api/internal/application/inventory"
	"github.com/nagacare/health-admin-api/pkg/logger"
)

// MedicationHandler handles the medication catalog, the overview and the PDF report.
type MedicationHandler struct {
	uc  *inventory.MedicationUseCase
	log *logger.Logger
}

// NewMedicationHandler builds the handler.
func NewMedicationHandler(uc *inventory.MedicationUseCase, log *logger.Logger) *MedicationHandler {
	return &MedicationHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Inventory overview
// @Description  Items, alerts, suggestions and recent history visible to the caller.
// @Tags         medications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryOverviewResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/medications [get]
func (h *MedicationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.Overview(c.Context(), GetPrincipal(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Inventory report (PDF)
// @Tags         medications
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/medications/report [get]
func (h *MedicationHandler) Report(c *fiber.Ctx) error {
	pdf, err := h.uc.Report(c.Context(), GetPrincipal(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="medication-inventory-%s.pdf"`, time.Now().Format("20060102")))
	return c.Send(pdf)
}

// GetByID godoc
// @Summary      Get medication item
// @Tags         medications
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Medication item ID"
// @Success      200  {object}  dto.MedicationResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/medications/{id} [get]
func (h *MedicationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Register medication item
// @Description  An empty barangay registers central supply.
// @Tags         medications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMedicationRequest  true  "Item data"
// @Success      201   {object}  dto.MedicationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/medications [post]
func (h *MedicationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMedicationRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Create(c.Context(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Update medication metadata
// @Description  Quantity cannot be changed here; use a distribution action.
// @Tags         medications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "Medication item ID"
// @Param        body  body  dto.UpdateMedicationRequest  true  "Fields to change"
// @Success      200   {object}  dto.MedicationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/medications/{id} [put]
func (h *MedicationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMedicationRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Update(c.Context(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
