package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nagacare/health-admin-api/internal/application/dto"
	"github.com/nagacare/health-admin-api/internal/application/resident"
	"github.com/nagacare/health-admin-api/pkg/logger"
	"github.com/nagacare/health-admin-api/pkg/metrics"
)

// ScannerHandler handles resident QR scans and profile lookups.
type ScannerHandler struct {
	uc      *resident.ScanUseCase
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewScannerHandler builds the handler.
func NewScannerHandler(uc *resident.ScanUseCase, m *metrics.Metrics, log *logger.Logger) *ScannerHandler {
	return &ScannerHandler{uc: uc, metrics: m, log: log}
}

// Scan godoc
// @Summary      Scan resident QR code
// @Description  Malformed, foreign or tampered codes are all answered with the same INVALID_QR error.
// @Tags         scanner
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScanRequest  true  "raw QR text"
// @Success      200   {object}  dto.ResidentProfileResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/scanner/scan [post]
func (h *ScannerHandler) Scan(c *fiber.Ctx) error {
	var in dto.ScanRequest
	if err := parseBody(c, &in); err != nil {
		h.metrics.ObserveScan(outcomeOf(err))
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Scan(c.Context(), GetPrincipal(c), resident.ScanInput{
		Raw:        in.Raw,
		DeviceInfo: in.DeviceInfo,
		Notes:      in.Notes,
	})
	h.metrics.ObserveScan(outcomeOf(err))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetResident godoc
// @Summary      Resident profile
// @Tags         scanner
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Resident ID"
// @Success      200  {object}  dto.ResidentProfileResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/residents/{id} [get]
func (h *ScannerHandler) GetResident(c *fiber.Ctx) error {
	out, err := h.uc.Profile(c.Context(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
