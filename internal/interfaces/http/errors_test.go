package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagacare/health-admin-api/internal/domain"
	"github.com/nagacare/health-admin-api/pkg/logger"
	"github.com/nagacare/health-admin-api/pkg/metrics"
)

func respond(t *testing.T, err error) (int, string) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return writeError(c, logger.Nop(), err) })
	resp, testErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, testErr)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestWriteError_Mapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.NewValidationError("quantity", "must be a whole number"), http.StatusBadRequest, `"VALIDATION"`},
		{domain.ErrInvalidQRPayload, http.StatusBadRequest, `"INVALID_QR"`},
		{domain.ErrUnauthorized, http.StatusUnauthorized, `"UNAUTHORIZED"`},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, `"UNAUTHORIZED"`},
		{domain.ErrInactiveAccount, http.StatusForbidden, `"FORBIDDEN"`},
		{domain.ErrForbidden, http.StatusForbidden, `"FORBIDDEN"`},
		{fmt.Errorf("scan: %w", domain.ErrResidentNotFound), http.StatusNotFound, `"RESIDENT_NOT_FOUND"`},
		{domain.ErrNotFound, http.StatusNotFound, `"NOT_FOUND"`},
		{fmt.Errorf("dispense: %w", domain.ErrInsufficientStock), http.StatusConflict, `"INSUFFICIENT_STOCK"`},
		{domain.ErrDuplicate, http.StatusConflict, `"DUPLICATE"`},
	}
	for _, tc := range cases {
		status, body := respond(t, tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Contains(t, body, tc.code, tc.err.Error())
	}
}

func TestWriteError_ValidationDetails(t *testing.T) {
	_, body := respond(t, domain.NewValidationError("barangay", "is required for allocate"))
	assert.JSONEq(t, `{"code":"VALIDATION","message":"validation failed","details":{"barangay":"is required for allocate"}}`, body)
}

func TestWriteError_StorageFaultIsOpaque(t *testing.T) {
	status, body := respond(t, fmt.Errorf("medication apply delta: %w", errors.New("dial tcp 10.0.0.5:5432: connection refused")))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"code":"INTERNAL","message":"internal error"}`, body)
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, metrics.OutcomeSuccess, outcomeOf(nil))
	assert.Equal(t, metrics.OutcomeInvalid, outcomeOf(domain.NewValidationError("x", "y")))
	assert.Equal(t, metrics.OutcomeInvalid, outcomeOf(domain.ErrInvalidQRPayload))
	assert.Equal(t, metrics.OutcomeRejected, outcomeOf(domain.ErrForbidden))
	assert.Equal(t, metrics.OutcomeNotFound, outcomeOf(domain.ErrResidentNotFound))
	assert.Equal(t, metrics.OutcomeConflict, outcomeOf(domain.ErrInsufficientStock))
	assert.Equal(t, metrics.OutcomeError, outcomeOf(errors.New("boom")))
}
