package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagacare/health-admin-api/internal/application/dto"
)

func TestGenerateInventoryReport(t *testing.T) {
	g := NewMarotoPDFGenerator("")
	out, err := g.GenerateInventoryReport(&dto.InventoryOverviewResponse{
		Mode:     "barangay",
		Barangay: "CONCEPCION",
		Items: []dto.MedicationResponse{
			{ID: "1", MedicineName: "Paracetamol", BatchNumber: "P1", Barangay: "CONCEPCION", Quantity: 5, ExpirationDate: "2027-01-01", State: "LOW"},
			{ID: "2", MedicineName: "ORS", BatchNumber: "O1", Quantity: 80, ExpirationDate: "2026-03-20", State: "OK", IsExpiringSoon: true},
		},
		Alerts:      []dto.AlertResponse{{Type: "low_stock", MedicationID: "1", Severity: "warning", Message: "Paracetamol is low"}},
		Suggestions: []dto.SuggestionResponse{{Type: "restock", MedicationID: "1", Message: "Restock Paracetamol"}},
		GeneratedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateInventoryReport_NilOverview(t *testing.T) {
	_, err := NewMarotoPDFGenerator("x").GenerateInventoryReport(nil)
	assert.Error(t, err)
}
