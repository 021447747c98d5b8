package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/nagacare/health-admin-api/internal/domain/entity"
)

// Alert and suggestion kinds.
const (
	AlertLowStock     = "low_stock"
	AlertExpiringSoon = "expiring_soon"

	SeverityWarning  = "warning"
	SeverityCritical = "critical"

	SuggestRestock            = "restock"
	SuggestRedistribute       = "redistribute"
	SuggestPrioritizeDispense = "prioritize_dispense"
)

// Alert flags an item needing attention.
type Alert struct {
	Type         string
	MedicationID string
	Severity     string
	Message      string
}

// Suggestion is a recommended distribution action.
type Suggestion struct {
	Type                string
	MedicationID        string
	Message             string
	RecommendedQuantity int64
	FromBarangay        string
	ToBarangay          string
}

// BuildInsights derives alerts and suggestions from the items a caller can see.
// Critical alerts sort before warnings; suggestions keep item order.
func BuildInsights(items []*entity.Medication, now time.Time) ([]Alert, []Suggestion) {
	alerts := []Alert{}
	suggestions := []Suggestion{}

	for _, m := range items {
		if StateOf(m) != StateOK {
			severity := SeverityWarning
			if m.Quantity == 0 || m.Quantity <= max64(m.LowStockThreshold/2, 1) {
				severity = SeverityCritical
			}
			alerts = append(alerts, Alert{
				Type:         AlertLowStock,
				MedicationID: m.ID,
				Severity:     severity,
				Message:      fmt.Sprintf("%s (%s) is low on stock (%d units left).", m.MedicineName, m.BatchNumber, m.Quantity),
			})

			recommended := max64(m.LowStockThreshold*2-m.Quantity, 10)
			suggestions = append(suggestions, Suggestion{
				Type:                SuggestRestock,
				MedicationID:        m.ID,
				RecommendedQuantity: recommended,
				Message:             fmt.Sprintf("Restock %s by at least %d units.", m.MedicineName, recommended),
			})
		}

		days := DaysToExpiry(m.ExpirationDate, now)
		if days <= ExpiringSoonDays {
			severity := SeverityWarning
			if days <= 7 {
				severity = SeverityCritical
			}
			shown := days
			if shown < 0 {
				shown = 0
			}
			alerts = append(alerts, Alert{
				Type:         AlertExpiringSoon,
				MedicationID: m.ID,
				Severity:     severity,
				Message:      fmt.Sprintf("%s batch %s expires in %d day(s).", m.MedicineName, m.BatchNumber, shown),
			})
			suggestions = append(suggestions, Suggestion{
				Type:         SuggestPrioritizeDispense,
				MedicationID: m.ID,
				Message: fmt.Sprintf("Prioritize dispensing %s (batch %s) before %s.",
					m.MedicineName, m.BatchNumber, m.ExpirationDate.Format("2006-01-02")),
			})
		}
	}

	suggestions = append(suggestions, redistributionSuggestions(items)...)

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity == SeverityCritical && alerts[j].Severity != SeverityCritical
	})
	return alerts, suggestions
}

// redistributionSuggestions pairs, per medicine batch, the first barangay holding a surplus
// with the first one running dry.
func redistributionSuggestions(items []*entity.Medication) []Suggestion {
	type batchKey struct{ name, batch string }
	groups := map[batchKey][]*entity.Medication{}
	var order []batchKey
	for _, m := range items {
		if m.IsCentral() {
			continue
		}
		k := batchKey{m.MedicineName, m.BatchNumber}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], m)
	}

	var out []Suggestion
	for _, k := range order {
		group := groups[k]
		sort.SliceStable(group, func(i, j int) bool { return group[i].Barangay < group[j].Barangay })

		var source, target *entity.Medication
		for _, m := range group {
			if source == nil && m.Quantity > m.LowStockThreshold {
				source = m
			}
			if target == nil && m.Quantity <= max64(m.LowStockThreshold/3, 5) {
				target = m
			}
		}
		if source == nil || target == nil || source == target {
			continue
		}
		qty := max64(min64(source.Quantity-source.LowStockThreshold, 20), 5)
		out = append(out, Suggestion{
			Type:                SuggestRedistribute,
			MedicationID:        source.ID,
			RecommendedQuantity: qty,
			FromBarangay:        source.Barangay,
			ToBarangay:          target.Barangay,
			Message: fmt.Sprintf("Redistribute %d units of %s from %s to %s.",
				qty, source.MedicineName, source.Barangay, target.Barangay),
		})
	}
	return out
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
