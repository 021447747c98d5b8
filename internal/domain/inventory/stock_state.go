// Package inventory holds the pure stock rules: state classification and replenishment insights.
package inventory

import (
	"math"
	"time"

	"github.com/nagacare/health-admin-api/internal/domain/entity"
)

// StockState classifies an item's quantity against its low-stock threshold.
type StockState string

const (
	StateOK       StockState = "OK"
	StateLow      StockState = "LOW"
	StateDepleted StockState = "DEPLETED"
)

// ExpiringSoonDays is the window in which a batch is flagged as expiring soon.
const ExpiringSoonDays = 30

// ClassifyStock returns DEPLETED at zero, LOW up to and including threshold, OK above it.
func ClassifyStock(quantity, threshold int64) StockState {
	switch {
	case quantity <= 0:
		return StateDepleted
	case quantity <= threshold:
		return StateLow
	default:
		return StateOK
	}
}

// StateOf classifies m.
func StateOf(m *entity.Medication) StockState {
	return ClassifyStock(m.Quantity, m.LowStockThreshold)
}

// DaysToExpiry rounds up the days between now and the expiration date (negative once expired).
func DaysToExpiry(expiration, now time.Time) int {
	return int(math.Ceil(expiration.Sub(now).Hours() / 24))
}

// IsExpiringSoon reports whether the batch expires within ExpiringSoonDays.
func IsExpiringSoon(expiration, now time.Time) bool {
	return DaysToExpiry(expiration, now) <= ExpiringSoonDays
}
