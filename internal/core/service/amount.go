package service

import (
	"math"

	"github.com/cloudbase/checkout-payments/internal/core/domain"
)

// UnitAmount converts an order total into the integer minor-unit amount
// Stripe expects. Zero-decimal currencies are charged in whole units; every
// other currency is scaled to cents. Unknown currency codes are treated as
// two-decimal.
func UnitAmount(currency string, total float64) int64 {
	if domain.IsZeroDecimalCurrency(currency) {
		return int64(math.Round(total))
	}
	return int64(math.Round(total * 100))
}
