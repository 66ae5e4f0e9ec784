package service

import (
	"context"
	"strings"

	"github.com/cloudbase/checkout-payments/internal/core/domain"
)

// activePaymentMethods resolves which payment method types to offer on a
// session by intersecting the account's active capabilities with the
// supported-method allowlist. A method is offered when any active capability
// name contains it as a substring (capability names look like
// "card_payments"; the match is deliberately kept as a substring check).
// Results keep the allowlist's order.
func (s *CheckoutService) activePaymentMethods(ctx context.Context, secretKey string) ([]string, error) {
	capabilities, err := s.processor.AccountCapabilities(ctx, secretKey)
	if err != nil {
		return nil, err
	}

	s.log.Info("Stripe account capabilities retrieved")
	s.log.Debug("account capabilities", capabilities)

	var active []string
	for _, method := range domain.SupportedPaymentMethods {
		for capability, status := range capabilities {
			if status == "active" && strings.Contains(capability, method) {
				active = append(active, method)
				break
			}
		}
	}

	return active, nil
}
