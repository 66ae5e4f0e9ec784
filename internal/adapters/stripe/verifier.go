package stripe

import (
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/cloudbase/checkout-payments/internal/core/domain"
)

// DefaultTolerance is the accepted clock skew between the signature
// timestamp and now. Deliveries outside the window are rejected as replays.
const DefaultTolerance = 5 * time.Minute

// Verifier implements ports.WebhookVerifier using stripe-go's webhook
// signature validation (HMAC-SHA256 over the raw payload with a timestamp
// tolerance check).
type Verifier struct {
	tolerance time.Duration
}

// NewVerifier creates a verifier. A zero tolerance selects DefaultTolerance.
func NewVerifier(tolerance time.Duration) *Verifier {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Verifier{tolerance: tolerance}
}

// Verify validates the payload against the Stripe-Signature header and the
// shared webhook secret, returning the verified event. Invalid, mismatched
// and expired signatures all come back as ErrSignatureVerification.
func (v *Verifier) Verify(payload []byte, sigHeader, secret string) (*domain.WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
		Tolerance:                v.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSignatureVerification, err)
	}

	return &domain.WebhookEvent{
		Type:   string(event.Type),
		Object: event.Data.Raw,
	}, nil
}
