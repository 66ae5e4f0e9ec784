package service

import (
	"context"
	"net/http"

	"github.com/cloudbase/checkout-payments/internal/core/domain"
	"github.com/cloudbase/checkout-payments/internal/core/ports"
	"github.com/cloudbase/checkout-payments/internal/logging"
)

// WebhookService verifies inbound Stripe events and routes settled and
// failed payments to the reconciler. The returned value is the HTTP status
// for the delivery: 403 until verification and routing complete without
// error, then 200. No detail about the failure is exposed to the caller.
type WebhookService struct {
	settings   domain.Settings
	verifier   ports.WebhookVerifier
	orders     ports.OrderStore
	reconciler *Reconciler
	log        *logging.Logger
}

// NewWebhookService creates a new webhook service.
func NewWebhookService(
	settings domain.Settings,
	verifier ports.WebhookVerifier,
	orders ports.OrderStore,
	reconciler *Reconciler,
	log *logging.Logger,
) *WebhookService {
	return &WebhookService{
		settings:   settings,
		verifier:   verifier,
		orders:     orders,
		reconciler: reconciler,
		log:        log,
	}
}

// HandleEvent processes one webhook delivery and returns the response
// status. Events that verify but are not payment-intent success/failure
// notifications are acknowledged with 200 and no further processing.
func (s *WebhookService) HandleEvent(ctx context.Context, payload []byte, sigHeader string) int {
	ev, err := s.verifier.Verify(payload, sigHeader, s.settings.WebhookSecret)
	if err != nil {
		s.log.Warn("webhook verification failed", "error", err)
		return http.StatusForbidden
	}

	event, err := domain.ParsePaymentEvent(*ev)
	if err != nil {
		s.log.Warn("webhook payload could not be parsed", "error", err)
		return http.StatusForbidden
	}

	// Unknown object and event kinds are acknowledged, not rejected, so
	// Stripe does not keep redelivering them.
	if event.Kind == domain.EventOther {
		s.log.Info("ignoring webhook event", "type", ev.Type)
		return http.StatusOK
	}

	order, err := s.orders.GetOrderByNumber(ctx, event.Intent.OrderNumber())
	if err != nil {
		// Leave the response at 403; Stripe's redelivery is the retry path
		// for an order that cannot be located yet.
		s.log.Warn("order for webhook event not found",
			"order_no", event.Intent.OrderNumber(), "intent_id", event.Intent.ID, "error", err)
		return http.StatusForbidden
	}

	switch event.Kind {
	case domain.EventPaymentSucceeded:
		err = s.reconciler.ReconcileSuccess(ctx, order, event.Intent)
	case domain.EventPaymentFailed:
		err = s.reconciler.ReconcileFailure(ctx, order, event.Intent)
	}
	if err != nil {
		s.log.Warn("webhook reconciliation failed",
			"order_no", order.OrderNumber(), "intent_id", event.Intent.ID, "error", err)
		return http.StatusForbidden
	}

	return http.StatusOK
}
