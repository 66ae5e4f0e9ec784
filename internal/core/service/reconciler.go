package service

import (
	"context"
	"fmt"

	"github.com/cloudbase/checkout-payments/internal/core/domain"
	"github.com/cloudbase/checkout-payments/internal/core/ports"
	"github.com/cloudbase/checkout-payments/internal/logging"
)

// Order statuses that mean payment has already been settled. A success event
// arriving for an order in one of these states is a duplicate delivery.
var settledStatuses = []string{"processing", "completed"}

// Reconciler applies verified payment events to orders.
type Reconciler struct {
	log *logging.Logger
}

// NewReconciler creates a new reconciler.
func NewReconciler(log *logging.Logger) *Reconciler {
	return &Reconciler{log: log}
}

// ReconcileSuccess settles an order for a succeeded payment intent. The
// check against already-settled statuses makes duplicate success deliveries
// no-ops: no metadata, notes, or transitions are repeated.
func (r *Reconciler) ReconcileSuccess(ctx context.Context, order ports.Order, intent *domain.PaymentIntent) error {
	if order.HasStatus(settledStatuses...) {
		r.log.Info("payment already settled, skipping",
			"order_no", order.OrderNumber(), "intent_id", intent.ID)
		return nil
	}

	if len(intent.Charges.Data) == 0 {
		return domain.NewGatewayError(domain.ErrProcessorResponse,
			"succeeded payment intent has no charges", "PROCESSOR_ERROR")
	}
	details := intent.Charges.Data[0].PaymentMethodDetails

	if err := order.AddMetadata(ctx, domain.MetaSuccessfulPaymentMethod, details.JSON(), true); err != nil {
		return err
	}
	if err := order.AddNote(ctx, "Payment method type is "+details.Type); err != nil {
		return err
	}

	// The order system decides whether settlement means "processing" or
	// "completed".
	if err := order.MarkPaymentSettled(ctx, intent.ID); err != nil {
		return err
	}

	r.log.Info(fmt.Sprintf("payment intent successful for Order #%s", order.OrderNumber()))
	r.log.Debug("payment intent", intent)

	return nil
}

// ReconcileFailure records a failed payment attempt and marks the order
// failed. There is no already-failed guard: a redelivered failure event
// re-appends its notes and re-sets the same status.
func (r *Reconciler) ReconcileFailure(ctx context.Context, order ports.Order, intent *domain.PaymentIntent) error {
	if intent.LastPaymentError == nil {
		return domain.NewGatewayError(domain.ErrProcessorResponse,
			"failed payment intent has no last payment error", "PROCESSOR_ERROR")
	}
	lastErr := intent.LastPaymentError

	if err := order.AddMetadata(ctx, domain.MetaFailedPaymentMethod, lastErr.PaymentMethod.JSON(), true); err != nil {
		return err
	}
	if err := order.AddNote(ctx, "Payment method type is "+lastErr.PaymentMethod.Type); err != nil {
		return err
	}
	if err := order.AddNote(ctx, lastErr.Message); err != nil {
		return err
	}

	if err := order.SetStatus(ctx, "failed"); err != nil {
		return err
	}

	r.log.Info(fmt.Sprintf("payment intent failed for Order #%s", order.OrderNumber()))
	r.log.Debug("payment intent", intent)

	return nil
}
