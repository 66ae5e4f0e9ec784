package domain

import (
	"encoding/json"
	"strings"
)

// Stripe event type tags this service routes on.
const (
	EventTypePaymentSucceeded = "payment_intent.succeeded"
	EventTypePaymentFailed    = "payment_intent.payment_failed"
)

// Payment intent statuses paired with the event types above.
const (
	IntentStatusSucceeded             = "succeeded"
	IntentStatusRequiresPaymentMethod = "requires_payment_method"
)

// PaymentIntentPrefix is the identifier prefix of payment intent objects.
// Events whose embedded object is not prefixed like this are ignored.
const PaymentIntentPrefix = "pi_"

// WebhookEvent is a verified webhook payload: the event's type tag and the
// raw JSON of the embedded object. Produced by the verifier after signature
// validation succeeds.
type WebhookEvent struct {
	Type   string
	Object json.RawMessage
}

// EventKind classifies a verified event for routing.
type EventKind int

const (
	// EventOther covers every event this service does not act on: non
	// payment-intent objects and unhandled (type, status) combinations.
	EventOther EventKind = iota

	// EventPaymentSucceeded is a succeeded payment intent.
	EventPaymentSucceeded

	// EventPaymentFailed is a payment intent whose last attempt failed.
	EventPaymentFailed
)

// PaymentEvent is the typed form of a verified webhook event. Intent is nil
// when the embedded object is not a payment intent.
type PaymentEvent struct {
	Kind   EventKind
	Intent *PaymentIntent
}

// PaymentIntent is the payment intent object embedded in a webhook event.
type PaymentIntent struct {
	ID               string            `json:"id"`
	Status           string            `json:"status"`
	Metadata         map[string]string `json:"metadata"`
	Charges          ChargeList        `json:"charges"`
	LastPaymentError *LastPaymentError `json:"last_payment_error"`
}

// ChargeList is the charges collection embedded in a payment intent.
type ChargeList struct {
	Data []Charge `json:"data"`
}

// Charge is a single charge attached to a payment intent.
type Charge struct {
	PaymentMethodDetails PaymentMethodDetails `json:"payment_method_details"`
}

// LastPaymentError describes why the last payment attempt failed.
type LastPaymentError struct {
	Message       string               `json:"message"`
	PaymentMethod PaymentMethodDetails `json:"payment_method"`
}

// PaymentMethodDetails keeps the payment method type alongside the full raw
// JSON, so the reconciler can record the complete details without this
// package modelling every method-specific shape Stripe may send.
type PaymentMethodDetails struct {
	Type string
	raw  json.RawMessage
}

// UnmarshalJSON captures the raw document and extracts the type tag.
func (d *PaymentMethodDetails) UnmarshalJSON(b []byte) error {
	var v struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	d.Type = v.Type
	d.raw = append(d.raw[:0], b...)
	return nil
}

// MarshalJSON round-trips the original document.
func (d PaymentMethodDetails) MarshalJSON() ([]byte, error) {
	if d.raw == nil {
		return []byte("null"), nil
	}
	return d.raw, nil
}

// JSON returns the details as pretty-printed JSON for storage in order
// metadata.
func (d PaymentMethodDetails) JSON() string {
	if d.raw == nil {
		return "null"
	}
	b, err := json.MarshalIndent(json.RawMessage(d.raw), "", "    ")
	if err != nil {
		return string(d.raw)
	}
	return string(b)
}

// OrderNumber returns the order number the intent's metadata links back to.
func (p *PaymentIntent) OrderNumber() string {
	return p.Metadata[MetadataOrderNumber]
}

// ParsePaymentEvent turns a verified webhook event into its typed form. It is
// the single place payload structure is interpreted; everything downstream
// matches on Kind. Events whose object is not a payment intent, and
// (type, status) pairs this service does not handle, come back as EventOther.
func ParsePaymentEvent(ev WebhookEvent) (*PaymentEvent, error) {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(ev.Object, &probe); err != nil {
		return nil, err
	}

	// Only payment-intent-shaped objects are processed; everything else is
	// accepted and ignored.
	if !strings.HasPrefix(probe.ID, PaymentIntentPrefix) {
		return &PaymentEvent{Kind: EventOther}, nil
	}

	var intent PaymentIntent
	if err := json.Unmarshal(ev.Object, &intent); err != nil {
		return nil, err
	}

	kind := EventOther
	switch {
	case ev.Type == EventTypePaymentSucceeded && intent.Status == IntentStatusSucceeded:
		kind = EventPaymentSucceeded
	case ev.Type == EventTypePaymentFailed && intent.Status == IntentStatusRequiresPaymentMethod:
		kind = EventPaymentFailed
	}

	return &PaymentEvent{Kind: kind, Intent: &intent}, nil
}
