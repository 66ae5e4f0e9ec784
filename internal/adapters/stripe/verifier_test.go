package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudbase/checkout-payments/internal/core/domain"
)

const testWebhookSecret = "whsec_test_secret"

// signedHeader builds a Stripe-Signature header the same way Stripe does:
// v1 = HMAC-SHA256(secret, "<timestamp>.<payload>").
func signedHeader(payload []byte, secret string, at time.Time) string {
	ts := at.Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func eventPayload(t *testing.T) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"id":   "evt_1",
		"type": "payment_intent.succeeded",
		"data": map[string]any{
			"object": map[string]any{
				"id":     "pi_3JX1",
				"status": "succeeded",
			},
		},
	})
	require.NoError(t, err)
	return payload
}

func TestVerifierAcceptsValidSignature(t *testing.T) {
	v := NewVerifier(DefaultTolerance)
	payload := eventPayload(t)
	header := signedHeader(payload, testWebhookSecret, time.Now())

	event, err := v.Verify(payload, header, testWebhookSecret)

	require.NoError(t, err)
	assert.Equal(t, "payment_intent.succeeded", event.Type)

	var object struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(event.Object, &object))
	assert.Equal(t, "pi_3JX1", object.ID)
}

func TestVerifierRejectsTamperedPayload(t *testing.T) {
	v := NewVerifier(DefaultTolerance)
	payload := eventPayload(t)
	header := signedHeader(payload, testWebhookSecret, time.Now())

	tampered := append([]byte{}, payload...)
	tampered[len(tampered)-2] = 'X'

	_, err := v.Verify(tampered, header, testWebhookSecret)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSignatureVerification))
}

func TestVerifierRejectsWrongSecret(t *testing.T) {
	v := NewVerifier(DefaultTolerance)
	payload := eventPayload(t)
	header := signedHeader(payload, "whsec_other", time.Now())

	_, err := v.Verify(payload, header, testWebhookSecret)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSignatureVerification))
}

func TestVerifierRejectsExpiredTimestamp(t *testing.T) {
	v := NewVerifier(DefaultTolerance)
	payload := eventPayload(t)
	header := signedHeader(payload, testWebhookSecret, time.Now().Add(-time.Hour))

	_, err := v.Verify(payload, header, testWebhookSecret)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSignatureVerification))
}

func TestVerifierRejectsMalformedHeader(t *testing.T) {
	v := NewVerifier(DefaultTolerance)

	_, err := v.Verify(eventPayload(t), "not-a-signature", testWebhookSecret)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSignatureVerification))
}

func TestNewVerifierDefaultsTolerance(t *testing.T) {
	assert.Equal(t, DefaultTolerance, NewVerifier(0).tolerance)
	assert.Equal(t, time.Minute, NewVerifier(time.Minute).tolerance)
}
