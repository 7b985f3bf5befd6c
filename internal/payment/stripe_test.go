package payment

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const testWebhookSecret = "whsec_test_secret"

func signedPayload(t *testing.T, eventType string, object map[string]any) ([]byte, string) {
	t.Helper()

	raw, err := json.Marshal(object)
	if err != nil {
		t.Fatalf("marshal session object: %v", err)
	}
	payload, err := json.Marshal(map[string]any{
		"id":          "evt_test_1",
		"object":      "event",
		"api_version": stripe.APIVersion,
		"type":        eventType,
		"created":     time.Now().Unix(),
		"data":        map[string]any{"object": json.RawMessage(raw)},
	})
	if err != nil {
		t.Fatalf("marshal event payload: %v", err)
	}

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

func newTestProvider() *StripeProvider {
	return NewStripeProvider(StripeConfig{
		SecretKey:        "sk_test_key",
		WebhookSecret:    testWebhookSecret,
		SuccessURL:       "https://tickets.example.com/success",
		CancelURL:        "https://tickets.example.com/cancel",
		TicketPriceCents: 7500,
	})
}

func TestParseCompletedCheckout(t *testing.T) {
	t.Parallel()

	provider := newTestProvider()

	payload, header := signedPayload(t, "checkout.session.completed", map[string]any{
		"id":     "cs_test_1",
		"object": "checkout.session",
		"metadata": map[string]string{
			"event_id":        "evt-1",
			"quantity":        "3",
			"purchaser_email": "fan@example.com",
		},
	})

	completed, err := provider.ParseCompletedCheckout(payload, header)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if completed == nil {
		t.Fatal("expected a completed checkout")
	}
	if completed.SessionID != "cs_test_1" || completed.EventID != "evt-1" {
		t.Fatalf("unexpected completion: %+v", completed)
	}
	if completed.Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", completed.Quantity)
	}
	if completed.PurchaserEmail != "fan@example.com" {
		t.Fatalf("email = %q", completed.PurchaserEmail)
	}
}

func TestParseCompletedCheckoutPrefersCustomerDetailsEmail(t *testing.T) {
	t.Parallel()

	provider := newTestProvider()

	payload, header := signedPayload(t, "checkout.session.completed", map[string]any{
		"id":     "cs_test_2",
		"object": "checkout.session",
		"metadata": map[string]string{
			"event_id":        "evt-1",
			"quantity":        "1",
			"purchaser_email": "typed@example.com",
		},
		"customer_details": map[string]any{"email": "verified@example.com"},
	})

	completed, err := provider.ParseCompletedCheckout(payload, header)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if completed.PurchaserEmail != "verified@example.com" {
		t.Fatalf("email = %q, want the processor-verified address", completed.PurchaserEmail)
	}
}

func TestParseCompletedCheckoutQuantityFallback(t *testing.T) {
	t.Parallel()

	provider := newTestProvider()

	payload, header := signedPayload(t, "checkout.session.completed", map[string]any{
		"id":     "cs_test_3",
		"object": "checkout.session",
		"metadata": map[string]string{
			"event_id": "evt-1",
			"quantity": "not-a-number",
		},
	})

	completed, err := provider.ParseCompletedCheckout(payload, header)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if completed.Quantity != 1 {
		t.Fatalf("quantity = %d, want fallback 1", completed.Quantity)
	}
}

func TestParseCompletedCheckoutOtherEventType(t *testing.T) {
	t.Parallel()

	provider := newTestProvider()

	payload, header := signedPayload(t, "payment_intent.succeeded", map[string]any{
		"id":     "pi_test_1",
		"object": "payment_intent",
	})

	completed, err := provider.ParseCompletedCheckout(payload, header)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if completed != nil {
		t.Fatalf("expected nil for unrelated event type, got %+v", completed)
	}
}

func TestParseCompletedCheckoutBadSignature(t *testing.T) {
	t.Parallel()

	provider := newTestProvider()

	payload, _ := signedPayload(t, "checkout.session.completed", map[string]any{
		"id":       "cs_test_4",
		"object":   "checkout.session",
		"metadata": map[string]string{"event_id": "evt-1"},
	})

	_, err := provider.ParseCompletedCheckout(payload, "t=1,v1=deadbeef")
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestParseCompletedCheckoutMissingMetadata(t *testing.T) {
	t.Parallel()

	provider := newTestProvider()

	payload, header := signedPayload(t, "checkout.session.completed", map[string]any{
		"id":     "cs_test_5",
		"object": "checkout.session",
	})

	_, err := provider.ParseCompletedCheckout(payload, header)
	if !errors.Is(err, ErrMissingMetadata) {
		t.Fatalf("expected ErrMissingMetadata, got %v", err)
	}
}
