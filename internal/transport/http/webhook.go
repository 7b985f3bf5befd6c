package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/fanandmerch/tickets-api/internal/app"
	"github.com/fanandmerch/tickets-api/internal/domain"
	"github.com/fanandmerch/tickets-api/internal/payment"
)

const signatureHeader = "Stripe-Signature"

// WebhookVerifier verifies a raw webhook payload and extracts completed
// checkouts. A nil checkout with nil error means a verified event of some
// other type.
type WebhookVerifier interface {
	ParseCompletedCheckout(payload []byte, sigHeader string) (*payment.CompletedCheckout, error)
}

// PaymentFulfiller is the minimal interface needed to fulfill a completed
// payment.
type PaymentFulfiller interface {
	HandlePaymentCompleted(ctx context.Context, in app.PaymentCompletedInput) (app.FulfillmentResult, error)
}

// HandlePaymentWebhook returns an HTTP handler for POST /payment-webhook.
// The signature is checked over the raw body before any field is trusted.
// Capacity rejection is acknowledged with 200: the payment already happened
// and redelivery cannot change the outcome. Only transient failures return
// 500 so the provider retries.
func HandlePaymentWebhook(verifier WebhookVerifier, svc PaymentFulfiller, audit *app.Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		sig := r.Header.Get(signatureHeader)
		if sig == "" {
			writeError(w, http.StatusBadRequest, codeInvalidSignature, "missing signature header")
			return
		}

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "unreadable body")
			return
		}

		completed, err := verifier.ParseCompletedCheckout(payload, sig)
		if err != nil {
			if errors.Is(err, payment.ErrInvalidSignature) {
				audit.Record(r.Context(), domain.LogLevelWarn, "/payment-webhook", "",
					"webhook signature verification failed")
				writeError(w, http.StatusBadRequest, codeInvalidSignature, err.Error())
				return
			}
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, err.Error())
			return
		}
		if completed == nil {
			// Verified, just not a completed checkout. Acknowledge so the
			// provider stops retrying.
			writeJSON(w, http.StatusOK, webhookResponse{Received: true})
			return
		}

		result, err := svc.HandlePaymentCompleted(r.Context(), app.PaymentCompletedInput{
			SessionID:      completed.SessionID,
			EventID:        completed.EventID,
			Quantity:       completed.Quantity,
			PurchaserEmail: completed.PurchaserEmail,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "fulfillment failed")
			return
		}

		resp := webhookResponse{Received: true}
		switch result.Outcome {
		case app.OutcomeDeduped:
			resp.Deduped = true
		case app.OutcomeSoldOut:
			resp.SoldOut = true
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type webhookResponse struct {
	Received bool `json:"received"`
	Deduped  bool `json:"deduped,omitempty"`
	SoldOut  bool `json:"sold_out,omitempty"`
}
