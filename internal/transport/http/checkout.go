package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fanandmerch/tickets-api/internal/app"
	"github.com/fanandmerch/tickets-api/internal/domain"
	"github.com/fanandmerch/tickets-api/internal/payment"
)

// CheckoutStarter is the minimal interface needed to open a checkout.
type CheckoutStarter interface {
	Start(ctx context.Context, in app.StartCheckoutInput) (payment.Session, error)
}

// HandleCreateCheckout returns an HTTP handler for POST /checkout.
func HandleCreateCheckout(svc CheckoutStarter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req createCheckoutRequest
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		quantity := 1
		if req.Quantity != nil {
			quantity = *req.Quantity
		}

		session, err := svc.Start(r.Context(), app.StartCheckoutInput{
			EventID:        req.EventID,
			Quantity:       quantity,
			PurchaserEmail: req.PurchaserEmail,
			ClientKey:      clientKey(r),
		})
		if err != nil {
			switch err {
			case domain.ErrEventIDRequired:
				writeError(w, http.StatusBadRequest, codeEventIDRequired, err.Error())
			case domain.ErrInvalidQuantity:
				writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
			case domain.ErrEventNotFound, domain.ErrInvalidID:
				writeError(w, http.StatusNotFound, codeEventNotFound, domain.ErrEventNotFound.Error())
			case domain.ErrEventInactive:
				writeError(w, http.StatusBadRequest, codeEventInactive, err.Error())
			case domain.ErrSoldOut:
				writeError(w, http.StatusBadRequest, codeSoldOut, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusOK, createCheckoutResponse{URL: session.URL})
	}
}

type createCheckoutRequest struct {
	EventID string `json:"event_id"`
	// Quantity is a pointer so an omitted field defaults to one ticket while
	// an explicit zero is rejected.
	Quantity       *int   `json:"quantity"`
	PurchaserEmail string `json:"purchaser_email"`
}

type createCheckoutResponse struct {
	URL string `json:"url"`
}
