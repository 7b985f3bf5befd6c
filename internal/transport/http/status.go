package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fanandmerch/tickets-api/internal/app"
	"github.com/fanandmerch/tickets-api/internal/domain"
)

// StatusProvider is the minimal interface needed to answer availability
// probes.
type StatusProvider interface {
	Status(ctx context.Context, eventID string) domain.Availability
}

// HandleEventStatus returns an HTTP handler for GET /status. Internal
// failures still answer 200 with the fail-closed body; only a missing
// event_id is a client error.
func HandleEventStatus(svc StatusProvider, audit *app.Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		eventID := r.URL.Query().Get("event_id")
		if eventID == "" {
			writeError(w, http.StatusBadRequest, codeEventIDRequired, domain.ErrEventIDRequired.Error())
			return
		}

		availability := svc.Status(r.Context(), eventID)
		audit.Record(r.Context(), domain.LogLevelInfo, "/status", eventID,
			fmt.Sprintf("status ok soldOut=%t lowStock=%t", availability.SoldOut, availability.LowStock))

		writeJSON(w, http.StatusOK, statusResponse{
			SoldOut:  availability.SoldOut,
			LowStock: availability.LowStock,
		})
	}
}

type statusResponse struct {
	SoldOut  bool `json:"soldOut"`
	LowStock bool `json:"lowStock"`
}
