package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fanandmerch/tickets-api/internal/app"
	"github.com/fanandmerch/tickets-api/internal/domain"
)

// AdminEventService is the minimal interface needed for admin event
// endpoints.
type AdminEventService interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	SetEventActive(ctx context.Context, eventID string, active bool) error
}

// AdminInsightService is the minimal interface needed for the log and
// analytics views.
type AdminInsightService interface {
	RecentLogs(ctx context.Context) ([]domain.LogEntry, error)
	Analytics(ctx context.Context) (app.AnalyticsSummary, error)
}

// HandleAdminEvents returns an HTTP handler for listing and creating events.
func HandleAdminEvents(svc AdminEventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			events, err := svc.ListEvents(r.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			resp := make([]eventResponse, 0, len(events))
			for _, event := range events {
				resp = append(resp, toEventResponse(event))
			}
			writeJSON(w, http.StatusOK, adminEventsResponse{OK: true, Events: resp})
		case http.MethodPost:
			var req createEventRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			var gameDate *time.Time
			if req.GameDate != "" {
				parsed, err := time.Parse(time.RFC3339, req.GameDate)
				if err != nil {
					writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid game_date format")
					return
				}
				gameDate = &parsed
			}

			event, err := svc.CreateEvent(r.Context(), app.CreateEventInput{
				Title:       req.Title,
				GameDate:    gameDate,
				TicketLimit: req.TicketLimit,
			})
			if err != nil {
				switch err {
				case domain.ErrTitleRequired:
					writeError(w, http.StatusBadRequest, codeTitleRequired, err.Error())
				case domain.ErrInvalidLimit:
					writeError(w, http.StatusBadRequest, codeInvalidLimit, err.Error())
				default:
					writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				}
				return
			}
			writeJSON(w, http.StatusCreated, toEventResponse(event))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleAdminEventActive returns an HTTP handler for PATCH
// /admin/events/{id} toggling is_active.
func HandleAdminEventActive(svc AdminEventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		eventID := chi.URLParam(r, "id")

		var req setActiveRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil || req.IsActive == nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		if err := svc.SetEventActive(r.Context(), eventID, *req.IsActive); err != nil {
			switch err {
			case domain.ErrEventNotFound, domain.ErrInvalidID:
				writeError(w, http.StatusNotFound, codeEventNotFound, domain.ErrEventNotFound.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// HandleAdminLogs returns an HTTP handler for the recent audit log view.
func HandleAdminLogs(svc AdminInsightService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.RecentLogs(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		resp := make([]logResponse, 0, len(entries))
		for _, entry := range entries {
			resp = append(resp, logResponse{
				ID:        entry.ID,
				CreatedAt: entry.CreatedAt,
				Endpoint:  entry.Endpoint,
				Level:     entry.Level,
				EventID:   entry.EventID,
				Message:   entry.Message,
			})
		}
		writeJSON(w, http.StatusOK, adminLogsResponse{OK: true, Logs: resp})
	}
}

// HandleAdminAnalytics returns an HTTP handler for the 7-day aggregates.
func HandleAdminAnalytics(svc AdminInsightService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Analytics(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, analyticsResponse{
			OK:                 true,
			StatusChecks7d:     summary.StatusChecks7d,
			CheckoutsCreated7d: summary.CheckoutsCreated7d,
			TicketsIssued7d:    summary.TicketsIssued7d,
		})
	}
}

type createEventRequest struct {
	Title       string `json:"title"`
	GameDate    string `json:"game_date"`
	TicketLimit int    `json:"ticket_limit"`
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

type eventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	GameDate    time.Time `json:"game_date"`
	TicketLimit int       `json:"ticket_limit"`
	TicketsSold int       `json:"tickets_sold"`
	IsActive    bool      `json:"is_active"`
}

func toEventResponse(event domain.Event) eventResponse {
	return eventResponse{
		ID:          event.ID,
		Title:       event.Title,
		GameDate:    event.GameDate,
		TicketLimit: event.TicketLimit,
		TicketsSold: event.TicketsSold,
		IsActive:    event.IsActive,
	}
}

type adminEventsResponse struct {
	OK     bool            `json:"ok"`
	Events []eventResponse `json:"events"`
}

type logResponse struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Endpoint  string    `json:"endpoint"`
	Level     string    `json:"level"`
	EventID   string    `json:"event_id,omitempty"`
	Message   string    `json:"message"`
}

type adminLogsResponse struct {
	OK   bool          `json:"ok"`
	Logs []logResponse `json:"logs"`
}

type analyticsResponse struct {
	OK                 bool `json:"ok"`
	StatusChecks7d     int  `json:"statusChecks7d"`
	CheckoutsCreated7d int  `json:"checkoutCreated7d"`
	TicketsIssued7d    int  `json:"ticketsIssued7d"`
}
