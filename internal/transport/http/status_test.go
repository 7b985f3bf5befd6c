package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fanandmerch/tickets-api/internal/domain"
)

func TestHandleEventStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		method       string
		target       string
		availability domain.Availability
		wantStatus   int
		wantCode     string
		wantSoldOut  bool
		wantLowStock bool
	}{
		{
			name:       "method not allowed",
			method:     http.MethodPost,
			target:     "/status?event_id=evt-1",
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   "method_not_allowed",
		},
		{
			name:       "missing event id",
			method:     http.MethodGet,
			target:     "/status",
			wantStatus: http.StatusBadRequest,
			wantCode:   "event_id_required",
		},
		{
			name:         "available event",
			method:       http.MethodGet,
			target:       "/status?event_id=evt-1",
			availability: domain.Availability{},
			wantStatus:   http.StatusOK,
		},
		{
			name:         "low stock",
			method:       http.MethodGet,
			target:       "/status?event_id=evt-1",
			availability: domain.Availability{LowStock: true},
			wantStatus:   http.StatusOK,
			wantLowStock: true,
		},
		{
			name:         "sold out",
			method:       http.MethodGet,
			target:       "/status?event_id=evt-1",
			availability: domain.Availability{SoldOut: true},
			wantStatus:   http.StatusOK,
			wantSoldOut:  true,
		},
		{
			name:         "unknown event answers closed",
			method:       http.MethodGet,
			target:       "/status?event_id=missing",
			availability: domain.Unavailable(),
			wantStatus:   http.StatusOK,
			wantSoldOut:  true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			handler := HandleEventStatus(fakeStatusProvider{availability: tc.availability}, nil)

			req := httptest.NewRequest(tc.method, tc.target, nil)
			rec := httptest.NewRecorder()
			handler(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body=%s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if tc.wantCode != "" {
				assertErrorCode(t, rec, tc.wantCode)
				return
			}

			var resp struct {
				SoldOut  bool `json:"soldOut"`
				LowStock bool `json:"lowStock"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if resp.SoldOut != tc.wantSoldOut || resp.LowStock != tc.wantLowStock {
				t.Fatalf("got soldOut=%t lowStock=%t, want soldOut=%t lowStock=%t",
					resp.SoldOut, resp.LowStock, tc.wantSoldOut, tc.wantLowStock)
			}
		})
	}
}

type fakeStatusProvider struct {
	availability domain.Availability
}

func (f fakeStatusProvider) Status(context.Context, string) domain.Availability {
	return f.availability
}
