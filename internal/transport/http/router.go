package http

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/fanandmerch/tickets-api/internal/app"
	"github.com/fanandmerch/tickets-api/internal/ratelimit"
)

// Deps collects everything the HTTP surface needs.
type Deps struct {
	Checkout    CheckoutStarter
	Status      StatusProvider
	Fulfillment PaymentFulfiller
	Verifier    WebhookVerifier
	Admin       AdminEventService
	Insights    AdminInsightService
	Auth        *AdminAuth
	Audit       *app.Auditor

	CheckoutLimiter *ratelimit.Limiter
	StatusLimiter   *ratelimit.Limiter

	CORSOrigins []string
	Logger      *log.Logger
}

// NewRouter assembles the full handler stack: chi routing inside, the CORS
// allow-list and access log outside so preflights and 404s get the same
// treatment as real routes.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	r.Get("/health", HealthHandler)

	r.With(RateLimit(deps.CheckoutLimiter)).Post("/checkout", HandleCreateCheckout(deps.Checkout))
	r.With(RateLimit(deps.StatusLimiter)).Get("/status", HandleEventStatus(deps.Status, deps.Audit))
	r.Post("/payment-webhook", HandlePaymentWebhook(deps.Verifier, deps.Fulfillment, deps.Audit))

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", deps.Auth.LoginHandler())
		r.Post("/logout", deps.Auth.LogoutHandler())

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.Require)
			r.Get("/events", HandleAdminEvents(deps.Admin))
			r.Post("/events", HandleAdminEvents(deps.Admin))
			r.Patch("/events/{id}", HandleAdminEventActive(deps.Admin))
			r.Get("/logs", HandleAdminLogs(deps.Insights))
			r.Get("/analytics", HandleAdminAnalytics(deps.Insights))
		})
	})

	r.NotFound(NotFoundHandler().ServeHTTP)

	return RequestLogger(CORS(deps.CORSOrigins, r), deps.Logger)
}
