/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, the middleware stack and the route table.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address behind proxies
  3. Logger:     zap request log, level chosen by status
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. Metrics:    Prometheus request counters and latency
  6. CORS:       Cross-origin requests for the back-office frontend

ROUTE GROUPS:
  /api/facilities/*     Facility settings, checks and reports
  /api/staff/*          Per-member attendance, overtime and leave
  /api/leave-requests/* Leave approval
  /api/reports/*        Report workflow and export
  /api/policies/*       Policy versions
  /api/scenarios/*      Demo facilities
  /healthz              Liveness
  /metrics              Prometheus scrape endpoint

SECURITY NOTE:
  No authentication middleware. Deploy behind the organisation's gateway.

SEE ALSO:
  - handlers.go: Handler implementations
  - metrics.go: Prometheus collectors
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterOptions carries the ambient settings of the router.
type RouterOptions struct {
	AllowOrigins []string
	// Gatherer serves /metrics. Nil means the default registry.
	Gatherer prometheus.Gatherer
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(h.Logger))
	r.Use(middleware.Recoverer)
	r.Use(h.Metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/facilities", func(r chi.Router) {
			r.Get("/", h.ListFacilities)
			r.Post("/", h.SaveFacility)

			r.Route("/{facilityID}", func(r chi.Router) {
				r.Get("/", h.GetFacility)
				r.Get("/staff", h.ListStaff)
				r.Post("/staff", h.SaveStaff)
				r.Put("/personnel/{staffID}", h.SavePersonnelSetting)
				r.Get("/agreements", h.ListAgreements)
				r.Put("/agreements", h.SaveAgreement)
				r.Post("/requirements", h.SaveRequirement)
				r.Get("/holidays", h.ListHolidays)
				r.Post("/holidays", h.CreateHoliday)
				r.Post("/holidays/ics", h.ImportHolidays)
				r.Get("/compliance", h.GetCompliance)
				r.Get("/five-day-alerts", h.GetFiveDayAlerts)
				r.Post("/grants", h.GrantLeave)
				r.Get("/reports", h.ListReports)
				r.Post("/reports", h.GenerateReport)
			})
		})

		r.Route("/staff/{staffID}", func(r chi.Router) {
			r.Post("/punches", h.RecordPunch)
			r.Get("/attendance", h.GetAttendance)
			r.Get("/overtime/fy/{fy}", h.GetFiscalYearOvertime)
			r.Get("/overtime/{year}/{month}", h.GetMonthlyOvertime)
			r.Get("/leave", h.GetLeaveStatus)
			r.Get("/leave/ledger", h.GetLeaveLedger)
			r.Get("/leave/requests", h.ListLeaveRequests)
			r.Post("/leave/requests", h.SubmitLeaveRequest)
		})

		r.Route("/leave-requests/{id}", func(r chi.Router) {
			r.Post("/approve", h.ApproveLeaveRequest)
			r.Post("/reject", h.RejectLeaveRequest)
		})

		r.Route("/reports/{id}", func(r chi.Router) {
			r.Get("/", h.GetReport)
			r.Post("/submit", h.SubmitReport)
			r.Post("/approve", h.ApproveReport)
			r.Get("/export", h.ExportReport)
		})

		r.Route("/policies", func(r chi.Router) {
			r.Get("/", h.ListPolicies)
			r.Get("/current", h.GetCurrentPolicy)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}

// RequestLogger logs one line per request. Server errors log at error
// level, client errors at warn, everything else at info.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.Int("status", status),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.String("ip", r.RemoteAddr),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Duration("latency", time.Since(start)),
			}
			switch {
			case status >= 500:
				logger.Error("server error", fields...)
			case status >= 400:
				logger.Warn("client error", fields...)
			default:
				logger.Info("request", fields...)
			}
		})
	}
}
