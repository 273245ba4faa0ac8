package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/warp/personnel-engine/generic"
	"github.com/warp/personnel-engine/report"
	"github.com/warp/personnel-engine/staffing"
)

const metricsNamespace = "personnel"

// Metrics groups the collectors of the HTTP layer and the sweep scheduler.
// A nil *Metrics records nothing.
type Metrics struct {
	HTTPRequests     *prometheus.CounterVec
	HTTPLatency      *prometheus.HistogramVec
	ReportsGenerated *prometheus.CounterVec
	LeaveGrants      prometheus.Counter
	FiveDayAlerts    *prometheus.GaugeVec
	ComplianceStatus *prometheus.GaugeVec
	SweepRuns        *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not collide.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern, method and status",
		}, []string{"route", "method", "status"}),
		HTTPLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		ReportsGenerated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "report",
			Name:      "generated_total",
			Help:      "Monthly reports generated, by overall status",
		}, []string{"status"}),
		LeaveGrants: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "leave",
			Name:      "grants_total",
			Help:      "Annual leave grants stored",
		}),
		FiveDayAlerts: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "leave",
			Name:      "five_day_alerts",
			Help:      "Staff members short of the five-day obligation",
		}, []string{"facility"}),
		ComplianceStatus: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "staffing",
			Name:      "compliance_severity",
			Help:      "Overall staffing status (0 ok, 1 warning, 2 critical)",
		}, []string{"facility"}),
		SweepRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "scheduler",
			Name:      "sweeps_total",
			Help:      "Facility sweeps by outcome",
		}, []string{"outcome"}),
	}
}

// Middleware counts requests by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.HTTPLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) reportGenerated(r *report.MonthlyReport) {
	if m == nil {
		return
	}
	m.ReportsGenerated.WithLabelValues(string(r.OverallStatus)).Inc()
}

func (m *Metrics) addGrants(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.LeaveGrants.Add(float64(n))
}

func (m *Metrics) setFiveDayAlerts(facilityID generic.FacilityID, n int) {
	if m == nil {
		return
	}
	m.FiveDayAlerts.WithLabelValues(string(facilityID)).Set(float64(n))
}

func (m *Metrics) observeCompliance(c staffing.ComplianceReport) {
	if m == nil {
		return
	}
	m.ComplianceStatus.WithLabelValues(string(c.FacilityID)).Set(float64(c.OverallStatus.Severity()))
}

func (m *Metrics) sweep(outcome string) {
	if m == nil {
		return
	}
	m.SweepRuns.WithLabelValues(outcome).Inc()
}
