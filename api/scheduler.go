/*
scheduler.go - Periodic facility sweep

PURPOSE:
  Walks every facility on an interval and keeps the derived state fresh:
  stores due annual leave grants, refreshes the five-day alert gauge and
  re-evaluates staffing compliance.

DESIGN:
  - One background goroutine driven by a ticker
  - The first sweep runs immediately on Start
  - A failing facility is logged and counted; the sweep moves on
  - Grants are idempotent per fiscal year, so overlapping runs are harmless

CONFIGURATION:
  - Interval: How often to sweep (default: 1 hour)
  - Enabled:  Whether the scheduler starts at all (default: true)

USAGE:
  s := NewSweepScheduler(svc, metrics, logger)
  s.Start()
  // ... later
  s.Stop()

SEE ALSO:
  - handlers.go: GrantLeave, GetFiveDayAlerts and GetCompliance endpoints
  - report/service.go: GrantDueLeave, FiveDayAlerts, Compliance
*/
package api

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/warp/personnel-engine/generic"
	"github.com/warp/personnel-engine/report"
)

// SweepResult summarises one pass over all facilities.
type SweepResult struct {
	Facilities int
	Granted    int
	Alerts     int
	Failed     int
}

// SweepScheduler runs the periodic facility sweep.
type SweepScheduler struct {
	Service  *report.Service
	Metrics  *Metrics
	Logger   *zap.Logger
	Interval time.Duration
	Enabled  bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func NewSweepScheduler(svc *report.Service, metrics *Metrics, logger *zap.Logger) *SweepScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SweepScheduler{
		Service:  svc,
		Metrics:  metrics,
		Logger:   logger,
		Interval: time.Hour,
		Enabled:  true,
	}
}

// Start begins the scheduler. Calling Start twice has no effect.
func (s *SweepScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled {
		s.Logger.Info("scheduler disabled, not starting")
		return
	}
	if s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.Interval)
	s.stop = make(chan struct{})
	s.wg.Add(1)
	go s.run()

	s.Logger.Info("scheduler started", zap.Duration("interval", s.Interval))
}

// Stop halts the scheduler and waits for an in-flight sweep.
func (s *SweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.wg.Wait()
	s.ticker = nil
	s.Logger.Info("scheduler stopped")
}

func (s *SweepScheduler) run() {
	defer s.wg.Done()

	s.RunNow(context.Background())
	for {
		select {
		case <-s.ticker.C:
			s.RunNow(context.Background())
		case <-s.stop:
			return
		}
	}
}

// RunNow performs one sweep synchronously.
func (s *SweepScheduler) RunNow(ctx context.Context) SweepResult {
	var res SweepResult
	today := s.Service.Today()
	fy := generic.FiscalYearOf(today)

	facilities, err := s.Service.Store().ListFacilities(ctx)
	if err != nil {
		s.Logger.Error("sweep: list facilities", zap.Error(err))
		s.Metrics.sweep("failed")
		return res
	}

	for _, f := range facilities {
		res.Facilities++
		log := s.Logger.With(zap.String("facility_id", string(f.ID)))

		n, err := s.Service.GrantDueLeave(ctx, f.ID, today)
		s.Metrics.addGrants(n)
		res.Granted += n
		if err != nil {
			log.Error("sweep: grant leave", zap.Error(err))
			res.Failed++
			s.Metrics.sweep("failed")
			continue
		}

		alerts, err := s.Service.FiveDayAlerts(ctx, f.ID, fy)
		if err != nil {
			log.Error("sweep: five-day alerts", zap.Error(err))
			res.Failed++
			s.Metrics.sweep("failed")
			continue
		}
		s.Metrics.setFiveDayAlerts(f.ID, len(alerts))
		res.Alerts += len(alerts)
		for _, a := range alerts {
			log.Warn("five-day obligation at risk",
				zap.String("staff_id", string(a.StaffID)),
				zap.Int("fiscal_year", a.FiscalYear),
				zap.String("shortfall", a.Shortfall.Value.String()))
		}

		c, err := s.Service.Compliance(ctx, f.ID, today)
		if err != nil {
			log.Error("sweep: compliance", zap.Error(err))
			res.Failed++
			s.Metrics.sweep("failed")
			continue
		}
		s.Metrics.observeCompliance(c)
		if c.OverallStatus != generic.StatusOK {
			log.Warn("staffing below requirement", zap.String("status", string(c.OverallStatus)))
		}
		s.Metrics.sweep("ok")
	}

	if res.Granted > 0 || res.Alerts > 0 || res.Failed > 0 {
		s.Logger.Info("sweep completed",
			zap.Int("facilities", res.Facilities),
			zap.Int("granted", res.Granted),
			zap.Int("alerts", res.Alerts),
			zap.Int("failed", res.Failed))
	}
	return res
}
