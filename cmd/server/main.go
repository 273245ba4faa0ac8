/*
main.go - Application entry point

PURPOSE:
  Command-line front of the personnel engine. The serve command runs the
  HTTP API and the sweep scheduler; the other commands run one operation
  against the configured store and exit.

COMMANDS:
  serve                          Run the API server
  report FACILITY YYYY-MM        Generate a monthly report
  export REPORT_ID [-o FILE]     Write a report as .xlsx
  grant FACILITY [--date D]      Store due annual leave grants
  seed SCENARIO                  Load a demo facility

STARTUP SEQUENCE:
  1. Load configuration (defaults, config file, .env, PENGINE_* env)
  2. Build the zap logger
  3. Open the store (sqlite or memory)
  4. Load policy documents and holiday feeds
  5. Build the report service

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM the scheduler stops, in-flight requests get
  server.shutdown_timeout to finish, then the store is closed.

EXAMPLES:
  # Run with the default ./data/personnel.db
  ./personnel-engine serve

  # In-memory store with a demo facility
  PENGINE_DB_DRIVER=memory ./personnel-engine serve

  # Generate and export April 2024
  ./personnel-engine report sunrise 2024-04
  ./personnel-engine export 3f0c... -o april.xlsx

SEE ALSO:
  - config/config.go: Settings and defaults
  - api/server.go: Router configuration
  - report/service.go: The operations behind every command
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/personnel-engine/config"
	"github.com/warp/personnel-engine/generic"
	"github.com/warp/personnel-engine/policy"
	"github.com/warp/personnel-engine/report"
	"github.com/warp/personnel-engine/store/memory"
	"github.com/warp/personnel-engine/store/sqlite"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "personnel-engine",
	Short: "Attendance, overtime, paid leave and staffing compliance for care facilities",
	Long: `personnel-engine computes worked time from punches, checks overtime
against registered agreements, tracks statutory paid leave and evaluates
facility staffing requirements. Monthly reports freeze the results and move
through a draft, submitted and approved workflow.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./config/config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app is the wired dependency graph shared by every command.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    report.Store
	policies *policy.Registry
	svc      *report.Service
	close    func() error
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := openStore(cfg.Database)
	if err != nil {
		return nil, err
	}

	policies, err := policy.LoadRegistry(cfg.Policy.Files...)
	if err != nil {
		closeStore()
		return nil, err
	}
	for _, feed := range cfg.Policy.HolidayFeeds {
		holidays, err := policy.LoadHolidayFile(feed.Path, generic.FacilityID(feed.Facility))
		if err != nil {
			closeStore()
			return nil, err
		}
		for _, h := range holidays {
			if err := store.SaveHoliday(ctx, h); err != nil {
				closeStore()
				return nil, fmt.Errorf("save holiday %s: %w", h.ID, err)
			}
		}
		logger.Info("holiday feed loaded", zap.String("facility_id", feed.Facility), zap.Int("count", len(holidays)))
	}

	svc := report.NewService(store, policies, logger, report.WithWorkers(cfg.Report.Workers))
	logger.Info("engine ready",
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("policy_versions", policies.Versions()))

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		policies: policies,
		svc:      svc,
		close: func() error {
			_ = logger.Sync()
			return closeStore()
		},
	}, nil
}

func openStore(cfg config.DatabaseConfig) (report.Store, func() error, error) {
	switch cfg.Driver {
	case "memory":
		return memory.New(), func() error { return nil }, nil
	case "sqlite":
		if cfg.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
				return nil, nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		st, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return st, st.Close, nil
	default:
		return nil, nil, errors.New("unknown db driver " + cfg.Driver)
	}
}
