package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/personnel-engine/api"
	"github.com/warp/personnel-engine/export"
	"github.com/warp/personnel-engine/generic"
)

func init() {
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(grantCmd)
	rootCmd.AddCommand(seedCmd)

	exportCmd.Flags().StringP("output", "o", "", "Output file (default: suggested report filename)")
	grantCmd.Flags().String("date", "", "Grant as of this date, YYYY-MM-DD (default: today)")
}

// ─── report ─────────────────────────────────────────────────────────────────

var reportCmd = &cobra.Command{
	Use:   "report FACILITY YYYY-MM",
	Short: "Generate a draft monthly report",
	Long:  `Generate and store a draft monthly report, then print it as JSON.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runReport,
}

func parseMonth(s string) (int, time.Month, error) {
	year, month, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("month %q: want YYYY-MM", s)
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return 0, 0, fmt.Errorf("month %q: %w", s, err)
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return 0, 0, fmt.Errorf("month %q: want YYYY-MM", s)
	}
	return y, time.Month(m), nil
}

func runReport(cmd *cobra.Command, args []string) error {
	year, month, err := parseMonth(args[1])
	if err != nil {
		return err
	}
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	r, err := a.svc.GenerateMonthlyReport(cmd.Context(), generic.FacilityID(args[0]), year, month)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// ─── export ─────────────────────────────────────────────────────────────────

var exportCmd = &cobra.Command{
	Use:   "export REPORT_ID",
	Short: "Write a stored report as an Excel workbook",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	r, err := a.svc.GetReport(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	buf, name, err := export.Workbook(r)
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = name
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
	return nil
}

// ─── grant ──────────────────────────────────────────────────────────────────

var grantCmd = &cobra.Command{
	Use:   "grant FACILITY",
	Short: "Store the annual leave grants that are due",
	Args:  cobra.ExactArgs(1),
	RunE:  runGrant,
}

func runGrant(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	asOf := a.svc.Today()
	if raw, _ := cmd.Flags().GetString("date"); raw != "" {
		if asOf, err = generic.ParseDate(raw); err != nil {
			return err
		}
	}
	n, err := a.svc.GrantDueLeave(cmd.Context(), generic.FacilityID(args[0]), asOf)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Granted %d balance row(s) as of %s\n", n, asOf)
	return nil
}

// ─── seed ───────────────────────────────────────────────────────────────────

var seedCmd = &cobra.Command{
	Use:   "seed SCENARIO",
	Short: "Load a demo facility",
	Long:  "Load a demo facility into the configured store. Run without arguments to list scenarios.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, s := range api.Scenarios {
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", s.ID, s.Description)
		}
		return nil
	}
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	if err := api.LoadScenario(cmd.Context(), a.svc, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %s\n", args[0])
	return nil
}
