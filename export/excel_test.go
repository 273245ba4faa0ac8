package export_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/warp/personnel-engine/export"
	"github.com/warp/personnel-engine/generic"
	"github.com/warp/personnel-engine/report"
)

func sampleReport() *report.MonthlyReport {
	return &report.MonthlyReport{
		ID: "rep-1", FacilityID: "sunrise", FacilityName: "Sunrise Home",
		Year: 2024, Month: time.April, FiscalYear: 2024, PolicyVersion: "2024-04",
		Status: report.StatusSubmitted, SubmittedBy: "manager",
		GeneratedAt: time.Date(2024, 4, 30, 12, 0, 0, 0, time.UTC),
		Staff: []report.StaffLine{
			{
				StaffID: "s1", Name: "Aiko", EmploymentType: "fulltime",
				WorkedMinutes: 540, CompletedDays: 1, OvertimeMinutes: 60, FiscalYearToDateMinutes: 60,
				MonthlyStatus: generic.StatusOK, AnnualStatus: generic.StatusOK,
				AbsenceDates:    []string{"2024-04-02", "2024-04-03"},
				EntitlementDays: decimal.NewFromInt(10), RemainingDays: decimal.RequireFromString("8.5"),
				LedgerBalance: decimal.RequireFromString("8.5"), NextGrantDate: "2024-10-01",
				FiveDayAlert: true, FiveDayShortfall: decimal.RequireFromString("3.5"),
			},
		},
		Compliance: report.ComplianceSection{
			Headcount: 2, TotalFTE: decimal.RequireFromString("1.5"), OverallStatus: generic.StatusWarning,
			Lines: []report.ComplianceLine{{
				RequirementID: "fte", Name: "FTE", Kind: "fte", Unit: "fte",
				Current: decimal.RequireFromString("1.5"), Required: decimal.NewFromInt(2), Status: generic.StatusWarning,
			}},
		},
		OverallStatus: generic.StatusWarning,
	}
}

func TestWorkbook(t *testing.T) {
	// GIVEN: A submitted report with one staff line
	r := sampleReport()

	// WHEN: Rendering the workbook
	buf, name, err := export.Workbook(r)
	require.NoError(t, err)

	// THEN: Every sheet carries the frozen figures
	assert.Equal(t, "sunrise_2024-04_submitted.xlsx", name)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{export.SheetSummary, export.SheetOvertime, export.SheetLeave, export.SheetStaffing}, f.GetSheetList())

	overtime, err := f.GetRows(export.SheetOvertime)
	require.NoError(t, err)
	require.Len(t, overtime, 2)
	assert.Equal(t, "Staff ID", overtime[0][0])
	assert.Equal(t, []string{"s1", "Aiko", "540", "1", "60", "60", "ok", "ok", "2"}, overtime[1][:9])

	leave, err := f.GetRows(export.SheetLeave)
	require.NoError(t, err)
	require.Len(t, leave, 2)
	assert.Equal(t, "8.5", leave[1][4])
	assert.Equal(t, "yes", leave[1][7])

	staffing, err := f.GetRows(export.SheetStaffing)
	require.NoError(t, err)
	assert.Equal(t, "warning", staffing[1][6])

	summary, err := f.GetRows(export.SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{"Month", "2024-04"}, summary[2])
	assert.Equal(t, []string{"Submitted by", "manager"}, summary[len(summary)-1])
}
