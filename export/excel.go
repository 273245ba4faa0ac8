// Package export renders stored monthly reports as Excel workbooks.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/warp/personnel-engine/report"
)

var ErrGenerateFailed = errors.New("failed to generate workbook")

// Sheet names, in workbook order.
const (
	SheetSummary  = "Summary"
	SheetOvertime = "Overtime"
	SheetLeave    = "Leave"
	SheetStaffing = "Staffing"
)

var (
	overtimeHeader = []any{"Staff ID", "Name", "Worked (min)", "Completed days", "Overtime (min)", "FY to date (min)", "Monthly", "Annual", "Absences", "Note"}
	leaveHeader    = []any{"Staff ID", "Name", "Employment", "Entitlement", "Remaining", "Ledger balance", "Next grant", "Five-day alert", "Shortfall"}
	staffingHeader = []any{"Requirement", "Name", "Kind", "Unit", "Current", "Required", "Status"}
)

// Workbook builds the workbook for r and returns it with a suggested
// filename.
func Workbook(r *report.MonthlyReport) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrGenerateFailed, err)
	}
	for _, name := range []string{SheetOvertime, SheetLeave, SheetStaffing} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrGenerateFailed, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrGenerateFailed, err)
	}

	w := &writer{f: f, header: headerStyle}
	w.summary(r)
	w.overtime(r)
	w.leave(r)
	w.staffing(r)
	if w.err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrGenerateFailed, w.err)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrGenerateFailed, err)
	}
	return buf, Filename(r), nil
}

// Filename suggests "<facility>_<YYYY-MM>_<status>.xlsx".
func Filename(r *report.MonthlyReport) string {
	name := strings.NewReplacer(" ", "_", "/", "_").Replace(string(r.FacilityID))
	return fmt.Sprintf("%s_%s_%s.xlsx", name, r.Label(), r.Status)
}

// writer keeps the first error so the sheet builders stay linear.
type writer struct {
	f      *excelize.File
	header int
	err    error
}

func (w *writer) row(sheet string, n int, values []any) {
	if w.err != nil {
		return
	}
	c, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, c, &values)
}

func (w *writer) headerRow(sheet string, values []any) {
	w.row(sheet, 1, values)
	if w.err != nil {
		return
	}
	last, _ := excelize.CoordinatesToCellName(len(values), 1)
	w.err = w.f.SetCellStyle(sheet, "A1", last, w.header)
	if w.err == nil {
		lastCol, _ := excelize.ColumnNumberToName(len(values))
		w.err = w.f.SetColWidth(sheet, "A", lastCol, 16)
	}
}

func (w *writer) summary(r *report.MonthlyReport) {
	rows := [][]any{
		{"Facility", r.FacilityName},
		{"Facility ID", string(r.FacilityID)},
		{"Month", r.Label()},
		{"Fiscal year", r.FiscalYear},
		{"Policy version", r.PolicyVersion},
		{"Status", string(r.Status)},
		{"Generated at", r.GeneratedAt.Format("2006-01-02 15:04")},
		{"Overall", string(r.OverallStatus)},
	}
	if r.SubmittedBy != "" {
		rows = append(rows, []any{"Submitted by", r.SubmittedBy})
	}
	if r.ApprovedBy != "" {
		rows = append(rows, []any{"Approved by", r.ApprovedBy})
	}
	for i, v := range rows {
		w.row(SheetSummary, i+1, v)
	}
	if w.err == nil {
		w.err = w.f.SetColWidth(SheetSummary, "A", "B", 24)
	}
}

func (w *writer) overtime(r *report.MonthlyReport) {
	w.headerRow(SheetOvertime, overtimeHeader)
	for i, l := range r.Staff {
		w.row(SheetOvertime, i+2, []any{
			string(l.StaffID), l.Name, l.WorkedMinutes, l.CompletedDays,
			l.OvertimeMinutes, l.FiscalYearToDateMinutes,
			string(l.MonthlyStatus), string(l.AnnualStatus),
			len(l.AbsenceDates), l.OvertimeNote,
		})
	}
}

func (w *writer) leave(r *report.MonthlyReport) {
	w.headerRow(SheetLeave, leaveHeader)
	for i, l := range r.Staff {
		alert := "no"
		if l.FiveDayAlert {
			alert = "yes"
		}
		w.row(SheetLeave, i+2, []any{
			string(l.StaffID), l.Name, l.EmploymentType,
			l.EntitlementDays.InexactFloat64(), l.RemainingDays.InexactFloat64(), l.LedgerBalance.InexactFloat64(),
			l.NextGrantDate, alert, l.FiveDayShortfall.InexactFloat64(),
		})
	}
}

func (w *writer) staffing(r *report.MonthlyReport) {
	w.headerRow(SheetStaffing, staffingHeader)
	n := 2
	for _, l := range r.Compliance.Lines {
		w.row(SheetStaffing, n, []any{
			l.RequirementID, l.Name, l.Kind, l.Unit,
			l.Current.InexactFloat64(), l.Required.InexactFloat64(), string(l.Status),
		})
		n++
	}
	w.row(SheetStaffing, n+1, []any{"Headcount", r.Compliance.Headcount})
	w.row(SheetStaffing, n+2, []any{"Total FTE", r.Compliance.TotalFTE.InexactFloat64()})
	w.row(SheetStaffing, n+3, []any{"Overall", string(r.Compliance.OverallStatus)})
}
