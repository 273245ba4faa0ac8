package overtime

import (
	"time"

	"github.com/warp/personnel-engine/attendance"
	"github.com/warp/personnel-engine/generic"
)

// DefaultDailyPrescribedMinutes is the 8-hour working day.
const DefaultDailyPrescribedMinutes = 480

// DailyOvertime returns the overtime of one day. Only completed days count;
// an unfinished or missing day contributes zero, never negative overtime.
func DailyOvertime(s attendance.DailySummary, prescribedMinutes int) int {
	if s.Status != attendance.StatusCompleted {
		return 0
	}
	return max(0, s.WorkedMinutes-prescribedMinutes)
}

// MonthlyOvertime is the overtime of one calendar month plus the running
// fiscal-year-to-date total through the end of that month.
type MonthlyOvertime struct {
	StaffID                         generic.StaffID
	Year                            int
	Month                           time.Month
	FiscalYear                      int
	MonthlyOvertimeMinutes          int
	FiscalYearToDateOvertimeMinutes int
	CompletedDays                   int
}

// Label returns the month as YYYY-MM.
func (m MonthlyOvertime) Label() string {
	return generic.StartOfMonth(m.Year, m.Month).Time.Format("2006-01")
}

// FiscalYearOvertime is the full April-March breakdown for one staff member.
type FiscalYearOvertime struct {
	StaffID      generic.StaffID
	FiscalYear   int
	Months       []MonthlyOvertime
	TotalMinutes int
}

// Evaluator sums daily overtime over calendar windows.
type Evaluator struct {
	DailyPrescribedMinutes int
}

// NewEvaluator returns an evaluator for the given prescribed minutes, falling
// back to the 8-hour day when prescribed is not positive.
func NewEvaluator(prescribed int) Evaluator {
	if prescribed <= 0 {
		prescribed = DefaultDailyPrescribedMinutes
	}
	return Evaluator{DailyPrescribedMinutes: prescribed}
}

// sum adds the overtime of the staff member's summaries inside period.
func (e Evaluator) sum(staffID generic.StaffID, period generic.Period, summaries []attendance.DailySummary) (minutes, completed int) {
	for _, s := range summaries {
		if s.StaffID != staffID || !period.Contains(s.Date) {
			continue
		}
		minutes += DailyOvertime(s, e.DailyPrescribedMinutes)
		if s.Status == attendance.StatusCompleted {
			completed++
		}
	}
	return minutes, completed
}

// EvaluateMonth computes the monthly total over exactly the calendar month
// and the fiscal-year-to-date total over [Apr 1, end of month].
func (e Evaluator) EvaluateMonth(staffID generic.StaffID, year int, month time.Month, summaries []attendance.DailySummary) MonthlyOvertime {
	monthly, completed := e.sum(staffID, generic.MonthPeriod(year, month), summaries)
	ytd, _ := e.sum(staffID, generic.FiscalYearToDate(year, month), summaries)
	return MonthlyOvertime{
		StaffID:                         staffID,
		Year:                            year,
		Month:                           month,
		FiscalYear:                      generic.FiscalYearOf(generic.StartOfMonth(year, month)),
		MonthlyOvertimeMinutes:          monthly,
		FiscalYearToDateOvertimeMinutes: ytd,
		CompletedDays:                   completed,
	}
}

// EvaluateFiscalYear returns the twelve months of a fiscal year in order.
func (e Evaluator) EvaluateFiscalYear(staffID generic.StaffID, fy int, summaries []attendance.DailySummary) FiscalYearOvertime {
	out := FiscalYearOvertime{StaffID: staffID, FiscalYear: fy}
	for _, m := range generic.FiscalYearPeriod(fy).Months() {
		mo := e.EvaluateMonth(staffID, m.Start.Year(), m.Start.Month(), summaries)
		out.Months = append(out.Months, mo)
		out.TotalMinutes += mo.MonthlyOvertimeMinutes
	}
	return out
}
