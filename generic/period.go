package generic

import "time"

// =============================================================================
// PERIOD - Inclusive date window used by every rollup
// =============================================================================

// Period is an inclusive [Start, End] window of calendar days.
//
// Examples:
//   - Calendar month: Oct 1 - Oct 31
//   - Fiscal year 2025: Apr 1 2025 - Mar 31 2026
//   - Fiscal year to date: Apr 1 - end of the selected month
type Period struct {
	Start TimePoint
	End   TimePoint
}

// Validate rejects a period whose end is before its start.
func (p Period) Validate() error {
	if p.End.Before(p.Start) {
		return ErrInvalidPeriod
	}
	return nil
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Days returns all days in the period as a slice of TimePoints.
func (p Period) Days() []TimePoint {
	var days []TimePoint
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

// Months returns the calendar-month periods overlapping p, each clipped to p.
func (p Period) Months() []Period {
	var months []Period
	current := StartOfMonth(p.Start.Year(), p.Start.Month())
	for current.BeforeOrEqual(p.End) {
		m := MonthPeriod(current.Year(), current.Month())
		if m.Start.Before(p.Start) {
			m.Start = p.Start
		}
		if m.End.After(p.End) {
			m.End = p.End
		}
		months = append(months, m)
		current = current.AddMonthsClamped(1)
	}
	return months
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// PERIOD CONSTRUCTORS
// =============================================================================

// MonthPeriod returns the full calendar month.
func MonthPeriod(year int, month time.Month) Period {
	return Period{Start: StartOfMonth(year, month), End: EndOfMonth(year, month)}
}

// FiscalYearPeriod returns [Apr 1 of fy, Mar 31 of fy+1].
func FiscalYearPeriod(fy int) Period {
	start := NewTimePoint(fy, FiscalYearStartMonth, 1)
	return Period{Start: start, End: start.AddYears(1).AddDays(-1)}
}

// FiscalYearToDate returns [Apr 1 of the month's fiscal year, end of month].
func FiscalYearToDate(year int, month time.Month) Period {
	end := EndOfMonth(year, month)
	return Period{Start: FiscalYearPeriod(FiscalYearOf(end)).Start, End: end}
}
