package generic

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// TIME POINT - Calendar date (all engine inputs are same-day local values)
// =============================================================================

// TimePoint is a calendar date. Any time of day on Time is ignored.
type TimePoint struct {
	Time time.Time
}

const DateLayout = "2006-01-02"

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates any time.Time to its calendar date.
func DateOf(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD calendar date. Malformed input is rejected,
// never repaired.
func ParseDate(s string) (TimePoint, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return TimePoint{}, &ValidationError{Field: "date", Value: s, Err: ErrInvalidDate}
	}
	return DateOf(t), nil
}

// MustParseDate is ParseDate for tests and fixtures.
func MustParseDate(s string) TimePoint {
	tp, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return tp
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return tp.Before(other) || tp.Equal(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return tp.After(other) || tp.Equal(other) }

func (tp TimePoint) normalize() time.Time {
	return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint   { return TimePoint{Time: tp.Time.AddDate(0, 0, n)} }
func (tp TimePoint) AddYears(n int) TimePoint  { return tp.AddMonthsClamped(12 * n) }

// AddMonthsClamped adds n months and clamps the day to the last day of the
// target month, so Aug 31 + 6 months is Feb 28 (or 29), not Mar 3.
func (tp TimePoint) AddMonthsClamped(n int) TimePoint {
	y, m, d := tp.Time.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	last := EndOfMonth(first.Year(), first.Month()).Day()
	if d > last {
		d = last
	}
	return TimePoint{Time: time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)}
}

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsWeekend() bool       { wd := tp.Weekday(); return wd == time.Saturday || wd == time.Sunday }
func (tp TimePoint) IsWorkday() bool       { return !tp.IsWeekend() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

func (tp TimePoint) String() string { return tp.Time.Format(DateLayout) }

// FiscalYear returns the fiscal year the date falls in (April start).
func (tp TimePoint) FiscalYear() int { return FiscalYearOf(tp) }

// =============================================================================
// CLOCK - Wall-clock time of day, minutes since midnight
// =============================================================================

// Clock is a same-day HH:MM value. There is no cross-midnight support: an
// end clock earlier than its start clock is not reinterpreted as next day.
type Clock int

// ParseClock parses a 24-hour HH:MM value in [00:00, 23:59].
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return 0, &ValidationError{Field: "time", Value: s, Err: ErrInvalidTime}
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, &ValidationError{Field: "time", Value: s, Err: ErrInvalidTime}
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, &ValidationError{Field: "time", Value: s, Err: ErrInvalidTime}
	}
	return Clock(h*60 + m), nil
}

// MustParseClock is ParseClock for tests and fixtures.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) Minutes() int { return int(c) }

func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60) }

// MinutesBetween returns end - start in minutes; negative when end < start.
func MinutesBetween(start, end Clock) int { return int(end) - int(start) }

// =============================================================================
// HOLIDAY CALENDAR - Facility-specific holidays
// =============================================================================

// Holiday represents a facility holiday that is not a working day.
type Holiday struct {
	ID         string
	FacilityID FacilityID // Empty = applies to every facility
	Date       TimePoint
	Name       string
	Recurring  bool // true = same month/day every year
	Workday    bool // true = designated working day, overrides the weekend
}

// matches reports whether the entry falls on date for the facility.
func (h Holiday) matches(facilityID FacilityID, date TimePoint) bool {
	if h.FacilityID != "" && h.FacilityID != facilityID {
		return false
	}
	if h.Recurring {
		return h.Date.Month() == date.Month() && h.Date.Day() == date.Day()
	}
	return h.Date.Equal(date)
}

// HolidayCalendar provides holiday lookup functionality.
type HolidayCalendar interface {
	IsHoliday(facilityID FacilityID, date TimePoint) bool
	GetHolidays(facilityID FacilityID, year int) []Holiday
}

// WorkdayCalendar is implemented by calendars that can turn a weekend date
// into a working day.
type WorkdayCalendar interface {
	IsDesignatedWorkday(facilityID FacilityID, date TimePoint) bool
}

// DefaultHolidayCalendar is a no-op calendar for when holidays are disabled.
type DefaultHolidayCalendar struct{}

func (d *DefaultHolidayCalendar) IsHoliday(FacilityID, TimePoint) bool  { return false }
func (d *DefaultHolidayCalendar) GetHolidays(FacilityID, int) []Holiday { return nil }

// StaticCalendar is an in-memory calendar built from a holiday list.
type StaticCalendar struct {
	Holidays []Holiday
}

func (c *StaticCalendar) IsHoliday(facilityID FacilityID, date TimePoint) bool {
	for _, h := range c.Holidays {
		if !h.Workday && h.matches(facilityID, date) {
			return true
		}
	}
	return false
}

func (c *StaticCalendar) IsDesignatedWorkday(facilityID FacilityID, date TimePoint) bool {
	for _, h := range c.Holidays {
		if h.Workday && h.matches(facilityID, date) {
			return true
		}
	}
	return false
}

func (c *StaticCalendar) GetHolidays(facilityID FacilityID, year int) []Holiday {
	var result []Holiday
	for _, h := range c.Holidays {
		if h.FacilityID != "" && h.FacilityID != facilityID {
			continue
		}
		switch {
		case h.Recurring:
			h.Date = NewTimePoint(year, h.Date.Month(), h.Date.Day())
			result = append(result, h)
		case h.Date.Year() == year:
			result = append(result, h)
		}
	}
	return result
}

// IsWorkdayWithHolidays checks if a date is a working day, considering
// holidays. A weekend date is a working day only when the calendar
// designates it one.
func (tp TimePoint) IsWorkdayWithHolidays(calendar HolidayCalendar, facilityID FacilityID) bool {
	if tp.IsWeekend() {
		wc, ok := calendar.(WorkdayCalendar)
		return ok && wc.IsDesignatedWorkday(facilityID, tp)
	}
	if calendar != nil && calendar.IsHoliday(facilityID, tp) {
		return false
	}
	return true
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

// FiscalYearStartMonth is the first month of the accounting year.
const FiscalYearStartMonth = time.April

func DaysBetween(from, to TimePoint) int { return int(to.normalize().Sub(from.normalize()).Hours() / 24) }
func StartOfMonth(year int, month time.Month) TimePoint { return NewTimePoint(year, month, 1) }
func EndOfMonth(year int, month time.Month) TimePoint {
	t := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return TimePoint{Time: t}
}

// FiscalYearOf returns the fiscal year containing date: April 2023 through
// March 2024 is fiscal year 2023.
func FiscalYearOf(date TimePoint) int {
	if date.Month() < FiscalYearStartMonth {
		return date.Year() - 1
	}
	return date.Year()
}

// FullMonthsBetween counts complete months from start to end (0 if end is
// before start). A month is complete once the same day-of-month is reached,
// with month-end clamping.
func FullMonthsBetween(start, end TimePoint) int {
	if end.Before(start) {
		return 0
	}
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if start.AddMonthsClamped(months).After(end) {
		months--
	}
	return months
}
