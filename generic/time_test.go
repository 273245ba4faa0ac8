package generic_test

import (
	"errors"
	"testing"
	"time"

	"github.com/warp/personnel-engine/generic"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"09:00", 540, false},
		{"00:00", 0, false},
		{"23:59", 1439, false},
		{"9:05", 545, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"1200", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
		{"12:5", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := generic.ParseClock(tt.in)
			if tt.wantErr {
				if !errors.Is(err, generic.ErrInvalidTime) {
					t.Fatalf("expected ErrInvalidTime, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.Minutes() != tt.want {
				t.Errorf("expected %d minutes, got %d", tt.want, c.Minutes())
			}
		})
	}
}

func TestClock_String(t *testing.T) {
	if got := generic.Clock(545).String(); got != "09:05" {
		t.Errorf("expected 09:05, got %s", got)
	}
}

func TestParseDate_RejectsMalformed(t *testing.T) {
	for _, in := range []string{"2023/04/01", "2023-13-01", "2023-02-30", "20230401", ""} {
		if _, err := generic.ParseDate(in); !errors.Is(err, generic.ErrInvalidDate) {
			t.Errorf("%q: expected ErrInvalidDate, got %v", in, err)
		}
	}
	d, err := generic.ParseDate("2023-04-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Equal(generic.NewTimePoint(2023, time.April, 1)) {
		t.Errorf("unexpected date %s", d)
	}
}

func TestFiscalYearOf(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2023-04-01", 2023},
		{"2024-03-31", 2023},
		{"2024-01-15", 2023},
		{"2023-03-31", 2022},
		{"2023-12-31", 2023},
	}
	for _, tt := range tests {
		if got := generic.FiscalYearOf(generic.MustParseDate(tt.date)); got != tt.want {
			t.Errorf("%s: expected FY%d, got FY%d", tt.date, tt.want, got)
		}
	}
}

func TestFiscalYearPeriod(t *testing.T) {
	p := generic.FiscalYearPeriod(2023)
	if p.Start.String() != "2023-04-01" || p.End.String() != "2024-03-31" {
		t.Errorf("unexpected fiscal year window %s", p)
	}
	if len(p.Days()) != 366 { // includes 2024-02-29
		t.Errorf("expected 366 days in FY2023, got %d", len(p.Days()))
	}
	if len(p.Months()) != 12 {
		t.Errorf("expected 12 months, got %d", len(p.Months()))
	}
}

func TestFiscalYearToDate(t *testing.T) {
	p := generic.FiscalYearToDate(2024, time.February)
	if p.Start.String() != "2023-04-01" || p.End.String() != "2024-02-29" {
		t.Errorf("unexpected window %s", p)
	}
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		from   string
		months int
		want   string
	}{
		{"2023-04-01", 6, "2023-10-01"},
		{"2023-08-31", 6, "2024-02-29"},
		{"2022-08-31", 6, "2023-02-28"},
		{"2024-02-29", 12, "2025-02-28"},
		{"2023-01-31", 1, "2023-02-28"},
	}
	for _, tt := range tests {
		got := generic.MustParseDate(tt.from).AddMonthsClamped(tt.months)
		if got.String() != tt.want {
			t.Errorf("%s + %d months: expected %s, got %s", tt.from, tt.months, tt.want, got)
		}
	}
}

func TestFullMonthsBetween(t *testing.T) {
	hire := generic.MustParseDate("2023-04-01")
	if got := generic.FullMonthsBetween(hire, generic.MustParseDate("2023-09-30")); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
	if got := generic.FullMonthsBetween(hire, generic.MustParseDate("2023-10-01")); got != 6 {
		t.Errorf("expected 6, got %d", got)
	}
	if got := generic.FullMonthsBetween(hire, generic.MustParseDate("2022-10-01")); got != 0 {
		t.Errorf("expected 0 before start, got %d", got)
	}
}

func TestStaticCalendar(t *testing.T) {
	cal := &generic.StaticCalendar{Holidays: []generic.Holiday{
		{Date: generic.MustParseDate("2020-01-01"), Name: "New Year", Recurring: true},
		{Date: generic.MustParseDate("2023-11-03"), Name: "Culture Day"},
		{FacilityID: "other", Date: generic.MustParseDate("2023-11-06"), Name: "Closed"},
	}}

	if !cal.IsHoliday("f1", generic.MustParseDate("2024-01-01")) {
		t.Error("recurring holiday should match in any year")
	}
	if !cal.IsHoliday("f1", generic.MustParseDate("2023-11-03")) {
		t.Error("dated holiday should match")
	}
	if cal.IsHoliday("f1", generic.MustParseDate("2023-11-06")) {
		t.Error("other facility's holiday should not apply")
	}
	if generic.MustParseDate("2023-11-03").IsWorkdayWithHolidays(cal, "f1") {
		t.Error("holiday is not a workday")
	}
	if len(cal.GetHolidays("f1", 2023)) != 2 {
		t.Errorf("expected 2 holidays for f1 in 2023, got %d", len(cal.GetHolidays("f1", 2023)))
	}
}

func TestTimePoint_IgnoresTimeOfDay(t *testing.T) {
	evening := generic.TimePoint{Time: time.Date(2024, time.April, 30, 21, 15, 0, 0, time.UTC)}
	date := generic.MustParseDate("2024-04-30")

	if !evening.Equal(date) {
		t.Errorf("expected %v to equal %v", evening.Time, date)
	}
	if evening.String() != "2024-04-30" {
		t.Errorf("expected date-only string, got %q", evening.String())
	}
	if got := evening.AddDays(1).String(); got != "2024-05-01" {
		t.Errorf("expected 2024-05-01, got %q", got)
	}
	if got := generic.DaysBetween(date, evening.AddDays(2)); got != 2 {
		t.Errorf("expected 2 days, got %d", got)
	}
}
