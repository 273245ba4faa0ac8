package paidleave_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/personnel-engine/generic"
	"github.com/warp/personnel-engine/paidleave"
	"github.com/warp/personnel-engine/roster"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(s string) generic.TimePoint { return generic.MustParseDate(s) }

func assertDays(t *testing.T, want float64, got generic.Amount) {
	t.Helper()
	assert.True(t, got.Equal(generic.Days(want)), "want %v days, got %s", want, got)
}

func fulltime(hire string) roster.StaffMember {
	h := date(hire)
	return roster.StaffMember{ID: "staff-1", HireDate: &h, EmploymentType: roster.EmploymentFullTime}
}

func parttime(hire string, weeklyDays int) roster.StaffMember {
	s := fulltime(hire)
	s.EmploymentType = roster.EmploymentPartTime
	s.WeeklyWorkDays = weeklyDays
	return s
}

func accountant(t *testing.T) *paidleave.Accountant {
	t.Helper()
	a, err := paidleave.NewAccountant(paidleave.DefaultEntitlementTable())
	require.NoError(t, err)
	return a
}

// =============================================================================
// ENTITLEMENT
// =============================================================================

func TestEntitlement_FirstGrantAtSixMonths(t *testing.T) {
	// GIVEN: Full-time hire on 2023-04-01, today 2023-10-15
	a := accountant(t)
	s := fulltime("2023-04-01")
	today := date("2023-10-15")

	// WHEN: Computing entitlement and dates
	days := a.CalculateEntitlement(s, today)
	granted, ok := a.LatestGrantDate(s, today)

	// THEN: 10 days granted 2023-10-01, expiring 2025-10-01
	assertDays(t, 10, days)
	require.True(t, ok)
	assert.Equal(t, "2023-10-01", granted.String())
	assert.Equal(t, "2025-10-01", paidleave.CalculateExpiry(granted).String())
	assert.Equal(t, "2024-10-01", paidleave.CalculateNextGrantDate(*s.HireDate, today).String())

	// AND: Nothing the day before the first grant
	assertDays(t, 0, a.CalculateEntitlement(s, date("2023-09-30")))
}

func TestEntitlement_GrowsWithService(t *testing.T) {
	a := accountant(t)
	s := fulltime("2020-04-01")

	tests := []struct {
		asOf string
		want float64
	}{
		{"2020-10-01", 10},
		{"2021-10-01", 11},
		{"2022-10-01", 12},
		{"2023-10-01", 14},
		{"2024-10-01", 16},
		{"2025-10-01", 18},
		{"2026-10-01", 20},
		{"2030-10-01", 20},
	}
	for _, tt := range tests {
		t.Run(tt.asOf, func(t *testing.T) {
			assertDays(t, tt.want, a.CalculateEntitlement(s, date(tt.asOf)))
		})
	}
}

func TestEntitlement_Tracks(t *testing.T) {
	a := accountant(t)
	asOf := date("2023-10-01")

	assertDays(t, 5, a.CalculateEntitlement(parttime("2023-04-01", 3), asOf))
	assertDays(t, 1, a.CalculateEntitlement(parttime("2023-04-01", 1), asOf))

	// Five days a week uses the full-time track
	assertDays(t, 10, a.CalculateEntitlement(parttime("2023-04-01", 5), asOf))

	// Missing data is zero, not an error
	assertDays(t, 0, a.CalculateEntitlement(parttime("2023-04-01", 0), asOf))
	assertDays(t, 0, a.CalculateEntitlement(roster.StaffMember{ID: "x", EmploymentType: roster.EmploymentFullTime}, asOf))
}

func TestGrantDates_ClampToMonthEnd(t *testing.T) {
	// GIVEN: Hire on Aug 31
	hire := date("2023-08-31")

	// THEN: First grant on leap-day Feb 29, second on Feb 28, computed from
	//       the hire date each time
	assert.Equal(t, "2024-02-29", paidleave.GrantDate(hire, 0).String())
	assert.Equal(t, "2025-02-28", paidleave.GrantDate(hire, 1).String())
	assert.Equal(t, "2024-02-29", paidleave.CalculateNextGrantDate(hire, date("2024-02-28")).String())
	assert.Equal(t, "2025-02-28", paidleave.CalculateNextGrantDate(hire, date("2024-02-29")).String())
}

func TestEntitlementTable_Validate(t *testing.T) {
	require.NoError(t, paidleave.DefaultEntitlementTable().Validate())

	bad := paidleave.DefaultEntitlementTable()
	bad.FullTime = append([]decimal.Decimal{}, bad.FullTime...)
	bad.FullTime[3] = decimal.NewFromInt(9)
	err := bad.Validate()
	assert.True(t, errors.Is(err, generic.ErrInvalidPolicy))

	short := paidleave.DefaultEntitlementTable()
	short.FullTime = short.FullTime[:3]
	_, err = paidleave.NewAccountant(short)
	assert.True(t, errors.Is(err, generic.ErrInvalidPolicy))
}

func TestGrantSchedule_AccrualEvents(t *testing.T) {
	sched := &paidleave.GrantSchedule{Table: paidleave.DefaultEntitlementTable(), Staff: fulltime("2023-04-01")}

	events := sched.GenerateAccruals(date("2023-04-01"), date("2025-12-31"))
	require.Len(t, events, 3)
	assert.Equal(t, "2024-10-01", events[1].At.String())
	assertDays(t, 12, events[2].Amount)

	assertDays(t, 11, generic.AccruedIn(sched, generic.FiscalYearPeriod(2024), generic.UnitDays))
}

// =============================================================================
// LEDGER
// =============================================================================

func TestBuildLedger_SignedRunningBalance(t *testing.T) {
	// GIVEN: Two grants and a mix of requests, one taken before any grant
	balances := []paidleave.Balance{
		{StaffID: "staff-1", FiscalYear: 2024, TotalDaysGranted: generic.Days(11), GrantedDate: date("2024-10-01")},
		{StaffID: "staff-1", FiscalYear: 2023, TotalDaysGranted: generic.Days(10), GrantedDate: date("2023-10-01")},
		{StaffID: "staff-2", FiscalYear: 2023, TotalDaysGranted: generic.Days(20), GrantedDate: date("2023-10-01")},
	}
	requests := []paidleave.Request{
		{ID: "r2", StaffID: "staff-1", Type: paidleave.RequestHalfDayAM, StartDate: date("2023-11-01"), EndDate: date("2023-11-01"), Status: paidleave.StatusApproved},
		{ID: "r1", StaffID: "staff-1", Type: paidleave.RequestPaidLeave, StartDate: date("2023-09-01"), EndDate: date("2023-09-01"), Status: paidleave.StatusApproved},
		{ID: "r3", StaffID: "staff-1", Type: paidleave.RequestPaidLeave, StartDate: date("2023-12-01"), EndDate: date("2023-12-05"), Status: paidleave.StatusPending},
		{ID: "r4", StaffID: "staff-1", Type: paidleave.RequestPaidLeave, StartDate: date("2023-12-10"), EndDate: date("2023-12-10"), Status: paidleave.StatusRejected},
	}

	// WHEN: Building the ledger
	l, err := paidleave.BuildLedger("staff-1", balances, requests)
	require.NoError(t, err)

	// THEN: Lines in date order with the early usage negative
	require.Len(t, l.Entries, 4)
	assert.Equal(t, "r1", l.Entries[0].Ref)
	assertDays(t, -1, l.Entries[0].RunningBalance)
	assertDays(t, 0, l.Entries[0].DisplayBalance())
	assertDays(t, 9, l.Entries[1].RunningBalance)
	assertDays(t, 8.5, l.Entries[2].RunningBalance)
	assert.True(t, l.WentNegative())

	// AND: Final balance = grants - approved usage
	granted, used := l.Totals()
	assertDays(t, 21, granted)
	assertDays(t, 1.5, used)
	assertDays(t, 19.5, l.Balance())
	assert.True(t, l.Balance().Equal(granted.Sub(used)))
}

func TestBuildLedger_MultiDayRequest(t *testing.T) {
	balances := []paidleave.Balance{{StaffID: "staff-1", FiscalYear: 2023, TotalDaysGranted: generic.Days(10), GrantedDate: date("2023-10-01")}}
	requests := []paidleave.Request{
		{ID: "r1", StaffID: "staff-1", Type: paidleave.RequestPaidLeave, StartDate: date("2023-11-06"), EndDate: date("2023-11-08"), Status: paidleave.StatusApproved},
		{ID: "r2", StaffID: "staff-1", Type: paidleave.RequestPaidLeave, StartDate: date("2023-11-13"), EndDate: date("2023-11-17"), DaysCount: generic.Days(4), Status: paidleave.StatusApproved},
	}

	l, err := paidleave.BuildLedger("staff-1", balances, requests)
	require.NoError(t, err)
	assertDays(t, 3, l.Balance())
	assertDays(t, 7, l.BalanceAt(date("2023-11-10")))
}

func TestBuildLedger_RejectsNegativeDays(t *testing.T) {
	requests := []paidleave.Request{{
		ID: "r1", StaffID: "staff-1", Type: paidleave.RequestPaidLeave,
		StartDate: date("2023-11-01"), EndDate: date("2023-11-01"),
		DaysCount: generic.Days(-1), Status: paidleave.StatusApproved,
	}}

	_, err := paidleave.BuildLedger("staff-1", nil, requests)
	assert.True(t, errors.Is(err, generic.ErrNegativeDays))

	balances := []paidleave.Balance{{StaffID: "staff-1", FiscalYear: 2023, TotalDaysGranted: generic.Days(-2)}}
	_, err = paidleave.BuildLedger("staff-1", balances, nil)
	assert.True(t, errors.Is(err, generic.ErrNegativeDays))
}

func TestBuildLedger_Empty(t *testing.T) {
	l, err := paidleave.BuildLedger("staff-1", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, l.Entries)
	assertDays(t, 0, l.DisplayBalance())
}

// =============================================================================
// FIVE-DAY OBLIGATION AND CARRYOVER
// =============================================================================

func TestCheckFiveDay(t *testing.T) {
	grants := func(granted float64) []paidleave.Balance {
		return []paidleave.Balance{
			{StaffID: "staff-1", FiscalYear: 2023, TotalDaysGranted: generic.Days(granted)},
			{StaffID: "staff-1", FiscalYear: 2022, TotalDaysGranted: generic.Days(20)},
		}
	}
	taken := func(days float64) []paidleave.Request {
		return []paidleave.Request{{
			StaffID: "staff-1", Type: paidleave.RequestPaidLeave, Status: paidleave.StatusApproved,
			StartDate: date("2023-11-06"), EndDate: date("2023-11-10"), DaysCount: generic.Days(days),
		}}
	}

	st := paidleave.CheckFiveDay("staff-1", 2023, grants(10), taken(3))
	assert.True(t, st.NeedsAlert)
	assertDays(t, 3, st.Used)
	assertDays(t, 2, st.Shortfall)

	assert.False(t, paidleave.CheckFiveDay("staff-1", 2023, grants(10), taken(5)).NeedsAlert)
	assert.False(t, paidleave.CheckFiveDay("staff-1", 2023, grants(7), nil).NeedsAlert)
	assert.False(t, paidleave.CheckFiveDay("staff-9", 2023, grants(10), nil).NeedsAlert)
}

func TestCheckFiveDay_CountsUsageInsideTheFiscalYear(t *testing.T) {
	// GIVEN: Two live grants, the older one carrying UsedDays for leave
	// actually taken in FY2024
	balances := []paidleave.Balance{
		{StaffID: "staff-1", FiscalYear: 2023, TotalDaysGranted: generic.Days(10), UsedDays: generic.Days(5)},
		{StaffID: "staff-1", FiscalYear: 2024, TotalDaysGranted: generic.Days(11), UsedDays: generic.Days(0)},
	}
	requests := []paidleave.Request{
		{StaffID: "staff-1", Type: paidleave.RequestPaidLeave, Status: paidleave.StatusApproved,
			StartDate: date("2024-11-04"), EndDate: date("2024-11-08")},
		{StaffID: "staff-1", Type: paidleave.RequestPaidLeave, Status: paidleave.StatusPending,
			StartDate: date("2024-12-02"), EndDate: date("2024-12-02")},
		{StaffID: "staff-1", Type: paidleave.RequestPaidLeave, Status: paidleave.StatusApproved,
			StartDate: date("2024-03-29"), EndDate: date("2024-03-29")},
	}

	// WHEN: Checking both fiscal years
	fy2024 := paidleave.CheckFiveDay("staff-1", 2024, balances, requests)
	fy2023 := paidleave.CheckFiveDay("staff-1", 2023, balances, requests)

	// THEN: The November week counts for FY2024 only
	assertDays(t, 5, fy2024.Used)
	assert.False(t, fy2024.NeedsAlert)
	assertDays(t, 1, fy2023.Used)
	assert.True(t, fy2023.NeedsAlert)
	assertDays(t, 4, fy2023.Shortfall)
}

func TestRemainingDays_TwoYearCarryover(t *testing.T) {
	balances := []paidleave.Balance{
		{StaffID: "staff-1", FiscalYear: 2021, TotalDaysGranted: generic.Days(10), UsedDays: generic.Days(2),
			GrantedDate: date("2021-10-01"), ExpiresDate: date("2023-10-01")},
		{StaffID: "staff-1", FiscalYear: 2022, TotalDaysGranted: generic.Days(11), UsedDays: generic.Days(4),
			GrantedDate: date("2022-10-01"), ExpiresDate: date("2024-10-01")},
	}

	assertDays(t, 15, paidleave.RemainingDays("staff-1", balances, date("2023-09-30")))
	assertDays(t, 7, paidleave.RemainingDays("staff-1", balances, date("2023-10-01")))
	assert.Len(t, paidleave.LiveBalances(balances, date("2023-10-01")), 1)
}

// =============================================================================
// REQUESTS
// =============================================================================

func TestRequest_ValidateAndConsume(t *testing.T) {
	half := paidleave.Request{StaffID: "staff-1", Type: paidleave.RequestHalfDayPM, StartDate: date("2024-04-05"), EndDate: date("2024-04-05")}
	require.NoError(t, half.Validate())
	assertDays(t, 0.5, half.ConsumedDays())

	half.EndDate = date("2024-04-06")
	assert.True(t, errors.Is(half.Validate(), generic.ErrInvalidPeriod))

	bad := paidleave.Request{Type: "sabbatical", StartDate: date("2024-04-05"), EndDate: date("2024-04-05")}
	err := bad.Validate()
	assert.True(t, errors.Is(err, generic.ErrInvalidRequest))
	assert.True(t, generic.IsClientError(err))

	weekendOnly := paidleave.Request{Type: paidleave.RequestPaidLeave, StartDate: date("2024-04-06"), EndDate: date("2024-04-07")}
	assert.True(t, errors.Is(weekendOnly.Validate(), generic.ErrInvalidRequest))
}

func TestRequest_ConsumedDaysSkipsWeekends(t *testing.T) {
	// GIVEN: A Friday to Monday request without an explicit count
	r := paidleave.Request{
		ID: "r1", StaffID: "staff-1", Type: paidleave.RequestPaidLeave, Status: paidleave.StatusApproved,
		StartDate: date("2024-04-05"), EndDate: date("2024-04-08"),
	}
	require.NoError(t, r.Validate())

	// WHEN: Booking it against a ten-day grant
	balances := []paidleave.Balance{{StaffID: "staff-1", FiscalYear: 2023, TotalDaysGranted: generic.Days(10), GrantedDate: date("2023-10-01")}}
	l, err := paidleave.BuildLedger("staff-1", balances, []paidleave.Request{r})
	require.NoError(t, err)

	// THEN: Only the two working days are taken
	assert.Len(t, r.CoveredDays(), 2)
	assertDays(t, 2, r.ConsumedDays())
	assertDays(t, 8, l.Balance())
}

func TestRequest_HalfDayRejectsConflictingCount(t *testing.T) {
	half := paidleave.Request{
		StaffID: "staff-1", Type: paidleave.RequestHalfDayAM,
		StartDate: date("2024-04-05"), EndDate: date("2024-04-05"), DaysCount: generic.Days(1),
	}
	err := half.Validate()
	assert.True(t, errors.Is(err, generic.ErrInvalidRequest))
	assert.True(t, generic.IsClientError(err))

	half.DaysCount = generic.Days(0.5)
	assert.NoError(t, half.Validate())
}

func TestCheckOverlap(t *testing.T) {
	existing := []paidleave.Request{
		{ID: "r1", StaffID: "staff-1", Type: paidleave.RequestPaidLeave, StartDate: date("2024-04-01"), EndDate: date("2024-04-03"), Status: paidleave.StatusApproved},
		{ID: "r2", StaffID: "staff-1", Type: paidleave.RequestHalfDayPM, StartDate: date("2024-04-05"), EndDate: date("2024-04-05"), Status: paidleave.StatusPending},
		{ID: "r3", StaffID: "staff-1", Type: paidleave.RequestPaidLeave, StartDate: date("2024-04-08"), EndDate: date("2024-04-08"), Status: paidleave.StatusRejected},
	}

	clash := paidleave.Request{StaffID: "staff-1", Type: paidleave.RequestPaidLeave, StartDate: date("2024-04-03"), EndDate: date("2024-04-04")}
	err := paidleave.CheckOverlap(clash, existing)
	var dup *paidleave.DuplicateDayError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "2024-04-03", dup.Date.String())
	assert.True(t, generic.IsConflict(err))

	morning := paidleave.Request{StaffID: "staff-1", Type: paidleave.RequestHalfDayAM, StartDate: date("2024-04-05"), EndDate: date("2024-04-05")}
	assert.NoError(t, paidleave.CheckOverlap(morning, existing))

	afterRejected := paidleave.Request{StaffID: "staff-1", Type: paidleave.RequestPaidLeave, StartDate: date("2024-04-08"), EndDate: date("2024-04-08")}
	assert.NoError(t, paidleave.CheckOverlap(afterRejected, existing))
}

func TestExcusedDays_SkipsWeekendsAndUnapproved(t *testing.T) {
	requests := []paidleave.Request{
		{StaffID: "staff-1", Type: paidleave.RequestPaidLeave, StartDate: date("2024-04-05"), EndDate: date("2024-04-08"), Status: paidleave.StatusApproved},
		{StaffID: "staff-1", Type: paidleave.RequestPaidLeave, StartDate: date("2024-04-10"), EndDate: date("2024-04-10"), Status: paidleave.StatusPending},
	}

	days := paidleave.ExcusedDays("staff-1", requests)
	require.Len(t, days, 2)
	assert.Equal(t, "2024-04-05", days[0].String())
	assert.Equal(t, "2024-04-08", days[1].String())
}
