package paidleave

import (
	"fmt"

	"github.com/warp/personnel-engine/generic"
	"github.com/warp/personnel-engine/roster"
)

// Accountant answers entitlement and grant-date questions against a table.
type Accountant struct {
	Table EntitlementTable
}

// NewAccountant validates the table before use.
func NewAccountant(table EntitlementTable) (*Accountant, error) {
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("entitlement table %q: %w", table.Version, err)
	}
	return &Accountant{Table: table}, nil
}

// CalculateEntitlement returns the size of the latest grant on or before
// asOf. Zero before the first grant or when the roster data is incomplete.
func (a *Accountant) CalculateEntitlement(s roster.StaffMember, asOf generic.TimePoint) generic.Amount {
	if !s.HasHireDate() {
		return generic.NewAmount(0, generic.UnitDays)
	}
	n := grantsOnOrBefore(*s.HireDate, asOf)
	if n == 0 {
		return generic.NewAmount(0, generic.UnitDays)
	}
	return a.Table.DaysAt(s, n-1)
}

// LatestGrantDate returns the most recent grant date on or before asOf.
func (a *Accountant) LatestGrantDate(s roster.StaffMember, asOf generic.TimePoint) (generic.TimePoint, bool) {
	if !s.HasHireDate() {
		return generic.TimePoint{}, false
	}
	n := grantsOnOrBefore(*s.HireDate, asOf)
	if n == 0 {
		return generic.TimePoint{}, false
	}
	return GrantDate(*s.HireDate, n-1), true
}

// CalculateExpiry returns the date a grant lapses: two years after it was
// granted.
func CalculateExpiry(grantDate generic.TimePoint) generic.TimePoint {
	return grantDate.AddYears(ExpiryYears)
}

// CalculateNextGrantDate returns the first grant date strictly after today.
func CalculateNextGrantDate(hire, today generic.TimePoint) generic.TimePoint {
	return GrantDate(hire, grantsOnOrBefore(hire, today))
}

// =============================================================================
// GRANT SCHEDULE - generic.AccrualSchedule for one staff member
// =============================================================================

// GrantSchedule lists the statutory grants of one staff member.
type GrantSchedule struct {
	Table EntitlementTable
	Staff roster.StaffMember
}

var _ generic.AccrualSchedule = (*GrantSchedule)(nil)

func (g *GrantSchedule) GenerateAccruals(from, to generic.TimePoint) []generic.AccrualEvent {
	if !g.Staff.HasHireDate() {
		return nil
	}
	hire := *g.Staff.HireDate

	var events []generic.AccrualEvent
	for n := 0; ; n++ {
		at := GrantDate(hire, n)
		if at.After(to) {
			break
		}
		if at.Before(from) {
			continue
		}
		days := g.Table.DaysAt(g.Staff, n)
		if days.IsZero() {
			continue
		}
		events = append(events, generic.AccrualEvent{
			At:     at,
			Amount: days,
			Reason: fmt.Sprintf("grant at %d months of service", FirstGrantMonths+GrantInterval*n),
		})
	}
	return events
}

// BalanceFor builds the stored grant row for the latest grant on or before
// asOf, or false when nothing has been granted yet.
func (a *Accountant) BalanceFor(s roster.StaffMember, asOf generic.TimePoint) (Balance, bool) {
	granted, ok := a.LatestGrantDate(s, asOf)
	if !ok {
		return Balance{}, false
	}
	days := a.CalculateEntitlement(s, asOf)
	if days.IsZero() {
		return Balance{}, false
	}
	return Balance{
		StaffID:          s.ID,
		FiscalYear:       generic.FiscalYearOf(granted),
		TotalDaysGranted: days,
		UsedDays:         generic.NewAmount(0, generic.UnitDays),
		GrantedDate:      granted,
		ExpiresDate:      CalculateExpiry(granted),
	}, true
}
