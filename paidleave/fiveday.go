package paidleave

import (
	"fmt"

	"github.com/warp/personnel-engine/generic"
)

// Five-day obligation: staff granted 10 or more days in a fiscal year must
// take at least 5 of them.
var (
	FiveDayGrantThreshold = generic.Days(10)
	FiveDayRequiredUsage  = generic.Days(5)
)

// FiveDayStatus is the result of the five-day check for one fiscal year.
type FiveDayStatus struct {
	StaffID    generic.StaffID
	FiscalYear int
	Granted    generic.Amount
	Used       generic.Amount
	NeedsAlert bool
	Shortfall  generic.Amount // days still to take, zero when compliant
}

// CheckFiveDay flags the member when the grants of fiscal year fy total 10
// days or more and fewer than 5 days of approved leave were taken inside fy.
// Usage comes from the requests, not from Balance.UsedDays, because booking
// charges the oldest live grant first.
func CheckFiveDay(staffID generic.StaffID, fy int, balances []Balance, requests []Request) FiveDayStatus {
	st := FiveDayStatus{
		StaffID:    staffID,
		FiscalYear: fy,
		Granted:    generic.Days(0),
		Used:       UsedInFiscalYear(staffID, fy, requests),
		Shortfall:  generic.Days(0),
	}
	for _, b := range balances {
		if b.StaffID != staffID || b.FiscalYear != fy {
			continue
		}
		st.Granted = st.Granted.Add(b.TotalDaysGranted)
	}
	if st.Granted.GreaterThanOrEqual(FiveDayGrantThreshold) && st.Used.LessThan(FiveDayRequiredUsage) {
		st.NeedsAlert = true
		st.Shortfall = FiveDayRequiredUsage.Sub(st.Used)
	}
	return st
}

// =============================================================================
// CARRYOVER - Grants stay usable for two years
// =============================================================================

// LiveBalances returns the rows usable on today, oldest grant first.
func LiveBalances(balances []Balance, today generic.TimePoint) []Balance {
	var live []Balance
	for _, b := range balances {
		if b.IsLive(today) {
			live = append(live, b)
		}
	}
	return live
}

// RemainingDays sums the positive remainder of the live rows of a staff
// member.
func RemainingDays(staffID generic.StaffID, balances []Balance, today generic.TimePoint) generic.Amount {
	total := generic.Days(0)
	for _, b := range LiveBalances(balances, today) {
		if b.StaffID == staffID {
			total = total.Add(b.Remaining().ClampZero())
		}
	}
	return total
}

// =============================================================================
// OVERLAP CHECK - A day cannot be taken twice
// =============================================================================

// DuplicateDayError is returned when a request covers a day another
// non-rejected request of the same staff member already covers.
type DuplicateDayError struct {
	StaffID     generic.StaffID
	Date        generic.TimePoint
	ExistingRef string
}

func (e *DuplicateDayError) Error() string {
	return fmt.Sprintf("staff %s already has leave on %s (request %s)", e.StaffID, e.Date, e.ExistingRef)
}

func (e *DuplicateDayError) Unwrap() error { return generic.ErrDuplicateDay }

// CheckOverlap rejects a new request whose working days collide with an
// existing pending or approved request. Two half-day requests on the same
// date do not collide when one is am and the other pm.
func CheckOverlap(req Request, existing []Request) error {
	days := make(map[string]bool)
	for _, d := range req.CoveredDays() {
		days[d.String()] = true
	}
	for _, e := range existing {
		if e.StaffID != req.StaffID || e.Status == StatusRejected || (e.ID != "" && e.ID == req.ID) {
			continue
		}
		if req.Type.IsHalfDay() && e.Type.IsHalfDay() && req.Type != e.Type {
			continue
		}
		for _, d := range e.CoveredDays() {
			if days[d.String()] {
				return &DuplicateDayError{StaffID: req.StaffID, Date: d, ExistingRef: e.ID}
			}
		}
	}
	return nil
}
