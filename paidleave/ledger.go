/*
ledger.go - Paid-leave ledger built from balances and requests

PURPOSE:
  Explains a staff member's balance: one grant line per balance row and one
  usage line per approved request, merged in date order with the balance
  after each line.

INVARIANT:
  Final RunningBalance = sum(granted days) - sum(approved request days).

  The running balance is signed. A leave taken before the grant it draws on
  shows up as a negative line; DisplayBalance clamps at zero for screens and
  exports, the stored value is never altered.

ERRORS:
  A negative grant or request day count is rejected with ErrNegativeDays.

SEE ALSO:
  - generic/ledger.go: Replay, the ordering and accumulation rules
*/
package paidleave

import (
	"fmt"
	"sort"

	"github.com/warp/personnel-engine/generic"
)

// LedgerEntry is one posted line of the ledger.
type LedgerEntry struct {
	Date           generic.TimePoint
	Type           generic.EntryType
	Days           generic.Amount
	RunningBalance generic.Amount
	Description    string
	Ref            string
}

// DisplayBalance returns the running balance floored at zero.
func (e LedgerEntry) DisplayBalance() generic.Amount { return e.RunningBalance.ClampZero() }

// Ledger is the posted history of one staff member.
type Ledger struct {
	StaffID  generic.StaffID
	Entries  []LedgerEntry
	timeline generic.Timeline
}

// Balance returns the signed final balance.
func (l Ledger) Balance() generic.Amount { return l.timeline.Balance() }

// DisplayBalance returns the final balance floored at zero.
func (l Ledger) DisplayBalance() generic.Amount { return l.Balance().ClampZero() }

// Totals returns the summed grants and usages.
func (l Ledger) Totals() (granted, used generic.Amount) { return l.timeline.Totals() }

// BalanceAt returns the signed balance after every line on or before date.
func (l Ledger) BalanceAt(date generic.TimePoint) generic.Amount { return l.timeline.BalanceAt(date) }

// WentNegative reports whether any line drove the balance below zero.
func (l Ledger) WentNegative() bool { return l.timeline.FirstNegative() != nil }

// BuildLedger assembles the ledger of one staff member. Rows for other staff
// are ignored; pending and rejected requests do not consume.
func BuildLedger(staffID generic.StaffID, balances []Balance, requests []Request) (Ledger, error) {
	var own []Balance
	for _, b := range balances {
		if b.StaffID == staffID {
			own = append(own, b)
		}
	}
	sort.SliceStable(own, func(i, j int) bool { return own[i].FiscalYear < own[j].FiscalYear })

	var approved []Request
	for _, r := range requests {
		if r.StaffID == staffID && r.Status == StatusApproved {
			approved = append(approved, r)
		}
	}
	sort.SliceStable(approved, func(i, j int) bool { return approved[i].StartDate.Before(approved[j].StartDate) })

	entries := make([]generic.Entry, 0, len(own)+len(approved))
	for _, b := range own {
		if b.TotalDaysGranted.IsNegative() {
			return Ledger{}, fmt.Errorf("grant for fiscal year %d: %w", b.FiscalYear, generic.ErrNegativeDays)
		}
		at := b.GrantedDate
		if at.IsZero() {
			at = generic.FiscalYearPeriod(b.FiscalYear).Start
		}
		entries = append(entries, generic.Entry{
			At:          at,
			Type:        generic.EntryGrant,
			Amount:      b.TotalDaysGranted,
			Ref:         fmt.Sprintf("FY%d", b.FiscalYear),
			Description: fmt.Sprintf("FY%d grant", b.FiscalYear),
		})
	}
	for _, r := range approved {
		days := r.ConsumedDays()
		if days.IsNegative() {
			return Ledger{}, fmt.Errorf("request %s: %w", r.ID, generic.ErrNegativeDays)
		}
		entries = append(entries, generic.Entry{
			At:          r.StartDate,
			Type:        generic.EntryUsage,
			Amount:      days,
			Ref:         r.ID,
			Description: describeUsage(r),
		})
	}

	tl := generic.Replay(entries, generic.UnitDays)
	out := Ledger{StaffID: staffID, timeline: tl, Entries: make([]LedgerEntry, len(tl.Postings))}
	for i, p := range tl.Postings {
		out.Entries[i] = LedgerEntry{
			Date:           p.At,
			Type:           p.Type,
			Days:           p.Amount,
			RunningBalance: p.RunningBalance,
			Description:    p.Description,
			Ref:            p.Ref,
		}
	}
	return out, nil
}

func describeUsage(r Request) string {
	switch r.Type {
	case RequestHalfDayAM:
		return "half day (am)"
	case RequestHalfDayPM:
		return "half day (pm)"
	}
	if r.StartDate.Equal(r.EndDate) {
		return "paid leave " + r.StartDate.String()
	}
	return fmt.Sprintf("paid leave %s to %s", r.StartDate, r.EndDate)
}
