/*
ledger.go - Signed running-balance timeline

PURPOSE:
  A ledger is a chronological list of balance changes (grants add, usages
  subtract) with the balance after each change. The balance is always
  computed by replaying entries - there is no separate "balance" field that
  can get out of sync.

CRITICAL INVARIANTS:
  1. ORDERED: Postings come out sorted by date. On the same date grants are
     applied before usages, then input order breaks ties.
  2. SIGNED: RunningBalance is never clamped. A usage recorded before its
     matching grant shows up as a negative excursion.
  3. CONSERVED: The final balance equals sum(grants) - sum(usages).

DISPLAY:
  Clamping to zero is a presentation transform. Posting.Display() applies
  it on read so the signed value stays available to tests and audits.

SEE ALSO:
  - paidleave/ledger.go: Builds entries from leave balances and requests
*/
package generic

import "sort"

// =============================================================================
// ENTRY - One balance change
// =============================================================================

type EntryType string

const (
	EntryGrant EntryType = "grant" // Adds to balance
	EntryUsage EntryType = "usage" // Subtracts from balance
)

// Entry is an unposted balance change. Amount is always non-negative; the
// Type decides the sign.
type Entry struct {
	At          TimePoint
	Type        EntryType
	Amount      Amount
	Ref         string
	Description string
}

// Delta returns the signed effect of the entry on the balance.
func (e Entry) Delta() Amount {
	if e.Type == EntryUsage {
		return e.Amount.Neg()
	}
	return e.Amount
}

// Posting is an entry with the balance after it was applied.
type Posting struct {
	Entry
	RunningBalance Amount
}

// Display returns the running balance floored at zero.
func (p Posting) Display() Amount { return p.RunningBalance.ClampZero() }

// =============================================================================
// TIMELINE - Replays entries in date order
// =============================================================================

type Timeline struct {
	Postings []Posting
	Unit     Unit
}

// Replay orders entries chronologically and posts them against a zero
// opening balance.
func Replay(entries []Entry, unit Unit) Timeline {
	ordered := make([]Entry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.At.Equal(b.At) {
			return a.At.Before(b.At)
		}
		return a.Type == EntryGrant && b.Type != EntryGrant
	})

	balance := NewAmount(0, unit)
	postings := make([]Posting, 0, len(ordered))
	for _, e := range ordered {
		balance = balance.Add(e.Delta())
		postings = append(postings, Posting{Entry: e, RunningBalance: balance})
	}
	return Timeline{Postings: postings, Unit: unit}
}

// Balance returns the signed balance after the last posting.
func (t Timeline) Balance() Amount {
	if len(t.Postings) == 0 {
		return NewAmount(0, t.Unit)
	}
	return t.Postings[len(t.Postings)-1].RunningBalance
}

// BalanceAt returns the signed balance after every posting on or before at.
func (t Timeline) BalanceAt(at TimePoint) Amount {
	balance := NewAmount(0, t.Unit)
	for _, p := range t.Postings {
		if p.At.After(at) {
			break
		}
		balance = p.RunningBalance
	}
	return balance
}

// Totals returns the summed grants and usages (both non-negative).
func (t Timeline) Totals() (granted, used Amount) {
	granted, used = NewAmount(0, t.Unit), NewAmount(0, t.Unit)
	for _, p := range t.Postings {
		if p.Type == EntryUsage {
			used = used.Add(p.Amount)
		} else {
			granted = granted.Add(p.Amount)
		}
	}
	return granted, used
}

// FirstNegative returns the first posting that drove the balance below
// zero, or nil when the balance never went negative.
func (t Timeline) FirstNegative() *Posting {
	for i := range t.Postings {
		if t.Postings[i].RunningBalance.IsNegative() {
			return &t.Postings[i]
		}
	}
	return nil
}
