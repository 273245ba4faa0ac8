// Package attendance turns raw punch-clock events into daily summaries.
// It is a pure aggregation layer: punches come in from storage, summaries go
// out to the overtime evaluator and presentation layers.
package attendance

import (
	"github.com/warp/personnel-engine/generic"
)

// =============================================================================
// PUNCH - Immutable punch-clock fact
// =============================================================================

type PunchKind string

const (
	PunchStart      PunchKind = "start"
	PunchEnd        PunchKind = "end"
	PunchBreakStart PunchKind = "break_start"
	PunchBreakEnd   PunchKind = "break_end"
)

// ParsePunchKind validates a stored or submitted punch kind.
func ParsePunchKind(s string) (PunchKind, error) {
	switch k := PunchKind(s); k {
	case PunchStart, PunchEnd, PunchBreakStart, PunchBreakEnd:
		return k, nil
	default:
		return "", &generic.ValidationError{Field: "kind", Value: s, Err: generic.ErrInvalidPunchKind}
	}
}

// Punch is one clock event. A staff/date pair normally carries at most one
// punch of each kind; duplicates are tolerated and the first one wins.
type Punch struct {
	StaffID generic.StaffID
	Date    generic.TimePoint
	Kind    PunchKind
	Time    generic.Clock
}

// NewPunch validates raw collaborator strings into a Punch.
func NewPunch(staffID generic.StaffID, date, kind, clock string) (Punch, error) {
	d, err := generic.ParseDate(date)
	if err != nil {
		return Punch{}, err
	}
	k, err := ParsePunchKind(kind)
	if err != nil {
		return Punch{}, err
	}
	c, err := generic.ParseClock(clock)
	if err != nil {
		return Punch{}, err
	}
	return Punch{StaffID: staffID, Date: d, Kind: k, Time: c}, nil
}

// =============================================================================
// DAILY SUMMARY - Derived, recomputed per query
// =============================================================================

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusWorking    Status = "working"
	StatusOnBreak    Status = "on_break"
	StatusCompleted  Status = "completed"
)

// DailySummary is the derived state of one staff member on one day.
// Absent punches leave the corresponding field nil.
type DailySummary struct {
	StaffID       generic.StaffID
	Date          generic.TimePoint
	Start         *generic.Clock
	End           *generic.Clock
	BreakStart    *generic.Clock
	BreakEnd      *generic.Clock
	Status        Status
	WorkedMinutes int
}

// BreakMinutes returns the length of a completed break, zero otherwise.
func (s DailySummary) BreakMinutes() int {
	if s.BreakStart == nil || s.BreakEnd == nil {
		return 0
	}
	return max(0, generic.MinutesBetween(*s.BreakStart, *s.BreakEnd))
}

// IsCompleted reports whether the day has an end punch.
func (s DailySummary) IsCompleted() bool { return s.Status == StatusCompleted }
