// Package paidleave implements statutory paid-leave accounting: grant
// entitlement by length of service, grant and expiry dates, the leave ledger
// and the five-day usage obligation.
package paidleave

import (
	"fmt"

	"github.com/warp/personnel-engine/generic"
)

// =============================================================================
// BALANCE - One grant row per staff member and fiscal year
// =============================================================================

// Balance is a stored grant. UsedDays is maintained by the storage
// collaborator; the ledger derives usage from approved requests instead.
type Balance struct {
	StaffID          generic.StaffID
	FiscalYear       int
	TotalDaysGranted generic.Amount
	UsedDays         generic.Amount
	GrantedDate      generic.TimePoint
	ExpiresDate      generic.TimePoint
}

// Remaining returns granted minus used. It can be negative.
func (b Balance) Remaining() generic.Amount {
	return b.TotalDaysGranted.Sub(b.UsedDays)
}

// IsLive reports whether the grant can still be used on date: granted on or
// before date and not yet expired.
func (b Balance) IsLive(date generic.TimePoint) bool {
	if !b.GrantedDate.IsZero() && b.GrantedDate.After(date) {
		return false
	}
	return b.ExpiresDate.IsZero() || date.Before(b.ExpiresDate)
}

// =============================================================================
// REQUEST - Leave request
// =============================================================================

type RequestType string

const (
	RequestPaidLeave RequestType = "paid_leave"
	RequestHalfDayAM RequestType = "half_day_am"
	RequestHalfDayPM RequestType = "half_day_pm"
)

func (t RequestType) Valid() bool {
	return t == RequestPaidLeave || t == RequestHalfDayAM || t == RequestHalfDayPM
}

// IsHalfDay reports whether the request covers half a day.
func (t RequestType) IsHalfDay() bool { return t == RequestHalfDayAM || t == RequestHalfDayPM }

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

func (s RequestStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Request is a leave request. Only approved requests consume balance.
type Request struct {
	ID        string
	StaffID   generic.StaffID
	Type      RequestType
	StartDate generic.TimePoint
	EndDate   generic.TimePoint
	DaysCount generic.Amount // zero means "count the covered working days"
	Status    RequestStatus
	Reason    string
}

var halfDay = generic.Days(0.5)

// ConsumedDays returns the days the request takes from the balance. Half-day
// requests consume 0.5; otherwise an explicit DaysCount wins over the number
// of covered working days.
func (r Request) ConsumedDays() generic.Amount {
	if r.Type.IsHalfDay() {
		return halfDay
	}
	if !r.DaysCount.Value.IsZero() {
		return r.DaysCount
	}
	return generic.NewAmountFromInt(len(r.CoveredDays()), generic.UnitDays)
}

// Validate rejects malformed requests before they reach storage.
func (r Request) Validate() error {
	if !r.Type.Valid() {
		return &generic.ValidationError{Field: "type", Value: string(r.Type), Err: generic.ErrInvalidRequest}
	}
	if r.Status != "" && !r.Status.Valid() {
		return &generic.ValidationError{Field: "status", Value: string(r.Status), Err: generic.ErrInvalidRequest}
	}
	if err := (generic.Period{Start: r.StartDate, End: r.EndDate}).Validate(); err != nil {
		return err
	}
	if r.Type.IsHalfDay() && !r.StartDate.Equal(r.EndDate) {
		return fmt.Errorf("%w: half-day request must start and end on the same date", generic.ErrInvalidPeriod)
	}
	if r.DaysCount.IsNegative() {
		return &generic.ValidationError{Field: "days_count", Value: r.DaysCount.Value.String(), Err: generic.ErrNegativeDays}
	}
	if r.Type.IsHalfDay() && !r.DaysCount.Value.IsZero() && !r.DaysCount.Equal(halfDay) {
		return &generic.ValidationError{Field: "days_count", Value: r.DaysCount.Value.String(), Err: generic.ErrInvalidRequest}
	}
	if len(r.CoveredDays()) == 0 {
		return fmt.Errorf("%w: %s..%s covers no working day", generic.ErrInvalidRequest, r.StartDate, r.EndDate)
	}
	return nil
}

// CoveredDays returns the working days the request keeps the staff member
// away. Weekends are dropped.
func (r Request) CoveredDays() []generic.TimePoint {
	var days []generic.TimePoint
	for _, d := range (generic.Period{Start: r.StartDate, End: r.EndDate}).Days() {
		if d.IsWorkday() {
			days = append(days, d)
		}
	}
	return days
}

// UsedInFiscalYear sums the consumed days of the staff member's approved
// requests that start inside fiscal year fy, whichever grant absorbed them.
func UsedInFiscalYear(staffID generic.StaffID, fy int, requests []Request) generic.Amount {
	fyPeriod := generic.FiscalYearPeriod(fy)
	used := generic.Days(0)
	for _, r := range requests {
		if r.StaffID == staffID && r.Status == StatusApproved && fyPeriod.Contains(r.StartDate) {
			used = used.Add(r.ConsumedDays())
		}
	}
	return used
}

// ExcusedDays flattens the covered days of the approved requests of a staff
// member, for absence detection.
func ExcusedDays(staffID generic.StaffID, requests []Request) []generic.TimePoint {
	var out []generic.TimePoint
	for _, r := range requests {
		if r.StaffID == staffID && r.Status == StatusApproved {
			out = append(out, r.CoveredDays()...)
		}
	}
	return out
}
