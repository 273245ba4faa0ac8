/*
Package generic provides the domain-agnostic core shared by every engine
component.

PURPOSE:
  Attendance, overtime, paid leave and staffing calculations all need the
  same primitives: exact day quantities, calendar dates, wall-clock times,
  fiscal-year windows, a severity scale and a running-balance ledger. They
  live here so each domain package stays a thin set of pure functions.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A decimal quantity with a unit (e.g., 10 days, 0.75 FTE)
  - Status: Three-level severity (ok < warning < critical) with Worst()
  - StaffID: Type-safe identifier shared by all components

DESIGN PRINCIPLES:
  1. Purity: Nothing in this package performs I/O or keeps state
  2. Precision: Uses decimal.Decimal to avoid floating-point drift on
     half days and fractional FTE
  3. Explicit time: "today" is always an argument, never time.Now()

SEE ALSO:
  - time.go: TimePoint, Clock and holiday calendars
  - period.go: Period and fiscal-year windows
  - ledger.go: Signed running-balance timeline
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitDays    Unit = "days"
	UnitHours   Unit = "hours"
	UnitMinutes Unit = "minutes"
	UnitFTE     Unit = "fte"
	UnitPersons Unit = "persons"
)

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

func NewAmountFromInt(value int, unit Unit) Amount {
	return Amount{Value: decimal.NewFromInt(int64(value)), Unit: unit}
}

func NewAmountFromDecimal(value decimal.Decimal, unit Unit) Amount {
	return Amount{Value: value, Unit: unit}
}

func Days(n float64) Amount { return NewAmount(n, UnitDays) }

func (a Amount) Zero() Amount                 { return Amount{Value: decimal.Zero, Unit: a.Unit} }
func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s), Unit: a.Unit} }
func (a Amount) Neg() Amount                  { return Amount{Value: a.Value.Neg(), Unit: a.Unit} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) Equal(b Amount) bool          { return a.Value.Equal(b.Value) }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }
func (a Amount) GreaterThanOrEqual(b Amount) bool {
	return a.Value.GreaterThanOrEqual(b.Value)
}

func (a Amount) Min(b Amount) Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}

func (a Amount) Max(b Amount) Amount {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// ClampZero returns the amount floored at zero. Presentation only: callers
// that account must keep the signed value.
func (a Amount) ClampZero() Amount { return a.Max(a.Zero()) }

// Float64 returns the value as a float for display and export.
func (a Amount) Float64() float64 {
	f, _ := a.Value.Float64()
	return f
}

func (a Amount) String() string { return a.Value.String() + " " + string(a.Unit) }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type StaffID string
type FacilityID string

// =============================================================================
// STATUS - Severity scale used by every classifier
// =============================================================================

// Status is the outcome of a threshold check. The zero value is not a valid
// status; classifiers always return one of the constants below.
type Status string

const (
	StatusOK       Status = "ok"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Severity orders statuses: critical > warning > ok. Unknown values rank
// below ok.
func (s Status) Severity() int {
	switch s {
	case StatusCritical:
		return 2
	case StatusWarning:
		return 1
	case StatusOK:
		return 0
	default:
		return -1
	}
}

// Worst returns the most severe of the given statuses, or StatusOK when
// called with none.
func Worst(statuses ...Status) Status {
	worst := StatusOK
	for _, s := range statuses {
		if s.Severity() > worst.Severity() {
			worst = s
		}
	}
	return worst
}

// ClassifyRatio maps a usage ratio onto the shared thresholds:
// ratio >= 1.0 is critical, 0.8 <= ratio < 1.0 is warning, below is ok.
func ClassifyRatio(ratio decimal.Decimal) Status {
	switch {
	case ratio.GreaterThanOrEqual(decimal.NewFromInt(1)):
		return StatusCritical
	case ratio.GreaterThanOrEqual(warningRatio):
		return StatusWarning
	default:
		return StatusOK
	}
}

var warningRatio = decimal.RequireFromString("0.8")
