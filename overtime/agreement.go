// Package overtime rolls daily attendance summaries up into monthly and
// fiscal-year overtime, and classifies the totals against the facility's
// registered overtime agreement (the "36-agreement").
package overtime

import (
	"fmt"

	"github.com/warp/personnel-engine/generic"
)

// =============================================================================
// AGREEMENT - Per-fiscal-year overtime ceilings
// =============================================================================

// Agreement holds the overtime ceilings registered for one fiscal year.
// The special clause fields are optional; zero disables the clause.
type Agreement struct {
	FiscalYear                 int
	MonthlyLimitMinutes        int
	AnnualLimitMinutes         int
	SpecialMonthlyLimitMinutes int
	SpecialMonthsLimit         int
	EffectiveFrom              generic.TimePoint
	EffectiveTo                *generic.TimePoint
}

// Statutory default ceilings: 45h a month, 360h a year, and under the special
// clause at most 100h in a month for up to 6 months.
const (
	StatutoryMonthlyLimitMinutes        = 45 * 60
	StatutoryAnnualLimitMinutes         = 360 * 60
	StatutorySpecialMonthlyLimitMinutes = 100 * 60
	StatutorySpecialMonthsLimit         = 6
)

// StatutoryAgreement returns an agreement carrying the statutory ceilings
// for a fiscal year. It is a template for registration, never a silent
// fallback.
func StatutoryAgreement(fy int) Agreement {
	p := generic.FiscalYearPeriod(fy)
	return Agreement{
		FiscalYear:                 fy,
		MonthlyLimitMinutes:        StatutoryMonthlyLimitMinutes,
		AnnualLimitMinutes:         StatutoryAnnualLimitMinutes,
		SpecialMonthlyLimitMinutes: StatutorySpecialMonthlyLimitMinutes,
		SpecialMonthsLimit:         StatutorySpecialMonthsLimit,
		EffectiveFrom:              p.Start,
	}
}

// HasSpecialClause reports whether the special clause is configured.
func (a Agreement) HasSpecialClause() bool {
	return a.SpecialMonthlyLimitMinutes > 0 && a.SpecialMonthsLimit > 0
}

// Validate checks that the ceilings are usable as classification limits.
func (a Agreement) Validate() error {
	if a.MonthlyLimitMinutes <= 0 {
		return fmt.Errorf("%w: monthly limit must be positive, got %d", generic.ErrInvalidAgreement, a.MonthlyLimitMinutes)
	}
	if a.AnnualLimitMinutes <= 0 {
		return fmt.Errorf("%w: annual limit must be positive, got %d", generic.ErrInvalidAgreement, a.AnnualLimitMinutes)
	}
	if a.SpecialMonthlyLimitMinutes < 0 || a.SpecialMonthsLimit < 0 || a.SpecialMonthsLimit > 12 {
		return fmt.Errorf("%w: special clause out of range", generic.ErrInvalidAgreement)
	}
	if a.SpecialMonthlyLimitMinutes > 0 && a.SpecialMonthlyLimitMinutes < a.MonthlyLimitMinutes {
		return fmt.Errorf("%w: special monthly limit below regular monthly limit", generic.ErrInvalidAgreement)
	}
	if a.EffectiveTo != nil && a.EffectiveTo.Before(a.EffectiveFrom) {
		return fmt.Errorf("%w: effective period ends before it starts", generic.ErrInvalidAgreement)
	}
	return nil
}

// =============================================================================
// AGREEMENT BOOK - Lookup by fiscal year
// =============================================================================

// AgreementBook indexes registered agreements by fiscal year.
type AgreementBook struct {
	byYear map[int]Agreement
}

// NewAgreementBook validates and indexes agreements. A later agreement for
// the same fiscal year replaces an earlier one.
func NewAgreementBook(agreements ...Agreement) (*AgreementBook, error) {
	b := &AgreementBook{byYear: make(map[int]Agreement, len(agreements))}
	for _, a := range agreements {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("fiscal year %d: %w", a.FiscalYear, err)
		}
		b.byYear[a.FiscalYear] = a
	}
	return b, nil
}

// For returns the agreement for a fiscal year or a NoAgreementError. There
// is no default.
func (b *AgreementBook) For(fy int) (Agreement, error) {
	if b != nil {
		if a, ok := b.byYear[fy]; ok {
			return a, nil
		}
	}
	return Agreement{}, &generic.NoAgreementError{FiscalYear: fy}
}

// Len returns the number of registered fiscal years.
func (b *AgreementBook) Len() int {
	if b == nil {
		return 0
	}
	return len(b.byYear)
}
