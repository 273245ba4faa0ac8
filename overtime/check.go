package overtime

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/personnel-engine/generic"
)

// Classify maps total/limit onto ok / warning (>= 80%) / critical (>= 100%).
// The ratio is computed in decimal so 2160/2700 is exactly 0.8.
func Classify(totalMinutes, limitMinutes int) (generic.Status, error) {
	if limitMinutes <= 0 {
		return "", fmt.Errorf("%w: limit must be positive, got %d", generic.ErrInvalidAgreement, limitMinutes)
	}
	ratio := decimal.NewFromInt(int64(totalMinutes)).Div(decimal.NewFromInt(int64(limitMinutes)))
	return generic.ClassifyRatio(ratio), nil
}

// =============================================================================
// MONTHLY CHECK
// =============================================================================

// AgreementCheck reports the month and the fiscal-year-to-date totals against
// their own ceilings. The two statuses are independent; Status is the worse.
type AgreementCheck struct {
	Overtime         MonthlyOvertime
	Agreement        Agreement
	MonthlyStatus    generic.Status
	AnnualStatus     generic.Status
	Status           generic.Status
	MonthlyRemaining int // negative once the ceiling is exceeded
	AnnualRemaining  int
}

// Check classifies a monthly result against the agreement registered for its
// fiscal year. A missing agreement is an error, never a default limit.
func Check(m MonthlyOvertime, book *AgreementBook) (AgreementCheck, error) {
	a, err := book.For(m.FiscalYear)
	if err != nil {
		return AgreementCheck{}, err
	}
	monthly, err := Classify(m.MonthlyOvertimeMinutes, a.MonthlyLimitMinutes)
	if err != nil {
		return AgreementCheck{}, err
	}
	annual, err := Classify(m.FiscalYearToDateOvertimeMinutes, a.AnnualLimitMinutes)
	if err != nil {
		return AgreementCheck{}, err
	}
	return AgreementCheck{
		Overtime:         m,
		Agreement:        a,
		MonthlyStatus:    monthly,
		AnnualStatus:     annual,
		Status:           generic.Worst(monthly, annual),
		MonthlyRemaining: a.MonthlyLimitMinutes - m.MonthlyOvertimeMinutes,
		AnnualRemaining:  a.AnnualLimitMinutes - m.FiscalYearToDateOvertimeMinutes,
	}, nil
}

// =============================================================================
// FISCAL YEAR CHECK - Special clause
// =============================================================================

// FiscalYearCheck covers the annual ceiling and the special clause: how many
// months ran over the regular monthly limit and whether any month broke the
// special monthly limit.
type FiscalYearCheck struct {
	Overtime        FiscalYearOvertime
	Agreement       Agreement
	AnnualStatus    generic.Status
	MonthsOverLimit int
	PeakMonth       MonthlyOvertime
	SpecialStatus   generic.Status
	Status          generic.Status
}

// CheckFiscalYear evaluates a full fiscal year. Without a special clause any
// month over the monthly limit is critical.
func CheckFiscalYear(fy FiscalYearOvertime, book *AgreementBook) (FiscalYearCheck, error) {
	a, err := book.For(fy.FiscalYear)
	if err != nil {
		return FiscalYearCheck{}, err
	}
	annual, err := Classify(fy.TotalMinutes, a.AnnualLimitMinutes)
	if err != nil {
		return FiscalYearCheck{}, err
	}

	out := FiscalYearCheck{Overtime: fy, Agreement: a, AnnualStatus: annual}
	overSpecial := false
	for _, m := range fy.Months {
		if m.MonthlyOvertimeMinutes > out.PeakMonth.MonthlyOvertimeMinutes {
			out.PeakMonth = m
		}
		if m.MonthlyOvertimeMinutes > a.MonthlyLimitMinutes {
			out.MonthsOverLimit++
		}
		if a.HasSpecialClause() && m.MonthlyOvertimeMinutes > a.SpecialMonthlyLimitMinutes {
			overSpecial = true
		}
	}

	allowed := 0
	if a.HasSpecialClause() {
		allowed = a.SpecialMonthsLimit
	}
	switch {
	case overSpecial || out.MonthsOverLimit > allowed:
		out.SpecialStatus = generic.StatusCritical
	case out.MonthsOverLimit > 0 && out.MonthsOverLimit == allowed:
		out.SpecialStatus = generic.StatusWarning
	default:
		out.SpecialStatus = generic.StatusOK
	}
	out.Status = generic.Worst(annual, out.SpecialStatus)
	return out, nil
}
