package overtime_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/personnel-engine/attendance"
	"github.com/warp/personnel-engine/generic"
	"github.com/warp/personnel-engine/overtime"
)

const staff = generic.StaffID("staff-1")

func completed(date string, worked int) attendance.DailySummary {
	return attendance.DailySummary{
		StaffID:       staff,
		Date:          generic.MustParseDate(date),
		Status:        attendance.StatusCompleted,
		WorkedMinutes: worked,
	}
}

func book(t *testing.T, agreements ...overtime.Agreement) *overtime.AgreementBook {
	t.Helper()
	b, err := overtime.NewAgreementBook(agreements...)
	require.NoError(t, err)
	return b
}

// =============================================================================
// DAILY OVERTIME
// =============================================================================

func TestDailyOvertime(t *testing.T) {
	// GIVEN: 540 worked minutes against a 480-minute day
	s := completed("2024-04-01", 540)
	assert.Equal(t, 60, overtime.DailyOvertime(s, 480))

	// Short days never go negative
	assert.Equal(t, 0, overtime.DailyOvertime(completed("2024-04-01", 300), 480))

	// In-progress days contribute nothing even if worked minutes were set
	s.Status = attendance.StatusWorking
	assert.Equal(t, 0, overtime.DailyOvertime(s, 480))
}

// =============================================================================
// MONTHLY AND FISCAL-YEAR ROLLUPS
// =============================================================================

func TestEvaluateMonth_MonthlyAndFiscalYearToDate(t *testing.T) {
	// GIVEN: Overtime in March (FY2023), April and May (FY2024), plus another
	//        staff member's day
	summaries := []attendance.DailySummary{
		completed("2024-03-29", 600), // 120, previous fiscal year
		completed("2024-04-01", 540), // 60
		completed("2024-04-30", 510), // 30
		completed("2024-05-01", 570), // 90
		{StaffID: "staff-2", Date: generic.MustParseDate("2024-05-02"), Status: attendance.StatusCompleted, WorkedMinutes: 900},
		{StaffID: staff, Date: generic.MustParseDate("2024-05-03"), Status: attendance.StatusWorking},
	}
	e := overtime.NewEvaluator(480)

	// WHEN: Evaluating May 2024
	m := e.EvaluateMonth(staff, 2024, time.May, summaries)

	// THEN: Month = 90, FY-to-date = 60 + 30 + 90
	assert.Equal(t, 90, m.MonthlyOvertimeMinutes)
	assert.Equal(t, 180, m.FiscalYearToDateOvertimeMinutes)
	assert.Equal(t, 2024, m.FiscalYear)
	assert.Equal(t, 1, m.CompletedDays)
	assert.Equal(t, "2024-05", m.Label())

	// AND: March belongs to FY2023 only
	march := e.EvaluateMonth(staff, 2024, time.March, summaries)
	assert.Equal(t, 2023, march.FiscalYear)
	assert.Equal(t, 120, march.FiscalYearToDateOvertimeMinutes)
}

func TestEvaluateFiscalYear_TwelveMonths(t *testing.T) {
	summaries := []attendance.DailySummary{
		completed("2024-04-01", 540),
		completed("2025-03-31", 600),
		completed("2025-04-01", 600), // next fiscal year
	}

	fy := overtime.NewEvaluator(0).EvaluateFiscalYear(staff, 2024, summaries)

	require.Len(t, fy.Months, 12)
	assert.Equal(t, time.April, fy.Months[0].Month)
	assert.Equal(t, time.March, fy.Months[11].Month)
	assert.Equal(t, 180, fy.TotalMinutes)
	assert.Equal(t, fy.TotalMinutes, fy.Months[11].FiscalYearToDateOvertimeMinutes)
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

func TestClassify_Thresholds(t *testing.T) {
	tests := []struct {
		total, limit int
		want         generic.Status
	}{
		{0, 2700, generic.StatusOK},
		{2159, 2700, generic.StatusOK},
		{2160, 2700, generic.StatusWarning}, // exactly 80%
		{2310, 2700, generic.StatusWarning}, // 38.5h of 45h
		{2700, 2700, generic.StatusCritical},
		{3000, 2700, generic.StatusCritical},
	}
	for _, tt := range tests {
		got, err := overtime.Classify(tt.total, tt.limit)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%d/%d", tt.total, tt.limit)
	}

	_, err := overtime.Classify(10, 0)
	assert.True(t, errors.Is(err, generic.ErrInvalidAgreement))
}

func TestCheck_WarningAt38AndAHalfHours(t *testing.T) {
	// GIVEN: 38.5h of monthly overtime against the statutory 45h ceiling
	m := overtime.MonthlyOvertime{
		StaffID:                         staff,
		Year:                            2024,
		Month:                           time.June,
		FiscalYear:                      2024,
		MonthlyOvertimeMinutes:          2310,
		FiscalYearToDateOvertimeMinutes: 2310,
	}

	// WHEN: Checking against the registered agreement
	c, err := overtime.Check(m, book(t, overtime.StatutoryAgreement(2024)))
	require.NoError(t, err)

	// THEN: Monthly warning, annual still ok
	assert.Equal(t, generic.StatusWarning, c.MonthlyStatus)
	assert.Equal(t, generic.StatusOK, c.AnnualStatus)
	assert.Equal(t, generic.StatusWarning, c.Status)
	assert.Equal(t, 390, c.MonthlyRemaining)
}

func TestCheck_NoAgreementFailsLoudly(t *testing.T) {
	// GIVEN: Only FY2023 is registered
	b := book(t, overtime.StatutoryAgreement(2023))

	// WHEN: Checking a FY2024 month
	_, err := overtime.Check(overtime.MonthlyOvertime{FiscalYear: 2024}, b)

	// THEN: A NoAgreementError naming the year
	require.Error(t, err)
	assert.True(t, errors.Is(err, generic.ErrNoAgreement))
	var nae *generic.NoAgreementError
	require.True(t, errors.As(err, &nae))
	assert.Equal(t, 2024, nae.FiscalYear)
}

func TestNewAgreementBook_RejectsInvalid(t *testing.T) {
	a := overtime.StatutoryAgreement(2024)
	a.MonthlyLimitMinutes = 0

	_, err := overtime.NewAgreementBook(a)
	assert.True(t, errors.Is(err, generic.ErrInvalidAgreement))
}

func TestCheckFiscalYear_SpecialClause(t *testing.T) {
	a := overtime.StatutoryAgreement(2024)
	b := book(t, a)

	months := func(over ...int) overtime.FiscalYearOvertime {
		fy := overtime.FiscalYearOvertime{StaffID: staff, FiscalYear: 2024}
		for _, m := range over {
			fy.Months = append(fy.Months, overtime.MonthlyOvertime{MonthlyOvertimeMinutes: m})
			fy.TotalMinutes += m
		}
		return fy
	}

	t.Run("within limits", func(t *testing.T) {
		c, err := overtime.CheckFiscalYear(months(600, 600), b)
		require.NoError(t, err)
		assert.Equal(t, 0, c.MonthsOverLimit)
		assert.Equal(t, generic.StatusOK, c.Status)
	})

	t.Run("seven months over the monthly limit", func(t *testing.T) {
		c, err := overtime.CheckFiscalYear(months(2800, 2800, 2800, 2800, 2800, 2800, 2800), b)
		require.NoError(t, err)
		assert.Equal(t, 7, c.MonthsOverLimit)
		assert.Equal(t, generic.StatusCritical, c.SpecialStatus)
	})

	t.Run("one month over the special limit", func(t *testing.T) {
		c, err := overtime.CheckFiscalYear(months(6100), b)
		require.NoError(t, err)
		assert.Equal(t, generic.StatusCritical, c.SpecialStatus)
		assert.Equal(t, 6100, c.PeakMonth.MonthlyOvertimeMinutes)
	})

	t.Run("no agreement", func(t *testing.T) {
		_, err := overtime.CheckFiscalYear(overtime.FiscalYearOvertime{FiscalYear: 2030}, b)
		assert.True(t, errors.Is(err, generic.ErrNoAgreement))
	})
}
