package staffing_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/personnel-engine/generic"
	"github.com/warp/personnel-engine/staffing"
)

func hours(h float64) *float64 { return &h }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculateFTE(t *testing.T) {
	tests := []struct {
		name  string
		style staffing.WorkStyle
		hours *float64
		want  string
	}{
		{"dedicated ignores hours", staffing.WorkFullTimeDedicated, hours(10), "1"},
		{"dedicated without hours", staffing.WorkFullTimeDedicated, nil, "1"},
		{"concurrent", staffing.WorkFullTimeConcurrent, nil, "0.75"},
		{"part-time half", staffing.WorkPartTime, hours(20), "0.5"},
		{"part-time capped", staffing.WorkPartTime, hours(50), "1"},
		{"part-time missing hours", staffing.WorkPartTime, nil, "0"},
		{"unknown style", staffing.WorkStyle("contractor"), hours(40), "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := staffing.CalculateFTE(tt.style, tt.hours, 40)
			assert.True(t, got.Equal(dec(tt.want)), "got %s", got)
			assert.True(t, got.GreaterThanOrEqual(decimal.Zero) && got.LessThanOrEqual(decimal.NewFromInt(1)))
		})
	}

	assert.True(t, staffing.CalculateFTE(staffing.WorkPartTime, hours(20), 0).IsZero())
}

func TestRequiredHeadcount(t *testing.T) {
	assert.Equal(t, 2, staffing.RequiredHeadcount(2, 10))
	assert.Equal(t, 2, staffing.RequiredHeadcount(2, 5))
	assert.Equal(t, 3, staffing.RequiredHeadcount(2, 11))
	assert.Equal(t, 3, staffing.RequiredHeadcount(2, 15))
	assert.Equal(t, 4, staffing.RequiredHeadcount(2, 16))
}

func TestStatusFor_Monotonic(t *testing.T) {
	// GIVEN: A requirement of 3
	required := decimal.NewFromInt(3)

	// THEN: 3+ ok, 2 warning, below critical
	assert.Equal(t, generic.StatusCritical, staffing.StatusFor(decimal.NewFromInt(1), required))
	assert.Equal(t, generic.StatusWarning, staffing.StatusFor(decimal.NewFromInt(2), required))
	assert.Equal(t, generic.StatusOK, staffing.StatusFor(decimal.NewFromInt(3), required))

	// AND: Fractional FTE within one of the requirement is a warning
	fte := decimal.NewFromFloat(1.5)
	assert.Equal(t, generic.StatusWarning, staffing.StatusFor(decimal.NewFromFloat(0.6), fte))
	assert.Equal(t, generic.StatusWarning, staffing.StatusFor(decimal.NewFromFloat(0.5), fte))
	assert.Equal(t, generic.StatusCritical, staffing.StatusFor(decimal.NewFromFloat(0.4), fte))

	// AND: Adding one never makes things worse
	for current := 0; current < 10; current++ {
		before := staffing.StatusFor(decimal.NewFromInt(int64(current)), required)
		after := staffing.StatusFor(decimal.NewFromInt(int64(current+1)), required)
		assert.LessOrEqual(t, after.Severity(), before.Severity(), "current=%d", current)
	}
}

func TestAggregate(t *testing.T) {
	settings := []staffing.PersonnelSetting{
		{StaffID: "a", PersonnelType: staffing.PersonnelStandard, WorkStyle: staffing.WorkFullTimeDedicated, IsManager: true},
		{StaffID: "b", PersonnelType: staffing.PersonnelStandard, WorkStyle: staffing.WorkPartTime, ContractedWeeklyHours: hours(20)},
		{StaffID: "c", PersonnelType: staffing.PersonnelAddition, WorkStyle: staffing.WorkFullTimeConcurrent, IsServiceManager: true},
	}

	h := staffing.Aggregate(settings, 40)

	assert.Equal(t, 3, h.Total.Count)
	assert.True(t, h.Total.FTE.Equal(dec("2.25")))
	assert.Equal(t, 2, h.ByPersonnelType[staffing.PersonnelStandard].Count)
	assert.True(t, h.ByPersonnelType[staffing.PersonnelStandard].FTE.Equal(dec("1.5")))
	assert.Equal(t, 1, h.ByWorkStyle[staffing.WorkPartTime].Count)
	assert.Equal(t, 1, h.Managers)
	assert.Equal(t, 1, h.ServiceManagers)
}

func TestEvaluate(t *testing.T) {
	// GIVEN: Capacity 16 facility with three standard members
	settings := []staffing.PersonnelSetting{
		{StaffID: "a", PersonnelType: staffing.PersonnelStandard, WorkStyle: staffing.WorkFullTimeDedicated, IsManager: true},
		{StaffID: "b", PersonnelType: staffing.PersonnelStandard, WorkStyle: staffing.WorkFullTimeDedicated},
		{StaffID: "c", PersonnelType: staffing.PersonnelStandard, WorkStyle: staffing.WorkPartTime, ContractedWeeklyHours: hours(20)},
		{StaffID: "d", PersonnelType: staffing.PersonnelAddition, WorkStyle: staffing.WorkFullTimeDedicated},
	}
	requirements := []staffing.Requirement{
		{ID: "care", Kind: staffing.KindHeadcount, RequiredCount: decimal.NewFromInt(2), CapacityBased: true, PersonnelType: staffing.PersonnelStandard},
		{ID: "fte", Kind: staffing.KindFTE, RequiredCount: dec("2.5"), PersonnelType: staffing.PersonnelStandard},
		{ID: "mgr", Kind: staffing.KindManager, RequiredCount: decimal.NewFromInt(1)},
		{ID: "svc", Kind: staffing.KindServiceManager, RequiredCount: decimal.NewFromInt(2)},
		{ID: "ded", Kind: staffing.KindFullTimeDedicated, RequiredCount: decimal.NewFromInt(3)},
	}

	// WHEN: Evaluating
	report, err := staffing.Evaluate(settings, requirements, staffing.Facility{ID: "f1", Capacity: 16, StandardWeeklyHours: 40})
	require.NoError(t, err)

	// THEN: Care needs 4 and has 3 (warning); FTE 2.5 ok; manager ok;
	//       service managers 0 of 2 (critical); dedicated 3 of 3 ok
	require.Len(t, report.Records, 5)
	assert.True(t, report.Records[0].Required.Equal(decimal.NewFromInt(4)))
	assert.True(t, report.Records[0].Current.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, generic.StatusWarning, report.Records[0].Status)
	assert.Equal(t, generic.StatusOK, report.Records[1].Status)
	assert.Equal(t, generic.StatusOK, report.Records[2].Status)
	assert.Equal(t, generic.StatusCritical, report.Records[3].Status)
	assert.True(t, report.Records[3].Shortfall().Equal(decimal.NewFromInt(2)))
	assert.Equal(t, generic.StatusOK, report.Records[4].Status)
	assert.Equal(t, generic.StatusCritical, report.OverallStatus)
}

func TestEvaluate_EmptyAndInvalid(t *testing.T) {
	report, err := staffing.Evaluate(nil, nil, staffing.Facility{})
	require.NoError(t, err)
	assert.Equal(t, generic.StatusOK, report.OverallStatus)

	_, err = staffing.Evaluate(nil, []staffing.Requirement{{ID: "x", Kind: "nurses"}}, staffing.Facility{})
	assert.True(t, errors.Is(err, generic.ErrInvalidPolicy))
}
