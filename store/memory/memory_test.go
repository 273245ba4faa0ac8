package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/personnel-engine/attendance"
	"github.com/warp/personnel-engine/generic"
	"github.com/warp/personnel-engine/overtime"
	"github.com/warp/personnel-engine/paidleave"
	"github.com/warp/personnel-engine/report"
	"github.com/warp/personnel-engine/store/memory"
)

func TestAddPunch_KeepsOrder(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	// GIVEN: Punches arriving out of order
	for _, raw := range [][3]string{
		{"2024-04-02", "start", "09:00"},
		{"2024-04-01", "end", "18:00"},
		{"2024-04-01", "start", "09:00"},
	} {
		p, err := attendance.NewPunch("s1", raw[0], raw[1], raw[2])
		require.NoError(t, err)
		require.NoError(t, st.AddPunch(ctx, p))
	}

	// WHEN: Listing the first day only
	punches, err := st.ListPunches(ctx, "s1", generic.Period{
		Start: generic.MustParseDate("2024-04-01"), End: generic.MustParseDate("2024-04-01"),
	})

	// THEN: They come back sorted by clock
	require.NoError(t, err)
	require.Len(t, punches, 2)
	assert.Equal(t, attendance.PunchStart, punches[0].Kind)
	assert.Equal(t, attendance.PunchEnd, punches[1].Kind)
}

func TestSaveBalance_UpsertsOnFiscalYear(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	b := paidleave.Balance{StaffID: "s1", FiscalYear: 2024, TotalDaysGranted: generic.Days(11), UsedDays: generic.Days(0)}
	require.NoError(t, st.SaveBalance(ctx, b))
	b.UsedDays = generic.Days(2)
	require.NoError(t, st.SaveBalance(ctx, b))
	require.NoError(t, st.SaveBalance(ctx, paidleave.Balance{StaffID: "s1", FiscalYear: 2023, TotalDaysGranted: generic.Days(10), UsedDays: generic.Days(0)}))

	balances, err := st.ListBalances(ctx, "s1")

	require.NoError(t, err)
	require.Len(t, balances, 2)
	assert.Equal(t, 2023, balances[0].FiscalYear)
	assert.True(t, balances[1].UsedDays.Equal(generic.Days(2)))
}

func TestMissingRecords(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	_, err := st.GetStaff(ctx, "nobody")
	assert.True(t, generic.IsNotFound(err))
	_, err = st.GetReport(ctx, "nothing")
	assert.True(t, generic.IsNotFound(err))

	staff, err := st.ListStaff(ctx, "f1")
	require.NoError(t, err)
	assert.Empty(t, staff)
}

func TestSaveAgreement_Validates(t *testing.T) {
	st := memory.New()
	err := st.SaveAgreement(context.Background(), "f1", overtime.Agreement{FiscalYear: 2024})
	assert.True(t, generic.IsPolicyError(err))
}

func TestSaveReport_StoresCopy(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	r := &report.MonthlyReport{ID: "r1", FacilityID: "f1", Status: report.StatusDraft}
	require.NoError(t, st.SaveReport(ctx, r))
	r.Status = report.StatusApproved

	got, err := st.GetReport(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, report.StatusDraft, got.Status)
}
