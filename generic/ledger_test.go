package generic_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/personnel-engine/generic"
)

func entry(date string, typ generic.EntryType, days float64) generic.Entry {
	return generic.Entry{At: generic.MustParseDate(date), Type: typ, Amount: generic.Days(days)}
}

func TestReplay_SortsAndPostsSignedBalance(t *testing.T) {
	// GIVEN: a usage dated before the only grant
	// WHEN: replaying
	// THEN: the usage posts first and the balance goes negative, then recovers
	tl := generic.Replay([]generic.Entry{
		entry("2023-10-01", generic.EntryGrant, 10),
		entry("2023-09-01", generic.EntryUsage, 2),
		entry("2023-11-01", generic.EntryUsage, 1),
	}, generic.UnitDays)

	require.Len(t, tl.Postings, 3)
	assert.Equal(t, "2023-09-01", tl.Postings[0].At.String())
	assert.True(t, tl.Postings[0].RunningBalance.Equal(generic.Days(-2)))
	assert.True(t, tl.Postings[0].Display().IsZero(), "display clamps at zero")
	assert.True(t, tl.Postings[1].RunningBalance.Equal(generic.Days(8)))
	assert.True(t, tl.Balance().Equal(generic.Days(7)))

	neg := tl.FirstNegative()
	require.NotNil(t, neg)
	assert.Equal(t, generic.EntryUsage, neg.Type)
}

func TestReplay_GrantBeforeUsageOnSameDay(t *testing.T) {
	tl := generic.Replay([]generic.Entry{
		entry("2023-10-01", generic.EntryUsage, 1),
		entry("2023-10-01", generic.EntryGrant, 10),
	}, generic.UnitDays)

	assert.Equal(t, generic.EntryGrant, tl.Postings[0].Type)
	assert.Nil(t, tl.FirstNegative())
}

func TestTimeline_TotalsAndBalanceAt(t *testing.T) {
	tl := generic.Replay([]generic.Entry{
		entry("2023-10-01", generic.EntryGrant, 10),
		entry("2023-12-01", generic.EntryUsage, 0.5),
		entry("2024-10-01", generic.EntryGrant, 11),
	}, generic.UnitDays)

	granted, used := tl.Totals()
	assert.True(t, granted.Equal(generic.Days(21)))
	assert.True(t, used.Equal(generic.Days(0.5)))
	assert.True(t, tl.Balance().Equal(granted.Sub(used)))
	assert.True(t, tl.BalanceAt(generic.MustParseDate("2024-01-01")).Value.Equal(decimal.RequireFromString("9.5")))
	assert.True(t, tl.BalanceAt(generic.MustParseDate("2023-01-01")).IsZero())
}

func TestReplay_Empty(t *testing.T) {
	tl := generic.Replay(nil, generic.UnitDays)
	assert.True(t, tl.Balance().IsZero())
	assert.Nil(t, tl.FirstNegative())
}

func TestWorstAndClassifyRatio(t *testing.T) {
	assert.Equal(t, generic.StatusOK, generic.Worst())
	assert.Equal(t, generic.StatusWarning, generic.Worst(generic.StatusOK, generic.StatusWarning))
	assert.Equal(t, generic.StatusCritical, generic.Worst(generic.StatusWarning, generic.StatusCritical, generic.StatusOK))

	assert.Equal(t, generic.StatusOK, generic.ClassifyRatio(decimal.RequireFromString("0.79")))
	assert.Equal(t, generic.StatusWarning, generic.ClassifyRatio(decimal.RequireFromString("0.8")))
	assert.Equal(t, generic.StatusWarning, generic.ClassifyRatio(decimal.RequireFromString("0.9999")))
	assert.Equal(t, generic.StatusCritical, generic.ClassifyRatio(decimal.NewFromInt(1)))
}
