package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warp/personnel-engine/generic"
	"github.com/warp/personnel-engine/policy"
	"github.com/warp/personnel-engine/report"
	"github.com/warp/personnel-engine/store/memory"
)

// Tuesday, FY2024.
var scenarioNow = time.Date(2024, time.December, 10, 9, 0, 0, 0, time.UTC)

func scenarioService(t *testing.T) *report.Service {
	t.Helper()
	return report.NewService(memory.New(), policy.NewRegistry(), zap.NewNop(),
		report.WithClock(func() time.Time { return scenarioNow }))
}

func TestLoadScenario_Compliant(t *testing.T) {
	svc := scenarioService(t)
	ctx := context.Background()
	require.NoError(t, LoadScenario(ctx, svc, "demo-compliant"))

	c, err := svc.Compliance(ctx, "demo-compliant", svc.Today())
	require.NoError(t, err)
	assert.Equal(t, generic.StatusOK, c.OverallStatus)

	r, err := svc.GenerateMonthlyReport(ctx, "demo-compliant", 2024, time.December)
	require.NoError(t, err)
	require.Len(t, r.Staff, 3)
	assert.Empty(t, r.Staff[0].OvertimeNote)
}

func TestLoadScenario_Understaffed(t *testing.T) {
	svc := scenarioService(t)
	ctx := context.Background()
	require.NoError(t, LoadScenario(ctx, svc, "demo-understaffed"))

	c, err := svc.Compliance(ctx, "demo-understaffed", svc.Today())
	require.NoError(t, err)
	assert.NotEqual(t, generic.StatusOK, c.OverallStatus)
}

func TestLoadScenario_Overtime(t *testing.T) {
	// GIVEN: Six eleven-hour days before 2024-12-10
	svc := scenarioService(t)
	ctx := context.Background()
	require.NoError(t, LoadScenario(ctx, svc, "demo-overtime"))

	// WHEN: Checking December
	check, err := svc.MonthlyOvertime(ctx, "vc-1", 2024, time.December)

	// THEN: Three hours a day are overtime
	require.NoError(t, err)
	assert.Equal(t, 6*180, check.Overtime.MonthlyOvertimeMinutes)
}

func TestLoadScenario_Leave(t *testing.T) {
	// GIVEN: An eleven-day FY2024 grant with one day booked
	svc := scenarioService(t)
	ctx := context.Background()
	require.NoError(t, LoadScenario(ctx, svc, "demo-leave"))

	// WHEN: Checking the five-day obligation
	alerts, err := svc.FiveDayAlerts(ctx, "demo-leave", 2024)

	// THEN: Four days are still owed
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.True(t, alerts[0].Used.Equal(generic.Days(1)))
	assert.True(t, alerts[0].Shortfall.Equal(generic.Days(4)))
}

func TestLoadScenario_Unknown(t *testing.T) {
	err := LoadScenario(context.Background(), scenarioService(t), "nope")
	assert.True(t, generic.IsNotFound(err))
}

func TestLoadScenarioEndpoint(t *testing.T) {
	ts := newTestServer(t)

	assert.Len(t, decode[[]ScenarioDTO](t, ts.do(http.MethodGet, "/api/scenarios", nil)), len(Scenarios))

	rec := ts.do(http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "demo-understaffed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	staff := decode[[]StaffDTO](t, ts.do(http.MethodGet, "/api/facilities/demo-understaffed/staff", nil))
	assert.Len(t, staff, 2)

	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"}).Code)
}
