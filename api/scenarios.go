/*
scenarios.go - Demo facility loaders

PURPOSE:

	Provides pre-built facilities that populate the store with realistic
	data for demos and manual testing. Every scenario writes under its own
	facility ID, so loading one never touches another facility.

AVAILABLE SCENARIOS:

	demo-compliant:     Fully staffed facility with a registered agreement
	demo-understaffed:  Capacity-based FTE shortfall and no manager
	demo-overtime:      Long days pushing monthly overtime toward the limit
	demo-leave:         Granted leave with a five-day shortfall

HOW SCENARIOS WORK:
 1. Save the facility, staff and personnel settings
 2. Register requirements and, where relevant, the statutory agreement
 3. Record punches for the working days of the current month
 4. Optionally grant leave and book a request

All dates are relative to the service clock.

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "demo-overtime"}

USAGE VIA CLI:

	personnel-engine seed demo-overtime

SEE ALSO:
  - handlers.go: the endpoints that read the seeded data
  - cmd/server/main.go: seed command
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/personnel-engine/attendance"
	"github.com/warp/personnel-engine/generic"
	"github.com/warp/personnel-engine/overtime"
	"github.com/warp/personnel-engine/paidleave"
	"github.com/warp/personnel-engine/report"
	"github.com/warp/personnel-engine/roster"
	"github.com/warp/personnel-engine/staffing"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

var Scenarios = []ScenarioDTO{
	{ID: "demo-compliant", Name: "Compliant Facility", Description: "Manager, full-time and part-time staff meeting every requirement"},
	{ID: "demo-understaffed", Name: "Understaffed Facility", Description: "Capacity-based FTE shortfall and no manager on the roster"},
	{ID: "demo-overtime", Name: "Overtime Pressure", Description: "Eleven-hour days for every working day of the month"},
	{ID: "demo-leave", Name: "Five-Day Risk", Description: "Ten or more days granted, one taken"},
}

var loaders = map[string]func(ctx context.Context, svc *report.Service) error{
	"demo-compliant":    loadCompliant,
	"demo-understaffed": loadUnderstaffed,
	"demo-overtime":     loadOvertime,
	"demo-leave":        loadLeave,
}

// LoadScenario writes the named scenario through svc.
func LoadScenario(ctx context.Context, svc *report.Service, id string) error {
	load, ok := loaders[id]
	if !ok {
		return fmt.Errorf("scenario %q: %w", id, generic.ErrNotFound)
	}
	return load(ctx, svc)
}

func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Scenarios)
}

func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := LoadScenario(r.Context(), h.Service, req.ScenarioID); err != nil {
		h.writeServiceError(w, "Failed to load scenario", err)
		return
	}
	h.Logger.Info("scenario loaded", zap.String("scenario_id", req.ScenarioID))
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "facility_id": req.ScenarioID})
}

// =============================================================================
// LOADERS
// =============================================================================

type seedMember struct {
	id, name   string
	employment roster.EmploymentType
	workDays   int
	yearsAgo   int
	setting    staffing.PersonnelSetting
}

func seedFacility(ctx context.Context, svc *report.Service, f report.Facility, members []seedMember, reqs []staffing.Requirement) error {
	st := svc.Store()
	today := svc.Today()

	if err := st.SaveFacility(ctx, f); err != nil {
		return err
	}
	for _, m := range members {
		hired := today.AddYears(-m.yearsAgo).AddDays(-30)
		if err := st.SaveStaff(ctx, roster.StaffMember{
			ID:             generic.StaffID(m.id),
			FacilityID:     f.ID,
			Name:           m.name,
			HireDate:       &hired,
			EmploymentType: m.employment,
			WeeklyWorkDays: m.workDays,
		}); err != nil {
			return err
		}
		s := m.setting
		s.StaffID = generic.StaffID(m.id)
		if err := st.SavePersonnelSetting(ctx, f.ID, s); err != nil {
			return err
		}
	}
	for _, rq := range reqs {
		if err := st.SaveRequirement(ctx, f.ID, rq); err != nil {
			return err
		}
	}
	return nil
}

// workedDays records start, break and end punches for every weekday of the
// current month before today.
func workedDays(ctx context.Context, svc *report.Service, staffID generic.StaffID, start, end string) error {
	today := svc.Today()
	month := generic.MonthPeriod(today.Year(), today.Month())
	for _, d := range month.Days() {
		if !d.Before(today) || d.IsWeekend() {
			continue
		}
		for _, p := range [][2]string{{"start", start}, {"break_start", "12:00"}, {"break_end", "13:00"}, {"end", end}} {
			punch, err := attendance.NewPunch(staffID, d.String(), p[0], p[1])
			if err != nil {
				return err
			}
			if err := svc.RecordPunch(ctx, punch); err != nil {
				return err
			}
		}
	}
	return nil
}

func registerAgreement(ctx context.Context, svc *report.Service, facilityID generic.FacilityID) error {
	fy := generic.FiscalYearOf(svc.Today())
	return svc.Store().SaveAgreement(ctx, facilityID, overtime.StatutoryAgreement(fy))
}

func hours(h float64) *float64 { return &h }

func loadCompliant(ctx context.Context, svc *report.Service) error {
	f := report.Facility{ID: "demo-compliant", Name: "Sakura Day Care", Capacity: 10, StandardWeeklyHours: 40, DailyPrescribedMinutes: 480}
	members := []seedMember{
		{id: "dc-1", name: "Haruka Sato", employment: roster.EmploymentFullTime, yearsAgo: 3,
			setting: staffing.PersonnelSetting{PersonnelType: staffing.PersonnelStandard, WorkStyle: staffing.WorkFullTimeDedicated, IsManager: true}},
		{id: "dc-2", name: "Kenji Ito", employment: roster.EmploymentFullTime, yearsAgo: 1,
			setting: staffing.PersonnelSetting{PersonnelType: staffing.PersonnelStandard, WorkStyle: staffing.WorkFullTimeDedicated, IsServiceManager: true}},
		{id: "dc-3", name: "Mei Tanaka", employment: roster.EmploymentPartTime, workDays: 3, yearsAgo: 2,
			setting: staffing.PersonnelSetting{PersonnelType: staffing.PersonnelStandard, WorkStyle: staffing.WorkPartTime, ContractedWeeklyHours: hours(20)}},
	}
	reqs := []staffing.Requirement{
		{ID: "fte", Name: "Care staff FTE", Kind: staffing.KindFTE, RequiredCount: decimal.NewFromFloat(2.5), Unit: generic.UnitFTE},
		{ID: "manager", Name: "Manager", Kind: staffing.KindManager, RequiredCount: decimal.NewFromInt(1), Unit: generic.UnitPersons},
		{ID: "service-manager", Name: "Service manager", Kind: staffing.KindServiceManager, RequiredCount: decimal.NewFromInt(1), Unit: generic.UnitPersons},
	}
	if err := seedFacility(ctx, svc, f, members, reqs); err != nil {
		return err
	}
	if err := registerAgreement(ctx, svc, f.ID); err != nil {
		return err
	}
	for _, m := range members[:2] {
		if err := workedDays(ctx, svc, generic.StaffID(m.id), "09:00", "18:00"); err != nil {
			return err
		}
	}
	_, err := svc.GrantDueLeave(ctx, f.ID, svc.Today())
	return err
}

func loadUnderstaffed(ctx context.Context, svc *report.Service) error {
	f := report.Facility{ID: "demo-understaffed", Name: "Hinode Group Home", Capacity: 20, StandardWeeklyHours: 40, DailyPrescribedMinutes: 480}
	members := []seedMember{
		{id: "gh-1", name: "Daichi Mori", employment: roster.EmploymentFullTime, yearsAgo: 4,
			setting: staffing.PersonnelSetting{PersonnelType: staffing.PersonnelStandard, WorkStyle: staffing.WorkFullTimeConcurrent}},
		{id: "gh-2", name: "Yui Kato", employment: roster.EmploymentPartTime, workDays: 2, yearsAgo: 1,
			setting: staffing.PersonnelSetting{PersonnelType: staffing.PersonnelStandard, WorkStyle: staffing.WorkPartTime, ContractedWeeklyHours: hours(16)}},
	}
	reqs := []staffing.Requirement{
		{ID: "fte", Name: "Care staff FTE", Kind: staffing.KindFTE, RequiredCount: decimal.NewFromFloat(2.5), Unit: generic.UnitFTE, CapacityBased: true},
		{ID: "manager", Name: "Manager", Kind: staffing.KindManager, RequiredCount: decimal.NewFromInt(1), Unit: generic.UnitPersons},
	}
	if err := seedFacility(ctx, svc, f, members, reqs); err != nil {
		return err
	}
	return registerAgreement(ctx, svc, f.ID)
}

func loadOvertime(ctx context.Context, svc *report.Service) error {
	f := report.Facility{ID: "demo-overtime", Name: "Minato Visiting Care", Capacity: 10, StandardWeeklyHours: 40, DailyPrescribedMinutes: 480}
	members := []seedMember{
		{id: "vc-1", name: "Sota Yamada", employment: roster.EmploymentFullTime, yearsAgo: 5,
			setting: staffing.PersonnelSetting{PersonnelType: staffing.PersonnelStandard, WorkStyle: staffing.WorkFullTimeDedicated, IsManager: true}},
	}
	if err := seedFacility(ctx, svc, f, members, nil); err != nil {
		return err
	}
	if err := registerAgreement(ctx, svc, f.ID); err != nil {
		return err
	}
	return workedDays(ctx, svc, "vc-1", "08:00", "20:00")
}

func loadLeave(ctx context.Context, svc *report.Service) error {
	f := report.Facility{ID: "demo-leave", Name: "Aoba Nursing Home", Capacity: 10, StandardWeeklyHours: 40, DailyPrescribedMinutes: 480}
	members := []seedMember{
		{id: "nh-1", name: "Rin Suzuki", employment: roster.EmploymentFullTime, yearsAgo: 2,
			setting: staffing.PersonnelSetting{PersonnelType: staffing.PersonnelStandard, WorkStyle: staffing.WorkFullTimeDedicated}},
	}
	if err := seedFacility(ctx, svc, f, members, nil); err != nil {
		return err
	}
	if err := registerAgreement(ctx, svc, f.ID); err != nil {
		return err
	}
	if _, err := svc.GrantDueLeave(ctx, f.ID, svc.Today()); err != nil {
		return err
	}

	day := svc.Today().AddDays(1)
	for day.IsWeekend() {
		day = day.AddDays(1)
	}
	req, err := svc.SubmitLeaveRequest(ctx, paidleave.Request{
		StaffID:   "nh-1",
		Type:      paidleave.RequestPaidLeave,
		StartDate: day,
		EndDate:   day,
		DaysCount: generic.Days(1),
		Reason:    "family event",
	})
	if err != nil {
		return err
	}
	_, err = svc.DecideLeaveRequest(ctx, req.ID, true)
	return err
}
