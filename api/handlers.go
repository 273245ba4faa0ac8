/*
handlers.go - HTTP API handlers for the personnel engine

PURPOSE:
  Exposes attendance, overtime, paid leave, staffing compliance and the
  monthly report workflow over REST. Handlers parse input, call the report
  service and serialize the result; no calculation happens here.

ENDPOINTS:
  Facilities:
    GET    /api/facilities                          List facilities
    POST   /api/facilities                          Create or update a facility
    GET    /api/facilities/{facilityID}             Facility settings
    GET    /api/facilities/{facilityID}/staff       Roster
    POST   /api/facilities/{facilityID}/staff       Register a member
    PUT    /api/facilities/{facilityID}/personnel/{staffID}  Staffing classification
    GET    /api/facilities/{facilityID}/agreements  Registered overtime agreements
    PUT    /api/facilities/{facilityID}/agreements  Register an agreement
    POST   /api/facilities/{facilityID}/requirements  Add a staffing requirement
    GET    /api/facilities/{facilityID}/holidays    Holidays
    POST   /api/facilities/{facilityID}/holidays    Add a holiday
    POST   /api/facilities/{facilityID}/holidays/ics  Import an iCalendar feed
    GET    /api/facilities/{facilityID}/compliance  Staffing compliance (?date=)
    GET    /api/facilities/{facilityID}/five-day-alerts  Five-day alerts (?fy=)
    POST   /api/facilities/{facilityID}/grants      Store due leave grants (?date=)
    GET    /api/facilities/{facilityID}/reports     Monthly reports
    POST   /api/facilities/{facilityID}/reports     Generate a draft report

  Staff:
    POST   /api/staff/{staffID}/punches             Record a punch
    GET    /api/staff/{staffID}/attendance          Daily summaries (?from=&to=)
    GET    /api/staff/{staffID}/overtime/{year}/{month}  Monthly overtime check
    GET    /api/staff/{staffID}/overtime/fy/{fy}    Fiscal-year overtime check
    GET    /api/staff/{staffID}/leave               Leave status (?date=)
    GET    /api/staff/{staffID}/leave/ledger        Signed leave ledger
    GET    /api/staff/{staffID}/leave/requests      Leave requests
    POST   /api/staff/{staffID}/leave/requests      Submit a leave request

  Leave requests:
    POST   /api/leave-requests/{id}/approve
    POST   /api/leave-requests/{id}/reject

  Reports:
    GET    /api/reports/{id}
    POST   /api/reports/{id}/submit
    POST   /api/reports/{id}/approve
    GET    /api/reports/{id}/export                 Excel workbook

  Policies:
    GET    /api/policies                            Registered versions
    GET    /api/policies/current                    Version in force (?date=)

ERROR HANDLING:
  Errors are returned as JSON with a status chosen by writeServiceError:
  - 400: Validation errors, invalid input
  - 404: Unknown facility, staff member, request or report
  - 409: Duplicate leave day, refused workflow transition
  - 422: Missing or invalid agreement or policy
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - report/service.go: The operations behind every handler
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/personnel-engine/attendance"
	"github.com/warp/personnel-engine/export"
	"github.com/warp/personnel-engine/generic"
	"github.com/warp/personnel-engine/paidleave"
	"github.com/warp/personnel-engine/policy"
	"github.com/warp/personnel-engine/report"
	"github.com/warp/personnel-engine/roster"
	"github.com/warp/personnel-engine/staffing"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	Service  *report.Service
	Policies *policy.Registry
	Logger   *zap.Logger
	Metrics  *Metrics
}

func NewHandler(svc *report.Service, policies *policy.Registry, logger *zap.Logger, metrics *Metrics) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Service: svc, Policies: policies, Logger: logger, Metrics: metrics}
}

func (h *Handler) store() report.Store { return h.Service.Store() }

// =============================================================================
// FACILITY HANDLERS
// =============================================================================

func (h *Handler) ListFacilities(w http.ResponseWriter, r *http.Request) {
	facilities, err := h.store().ListFacilities(r.Context())
	if err != nil {
		h.writeServiceError(w, "Failed to list facilities", err)
		return
	}
	dtos := make([]FacilityDTO, len(facilities))
	for i, f := range facilities {
		dtos[i] = toFacilityDTO(f)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) SaveFacility(w http.ResponseWriter, r *http.Request) {
	var req FacilityDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	if req.Capacity < 0 {
		writeError(w, http.StatusBadRequest, "capacity must not be negative", nil)
		return
	}
	f := report.Facility{
		ID:                     generic.FacilityID(req.ID),
		Name:                   req.Name,
		Capacity:               req.Capacity,
		StandardWeeklyHours:    req.StandardWeeklyHours,
		DailyPrescribedMinutes: req.DailyPrescribedMinutes,
	}
	if f.StandardWeeklyHours <= 0 {
		f.StandardWeeklyHours = staffing.DefaultStandardWeeklyHours
	}
	if f.DailyPrescribedMinutes <= 0 {
		f.DailyPrescribedMinutes = 480
	}
	if err := h.store().SaveFacility(r.Context(), f); err != nil {
		h.writeServiceError(w, "Failed to save facility", err)
		return
	}
	writeJSON(w, http.StatusCreated, toFacilityDTO(f))
}

func (h *Handler) GetFacility(w http.ResponseWriter, r *http.Request) {
	f, err := h.store().GetFacility(r.Context(), facilityParam(r))
	if err != nil {
		h.writeServiceError(w, "Facility not found", err)
		return
	}
	writeJSON(w, http.StatusOK, toFacilityDTO(f))
}

func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.store().ListStaff(r.Context(), facilityParam(r))
	if err != nil {
		h.writeServiceError(w, "Failed to list staff", err)
		return
	}
	dtos := make([]StaffDTO, len(staff))
	for i, m := range staff {
		dtos[i] = toStaffDTO(m)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) SaveStaff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	facilityID := facilityParam(r)
	if _, err := h.store().GetFacility(ctx, facilityID); err != nil {
		h.writeServiceError(w, "Facility not found", err)
		return
	}

	var req CreateStaffRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	m := roster.StaffMember{
		ID:             generic.StaffID(req.ID),
		FacilityID:     facilityID,
		Name:           req.Name,
		EmploymentType: roster.EmploymentType(req.EmploymentType),
		WeeklyWorkDays: req.WeeklyWorkDays,
	}
	if m.ID == "" || m.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	if !m.EmploymentType.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid employment_type", nil)
		return
	}
	if req.HireDate != "" {
		d, err := generic.ParseDate(req.HireDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid hire_date", err)
			return
		}
		m.HireDate = &d
	}
	if err := h.store().SaveStaff(ctx, m); err != nil {
		h.writeServiceError(w, "Failed to save staff member", err)
		return
	}
	writeJSON(w, http.StatusCreated, toStaffDTO(m))
}

func (h *Handler) SavePersonnelSetting(w http.ResponseWriter, r *http.Request) {
	var req PersonnelSettingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	s := staffing.PersonnelSetting{
		StaffID:               staffParam(r),
		PersonnelType:         staffing.PersonnelType(req.PersonnelType),
		WorkStyle:             staffing.WorkStyle(req.WorkStyle),
		IsManager:             req.IsManager,
		IsServiceManager:      req.IsServiceManager,
		ContractedWeeklyHours: req.ContractedWeeklyHours,
	}
	if !s.PersonnelType.Valid() || !s.WorkStyle.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid personnel_type or work_style", nil)
		return
	}
	if s.ContractedWeeklyHours != nil && *s.ContractedWeeklyHours < 0 {
		writeError(w, http.StatusBadRequest, "contracted_weekly_hours must not be negative", nil)
		return
	}
	if _, err := h.store().GetStaff(r.Context(), s.StaffID); err != nil {
		h.writeServiceError(w, "Staff member not found", err)
		return
	}
	if err := h.store().SavePersonnelSetting(r.Context(), facilityParam(r), s); err != nil {
		h.writeServiceError(w, "Failed to save personnel setting", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *Handler) ListAgreements(w http.ResponseWriter, r *http.Request) {
	agreements, err := h.store().ListAgreements(r.Context(), facilityParam(r))
	if err != nil {
		h.writeServiceError(w, "Failed to list agreements", err)
		return
	}
	doc := policy.ToDocument(&policy.Policy{Agreements: agreements})
	writeJSON(w, http.StatusOK, doc.Agreements)
}

// SaveAgreement registers the agreement for one fiscal year. It takes the
// same shape as a policy document entry.
func (h *Handler) SaveAgreement(w http.ResponseWriter, r *http.Request) {
	var req policy.AgreementDoc
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	a, err := policy.ParseAgreement(req)
	if err != nil {
		h.writeServiceError(w, "Invalid agreement", err)
		return
	}
	if err := h.store().SaveAgreement(r.Context(), facilityParam(r), a); err != nil {
		h.writeServiceError(w, "Failed to save agreement", err)
		return
	}
	h.Logger.Info("agreement registered",
		zap.String("facility_id", string(facilityParam(r))),
		zap.Int("fiscal_year", a.FiscalYear))
	writeJSON(w, http.StatusOK, req)
}

func (h *Handler) SaveRequirement(w http.ResponseWriter, r *http.Request) {
	var req policy.RequirementDoc
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	rq, err := policy.ParseRequirement(req)
	if err != nil {
		h.writeServiceError(w, "Invalid requirement", err)
		return
	}
	if err := h.store().SaveRequirement(r.Context(), facilityParam(r), rq); err != nil {
		h.writeServiceError(w, "Failed to save requirement", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.store().ListHolidays(r.Context(), facilityParam(r))
	if err != nil {
		h.writeServiceError(w, "Failed to list holidays", err)
		return
	}
	dtos := make([]HolidayDTO, len(holidays))
	for i, hd := range holidays {
		dtos[i] = toHolidayDTO(hd)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req HolidayDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	d, err := generic.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	hd := generic.Holiday{
		ID:         req.ID,
		FacilityID: facilityParam(r),
		Date:       d,
		Name:       req.Name,
		Recurring:  req.Recurring,
		Workday:    req.Workday,
	}
	if hd.ID == "" {
		hd.ID = fmt.Sprintf("%s-%s", req.Date, req.Name)
	}
	if err := h.store().SaveHoliday(r.Context(), hd); err != nil {
		h.writeServiceError(w, "Failed to save holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, toHolidayDTO(hd))
}

// ImportHolidays reads a text/calendar body and stores every event.
func (h *Handler) ImportHolidays(w http.ResponseWriter, r *http.Request) {
	facilityID := facilityParam(r)
	holidays, err := policy.ParseHolidayICS(http.MaxBytesReader(w, r.Body, 1<<20), facilityID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid iCalendar feed", err)
		return
	}
	for _, hd := range holidays {
		if err := h.store().SaveHoliday(r.Context(), hd); err != nil {
			h.writeServiceError(w, "Failed to save holiday", err)
			return
		}
	}
	h.Logger.Info("holidays imported", zap.String("facility_id", string(facilityID)), zap.Int("count", len(holidays)))
	dtos := make([]HolidayDTO, len(holidays))
	for i, hd := range holidays {
		dtos[i] = toHolidayDTO(hd)
	}
	writeJSON(w, http.StatusCreated, dtos)
}

// =============================================================================
// FACILITY CHECKS
// =============================================================================

func (h *Handler) GetCompliance(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.queryDate(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	c, err := h.Service.Compliance(r.Context(), facilityParam(r), asOf)
	if err != nil {
		h.writeServiceError(w, "Failed to evaluate compliance", err)
		return
	}
	h.Metrics.observeCompliance(c)
	writeJSON(w, http.StatusOK, toComplianceDTO(c, asOf))
}

func (h *Handler) GetFiveDayAlerts(w http.ResponseWriter, r *http.Request) {
	fy := generic.FiscalYearOf(h.Service.Today())
	if raw := r.URL.Query().Get("fy"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid fy", err)
			return
		}
		fy = n
	}
	alerts, err := h.Service.FiveDayAlerts(r.Context(), facilityParam(r), fy)
	if err != nil {
		h.writeServiceError(w, "Failed to check five-day usage", err)
		return
	}
	h.Metrics.setFiveDayAlerts(facilityParam(r), len(alerts))
	dtos := make([]FiveDayDTO, len(alerts))
	for i, a := range alerts {
		dtos[i] = toFiveDayDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GrantLeave(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.queryDate(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	n, err := h.Service.GrantDueLeave(r.Context(), facilityParam(r), asOf)
	if err != nil {
		h.writeServiceError(w, "Failed to grant leave", err)
		return
	}
	h.Metrics.addGrants(n)
	writeJSON(w, http.StatusOK, map[string]any{"granted": n, "as_of": asOf.String()})
}

// =============================================================================
// ATTENDANCE AND OVERTIME HANDLERS
// =============================================================================

func (h *Handler) RecordPunch(w http.ResponseWriter, r *http.Request) {
	var req PunchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	p, err := attendance.NewPunch(staffParam(r), req.Date, req.Kind, req.Time)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid punch", err)
		return
	}
	if err := h.Service.RecordPunch(r.Context(), p); err != nil {
		h.writeServiceError(w, "Failed to record punch", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *Handler) GetAttendance(w http.ResponseWriter, r *http.Request) {
	today := h.Service.Today()
	period := generic.MonthPeriod(today.Year(), today.Month())
	q := r.URL.Query()
	if raw := q.Get("from"); raw != "" {
		d, err := generic.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from", err)
			return
		}
		period.Start = d
	}
	if raw := q.Get("to"); raw != "" {
		d, err := generic.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to", err)
			return
		}
		period.End = d
	}

	days, err := h.Service.DailySummaries(r.Context(), staffParam(r), period)
	if err != nil {
		h.writeServiceError(w, "Failed to summarize attendance", err)
		return
	}
	dtos := make([]DailySummaryDTO, len(days))
	for i, d := range days {
		dtos[i] = toDailySummaryDTO(d)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetMonthlyOvertime(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}
	check, err := h.Service.MonthlyOvertime(r.Context(), staffParam(r), year, time.Month(month))
	if err != nil {
		h.writeServiceError(w, "Failed to check overtime", err)
		return
	}
	writeJSON(w, http.StatusOK, toOvertimeDTO(check))
}

func (h *Handler) GetFiscalYearOvertime(w http.ResponseWriter, r *http.Request) {
	fy, err := strconv.Atoi(chi.URLParam(r, "fy"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid fiscal year", err)
		return
	}
	check, err := h.Service.FiscalYearOvertime(r.Context(), staffParam(r), fy)
	if err != nil {
		h.writeServiceError(w, "Failed to check overtime", err)
		return
	}
	writeJSON(w, http.StatusOK, toFiscalYearOvertimeDTO(check))
}

// =============================================================================
// PAID LEAVE HANDLERS
// =============================================================================

func (h *Handler) GetLeaveStatus(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.queryDate(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	st, err := h.Service.LeaveStatus(r.Context(), staffParam(r), asOf)
	if err != nil {
		h.writeServiceError(w, "Failed to compute leave status", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveStatusDTO(st, asOf))
}

func (h *Handler) GetLeaveLedger(w http.ResponseWriter, r *http.Request) {
	l, err := h.Service.LeaveLedger(r.Context(), staffParam(r))
	if err != nil {
		h.writeServiceError(w, "Failed to build ledger", err)
		return
	}
	writeJSON(w, http.StatusOK, toLedgerDTO(l))
}

func (h *Handler) ListLeaveRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.store().ListRequests(r.Context(), staffParam(r))
	if err != nil {
		h.writeServiceError(w, "Failed to list leave requests", err)
		return
	}
	dtos := make([]LeaveRequestDTO, len(requests))
	for i, rq := range requests {
		dtos[i] = toLeaveRequestDTO(rq)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) SubmitLeaveRequest(w http.ResponseWriter, r *http.Request) {
	var req LeaveRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err := generic.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date", err)
		return
	}
	end := start
	if req.EndDate != "" {
		if end, err = generic.ParseDate(req.EndDate); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_date", err)
			return
		}
	}
	lr := paidleave.Request{
		StaffID:   staffParam(r),
		Type:      paidleave.RequestType(req.Type),
		StartDate: start,
		EndDate:   end,
		DaysCount: generic.Days(0),
		Reason:    req.Reason,
	}
	if req.DaysCount != nil {
		lr.DaysCount = generic.Days(*req.DaysCount)
	}

	saved, err := h.Service.SubmitLeaveRequest(r.Context(), lr)
	if err != nil {
		h.writeServiceError(w, "Failed to submit leave request", err)
		return
	}
	writeJSON(w, http.StatusCreated, toLeaveRequestDTO(saved))
}

func (h *Handler) ApproveLeaveRequest(w http.ResponseWriter, r *http.Request) {
	h.decideLeaveRequest(w, r, true)
}

func (h *Handler) RejectLeaveRequest(w http.ResponseWriter, r *http.Request) {
	h.decideLeaveRequest(w, r, false)
}

func (h *Handler) decideLeaveRequest(w http.ResponseWriter, r *http.Request, approve bool) {
	saved, err := h.Service.DecideLeaveRequest(r.Context(), chi.URLParam(r, "id"), approve)
	if err != nil {
		h.writeServiceError(w, "Failed to decide leave request", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTO(saved))
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	var req GenerateReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Year < 1 || req.Month < 1 || req.Month > 12 {
		writeError(w, http.StatusBadRequest, "year and month (1-12) are required", nil)
		return
	}
	rep, err := h.Service.GenerateMonthlyReport(r.Context(), facilityParam(r), req.Year, time.Month(req.Month))
	if err != nil {
		h.writeServiceError(w, "Failed to generate report", err)
		return
	}
	h.Metrics.reportGenerated(rep)
	writeJSON(w, http.StatusCreated, rep)
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.store().ListReports(r.Context(), facilityParam(r))
	if err != nil {
		h.writeServiceError(w, "Failed to list reports", err)
		return
	}
	dtos := make([]ReportSummaryDTO, len(reports))
	for i, rep := range reports {
		dtos[i] = ReportSummaryDTO{
			ID:            rep.ID,
			Month:         rep.Label(),
			Status:        string(rep.Status),
			OverallStatus: string(rep.OverallStatus),
			GeneratedAt:   rep.GeneratedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Service.GetReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, "Report not found", err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	h.advanceReport(w, r, h.Service.SubmitReport)
}

func (h *Handler) ApproveReport(w http.ResponseWriter, r *http.Request) {
	h.advanceReport(w, r, h.Service.ApproveReport)
}

func (h *Handler) advanceReport(w http.ResponseWriter, r *http.Request, step func(ctx context.Context, id, actor string) (*report.MonthlyReport, error)) {
	var req ActorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Actor == "" {
		writeError(w, http.StatusBadRequest, "actor is required", nil)
		return
	}
	rep, err := step(r.Context(), chi.URLParam(r, "id"), req.Actor)
	if err != nil {
		h.writeServiceError(w, "Failed to change report status", err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// ExportReport streams the report as an .xlsx workbook.
func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Service.GetReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, "Report not found", err)
		return
	}
	buf, filename, err := export.Workbook(rep)
	if err != nil {
		h.writeServiceError(w, "Failed to export report", err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// =============================================================================
// POLICY HANDLERS
// =============================================================================

func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"versions": h.Policies.Versions()})
}

func (h *Handler) GetCurrentPolicy(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.queryDate(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	writeJSON(w, http.StatusOK, policy.ToDocument(h.Policies.At(asOf)))
}

// =============================================================================
// HELPERS
// =============================================================================

func facilityParam(r *http.Request) generic.FacilityID {
	return generic.FacilityID(chi.URLParam(r, "facilityID"))
}

func staffParam(r *http.Request) generic.StaffID {
	return generic.StaffID(chi.URLParam(r, "staffID"))
}

// queryDate reads a YYYY-MM-DD query parameter, defaulting to today.
func (h *Handler) queryDate(r *http.Request, name string) (generic.TimePoint, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return h.Service.Today(), nil
	}
	return generic.ParseDate(raw)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeServiceError picks the status from the error's sentinel.
func (h *Handler) writeServiceError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case generic.IsNotFound(err):
		status = http.StatusNotFound
	case generic.IsConflict(err):
		status = http.StatusConflict
	case generic.IsPolicyError(err):
		status = http.StatusUnprocessableEntity
	case generic.IsClientError(err):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.Logger.Error(message, zap.Error(err))
	}
	writeError(w, status, message, err)
}
