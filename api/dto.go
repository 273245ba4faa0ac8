/*
dto.go - JSON request and response shapes

PURPOSE:
  Keeps the wire contract apart from the engine types. Dates travel as
  "YYYY-MM-DD", clock times as "HH:MM", day amounts as decimal strings.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers and the report service, not in DTOs.

SEE ALSO:
  - handlers.go: Uses these types
  - report/report.go: MonthlyReport is served as is
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/personnel-engine/attendance"
	"github.com/warp/personnel-engine/generic"
	"github.com/warp/personnel-engine/overtime"
	"github.com/warp/personnel-engine/paidleave"
	"github.com/warp/personnel-engine/report"
	"github.com/warp/personnel-engine/roster"
	"github.com/warp/personnel-engine/staffing"
)

// =============================================================================
// FACILITY AND ROSTER
// =============================================================================

type FacilityDTO struct {
	ID                     string  `json:"id"`
	Name                   string  `json:"name"`
	Capacity               int     `json:"capacity"`
	StandardWeeklyHours    float64 `json:"standard_weekly_hours"`
	DailyPrescribedMinutes int     `json:"daily_prescribed_minutes"`
}

func toFacilityDTO(f report.Facility) FacilityDTO {
	return FacilityDTO{
		ID:                     string(f.ID),
		Name:                   f.Name,
		Capacity:               f.Capacity,
		StandardWeeklyHours:    f.StandardWeeklyHours,
		DailyPrescribedMinutes: f.DailyPrescribedMinutes,
	}
}

type StaffDTO struct {
	ID             string `json:"id"`
	FacilityID     string `json:"facility_id"`
	Name           string `json:"name"`
	HireDate       string `json:"hire_date,omitempty"`
	EmploymentType string `json:"employment_type"`
	WeeklyWorkDays int    `json:"weekly_work_days,omitempty"`
}

func toStaffDTO(m roster.StaffMember) StaffDTO {
	dto := StaffDTO{
		ID:             string(m.ID),
		FacilityID:     string(m.FacilityID),
		Name:           m.Name,
		EmploymentType: string(m.EmploymentType),
		WeeklyWorkDays: m.WeeklyWorkDays,
	}
	if m.HasHireDate() {
		dto.HireDate = m.HireDate.String()
	}
	return dto
}

// CreateStaffRequest registers or updates a member of the URL's facility.
type CreateStaffRequest struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	HireDate       string `json:"hire_date"`
	EmploymentType string `json:"employment_type"`
	WeeklyWorkDays int    `json:"weekly_work_days"`
}

type PersonnelSettingRequest struct {
	PersonnelType         string   `json:"personnel_type"`
	WorkStyle             string   `json:"work_style"`
	IsManager             bool     `json:"is_manager"`
	IsServiceManager      bool     `json:"is_service_manager"`
	ContractedWeeklyHours *float64 `json:"contracted_weekly_hours,omitempty"`
}

type HolidayDTO struct {
	ID         string `json:"id"`
	FacilityID string `json:"facility_id,omitempty"`
	Date       string `json:"date"`
	Name       string `json:"name"`
	Recurring  bool   `json:"recurring"`
	Workday    bool   `json:"workday,omitempty"`
}

func toHolidayDTO(h generic.Holiday) HolidayDTO {
	return HolidayDTO{ID: h.ID, FacilityID: string(h.FacilityID), Date: h.Date.String(), Name: h.Name, Recurring: h.Recurring, Workday: h.Workday}
}

// =============================================================================
// ATTENDANCE AND OVERTIME
// =============================================================================

type PunchRequest struct {
	Date string `json:"date"`
	Kind string `json:"kind"`
	Time string `json:"time"`
}

type DailySummaryDTO struct {
	Date          string  `json:"date"`
	Status        string  `json:"status"`
	Start         *string `json:"start,omitempty"`
	End           *string `json:"end,omitempty"`
	BreakStart    *string `json:"break_start,omitempty"`
	BreakEnd      *string `json:"break_end,omitempty"`
	WorkedMinutes int     `json:"worked_minutes"`
	BreakMinutes  int     `json:"break_minutes"`
}

func clockPtr(c *generic.Clock) *string {
	if c == nil {
		return nil
	}
	s := c.String()
	return &s
}

func toDailySummaryDTO(s attendance.DailySummary) DailySummaryDTO {
	return DailySummaryDTO{
		Date:          s.Date.String(),
		Status:        string(s.Status),
		Start:         clockPtr(s.Start),
		End:           clockPtr(s.End),
		BreakStart:    clockPtr(s.BreakStart),
		BreakEnd:      clockPtr(s.BreakEnd),
		WorkedMinutes: s.WorkedMinutes,
		BreakMinutes:  s.BreakMinutes(),
	}
}

type OvertimeDTO struct {
	StaffID             string `json:"staff_id"`
	Month               string `json:"month"`
	FiscalYear          int    `json:"fiscal_year"`
	MonthlyMinutes      int    `json:"monthly_minutes"`
	FiscalYearToDate    int    `json:"fiscal_year_to_date_minutes"`
	CompletedDays       int    `json:"completed_days"`
	MonthlyLimitMinutes int    `json:"monthly_limit_minutes"`
	AnnualLimitMinutes  int    `json:"annual_limit_minutes"`
	MonthlyRemaining    int    `json:"monthly_remaining_minutes"`
	AnnualRemaining     int    `json:"annual_remaining_minutes"`
	MonthlyStatus       string `json:"monthly_status"`
	AnnualStatus        string `json:"annual_status"`
	Status              string `json:"status"`
}

func toOvertimeDTO(c overtime.AgreementCheck) OvertimeDTO {
	return OvertimeDTO{
		StaffID:             string(c.Overtime.StaffID),
		Month:               c.Overtime.Label(),
		FiscalYear:          c.Overtime.FiscalYear,
		MonthlyMinutes:      c.Overtime.MonthlyOvertimeMinutes,
		FiscalYearToDate:    c.Overtime.FiscalYearToDateOvertimeMinutes,
		CompletedDays:       c.Overtime.CompletedDays,
		MonthlyLimitMinutes: c.Agreement.MonthlyLimitMinutes,
		AnnualLimitMinutes:  c.Agreement.AnnualLimitMinutes,
		MonthlyRemaining:    c.MonthlyRemaining,
		AnnualRemaining:     c.AnnualRemaining,
		MonthlyStatus:       string(c.MonthlyStatus),
		AnnualStatus:        string(c.AnnualStatus),
		Status:              string(c.Status),
	}
}

type MonthMinutesDTO struct {
	Month   string `json:"month"`
	Minutes int    `json:"minutes"`
}

type FiscalYearOvertimeDTO struct {
	StaffID         string            `json:"staff_id"`
	FiscalYear      int               `json:"fiscal_year"`
	TotalMinutes    int               `json:"total_minutes"`
	Months          []MonthMinutesDTO `json:"months"`
	MonthsOverLimit int               `json:"months_over_limit"`
	PeakMonth       string            `json:"peak_month,omitempty"`
	AnnualStatus    string            `json:"annual_status"`
	SpecialStatus   string            `json:"special_status"`
	Status          string            `json:"status"`
}

func toFiscalYearOvertimeDTO(c overtime.FiscalYearCheck) FiscalYearOvertimeDTO {
	dto := FiscalYearOvertimeDTO{
		StaffID:         string(c.Overtime.StaffID),
		FiscalYear:      c.Overtime.FiscalYear,
		TotalMinutes:    c.Overtime.TotalMinutes,
		Months:          make([]MonthMinutesDTO, len(c.Overtime.Months)),
		MonthsOverLimit: c.MonthsOverLimit,
		AnnualStatus:    string(c.AnnualStatus),
		SpecialStatus:   string(c.SpecialStatus),
		Status:          string(c.Status),
	}
	for i, m := range c.Overtime.Months {
		dto.Months[i] = MonthMinutesDTO{Month: m.Label(), Minutes: m.MonthlyOvertimeMinutes}
	}
	if c.PeakMonth.MonthlyOvertimeMinutes > 0 {
		dto.PeakMonth = c.PeakMonth.Label()
	}
	return dto
}

// =============================================================================
// PAID LEAVE
// =============================================================================

type FiveDayDTO struct {
	StaffID    string          `json:"staff_id"`
	FiscalYear int             `json:"fiscal_year"`
	Granted    decimal.Decimal `json:"granted_days"`
	Used       decimal.Decimal `json:"used_days"`
	NeedsAlert bool            `json:"needs_alert"`
	Shortfall  decimal.Decimal `json:"shortfall_days"`
}

func toFiveDayDTO(s paidleave.FiveDayStatus) FiveDayDTO {
	return FiveDayDTO{
		StaffID:    string(s.StaffID),
		FiscalYear: s.FiscalYear,
		Granted:    s.Granted.Value,
		Used:       s.Used.Value,
		NeedsAlert: s.NeedsAlert,
		Shortfall:  s.Shortfall.Value,
	}
}

type LeaveStatusDTO struct {
	StaffID         string          `json:"staff_id"`
	AsOf            string          `json:"as_of"`
	EntitlementDays decimal.Decimal `json:"entitlement_days"`
	LatestGrant     string          `json:"latest_grant,omitempty"`
	Expiry          string          `json:"expiry,omitempty"`
	NextGrant       string          `json:"next_grant,omitempty"`
	RemainingDays   decimal.Decimal `json:"remaining_days"`
	LedgerBalance   decimal.Decimal `json:"ledger_balance"`
	DisplayBalance  decimal.Decimal `json:"display_balance"`
	FiveDay         FiveDayDTO      `json:"five_day"`
}

func dateString(d *generic.TimePoint) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func toLeaveStatusDTO(s report.LeaveStatus, asOf generic.TimePoint) LeaveStatusDTO {
	return LeaveStatusDTO{
		StaffID:         string(s.Staff.ID),
		AsOf:            asOf.String(),
		EntitlementDays: s.Entitlement.Value,
		LatestGrant:     dateString(s.LatestGrant),
		Expiry:          dateString(s.Expiry),
		NextGrant:       dateString(s.NextGrant),
		RemainingDays:   s.Remaining.Value,
		LedgerBalance:   s.LedgerBalance.Value,
		DisplayBalance:  s.LedgerBalance.ClampZero().Value,
		FiveDay:         toFiveDayDTO(s.FiveDay),
	}
}

type LedgerEntryDTO struct {
	Date           string          `json:"date"`
	Type           string          `json:"type"`
	Days           decimal.Decimal `json:"days"`
	RunningBalance decimal.Decimal `json:"running_balance"`
	DisplayBalance decimal.Decimal `json:"display_balance"`
	Description    string          `json:"description"`
	Ref            string          `json:"ref,omitempty"`
}

type LedgerDTO struct {
	StaffID        string           `json:"staff_id"`
	Balance        decimal.Decimal  `json:"balance"`
	DisplayBalance decimal.Decimal  `json:"display_balance"`
	Granted        decimal.Decimal  `json:"granted"`
	Used           decimal.Decimal  `json:"used"`
	WentNegative   bool             `json:"went_negative"`
	Entries        []LedgerEntryDTO `json:"entries"`
}

func toLedgerDTO(l paidleave.Ledger) LedgerDTO {
	granted, used := l.Totals()
	dto := LedgerDTO{
		StaffID:        string(l.StaffID),
		Balance:        l.Balance().Value,
		DisplayBalance: l.DisplayBalance().Value,
		Granted:        granted.Value,
		Used:           used.Value,
		WentNegative:   l.WentNegative(),
		Entries:        make([]LedgerEntryDTO, len(l.Entries)),
	}
	for i, e := range l.Entries {
		dto.Entries[i] = LedgerEntryDTO{
			Date:           e.Date.String(),
			Type:           string(e.Type),
			Days:           e.Days.Value,
			RunningBalance: e.RunningBalance.Value,
			DisplayBalance: e.DisplayBalance().Value,
			Description:    e.Description,
			Ref:            e.Ref,
		}
	}
	return dto
}

// LeaveRequestRequest submits a leave request. DaysCount may be omitted; full
// days then count the working days covered and half days count 0.5.
type LeaveRequestRequest struct {
	Type      string   `json:"type"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	DaysCount *float64 `json:"days_count,omitempty"`
	Reason    string   `json:"reason,omitempty"`
}

type LeaveRequestDTO struct {
	ID        string          `json:"id"`
	StaffID   string          `json:"staff_id"`
	Type      string          `json:"type"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Days      decimal.Decimal `json:"days"`
	Status    string          `json:"status"`
	Reason    string          `json:"reason,omitempty"`
}

func toLeaveRequestDTO(r paidleave.Request) LeaveRequestDTO {
	return LeaveRequestDTO{
		ID:        r.ID,
		StaffID:   string(r.StaffID),
		Type:      string(r.Type),
		StartDate: r.StartDate.String(),
		EndDate:   r.EndDate.String(),
		Days:      r.ConsumedDays().Value,
		Status:    string(r.Status),
		Reason:    r.Reason,
	}
}

// =============================================================================
// STAFFING
// =============================================================================

type ComplianceRecordDTO struct {
	RequirementID string          `json:"requirement_id"`
	Name          string          `json:"name"`
	Kind          string          `json:"kind"`
	Unit          string          `json:"unit"`
	Current       decimal.Decimal `json:"current"`
	Required      decimal.Decimal `json:"required"`
	Shortfall     decimal.Decimal `json:"shortfall"`
	Status        string          `json:"status"`
}

type ComplianceDTO struct {
	FacilityID      string                `json:"facility_id"`
	AsOf            string                `json:"as_of"`
	Headcount       int                   `json:"headcount"`
	TotalFTE        decimal.Decimal       `json:"total_fte"`
	Managers        int                   `json:"managers"`
	ServiceManagers int                   `json:"service_managers"`
	Records         []ComplianceRecordDTO `json:"records"`
	OverallStatus   string                `json:"overall_status"`
}

func toComplianceDTO(c staffing.ComplianceReport, asOf generic.TimePoint) ComplianceDTO {
	dto := ComplianceDTO{
		FacilityID:      string(c.FacilityID),
		AsOf:            asOf.String(),
		Headcount:       c.Headcount.Total.Count,
		TotalFTE:        c.Headcount.Total.FTE,
		Managers:        c.Headcount.Managers,
		ServiceManagers: c.Headcount.ServiceManagers,
		Records:         make([]ComplianceRecordDTO, len(c.Records)),
		OverallStatus:   string(c.OverallStatus),
	}
	for i, r := range c.Records {
		dto.Records[i] = ComplianceRecordDTO{
			RequirementID: r.Requirement.ID,
			Name:          r.Requirement.Name,
			Kind:          string(r.Requirement.Kind),
			Unit:          string(r.Requirement.Unit),
			Current:       r.Current,
			Required:      r.Required,
			Shortfall:     r.Shortfall(),
			Status:        string(r.Status),
		}
	}
	return dto
}

// =============================================================================
// REPORTS
// =============================================================================

type GenerateReportRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type ActorRequest struct {
	Actor string `json:"actor"`
}

// ReportSummaryDTO lists a report without its rows.
type ReportSummaryDTO struct {
	ID            string `json:"id"`
	Month         string `json:"month"`
	Status        string `json:"status"`
	OverallStatus string `json:"overall_status"`
	GeneratedAt   string `json:"generated_at"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
