// Package report assembles engine results into monthly facility reports and
// runs their draft -> submitted -> approved workflow. It is the layer that
// talks to storage and logs; the engine packages below it do neither.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/personnel-engine/generic"
)

// =============================================================================
// WORKFLOW
// =============================================================================

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
)

// next lists the only allowed move out of each status.
var next = map[Status]Status{
	StatusDraft:     StatusSubmitted,
	StatusSubmitted: StatusApproved,
}

// =============================================================================
// MONTHLY REPORT - Frozen at draft time
// =============================================================================

// MonthlyReport is the stored result of one facility month. The figures are
// computed once when the draft is generated and never recomputed; the
// workflow only changes the status fields.
type MonthlyReport struct {
	ID            string             `json:"id"`
	FacilityID    generic.FacilityID `json:"facility_id"`
	FacilityName  string             `json:"facility_name"`
	Year          int                `json:"year"`
	Month         time.Month         `json:"month"`
	FiscalYear    int                `json:"fiscal_year"`
	PolicyVersion string             `json:"policy_version"`
	Status        Status             `json:"status"`
	GeneratedAt   time.Time          `json:"generated_at"`
	SubmittedAt   *time.Time         `json:"submitted_at,omitempty"`
	SubmittedBy   string             `json:"submitted_by,omitempty"`
	ApprovedAt    *time.Time         `json:"approved_at,omitempty"`
	ApprovedBy    string             `json:"approved_by,omitempty"`

	Staff         []StaffLine       `json:"staff"`
	Compliance    ComplianceSection `json:"compliance"`
	OverallStatus generic.Status    `json:"overall_status"`
}

// StaffLine is one staff member's row of the report.
type StaffLine struct {
	StaffID        generic.StaffID `json:"staff_id"`
	Name           string          `json:"name"`
	EmploymentType string          `json:"employment_type"`

	WorkedMinutes int      `json:"worked_minutes"`
	CompletedDays int      `json:"completed_days"`
	AbsenceDates  []string `json:"absence_dates,omitempty"`

	OvertimeMinutes         int            `json:"overtime_minutes"`
	FiscalYearToDateMinutes int            `json:"fiscal_year_to_date_minutes"`
	MonthlyStatus           generic.Status `json:"monthly_status,omitempty"`
	AnnualStatus            generic.Status `json:"annual_status,omitempty"`
	OvertimeNote            string         `json:"overtime_note,omitempty"`

	EntitlementDays  decimal.Decimal `json:"entitlement_days"`
	RemainingDays    decimal.Decimal `json:"remaining_days"`
	LedgerBalance    decimal.Decimal `json:"ledger_balance"`
	NextGrantDate    string          `json:"next_grant_date,omitempty"`
	FiveDayAlert     bool            `json:"five_day_alert"`
	FiveDayShortfall decimal.Decimal `json:"five_day_shortfall"`
}

// Status returns the worst overtime status of the line. A missing agreement
// makes the line critical.
func (l StaffLine) Status() generic.Status {
	if l.OvertimeNote != "" {
		return generic.StatusCritical
	}
	return generic.Worst(l.MonthlyStatus, l.AnnualStatus)
}

// ComplianceSection is the staffing part of the report.
type ComplianceSection struct {
	Headcount     int              `json:"headcount"`
	TotalFTE      decimal.Decimal  `json:"total_fte"`
	Lines         []ComplianceLine `json:"lines"`
	OverallStatus generic.Status   `json:"overall_status"`
}

type ComplianceLine struct {
	RequirementID string          `json:"requirement_id"`
	Name          string          `json:"name"`
	Kind          string          `json:"kind"`
	Unit          string          `json:"unit"`
	Current       decimal.Decimal `json:"current"`
	Required      decimal.Decimal `json:"required"`
	Status        generic.Status  `json:"status"`
}

// Label returns the report month as YYYY-MM.
func (r *MonthlyReport) Label() string {
	return generic.StartOfMonth(r.Year, r.Month).Time.Format("2006-01")
}

// Submit moves a draft to submitted.
func (r *MonthlyReport) Submit(actor string, at time.Time) error {
	if err := r.transition(StatusSubmitted); err != nil {
		return err
	}
	r.SubmittedAt, r.SubmittedBy = &at, actor
	return nil
}

// Approve moves a submitted report to approved.
func (r *MonthlyReport) Approve(actor string, at time.Time) error {
	if err := r.transition(StatusApproved); err != nil {
		return err
	}
	r.ApprovedAt, r.ApprovedBy = &at, actor
	return nil
}

func (r *MonthlyReport) transition(to Status) error {
	if next[r.Status] != to {
		return &generic.TransitionError{From: string(r.Status), To: string(to)}
	}
	r.Status = to
	return nil
}
