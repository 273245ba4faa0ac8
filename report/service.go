package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/personnel-engine/attendance"
	"github.com/warp/personnel-engine/generic"
	"github.com/warp/personnel-engine/overtime"
	"github.com/warp/personnel-engine/paidleave"
	"github.com/warp/personnel-engine/policy"
	"github.com/warp/personnel-engine/roster"
	"github.com/warp/personnel-engine/staffing"
)

// DefaultWorkers bounds the per-staff fan-out.
const DefaultWorkers = 8

// Service loads inputs from the store, runs the engine and stores results.
type Service struct {
	store    Store
	policies *policy.Registry
	logger   *zap.Logger
	workers  int
	now      func() time.Time
}

type Option func(*Service)

// WithWorkers sets how many staff members are evaluated concurrently.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, policies *policy.Registry, logger *zap.Logger, opts ...Option) *Service {
	if policies == nil {
		policies = policy.NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{store: store, policies: policies, logger: logger, workers: DefaultWorkers, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the service's current calendar date.
func (s *Service) Today() generic.TimePoint { return generic.DateOf(s.now()) }

// Store exposes the underlying store to handlers that only read raw rows.
func (s *Service) Store() Store { return s.store }

// =============================================================================
// INPUT ASSEMBLY
// =============================================================================

func (s *Service) calendar(ctx context.Context, facilityID generic.FacilityID, asOf generic.TimePoint) (generic.HolidayCalendar, error) {
	stored, err := s.store.ListHolidays(ctx, facilityID)
	if err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	all := append(append([]generic.Holiday(nil), s.policies.At(asOf).Holidays...), stored...)
	return &generic.StaticCalendar{Holidays: all}, nil
}

// agreementBook merges policy agreements with the facility's registered
// ones; a registered agreement replaces the policy one for its year. The
// policy version is the one in force on the first day of fiscal year fy, so
// every check of that year sees the same agreement.
func (s *Service) agreementBook(ctx context.Context, facilityID generic.FacilityID, fy int) (*overtime.AgreementBook, error) {
	stored, err := s.store.ListAgreements(ctx, facilityID)
	if err != nil {
		return nil, fmt.Errorf("list agreements: %w", err)
	}
	anchor := generic.FiscalYearPeriod(fy).Start
	all := append(append([]overtime.Agreement(nil), s.policies.At(anchor).Agreements...), stored...)
	return overtime.NewAgreementBook(all...)
}

func (s *Service) requirements(ctx context.Context, facilityID generic.FacilityID, asOf generic.TimePoint) ([]staffing.Requirement, error) {
	stored, err := s.store.ListRequirements(ctx, facilityID)
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	if len(stored) > 0 {
		return stored, nil
	}
	return s.policies.At(asOf).Requirements, nil
}

func (s *Service) accountant(asOf generic.TimePoint) (*paidleave.Accountant, error) {
	return paidleave.NewAccountant(s.policies.At(asOf).Entitlement)
}

func (s *Service) staffAndFacility(ctx context.Context, staffID generic.StaffID) (roster.StaffMember, Facility, error) {
	m, err := s.store.GetStaff(ctx, staffID)
	if err != nil {
		return roster.StaffMember{}, Facility{}, err
	}
	f, err := s.store.GetFacility(ctx, m.FacilityID)
	if err != nil {
		return roster.StaffMember{}, Facility{}, err
	}
	return m, f, nil
}

// forEachStaff runs fn for every member with bounded concurrency. Members
// are independent; results go into caller-owned slots by index.
func (s *Service) forEachStaff(ctx context.Context, staff []roster.StaffMember, fn func(ctx context.Context, i int, m roster.StaffMember) error) error {
	sem := make(chan struct{}, s.workers)
	errs := make([]error, len(staff))
	var wg sync.WaitGroup
	for i, m := range staff {
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			}
			defer func() { <-sem }()
			if err := fn(ctx, i, m); err != nil {
				errs[i] = fmt.Errorf("staff %s: %w", m.ID, err)
			}
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

// =============================================================================
// ATTENDANCE AND OVERTIME
// =============================================================================

// DailySummaries returns one summary per day of period.
func (s *Service) DailySummaries(ctx context.Context, staffID generic.StaffID, period generic.Period) ([]attendance.DailySummary, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	punches, err := s.store.ListPunches(ctx, staffID, period)
	if err != nil {
		return nil, fmt.Errorf("list punches: %w", err)
	}
	return attendance.SummarizeRange(punches, staffID, period), nil
}

// RecordPunch stores one punch after the staff member is confirmed.
func (s *Service) RecordPunch(ctx context.Context, p attendance.Punch) error {
	if _, err := s.store.GetStaff(ctx, p.StaffID); err != nil {
		return err
	}
	return s.store.AddPunch(ctx, p)
}

func (s *Service) summariesFor(ctx context.Context, staffID generic.StaffID, period generic.Period) ([]attendance.DailySummary, error) {
	punches, err := s.store.ListPunches(ctx, staffID, period)
	if err != nil {
		return nil, fmt.Errorf("list punches: %w", err)
	}
	return attendance.SummarizeAll(punches), nil
}

// MonthlyOvertime evaluates one month and checks it against the agreement.
// A missing agreement is returned as an error.
func (s *Service) MonthlyOvertime(ctx context.Context, staffID generic.StaffID, year int, month time.Month) (overtime.AgreementCheck, error) {
	_, f, err := s.staffAndFacility(ctx, staffID)
	if err != nil {
		return overtime.AgreementCheck{}, err
	}
	summaries, err := s.summariesFor(ctx, staffID, generic.FiscalYearToDate(year, month))
	if err != nil {
		return overtime.AgreementCheck{}, err
	}
	m := overtime.NewEvaluator(f.DailyPrescribedMinutes).EvaluateMonth(staffID, year, month, summaries)

	book, err := s.agreementBook(ctx, f.ID, m.FiscalYear)
	if err != nil {
		return overtime.AgreementCheck{}, err
	}
	return overtime.Check(m, book)
}

// FiscalYearOvertime evaluates a full fiscal year including the special
// clause.
func (s *Service) FiscalYearOvertime(ctx context.Context, staffID generic.StaffID, fy int) (overtime.FiscalYearCheck, error) {
	_, f, err := s.staffAndFacility(ctx, staffID)
	if err != nil {
		return overtime.FiscalYearCheck{}, err
	}
	period := generic.FiscalYearPeriod(fy)
	summaries, err := s.summariesFor(ctx, staffID, period)
	if err != nil {
		return overtime.FiscalYearCheck{}, err
	}
	result := overtime.NewEvaluator(f.DailyPrescribedMinutes).EvaluateFiscalYear(staffID, fy, summaries)

	book, err := s.agreementBook(ctx, f.ID, fy)
	if err != nil {
		return overtime.FiscalYearCheck{}, err
	}
	return overtime.CheckFiscalYear(result, book)
}

// =============================================================================
// PAID LEAVE
// =============================================================================

// LeaveStatus summarizes a member's paid leave on a date.
type LeaveStatus struct {
	Staff         roster.StaffMember
	Entitlement   generic.Amount
	LatestGrant   *generic.TimePoint
	Expiry        *generic.TimePoint
	NextGrant     *generic.TimePoint
	Remaining     generic.Amount
	LedgerBalance generic.Amount
	FiveDay       paidleave.FiveDayStatus
}

// LeaveLedger builds the ledger of one staff member.
func (s *Service) LeaveLedger(ctx context.Context, staffID generic.StaffID) (paidleave.Ledger, error) {
	if _, err := s.store.GetStaff(ctx, staffID); err != nil {
		return paidleave.Ledger{}, err
	}
	balances, err := s.store.ListBalances(ctx, staffID)
	if err != nil {
		return paidleave.Ledger{}, fmt.Errorf("list balances: %w", err)
	}
	requests, err := s.store.ListRequests(ctx, staffID)
	if err != nil {
		return paidleave.Ledger{}, fmt.Errorf("list requests: %w", err)
	}
	return paidleave.BuildLedger(staffID, balances, requests)
}

// LeaveStatus computes entitlement, grant dates and balances as of today.
func (s *Service) LeaveStatus(ctx context.Context, staffID generic.StaffID, today generic.TimePoint) (LeaveStatus, error) {
	m, err := s.store.GetStaff(ctx, staffID)
	if err != nil {
		return LeaveStatus{}, err
	}
	acc, err := s.accountant(today)
	if err != nil {
		return LeaveStatus{}, err
	}
	balances, err := s.store.ListBalances(ctx, staffID)
	if err != nil {
		return LeaveStatus{}, fmt.Errorf("list balances: %w", err)
	}
	requests, err := s.store.ListRequests(ctx, staffID)
	if err != nil {
		return LeaveStatus{}, fmt.Errorf("list requests: %w", err)
	}
	ledger, err := paidleave.BuildLedger(staffID, balances, requests)
	if err != nil {
		return LeaveStatus{}, err
	}

	st := LeaveStatus{
		Staff:         m,
		Entitlement:   acc.CalculateEntitlement(m, today),
		Remaining:     paidleave.RemainingDays(staffID, balances, today),
		LedgerBalance: ledger.Balance(),
		FiveDay:       paidleave.CheckFiveDay(staffID, generic.FiscalYearOf(today), balances, requests),
	}
	if granted, ok := acc.LatestGrantDate(m, today); ok {
		expiry := paidleave.CalculateExpiry(granted)
		st.LatestGrant, st.Expiry = &granted, &expiry
	}
	if m.HasHireDate() {
		nextGrant := paidleave.CalculateNextGrantDate(*m.HireDate, today)
		st.NextGrant = &nextGrant
	}
	return st, nil
}

// SubmitLeaveRequest validates a new request, rejects overlaps and stores it
// as pending.
func (s *Service) SubmitLeaveRequest(ctx context.Context, r paidleave.Request) (paidleave.Request, error) {
	if r.Status == "" {
		r.Status = paidleave.StatusPending
	}
	if err := r.Validate(); err != nil {
		return paidleave.Request{}, err
	}
	if _, err := s.store.GetStaff(ctx, r.StaffID); err != nil {
		return paidleave.Request{}, err
	}
	existing, err := s.store.ListRequests(ctx, r.StaffID)
	if err != nil {
		return paidleave.Request{}, fmt.Errorf("list requests: %w", err)
	}
	if err := paidleave.CheckOverlap(r, existing); err != nil {
		return paidleave.Request{}, err
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if err := s.store.SaveRequest(ctx, r); err != nil {
		return paidleave.Request{}, fmt.Errorf("save request: %w", err)
	}
	s.logger.Info("leave request submitted",
		zap.String("request_id", r.ID),
		zap.String("staff_id", string(r.StaffID)),
		zap.String("type", string(r.Type)),
		zap.String("days", r.ConsumedDays().Value.String()))
	return r, nil
}

// DecideLeaveRequest approves or rejects a pending request. Approval books
// the days against the live grants, oldest first. The five-day check does not
// read that booking; it counts approved requests by date.
func (s *Service) DecideLeaveRequest(ctx context.Context, id string, approve bool) (paidleave.Request, error) {
	r, err := s.store.GetRequest(ctx, id)
	if err != nil {
		return paidleave.Request{}, err
	}
	if r.Status != paidleave.StatusPending {
		return paidleave.Request{}, &generic.TransitionError{From: string(r.Status), To: decisionStatus(approve)}
	}
	r.Status = paidleave.RequestStatus(decisionStatus(approve))

	if approve {
		balances, err := s.store.ListBalances(ctx, r.StaffID)
		if err != nil {
			return paidleave.Request{}, fmt.Errorf("list balances: %w", err)
		}
		for _, b := range bookUsage(balances, r.StartDate, r.ConsumedDays()) {
			if err := s.store.SaveBalance(ctx, b); err != nil {
				return paidleave.Request{}, fmt.Errorf("save balance: %w", err)
			}
		}
	}
	if err := s.store.SaveRequest(ctx, r); err != nil {
		return paidleave.Request{}, fmt.Errorf("save request: %w", err)
	}
	s.logger.Info("leave request decided", zap.String("request_id", r.ID), zap.String("status", string(r.Status)))
	return r, nil
}

func decisionStatus(approve bool) string {
	if approve {
		return string(paidleave.StatusApproved)
	}
	return string(paidleave.StatusRejected)
}

// bookUsage spreads days over the grants live on date, oldest first. Days
// left over go to the newest live grant, or the newest grant overall when
// none is live. It returns the rows that changed.
func bookUsage(balances []paidleave.Balance, date generic.TimePoint, days generic.Amount) []paidleave.Balance {
	if len(balances) == 0 {
		return nil
	}
	sorted := append([]paidleave.Balance(nil), balances...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].FiscalYear < sorted[j].FiscalYear })

	changed := make(map[int]bool)
	last := len(sorted) - 1
	for i := range sorted {
		if days.IsZero() {
			break
		}
		if !sorted[i].IsLive(date) {
			continue
		}
		last = i
		take := sorted[i].Remaining().ClampZero().Min(days)
		if take.IsPositive() {
			sorted[i].UsedDays = sorted[i].UsedDays.Add(take)
			days = days.Sub(take)
			changed[i] = true
		}
	}
	if days.IsPositive() {
		sorted[last].UsedDays = sorted[last].UsedDays.Add(days)
		changed[last] = true
	}

	var out []paidleave.Balance
	for i := range sorted {
		if changed[i] {
			out = append(out, sorted[i])
		}
	}
	return out
}

// FiveDayAlerts lists the facility's staff who still owe statutory leave
// days in a fiscal year.
func (s *Service) FiveDayAlerts(ctx context.Context, facilityID generic.FacilityID, fy int) ([]paidleave.FiveDayStatus, error) {
	staff, err := s.store.ListStaff(ctx, facilityID)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	results := make([]paidleave.FiveDayStatus, len(staff))
	err = s.forEachStaff(ctx, staff, func(ctx context.Context, i int, m roster.StaffMember) error {
		balances, err := s.store.ListBalances(ctx, m.ID)
		if err != nil {
			return err
		}
		requests, err := s.store.ListRequests(ctx, m.ID)
		if err != nil {
			return err
		}
		results[i] = paidleave.CheckFiveDay(m.ID, fy, balances, requests)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var alerts []paidleave.FiveDayStatus
	for _, r := range results {
		if r.NeedsAlert {
			alerts = append(alerts, r)
		}
	}
	return alerts, nil
}

// GrantDueLeave stores the latest statutory grant of every member that does
// not yet have a row for that grant's fiscal year. It returns how many rows
// were created.
func (s *Service) GrantDueLeave(ctx context.Context, facilityID generic.FacilityID, today generic.TimePoint) (int, error) {
	acc, err := s.accountant(today)
	if err != nil {
		return 0, err
	}
	staff, err := s.store.ListStaff(ctx, facilityID)
	if err != nil {
		return 0, fmt.Errorf("list staff: %w", err)
	}

	granted := make([]bool, len(staff))
	err = s.forEachStaff(ctx, staff, func(ctx context.Context, i int, m roster.StaffMember) error {
		b, ok := acc.BalanceFor(m, today)
		if !ok {
			return nil
		}
		existing, err := s.store.ListBalances(ctx, m.ID)
		if err != nil {
			return err
		}
		for _, e := range existing {
			if e.FiscalYear == b.FiscalYear {
				return nil
			}
		}
		if err := s.store.SaveBalance(ctx, b); err != nil {
			return err
		}
		granted[i] = true
		s.logger.Info("leave granted",
			zap.String("staff_id", string(m.ID)),
			zap.Int("fiscal_year", b.FiscalYear),
			zap.String("days", b.TotalDaysGranted.Value.String()),
			zap.String("expires", b.ExpiresDate.String()))
		return nil
	})

	n := 0
	for _, g := range granted {
		if g {
			n++
		}
	}
	return n, err
}

// =============================================================================
// STAFFING
// =============================================================================

// Compliance evaluates the facility's staffing requirements.
func (s *Service) Compliance(ctx context.Context, facilityID generic.FacilityID, asOf generic.TimePoint) (staffing.ComplianceReport, error) {
	f, err := s.store.GetFacility(ctx, facilityID)
	if err != nil {
		return staffing.ComplianceReport{}, err
	}
	settings, err := s.store.ListPersonnelSettings(ctx, facilityID)
	if err != nil {
		return staffing.ComplianceReport{}, fmt.Errorf("list personnel settings: %w", err)
	}
	reqs, err := s.requirements(ctx, facilityID, asOf)
	if err != nil {
		return staffing.ComplianceReport{}, err
	}
	return staffing.Evaluate(settings, reqs, f.Staffing())
}

// =============================================================================
// MONTHLY REPORT
// =============================================================================

// GenerateMonthlyReport computes and stores a draft report. Staff members
// are evaluated in parallel; for each member the stages run in order:
// punches, overtime, then leave.
func (s *Service) GenerateMonthlyReport(ctx context.Context, facilityID generic.FacilityID, year int, month time.Month) (*MonthlyReport, error) {
	f, err := s.store.GetFacility(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	monthEnd := generic.EndOfMonth(year, month)
	today := s.Today()
	asOf := monthEnd
	if today.Before(asOf) {
		asOf = today
	}

	staff, err := s.store.ListStaff(ctx, facilityID)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	book, err := s.agreementBook(ctx, facilityID, generic.FiscalYearOf(monthEnd))
	if err != nil {
		return nil, err
	}
	acc, err := s.accountant(asOf)
	if err != nil {
		return nil, err
	}
	cal, err := s.calendar(ctx, facilityID, monthEnd)
	if err != nil {
		return nil, err
	}

	in := lineInputs{
		facility: f, year: year, month: month, asOf: asOf,
		book: book, accountant: acc, calendar: cal,
	}
	lines := make([]StaffLine, len(staff))
	err = s.forEachStaff(ctx, staff, func(ctx context.Context, i int, m roster.StaffMember) error {
		line, err := s.staffLine(ctx, m, in)
		lines[i] = line
		return err
	})
	if err != nil {
		s.logger.Error("monthly report failed", zap.String("facility_id", string(facilityID)), zap.Error(err))
		return nil, err
	}

	compliance, err := s.Compliance(ctx, facilityID, asOf)
	if err != nil {
		return nil, err
	}

	r := &MonthlyReport{
		ID:            uuid.NewString(),
		FacilityID:    f.ID,
		FacilityName:  f.Name,
		Year:          year,
		Month:         month,
		FiscalYear:    generic.FiscalYearOf(monthEnd),
		PolicyVersion: s.policies.At(monthEnd).Version,
		Status:        StatusDraft,
		GeneratedAt:   s.now(),
		Staff:         lines,
		Compliance:    complianceSection(compliance),
	}
	statuses := []generic.Status{r.Compliance.OverallStatus}
	for _, l := range lines {
		statuses = append(statuses, l.Status())
	}
	r.OverallStatus = generic.Worst(statuses...)

	if err := s.store.SaveReport(ctx, r); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	s.logger.Info("monthly report generated",
		zap.String("report_id", r.ID),
		zap.String("facility_id", string(f.ID)),
		zap.String("month", r.Label()),
		zap.Int("staff", len(lines)),
		zap.String("status", string(r.OverallStatus)))
	return r, nil
}

type lineInputs struct {
	facility   Facility
	year       int
	month      time.Month
	asOf       generic.TimePoint
	book       *overtime.AgreementBook
	accountant *paidleave.Accountant
	calendar   generic.HolidayCalendar
}

func (s *Service) staffLine(ctx context.Context, m roster.StaffMember, in lineInputs) (StaffLine, error) {
	line := StaffLine{StaffID: m.ID, Name: m.Name, EmploymentType: string(m.EmploymentType)}
	monthPeriod := generic.MonthPeriod(in.year, in.month)

	// 1. Punches -> daily summaries
	summaries, err := s.summariesFor(ctx, m.ID, generic.FiscalYearToDate(in.year, in.month))
	if err != nil {
		return line, err
	}
	var monthSummaries []attendance.DailySummary
	for _, d := range summaries {
		if monthPeriod.Contains(d.Date) {
			monthSummaries = append(monthSummaries, d)
			line.WorkedMinutes += d.WorkedMinutes
		}
	}

	// 2. Overtime
	mo := overtime.NewEvaluator(in.facility.DailyPrescribedMinutes).EvaluateMonth(m.ID, in.year, in.month, summaries)
	line.OvertimeMinutes = mo.MonthlyOvertimeMinutes
	line.FiscalYearToDateMinutes = mo.FiscalYearToDateOvertimeMinutes
	line.CompletedDays = mo.CompletedDays
	check, err := overtime.Check(mo, in.book)
	switch {
	case errors.Is(err, generic.ErrNoAgreement):
		line.OvertimeNote = err.Error()
	case err != nil:
		return line, err
	default:
		line.MonthlyStatus, line.AnnualStatus = check.MonthlyStatus, check.AnnualStatus
	}

	// 3. Leave
	balances, err := s.store.ListBalances(ctx, m.ID)
	if err != nil {
		return line, err
	}
	requests, err := s.store.ListRequests(ctx, m.ID)
	if err != nil {
		return line, err
	}
	ledger, err := paidleave.BuildLedger(m.ID, balances, requests)
	if err != nil {
		return line, err
	}
	five := paidleave.CheckFiveDay(m.ID, generic.FiscalYearOf(monthPeriod.End), balances, requests)
	line.EntitlementDays = in.accountant.CalculateEntitlement(m, in.asOf).Value
	line.RemainingDays = paidleave.RemainingDays(m.ID, balances, in.asOf).Value
	line.LedgerBalance = ledger.Balance().Value
	line.FiveDayAlert = five.NeedsAlert
	line.FiveDayShortfall = five.Shortfall.Value
	if m.HasHireDate() {
		line.NextGrantDate = paidleave.CalculateNextGrantDate(*m.HireDate, in.asOf).String()
	}

	for _, d := range attendance.DetectAbsences(attendance.AbsenceQuery{
		StaffID:     m.ID,
		FacilityID:  in.facility.ID,
		Period:      monthPeriod,
		Today:       in.asOf,
		Summaries:   monthSummaries,
		Calendar:    in.calendar,
		ExcusedDays: paidleave.ExcusedDays(m.ID, requests),
	}) {
		line.AbsenceDates = append(line.AbsenceDates, d.String())
	}
	return line, nil
}

func complianceSection(c staffing.ComplianceReport) ComplianceSection {
	sec := ComplianceSection{
		Headcount:     c.Headcount.Total.Count,
		TotalFTE:      c.Headcount.Total.FTE,
		OverallStatus: c.OverallStatus,
	}
	for _, rec := range c.Records {
		sec.Lines = append(sec.Lines, ComplianceLine{
			RequirementID: rec.Requirement.ID,
			Name:          rec.Requirement.Name,
			Kind:          string(rec.Requirement.Kind),
			Unit:          string(rec.Requirement.Unit),
			Current:       rec.Current,
			Required:      rec.Required,
			Status:        rec.Status,
		})
	}
	return sec
}

// =============================================================================
// REPORT WORKFLOW
// =============================================================================

// GetReport loads a stored report.
func (s *Service) GetReport(ctx context.Context, id string) (*MonthlyReport, error) {
	return s.store.GetReport(ctx, id)
}

// SubmitReport moves a draft report to submitted.
func (s *Service) SubmitReport(ctx context.Context, id, actor string) (*MonthlyReport, error) {
	return s.advance(ctx, id, actor, (*MonthlyReport).Submit)
}

// ApproveReport moves a submitted report to approved.
func (s *Service) ApproveReport(ctx context.Context, id, actor string) (*MonthlyReport, error) {
	return s.advance(ctx, id, actor, (*MonthlyReport).Approve)
}

func (s *Service) advance(ctx context.Context, id, actor string, step func(*MonthlyReport, string, time.Time) error) (*MonthlyReport, error) {
	r, err := s.store.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	from := r.Status
	if err := step(r, actor, s.now()); err != nil {
		s.logger.Warn("report transition refused", zap.String("report_id", id), zap.Error(err))
		return nil, err
	}
	if err := s.store.SaveReport(ctx, r); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	s.logger.Info("report status changed",
		zap.String("report_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(r.Status)),
		zap.String("actor", actor))
	return r, nil
}
