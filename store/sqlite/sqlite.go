/*
Package sqlite provides a SQLite-backed report.Store.

PURPOSE:
  Persists the roster, punches, leave rows, facility settings and generated
  monthly reports. The engine packages never see SQL; the report service
  talks to this store through the report.Store interface.

KEY TABLES:
  facilities:          Capacity, weekly hours, prescribed day length
  staff:               Roster rows (hire date may be NULL)
  punches:             Raw clock events, minutes after midnight
  leave_balances:      One grant row per (staff, fiscal year)
  leave_requests:      Requests with status
  personnel_settings:  Staffing classification per (facility, staff)
  agreements:          Overtime agreement per (facility, fiscal year)
  requirements:        Staffing requirements per facility
  holidays:            Facility-specific and global ('' facility) holidays
  reports:             Frozen monthly reports stored as JSON

ENCODING:
  Dates are TEXT "YYYY-MM-DD". Day amounts and FTE counts are decimal TEXT
  so no float rounding reaches the ledger.

WAL MODE:
  Opened with WAL so report generation can read while punches are written.

USAGE:
  store, err := sqlite.New("./data/personnel.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - report/repository.go: Interface definitions
  - store/memory/memory.go: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/personnel-engine/attendance"
	"github.com/warp/personnel-engine/generic"
	"github.com/warp/personnel-engine/overtime"
	"github.com/warp/personnel-engine/paidleave"
	"github.com/warp/personnel-engine/report"
	"github.com/warp/personnel-engine/roster"
	"github.com/warp/personnel-engine/staffing"
)

var _ report.Store = (*Store)(nil)

const dateLayout = "2006-01-02"

type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	dsn := dbPath + "?_foreign_keys=on&_journal_mode=WAL"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// :memory: databases are per connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS facilities (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		capacity INTEGER NOT NULL DEFAULT 0,
		standard_weekly_hours REAL NOT NULL DEFAULT 40,
		daily_prescribed_minutes INTEGER NOT NULL DEFAULT 480
	);

	CREATE TABLE IF NOT EXISTS staff (
		id TEXT PRIMARY KEY,
		facility_id TEXT NOT NULL,
		name TEXT NOT NULL,
		hire_date TEXT,
		employment_type TEXT NOT NULL,
		weekly_work_days INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_staff_facility ON staff(facility_id);

	CREATE TABLE IF NOT EXISTS punches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		staff_id TEXT NOT NULL,
		date TEXT NOT NULL,
		kind TEXT NOT NULL,
		minutes INTEGER NOT NULL
	);

	-- Hot path: punches of one member over a fiscal year
	CREATE INDEX IF NOT EXISTS idx_punches_staff_date ON punches(staff_id, date);

	CREATE TABLE IF NOT EXISTS leave_balances (
		staff_id TEXT NOT NULL,
		fiscal_year INTEGER NOT NULL,
		total_days TEXT NOT NULL,
		used_days TEXT NOT NULL,
		granted_date TEXT,
		expires_date TEXT,
		PRIMARY KEY (staff_id, fiscal_year)
	);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		staff_id TEXT NOT NULL,
		type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		days_count TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		reason TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_leave_requests_staff ON leave_requests(staff_id, start_date);

	CREATE TABLE IF NOT EXISTS personnel_settings (
		facility_id TEXT NOT NULL,
		staff_id TEXT NOT NULL,
		personnel_type TEXT NOT NULL,
		work_style TEXT NOT NULL,
		is_manager BOOLEAN NOT NULL DEFAULT FALSE,
		is_service_manager BOOLEAN NOT NULL DEFAULT FALSE,
		contracted_weekly_hours REAL,
		PRIMARY KEY (facility_id, staff_id)
	);

	CREATE TABLE IF NOT EXISTS agreements (
		facility_id TEXT NOT NULL,
		fiscal_year INTEGER NOT NULL,
		monthly_limit_minutes INTEGER NOT NULL,
		annual_limit_minutes INTEGER NOT NULL,
		special_monthly_limit_minutes INTEGER NOT NULL DEFAULT 0,
		special_months_limit INTEGER NOT NULL DEFAULT 0,
		effective_from TEXT,
		effective_to TEXT,
		PRIMARY KEY (facility_id, fiscal_year)
	);

	CREATE TABLE IF NOT EXISTS requirements (
		facility_id TEXT NOT NULL,
		id TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		kind TEXT NOT NULL,
		required_count TEXT NOT NULL,
		unit TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		capacity_based BOOLEAN NOT NULL DEFAULT FALSE,
		personnel_type TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (facility_id, id)
	);

	-- Holidays (facility-specific and global)
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT NOT NULL,
		facility_id TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN DEFAULT FALSE,
		workday BOOLEAN DEFAULT FALSE,
		PRIMARY KEY (facility_id, id)
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_facility_date ON holidays(facility_id, date);

	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		facility_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		status TEXT NOT NULL,
		report_json TEXT NOT NULL,
		generated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_facility ON reports(facility_id, year, month);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// FACILITIES
// =============================================================================

func (s *Store) SaveFacility(ctx context.Context, f report.Facility) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO facilities (id, name, capacity, standard_weekly_hours, daily_prescribed_minutes)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			capacity = excluded.capacity,
			standard_weekly_hours = excluded.standard_weekly_hours,
			daily_prescribed_minutes = excluded.daily_prescribed_minutes
	`
	_, err := s.db.ExecContext(ctx, query, f.ID, f.Name, f.Capacity, f.StandardWeeklyHours, f.DailyPrescribedMinutes)
	return err
}

func (s *Store) GetFacility(ctx context.Context, id generic.FacilityID) (report.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var f report.Facility
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, capacity, standard_weekly_hours, daily_prescribed_minutes FROM facilities WHERE id = ?", id,
	).Scan(&f.ID, &f.Name, &f.Capacity, &f.StandardWeeklyHours, &f.DailyPrescribedMinutes)
	if errors.Is(err, sql.ErrNoRows) {
		return report.Facility{}, notFound("facility", string(id))
	}
	return f, err
}

func (s *Store) ListFacilities(ctx context.Context) ([]report.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, capacity, standard_weekly_hours, daily_prescribed_minutes FROM facilities ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []report.Facility{}
	for rows.Next() {
		var f report.Facility
		if err := rows.Scan(&f.ID, &f.Name, &f.Capacity, &f.StandardWeeklyHours, &f.DailyPrescribedMinutes); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// =============================================================================
// STAFF
// =============================================================================

func (s *Store) SaveStaff(ctx context.Context, m roster.StaffMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO staff (id, facility_id, name, hire_date, employment_type, weekly_work_days)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			facility_id = excluded.facility_id,
			name = excluded.name,
			hire_date = excluded.hire_date,
			employment_type = excluded.employment_type,
			weekly_work_days = excluded.weekly_work_days
	`
	_, err := s.db.ExecContext(ctx, query,
		m.ID, m.FacilityID, m.Name, nullDate(m.HireDate), m.EmploymentType, m.WeeklyWorkDays)
	return err
}

const staffColumns = "id, facility_id, name, hire_date, employment_type, weekly_work_days"

func scanStaff(row interface{ Scan(...any) error }) (roster.StaffMember, error) {
	var m roster.StaffMember
	var hire sql.NullString
	if err := row.Scan(&m.ID, &m.FacilityID, &m.Name, &hire, &m.EmploymentType, &m.WeeklyWorkDays); err != nil {
		return roster.StaffMember{}, err
	}
	if d, ok := parseNullDate(hire); ok {
		m.HireDate = &d
	}
	return m, nil
}

func (s *Store) GetStaff(ctx context.Context, id generic.StaffID) (roster.StaffMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, err := scanStaff(s.db.QueryRowContext(ctx, "SELECT "+staffColumns+" FROM staff WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return roster.StaffMember{}, notFound("staff", string(id))
	}
	return m, err
}

func (s *Store) ListStaff(ctx context.Context, facilityID generic.FacilityID) ([]roster.StaffMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+staffColumns+" FROM staff WHERE facility_id = ? ORDER BY id", facilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []roster.StaffMember{}
	for rows.Next() {
		m, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// =============================================================================
// PUNCHES
// =============================================================================

func (s *Store) AddPunch(ctx context.Context, p attendance.Punch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO punches (staff_id, date, kind, minutes) VALUES (?, ?, ?, ?)",
		p.StaffID, p.Date.String(), p.Kind, p.Time.Minutes())
	return err
}

func (s *Store) ListPunches(ctx context.Context, staffID generic.StaffID, period generic.Period) ([]attendance.Punch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, kind, minutes FROM punches
		WHERE staff_id = ? AND date >= ? AND date <= ?
		ORDER BY date, minutes, id`,
		staffID, period.Start.String(), period.End.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []attendance.Punch{}
	for rows.Next() {
		var date, kind string
		var minutes int
		if err := rows.Scan(&date, &kind, &minutes); err != nil {
			return nil, err
		}
		d, err := generic.ParseDate(date)
		if err != nil {
			return nil, err
		}
		k, err := attendance.ParsePunchKind(kind)
		if err != nil {
			return nil, err
		}
		out = append(out, attendance.Punch{StaffID: staffID, Date: d, Kind: k, Time: generic.Clock(minutes)})
	}
	return out, rows.Err()
}

// =============================================================================
// LEAVE
// =============================================================================

func (s *Store) SaveBalance(ctx context.Context, b paidleave.Balance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO leave_balances (staff_id, fiscal_year, total_days, used_days, granted_date, expires_date)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(staff_id, fiscal_year) DO UPDATE SET
			total_days = excluded.total_days,
			used_days = excluded.used_days,
			granted_date = excluded.granted_date,
			expires_date = excluded.expires_date
	`
	_, err := s.db.ExecContext(ctx, query,
		b.StaffID, b.FiscalYear,
		b.TotalDaysGranted.Value.String(), b.UsedDays.Value.String(),
		nullDate(&b.GrantedDate), nullDate(&b.ExpiresDate))
	return err
}

func (s *Store) ListBalances(ctx context.Context, staffID generic.StaffID) ([]paidleave.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT fiscal_year, total_days, used_days, granted_date, expires_date
		FROM leave_balances WHERE staff_id = ? ORDER BY fiscal_year`, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []paidleave.Balance{}
	for rows.Next() {
		b := paidleave.Balance{StaffID: staffID}
		var total, used string
		var granted, expires sql.NullString
		if err := rows.Scan(&b.FiscalYear, &total, &used, &granted, &expires); err != nil {
			return nil, err
		}
		if b.TotalDaysGranted, err = parseDays(total); err != nil {
			return nil, err
		}
		if b.UsedDays, err = parseDays(used); err != nil {
			return nil, err
		}
		b.GrantedDate, _ = parseNullDate(granted)
		b.ExpiresDate, _ = parseNullDate(expires)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) SaveRequest(ctx context.Context, r paidleave.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO leave_requests (id, staff_id, type, start_date, end_date, days_count, status, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			days_count = excluded.days_count,
			status = excluded.status,
			reason = excluded.reason
	`
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.StaffID, r.Type, r.StartDate.String(), r.EndDate.String(),
		r.DaysCount.Value.String(), r.Status, nullString(r.Reason))
	return err
}

const requestColumns = "id, staff_id, type, start_date, end_date, days_count, status, reason"

func scanRequest(row interface{ Scan(...any) error }) (paidleave.Request, error) {
	var r paidleave.Request
	var start, end, days string
	var reason sql.NullString
	if err := row.Scan(&r.ID, &r.StaffID, &r.Type, &start, &end, &days, &r.Status, &reason); err != nil {
		return paidleave.Request{}, err
	}
	var err error
	if r.StartDate, err = generic.ParseDate(start); err != nil {
		return paidleave.Request{}, err
	}
	if r.EndDate, err = generic.ParseDate(end); err != nil {
		return paidleave.Request{}, err
	}
	if r.DaysCount, err = parseDays(days); err != nil {
		return paidleave.Request{}, err
	}
	r.Reason = reason.String
	return r, nil
}

func (s *Store) GetRequest(ctx context.Context, id string) (paidleave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, err := scanRequest(s.db.QueryRowContext(ctx, "SELECT "+requestColumns+" FROM leave_requests WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return paidleave.Request{}, notFound("leave request", id)
	}
	return r, err
}

func (s *Store) ListRequests(ctx context.Context, staffID generic.StaffID) ([]paidleave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+requestColumns+" FROM leave_requests WHERE staff_id = ? ORDER BY start_date, id", staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []paidleave.Request{}
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// =============================================================================
// FACILITY SETTINGS
// =============================================================================

func (s *Store) SavePersonnelSetting(ctx context.Context, facilityID generic.FacilityID, p staffing.PersonnelSetting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var hours sql.NullFloat64
	if p.ContractedWeeklyHours != nil {
		hours = sql.NullFloat64{Float64: *p.ContractedWeeklyHours, Valid: true}
	}
	query := `
		INSERT INTO personnel_settings
		(facility_id, staff_id, personnel_type, work_style, is_manager, is_service_manager, contracted_weekly_hours)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(facility_id, staff_id) DO UPDATE SET
			personnel_type = excluded.personnel_type,
			work_style = excluded.work_style,
			is_manager = excluded.is_manager,
			is_service_manager = excluded.is_service_manager,
			contracted_weekly_hours = excluded.contracted_weekly_hours
	`
	_, err := s.db.ExecContext(ctx, query,
		facilityID, p.StaffID, p.PersonnelType, p.WorkStyle, p.IsManager, p.IsServiceManager, hours)
	return err
}

func (s *Store) ListPersonnelSettings(ctx context.Context, facilityID generic.FacilityID) ([]staffing.PersonnelSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT staff_id, personnel_type, work_style, is_manager, is_service_manager, contracted_weekly_hours
		FROM personnel_settings WHERE facility_id = ? ORDER BY staff_id`, facilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []staffing.PersonnelSetting{}
	for rows.Next() {
		var p staffing.PersonnelSetting
		var hours sql.NullFloat64
		if err := rows.Scan(&p.StaffID, &p.PersonnelType, &p.WorkStyle, &p.IsManager, &p.IsServiceManager, &hours); err != nil {
			return nil, err
		}
		if hours.Valid {
			h := hours.Float64
			p.ContractedWeeklyHours = &h
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) SaveAgreement(ctx context.Context, facilityID generic.FacilityID, a overtime.Agreement) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO agreements
		(facility_id, fiscal_year, monthly_limit_minutes, annual_limit_minutes,
		 special_monthly_limit_minutes, special_months_limit, effective_from, effective_to)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(facility_id, fiscal_year) DO UPDATE SET
			monthly_limit_minutes = excluded.monthly_limit_minutes,
			annual_limit_minutes = excluded.annual_limit_minutes,
			special_monthly_limit_minutes = excluded.special_monthly_limit_minutes,
			special_months_limit = excluded.special_months_limit,
			effective_from = excluded.effective_from,
			effective_to = excluded.effective_to
	`
	_, err := s.db.ExecContext(ctx, query,
		facilityID, a.FiscalYear, a.MonthlyLimitMinutes, a.AnnualLimitMinutes,
		a.SpecialMonthlyLimitMinutes, a.SpecialMonthsLimit,
		nullDate(&a.EffectiveFrom), nullDate(a.EffectiveTo))
	return err
}

func (s *Store) ListAgreements(ctx context.Context, facilityID generic.FacilityID) ([]overtime.Agreement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT fiscal_year, monthly_limit_minutes, annual_limit_minutes,
		       special_monthly_limit_minutes, special_months_limit, effective_from, effective_to
		FROM agreements WHERE facility_id = ? ORDER BY fiscal_year`, facilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []overtime.Agreement{}
	for rows.Next() {
		var a overtime.Agreement
		var from, to sql.NullString
		if err := rows.Scan(&a.FiscalYear, &a.MonthlyLimitMinutes, &a.AnnualLimitMinutes,
			&a.SpecialMonthlyLimitMinutes, &a.SpecialMonthsLimit, &from, &to); err != nil {
			return nil, err
		}
		a.EffectiveFrom, _ = parseNullDate(from)
		if d, ok := parseNullDate(to); ok {
			a.EffectiveTo = &d
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SaveRequirement upserts on (facility, id); new requirements go last.
func (s *Store) SaveRequirement(ctx context.Context, facilityID generic.FacilityID, r staffing.Requirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO requirements
		(facility_id, id, position, name, kind, required_count, unit, description, capacity_based, personnel_type)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM requirements WHERE facility_id = ?),
		        ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(facility_id, id) DO UPDATE SET
			name = excluded.name,
			kind = excluded.kind,
			required_count = excluded.required_count,
			unit = excluded.unit,
			description = excluded.description,
			capacity_based = excluded.capacity_based,
			personnel_type = excluded.personnel_type
	`
	_, err := s.db.ExecContext(ctx, query,
		facilityID, r.ID, facilityID, r.Name, r.Kind, r.RequiredCount.String(), r.Unit,
		r.Description, r.CapacityBased, r.PersonnelType)
	return err
}

func (s *Store) ListRequirements(ctx context.Context, facilityID generic.FacilityID) ([]staffing.Requirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, kind, required_count, unit, description, capacity_based, personnel_type
		FROM requirements WHERE facility_id = ? ORDER BY position`, facilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []staffing.Requirement{}
	for rows.Next() {
		var r staffing.Requirement
		var count string
		if err := rows.Scan(&r.ID, &r.Name, &r.Kind, &count, &r.Unit, &r.Description, &r.CapacityBased, &r.PersonnelType); err != nil {
			return nil, err
		}
		if r.RequiredCount, err = decimal.NewFromString(count); err != nil {
			return nil, fmt.Errorf("requirement %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (s *Store) SaveHoliday(ctx context.Context, h generic.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO holidays (id, facility_id, date, name, recurring, workday)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(facility_id, id) DO UPDATE SET
			date = excluded.date,
			name = excluded.name,
			recurring = excluded.recurring,
			workday = excluded.workday
	`
	_, err := s.db.ExecContext(ctx, query, h.ID, h.FacilityID, h.Date.String(), h.Name, h.Recurring, h.Workday)
	return err
}

// ListHolidays includes global holidays (empty facility).
func (s *Store) ListHolidays(ctx context.Context, facilityID generic.FacilityID) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, facility_id, date, name, recurring, workday FROM holidays
		WHERE facility_id = ? OR facility_id = ''
		ORDER BY date`, facilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []generic.Holiday{}
	for rows.Next() {
		var h generic.Holiday
		var date string
		if err := rows.Scan(&h.ID, &h.FacilityID, &date, &h.Name, &h.Recurring, &h.Workday); err != nil {
			return nil, err
		}
		if h.Date, err = generic.ParseDate(date); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// =============================================================================
// REPORTS
// =============================================================================

func (s *Store) SaveReport(ctx context.Context, r *report.MonthlyReport) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO reports (id, facility_id, year, month, status, report_json, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			report_json = excluded.report_json
	`
	_, err = s.db.ExecContext(ctx, query,
		r.ID, r.FacilityID, r.Year, int(r.Month), r.Status, string(data),
		r.GeneratedAt.UTC().Format(time.RFC3339))
	return err
}

func (s *Store) GetReport(ctx context.Context, id string) (*report.MonthlyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data string
	err := s.db.QueryRowContext(ctx, "SELECT report_json FROM reports WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("report", id)
	}
	if err != nil {
		return nil, err
	}
	return decodeReport(data)
}

func (s *Store) ListReports(ctx context.Context, facilityID generic.FacilityID) ([]*report.MonthlyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT report_json FROM reports WHERE facility_id = ? ORDER BY year, month, generated_at", facilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*report.MonthlyReport{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		r, err := decodeReport(data)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func decodeReport(data string) (*report.MonthlyReport, error) {
	var r report.MonthlyReport
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &r, nil
}

// Helper functions

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, generic.ErrNotFound)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullDate(d *generic.TimePoint) sql.NullString {
	if d == nil || d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.Time.Format(dateLayout), Valid: true}
}

func parseNullDate(s sql.NullString) (generic.TimePoint, bool) {
	if !s.Valid || strings.TrimSpace(s.String) == "" {
		return generic.TimePoint{}, false
	}
	d, err := generic.ParseDate(s.String)
	if err != nil {
		return generic.TimePoint{}, false
	}
	return d, true
}

func parseDays(value string) (generic.Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return generic.Amount{}, fmt.Errorf("invalid day amount %q: %w", value, err)
	}
	return generic.NewAmountFromDecimal(d, generic.UnitDays), nil
}
