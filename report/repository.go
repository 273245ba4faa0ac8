/*
repository.go - Storage collaborator interfaces

PURPOSE:
  The engine packages never touch storage. This file defines the narrow
  repositories the report service reads from and writes to, so the same
  service runs against SQLite in production and memory in tests.

KEY INTERFACES:
  StaffRepository:       Roster rows per facility
  AttendanceRepository:  Punches by staff and date range
  LeaveRepository:       Grant rows and leave requests
  PersonnelRepository:   Staffing classification per member
  AgreementRepository:   Registered overtime agreements per facility
  RequirementRepository: Staffing requirements per facility
  FacilityRepository:    Facility settings and holidays
  ReportRepository:      Generated monthly reports

  Store bundles them all. Both store/sqlite and store/memory implement it.

MISSING RECORDS:
  Get* methods return an error wrapping generic.ErrNotFound. List* methods
  return an empty slice, never ErrNotFound.

SEE ALSO:
  - store/sqlite/sqlite.go: Production implementation
  - store/memory/memory.go: In-memory implementation for tests and demos
*/
package report

import (
	"context"

	"github.com/warp/personnel-engine/attendance"
	"github.com/warp/personnel-engine/generic"
	"github.com/warp/personnel-engine/overtime"
	"github.com/warp/personnel-engine/paidleave"
	"github.com/warp/personnel-engine/roster"
	"github.com/warp/personnel-engine/staffing"
)

type StaffRepository interface {
	ListStaff(ctx context.Context, facilityID generic.FacilityID) ([]roster.StaffMember, error)
	GetStaff(ctx context.Context, id generic.StaffID) (roster.StaffMember, error)
	SaveStaff(ctx context.Context, s roster.StaffMember) error
}

type AttendanceRepository interface {
	// ListPunches returns the member's punches with dates in period.
	ListPunches(ctx context.Context, staffID generic.StaffID, period generic.Period) ([]attendance.Punch, error)
	AddPunch(ctx context.Context, p attendance.Punch) error
}

type LeaveRepository interface {
	ListBalances(ctx context.Context, staffID generic.StaffID) ([]paidleave.Balance, error)
	// SaveBalance upserts on (staff, fiscal year).
	SaveBalance(ctx context.Context, b paidleave.Balance) error
	ListRequests(ctx context.Context, staffID generic.StaffID) ([]paidleave.Request, error)
	GetRequest(ctx context.Context, id string) (paidleave.Request, error)
	// SaveRequest upserts on request ID.
	SaveRequest(ctx context.Context, r paidleave.Request) error
}

type PersonnelRepository interface {
	ListPersonnelSettings(ctx context.Context, facilityID generic.FacilityID) ([]staffing.PersonnelSetting, error)
	SavePersonnelSetting(ctx context.Context, facilityID generic.FacilityID, s staffing.PersonnelSetting) error
}

type AgreementRepository interface {
	ListAgreements(ctx context.Context, facilityID generic.FacilityID) ([]overtime.Agreement, error)
	SaveAgreement(ctx context.Context, facilityID generic.FacilityID, a overtime.Agreement) error
}

type RequirementRepository interface {
	ListRequirements(ctx context.Context, facilityID generic.FacilityID) ([]staffing.Requirement, error)
	SaveRequirement(ctx context.Context, facilityID generic.FacilityID, r staffing.Requirement) error
}

type FacilityRepository interface {
	GetFacility(ctx context.Context, id generic.FacilityID) (Facility, error)
	ListFacilities(ctx context.Context) ([]Facility, error)
	SaveFacility(ctx context.Context, f Facility) error
	ListHolidays(ctx context.Context, facilityID generic.FacilityID) ([]generic.Holiday, error)
	SaveHoliday(ctx context.Context, h generic.Holiday) error
}

type ReportRepository interface {
	SaveReport(ctx context.Context, r *MonthlyReport) error
	GetReport(ctx context.Context, id string) (*MonthlyReport, error)
	ListReports(ctx context.Context, facilityID generic.FacilityID) ([]*MonthlyReport, error)
}

// Store is everything the report service needs.
type Store interface {
	StaffRepository
	AttendanceRepository
	LeaveRepository
	PersonnelRepository
	AgreementRepository
	RequirementRepository
	FacilityRepository
	ReportRepository
}

// Facility holds the facility-level settings the engine takes as inputs.
type Facility struct {
	ID                     generic.FacilityID
	Name                   string
	Capacity               int
	StandardWeeklyHours    float64
	DailyPrescribedMinutes int
}

// Staffing returns the staffing evaluation view of the facility.
func (f Facility) Staffing() staffing.Facility {
	return staffing.Facility{
		ID:                  f.ID,
		Name:                f.Name,
		Capacity:            f.Capacity,
		StandardWeeklyHours: f.StandardWeeklyHours,
	}
}
