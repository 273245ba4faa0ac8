// Package roster defines the staff member record shared by the leave and
// staffing calculations.
package roster

import "github.com/warp/personnel-engine/generic"

type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "fulltime"
	EmploymentPartTime EmploymentType = "parttime"
)

// Valid reports whether t is a known employment type.
func (t EmploymentType) Valid() bool {
	return t == EmploymentFullTime || t == EmploymentPartTime
}

// StaffMember is a read-only roster row supplied by the storage collaborator.
type StaffMember struct {
	ID             generic.StaffID
	FacilityID     generic.FacilityID
	Name           string
	HireDate       *generic.TimePoint // nil when unknown
	EmploymentType EmploymentType

	// WeeklyWorkDays keys the part-time entitlement track. Zero means unknown.
	WeeklyWorkDays int
}

// HasHireDate reports whether the member carries a hire date.
func (s StaffMember) HasHireDate() bool { return s.HireDate != nil && !s.HireDate.IsZero() }

// ByID indexes a roster by staff ID.
func ByID(members []StaffMember) map[generic.StaffID]StaffMember {
	idx := make(map[generic.StaffID]StaffMember, len(members))
	for _, m := range members {
		idx[m.ID] = m
	}
	return idx
}
