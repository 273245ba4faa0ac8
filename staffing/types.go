// Package staffing evaluates a facility's personnel settings against its
// staffing requirements: FTE per staff member, headcount aggregation and a
// per-requirement ok / warning / critical report.
package staffing

import (
	"github.com/shopspring/decimal"

	"github.com/warp/personnel-engine/generic"
)

type WorkStyle string

const (
	WorkFullTimeDedicated  WorkStyle = "fulltime_dedicated"
	WorkFullTimeConcurrent WorkStyle = "fulltime_concurrent"
	WorkPartTime           WorkStyle = "parttime"
)

func (w WorkStyle) Valid() bool {
	return w == WorkFullTimeDedicated || w == WorkFullTimeConcurrent || w == WorkPartTime
}

// PersonnelType says whether a member counts toward the mandatory minimum
// (standard) or toward an optional service-level addition.
type PersonnelType string

const (
	PersonnelStandard PersonnelType = "standard"
	PersonnelAddition PersonnelType = "addition"
)

func (p PersonnelType) Valid() bool { return p == PersonnelStandard || p == PersonnelAddition }

// PersonnelSetting is the staffing classification of one member.
type PersonnelSetting struct {
	StaffID               generic.StaffID
	PersonnelType         PersonnelType
	WorkStyle             WorkStyle
	IsManager             bool
	IsServiceManager      bool
	ContractedWeeklyHours *float64 // nil when not contracted by the hour
}

// Facility carries the facility-level inputs of an evaluation.
type Facility struct {
	ID                  generic.FacilityID
	Name                string
	Capacity            int
	StandardWeeklyHours float64
}

// DefaultStandardWeeklyHours is used when a facility does not set its own.
const DefaultStandardWeeklyHours = 40

// =============================================================================
// REQUIREMENTS
// =============================================================================

// RequirementKind selects what a requirement counts.
type RequirementKind string

const (
	KindHeadcount         RequirementKind = "headcount"
	KindFTE               RequirementKind = "fte"
	KindFullTimeDedicated RequirementKind = "fulltime_dedicated"
	KindManager           RequirementKind = "manager"
	KindServiceManager    RequirementKind = "service_manager"
)

func (k RequirementKind) Valid() bool {
	switch k {
	case KindHeadcount, KindFTE, KindFullTimeDedicated, KindManager, KindServiceManager:
		return true
	}
	return false
}

// Requirement is one staffing rule. When CapacityBased is set RequiredCount is
// the base for a capacity of 10 and grows with capacity.
type Requirement struct {
	ID            string
	Name          string
	Kind          RequirementKind
	RequiredCount decimal.Decimal
	Unit          generic.Unit
	Description   string
	CapacityBased bool
	PersonnelType PersonnelType // empty counts every member
}

// ComplianceRecord is the outcome of one requirement.
type ComplianceRecord struct {
	Requirement Requirement
	Current     decimal.Decimal
	Required    decimal.Decimal
	Status      generic.Status
}

// Shortfall returns how far current is below required, zero when met.
func (r ComplianceRecord) Shortfall() decimal.Decimal {
	d := r.Required.Sub(r.Current)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ComplianceReport is the evaluated state of a facility.
type ComplianceReport struct {
	FacilityID    generic.FacilityID
	Headcount     Headcount
	Records       []ComplianceRecord
	OverallStatus generic.Status
}
