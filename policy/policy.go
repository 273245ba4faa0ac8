/*
Package policy loads versioned facility policy documents.

PURPOSE:
  The statutory leave table, the registered overtime agreements and the
  staffing requirements change with the law and with each facility. They are
  kept out of the calculation code as versioned documents in JSON or TOML,
  and converted here into the engine's types.

DOCUMENT SHAPE (TOML):
  version        = "2024-04"
  effective_from = "2024-04-01"

  [entitlement]
  fulltime = [10, 11, 12, 14, 16, 18, 20]
  [entitlement.parttime]
  "4" = [7, 8, 9, 10, 12, 13, 15]

  [[agreements]]
  fiscal_year           = 2024
  monthly_limit_hours   = 45
  annual_limit_hours    = 360
  special_monthly_hours = 100
  special_months        = 6

  [[requirements]]
  id             = "care-staff"
  kind           = "headcount"
  count          = 2
  capacity_based = true
  personnel_type = "standard"

  [[holidays]]
  date      = "2024-05-03"
  name      = "Constitution Day"
  recurring = true

  The JSON form uses the same keys.

DEFAULTS:
  A document without an entitlement section gets the statutory table. An
  agreement marked statutory = true gets the statutory ceilings for any limit
  it leaves at zero. Agreements are never invented for years the document
  does not list.

SEE ALSO:
  - paidleave/entitlement.go: EntitlementTable
  - overtime/agreement.go: Agreement, AgreementBook
  - staffing/types.go: Requirement
*/
package policy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"

	"github.com/warp/personnel-engine/generic"
	"github.com/warp/personnel-engine/overtime"
	"github.com/warp/personnel-engine/paidleave"
	"github.com/warp/personnel-engine/staffing"
)

// =============================================================================
// DOCUMENT SCHEMA
// =============================================================================

// Document is the serialized form of a policy version.
type Document struct {
	Version       string           `json:"version" toml:"version"`
	EffectiveFrom string           `json:"effective_from" toml:"effective_from"`
	Entitlement   *EntitlementDoc  `json:"entitlement,omitempty" toml:"entitlement,omitempty"`
	Agreements    []AgreementDoc   `json:"agreements,omitempty" toml:"agreements,omitempty"`
	Requirements  []RequirementDoc `json:"requirements,omitempty" toml:"requirements,omitempty"`
	Holidays      []HolidayDoc     `json:"holidays,omitempty" toml:"holidays,omitempty"`
}

// EntitlementDoc lists grant days per bracket. Part-time tracks are keyed by
// weekly work days as strings, since TOML table keys are strings.
type EntitlementDoc struct {
	FullTime []float64            `json:"fulltime" toml:"fulltime"`
	PartTime map[string][]float64 `json:"parttime,omitempty" toml:"parttime,omitempty"`
}

type AgreementDoc struct {
	FiscalYear          int     `json:"fiscal_year" toml:"fiscal_year"`
	Statutory           bool    `json:"statutory,omitempty" toml:"statutory,omitempty"`
	MonthlyLimitHours   float64 `json:"monthly_limit_hours,omitempty" toml:"monthly_limit_hours,omitempty"`
	AnnualLimitHours    float64 `json:"annual_limit_hours,omitempty" toml:"annual_limit_hours,omitempty"`
	SpecialMonthlyHours float64 `json:"special_monthly_hours,omitempty" toml:"special_monthly_hours,omitempty"`
	SpecialMonths       int     `json:"special_months,omitempty" toml:"special_months,omitempty"`
	EffectiveFrom       string  `json:"effective_from,omitempty" toml:"effective_from,omitempty"`
	EffectiveTo         string  `json:"effective_to,omitempty" toml:"effective_to,omitempty"`
}

type RequirementDoc struct {
	ID            string  `json:"id" toml:"id"`
	Name          string  `json:"name,omitempty" toml:"name,omitempty"`
	Kind          string  `json:"kind" toml:"kind"`
	Count         float64 `json:"count" toml:"count"`
	Unit          string  `json:"unit,omitempty" toml:"unit,omitempty"`
	Description   string  `json:"description,omitempty" toml:"description,omitempty"`
	CapacityBased bool    `json:"capacity_based,omitempty" toml:"capacity_based,omitempty"`
	PersonnelType string  `json:"personnel_type,omitempty" toml:"personnel_type,omitempty"`
}

type HolidayDoc struct {
	Date       string `json:"date" toml:"date"`
	Name       string `json:"name" toml:"name"`
	Recurring  bool   `json:"recurring,omitempty" toml:"recurring,omitempty"`
	Workday    bool   `json:"workday,omitempty" toml:"workday,omitempty"`
	FacilityID string `json:"facility_id,omitempty" toml:"facility_id,omitempty"`
}

// =============================================================================
// POLICY - Parsed, validated form
// =============================================================================

// Policy is one validated policy version.
type Policy struct {
	Version       string
	EffectiveFrom generic.TimePoint
	Entitlement   paidleave.EntitlementTable
	Agreements    []overtime.Agreement
	Requirements  []staffing.Requirement
	Holidays      []generic.Holiday
}

// AgreementBook indexes the policy's agreements.
func (p *Policy) AgreementBook() (*overtime.AgreementBook, error) {
	return overtime.NewAgreementBook(p.Agreements...)
}

// Calendar returns the policy holidays as a calendar.
func (p *Policy) Calendar() generic.HolidayCalendar {
	return &generic.StaticCalendar{Holidays: p.Holidays}
}

// Default returns the statutory policy with no agreements or requirements.
func Default() *Policy {
	return &Policy{Version: "statutory", Entitlement: paidleave.DefaultEntitlementTable()}
}

// =============================================================================
// PARSING
// =============================================================================

// ParseJSON decodes and validates a JSON policy document.
func ParseJSON(data []byte) (*Policy, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse policy JSON: %w", err)
	}
	return FromDocument(doc)
}

// ParseTOML decodes and validates a TOML policy document.
func ParseTOML(data []byte) (*Policy, error) {
	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse policy TOML: %w", err)
	}
	return FromDocument(doc)
}

// LoadFile reads a policy file, choosing the format by extension.
func LoadFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ParseTOML(data)
	case ".json":
		return ParseJSON(data)
	default:
		return nil, fmt.Errorf("%w: unsupported policy file %s", generic.ErrInvalidPolicy, path)
	}
}

// FromDocument converts and validates a document.
func FromDocument(doc Document) (*Policy, error) {
	p := &Policy{Version: doc.Version, Entitlement: paidleave.DefaultEntitlementTable()}
	if doc.EffectiveFrom != "" {
		d, err := generic.ParseDate(doc.EffectiveFrom)
		if err != nil {
			return nil, fmt.Errorf("effective_from: %w", err)
		}
		p.EffectiveFrom = d
	}

	if doc.Entitlement != nil {
		table, err := parseEntitlement(*doc.Entitlement)
		if err != nil {
			return nil, err
		}
		table.Version = doc.Version
		p.Entitlement = table
	}
	if err := p.Entitlement.Validate(); err != nil {
		return nil, err
	}

	for _, aj := range doc.Agreements {
		a, err := ParseAgreement(aj)
		if err != nil {
			return nil, err
		}
		p.Agreements = append(p.Agreements, a)
	}
	if _, err := p.AgreementBook(); err != nil {
		return nil, err
	}

	for _, rj := range doc.Requirements {
		r, err := ParseRequirement(rj)
		if err != nil {
			return nil, err
		}
		p.Requirements = append(p.Requirements, r)
	}

	for _, hj := range doc.Holidays {
		d, err := generic.ParseDate(hj.Date)
		if err != nil {
			return nil, fmt.Errorf("holiday %q: %w", hj.Name, err)
		}
		p.Holidays = append(p.Holidays, generic.Holiday{
			ID:         fmt.Sprintf("%s-%s", hj.Date, hj.Name),
			FacilityID: generic.FacilityID(hj.FacilityID),
			Date:       d,
			Name:       hj.Name,
			Recurring:  hj.Recurring,
			Workday:    hj.Workday,
		})
	}
	return p, nil
}

func parseEntitlement(ej EntitlementDoc) (paidleave.EntitlementTable, error) {
	table := paidleave.EntitlementTable{FullTime: decimals(ej.FullTime), PartTime: make(map[int][]decimal.Decimal)}
	for key, tr := range ej.PartTime {
		days, err := strconv.Atoi(key)
		if err != nil {
			return paidleave.EntitlementTable{}, fmt.Errorf("%w: part-time key %q is not a day count", generic.ErrInvalidPolicy, key)
		}
		table.PartTime[days] = decimals(tr)
	}
	return table, nil
}

func decimals(fs []float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(fs))
	for i, f := range fs {
		out[i] = decimal.NewFromFloat(f)
	}
	return out
}

func hoursToMinutes(h float64) int {
	return int(decimal.NewFromFloat(h).Mul(decimal.NewFromInt(60)).Round(0).IntPart())
}

// ParseAgreement converts one agreement entry; statutory fills in the
// statutory ceilings.
func ParseAgreement(aj AgreementDoc) (overtime.Agreement, error) {
	a := overtime.Agreement{
		FiscalYear:                 aj.FiscalYear,
		MonthlyLimitMinutes:        hoursToMinutes(aj.MonthlyLimitHours),
		AnnualLimitMinutes:         hoursToMinutes(aj.AnnualLimitHours),
		SpecialMonthlyLimitMinutes: hoursToMinutes(aj.SpecialMonthlyHours),
		SpecialMonthsLimit:         aj.SpecialMonths,
		EffectiveFrom:              generic.FiscalYearPeriod(aj.FiscalYear).Start,
	}
	if aj.Statutory {
		s := overtime.StatutoryAgreement(aj.FiscalYear)
		if a.MonthlyLimitMinutes == 0 {
			a.MonthlyLimitMinutes = s.MonthlyLimitMinutes
		}
		if a.AnnualLimitMinutes == 0 {
			a.AnnualLimitMinutes = s.AnnualLimitMinutes
		}
		if a.SpecialMonthlyLimitMinutes == 0 {
			a.SpecialMonthlyLimitMinutes = s.SpecialMonthlyLimitMinutes
		}
		if a.SpecialMonthsLimit == 0 {
			a.SpecialMonthsLimit = s.SpecialMonthsLimit
		}
	}
	if aj.EffectiveFrom != "" {
		d, err := generic.ParseDate(aj.EffectiveFrom)
		if err != nil {
			return overtime.Agreement{}, fmt.Errorf("agreement %d effective_from: %w", aj.FiscalYear, err)
		}
		a.EffectiveFrom = d
	}
	if aj.EffectiveTo != "" {
		d, err := generic.ParseDate(aj.EffectiveTo)
		if err != nil {
			return overtime.Agreement{}, fmt.Errorf("agreement %d effective_to: %w", aj.FiscalYear, err)
		}
		a.EffectiveTo = &d
	}
	return a, nil
}

// ParseRequirement converts and validates one requirement entry.
func ParseRequirement(rj RequirementDoc) (staffing.Requirement, error) {
	kind := staffing.RequirementKind(rj.Kind)
	if !kind.Valid() {
		return staffing.Requirement{}, fmt.Errorf("%w: requirement %s has unknown kind %q", generic.ErrInvalidPolicy, rj.ID, rj.Kind)
	}
	pt := staffing.PersonnelType(rj.PersonnelType)
	if pt != "" && !pt.Valid() {
		return staffing.Requirement{}, fmt.Errorf("%w: requirement %s has unknown personnel type %q", generic.ErrInvalidPolicy, rj.ID, rj.PersonnelType)
	}
	if rj.Count < 0 {
		return staffing.Requirement{}, fmt.Errorf("%w: requirement %s has negative count", generic.ErrInvalidPolicy, rj.ID)
	}
	unit := generic.Unit(rj.Unit)
	if unit == "" {
		unit = generic.UnitPersons
		if kind == staffing.KindFTE {
			unit = generic.UnitFTE
		}
	}
	name := rj.Name
	if name == "" {
		name = rj.ID
	}
	return staffing.Requirement{
		ID:            rj.ID,
		Name:          name,
		Kind:          kind,
		RequiredCount: decimal.NewFromFloat(rj.Count),
		Unit:          unit,
		Description:   rj.Description,
		CapacityBased: rj.CapacityBased,
		PersonnelType: pt,
	}, nil
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// ToDocument converts a policy back to its serialized form.
func ToDocument(p *Policy) Document {
	doc := Document{Version: p.Version}
	if !p.EffectiveFrom.IsZero() {
		doc.EffectiveFrom = p.EffectiveFrom.String()
	}

	ej := &EntitlementDoc{FullTime: floats(p.Entitlement.FullTime), PartTime: make(map[string][]float64)}
	for days, tr := range p.Entitlement.PartTime {
		ej.PartTime[strconv.Itoa(days)] = floats(tr)
	}
	doc.Entitlement = ej

	for _, a := range p.Agreements {
		aj := AgreementDoc{
			FiscalYear:          a.FiscalYear,
			MonthlyLimitHours:   float64(a.MonthlyLimitMinutes) / 60,
			AnnualLimitHours:    float64(a.AnnualLimitMinutes) / 60,
			SpecialMonthlyHours: float64(a.SpecialMonthlyLimitMinutes) / 60,
			SpecialMonths:       a.SpecialMonthsLimit,
			EffectiveFrom:       a.EffectiveFrom.String(),
		}
		if a.EffectiveTo != nil {
			aj.EffectiveTo = a.EffectiveTo.String()
		}
		doc.Agreements = append(doc.Agreements, aj)
	}
	for _, r := range p.Requirements {
		count, _ := r.RequiredCount.Float64()
		doc.Requirements = append(doc.Requirements, RequirementDoc{
			ID:            r.ID,
			Name:          r.Name,
			Kind:          string(r.Kind),
			Count:         count,
			Unit:          string(r.Unit),
			Description:   r.Description,
			CapacityBased: r.CapacityBased,
			PersonnelType: string(r.PersonnelType),
		})
	}
	for _, h := range p.Holidays {
		doc.Holidays = append(doc.Holidays, HolidayDoc{
			Date:       h.Date.String(),
			Name:       h.Name,
			Recurring:  h.Recurring,
			Workday:    h.Workday,
			FacilityID: string(h.FacilityID),
		})
	}
	return doc
}

func floats(ds []decimal.Decimal) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		out[i], _ = d.Float64()
	}
	return out
}

// =============================================================================
// REGISTRY - Policy versions by effective date
// =============================================================================

// Registry holds several policy versions and selects the one in force.
type Registry struct {
	versions []*Policy
}

// NewRegistry orders versions by effective date.
func NewRegistry(versions ...*Policy) *Registry {
	r := &Registry{versions: append([]*Policy(nil), versions...)}
	sort.SliceStable(r.versions, func(i, j int) bool {
		return r.versions[i].EffectiveFrom.Before(r.versions[j].EffectiveFrom)
	})
	return r
}

// At returns the latest version effective on or before date, or the
// statutory default when none applies.
func (r *Registry) At(date generic.TimePoint) *Policy {
	var found *Policy
	for _, p := range r.versions {
		if p.EffectiveFrom.IsZero() || p.EffectiveFrom.BeforeOrEqual(date) {
			found = p
		}
	}
	if found == nil {
		return Default()
	}
	return found
}

// Versions returns the registered version labels in effective order.
func (r *Registry) Versions() []string {
	out := make([]string, len(r.versions))
	for i, p := range r.versions {
		out[i] = p.Version
	}
	return out
}

// LoadRegistry loads every policy file into one registry.
func LoadRegistry(paths ...string) (*Registry, error) {
	versions := make([]*Policy, 0, len(paths))
	for _, path := range paths {
		p, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		versions = append(versions, p)
	}
	return NewRegistry(versions...), nil
}

// LoadHolidayFile reads an iCalendar file of facility holidays.
func LoadHolidayFile(path string, facilityID generic.FacilityID) ([]generic.Holiday, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open holiday feed %s: %w", path, err)
	}
	defer f.Close()
	return ParseHolidayICS(f, facilityID)
}
