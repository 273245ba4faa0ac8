package staffing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/personnel-engine/generic"
)

var (
	one            = decimal.NewFromInt(1)
	concurrentFTE  = decimal.RequireFromString("0.75")
	baseCapacity   = 10
	capacityStride = 5
)

// CalculateFTE returns the full-time equivalent of one member, always in
// [0, 1]. Dedicated full-time is exactly 1 whatever the contracted hours.
func CalculateFTE(style WorkStyle, contractedWeeklyHours *float64, standardWeeklyHours float64) decimal.Decimal {
	switch style {
	case WorkFullTimeDedicated:
		return one
	case WorkFullTimeConcurrent:
		return concurrentFTE
	case WorkPartTime:
		if contractedWeeklyHours == nil || *contractedWeeklyHours <= 0 || standardWeeklyHours <= 0 {
			return decimal.Zero
		}
		fte := decimal.NewFromFloat(*contractedWeeklyHours).Div(decimal.NewFromFloat(standardWeeklyHours))
		return decimal.Min(fte, one)
	default:
		return decimal.Zero
	}
}

// RequiredHeadcount applies the capacity step: base up to a capacity of 10,
// then one more per started block of 5.
func RequiredHeadcount(base, capacity int) int {
	extra := max(0, capacity-baseCapacity)
	return base + (extra+capacityStride-1)/capacityStride
}

// StatusFor classifies current against required: met is ok, at most one
// short is warning, anything worse is critical. For FTE requirements any
// fractional shortfall up to one full FTE is a warning.
func StatusFor(current, required decimal.Decimal) generic.Status {
	switch {
	case current.GreaterThanOrEqual(required):
		return generic.StatusOK
	case current.GreaterThanOrEqual(required.Sub(one)):
		return generic.StatusWarning
	default:
		return generic.StatusCritical
	}
}

// =============================================================================
// HEADCOUNT
// =============================================================================

// Tally is a member count with its FTE total.
type Tally struct {
	Count int
	FTE   decimal.Decimal
}

func (t Tally) add(fte decimal.Decimal) Tally {
	return Tally{Count: t.Count + 1, FTE: t.FTE.Add(fte)}
}

// Headcount aggregates a facility's personnel settings.
type Headcount struct {
	Total           Tally
	ByPersonnelType map[PersonnelType]Tally
	ByWorkStyle     map[WorkStyle]Tally
	Managers        int
	ServiceManagers int
}

// Aggregate counts members and sums FTE by personnel type and work style.
func Aggregate(settings []PersonnelSetting, standardWeeklyHours float64) Headcount {
	h := Headcount{
		Total:           Tally{FTE: decimal.Zero},
		ByPersonnelType: make(map[PersonnelType]Tally),
		ByWorkStyle:     make(map[WorkStyle]Tally),
	}
	for _, s := range settings {
		fte := CalculateFTE(s.WorkStyle, s.ContractedWeeklyHours, standardWeeklyHours)
		h.Total = h.Total.add(fte)
		h.ByPersonnelType[s.PersonnelType] = h.ByPersonnelType[s.PersonnelType].add(fte)
		h.ByWorkStyle[s.WorkStyle] = h.ByWorkStyle[s.WorkStyle].add(fte)
		if s.IsManager {
			h.Managers++
		}
		if s.IsServiceManager {
			h.ServiceManagers++
		}
	}
	return h
}

// =============================================================================
// EVALUATE
// =============================================================================

// Evaluate checks every requirement against the settings. The overall status
// is the worst individual status; no requirements means ok.
func Evaluate(settings []PersonnelSetting, requirements []Requirement, f Facility) (ComplianceReport, error) {
	standard := f.StandardWeeklyHours
	if standard <= 0 {
		standard = DefaultStandardWeeklyHours
	}

	report := ComplianceReport{
		FacilityID:    f.ID,
		Headcount:     Aggregate(settings, standard),
		OverallStatus: generic.StatusOK,
	}
	for _, req := range requirements {
		if !req.Kind.Valid() {
			return ComplianceReport{}, fmt.Errorf("%w: requirement %s has unknown kind %q", generic.ErrInvalidPolicy, req.ID, req.Kind)
		}
		if req.RequiredCount.IsNegative() {
			return ComplianceReport{}, fmt.Errorf("%w: requirement %s has negative count", generic.ErrInvalidPolicy, req.ID)
		}

		required := req.RequiredCount
		if req.CapacityBased {
			required = required.Add(decimal.NewFromInt(int64(RequiredHeadcount(0, f.Capacity))))
		}
		current := currentFor(req, settings, standard)
		status := StatusFor(current, required)

		report.Records = append(report.Records, ComplianceRecord{
			Requirement: req,
			Current:     current,
			Required:    required,
			Status:      status,
		})
		report.OverallStatus = generic.Worst(report.OverallStatus, status)
	}
	return report, nil
}

func currentFor(req Requirement, settings []PersonnelSetting, standard float64) decimal.Decimal {
	total := decimal.Zero
	for _, s := range settings {
		if req.PersonnelType != "" && s.PersonnelType != req.PersonnelType {
			continue
		}
		switch req.Kind {
		case KindHeadcount:
			total = total.Add(one)
		case KindFTE:
			total = total.Add(CalculateFTE(s.WorkStyle, s.ContractedWeeklyHours, standard))
		case KindFullTimeDedicated:
			if s.WorkStyle == WorkFullTimeDedicated {
				total = total.Add(one)
			}
		case KindManager:
			if s.IsManager {
				total = total.Add(one)
			}
		case KindServiceManager:
			if s.IsServiceManager {
				total = total.Add(one)
			}
		}
	}
	return total
}
