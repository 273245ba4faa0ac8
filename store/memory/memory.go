// Package memory provides an in-memory report.Store for tests and demos.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/warp/personnel-engine/attendance"
	"github.com/warp/personnel-engine/generic"
	"github.com/warp/personnel-engine/overtime"
	"github.com/warp/personnel-engine/paidleave"
	"github.com/warp/personnel-engine/report"
	"github.com/warp/personnel-engine/roster"
	"github.com/warp/personnel-engine/staffing"
)

var _ report.Store = (*Store)(nil)

type balanceKey struct {
	StaffID    generic.StaffID
	FiscalYear int
}

type Store struct {
	mu sync.RWMutex

	staff        map[generic.StaffID]roster.StaffMember
	punches      map[generic.StaffID][]attendance.Punch // sorted by date then clock
	balances     map[balanceKey]paidleave.Balance
	requests     map[string]paidleave.Request
	settings     map[generic.FacilityID]map[generic.StaffID]staffing.PersonnelSetting
	agreements   map[generic.FacilityID]map[int]overtime.Agreement
	requirements map[generic.FacilityID][]staffing.Requirement
	facilities   map[generic.FacilityID]report.Facility
	holidays     map[string]generic.Holiday
	reports      map[string]report.MonthlyReport
}

func New() *Store {
	return &Store{
		staff:        make(map[generic.StaffID]roster.StaffMember),
		punches:      make(map[generic.StaffID][]attendance.Punch),
		balances:     make(map[balanceKey]paidleave.Balance),
		requests:     make(map[string]paidleave.Request),
		settings:     make(map[generic.FacilityID]map[generic.StaffID]staffing.PersonnelSetting),
		agreements:   make(map[generic.FacilityID]map[int]overtime.Agreement),
		requirements: make(map[generic.FacilityID][]staffing.Requirement),
		facilities:   make(map[generic.FacilityID]report.Facility),
		holidays:     make(map[string]generic.Holiday),
		reports:      make(map[string]report.MonthlyReport),
	}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, generic.ErrNotFound)
}

// =============================================================================
// STAFF
// =============================================================================

func (s *Store) ListStaff(_ context.Context, facilityID generic.FacilityID) ([]roster.StaffMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []roster.StaffMember{}
	for _, m := range s.staff {
		if m.FacilityID == facilityID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetStaff(_ context.Context, id generic.StaffID) (roster.StaffMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.staff[id]
	if !ok {
		return roster.StaffMember{}, notFound("staff", string(id))
	}
	return m, nil
}

func (s *Store) SaveStaff(_ context.Context, m roster.StaffMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staff[m.ID] = m
	return nil
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func (s *Store) ListPunches(_ context.Context, staffID generic.StaffID, period generic.Period) ([]attendance.Punch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []attendance.Punch{}
	for _, p := range s.punches[staffID] {
		if period.Contains(p.Date) {
			out = append(out, p)
		}
	}
	return out, nil
}

// AddPunch inserts in (date, clock) order; equal keys keep arrival order.
func (s *Store) AddPunch(_ context.Context, p attendance.Punch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps := s.punches[p.StaffID]
	i := sort.Search(len(ps), func(i int) bool {
		if ps[i].Date.Equal(p.Date) {
			return ps[i].Time > p.Time
		}
		return ps[i].Date.After(p.Date)
	})
	ps = append(ps, attendance.Punch{})
	copy(ps[i+1:], ps[i:])
	ps[i] = p
	s.punches[p.StaffID] = ps
	return nil
}

// =============================================================================
// LEAVE
// =============================================================================

func (s *Store) ListBalances(_ context.Context, staffID generic.StaffID) ([]paidleave.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []paidleave.Balance{}
	for k, b := range s.balances {
		if k.StaffID == staffID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FiscalYear < out[j].FiscalYear })
	return out, nil
}

func (s *Store) SaveBalance(_ context.Context, b paidleave.Balance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[balanceKey{b.StaffID, b.FiscalYear}] = b
	return nil
}

func (s *Store) ListRequests(_ context.Context, staffID generic.StaffID) ([]paidleave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []paidleave.Request{}
	for _, r := range s.requests {
		if r.StaffID == staffID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out, nil
}

func (s *Store) GetRequest(_ context.Context, id string) (paidleave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requests[id]
	if !ok {
		return paidleave.Request{}, notFound("leave request", id)
	}
	return r, nil
}

func (s *Store) SaveRequest(_ context.Context, r paidleave.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[r.ID] = r
	return nil
}

// =============================================================================
// FACILITY SETTINGS
// =============================================================================

func (s *Store) ListPersonnelSettings(_ context.Context, facilityID generic.FacilityID) ([]staffing.PersonnelSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []staffing.PersonnelSetting{}
	for _, ps := range s.settings[facilityID] {
		out = append(out, ps)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StaffID < out[j].StaffID })
	return out, nil
}

func (s *Store) SavePersonnelSetting(_ context.Context, facilityID generic.FacilityID, ps staffing.PersonnelSetting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings[facilityID] == nil {
		s.settings[facilityID] = make(map[generic.StaffID]staffing.PersonnelSetting)
	}
	s.settings[facilityID][ps.StaffID] = ps
	return nil
}

func (s *Store) ListAgreements(_ context.Context, facilityID generic.FacilityID) ([]overtime.Agreement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []overtime.Agreement{}
	for _, a := range s.agreements[facilityID] {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FiscalYear < out[j].FiscalYear })
	return out, nil
}

func (s *Store) SaveAgreement(_ context.Context, facilityID generic.FacilityID, a overtime.Agreement) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.agreements[facilityID] == nil {
		s.agreements[facilityID] = make(map[int]overtime.Agreement)
	}
	s.agreements[facilityID][a.FiscalYear] = a
	return nil
}

func (s *Store) ListRequirements(_ context.Context, facilityID generic.FacilityID) ([]staffing.Requirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]staffing.Requirement{}, s.requirements[facilityID]...), nil
}

// SaveRequirement replaces a requirement with the same ID or appends it.
func (s *Store) SaveRequirement(_ context.Context, facilityID generic.FacilityID, r staffing.Requirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	reqs := s.requirements[facilityID]
	for i := range reqs {
		if reqs[i].ID == r.ID {
			reqs[i] = r
			return nil
		}
	}
	s.requirements[facilityID] = append(reqs, r)
	return nil
}

func (s *Store) GetFacility(_ context.Context, id generic.FacilityID) (report.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.facilities[id]
	if !ok {
		return report.Facility{}, notFound("facility", string(id))
	}
	return f, nil
}

func (s *Store) ListFacilities(_ context.Context) ([]report.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []report.Facility{}
	for _, f := range s.facilities {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SaveFacility(_ context.Context, f report.Facility) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facilities[f.ID] = f
	return nil
}

func (s *Store) ListHolidays(_ context.Context, facilityID generic.FacilityID) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []generic.Holiday{}
	for _, h := range s.holidays {
		if h.FacilityID == facilityID || h.FacilityID == "" {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) SaveHoliday(_ context.Context, h generic.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holidays[string(h.FacilityID)+"/"+h.ID] = h
	return nil
}

// =============================================================================
// REPORTS
// =============================================================================

// SaveReport stores a copy; later changes to r are not visible until saved
// again.
func (s *Store) SaveReport(_ context.Context, r *report.MonthlyReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = *r
	return nil
}

func (s *Store) GetReport(_ context.Context, id string) (*report.MonthlyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, notFound("report", id)
	}
	return &r, nil
}

func (s *Store) ListReports(_ context.Context, facilityID generic.FacilityID) ([]*report.MonthlyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*report.MonthlyReport{}
	for _, r := range s.reports {
		if r.FacilityID == facilityID {
			r := r
			out = append(out, &r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].GeneratedAt.Before(out[j].GeneratedAt)
	})
	return out, nil
}
