package attendance

import (
	"github.com/warp/personnel-engine/generic"
)

// AbsenceQuery selects the days to inspect for one staff member.
type AbsenceQuery struct {
	StaffID    generic.StaffID
	FacilityID generic.FacilityID
	Period     generic.Period
	Today      generic.TimePoint

	// Summaries for the staff member; days without a summary count as
	// not_started.
	Summaries []DailySummary

	// Calendar removes facility holidays. Nil means weekends only.
	Calendar generic.HolidayCalendar

	// ExcusedDays are days covered by approved leave.
	ExcusedDays []generic.TimePoint
}

// DetectAbsences lists the working days in the query period, up to and
// including today, on which the staff member never punched in.
//
// The result is informational and never feeds overtime.
func DetectAbsences(q AbsenceQuery) []generic.TimePoint {
	byDate := make(map[string]DailySummary, len(q.Summaries))
	for _, s := range q.Summaries {
		if s.StaffID == q.StaffID {
			byDate[s.Date.String()] = s
		}
	}
	excused := make(map[string]bool, len(q.ExcusedDays))
	for _, d := range q.ExcusedDays {
		excused[d.String()] = true
	}

	var absences []generic.TimePoint
	for _, day := range q.Period.Days() {
		if day.After(q.Today) {
			break
		}
		if !day.IsWorkdayWithHolidays(q.Calendar, q.FacilityID) || excused[day.String()] {
			continue
		}
		if s, ok := byDate[day.String()]; ok && s.Status != StatusNotStarted {
			continue
		}
		absences = append(absences, day)
	}
	return absences
}
