package attendance

import (
	"sort"

	"github.com/warp/personnel-engine/generic"
)

// Summarize builds the summary for one (staff, date) pair.
//
// The first punch of each kind wins. Worked minutes are zero unless both a
// start and an end exist; otherwise they are (end - start) minus a complete
// break, floored at zero so a break longer than the shift or an end before
// the start never yields negative time.
func Summarize(punches []Punch, staffID generic.StaffID, date generic.TimePoint) DailySummary {
	s := DailySummary{StaffID: staffID, Date: date}
	for _, p := range punches {
		if p.StaffID != staffID || !p.Date.Equal(date) {
			continue
		}
		t := p.Time
		switch p.Kind {
		case PunchStart:
			if s.Start == nil {
				s.Start = &t
			}
		case PunchEnd:
			if s.End == nil {
				s.End = &t
			}
		case PunchBreakStart:
			if s.BreakStart == nil {
				s.BreakStart = &t
			}
		case PunchBreakEnd:
			if s.BreakEnd == nil {
				s.BreakEnd = &t
			}
		}
	}

	s.Status = statusOf(s)
	s.WorkedMinutes = workedMinutes(s)
	return s
}

func statusOf(s DailySummary) Status {
	switch {
	case s.End != nil:
		return StatusCompleted
	case s.BreakStart != nil && s.BreakEnd == nil:
		return StatusOnBreak
	case s.Start != nil:
		return StatusWorking
	default:
		return StatusNotStarted
	}
}

func workedMinutes(s DailySummary) int {
	if s.Start == nil || s.End == nil {
		return 0
	}
	raw := generic.MinutesBetween(*s.Start, *s.End)
	if s.BreakStart != nil && s.BreakEnd != nil {
		raw -= generic.MinutesBetween(*s.BreakStart, *s.BreakEnd)
	}
	return max(0, raw)
}

// SummarizeRange returns one summary per day of the period for a staff
// member, including not_started days with no punches.
func SummarizeRange(punches []Punch, staffID generic.StaffID, period generic.Period) []DailySummary {
	byDate := groupByDate(punches, staffID)
	days := period.Days()
	out := make([]DailySummary, 0, len(days))
	for _, d := range days {
		out = append(out, Summarize(byDate[d.String()], staffID, d))
	}
	return out
}

// SummarizeAll summarizes every (staff, date) pair that has at least one
// punch, ordered by staff then date.
func SummarizeAll(punches []Punch) []DailySummary {
	type pair struct {
		staff generic.StaffID
		date  string
	}
	groups := make(map[pair][]Punch)
	var keys []pair
	for _, p := range punches {
		k := pair{p.StaffID, p.Date.String()}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], p)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].staff != keys[j].staff {
			return keys[i].staff < keys[j].staff
		}
		return keys[i].date < keys[j].date
	})

	out := make([]DailySummary, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		out = append(out, Summarize(g, k.staff, g[0].Date))
	}
	return out
}

func groupByDate(punches []Punch, staffID generic.StaffID) map[string][]Punch {
	byDate := make(map[string][]Punch)
	for _, p := range punches {
		if p.StaffID == staffID {
			byDate[p.Date.String()] = append(byDate[p.Date.String()], p)
		}
	}
	return byDate
}
