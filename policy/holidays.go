package policy

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/warp/personnel-engine/generic"
)

// ParseHolidayICS reads an iCalendar feed of facility holidays. Each VEVENT
// becomes one holiday on its DTSTART date; an RRULE with FREQ=YEARLY marks
// it recurring. Events without a summary or start date are skipped.
func ParseHolidayICS(r io.Reader, facilityID generic.FacilityID) ([]generic.Holiday, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parse holiday calendar: %w", err)
	}

	var holidays []generic.Holiday
	for _, evt := range cal.Events() {
		summary := evt.GetProperty(ics.ComponentPropertySummary)
		if summary == nil || strings.TrimSpace(summary.Value) == "" {
			continue
		}
		start := evt.GetProperty(ics.ComponentPropertyDtStart)
		if start == nil {
			continue
		}
		date, ok := parseICSDate(start.Value)
		if !ok {
			continue
		}

		recurring := false
		if rr := evt.GetProperty(ics.ComponentPropertyRrule); rr != nil {
			recurring = strings.Contains(strings.ToUpper(rr.Value), "FREQ=YEARLY")
		}

		id := date.String()
		if uid := evt.GetProperty(ics.ComponentPropertyUniqueId); uid != nil && uid.Value != "" {
			id = uid.Value
		}
		holidays = append(holidays, generic.Holiday{
			ID:         id,
			FacilityID: facilityID,
			Date:       date,
			Name:       strings.TrimSpace(summary.Value),
			Recurring:  recurring,
		})
	}
	return holidays, nil
}

// parseICSDate accepts DATE and DATE-TIME values and keeps the calendar
// date only.
func parseICSDate(val string) (generic.TimePoint, bool) {
	for _, layout := range []string{"20060102", "20060102T150405Z", "20060102T150405"} {
		if t, err := time.Parse(layout, val); err == nil {
			return generic.DateOf(t), true
		}
	}
	return generic.TimePoint{}, false
}
