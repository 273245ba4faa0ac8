package generic

// =============================================================================
// ACCRUAL SCHEDULE - Interface for how resources accumulate
// =============================================================================

// AccrualSchedule generates accrual events for a time range.
// Implementations define the business logic (statutory grant steps,
// fixed annual grants, ...).
type AccrualSchedule interface {
	// GenerateAccruals returns accrual events in [from, to].
	GenerateAccruals(from, to TimePoint) []AccrualEvent
}

// AccrualEvent represents a single accrual occurrence.
type AccrualEvent struct {
	At     TimePoint
	Amount Amount
	Reason string
}

// AccruedIn sums the events an accrual schedule generates inside a period.
func AccruedIn(schedule AccrualSchedule, period Period, unit Unit) Amount {
	total := NewAmount(0, unit)
	if schedule == nil {
		return total
	}
	for _, e := range schedule.GenerateAccruals(period.Start, period.End) {
		total = total.Add(e.Amount)
	}
	return total
}
