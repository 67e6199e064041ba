package domain

import "time"

// Reminder lead times and alert window, in days. The external scheduler
// invokes the checks once per day; the predicates themselves hold no
// already-sent memory.
const (
	ReminderLeadLong  = 7
	ReminderLeadShort = 1
	AdminAlertWindow  = 14
)

// ReminderDue reports whether a booking reminder is due today for an
// assignment, at the given lead time. Reminders only fire for show nights
// (Thursday through Saturday); other weekdays are silently skipped.
func ReminderDue(assignmentDate time.Time, today time.Time, leadDays int) bool {
	if !IsShowNight(assignmentDate) {
		return false
	}
	return DaysUntil(assignmentDate, today) == leadDays
}

// AdminAlertDue reports whether the coordinator should be alerted that a
// night cannot be staffed: the night has no complete booking, is not covered
// by both half-slots, and at least one still-needed half has zero willing
// performers (complete willingness counts toward both halves via the tally).
func AdminAlertDue(occ Occupancy, tally SlotTally) bool {
	if occ.HasComplete {
		return false
	}
	if occ.HasWarmup && occ.HasPeaktime {
		return false
	}
	needsWarmup := !occ.HasWarmup && tally.Warmup == 0
	needsPeaktime := !occ.HasPeaktime && tally.Peaktime == 0
	return needsWarmup || needsPeaktime
}

// AlertWindow returns the show nights within the alert window, today
// included, in ascending order. Tonight's show is the most urgent gap to
// staff, so the window never skips it.
func AlertWindow(today time.Time, windowDays int) []time.Time {
	if windowDays <= 0 {
		windowDays = AdminAlertWindow
	}
	start := DateOnly(today)
	var nights []time.Time
	for offset := 0; offset <= windowDays; offset++ {
		date := start.AddDate(0, 0, offset)
		if IsShowNight(date) {
			nights = append(nights, date)
		}
	}
	return nights
}
