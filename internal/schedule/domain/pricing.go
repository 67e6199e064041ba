package domain

import "time"

// Fee returns the fixed fee in euros for one night and slot.
//
// Fees depend only on the weekday band (Thursday; Friday/Saturday; other
// days) and the slot. An unrecognized slot prices at 0 rather than failing;
// callers validate slots before pricing.
func Fee(date time.Time, slot Slot) int {
	switch date.Weekday() {
	case time.Thursday:
		switch slot {
		case SlotComplete:
			return 120
		case SlotWarmup:
			return 40
		case SlotPeaktime:
			return 80
		}
	case time.Friday, time.Saturday:
		switch slot {
		case SlotComplete:
			return 200
		case SlotWarmup:
			return 50
		case SlotPeaktime:
			return 150
		}
	default:
		switch slot {
		case SlotComplete:
			return 100
		case SlotWarmup:
			return 30
		case SlotPeaktime:
			return 70
		}
	}
	return 0
}
