package domain

import (
	"sort"
	"time"
)

// DayStatus is a performer-facing calendar day classification.
type DayStatus string

const (
	// DayStatusPast marks a day before today.
	DayStatusPast DayStatus = "past"
	// DayStatusAssigned marks a day the performer is booked.
	DayStatusAssigned DayStatus = "assigned"
	// DayStatusAvailable marks a day the performer declared willing but is
	// not yet booked.
	DayStatusAvailable DayStatus = "available"
	// DayStatusUnavailable marks a day without a willing declaration.
	DayStatusUnavailable DayStatus = "unavailable"
)

// AdminDayStatus is a coordinator-facing calendar day classification.
type AdminDayStatus string

const (
	// AdminDayAssigned marks a day with at least one assignment.
	AdminDayAssigned AdminDayStatus = "assigned"
	// AdminDayPast marks an unbooked day before today.
	AdminDayPast AdminDayStatus = "past"
	// AdminDayMultiple marks an unbooked day with several willing performers.
	AdminDayMultiple AdminDayStatus = "multiple"
	// AdminDaySingle marks an unbooked day with exactly one willing performer.
	AdminDaySingle AdminDayStatus = "single"
	// AdminDayNone marks an unbooked day with no willing performers.
	AdminDayNone AdminDayStatus = "none"
)

// PerformerDayStatus classifies one calendar day from a performer's viewpoint.
func PerformerDayStatus(date time.Time, today time.Time, assigned bool, willing bool) DayStatus {
	switch {
	case IsPast(date, today):
		return DayStatusPast
	case assigned:
		return DayStatusAssigned
	case willing:
		return DayStatusAvailable
	default:
		return DayStatusUnavailable
	}
}

// AdminDayStatusOf classifies one calendar day from the coordinator's
// viewpoint. An assignment dominates; otherwise past days stay past and open
// days grade by how many distinct performers are willing.
func AdminDayStatusOf(date time.Time, today time.Time, assignmentCount int, willingCount int) AdminDayStatus {
	switch {
	case assignmentCount > 0:
		return AdminDayAssigned
	case IsPast(date, today):
		return AdminDayPast
	case willingCount > 1:
		return AdminDayMultiple
	case willingCount == 1:
		return AdminDaySingle
	default:
		return AdminDayNone
	}
}

// SlotTally counts willing performers per slot for one night. Complete
// willingness counts toward both half-slot tallies.
type SlotTally struct {
	Warmup   int
	Peaktime int
	Complete int
}

// TallyWilling aggregates willing declarations for one night into per-slot
// counts.
func TallyWilling(availabilities []Availability) SlotTally {
	var tally SlotTally
	for _, availability := range availabilities {
		if !availability.Willing {
			continue
		}
		switch availability.Slot {
		case SlotWarmup:
			tally.Warmup++
		case SlotPeaktime:
			tally.Peaktime++
		case SlotComplete:
			tally.Warmup++
			tally.Peaktime++
			tally.Complete++
		}
	}
	return tally
}

// ConflictDates returns the dates in ascending order where more than one
// distinct performer is willing and no assignment exists yet.
func ConflictDates(availabilities []Availability, assignments []Assignment) []time.Time {
	assigned := make(map[string]bool)
	for _, assignment := range assignments {
		assigned[FormatDate(assignment.Date)] = true
	}

	willingByDate := make(map[string]map[string]bool)
	for _, availability := range availabilities {
		if !availability.Willing {
			continue
		}
		key := FormatDate(availability.Date)
		if assigned[key] {
			continue
		}
		if willingByDate[key] == nil {
			willingByDate[key] = make(map[string]bool)
		}
		willingByDate[key][availability.PerformerID] = true
	}

	var conflicts []time.Time
	for key, performers := range willingByDate {
		if len(performers) < 2 {
			continue
		}
		date, err := ParseDate(key)
		if err != nil {
			continue
		}
		conflicts = append(conflicts, date)
	}
	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].Before(conflicts[j]) })
	return conflicts
}

// Candidate is one performer still bookable for an open slot on a night.
type Candidate struct {
	PerformerID  string
	DeclaredSlot Slot
	// ActualSlot is the slot the performer would actually be assigned,
	// after downgrade when only one half of the night remains open.
	ActualSlot Slot
}

// DayCandidates lists the performers still eligible for an open slot on one
// night, applying the same downgrade rules as assignment resolution and
// excluding performers already booked that night. A complete-night booking
// leaves no candidates.
func DayCandidates(availabilities []Availability, assignments []Assignment) []Candidate {
	occ := OccupancyOf(assignments)
	if occ.HasComplete {
		return nil
	}

	alreadyBooked := make(map[string]bool, len(assignments))
	for _, assignment := range assignments {
		alreadyBooked[assignment.PerformerID] = true
	}

	var candidates []Candidate
	for _, availability := range availabilities {
		if !availability.Willing || alreadyBooked[availability.PerformerID] {
			continue
		}
		actual, err := ResolveSlot(availability.Slot, occ)
		if err != nil {
			continue
		}
		candidates = append(candidates, Candidate{
			PerformerID:  availability.PerformerID,
			DeclaredSlot: availability.Slot,
			ActualSlot:   actual,
		})
	}
	return candidates
}
