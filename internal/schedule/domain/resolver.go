package domain

import (
	"time"

	apperrors "github.com/tbhone/folies-planning/internal/platform/errors"
)

// Availability is one performer's declared willingness for a night.
type Availability struct {
	PerformerID string
	Date        time.Time
	Willing     bool
	Slot        Slot
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Assignment is a confirmed booking of one performer to one night slot.
type Assignment struct {
	ID          string
	PerformerID string
	Date        time.Time
	Slot        Slot
	Fee         int
	Notes       string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Occupancy summarizes which slots are already booked on a night.
type Occupancy struct {
	HasWarmup   bool
	HasPeaktime bool
	HasComplete bool
}

// OccupancyOf derives slot occupancy from a night's existing assignments.
func OccupancyOf(assignments []Assignment) Occupancy {
	var occ Occupancy
	for _, assignment := range assignments {
		switch assignment.Slot {
		case SlotWarmup:
			occ.HasWarmup = true
		case SlotPeaktime:
			occ.HasPeaktime = true
		case SlotComplete:
			occ.HasComplete = true
		}
	}
	return occ
}

// ResolveSlot decides which slot a declared availability actually books,
// given the night's occupancy.
//
// A complete declaration downgrades to the remaining half-slot when only one
// half is open, and is rejected when the night is full. Half-slot
// declarations book their own slot or fail on occupancy.
func ResolveSlot(declared Slot, occ Occupancy) (Slot, error) {
	if occ.HasComplete {
		return "", apperrors.New(apperrors.CodeCompleteNightConflict, "complete night already assigned")
	}

	actual := declared
	switch declared {
	case SlotComplete:
		switch {
		case occ.HasWarmup && occ.HasPeaktime:
			return "", apperrors.WithMetadata(apperrors.CodeSlotConflict, "no room left on this night", map[string]string{"slot": string(declared)})
		case occ.HasWarmup:
			actual = SlotPeaktime
		case occ.HasPeaktime:
			actual = SlotWarmup
		}
	case SlotWarmup:
		if occ.HasWarmup {
			return "", apperrors.WithMetadata(apperrors.CodeSlotConflict, "warmup already assigned", map[string]string{"slot": string(SlotWarmup)})
		}
	case SlotPeaktime:
		if occ.HasPeaktime {
			return "", apperrors.WithMetadata(apperrors.CodeSlotConflict, "peaktime already assigned", map[string]string{"slot": string(SlotPeaktime)})
		}
	default:
		return "", apperrors.WithMetadata(apperrors.CodeInvalidSlot, "unrecognized slot", map[string]string{"slot": string(declared)})
	}

	// Re-check the resolved slot against occupancy before committing.
	if (actual == SlotWarmup && occ.HasWarmup) || (actual == SlotPeaktime && occ.HasPeaktime) {
		return "", apperrors.WithMetadata(apperrors.CodeSlotConflict, string(actual)+" already assigned", map[string]string{"slot": string(actual)})
	}
	return actual, nil
}
