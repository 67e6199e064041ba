package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	apperrors "github.com/tbhone/folies-planning/internal/platform/errors"
	"github.com/tbhone/folies-planning/internal/schedule/domain"
	"github.com/tbhone/folies-planning/internal/schedule/storage"
)

// AssignInput describes one assignment attempt.
type AssignInput struct {
	PerformerID string
	Date        string
	Notes       string
	CreatedBy   string
}

// Assign books a performer onto a night, resolving the actual slot from the
// performer's declared willingness and the night's occupancy. The declared
// slot may downgrade to the remaining half when only one half is open. The
// booking fee is fixed from the night and the actual slot at booking time.
func (s *Service) Assign(ctx context.Context, input AssignInput) (domain.Assignment, error) {
	date, err := domain.ParseDate(input.Date)
	if err != nil {
		return domain.Assignment{}, err
	}
	today := s.clock()
	if domain.IsPast(date, today) {
		return domain.Assignment{}, apperrors.WithMetadata(apperrors.CodePastDate, "cannot assign a past date", map[string]string{"date": input.Date})
	}

	performer, err := s.GetPerformer(ctx, input.PerformerID)
	if err != nil {
		return domain.Assignment{}, err
	}
	if performer.Status != domain.PerformerStatusActive {
		return domain.Assignment{}, apperrors.New(apperrors.CodePerformerInactive, "performer account is not active")
	}

	availabilityRecord, err := s.store.GetAvailability(ctx, performer.ID, date)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Assignment{}, apperrors.WithMetadata(apperrors.CodeNotAvailable, "performer has not declared availability for this date", map[string]string{"date": input.Date})
		}
		return domain.Assignment{}, fmt.Errorf("load availability: %w", err)
	}
	availability := availabilityFromRecord(availabilityRecord)
	if !availability.Willing {
		return domain.Assignment{}, apperrors.WithMetadata(apperrors.CodeNotAvailable, "performer is not willing to play this date", map[string]string{"date": input.Date})
	}

	actual, err := s.resolveNight(ctx, date, availability.Slot)
	if err != nil {
		return domain.Assignment{}, err
	}

	assignmentID, err := s.idGenerator()
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("generate assignment id: %w", err)
	}

	now := s.clock().UTC()
	assignment := domain.Assignment{
		ID:          assignmentID,
		PerformerID: performer.ID,
		Date:        date,
		Slot:        actual,
		Fee:         domain.Fee(date, actual),
		Notes:       input.Notes,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateAssignment(ctx, storage.AssignmentRecord{
		ID:          assignment.ID,
		PerformerID: assignment.PerformerID,
		Date:        assignment.Date,
		Slot:        string(assignment.Slot),
		Fee:         assignment.Fee,
		Notes:       assignment.Notes,
		CreatedBy:   assignment.CreatedBy,
		CreatedAt:   assignment.CreatedAt,
		UpdatedAt:   assignment.UpdatedAt,
	}); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			// A concurrent writer won the night. Re-resolve against fresh
			// occupancy so the caller sees the precise rejection.
			if _, resolveErr := s.resolveNight(ctx, date, availability.Slot); resolveErr != nil {
				return domain.Assignment{}, resolveErr
			}
			return domain.Assignment{}, apperrors.WithMetadata(apperrors.CodeSlotConflict, "slot was booked concurrently", map[string]string{"slot": string(actual)})
		}
		return domain.Assignment{}, fmt.Errorf("store assignment: %w", err)
	}

	if s.notifier != nil {
		if notifyErr := s.notifier.NotifyAssignment(ctx, performer, assignment); notifyErr != nil {
			log.Printf("notify assignment %s: %v", assignment.ID, notifyErr)
		}
	}
	return assignment, nil
}

func (s *Service) resolveNight(ctx context.Context, date time.Time, declared domain.Slot) (domain.Slot, error) {
	records, err := s.store.ListAssignmentsByDate(ctx, date)
	if err != nil {
		return "", fmt.Errorf("list night assignments: %w", err)
	}
	return domain.ResolveSlot(declared, domain.OccupancyOf(assignmentsFromRecords(records)))
}

// Unassign removes a booking. The slot is optional when the night has exactly
// one booking; with several bookings the caller must name the slot.
func (s *Service) Unassign(ctx context.Context, rawDate string, rawSlot string) error {
	date, err := domain.ParseDate(rawDate)
	if err != nil {
		return err
	}

	slot := rawSlot
	if strings.TrimSpace(slot) == "" {
		records, listErr := s.store.ListAssignmentsByDate(ctx, date)
		if listErr != nil {
			return fmt.Errorf("list night assignments: %w", listErr)
		}
		switch len(records) {
		case 0:
			return apperrors.WithMetadata(apperrors.CodeNotFound, "no booking on this date", map[string]string{"date": rawDate})
		case 1:
			slot = records[0].Slot
		default:
			return apperrors.WithMetadata(apperrors.CodeValidation, "several bookings on this date, name the slot to remove", map[string]string{"date": rawDate})
		}
	} else {
		parsed, parseErr := domain.ParseSlot(slot)
		if parseErr != nil {
			return parseErr
		}
		slot = string(parsed)
	}

	if err := s.store.DeleteAssignment(ctx, date, slot); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.WithMetadata(apperrors.CodeNotFound, "no booking for this date and slot", map[string]string{"date": rawDate, "slot": slot})
		}
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}

// NightAssignments lists the bookings for one night.
func (s *Service) NightAssignments(ctx context.Context, rawDate string) ([]domain.Assignment, error) {
	date, err := domain.ParseDate(rawDate)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListAssignmentsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list night assignments: %w", err)
	}
	return assignmentsFromRecords(records), nil
}
