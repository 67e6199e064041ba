package service

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/tbhone/folies-planning/internal/platform/errors"
	"github.com/tbhone/folies-planning/internal/schedule/domain"
	"github.com/tbhone/folies-planning/internal/schedule/storage"
)

// SetAvailabilityInput describes one willingness declaration.
type SetAvailabilityInput struct {
	PerformerID string
	Date        string
	Willing     bool
	Slot        string
	Notes       string
}

// SetAvailability upserts a performer's willingness for a night. Declarations
// on past dates are rejected, and a declaration cannot change once the
// performer is booked for that night.
func (s *Service) SetAvailability(ctx context.Context, input SetAvailabilityInput) (domain.Availability, error) {
	date, err := domain.ParseDate(input.Date)
	if err != nil {
		return domain.Availability{}, err
	}
	today := s.clock()
	if domain.IsPast(date, today) {
		return domain.Availability{}, apperrors.WithMetadata(apperrors.CodePastDate, "cannot declare availability for a past date", map[string]string{"date": input.Date})
	}

	var slot domain.Slot
	if input.Willing {
		slot, err = domain.ParseSlot(input.Slot)
		if err != nil {
			return domain.Availability{}, err
		}
	}

	performer, err := s.GetPerformer(ctx, input.PerformerID)
	if err != nil {
		return domain.Availability{}, err
	}
	if performer.Status != domain.PerformerStatusActive {
		return domain.Availability{}, apperrors.New(apperrors.CodePerformerInactive, "performer account is not active")
	}

	booked, err := s.store.ListAssignmentsByPerformerAndDate(ctx, performer.ID, date)
	if err != nil {
		return domain.Availability{}, fmt.Errorf("check existing bookings: %w", err)
	}
	if len(booked) > 0 {
		return domain.Availability{}, apperrors.WithMetadata(apperrors.CodeAvailabilityLocked, "availability is locked by an existing booking", map[string]string{"date": input.Date})
	}

	now := s.clock().UTC()
	availability := domain.Availability{
		PerformerID: performer.ID,
		Date:        date,
		Willing:     input.Willing,
		Slot:        slot,
		Notes:       input.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if existing, getErr := s.store.GetAvailability(ctx, performer.ID, date); getErr == nil {
		availability.CreatedAt = existing.CreatedAt
	} else if !errors.Is(getErr, storage.ErrNotFound) {
		return domain.Availability{}, fmt.Errorf("load existing availability: %w", getErr)
	}

	if err := s.store.UpsertAvailability(ctx, storage.AvailabilityRecord{
		PerformerID: availability.PerformerID,
		Date:        availability.Date,
		Willing:     availability.Willing,
		Slot:        string(availability.Slot),
		Notes:       availability.Notes,
		CreatedAt:   availability.CreatedAt,
		UpdatedAt:   availability.UpdatedAt,
	}); err != nil {
		return domain.Availability{}, fmt.Errorf("store availability: %w", err)
	}
	return availability, nil
}

// GetAvailability loads one performer's declaration for a night.
func (s *Service) GetAvailability(ctx context.Context, performerID string, rawDate string) (domain.Availability, error) {
	date, err := domain.ParseDate(rawDate)
	if err != nil {
		return domain.Availability{}, err
	}
	record, err := s.store.GetAvailability(ctx, performerID, date)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Availability{}, apperrors.New(apperrors.CodeNotFound, "availability not found")
		}
		return domain.Availability{}, fmt.Errorf("load availability: %w", err)
	}
	return availabilityFromRecord(record), nil
}
