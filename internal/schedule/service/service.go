// Package service orchestrates schedule operations against the persistence
// boundary: performer lifecycle, availability declarations, slot assignment,
// calendar projection and reminder checks.
package service

import (
	"context"
	"time"

	"github.com/tbhone/folies-planning/internal/platform/id"
	"github.com/tbhone/folies-planning/internal/schedule/domain"
	"github.com/tbhone/folies-planning/internal/schedule/storage"
)

// Notifier receives best-effort notifications for schedule events. Delivery
// failures never fail the triggering operation.
type Notifier interface {
	NotifyAssignment(ctx context.Context, performer domain.Performer, assignment domain.Assignment) error
}

// Service coordinates schedule operations.
type Service struct {
	store       storage.Store
	notifier    Notifier
	clock       func() time.Time
	idGenerator func() (string, error)
}

// New creates a Service with default clock and ID generation. The notifier is
// optional.
func New(store storage.Store, notifier Notifier) *Service {
	return &Service{
		store:       store,
		notifier:    notifier,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
}

func performerFromRecord(record storage.PerformerRecord) domain.Performer {
	return domain.Performer{
		ID:           record.ID,
		Username:     record.Username,
		Email:        record.Email,
		StageName:    record.StageName,
		Phone:        record.Phone,
		Admin:        record.Admin,
		Status:       domain.PerformerStatus(record.Status),
		PasswordHash: record.PasswordHash,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}

func performerToRecord(performer domain.Performer) storage.PerformerRecord {
	return storage.PerformerRecord{
		ID:           performer.ID,
		Username:     performer.Username,
		Email:        performer.Email,
		StageName:    performer.StageName,
		Phone:        performer.Phone,
		Admin:        performer.Admin,
		Status:       string(performer.Status),
		PasswordHash: performer.PasswordHash,
		CreatedAt:    performer.CreatedAt,
		UpdatedAt:    performer.UpdatedAt,
	}
}

func availabilityFromRecord(record storage.AvailabilityRecord) domain.Availability {
	return domain.Availability{
		PerformerID: record.PerformerID,
		Date:        record.Date,
		Willing:     record.Willing,
		Slot:        domain.Slot(record.Slot),
		Notes:       record.Notes,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func availabilitiesFromRecords(records []storage.AvailabilityRecord) []domain.Availability {
	availabilities := make([]domain.Availability, 0, len(records))
	for _, record := range records {
		availabilities = append(availabilities, availabilityFromRecord(record))
	}
	return availabilities
}

func assignmentFromRecord(record storage.AssignmentRecord) domain.Assignment {
	return domain.Assignment{
		ID:          record.ID,
		PerformerID: record.PerformerID,
		Date:        record.Date,
		Slot:        domain.Slot(record.Slot),
		Fee:         record.Fee,
		Notes:       record.Notes,
		CreatedBy:   record.CreatedBy,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func assignmentsFromRecords(records []storage.AssignmentRecord) []domain.Assignment {
	assignments := make([]domain.Assignment, 0, len(records))
	for _, record := range records {
		assignments = append(assignments, assignmentFromRecord(record))
	}
	return assignments
}
