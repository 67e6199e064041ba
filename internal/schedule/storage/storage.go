// Package storage defines the persistence boundary for schedule state.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates a requested write conflicts with uniqueness
	// constraints.
	ErrConflict = errors.New("record conflict")
)

// PerformerRecord stores one performer account row.
type PerformerRecord struct {
	ID           string
	Username     string
	Email        string
	StageName    string
	Phone        string
	Admin        bool
	Status       string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AvailabilityRecord stores one (performer, date) willingness declaration.
type AvailabilityRecord struct {
	PerformerID string
	Date        time.Time
	Willing     bool
	Slot        string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AssignmentRecord stores one confirmed (date, slot) booking.
type AssignmentRecord struct {
	ID          string
	PerformerID string
	Date        time.Time
	Slot        string
	Fee         int
	Notes       string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PerformerStore persists performer accounts. Username and email are unique;
// violations surface as ErrConflict.
type PerformerStore interface {
	PutPerformer(ctx context.Context, record PerformerRecord) error
	GetPerformerByID(ctx context.Context, performerID string) (PerformerRecord, error)
	GetPerformerByUsername(ctx context.Context, username string) (PerformerRecord, error)
	ListPerformers(ctx context.Context) ([]PerformerRecord, error)
	// DeletePerformer removes the account and cascades its availabilities
	// and assignments.
	DeletePerformer(ctx context.Context, performerID string) error
}

// AvailabilityStore persists willingness declarations with upsert semantics
// per (performer, date).
type AvailabilityStore interface {
	UpsertAvailability(ctx context.Context, record AvailabilityRecord) error
	GetAvailability(ctx context.Context, performerID string, date time.Time) (AvailabilityRecord, error)
	ListAvailabilitiesByDate(ctx context.Context, date time.Time) ([]AvailabilityRecord, error)
	ListAvailabilitiesByDateRange(ctx context.Context, from time.Time, to time.Time) ([]AvailabilityRecord, error)
	ListAvailabilitiesByPerformerRange(ctx context.Context, performerID string, from time.Time, to time.Time) ([]AvailabilityRecord, error)
}

// AssignmentStore persists bookings. The (date, slot) uniqueness constraint
// is the concurrency source of truth: a losing concurrent create surfaces as
// ErrConflict.
type AssignmentStore interface {
	CreateAssignment(ctx context.Context, record AssignmentRecord) error
	GetAssignment(ctx context.Context, date time.Time, slot string) (AssignmentRecord, error)
	ListAssignmentsByDate(ctx context.Context, date time.Time) ([]AssignmentRecord, error)
	ListAssignmentsByDateRange(ctx context.Context, from time.Time, to time.Time) ([]AssignmentRecord, error)
	ListAssignmentsByPerformerRange(ctx context.Context, performerID string, from time.Time, to time.Time) ([]AssignmentRecord, error)
	ListAssignmentsByPerformerAndDate(ctx context.Context, performerID string, date time.Time) ([]AssignmentRecord, error)
	DeleteAssignment(ctx context.Context, date time.Time, slot string) error
	// ListUnpricedAssignments returns legacy rows migrated without a fee.
	ListUnpricedAssignments(ctx context.Context) ([]AssignmentRecord, error)
	UpdateAssignmentFee(ctx context.Context, assignmentID string, fee int) error
}

// Store is the full schedule persistence boundary.
type Store interface {
	PerformerStore
	AvailabilityStore
	AssignmentStore
	Close() error
}
