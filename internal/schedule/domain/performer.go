package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/tbhone/folies-planning/internal/platform/errors"
	"github.com/tbhone/folies-planning/internal/platform/id"
)

// PerformerStatus is the lifecycle state of a performer account.
type PerformerStatus string

const (
	// PerformerStatusPending marks a self-registered performer awaiting
	// activation by the coordinator.
	PerformerStatusPending PerformerStatus = "pending"
	// PerformerStatusActive marks a performer who can declare availability
	// and receive assignments.
	PerformerStatusActive PerformerStatus = "active"
	// PerformerStatusInactive marks a soft-deactivated performer.
	PerformerStatusInactive PerformerStatus = "inactive"
)

// Valid reports whether the status is a recognized lifecycle state.
func (s PerformerStatus) Valid() bool {
	switch s {
	case PerformerStatusPending, PerformerStatusActive, PerformerStatusInactive:
		return true
	}
	return false
}

// Performer is one member of the staffing pool.
type Performer struct {
	ID           string
	Username     string
	Email        string
	StageName    string
	Phone        string
	Admin        bool
	Status       PerformerStatus
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreatePerformerInput describes the metadata needed to create a performer.
type CreatePerformerInput struct {
	Username  string
	Email     string
	StageName string
	Phone     string
	Admin     bool
	Status    PerformerStatus
}

// CreatePerformer creates a new performer with a generated ID and timestamps.
func CreatePerformer(input CreatePerformerInput, now func() time.Time, idGenerator func() (string, error)) (Performer, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreatePerformerInput(input)
	if err != nil {
		return Performer{}, err
	}

	performerID, err := idGenerator()
	if err != nil {
		return Performer{}, fmt.Errorf("generate performer id: %w", err)
	}

	createdAt := now().UTC()
	return Performer{
		ID:        performerID,
		Username:  normalized.Username,
		Email:     normalized.Email,
		StageName: normalized.StageName,
		Phone:     normalized.Phone,
		Admin:     normalized.Admin,
		Status:    normalized.Status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// NormalizeCreatePerformerInput trims and validates performer metadata.
func NormalizeCreatePerformerInput(input CreatePerformerInput) (CreatePerformerInput, error) {
	input.Username = strings.ToLower(strings.TrimSpace(input.Username))
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.StageName = strings.TrimSpace(input.StageName)
	input.Phone = strings.TrimSpace(input.Phone)
	if input.Username == "" {
		return CreatePerformerInput{}, apperrors.New(apperrors.CodeValidation, "username is required")
	}
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return CreatePerformerInput{}, apperrors.New(apperrors.CodeValidation, "valid email is required")
	}
	if input.StageName == "" {
		return CreatePerformerInput{}, apperrors.New(apperrors.CodeValidation, "stage name is required")
	}
	if input.Status == "" {
		input.Status = PerformerStatusPending
	}
	if !input.Status.Valid() {
		return CreatePerformerInput{}, apperrors.New(apperrors.CodeValidation, "invalid performer status")
	}
	return input, nil
}
