package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	apperrors "github.com/tbhone/folies-planning/internal/platform/errors"
	"github.com/tbhone/folies-planning/internal/schedule/domain"
	"github.com/tbhone/folies-planning/internal/schedule/storage"
	"golang.org/x/crypto/bcrypt"
)

// RegisterPerformerInput describes a self-registration request.
type RegisterPerformerInput struct {
	Username  string
	Email     string
	StageName string
	Phone     string
	Password  string
}

// RegisterPerformer self-registers a performer. New accounts start pending
// until the coordinator activates them.
func (s *Service) RegisterPerformer(ctx context.Context, input RegisterPerformerInput) (domain.Performer, error) {
	return s.createPerformer(ctx, domain.CreatePerformerInput{
		Username:  input.Username,
		Email:     input.Email,
		StageName: input.StageName,
		Phone:     input.Phone,
		Status:    domain.PerformerStatusPending,
	}, input.Password)
}

// CreatePerformerInput describes a coordinator-created account.
type CreatePerformerInput struct {
	Username  string
	Email     string
	StageName string
	Phone     string
	Password  string
	Admin     bool
}

// CreatePerformer creates an account on the coordinator's behalf. Accounts
// created this way are active immediately.
func (s *Service) CreatePerformer(ctx context.Context, input CreatePerformerInput) (domain.Performer, error) {
	return s.createPerformer(ctx, domain.CreatePerformerInput{
		Username:  input.Username,
		Email:     input.Email,
		StageName: input.StageName,
		Phone:     input.Phone,
		Admin:     input.Admin,
		Status:    domain.PerformerStatusActive,
	}, input.Password)
}

func (s *Service) createPerformer(ctx context.Context, input domain.CreatePerformerInput, password string) (domain.Performer, error) {
	if strings.TrimSpace(password) == "" {
		return domain.Performer{}, apperrors.New(apperrors.CodeValidation, "password is required")
	}

	performer, err := domain.CreatePerformer(input, s.clock, s.idGenerator)
	if err != nil {
		return domain.Performer{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Performer{}, fmt.Errorf("hash password: %w", err)
	}
	performer.PasswordHash = string(hash)

	if err := s.store.PutPerformer(ctx, performerToRecord(performer)); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return domain.Performer{}, apperrors.New(apperrors.CodeDuplicateIdentity, "username or email already registered")
		}
		return domain.Performer{}, fmt.Errorf("store performer: %w", err)
	}
	return performer, nil
}

// Authenticate verifies a username and password pair. Inactive accounts fail
// authentication the same way bad credentials do.
func (s *Service) Authenticate(ctx context.Context, username string, password string) (domain.Performer, error) {
	record, err := s.store.GetPerformerByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Performer{}, apperrors.New(apperrors.CodeInvalidCredential, "invalid username or password")
		}
		return domain.Performer{}, fmt.Errorf("load performer: %w", err)
	}

	performer := performerFromRecord(record)
	if err := bcrypt.CompareHashAndPassword([]byte(performer.PasswordHash), []byte(password)); err != nil {
		return domain.Performer{}, apperrors.New(apperrors.CodeInvalidCredential, "invalid username or password")
	}
	if performer.Status != domain.PerformerStatusActive {
		return domain.Performer{}, apperrors.New(apperrors.CodeInvalidCredential, "invalid username or password")
	}
	return performer, nil
}

// GetPerformer loads one performer account.
func (s *Service) GetPerformer(ctx context.Context, performerID string) (domain.Performer, error) {
	record, err := s.store.GetPerformerByID(ctx, performerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Performer{}, apperrors.New(apperrors.CodeNotFound, "performer not found")
		}
		return domain.Performer{}, fmt.Errorf("load performer: %w", err)
	}
	return performerFromRecord(record), nil
}

// ListPerformers lists all performer accounts ordered by stage name.
func (s *Service) ListPerformers(ctx context.Context) ([]domain.Performer, error) {
	records, err := s.store.ListPerformers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list performers: %w", err)
	}
	performers := make([]domain.Performer, 0, len(records))
	for _, record := range records {
		performers = append(performers, performerFromRecord(record))
	}
	return performers, nil
}

// ActivatePerformer moves a performer to the active lifecycle state.
func (s *Service) ActivatePerformer(ctx context.Context, performerID string) (domain.Performer, error) {
	return s.setPerformerStatus(ctx, performerID, domain.PerformerStatusActive)
}

// DeactivatePerformer soft-deactivates a performer. Existing assignments are
// left untouched; future assignment attempts are rejected.
func (s *Service) DeactivatePerformer(ctx context.Context, performerID string) (domain.Performer, error) {
	return s.setPerformerStatus(ctx, performerID, domain.PerformerStatusInactive)
}

func (s *Service) setPerformerStatus(ctx context.Context, performerID string, status domain.PerformerStatus) (domain.Performer, error) {
	performer, err := s.GetPerformer(ctx, performerID)
	if err != nil {
		return domain.Performer{}, err
	}
	if performer.Status == status {
		return performer, nil
	}

	performer.Status = status
	performer.UpdatedAt = s.clock().UTC()
	if err := s.store.PutPerformer(ctx, performerToRecord(performer)); err != nil {
		return domain.Performer{}, fmt.Errorf("store performer: %w", err)
	}
	return performer, nil
}

// RemovePerformer deletes a performer account. Availabilities and assignments
// cascade with it.
func (s *Service) RemovePerformer(ctx context.Context, performerID string) error {
	if err := s.store.DeletePerformer(ctx, performerID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "performer not found")
		}
		return fmt.Errorf("delete performer: %w", err)
	}
	return nil
}

// EnsureAdmin creates the coordinator account when no account holds the admin
// flag yet. Boot calls this so a fresh database is usable immediately.
func (s *Service) EnsureAdmin(ctx context.Context, username string, password string) error {
	records, err := s.store.ListPerformers(ctx)
	if err != nil {
		return fmt.Errorf("list performers: %w", err)
	}
	for _, record := range records {
		if record.Admin {
			return nil
		}
	}

	_, err = s.CreatePerformer(ctx, CreatePerformerInput{
		Username:  username,
		Email:     username + "@localhost",
		StageName: "Coordinator",
		Password:  password,
		Admin:     true,
	})
	if err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}
	log.Printf("bootstrapped admin account %q", username)
	return nil
}

// BackfillLegacyFees prices assignments that were migrated without a fee,
// using each booking's date and slot. Boot calls this once per start.
func (s *Service) BackfillLegacyFees(ctx context.Context) (int, error) {
	records, err := s.store.ListUnpricedAssignments(ctx)
	if err != nil {
		return 0, fmt.Errorf("list unpriced assignments: %w", err)
	}

	backfilled := 0
	for _, record := range records {
		fee := domain.Fee(record.Date, domain.Slot(record.Slot))
		if fee == 0 {
			continue
		}
		if err := s.store.UpdateAssignmentFee(ctx, record.ID, fee); err != nil {
			return backfilled, fmt.Errorf("backfill fee for assignment %s: %w", record.ID, err)
		}
		backfilled++
	}
	return backfilled, nil
}
