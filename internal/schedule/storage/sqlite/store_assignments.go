package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tbhone/folies-planning/internal/schedule/storage"
)

// CreateAssignment inserts one booking row inside a short transaction
// scoped to the night. The (date, slot) uniqueness constraint is the
// concurrency source of truth; the transaction additionally re-checks the
// complete-night exclusion so a complete booking and a half-slot booking
// cannot both commit. Losing a race surfaces as ErrConflict.
func (s *Store) CreateAssignment(ctx context.Context, record storage.AssignmentRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	normalized, err := normalizeAssignmentRecord(record)
	if err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin assignment write: %w", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback assignment write: %v", cause, rollbackErr)
		}
		return cause
	}

	var existing int
	var completes int
	if err := tx.QueryRowContext(ctx, `
SELECT COUNT(1), COALESCE(SUM(CASE WHEN slot = 'complete' THEN 1 ELSE 0 END), 0)
FROM assignments
WHERE date = ?
`, toDateKey(normalized.Date)).Scan(&existing, &completes); err != nil {
		return rollbackWith(fmt.Errorf("check night occupancy: %w", err))
	}
	if completes > 0 || (normalized.Slot == "complete" && existing > 0) {
		return rollbackWith(storage.ErrConflict)
	}

	if _, err := tx.ExecContext(ctx, `
	INSERT INTO assignments (
		id, performer_id, date, slot, fee, notes, created_by, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		normalized.ID,
		normalized.PerformerID,
		toDateKey(normalized.Date),
		normalized.Slot,
		normalized.Fee,
		normalized.Notes,
		normalized.CreatedBy,
		toMillis(normalized.CreatedAt),
		toMillis(normalized.UpdatedAt),
	); err != nil {
		if isUniqueConstraintError(err) {
			return rollbackWith(storage.ErrConflict)
		}
		return rollbackWith(fmt.Errorf("create assignment: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assignment write: %w", err)
	}
	return nil
}

// GetAssignment loads one booking by (date, slot).
func (s *Store) GetAssignment(ctx context.Context, date time.Time, slot string) (storage.AssignmentRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.AssignmentRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.AssignmentRecord{}, fmt.Errorf("storage is not configured")
	}
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return storage.AssignmentRecord{}, fmt.Errorf("slot is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, performer_id, date, slot, fee, notes, created_by, created_at, updated_at
FROM assignments
WHERE date = ? AND slot = ?
`, toDateKey(date), slot)
	record, err := scanAssignment(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.AssignmentRecord{}, storage.ErrNotFound
		}
		return storage.AssignmentRecord{}, fmt.Errorf("get assignment: %w", err)
	}
	return record, nil
}

// ListAssignmentsByDate lists all bookings for one night.
func (s *Store) ListAssignmentsByDate(ctx context.Context, date time.Time) ([]storage.AssignmentRecord, error) {
	return s.listAssignments(ctx, `
SELECT id, performer_id, date, slot, fee, notes, created_by, created_at, updated_at
FROM assignments
WHERE date = ?
ORDER BY slot ASC
`, toDateKey(date))
}

// ListAssignmentsByDateRange lists bookings for dates in [from, to],
// ascending by date.
func (s *Store) ListAssignmentsByDateRange(ctx context.Context, from time.Time, to time.Time) ([]storage.AssignmentRecord, error) {
	return s.listAssignments(ctx, `
SELECT id, performer_id, date, slot, fee, notes, created_by, created_at, updated_at
FROM assignments
WHERE date >= ? AND date <= ?
ORDER BY date ASC, slot ASC
`, toDateKey(from), toDateKey(to))
}

// ListAssignmentsByPerformerRange lists one performer's bookings for dates
// in [from, to].
func (s *Store) ListAssignmentsByPerformerRange(ctx context.Context, performerID string, from time.Time, to time.Time) ([]storage.AssignmentRecord, error) {
	performerID = strings.TrimSpace(performerID)
	if performerID == "" {
		return nil, fmt.Errorf("performer id is required")
	}
	return s.listAssignments(ctx, `
SELECT id, performer_id, date, slot, fee, notes, created_by, created_at, updated_at
FROM assignments
WHERE performer_id = ? AND date >= ? AND date <= ?
ORDER BY date ASC, slot ASC
`, performerID, toDateKey(from), toDateKey(to))
}

// ListAssignmentsByPerformerAndDate lists one performer's bookings for one
// night.
func (s *Store) ListAssignmentsByPerformerAndDate(ctx context.Context, performerID string, date time.Time) ([]storage.AssignmentRecord, error) {
	performerID = strings.TrimSpace(performerID)
	if performerID == "" {
		return nil, fmt.Errorf("performer id is required")
	}
	return s.listAssignments(ctx, `
SELECT id, performer_id, date, slot, fee, notes, created_by, created_at, updated_at
FROM assignments
WHERE performer_id = ? AND date = ?
ORDER BY slot ASC
`, performerID, toDateKey(date))
}

// DeleteAssignment removes one booking by (date, slot).
func (s *Store) DeleteAssignment(ctx context.Context, date time.Time, slot string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return fmt.Errorf("slot is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM assignments WHERE date = ? AND slot = ?`, toDateKey(date), slot)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete assignment rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListUnpricedAssignments returns legacy rows migrated without a fee.
func (s *Store) ListUnpricedAssignments(ctx context.Context) ([]storage.AssignmentRecord, error) {
	return s.listAssignments(ctx, `
SELECT id, performer_id, date, slot, fee, notes, created_by, created_at, updated_at
FROM assignments
WHERE fee = 0
ORDER BY date ASC, slot ASC
`)
}

// UpdateAssignmentFee sets the persisted fee for one booking.
func (s *Store) UpdateAssignmentFee(ctx context.Context, assignmentID string, fee int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	assignmentID = strings.TrimSpace(assignmentID)
	if assignmentID == "" {
		return fmt.Errorf("assignment id is required")
	}
	if fee < 0 {
		return fmt.Errorf("fee must be non-negative")
	}

	result, err := s.sqlDB.ExecContext(ctx, `UPDATE assignments SET fee = ? WHERE id = ?`, fee, assignmentID)
	if err != nil {
		return fmt.Errorf("update assignment fee: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update assignment fee rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) listAssignments(ctx context.Context, query string, args ...any) ([]storage.AssignmentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var records []storage.AssignmentRecord
	for rows.Next() {
		record, scanErr := scanAssignment(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("scan assignment row: %w", scanErr)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignment rows: %w", err)
	}
	return records, nil
}

func normalizeAssignmentRecord(record storage.AssignmentRecord) (storage.AssignmentRecord, error) {
	record.ID = strings.TrimSpace(record.ID)
	record.PerformerID = strings.TrimSpace(record.PerformerID)
	record.Slot = strings.TrimSpace(record.Slot)
	record.Notes = strings.TrimSpace(record.Notes)
	record.CreatedBy = strings.TrimSpace(record.CreatedBy)
	if record.ID == "" {
		return storage.AssignmentRecord{}, fmt.Errorf("assignment id is required")
	}
	if record.PerformerID == "" {
		return storage.AssignmentRecord{}, fmt.Errorf("performer id is required")
	}
	if record.Date.IsZero() {
		return storage.AssignmentRecord{}, fmt.Errorf("date is required")
	}
	if record.Slot == "" {
		return storage.AssignmentRecord{}, fmt.Errorf("slot is required")
	}
	if record.Fee < 0 {
		return storage.AssignmentRecord{}, fmt.Errorf("fee must be non-negative")
	}
	if record.CreatedAt.IsZero() {
		return storage.AssignmentRecord{}, fmt.Errorf("created_at is required")
	}
	if record.UpdatedAt.IsZero() {
		return storage.AssignmentRecord{}, fmt.Errorf("updated_at is required")
	}
	record.CreatedAt = record.CreatedAt.UTC()
	record.UpdatedAt = record.UpdatedAt.UTC()
	return record, nil
}

func scanAssignment(scan scanner) (storage.AssignmentRecord, error) {
	var record storage.AssignmentRecord
	var dateKey string
	var createdAt int64
	var updatedAt int64
	if err := scan(
		&record.ID,
		&record.PerformerID,
		&dateKey,
		&record.Slot,
		&record.Fee,
		&record.Notes,
		&record.CreatedBy,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.AssignmentRecord{}, err
	}
	date, err := fromDateKey(dateKey)
	if err != nil {
		return storage.AssignmentRecord{}, fmt.Errorf("parse assignment date %q: %w", dateKey, err)
	}
	record.Date = date
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}
