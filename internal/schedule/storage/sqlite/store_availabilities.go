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

// UpsertAvailability writes one willingness declaration, replacing any
// previous declaration for the same (performer, date).
func (s *Store) UpsertAvailability(ctx context.Context, record storage.AvailabilityRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	normalized, err := normalizeAvailabilityRecord(record)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(ctx, `
	INSERT INTO availabilities (
		performer_id, date, willing, slot, notes, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(performer_id, date) DO UPDATE SET
		willing = excluded.willing,
		slot = excluded.slot,
		notes = excluded.notes,
		updated_at = excluded.updated_at
	`,
		normalized.PerformerID,
		toDateKey(normalized.Date),
		boolToInt(normalized.Willing),
		normalized.Slot,
		normalized.Notes,
		toMillis(normalized.CreatedAt),
		toMillis(normalized.UpdatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("upsert availability: %w", err)
	}
	return nil
}

// GetAvailability loads one (performer, date) declaration.
func (s *Store) GetAvailability(ctx context.Context, performerID string, date time.Time) (storage.AvailabilityRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.AvailabilityRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.AvailabilityRecord{}, fmt.Errorf("storage is not configured")
	}
	performerID = strings.TrimSpace(performerID)
	if performerID == "" {
		return storage.AvailabilityRecord{}, fmt.Errorf("performer id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT performer_id, date, willing, slot, notes, created_at, updated_at
FROM availabilities
WHERE performer_id = ? AND date = ?
`, performerID, toDateKey(date))
	record, err := scanAvailability(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.AvailabilityRecord{}, storage.ErrNotFound
		}
		return storage.AvailabilityRecord{}, fmt.Errorf("get availability: %w", err)
	}
	return record, nil
}

// ListAvailabilitiesByDate lists all declarations for one night.
func (s *Store) ListAvailabilitiesByDate(ctx context.Context, date time.Time) ([]storage.AvailabilityRecord, error) {
	return s.listAvailabilities(ctx, `
SELECT performer_id, date, willing, slot, notes, created_at, updated_at
FROM availabilities
WHERE date = ?
ORDER BY performer_id ASC
`, toDateKey(date))
}

// ListAvailabilitiesByDateRange lists declarations for dates in [from, to].
func (s *Store) ListAvailabilitiesByDateRange(ctx context.Context, from time.Time, to time.Time) ([]storage.AvailabilityRecord, error) {
	return s.listAvailabilities(ctx, `
SELECT performer_id, date, willing, slot, notes, created_at, updated_at
FROM availabilities
WHERE date >= ? AND date <= ?
ORDER BY date ASC, performer_id ASC
`, toDateKey(from), toDateKey(to))
}

// ListAvailabilitiesByPerformerRange lists one performer's declarations for
// dates in [from, to].
func (s *Store) ListAvailabilitiesByPerformerRange(ctx context.Context, performerID string, from time.Time, to time.Time) ([]storage.AvailabilityRecord, error) {
	performerID = strings.TrimSpace(performerID)
	if performerID == "" {
		return nil, fmt.Errorf("performer id is required")
	}
	return s.listAvailabilities(ctx, `
SELECT performer_id, date, willing, slot, notes, created_at, updated_at
FROM availabilities
WHERE performer_id = ? AND date >= ? AND date <= ?
ORDER BY date ASC
`, performerID, toDateKey(from), toDateKey(to))
}

func (s *Store) listAvailabilities(ctx context.Context, query string, args ...any) ([]storage.AvailabilityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list availabilities: %w", err)
	}
	defer rows.Close()

	var records []storage.AvailabilityRecord
	for rows.Next() {
		record, scanErr := scanAvailability(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("scan availability row: %w", scanErr)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate availability rows: %w", err)
	}
	return records, nil
}

func normalizeAvailabilityRecord(record storage.AvailabilityRecord) (storage.AvailabilityRecord, error) {
	record.PerformerID = strings.TrimSpace(record.PerformerID)
	record.Slot = strings.TrimSpace(record.Slot)
	record.Notes = strings.TrimSpace(record.Notes)
	if record.PerformerID == "" {
		return storage.AvailabilityRecord{}, fmt.Errorf("performer id is required")
	}
	if record.Date.IsZero() {
		return storage.AvailabilityRecord{}, fmt.Errorf("date is required")
	}
	if record.Willing && record.Slot == "" {
		return storage.AvailabilityRecord{}, fmt.Errorf("slot is required for a willing declaration")
	}
	if record.CreatedAt.IsZero() {
		return storage.AvailabilityRecord{}, fmt.Errorf("created_at is required")
	}
	if record.UpdatedAt.IsZero() {
		return storage.AvailabilityRecord{}, fmt.Errorf("updated_at is required")
	}
	record.CreatedAt = record.CreatedAt.UTC()
	record.UpdatedAt = record.UpdatedAt.UTC()
	return record, nil
}

func scanAvailability(scan scanner) (storage.AvailabilityRecord, error) {
	var record storage.AvailabilityRecord
	var dateKey string
	var willing int
	var createdAt int64
	var updatedAt int64
	if err := scan(
		&record.PerformerID,
		&dateKey,
		&willing,
		&record.Slot,
		&record.Notes,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.AvailabilityRecord{}, err
	}
	date, err := fromDateKey(dateKey)
	if err != nil {
		return storage.AvailabilityRecord{}, fmt.Errorf("parse availability date %q: %w", dateKey, err)
	}
	record.Date = date
	record.Willing = willing != 0
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}
