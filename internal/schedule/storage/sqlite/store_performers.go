package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tbhone/folies-planning/internal/schedule/storage"
)

// PutPerformer upserts one performer account row.
func (s *Store) PutPerformer(ctx context.Context, record storage.PerformerRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	normalized, err := normalizePerformerRecord(record)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(ctx, `
	INSERT INTO performers (
		id, username, email, stage_name, phone, is_admin, status, password_hash, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		username = excluded.username,
		email = excluded.email,
		stage_name = excluded.stage_name,
		phone = excluded.phone,
		is_admin = excluded.is_admin,
		status = excluded.status,
		password_hash = excluded.password_hash,
		updated_at = excluded.updated_at
	`,
		normalized.ID,
		normalized.Username,
		normalized.Email,
		normalized.StageName,
		normalized.Phone,
		boolToInt(normalized.Admin),
		normalized.Status,
		normalized.PasswordHash,
		toMillis(normalized.CreatedAt),
		toMillis(normalized.UpdatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("put performer: %w", err)
	}
	return nil
}

// GetPerformerByID loads one performer account row.
func (s *Store) GetPerformerByID(ctx context.Context, performerID string) (storage.PerformerRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.PerformerRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.PerformerRecord{}, fmt.Errorf("storage is not configured")
	}
	performerID = strings.TrimSpace(performerID)
	if performerID == "" {
		return storage.PerformerRecord{}, fmt.Errorf("performer id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, username, email, stage_name, phone, is_admin, status, password_hash, created_at, updated_at
FROM performers
WHERE id = ?
`, performerID)
	record, err := scanPerformer(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.PerformerRecord{}, storage.ErrNotFound
		}
		return storage.PerformerRecord{}, fmt.Errorf("get performer by id: %w", err)
	}
	return record, nil
}

// GetPerformerByUsername loads one performer account row by username.
func (s *Store) GetPerformerByUsername(ctx context.Context, username string) (storage.PerformerRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.PerformerRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.PerformerRecord{}, fmt.Errorf("storage is not configured")
	}
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return storage.PerformerRecord{}, fmt.Errorf("username is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, username, email, stage_name, phone, is_admin, status, password_hash, created_at, updated_at
FROM performers
WHERE username = ?
`, username)
	record, err := scanPerformer(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.PerformerRecord{}, storage.ErrNotFound
		}
		return storage.PerformerRecord{}, fmt.Errorf("get performer by username: %w", err)
	}
	return record, nil
}

// ListPerformers lists all performer accounts ordered by stage name.
func (s *Store) ListPerformers(ctx context.Context) ([]storage.PerformerRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, username, email, stage_name, phone, is_admin, status, password_hash, created_at, updated_at
FROM performers
ORDER BY stage_name ASC, id ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list performers: %w", err)
	}
	defer rows.Close()

	var records []storage.PerformerRecord
	for rows.Next() {
		record, scanErr := scanPerformer(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("scan performer row: %w", scanErr)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate performer rows: %w", err)
	}
	return records, nil
}

// DeletePerformer removes one performer; availabilities and assignments
// cascade via foreign keys.
func (s *Store) DeletePerformer(ctx context.Context, performerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	performerID = strings.TrimSpace(performerID)
	if performerID == "" {
		return fmt.Errorf("performer id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM performers WHERE id = ?`, performerID)
	if err != nil {
		return fmt.Errorf("delete performer: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete performer rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func normalizePerformerRecord(record storage.PerformerRecord) (storage.PerformerRecord, error) {
	record.ID = strings.TrimSpace(record.ID)
	record.Username = strings.ToLower(strings.TrimSpace(record.Username))
	record.Email = strings.ToLower(strings.TrimSpace(record.Email))
	record.StageName = strings.TrimSpace(record.StageName)
	record.Phone = strings.TrimSpace(record.Phone)
	record.Status = strings.TrimSpace(record.Status)
	if record.ID == "" {
		return storage.PerformerRecord{}, fmt.Errorf("performer id is required")
	}
	if record.Username == "" {
		return storage.PerformerRecord{}, fmt.Errorf("username is required")
	}
	if record.Email == "" {
		return storage.PerformerRecord{}, fmt.Errorf("email is required")
	}
	if record.Status == "" {
		return storage.PerformerRecord{}, fmt.Errorf("status is required")
	}
	if record.CreatedAt.IsZero() {
		return storage.PerformerRecord{}, fmt.Errorf("created_at is required")
	}
	if record.UpdatedAt.IsZero() {
		return storage.PerformerRecord{}, fmt.Errorf("updated_at is required")
	}
	record.CreatedAt = record.CreatedAt.UTC()
	record.UpdatedAt = record.UpdatedAt.UTC()
	return record, nil
}

func scanPerformer(scan scanner) (storage.PerformerRecord, error) {
	var record storage.PerformerRecord
	var isAdmin int
	var createdAt int64
	var updatedAt int64
	if err := scan(
		&record.ID,
		&record.Username,
		&record.Email,
		&record.StageName,
		&record.Phone,
		&isAdmin,
		&record.Status,
		&record.PasswordHash,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.PerformerRecord{}, err
	}
	record.Admin = isAdmin != 0
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
