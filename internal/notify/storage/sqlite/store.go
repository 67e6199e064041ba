// Package sqlite provides SQLite-backed persistence for the notification
// outbox.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/tbhone/folies-planning/internal/notify/storage"
	"github.com/tbhone/folies-planning/internal/notify/storage/sqlite/migrations"
	"github.com/tbhone/folies-planning/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for the outbox.
type Store struct {
	sqlDB *sql.DB
}

// Open opens an outbox SQLite store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_pragma=foreign_keys(ON)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutMessage inserts one outbox row. A duplicate (recipient, dedupe key)
// surfaces as ErrConflict.
func (s *Store) PutMessage(ctx context.Context, record storage.MessageRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	record.ID = strings.TrimSpace(record.ID)
	record.RecipientID = strings.TrimSpace(record.RecipientID)
	record.Topic = strings.TrimSpace(record.Topic)
	if record.ID == "" {
		return fmt.Errorf("message id is required")
	}
	if record.RecipientID == "" {
		return fmt.Errorf("recipient id is required")
	}
	if record.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	if record.Status == "" {
		record.Status = "pending"
	}

	var dedupeKey any
	if key := strings.TrimSpace(record.DedupeKey); key != "" {
		dedupeKey = key
	}
	var sentAt any
	if record.SentAt != nil {
		sentAt = record.SentAt.UTC().UnixMilli()
	}

	_, err := s.sqlDB.ExecContext(ctx, `
	INSERT INTO outbox_messages (
		id, recipient_id, recipient_email, topic, payload_json, dedupe_key,
		status, attempt_count, last_error, created_at, updated_at, sent_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID,
		record.RecipientID,
		strings.TrimSpace(record.RecipientEmail),
		record.Topic,
		strings.TrimSpace(record.PayloadJSON),
		dedupeKey,
		record.Status,
		record.AttemptCount,
		record.LastError,
		record.CreatedAt.UTC().UnixMilli(),
		record.UpdatedAt.UTC().UnixMilli(),
		sentAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("put message: %w", err)
	}
	return nil
}

// GetMessageByRecipientAndDedupeKey loads one message by its dedupe identity.
func (s *Store) GetMessageByRecipientAndDedupeKey(ctx context.Context, recipientID string, dedupeKey string) (storage.MessageRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.MessageRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.MessageRecord{}, fmt.Errorf("storage is not configured")
	}
	recipientID = strings.TrimSpace(recipientID)
	dedupeKey = strings.TrimSpace(dedupeKey)
	if recipientID == "" || dedupeKey == "" {
		return storage.MessageRecord{}, fmt.Errorf("recipient id and dedupe key are required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, recipient_id, recipient_email, topic, payload_json, dedupe_key,
	status, attempt_count, last_error, created_at, updated_at, sent_at
FROM outbox_messages
WHERE recipient_id = ? AND dedupe_key = ?
`, recipientID, dedupeKey)
	record, err := scanMessage(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.MessageRecord{}, storage.ErrNotFound
		}
		return storage.MessageRecord{}, fmt.Errorf("get message: %w", err)
	}
	return record, nil
}

// ListDeliverableMessages lists pending and retryable failed messages, oldest
// first.
func (s *Store) ListDeliverableMessages(ctx context.Context, maxAttempts int, limit int) ([]storage.MessageRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, recipient_id, recipient_email, topic, payload_json, dedupe_key,
	status, attempt_count, last_error, created_at, updated_at, sent_at
FROM outbox_messages
WHERE status IN ('pending', 'failed') AND attempt_count < ?
ORDER BY created_at ASC, id ASC
LIMIT ?
`, maxAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("list deliverable messages: %w", err)
	}
	defer rows.Close()

	var records []storage.MessageRecord
	for rows.Next() {
		record, scanErr := scanMessage(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("scan message row: %w", scanErr)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate message rows: %w", err)
	}
	return records, nil
}

// MarkMessageSent finalizes one delivered message.
func (s *Store) MarkMessageSent(ctx context.Context, messageID string, sentAt time.Time) error {
	return s.markMessage(ctx, messageID, `
UPDATE outbox_messages
SET status = 'sent', attempt_count = attempt_count + 1, last_error = '',
	updated_at = ?, sent_at = ?
WHERE id = ?
`, sentAt.UTC().UnixMilli(), sentAt.UTC().UnixMilli(), messageID)
}

// MarkMessageFailed records one failed delivery attempt for retry.
func (s *Store) MarkMessageFailed(ctx context.Context, messageID string, failedAt time.Time, lastError string) error {
	return s.markMessage(ctx, messageID, `
UPDATE outbox_messages
SET status = 'failed', attempt_count = attempt_count + 1, last_error = ?,
	updated_at = ?
WHERE id = ?
`, lastError, failedAt.UTC().UnixMilli(), messageID)
}

func (s *Store) markMessage(ctx context.Context, messageID string, query string, args ...any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(messageID) == "" {
		return fmt.Errorf("message id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark message: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark message rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanMessage(scan func(dest ...any) error) (storage.MessageRecord, error) {
	var record storage.MessageRecord
	var dedupeKey sql.NullString
	var createdAt int64
	var updatedAt int64
	var sentAt sql.NullInt64
	if err := scan(
		&record.ID,
		&record.RecipientID,
		&record.RecipientEmail,
		&record.Topic,
		&record.PayloadJSON,
		&dedupeKey,
		&record.Status,
		&record.AttemptCount,
		&record.LastError,
		&createdAt,
		&updatedAt,
		&sentAt,
	); err != nil {
		return storage.MessageRecord{}, err
	}
	record.DedupeKey = dedupeKey.String
	record.CreatedAt = time.UnixMilli(createdAt).UTC()
	record.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	if sentAt.Valid {
		value := time.UnixMilli(sentAt.Int64).UTC()
		record.SentAt = &value
	}
	return record, nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "unique constraint failed")
}
