// Package storage defines the persistence boundary for the notification
// outbox.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested outbox record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates a requested write conflicts with uniqueness
	// constraints.
	ErrConflict = errors.New("record conflict")
)

// MessageRecord stores one queued outbox message.
type MessageRecord struct {
	ID             string
	RecipientID    string
	RecipientEmail string
	Topic          string
	PayloadJSON    string
	DedupeKey      string
	Status         string
	AttemptCount   int
	LastError      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	SentAt         *time.Time
}

// MessageStore persists outbox messages. The (recipient, dedupe key) pair is
// unique for non-empty keys; violations surface as ErrConflict.
type MessageStore interface {
	PutMessage(ctx context.Context, record MessageRecord) error
	GetMessageByRecipientAndDedupeKey(ctx context.Context, recipientID string, dedupeKey string) (MessageRecord, error)
	ListDeliverableMessages(ctx context.Context, maxAttempts int, limit int) ([]MessageRecord, error)
	MarkMessageSent(ctx context.Context, messageID string, sentAt time.Time) error
	MarkMessageFailed(ctx context.Context, messageID string, failedAt time.Time, lastError string) error
}

// Store is the full outbox persistence boundary.
type Store interface {
	MessageStore
	Close() error
}
