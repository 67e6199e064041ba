// Package domain holds the notification outbox model: queued messages,
// dedupe-keyed enqueueing and flush delivery with per-message failure
// isolation.
package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tbhone/folies-planning/internal/platform/id"
)

var (
	// ErrNotFound indicates a notification record was not found.
	ErrNotFound = errors.New("notification not found")
	// ErrConflict indicates a write conflicted with existing uniqueness
	// constraints.
	ErrConflict = errors.New("notification conflict")
	// ErrStoreNotConfigured indicates the service is missing persistence
	// wiring.
	ErrStoreNotConfigured = errors.New("notification store is not configured")
	// ErrRecipientRequired indicates recipient identity is required.
	ErrRecipientRequired = errors.New("recipient id is required")
	// ErrTopicRequired indicates a topic is required.
	ErrTopicRequired = errors.New("notification topic is required")
)

// maxAttempts caps redelivery of a failing message.
const maxAttempts = 5

// MessageStatus is the delivery lifecycle state of one queued message.
type MessageStatus string

const (
	// StatusPending means the message is queued for delivery.
	StatusPending MessageStatus = "pending"
	// StatusFailed means the last delivery attempt failed and will retry.
	StatusFailed MessageStatus = "failed"
	// StatusSent means the message was delivered.
	StatusSent MessageStatus = "sent"
)

// Message is one queued notification.
type Message struct {
	ID             string
	RecipientID    string
	RecipientEmail string
	Topic          string
	PayloadJSON    string
	DedupeKey      string
	Status         MessageStatus
	AttemptCount   int
	LastError      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	SentAt         *time.Time
}

// EnqueueInput describes one producer notification request.
type EnqueueInput struct {
	RecipientID    string
	RecipientEmail string
	Topic          string
	PayloadJSON    string
	DedupeKey      string
}

// Store is the domain persistence boundary for the outbox.
type Store interface {
	PutMessage(ctx context.Context, message Message) error
	GetMessageByRecipientAndDedupeKey(ctx context.Context, recipientID string, dedupeKey string) (Message, error)
	ListDeliverableMessages(ctx context.Context, maxAttempts int, limit int) ([]Message, error)
	MarkMessageSent(ctx context.Context, messageID string, sentAt time.Time) error
	MarkMessageFailed(ctx context.Context, messageID string, failedAt time.Time, lastError string) error
}

// Sender delivers one queued message over a concrete channel.
type Sender interface {
	Send(ctx context.Context, message Message) error
}

// Service orchestrates outbox lifecycle behavior.
type Service struct {
	store Store
	clock func() time.Time
	newID func() (string, error)
}

// NewService constructs notification outbox use-cases.
func NewService(store Store, clock func() time.Time, newID func() (string, error)) *Service {
	if clock == nil {
		clock = time.Now
	}
	if newID == nil {
		newID = id.NewID
	}
	return &Service{
		store: store,
		clock: clock,
		newID: newID,
	}
}

// Enqueue stores one message and de-duplicates by recipient and dedupe key.
// Re-enqueueing an already-queued key returns the existing message.
func (s *Service) Enqueue(ctx context.Context, input EnqueueInput) (Message, error) {
	if s == nil || s.store == nil {
		return Message{}, ErrStoreNotConfigured
	}
	recipientID := strings.TrimSpace(input.RecipientID)
	if recipientID == "" {
		return Message{}, ErrRecipientRequired
	}
	topic := strings.TrimSpace(input.Topic)
	if topic == "" {
		return Message{}, ErrTopicRequired
	}
	dedupeKey := strings.TrimSpace(input.DedupeKey)
	if dedupeKey != "" {
		existing, err := s.store.GetMessageByRecipientAndDedupeKey(ctx, recipientID, dedupeKey)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Message{}, err
		}
	}

	messageID, err := s.newID()
	if err != nil {
		return Message{}, err
	}
	now := s.clock().UTC()
	message := Message{
		ID:             messageID,
		RecipientID:    recipientID,
		RecipientEmail: strings.TrimSpace(input.RecipientEmail),
		Topic:          topic,
		PayloadJSON:    strings.TrimSpace(input.PayloadJSON),
		DedupeKey:      dedupeKey,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.PutMessage(ctx, message); err != nil {
		if dedupeKey != "" && errors.Is(err, ErrConflict) {
			existing, lookupErr := s.store.GetMessageByRecipientAndDedupeKey(ctx, recipientID, dedupeKey)
			if lookupErr == nil {
				return existing, nil
			}
			return Message{}, err
		}
		return Message{}, err
	}
	return message, nil
}

// FlushResult summarizes one delivery pass over the outbox.
type FlushResult struct {
	Sent   int
	Failed int
}

// Flush delivers queued messages through the sender. A failing message is
// marked for retry and never blocks the rest of the batch.
func (s *Service) Flush(ctx context.Context, sender Sender, limit int) (FlushResult, error) {
	if s == nil || s.store == nil {
		return FlushResult{}, ErrStoreNotConfigured
	}
	if sender == nil {
		return FlushResult{}, errors.New("sender is required")
	}

	messages, err := s.store.ListDeliverableMessages(ctx, maxAttempts, limit)
	if err != nil {
		return FlushResult{}, err
	}

	var result FlushResult
	for _, message := range messages {
		now := s.clock().UTC()
		if sendErr := sender.Send(ctx, message); sendErr != nil {
			result.Failed++
			if markErr := s.store.MarkMessageFailed(ctx, message.ID, now, sendErr.Error()); markErr != nil {
				return result, markErr
			}
			continue
		}
		if markErr := s.store.MarkMessageSent(ctx, message.ID, now); markErr != nil {
			return result, markErr
		}
		result.Sent++
	}
	return result, nil
}
