// Package notify bridges the notification outbox to the rest of the
// application: storage adaptation, delivery senders and the assignment hook.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/tbhone/folies-planning/internal/notify/domain"
	"github.com/tbhone/folies-planning/internal/notify/storage"
)

// StoreAdapter adapts the storage boundary to the domain store contract.
type StoreAdapter struct {
	store storage.MessageStore
}

// NewStoreAdapter wraps a message store for domain use.
func NewStoreAdapter(store storage.MessageStore) *StoreAdapter {
	return &StoreAdapter{store: store}
}

// PutMessage stores one queued message.
func (a *StoreAdapter) PutMessage(ctx context.Context, message domain.Message) error {
	if a == nil || a.store == nil {
		return domain.ErrStoreNotConfigured
	}
	err := a.store.PutMessage(ctx, recordFromMessage(message))
	return translateStorageError(err)
}

// GetMessageByRecipientAndDedupeKey loads one message by dedupe identity.
func (a *StoreAdapter) GetMessageByRecipientAndDedupeKey(ctx context.Context, recipientID string, dedupeKey string) (domain.Message, error) {
	if a == nil || a.store == nil {
		return domain.Message{}, domain.ErrStoreNotConfigured
	}
	record, err := a.store.GetMessageByRecipientAndDedupeKey(ctx, recipientID, dedupeKey)
	if err != nil {
		return domain.Message{}, translateStorageError(err)
	}
	return messageFromRecord(record), nil
}

// ListDeliverableMessages lists queued messages ready for delivery.
func (a *StoreAdapter) ListDeliverableMessages(ctx context.Context, maxAttempts int, limit int) ([]domain.Message, error) {
	if a == nil || a.store == nil {
		return nil, domain.ErrStoreNotConfigured
	}
	records, err := a.store.ListDeliverableMessages(ctx, maxAttempts, limit)
	if err != nil {
		return nil, err
	}
	messages := make([]domain.Message, 0, len(records))
	for _, record := range records {
		messages = append(messages, messageFromRecord(record))
	}
	return messages, nil
}

// MarkMessageSent finalizes one delivered message.
func (a *StoreAdapter) MarkMessageSent(ctx context.Context, messageID string, sentAt time.Time) error {
	if a == nil || a.store == nil {
		return domain.ErrStoreNotConfigured
	}
	return translateStorageError(a.store.MarkMessageSent(ctx, messageID, sentAt))
}

// MarkMessageFailed records one failed delivery attempt.
func (a *StoreAdapter) MarkMessageFailed(ctx context.Context, messageID string, failedAt time.Time, lastError string) error {
	if a == nil || a.store == nil {
		return domain.ErrStoreNotConfigured
	}
	return translateStorageError(a.store.MarkMessageFailed(ctx, messageID, failedAt, lastError))
}

func translateStorageError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return domain.ErrNotFound
	case errors.Is(err, storage.ErrConflict):
		return domain.ErrConflict
	default:
		return err
	}
}

func recordFromMessage(message domain.Message) storage.MessageRecord {
	return storage.MessageRecord{
		ID:             message.ID,
		RecipientID:    message.RecipientID,
		RecipientEmail: message.RecipientEmail,
		Topic:          message.Topic,
		PayloadJSON:    message.PayloadJSON,
		DedupeKey:      message.DedupeKey,
		Status:         string(message.Status),
		AttemptCount:   message.AttemptCount,
		LastError:      message.LastError,
		CreatedAt:      message.CreatedAt,
		UpdatedAt:      message.UpdatedAt,
		SentAt:         message.SentAt,
	}
}

func messageFromRecord(record storage.MessageRecord) domain.Message {
	return domain.Message{
		ID:             record.ID,
		RecipientID:    record.RecipientID,
		RecipientEmail: record.RecipientEmail,
		Topic:          record.Topic,
		PayloadJSON:    record.PayloadJSON,
		DedupeKey:      record.DedupeKey,
		Status:         domain.MessageStatus(record.Status),
		AttemptCount:   record.AttemptCount,
		LastError:      record.LastError,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
		SentAt:         record.SentAt,
	}
}
