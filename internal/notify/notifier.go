package notify

import (
	"context"
	"encoding/json"
	"fmt"

	notifydomain "github.com/tbhone/folies-planning/internal/notify/domain"
	"github.com/tbhone/folies-planning/internal/notify/render"
	scheduledomain "github.com/tbhone/folies-planning/internal/schedule/domain"
	"github.com/tbhone/folies-planning/internal/schedule/service"
)

// AssignmentNotifier enqueues outbox messages for schedule events.
type AssignmentNotifier struct {
	outbox *notifydomain.Service
}

// NewAssignmentNotifier wires the outbox into the schedule service boundary.
func NewAssignmentNotifier(outbox *notifydomain.Service) *AssignmentNotifier {
	return &AssignmentNotifier{outbox: outbox}
}

// NotifyAssignment queues the booking confirmation for the performer.
func (n *AssignmentNotifier) NotifyAssignment(ctx context.Context, performer scheduledomain.Performer, assignment scheduledomain.Assignment) error {
	if n == nil || n.outbox == nil {
		return nil
	}
	payload, err := json.Marshal(map[string]any{
		"stage_name": performer.StageName,
		"date":       scheduledomain.FormatDate(assignment.Date),
		"slot":       string(assignment.Slot),
		"fee":        assignment.Fee,
	})
	if err != nil {
		return fmt.Errorf("encode assignment payload: %w", err)
	}

	_, err = n.outbox.Enqueue(ctx, notifydomain.EnqueueInput{
		RecipientID:    performer.ID,
		RecipientEmail: performer.Email,
		Topic:          render.TopicAssignmentCreated,
		PayloadJSON:    string(payload),
		DedupeKey:      "assignment:" + assignment.ID,
	})
	return err
}

// EnqueueReminder queues one booking reminder from a daily check.
func (n *AssignmentNotifier) EnqueueReminder(ctx context.Context, reminder service.Reminder) error {
	if n == nil || n.outbox == nil {
		return nil
	}
	payload, err := json.Marshal(map[string]any{
		"stage_name": reminder.Performer.StageName,
		"date":       scheduledomain.FormatDate(reminder.Assignment.Date),
		"slot":       string(reminder.Assignment.Slot),
		"lead_days":  reminder.LeadDays,
	})
	if err != nil {
		return fmt.Errorf("encode reminder payload: %w", err)
	}

	_, err = n.outbox.Enqueue(ctx, notifydomain.EnqueueInput{
		RecipientID:    reminder.Performer.ID,
		RecipientEmail: reminder.Performer.Email,
		Topic:          render.TopicBookingReminder,
		PayloadJSON:    string(payload),
		DedupeKey:      reminder.DedupeKey,
	})
	return err
}

// EnqueueAdminAlert queues one understaffed-night alert for the coordinator.
func (n *AssignmentNotifier) EnqueueAdminAlert(ctx context.Context, admin scheduledomain.Performer, alert service.AdminAlert) error {
	if n == nil || n.outbox == nil {
		return nil
	}
	payload, err := json.Marshal(map[string]any{
		"date":             scheduledomain.FormatDate(alert.Date),
		"missing_warmup":   !alert.Occupancy.HasWarmup && alert.Tally.Warmup == 0,
		"missing_peaktime": !alert.Occupancy.HasPeaktime && alert.Tally.Peaktime == 0,
		"willing_warmup":   alert.Tally.Warmup,
		"willing_peaktime": alert.Tally.Peaktime,
	})
	if err != nil {
		return fmt.Errorf("encode alert payload: %w", err)
	}

	_, err = n.outbox.Enqueue(ctx, notifydomain.EnqueueInput{
		RecipientID:    admin.ID,
		RecipientEmail: admin.Email,
		Topic:          render.TopicStaffingAlert,
		PayloadJSON:    string(payload),
		DedupeKey:      alert.DedupeKey,
	})
	return err
}
