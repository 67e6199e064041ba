// Package render turns stored notification payloads into localized copy.
package render

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/message"
)

const (
	// TopicAssignmentCreated announces a confirmed booking to a performer.
	TopicAssignmentCreated = "schedule.assignment.created"
	// TopicBookingReminder reminds a performer of an upcoming booking.
	TopicBookingReminder = "schedule.booking.reminder"
	// TopicStaffingAlert warns the coordinator about an unstaffable night.
	TopicStaffingAlert = "schedule.staffing.alert"
)

// Output is localized copy for one queued message.
type Output struct {
	Subject string
	Body    string
}

// Localizer is the minimal message-printer contract required by the renderer.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

type assignmentPayload struct {
	StageName string `json:"stage_name"`
	Date      string `json:"date"`
	Slot      string `json:"slot"`
	Fee       int    `json:"fee"`
}

type reminderPayload struct {
	StageName string `json:"stage_name"`
	Date      string `json:"date"`
	Slot      string `json:"slot"`
	LeadDays  int    `json:"lead_days"`
}

type alertPayload struct {
	Date          string `json:"date"`
	MissingWarmup bool   `json:"missing_warmup"`
	MissingPeak   bool   `json:"missing_peaktime"`
	WillingWarmup int    `json:"willing_warmup"`
	WillingPeak   int    `json:"willing_peaktime"`
}

// Render returns localized copy for one queued message.
func Render(loc Localizer, topic string, payloadJSON string) Output {
	switch strings.TrimSpace(topic) {
	case TopicAssignmentCreated:
		var payload assignmentPayload
		decode(payloadJSON, &payload)
		return Output{
			Subject: loc.Sprintf("notify.assignment.subject", payload.Date),
			Body:    loc.Sprintf("notify.assignment.body", payload.StageName, slotLabel(loc, payload.Slot), payload.Date, payload.Fee),
		}
	case TopicBookingReminder:
		var payload reminderPayload
		decode(payloadJSON, &payload)
		return Output{
			Subject: loc.Sprintf("notify.reminder.subject", payload.Date),
			Body:    loc.Sprintf("notify.reminder.body", payload.StageName, slotLabel(loc, payload.Slot), payload.Date, payload.LeadDays),
		}
	case TopicStaffingAlert:
		var payload alertPayload
		decode(payloadJSON, &payload)
		return Output{
			Subject: loc.Sprintf("notify.alert.subject", payload.Date),
			Body:    loc.Sprintf("notify.alert.body", payload.Date, missingLabel(loc, payload)),
		}
	default:
		return Output{
			Subject: loc.Sprintf("notify.generic.subject"),
			Body:    loc.Sprintf("notify.generic.body"),
		}
	}
}

func decode(payloadJSON string, target any) {
	trimmed := strings.TrimSpace(payloadJSON)
	if trimmed == "" {
		return
	}
	// Malformed payloads fall back to zero values rather than failing the
	// whole delivery pass.
	_ = json.Unmarshal([]byte(trimmed), target)
}

func slotLabel(loc Localizer, slot string) string {
	switch strings.TrimSpace(slot) {
	case "warmup":
		return loc.Sprintf("notify.slot.warmup")
	case "peaktime":
		return loc.Sprintf("notify.slot.peaktime")
	case "complete":
		return loc.Sprintf("notify.slot.complete")
	default:
		return loc.Sprintf("notify.slot.unknown")
	}
}

func missingLabel(loc Localizer, payload alertPayload) string {
	switch {
	case payload.MissingWarmup && payload.MissingPeak:
		return loc.Sprintf("notify.alert.missing_both")
	case payload.MissingWarmup:
		return loc.Sprintf("notify.slot.warmup")
	case payload.MissingPeak:
		return loc.Sprintf("notify.slot.peaktime")
	default:
		return loc.Sprintf("notify.alert.missing_both")
	}
}
