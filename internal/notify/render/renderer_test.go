package render

import (
	"strings"
	"testing"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func TestRenderAssignmentEnglish(t *testing.T) {
	t.Parallel()

	printer := message.NewPrinter(language.English)
	output := Render(printer, TopicAssignmentCreated, `{"stage_name":"DJ Nova","date":"2026-03-06","slot":"peaktime","fee":200}`)

	if !strings.Contains(output.Subject, "2026-03-06") {
		t.Errorf("Subject = %q, want the date", output.Subject)
	}
	if !strings.Contains(output.Body, "DJ Nova") || !strings.Contains(output.Body, "peaktime set") {
		t.Errorf("Body = %q, want stage name and slot label", output.Body)
	}
	if !strings.Contains(output.Body, "200") {
		t.Errorf("Body = %q, want the fee", output.Body)
	}
}

func TestRenderReminderFrench(t *testing.T) {
	t.Parallel()

	printer := message.NewPrinter(language.French)
	output := Render(printer, TopicBookingReminder, `{"stage_name":"DJ Nova","date":"2026-03-06","slot":"complete","lead_days":7}`)

	if !strings.Contains(output.Subject, "Rappel") {
		t.Errorf("Subject = %q, want French copy", output.Subject)
	}
	if !strings.Contains(output.Body, "soirée complète") {
		t.Errorf("Body = %q, want French slot label", output.Body)
	}
}

func TestRenderStaffingAlert(t *testing.T) {
	t.Parallel()

	printer := message.NewPrinter(language.English)
	output := Render(printer, TopicStaffingAlert, `{"date":"2026-03-06","missing_warmup":true,"missing_peaktime":false}`)

	if !strings.Contains(output.Subject, "2026-03-06") {
		t.Errorf("Subject = %q, want the date", output.Subject)
	}
	if !strings.Contains(output.Body, "warmup set") {
		t.Errorf("Body = %q, want the missing slot", output.Body)
	}
}

func TestRenderUnknownTopicFallsBack(t *testing.T) {
	t.Parallel()

	printer := message.NewPrinter(language.English)
	output := Render(printer, "mystery.topic", "")

	if output.Subject == "" || output.Body == "" {
		t.Errorf("output = %+v, want generic copy", output)
	}
}

func TestRenderMalformedPayload(t *testing.T) {
	t.Parallel()

	printer := message.NewPrinter(language.English)
	output := Render(printer, TopicAssignmentCreated, "{not json")

	if output.Subject == "" || output.Body == "" {
		t.Errorf("output = %+v, want zero-value copy rather than failure", output)
	}
}
