package notify

import (
	"context"
	"log"

	"github.com/tbhone/folies-planning/internal/notify/domain"
	"github.com/tbhone/folies-planning/internal/notify/render"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LogSender renders queued messages and writes them to the process log. It
// stands in for a real mail transport in development and single-venue
// deployments.
type LogSender struct {
	printer *message.Printer
}

// NewLogSender creates a LogSender localized for the given language.
func NewLogSender(lang language.Tag) *LogSender {
	if lang == (language.Tag{}) {
		lang = language.English
	}
	return &LogSender{printer: message.NewPrinter(lang)}
}

// Send renders one message and logs it.
func (s *LogSender) Send(_ context.Context, msg domain.Message) error {
	output := render.Render(s.printer, msg.Topic, msg.PayloadJSON)
	log.Printf("notify %s <%s>: %s | %s", msg.RecipientID, msg.RecipientEmail, output.Subject, output.Body)
	return nil
}
