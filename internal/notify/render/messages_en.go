package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, "notify.generic.subject", "Folies Planning notification")
	message.SetString(lang, "notify.generic.body", "You have a new notification.")
	message.SetString(lang, "notify.slot.warmup", "warmup set")
	message.SetString(lang, "notify.slot.peaktime", "peaktime set")
	message.SetString(lang, "notify.slot.complete", "full night")
	message.SetString(lang, "notify.slot.unknown", "set")
	message.SetString(lang, "notify.assignment.subject", "You are booked for %s")
	message.SetString(lang, "notify.assignment.body", "%s, you are confirmed for the %s on %s. Fee: %d.")
	message.SetString(lang, "notify.reminder.subject", "Reminder: you play on %s")
	message.SetString(lang, "notify.reminder.body", "%s, your %s on %s is %d day(s) away.")
	message.SetString(lang, "notify.alert.subject", "Show night %s cannot be staffed")
	message.SetString(lang, "notify.alert.body", "No performer is available for %s (%s). Consider reaching out directly.")
	message.SetString(lang, "notify.alert.missing_both", "both sets")
}
