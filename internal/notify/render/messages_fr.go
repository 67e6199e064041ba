package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.French

	message.SetString(lang, "notify.generic.subject", "Notification Folies Planning")
	message.SetString(lang, "notify.generic.body", "Vous avez une nouvelle notification.")
	message.SetString(lang, "notify.slot.warmup", "set d'ouverture")
	message.SetString(lang, "notify.slot.peaktime", "set principal")
	message.SetString(lang, "notify.slot.complete", "soirée complète")
	message.SetString(lang, "notify.slot.unknown", "set")
	message.SetString(lang, "notify.assignment.subject", "Vous êtes programmé le %s")
	message.SetString(lang, "notify.assignment.body", "%s, vous êtes confirmé pour le %s du %s. Cachet : %d.")
	message.SetString(lang, "notify.reminder.subject", "Rappel : vous jouez le %s")
	message.SetString(lang, "notify.reminder.body", "%s, votre %s du %s est dans %d jour(s).")
	message.SetString(lang, "notify.alert.subject", "Soirée du %s sans programmation")
	message.SetString(lang, "notify.alert.body", "Aucun artiste n'est disponible pour le %s (%s). Pensez à contacter l'équipe directement.")
	message.SetString(lang, "notify.alert.missing_both", "les deux sets")
}
