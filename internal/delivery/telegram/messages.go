// messages.go contains message templates and formatting helpers for Telegram.

package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Error and status messages.
const (
	msgInternalError       = "Une erreur est survenue. Réessayez plus tard."
	msgUnknownCommand      = "Commande inconnue.\n\n" + msgCommands
	msgSelectAllParams     = "Veuillez sélectionner tous les paramètres"
	msgCatalogUnavailable  = "Ce vocabulaire n'est pas disponible pour le moment."
	msgNoSession           = "Aucune session en cours. Tapez /start pour en commencer une."
	msgSessionStopped      = "Session arrêtée. Tapez /start pour en commencer une nouvelle."
	msgStaleButton         = "Cette question n'est plus active."
	msgAlreadyAnswered     = "Vous avez déjà répondu."
	msgNotYourSession      = "Cette session appartient à un autre joueur."
	msgUseButtons          = "Choisissez une des réponses proposées."
	msgStatsUnavailable    = "Impossible d'afficher les statistiques. Réessayez plus tard."
	msgUnknownContentType  = "Type de contenu inconnu. Exemple : /stats mots ou /stats phrases."
	msgConfigureSession    = "<b>Configurer la session d'apprentissage</b>\n\nChoisissez la direction, le contenu, l'audio et le mode de jeu, puis appuyez sur ▶️ Jouer."
	msgSessionStartedTitle = "<b>Session d'apprentissage</b>"
)

const msgCommands = "/start — configurer une nouvelle session\n" +
	"/stats [mots|phrases] — vos statistiques\n" +
	"/stop — arrêter la session en cours\n" +
	"/help — aide"

const msgWelcome = "<b>Bienvenue !</b>\n\n" +
	"Ce bot vous aide à réviser du vocabulaire russe ↔ français. " +
	"Les mots que vous ratez reviennent plus souvent.\n\n" +
	msgCommands

const msgHelp = "<b>Comment ça marche</b>\n\n" +
	"• <b>Traduction</b> : tapez la traduction du mot affiché.\n" +
	"• <b>QCM</b> : choisissez la bonne réponse parmi quatre.\n" +
	"• <b>Mot manquant</b> : tapez le mot qui manque dans la phrase.\n\n" +
	"Les accents, la casse et les espaces en trop ne comptent pas.\n\n" +
	msgCommands

// esc escapes plain text for HTML parse mode.
func esc(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, s)
}

func bold(s string) string {
	return "<b>" + esc(s) + "</b>"
}

func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}

// newEdit creates an edit with HTML parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	return edit
}
