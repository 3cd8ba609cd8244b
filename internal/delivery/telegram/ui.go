package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
	"github.com/aliskhannn/lingua-bot/internal/storage"
)

// configChoice is one button of the configuration keyboard.
type configChoice struct {
	label string
	value string
}

var (
	directionChoices = []configChoice{
		{label: "🇷🇺 → 🇫🇷", value: "1"},
		{label: "🇫🇷 → 🇷🇺", value: "2"},
	}
	contentChoices = []configChoice{
		{label: "📝 Mots", value: "mots"},
		{label: "💬 Phrases", value: "phrases"},
	}
	audioChoices = []configChoice{
		{label: "🔊 Avec audio", value: "avec"},
		{label: "🔇 Sans audio", value: "sans"},
	}
	modeChoices = []configChoice{
		{label: "✍️ Traduction", value: "traduction"},
		{label: "🔢 QCM", value: "qcm1"},
		{label: "🧩 Mot manquant", value: "mot-manquant"},
	}
)

// buildConfigKeyboard builds the session configuration keyboard, marking
// the choices already made in the draft.
func buildConfigKeyboard(d storage.Draft) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		buildChoiceRow(storage.FieldDirection, directionChoices, d.Direction),
		buildChoiceRow(storage.FieldContent, contentChoices, d.ContentType),
		buildChoiceRow(storage.FieldAudio, audioChoices, d.Audio),
		buildChoiceRow(storage.FieldMode, modeChoices, d.GameMode),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("▶️ Jouer", buildPlayCallback()),
		),
	)
}

func buildChoiceRow(field storage.DraftField, choices []configChoice, selected string) []tgbotapi.InlineKeyboardButton {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(choices))
	for _, c := range choices {
		label := c.label
		if c.value == selected {
			label = "✅ " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, buildConfigCallback(field, c.value)))
	}
	return tgbotapi.NewInlineKeyboardRow(row...)
}

// buildOptionsKeyboard builds keyboard for a multiple choice question.
func buildOptionsKeyboard(sessionID uuid.UUID, q entities.Question) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(q.Options))
	for i, option := range q.Options {
		data := buildAnswerCallback(sessionID, q.Position, i)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(option, data)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildNextKeyboard(sessionID uuid.UUID, position int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Suivant ▶️", buildNextCallback(sessionID, position)),
		),
	)
}

// buildSummaryKeyboard builds keyboard for the end of a session.
func buildSummaryKeyboard(contentType entities.ContentType) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Nouvelle session", buildRestartCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Statistiques", buildStatsCallback(string(contentType))),
		),
	)
}

func buildStatsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Mots", buildStatsCallback(string(entities.ContentWords))),
			tgbotapi.NewInlineKeyboardButtonData("💬 Phrases", buildStatsCallback(string(entities.ContentPhrases))),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Nouvelle session", buildRestartCallback()),
		),
	)
}
