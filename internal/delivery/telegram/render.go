package telegram

import (
	"fmt"
	"strings"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
)

// renderQuestion renders the question message of a drill item.
func renderQuestion(q entities.Question, total int, cfg entities.SessionConfig) string {
	var sb strings.Builder

	sb.WriteString(msgSessionStartedTitle)
	sb.WriteString(fmt.Sprintf("\n<i>%d / %d</i>\n\n", q.Position+1, total))
	sb.WriteString(bold(q.Prompt))
	sb.WriteString("\n")

	if q.Mode == entities.ModeMissingWord && q.Hint != "" {
		sb.WriteString("💡 " + esc(q.Hint) + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(instruction(q.Mode, cfg.Direction))

	return sb.String()
}

func instruction(mode entities.GameMode, dir entities.Direction) string {
	switch mode {
	case entities.ModeMultipleChoice:
		return "Choisissez la bonne traduction :"
	case entities.ModeMissingWord:
		return "Tapez le mot manquant :"
	default:
		if dir == entities.DirectionFrRu {
			return "Tapez la traduction en russe :"
		}
		return "Tapez la traduction en français :"
	}
}

// renderFeedback renders the verdict appended below a validated question.
func renderFeedback(o entities.Outcome) string {
	if o.Correct {
		return "✅ <b>Correct !</b>"
	}

	var sb strings.Builder
	sb.WriteString("❌ <b>Incorrect</b>\n")
	if o.Given != "" {
		sb.WriteString("Votre réponse : " + esc(o.Given) + "\n")
	}
	sb.WriteString("La bonne réponse est : " + bold(o.Expected))

	return sb.String()
}

// renderSummary renders the end of session message.
func renderSummary(s entities.SessionSummary) string {
	return fmt.Sprintf(
		"🏁 <b>Session terminée</b>\n\n%s\n\n✅ <b>Bonnes réponses :</b> %d / %d (%.0f%%)",
		esc(buildProgressBar(s.Correct, s.Length, 20)),
		s.Correct,
		s.Length,
		s.Accuracy(),
	)
}
