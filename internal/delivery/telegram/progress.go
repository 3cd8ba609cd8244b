package telegram

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
	"github.com/aliskhannn/lingua-bot/internal/service"
)

// weakestLimit is how many weak items the stats screen lists.
const weakestLimit = 5

// statsHandler sends the learner's statistics for one catalog.
func (h *Handler) statsHandler(userID int64, contentType entities.ContentType) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		summary, err := h.progress.Summary(ctx, userID, contentType, weakestLimit)
		if err != nil {
			h.logger.Error("failed to build stats",
				zap.Int64("user_id", userID),
				zap.String("content", string(contentType)),
				zap.Error(err),
			)
			h.sendError(chatID, msgStatsUnavailable)
			return nil
		}

		msg := newHTMLMessage(chatID, renderStats(contentType, summary))
		msg.ReplyMarkup = buildStatsKeyboard()
		h.send(msg)

		return nil
	}
}

func renderStats(contentType entities.ContentType, s *service.ProgressSummary) string {
	title := "📊 Vos statistiques : mots"
	if contentType == entities.ContentPhrases {
		title = "📊 Vos statistiques : phrases"
	}

	var sb strings.Builder
	sb.WriteString(bold(title))
	sb.WriteString("\n\n")
	sb.WriteString(esc(buildProgressBar(s.Attempted, s.CatalogSize, 20)))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("📖 <b>Déjà vus :</b> %d / %d\n", s.Attempted, s.CatalogSize))
	sb.WriteString(fmt.Sprintf("⏳ <b>Jamais vus :</b> %d\n", s.NotStarted))
	sb.WriteString(fmt.Sprintf("🎯 <b>Précision :</b> %.1f%% (%d / %d)\n", s.Accuracy(), s.Correct, s.Attempts))

	if len(s.Weakest) > 0 {
		sb.WriteString("\n<b>À revoir :</b>\n")
		for _, p := range s.Weakest {
			sb.WriteString(fmt.Sprintf("• %s — %s (%d / %d)\n",
				esc(p.Item.Russian),
				esc(p.Item.French),
				p.Record.CorrectAttempts,
				p.Record.TotalAttempts,
			))
		}
	}

	return sb.String()
}

// buildProgressBar creates ASCII progress bar.
func buildProgressBar(current, total, length int) string {
	if total == 0 {
		return fmt.Sprintf("[%s]", strings.Repeat("░", length))
	}

	filled := int(float64(current) / float64(total) * float64(length))
	if filled > length {
		filled = length
	}

	empty := length - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("[%s]", bar)
}
