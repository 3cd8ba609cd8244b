package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
	"github.com/aliskhannn/lingua-bot/internal/storage"
)

// startHandler greets the user and shows the configuration keyboard.
func (h *Handler) startHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.send(newHTMLMessage(chatID, msgWelcome))
		h.sendConfigKeyboard(chatID)
		return nil
	}
}

// sendConfigKeyboard sends an empty configuration keyboard and starts a new draft.
func (h *Handler) sendConfigKeyboard(chatID int64) {
	msg := newHTMLMessage(chatID, msgConfigureSession)
	msg.ReplyMarkup = buildConfigKeyboard(storage.Draft{})

	sent, ok := h.sendMessage(msg)
	if !ok {
		return
	}

	h.drafts.Reset(chatID, sent.MessageID)
}

// handleConfigCallback records one choice and redraws the keyboard.
func (h *Handler) handleConfigCallback(cb *tgbotapi.CallbackQuery, params []string) {
	if len(params) != 2 {
		h.answerCallback(cb, msgStaleButton)
		return
	}

	chatID := cb.Message.Chat.ID

	draft, ok := h.drafts.Set(chatID, storage.DraftField(params[0]), params[1])
	if !ok {
		h.answerCallback(cb, msgStaleButton)
		return
	}

	h.send(tgbotapi.NewEditMessageReplyMarkup(chatID, cb.Message.MessageID, buildConfigKeyboard(draft)))
	h.answerCallback(cb, "")
}

// handlePlayCallback starts a drill from the chat's draft. Nothing starts
// until every field of the draft is chosen.
func (h *Handler) handlePlayCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID

	draft, _ := h.drafts.Get(chatID)

	cfg, err := entities.ParseSessionConfig(draft.Direction, draft.ContentType, draft.Audio, draft.GameMode)
	if err != nil {
		h.logger.Debug("incomplete session config",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		h.answerCallback(cb, msgSelectAllParams)
		return
	}

	runner, err := h.drills.Start(ctx, cb.From.ID, cfg)
	if err != nil {
		if errors.Is(err, entities.ErrConfiguration) {
			h.logger.Warn("session not started",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.answerCallback(cb, msgCatalogUnavailable)
			return
		}

		h.logger.Error("failed to start drill session",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		h.answerCallback(cb, msgInternalError)
		return
	}

	h.answerCallback(cb, "")
	h.drafts.Delete(chatID)
	h.send(newEdit(chatID, cb.Message.MessageID, renderConfig(cfg)))

	session := h.sessions.Start(chatID, cb.From.ID, runner)
	h.sendQuestion(chatID, session)
}

func renderConfig(cfg entities.SessionConfig) string {
	return fmt.Sprintf(
		"<b>Session configurée</b>\n\n"+
			"🧭 <b>Direction :</b> %s\n"+
			"📚 <b>Contenu :</b> %s\n"+
			"🔊 <b>Audio :</b> %s\n"+
			"🎲 <b>Mode :</b> %s",
		formatDirection(cfg.Direction),
		formatContentType(cfg.ContentType),
		formatAudio(cfg.Audio),
		formatGameMode(cfg.GameMode),
	)
}

func formatDirection(d entities.Direction) string {
	if d == entities.DirectionFrRu {
		return "Français → Russe"
	}
	return "Russe → Français"
}

func formatContentType(ct entities.ContentType) string {
	if ct == entities.ContentPhrases {
		return "Phrases"
	}
	return "Mots"
}

func formatAudio(a entities.AudioMode) string {
	if a == entities.AudioOn {
		return "Avec audio"
	}
	return "Sans audio"
}

func formatGameMode(mode entities.GameMode) string {
	switch mode {
	case entities.ModeMultipleChoice:
		return "QCM"
	case entities.ModeMissingWord:
		return "Mot manquant"
	default:
		return "Traduction"
	}
}
