package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
	"github.com/aliskhannn/lingua-bot/internal/service"
	"github.com/aliskhannn/lingua-bot/internal/storage"
)

// sendQuestion sends the current item of the session, followed by the
// pronunciation of its prompt when audio is enabled. A missing-word prompt is
// pronounced only after validation since the recording contains the blank.
func (h *Handler) sendQuestion(chatID int64, session *storage.DrillSession) {
	runner := session.Runner
	cfg := runner.Config()
	q := runner.Current()

	msg := newHTMLMessage(chatID, renderQuestion(q, runner.Len(), cfg))
	if q.Mode == entities.ModeMultipleChoice {
		msg.ReplyMarkup = buildOptionsKeyboard(session.ID, q)
	}

	if sent, ok := h.sendMessage(msg); ok {
		h.sessions.SetMessageID(chatID, sent.MessageID)
	}

	if cfg.AudioEnabled() && q.Mode != entities.ModeMissingWord {
		h.sendPromptAudio(chatID, q.Item, cfg.Direction)
	}
}

func (h *Handler) sendPromptAudio(chatID int64, item entities.VocabularyItem, direction entities.Direction) {
	if audio, ok := h.buildPromptAudio(chatID, item, direction); ok {
		h.send(*audio)
	}
}

// textAnswerHandler validates a typed answer against the chat's running session.
// Messages of other chat members are ignored.
func (h *Handler) textAnswerHandler(userID int64, text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		session, ok := h.sessions.Get(chatID)
		if !ok {
			h.send(newHTMLMessage(chatID, msgNoSession))
			return nil
		}
		if !session.OwnedBy(userID) {
			return nil
		}

		outcome, err := session.Runner.SubmitText(ctx, text)
		switch {
		case errors.Is(err, service.ErrEmptyAnswer):
			return nil
		case errors.Is(err, service.ErrModeMismatch):
			h.send(newHTMLMessage(chatID, msgUseButtons))
			return nil
		case errors.Is(err, service.ErrAlreadyValidated):
			h.send(newHTMLMessage(chatID, msgAlreadyAnswered))
			return nil
		case err != nil:
			return fmt.Errorf("submit answer: %w", err)
		}

		h.showOutcome(chatID, 0, session, outcome)
		return nil
	}
}

// handleAnswerCallback validates a multiple choice selection.
func (h *Handler) handleAnswerCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, params []string) {
	chatID := cb.Message.Chat.ID

	session, ref, ok := h.activeSession(chatID, params, true)
	if !ok {
		h.answerCallback(cb, msgStaleButton)
		return
	}
	if !session.OwnedBy(cb.From.ID) {
		h.answerCallback(cb, msgNotYourSession)
		return
	}

	outcome, err := session.Runner.SubmitOption(ctx, ref.Option)
	if err != nil {
		h.logger.Debug("option rejected",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		if errors.Is(err, service.ErrAlreadyValidated) {
			h.answerCallback(cb, msgAlreadyAnswered)
			return
		}
		h.answerCallback(cb, msgStaleButton)
		return
	}

	h.answerCallback(cb, "")
	h.showOutcome(chatID, cb.Message.MessageID, session, outcome)
}

// handleNextCallback moves the session to its next item.
func (h *Handler) handleNextCallback(cb *tgbotapi.CallbackQuery, params []string) {
	chatID := cb.Message.Chat.ID

	session, _, ok := h.activeSession(chatID, params, false)
	if !ok {
		h.answerCallback(cb, msgStaleButton)
		return
	}
	if !session.OwnedBy(cb.From.ID) {
		h.answerCallback(cb, msgNotYourSession)
		return
	}

	if _, err := session.Runner.Next(); err != nil {
		h.logger.Debug("next rejected",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		h.answerCallback(cb, msgStaleButton)
		return
	}

	h.answerCallback(cb, "")
	h.send(tgbotapi.NewEditMessageReplyMarkup(chatID, cb.Message.MessageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	}))
	h.sendQuestion(chatID, session)
}

// activeSession resolves the session and item a drill button belongs to.
// Buttons of another session or another item are rejected.
func (h *Handler) activeSession(chatID int64, params []string, withOption bool) (*storage.DrillSession, drillRef, bool) {
	ref, ok := parseDrillRef(params, withOption)
	if !ok {
		return nil, drillRef{}, false
	}

	session, ok := h.sessions.GetByID(chatID, ref.SessionID)
	if !ok || session.Runner.Position() != ref.Position {
		return nil, drillRef{}, false
	}

	return session, ref, true
}

// showOutcome shows the verdict of the current item. With a message id the
// question message is edited in place, otherwise a new message is sent.
func (h *Handler) showOutcome(chatID int64, messageID int, session *storage.DrillSession, outcome entities.Outcome) {
	runner := session.Runner
	q := runner.Current()

	var kb *tgbotapi.InlineKeyboardMarkup
	if runner.HasNext() {
		next := buildNextKeyboard(session.ID, q.Position)
		kb = &next
	}

	if messageID != 0 {
		text := renderQuestion(q, runner.Len(), runner.Config()) + "\n\n" + renderFeedback(outcome)
		edit := newEdit(chatID, messageID, text)
		edit.ReplyMarkup = kb
		h.send(edit)
	} else {
		msg := newHTMLMessage(chatID, renderFeedback(outcome))
		if kb != nil {
			msg.ReplyMarkup = *kb
		}
		h.send(msg)
	}

	if cfg := runner.Config(); cfg.AudioEnabled() && q.Mode == entities.ModeMissingWord {
		h.sendPromptAudio(chatID, q.Item, cfg.Direction)
	}

	if runner.Finished() {
		h.finishSession(chatID, session)
	}
}

func (h *Handler) finishSession(chatID int64, session *storage.DrillSession) {
	summary := session.Runner.Summary()

	h.logger.Info("drill session finished",
		zap.Int64("chat_id", chatID),
		zap.String("session_id", session.ID.String()),
		zap.Int("length", summary.Length),
		zap.Int("correct", summary.Correct),
	)

	h.sessions.Delete(chatID)

	msg := newHTMLMessage(chatID, renderSummary(summary))
	msg.ReplyMarkup = buildSummaryKeyboard(session.Runner.Config().ContentType)
	h.send(msg)
}
