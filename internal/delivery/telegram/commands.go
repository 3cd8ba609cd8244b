package telegram

import (
	"context"
	"strings"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
)

// handleStatsCommand handles "/stats [mots|phrases]". Words are shown by default.
func (h *Handler) handleStatsCommand(ctx context.Context, chatID, userID int64, args string) {
	contentType := entities.ContentWords

	if arg := strings.TrimSpace(args); arg != "" {
		ct, err := entities.ParseContentType(arg)
		if err != nil {
			h.send(newHTMLMessage(chatID, msgUnknownContentType))
			return
		}
		contentType = ct
	}

	_ = h.withErrorHandling(h.statsHandler(userID, contentType))(ctx, chatID)
}

// handleStopCommand abandons the running session and any draft. Only the
// learner who started the session can stop it.
func (h *Handler) handleStopCommand(chatID, userID int64) {
	session, ok := h.sessions.Get(chatID)
	if ok && !session.OwnedBy(userID) {
		h.send(newHTMLMessage(chatID, msgNotYourSession))
		return
	}

	h.drafts.Delete(chatID)

	if !ok {
		h.send(newHTMLMessage(chatID, msgNoSession))
		return
	}

	h.sessions.Delete(chatID)
	h.send(newHTMLMessage(chatID, msgSessionStopped))
}
