package telegram

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling runs fn for a chat and turns its failure into a reply.
// Shutdown cancellation is not reported to the user.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
			if err == nil {
				return
			}

			switch {
			case errors.Is(err, context.Canceled):
				h.logger.Debug("handler canceled", zap.Int64("chat_id", chatID))
			case errors.Is(err, entities.ErrConfiguration):
				h.logger.Warn("invalid session configuration",
					zap.Int64("chat_id", chatID),
					zap.Error(err),
				)
				h.sendError(chatID, msgSelectAllParams)
			default:
				h.logger.Error("handle error",
					zap.Int64("chat_id", chatID),
					zap.Error(err),
				)
				h.sendError(chatID, msgInternalError)
			}
			err = nil
		}()

		return fn(ctx, chatID)
	}
}
