package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb, msgStaleButton)
		return
	}

	data := decodeCallback(cb.Data)

	switch data.Action {
	case actionConfig:
		h.handleConfigCallback(cb, data.Params)

	case actionPlay:
		h.handlePlayCallback(ctx, cb)

	case actionAnswer:
		h.handleAnswerCallback(ctx, cb, data.Params)

	case actionNext:
		h.handleNextCallback(cb, data.Params)

	case actionRestart:
		h.answerCallback(cb, "")
		h.sendConfigKeyboard(cb.Message.Chat.ID)

	case actionStats:
		h.handleStatsCallback(ctx, cb, data.Params)

	default:
		h.logger.Warn("unknown callback",
			zap.String("data", data.Raw),
		)
		h.answerCallback(cb, "")
	}
}

func (h *Handler) handleStatsCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, params []string) {
	if len(params) != 1 {
		h.answerCallback(cb, msgStaleButton)
		return
	}

	contentType, err := entities.ParseContentType(params[0])
	if err != nil {
		h.answerCallback(cb, msgUnknownContentType)
		return
	}

	h.answerCallback(cb, "")
	_ = h.withErrorHandling(h.statsHandler(cb.From.ID, contentType))(ctx, cb.Message.Chat.ID)
}
