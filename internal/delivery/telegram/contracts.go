package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
	"github.com/aliskhannn/lingua-bot/internal/service"
	"github.com/aliskhannn/lingua-bot/internal/storage"
)

// BotAPI is the part of *tgbotapi.BotAPI the handler uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type DrillService interface {
	Start(ctx context.Context, learnerID int64, cfg entities.SessionConfig) (*service.SessionRunner, error)
}

type ProgressService interface {
	Summary(ctx context.Context, learnerID int64, contentType entities.ContentType, limit int) (*service.ProgressSummary, error)
}

type SessionStorage interface {
	Start(chatID, learnerID int64, runner *service.SessionRunner) *storage.DrillSession
	Get(chatID int64) (*storage.DrillSession, bool)
	GetByID(chatID int64, id uuid.UUID) (*storage.DrillSession, bool)
	SetMessageID(chatID int64, messageID int)
	Delete(chatID int64)
}

type DraftStorage interface {
	Reset(chatID int64, messageID int)
	Get(chatID int64) (storage.Draft, bool)
	Set(chatID int64, field storage.DraftField, value string) (storage.Draft, bool)
	Delete(chatID int64)
}
