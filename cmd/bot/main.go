package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/aliskhannn/lingua-bot/internal/config"
	"github.com/aliskhannn/lingua-bot/internal/delivery/telegram"
	"github.com/aliskhannn/lingua-bot/internal/domain/entities"
	"github.com/aliskhannn/lingua-bot/internal/infra/filestore"
	"github.com/aliskhannn/lingua-bot/internal/infra/migrations"
	"github.com/aliskhannn/lingua-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/lingua-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/lingua-bot/internal/infra/sqlite"
	"github.com/aliskhannn/lingua-bot/internal/logger"
	"github.com/aliskhannn/lingua-bot/internal/repository"
	"github.com/aliskhannn/lingua-bot/internal/service"
	"github.com/aliskhannn/lingua-bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	statsRepo, closeStats, err := openStatsRepository(ctx, cfg)
	if err != nil {
		lg.Fatal("failed to open stats storage",
			zap.String("driver", cfg.Storage.Driver),
			zap.Error(err),
		)
	}
	defer closeStats()

	catalogRepo, err := repository.NewCatalogRepository(map[entities.ContentType]string{
		entities.ContentWords:   cfg.Catalog.WordsPath,
		entities.ContentPhrases: cfg.Catalog.PhrasesPath,
	})
	if err != nil {
		lg.Fatal("failed to load catalog", zap.Error(err))
	}

	statsStore := service.NewStatsStore(statsRepo, lg, cfg.Session.StoreTimeout)
	drillService := service.NewDrillService(catalogRepo, statsStore, lg)
	progressService := service.NewProgressService(catalogRepo, statsStore)

	sessions := storage.NewSessionStorage()
	drafts := storage.NewDraftStorage()

	janitor := service.NewSessionJanitor(
		cfg.Session.SweepSchedule,
		cfg.Session.IdleTimeout,
		lg,
		sessions,
		drafts,
	)
	go janitor.Start(ctx)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		lg.Fatal("failed to create bot", zap.Error(err))
	}

	commands := []tgbotapi.BotCommand{
		{
			Command:     "start",
			Description: "Configurer une nouvelle session",
		},
		{
			Command:     "stats",
			Description: "Vos statistiques (usage : /stats mots ou /stats phrases)",
		},
		{
			Command:     "stop",
			Description: "Arrêter la session en cours",
		},
		{
			Command:     "help",
			Description: "Aide",
		},
	}

	if _, err = bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	bot.Debug = cfg.Env != "production"
	lg.Info("authorized", zap.String("account", bot.Self.UserName))

	handler := telegram.NewHandler(
		bot,
		lg,
		drillService,
		progressService,
		sessions,
		drafts,
		cfg.AudioDir,
	)
	if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("handler stopped", zap.Error(err))
	}

	lg.Info("shutdown signal received")
}

// openStatsRepository opens the configured statistics storage, applying
// migrations for the SQL drivers.
func openStatsRepository(ctx context.Context, cfg *config.Config) (service.StatsRepository, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, nil, err
		}

		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}

		db := stdlib.OpenDBFromPool(pool)
		err = migrations.Up(ctx, db, migrations.Postgres)
		_ = db.Close()
		if err != nil {
			pool.Close()
			return nil, nil, err
		}

		return pgrepo.NewStatsRepository(pool), pool.Close, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite: %w", err)
		}

		if err := migrations.Up(ctx, db.DB, migrations.SQLite); err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return sqlite.NewStatsRepository(db), func() { _ = db.Close() }, nil

	default:
		return filestore.NewStatsRepository(cfg.Storage.FilePath), func() {}, nil
	}
}
