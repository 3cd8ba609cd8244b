package logger

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/lingua-bot/internal/config"
)

// New builds the application logger: JSON output in production, console
// output with debug level elsewhere. Every entry carries the environment.
func New(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.Env == "production" {
		zcfg = zap.NewProductionConfig()
	}

	log, err := zcfg.Build()
	if err != nil {
		return nil, err
	}

	return log.Named("lingua-bot").With(zap.String("env", cfg.Env)), nil
}
