package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrUnknownStorageDriver        = errors.New("unknown storage driver")
)

// Storage drivers for learner statistics.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverFile     = "file"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string  `mapstructure:"env"`       // current application environment (local, dev, production etc)
	TelegramAPIToken string  `mapstructure:"-"`         // Telegram API token loaded from environment
	AudioDir         string  `mapstructure:"audio_dir"` // directory with pronunciation files, empty disables audio
	Catalog          Catalog `mapstructure:"catalog"`   // vocabulary catalog files
	Storage          Storage `mapstructure:"storage"`   // statistics storage section
	DB               DB      `mapstructure:"database"`  // database configuration section
	Session          Session `mapstructure:"session"`   // drill session lifecycle
}

// Catalog points to the vocabulary lists (.json, .csv or .xlsx).
type Catalog struct {
	WordsPath   string `mapstructure:"words_path"`
	PhrasesPath string `mapstructure:"phrases_path"`
}

// Storage selects where learner statistics live.
type Storage struct {
	Driver     string `mapstructure:"driver"`      // postgres, sqlite or file
	SQLitePath string `mapstructure:"sqlite_path"` // database file for the sqlite driver
	FilePath   string `mapstructure:"file_path"`   // JSON document for the file driver
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Session contains drill session parameters.
type Session struct {
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`   // abandoned sessions are evicted after this
	SweepSchedule string        `mapstructure:"sweep_schedule"` // cron expression of the eviction job
	StoreTimeout  time.Duration `mapstructure:"store_timeout"`  // deadline of a single statistics call
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from .env, config files and environment variables.
func Load() (*Config, error) {
	// Populate the process environment from .env when present.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("env", "local")
	v.SetDefault("audio_dir", "")
	v.SetDefault("catalog.words_path", "assets/words.json")
	v.SetDefault("catalog.phrases_path", "assets/phrases.json")
	v.SetDefault("storage.driver", DriverFile)
	v.SetDefault("storage.sqlite_path", "data/stats.db")
	v.SetDefault("storage.file_path", "data/stats.json")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("session.idle_timeout", "30m")
	v.SetDefault("session.sweep_schedule", "@every 5m")
	v.SetDefault("session.store_timeout", "3s")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.DB.URL = v.GetString("database_url")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverPostgres:
		if c.DB.URL == "" {
			return ErrMissingEnvironmentVariables
		}
	case DriverSQLite, DriverFile:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageDriver, c.Storage.Driver)
	}

	return nil
}
