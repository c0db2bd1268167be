package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Generator GeneratorConfig
	Scheduler SchedulerConfig
	RateLimit RateLimitConfig
	Clients   ClientsConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port         string `validate:"required,numeric"`
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DataConfig locates the CSV system of record and the static dashboard assets.
type DataConfig struct {
	Dir       string `validate:"required"`
	StaticDir string `validate:"required"`
}

// GeneratorConfig carries defaults for synthetic dataset generation.
type GeneratorConfig struct {
	Days          int   `validate:"min=1,max=1095"`
	RecordsPerDay int   `validate:"min=1,max=500"`
	Seed          int64 `validate:"min=0"`
}

// SchedulerConfig controls the optional cron-driven regeneration job.
// An empty schedule disables the job entirely.
type SchedulerConfig struct {
	CronSchedule string
}

// RateLimitConfig tunes the per-process token bucket applied to API requests.
type RateLimitConfig struct {
	RPS   int `validate:"min=1"`
	Burst int `validate:"min=1"`
}

// ClientsConfig holds settings for the external market data clients.
type ClientsConfig struct {
	CoinGeckoBaseURL string `validate:"required,url"`
	WorldBankBaseURL string `validate:"required,url"`
	Timeout          time.Duration
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string `validate:"oneof=debug info warn error"`
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from the
		// environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getenvWithDefault("APP_PORT", "8080"),
			ReadTimeout:  getenvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getenvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getenvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Data: DataConfig{
			Dir:       getenvWithDefault("DATA_DIR", "data"),
			StaticDir: getenvWithDefault("STATIC_DIR", "web/static"),
		},
		Generator: GeneratorConfig{
			Days:          getenvInt("GEN_DAYS", 365),
			RecordsPerDay: getenvInt("GEN_RECORDS_PER_DAY", 50),
			Seed:          int64(getenvInt("GEN_SEED", 0)),
		},
		Scheduler: SchedulerConfig{
			CronSchedule: os.Getenv("REGEN_CRON_SCHEDULE"),
		},
		RateLimit: RateLimitConfig{
			RPS:   getenvInt("RATE_LIMIT_RPS", 50),
			Burst: getenvInt("RATE_LIMIT_BURST", 100),
		},
		Clients: ClientsConfig{
			CoinGeckoBaseURL: getenvWithDefault("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),
			WorldBankBaseURL: getenvWithDefault("WORLDBANK_BASE_URL", "https://api.worldbank.org/v2"),
			Timeout:          getenvDuration("CLIENT_TIMEOUT", 20*time.Second),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated and sane.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return errors.New("server timeouts must be positive")
	}

	if c.Clients.Timeout <= 0 {
		return errors.New("CLIENT_TIMEOUT must be positive")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
