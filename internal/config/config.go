package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/NouradinAbdurahman/portfolio-api/pkg/models"
)

// Config holds all configuration for the portfolio API server.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Translate TranslateConfig
	Worker    WorkerConfig
	Admin     AdminConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

type TranslateConfig struct {
	TargetLocales  []string
	RequestTimeout time.Duration
	DeepL          DeepLConfig
	Google         GoogleConfig
}

type DeepLConfig struct {
	APIKey  string
	Pro     bool   // pro accounts use api.deepl.com, free accounts api-free.deepl.com
	BaseURL string // endpoint override, normally empty
}

type GoogleConfig struct {
	APIKey  string
	BaseURL string // endpoint override, normally empty
}

type WorkerConfig struct {
	PollInterval time.Duration
	StuckTimeout time.Duration
	MaxAttempts  int
}

type AdminConfig struct {
	// APIKeyHash is the bcrypt hash of the single admin bearer token.
	APIKeyHash string
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("PORTFOLIO_PORT", 8080),
			Env:  envString("PORTFOLIO_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Translate: TranslateConfig{
			TargetLocales:  envLocales("TRANSLATE_TARGET_LOCALES", models.DefaultTargetLocales),
			RequestTimeout: envDuration("TRANSLATE_REQUEST_TIMEOUT", 15*time.Second),
			DeepL: DeepLConfig{
				APIKey:  os.Getenv("DEEPL_API_KEY"),
				Pro:     envBool("DEEPL_API_PRO", false),
				BaseURL: os.Getenv("DEEPL_BASE_URL"),
			},
			Google: GoogleConfig{
				APIKey:  os.Getenv("GOOGLE_TRANSLATE_API_KEY"),
				BaseURL: os.Getenv("GOOGLE_TRANSLATE_BASE_URL"),
			},
		},
		Worker: WorkerConfig{
			PollInterval: envDuration("WORKER_POLL_INTERVAL", 30*time.Second),
			StuckTimeout: envDuration("WORKER_STUCK_TIMEOUT", 10*time.Minute),
			MaxAttempts:  envInt("WORKER_MAX_ATTEMPTS", models.DefaultMaxAttempts),
		},
		Admin: AdminConfig{
			APIKeyHash: os.Getenv("ADMIN_API_KEY_HASH"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Admin.APIKeyHash == "" {
		return fmt.Errorf("ADMIN_API_KEY_HASH is required")
	}

	if len(c.Translate.TargetLocales) == 0 {
		return fmt.Errorf("TRANSLATE_TARGET_LOCALES must name at least one locale")
	}
	for _, l := range c.Translate.TargetLocales {
		if !models.IsSupportedLocale(l) {
			return fmt.Errorf("TRANSLATE_TARGET_LOCALES contains unsupported locale %q", l)
		}
		if l == models.LocaleEnglish {
			return fmt.Errorf("TRANSLATE_TARGET_LOCALES must not contain the source locale %q", l)
		}
	}

	if c.Worker.PollInterval <= 0 {
		return fmt.Errorf("WORKER_POLL_INTERVAL must be positive")
	}
	if c.Worker.MaxAttempts <= 0 {
		return fmt.Errorf("WORKER_MAX_ATTEMPTS must be positive")
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envLocales(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var locales []string
	for _, part := range strings.Split(v, ",") {
		if l := strings.TrimSpace(part); l != "" {
			locales = append(locales, l)
		}
	}
	return locales
}
