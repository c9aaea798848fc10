package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
	// MenuImage is the picture used as the main menu message; optional.
	MenuImage string `yaml:"menu_image" envconfig:"TELEGRAM_MENU_IMAGE"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir"`
	BotFile     string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
)

// RateLimitConfig holds settings for rate limiting.
// ExcludeUpdates accepts update types to bypass limiting:
// - "callback": Telegram callback button presses
// - "message": standard text messages
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

const (
	// DriverJSON stores user and session records in whole-file JSON documents.
	DriverJSON = "json"
	// DriverPostgres stores records in PostgreSQL via sqlx.
	DriverPostgres = "postgres"
	// DriverSQLite stores records in an embedded SQLite database.
	DriverSQLite = "sqlite"
)

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Driver        string `yaml:"driver" envconfig:"STORAGE_DRIVER"`
	DataDir       string `yaml:"data_dir" envconfig:"STORAGE_DATA_DIR"`
	UsersFile     string `yaml:"users_file"`
	SessionFile   string `yaml:"session_file"`
	WhitelistFile string `yaml:"whitelist_file"`
	SQLitePath    string `yaml:"sqlite_path" envconfig:"STORAGE_SQLITE_PATH"`
}

// UsersPath returns the resolved path of the users JSON document.
func (s StorageConfig) UsersPath() string { return filepath.Join(s.DataDir, s.UsersFile) }

// SessionPath returns the resolved path of the session JSON document.
func (s StorageConfig) SessionPath() string { return filepath.Join(s.DataDir, s.SessionFile) }

// WhitelistPath returns the resolved path of the whitelist JSON document.
func (s StorageConfig) WhitelistPath() string { return filepath.Join(s.DataDir, s.WhitelistFile) }

// DatabaseConfig holds SQL connection settings for the postgres driver.
type DatabaseConfig struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// Config aggregates the bot configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Storage   StorageConfig   `yaml:"storage"`
	Database  DatabaseConfig  `yaml:"database"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	allowed := map[string]struct{}{
		UpdateCallback: {},
		UpdateMessage:  {},
	}
	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}

	return normalizeStorage(&cfg.Storage, &cfg.Database)
}

func normalizeStorage(st *StorageConfig, db *DatabaseConfig) error {
	driver := strings.ToLower(strings.TrimSpace(st.Driver))
	if driver == "" {
		driver = DriverJSON
	}
	switch driver {
	case DriverJSON, DriverSQLite:
	case DriverPostgres:
		if strings.TrimSpace(db.Host) == "" || strings.TrimSpace(db.Name) == "" {
			return fmt.Errorf("database.host and database.name are required when storage.driver is 'postgres'")
		}
	default:
		return fmt.Errorf("invalid storage.driver %q; allowed: json, postgres, sqlite", st.Driver)
	}
	st.Driver = driver

	if strings.TrimSpace(st.DataDir) == "" {
		st.DataDir = "data"
	}
	if strings.TrimSpace(st.UsersFile) == "" {
		st.UsersFile = "users.json"
	}
	if strings.TrimSpace(st.SessionFile) == "" {
		st.SessionFile = "session.json"
	}
	if strings.TrimSpace(st.WhitelistFile) == "" {
		st.WhitelistFile = "whitelist.json"
	}
	if driver == DriverSQLite && strings.TrimSpace(st.SQLitePath) == "" {
		st.SQLitePath = filepath.Join(st.DataDir, "planbot.db")
	}
	if db.MaxConnections <= 0 {
		db.MaxConnections = 4
	}
	if strings.TrimSpace(db.SSLMode) == "" {
		db.SSLMode = "disable"
	}
	return nil
}
