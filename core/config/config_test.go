package config

import "testing"

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run_mode = %q, want longpoll", cfg.Telegram.RunMode)
	}
	if cfg.Storage.Driver != DriverJSON {
		t.Errorf("storage.driver = %q, want json", cfg.Storage.Driver)
	}
	if cfg.Storage.UsersPath() != "data/users.json" {
		t.Errorf("users path = %q", cfg.Storage.UsersPath())
	}
	if cfg.Storage.SessionPath() != "data/session.json" {
		t.Errorf("session path = %q", cfg.Storage.SessionPath())
	}
	if cfg.Database.MaxConnections != 4 {
		t.Errorf("max_connections = %d, want 4", cfg.Database.MaxConnections)
	}
}

func TestNormalizeRequiresToken(t *testing.T) {
	if err := Normalize(&Config{}); err == nil {
		t.Fatal("empty token accepted")
	}
}

func TestNormalizeRunModeAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run_mode = %q, want longpoll", cfg.Telegram.RunMode)
	}
}

func TestNormalizeWebhookRequiresURL(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	if err := Normalize(cfg); err == nil {
		t.Fatal("webhook mode without url accepted")
	}
}

func TestNormalizeInvalidDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Driver = "redis"
	if err := Normalize(cfg); err == nil {
		t.Fatal("unknown storage driver accepted")
	}
}

func TestNormalizePostgresRequiresHost(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Driver = DriverPostgres
	if err := Normalize(cfg); err == nil {
		t.Fatal("postgres driver without host accepted")
	}
}

func TestNormalizeSQLiteDefaultPath(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Driver = DriverSQLite
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Storage.SQLitePath == "" {
		t.Error("sqlite path not defaulted")
	}
}

func TestNormalizeExcludeUpdates(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{" Callback "}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != UpdateCallback {
		t.Errorf("exclude = %q", cfg.RateLimit.ExcludeUpdates[0])
	}

	cfg.RateLimit.ExcludeUpdates = []string{"inline_query"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("unknown exclude value accepted")
	}
}
