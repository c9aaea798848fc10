package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	coreconfig "github.com/m3rciful/planbot/core/config"
	"github.com/m3rciful/planbot/core/logger"
	"log/slog"
)

// Connect opens the SQL database selected by storage.driver, configures the
// pool, and verifies connectivity. Only the postgres and sqlite drivers are
// served here; the json driver never reaches this package.
func Connect(cfg *coreconfig.Config) (*sqlx.DB, error) {
	driver, dsn, err := driverDSN(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	took := time.Since(start)
	if err != nil {
		logger.DB.Error("db connect failed",
			slog.String("event", "db.connect"),
			slog.String("driver", driver),
			slog.String("db", cfg.Database.Name),
			slog.Duration("duration", logger.RoundMS(took)),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if pingErr := db.PingContext(ctx); pingErr != nil {
		logger.DB.Error("db ping failed",
			slog.String("event", "db.ping"),
			slog.String("driver", driver),
			slog.String("err", pingErr.Error()),
		)
		return nil, fmt.Errorf("db ping: %w", pingErr)
	}

	pool := cfg.Database.MaxConnections
	if driver == "sqlite" {
		// modernc sqlite serializes writers; a single connection avoids SQLITE_BUSY.
		pool = 1
	}
	db.SetMaxOpenConns(pool)
	db.SetMaxIdleConns(pool)

	logger.DB.Info("db connected",
		slog.String("event", "db.connect"),
		slog.String("driver", driver),
		slog.String("db", cfg.Database.Name),
		slog.Int("pool_open", pool),
		slog.Duration("duration", logger.RoundMS(took)),
	)

	return db, nil
}

func driverDSN(cfg *coreconfig.Config) (string, string, error) {
	if cfg == nil {
		return "", "", fmt.Errorf("nil config")
	}
	switch cfg.Storage.Driver {
	case coreconfig.DriverPostgres:
		d := cfg.Database
		dsn := fmt.Sprintf(
			"user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
			d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
		)
		return "postgres", dsn, nil
	case coreconfig.DriverSQLite:
		path := cfg.Storage.SQLitePath
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", "", fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		return "sqlite", path, nil
	}
	return "", "", fmt.Errorf("storage.driver %q is not a SQL driver", cfg.Storage.Driver)
}

// WaitForPostgres tries to connect to the DB until it is ready or timeout is reached.
func WaitForPostgres(dsn string, timeout time.Duration) error {
	start := time.Now()
	var lastErr error
	for {
		db, err := sql.Open("postgres", dsn)
		if err == nil {
			if err = db.Ping(); err == nil {
				_ = db.Close()
				return nil
			}
			_ = db.Close()
		}
		lastErr = err
		if time.Since(start) > timeout {
			return fmt.Errorf("timeout reached waiting for database: %w", lastErr)
		}
		time.Sleep(2 * time.Second)
	}
}
