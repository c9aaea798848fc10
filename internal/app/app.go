// Package app bootstraps the bot: storage selection, migrations,
// handler wiring and the Telegram run options.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/m3rciful/planbot/core/config"
	coredatabase "github.com/m3rciful/planbot/core/database"
	"github.com/m3rciful/planbot/core/logger"
	tg "github.com/m3rciful/planbot/core/telegram"
	"github.com/m3rciful/planbot/core/telegram/router"
	"github.com/m3rciful/planbot/internal/dialog"
	"github.com/m3rciful/planbot/internal/handlers"
	"github.com/m3rciful/planbot/internal/schedule"
	"github.com/m3rciful/planbot/internal/session"
	"github.com/m3rciful/planbot/internal/storage/jsonstore"
	"github.com/m3rciful/planbot/internal/storage/sqlstore"
	"github.com/m3rciful/planbot/internal/tracker"
	"log/slog"
)

// App holds the wired application components.
type App struct {
	cfg      *coreconfig.Config
	db       *sqlx.DB
	registry *tg.Registry
	view     *handlers.View
	machine  *dialog.Machine
	allowed  func(int64) bool
}

// Bootstrap initializes the logger, opens storage and wires the handlers.
func Bootstrap(cfg *coreconfig.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config provided")
	}
	if err := logger.InitLogger(cfg); err != nil {
		return nil, fmt.Errorf("app: logger init failed: %w", err)
	}

	a := &App{cfg: cfg}

	users, sessions, err := a.openStorage(cfg)
	if err != nil {
		return nil, err
	}

	allowed, err := jsonstore.LoadWhitelist(cfg.Storage.WhitelistPath())
	if err != nil {
		return nil, fmt.Errorf("app: whitelist load failed: %w", err)
	}
	a.allowed = allowed

	view := handlers.NewView(users)
	tr := tracker.New(view)
	machine := dialog.NewMachine(sessions, users, tr, view, 0)
	h := handlers.New(users, sessions, machine, tr, view, cfg.Telegram.MenuImage)

	reg := tg.NewRegistry()
	handlers.Register(reg, h)

	a.view = view
	a.machine = machine
	a.registry = reg

	logger.L.With("component", "app").Info("storage ready",
		slog.String("event", "storage"),
		slog.String("driver", cfg.Storage.Driver),
	)
	return a, nil
}

func (a *App) openStorage(cfg *coreconfig.Config) (schedule.Store, session.Store, error) {
	switch cfg.Storage.Driver {
	case coreconfig.DriverJSON:
		return jsonstore.NewUserStore(cfg.Storage.UsersPath()),
			jsonstore.NewSessionStore(cfg.Storage.SessionPath()), nil

	case coreconfig.DriverPostgres, coreconfig.DriverSQLite:
		db, err := coredatabase.Connect(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("app: database connect failed: %w", err)
		}
		if err := coredatabase.RunMigrations(cfg); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("app: migrations failed: %w", err)
		}
		a.db = db
		return sqlstore.NewUserStore(db), sqlstore.NewSessionStore(db), nil

	default:
		return nil, nil, fmt.Errorf("app: unsupported storage driver %q", cfg.Storage.Driver)
	}
}

// TelegramRunOptions assembles routes, middlewares and lifecycle hooks.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	adapter := handlers.DialogAdapter{Machine: a.machine}
	routes := router.TextRoutes(adapter, a.registry, router.TextOptions{AdminID: a.cfg.Telegram.AdminID})
	routes = append(routes, router.CallbackRoute(a.registry, router.CallbackOptions{}))

	startedAt := time.Now()
	return tg.RunOptions{
		Config:      a.cfg,
		Registry:    a.registry,
		Middlewares: tg.DefaultMiddlewares(a.cfg, tg.MiddlewareOptions{Allowed: a.allowed}),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt tg.Runtime) error {
			// Prompts and day refreshes need the live bot handle
			a.view.Bind(rt.Bot)
			logger.L.With("component", "app").Info("app ready",
				slog.String("event", "ready"),
				slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
			)
			return nil
		},
		OnStop: func(ctx context.Context, rt tg.Runtime) error {
			logger.L.With("component", "app").Info("shutting down...",
				slog.String("event", "shutdown"),
			)
			return a.Close()
		},
	}, nil
}

// Close releases storage resources.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
