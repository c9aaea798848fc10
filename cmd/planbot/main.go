package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	coreconfig "github.com/m3rciful/planbot/core/config"
	"github.com/m3rciful/planbot/core/logger"
	coretelegram "github.com/m3rciful/planbot/core/telegram"
	"github.com/m3rciful/planbot/internal/app"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("planbot: %v", err)
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	log.Printf("loading config: %s", cfgPath)
	cfg, err := coreconfig.Load(cfgPath)
	if err != nil {
		return err
	}

	application, err := app.Bootstrap(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	runOpts, err := application.TelegramRunOptions()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := coretelegram.RunTelegram(ctx, runOpts); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
