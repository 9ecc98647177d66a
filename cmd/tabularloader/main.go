package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"TabularLoader/internal/app"
	"TabularLoader/internal/config"
	"TabularLoader/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application := app.New(cfg, logger)

	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		stop()
		os.Exit(1)
	}
}
