package main

import (
	"context"
	"os"

	"PageIngest/internal/app"
	"PageIngest/internal/config"
	"PageIngest/internal/logging"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("application setup failed", "error", err)
		os.Exit(1)
	}

	err = application.Run(ctx)
	if closeErr := application.Close(); closeErr != nil {
		logger.Warn("close application", "error", closeErr)
	}
	if err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
