package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gaboelnuevo/cofi-app/devmode"
	"github.com/gaboelnuevo/cofi-app/internal/config"
	"github.com/gaboelnuevo/cofi-app/internal/logger"
)

func main() {
	log := logger.New("cofi-devserver")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}
	if lvl, err := cfg.Level(); err == nil {
		log = log.Level(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := devmode.Run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("dev server exited with error")
		os.Exit(1)
	}
}
