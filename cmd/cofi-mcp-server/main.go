package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/gaboelnuevo/cofi-app/internal/config"
	"github.com/gaboelnuevo/cofi-app/internal/logger"
	"github.com/gaboelnuevo/cofi-app/mcp"
)

func main() {
	// stdout carries the stdio transport, so logs go to stderr
	log.Logger = logger.NewWithWriter(os.Stderr, "cofi-mcp-server")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}
	if lvl, err := cfg.Level(); err == nil {
		log.Logger = log.Logger.Level(lvl)
	}

	opts, err := mcp.LoadOptions()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load MCP options")
		os.Exit(1)
	}

	if err := mcp.Run(cfg, opts); err != nil {
		log.Error().Err(err).Msg("MCP server exited with error")
		os.Exit(1)
	}
}
