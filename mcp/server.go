// Package mcp serves a read-only set of cofi tools over the Model Context
// Protocol, backed by the API client.
package mcp

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/gaboelnuevo/cofi-app/client"
	"github.com/gaboelnuevo/cofi-app/internal/config"
	"github.com/gaboelnuevo/cofi-app/internal/session"
	"github.com/gaboelnuevo/cofi-app/mcp/internal/handlers"
)

// Options holds the MCP server's own settings, read from COFI_MCP_*.
type Options struct {
	ServerName      string        `envconfig:"SERVER_NAME" default:"cofi-mcp-server"`
	ServerVersion   string        `envconfig:"SERVER_VERSION" default:"0.1.0"`
	Transport       string        `envconfig:"TRANSPORT" default:"auto"`
	Addr            string        `envconfig:"ADDR" default:":11546"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	HTTPReadTimeout time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"5s"`
	HTTPIdleTimeout time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"120s"`
}

// LoadOptions reads Options from the environment.
func LoadOptions() (Options, error) {
	var o Options
	if err := envconfig.Process(config.Prefix+"_MCP", &o); err != nil {
		return o, fmt.Errorf("failed to process MCP environment variables: %w", err)
	}
	switch o.Transport {
	case "auto", "stdio", "http":
	default:
		return o, fmt.Errorf("unsupported MCP transport: %s", o.Transport)
	}
	return o, nil
}

type toolRegisterer interface {
	RegisterTools(s *server.MCPServer) error
}

// NewServer builds the MCP server with every cofi tool registered.
func NewServer(c *client.Client, name, version string) (*server.MCPServer, error) {
	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
	)

	regs := []struct {
		name string
		h    toolRegisterer
	}{
		{"coffee", handlers.NewCoffeeHandler(c)},
		{"notification", handlers.NewNotificationHandler(c)},
		{"alarm", handlers.NewAlarmHandler(c)},
		{"user", handlers.NewUserHandler(c)},
	}
	for _, r := range regs {
		if err := r.h.RegisterTools(s); err != nil {
			return nil, fmt.Errorf("register %s tools: %w", r.name, err)
		}
	}
	return s, nil
}

// Run starts the MCP server and blocks until it stops.
func Run(cfg *config.Config, opts Options) error {
	sess, err := session.Open(cfg, log.Logger)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Failed to create client")
		return err
	}
	defer sess.Close()
	log.Info().Str("base_url", cfg.BaseURL).Msg("Client created")

	s, err := NewServer(sess.Client, opts.ServerName, opts.ServerVersion)
	if err != nil {
		return err
	}

	if useStdio(opts.Transport) {
		log.Info().Msg("Starting cofi MCP server (stdio transport)")
		return server.ServeStdio(s)
	}
	return serveHTTP(s, opts)
}

func serveHTTP(s *server.MCPServer, opts Options) error {
	log.Info().Str("addr", opts.Addr).Msg("Starting cofi MCP server (Streamable HTTP)")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	shutdownComplete := make(chan struct{})

	streamSrv := server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath("/mcp"),
		server.WithHeartbeatInterval(30*time.Second),
	)
	srv := &http.Server{
		Addr:         opts.Addr,
		Handler:      streamSrv,
		ReadTimeout:  opts.HTTPReadTimeout,
		WriteTimeout: 0, // streaming responses have no deadline
		IdleTimeout:  opts.HTTPIdleTimeout,
	}

	go func() {
		defer close(shutdownComplete)

		sig, ok := <-sigChan
		if !ok {
			return
		}
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error during HTTP server shutdown")
		}
		if err := streamSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error during MCP server shutdown")
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	<-shutdownComplete
	log.Info().Msg("MCP server shutdown complete")
	return nil
}

// useStdio resolves the transport; auto picks stdio when stdin is not a
// terminal, i.e. when launched by a host process.
func useStdio(transport string) bool {
	switch strings.ToLower(transport) {
	case "stdio":
		return true
	case "http":
		return false
	}
	if fi, err := os.Stdin.Stat(); err == nil {
		return (fi.Mode() & os.ModeCharDevice) == 0
	}
	return false
}
