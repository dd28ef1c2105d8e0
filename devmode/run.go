package devmode

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/gaboelnuevo/cofi-app/internal/config"
)

const shutdownTimeout = 10 * time.Second

// Run serves the stub on cfg.DevAddr until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.DevSecret == config.DevSecret {
		log.Warn().Msg("using the built-in token secret; never expose this server")
	}
	ln, err := net.Listen("tcp", cfg.DevAddr)
	if err != nil {
		return errors.Wrapf(err, "listen %s", cfg.DevAddr)
	}
	return Serve(ctx, ln, cfg, log)
}

// Serve is Run over an existing listener. The listener is closed on return.
func Serve(ctx context.Context, ln net.Listener, cfg *config.Config, log zerolog.Logger) error {
	s, err := NewServer(Config{Secret: cfg.DevSecret, TokenTTL: cfg.DevTokenTTL, Logger: &log})
	if err != nil {
		_ = ln.Close()
		return errors.Wrap(err, "seed fixtures")
	}

	server := &http.Server{
		Handler:           s,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Str("prefix", APIPrefix).Msg("dev server starting")
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down dev server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("dev server forced to shutdown")
			return err
		}
		log.Info().Msg("dev server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("dev server failed")
		return err
	}
}
