// Package session wires a configured API client to its token store.
package session

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gaboelnuevo/cofi-app/client"
	"github.com/gaboelnuevo/cofi-app/internal/config"
	"github.com/gaboelnuevo/cofi-app/pkg/tokenstore"
)

// Session owns a client and the store its token is read from.
type Session struct {
	Client *client.Client
	Store  tokenstore.Store
	Key    string
}

// Open builds the token store named by cfg and a client that reads its
// Authorization token from it. Extra options are applied after the
// configured ones.
func Open(cfg *config.Config, logger zerolog.Logger, extra ...client.Option) (*Session, error) {
	var store tokenstore.Store
	if cfg.TokenStore == "" {
		store = tokenstore.NewMemory()
	} else {
		sq, err := tokenstore.OpenSQLite(cfg.TokenStore)
		if err != nil {
			return nil, err
		}
		store = sq
	}

	opts := []client.Option{
		client.WithLogger(logger),
		client.WithHTTPTimeout(cfg.Timeout),
		client.WithEndpointTimeout("registerDevice", cfg.RegisterDeviceTimeout),
		client.WithTokenProvider(tokenstore.Provider(store, cfg.TokenKey)),
		client.WithDebugLogging(cfg.Debug),
	}
	if cfg.AuthScheme != "" {
		opts = append(opts, client.WithAuthScheme(cfg.AuthScheme))
	}
	opts = append(opts, extra...)

	c, err := client.New(cfg.BaseURL, opts...)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("create client: %w", err)
	}
	return &Session{Client: c, Store: store, Key: cfg.TokenKey}, nil
}

// Close releases the client and the store.
func (s *Session) Close() error {
	_ = s.Client.Close()
	return s.Store.Close()
}
