// Package tokenstore is a small persistent key-value store for session
// values such as the access token. The API client only ever reads from it,
// through Provider; login and logout flows in the callers write it.
package tokenstore

import (
	"context"
	"errors"

	"github.com/gaboelnuevo/cofi-app/client"
)

// DefaultKey is the key the access token is stored under.
const DefaultKey = "token"

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("tokenstore: closed")

// Store is a string key-value store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Provider adapts a store to client.TokenProvider. A missing key yields an
// empty token, so requests go out without Authorization.
func Provider(s Store, key string) client.TokenProvider {
	if key == "" {
		key = DefaultKey
	}
	return client.TokenFunc(func(ctx context.Context) (string, error) {
		v, _, err := s.Get(ctx, key)
		return v, err
	})
}
