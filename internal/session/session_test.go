package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaboelnuevo/cofi-app/internal/config"
)

func TestOpen_TokenFromSQLiteStore(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	cfg := config.NewForTesting(srv.URL + "/api/v1")
	cfg.TokenStore = filepath.Join(t.TempDir(), "state", "cofi.db")
	cfg.AuthScheme = "Bearer"

	s, err := Open(cfg, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, s.Store.Set(context.Background(), s.Key, "abc"))
	res, err := s.Client.GetCoffees(context.Background())
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, "Bearer abc", auth)
	require.NoError(t, s.Close())

	// the token survives a restart
	s, err = Open(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Store.Get(context.Background(), "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
}

func TestOpen_MemoryStoreByDefault(t *testing.T) {
	cfg := config.NewForTesting("http://127.0.0.1:1/api/v1")
	s, err := Open(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()
	_, ok, err := s.Store.Get(context.Background(), s.Key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpen_InvalidBaseURL(t *testing.T) {
	cfg := config.NewForTesting("not a url")
	_, err := Open(cfg, zerolog.Nop())
	assert.Error(t, err)
}
