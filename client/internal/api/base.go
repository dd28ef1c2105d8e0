package api

import (
	"context"
	"net/url"
	"time"

	"github.com/gaboelnuevo/cofi-app/client/internal/types"
)

// Doer performs a single call. The client package implements it on top of
// its HTTP stack; tests substitute a recorder.
type Doer interface {
	Do(ctx context.Context, call types.Call) (*types.Response, error)
}

var catalogue []types.Endpoint

// define registers an endpoint in the catalogue and returns it.
func define(name, method, path string) types.Endpoint {
	ep := types.Endpoint{Name: name, Method: method, Path: path}
	catalogue = append(catalogue, ep)
	return ep
}

// defineWithTimeout is define with a per-call timeout override.
func defineWithTimeout(name, method, path string, timeout time.Duration) types.Endpoint {
	ep := types.Endpoint{Name: name, Method: method, Path: path, Timeout: timeout}
	catalogue = append(catalogue, ep)
	return ep
}

// Endpoints returns a copy of the catalogue in declaration order.
func Endpoints() []types.Endpoint {
	out := make([]types.Endpoint, len(catalogue))
	copy(out, catalogue)
	return out
}

// params is a small builder for path parameters.
type params map[string]string

func do(ctx context.Context, d Doer, ep types.Endpoint, p params, q url.Values, body any) (*types.Response, error) {
	return d.Do(ctx, types.Call{
		Endpoint:   ep.Name,
		Method:     ep.Method,
		Path:       ep.Path,
		PathParams: p,
		Query:      q,
		Body:       body,
		Timeout:    ep.Timeout,
	})
}

// orMe substitutes the "me" alias for an empty user id.
func orMe(id string) string {
	if id == "" {
		return "me"
	}
	return id
}
