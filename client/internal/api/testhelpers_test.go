package api

import (
	"context"
	"sync"

	"github.com/gaboelnuevo/cofi-app/client/internal/types"
)

// recorder is a Doer that records calls and answers with a canned 200.
type recorder struct {
	mu    sync.Mutex
	calls []types.Call
}

func (r *recorder) Do(ctx context.Context, call types.Call) (*types.Response, error) {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
	return &types.Response{OK: true, Status: 200, Problem: "NONE", Endpoint: call.Endpoint}, nil
}

func (r *recorder) last() types.Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[len(r.calls)-1]
}
