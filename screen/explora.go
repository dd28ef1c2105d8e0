package screen

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gaboelnuevo/cofi-app/client"
)

// CoffeeAPI is the slice of the API client the explore screen needs.
type CoffeeAPI interface {
	GetCoffees(ctx context.Context) (*client.Response, error)
}

// Option configures an Explora screen.
type Option func(*Explora)

// WithOnChange registers a callback invoked with every new state. It runs on
// the fetching goroutine and must not call back into the screen.
func WithOnChange(fn func(State)) Option {
	return func(e *Explora) { e.onChange = fn }
}

// WithLogger sets the screen's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Explora) { e.logger = l }
}

// Explora is the coffee explore screen: a swipeable deck of coffees.
//
// Its lifetime is Mount ... Unmount. Mount issues the only request; Unmount
// cancels it if still in flight and freezes the state, so a late response
// can never touch an unmounted screen.
type Explora struct {
	api      CoffeeAPI
	onChange func(State)
	logger   zerolog.Logger

	mu        sync.Mutex
	state     State
	mounted   bool
	unmounted bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewExplora builds the screen around api.
func NewExplora(api CoffeeAPI, opts ...Option) *Explora {
	e := &Explora{
		api:    api,
		logger: log.Logger,
		state:  initialState(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Mount starts the fetch. Only the first call has an effect, and a screen
// that was already unmounted is never fetched.
func (e *Explora) Mount(ctx context.Context) {
	e.mu.Lock()
	if e.mounted || e.unmounted {
		e.mu.Unlock()
		return
	}
	e.mounted = true
	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.mu.Unlock()

	go e.load(ctx)
}

// Unmount cancels any in-flight fetch. State no longer changes afterwards.
func (e *Explora) Unmount() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.unmounted {
		return
	}
	e.unmounted = true
	if e.cancel != nil {
		e.cancel()
	}
	if !e.mounted {
		close(e.done)
	}
}

// Done is closed once the fetch has settled or the screen was unmounted.
func (e *Explora) Done() <-chan struct{} { return e.done }

// State returns a copy of the current state.
func (e *Explora) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// View renders the current state.
func (e *Explora) View() View { return Render(e.State()) }

func (e *Explora) load(ctx context.Context) {
	defer close(e.done)

	next := e.fetch(ctx)

	e.mu.Lock()
	if e.unmounted {
		e.mu.Unlock()
		e.logger.Debug().Msg("explora unmounted before coffees arrived, dropping result")
		return
	}
	e.state = next
	e.mu.Unlock()

	if e.onChange != nil {
		e.onChange(next.clone())
	}
}

// fetch performs the call and maps it to the next state. Any failure, HTTP
// or transport, discards data and sets the error flag.
func (e *Explora) fetch(ctx context.Context) State {
	resp, err := e.api.GetCoffees(ctx)
	if err != nil || resp == nil || !resp.OK {
		ev := e.logger.Debug().Err(err)
		if resp != nil {
			ev = ev.Int("status", resp.Status).Str("problem", resp.Problem)
		}
		ev.Msg("explora: loading coffees failed")
		return failedState()
	}
	var coffees []Coffee
	if err := resp.Decode(&coffees); err != nil {
		e.logger.Debug().Err(err).Msg("explora: unexpected coffees payload")
		return failedState()
	}
	return loadedState(coffees)
}
