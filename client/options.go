package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file avoids cluttering
// client.go and makes it easy to discover all available knobs at a glance.

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/gaboelnuevo/cofi-app/client/internal/api"
)

// Option configures a Client during construction in New.
//
// Options are applied before the resty client is built, so transport-related
// options (like debug logging) end up underneath the request hooks.
type Option func(*Client) error

// WithHTTPTimeout sets the default per-call timeout. Endpoints with their own
// timeout (device registration) keep it. The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.timeout = d
		return nil
	}
}

// WithEndpointTimeout overrides the timeout of one endpoint, by catalogue
// name (see Endpoints).
func WithEndpointTimeout(endpoint string, d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("timeout for %s must be > 0", endpoint)
		}
		known := false
		for _, ep := range api.Endpoints() {
			if ep.Name == endpoint {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown endpoint %q", endpoint)
		}
		c.override[endpoint] = d
		return nil
	}
}

// WithHTTPClient injects a custom *http.Client, e.g. for custom TLS or
// tracing transports. A Timeout set on hc caps every call, including the
// ones with a longer per-endpoint timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("nil http client")
		}
		c.http = hc
		return nil
	}
}

// WithDebugLogging wraps the client's transport so each request/response is
// dumped at debug level when enabled is true.
//
// Do not enable this option in production environments: dumps include
// headers, and so the Authorization token.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			c.debug = true
		}
		return nil
	}
}

// WithTokenProvider installs the source of the Authorization token. Without
// one, requests are sent unauthenticated.
func WithTokenProvider(p TokenProvider) Option {
	return func(c *Client) error {
		if p == nil {
			return fmt.Errorf("nil token provider")
		}
		c.tokens = p
		return nil
	}
}

// WithAuthScheme prefixes the Authorization value, e.g. "Bearer". By default
// the token is sent verbatim.
func WithAuthScheme(scheme string) Option {
	return func(c *Client) error {
		c.scheme = scheme
		return nil
	}
}

// WithMonitor adds a response monitor. Monitors run in the order they were
// added, after the built-in invalid-token monitor.
func WithMonitor(m Monitor) Option {
	return func(c *Client) error {
		if m == nil {
			return fmt.Errorf("nil monitor")
		}
		c.monitors = append(c.monitors, m)
		return nil
	}
}

// WithLogger sets the logger used by the client and its built-in monitor.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) error {
		c.logger = l
		return nil
	}
}

// WithHeader adds a default header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) error {
		if key == "" {
			return fmt.Errorf("empty header name")
		}
		c.headers[key] = value
		return nil
	}
}
