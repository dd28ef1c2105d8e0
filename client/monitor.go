package client

import (
	"net/http"

	"github.com/rs/zerolog"
)

// InvalidTokenCode is the error code the backend puts in a 401 body when the
// Authorization token is unknown or expired.
const InvalidTokenCode = "INVALID_TOKEN"

// Monitor observes every finished call. It must not block for long and must
// not modify the response; it cannot change what the caller receives.
type Monitor interface {
	Observe(resp *Response)
}

// MonitorFunc adapts a function to Monitor.
type MonitorFunc func(resp *Response)

// Observe calls f(resp).
func (f MonitorFunc) Observe(resp *Response) { f(resp) }

// IsInvalidToken reports whether resp is a 401 whose body carries
// error.code INVALID_TOKEN.
func IsInvalidToken(resp *Response) bool {
	return resp != nil && resp.Status == http.StatusUnauthorized && resp.ErrorCode() == InvalidTokenCode
}

// InvalidTokenMonitor logs invalid-token responses. It only logs: no
// redirect, no refresh, no retry.
func InvalidTokenMonitor(logger zerolog.Logger) Monitor {
	return MonitorFunc(func(resp *Response) {
		if !IsInvalidToken(resp) {
			return
		}
		invalidTokenTotal.Inc()
		logger.Warn().Str("endpoint", resp.Endpoint).Int("status", resp.Status).Msg("invalid token")
	})
}
