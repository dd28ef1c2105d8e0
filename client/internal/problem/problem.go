// Package problem classifies call outcomes into the coarse codes callers
// switch on. The codes mirror the ones the mobile app already understands:
// NONE for 2xx, CLIENT_ERROR / SERVER_ERROR by status class, and transport
// codes for calls that never produced a response.
package problem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
)

// Code is a problem classification.
type Code string

const (
	None            Code = "NONE"
	ClientError     Code = "CLIENT_ERROR"
	ServerError     Code = "SERVER_ERROR"
	TimeoutError    Code = "TIMEOUT_ERROR"
	ConnectionError Code = "CONNECTION_ERROR"
	NetworkError    Code = "NETWORK_ERROR"
	CancelError     Code = "CANCEL_ERROR"
	UnknownError    Code = "UNKNOWN_ERROR"
)

// String returns the wire form of the code.
func (c Code) String() string { return string(c) }

// FromStatus maps an HTTP status code to a problem code.
func FromStatus(status int) Code {
	switch {
	case status >= 200 && status < 300:
		return None
	case status >= 400 && status < 500:
		return ClientError
	case status >= 500 && status < 600:
		return ServerError
	default:
		// 1xx/3xx never reach callers as final responses; anything else is odd.
		return UnknownError
	}
}

// FromError maps a transport-level failure to a problem code.
func FromError(err error) Code {
	if err == nil {
		return None
	}
	if errors.Is(err, context.Canceled) {
		return CancelError
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return TimeoutError
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return TimeoutError
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ConnectionError
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return ConnectionError
	}
	// connection dropped mid-exchange
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, syscall.ECONNRESET) {
		return NetworkError
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "dial" {
			return ConnectionError
		}
		return NetworkError
	}
	return UnknownError
}

// Classify picks the code for a finished call. A transport error wins over
// whatever status may have been recorded.
func Classify(status int, err error) Code {
	if err != nil {
		return FromError(err)
	}
	return FromStatus(status)
}

// Error wraps a transport failure with its classification.
type Error struct {
	Code       Code
	Endpoint   string
	Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Endpoint, e.Underlying)
	}
	return fmt.Sprintf("[%s] %v", e.Code, e.Underlying)
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *Error) Unwrap() error { return e.Underlying }

// Is reports whether err carries the given problem code.
func Is(err error, code Code) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// Transient reports whether a caller may reasonably try the call again.
// Only transport problems qualify; HTTP statuses are the caller's business.
func Transient(code Code) bool {
	switch code {
	case TimeoutError, ConnectionError, NetworkError:
		return true
	default:
		return false
	}
}
