package client

import "github.com/gaboelnuevo/cofi-app/client/internal/problem"

// Problem classifies a call outcome; Response.Problem holds its string form.
type Problem = problem.Code

// Re-export problem codes so callers compare against a single symbol.
const (
	ProblemNone     = problem.None
	ClientError     = problem.ClientError
	ServerError     = problem.ServerError
	TimeoutError    = problem.TimeoutError
	ConnectionError = problem.ConnectionError
	NetworkError    = problem.NetworkError
	CancelError     = problem.CancelError
	UnknownError    = problem.UnknownError
)

// CallError is returned when a call produced no HTTP response.
type CallError = problem.Error

// IsProblem reports whether err carries the given problem code.
func IsProblem(err error, code Problem) bool { return problem.Is(err, code) }

// IsTransient reports whether a problem code describes a transport failure
// a caller may choose to retry.
func IsTransient(code Problem) bool { return problem.Transient(code) }
