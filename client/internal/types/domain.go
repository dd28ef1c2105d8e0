package types

import "time"

// ------------------------------
// Endpoint catalogue entries
// ------------------------------

// Endpoint names one backend operation: its HTTP method, path template and
// an optional timeout that overrides the client default.
type Endpoint struct {
	Name    string        `json:"name"`
	Method  string        `json:"method"`
	Path    string        `json:"path"`
	Timeout time.Duration `json:"timeout,omitempty"`
}
