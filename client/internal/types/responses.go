package types

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ------------------------------
// Response Types
// ------------------------------

// Response is the raw result of one call. Data is the body exactly as the
// server sent it; nothing is interpreted.
type Response struct {
	OK       bool            `json:"ok"`
	Problem  string          `json:"problem"`
	Status   int             `json:"status"`
	Header   http.Header     `json:"-"`
	Data     json.RawMessage `json:"data,omitempty"`
	Duration time.Duration   `json:"duration"`
	Endpoint string          `json:"endpoint"`

	// Err is the transport error, if any, that produced Problem.
	Err error `json:"-"`
}

// Decode unmarshals Data into v.
func (r *Response) Decode(v any) error {
	if r == nil || len(r.Data) == 0 {
		return fmt.Errorf("decode: empty response body")
	}
	return json.Unmarshal(r.Data, v)
}

// errorEnvelope matches the backend's error body: {"error":{"code":"..."}}.
type errorEnvelope struct {
	Error *struct {
		StatusCode int    `json:"statusCode"`
		Name       string `json:"name"`
		Message    string `json:"message"`
		Code       string `json:"code"`
	} `json:"error"`
}

// ErrorCode returns error.code from the body, or "" when the body has none.
func (r *Response) ErrorCode() string {
	if r == nil || len(r.Data) == 0 {
		return ""
	}
	var env errorEnvelope
	if err := json.Unmarshal(r.Data, &env); err != nil || env.Error == nil {
		return ""
	}
	return env.Error.Code
}
