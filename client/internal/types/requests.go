package types

import (
	"net/url"
	"time"
)

// ------------------------------
// Request Types
// ------------------------------

// Call describes one HTTP call against the backend. Path is a template whose
// {name} segments are filled from PathParams.
type Call struct {
	Endpoint   string
	Method     string
	Path       string
	PathParams map[string]string
	Query      url.Values
	Body       any
	Timeout    time.Duration
}

// Credentials is the login body accepted by /users/login.
type Credentials struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

// DeviceRegistration is the body of /users/register-device.
type DeviceRegistration struct {
	DeviceID string `json:"deviceId"`
	Platform string `json:"platform,omitempty"`
	PushID   string `json:"pushId,omitempty"`
}

// Filter is a loopback-style query filter serialized as JSON into the
// "filter" query parameter.
type Filter map[string]any
