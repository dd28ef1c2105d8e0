package client

import "github.com/gaboelnuevo/cofi-app/client/internal/types"

// Public type aliases so SDK consumers can import only the client package.
type (
	// Calls
	Call     = types.Call
	Endpoint = types.Endpoint

	// Request bodies
	Credentials        = types.Credentials
	DeviceRegistration = types.DeviceRegistration
	Filter             = types.Filter

	// Responses
	Response = types.Response
)
