// Package constants provides shared constant values used throughout the application.
//
// The general_const.go file defines general-purpose constants related to routing
// and request parameters. These constants ensure consistent API patterns and URL
// structure throughout the application, making the API more predictable and easier
// to maintain.
package constants

// Base Routes define the root URL paths for different parts of the API.
const (
	// APIBasePath is the root path prefix for all API endpoints.
	APIBasePath = "/api"

	// HealthPath is the endpoint for health checks and system status.
	HealthPath = "/health"
)

// URL Parameters define path parameter names used in route definitions.
// These constants are used when defining routes with path parameters and
// when extracting those parameters from requests.
const (
	// ParamTaskID is the URL parameter for task identifiers.
	ParamTaskID = "taskID"
)

// Context Keys identify values stored in request contexts and structured logs.
const (
	// RequestIDContextKey is the key under which the request ID is logged.
	RequestIDContextKey = "request_id"

	// UserIDContextKey is the key under which the authenticated user ID is logged.
	UserIDContextKey = "user_id"
)

// Logging Values define reusable literals for structured log output.
const (
	// LogRedactedValue replaces sensitive values in log output.
	LogRedactedValue = "[REDACTED]"
)
