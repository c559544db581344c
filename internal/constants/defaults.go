// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the
// application. These constants provide sensible defaults for configuration
// settings, establish boundaries for resource usage, and define security
// parameters. Changes to these values may significantly impact application
// behavior, performance, and security.
package constants

import "time"

// Default Configuration Values define fallback settings when not specified in configuration.
// These constants provide sensible defaults for core application settings.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultDBMaxConnections is the default maximum number of database connections.
	DefaultDBMaxConnections = 20

	// DefaultDBMinConnections is the default minimum number of database connections.
	DefaultDBMinConnections = 5

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default logging output format.
	DefaultLogFormat = "json"

	// DefaultJWTIssuer is the default issuer claim on generated tokens.
	DefaultJWTIssuer = "taskvault-api"
)

// Environment Types define the recognized application running environments.
// These constants are used to adjust behavior based on the deployment environment.
const (
	// EnvDevelopment identifies a development environment with debugging features enabled.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment with optimized settings.
	EnvProduction = "production"
)

// Timeouts define default durations for server and database operations.
const (
	// DefaultReadTimeout is the default maximum duration for reading a request.
	DefaultReadTimeout = 10 * time.Second

	// DefaultWriteTimeout is the default maximum duration for writing a response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultShutdownTimeout is the default grace period for in-flight requests on shutdown.
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultIdleTimeout is the default keep-alive idle timeout for HTTP connections.
	DefaultIdleTimeout = 120 * time.Second

	// DBConnectTimeout is the maximum time allowed to establish the initial database connection.
	DBConnectTimeout = 10 * time.Second

	// DBHealthCheckTimeout is the maximum time allowed for a database health check.
	DBHealthCheckTimeout = 5 * time.Second

	// DBMaintenanceInterval is how often background database cleanup runs.
	DBMaintenanceInterval = 1 * time.Hour

	// DefaultJWTExpiry is the default lifetime of an access token.
	DefaultJWTExpiry = 15 * time.Minute
)

// Password Reset Parameters define the behavior of the reset-token workflow.
const (
	// PasswordResetTokenValidity is how long a reset token remains usable after issuance.
	PasswordResetTokenValidity = 24 * time.Hour

	// PasswordResetTokenBytes is the number of random bytes in a reset token before encoding.
	PasswordResetTokenBytes = 32
)

// Password Hashing Parameters define the Argon2id cost settings.
const (
	// DefaultPasswordHashMemory is the Argon2id memory parameter in KiB for production.
	DefaultPasswordHashMemory = 64 * 1024

	// DevPasswordHashMemory is the reduced Argon2id memory parameter for development.
	DevPasswordHashMemory = 16 * 1024

	// DefaultPasswordHashIterations is the Argon2id time parameter for production.
	DefaultPasswordHashIterations = 3

	// DevPasswordHashIterations is the reduced Argon2id time parameter for development.
	DevPasswordHashIterations = 1

	// DefaultPasswordHashParallelism is the Argon2id parallelism parameter.
	DefaultPasswordHashParallelism = 2

	// DefaultPasswordHashSaltLength is the salt length in bytes.
	DefaultPasswordHashSaltLength = 16

	// DefaultPasswordHashKeyLength is the derived key length in bytes.
	DefaultPasswordHashKeyLength = 32
)

// Request Limits define the maximum allowed sizes for incoming payloads.
const (
	// MaxRequestBodySize is the maximum size in bytes for HTTP request bodies.
	MaxRequestBodySize = 1 << 20
)
