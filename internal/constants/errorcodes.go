// Package constants provides shared constant values used throughout the application.
//
// The errorcodes.go file defines machine-readable error codes and reusable
// client-facing messages. Error codes give API clients a stable value to branch
// on, independent of the human-readable message wording.
package constants

// Error Codes identify categories of failure in API responses.
const (
	// CodeValidationError indicates a request failed input validation.
	CodeValidationError = "validation_error"

	// CodeBadRequest indicates a malformed or unprocessable request.
	CodeBadRequest = "bad_request"

	// CodeNotFound indicates the requested resource does not exist.
	CodeNotFound = "not_found"

	// CodeDuplicate indicates a uniqueness conflict with an existing resource.
	CodeDuplicate = "duplicate_resource"

	// CodeUnauthorized indicates missing or invalid authentication.
	CodeUnauthorized = "unauthorized"

	// CodeForbidden indicates the caller lacks permission for the resource.
	CodeForbidden = "forbidden"

	// CodeInternalError indicates an unexpected server-side failure.
	CodeInternalError = "internal_error"
)

// Client Messages define reusable human-readable response texts.
const (
	// MsgEmptyRequestBody is returned when a request body is required but absent.
	MsgEmptyRequestBody = "Request body must not be empty"

	// MsgMalformedJSON is returned when a request body cannot be parsed as JSON.
	MsgMalformedJSON = "Request body contains malformed JSON"

	// MsgRequestBodyTooLarge is returned when a request body exceeds the size limit.
	MsgRequestBodyTooLarge = "Request body must not be larger than 1MB"

	// MsgPasswordResetSent is the enumeration-safe reply to every reset request.
	MsgPasswordResetSent = "If an account with that email exists, a password reset link has been sent."

	// MsgInvalidResetToken is returned for unusable password reset tokens.
	MsgInvalidResetToken = "Invalid or expired password reset token"
)
