package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Session errors (SESSION-001 to SESSION-099)
	ErrCodeNotSignedIn     ErrorCode = "SESSION-001"
	ErrCodeSessionRejected ErrorCode = "SESSION-002"
	ErrCodeCredentialStore ErrorCode = "SESSION-003"

	// Authorization errors (AUTHZ-001 to AUTHZ-099)
	ErrCodePermissionDenied ErrorCode = "AUTHZ-001"
	ErrCodeUnknownFeature   ErrorCode = "AUTHZ-002"

	// Backend errors (API-001 to API-099)
	ErrCodeRequestFailed   ErrorCode = "API-001"
	ErrCodeInvalidResponse ErrorCode = "API-002"
	ErrCodeUnreachable     ErrorCode = "API-003"
	ErrCodeDownloadFailed  ErrorCode = "API-004"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid    ErrorCode = "CONFIG-001"
	ErrCodeConfigUnknownKey ErrorCode = "CONFIG-002"

	// Input errors (INPUT-001 to INPUT-099)
	ErrCodeInputInvalid ErrorCode = "INPUT-001"
	ErrCodeInputMissing ErrorCode = "INPUT-002"
	ErrCodeAborted      ErrorCode = "INPUT-003"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
)

// AdminError represents an error with code, suggestions, and the underlying cause
type AdminError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *AdminError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)

	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			fmt.Fprintf(&b, "\n  • %s", suggestion)
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *AdminError) Unwrap() error {
	return e.Cause
}

// ErrorCode returns the code as a plain string for loggers and formatters.
func (e *AdminError) ErrorCode() string {
	return string(e.Code)
}

// New creates a new AdminError
func New(code ErrorCode, message string) *AdminError {
	return &AdminError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AdminError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *AdminError {
	return &AdminError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *AdminError) WithSuggestion(suggestion string) *AdminError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *AdminError) WithSuggestions(suggestions ...string) *AdminError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// Common error constructors for frequently used errors

// NewNotSignedInError is returned when a protected command runs without a token.
func NewNotSignedInError() *AdminError {
	return New(ErrCodeNotSignedIn, "not signed in").
		WithSuggestion("Run 'siaga-admin auth login' to sign in")
}

// NewSessionRejectedError is returned after the backend refused the stored token.
func NewSessionRejectedError(cause error) *AdminError {
	return Wrap(ErrCodeSessionRejected, "session is no longer valid and was cleared", cause).
		WithSuggestion("Run 'siaga-admin auth login' to sign in again")
}

// NewPermissionDeniedError reports a missing permission code.
func NewPermissionDeniedError(code string, cause error) *AdminError {
	return Wrap(ErrCodePermissionDenied, fmt.Sprintf("missing permission %s", code), cause).
		WithSuggestion("Ask an administrator with ADMIN_MANAGE to grant the permission").
		WithSuggestion("Run 'siaga-admin auth whoami' to list your permissions")
}

// NewUnreachableError reports that the backend could not be contacted.
func NewUnreachableError(baseURL string, cause error) *AdminError {
	return Wrap(ErrCodeUnreachable, fmt.Sprintf("cannot reach backend at %s", baseURL), cause).
		WithSuggestion("Check that the backend is running").
		WithSuggestion("Set SIAGA_API_BASE_URL or run 'siaga-admin config set api.base_url <url>'")
}

// NewInputError reports an invalid flag or argument value.
func NewInputError(field, reason string) *AdminError {
	return New(ErrCodeInputInvalid, fmt.Sprintf("invalid %s: %s", field, reason))
}

// NewMissingInputError reports a required value that was not supplied.
func NewMissingInputError(field string) *AdminError {
	return New(ErrCodeInputMissing, fmt.Sprintf("%s is required", field)).
		WithSuggestion(fmt.Sprintf("Pass --%s or run the command in a terminal to be prompted", field))
}

// NewAbortedError is returned when the operator declines a confirmation.
func NewAbortedError(action string) *AdminError {
	return New(ErrCodeAborted, fmt.Sprintf("%s cancelled", action))
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *AdminError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewConfigInvalidError wraps a configuration parse failure.
func NewConfigInvalidError(path string, cause error) *AdminError {
	return Wrap(ErrCodeConfigInvalid, fmt.Sprintf("failed to parse config file: %s", path), cause).
		WithSuggestion("Check the YAML syntax").
		WithSuggestion("Run 'siaga-admin config path' to locate the file")
}
