package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Fixed messages used when the backend does not supply one.
const (
	MessageRequestFailed   = "Request failed"
	MessageInvalidResponse = "Invalid response from server"
	MessageDownloadFailed  = "Failed to download file"
)

// Kind classifies how a request failed.
type Kind int

const (
	// KindTransport means no HTTP response was received.
	KindTransport Kind = iota + 1
	// KindHTTP means the backend answered with a non-2xx status.
	KindHTTP
	// KindEnvelope means a 2xx response carried success=false.
	KindEnvelope
	// KindParse means the body could not be decoded.
	KindParse
)

// String implements fmt.Stringer
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTP:
		return "http"
	case KindEnvelope:
		return "envelope"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error is returned for every failed backend call.
type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string

	// Envelope is the decoded body when there was one.
	Envelope *Envelope

	// Cause is the transport or decode error, if any.
	Cause error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = MessageRequestFailed
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Code)
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Kind == KindTransport && e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the response status or 0 for transport failures.
func (e *Error) HTTPStatus() int {
	return e.Status
}

// ErrorCode returns the backend error code, if any.
func (e *Error) ErrorCode() string {
	return e.Code
}

// AuthFailure reports whether the backend rejected the credentials.
func (e *Error) AuthFailure() bool {
	return isAuthStatus(e.Status)
}

func isAuthStatus(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// AsError unwraps err into an *Error.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAuthFailure reports whether err is a 401 or 403 from the backend.
func IsAuthFailure(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.AuthFailure()
}

// IsTransport reports whether err means the backend could not be reached.
func IsTransport(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == KindTransport
}
