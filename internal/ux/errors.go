package ux

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/siagacs/siaga-admin/internal/api"
	"github.com/siagacs/siaga-admin/internal/authz"
	"github.com/siagacs/siaga-admin/internal/errors"
)

// ErrorWithSuggestion wraps an error with helpful recovery suggestions
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\n💡 Suggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

const (
	suggestLogin   = "Run 'siaga-admin auth login' to sign in again"
	suggestBaseURL = "Check that the backend is running, then verify SIAGA_API_BASE_URL or 'siaga-admin config get api.base_url'"
)

// fieldErrors matches local payload validation failures.
type fieldErrors interface {
	ValidationFields() map[string]string
}

// EnhanceError analyzes an error and adds contextual suggestions.
// Coded errors already carry their own suggestions and pass through.
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	var adminErr *errors.AdminError
	if stderrors.As(err, &adminErr) && len(adminErr.Suggestions) > 0 {
		return err
	}

	var denied *authz.DeniedError
	if stderrors.As(err, &denied) {
		return NewErrorWithSuggestion(err,
			fmt.Sprintf("Ask an administrator with ADMIN_MANAGE to grant %s, then run 'siaga-admin auth whoami'", denied.Permission.Code()))
	}

	var fields fieldErrors
	if stderrors.As(err, &fields) {
		return NewErrorWithSuggestion(err, "Fix the listed fields and run the command again")
	}

	if apiErr, ok := api.AsError(err); ok {
		switch {
		case apiErr.AuthFailure():
			return NewErrorWithSuggestion(err, suggestLogin)
		case apiErr.Kind == api.KindTransport:
			if stderrors.Is(err, context.DeadlineExceeded) {
				return NewErrorWithSuggestion(err,
					"The backend did not answer in time. Raise the limit with 'siaga-admin config set api.timeout 60s'")
			}
			return NewErrorWithSuggestion(err, suggestBaseURL)
		case apiErr.Status >= 500:
			return NewErrorWithSuggestion(err, "The backend failed to handle the request. Try again later")
		}
		return err
	}

	if stderrors.Is(err, fs.ErrNotExist) {
		return NewErrorWithSuggestion(err, "Check that the file path is correct")
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "no such host") {
		return NewErrorWithSuggestion(err, suggestBaseURL)
	}

	if strings.Contains(errMsg, "not signed in") {
		return NewErrorWithSuggestion(err, suggestLogin)
	}

	if strings.Contains(errMsg, "unknown format") {
		return NewErrorWithSuggestion(err, "Use --format text, json or yaml")
	}

	return err
}

// FormatError provides consistent error formatting with context
func FormatError(err error, context string) error {
	if err == nil {
		return nil
	}

	enhanced := EnhanceError(err)
	if context != "" {
		return fmt.Errorf("%s: %w", context, enhanced)
	}
	return enhanced
}
