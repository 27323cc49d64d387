package exitcode

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/siagacs/siaga-admin/internal/api"
	"github.com/siagacs/siaga-admin/internal/authz"
	"github.com/siagacs/siaga-admin/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// PermissionDenied indicates the session lacks a required permission
	PermissionDenied = 3

	// ValidationError indicates input rejected before or by the backend
	ValidationError = 4

	// AuthError indicates a missing or rejected session
	AuthError = 5

	// NetworkError indicates the backend could not be reached
	NetworkError = 6

	// Interrupted indicates the command was cancelled (Ctrl-C)
	Interrupted = 130
)

// fieldValidator is implemented by local payload validation errors.
type fieldValidator interface {
	ValidationFields() map[string]string
}

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}
	Exit(DetermineExitCode(err))
}

// DetermineExitCode maps err to an exit code. Typed errors are checked
// first; plain errors fall back to message matching.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	if stderrors.Is(err, context.Canceled) {
		return Interrupted
	}

	var adminErr *errors.AdminError
	if stderrors.As(err, &adminErr) {
		if code := fromErrorCode(adminErr.Code); code != GeneralError {
			return code
		}
	}

	var denied *authz.DeniedError
	if stderrors.As(err, &denied) {
		return PermissionDenied
	}

	var fields fieldValidator
	if stderrors.As(err, &fields) {
		return ValidationError
	}

	if apiErr, ok := api.AsError(err); ok {
		switch {
		case apiErr.AuthFailure():
			return AuthError
		case apiErr.Kind == api.KindTransport:
			return NetworkError
		case apiErr.Status == 400 || apiErr.Status == 409 || apiErr.Status == 422:
			return ValidationError
		default:
			return GeneralError
		}
	}

	return fromMessage(strings.ToLower(err.Error()))
}

func fromErrorCode(code errors.ErrorCode) int {
	c := string(code)
	switch {
	case strings.HasPrefix(c, "SESSION-"):
		return AuthError
	case strings.HasPrefix(c, "AUTHZ-"):
		return PermissionDenied
	case strings.HasPrefix(c, "INPUT-"), strings.HasPrefix(c, "CONFIG-"):
		return ValidationError
	case code == errors.ErrCodeUnreachable:
		return NetworkError
	default:
		return GeneralError
	}
}

func fromMessage(errMsg string) int {
	if strings.Contains(errMsg, "permission denied") {
		return PermissionDenied
	}

	if strings.Contains(errMsg, "not signed in") || strings.Contains(errMsg, "unauthorized") {
		return AuthError
	}

	if strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "no such host") {
		return NetworkError
	}
	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "unreachable") {
		return NetworkError
	}

	// cobra reports usage problems as plain errors
	if strings.Contains(errMsg, "unknown flag") || strings.Contains(errMsg, "unknown command") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "accepts ") {
		return UsageError
	}
	if strings.Contains(errMsg, "invalid argument") {
		return UsageError
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case PermissionDenied:
		return "Permission denied"
	case ValidationError:
		return "Validation error"
	case AuthError:
		return "Authentication error"
	case NetworkError:
		return "Network error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
