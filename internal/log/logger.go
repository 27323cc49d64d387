package log

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"strings"

	"github.com/siagacs/siaga-admin/internal/errors"
)

// Logger provides structured logging with slog
type Logger struct {
	slog   *slog.Logger
	config Config
}

// statusCoder is satisfied by errors that carry an HTTP status, such as
// backend failures from the api package.
type statusCoder interface {
	HTTPStatus() int
}

// codedError is satisfied by errors that carry a backend or CLI error code.
type codedError interface {
	ErrorCode() string
}

// Redacted replaces the value of any attribute named in sensitiveKeys.
const Redacted = "[REDACTED]"

// sensitiveKeys are attribute names whose values never reach the output,
// whatever the level. Tokens are logged by fingerprint instead.
var sensitiveKeys = map[string]bool{
	"token":         true,
	"password":      true,
	"authorization": true,
	"passphrase":    true,
	"new_password":  true,
}

func redact(_ []string, a slog.Attr) slog.Attr {
	if sensitiveKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, Redacted)
	}
	return a
}

// New creates a new Logger with the given configuration
func New(config Config) *Logger {
	opts := &slog.HandlerOptions{
		Level:       config.Level.ToSlogLevel(),
		AddSource:   config.AddSource,
		ReplaceAttr: redact,
	}

	var handler slog.Handler
	switch config.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(config.Output.Writer(), opts)
	case FormatText:
		handler = slog.NewTextHandler(config.Output.Writer(), opts)
	default:
		handler = slog.NewTextHandler(config.Output.Writer(), opts)
	}

	return &Logger{
		slog:   slog.New(handler),
		config: config,
	}
}

// Default creates a logger with default configuration
func Default() *Logger {
	return New(DefaultConfig())
}

// Discard returns a logger that drops every record. Tests use it.
func Discard() *Logger {
	cfg := DefaultConfig()
	cfg.Output = NewOutput(io.Discard)
	return New(cfg)
}

// With returns a new Logger with the given attributes added to all log entries
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slog:   l.slog.With(args...),
		config: l.config,
	}
}

// WithError adds error details to the logger.
// Coded errors contribute error_code and suggestions; backend errors
// contribute the HTTP status.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.With(errorAttrs(err)...)
}

func errorAttrs(err error) []any {
	var adminErr *errors.AdminError
	if stderrors.As(err, &adminErr) {
		args := []any{
			"error", adminErr.Message,
			"error_code", string(adminErr.Code),
		}
		if len(adminErr.Suggestions) > 0 {
			args = append(args, "suggestions", adminErr.Suggestions)
		}
		if adminErr.Cause != nil {
			args = append(args, "cause", adminErr.Cause.Error())
		}
		return args
	}

	args := []any{"error", err.Error()}

	var coded codedError
	if stderrors.As(err, &coded) && coded.ErrorCode() != "" {
		args = append(args, "error_code", coded.ErrorCode())
	}

	var withStatus statusCoder
	if stderrors.As(err, &withStatus) && withStatus.HTTPStatus() != 0 {
		args = append(args, "status", withStatus.HTTPStatus())
	}
	return args
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...any) {
	l.slog.Debug(msg, args...)
}

// DebugContext logs a debug message with context
func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.slog.DebugContext(ctx, msg, args...)
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

// InfoContext logs an info message with context
func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.slog.InfoContext(ctx, msg, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

// WarnContext logs a warning message with context
func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.slog.WarnContext(ctx, msg, args...)
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...any) {
	l.slog.Error(msg, args...)
}

// ErrorContext logs an error message with context
func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.slog.ErrorContext(ctx, msg, args...)
}

// Config returns the logger configuration
func (l *Logger) Config() Config {
	return l.config
}
