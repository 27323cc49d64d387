// Package health runs the diagnostics behind the doctor command.
//
// A Checker inspects one dependency (the config file, the stored token, the
// backend) and reports a Result. The Manager runs every checker in parallel
// under a timeout and keeps the registration order in its report.
package health

import (
	"context"
	"time"
)

// Checker defines the interface for health checks.
type Checker interface {
	// Name is a short lowercase label such as "backend".
	Name() string

	// Check must respect the context deadline.
	Check(ctx context.Context) *Result
}

// Status represents the health check status.
type Status string

const (
	// StatusHealthy indicates the checked component is fully operational.
	StatusHealthy Status = "healthy"

	// StatusDegraded means commands will work after the operator acts,
	// for example by signing in again.
	StatusDegraded Status = "degraded"

	// StatusUnhealthy means no command that needs the component can work.
	StatusUnhealthy Status = "unhealthy"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Result represents the result of a health check.
type Result struct {
	Status  Status        `json:"status" yaml:"status"`
	Message string        `json:"message" yaml:"message"`
	Hint    string        `json:"hint,omitempty" yaml:"hint,omitempty"`
	Latency time.Duration `json:"latency" yaml:"latency"`
}

// WithHint attaches what the operator should do next.
func (r *Result) WithHint(hint string) *Result {
	r.Hint = hint
	return r
}

// Healthy creates a healthy result with the given message.
func Healthy(message string) *Result {
	return &Result{Status: StatusHealthy, Message: message}
}

// Degraded creates a degraded result with the given message.
func Degraded(message string) *Result {
	return &Result{Status: StatusDegraded, Message: message}
}

// Unhealthy creates an unhealthy result with the given message.
func Unhealthy(message string) *Result {
	return &Result{Status: StatusUnhealthy, Message: message}
}

type funcChecker struct {
	name string
	fn   func(ctx context.Context) *Result
}

func (c funcChecker) Name() string                      { return c.name }
func (c funcChecker) Check(ctx context.Context) *Result { return c.fn(ctx) }

// NewCheck adapts a function to Checker.
func NewCheck(name string, fn func(ctx context.Context) *Result) Checker {
	return funcChecker{name: name, fn: fn}
}
