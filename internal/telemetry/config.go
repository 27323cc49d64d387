// Package telemetry exports OpenTelemetry traces of commands and backend
// requests. Tracing is off unless enabled in the configuration or with
// SIAGA_TELEMETRY; when off every tracer is a no-op.
package telemetry

// Config holds configuration for the tracer
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string

	// Enabled selects the SDK provider; when false a noop tracer is used.
	Enabled bool

	// Endpoint is the OTLP/HTTP collector as host:port. Empty keeps spans
	// in process, which is only useful in tests.
	Endpoint string

	// Insecure sends to the collector over plain HTTP.
	Insecure bool

	// SampleRate is the fraction of traces to sample (0.0 to 1.0)
	SampleRate float64
}

// DefaultConfig returns a disabled configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "siaga-admin",
		ServiceVersion: "dev",
		Environment:    "cli",
		SampleRate:     1.0,
	}
}

// ClampSampleRate limits v to [0, 1].
func ClampSampleRate(v float64) float64 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 1
	default:
		return v
	}
}
