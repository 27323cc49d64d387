package ux

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/siagacs/siaga-admin/internal/tui"
)

// Formatter defines the interface for output formatters.
// This enables consistent output formatting across all commands.
type Formatter interface {
	// Format writes the given data to the output writer
	Format(data interface{}) error
}

// FormatterOptions contains configuration for formatters
type FormatterOptions struct {
	// Writer is where output is written (defaults to os.Stdout)
	Writer io.Writer
	// NoColor disables colored output for text formatters
	NoColor bool
	// Compact enables compact output (no indentation for JSON/YAML)
	Compact bool
}

// NewFormatter creates a formatter based on the format string
func NewFormatter(format string, opts *FormatterOptions) (Formatter, error) {
	if opts == nil {
		opts = &FormatterOptions{Writer: os.Stdout}
	}
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	switch format {
	case "json":
		return &JSONFormatter{opts: opts}, nil
	case "yaml":
		return &YAMLFormatter{opts: opts}, nil
	case "text", "":
		return &TextFormatter{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (supported: text, json, yaml)", format)
	}
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	opts *FormatterOptions
}

// Format writes data as JSON
func (f *JSONFormatter) Format(data interface{}) error {
	encoder := json.NewEncoder(f.opts.Writer)
	if !f.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	opts *FormatterOptions
}

// Format writes data as YAML
func (f *YAMLFormatter) Format(data interface{}) error {
	encoder := yaml.NewEncoder(f.opts.Writer)
	if !f.opts.Compact {
		encoder.SetIndent(2)
	}
	defer encoder.Close()
	return encoder.Encode(data)
}

// Tabular is implemented by results that print as a table in text mode.
type Tabular interface {
	Headers() []string
	Rows() [][]string
}

// Table pairs the raw result with its text rendering so one value can be
// handed to any formatter. JSON and YAML encode Data; text prints the rows.
type Table struct {
	Data   interface{}
	Header []string
	Body   [][]string
}

// Headers implements Tabular
func (t Table) Headers() []string { return t.Header }

// Rows implements Tabular
func (t Table) Rows() [][]string { return t.Body }

// MarshalJSON encodes the raw data.
func (t Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Data)
}

// MarshalYAML encodes the raw data.
func (t Table) MarshalYAML() (interface{}, error) {
	return t.Data, nil
}

// TextFormatter formats output as human-readable text
type TextFormatter struct {
	opts *FormatterOptions
}

// Format writes data as formatted text
// Note: TextFormatter requires data to be Tabular, implement a String()
// method or be a string
func (f *TextFormatter) Format(data interface{}) error {
	switch v := data.(type) {
	case string:
		_, err := fmt.Fprintln(f.opts.Writer, v)
		return err
	case Tabular:
		rows := v.Rows()
		if len(rows) == 0 {
			_, err := fmt.Fprintln(f.opts.Writer, "No results.")
			return err
		}
		styles := tui.NewStyles(f.opts.Writer)
		if f.opts.NoColor {
			styles = tui.NewStyles(io.Discard)
		}
		_, err := fmt.Fprintln(f.opts.Writer, tui.Table(styles, v.Headers(), rows))
		return err
	case fmt.Stringer:
		_, err := fmt.Fprintln(f.opts.Writer, v.String())
		return err
	default:
		return fmt.Errorf("text formatter requires a table, a String() method or a string (got %T)", data)
	}
}

// Compile-time verification that formatters implement Formatter
var _ Formatter = (*JSONFormatter)(nil)
var _ Formatter = (*YAMLFormatter)(nil)
var _ Formatter = (*TextFormatter)(nil)
var _ Tabular = Table{}
