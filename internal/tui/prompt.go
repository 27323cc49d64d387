package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrNotInteractive is returned when a prompt is needed but no terminal is
// attached.
var ErrNotInteractive = fmt.Errorf("input required but no terminal is attached")

// LoginForm asks for e-mail and password. A non-empty email is offered as
// the default.
func LoginForm(email, password *string) error {
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("E-mail").
			Value(email).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("e-mail is required")
				}
				return nil
			}),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password).
			Validate(func(s string) error {
				if s == "" {
					return fmt.Errorf("password is required")
				}
				return nil
			}),
	)).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}

// PromptForString displays an interactive prompt and returns the user's input
func PromptForString(message string, required bool) (string, error) {
	var value string

	input := huh.NewInput().
		Title(message).
		Value(&value)

	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	if required && strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("value is required")
	}
	return value, nil
}

// PromptForPassword reads a secret without echoing it.
func PromptForPassword(message string) (string, error) {
	var value string

	input := huh.NewInput().
		Title(message).
		EchoMode(huh.EchoModePassword).
		Value(&value)

	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	if value == "" {
		return "", fmt.Errorf("value is required")
	}
	return value, nil
}

// PromptForConfirmation displays a yes/no confirmation prompt
func PromptForConfirmation(message string, defaultValue bool) (bool, error) {
	confirmed := defaultValue

	confirm := huh.NewConfirm().
		Title(message).
		Value(&confirmed)

	if err := huh.NewForm(huh.NewGroup(confirm)).Run(); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return confirmed, nil
}

// Choice is one option of a multi-select prompt.
type Choice struct {
	Value string
	Label string
}

// PromptForMultiSelect displays a multi-selection prompt with preselected
// values.
func PromptForMultiSelect(message string, choices []Choice, selected []string) ([]string, error) {
	if len(choices) == 0 {
		return nil, fmt.Errorf("no options provided")
	}

	picked := make(map[string]bool, len(selected))
	for _, s := range selected {
		picked[s] = true
	}
	options := make([]huh.Option[string], len(choices))
	for i, c := range choices {
		label := c.Value
		if c.Label != "" {
			label = fmt.Sprintf("%s (%s)", c.Label, c.Value)
		}
		options[i] = huh.NewOption(label, c.Value).Selected(picked[c.Value])
	}

	out := append([]string(nil), selected...)
	multiSelect := huh.NewMultiSelect[string]().
		Title(message).
		Options(options...).
		Value(&out)

	if err := huh.NewForm(huh.NewGroup(multiSelect)).Run(); err != nil {
		return nil, fmt.Errorf("prompt failed: %w", err)
	}
	return out, nil
}

// IsInteractive returns true if stdin is a terminal (not piped)
func IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// ShouldPrompt returns true if prompts should be shown based on environment
// Prompts are disabled in CI environments or when stdin is not a terminal
func ShouldPrompt() bool {
	ciEnvVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"JENKINS_URL",
		"TRAVIS",
		"CIRCLECI",
		"BUILDKITE",
	}

	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return false
		}
	}

	return IsInteractive()
}
