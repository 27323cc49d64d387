package cmd

import (
	"github.com/spf13/cobra"
)

// CommandContext holds the persistent flags of one invocation. Commands
// read it instead of package globals so the tree can be built and run
// repeatedly in tests.
type CommandContext struct {
	// Output control
	Verbose bool
	Quiet   bool
	Format  string
	NoColor bool
	Yes     bool

	// Configuration
	Home     string
	BaseURL  string
	LogLevel string

	// formatSet is true when --format was given explicitly.
	formatSet bool
}

// NewCommandContext extracts command context from cobra.Command flags.
// Commands call this in their RunE function to get their configuration:
//
//	func runCommand(cmd *cobra.Command, args []string) error {
//		ctx, err := NewCommandContext(cmd)
//		if err != nil {
//			return fmt.Errorf("failed to create command context: %w", err)
//		}
//		// Use ctx.Verbose, ctx.Format, etc.
//	}
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}

	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return nil, err
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return nil, err
	}

	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return nil, err
	}

	home, err := cmd.Flags().GetString("home")
	if err != nil {
		return nil, err
	}

	baseURL, err := cmd.Flags().GetString("base-url")
	if err != nil {
		return nil, err
	}

	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Verbose:   verbose,
		Quiet:     quiet,
		Format:    format,
		NoColor:   noColor,
		Yes:       yes,
		Home:      home,
		BaseURL:   baseURL,
		LogLevel:  logLevel,
		formatSet: cmd.Flags().Changed("format"),
	}, nil
}
