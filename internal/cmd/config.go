package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/siagacs/siaga-admin/internal/config"
	"github.com/siagacs/siaga-admin/internal/ux"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit siaga-admin configuration",
		Long: `Manage the configuration stored at <home>/config.yaml.

Values are resolved in this order, later ones winning: built-in defaults,
the config file, .env files in the home and working directory, SIAGA_*
environment variables, command-line flags.

Examples:
  # View the effective configuration
  siaga-admin config view

  # Point the CLI at another backend
  siaga-admin config set api.base_url https://api.siaga.example

  # Show configuration file path
  siaga-admin config path
`,
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "view",
			Short: "Display the effective configuration",
			Args:  cobra.NoArgs,
			RunE:  runConfigView,
		},
		&cobra.Command{
			Use:   "edit",
			Short: "Edit configuration in $EDITOR",
			Args:  cobra.NoArgs,
			RunE:  runConfigEdit,
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Get a specific configuration value",
			Long:  "Retrieve the effective value of a key using dot notation (e.g. api.base_url).",
			Args:  cobra.ExactArgs(1),
			RunE:  runConfigGet,
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a specific configuration value",
			Long:  "Write a key to the config file. The file is only saved when the result is valid.",
			Args:  cobra.ExactArgs(2),
			RunE:  runConfigSet,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show configuration file path",
			Args:  cobra.NoArgs,
			RunE:  runConfigPath,
		},
	)
	return configCmd
}

func resolveHome(cmd *cobra.Command) (*CommandContext, string, error) {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create command context: %w", err)
	}
	if cmdCtx.Home != "" {
		return cmdCtx, cmdCtx.Home, nil
	}
	home, err := config.HomeDir()
	return cmdCtx, home, err
}

func runConfigView(cmd *cobra.Command, args []string) error {
	cmdCtx, home, err := resolveHome(cmd)
	if err != nil {
		return err
	}
	if err := config.LoadDotEnv(home); err != nil {
		return err
	}
	cfg, err := config.Load(home)
	if err != nil {
		return ux.FormatError(err, "loading configuration")
	}

	// Use formatter for JSON/YAML output
	if cmdCtx.Format == "json" || cmdCtx.Format == "yaml" {
		formatter, err := ux.NewFormatter(cmdCtx.Format, &ux.FormatterOptions{
			Writer:  cmd.OutOrStdout(),
			NoColor: cmdCtx.NoColor,
		})
		if err != nil {
			return err
		}
		return formatter.Format(cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration file: %s\n\n%s", config.Path(home), data)
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	_, home, err := resolveHome(cmd)
	if err != nil {
		return err
	}
	path := config.Path(home)

	// The editor needs a file to open.
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := config.Save(home, config.Default()); err != nil {
			return ux.FormatError(err, "creating configuration")
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	editorCmd := exec.CommandContext(cmd.Context(), editor, path)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor: %w", err)
	}

	cfg, err := config.ReadFile(path)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Configuration may contain errors: %v\n", err)
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration updated successfully")
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	_, home, err := resolveHome(cmd)
	if err != nil {
		return err
	}
	if err := config.LoadDotEnv(home); err != nil {
		return err
	}
	cfg, err := config.Load(home)
	if err != nil {
		return ux.FormatError(err, "loading configuration")
	}

	value, err := cfg.Get(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	_, home, err := resolveHome(cmd)
	if err != nil {
		return err
	}

	// Environment overrides must not leak into the file.
	cfg, err := config.ReadFile(config.Path(home))
	if err != nil {
		return ux.FormatError(err, "loading configuration")
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.Save(home, cfg); err != nil {
		return ux.FormatError(err, "saving configuration")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Set %s = %s\n", key, value)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	_, home, err := resolveHome(cmd)
	if err != nil {
		return ux.FormatError(err, "getting config path")
	}
	fmt.Fprintln(cmd.OutOrStdout(), config.Path(home))
	return nil
}
