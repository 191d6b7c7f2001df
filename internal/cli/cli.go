// Package cli implements the depfilter command-line interface.
//
// depfilter comments out (requirements.txt) or drops (pyproject.toml) every
// declared dependency that a GPU vendor runtime image already provides, so
// that `pip install` does not replace the vendor-tuned packages.
//
// # Commands
//
//   - filter: filter a manifest against the override catalog (also the
//     default action of the root command)
//   - catalog: show the packages listed in the override catalog
//   - completion: generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Diagnostics go
// to stderr through charmbracelet/log; the human-readable summary goes to
// stdout.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depfilter/pkg/buildinfo"
	"github.com/matzehuels/depfilter/pkg/config"
	"github.com/matzehuels/depfilter/pkg/errors"
	"github.com/matzehuels/depfilter/pkg/manifest"
	"github.com/matzehuels/depfilter/pkg/manifest/pyproject"
	"github.com/matzehuels/depfilter/pkg/manifest/requirements"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "depfilter"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Out    io.Writer
	Getenv func(string) string

	catalogPath string
	dryRun      bool
}

// New creates a new CLI instance logging to w at the given level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		Getenv: os.Getenv,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Given a manifest argument, the root command behaves like "filter".
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName + " [manifest]",
		Short: "Filter dependencies already provided by a GPU runtime image",
		Long: `depfilter resolves conflicts between a project's declared Python dependencies
and the packages preinstalled in a GPU vendor runtime image (e.g. ROCm PyTorch).

Dependencies listed in the override catalog are commented out in
requirements.txt files (written to requirements-filtered.txt) or dropped from
pyproject.toml (rewritten in place). The pristine manifest is backed up once.

Examples:
  depfilter requirements.txt
  depfilter pyproject.toml --catalog /opt/rocm/rocm-provided.txt
  depfilter catalog`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return c.runFilter(cmd, args[0])
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.catalogPath, "catalog", "", "override catalog file (default "+config.Default().Catalog+")")
	root.Flags().BoolVar(&c.dryRun, "dry-run", false, "report conflicts without writing any file")

	// Register all subcommands
	root.AddCommand(c.filterCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Settings
// =============================================================================

// settings resolves configuration (defaults, file, env) and applies the
// flags the user set explicitly.
func (c *CLI) settings(cmd *cobra.Command) (config.Config, error) {
	getenv := c.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	path, explicit := config.Path(getenv)
	cfg, err := config.Load(path, explicit, getenv)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("catalog") {
		cfg.Catalog = c.catalogPath
	}
	if f := flags.Lookup("dry-run"); f != nil && f.Changed {
		cfg.DryRun = c.dryRun
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if cfg.Source != "" {
		loggerFromContext(cmd.Context()).Debugf("Loaded config from %s", cfg.Source)
	}
	return cfg, nil
}

// ExitCode maps an error returned by a command to a process exit status:
// 0 on success, 1 for usage and configuration errors, 2 when the operation
// itself failed (missing or malformed manifest, I/O failure).
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.IsFatal(err):
		return 1
	case errors.GetCode(err) != "":
		return 2
	default:
		return 1
	}
}

// filters returns the supported manifest filters in detection order.
func filters() []manifest.Filter {
	return []manifest.Filter{
		&requirements.Filter{},
		&pyproject.Filter{},
	}
}
