// Package cmd provides the CLI commands for togglcmder.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/manav03panchal/togglcmder/internal/errors"
	"github.com/manav03panchal/togglcmder/internal/logging"
	"github.com/manav03panchal/togglcmder/internal/output"
	"github.com/manav03panchal/togglcmder/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagConfig    string
	flagSync      bool
	flagNoSync    bool
	flagVerbosity int
	flagFormat    string
	flagColor     string
	flagToken     string
)

// ctx is the shared runtime context.
var ctx *runtime.Context

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "togglcmder",
	Short: "Toggl time tracking from the command line",
	Long: `togglcmder manages Toggl workspaces, projects, tags and time entries.

Everything read from Toggl is mirrored in a local cache. Pass --no-sync to
work from the cache alone.

Examples:
  togglcmder workspaces list
  togglcmder projects --workspace Work add --name Website --color blue
  togglcmder timers --project Website start --description "Fix login"
  togglcmder timers stop
  togglcmder --no-sync timers list`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for commands that never touch the cache.
		switch cmd.Name() {
		case "completion", "help", "version":
			return nil
		}

		format, err := output.ParseFormat(flagFormat)
		if err != nil {
			return apperrors.NewUserError(err.Error(), "Use --format cli, json or plain")
		}
		colorMode, err := output.ParseColorMode(flagColor)
		if err != nil {
			return apperrors.NewUserError(err.Error(), "Use --color auto, always or never")
		}

		opts := runtime.DefaultOptions()
		opts.ConfigPath = flagConfig
		opts.Token = flagToken
		opts.Sync = flagSync && !flagNoSync
		opts.Verbosity = flagVerbosity
		opts.Format = format
		opts.ColorMode = colorMode
		opts.Stdout = cmd.OutOrStdout()
		opts.Stderr = cmd.ErrOrStderr()

		c := logging.NewRequestContext(cmd.Context())
		cmd.SetContext(c)
		ctx, err = runtime.New(c, opts)
		return err
	},
}

// Execute runs the command line and reports the outcome. Lookups that match
// nothing or too much are reported as warnings and do not fail the run.
func Execute() error {
	err := rootCmd.Execute()
	err = report(err)
	if ctx != nil {
		if closeErr := ctx.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		ctx = nil
	}
	return err
}

func report(err error) error {
	if err == nil {
		return nil
	}
	warning := apperrors.IsWarning(err)

	if ctx == nil {
		prefix := "Error: "
		if warning {
			prefix = "Warning: "
		}
		fmt.Fprintln(rootCmd.ErrOrStderr(), prefix+apperrors.FormatByCategory(err))
		if warning {
			return nil
		}
		return err
	}

	if warning {
		ctx.Logger.Warn(err.Error())
	} else {
		ctx.Logger.Error("command failed", "error", err, "cause", apperrors.RootCause(err))
	}

	if ctx.IsJSON() {
		status := "error"
		if warning {
			status = "warning"
		}
		_ = ctx.Formatter.JSON(output.ErrorResponse{
			Status:     status,
			Error:      err.Error(),
			Category:   apperrors.Classify(err).String(),
			Suggestion: apperrors.GetSuggestion(err),
		})
	} else if warning {
		ctx.CLIFormatter().Warning(apperrors.FormatByCategory(err))
	} else {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error: "+apperrors.FormatByCategory(err))
	}

	if warning {
		return nil
	}
	return err
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"Config file (default $XDG_CONFIG_HOME/togglcmder/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagSync, "sync", true,
		"Download from Toggl before reading")
	rootCmd.PersistentFlags().BoolVar(&flagNoSync, "no-sync", false,
		"Read from the local cache only")
	rootCmd.PersistentFlags().CountVarP(&flagVerbosity, "verbose", "v",
		"Increase log verbosity (repeat up to -vvvv)")
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "",
		"API token (overrides the config file)")

	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "togglcmder %s\n", Version)
		fmt.Fprintf(out, "  commit: %s\n", Commit)
		fmt.Fprintf(out, "  built: %s\n", BuildTime)
	},
}
