package cmd

import (
	"fmt"
	"slices"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/togglcmder/internal/config"
	apperrors "github.com/manav03panchal/togglcmder/internal/errors"
	"github.com/manav03panchal/togglcmder/internal/logging"
)

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg"},
	Short:   "Show and change configuration",
	Long: `Show and change the settings in the config file.

Examples:
  togglcmder config show
  togglcmder config set default_workspace Work
  togglcmder config set default_time_entry_window_start_days 14`,
}

// configShowCmd shows configuration values.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

// configSetCmd sets configuration values.
var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Long: `Set a configuration value and write the config file.

Keys:
  api_url                                Toggl API base URL
  default_workspace                      Workspace used when --workspace is omitted
  default_project                        Project used when --project is omitted
  default_time_entry_window_start_days   Days back the time entry window starts
  default_time_entry_window_stop_days    Days back the time entry window ends
  cache_path                             Cache database file
  state_path                             Session state directory
  log_file                               Log file

Use 'togglcmder token set' for the API token.`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: settableKeys,
	RunE:      runConfigSet,
}

var settableKeys = []string{
	config.KeyAPIURL,
	config.KeyDefaultWorkspace,
	config.KeyDefaultProject,
	config.KeyWindowStartDays,
	config.KeyWindowStopDays,
	config.KeyCachePath,
	config.KeyStatePath,
	config.KeyLogFile,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	settings := ctx.Config.Settings()
	if token, ok := settings[config.KeyAPIToken].(string); ok && token != "" {
		settings[config.KeyAPIToken] = logging.MaskPartial(token, 4)
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(struct {
			Path     string         `json:"path"`
			Settings map[string]any `json:"settings"`
		}{ctx.Config.Path(), settings})
	}

	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cli := ctx.CLIFormatter()
	cli.Title("Configuration")
	cli.Muted(ctx.Config.Path())
	for _, k := range keys {
		cli.Printf("  %s: %v\n", k, settings[k])
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]
	if !slices.Contains(settableKeys, key) {
		return apperrors.NewUserErrorWithField("key", key, "Unknown config key",
			"Run 'togglcmder config set --help' for the list of keys")
	}

	var value any = raw
	if key == config.KeyWindowStartDays || key == config.KeyWindowStopDays {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			return apperrors.NewUserErrorWithField(key, raw, "Not a number of days",
				"Use a whole number, e.g. 7")
		}
		value = days
	}

	if err := ctx.Config.Set(key, value); err != nil {
		return err
	}
	if err := ctx.Config.Save(); err != nil {
		return apperrors.NewSystemError("failed to write config", err)
	}
	return printResult(fmt.Sprintf("Set %s to %v", key, value))
}
