package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	apperrors "github.com/manav03panchal/togglcmder/internal/errors"
	"github.com/manav03panchal/togglcmder/internal/model"
	"github.com/manav03panchal/togglcmder/internal/output"
	"github.com/manav03panchal/togglcmder/internal/sync"
)

// syncCmd refreshes the whole cache.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Download everything from Toggl into the cache",
	Long: `Download the user, every workspace, and the projects, tags and time entries
of each workspace into the cache. Time entries are loaded for the configured
window.

If Toggl reports a different API token than the configured one, the new token
is written to the config file.

Examples:
  togglcmder sync
  togglcmder sync status`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

// syncStatusCmd shows cache contents.
var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache contents and the last download of each kind",
	Args:  cobra.NoArgs,
	RunE:  runSyncStatus,
}

func init() {
	syncCmd.AddCommand(syncStatusCmd)
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if !ctx.Syncer.Enabled() {
		return apperrors.NewUserError("Sync is disabled by --no-sync",
			"Run 'togglcmder sync' without --no-sync")
	}
	if err := ctx.RequireToken(); err != nil {
		return err
	}

	user, err := ctx.Syncer.User(cmd.Context())
	if err != nil {
		return err
	}
	if user != nil && user.TokenRotated(ctx.Config.APIToken) && flagToken == "" {
		if err := ctx.Config.SaveToken(user.APIToken); err != nil {
			return apperrors.NewSystemError("failed to save the rotated API token", err)
		}
		ctx.Logger.InfoContext(cmd.Context(), "saved rotated API token", "config", ctx.Config.Path())
	}

	sel, err := ctx.Select(cmd.Context(), sync.Criteria{
		Window:      ctx.DefaultWindow(),
		Projects:    true,
		Tags:        true,
		TimeEntries: true,
	})
	if err != nil {
		return err
	}

	counts := map[string]int64{
		model.KindUser:      1,
		model.KindWorkspace: int64(len(sel.Workspaces)),
		model.KindProject:   int64(len(sel.Projects)),
		model.KindTag:       int64(len(sel.Tags)),
		model.KindTimeEntry: int64(len(sel.TimeEntries)),
	}
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(struct {
			Status string           `json:"status"`
			Counts map[string]int64 `json:"counts"`
		}{"ok", counts})
	}

	cli := ctx.CLIFormatter()
	cli.Success(fmt.Sprintf("Synced %s", user.Name))
	cli.Printf("  Workspaces: %d\n", counts[model.KindWorkspace])
	cli.Printf("  Projects: %d\n", counts[model.KindProject])
	cli.Printf("  Tags: %d\n", counts[model.KindTag])
	cli.Printf("  Time entries: %d\n", counts[model.KindTimeEntry])
	return nil
}

func runSyncStatus(cmd *cobra.Command, args []string) error {
	stats, err := ctx.Cache.Stats(cmd.Context())
	if err != nil {
		return err
	}
	records, err := ctx.State.SyncRecords()
	if err != nil {
		return apperrors.NewSystemError("failed to read sync records", err)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Kind < records[j].Kind })

	resp := output.SyncStatusResponse{
		CachePath: ctx.Cache.Path(),
		Counts: map[string]int64{
			model.KindWorkspace: stats.Workspaces,
			model.KindProject:   stats.Projects,
			model.KindTag:       stats.Tags,
			model.KindTimeEntry: stats.TimeEntries,
			"time_entry_tag":    stats.TimeEntryTags,
			model.KindUser:      stats.Users,
		},
		Syncs: make([]output.SyncRecordOutput, 0, len(records)),
	}
	for _, r := range records {
		resp.Syncs = append(resp.Syncs, output.SyncRecordOutput{
			Kind:  r.Kind,
			At:    output.FormatTimestamp(r.At),
			Count: r.Count,
		})
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(resp)
	}

	cli := ctx.CLIFormatter()
	cli.Title("Cache")
	cli.Printf("  Path: %s\n", resp.CachePath)
	cli.Printf("  Workspaces: %d\n", stats.Workspaces)
	cli.Printf("  Projects: %d\n", stats.Projects)
	cli.Printf("  Tags: %d\n", stats.Tags)
	cli.Printf("  Time entries: %d (%d tag links)\n", stats.TimeEntries, stats.TimeEntryTags)
	cli.Printf("  Users: %d\n", stats.Users)
	cli.Println()

	if len(records) == 0 {
		cli.Muted("Nothing has been downloaded yet.")
		return nil
	}
	rows := make([]output.TableRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, output.TableRow{Columns: []string{
			r.Kind, output.FormatTime(r.At), fmt.Sprintf("%d", r.Count),
		}})
	}
	cli.PrintTable(output.SyncHeaders, rows)
	return nil
}
