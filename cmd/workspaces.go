package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/togglcmder/internal/model"
	"github.com/manav03panchal/togglcmder/internal/output"
	"github.com/manav03panchal/togglcmder/internal/sync"
)

// workspacesCmd represents the workspaces command.
var workspacesCmd = &cobra.Command{
	Use:     "workspaces",
	Aliases: []string{"workspace", "ws"},
	Short:   "List workspaces",
	Long: `List the workspaces available to the API token.

Examples:
  togglcmder workspaces list
  togglcmder workspaces list --name Work`,
}

// Workspace subcommand flags.
var (
	workspacesListFlagName   string
	workspacesListFlagSortBy string
)

// workspacesListCmd lists workspaces.
var workspacesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces",
	Args:  cobra.NoArgs,
	RunE:  runWorkspacesList,
}

func init() {
	workspacesListCmd.Flags().StringVar(&workspacesListFlagName, "name", "", "Only the workspace with this name")
	workspacesListCmd.Flags().StringVar(&workspacesListFlagSortBy, "sort-by", "", "Column to sort by, descending")

	workspacesCmd.AddCommand(workspacesListCmd)
	rootCmd.AddCommand(workspacesCmd)
}

func runWorkspacesList(cmd *cobra.Command, args []string) error {
	sel, err := load(cmd.Context(), sync.Criteria{WorkspaceName: workspacesListFlagName})
	if err != nil {
		return err
	}
	if len(sel.Workspaces) == 0 {
		return notFound(model.KindWorkspace, workspacesListFlagName)
	}
	ws := model.SortWorkspaces(sel.Workspaces)

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewWorkspacesResponse(ws))
	}

	rows := output.WorkspaceRows(ws)
	if err := sortRows(output.WorkspaceHeaders, rows, workspacesListFlagSortBy); err != nil {
		return err
	}
	ctx.CLIFormatter().PrintTable(output.WorkspaceHeaders, rows)
	return nil
}
