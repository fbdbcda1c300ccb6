package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/manav03panchal/togglcmder/internal/errors"
	"github.com/manav03panchal/togglcmder/internal/filter"
	"github.com/manav03panchal/togglcmder/internal/model"
	"github.com/manav03panchal/togglcmder/internal/output"
	"github.com/manav03panchal/togglcmder/internal/sync"
	"github.com/manav03panchal/togglcmder/internal/validate"
)

// projectsCmd represents the projects command.
var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"project", "proj"},
	Short:   "Add, update, delete and list projects",
	Long: `Add, update, delete and list projects in a workspace.

Without --workspace the configured default workspace is used.

Examples:
  togglcmder projects list
  togglcmder projects --workspace Work add --name Website --color blue
  togglcmder projects update --old-name Website --new-name Site
  togglcmder projects delete --color red --multiple`,
}

// Project flags.
var (
	projectsFlagWorkspace string

	projectsAddFlagName  string
	projectsAddFlagColor string

	projectsDeleteFlagName     string
	projectsDeleteFlagColor    string
	projectsDeleteFlagMultiple bool

	projectsUpdateFlagOldName  string
	projectsUpdateFlagOldColor string
	projectsUpdateFlagNewName  string
	projectsUpdateFlagNewColor string
	projectsUpdateFlagMultiple bool

	projectsListFlagName   string
	projectsListFlagColor  string
	projectsListFlagSortBy string
)

// projectsAddCmd adds a project.
var projectsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a project",
	Args:  cobra.NoArgs,
	RunE:  runProjectsAdd,
}

// projectsDeleteCmd deletes projects.
var projectsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete projects by name or color",
	Args:  cobra.NoArgs,
	RunE:  runProjectsDelete,
}

// projectsUpdateCmd renames or recolors projects.
var projectsUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change the name or color of projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectsUpdate,
}

// projectsListCmd lists projects.
var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectsList,
}

func init() {
	projectsCmd.PersistentFlags().StringVar(&projectsFlagWorkspace, "workspace", "", "Workspace name (default from config)")

	// Add flags
	projectsAddCmd.Flags().StringVar(&projectsAddFlagName, "name", "", "Project name")
	projectsAddCmd.Flags().StringVar(&projectsAddFlagColor, "color", model.DefaultColor.String(), "Project color")
	_ = projectsAddCmd.MarkFlagRequired("name")

	// Delete flags
	projectsDeleteCmd.Flags().StringVar(&projectsDeleteFlagName, "name", "", "Name of the project to delete")
	projectsDeleteCmd.Flags().StringVar(&projectsDeleteFlagColor, "color", "", "Delete projects of this color")
	projectsDeleteCmd.Flags().BoolVar(&projectsDeleteFlagMultiple, "multiple", false, "Allow deleting several projects")

	// Update flags
	projectsUpdateCmd.Flags().StringVar(&projectsUpdateFlagOldName, "old-name", "", "Current project name")
	projectsUpdateCmd.Flags().StringVar(&projectsUpdateFlagOldColor, "old-color", "", "Current project color")
	projectsUpdateCmd.Flags().StringVar(&projectsUpdateFlagNewName, "new-name", "", "New project name")
	projectsUpdateCmd.Flags().StringVar(&projectsUpdateFlagNewColor, "new-color", "", "New project color")
	projectsUpdateCmd.Flags().BoolVar(&projectsUpdateFlagMultiple, "multiple", false, "Allow updating several projects")

	// List flags
	projectsListCmd.Flags().StringVar(&projectsListFlagName, "name", "", "Only projects with this name")
	projectsListCmd.Flags().StringVar(&projectsListFlagColor, "color", "", "Only projects of this color")
	projectsListCmd.Flags().StringVar(&projectsListFlagSortBy, "sort-by", "", "Column to sort by, descending")

	for _, c := range []*cobra.Command{projectsAddCmd, projectsDeleteCmd, projectsUpdateCmd, projectsListCmd} {
		_ = c.RegisterFlagCompletionFunc("color", completeColors)
	}
	_ = projectsUpdateCmd.RegisterFlagCompletionFunc("old-color", completeColors)
	_ = projectsUpdateCmd.RegisterFlagCompletionFunc("new-color", completeColors)
	_ = projectsCmd.RegisterFlagCompletionFunc("workspace", completeWorkspaces)
	_ = projectsDeleteCmd.RegisterFlagCompletionFunc("name", completeProjects)
	_ = projectsUpdateCmd.RegisterFlagCompletionFunc("old-name", completeProjects)

	projectsCmd.AddCommand(projectsAddCmd)
	projectsCmd.AddCommand(projectsDeleteCmd)
	projectsCmd.AddCommand(projectsUpdateCmd)
	projectsCmd.AddCommand(projectsListCmd)
	rootCmd.AddCommand(projectsCmd)
}

func completeColors(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, 0, len(model.Colors()))
	for _, c := range model.Colors() {
		names = append(names, c.String())
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func loadProjects(c context.Context) (*sync.Selection, error) {
	return load(c, sync.Criteria{
		WorkspaceName: workspaceName(projectsFlagWorkspace),
		Projects:      true,
	})
}

// matchProjects narrows the selected projects of ws by name and color.
func matchProjects(sel *sync.Selection, ws model.Workspace, name, color string) ([]model.Project, error) {
	c, err := validate.Color(color)
	if err != nil {
		return nil, err
	}
	ps := filter.ProjectsByWorkspace(sel.Projects, &ws)
	ps = filter.ProjectsByName(ps, name)
	ps = filter.ProjectsByColor(ps, c)
	if len(ps) == 0 {
		criteria := name
		if criteria == "" {
			criteria = color
		}
		return nil, notFound(model.KindProject, criteria)
	}
	return ps, nil
}

func runProjectsAdd(cmd *cobra.Command, args []string) error {
	name := validate.SanitizeName(projectsAddFlagName)
	if err := validate.Name(model.KindProject, name); err != nil {
		return err
	}
	color, err := validate.Color(projectsAddFlagColor)
	if err != nil {
		return err
	}
	if err := ctx.RequireToken(); err != nil {
		return err
	}

	sel, err := loadProjects(cmd.Context())
	if err != nil {
		return err
	}
	ws, err := singleWorkspace(sel)
	if err != nil {
		return err
	}

	if existing := filter.ProjectsByName(filter.ProjectsByWorkspace(sel.Projects, &ws), name); len(existing) > 0 {
		msg := fmt.Sprintf("project %q already exists in workspace %q", name, ws.Name)
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(output.ResultResponse{Status: "unchanged", Message: msg})
		}
		ctx.CLIFormatter().Warning(msg)
		return nil
	}

	added, err := ctx.Remote.AddProject(cmd.Context(), model.NewProject(name, ws.ID, color))
	if err != nil {
		return err
	}
	cacheWrite(cmd.Context(), model.KindProject, func() (int64, error) {
		return ctx.Cache.UpdateProjects(cmd.Context(), []model.Project{added})
	})

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewProjectOutput(added, output.NewLookup(sel.Workspaces, nil)))
	}
	ctx.CLIFormatter().Success(fmt.Sprintf("Added project %s to workspace %s", added.Name, ws.Name))
	return nil
}

func runProjectsDelete(cmd *cobra.Command, args []string) error {
	if projectsDeleteFlagName == "" && projectsDeleteFlagColor == "" {
		return apperrors.NewUserError("Nothing selects the projects to delete",
			"Pass --name, --color or both")
	}
	if err := ctx.RequireToken(); err != nil {
		return err
	}

	sel, err := loadProjects(cmd.Context())
	if err != nil {
		return err
	}
	ws, err := singleWorkspace(sel)
	if err != nil {
		return err
	}
	ps, err := matchProjects(sel, ws, projectsDeleteFlagName, projectsDeleteFlagColor)
	if err != nil {
		return err
	}
	if err := requireMultiple(model.KindProject, len(ps), projectsDeleteFlagMultiple); err != nil {
		return err
	}

	if len(ps) == 1 {
		err = ctx.Remote.DeleteProject(cmd.Context(), ps[0])
	} else {
		err = ctx.Remote.DeleteProjects(cmd.Context(), ps)
	}
	if err != nil {
		return err
	}
	for _, p := range ps {
		cacheRemove(cmd.Context(), model.KindProject, func() error {
			return ctx.Cache.RemoveProject(cmd.Context(), p)
		})
	}

	if len(ps) == 1 {
		return printResult(fmt.Sprintf("Deleted project %s from workspace %s", ps[0].Name, ws.Name))
	}
	return printResult(fmt.Sprintf("Deleted %d projects from workspace %s", len(ps), ws.Name))
}

func runProjectsUpdate(cmd *cobra.Command, args []string) error {
	if projectsUpdateFlagOldName == "" && projectsUpdateFlagOldColor == "" {
		return apperrors.NewUserError("Nothing selects the projects to update",
			"Pass --old-name, --old-color or both")
	}
	newName := validate.SanitizeName(projectsUpdateFlagNewName)
	if projectsUpdateFlagNewName != "" {
		if err := validate.Name(model.KindProject, newName); err != nil {
			return err
		}
	}
	newColor, err := validate.Color(projectsUpdateFlagNewColor)
	if err != nil {
		return err
	}
	if newName == "" && newColor == model.ColorNone {
		return apperrors.NewUserError("Nothing to change",
			"Pass --new-name, --new-color or both")
	}
	if err := ctx.RequireToken(); err != nil {
		return err
	}

	sel, err := loadProjects(cmd.Context())
	if err != nil {
		return err
	}
	ws, err := singleWorkspace(sel)
	if err != nil {
		return err
	}
	ps, err := matchProjects(sel, ws, projectsUpdateFlagOldName, projectsUpdateFlagOldColor)
	if err != nil {
		return err
	}
	if err := requireMultiple(model.KindProject, len(ps), projectsUpdateFlagMultiple); err != nil {
		return err
	}

	var opts []model.ProjectOption
	if newName != "" {
		opts = append(opts, model.ProjectName(newName))
	}
	if newColor != model.ColorNone {
		opts = append(opts, model.ProjectColor(newColor))
	}

	updated := make([]model.Project, 0, len(ps))
	for _, p := range ps {
		u, err := ctx.Remote.UpdateProject(cmd.Context(), p.With(opts...))
		if err != nil {
			return err
		}
		updated = append(updated, u)
		if !ctx.IsJSON() {
			ctx.CLIFormatter().Success(fmt.Sprintf("Updated project %s in workspace %s", u.Name, ws.Name))
		}
	}
	cacheWrite(cmd.Context(), model.KindProject, func() (int64, error) {
		return ctx.Cache.UpdateProjects(cmd.Context(), updated)
	})

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewProjectsResponse(updated, output.NewLookup(sel.Workspaces, nil)))
	}
	return nil
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	color, err := validate.Color(projectsListFlagColor)
	if err != nil {
		return err
	}
	sel, err := loadProjects(cmd.Context())
	if err != nil {
		return err
	}

	ps := filter.ProjectsByName(sel.Projects, projectsListFlagName)
	ps = filter.ProjectsByColor(ps, color)
	if len(ps) == 0 {
		return notFound(model.KindProject, projectsListFlagName)
	}
	ps = model.SortProjects(ps)
	lookup := ctx.Lookup()

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewProjectsResponse(ps, lookup))
	}

	rows := output.ProjectRows(ps, lookup)
	if err := sortRows(output.ProjectHeaders, rows, projectsListFlagSortBy); err != nil {
		return err
	}
	ctx.CLIFormatter().PrintTable(output.ProjectHeaders, rows)
	return nil
}
