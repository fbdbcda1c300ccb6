package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/togglcmder/internal/filter"
	"github.com/manav03panchal/togglcmder/internal/model"
	"github.com/manav03panchal/togglcmder/internal/output"
	"github.com/manav03panchal/togglcmder/internal/sync"
	"github.com/manav03panchal/togglcmder/internal/validate"
)

// tagsCmd represents the tags command.
var tagsCmd = &cobra.Command{
	Use:     "tags",
	Aliases: []string{"tag"},
	Short:   "Add, update, delete and list tags",
	Long: `Add, update, delete and list tags in a workspace.

Examples:
  togglcmder tags list
  togglcmder tags --workspace Work add --name billable
  togglcmder tags update --old-name billable --new-name invoiced`,
}

// Tag flags.
var (
	tagsFlagWorkspace string

	tagsAddFlagName string

	tagsDeleteFlagName     string
	tagsDeleteFlagMultiple bool

	tagsUpdateFlagOldName string
	tagsUpdateFlagNewName string

	tagsListFlagName   string
	tagsListFlagSortBy string
)

// tagsAddCmd adds a tag.
var tagsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a tag",
	Args:  cobra.NoArgs,
	RunE:  runTagsAdd,
}

// tagsDeleteCmd deletes tags.
var tagsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete tags by name",
	Args:  cobra.NoArgs,
	RunE:  runTagsDelete,
}

// tagsUpdateCmd renames a tag.
var tagsUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Rename a tag",
	Args:  cobra.NoArgs,
	RunE:  runTagsUpdate,
}

// tagsListCmd lists tags.
var tagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags",
	Args:  cobra.NoArgs,
	RunE:  runTagsList,
}

func init() {
	tagsCmd.PersistentFlags().StringVar(&tagsFlagWorkspace, "workspace", "", "Workspace name (default from config)")

	tagsAddCmd.Flags().StringVar(&tagsAddFlagName, "name", "", "Tag name")
	_ = tagsAddCmd.MarkFlagRequired("name")

	tagsDeleteCmd.Flags().StringVar(&tagsDeleteFlagName, "name", "", "Name of the tag to delete")
	tagsDeleteCmd.Flags().BoolVar(&tagsDeleteFlagMultiple, "multiple", false, "Allow deleting several tags")
	_ = tagsDeleteCmd.MarkFlagRequired("name")

	tagsUpdateCmd.Flags().StringVar(&tagsUpdateFlagOldName, "old-name", "", "Current tag name")
	tagsUpdateCmd.Flags().StringVar(&tagsUpdateFlagNewName, "new-name", "", "New tag name")
	_ = tagsUpdateCmd.MarkFlagRequired("old-name")
	_ = tagsUpdateCmd.MarkFlagRequired("new-name")

	tagsListCmd.Flags().StringVar(&tagsListFlagName, "name", "", "Only tags with this name")
	tagsListCmd.Flags().StringVar(&tagsListFlagSortBy, "sort-by", "", "Column to sort by, descending")

	_ = tagsCmd.RegisterFlagCompletionFunc("workspace", completeWorkspaces)
	_ = tagsDeleteCmd.RegisterFlagCompletionFunc("name", completeTags)
	_ = tagsUpdateCmd.RegisterFlagCompletionFunc("old-name", completeTags)

	tagsCmd.AddCommand(tagsAddCmd)
	tagsCmd.AddCommand(tagsDeleteCmd)
	tagsCmd.AddCommand(tagsUpdateCmd)
	tagsCmd.AddCommand(tagsListCmd)
	rootCmd.AddCommand(tagsCmd)
}

func loadTags(c context.Context) (*sync.Selection, error) {
	return load(c, sync.Criteria{
		WorkspaceName: workspaceName(tagsFlagWorkspace),
		Tags:          true,
	})
}

func runTagsAdd(cmd *cobra.Command, args []string) error {
	name := validate.SanitizeName(tagsAddFlagName)
	if err := validate.Name(model.KindTag, name); err != nil {
		return err
	}
	if err := ctx.RequireToken(); err != nil {
		return err
	}

	sel, err := loadTags(cmd.Context())
	if err != nil {
		return err
	}
	ws, err := singleWorkspace(sel)
	if err != nil {
		return err
	}

	if existing := filter.TagsByName(filter.TagsByWorkspace(sel.Tags, &ws), name); len(existing) > 0 {
		msg := fmt.Sprintf("tag %q already exists in workspace %q", name, ws.Name)
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(output.ResultResponse{Status: "unchanged", Message: msg})
		}
		ctx.CLIFormatter().Warning(msg)
		return nil
	}

	added, err := ctx.Remote.AddTag(cmd.Context(), model.NewTag(name, ws.ID))
	if err != nil {
		return err
	}
	cacheWrite(cmd.Context(), model.KindTag, func() (int64, error) {
		return ctx.Cache.UpdateTags(cmd.Context(), []model.Tag{added})
	})

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewTagOutput(added, output.NewLookup(sel.Workspaces, nil)))
	}
	ctx.CLIFormatter().Success(fmt.Sprintf("Added tag %s to workspace %s", added.Name, ws.Name))
	return nil
}

func runTagsDelete(cmd *cobra.Command, args []string) error {
	if err := ctx.RequireToken(); err != nil {
		return err
	}
	sel, err := loadTags(cmd.Context())
	if err != nil {
		return err
	}
	ws, err := singleWorkspace(sel)
	if err != nil {
		return err
	}

	tags := filter.TagsByName(filter.TagsByWorkspace(sel.Tags, &ws), tagsDeleteFlagName)
	if len(tags) == 0 {
		return notFound(model.KindTag, tagsDeleteFlagName)
	}
	if err := requireMultiple(model.KindTag, len(tags), tagsDeleteFlagMultiple); err != nil {
		return err
	}

	for _, t := range tags {
		if err := ctx.Remote.DeleteTag(cmd.Context(), t); err != nil {
			return err
		}
		cacheRemove(cmd.Context(), model.KindTag, func() error {
			return ctx.Cache.RemoveTag(cmd.Context(), t)
		})
		if !ctx.IsJSON() {
			ctx.CLIFormatter().Success(fmt.Sprintf("Deleted tag %s from workspace %s", t.Name, ws.Name))
		}
	}
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewTagsResponse(tags, output.NewLookup(sel.Workspaces, nil)))
	}
	return nil
}

func runTagsUpdate(cmd *cobra.Command, args []string) error {
	newName := validate.SanitizeName(tagsUpdateFlagNewName)
	if err := validate.Name(model.KindTag, newName); err != nil {
		return err
	}
	if err := ctx.RequireToken(); err != nil {
		return err
	}

	sel, err := loadTags(cmd.Context())
	if err != nil {
		return err
	}
	ws, err := singleWorkspace(sel)
	if err != nil {
		return err
	}
	tag, err := filter.SingleNamed(model.KindTag, tagsUpdateFlagOldName,
		filter.TagsByName(filter.TagsByWorkspace(sel.Tags, &ws), tagsUpdateFlagOldName))
	if err != nil {
		return err
	}

	updated, err := ctx.Remote.UpdateTag(cmd.Context(), tag.With(model.TagName(newName)))
	if err != nil {
		return err
	}
	cacheWrite(cmd.Context(), model.KindTag, func() (int64, error) {
		return ctx.Cache.UpdateTags(cmd.Context(), []model.Tag{updated})
	})

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewTagOutput(updated, output.NewLookup(sel.Workspaces, nil)))
	}
	ctx.CLIFormatter().Success(fmt.Sprintf("Renamed tag %s to %s in workspace %s", tag.Name, updated.Name, ws.Name))
	return nil
}

func runTagsList(cmd *cobra.Command, args []string) error {
	sel, err := loadTags(cmd.Context())
	if err != nil {
		return err
	}

	tags := filter.TagsByName(sel.Tags, tagsListFlagName)
	if len(tags) == 0 {
		return notFound(model.KindTag, tagsListFlagName)
	}
	tags = model.SortTags(tags)
	lookup := ctx.Lookup()

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewTagsResponse(tags, lookup))
	}

	rows := output.TagRows(tags, lookup)
	if err := sortRows(output.TagHeaders, rows, tagsListFlagSortBy); err != nil {
		return err
	}
	ctx.CLIFormatter().PrintTable(output.TagHeaders, rows)
	return nil
}
