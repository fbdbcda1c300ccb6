package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/manav03panchal/togglcmder/internal/errors"
	"github.com/manav03panchal/togglcmder/internal/filter"
	"github.com/manav03panchal/togglcmder/internal/model"
	"github.com/manav03panchal/togglcmder/internal/output"
	"github.com/manav03panchal/togglcmder/internal/parser"
	"github.com/manav03panchal/togglcmder/internal/sync"
	"github.com/manav03panchal/togglcmder/internal/validate"
)

// timersCmd represents the timers command.
var timersCmd = &cobra.Command{
	Use:     "timers",
	Aliases: []string{"timer", "entries"},
	Short:   "Add, update, delete, start, stop and list time entries",
	Long: `Add, update, delete, start, stop and list time entries.

Time entries are loaded for a window ending now and starting
default_time_entry_window_start_days ago, unless --download-start and
--download-stop say otherwise. Times accept now, now-2d, now+30m, ISO-8601
timestamps and phrases like "yesterday at 3pm".

Examples:
  togglcmder timers --project Website start --description "Fix login" --tags billable
  togglcmder timers stop
  togglcmder timers add --description Review --start-time now-2h --duration 45m
  togglcmder timers update --old-description Review --new-project Website
  togglcmder timers --download-start now-30d list --sort-by Duration`,
}

// Timer flags.
var (
	timersFlagWorkspace     string
	timersFlagProject       string
	timersFlagDownloadStart string
	timersFlagDownloadStop  string

	timersAddFlagDescription string
	timersAddFlagStartTime   string
	timersAddFlagStopTime    string
	timersAddFlagDuration    string
	timersAddFlagTags        []string

	timersDeleteFlagDescription string
	timersDeleteFlagTags        []string
	timersDeleteFlagMultiple    bool

	timersUpdateFlagOldDescription string
	timersUpdateFlagOldTags        []string
	timersUpdateFlagNewDescription string
	timersUpdateFlagNewProject     string
	timersUpdateFlagAddTags        []string
	timersUpdateFlagRemoveTags     []string
	timersUpdateFlagNewStartTime   string
	timersUpdateFlagNewDuration    string
	timersUpdateFlagNewStopTime    string
	timersUpdateFlagMultiple       bool

	timersStartFlagDescription string
	timersStartFlagTags        []string

	timersListFlagDescription string
	timersListFlagSortBy      string
)

// timersAddCmd adds a completed time entry.
var timersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a completed time entry",
	Long: `Add a completed time entry. A stop time or a duration is required; with a
duration the stop time is computed from the start.`,
	Args: cobra.NoArgs,
	RunE: runTimersAdd,
}

// timersDeleteCmd deletes time entries.
var timersDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete time entries by description or tags",
	Args:  cobra.NoArgs,
	RunE:  runTimersDelete,
}

// timersUpdateCmd changes time entries.
var timersUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update time entries with new details",
	Args:  cobra.NoArgs,
	RunE:  runTimersUpdate,
}

// timersStartCmd starts a running entry.
var timersStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a running time entry",
	Long: `Start a running time entry now, in the selected workspace and project.
Tags must already exist in the workspace.`,
	Args: cobra.NoArgs,
	RunE: runTimersStart,
}

// timersStopCmd stops the running entry.
var timersStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running time entry",
	Args:  cobra.NoArgs,
	RunE:  runTimersStop,
}

// timersCurrentCmd shows the running entry.
var timersCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the running time entry",
	Args:  cobra.NoArgs,
	RunE:  runTimersCurrent,
}

// timersResumeCmd restarts the latest entry.
var timersResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume the most recent time entry",
	Long: `Start a new running entry copying the description, project and tags of the
most recently updated entry.`,
	Args: cobra.NoArgs,
	RunE: runTimersResume,
}

// timersListCmd lists time entries.
var timersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List time entries, one row per description",
	Args:  cobra.NoArgs,
	RunE:  runTimersList,
}

func init() {
	timersCmd.PersistentFlags().StringVar(&timersFlagWorkspace, "workspace", "", "Workspace name (default from config)")
	timersCmd.PersistentFlags().StringVar(&timersFlagProject, "project", "", "Project name (default from config)")
	timersCmd.PersistentFlags().StringVar(&timersFlagDownloadStart, "download-start", "", "Start of the loading window")
	timersCmd.PersistentFlags().StringVar(&timersFlagDownloadStop, "download-stop", "", "End of the loading window")

	// Add flags
	timersAddCmd.Flags().StringVar(&timersAddFlagDescription, "description", "", "Entry description")
	timersAddCmd.Flags().StringVar(&timersAddFlagStartTime, "start-time", "", "Start time")
	timersAddCmd.Flags().StringVar(&timersAddFlagStopTime, "stop-time", "", "Stop time")
	timersAddCmd.Flags().StringVar(&timersAddFlagDuration, "duration", "", "Duration, e.g. 45m, 1h30m or seconds")
	timersAddCmd.Flags().StringSliceVar(&timersAddFlagTags, "tags", nil, "Comma-separated tag names")
	_ = timersAddCmd.MarkFlagRequired("start-time")

	// Delete flags
	timersDeleteCmd.Flags().StringVar(&timersDeleteFlagDescription, "description", "", "Description of the entries to delete")
	timersDeleteCmd.Flags().StringSliceVar(&timersDeleteFlagTags, "tags", nil, "Delete entries carrying any of these tags")
	timersDeleteCmd.Flags().BoolVar(&timersDeleteFlagMultiple, "multiple", false, "Allow deleting several entries")

	// Update flags
	timersUpdateCmd.Flags().StringVar(&timersUpdateFlagOldDescription, "old-description", "", "Description of the entries to update")
	timersUpdateCmd.Flags().StringSliceVar(&timersUpdateFlagOldTags, "old-tags", nil, "Update entries carrying any of these tags")
	timersUpdateCmd.Flags().StringVar(&timersUpdateFlagNewDescription, "new-description", "", "New description")
	timersUpdateCmd.Flags().StringVar(&timersUpdateFlagNewProject, "new-project", "", "Move the entries to this project")
	timersUpdateCmd.Flags().StringSliceVar(&timersUpdateFlagAddTags, "add-tags", nil, "Tags to add")
	timersUpdateCmd.Flags().StringSliceVar(&timersUpdateFlagRemoveTags, "remove-tags", nil, "Tags to remove")
	timersUpdateCmd.Flags().StringVar(&timersUpdateFlagNewStartTime, "new-start-time", "", "New start time")
	timersUpdateCmd.Flags().StringVar(&timersUpdateFlagNewDuration, "new-duration", "", "New duration")
	timersUpdateCmd.Flags().StringVar(&timersUpdateFlagNewStopTime, "new-stop-time", "", "New stop time")
	timersUpdateCmd.Flags().BoolVar(&timersUpdateFlagMultiple, "multiple", false, "Allow updating several entries")

	// Start flags
	timersStartCmd.Flags().StringVar(&timersStartFlagDescription, "description", "", "Entry description")
	timersStartCmd.Flags().StringSliceVar(&timersStartFlagTags, "tags", nil, "Comma-separated tag names")

	// List flags
	timersListCmd.Flags().StringVar(&timersListFlagDescription, "description", "", "Only entries with this description")
	timersListCmd.Flags().StringVar(&timersListFlagSortBy, "sort-by", "Last Updated", "Column to sort by, descending")

	_ = timersCmd.RegisterFlagCompletionFunc("workspace", completeWorkspaces)
	_ = timersCmd.RegisterFlagCompletionFunc("project", completeProjects)
	_ = timersUpdateCmd.RegisterFlagCompletionFunc("new-project", completeProjects)
	for _, c := range []*cobra.Command{timersAddCmd, timersDeleteCmd, timersStartCmd} {
		_ = c.RegisterFlagCompletionFunc("tags", completeTags)
	}
	for _, f := range []string{"old-tags", "add-tags", "remove-tags"} {
		_ = timersUpdateCmd.RegisterFlagCompletionFunc(f, completeTags)
	}

	timersCmd.AddCommand(timersAddCmd)
	timersCmd.AddCommand(timersDeleteCmd)
	timersCmd.AddCommand(timersUpdateCmd)
	timersCmd.AddCommand(timersStartCmd)
	timersCmd.AddCommand(timersStopCmd)
	timersCmd.AddCommand(timersCurrentCmd)
	timersCmd.AddCommand(timersResumeCmd)
	timersCmd.AddCommand(timersListCmd)
	rootCmd.AddCommand(timersCmd)
}

// ===== Loading =====

// timersWindow is the configured window, overridden by the download flags.
func timersWindow() (sync.Window, error) {
	r, err := parser.ParseRange(timersFlagDownloadStart, timersFlagDownloadStop, ctx.Now())
	if err != nil {
		return sync.Window{}, parseError("download-range", err)
	}
	w := ctx.DefaultWindow()
	if !r.Start.IsZero() {
		w.Start = r.Start
	}
	if !r.End.IsZero() {
		w.End = r.End
	}
	if !w.End.After(w.Start) {
		return sync.Window{}, parser.NewDateRangeError(timersFlagDownloadStart + " .. " + timersFlagDownloadStop).ToUserError()
	}
	return w, nil
}

func loadTimers(c context.Context) (*sync.Selection, error) {
	w, err := timersWindow()
	if err != nil {
		return nil, err
	}
	return load(c, sync.Criteria{
		WorkspaceName: workspaceName(timersFlagWorkspace),
		ProjectName:   projectName(timersFlagProject),
		Window:        w,
		Projects:      true,
		Tags:          true,
		TimeEntries:   true,
	})
}

// parseTimeFlag parses a time expression relative to now.
func parseTimeFlag(flag, value string) (time.Time, error) {
	t, err := parser.ParseTime(value, ctx.Now())
	if err != nil {
		return time.Time{}, parseError(flag, err)
	}
	return t, nil
}

// parseDurationFlag parses a duration expression.
func parseDurationFlag(flag, value string) (time.Duration, error) {
	d, err := parser.ParseDuration(value)
	if err != nil {
		return 0, parseError(flag, err)
	}
	return d, nil
}

func parseError(flag string, err error) error {
	var pe *parser.TimeParseError
	if errors.As(err, &pe) {
		ue := pe.ToUserError()
		ue.Field = flag
		return ue
	}
	return err
}

// tagFlag flattens and validates a tag list flag.
func tagFlag(values []string) ([]string, error) {
	tags := validate.SplitTags(values)
	if err := validate.Tags(tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// knownTags resolves names against the tags of ws.
func knownTags(sel *sync.Selection, ws model.Workspace, names []string) ([]string, error) {
	tags := filter.TagsByNames(filter.TagsByWorkspace(sel.Tags, &ws), names)
	if len(tags) == 0 {
		return nil, notFound(model.KindTag, strings.Join(names, ","))
	}
	return model.TagNames(tags), nil
}

// schedule applies new start, stop or duration values to e. A stop time
// recomputes the duration; a duration recomputes the stop time; a new start
// alone shifts a completed entry keeping its duration.
func schedule(e model.TimeEntry, start, stop *time.Time, d time.Duration) (model.TimeEntry, error) {
	if start != nil {
		e = e.With(model.EntryStart(*start))
	}
	switch {
	case stop != nil:
		if !stop.After(e.Start) {
			return e, &apperrors.UserError{
				Message:    "Stop time must be after the start time",
				Field:      "stop-time",
				Suggestion: apperrors.Suggestions[apperrors.ErrEndBeforeStart],
				Cause:      apperrors.ErrEndBeforeStart,
			}
		}
		e = e.With(model.EntryStop(*stop), model.EntryDuration(int64(stop.Sub(e.Start).Seconds())))
	case d > 0:
		e = e.With(model.EntryDuration(int64(d.Seconds())), model.EntryStop(e.Start.Add(d)))
	case start != nil && !e.IsRunning():
		e = e.With(model.EntryStop(e.Start.Add(time.Duration(e.Duration) * time.Second)))
	}
	return e, nil
}

// ===== Commands =====

func runTimersAdd(cmd *cobra.Command, args []string) error {
	desc := validate.SanitizeDescription(timersAddFlagDescription)
	if err := validate.Description(desc); err != nil {
		return err
	}
	tags, err := tagFlag(timersAddFlagTags)
	if err != nil {
		return err
	}
	if timersAddFlagStopTime == "" && timersAddFlagDuration == "" {
		return apperrors.NewUserError("A completed entry needs an end",
			"Pass --stop-time or --duration, or use 'togglcmder timers start'")
	}
	if err := validate.StopOrDuration(timersAddFlagStopTime, timersAddFlagDuration); err != nil {
		return err
	}
	start, err := parseTimeFlag("start-time", timersAddFlagStartTime)
	if err != nil {
		return err
	}
	var (
		stop *time.Time
		d    time.Duration
	)
	if timersAddFlagStopTime != "" {
		t, err := parseTimeFlag("stop-time", timersAddFlagStopTime)
		if err != nil {
			return err
		}
		stop = &t
	} else if d, err = parseDurationFlag("duration", timersAddFlagDuration); err != nil {
		return err
	}
	if err := ctx.RequireToken(); err != nil {
		return err
	}

	sel, err := loadTimers(cmd.Context())
	if err != nil {
		return err
	}
	ws, err := singleWorkspace(sel)
	if err != nil {
		return err
	}
	if desc != "" && len(filter.EntriesByDescription(filter.EntriesByWorkspace(sel.TimeEntries, &ws), desc)) > 0 {
		return &apperrors.UserError{
			Message:    fmt.Sprintf("A time entry described %q already exists", desc),
			Field:      "description",
			Suggestion: apperrors.Suggestions[apperrors.ErrDuplicateEntry],
			Cause:      apperrors.ErrDuplicateEntry,
		}
	}

	entry := model.NewTimeEntry(desc, ws.ID, start, tags)
	if sel.Project != nil {
		entry = entry.With(model.EntryProject(sel.Project.ID))
	}
	entry, err = schedule(entry, nil, stop, d)
	if err != nil {
		return err
	}

	added, err := ctx.Remote.AddCompletedTimeEntry(cmd.Context(), entry)
	if err != nil {
		return err
	}
	cacheWrite(cmd.Context(), model.KindTimeEntry, func() (int64, error) {
		return ctx.Cache.UpdateTimeEntries(cmd.Context(), []model.TimeEntry{added})
	})

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewTimeEntryOutput(added, ctx.Lookup(), ctx.Now()))
	}
	ctx.CLIFormatter().Success(fmt.Sprintf("Added time entry to workspace %s", ws.Name))
	return nil
}

// matchEntries narrows the entries of ws by description and any of tags.
func matchEntries(sel *sync.Selection, ws model.Workspace, desc string, tags []string) ([]model.TimeEntry, error) {
	es := filter.EntriesByWorkspace(sel.TimeEntries, &ws)
	if desc != "" {
		es = filter.EntriesByDescription(es, desc)
		if len(es) == 0 {
			return nil, notFound(model.KindTimeEntry, desc)
		}
	}
	if len(tags) > 0 {
		names, err := knownTags(sel, ws, tags)
		if err != nil {
			return nil, err
		}
		es = filter.EntriesWithAnyTags(es, names)
		if len(es) == 0 {
			return nil, notFound(model.KindTimeEntry, "tags "+strings.Join(names, ","))
		}
	}
	return es, nil
}

func runTimersDelete(cmd *cobra.Command, args []string) error {
	tags := validate.SplitTags(timersDeleteFlagTags)
	if timersDeleteFlagDescription == "" && len(tags) == 0 {
		return apperrors.NewUserError("Nothing selects the entries to delete",
			"Pass --description, --tags or both")
	}
	if err := ctx.RequireToken(); err != nil {
		return err
	}

	sel, err := loadTimers(cmd.Context())
	if err != nil {
		return err
	}
	ws, err := singleWorkspace(sel)
	if err != nil {
		return err
	}
	es, err := matchEntries(sel, ws, timersDeleteFlagDescription, tags)
	if err != nil {
		return err
	}
	if err := requireMultiple("time entry", len(es), timersDeleteFlagMultiple); err != nil {
		return err
	}

	for _, e := range es {
		if err := ctx.Remote.DeleteTimeEntry(cmd.Context(), e); err != nil {
			return err
		}
		cacheRemove(cmd.Context(), model.KindTimeEntry, func() error {
			return ctx.Cache.RemoveTimeEntry(cmd.Context(), e)
		})
		if !ctx.IsJSON() {
			ctx.CLIFormatter().Success(fmt.Sprintf("Deleted time entry %s", e.Description))
		}
	}
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewTimeEntriesResponse(es, ctx.Lookup(), ctx.Now()))
	}
	return nil
}

// timerUpdate is the parsed change set of timers update.
type timerUpdate struct {
	opts  []model.TimeEntryOption
	start *time.Time
	stop  *time.Time
	d     time.Duration
	// retag is set when tags are removed; the cache then drops stale links.
	retag bool
}

func (u timerUpdate) apply(e model.TimeEntry) (model.TimeEntry, error) {
	return schedule(e.With(u.opts...), u.start, u.stop, u.d)
}

// parseTimerUpdate turns the update flags into a change set for ws.
func parseTimerUpdate(c context.Context, sel *sync.Selection, ws model.Workspace) (timerUpdate, error) {
	var u timerUpdate

	if timersUpdateFlagNewDescription != "" {
		desc := validate.SanitizeDescription(timersUpdateFlagNewDescription)
		if err := validate.Description(desc); err != nil {
			return u, err
		}
		u.opts = append(u.opts, model.EntryDescription(desc))
	}

	if timersUpdateFlagNewProject != "" {
		candidates := sel.Projects
		if projectName(timersFlagProject) != "" {
			// The selection only holds the projects matching --project.
			all, err := ctx.Syncer.Projects(c, ws)
			if err != nil {
				return u, err
			}
			candidates = all
		}
		p, err := filter.SingleNamed(model.KindProject, timersUpdateFlagNewProject,
			filter.ProjectsByName(filter.ProjectsByWorkspace(candidates, &ws), timersUpdateFlagNewProject))
		if err != nil {
			return u, err
		}
		u.opts = append(u.opts, model.EntryProject(p.ID))
	}

	if add := validate.SplitTags(timersUpdateFlagAddTags); len(add) > 0 {
		names, err := knownTags(sel, ws, add)
		if err != nil {
			return u, err
		}
		u.opts = append(u.opts, model.AddTags(names...))
	}
	if remove := validate.SplitTags(timersUpdateFlagRemoveTags); len(remove) > 0 {
		names, err := knownTags(sel, ws, remove)
		if err != nil {
			return u, err
		}
		u.opts = append(u.opts, model.RemoveTags(names...))
		u.retag = true
	}

	if err := validate.StopOrDuration(timersUpdateFlagNewStopTime, timersUpdateFlagNewDuration); err != nil {
		return u, err
	}
	if timersUpdateFlagNewStartTime != "" {
		t, err := parseTimeFlag("new-start-time", timersUpdateFlagNewStartTime)
		if err != nil {
			return u, err
		}
		u.start = &t
	}
	if timersUpdateFlagNewStopTime != "" {
		t, err := parseTimeFlag("new-stop-time", timersUpdateFlagNewStopTime)
		if err != nil {
			return u, err
		}
		u.stop = &t
	}
	if timersUpdateFlagNewDuration != "" {
		d, err := parseDurationFlag("new-duration", timersUpdateFlagNewDuration)
		if err != nil {
			return u, err
		}
		u.d = d
	}

	if len(u.opts) == 0 && u.start == nil && u.stop == nil && u.d == 0 {
		return u, apperrors.NewUserError("Nothing to change",
			"Pass at least one of the --new-*, --add-tags or --remove-tags flags")
	}
	return u, nil
}

func runTimersUpdate(cmd *cobra.Command, args []string) error {
	oldTags := validate.SplitTags(timersUpdateFlagOldTags)
	if timersUpdateFlagOldDescription == "" && len(oldTags) == 0 {
		return apperrors.NewUserError("Nothing selects the entries to update",
			"Pass --old-description, --old-tags or both")
	}
	if err := ctx.RequireToken(); err != nil {
		return err
	}

	sel, err := loadTimers(cmd.Context())
	if err != nil {
		return err
	}
	ws, err := singleWorkspace(sel)
	if err != nil {
		return err
	}
	es, err := matchEntries(sel, ws, timersUpdateFlagOldDescription, oldTags)
	if err != nil {
		return err
	}
	if err := requireMultiple("time entry", len(es), timersUpdateFlagMultiple); err != nil {
		return err
	}
	change, err := parseTimerUpdate(cmd.Context(), sel, ws)
	if err != nil {
		return err
	}

	pending := make([]model.TimeEntry, 0, len(es))
	for _, e := range es {
		next, err := change.apply(e)
		if err != nil {
			return err
		}
		pending = append(pending, next)
	}

	updated := make([]model.TimeEntry, 0, len(pending))
	for _, e := range pending {
		u, err := ctx.Remote.UpdateCompletedTimeEntry(cmd.Context(), e)
		if err != nil {
			return err
		}
		updated = append(updated, u)
		if !ctx.IsJSON() {
			ctx.CLIFormatter().Success(fmt.Sprintf("Updated time entry %s in workspace %s", u.Description, ws.Name))
		}
	}
	cacheWrite(cmd.Context(), model.KindTimeEntry, func() (int64, error) {
		return ctx.Cache.UpdateTimeEntries(cmd.Context(), updated)
	})
	if change.retag {
		for _, u := range updated {
			cacheWrite(cmd.Context(), model.KindTimeEntry, func() (int64, error) {
				return ctx.Cache.ReplaceTimeEntryTags(cmd.Context(), u)
			})
		}
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewTimeEntriesResponse(updated, ctx.Lookup(), ctx.Now()))
	}
	return nil
}

func runTimersStart(cmd *cobra.Command, args []string) error {
	desc := validate.SanitizeDescription(timersStartFlagDescription)
	if err := validate.Description(desc); err != nil {
		return err
	}
	tags, err := tagFlag(timersStartFlagTags)
	if err != nil {
		return err
	}
	if err := ctx.RequireToken(); err != nil {
		return err
	}

	sel, err := loadTimers(cmd.Context())
	if err != nil {
		return err
	}
	ws, err := singleWorkspace(sel)
	if err != nil {
		return err
	}
	if len(tags) > 0 {
		if tags, err = knownTags(sel, ws, tags); err != nil {
			return err
		}
	}

	entry := model.NewTimeEntry(desc, ws.ID, ctx.Now(), tags)
	if sel.Project != nil {
		entry = entry.With(model.EntryProject(sel.Project.ID))
	}
	started, err := ctx.Remote.StartTimeEntry(cmd.Context(), entry)
	if err != nil {
		return err
	}
	cacheWrite(cmd.Context(), model.KindTimeEntry, func() (int64, error) {
		return ctx.Cache.UpdateTimeEntries(cmd.Context(), []model.TimeEntry{started})
	})

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewTimeEntryOutput(started, ctx.Lookup(), ctx.Now()))
	}
	ctx.CLIFormatter().Success(fmt.Sprintf("Started time entry %s in workspace %s", started.Description, ws.Name))
	return nil
}

// printNothingRunning reports that no entry runs.
func printNothingRunning() error {
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.CurrentResponse{Running: false})
	}
	ctx.CLIFormatter().Muted("No time entry is running.")
	return nil
}

func runTimersStop(cmd *cobra.Command, args []string) error {
	if err := ctx.RequireToken(); err != nil {
		return err
	}
	current, err := ctx.Syncer.Current(cmd.Context())
	if err != nil {
		return err
	}
	if current == nil {
		return printNothingRunning()
	}

	stopped, err := ctx.Remote.StopTimeEntry(cmd.Context(), *current)
	if err != nil {
		return err
	}
	cacheWrite(cmd.Context(), model.KindTimeEntry, func() (int64, error) {
		return ctx.Cache.UpdateTimeEntries(cmd.Context(), []model.TimeEntry{stopped})
	})
	if err := ctx.State.SetLastStopped(stopped.ID, ctx.Now()); err != nil {
		ctx.Logger.WarnContext(cmd.Context(), "failed to remember stopped entry", "error", err)
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewTimeEntryOutput(stopped, ctx.Lookup(), ctx.Now()))
	}
	ctx.CLIFormatter().Success(fmt.Sprintf("Stopped time entry %s after %s",
		stopped.Description, output.FormatDuration(stopped.Elapsed(ctx.Now()))))
	return nil
}

func runTimersCurrent(cmd *cobra.Command, args []string) error {
	if _, err := loadTimers(cmd.Context()); err != nil {
		return err
	}
	if err := ctx.RequireToken(); err != nil {
		return err
	}
	current, err := ctx.Syncer.Current(cmd.Context())
	if err != nil {
		return err
	}
	if current == nil {
		return printNothingRunning()
	}

	if ctx.IsJSON() {
		out := output.NewTimeEntryOutput(*current, ctx.Lookup(), ctx.Now())
		return ctx.Formatter.JSON(output.CurrentResponse{Running: true, TimeEntry: &out})
	}
	ctx.CLIFormatter().PrintTimeEntry(*current, ctx.Lookup(), ctx.Now())
	return nil
}

// latestEntry finds the entry to resume: the most recently updated one
// loaded, or else the one stopped last by this tool.
func latestEntry(c context.Context, sel *sync.Selection) (model.TimeEntry, error) {
	if e, ok := filter.Latest(sel.TimeEntries); ok {
		return e, nil
	}
	id, ok, err := ctx.State.LastStopped()
	if err != nil {
		return model.TimeEntry{}, err
	}
	if ok {
		cached, err := ctx.Cache.TimeEntries(c)
		if err != nil {
			return model.TimeEntry{}, err
		}
		if es := filter.EntriesByID(cached, id); len(es) == 1 {
			return es[0], nil
		}
	}
	return model.TimeEntry{}, notFound(model.KindTimeEntry, "")
}

func runTimersResume(cmd *cobra.Command, args []string) error {
	if err := ctx.RequireToken(); err != nil {
		return err
	}
	sel, err := loadTimers(cmd.Context())
	if err != nil {
		return err
	}
	latest, err := latestEntry(cmd.Context(), sel)
	if err != nil {
		return err
	}

	entry := model.NewTimeEntry(latest.Description, latest.WorkspaceID, ctx.Now(), latest.Tags)
	if latest.ProjectID != nil {
		entry = entry.With(model.EntryProject(*latest.ProjectID))
	}
	started, err := ctx.Remote.StartTimeEntry(cmd.Context(), entry)
	if err != nil {
		return err
	}
	cacheWrite(cmd.Context(), model.KindTimeEntry, func() (int64, error) {
		return ctx.Cache.UpdateTimeEntries(cmd.Context(), []model.TimeEntry{started})
	})
	if err := ctx.State.ClearLastStopped(); err != nil {
		ctx.Logger.WarnContext(cmd.Context(), "failed to clear stopped entry", "error", err)
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewTimeEntryOutput(started, ctx.Lookup(), ctx.Now()))
	}
	ctx.CLIFormatter().Success(fmt.Sprintf("Resumed time entry %s", started.Description))
	return nil
}

func runTimersList(cmd *cobra.Command, args []string) error {
	sel, err := loadTimers(cmd.Context())
	if err != nil {
		return err
	}
	es := filter.EntriesByDescription(sel.TimeEntries, timersListFlagDescription)
	if len(es) == 0 {
		return notFound(model.KindTimeEntry, timersListFlagDescription)
	}
	now := ctx.Now()
	es = filter.Collapse(model.SortTimeEntries(es), now)
	lookup := ctx.Lookup()

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewTimeEntriesResponse(es, lookup, now))
	}

	rows := output.TimeEntryRows(es, lookup, now)
	if err := sortRows(output.TimeEntryHeaders, rows, timersListFlagSortBy); err != nil {
		return err
	}
	ctx.CLIFormatter().PrintTable(output.TimeEntryHeaders, rows)
	return nil
}
