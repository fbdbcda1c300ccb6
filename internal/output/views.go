package output

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/manav03panchal/togglcmder/internal/logging"
	"github.com/manav03panchal/togglcmder/internal/model"
	"github.com/manav03panchal/togglcmder/internal/parser"
)

// Lookup resolves workspace and project names for display.
type Lookup struct {
	workspaces map[int64]string
	projects   map[int64]string
}

// NewLookup indexes ws and ps by id.
func NewLookup(ws []model.Workspace, ps []model.Project) Lookup {
	l := Lookup{workspaces: map[int64]string{}, projects: map[int64]string{}}
	for _, w := range ws {
		l.workspaces[w.ID] = w.Name
	}
	for _, p := range ps {
		l.projects[p.ID] = p.Name
	}
	return l
}

// Workspace returns the name of workspace id, or the id itself when unknown.
func (l Lookup) Workspace(id int64) string {
	if name, ok := l.workspaces[id]; ok {
		return name
	}
	return strconv.FormatInt(id, 10)
}

// Project returns the name of project id; empty for no project.
func (l Lookup) Project(id *int64) string {
	if id == nil {
		return ""
	}
	if name, ok := l.projects[*id]; ok {
		return name
	}
	return strconv.FormatInt(*id, 10)
}

func id(n int64) string {
	return strconv.FormatInt(n, 10)
}

// ===== Headers =====

var (
	WorkspaceHeaders = []string{"ID", "Name", "Last Updated"}
	ProjectHeaders   = []string{"ID", "Name", "Workspace", "Color", "Last Updated"}
	TagHeaders       = []string{"ID", "Name", "Workspace"}
	TimeEntryHeaders = []string{"ID", "Description", "Project", "Workspace", "Start", "Duration", "Tags", "Last Updated"}
	SyncHeaders      = []string{"Kind", "Last Sync", "Count"}
)

// ===== Rows =====

// WorkspaceRows builds table rows for ws.
func WorkspaceRows(ws []model.Workspace) []TableRow {
	rows := make([]TableRow, 0, len(ws))
	for _, w := range ws {
		rows = append(rows, TableRow{Columns: []string{id(w.ID), w.Name, FormatTime(w.LastUpdated)}})
	}
	return rows
}

// ProjectRows builds table rows for ps.
func ProjectRows(ps []model.Project, l Lookup) []TableRow {
	rows := make([]TableRow, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, TableRow{Columns: []string{
			id(p.ID), p.Name, l.Workspace(p.WorkspaceID), p.Color.String(), FormatTime(p.LastUpdated),
		}})
	}
	return rows
}

// TagRows builds table rows for tags.
func TagRows(tags []model.Tag, l Lookup) []TableRow {
	rows := make([]TableRow, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, TableRow{Columns: []string{id(t.ID), t.Name, l.Workspace(t.WorkspaceID)}})
	}
	return rows
}

// TimeEntryRows builds table rows for es. Running entries show the time
// elapsed at now.
func TimeEntryRows(es []model.TimeEntry, l Lookup, now time.Time) []TableRow {
	rows := make([]TableRow, 0, len(es))
	for _, e := range es {
		rows = append(rows, TableRow{Columns: []string{
			id(e.ID),
			e.Description,
			l.Project(e.ProjectID),
			l.Workspace(e.WorkspaceID),
			FormatTime(e.Start),
			parser.FormatDuration(e.Elapsed(now)),
			strings.Join(e.Tags, ","),
			FormatTime(e.LastUpdated),
		}})
	}
	return rows
}

// SortRows orders rows by the column named header, descending. Unknown
// headers leave rows as they are and return false. Durations sort
// numerically.
func SortRows(headers []string, rows []TableRow, header string) bool {
	col := slices.IndexFunc(headers, func(h string) bool { return strings.EqualFold(h, header) })
	if col < 0 {
		return false
	}
	slices.SortStableFunc(rows, func(a, b TableRow) int {
		return compareCells(b.Columns[col], a.Columns[col])
	})
	return true
}

func compareCells(a, b string) int {
	if da, ok := clockSeconds(a); ok {
		if db, ok := clockSeconds(b); ok {
			switch {
			case da < db:
				return -1
			case da > db:
				return 1
			}
			return 0
		}
	}
	if ia, err := strconv.ParseInt(a, 10, 64); err == nil {
		if ib, err := strconv.ParseInt(b, 10, 64); err == nil {
			switch {
			case ia < ib:
				return -1
			case ia > ib:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(a, b)
}

// clockSeconds parses h:mm:ss.
func clockSeconds(s string) (int64, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	var total int64
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return 0, false
		}
		total = total*60 + n
	}
	return total, true
}

// ===== CLI views =====

// PrintWorkspaces prints a workspace table.
func (c *CLIFormatter) PrintWorkspaces(ws []model.Workspace) {
	c.PrintTable(WorkspaceHeaders, WorkspaceRows(ws))
}

// PrintProjects prints a project table.
func (c *CLIFormatter) PrintProjects(ps []model.Project, l Lookup) {
	c.PrintTable(ProjectHeaders, ProjectRows(ps, l))
}

// PrintTags prints a tag table.
func (c *CLIFormatter) PrintTags(tags []model.Tag, l Lookup) {
	c.PrintTable(TagHeaders, TagRows(tags, l))
}

// PrintTimeEntry prints one entry as a detail block.
func (c *CLIFormatter) PrintTimeEntry(e model.TimeEntry, l Lookup, now time.Time) {
	desc := e.Description
	if desc == "" {
		desc = "(no description)"
	}
	c.Title(desc)
	if p := l.Project(e.ProjectID); p != "" {
		c.Printf("  Project: %s\n", p)
	}
	c.Printf("  Workspace: %s\n", l.Workspace(e.WorkspaceID))
	c.Printf("  Started: %s\n", FormatTime(e.Start))
	if e.Stop != nil {
		c.Printf("  Stopped: %s\n", FormatTime(*e.Stop))
	}
	c.Printf("  Duration: %s\n", c.Duration(FormatDuration(e.Elapsed(now))))
	if len(e.Tags) > 0 {
		c.Printf("  Tags: %s\n", strings.Join(e.Tags, ", "))
	}
}

// PrintUser prints the account with its token masked.
func (c *CLIFormatter) PrintUser(u model.User) {
	c.Title(u.Name)
	c.Printf("  ID: %d\n", u.ID)
	c.Printf("  API token: %s\n", logging.MaskPartial(u.APIToken, 4))
	if !u.LastUpdated.IsZero() {
		c.Printf("  Last updated: %s\n", FormatTime(u.LastUpdated))
	}
}
