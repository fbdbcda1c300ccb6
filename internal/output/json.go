package output

import (
	"time"

	"github.com/manav03panchal/togglcmder/internal/logging"
	"github.com/manav03panchal/togglcmder/internal/model"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// ResultResponse reports the outcome of a command without a payload.
type ResultResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status     string `json:"status"`
	Error      string `json:"error"`
	Category   string `json:"category,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// WorkspaceOutput represents a workspace in JSON output.
type WorkspaceOutput struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	LastUpdated string `json:"last_updated,omitempty"`
}

// NewWorkspaceOutput creates a WorkspaceOutput from a Workspace.
func NewWorkspaceOutput(w model.Workspace) WorkspaceOutput {
	return WorkspaceOutput{ID: w.ID, Name: w.Name, LastUpdated: FormatTimestamp(w.LastUpdated)}
}

// ProjectOutput represents a project in JSON output.
type ProjectOutput struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	WorkspaceID int64  `json:"workspace_id"`
	Workspace   string `json:"workspace"`
	Color       string `json:"color,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`
	Created     string `json:"created,omitempty"`
}

// NewProjectOutput creates a ProjectOutput from a Project.
func NewProjectOutput(p model.Project, l Lookup) ProjectOutput {
	out := ProjectOutput{
		ID:          p.ID,
		Name:        p.Name,
		WorkspaceID: p.WorkspaceID,
		Workspace:   l.Workspace(p.WorkspaceID),
		LastUpdated: FormatTimestamp(p.LastUpdated),
	}
	if p.Color != model.ColorNone {
		out.Color = p.Color.String()
	}
	if p.Created != nil {
		out.Created = FormatTimestamp(*p.Created)
	}
	return out
}

// TagOutput represents a tag in JSON output.
type TagOutput struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	WorkspaceID int64  `json:"workspace_id"`
	Workspace   string `json:"workspace"`
}

// NewTagOutput creates a TagOutput from a Tag.
func NewTagOutput(t model.Tag, l Lookup) TagOutput {
	return TagOutput{ID: t.ID, Name: t.Name, WorkspaceID: t.WorkspaceID, Workspace: l.Workspace(t.WorkspaceID)}
}

// TimeEntryOutput represents a time entry in JSON output.
type TimeEntryOutput struct {
	ID              int64    `json:"id"`
	Description     string   `json:"description"`
	WorkspaceID     int64    `json:"workspace_id"`
	Workspace       string   `json:"workspace"`
	ProjectID       *int64   `json:"project_id,omitempty"`
	Project         string   `json:"project,omitempty"`
	Start           string   `json:"start"`
	Stop            string   `json:"stop,omitempty"`
	DurationSeconds int64    `json:"duration_seconds"`
	Running         bool     `json:"running"`
	Tags            []string `json:"tags"`
	LastUpdated     string   `json:"last_updated,omitempty"`
}

// NewTimeEntryOutput creates a TimeEntryOutput. Running entries report the
// time elapsed at now.
func NewTimeEntryOutput(e model.TimeEntry, l Lookup, now time.Time) TimeEntryOutput {
	out := TimeEntryOutput{
		ID:              e.ID,
		Description:     e.Description,
		WorkspaceID:     e.WorkspaceID,
		Workspace:       l.Workspace(e.WorkspaceID),
		ProjectID:       e.ProjectID,
		Project:         l.Project(e.ProjectID),
		Start:           FormatTimestamp(e.Start),
		DurationSeconds: int64(e.Elapsed(now).Seconds()),
		Running:         e.IsRunning(),
		Tags:            e.Tags,
		LastUpdated:     FormatTimestamp(e.LastUpdated),
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if e.Stop != nil {
		out.Stop = FormatTimestamp(*e.Stop)
	}
	return out
}

// UserOutput represents the account in JSON output. The token is masked.
type UserOutput struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	APIToken    string `json:"api_token"`
	LastUpdated string `json:"last_updated,omitempty"`
}

// NewUserOutput creates a UserOutput from a User.
func NewUserOutput(u model.User) UserOutput {
	return UserOutput{
		ID:          u.ID,
		Name:        u.Name,
		APIToken:    logging.MaskPartial(u.APIToken, 4),
		LastUpdated: FormatTimestamp(u.LastUpdated),
	}
}

// WorkspacesResponse lists workspaces.
type WorkspacesResponse struct {
	Workspaces []WorkspaceOutput `json:"workspaces"`
	Count      int               `json:"count"`
}

// NewWorkspacesResponse creates a WorkspacesResponse.
func NewWorkspacesResponse(ws []model.Workspace) WorkspacesResponse {
	out := make([]WorkspaceOutput, 0, len(ws))
	for _, w := range ws {
		out = append(out, NewWorkspaceOutput(w))
	}
	return WorkspacesResponse{Workspaces: out, Count: len(out)}
}

// ProjectsResponse lists projects.
type ProjectsResponse struct {
	Projects []ProjectOutput `json:"projects"`
	Count    int             `json:"count"`
}

// NewProjectsResponse creates a ProjectsResponse.
func NewProjectsResponse(ps []model.Project, l Lookup) ProjectsResponse {
	out := make([]ProjectOutput, 0, len(ps))
	for _, p := range ps {
		out = append(out, NewProjectOutput(p, l))
	}
	return ProjectsResponse{Projects: out, Count: len(out)}
}

// TagsResponse lists tags.
type TagsResponse struct {
	Tags  []TagOutput `json:"tags"`
	Count int         `json:"count"`
}

// NewTagsResponse creates a TagsResponse.
func NewTagsResponse(tags []model.Tag, l Lookup) TagsResponse {
	out := make([]TagOutput, 0, len(tags))
	for _, t := range tags {
		out = append(out, NewTagOutput(t, l))
	}
	return TagsResponse{Tags: out, Count: len(out)}
}

// TimeEntriesResponse lists time entries.
type TimeEntriesResponse struct {
	TimeEntries          []TimeEntryOutput `json:"time_entries"`
	Count                int               `json:"count"`
	TotalDurationSeconds int64             `json:"total_duration_seconds"`
}

// NewTimeEntriesResponse creates a TimeEntriesResponse.
func NewTimeEntriesResponse(es []model.TimeEntry, l Lookup, now time.Time) TimeEntriesResponse {
	out := make([]TimeEntryOutput, 0, len(es))
	var total int64
	for _, e := range es {
		o := NewTimeEntryOutput(e, l, now)
		total += o.DurationSeconds
		out = append(out, o)
	}
	return TimeEntriesResponse{TimeEntries: out, Count: len(out), TotalDurationSeconds: total}
}

// CurrentResponse reports the running entry, if any.
type CurrentResponse struct {
	Running   bool             `json:"running"`
	TimeEntry *TimeEntryOutput `json:"time_entry,omitempty"`
}

// SyncRecordOutput is one row of sync status.
type SyncRecordOutput struct {
	Kind  string `json:"kind"`
	At    string `json:"at"`
	Count int    `json:"count"`
}

// SyncStatusResponse reports cache contents and last syncs.
type SyncStatusResponse struct {
	CachePath string             `json:"cache_path"`
	Counts    map[string]int64   `json:"counts"`
	Syncs     []SyncRecordOutput `json:"syncs"`
}
