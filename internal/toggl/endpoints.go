package toggl

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/manav03panchal/togglcmder/internal/model"
)

// ===== Users =====

// DownloadUser fetches the account that owns the API token.
func (c *Client) DownloadUser(ctx context.Context) (model.User, error) {
	var w wireUser
	if err := c.do(ctx, "download user", http.MethodGet, "/me", nil, nil, &w); err != nil {
		return model.User{}, err
	}
	return w.toModel()
}

// ResetToken asks Toggl for a new API token and returns it. The old token
// stops working immediately.
func (c *Client) ResetToken(ctx context.Context) (string, error) {
	var token string
	if err := c.do(ctx, "reset token", http.MethodPost, "/reset_token", nil, nil, &token); err != nil {
		return "", err
	}
	return strings.TrimSpace(token), nil
}

// ===== Workspaces =====

// DownloadWorkspaces fetches every workspace visible to the user.
func (c *Client) DownloadWorkspaces(ctx context.Context) ([]model.Workspace, error) {
	var ws []wireWorkspace
	if err := c.do(ctx, "download workspaces", http.MethodGet, "/workspaces", nil, nil, &ws); err != nil {
		return nil, err
	}
	out := make([]model.Workspace, 0, len(ws))
	for _, w := range ws {
		m, err := w.toModel()
		if err != nil {
			return nil, fmt.Errorf("workspace %d: %w", w.ID, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// ===== Projects =====

// DownloadProjects fetches the projects of one workspace.
func (c *Client) DownloadProjects(ctx context.Context, ws model.Workspace) ([]model.Project, error) {
	var ps []wireProject
	path := fmt.Sprintf("/workspaces/%d/projects", ws.ID)
	if err := c.do(ctx, "download projects", http.MethodGet, path, nil, nil, &ps); err != nil {
		return nil, err
	}
	out := make([]model.Project, 0, len(ps))
	for _, p := range ps {
		m, err := p.toModel()
		if err != nil {
			return nil, fmt.Errorf("project %d: %w", p.ID, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// AddProject creates p remotely and returns the stored project.
func (c *Client) AddProject(ctx context.Context, p model.Project) (model.Project, error) {
	return c.sendProject(ctx, "add project", http.MethodPost, "/projects", p)
}

// UpdateProject pushes the name and color of p.
func (c *Client) UpdateProject(ctx context.Context, p model.Project) (model.Project, error) {
	return c.sendProject(ctx, "update project", http.MethodPut, fmt.Sprintf("/projects/%d", p.ID), p)
}

func (c *Client) sendProject(ctx context.Context, op, method, path string, p model.Project) (model.Project, error) {
	var w wireProject
	if err := c.do(ctx, op, method, path, nil, encodeProject(p), &w); err != nil {
		return model.Project{}, err
	}
	return w.toModel()
}

// DeleteProject deletes one project.
func (c *Client) DeleteProject(ctx context.Context, p model.Project) error {
	return c.do(ctx, "delete project", http.MethodDelete, fmt.Sprintf("/projects/%d", p.ID), nil, nil, nil)
}

// DeleteProjects deletes several projects in one request.
func (c *Client) DeleteProjects(ctx context.Context, ps []model.Project) error {
	if len(ps) == 0 {
		return nil
	}
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, strconv.FormatInt(p.ID, 10))
	}
	return c.do(ctx, "delete projects", http.MethodDelete, "/projects/"+strings.Join(ids, ","), nil, nil, nil)
}

// ===== Tags =====

// DownloadTags fetches the tags of one workspace.
func (c *Client) DownloadTags(ctx context.Context, ws model.Workspace) ([]model.Tag, error) {
	var ts []wireTag
	path := fmt.Sprintf("/workspaces/%d/tags", ws.ID)
	if err := c.do(ctx, "download tags", http.MethodGet, path, nil, nil, &ts); err != nil {
		return nil, err
	}
	out := make([]model.Tag, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.toModel())
	}
	return out, nil
}

// AddTag creates t remotely.
func (c *Client) AddTag(ctx context.Context, t model.Tag) (model.Tag, error) {
	return c.sendTag(ctx, "add tag", http.MethodPost, "/tags", t)
}

// UpdateTag renames t remotely.
func (c *Client) UpdateTag(ctx context.Context, t model.Tag) (model.Tag, error) {
	return c.sendTag(ctx, "update tag", http.MethodPut, fmt.Sprintf("/tags/%d", t.ID), t)
}

func (c *Client) sendTag(ctx context.Context, op, method, path string, t model.Tag) (model.Tag, error) {
	var w wireTag
	if err := c.do(ctx, op, method, path, nil, encodeTag(t), &w); err != nil {
		return model.Tag{}, err
	}
	return w.toModel(), nil
}

// DeleteTag deletes t.
func (c *Client) DeleteTag(ctx context.Context, t model.Tag) error {
	return c.do(ctx, "delete tag", http.MethodDelete, fmt.Sprintf("/tags/%d", t.ID), nil, nil, nil)
}

// ===== Time Entries =====

// DownloadTimeEntries fetches entries started in [start, end].
func (c *Client) DownloadTimeEntries(ctx context.Context, start, end time.Time) ([]model.TimeEntry, error) {
	q := url.Values{}
	q.Set("start_date", start.Format(time.RFC3339))
	q.Set("end_date", end.Format(time.RFC3339))

	var es []wireTimeEntry
	if err := c.do(ctx, "download time entries", http.MethodGet, "/time_entries", q, nil, &es); err != nil {
		return nil, err
	}
	now := c.now()
	out := make([]model.TimeEntry, 0, len(es))
	for _, e := range es {
		m, err := e.toModel(now)
		if err != nil {
			return nil, fmt.Errorf("time entry %d: %w", e.ID, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// CurrentTimeEntry returns the running entry, or nil when nothing runs.
func (c *Client) CurrentTimeEntry(ctx context.Context) (*model.TimeEntry, error) {
	var w *wireTimeEntry
	if err := c.do(ctx, "current time entry", http.MethodGet, "/time_entries/current", nil, nil, &w); err != nil {
		return nil, err
	}
	if w == nil {
		return nil, nil
	}
	e, err := w.toModel(c.now())
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// StartTimeEntry starts a running entry on the server clock.
func (c *Client) StartTimeEntry(ctx context.Context, e model.TimeEntry) (model.TimeEntry, error) {
	return c.sendEntry(ctx, "start time entry", http.MethodPost, "/time_entries/start", e)
}

// AddCompletedTimeEntry creates an entry that already has a stop time or
// duration.
func (c *Client) AddCompletedTimeEntry(ctx context.Context, e model.TimeEntry) (model.TimeEntry, error) {
	return c.sendEntry(ctx, "add time entry", http.MethodPost, "/time_entries", e)
}

// UpdateCompletedTimeEntry pushes every field of e.
func (c *Client) UpdateCompletedTimeEntry(ctx context.Context, e model.TimeEntry) (model.TimeEntry, error) {
	return c.sendEntry(ctx, "update time entry", http.MethodPut, fmt.Sprintf("/time_entries/%d", e.ID), e)
}

// StopTimeEntry stops the running entry e.
func (c *Client) StopTimeEntry(ctx context.Context, e model.TimeEntry) (model.TimeEntry, error) {
	var w wireTimeEntry
	path := fmt.Sprintf("/time_entries/%d/stop", e.ID)
	if err := c.do(ctx, "stop time entry", http.MethodPut, path, nil, nil, &w); err != nil {
		return model.TimeEntry{}, err
	}
	return w.toModel(c.now())
}

func (c *Client) sendEntry(ctx context.Context, op, method, path string, e model.TimeEntry) (model.TimeEntry, error) {
	var w wireTimeEntry
	if err := c.do(ctx, op, method, path, nil, encodeTimeEntry(e), &w); err != nil {
		return model.TimeEntry{}, err
	}
	return w.toModel(c.now())
}

// DeleteTimeEntry deletes e.
func (c *Client) DeleteTimeEntry(ctx context.Context, e model.TimeEntry) error {
	return c.do(ctx, "delete time entry", http.MethodDelete, fmt.Sprintf("/time_entries/%d", e.ID), nil, nil, nil)
}
