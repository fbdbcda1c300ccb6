package sync

import (
	"context"

	"github.com/manav03panchal/togglcmder/internal/filter"
	"github.com/manav03panchal/togglcmder/internal/logging"
	"github.com/manav03panchal/togglcmder/internal/model"
)

// Criteria says what a command group needs loaded.
type Criteria struct {
	// WorkspaceName narrows the workspaces when set.
	WorkspaceName string
	// ProjectName narrows the projects when set. Time entries are then
	// limited to the matching projects.
	ProjectName string
	Window      Window

	Projects    bool
	Tags        bool
	TimeEntries bool
}

// Selection is everything loaded for one invocation.
type Selection struct {
	Workspaces  []model.Workspace
	Projects    []model.Project
	Tags        []model.Tag
	TimeEntries []model.TimeEntry

	// Workspace and Project are set when the names matched exactly one.
	Workspace *model.Workspace
	Project   *model.Project
}

// Select loads workspaces, then projects, tags and time entries for each
// selected workspace, as c asks.
func (s *Syncer) Select(ctx context.Context, c Criteria) (*Selection, error) {
	sel := &Selection{
		Workspaces:  []model.Workspace{},
		Projects:    []model.Project{},
		Tags:        []model.Tag{},
		TimeEntries: []model.TimeEntry{},
	}

	ws, err := s.Workspaces(ctx)
	if err != nil {
		return nil, err
	}
	if c.WorkspaceName != "" {
		ws = filter.Logged(s.logger, model.KindWorkspace, c.WorkspaceName, filter.WorkspacesByName(ws, c.WorkspaceName))
		if len(ws) == 1 {
			sel.Workspace = &ws[0]
		}
	}
	sel.Workspaces = append(sel.Workspaces, ws...)

	if c.Projects || c.TimeEntries {
		for _, w := range sel.Workspaces {
			ps, err := s.Projects(ctx, w)
			if err != nil {
				return nil, err
			}
			sel.Projects = append(sel.Projects, ps...)
		}
		if c.ProjectName != "" {
			sel.Projects = filter.Logged(s.logger, model.KindProject, c.ProjectName, filter.ProjectsByName(sel.Projects, c.ProjectName))
			if len(sel.Projects) == 1 {
				sel.Project = &sel.Projects[0]
			}
		}
	}

	if c.Tags || c.TimeEntries {
		for _, w := range sel.Workspaces {
			tags, err := s.Tags(ctx, w)
			if err != nil {
				return nil, err
			}
			sel.Tags = append(sel.Tags, tags...)
		}
	}

	if c.TimeEntries && len(sel.Workspaces) > 0 {
		es, err := s.timeEntries(ctx, c.Window)
		if err != nil {
			return nil, err
		}
		for _, w := range sel.Workspaces {
			if c.ProjectName == "" {
				sel.TimeEntries = append(sel.TimeEntries, narrowEntries(es, w, c.Window, nil)...)
				continue
			}
			for i := range sel.Projects {
				p := &sel.Projects[i]
				if p.WorkspaceID == w.ID {
					sel.TimeEntries = append(sel.TimeEntries, narrowEntries(es, w, c.Window, p)...)
				}
			}
		}
	}

	s.logger.DebugContext(ctx, "selection loaded",
		"workspaces", len(sel.Workspaces),
		"projects", len(sel.Projects),
		"tags", len(sel.Tags),
		"time_entries", len(sel.TimeEntries),
		logging.KeyOperation, "select",
	)
	return sel, nil
}
