package model

import (
	"slices"
	"time"
)

// Workspace is the top-level container for projects, tags and time entries.
type Workspace struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	LastUpdated time.Time `json:"last_updated"`
}

// NewWorkspace creates a workspace.
func NewWorkspace(id int64, name string, lastUpdated time.Time) Workspace {
	return Workspace{ID: id, Name: name, LastUpdated: lastUpdated}
}

// Equal reports whether every field of w and o matches.
func (w Workspace) Equal(o Workspace) bool {
	return w.ID == o.ID && w.Name == o.Name && w.LastUpdated.Equal(o.LastUpdated)
}

// Less orders workspaces by case-insensitive name.
func (w Workspace) Less(o Workspace) bool {
	return lessName(w.Name, o.Name)
}

// WorkspaceOption overrides a field on a workspace copy.
type WorkspaceOption func(*Workspace)

// With returns a copy of w with opts applied.
func (w Workspace) With(opts ...WorkspaceOption) Workspace {
	for _, opt := range opts {
		opt(&w)
	}
	return w
}

// WorkspaceName sets the name.
func WorkspaceName(name string) WorkspaceOption {
	return func(w *Workspace) { w.Name = name }
}

// SortWorkspaces returns a copy of ws sorted by name.
func SortWorkspaces(ws []Workspace) []Workspace {
	out := slices.Clone(ws)
	slices.SortStableFunc(out, func(a, b Workspace) int { return compareLess(a.Less(b), b.Less(a)) })
	return out
}

func compareLess(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	}
	return 0
}
