// Package filter narrows lists of cached entities by user criteria.
//
// Every filter is pure. An empty criterion returns the input unchanged, so
// optional filters can be chained without branching. A criterion that matches
// nothing returns an empty, non-nil slice; only Single turns "nothing" or
// "too much" into an error.
package filter

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	apperrors "github.com/manav03panchal/togglcmder/internal/errors"
	"github.com/manav03panchal/togglcmder/internal/model"
)

// where keeps the items for which keep returns true.
func where[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// nameMatches is the name policy shared by all name filters: a
// case-insensitive match of the whole string.
func nameMatches(name, query string) bool {
	return strings.EqualFold(name, query)
}

// Single returns the only item of items. It fails with a not-found error
// for an empty list and an ambiguity error for more than one item.
func Single[T any](kind string, items []T) (T, error) {
	var zero T
	if len(items) != 1 {
		return zero, apperrors.NewResolutionError(kind, "", len(items))
	}
	return items[0], nil
}

// SingleNamed is Single with the user's query recorded in the error.
func SingleNamed[T any](kind, query string, items []T) (T, error) {
	var zero T
	if len(items) != 1 {
		return zero, apperrors.NewResolutionError(kind, query, len(items))
	}
	return items[0], nil
}

// Logged reports an empty result as a warning on logger and returns items.
// A nil logger is allowed.
func Logged[T any](logger *slog.Logger, kind, criterion string, items []T) []T {
	if logger != nil && len(items) == 0 && criterion != "" {
		logger.Warn("no match found", "kind", kind, "criterion", criterion)
	}
	return items
}

// ===== Workspaces =====

// WorkspacesByName keeps workspaces whose name matches name.
func WorkspacesByName(ws []model.Workspace, name string) []model.Workspace {
	if name == "" {
		return ws
	}
	return where(ws, func(w model.Workspace) bool { return nameMatches(w.Name, name) })
}

// WorkspacesByID keeps the workspace with the given identifier.
func WorkspacesByID(ws []model.Workspace, id int64) []model.Workspace {
	if id == 0 {
		return ws
	}
	return where(ws, func(w model.Workspace) bool { return w.ID == id })
}

// ===== Projects =====

// ProjectsByName keeps projects whose name matches name.
func ProjectsByName(ps []model.Project, name string) []model.Project {
	if name == "" {
		return ps
	}
	return where(ps, func(p model.Project) bool { return nameMatches(p.Name, name) })
}

// ProjectsByID keeps the project with the given identifier.
func ProjectsByID(ps []model.Project, id int64) []model.Project {
	if id == 0 {
		return ps
	}
	return where(ps, func(p model.Project) bool { return p.ID == id })
}

// ProjectsByWorkspace keeps projects belonging to w. A nil w keeps all.
func ProjectsByWorkspace(ps []model.Project, w *model.Workspace) []model.Project {
	if w == nil {
		return ps
	}
	return where(ps, func(p model.Project) bool { return p.WorkspaceID == w.ID })
}

// ProjectsByColor keeps projects of color c. ColorNone keeps all.
func ProjectsByColor(ps []model.Project, c model.Color) []model.Project {
	if c == model.ColorNone {
		return ps
	}
	return where(ps, func(p model.Project) bool { return p.Color == c })
}

// ===== Tags =====

// TagsByName keeps tags whose name matches name.
func TagsByName(tags []model.Tag, name string) []model.Tag {
	if name == "" {
		return tags
	}
	return where(tags, func(t model.Tag) bool { return nameMatches(t.Name, name) })
}

// TagsByNames keeps tags whose name matches any of names.
func TagsByNames(tags []model.Tag, names []string) []model.Tag {
	if len(names) == 0 {
		return tags
	}
	return where(tags, func(t model.Tag) bool {
		return slices.ContainsFunc(names, func(n string) bool { return nameMatches(t.Name, n) })
	})
}

// TagsByID keeps the tag with the given identifier.
func TagsByID(tags []model.Tag, id int64) []model.Tag {
	if id == 0 {
		return tags
	}
	return where(tags, func(t model.Tag) bool { return t.ID == id })
}

// TagsByWorkspace keeps tags belonging to w. A nil w keeps all.
func TagsByWorkspace(tags []model.Tag, w *model.Workspace) []model.Tag {
	if w == nil {
		return tags
	}
	return where(tags, func(t model.Tag) bool { return t.WorkspaceID == w.ID })
}

// ===== Time entries =====

// EntriesByDescription keeps entries whose description matches desc.
func EntriesByDescription(es []model.TimeEntry, desc string) []model.TimeEntry {
	if desc == "" {
		return es
	}
	return where(es, func(e model.TimeEntry) bool { return nameMatches(e.Description, desc) })
}

// EntriesByID keeps the entry with the given identifier.
func EntriesByID(es []model.TimeEntry, id int64) []model.TimeEntry {
	if id == 0 {
		return es
	}
	return where(es, func(e model.TimeEntry) bool { return e.ID == id })
}

// EntriesByWorkspace keeps entries belonging to w. A nil w keeps all.
func EntriesByWorkspace(es []model.TimeEntry, w *model.Workspace) []model.TimeEntry {
	if w == nil {
		return es
	}
	return where(es, func(e model.TimeEntry) bool { return e.WorkspaceID == w.ID })
}

// EntriesByProject keeps entries assigned to p. A nil p keeps all.
func EntriesByProject(es []model.TimeEntry, p *model.Project) []model.TimeEntry {
	if p == nil {
		return es
	}
	return where(es, func(e model.TimeEntry) bool { return e.ProjectID != nil && *e.ProjectID == p.ID })
}

// EntriesWithAllTags keeps entries carrying every one of names.
func EntriesWithAllTags(es []model.TimeEntry, names []string) []model.TimeEntry {
	if len(names) == 0 {
		return es
	}
	return where(es, func(e model.TimeEntry) bool {
		for _, n := range names {
			if !e.HasTag(n) {
				return false
			}
		}
		return true
	})
}

// EntriesWithAnyTags keeps entries carrying at least one of names.
func EntriesWithAnyTags(es []model.TimeEntry, names []string) []model.TimeEntry {
	if len(names) == 0 {
		return es
	}
	return where(es, func(e model.TimeEntry) bool { return slices.ContainsFunc(names, e.HasTag) })
}

// EntriesInRange keeps entries starting at or after from and before to.
// A zero bound is open.
func EntriesInRange(es []model.TimeEntry, from, to time.Time) []model.TimeEntry {
	if from.IsZero() && to.IsZero() {
		return es
	}
	return where(es, func(e model.TimeEntry) bool {
		if !from.IsZero() && e.Start.Before(from) {
			return false
		}
		if !to.IsZero() && !e.Start.Before(to) {
			return false
		}
		return true
	})
}

// ===== Reductions =====

// Collapse merges entries sharing a description, summing their elapsed
// time at now. The first entry of each description supplies the other
// fields. Order of first appearance is kept.
func Collapse(es []model.TimeEntry, now time.Time) []model.TimeEntry {
	out := make([]model.TimeEntry, 0, len(es))
	index := make(map[string]int)
	for _, e := range es {
		secs := int64(e.Elapsed(now).Seconds())
		if i, ok := index[e.Description]; ok {
			out[i] = out[i].With(model.EntryDuration(out[i].Duration + secs))
			continue
		}
		index[e.Description] = len(out)
		out = append(out, e.With(model.EntryDuration(secs)))
	}
	return out
}

// Latest returns the entry updated most recently, or false for an empty list.
func Latest(es []model.TimeEntry) (model.TimeEntry, bool) {
	if len(es) == 0 {
		return model.TimeEntry{}, false
	}
	return slices.MaxFunc(es, func(a, b model.TimeEntry) int {
		if c := a.LastUpdated.Compare(b.LastUpdated); c != 0 {
			return c
		}
		return a.Start.Compare(b.Start)
	}), true
}
