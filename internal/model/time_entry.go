package model

import (
	"slices"
	"time"
)

// TimeEntry is a record of tracked time. Tags are held by name; the cache
// links them to Tag rows by name when the entry is written. Duration is
// elapsed seconds, never the wire's negative running marker.
type TimeEntry struct {
	ID          int64      `json:"id"`
	Description string     `json:"description"`
	Start       time.Time  `json:"start"`
	Stop        *time.Time `json:"stop,omitempty"`
	Duration    int64      `json:"duration"`
	ProjectID   *int64     `json:"project_id,omitempty"`
	WorkspaceID int64      `json:"workspace_id"`
	Tags        []string   `json:"tags,omitempty"`
	LastUpdated time.Time  `json:"last_updated"`
}

// NewTimeEntry creates a time entry that has not been synced yet.
func NewTimeEntry(description string, workspaceID int64, start time.Time, tags []string) TimeEntry {
	return TimeEntry{
		Description: description,
		WorkspaceID: workspaceID,
		Start:       start,
		Tags:        cloneTags(tags),
	}
}

// IsRunning reports whether the entry has no stop time.
func (e TimeEntry) IsRunning() bool {
	return e.Stop == nil
}

// Elapsed returns the tracked time. For a running entry it is measured from
// Start to now.
func (e TimeEntry) Elapsed(now time.Time) time.Duration {
	if e.IsRunning() {
		if d := now.Sub(e.Start); d > 0 {
			return d.Truncate(time.Second)
		}
		return 0
	}
	return time.Duration(e.Duration) * time.Second
}

// HasTag reports whether the entry carries the named tag. Names match
// exactly, as the cache links them.
func (e TimeEntry) HasTag(name string) bool {
	return slices.Contains(e.Tags, name)
}

// Equal reports whether every field of e and o matches.
func (e TimeEntry) Equal(o TimeEntry) bool {
	return e.ID == o.ID &&
		e.Description == o.Description &&
		e.Start.Equal(o.Start) &&
		equalTimePtr(e.Stop, o.Stop) &&
		e.Duration == o.Duration &&
		equalInt64Ptr(e.ProjectID, o.ProjectID) &&
		e.WorkspaceID == o.WorkspaceID &&
		slices.Equal(e.Tags, o.Tags) &&
		e.LastUpdated.Equal(o.LastUpdated)
}

// Less orders entries by start time.
func (e TimeEntry) Less(o TimeEntry) bool {
	return e.Start.Before(o.Start)
}

// TimeEntryOption overrides a field on a time entry copy.
type TimeEntryOption func(*TimeEntry)

// With returns a copy of e with opts applied. Pointer and slice fields of the
// copy never alias e.
func (e TimeEntry) With(opts ...TimeEntryOption) TimeEntry {
	e.Tags = cloneTags(e.Tags)
	if e.Stop != nil {
		s := *e.Stop
		e.Stop = &s
	}
	if e.ProjectID != nil {
		p := *e.ProjectID
		e.ProjectID = &p
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// EntryDescription sets the description.
func EntryDescription(d string) TimeEntryOption {
	return func(e *TimeEntry) { e.Description = d }
}

// EntryProject sets the project.
func EntryProject(id int64) TimeEntryOption {
	return func(e *TimeEntry) { e.ProjectID = &id }
}

// EntryNoProject clears the project.
func EntryNoProject() TimeEntryOption {
	return func(e *TimeEntry) { e.ProjectID = nil }
}

// EntryWorkspace sets the workspace.
func EntryWorkspace(id int64) TimeEntryOption {
	return func(e *TimeEntry) { e.WorkspaceID = id }
}

// EntryStart sets the start time.
func EntryStart(t time.Time) TimeEntryOption {
	return func(e *TimeEntry) { e.Start = t }
}

// EntryStop sets the stop time.
func EntryStop(t time.Time) TimeEntryOption {
	return func(e *TimeEntry) { e.Stop = &t }
}

// EntryNoStop clears the stop time.
func EntryNoStop() TimeEntryOption {
	return func(e *TimeEntry) { e.Stop = nil }
}

// EntryDuration sets the duration in seconds.
func EntryDuration(sec int64) TimeEntryOption {
	return func(e *TimeEntry) { e.Duration = sec }
}

// EntryTags replaces the tag list.
func EntryTags(tags []string) TimeEntryOption {
	return func(e *TimeEntry) { e.Tags = cloneTags(tags) }
}

// AddTags appends tags the entry does not already carry.
func AddTags(tags ...string) TimeEntryOption {
	return func(e *TimeEntry) {
		for _, t := range tags {
			if !slices.Contains(e.Tags, t) {
				e.Tags = append(e.Tags, t)
			}
		}
	}
}

// RemoveTags drops the named tags.
func RemoveTags(tags ...string) TimeEntryOption {
	return func(e *TimeEntry) {
		e.Tags = slices.DeleteFunc(e.Tags, func(t string) bool { return slices.Contains(tags, t) })
	}
}

// EntryLastUpdated sets the last-updated time.
func EntryLastUpdated(t time.Time) TimeEntryOption {
	return func(e *TimeEntry) { e.LastUpdated = t }
}

// SortTimeEntries returns a copy of es sorted by start time.
func SortTimeEntries(es []TimeEntry) []TimeEntry {
	out := slices.Clone(es)
	slices.SortStableFunc(out, func(a, b TimeEntry) int { return a.Start.Compare(b.Start) })
	return out
}
