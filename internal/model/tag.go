package model

import "slices"

// Tag is a label within a workspace. Tags are attached to time entries by name.
type Tag struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	WorkspaceID int64  `json:"workspace_id"`
}

// NewTag creates a tag that has not been synced yet.
func NewTag(name string, workspaceID int64) Tag {
	return Tag{Name: name, WorkspaceID: workspaceID}
}

// Equal reports whether every field of t and o matches.
func (t Tag) Equal(o Tag) bool {
	return t == o
}

// Less orders tags by case-insensitive name.
func (t Tag) Less(o Tag) bool {
	return lessName(t.Name, o.Name)
}

// TagOption overrides a field on a tag copy.
type TagOption func(*Tag)

// With returns a copy of t with opts applied.
func (t Tag) With(opts ...TagOption) Tag {
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// TagName sets the name.
func TagName(name string) TagOption {
	return func(t *Tag) { t.Name = name }
}

// SortTags returns a copy of tags sorted by name.
func SortTags(tags []Tag) []Tag {
	out := slices.Clone(tags)
	slices.SortStableFunc(out, func(a, b Tag) int { return compareLess(a.Less(b), b.Less(a)) })
	return out
}

// TagNames returns the names of tags in order.
func TagNames(tags []Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}
