package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Color is a project color from the service's fixed palette.
// The zero value means no color.
type Color int

// Palette colors, numbered as the service numbers them.
const (
	ColorNone Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorYellow
	ColorPurple
	ColorBlack
)

// DefaultColor is used for projects created without an explicit color.
const DefaultColor = ColorBlack

var colorNames = map[Color]string{
	ColorRed:    "red",
	ColorGreen:  "green",
	ColorBlue:   "blue",
	ColorYellow: "yellow",
	ColorPurple: "purple",
	ColorBlack:  "black",
}

// Colors returns the palette in code order.
func Colors() []Color {
	return []Color{ColorRed, ColorGreen, ColorBlue, ColorYellow, ColorPurple, ColorBlack}
}

// ColorFromCode converts an integer code to a Color.
func ColorFromCode(code int) (Color, error) {
	c := Color(code)
	if _, ok := colorNames[c]; !ok {
		return ColorNone, fmt.Errorf("unknown color code %d", code)
	}
	return c, nil
}

// ParseColor converts a case-insensitive color name to a Color.
func ParseColor(name string) (Color, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for c, cn := range colorNames {
		if cn == n {
			return c, nil
		}
	}
	return ColorNone, fmt.Errorf("unknown color %q", name)
}

// String returns the lowercase color name, or "" for ColorNone.
func (c Color) String() string {
	return colorNames[c]
}

// Code returns the integer code of c.
func (c Color) Code() int {
	return int(c)
}

// Project is a named, colored grouping of time entries within a workspace.
type Project struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	WorkspaceID int64      `json:"workspace_id"`
	Color       Color      `json:"color"`
	LastUpdated time.Time  `json:"last_updated"`
	Created     *time.Time `json:"created,omitempty"`
}

// NewProject creates a project that has not been synced yet.
func NewProject(name string, workspaceID int64, color Color) Project {
	return Project{Name: name, WorkspaceID: workspaceID, Color: color}
}

// Equal reports whether every field of p and o matches.
func (p Project) Equal(o Project) bool {
	return p.ID == o.ID &&
		p.Name == o.Name &&
		p.WorkspaceID == o.WorkspaceID &&
		p.Color == o.Color &&
		p.LastUpdated.Equal(o.LastUpdated) &&
		equalTimePtr(p.Created, o.Created)
}

// Less orders projects by case-insensitive name.
func (p Project) Less(o Project) bool {
	return lessName(p.Name, o.Name)
}

// ProjectOption overrides a field on a project copy.
type ProjectOption func(*Project)

// With returns a copy of p with opts applied.
func (p Project) With(opts ...ProjectOption) Project {
	if p.Created != nil {
		c := *p.Created
		p.Created = &c
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// ProjectName sets the name.
func ProjectName(name string) ProjectOption {
	return func(p *Project) { p.Name = name }
}

// ProjectColor sets the color.
func ProjectColor(c Color) ProjectOption {
	return func(p *Project) { p.Color = c }
}

// ProjectWorkspace sets the owning workspace.
func ProjectWorkspace(id int64) ProjectOption {
	return func(p *Project) { p.WorkspaceID = id }
}

// SortProjects returns a copy of ps sorted by name.
func SortProjects(ps []Project) []Project {
	out := slices.Clone(ps)
	slices.SortStableFunc(out, func(a, b Project) int { return compareLess(a.Less(b), b.Less(a)) })
	return out
}
