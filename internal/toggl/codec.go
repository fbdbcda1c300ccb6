package toggl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/manav03panchal/togglcmder/internal/model"
)

// decodeData decodes raw into out, unwrapping {"data": ...} when present.
// A null payload leaves out untouched.
func decodeData(raw []byte, out any) error {
	payload := bytes.TrimSpace(raw)
	if len(payload) > 0 && payload[0] == '{' {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(payload, &env); err == nil && env.Data != nil {
			payload = bytes.TrimSpace(env.Data)
		}
	}
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return nil
	}
	return json.Unmarshal(payload, out)
}

// flexInt decodes an integer sent either as a JSON number or as a string.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("not an integer: %s", b)
	}
	*f = flexInt(n)
	return nil
}

// ===== Wire types =====

type wireWorkspace struct {
	ID   flexInt `json:"id"`
	Name string  `json:"name"`
	At   string  `json:"at"`
}

type wireProject struct {
	ID        flexInt `json:"id"`
	Name      string  `json:"name"`
	WID       flexInt `json:"wid"`
	Color     flexInt `json:"color"`
	At        string  `json:"at"`
	CreatedAt string  `json:"created_at"`
}

type wireTag struct {
	ID   flexInt `json:"id"`
	Name string  `json:"name"`
	WID  flexInt `json:"wid"`
}

type wireTimeEntry struct {
	ID          flexInt  `json:"id"`
	Description string   `json:"description"`
	WID         flexInt  `json:"wid"`
	PID         *flexInt `json:"pid"`
	Start       string   `json:"start"`
	Stop        *string  `json:"stop"`
	Duration    int64    `json:"duration"`
	Tags        []string `json:"tags"`
	At          string   `json:"at"`
}

type wireUser struct {
	ID       flexInt `json:"id"`
	Fullname string  `json:"fullname"`
	APIToken string  `json:"api_token"`
	At       string  `json:"at"`
}

// ===== Decoding =====

func parseOptionalTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return model.ParseTimestamp(s)
}

func (w wireWorkspace) toModel() (model.Workspace, error) {
	at, err := parseOptionalTime(w.At)
	if err != nil {
		return model.Workspace{}, err
	}
	return model.Workspace{ID: int64(w.ID), Name: w.Name, LastUpdated: at}, nil
}

func (w wireProject) toModel() (model.Project, error) {
	at, err := parseOptionalTime(w.At)
	if err != nil {
		return model.Project{}, err
	}
	p := model.Project{ID: int64(w.ID), Name: w.Name, WorkspaceID: int64(w.WID), LastUpdated: at}
	// Codes outside the palette have no local color.
	if c, err := model.ColorFromCode(int(w.Color)); err == nil {
		p.Color = c
	}
	if w.CreatedAt != "" {
		created, err := model.ParseTimestamp(w.CreatedAt)
		if err != nil {
			return model.Project{}, err
		}
		p.Created = &created
	}
	return p, nil
}

func (w wireTag) toModel() model.Tag {
	return model.Tag{ID: int64(w.ID), Name: w.Name, WorkspaceID: int64(w.WID)}
}

// toModel converts a wire entry. A negative duration marks a running entry
// and is turned into elapsed seconds at now.
func (w wireTimeEntry) toModel(now time.Time) (model.TimeEntry, error) {
	start, err := model.ParseTimestamp(w.Start)
	if err != nil {
		return model.TimeEntry{}, err
	}
	at, err := parseOptionalTime(w.At)
	if err != nil {
		return model.TimeEntry{}, err
	}
	e := model.TimeEntry{
		ID:          int64(w.ID),
		Description: w.Description,
		Start:       start,
		Duration:    model.NormalizeDuration(w.Duration, now),
		WorkspaceID: int64(w.WID),
		Tags:        w.Tags,
		LastUpdated: at,
	}
	if w.PID != nil && *w.PID != 0 {
		pid := int64(*w.PID)
		e.ProjectID = &pid
	}
	if w.Stop != nil && *w.Stop != "" {
		stop, err := model.ParseTimestamp(*w.Stop)
		if err != nil {
			return model.TimeEntry{}, err
		}
		e.Stop = &stop
	}
	return e, nil
}

func (w wireUser) toModel() (model.User, error) {
	at, err := parseOptionalTime(w.At)
	if err != nil {
		return model.User{}, err
	}
	return model.User{ID: int64(w.ID), Name: w.Fullname, APIToken: w.APIToken, LastUpdated: at}, nil
}

// ===== Encoding =====

type tagBody struct {
	Name string `json:"name"`
	WID  int64  `json:"wid"`
}

type tagPayload struct {
	Tag tagBody `json:"tag"`
}

func encodeTag(t model.Tag) tagPayload {
	return tagPayload{Tag: tagBody{Name: t.Name, WID: t.WorkspaceID}}
}

type projectBody struct {
	Name  string `json:"name"`
	WID   int64  `json:"wid"`
	Color string `json:"color,omitempty"`
}

type projectPayload struct {
	Project projectBody `json:"project"`
}

func encodeProject(p model.Project) projectPayload {
	body := projectBody{Name: p.Name, WID: p.WorkspaceID}
	if p.Color != model.ColorNone {
		body.Color = strconv.Itoa(p.Color.Code())
	}
	return projectPayload{Project: body}
}

type timeEntryBody struct {
	Description string   `json:"description"`
	WID         int64    `json:"wid,omitempty"`
	PID         *int64   `json:"pid,omitempty"`
	Start       string   `json:"start"`
	Stop        string   `json:"stop,omitempty"`
	Duration    int64    `json:"duration,omitempty"`
	Tags        []string `json:"tags"`
	CreatedWith string   `json:"created_with"`
}

type timeEntryPayload struct {
	TimeEntry timeEntryBody `json:"time_entry"`
}

// encodeTimeEntry builds the request body. Duration is sent only when
// positive and stop only when set, so a running entry carries neither.
func encodeTimeEntry(e model.TimeEntry) timeEntryPayload {
	body := timeEntryBody{
		Description: e.Description,
		WID:         e.WorkspaceID,
		PID:         e.ProjectID,
		Start:       e.Start.Format(time.RFC3339),
		Tags:        e.Tags,
		CreatedWith: CreatedWith,
	}
	if body.Tags == nil {
		body.Tags = []string{}
	}
	if e.Duration > 0 {
		body.Duration = e.Duration
	}
	if e.Stop != nil {
		body.Stop = e.Stop.Format(time.RFC3339)
	}
	return timeEntryPayload{TimeEntry: body}
}
