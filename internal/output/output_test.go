package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/togglcmder/internal/model"
)

func ptr[T any](v T) *T {
	return &v
}

func testLookup() Lookup {
	return NewLookup(
		[]model.Workspace{{ID: 1, Name: "Work"}},
		[]model.Project{{ID: 10, Name: "Alpha", WorkspaceID: 1}},
	)
}

// =============================================================================
// Formatter Tests
// =============================================================================

func TestNewFormatter(t *testing.T) {
	f := NewFormatter()
	assert.NotNil(t, f)
	assert.Equal(t, FormatCLI, f.Format)
	assert.Equal(t, ColorAuto, f.ColorMode)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCLI, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)

	m, err := ParseColorMode("never")
	require.NoError(t, err)
	assert.Equal(t, ColorNever, m)
	_, err = ParseColorMode("sometimes")
	assert.Error(t, err)
}

func TestFormatterIsColorEnabled(t *testing.T) {
	t.Run("color_always", func(t *testing.T) {
		f := &Formatter{ColorMode: ColorAlways}
		assert.True(t, f.IsColorEnabled())
	})

	t.Run("color_never", func(t *testing.T) {
		f := &Formatter{ColorMode: ColorNever}
		assert.False(t, f.IsColorEnabled())
	})

	t.Run("plain_never_colors", func(t *testing.T) {
		f := &Formatter{ColorMode: ColorAlways, Format: FormatPlain}
		assert.False(t, f.IsColorEnabled())
	})

	t.Run("color_auto_non_terminal", func(t *testing.T) {
		var buf bytes.Buffer
		f := &Formatter{Writer: &buf, ColorMode: ColorAuto}
		// Buffer is not a terminal
		assert.False(t, f.IsColorEnabled())
	})
}

func TestFormatterJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Writer: &buf}

	require.NoError(t, f.JSON(map[string]string{"key": "value"}))
	assert.Contains(t, buf.String(), `"key": "value"`)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{5 * time.Minute, "5m"},
		{5*time.Minute + 3*time.Second, "5m 3s"},
		{2 * time.Hour, "2h"},
		{2*time.Hour + 15*time.Minute, "2h 15m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.d))
	}
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "", FormatTime(time.Time{}))
	assert.Equal(t, "", FormatTimestamp(time.Time{}))
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "2024-01-02T03:04:05Z", FormatTimestamp(ts))
	assert.NotEmpty(t, FormatTime(ts))
}

// =============================================================================
// CLI Tests
// =============================================================================

func setupCLI() (*CLIFormatter, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewCLIFormatter(&Formatter{Writer: &buf, ColorMode: ColorNever}), &buf
}

func TestCLIMessages(t *testing.T) {
	c, buf := setupCLI()
	c.Success("added")
	c.Warning("careful")
	c.Error("failed")
	c.Muted("quiet")

	out := buf.String()
	assert.Contains(t, out, "✓ added")
	assert.Contains(t, out, "⚠ careful")
	assert.Contains(t, out, "✗ failed")
	assert.Contains(t, out, "quiet")
}

func TestPrintTable(t *testing.T) {
	t.Run("empty_prints_nothing", func(t *testing.T) {
		c, buf := setupCLI()
		c.PrintTable([]string{"A"}, nil)
		assert.Empty(t, buf.String())
	})

	t.Run("aligned", func(t *testing.T) {
		c, buf := setupCLI()
		c.PrintTable([]string{"ID", "Name"}, []TableRow{
			{Columns: []string{"1", "Work"}},
			{Columns: []string{"22", "Home"}},
		})
		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "ID  Name", lines[0])
		assert.Equal(t, "1   Work", lines[2])
		assert.Equal(t, "22  Home", lines[3])
	})

	t.Run("plain", func(t *testing.T) {
		var buf bytes.Buffer
		c := NewCLIFormatter(&Formatter{Writer: &buf, Format: FormatPlain})
		c.PrintTable([]string{"ID", "Name"}, []TableRow{{Columns: []string{"1", "Work"}}})
		assert.Equal(t, "ID\tName\n1\tWork\n", buf.String())
	})
}

func TestTimeEntryRows(t *testing.T) {
	now := time.Unix(10000, 0)
	stop := time.Unix(2000, 0)
	es := []model.TimeEntry{
		{ID: 1, Description: "done", WorkspaceID: 1, ProjectID: ptr(int64(10)), Start: time.Unix(1000, 0), Stop: &stop, Duration: 1000, Tags: []string{"a", "b"}},
		{ID: 2, Description: "running", WorkspaceID: 1, Start: time.Unix(6400, 0)},
	}

	rows := TimeEntryRows(es, testLookup(), now)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alpha", rows[0].Columns[2])
	assert.Equal(t, "Work", rows[0].Columns[3])
	assert.Equal(t, "0:16:40", rows[0].Columns[5])
	assert.Equal(t, "a,b", rows[0].Columns[6])
	assert.Equal(t, "", rows[1].Columns[2])
	assert.Equal(t, "1:00:00", rows[1].Columns[5])
}

func TestSortRows(t *testing.T) {
	rows := []TableRow{
		{Columns: []string{"1", "b", "0:10:00"}},
		{Columns: []string{"2", "a", "10:00:00"}},
		{Columns: []string{"10", "c", "2:00:00"}},
	}
	headers := []string{"ID", "Name", "Duration"}

	require.True(t, SortRows(headers, rows, "duration"))
	assert.Equal(t, "2", rows[0].Columns[0])
	assert.Equal(t, "10", rows[1].Columns[0])

	require.True(t, SortRows(headers, rows, "ID"))
	assert.Equal(t, []string{"10", "2", "1"}, []string{rows[0].Columns[0], rows[1].Columns[0], rows[2].Columns[0]})

	assert.False(t, SortRows(headers, rows, "Nope"))
}

func TestLookup(t *testing.T) {
	l := testLookup()
	assert.Equal(t, "Work", l.Workspace(1))
	assert.Equal(t, "99", l.Workspace(99))
	assert.Equal(t, "", l.Project(nil))
	assert.Equal(t, "Alpha", l.Project(ptr(int64(10))))
	assert.Equal(t, "11", l.Project(ptr(int64(11))))
}

func TestPrintUserMasksToken(t *testing.T) {
	c, buf := setupCLI()
	c.PrintUser(model.User{ID: 7, Name: "Ada", APIToken: "abcdef123456"})
	assert.Contains(t, buf.String(), "abcd***")
	assert.NotContains(t, buf.String(), "abcdef123456")
}

// =============================================================================
// JSON Tests
// =============================================================================

func TestTimeEntriesResponse(t *testing.T) {
	now := time.Unix(10000, 0)
	es := []model.TimeEntry{
		{ID: 2, Description: "running", WorkspaceID: 1, Start: time.Unix(6400, 0)},
	}

	resp := NewTimeEntriesResponse(es, testLookup(), now)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, int64(3600), resp.TotalDurationSeconds)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	entry := decoded["time_entries"].([]any)[0].(map[string]any)
	assert.Equal(t, true, entry["running"])
	assert.Equal(t, []any{}, entry["tags"])
	assert.NotContains(t, entry, "stop")
	assert.NotContains(t, entry, "project_id")
}

func TestProjectOutput(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := NewProjectOutput(model.Project{ID: 10, Name: "Alpha", WorkspaceID: 1, Color: model.ColorRed, Created: &created}, testLookup())
	assert.Equal(t, "red", out.Color)
	assert.Equal(t, "Work", out.Workspace)
	assert.Equal(t, "2024-01-01T00:00:00Z", out.Created)

	none := NewProjectOutput(model.Project{ID: 11}, testLookup())
	assert.Equal(t, "", none.Color)
}

func TestUserOutputMasksToken(t *testing.T) {
	out := NewUserOutput(model.User{ID: 1, Name: "Ada", APIToken: "abcdef123456"})
	assert.Equal(t, "abcd***", out.APIToken)
}

func TestListResponses(t *testing.T) {
	l := testLookup()
	assert.Equal(t, 0, NewWorkspacesResponse(nil).Count)
	assert.NotNil(t, NewWorkspacesResponse(nil).Workspaces)
	assert.Equal(t, 1, NewTagsResponse([]model.Tag{{ID: 1, Name: "x", WorkspaceID: 1}}, l).Count)
	assert.Equal(t, "Work", NewProjectsResponse([]model.Project{{ID: 10, WorkspaceID: 1}}, l).Projects[0].Workspace)
}
