package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	gosync "sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/manav03panchal/togglcmder/internal/errors"
	"github.com/manav03panchal/togglcmder/internal/output"
)

// fakeToggl serves a tiny in-memory Toggl account.
type fakeToggl struct {
	mu       gosync.Mutex
	projects []map[string]any
	tags     []map[string]any
	entries  []map[string]any
	current  map[string]any
	nextID   int
	requests []string
}

func newFakeToggl(t *testing.T) (*fakeToggl, *httptest.Server) {
	t.Helper()
	f := &fakeToggl{
		projects: []map[string]any{
			{"id": 10, "name": "Website", "wid": 1, "color": 1},
			{"id": 11, "name": "Backend", "wid": 1, "color": 1},
			{"id": 12, "name": "Docs", "wid": 1, "color": 3},
		},
		tags: []map[string]any{
			{"id": 20, "name": "billable", "wid": 1},
			{"id": 21, "name": "urgent", "wid": 1},
		},
		entries: []map[string]any{
			entry(30, "Standup", 10, 3*time.Hour, 30*time.Minute, "billable", "urgent"),
			entry(31, "Review", 0, 2*time.Hour, time.Hour, "billable"),
			entry(32, "Review", 0, 50*time.Minute, 30*time.Minute),
		},
		nextID: 100,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		f.reply(w, map[string]any{"id": 5, "fullname": "Ada", "api_token": "tok"})
	})
	mux.HandleFunc("GET /workspaces", func(w http.ResponseWriter, r *http.Request) {
		f.reply(w, []map[string]any{{"id": 1, "name": "Work"}})
	})
	mux.HandleFunc("GET /workspaces/1/projects", func(w http.ResponseWriter, r *http.Request) {
		f.reply(w, f.projects)
	})
	mux.HandleFunc("GET /workspaces/1/tags", func(w http.ResponseWriter, r *http.Request) {
		f.reply(w, f.tags)
	})
	mux.HandleFunc("GET /time_entries", func(w http.ResponseWriter, r *http.Request) {
		f.reply(w, f.entries)
	})
	mux.HandleFunc("GET /time_entries/current", func(w http.ResponseWriter, r *http.Request) {
		f.reply(w, f.current)
	})
	mux.HandleFunc("POST /projects", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Project map[string]any `json:"project"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		body.Project["id"] = f.id()
		f.reply(w, body.Project)
	})
	mux.HandleFunc("DELETE /projects/{ids}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("PUT /projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Project map[string]any `json:"project"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		body.Project["id"] = r.PathValue("id")
		f.reply(w, body.Project)
	})
	mux.HandleFunc("PUT /time_entries/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			TimeEntry map[string]any `json:"time_entry"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		body.TimeEntry["id"] = r.PathValue("id")
		f.reply(w, body.TimeEntry)
	})
	mux.HandleFunc("DELETE /time_entries/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /tags", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Tag map[string]any `json:"tag"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		body.Tag["id"] = f.id()
		f.reply(w, body.Tag)
	})
	mux.HandleFunc("PUT /tags/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Tag map[string]any `json:"tag"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		body.Tag["id"] = r.PathValue("id")
		f.reply(w, body.Tag)
	})
	mux.HandleFunc("DELETE /tags/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /time_entries/start", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			TimeEntry map[string]any `json:"time_entry"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		e := body.TimeEntry
		e["id"] = f.id()
		e["duration"] = -1
		f.current = e
		f.reply(w, e)
	})
	mux.HandleFunc("PUT /time_entries/{id}/stop", func(w http.ResponseWriter, r *http.Request) {
		e := f.current
		e["stop"] = e["start"]
		e["duration"] = 0
		f.current = nil
		f.reply(w, e)
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

// entry builds a completed entry that started ago before now and ran for d.
func entry(id int, desc string, pid int, ago, d time.Duration, tags ...string) map[string]any {
	start := time.Now().UTC().Add(-ago)
	e := map[string]any{
		"id":          id,
		"description": desc,
		"wid":         1,
		"start":       start.Format(time.RFC3339),
		"stop":        start.Add(d).Format(time.RFC3339),
		"duration":    int64(d.Seconds()),
		"tags":        tags,
		"at":          start.Add(d).Format(time.RFC3339),
	}
	if pid != 0 {
		e["pid"] = pid
	}
	return e
}

func (f *fakeToggl) id() int {
	f.nextID++
	return f.nextID
}

func (f *fakeToggl) reply(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": v})
}

// sent returns the non-GET requests received so far.
func (f *fakeToggl) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, r := range f.requests {
		if !strings.HasPrefix(r, "GET ") {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeToggl) running() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeToggl) lastID() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nextID
}

func (f *fakeToggl) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// resetFlags puts every flag back to its default between runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

type harness struct {
	t      *testing.T
	fake   *fakeToggl
	config string
}

func setup(t *testing.T) *harness {
	t.Helper()
	fake, srv := newFakeToggl(t)
	dir := t.TempDir()
	t.Setenv("TOGGLCMDER_API_URL", srv.URL)
	t.Setenv("TOGGLCMDER_CACHE", filepath.Join(dir, "cache.db"))
	t.Setenv("TOGGLCMDER_STATE_PATH", filepath.Join(dir, "state"))
	t.Setenv("TOGGLCMDER_LOG_FILE", filepath.Join(dir, "togglcmder.log"))
	t.Setenv("TOGGLCMDER_API_TOKEN", "")
	return &harness{t: t, fake: fake, config: filepath.Join(dir, "config.yaml")}
}

// run executes args with the test config and token.
func (h *harness) run(args ...string) (string, string, error) {
	return h.runRaw(append(args, "--token", "tok")...)
}

// runRaw executes args with only the test config.
func (h *harness) runRaw(args ...string) (string, string, error) {
	h.t.Helper()
	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(append(args, "--config", h.config, "--color", "never"))
	err := Execute()
	return stdout.String(), stderr.String(), err
}

// =============================================================================
// Root Tests
// =============================================================================

func TestVersion(t *testing.T) {
	h := setup(t)
	out, _, err := h.runRaw("version")
	require.NoError(t, err)
	assert.Contains(t, out, "togglcmder "+Version)
	assert.Zero(t, h.fake.count())
}

func TestUnknownFormat(t *testing.T) {
	h := setup(t)
	_, stderr, err := h.run("workspaces", "list", "--format", "xml")
	require.Error(t, err)
	assert.True(t, apperrors.IsUserError(err))
	assert.Contains(t, stderr, "Error:")
}

func TestMissingToken(t *testing.T) {
	h := setup(t)
	_, _, err := h.runRaw("workspaces", "list")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrMissingToken))
	assert.Zero(t, h.fake.count())
}

// =============================================================================
// Workspace Tests
// =============================================================================

func TestWorkspacesList(t *testing.T) {
	h := setup(t)

	t.Run("table", func(t *testing.T) {
		out, _, err := h.run("workspaces", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "Work")
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := h.run("workspaces", "list", "--format", "json")
		require.NoError(t, err)
		var resp output.WorkspacesResponse
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		require.Equal(t, 1, resp.Count)
		assert.Equal(t, "Work", resp.Workspaces[0].Name)
	})

	t.Run("no_match_is_a_warning", func(t *testing.T) {
		out, _, err := h.run("workspaces", "list", "--name", "Home")
		require.NoError(t, err)
		assert.Contains(t, out, `workspace "Home" not found`)
	})

	t.Run("unknown_sort_column", func(t *testing.T) {
		_, _, err := h.run("workspaces", "list", "--sort-by", "Size")
		require.Error(t, err)
		assert.True(t, apperrors.IsUserError(err))
	})
}

func TestNoSyncReadsCache(t *testing.T) {
	h := setup(t)
	_, _, err := h.run("sync")
	require.NoError(t, err)
	before := h.fake.count()

	out, _, err := h.runRaw("projects", "list", "--no-sync")
	require.NoError(t, err)
	assert.Contains(t, out, "Website")
	assert.Contains(t, out, "Docs")
	assert.Equal(t, before, h.fake.count())
}

func TestSyncDisabled(t *testing.T) {
	h := setup(t)
	_, _, err := h.run("sync", "--no-sync")
	require.Error(t, err)
	assert.True(t, apperrors.IsUserError(err))
}

// =============================================================================
// Project Tests
// =============================================================================

func TestProjectsAdd(t *testing.T) {
	h := setup(t)

	out, _, err := h.run("projects", "add", "--name", "Mobile", "--color", "green")
	require.NoError(t, err)
	assert.Contains(t, out, "Added project Mobile to workspace Work")
	assert.Equal(t, []string{"POST /projects"}, h.fake.sent())
}

func TestProjectsAddDuplicate(t *testing.T) {
	h := setup(t)

	out, _, err := h.run("projects", "add", "--name", "website")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
	assert.Empty(t, h.fake.sent())
}

func TestProjectsAddInvalidColor(t *testing.T) {
	h := setup(t)

	_, _, err := h.run("projects", "add", "--name", "Mobile", "--color", "teal")
	require.Error(t, err)
	assert.True(t, apperrors.IsUserError(err))
	assert.Zero(t, h.fake.count())
}

func TestProjectsDeleteMultiple(t *testing.T) {
	h := setup(t)

	t.Run("needs_flag", func(t *testing.T) {
		_, _, err := h.run("projects", "delete", "--color", "red")
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrMultipleNeeded))
		assert.Empty(t, h.fake.sent())
	})

	t.Run("with_flag", func(t *testing.T) {
		out, _, err := h.run("projects", "delete", "--color", "red", "--multiple")
		require.NoError(t, err)
		assert.Contains(t, out, "Deleted 2 projects from workspace Work")
		assert.Equal(t, []string{"DELETE /projects/10,11"}, h.fake.sent())
	})
}

func TestProjectsUpdate(t *testing.T) {
	h := setup(t)

	out, _, err := h.run("projects", "update", "--old-name", "Docs", "--new-name", "Manual", "--new-color", "green")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated project Manual in workspace Work")
	assert.Equal(t, []string{"PUT /projects/12"}, h.fake.sent())

	out, _, err = h.runRaw("projects", "list", "--no-sync", "--format", "json")
	require.NoError(t, err)
	var resp output.ProjectsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	byName := make(map[string]output.ProjectOutput)
	for _, p := range resp.Projects {
		byName[p.Name] = p
	}
	assert.NotContains(t, byName, "Docs")
	require.Contains(t, byName, "Manual")
	assert.Equal(t, int64(12), byName["Manual"].ID)
	assert.Equal(t, "green", byName["Manual"].Color)
}

func TestProjectsDeleteNotFound(t *testing.T) {
	h := setup(t)

	out, _, err := h.run("projects", "delete", "--name", "Nope")
	require.NoError(t, err)
	assert.Contains(t, out, "not found")
	assert.Empty(t, h.fake.sent())
}

// =============================================================================
// Tag Tests
// =============================================================================

func TestTagsLifecycle(t *testing.T) {
	h := setup(t)

	out, _, err := h.run("tags", "add", "--name", "urgent")
	require.NoError(t, err)
	assert.Contains(t, out, "Added tag urgent to workspace Work")

	out, _, err = h.run("tags", "add", "--name", "Billable")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	out, _, err = h.run("tags", "update", "--old-name", "billable", "--new-name", "invoiced")
	require.NoError(t, err)
	assert.Contains(t, out, "Renamed tag billable to invoiced")

	out, _, err = h.run("tags", "delete", "--name", "nothing")
	require.NoError(t, err)
	assert.Contains(t, out, "not found")

	out, _, err = h.run("tags", "delete", "--name", "billable")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted tag billable")

	assert.Equal(t, []string{"POST /tags", "PUT /tags/20", "DELETE /tags/20"}, h.fake.sent())
}

func TestTagsListFromCache(t *testing.T) {
	h := setup(t)
	_, _, err := h.run("sync")
	require.NoError(t, err)

	out, _, err := h.runRaw("tags", "list", "--no-sync", "--format", "json")
	require.NoError(t, err)
	var resp output.TagsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "billable", resp.Tags[0].Name)
	assert.Equal(t, "urgent", resp.Tags[1].Name)
}

// =============================================================================
// Timer Tests
// =============================================================================

func TestTimersStartStop(t *testing.T) {
	h := setup(t)

	out, _, err := h.run("timers", "start", "--description", "Fix login", "--project", "Website")
	require.NoError(t, err)
	assert.Contains(t, out, "Started time entry Fix login")
	started := h.fake.running()
	require.NotNil(t, started)
	assert.EqualValues(t, 10, started["pid"])

	out, _, err = h.run("timers", "current", "--format", "json")
	require.NoError(t, err)
	var cur output.CurrentResponse
	require.NoError(t, json.Unmarshal([]byte(out), &cur))
	assert.True(t, cur.Running)
	require.NotNil(t, cur.TimeEntry)
	assert.Equal(t, "Fix login", cur.TimeEntry.Description)

	out, _, err = h.run("timers", "stop")
	require.NoError(t, err)
	assert.Contains(t, out, "Stopped time entry Fix login")
	assert.Nil(t, h.fake.running())
	assert.Equal(t, []string{"POST /time_entries/start", fmt.Sprintf("PUT /time_entries/%d/stop", h.fake.lastID())}, h.fake.sent())
}

func TestTimersStopNothingRunning(t *testing.T) {
	h := setup(t)

	out, _, err := h.run("timers", "stop")
	require.NoError(t, err)
	assert.Contains(t, out, "No time entry is running.")
	assert.Empty(t, h.fake.sent())
}

func TestTimersStartUnknownTag(t *testing.T) {
	h := setup(t)

	out, _, err := h.run("timers", "start", "--description", "x", "--tags", "nope")
	require.NoError(t, err)
	assert.Contains(t, out, "not found")
	assert.Empty(t, h.fake.sent())
}

func TestTimersAddValidation(t *testing.T) {
	h := setup(t)

	tests := []struct {
		name string
		args []string
	}{
		{"no_stop_or_duration", []string{"--start-time", "2024-01-02T09:00:00Z"}},
		{"stop_and_duration", []string{"--start-time", "2024-01-02T09:00:00Z", "--stop-time", "2024-01-02T10:00:00Z", "--duration", "1h"}},
		{"stop_before_start", []string{"--start-time", "2024-01-02T09:00:00Z", "--stop-time", "2024-01-02T08:00:00Z"}},
		{"bad_start", []string{"--start-time", "not a time", "--duration", "1h"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"timers", "add", "--description", "Review"}, tt.args...)
			_, _, err := h.run(args...)
			require.Error(t, err)
			assert.True(t, apperrors.IsUserError(err))
		})
	}
	assert.Empty(t, h.fake.sent())
}

// cachedEntries lists the cached time entries by description.
func (h *harness) cachedEntries() map[string]output.TimeEntryOutput {
	h.t.Helper()
	out, _, err := h.runRaw("timers", "list", "--no-sync", "--format", "json")
	require.NoError(h.t, err)
	var resp output.TimeEntriesResponse
	require.NoError(h.t, json.Unmarshal([]byte(out), &resp))
	byDesc := make(map[string]output.TimeEntryOutput, len(resp.TimeEntries))
	for _, e := range resp.TimeEntries {
		byDesc[e.Description] = e
	}
	return byDesc
}

func TestTimersList(t *testing.T) {
	h := setup(t)

	t.Run("collapses_descriptions", func(t *testing.T) {
		out, _, err := h.run("timers", "list", "--format", "json")
		require.NoError(t, err)
		var resp output.TimeEntriesResponse
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		require.Len(t, resp.TimeEntries, 2)
		assert.Equal(t, "Standup", resp.TimeEntries[0].Description)
		assert.Equal(t, int64(1800), resp.TimeEntries[0].DurationSeconds)
		assert.Equal(t, "Review", resp.TimeEntries[1].Description)
		assert.Equal(t, int64(5400), resp.TimeEntries[1].DurationSeconds)
	})

	t.Run("table", func(t *testing.T) {
		out, _, err := h.run("timers", "list", "--description", "standup")
		require.NoError(t, err)
		assert.Contains(t, out, "Standup")
		assert.NotContains(t, out, "Review")
	})
}

func TestTimersUpdateRemoveTags(t *testing.T) {
	h := setup(t)

	out, _, err := h.run("timers", "update", "--old-description", "Standup", "--remove-tags", "urgent")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated time entry Standup in workspace Work")
	assert.Equal(t, []string{"PUT /time_entries/30"}, h.fake.sent())

	cached := h.cachedEntries()
	require.Contains(t, cached, "Standup")
	assert.Equal(t, []string{"billable"}, cached["Standup"].Tags)
	require.NotNil(t, cached["Standup"].ProjectID)
	assert.Equal(t, int64(10), *cached["Standup"].ProjectID)
}

func TestTimersUpdateValidation(t *testing.T) {
	h := setup(t)

	t.Run("nothing_selects", func(t *testing.T) {
		_, _, err := h.run("timers", "update", "--new-description", "x")
		require.Error(t, err)
		assert.True(t, apperrors.IsUserError(err))
	})

	t.Run("nothing_to_change", func(t *testing.T) {
		_, _, err := h.run("timers", "update", "--old-description", "Standup")
		require.Error(t, err)
		assert.True(t, apperrors.IsUserError(err))
	})

	t.Run("several_matches", func(t *testing.T) {
		_, _, err := h.run("timers", "update", "--old-description", "Review", "--new-description", "Retro")
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrMultipleNeeded))
	})

	assert.Empty(t, h.fake.sent())
}

func TestTimersDelete(t *testing.T) {
	h := setup(t)

	t.Run("needs_flag", func(t *testing.T) {
		_, _, err := h.run("timers", "delete", "--description", "Review")
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrMultipleNeeded))
		assert.Empty(t, h.fake.sent())
	})

	t.Run("with_flag", func(t *testing.T) {
		out, _, err := h.run("timers", "delete", "--description", "Review", "--multiple")
		require.NoError(t, err)
		assert.Contains(t, out, "Deleted time entry Review")
		assert.ElementsMatch(t, []string{"DELETE /time_entries/31", "DELETE /time_entries/32"}, h.fake.sent())

		cached := h.cachedEntries()
		assert.Contains(t, cached, "Standup")
		assert.NotContains(t, cached, "Review")
	})
}

func TestTimersResume(t *testing.T) {
	t.Run("latest_loaded_entry", func(t *testing.T) {
		h := setup(t)

		out, _, err := h.run("timers", "resume")
		require.NoError(t, err)
		assert.Contains(t, out, "Resumed time entry Review")
		assert.Equal(t, []string{"POST /time_entries/start"}, h.fake.sent())
		require.NotNil(t, h.fake.running())
		assert.Equal(t, "Review", h.fake.running()["description"])
	})

	t.Run("falls_back_to_last_stopped", func(t *testing.T) {
		h := setup(t)

		_, _, err := h.run("timers", "start", "--description", "Fix login")
		require.NoError(t, err)
		_, _, err = h.run("timers", "stop")
		require.NoError(t, err)
		require.Nil(t, h.fake.running())

		// Nothing downloaded falls inside this window.
		out, _, err := h.run("timers", "resume", "--download-start", "2020-01-01", "--download-stop", "2020-01-02")
		require.NoError(t, err)
		assert.Contains(t, out, "Resumed time entry Fix login")
		require.NotNil(t, h.fake.running())
		assert.Equal(t, "Fix login", h.fake.running()["description"])
	})
}

// =============================================================================
// Config Tests
// =============================================================================

func TestConfigSetShow(t *testing.T) {
	h := setup(t)

	_, _, err := h.runRaw("config", "set", "default_workspace", "Work")
	require.NoError(t, err)

	_, _, err = h.runRaw("token", "set", "abcdefghijkl")
	require.NoError(t, err)

	out, _, err := h.runRaw("config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "default_workspace: Work")
	assert.NotContains(t, out, "abcdefghijkl")
	assert.Zero(t, h.fake.count())
}

func TestConfigSetRejects(t *testing.T) {
	h := setup(t)

	t.Run("unknown_key", func(t *testing.T) {
		_, _, err := h.runRaw("config", "set", "colour", "red")
		require.Error(t, err)
		assert.True(t, apperrors.IsUserError(err))
	})

	t.Run("negative_days", func(t *testing.T) {
		_, _, err := h.runRaw("config", "set", "default_time_entry_window_start_days", "-3")
		require.Error(t, err)
		assert.True(t, apperrors.IsUserError(err))
	})
}

func TestTokenSetFromStdin(t *testing.T) {
	h := setup(t)

	resetFlags(rootCmd)
	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader("  fromstdin1234\n"))
	rootCmd.SetArgs([]string{"token", "set", "--config", h.config, "--color", "never"})
	require.NoError(t, Execute())
	assert.Contains(t, stdout.String(), "Stored token")
	assert.NotContains(t, stdout.String(), "fromstdin1234")

	out, _, err := h.runRaw("config", "show", "--format", "json")
	require.NoError(t, err)
	var shown struct {
		Settings map[string]any `json:"settings"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.NotEqual(t, "fromstdin1234", shown.Settings["api_token"])
	assert.NotEmpty(t, shown.Settings["api_token"])
}

// =============================================================================
// Completion Tests
// =============================================================================

func TestCompleteNames(t *testing.T) {
	got, directive := completeNames([]string{"Website", "work", "Docs"}, "W")
	assert.Equal(t, []string{"Website", "work"}, got)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
}
