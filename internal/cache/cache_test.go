package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/manav03panchal/togglcmder/internal/errors"
	"github.com/manav03panchal/togglcmder/internal/model"
)

// setupTestCache creates an in-memory cache for testing.
func setupTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(context.Background(), Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func epoch(sec int64) time.Time {
	return time.Unix(sec, 0)
}

func ptr[T any](v T) *T {
	return &v
}

// seed caches the workspace, project and tags shared by most tests.
func seed(t *testing.T, c *Cache) {
	t.Helper()
	ctx := context.Background()

	_, err := c.UpdateWorkspaces(ctx, []model.Workspace{{ID: 1, Name: "W", LastUpdated: epoch(1000)}})
	require.NoError(t, err)
	_, err = c.UpdateProjects(ctx, []model.Project{{ID: 10, Name: "P", WorkspaceID: 1, Color: model.ColorRed, LastUpdated: epoch(1000)}})
	require.NoError(t, err)
	_, err = c.UpdateTags(ctx, []model.Tag{
		{ID: 1, Name: "a", WorkspaceID: 1},
		{ID: 2, Name: "b", WorkspaceID: 1},
		{ID: 3, Name: "c", WorkspaceID: 1},
	})
	require.NoError(t, err)
}

// =============================================================================
// Open Tests
// =============================================================================

func TestOpen(t *testing.T) {
	t.Run("in_memory", func(t *testing.T) {
		c := setupTestCache(t)
		stats, err := c.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Stats{}, stats)
	})

	t.Run("file_persists", func(t *testing.T) {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "nested", "cache.db")

		c, err := Open(ctx, Options{Path: path})
		require.NoError(t, err)
		_, err = c.UpdateWorkspaces(ctx, []model.Workspace{{ID: 7, Name: "Persisted"}})
		require.NoError(t, err)
		require.NoError(t, c.Close())

		c, err = Open(ctx, Options{Path: path})
		require.NoError(t, err)
		defer c.Close()
		ws, err := c.Workspaces(ctx)
		require.NoError(t, err)
		require.Len(t, ws, 1)
		assert.Equal(t, "Persisted", ws[0].Name)
	})

	t.Run("close_twice", func(t *testing.T) {
		c, err := Open(context.Background(), Options{InMemory: true})
		require.NoError(t, err)
		require.NoError(t, c.Close())
		assert.NoError(t, c.Close())
	})
}

// =============================================================================
// Upsert Tests
// =============================================================================

func TestUpdateWorkspacesUpsert(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	n, err := c.UpdateWorkspaces(ctx, []model.Workspace{{ID: 1, Name: "W", LastUpdated: epoch(1000)}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = c.UpdateWorkspaces(ctx, []model.Workspace{{ID: 1, Name: "Renamed", LastUpdated: epoch(2000)}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	ws, err := c.Workspaces(ctx)
	require.NoError(t, err)
	require.Len(t, ws, 1)
	assert.Equal(t, "Renamed", ws[0].Name)
	assert.True(t, ws[0].LastUpdated.Equal(epoch(2000)))
}

func TestUpdateProjects(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()
	seed(t, c)

	t.Run("round_trip", func(t *testing.T) {
		created := epoch(500)
		p := model.Project{ID: 11, Name: "Q", WorkspaceID: 1, Color: model.ColorBlue, LastUpdated: epoch(900), Created: &created}
		_, err := c.UpdateProjects(ctx, []model.Project{p})
		require.NoError(t, err)

		ps, err := c.Projects(ctx)
		require.NoError(t, err)
		require.Len(t, ps, 2)
		assert.True(t, p.Equal(ps[1]), "got %+v", ps[1])
	})

	t.Run("null_created", func(t *testing.T) {
		ps, err := c.Projects(ctx)
		require.NoError(t, err)
		assert.Nil(t, ps[0].Created)
		assert.Equal(t, model.ColorRed, ps[0].Color)
	})

	t.Run("update_in_place", func(t *testing.T) {
		_, err := c.UpdateProjects(ctx, []model.Project{{ID: 10, Name: "P2", WorkspaceID: 1, Color: model.ColorGreen}})
		require.NoError(t, err)
		ps, err := c.Projects(ctx)
		require.NoError(t, err)
		require.Len(t, ps, 2)
		assert.Equal(t, "P2", ps[0].Name)
		assert.Equal(t, model.ColorGreen, ps[0].Color)
	})
}

func TestUpdateBatchPartialFailure(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()
	seed(t, c)

	n, err := c.UpdateTags(ctx, []model.Tag{
		{ID: 4, Name: "d", WorkspaceID: 1},
		{ID: 5, Name: "orphan", WorkspaceID: 99},
		{ID: 6, Name: "f", WorkspaceID: 1},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConstraint(err))
	assert.True(t, IsForeignKeyError(err))
	assert.Equal(t, int64(2), n)

	tags, err := c.Tags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "f"}, model.TagNames(tags))
}

func TestUpdateEmptyBatch(t *testing.T) {
	c := setupTestCache(t)
	n, err := c.UpdateProjects(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// =============================================================================
// Time Entry Tests
// =============================================================================

func TestTimeEntriesWithTags(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()
	seed(t, c)

	stop := epoch(5000)
	e1 := model.TimeEntry{
		ID: 100, Description: "first", Start: epoch(1000), Stop: &stop, Duration: 4000,
		ProjectID: ptr(int64(10)), WorkspaceID: 1, Tags: []string{"a", "b"}, LastUpdated: epoch(5000),
	}
	e2 := model.TimeEntry{
		ID: 101, Description: "second", Start: epoch(6000), Duration: 30,
		WorkspaceID: 1, Tags: []string{"c"}, LastUpdated: epoch(6000),
	}

	_, err := c.UpdateTimeEntries(ctx, []model.TimeEntry{e1, e2})
	require.NoError(t, err)

	es, err := c.TimeEntries(ctx)
	require.NoError(t, err)
	require.Len(t, es, 2)
	assert.True(t, e1.Equal(es[0]), "got %+v", es[0])
	assert.True(t, e2.Equal(es[1]), "got %+v", es[1])
	assert.Nil(t, es[1].Stop)
	assert.Nil(t, es[1].ProjectID)

	tags, err := c.Tags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 3)

	t.Run("rewrite_does_not_duplicate", func(t *testing.T) {
		_, err := c.UpdateTimeEntries(ctx, []model.TimeEntry{e1.With(model.AddTags("c"))})
		require.NoError(t, err)

		stats, err := c.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.TimeEntries)
		assert.Equal(t, int64(4), stats.TimeEntryTags)

		es, err := c.TimeEntries(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, es[0].Tags)
	})

	t.Run("upsert_never_unlinks", func(t *testing.T) {
		_, err := c.UpdateTimeEntries(ctx, []model.TimeEntry{e1.With(model.EntryTags([]string{"a"}))})
		require.NoError(t, err)
		es, err := c.TimeEntries(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, es[0].Tags)
	})

	t.Run("replace_tags_unlinks", func(t *testing.T) {
		_, err := c.ReplaceTimeEntryTags(ctx, e1.With(model.EntryTags([]string{"a"})))
		require.NoError(t, err)
		es, err := c.TimeEntries(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, es[0].Tags)
	})
}

func TestTimeEntryUnresolvedTags(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()
	seed(t, c)

	e := model.TimeEntry{ID: 200, Start: epoch(1000), WorkspaceID: 1, Tags: []string{"a", "missing"}}
	_, err := c.UpdateTimeEntries(ctx, []model.TimeEntry{e})
	require.NoError(t, err)

	es, err := c.TimeEntries(ctx)
	require.NoError(t, err)
	require.Len(t, es, 1)
	assert.Equal(t, []string{"a"}, es[0].Tags)
	assert.Equal(t, "", es[0].Description)
}

func TestTimeEntryTagsSharedNameAcrossWorkspaces(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()
	seed(t, c)

	_, err := c.UpdateWorkspaces(ctx, []model.Workspace{{ID: 2, Name: "Other", LastUpdated: epoch(1000)}})
	require.NoError(t, err)
	_, err = c.UpdateTags(ctx, []model.Tag{{ID: 7, Name: "a", WorkspaceID: 2}})
	require.NoError(t, err)

	e1 := model.TimeEntry{ID: 300, Start: epoch(1000), WorkspaceID: 1, Tags: []string{"a"}}
	e2 := model.TimeEntry{ID: 301, Start: epoch(2000), WorkspaceID: 2, Tags: []string{"a"}}
	_, err = c.UpdateTimeEntries(ctx, []model.TimeEntry{e1, e2})
	require.NoError(t, err)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TimeEntryTags)

	es, err := c.TimeEntries(ctx)
	require.NoError(t, err)
	require.Len(t, es, 2)
	assert.Equal(t, []string{"a"}, es[0].Tags)
	assert.Equal(t, []string{"a"}, es[1].Tags)

	// Removing the workspace 2 tag unlinks only the workspace 2 entry.
	require.NoError(t, c.RemoveTag(ctx, model.Tag{ID: 7, Name: "a", WorkspaceID: 2}))
	es, err = c.TimeEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, es[0].Tags)
	assert.Empty(t, es[1].Tags)

	t.Run("replace_keeps_one_link_per_name", func(t *testing.T) {
		_, err := c.ReplaceTimeEntryTags(ctx, e1.With(model.EntryTags([]string{"a", "b"})))
		require.NoError(t, err)
		es, err := c.TimeEntries(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, es[0].Tags)
	})
}

func TestTimeEntryMissingWorkspace(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	_, err := c.UpdateTimeEntries(ctx, []model.TimeEntry{{ID: 1, Start: epoch(1), WorkspaceID: 42}})
	require.Error(t, err)
	assert.True(t, apperrors.IsConstraint(err))

	es, err := c.TimeEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, es)
}

// =============================================================================
// Remove Tests
// =============================================================================

func TestRemove(t *testing.T) {
	ctx := context.Background()
	entries := []model.TimeEntry{
		{ID: 100, Start: epoch(1000), WorkspaceID: 1, ProjectID: ptr(int64(10)), Tags: []string{"a", "b"}},
		{ID: 101, Start: epoch(2000), WorkspaceID: 1, Tags: []string{"b"}},
	}

	t.Run("tag_removes_associations", func(t *testing.T) {
		c := setupTestCache(t)
		seed(t, c)
		_, err := c.UpdateTimeEntries(ctx, entries)
		require.NoError(t, err)

		require.NoError(t, c.RemoveTag(ctx, model.Tag{ID: 2}))

		stats, err := c.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.Tags)
		assert.Equal(t, int64(1), stats.TimeEntryTags)
	})

	t.Run("time_entry_removes_associations", func(t *testing.T) {
		c := setupTestCache(t)
		seed(t, c)
		_, err := c.UpdateTimeEntries(ctx, entries)
		require.NoError(t, err)

		require.NoError(t, c.RemoveTimeEntry(ctx, entries[0]))

		stats, err := c.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.TimeEntries)
		assert.Equal(t, int64(1), stats.TimeEntryTags)
	})

	t.Run("project_clears_reference", func(t *testing.T) {
		c := setupTestCache(t)
		seed(t, c)
		_, err := c.UpdateTimeEntries(ctx, entries)
		require.NoError(t, err)

		require.NoError(t, c.RemoveProject(ctx, model.Project{ID: 10}))

		es, err := c.TimeEntries(ctx)
		require.NoError(t, err)
		require.Len(t, es, 2)
		assert.Nil(t, es[0].ProjectID)
	})

	t.Run("workspace_cascades", func(t *testing.T) {
		c := setupTestCache(t)
		seed(t, c)
		_, err := c.UpdateTimeEntries(ctx, entries)
		require.NoError(t, err)

		require.NoError(t, c.RemoveWorkspace(ctx, model.Workspace{ID: 1}))

		stats, err := c.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, Stats{}, stats)
	})

	t.Run("missing_row_is_not_an_error", func(t *testing.T) {
		c := setupTestCache(t)
		assert.NoError(t, c.RemoveTag(ctx, model.Tag{ID: 404}))
	})
}

// =============================================================================
// User Tests
// =============================================================================

func TestUser(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	u, err := c.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)

	_, err = c.UpdateUser(ctx, model.User{ID: 1, Name: "me", APIToken: "t1", LastUpdated: epoch(10)})
	require.NoError(t, err)
	_, err = c.UpdateUser(ctx, model.User{ID: 1, Name: "me", APIToken: "t2", LastUpdated: epoch(20)})
	require.NoError(t, err)

	u, err = c.User(ctx)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "t2", u.APIToken)

	_, err = c.UpdateUser(ctx, model.User{ID: 2, Name: "other", APIToken: "t3"})
	require.NoError(t, err)
	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Users)

	require.NoError(t, c.RemoveUser(ctx, model.User{ID: 2}))
	u, err = c.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)
}
