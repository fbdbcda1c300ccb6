// Package sync decides, per invocation, whether entities come fresh from
// Toggl (and are written through to the cache) or from the cache alone.
//
// Neither source filters by workspace or project, so every method re-applies
// the relevant filters before returning.
package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/manav03panchal/togglcmder/internal/filter"
	"github.com/manav03panchal/togglcmder/internal/logging"
	"github.com/manav03panchal/togglcmder/internal/model"
)

// Remote is the subset of the Toggl client used for downloads.
type Remote interface {
	DownloadUser(ctx context.Context) (model.User, error)
	DownloadWorkspaces(ctx context.Context) ([]model.Workspace, error)
	DownloadProjects(ctx context.Context, ws model.Workspace) ([]model.Project, error)
	DownloadTags(ctx context.Context, ws model.Workspace) ([]model.Tag, error)
	DownloadTimeEntries(ctx context.Context, start, end time.Time) ([]model.TimeEntry, error)
	CurrentTimeEntry(ctx context.Context) (*model.TimeEntry, error)
}

// Store is the subset of the cache used by the syncer.
type Store interface {
	UpdateUser(ctx context.Context, u model.User) (int64, error)
	User(ctx context.Context) (*model.User, error)
	UpdateWorkspaces(ctx context.Context, ws []model.Workspace) (int64, error)
	Workspaces(ctx context.Context) ([]model.Workspace, error)
	UpdateProjects(ctx context.Context, ps []model.Project) (int64, error)
	Projects(ctx context.Context) ([]model.Project, error)
	UpdateTags(ctx context.Context, tags []model.Tag) (int64, error)
	Tags(ctx context.Context) ([]model.Tag, error)
	UpdateTimeEntries(ctx context.Context, es []model.TimeEntry) (int64, error)
	TimeEntries(ctx context.Context) ([]model.TimeEntry, error)
}

// Recorder remembers successful downloads.
type Recorder interface {
	RecordSync(kind string, count int, at time.Time) error
}

// Options configures a Syncer.
type Options struct {
	// Enabled downloads from Toggl before answering. When false only the
	// cache is read.
	Enabled  bool
	Logger   *slog.Logger
	Recorder Recorder
	Now      func() time.Time
}

// Syncer loads entities for one invocation.
type Syncer struct {
	remote   Remote
	store    Store
	recorder Recorder
	enabled  bool
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a Syncer.
func New(remote Remote, store Store, opts Options) *Syncer {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Syncer{
		remote:   remote,
		store:    store,
		recorder: opts.Recorder,
		enabled:  opts.Enabled,
		logger:   logger.With(logging.KeyComponent, "sync"),
		now:      now,
	}
}

// Enabled reports whether downloads are on.
func (s *Syncer) Enabled() bool {
	return s.enabled
}

// Window is the date range time entries are downloaded for.
type Window struct {
	Start time.Time
	End   time.Time
}

// DefaultWindow reaches startDays back from now and ends stopDays before now.
func DefaultWindow(now time.Time, startDays, stopDays int) Window {
	return Window{
		Start: now.AddDate(0, 0, -startDays),
		End:   now.AddDate(0, 0, -stopDays),
	}
}

// cached writes fresh data through to the cache. Failures are logged and the
// fresh data is still returned.
func (s *Syncer) cached(ctx context.Context, kind string, count int, update func() (int64, error)) {
	if count == 0 {
		return
	}
	n, err := update()
	if err != nil {
		s.logger.WarnContext(ctx, "cache update failed",
			logging.KeyKind, kind, logging.KeyCount, n, logging.KeyError, err)
	}
	s.record(ctx, kind, count)
}

func (s *Syncer) record(ctx context.Context, kind string, count int) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordSync(kind, count, s.now()); err != nil {
		s.logger.WarnContext(ctx, "failed to record sync", logging.KeyKind, kind, logging.KeyError, err)
	}
}

// User returns the account. Without sync the cached user is returned, which
// is nil when none was ever cached.
func (s *Syncer) User(ctx context.Context) (*model.User, error) {
	if !s.enabled {
		return s.store.User(ctx)
	}
	u, err := s.remote.DownloadUser(ctx)
	if err != nil {
		return nil, err
	}
	s.cached(ctx, model.KindUser, 1, func() (int64, error) { return s.store.UpdateUser(ctx, u) })
	return &u, nil
}

// Workspaces returns every workspace.
func (s *Syncer) Workspaces(ctx context.Context) ([]model.Workspace, error) {
	if !s.enabled {
		return s.store.Workspaces(ctx)
	}
	ws, err := s.remote.DownloadWorkspaces(ctx)
	if err != nil {
		return nil, err
	}
	s.cached(ctx, model.KindWorkspace, len(ws), func() (int64, error) { return s.store.UpdateWorkspaces(ctx, ws) })
	return ws, nil
}

// Projects returns the projects of ws.
func (s *Syncer) Projects(ctx context.Context, ws model.Workspace) ([]model.Project, error) {
	var ps []model.Project
	var err error
	if s.enabled {
		ps, err = s.remote.DownloadProjects(ctx, ws)
		if err != nil {
			return nil, err
		}
		s.cached(ctx, model.KindProject, len(ps), func() (int64, error) { return s.store.UpdateProjects(ctx, ps) })
	} else {
		ps, err = s.store.Projects(ctx)
		if err != nil {
			return nil, err
		}
	}
	return filter.ProjectsByWorkspace(ps, &ws), nil
}

// Tags returns the tags of ws.
func (s *Syncer) Tags(ctx context.Context, ws model.Workspace) ([]model.Tag, error) {
	var tags []model.Tag
	var err error
	if s.enabled {
		tags, err = s.remote.DownloadTags(ctx, ws)
		if err != nil {
			return nil, err
		}
		s.cached(ctx, model.KindTag, len(tags), func() (int64, error) { return s.store.UpdateTags(ctx, tags) })
	} else {
		tags, err = s.store.Tags(ctx)
		if err != nil {
			return nil, err
		}
	}
	return filter.TagsByWorkspace(tags, &ws), nil
}

// TimeEntries returns the entries of ws started inside w, narrowed to p when
// p is non-nil.
func (s *Syncer) TimeEntries(ctx context.Context, ws model.Workspace, w Window, p *model.Project) ([]model.TimeEntry, error) {
	es, err := s.timeEntries(ctx, w)
	if err != nil {
		return nil, err
	}
	return narrowEntries(es, ws, w, p), nil
}

// timeEntries loads the unfiltered entries for w. Downloads are narrowed to
// the window only, so every workspace is written through.
func (s *Syncer) timeEntries(ctx context.Context, w Window) ([]model.TimeEntry, error) {
	if !s.enabled {
		return s.store.TimeEntries(ctx)
	}
	es, err := s.remote.DownloadTimeEntries(ctx, w.Start, w.End)
	if err != nil {
		return nil, err
	}
	s.cached(ctx, model.KindTimeEntry, len(es), func() (int64, error) { return s.store.UpdateTimeEntries(ctx, es) })
	return es, nil
}

func narrowEntries(es []model.TimeEntry, ws model.Workspace, w Window, p *model.Project) []model.TimeEntry {
	es = filter.EntriesByWorkspace(es, &ws)
	es = filter.EntriesInRange(es, w.Start, w.End)
	return filter.EntriesByProject(es, p)
}

// Current returns the running entry from Toggl, or nil. It always asks the
// remote since the cache cannot know about entries started elsewhere.
func (s *Syncer) Current(ctx context.Context) (*model.TimeEntry, error) {
	return s.remote.CurrentTimeEntry(ctx)
}
