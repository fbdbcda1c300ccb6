// Package runtime provides the per-invocation context shared by commands.
package runtime

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/manav03panchal/togglcmder/internal/cache"
	"github.com/manav03panchal/togglcmder/internal/config"
	apperrors "github.com/manav03panchal/togglcmder/internal/errors"
	"github.com/manav03panchal/togglcmder/internal/logging"
	"github.com/manav03panchal/togglcmder/internal/output"
	"github.com/manav03panchal/togglcmder/internal/state"
	"github.com/manav03panchal/togglcmder/internal/sync"
	"github.com/manav03panchal/togglcmder/internal/toggl"
)

// EnvCache overrides the cache location; ":memory:" keeps both the cache and
// the session state in memory.
const EnvCache = "TOGGLCMDER_CACHE"

// Context holds everything one invocation works with.
type Context struct {
	Config    *config.Config
	Cache     *cache.Cache
	State     *state.Store
	Remote    *toggl.Client
	Syncer    *sync.Syncer
	Formatter *output.Formatter
	Logger    *slog.Logger

	// Selection is filled by the command group before a subcommand runs.
	Selection *sync.Selection

	Now func() time.Time

	logCloser io.Closer
}

// Options configures the runtime context.
type Options struct {
	// ConfigPath is the config file; empty uses the default location.
	ConfigPath string
	// Token overrides the configured API token.
	Token string
	// Sync downloads from Toggl before reading.
	Sync bool
	// Verbosity is the -v count.
	Verbosity int
	InMemory  bool
	Format    output.Format
	ColorMode output.ColorMode

	// Stdout and Stderr default to the process streams.
	Stdout io.Writer
	Stderr io.Writer
	// HTTPClient replaces the default Toggl transport.
	HTTPClient *http.Client
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		Sync:      true,
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
	}
}

// New loads the config and opens the cache and session state.
func New(ctx context.Context, opts Options) (*Context, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Token != "" {
		cfg.APIToken = opts.Token
	}

	cachePath := cfg.CachePath
	if envPath := os.Getenv(EnvCache); envPath != "" {
		if envPath == ":memory:" {
			opts.InMemory = true
		} else {
			cachePath = envPath
		}
	}

	if cachePath == "" && !opts.InMemory {
		cachePath = cache.DefaultPath()
	}

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	logFile := cfg.LogFile
	if logFile == "" && !opts.InMemory {
		logFile = logging.DefaultFile()
	}
	logger, logCloser := logging.New(logging.Config{
		Level:      logging.LevelFromVerbosity(opts.Verbosity),
		JSON:       opts.Format == output.FormatJSON,
		Output:     stderr,
		File:       logFile,
		MaxSizeMB:  cfg.Runtime.Log.MaxSizeMB,
		MaxBackups: cfg.Runtime.Log.MaxBackups,
	})
	logger = logging.WithContext(ctx, logger)

	c := &Context{
		Config:    cfg,
		Logger:    logger,
		Now:       time.Now,
		logCloser: logCloser,
	}

	c.Cache, err = cache.Open(ctx, cache.Options{Path: cachePath, InMemory: opts.InMemory, Logger: logger})
	if err != nil {
		c.Close()
		return nil, apperrors.NewSystemError("failed to open cache", err)
	}

	statePath := cfg.StatePath
	if statePath == "" && !opts.InMemory {
		statePath = state.DefaultPath()
	}
	c.State, err = state.Open(state.Options{Path: statePath, InMemory: opts.InMemory})
	if err != nil {
		c.Close()
		return nil, apperrors.NewSystemError("failed to open session state", err)
	}

	c.Remote = toggl.New(toggl.Options{
		BaseURL:    cfg.APIURL,
		Token:      cfg.APIToken,
		UserAgent:  cfg.Runtime.HTTP.UserAgent,
		Timeout:    cfg.Runtime.HTTP.Timeout,
		Logger:     logger,
		HTTPClient: opts.HTTPClient,
	})

	c.Syncer = sync.New(c.Remote, c.Cache, sync.Options{
		Enabled:  opts.Sync,
		Logger:   logger,
		Recorder: c.State,
		Now:      func() time.Time { return c.Now() },
	})

	c.Formatter = output.NewFormatter()
	if opts.Stdout != nil {
		c.Formatter.Writer = opts.Stdout
	}
	c.Formatter.Format = opts.Format
	c.Formatter.ColorMode = opts.ColorMode

	logger.DebugContext(ctx, "runtime ready",
		"config", cfg.Path(),
		"sync", opts.Sync,
		"in_memory", opts.InMemory,
	)
	return c, nil
}

// Close closes the cache, the session state and the log file.
func (c *Context) Close() error {
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.State != nil {
		errs = append(errs, c.State.Close())
	}
	if c.logCloser != nil {
		errs = append(errs, c.logCloser.Close())
	}
	return apperrors.Join(errs...)
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.Format == output.FormatJSON
}

// RequireToken fails when no API token is configured.
func (c *Context) RequireToken() error {
	if c.Config.APIToken == "" {
		return apperrors.ErrMissingToken
	}
	return nil
}

// DefaultWindow is the configured time entry window ending now.
func (c *Context) DefaultWindow() sync.Window {
	return sync.DefaultWindow(c.Now(), c.Config.WindowStartDays, c.Config.WindowStopDays)
}

// Select loads a selection and keeps it on the context.
func (c *Context) Select(ctx context.Context, criteria sync.Criteria) (*sync.Selection, error) {
	sel, err := c.Syncer.Select(ctx, criteria)
	if err != nil {
		return nil, err
	}
	c.Selection = sel
	return sel, nil
}

// Lookup indexes the names in the current selection.
func (c *Context) Lookup() output.Lookup {
	if c.Selection == nil {
		return output.NewLookup(nil, nil)
	}
	return output.NewLookup(c.Selection.Workspaces, c.Selection.Projects)
}
