// Package cache provides the local SQLite mirror of Toggl entities.
//
// Every public operation runs in its own transaction and commits before it
// returns. Batch updates insert each item and fall back to an update by
// identifier when the row already exists; an item that fails for any other
// reason is rolled back on its own and reported, while the rest of the batch
// still commits.
package cache

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/ncruces/go-sqlite3"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/pressly/goose/v3"

	apperrors "github.com/manav03panchal/togglcmder/internal/errors"
	"github.com/manav03panchal/togglcmder/internal/logging"
)

const (
	// AppName is the application name used for data directories.
	AppName = "togglcmder"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Cache wraps the SQLite connection holding the mirrored entities.
type Cache struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Options configures the cache connection.
type Options struct {
	// Path is the database file path. Empty string uses in-memory mode.
	Path string
	// InMemory forces in-memory mode regardless of Path.
	InMemory bool
	// Logger receives debug and warning events. Nil discards them.
	Logger *slog.Logger
}

// DefaultPath returns the default cache path following the XDG spec.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, AppName, "cache.db")
}

// Open opens or creates the cache and brings its schema up to date.
func Open(ctx context.Context, opts Options) (*Cache, error) {
	dsn := "file::memory:"
	path := ":memory:"
	if !opts.InMemory && opts.Path != "" {
		path = opts.Path
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
			return nil, apperrors.Wrap(err, "failed to create cache directory")
		}
		dsn = "file:" + opts.Path
	}

	db, err := sql.Open("sqlite3", dsn+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open cache")
	}

	// One connection: keeps an in-memory database alive and matches the
	// single-writer model of the CLI.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, apperrors.Wrap(err, "failed to ping cache")
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, apperrors.Wrap(err, "failed to migrate cache")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Cache{db: db, path: path, logger: logger.With(logging.KeyComponent, "cache")}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, "migrations")
}

// Close closes the cache connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// Path returns the database file, or ":memory:".
func (c *Cache) Path() string {
	return c.path
}

// Stats holds row counts per relation.
type Stats struct {
	Workspaces    int64 `json:"workspaces"`
	Projects      int64 `json:"projects"`
	Tags          int64 `json:"tags"`
	TimeEntries   int64 `json:"time_entries"`
	TimeEntryTags int64 `json:"time_entry_tags"`
	Users         int64 `json:"users"`
}

// Stats counts the rows in every relation.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	counts := []struct {
		table string
		dst   *int64
	}{
		{"workspaces", &s.Workspaces},
		{"projects", &s.Projects},
		{"tags", &s.Tags},
		{"time_entries", &s.TimeEntries},
		{"time_entry_tags", &s.TimeEntryTags},
		{"users", &s.Users},
	}
	for _, cnt := range counts {
		if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+cnt.table).Scan(cnt.dst); err != nil {
			return Stats{}, apperrors.Wrapf(err, "count %s", cnt.table)
		}
	}
	return s, nil
}

// withTx runs fn in a transaction, committing on success.
func (c *Cache) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// updateBatch writes items inside one transaction. Each item runs under its
// own savepoint: insert first, update by identifier on a key collision. A
// failing item is rolled back to its savepoint and its error is collected.
func updateBatch[T any](
	ctx context.Context,
	c *Cache,
	kind string,
	items []T,
	id func(T) int64,
	insert, update func(ctx context.Context, tx *sql.Tx, item T) (int64, error),
) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	var (
		total    int64
		itemErrs []error
	)
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		for _, item := range items {
			if _, err := tx.ExecContext(ctx, "SAVEPOINT item"); err != nil {
				return err
			}

			n, err := insert(ctx, tx, item)
			if isCollision(err) {
				n, err = update(ctx, tx, item)
			}
			if err != nil {
				if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO item"); rbErr != nil {
					return rbErr
				}
				itemErrs = append(itemErrs, classify(kind, id(item), err))
			} else {
				total += n
			}

			if _, err := tx.ExecContext(ctx, "RELEASE item"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, apperrors.Wrapf(err, "update %s cache", kind)
	}

	c.logger.Debug("rows affected",
		logging.KeyOperation, "update",
		logging.KeyKind, kind,
		logging.KeyCount, total,
		"failed", len(itemErrs),
	)
	return total, errors.Join(itemErrs...)
}

// isCollision reports whether err is the primary-key or uniqueness violation
// that signals an existing row.
func isCollision(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sqlite3.CONSTRAINT_PRIMARYKEY) || errors.Is(err, sqlite3.CONSTRAINT_UNIQUE) {
		return true
	}
	return errors.Is(err, sqlite3.CONSTRAINT) && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsForeignKeyError reports whether err is a foreign-key violation.
func IsForeignKeyError(err error) bool {
	if errors.Is(err, sqlite3.CONSTRAINT_FOREIGNKEY) {
		return true
	}
	return errors.Is(err, sqlite3.CONSTRAINT) && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// classify wraps constraint violations in a ConstraintError.
func classify(kind string, id int64, err error) error {
	if errors.Is(err, sqlite3.CONSTRAINT) {
		return &apperrors.ConstraintError{Kind: kind, ID: id, Cause: err}
	}
	return apperrors.Wrapf(err, "%s %d", kind, id)
}

// remove deletes the rows matched by stmts in one transaction.
func (c *Cache) remove(ctx context.Context, kind string, id int64, stmts ...string) error {
	var total int64
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range stmts {
			res, err := tx.ExecContext(ctx, stmt, id)
			if err != nil {
				return err
			}
			n, _ := res.RowsAffected()
			total += n
		}
		return nil
	})
	if err != nil {
		return apperrors.Wrapf(err, "remove %s %d", kind, id)
	}
	c.logger.Debug("rows affected",
		logging.KeyOperation, "remove",
		logging.KeyKind, kind,
		logging.KeyID, id,
		logging.KeyCount, total,
	)
	return nil
}

// toEpoch maps a time to a nullable epoch column; the zero time is NULL.
func toEpoch(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func toEpochPtr(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return toEpoch(*t)
}

func fromEpoch(v sql.NullInt64) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return time.Unix(v.Int64, 0).In(time.Local)
}

func fromEpochPtr(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromEpoch(v)
	return &t
}

func rowsAffected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
