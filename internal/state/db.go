// Package state keeps small session records between invocations: when each
// entity kind was last synced and which time entry was stopped last.
package state

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	badger "github.com/dgraph-io/badger/v4"
)

const (
	// AppName is the application name used for data directories.
	AppName = "togglcmder"
)

// Store wraps a Badger database.
type Store struct {
	db   *badger.DB
	path string
}

// Options configures the store.
type Options struct {
	// Path is the database directory path. Empty string uses in-memory mode.
	Path string
	// InMemory forces in-memory mode regardless of Path.
	InMemory bool
}

// DefaultPath returns the default state directory following XDG spec.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, AppName, "state")
}

// Open opens or creates the store.
func Open(opts Options) (*Store, error) {
	var badgerOpts badger.Options
	path := ""

	if opts.InMemory || opts.Path == "" {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Path, 0o755); err != nil {
			return nil, err
		}
		badgerOpts = badger.DefaultOptions(opts.Path)
		path = opts.Path
	}

	// Reduce logging noise
	badgerOpts = badgerOpts.WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the store. Closing twice is a no-op.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Path returns the directory of the store, empty when in memory.
func (s *Store) Path() string {
	return s.path
}
