package state

import (
	"time"
)

const (
	prefixSync     = "sync:"
	keyLastStopped = "session:last_stopped"
)

// SyncRecord is the outcome of the last successful download of one kind.
type SyncRecord struct {
	Kind  string    `json:"kind"`
	At    time.Time `json:"at"`
	Count int       `json:"count"`
}

// RecordSync stores the time and size of a successful download.
func (s *Store) RecordSync(kind string, count int, at time.Time) error {
	return s.set(prefixSync+kind, SyncRecord{Kind: kind, At: at.UTC(), Count: count})
}

// LastSync returns the record for kind, or nil when it was never synced.
func (s *Store) LastSync(kind string) (*SyncRecord, error) {
	rec := &SyncRecord{}
	err := s.get(prefixSync+kind, rec)
	if IsErrKeyNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// SyncRecords returns every stored record ordered by kind.
func (s *Store) SyncRecords() ([]SyncRecord, error) {
	return listByPrefix[SyncRecord](s, prefixSync)
}

type lastStopped struct {
	ID int64     `json:"id"`
	At time.Time `json:"at"`
}

// SetLastStopped remembers the entry most recently stopped by this client.
func (s *Store) SetLastStopped(id int64, at time.Time) error {
	return s.set(keyLastStopped, lastStopped{ID: id, At: at.UTC()})
}

// LastStopped returns the id set by SetLastStopped. ok is false when nothing
// was recorded.
func (s *Store) LastStopped() (id int64, ok bool, err error) {
	var rec lastStopped
	err = s.get(keyLastStopped, &rec)
	if IsErrKeyNotFound(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return rec.ID, true, nil
}

// ClearLastStopped forgets the last stopped entry, e.g. after it was deleted.
func (s *Store) ClearLastStopped() error {
	return s.remove(keyLastStopped)
}
