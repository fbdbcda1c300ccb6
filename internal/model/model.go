// Package model defines the domain models for togglcmder.
//
// Every entity is a value: fields are set at construction and never modified
// in place. Modified copies are produced with the With method and a list of
// options.
package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Entity kinds, used as labels in logs, errors and the state store.
const (
	KindWorkspace = "workspace"
	KindProject   = "project"
	KindTag       = "tag"
	KindTimeEntry = "time_entry"
	KindUser      = "user"
)

// timestampLayouts are the ISO-8601 forms accepted by ParseTimestamp.
// Layouts without a zone are interpreted in the local time zone.
var timestampLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339Nano, true},
	{"2006-01-02T15:04:05-0700", true},
	{"2006-01-02T15:04:05.999999999-0700", true},
	{"2006-01-02T15:04:05.999999999", false},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02", false},
}

// FromEpoch converts UTC epoch seconds to a time in the local time zone.
func FromEpoch(sec int64) time.Time {
	return time.Unix(sec, 0).In(time.Local)
}

// ParseTimestamp parses an ISO-8601 timestamp. A timestamp without a zone
// offset is taken to be in the local time zone. The result is in local time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if l.zoned {
			t, err = time.Parse(l.layout, s)
		} else {
			t, err = time.ParseInLocation(l.layout, s, time.Local)
		}
		if err == nil {
			return t.In(time.Local), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO-8601 timestamp %q", s)
}

// NormalizeDuration turns a wire duration into elapsed seconds. A negative
// value marks a running entry and encodes -(start epoch), so the elapsed time
// is now + raw. The result depends on now and must be recomputed on every
// decode.
func NormalizeDuration(raw int64, now time.Time) int64 {
	if raw < 0 {
		return now.Unix() + raw
	}
	return raw
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func equalInt64Ptr(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func lessName(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	return slices.Clone(tags)
}
