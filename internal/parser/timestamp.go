// Package parser turns user-supplied time expressions into times and
// durations.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"

	"github.com/manav03panchal/togglcmder/internal/model"
)

// relativeRegex matches "now" with an optional offset, like "now-2d" or
// "now + 30m".
var relativeRegex = regexp.MustCompile(`(?i)^now(?:\s*([+-])\s*(\d+)\s*([ydhms]))?$`)

// ParseTime parses a time expression relative to now. Accepted forms, tried
// in order:
//   - "now", optionally offset: "now-2d", "now+1h", "now-30m", "now-1y"
//   - ISO-8601, with or without zone offset (no offset means local time)
//   - natural language: "yesterday at 3pm", "2 hours ago", "9am"
func ParseTime(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, NewTimestampError(input)
	}

	if m := relativeRegex.FindStringSubmatch(input); m != nil {
		return applyOffset(now, m[1], m[2], m[3]), nil
	}

	if t, err := model.ParseTimestamp(input); err == nil {
		return t, nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}
	result, err := dateparser.Parse(cfg, input)
	if err != nil || result.Time.IsZero() {
		return time.Time{}, NewTimestampError(input)
	}
	return result.Time.In(time.Local), nil
}

func applyOffset(now time.Time, sign, amount, unit string) time.Time {
	if sign == "" {
		return now
	}
	n, _ := strconv.Atoi(amount)
	if sign == "-" {
		n = -n
	}
	switch strings.ToLower(unit) {
	case "y":
		return now.AddDate(n, 0, 0)
	case "d":
		return now.AddDate(0, 0, n)
	case "h":
		return now.Add(time.Duration(n) * time.Hour)
	case "m":
		return now.Add(time.Duration(n) * time.Minute)
	default:
		return now.Add(time.Duration(n) * time.Second)
	}
}

// TimeRange represents a half-open time range.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// ParseRange parses optional start and end expressions. An empty expression
// leaves that bound zero (open).
func ParseRange(start, end string, now time.Time) (TimeRange, error) {
	var (
		r   TimeRange
		err error
	)
	if start != "" {
		if r.Start, err = ParseTime(start, now); err != nil {
			return TimeRange{}, err
		}
	}
	if end != "" {
		if r.End, err = ParseTime(end, now); err != nil {
			return TimeRange{}, err
		}
	}
	if !r.Start.IsZero() && !r.End.IsZero() && !r.End.After(r.Start) {
		return TimeRange{}, NewDateRangeError(start + " .. " + end)
	}
	return r, nil
}
