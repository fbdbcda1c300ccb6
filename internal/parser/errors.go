package parser

import (
	"fmt"
	"strings"

	"github.com/manav03panchal/togglcmder/internal/errors"
)

// TimeParseError represents a time parsing error with helpful suggestions.
type TimeParseError struct {
	Input    string
	Field    string
	Message  string
	Examples []string
	Cause    error
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("invalid %s '%s': %s", e.Field, e.Input, e.Message)
}

func (e *TimeParseError) Unwrap() error {
	return e.Cause
}

// FormatWithExamples returns the error message with example suggestions.
func (e *TimeParseError) FormatWithExamples() string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	if len(e.Examples) > 0 {
		sb.WriteString("\n\nValid examples:\n")
		for _, ex := range e.Examples {
			sb.WriteString("  - ")
			sb.WriteString(ex)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// DurationExamples provides example duration formats.
var DurationExamples = []string{
	"1h30m",
	"90m",
	"2 hours",
	"3600",
}

// TimestampExamples provides example timestamp formats.
var TimestampExamples = []string{
	"now",
	"now-2d",
	"now+30m",
	"2024-03-05T09:30:00",
	"2024-03-05T09:30:00+01:00",
	"yesterday at 3pm",
}

// NewDurationError creates an error for an unparseable duration.
func NewDurationError(input string) *TimeParseError {
	return &TimeParseError{
		Input:    input,
		Field:    "duration",
		Message:  "not a positive duration",
		Examples: DurationExamples,
		Cause:    errors.ErrInvalidDuration,
	}
}

// NewTimestampError creates an error for an unparseable time expression.
func NewTimestampError(input string) *TimeParseError {
	return &TimeParseError{
		Input:    input,
		Field:    "time",
		Message:  "could not understand time",
		Examples: TimestampExamples,
		Cause:    errors.ErrInvalidTime,
	}
}

// NewDateRangeError creates an error for a range whose end is not after its start.
func NewDateRangeError(input string) *TimeParseError {
	return &TimeParseError{
		Input:   input,
		Field:   "range",
		Message: "end must be after start",
		Cause:   errors.ErrEndBeforeStart,
	}
}

// ToUserError converts the parse error to a UserError for display.
func (e *TimeParseError) ToUserError() *errors.UserError {
	ue := &errors.UserError{
		Message: e.Error(),
		Field:   e.Field,
		Cause:   e,
	}
	if len(e.Examples) > 0 {
		ue.Suggestion = "Examples: " + strings.Join(e.Examples, ", ")
	}
	return ue
}
