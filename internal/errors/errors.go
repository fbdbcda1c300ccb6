// Package errors provides the error types used across togglcmder.
//
// Errors fall into four groups: resolution errors (a lookup found zero or
// several candidates where one was required), constraint errors raised by the
// cache, remote errors raised by the Toggl API, and the general UserError and
// SystemError types for input and environment problems.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common conditions.
var (
	ErrNotFound        = errors.New("no matching entity found")
	ErrAmbiguous       = errors.New("more than one matching entity found")
	ErrConstraint      = errors.New("cache constraint violated")
	ErrRemote          = errors.New("remote request failed")
	ErrMissingToken    = errors.New("no API token configured")
	ErrNoRunningEntry  = errors.New("no time entry is running")
	ErrMultipleNeeded  = errors.New("several entities matched; pass --multiple to act on all of them")
	ErrInvalidColor    = errors.New("invalid project color")
	ErrInvalidTime     = errors.New("invalid time expression")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrEndBeforeStart  = errors.New("stop time must be after start time")
	ErrDuplicateEntry  = errors.New("a time entry with this description already exists")
)

// ResolutionError reports that a lookup did not narrow down to exactly one
// entity. It wraps ErrNotFound or ErrAmbiguous.
type ResolutionError struct {
	Kind     string // entity kind, e.g. "project"
	Criteria string // what the user searched for (optional)
	Count    int    // number of candidates left
}

func (e *ResolutionError) Error() string {
	what := e.Kind
	if e.Criteria != "" {
		what = fmt.Sprintf("%s %q", e.Kind, e.Criteria)
	}
	if e.Count == 0 {
		return fmt.Sprintf("%s not found", what)
	}
	return fmt.Sprintf("%s is ambiguous: %d matches", what, e.Count)
}

func (e *ResolutionError) Unwrap() error {
	if e.Count == 0 {
		return ErrNotFound
	}
	return ErrAmbiguous
}

// NewResolutionError creates a ResolutionError for count candidates.
func NewResolutionError(kind, criteria string, count int) *ResolutionError {
	return &ResolutionError{Kind: kind, Criteria: criteria, Count: count}
}

// UserError represents an error that the user can fix.
// Examples: invalid input, missing required flags, incorrect format.
type UserError struct {
	Message    string // What happened
	Reason     string // Why it happened (optional)
	Suggestion string // How to fix it
	Field      string // The field/input that caused the error (optional)
	Value      string // The invalid value (optional)
	Cause      error  // Sentinel or underlying error (optional)
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Field != "" && e.Value != "" {
		msg = fmt.Sprintf("%s: '%s'", e.Message, e.Value)
	}
	return msg
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

// NewUserError creates a new UserError.
func NewUserError(message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Suggestion: suggestion,
	}
}

// NewUserErrorWithField creates a new UserError with field context.
func NewUserErrorWithField(field, value, message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Field:      field,
		Value:      value,
		Suggestion: suggestion,
	}
}

// SystemError represents an environment error the user cannot directly fix,
// such as an unreadable cache file.
type SystemError struct {
	Message string // What happened
	Cause   error  // The underlying error
	Op      string // The operation that failed (optional)
}

func (e *SystemError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s during %s", e.Message, e.Op)
	}
	return e.Message
}

func (e *SystemError) Unwrap() error {
	return e.Cause
}

// NewSystemError creates a new SystemError.
func NewSystemError(message string, cause error) *SystemError {
	return &SystemError{
		Message: message,
		Cause:   cause,
	}
}

// NewSystemErrorWithOp creates a new SystemError with operation context.
func NewSystemErrorWithOp(op, message string, cause error) *SystemError {
	return &SystemError{
		Message: message,
		Cause:   cause,
		Op:      op,
	}
}

// ConstraintError is a cache write rejected by a foreign-key or uniqueness
// rule outside the insert-then-update path. It wraps ErrConstraint and the
// driver error.
type ConstraintError struct {
	Kind  string
	ID    int64
	Cause error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("cache %s %d: %v", e.Kind, e.ID, e.Cause)
}

func (e *ConstraintError) Unwrap() []error {
	return []error{ErrConstraint, e.Cause}
}

// RemoteError is a failed call to the time-tracking service.
type RemoteError struct {
	Op         string // e.g. "download projects"
	StatusCode int    // 0 when no response was received
	Cause      error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Cause)
	}
	return e.Op
}

func (e *RemoteError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrRemote}
	}
	return []error{ErrRemote, e.Cause}
}

// IsUserError checks if an error is a UserError.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

// IsSystemError checks if an error is a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

// IsNotFound reports whether err is a resolution error with no candidates.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAmbiguous reports whether err is a resolution error with several candidates.
func IsAmbiguous(err error) bool {
	return errors.Is(err, ErrAmbiguous)
}

// IsResolution reports whether err is a not-found or ambiguous error.
func IsResolution(err error) bool {
	return IsNotFound(err) || IsAmbiguous(err)
}

// IsConstraint reports whether err is a cache constraint violation.
func IsConstraint(err error) bool {
	return errors.Is(err, ErrConstraint)
}

// IsRemote reports whether err came from the remote service.
func IsRemote(err error) bool {
	return errors.Is(err, ErrRemote)
}

// AsUserError extracts a UserError from an error chain.
func AsUserError(err error) (*UserError, bool) {
	var ue *UserError
	ok := errors.As(err, &ue)
	return ue, ok
}

// AsSystemError extracts a SystemError from an error chain.
func AsSystemError(err error) (*SystemError, bool) {
	var se *SystemError
	ok := errors.As(err, &se)
	return se, ok
}

// AsRemoteError extracts a RemoteError from an error chain.
func AsRemoteError(err error) (*RemoteError, bool) {
	var re *RemoteError
	ok := errors.As(err, &re)
	return re, ok
}

// AsResolutionError extracts a ResolutionError from an error chain.
func AsResolutionError(err error) (*ResolutionError, bool) {
	var re *ResolutionError
	ok := errors.As(err, &re)
	return re, ok
}
