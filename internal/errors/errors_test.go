package errors

import (
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ResolutionError Tests
// =============================================================================

func TestResolutionError(t *testing.T) {
	t.Run("not_found", func(t *testing.T) {
		err := NewResolutionError("project", "Alpha", 0)
		assert.Equal(t, `project "Alpha" not found`, err.Error())
		assert.True(t, IsNotFound(err))
		assert.False(t, IsAmbiguous(err))
		assert.True(t, IsResolution(err))
	})

	t.Run("ambiguous", func(t *testing.T) {
		err := NewResolutionError("tag", "", 3)
		assert.Equal(t, "tag is ambiguous: 3 matches", err.Error())
		assert.True(t, IsAmbiguous(err))
		assert.False(t, IsNotFound(err))
	})

	t.Run("wrapped", func(t *testing.T) {
		err := fmt.Errorf("resolve workspace: %w", NewResolutionError("workspace", "W", 0))
		re, ok := AsResolutionError(err)
		require.True(t, ok)
		assert.Equal(t, "workspace", re.Kind)
		assert.True(t, IsWarning(err))
	})
}

// =============================================================================
// UserError Tests
// =============================================================================

func TestUserErrorError(t *testing.T) {
	t.Run("without_field", func(t *testing.T) {
		err := NewUserError("invalid input", "")
		assert.Equal(t, "invalid input", err.Error())
	})

	t.Run("with_field", func(t *testing.T) {
		err := NewUserErrorWithField("color", "magenta", "invalid color", "")
		assert.Equal(t, "invalid color: 'magenta'", err.Error())
	})

	t.Run("cause", func(t *testing.T) {
		err := &UserError{Message: "bad", Cause: ErrInvalidColor}
		assert.True(t, errors.Is(err, ErrInvalidColor))
	})
}

func TestIsUserError(t *testing.T) {
	assert.True(t, IsUserError(fmt.Errorf("ctx: %w", NewUserError("x", ""))))
	assert.False(t, IsUserError(errors.New("plain")))
	assert.False(t, IsUserError(nil))
}

// =============================================================================
// Constraint and Remote Tests
// =============================================================================

func TestConstraintError(t *testing.T) {
	cause := errors.New("FOREIGN KEY constraint failed")
	err := &ConstraintError{Kind: "project", ID: 10, Cause: cause}
	assert.True(t, IsConstraint(err))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "project 10")
	assert.Equal(t, CategoryConstraint, Classify(err))
}

func TestRemoteError(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		err := &RemoteError{Op: "download tags", StatusCode: 403}
		assert.Equal(t, "download tags: HTTP 403", err.Error())
		assert.True(t, IsRemote(err))
		re, ok := AsRemoteError(fmt.Errorf("wrap: %w", err))
		require.True(t, ok)
		assert.Equal(t, 403, re.StatusCode)
	})

	t.Run("transport", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := &RemoteError{Op: "download user", Cause: cause}
		assert.Contains(t, err.Error(), "connection refused")
		assert.True(t, errors.Is(err, cause))
		assert.Equal(t, CategoryRemote, Classify(err))
	})
}

// =============================================================================
// Classification Tests
// =============================================================================

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"nil", nil, CategoryUnknown},
		{"plain", errors.New("x"), CategoryUnknown},
		{"user", NewUserError("x", ""), CategoryUser},
		{"resolution", NewResolutionError("tag", "", 0), CategoryResolution},
		{"system", NewSystemError("x", nil), CategorySystem},
		{"errno", fmt.Errorf("write: %w", syscall.ENOSPC), CategorySystem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "user", CategoryUser.String())
	assert.Equal(t, "resolution", CategoryResolution.String())
	assert.Equal(t, "remote", CategoryRemote.String())
	assert.Equal(t, "unknown", Category(99).String())
}

func TestFormatByCategory(t *testing.T) {
	assert.Equal(t, "", FormatByCategory(nil))

	msg := FormatByCategory(NewResolutionError("project", "P", 0))
	assert.Contains(t, msg, "not found")
	assert.Contains(t, msg, "Try:")

	msg = FormatByCategory(&RemoteError{Op: "stop", StatusCode: 500})
	assert.Contains(t, msg, "Toggl error")
}

// =============================================================================
// Suggestion and Wrap Tests
// =============================================================================

func TestGetSuggestion(t *testing.T) {
	assert.Equal(t, "", GetSuggestion(nil))
	assert.Equal(t, Suggestions[ErrMissingToken], GetSuggestion(fmt.Errorf("x: %w", ErrMissingToken)))
	assert.Equal(t, "do this", GetSuggestion(&UserError{Message: "m", Suggestion: "do this", Cause: ErrInvalidColor}))
}

func TestWrapAndRootCause(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ctx"))
	assert.Nil(t, Wrapf(nil, "ctx %d", 1))

	base := errors.New("root")
	err := Wrapf(Wrap(base, "inner"), "outer %d", 2)
	assert.Equal(t, "outer 2: inner: root", err.Error())
	assert.Equal(t, base, RootCause(err))
	assert.True(t, errors.Is(err, base))
	assert.Equal(t, ErrInvalidColor, RootCause(&UserError{Message: "m", Cause: ErrInvalidColor}))
	assert.Nil(t, Join(nil, nil))
}
