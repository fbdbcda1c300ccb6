package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/manav03panchal/togglcmder/internal/errors"
	"github.com/manav03panchal/togglcmder/internal/model"
)

// =============================================================================
// Validation Tests
// =============================================================================

func TestName(t *testing.T) {
	assert.NoError(t, Name("project", "Alpha"))

	err := Name("project", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsUserError(err))

	assert.Error(t, Name("tag", strings.Repeat("x", MaxNameLength+1)))
	assert.NoError(t, Name("tag", strings.Repeat("é", MaxNameLength)))
}

func TestDescription(t *testing.T) {
	assert.NoError(t, Description(""))
	assert.NoError(t, Description("writing code"))
	assert.Error(t, Description(strings.Repeat("d", MaxDescriptionLength+1)))
}

func TestTags(t *testing.T) {
	assert.NoError(t, Tags(nil))
	assert.NoError(t, Tags([]string{"a", "b"}))
	assert.Error(t, Tags([]string{"a", ""}))
	assert.Error(t, Tags(make([]string, MaxTags+1)))
}

func TestColor(t *testing.T) {
	c, err := Color("")
	require.NoError(t, err)
	assert.Equal(t, model.ColorNone, c)

	c, err = Color("Purple")
	require.NoError(t, err)
	assert.Equal(t, model.ColorPurple, c)

	_, err = Color("teal")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidColor))
	assert.Equal(t, "Invalid color: 'teal'", err.Error())
}

func TestStopOrDuration(t *testing.T) {
	assert.NoError(t, StopOrDuration("", ""))
	assert.NoError(t, StopOrDuration("now", ""))
	assert.NoError(t, StopOrDuration("", "1h"))
	assert.Error(t, StopOrDuration("now", "1h"))
}

// =============================================================================
// Sanitize Tests
// =============================================================================

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "Alpha", SanitizeName("  Alpha\t"))
	assert.Equal(t, "AB", SanitizeName("A\x00B"))
}

func TestSanitizeDescription(t *testing.T) {
	assert.Equal(t, "line one line two", SanitizeDescription(" line one\r\nline two "))
	assert.Equal(t, "ab", SanitizeDescription("a\x00b"))
}

func TestSplitTags(t *testing.T) {
	assert.Nil(t, SplitTags(nil))
	assert.Equal(t, []string{"a", "b", "c"}, SplitTags([]string{"a,b", " c ", "a", ","}))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "abcdefg...", TruncateString("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", TruncateString("abcdef", 2))
	assert.Equal(t, "ééé...", TruncateString("éééééééé", 6))
}
