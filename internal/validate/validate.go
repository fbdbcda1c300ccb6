// Package validate provides input validation helpers for togglcmder commands.
package validate

import (
	"unicode/utf8"

	"github.com/manav03panchal/togglcmder/internal/errors"
	"github.com/manav03panchal/togglcmder/internal/model"
)

const (
	// MaxNameLength is the maximum length for project, tag and workspace names.
	MaxNameLength = 255
	// MaxDescriptionLength is the maximum length for a time entry description.
	MaxDescriptionLength = 3000
	// MaxTags is the maximum number of tags on one time entry.
	MaxTags = 100
)

// Name validates the name of a project, tag or workspace. kind is used in
// messages.
func Name(kind, name string) error {
	if name == "" {
		return errors.NewUserErrorWithField(kind, name,
			kind+" name cannot be empty",
			"Provide a name with --name")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return errors.NewUserErrorWithField(kind, name,
			kind+" name too long",
			"Names must be 255 characters or fewer")
	}
	return nil
}

// Description validates a time entry description.
func Description(desc string) error {
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return errors.NewUserError(
			"Description too long",
			"Descriptions must be 3000 characters or fewer")
	}
	return nil
}

// Tags validates a list of tag names.
func Tags(tags []string) error {
	if len(tags) > MaxTags {
		return errors.NewUserError("Too many tags", "A time entry can carry at most 100 tags")
	}
	for _, t := range tags {
		if err := Name("tag", t); err != nil {
			return err
		}
	}
	return nil
}

// Color parses a color name. An empty name yields ColorNone.
func Color(name string) (model.Color, error) {
	if name == "" {
		return model.ColorNone, nil
	}
	c, err := model.ParseColor(name)
	if err != nil {
		return model.ColorNone, &errors.UserError{
			Message:    "Invalid color",
			Field:      "color",
			Value:      name,
			Suggestion: errors.Suggestions[errors.ErrInvalidColor],
			Cause:      errors.ErrInvalidColor,
		}
	}
	return c, nil
}

// StopOrDuration checks that at most one way of ending a time entry is given.
func StopOrDuration(stop string, duration string) error {
	if stop != "" && duration != "" {
		return errors.NewUserError(
			"--stop-time and --duration are mutually exclusive",
			"Give either the stop time or the duration")
	}
	return nil
}
