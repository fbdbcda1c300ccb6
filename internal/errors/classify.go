package errors

import (
	"errors"
	"syscall"
)

// Category represents the type of error for display and handling purposes.
type Category int

const (
	// CategoryUnknown is the default for unclassified errors.
	CategoryUnknown Category = iota
	// CategoryUser indicates an error the user can fix (bad input, missing flags).
	CategoryUser
	// CategoryResolution indicates a lookup matched zero or several entities.
	CategoryResolution
	// CategoryConstraint indicates a cache write rejected by a constraint.
	CategoryConstraint
	// CategoryRemote indicates a failed call to the remote service.
	CategoryRemote
	// CategorySystem indicates an environment error (disk, permissions).
	CategorySystem
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryUser:
		return "user"
	case CategoryResolution:
		return "resolution"
	case CategoryConstraint:
		return "constraint"
	case CategoryRemote:
		return "remote"
	case CategorySystem:
		return "system"
	default:
		return "unknown"
	}
}

// Classify determines the category of an error.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	switch {
	case IsResolution(err):
		return CategoryResolution
	case IsUserError(err):
		return CategoryUser
	case IsConstraint(err):
		return CategoryConstraint
	case IsRemote(err):
		return CategoryRemote
	case IsSystemError(err), isSystemLevel(err):
		return CategorySystem
	}
	return CategoryUnknown
}

// IsWarning reports whether err should be shown as a warning rather than a
// failure. Lookups that match nothing or too much are warnings.
func IsWarning(err error) bool {
	return Classify(err) == CategoryResolution
}

// isSystemLevel checks for syscall errors caused by the environment.
func isSystemLevel(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENOSPC, syscall.EACCES, syscall.EPERM, syscall.EIO, syscall.EROFS:
			return true
		}
	}
	return false
}

// FormatByCategory returns a user-appropriate error message based on category.
func FormatByCategory(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	suggestion := GetSuggestion(err)

	switch Classify(err) {
	case CategoryUser, CategoryResolution:
		if suggestion != "" {
			return msg + "\n\nTry: " + suggestion
		}
		return msg
	case CategorySystem:
		if suggestion != "" {
			return "System error: " + msg + "\n\n" + suggestion
		}
		return "System error: " + msg
	case CategoryRemote:
		if suggestion != "" {
			return "Toggl error: " + msg + "\n\n" + suggestion
		}
		return "Toggl error: " + msg
	default:
		return msg
	}
}
