package errors

import "errors"

// Suggestions maps common errors to helpful suggestions.
var Suggestions = map[error]string{
	ErrNotFound:        "Run with --sync to refresh the cache, or check the spelling (names match case-insensitively but in full).",
	ErrAmbiguous:       "Narrow the selection with --workspace, or pass --multiple where the command allows it.",
	ErrMissingToken:    "Set api_token in the config file, export TOGGLCMDER_API_TOKEN, or run 'togglcmder token set'.",
	ErrNoRunningEntry:  "Use 'togglcmder timers start' to start one.",
	ErrMultipleNeeded:  "Repeat the command with --multiple.",
	ErrInvalidColor:    "Use one of: red, green, blue, yellow, purple, black.",
	ErrInvalidTime:     "Try 'now', 'now-2h', 'now+30m', an ISO-8601 timestamp, or 'yesterday at 3pm'.",
	ErrInvalidDuration: "Try formats like '1h30m', '90m', or '3600s'.",
	ErrEndBeforeStart:  "Check your times: stop must be after start.",
	ErrDuplicateEntry:  "Use 'togglcmder timers update' to change the existing entry.",
	ErrConstraint:      "Run 'togglcmder sync' to refresh the cache from Toggl.",
	ErrRemote:          "Check your network connection and API token, then try again.",
}

// GetSuggestion returns a suggestion for an error, if available.
// It walks the error chain to find matching suggestions.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	// UserError suggestions are more specific than the sentinel ones.
	if ue, ok := AsUserError(err); ok && ue.Suggestion != "" {
		return ue.Suggestion
	}

	for knownErr, suggestion := range Suggestions {
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}
	return ""
}
