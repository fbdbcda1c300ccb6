package cmd

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/manav03panchal/togglcmder/internal/errors"
	"github.com/manav03panchal/togglcmder/internal/filter"
	"github.com/manav03panchal/togglcmder/internal/model"
	"github.com/manav03panchal/togglcmder/internal/output"
	"github.com/manav03panchal/togglcmder/internal/sync"
)

// load fills ctx.Selection. Syncing needs a token; reading the cache does not.
func load(c context.Context, criteria sync.Criteria) (*sync.Selection, error) {
	if ctx.Syncer.Enabled() {
		if err := ctx.RequireToken(); err != nil {
			return nil, err
		}
	}
	return ctx.Select(c, criteria)
}

// workspaceName falls back to the configured default workspace.
func workspaceName(flag string) string {
	if flag != "" {
		return flag
	}
	return ctx.Config.DefaultWorkspace
}

// projectName falls back to the configured default project.
func projectName(flag string) string {
	if flag != "" {
		return flag
	}
	return ctx.Config.DefaultProject
}

// singleWorkspace returns the one workspace a mutation applies to.
func singleWorkspace(sel *sync.Selection) (model.Workspace, error) {
	if sel.Workspace != nil {
		return *sel.Workspace, nil
	}
	return filter.Single(model.KindWorkspace, sel.Workspaces)
}

// requireMultiple guards commands that act on every match.
func requireMultiple(kind string, n int, multiple bool) error {
	if n > 1 && !multiple {
		return &apperrors.UserError{
			Message:    fmt.Sprintf("%d %s matches", n, kind),
			Suggestion: apperrors.Suggestions[apperrors.ErrMultipleNeeded],
			Cause:      apperrors.ErrMultipleNeeded,
		}
	}
	return nil
}

// notFound reports an empty match as a warning.
func notFound(kind, criteria string) error {
	return apperrors.NewResolutionError(kind, criteria, 0)
}

// cacheWrite applies a write to the cache after Toggl accepted the change.
// The remote state is authoritative, so a failed write is only logged.
func cacheWrite(c context.Context, kind string, fn func() (int64, error)) {
	if _, err := fn(); err != nil {
		ctx.Logger.WarnContext(c, "cache update failed", "kind", kind, "error", err)
	}
}

// cacheRemove is cacheWrite for deletions.
func cacheRemove(c context.Context, kind string, fn func() error) {
	cacheWrite(c, kind, func() (int64, error) { return 0, fn() })
}

// sortRows orders rows by header, rejecting unknown headers.
func sortRows(headers []string, rows []output.TableRow, header string) error {
	if header == "" {
		return nil
	}
	if !output.SortRows(headers, rows, header) {
		return apperrors.NewUserErrorWithField("sort-by", header,
			"Unknown column "+header,
			"Sort by one of: "+strings.Join(headers, ", "))
	}
	return nil
}

// printResult prints a one-line outcome.
func printResult(message string) error {
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.ResultResponse{Status: "ok", Message: message})
	}
	ctx.CLIFormatter().Success(message)
	return nil
}
