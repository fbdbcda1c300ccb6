package cache

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/manav03panchal/togglcmder/internal/model"
)

// UpdateWorkspaces upserts workspaces and returns the rows affected.
func (c *Cache) UpdateWorkspaces(ctx context.Context, ws []model.Workspace) (int64, error) {
	return updateBatch(ctx, c, model.KindWorkspace, ws,
		func(w model.Workspace) int64 { return w.ID },
		func(ctx context.Context, tx *sql.Tx, w model.Workspace) (int64, error) {
			return rowsAffected(tx.ExecContext(ctx,
				`INSERT INTO workspaces (identifier, name, last_updated) VALUES (?, ?, ?)`,
				w.ID, w.Name, toEpoch(w.LastUpdated)))
		},
		func(ctx context.Context, tx *sql.Tx, w model.Workspace) (int64, error) {
			return rowsAffected(tx.ExecContext(ctx,
				`UPDATE workspaces SET name = ?, last_updated = ? WHERE identifier = ?`,
				w.Name, toEpoch(w.LastUpdated), w.ID))
		},
	)
}

// Workspaces returns every cached workspace ordered by identifier.
func (c *Cache) Workspaces(ctx context.Context) ([]model.Workspace, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT identifier, name, last_updated FROM workspaces ORDER BY identifier`)
	if err != nil {
		return nil, fmt.Errorf("retrieve workspaces: %w", err)
	}
	defer rows.Close()

	ws := []model.Workspace{}
	for rows.Next() {
		var (
			w       model.Workspace
			updated sql.NullInt64
		)
		if err := rows.Scan(&w.ID, &w.Name, &updated); err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		w.LastUpdated = fromEpoch(updated)
		ws = append(ws, w)
	}
	return ws, rows.Err()
}

// RemoveWorkspace deletes a workspace. Its projects, tags and time entries
// go with it through cascading foreign keys.
func (c *Cache) RemoveWorkspace(ctx context.Context, w model.Workspace) error {
	return c.remove(ctx, model.KindWorkspace, w.ID,
		`DELETE FROM workspaces WHERE identifier = ?`)
}
