package cache

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/manav03panchal/togglcmder/internal/model"
)

// UpdateProjects upserts projects and returns the rows affected.
func (c *Cache) UpdateProjects(ctx context.Context, ps []model.Project) (int64, error) {
	return updateBatch(ctx, c, model.KindProject, ps,
		func(p model.Project) int64 { return p.ID },
		func(ctx context.Context, tx *sql.Tx, p model.Project) (int64, error) {
			return rowsAffected(tx.ExecContext(ctx,
				`INSERT INTO projects (identifier, name, color, last_updated, created, workspace_identifier)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				p.ID, p.Name, colorColumn(p.Color), toEpoch(p.LastUpdated), toEpochPtr(p.Created), p.WorkspaceID))
		},
		func(ctx context.Context, tx *sql.Tx, p model.Project) (int64, error) {
			return rowsAffected(tx.ExecContext(ctx,
				`UPDATE projects
				 SET name = ?, color = ?, last_updated = ?, created = ?, workspace_identifier = ?
				 WHERE identifier = ?`,
				p.Name, colorColumn(p.Color), toEpoch(p.LastUpdated), toEpochPtr(p.Created), p.WorkspaceID, p.ID))
		},
	)
}

// Projects returns every cached project ordered by identifier.
func (c *Cache) Projects(ctx context.Context) ([]model.Project, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT identifier, name, color, last_updated, created, workspace_identifier
		 FROM projects ORDER BY identifier`)
	if err != nil {
		return nil, fmt.Errorf("retrieve projects: %w", err)
	}
	defer rows.Close()

	ps := []model.Project{}
	for rows.Next() {
		var (
			p                       model.Project
			color, updated, created sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &p.Name, &color, &updated, &created, &p.WorkspaceID); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.Color = model.Color(color.Int64)
		p.LastUpdated = fromEpoch(updated)
		p.Created = fromEpochPtr(created)
		ps = append(ps, p)
	}
	return ps, rows.Err()
}

// RemoveProject deletes a project. Time entries that referenced it keep
// their rows with the project cleared.
func (c *Cache) RemoveProject(ctx context.Context, p model.Project) error {
	return c.remove(ctx, model.KindProject, p.ID,
		`DELETE FROM projects WHERE identifier = ?`)
}

func colorColumn(c model.Color) sql.NullInt64 {
	if c == model.ColorNone {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(c), Valid: true}
}
