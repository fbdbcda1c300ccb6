package cache

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/manav03panchal/togglcmder/internal/model"
)

// UpdateTags upserts tags and returns the rows affected.
func (c *Cache) UpdateTags(ctx context.Context, tags []model.Tag) (int64, error) {
	return updateBatch(ctx, c, model.KindTag, tags,
		func(t model.Tag) int64 { return t.ID },
		func(ctx context.Context, tx *sql.Tx, t model.Tag) (int64, error) {
			return rowsAffected(tx.ExecContext(ctx,
				`INSERT INTO tags (identifier, name, workspace_identifier) VALUES (?, ?, ?)`,
				t.ID, t.Name, t.WorkspaceID))
		},
		func(ctx context.Context, tx *sql.Tx, t model.Tag) (int64, error) {
			return rowsAffected(tx.ExecContext(ctx,
				`UPDATE tags SET name = ?, workspace_identifier = ? WHERE identifier = ?`,
				t.Name, t.WorkspaceID, t.ID))
		},
	)
}

// Tags returns every cached tag ordered by identifier.
func (c *Cache) Tags(ctx context.Context) ([]model.Tag, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT identifier, name, workspace_identifier FROM tags ORDER BY identifier`)
	if err != nil {
		return nil, fmt.Errorf("retrieve tags: %w", err)
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.WorkspaceID); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// RemoveTag deletes a tag and its time entry associations.
func (c *Cache) RemoveTag(ctx context.Context, t model.Tag) error {
	return c.remove(ctx, model.KindTag, t.ID,
		`DELETE FROM time_entry_tags WHERE tag_identifier = ?`,
		`DELETE FROM tags WHERE identifier = ?`)
}
