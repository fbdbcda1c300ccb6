package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/manav03panchal/togglcmder/internal/model"
)

// UpdateTimeEntries upserts time entries and links each to the cached tags
// its tag names resolve to. Only associations not already present are
// inserted; existing ones are never removed here. Tag names with no cached
// tag are left unlinked.
func (c *Cache) UpdateTimeEntries(ctx context.Context, es []model.TimeEntry) (int64, error) {
	return updateBatch(ctx, c, model.KindTimeEntry, es,
		func(e model.TimeEntry) int64 { return e.ID },
		func(ctx context.Context, tx *sql.Tx, e model.TimeEntry) (int64, error) {
			n, err := rowsAffected(tx.ExecContext(ctx,
				`INSERT INTO time_entries
				 (identifier, description, start_time, stop_time, duration, project_identifier, workspace_identifier, last_updated)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				e.ID, descriptionColumn(e.Description), e.Start.Unix(), toEpochPtr(e.Stop), e.Duration,
				projectColumn(e.ProjectID), e.WorkspaceID, toEpoch(e.LastUpdated)))
			if err != nil {
				return 0, err
			}
			linked, err := c.linkTags(ctx, tx, e)
			return n + linked, err
		},
		func(ctx context.Context, tx *sql.Tx, e model.TimeEntry) (int64, error) {
			n, err := rowsAffected(tx.ExecContext(ctx,
				`UPDATE time_entries
				 SET description = ?, start_time = ?, stop_time = ?, duration = ?,
				     project_identifier = ?, workspace_identifier = ?, last_updated = ?
				 WHERE identifier = ?`,
				descriptionColumn(e.Description), e.Start.Unix(), toEpochPtr(e.Stop), e.Duration,
				projectColumn(e.ProjectID), e.WorkspaceID, toEpoch(e.LastUpdated), e.ID))
			if err != nil {
				return 0, err
			}
			linked, err := c.linkTags(ctx, tx, e)
			return n + linked, err
		},
	)
}

// ReplaceTimeEntryTags makes the entry's associations match its tag names
// exactly: associations to tags no longer named are deleted, then missing
// ones are linked. It is the explicit path for removing tags from an entry.
func (c *Cache) ReplaceTimeEntryTags(ctx context.Context, e model.TimeEntry) (int64, error) {
	var total int64
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		wanted, err := resolveTagIDs(ctx, tx, e.WorkspaceID, e.Tags)
		if err != nil {
			return err
		}
		existing, err := linkedTagIDs(ctx, tx, e.ID)
		if err != nil {
			return err
		}
		for _, id := range existing {
			if slices.Contains(wanted, id) {
				continue
			}
			n, err := rowsAffected(tx.ExecContext(ctx,
				`DELETE FROM time_entry_tags WHERE tag_identifier = ? AND time_entry_identifier = ?`, id, e.ID))
			if err != nil {
				return err
			}
			total += n
		}
		n, err := c.linkTags(ctx, tx, e)
		total += n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("replace tags of time entry %d: %w", e.ID, err)
	}
	return total, nil
}

// linkTags inserts the associations between e and the cached tags named by
// e.Tags that do not exist yet.
func (c *Cache) linkTags(ctx context.Context, tx *sql.Tx, e model.TimeEntry) (int64, error) {
	if len(e.Tags) == 0 {
		return 0, nil
	}

	candidates, err := resolveTagIDs(ctx, tx, e.WorkspaceID, e.Tags)
	if err != nil {
		return 0, err
	}
	existing, err := linkedTagIDs(ctx, tx, e.ID)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, id := range candidates {
		if slices.Contains(existing, id) {
			continue
		}
		n, err := rowsAffected(tx.ExecContext(ctx,
			`INSERT INTO time_entry_tags (tag_identifier, time_entry_identifier) VALUES (?, ?)`, id, e.ID))
		if err != nil {
			return total, err
		}
		total += n
	}

	if unresolved := len(e.Tags) - len(candidates); unresolved > 0 {
		c.logger.Debug("tag names without cached tag",
			"time_entry", e.ID,
			"unresolved", unresolved,
		)
	}
	return total, nil
}

// resolveTagIDs maps each tag name to one cached tag identifier by exact
// name, keeping the order of names. A tag in workspace wid wins over a
// same-named tag elsewhere; ties go to the lowest identifier.
func resolveTagIDs(ctx context.Context, tx *sql.Tx, wid int64, names []string) ([]int64, error) {
	var ids []int64
	for _, name := range names {
		var id int64
		err := tx.QueryRowContext(ctx,
			`SELECT identifier FROM tags WHERE name = ?
			 ORDER BY workspace_identifier <> ?, identifier LIMIT 1`, name, wid).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func linkedTagIDs(ctx context.Context, tx *sql.Tx, entryID int64) ([]int64, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT tag_identifier FROM time_entry_tags WHERE time_entry_identifier = ?`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// TimeEntries returns every cached time entry ordered by identifier, each
// with the names of its linked tags in association order.
func (c *Cache) TimeEntries(ctx context.Context) ([]model.TimeEntry, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT identifier, description, start_time, stop_time, duration,
		        project_identifier, workspace_identifier, last_updated
		 FROM time_entries ORDER BY identifier`)
	if err != nil {
		return nil, fmt.Errorf("retrieve time entries: %w", err)
	}

	es := []model.TimeEntry{}
	for rows.Next() {
		var (
			e                      model.TimeEntry
			desc                   sql.NullString
			start                  int64
			stop, project, updated sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &desc, &start, &stop, &e.Duration, &project, &e.WorkspaceID, &updated); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		e.Description = desc.String
		e.Start = model.FromEpoch(start)
		e.Stop = fromEpochPtr(stop)
		if project.Valid {
			id := project.Int64
			e.ProjectID = &id
		}
		e.LastUpdated = fromEpoch(updated)
		es = append(es, e)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}

	// The single connection must be free before the second query runs.
	tags, err := c.entryTagNames(ctx)
	if err != nil {
		return nil, err
	}
	for i := range es {
		es[i].Tags = tags[es[i].ID]
	}
	return es, nil
}

func (c *Cache) entryTagNames(ctx context.Context) (map[int64][]string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT tet.time_entry_identifier, t.name
		 FROM time_entry_tags tet JOIN tags t ON t.identifier = tet.tag_identifier
		 ORDER BY tet.rowid`)
	if err != nil {
		return nil, fmt.Errorf("retrieve time entry tags: %w", err)
	}
	defer rows.Close()

	names := make(map[int64][]string)
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan time entry tag: %w", err)
		}
		names[id] = append(names[id], name)
	}
	return names, rows.Err()
}

// RemoveTimeEntry deletes a time entry and its tag associations.
func (c *Cache) RemoveTimeEntry(ctx context.Context, e model.TimeEntry) error {
	return c.remove(ctx, model.KindTimeEntry, e.ID,
		`DELETE FROM time_entry_tags WHERE time_entry_identifier = ?`,
		`DELETE FROM time_entries WHERE identifier = ?`)
}

func descriptionColumn(d string) sql.NullString {
	return sql.NullString{String: d, Valid: d != ""}
}

func projectColumn(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
