package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/manav03panchal/togglcmder/internal/model"
)

// UpdateUser stores u as the single cached user, replacing any other.
func (c *Cache) UpdateUser(ctx context.Context, u model.User) (int64, error) {
	return updateBatch(ctx, c, model.KindUser, []model.User{u},
		func(u model.User) int64 { return u.ID },
		func(ctx context.Context, tx *sql.Tx, u model.User) (int64, error) {
			if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE identifier <> ?`, u.ID); err != nil {
				return 0, err
			}
			return rowsAffected(tx.ExecContext(ctx,
				`INSERT INTO users (identifier, name, api_token, last_updated) VALUES (?, ?, ?, ?)`,
				u.ID, u.Name, u.APIToken, toEpoch(u.LastUpdated)))
		},
		func(ctx context.Context, tx *sql.Tx, u model.User) (int64, error) {
			return rowsAffected(tx.ExecContext(ctx,
				`UPDATE users SET name = ?, api_token = ?, last_updated = ? WHERE identifier = ?`,
				u.Name, u.APIToken, toEpoch(u.LastUpdated), u.ID))
		},
	)
}

// User returns the cached user, or nil when none has been stored.
func (c *Cache) User(ctx context.Context) (*model.User, error) {
	var (
		u       model.User
		token   sql.NullString
		updated sql.NullInt64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT identifier, name, api_token, last_updated FROM users ORDER BY last_updated DESC LIMIT 1`,
	).Scan(&u.ID, &u.Name, &token, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("retrieve user: %w", err)
	}
	u.APIToken = token.String
	u.LastUpdated = fromEpoch(updated)
	return &u, nil
}

// RemoveUser deletes the cached user.
func (c *Cache) RemoveUser(ctx context.Context, u model.User) error {
	return c.remove(ctx, model.KindUser, u.ID, `DELETE FROM users WHERE identifier = ?`)
}
