// ABOUTME: Session row database operations
// ABOUTME: Stores opaque serialized sessions keyed by id with an expiry time
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SessionRow is a serialized session. Data is opaque to this package.
type SessionRow struct {
	ID        string
	Data      []byte
	CreatedAt time.Time
	ExpiresAt time.Time
}

// PutSession inserts or replaces a session row.
func PutSession(ctx context.Context, db *sql.DB, row *SessionRow) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO sessions (id, data, created_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			data = excluded.data,
			expires_at = excluded.expires_at
	`, row.ID, row.Data, row.CreatedAt.UTC(), row.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession returns the row for id, or nil if it does not exist or expired before now.
func GetSession(ctx context.Context, db *sql.DB, id string, now time.Time) (*SessionRow, error) {
	var row SessionRow
	err := db.QueryRowContext(ctx, `
		SELECT id, data, created_at, expires_at
		FROM sessions
		WHERE id = ? AND expires_at > ?
	`, id, now.UTC()).Scan(&row.ID, &row.Data, &row.CreatedAt, &row.ExpiresAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &row, nil
}

// DeleteSession removes a session. Deleting a missing id is not an error.
func DeleteSession(ctx context.Context, db *sql.DB, id string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PurgeExpiredSessions deletes every session that expired at or before now.
func PurgeExpiredSessions(ctx context.Context, db *sql.DB, now time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return res.RowsAffected()
}
