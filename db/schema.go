// ABOUTME: Database schema definitions and migrations
// ABOUTME: Handles SQLite table creation for server-side login sessions
package db

import (
	"database/sql"
)

// Sessions hold an OAuth token, so rows are deleted on logout and purged on expiry.
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	created_at DATETIME NOT NULL,
	expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
