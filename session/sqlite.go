package session

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/harperreed/gcontacts/db"
	"github.com/harperreed/gcontacts/logger"
)

// SQLiteStore persists sessions in a local SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the session database at path and
// drops sessions that have already expired.
func OpenSQLite(path string) (*SQLiteStore, error) {
	database, err := db.OpenDatabase(path)
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: database, now: time.Now}
	n, err := db.PurgeExpiredSessions(context.Background(), database, store.now())
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	if n > 0 {
		logger.Debug("purged expired sessions", slog.Int64("count", n))
	}
	return store, nil
}

func (s *SQLiteStore) Save(ctx context.Context, sess *Session) error {
	data, err := encode(sess)
	if err != nil {
		return err
	}
	return db.PutSession(ctx, s.db, &db.SessionRow{
		ID:        sess.ID,
		Data:      data,
		CreatedAt: sess.CreatedAt,
		ExpiresAt: sess.ExpiresAt,
	})
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Session, error) {
	row, err := db.GetSession(ctx, s.db, id, s.now())
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNotFound
	}
	return decode(row.Data)
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return db.DeleteSession(ctx, s.db, id)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
