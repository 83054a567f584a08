package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v3"
)

const keyPrefix = "session:"

// BadgerStore persists sessions in an embedded Badger database, relying on
// entry TTLs for expiry.
type BadgerStore struct {
	db  *badger.DB
	now func() time.Time
}

// OpenBadger opens (creating if needed) a Badger database in dir.
func OpenBadger(dir string) (*BadgerStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	opts := badger.DefaultOptions(dir).
		WithLogger(nil)

	database, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &BadgerStore{db: database, now: time.Now}, nil
}

func (b *BadgerStore) Save(_ context.Context, s *Session) error {
	ttl := s.ExpiresAt.Sub(b.now())
	if ttl <= 0 {
		return b.Delete(context.Background(), s.ID)
	}

	data, err := encode(s)
	if err != nil {
		return err
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(keyPrefix+s.ID), data).WithTTL(ttl))
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (b *BadgerStore) Get(_ context.Context, id string) (*Session, error) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + id))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	s, err := decode(data)
	if err != nil {
		return nil, err
	}
	// TTLs have second granularity
	if s.Expired(b.now()) {
		return nil, ErrNotFound
	}
	return s, nil
}

func (b *BadgerStore) Delete(_ context.Context, id string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + id))
	})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (b *BadgerStore) Close() error {
	return b.db.Close()
}
