package badgerkv

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"artcor/internal/adapters/storage"
)

// KV stores blobs in a Badger database.
type KV struct {
	db *badger.DB
}

// Compile-time check that *KV satisfies storage.KV.
var _ storage.KV = (*KV)(nil)

// Open opens (creating if needed) a Badger database in dir.
// An empty dir opens an in-memory database.
// PRE: none
// POST: Returns an open KV; caller closes it
func Open(dir string, logger *zap.Logger) (*KV, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
		opts = badger.DefaultOptions(dir)
	}
	opts = opts.
		WithLogger(newZapLogger(logger)).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &KV{db: db}, nil
}

// Get returns a copy of the blob stored under key.
// PRE: key is non-empty
// POST: Returns storage.ErrKeyNotFound if the key was never written
func (k *KV) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := k.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, storage.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

// Put replaces the blob under key.
// PRE: key is non-empty
// POST: A later Get(key) returns value
func (k *KV) Put(_ context.Context, key string, value []byte) error {
	err := k.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// Close flushes and closes the database.
func (k *KV) Close() error {
	return k.db.Close()
}
