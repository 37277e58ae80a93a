// Package badgerdb keeps slots in an embedded Badger key-value database.
package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/julianstephens/questlog/internal/logger"
	"github.com/julianstephens/questlog/internal/storage"
)

const (
	slotPrefix    = "slot:"
	historyPrefix = "history:"
)

type Store struct {
	dir string
	db  *badger.DB
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) open() error {
	opts := badger.DefaultOptions(s.dir)
	opts.Logger = nil      // Badger's own logging is too chatty for a CLI
	opts.SyncWrites = true // every save must survive a crash
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("failed to open badger db: %w", err)
	}
	s.db = db
	logger.Debug("Badger database opened", "path", s.dir)
	return nil
}

func (s *Store) Init(context.Context) error {
	if s.db != nil {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return s.open()
}

func (s *Store) Load(context.Context) error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(filepath.Join(s.dir, "MANIFEST")); errors.Is(err, fs.ErrNotExist) {
		return storage.ErrNotInitialized
	}
	return s.open()
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) get(key []byte, missing error) ([]byte, error) {
	if s.db == nil {
		return nil, storage.ErrNotInitialized
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, missing
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return data, nil
}

func (s *Store) Read(_ context.Context, key string) ([]byte, error) {
	return s.get([]byte(slotPrefix+key), storage.ErrSlotEmpty)
}

func (s *Store) ReadPrevious(_ context.Context, key string) ([]byte, error) {
	return s.get([]byte(historyPrefix+key), storage.ErrNoHistory)
}

// Write replaces the slot and keeps the old value under the history key.
func (s *Store) Write(_ context.Context, key string, data []byte) error {
	if s.db == nil {
		return storage.ErrNotInitialized
	}

	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(slotPrefix + key))
		switch {
		case err == nil:
			old, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := txn.Set([]byte(historyPrefix+key), old); err != nil {
				return err
			}
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		return txn.Set([]byte(slotPrefix+key), data)
	})
}

func (s *Store) GetConfigPath() string {
	return s.dir
}
