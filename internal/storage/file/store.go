// Package file keeps each slot as a JSON file inside a directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/questlog/internal/storage"
	"github.com/julianstephens/questlog/internal/utils"
)

const (
	slotSuffix     = ".json"
	previousSuffix = ".prev.json"
)

type Store struct {
	dir    string
	loaded bool
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Init(context.Context) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	s.loaded = true
	return nil
}

func (s *Store) Load(context.Context) error {
	info, err := os.Stat(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return storage.ErrNotInitialized
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	s.loaded = true
	return nil
}

func (s *Store) Close() error {
	s.loaded = false
	return nil
}

func (s *Store) path(key, suffix string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid slot key %q", key)
	}
	return filepath.Join(s.dir, key+suffix), nil
}

func (s *Store) readFile(key, suffix string, missing error) ([]byte, error) {
	if !s.loaded {
		return nil, storage.ErrNotInitialized
	}
	p, err := s.path(key, suffix)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, missing
	}
	return data, err
}

func (s *Store) Read(_ context.Context, key string) ([]byte, error) {
	return s.readFile(key, slotSuffix, storage.ErrSlotEmpty)
}

func (s *Store) ReadPrevious(_ context.Context, key string) ([]byte, error) {
	return s.readFile(key, previousSuffix, storage.ErrNoHistory)
}

// Write keeps the replaced value next to the slot, then swaps in the new one.
func (s *Store) Write(_ context.Context, key string, data []byte) error {
	if !s.loaded {
		return storage.ErrNotInitialized
	}
	p, err := s.path(key, slotSuffix)
	if err != nil {
		return err
	}

	old, err := os.ReadFile(p)
	switch {
	case err == nil:
		prev, _ := s.path(key, previousSuffix)
		if err := utils.WriteFileAtomic(prev, old, 0600); err != nil {
			return err
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("failed to read slot %q: %w", key, err)
	}

	return utils.WriteFileAtomic(p, data, 0600)
}

func (s *Store) GetConfigPath() string {
	return s.dir
}
