// Package memory provides an in-process slot used by tests and dry runs.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/julianstephens/questlog/internal/storage"
)

type Store struct {
	mu       sync.RWMutex
	data     map[string][]byte
	previous map[string][]byte
	writes   int
}

func NewStore() *Store {
	return &Store{
		data:     make(map[string][]byte),
		previous: make(map[string][]byte),
	}
}

// Seed returns a store already holding data under key.
func Seed(key string, data []byte) *Store {
	s := NewStore()
	s.data[key] = slices.Clone(data)
	return s
}

func (s *Store) Init(context.Context) error { return nil }
func (s *Store) Load(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

func (s *Store) Read(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.data[key]
	if !ok {
		return nil, storage.ErrSlotEmpty
	}
	return slices.Clone(data), nil
}

func (s *Store) Write(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.data[key]; ok {
		s.previous[key] = old
	}
	s.data[key] = slices.Clone(data)
	s.writes++
	return nil
}

func (s *Store) ReadPrevious(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.previous[key]
	if !ok {
		return nil, storage.ErrNoHistory
	}
	return slices.Clone(data), nil
}

// Writes returns how many writes the store has accepted.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

func (s *Store) GetConfigPath() string {
	return "memory"
}
