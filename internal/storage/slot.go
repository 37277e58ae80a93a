package storage

import (
	"context"
	"errors"
)

var (
	// ErrSlotEmpty is returned by Read when the key has never been written
	ErrSlotEmpty = errors.New("slot is empty")
	// ErrNotInitialized is returned when the backing storage does not exist yet
	ErrNotInitialized = errors.New("storage not initialized, run 'questlog init' first")
	// ErrNoHistory is returned when no previous value is kept for a key
	ErrNoHistory = errors.New("no previous value recorded")
)

// Slot is a durable key-value location holding serialized documents.
// Writes replace the whole value; there are no partial updates.
type Slot interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error

	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error

	// GetConfigPath returns a non-sensitive description of where data lives
	GetConfigPath() string
}

// SchemaReporter is implemented by slots whose backing store has a versioned schema.
type SchemaReporter interface {
	SchemaStatus(ctx context.Context) (current, latest int, err error)
}

// Historian is implemented by slots that keep the value replaced by the last write.
type Historian interface {
	ReadPrevious(ctx context.Context, key string) ([]byte, error)
}
