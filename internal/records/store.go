// Package records is the single source of truth for campaigns, characters and
// diary entries. Every write replaces the whole aggregate held in one slot.
package records

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/errors"
	"github.com/julianstephens/questlog/internal/logger"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/snapshot"
	"github.com/julianstephens/questlog/internal/storage"
)

// Locker serializes saves across processes.
type Locker interface {
	Lock(ctx context.Context) error
	Unlock() error
}

// Store reads and writes the aggregate. Without a Locker, concurrent writers
// in different processes race and the last save wins.
type Store struct {
	mu     sync.Mutex
	slot   storage.Slot
	key    string
	sink   snapshot.Sink
	locker Locker
	now    func() time.Time
}

type Option func(*Store)

// WithKey overrides the slot key holding the aggregate.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithSink sets where the snapshot emitted after each save goes.
func WithSink(sink snapshot.Sink) Option {
	return func(s *Store) { s.sink = sink }
}

func WithLocker(l Locker) Option {
	return func(s *Store) { s.locker = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(slot storage.Slot, opts ...Option) *Store {
	s := &Store{
		slot: slot,
		key:  constants.AggregateKey,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store clock, used to stamp new and edited records.
func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) Slot() storage.Slot {
	return s.slot
}

func (s *Store) Sink() snapshot.Sink {
	return s.sink
}

// GetAggregate returns the persisted aggregate. An absent, unreadable or
// unparsable slot yields an empty aggregate; the problem is only logged.
func (s *Store) GetAggregate(ctx context.Context) models.Aggregate {
	agg, err := s.read(ctx)
	if err != nil {
		logger.Error("Failed to read aggregate, using an empty one", "key", s.key, "error", err)
		return models.EmptyAggregate()
	}
	return agg
}

// read decodes the slot. Parse failures are recovered here; slot I/O errors
// are returned so read-modify-write callers never overwrite data they could
// not see.
func (s *Store) read(ctx context.Context) (models.Aggregate, error) {
	data, err := s.slot.Read(ctx, s.key)
	if stderrors.Is(err, storage.ErrSlotEmpty) {
		return models.EmptyAggregate(), nil
	}
	if err != nil {
		return models.Aggregate{}, fmt.Errorf("failed to read slot %q: %w", s.key, err)
	}

	agg, err := snapshot.Decode(data)
	if err != nil {
		logger.Warn("Discarding unparsable aggregate", "error", &errors.ParseError{Key: s.key, Err: err})
		return models.EmptyAggregate(), nil
	}
	return agg, nil
}

// SaveAggregate overwrites the slot with agg and then exports a snapshot.
// Export failures are logged and never fail the save.
func (s *Store) SaveAggregate(ctx context.Context, agg models.Aggregate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withLock(ctx, func() error {
		return s.write(ctx, agg)
	})
}

// update runs a read-modify-write of the whole aggregate under the store locks.
func (s *Store) update(ctx context.Context, fn func(*models.Aggregate) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withLock(ctx, func() error {
		agg, err := s.read(ctx)
		if err != nil {
			return err
		}
		if err := fn(&agg); err != nil {
			return err
		}
		return s.write(ctx, agg)
	})
}

func (s *Store) withLock(ctx context.Context, fn func() error) error {
	if s.locker == nil {
		return fn()
	}
	if err := s.locker.Lock(ctx); err != nil {
		return err
	}
	defer func() {
		if err := s.locker.Unlock(); err != nil {
			logger.Warn("Failed to release lock", "error", err)
		}
	}()
	return fn()
}

func (s *Store) write(ctx context.Context, agg models.Aggregate) error {
	agg = agg.Normalize()
	data, err := snapshot.Encode(agg)
	if err != nil {
		return err
	}
	if err := s.slot.Write(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to write slot %q: %w", s.key, err)
	}
	logger.Debug("Aggregate saved", "key", s.key, "campaigns", len(agg.Campaigns),
		"characters", len(agg.Characters), "diaryEntries", len(agg.DiaryEntries))

	if s.sink != nil {
		if err := s.ExportSnapshot(ctx, agg); err != nil {
			logger.Warn("Snapshot export failed", "target", s.sink.Target(), "error", err)
		}
	}
	return nil
}

// ExportSnapshot delivers agg to the configured sink under the fixed export
// name. A store without a sink has nothing to do.
func (s *Store) ExportSnapshot(ctx context.Context, agg models.Aggregate) error {
	if s.sink == nil {
		return nil
	}
	return ExportTo(ctx, s.sink, agg)
}

// ExportTo delivers agg to an explicit sink.
func ExportTo(ctx context.Context, sink snapshot.Sink, agg models.Aggregate) error {
	snap, err := snapshot.Export(agg)
	if err != nil {
		return err
	}
	return sink.Deliver(ctx, snap)
}

// ImportSnapshot parses an uploaded document. It never writes; callers save
// the result when they want it persisted.
func (s *Store) ImportSnapshot(r io.Reader) (models.Aggregate, error) {
	return snapshot.Read(r)
}
