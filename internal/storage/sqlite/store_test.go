package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/questlog/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "nested", "questlog.db"))
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadBeforeInit(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	err := s.Load(context.Background())
	if !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load() error = %v, want ErrNotInitialized", err)
	}
}

func TestReadEmptySlot(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Read(context.Background(), "questlog_aggregate")
	if !errors.Is(err, storage.ErrSlotEmpty) {
		t.Errorf("Read() error = %v, want ErrSlotEmpty", err)
	}
}

func TestWriteReadAndHistory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.ReadPrevious(ctx, "k"); !errors.Is(err, storage.ErrNoHistory) {
		t.Errorf("ReadPrevious() before writes error = %v", err)
	}

	for _, v := range []string{"first", "second"} {
		if err := s.Write(ctx, "k", []byte(v)); err != nil {
			t.Fatalf("Write(%q) failed: %v", v, err)
		}
	}

	got, err := s.Read(ctx, "k")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("Read() = %q, want %q", got, "second")
	}

	prev, err := s.ReadPrevious(ctx, "k")
	if err != nil {
		t.Fatalf("ReadPrevious failed: %v", err)
	}
	if string(prev) != "first" {
		t.Errorf("ReadPrevious() = %q, want %q", prev, "first")
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "questlog.db")

	s := NewStore(path)
	if err := s.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := s.Write(ctx, "k", []byte("persisted")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	s.Close()

	reopened := NewStore(path)
	if err := reopened.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Read(ctx, "k")
	if err != nil || string(got) != "persisted" {
		t.Errorf("Read() = %q, %v", got, err)
	}

	current, latest, err := reopened.SchemaStatus(ctx)
	if err != nil {
		t.Fatalf("SchemaStatus failed: %v", err)
	}
	if current != latest || current == 0 {
		t.Errorf("SchemaStatus() = (%d, %d)", current, latest)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.Init(context.Background()); err != nil {
		t.Errorf("second Init failed: %v", err)
	}
}
