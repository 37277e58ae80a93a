// Package clitest builds command contexts over an in-memory slot for tests.
package clitest

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/questlog/internal/backup"
	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/config"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/records"
	"github.com/julianstephens/questlog/internal/storage/memory"
)

// Start is the first instant the test clock returns.
var Start = time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC)

// Clock advances one second per call so generated ids never collide.
type Clock struct {
	mu   sync.Mutex
	next time.Time
}

func NewClock() *Clock {
	return &Clock{next: Start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.next
	c.next = c.next.Add(time.Second)
	return now
}

// Env is a command context plus the pieces tests inspect.
type Env struct {
	Ctx     *cli.Context
	Slot    *memory.Store
	Out     *bytes.Buffer
	Prompts []string
}

// New returns an Env whose confirmations answer with answer.
func New(t *testing.T, answer bool) *Env {
	t.Helper()

	slot := memory.NewStore()
	clock := NewClock()
	store := records.New(slot, records.WithClock(clock.Now))
	cfg, err := config.LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	env := &Env{Slot: slot, Out: &bytes.Buffer{}}
	env.Ctx = &cli.Context{
		Store:    store,
		Backups:  backup.NewManager(store, t.TempDir(), backup.WithClock(clock.Now)),
		Config:   cfg,
		Slot:     slot,
		Location: "memory://",
		Out:      env.Out,
		Confirm: records.ConfirmFunc(func(prompt string) (bool, error) {
			env.Prompts = append(env.Prompts, prompt)
			return answer, nil
		}),
	}
	return env
}

// Seed saves agg as the current aggregate.
func (e *Env) Seed(t *testing.T, agg models.Aggregate) {
	t.Helper()
	if err := e.Ctx.Store.SaveAggregate(context.Background(), agg); err != nil {
		t.Fatalf("failed to seed aggregate: %v", err)
	}
}

// Aggregate returns the persisted aggregate.
func (e *Env) Aggregate() models.Aggregate {
	return e.Ctx.Store.GetAggregate(context.Background())
}
