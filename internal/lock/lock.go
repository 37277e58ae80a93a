// Package lock serializes writers across processes with a lock file.
package lock

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/logger"
)

var (
	// ErrLocked is returned when the lock is still held after the timeout
	ErrLocked = errors.New("questlog data is locked by another process")
	// ErrNotHeld is returned by Unlock when the lock file belongs to someone else
	ErrNotHeld = errors.New("lock is not held by this process")
)

var findProcessFunc = ps.FindProcess

const breakSuffix = ".break"

// Info is the content of a lock file.
type Info struct {
	PID        int    `json:"pid"`
	Token      string `json:"token"`
	AcquiredAt string `json:"acquiredAt"`
}

type FileLock struct {
	path    string
	timeout time.Duration
	retry   time.Duration
	token   string
}

type Option func(*FileLock)

func WithTimeout(d time.Duration) Option {
	return func(l *FileLock) { l.timeout = d }
}

func WithRetryDelay(d time.Duration) Option {
	return func(l *FileLock) { l.retry = d }
}

// New returns a lock backed by questlog.lock inside dir.
func New(dir string, opts ...Option) *FileLock {
	l := &FileLock{
		path:    filepath.Join(dir, constants.LockFileName),
		timeout: constants.DefaultLockTimeout,
		retry:   constants.LockRetryDelay,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *FileLock) Path() string {
	return l.path
}

// Lock blocks until the lock file is created, the timeout passes or ctx is done.
// A lock left behind by a process that no longer exists is broken.
func (l *FileLock) Lock(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	deadline := time.Now().Add(l.timeout)
	token := uuid.NewString()

	for {
		err := l.create(token)
		if err == nil {
			l.token = token
			return nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return err
		}

		holder, raw, stale := l.inspect()
		if stale {
			broken, err := l.breakStale(raw)
			if err != nil {
				return err
			}
			if broken {
				logger.Warn("Broke stale lock", "path", l.path, "pid", holder.PID)
				continue
			}
		}

		if !time.Now().Before(deadline) {
			return fmt.Errorf("%w (pid %d since %s)", ErrLocked, holder.PID, holder.AcquiredAt)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.retry):
		}
	}
}

func (l *FileLock) create(token string) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	data, _ := json.Marshal(Info{
		PID:        os.Getpid(),
		Token:      token,
		AcquiredAt: time.Now().UTC().Format(constants.TimestampFormat),
	})
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = os.Remove(l.path)
		return fmt.Errorf("failed to write lock file: %w", err)
	}
	return f.Close()
}

// inspect reads the current holder and the raw lock file. A holder whose
// process is gone is stale, as is an unparsable lock file older than the
// timeout.
func (l *FileLock) inspect() (Info, []byte, bool) {
	var info Info
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return info, nil, false
	}
	if err != nil || json.Unmarshal(data, &info) != nil || info.PID <= 0 {
		st, statErr := os.Stat(l.path)
		return info, data, err == nil && statErr == nil && time.Since(st.ModTime()) > l.timeout
	}

	if info.PID == os.Getpid() {
		return info, data, false
	}
	process, err := findProcessFunc(info.PID)
	return info, data, err == nil && process == nil
}

// breakStale removes the lock file only if it still holds seen. Removal
// happens under the break guard, so two waiters that judged the same lock
// stale cannot remove a fresh lock created by the first of them. It reports
// false when the guard is busy or the lock changed.
func (l *FileLock) breakStale(seen []byte) (bool, error) {
	guard := l.path + breakSuffix
	g, err := os.OpenFile(guard, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		if !errors.Is(err, fs.ErrExist) {
			return false, fmt.Errorf("failed to create break guard: %w", err)
		}
		// a breaker that died mid-break leaves its guard behind
		if st, statErr := os.Stat(guard); statErr == nil && time.Since(st.ModTime()) > l.timeout {
			_ = os.Remove(guard)
		}
		return false, nil
	}
	g.Close()
	defer os.Remove(guard)

	current, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read lock file: %w", err)
	}
	if !bytes.Equal(current, seen) {
		return false, nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to remove stale lock: %w", err)
	}
	return true, nil
}

// Unlock removes the lock file if this lock created it.
func (l *FileLock) Unlock() error {
	if l.token == "" {
		return ErrNotHeld
	}

	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		l.token = ""
		return nil
	}
	if err != nil {
		return err
	}

	var info Info
	if err := json.Unmarshal(data, &info); err != nil || info.Token != l.token {
		return ErrNotHeld
	}

	l.token = ""
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

// Holder returns the current lock file content, if any.
func (l *FileLock) Holder() (Info, bool) {
	var info Info
	data, err := os.ReadFile(l.path)
	if err != nil || json.Unmarshal(data, &info) != nil {
		return info, false
	}
	return info, true
}
