package providers

import (
	"github.com/samber/do/v2"

	"github.com/julianstephens/questlog/internal/backup"
	"github.com/julianstephens/questlog/internal/config"
	"github.com/julianstephens/questlog/internal/logger"
	"github.com/julianstephens/questlog/internal/lock"
	"github.com/julianstephens/questlog/internal/records"
	"github.com/julianstephens/questlog/internal/snapshot"
	"github.com/julianstephens/questlog/internal/storage"
	"github.com/julianstephens/questlog/internal/storage/backend"
)

// SlotHandle wraps the slot with shutdown capability.
type SlotHandle struct {
	storage.Slot
	Kind backend.Kind
}

// Shutdown implements do.Shutdownable.
func (h *SlotHandle) Shutdown() error {
	return h.Close()
}

// ProvideSlot opens the slot named by the location. It is not loaded; commands
// other than init load it before running.
func ProvideSlot(i do.Injector) (*SlotHandle, error) {
	loc := string(do.MustInvoke[Location](i))

	slot, err := backend.Open(loc)
	if err != nil {
		return nil, err
	}
	kind, _ := backend.Resolve(loc)
	logger.Debug("Slot opened", "backend", kind, "path", slot.GetConfigPath())

	return &SlotHandle{Slot: slot, Kind: kind}, nil
}

// LockHandle carries the cross-process locker, nil when locking is off.
type LockHandle struct {
	Locker records.Locker
}

// ProvideLocker provides the lock file guarding saves. The in-memory backend
// and QUESTLOG_NO_LOCK run without one.
func ProvideLocker(i do.Injector) (*LockHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	slot := do.MustInvoke[*SlotHandle](i)
	dir := do.MustInvoke[DataDir](i)

	if cfg.NoLock || slot.Kind == backend.KindMemory {
		return &LockHandle{}, nil
	}
	return &LockHandle{Locker: lock.New(string(dir), lock.WithTimeout(cfg.LockTimeout))}, nil
}

// ProvideStore provides the record store.
func ProvideStore(i do.Injector) (*records.Store, error) {
	slot := do.MustInvoke[*SlotHandle](i)
	sink := do.MustInvoke[snapshot.Sink](i)
	locker := do.MustInvoke[*LockHandle](i)

	opts := []records.Option{records.WithSink(sink)}
	if locker.Locker != nil {
		opts = append(opts, records.WithLocker(locker.Locker))
	}
	return records.New(slot.Slot, opts...), nil
}

// ProvideBackups provides the backup manager.
func ProvideBackups(i do.Injector) (*backup.Manager, error) {
	cfg := do.MustInvoke[*config.Config](i)
	store := do.MustInvoke[*records.Store](i)
	dir := do.MustInvoke[DataDir](i)

	return backup.NewManager(store, string(dir), backup.WithMaxBackups(cfg.MaxBackups)), nil
}
