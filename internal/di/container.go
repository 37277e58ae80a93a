// Package di assembles questlog's services with samber/do.
package di

import (
	"github.com/samber/do/v2"

	"github.com/julianstephens/questlog/internal/backup"
	"github.com/julianstephens/questlog/internal/config"
	"github.com/julianstephens/questlog/internal/di/providers"
	"github.com/julianstephens/questlog/internal/records"
)

// Options are the values known before the container is built.
type Options struct {
	// Location is the --config value.
	Location string
	// Env replaces the process environment when non-nil.
	Env map[string]string
}

// NewContainer creates and configures the DI container with all providers.
func NewContainer(opts Options) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, providers.Location(opts.Location))
	do.ProvideValue(injector, providers.Environment(opts.Env))

	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideDataDir)

	// Storage
	do.Provide(injector, providers.ProvideSlot)
	do.Provide(injector, providers.ProvideLocker)
	do.Provide(injector, providers.ProvideSink)
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideBackups)

	return injector
}

// Services are the resolved handles the commands run against.
type Services struct {
	Config  *config.Config
	Slot    *providers.SlotHandle
	Store   *records.Store
	Backups *backup.Manager
}

// Resolve builds every service. The first provider error is returned.
func Resolve(injector do.Injector) (*Services, error) {
	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		return nil, err
	}
	slot, err := do.Invoke[*providers.SlotHandle](injector)
	if err != nil {
		return nil, err
	}
	store, err := do.Invoke[*records.Store](injector)
	if err != nil {
		return nil, err
	}
	backups, err := do.Invoke[*backup.Manager](injector)
	if err != nil {
		return nil, err
	}
	return &Services{Config: cfg, Slot: slot, Store: store, Backups: backups}, nil
}

// Shutdown closes every service holding resources. The report is returned
// as the error when any service failed to stop.
func Shutdown(injector *do.RootScope) error {
	report := injector.Shutdown()
	if report == nil {
		return nil
	}
	for _, err := range report.Errors {
		if err != nil {
			return report
		}
	}
	return nil
}
