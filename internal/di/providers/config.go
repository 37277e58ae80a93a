// Package providers contains dependency injection providers for questlog.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/julianstephens/questlog/internal/config"
	"github.com/julianstephens/questlog/internal/storage/backend"
)

// Location is the --config value naming the slot backend.
type Location string

// Environment replaces the process environment when non-nil.
type Environment map[string]string

// ProvideConfig provides the environment configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	vars := do.MustInvoke[Environment](i)
	if vars != nil {
		return config.LoadFrom(vars)
	}
	return config.Load()
}

// DataDir is the local directory holding backups, the lock file and exports.
type DataDir string

// ProvideDataDir provides the data directory of the configured location.
func ProvideDataDir(i do.Injector) (DataDir, error) {
	loc := do.MustInvoke[Location](i)
	return DataDir(backend.DataDir(string(loc))), nil
}
