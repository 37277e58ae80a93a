// Package backend selects a slot implementation from a --config location.
package backend

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/keyring"
	"github.com/julianstephens/questlog/internal/storage"
	"github.com/julianstephens/questlog/internal/storage/badgerdb"
	"github.com/julianstephens/questlog/internal/storage/file"
	"github.com/julianstephens/questlog/internal/storage/memory"
	"github.com/julianstephens/questlog/internal/storage/postgres"
	"github.com/julianstephens/questlog/internal/storage/sqlite"
)

const (
	badgerScheme = "badger://"
	fileScheme   = "file://"
	memoryScheme = "memory://"
)

// Kind names the backend a location resolves to.
type Kind string

const (
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
	KindBadger   Kind = "badger"
	KindFile     Kind = "file"
	KindMemory   Kind = "memory"
)

// Resolve reports which backend serves location and the path or connection
// string handed to it. The keyring location is resolved by Open.
func Resolve(location string) (Kind, string) {
	switch {
	case postgres.IsConnString(location):
		return KindPostgres, location
	case strings.HasPrefix(location, badgerScheme):
		return KindBadger, kong.ExpandPath(strings.TrimPrefix(location, badgerScheme))
	case strings.HasPrefix(location, fileScheme):
		return KindFile, kong.ExpandPath(strings.TrimPrefix(location, fileScheme))
	case location == memoryScheme || location == "memory":
		return KindMemory, ""
	default:
		return KindSQLite, kong.ExpandPath(location)
	}
}

// Open builds the slot for location without loading it.
func Open(location string) (storage.Slot, error) {
	if location == constants.KeyringConfigValue {
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, fmt.Errorf("no connection string in keyring, run 'questlog keyring set %s' first", keyring.ConnectionString)
			}
			return nil, err
		}
		location = connStr
		if !postgres.IsConnString(location) {
			return nil, fmt.Errorf("keyring entry %s is not a PostgreSQL connection string", keyring.ConnectionString)
		}
	}

	kind, target := Resolve(location)
	switch kind {
	case KindPostgres:
		if err := postgres.ValidateConnString(target); err != nil {
			return nil, err
		}
		return postgres.New(target), nil
	case KindBadger:
		if target == "" {
			return nil, errors.New("badger location needs a directory")
		}
		return badgerdb.NewStore(target), nil
	case KindFile:
		if target == "" {
			return nil, errors.New("file location needs a directory")
		}
		return file.NewStore(target), nil
	case KindMemory:
		return memory.NewStore(), nil
	default:
		return sqlite.NewStore(target), nil
	}
}

// DataDir returns the local directory that holds backups, logs and the lock
// file for location. Remote backends fall back to the default config directory.
func DataDir(location string) string {
	if location == constants.KeyringConfigValue {
		return filepath.Dir(kong.ExpandPath(constants.DefaultConfigPath))
	}
	kind, target := Resolve(location)
	switch kind {
	case KindSQLite:
		return filepath.Dir(target)
	case KindBadger, KindFile:
		return target
	default:
		return filepath.Dir(kong.ExpandPath(constants.DefaultConfigPath))
	}
}
