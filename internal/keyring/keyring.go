// Package keyring stores questlog secrets in the OS keyring.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/questlog/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored for the entry
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Entry names a secret kept under the questlog service.
type Entry string

const (
	// ConnectionString holds the PostgreSQL connection string used by --config keyring
	ConnectionString Entry = constants.DefaultKeyringUser
	// S3SecretKey holds the secret access key of the snapshot bucket
	S3SecretKey Entry = "s3-secret-key"
)

// Entries lists the entries the CLI can manage.
var Entries = []Entry{ConnectionString, S3SecretKey}

// ParseEntry resolves a user supplied entry name.
func ParseEntry(name string) (Entry, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	for _, e := range Entries {
		if string(e) == name {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown keyring entry %q", name)
}

// Get retrieves the secret stored for e.
func Get(e Entry) (string, error) {
	value, err := keyring.Get(constants.AppName, string(e))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

// Set stores value for e, replacing any previous secret.
func Set(e Entry, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", e)
	}
	if err := keyring.Set(constants.AppName, string(e), value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", e, err)
	}
	return nil
}

// Delete removes the secret stored for e.
func Delete(e Entry) error {
	if err := keyring.Delete(constants.AppName, string(e)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", e, err)
	}
	return nil
}

// GetConnectionString retrieves the database connection string.
func GetConnectionString() (string, error) {
	return Get(ConnectionString)
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
