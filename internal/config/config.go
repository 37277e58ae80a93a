// Package config loads the settings that are not exposed as command-line flags
// from QUESTLOG_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"

	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/snapshot"
)

type Config struct {
	// ExportDir overrides the directory campaigns.json is written to.
	// Defaults to the data directory of the active slot.
	ExportDir      string `env:"QUESTLOG_EXPORT_DIR"`
	ExportDisabled bool   `env:"QUESTLOG_EXPORT_DISABLED"`

	S3Bucket    string `env:"QUESTLOG_S3_BUCKET"`
	S3Prefix    string `env:"QUESTLOG_S3_PREFIX"     envDefault:"questlog"`
	S3Region    string `env:"QUESTLOG_S3_REGION"`
	S3Endpoint  string `env:"QUESTLOG_S3_ENDPOINT"`
	S3AccessKey string `env:"QUESTLOG_S3_ACCESS_KEY"`
	S3SecretKey string `env:"QUESTLOG_S3_SECRET_KEY"`
	S3PathStyle bool   `env:"QUESTLOG_S3_PATH_STYLE"`

	LockTimeout time.Duration `env:"QUESTLOG_LOCK_TIMEOUT" envDefault:"5s"`
	NoLock      bool          `env:"QUESTLOG_NO_LOCK"`

	MaxBackups int    `env:"QUESTLOG_MAX_BACKUPS" envDefault:"14"`
	Locale     string `env:"QUESTLOG_LOCALE"      envDefault:"en"`
}

// Load reads the process environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg.normalize(), nil
}

// LoadFrom reads the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg.normalize(), nil
}

func (c Config) normalize() *Config {
	if c.LockTimeout <= 0 {
		c.LockTimeout = constants.DefaultLockTimeout
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = constants.MaxBackups
	}
	return &c
}

// S3 returns the upload target, or false when no bucket is configured.
func (c Config) S3() (snapshot.S3Config, bool) {
	if c.S3Bucket == "" {
		return snapshot.S3Config{}, false
	}
	return snapshot.S3Config{
		Bucket:    c.S3Bucket,
		Prefix:    c.S3Prefix,
		Region:    c.S3Region,
		Endpoint:  c.S3Endpoint,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		PathStyle: c.S3PathStyle,
	}, true
}

// Language is the collation language for name sorting. Unknown locales fall
// back to English.
func (c Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}
