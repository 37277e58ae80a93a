package providers

import (
	"context"
	"errors"

	"github.com/samber/do/v2"

	"github.com/julianstephens/questlog/internal/config"
	"github.com/julianstephens/questlog/internal/keyring"
	"github.com/julianstephens/questlog/internal/logger"
	"github.com/julianstephens/questlog/internal/snapshot"
)

// ProvideSink provides the targets every save exports to: the export
// directory and, when a bucket is configured, S3. An S3 target that cannot be
// set up is skipped with a warning.
func ProvideSink(i do.Injector) (snapshot.Sink, error) {
	cfg := do.MustInvoke[*config.Config](i)
	dir := do.MustInvoke[DataDir](i)

	if cfg.ExportDisabled {
		return snapshot.MultiSink{}, nil
	}

	exportDir := cfg.ExportDir
	if exportDir == "" {
		exportDir = string(dir)
	}
	sinks := snapshot.MultiSink{snapshot.NewDirSink(exportDir)}

	s3cfg, ok := cfg.S3()
	if !ok {
		return sinks, nil
	}
	if s3cfg.AccessKey != "" && s3cfg.SecretKey == "" {
		secret, err := keyring.Get(keyring.S3SecretKey)
		switch {
		case err == nil:
			s3cfg.SecretKey = secret
		case errors.Is(err, keyring.ErrNotFound):
			logger.Warn("S3 access key set without a secret", "keyring_entry", keyring.S3SecretKey)
		default:
			logger.Warn("Failed to read S3 secret from keyring", "error", err)
		}
	}

	s3sink, err := snapshot.NewS3Sink(context.Background(), s3cfg)
	if err != nil {
		logger.Warn("S3 export disabled", "bucket", s3cfg.Bucket, "error", err)
		return sinks, nil
	}
	return append(sinks, s3sink), nil
}
