package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/storage/backend"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting an existing SQLite database before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Slot.Init(ctx.Ctx()); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Stdout(), "Initialized questlog storage at: %s\n", ctx.Slot.GetConfigPath())
	return nil
}

// reset only touches SQLite files. Directory backends share their directory
// with backups and logs.
func (c *InitCmd) reset(ctx *cli.Context) error {
	out := ctx.Stdout()
	kind, dbPath := backend.Resolve(ctx.Location)
	if kind != backend.KindSQLite {
		fmt.Fprintf(out, "--force only resets SQLite databases, leaving %s storage untouched\n", kind)
		return nil
	}

	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		// Some other error occurred while checking the database; surface it to the user
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	// Database exists, close it first to prevent file locking issues
	if err := ctx.Slot.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	for _, path := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
	}
	fmt.Fprintf(out, "Deleted existing database at: %s\n", dbPath)
	return nil
}
