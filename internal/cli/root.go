package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/questlog/internal/backup"
	"github.com/julianstephens/questlog/internal/config"
	"github.com/julianstephens/questlog/internal/logger"
	"github.com/julianstephens/questlog/internal/records"
	"github.com/julianstephens/questlog/internal/storage"
)

type Context struct {
	Store    *records.Store
	Backups  *backup.Manager
	Config   *config.Config
	Slot     storage.Slot
	Location string

	// Confirm answers delete and import prompts. Nil prompts on the terminal.
	Confirm records.Confirmer
	// Out receives data output such as exports. Nil means stdout.
	Out io.Writer
}

// Ctx is the context every command runs under.
func (c *Context) Ctx() context.Context {
	return context.Background()
}

func (c *Context) Stdout() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

// Confirmer returns the prompt to use, or one that always agrees when yes is set.
func (c *Context) Confirmer(yes bool) records.Confirmer {
	if yes {
		return records.AlwaysConfirm
	}
	if c.Confirm != nil {
		return c.Confirm
	}
	return NewPromptConfirmer(os.Stdin, os.Stdout)
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if c.Backups == nil {
		return
	}
	if _, err := c.Backups.CreateBackup(c.Ctx()); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Breadcrumb renders a navigation trail such as "Home › Campaigns › Strahd".
func Breadcrumb(parts ...string) string {
	trail := append([]string{"Home"}, parts...)
	return strings.Join(trail, " › ")
}
