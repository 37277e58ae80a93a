package backups

import (
	stderrors "errors"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/snapshot"
	"github.com/julianstephens/questlog/internal/storage"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	backupPath, err := ctx.Backups.CreateBackup(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	fmt.Fprintf(ctx.Stdout(), "✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()
	backups, err := ctx.Backups.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Fprintln(out, "No backups found.")
		fmt.Fprintf(out, "Backups are stored in: %s\n", ctx.Backups.GetBackupDir())
		return nil
	}

	fmt.Fprintf(out, "Available backups (%d total, keeping most recent %d):\n\n", len(backups), ctx.Config.MaxBackups)
	for _, b := range backups {
		fmt.Fprintf(out, "  %s  %s  (%s, %s)\n",
			b.Timestamp.Format("2006-01-02 15:04"), b.Name(), humanize.IBytes(uint64(b.Size)), humanize.Time(b.Timestamp))
	}
	fmt.Fprintf(out, "\nBackup directory: %s\n", ctx.Backups.GetBackupDir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Restore without asking."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()
	backupPath := ctx.Backups.Resolve(c.BackupFile)

	agg, err := ctx.Backups.Load(backupPath)
	if err != nil {
		return err
	}

	counts := agg.Counts()
	fmt.Fprintln(out, "⚠️  WARNING: This will replace your current records with the backup.")
	fmt.Fprintln(out, "A backup of your current records will be created before restoring.")
	fmt.Fprintf(out, "\nRestore from: %s (%d campaigns, %d characters, %d diary entries)\n",
		backupPath, counts.Campaigns, counts.Characters, counts.DiaryEntries)

	ok, err := ctx.Confirmer(c.Yes).Confirm("Continue?")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(out, "Restore cancelled.")
		return nil
	}

	preRestore, err := ctx.Backups.RestoreBackup(ctx.Ctx(), backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	if preRestore != "" {
		fmt.Fprintf(out, "Previous records saved to: %s\n", filepath.Base(preRestore))
	}
	fmt.Fprintln(out, "✓ Records restored successfully!")
	return nil
}

// BackupUndoCmd puts back the aggregate replaced by the last save. Running it
// twice returns to where it started.
type BackupUndoCmd struct {
	Yes bool `short:"y" help:"Undo without asking."`
}

func (c *BackupUndoCmd) Run(ctx *cli.Context) error {
	historian, ok := ctx.Slot.(storage.Historian)
	if !ok {
		return fmt.Errorf("the %s backend keeps no history, use 'questlog backup restore'", ctx.Slot.GetConfigPath())
	}

	data, err := historian.ReadPrevious(ctx.Ctx(), constants.AggregateKey)
	if stderrors.Is(err, storage.ErrNoHistory) {
		fmt.Fprintln(ctx.Stdout(), "Nothing to undo.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read previous records: %w", err)
	}

	prev, err := snapshot.Decode(data)
	if err != nil {
		return fmt.Errorf("previous records are unreadable: %w", err)
	}

	counts := prev.Counts()
	prompt := fmt.Sprintf("Go back to %d campaigns, %d characters, %d diary entries?",
		counts.Campaigns, counts.Characters, counts.DiaryEntries)
	confirmed, err := ctx.Confirmer(c.Yes).Confirm(prompt)
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Fprintln(ctx.Stdout(), "Undo cancelled.")
		return nil
	}

	if err := ctx.Store.SaveAggregate(ctx.Ctx(), prev); err != nil {
		return fmt.Errorf("undo failed: %w", err)
	}
	fmt.Fprintln(ctx.Stdout(), "✓ Last save undone.")
	return nil
}
