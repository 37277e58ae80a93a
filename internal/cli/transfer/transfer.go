package transfer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/records"
	"github.com/julianstephens/questlog/internal/snapshot"
	"github.com/julianstephens/questlog/internal/utils"
	"github.com/julianstephens/questlog/internal/validation"
)

func describe(c models.Counts) string {
	return fmt.Sprintf("%d campaigns, %d characters, %d diary entries", c.Campaigns, c.Characters, c.DiaryEntries)
}

type ExportCmd struct {
	Output string `short:"o" help:"File or directory to write to, '-' for stdout. Defaults to the configured export targets."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	agg := ctx.Store.GetAggregate(ctx.Ctx())

	switch {
	case c.Output == "-":
		return records.ExportTo(ctx.Ctx(), snapshot.NewWriterSink(ctx.Stdout(), "stdout"), agg)

	case c.Output != "":
		if info, err := os.Stat(c.Output); err == nil && info.IsDir() {
			sink := snapshot.NewDirSink(c.Output)
			if err := records.ExportTo(ctx.Ctx(), sink, agg); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			fmt.Fprintf(ctx.Stdout(), "Exported %s to %s\n", describe(agg.Counts()), sink.Target())
			return nil
		}
		snap, err := snapshot.Export(agg)
		if err != nil {
			return err
		}
		if err := utils.WriteFileAtomic(c.Output, snap.Data, 0644); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Fprintf(ctx.Stdout(), "Exported %s to %s\n", describe(agg.Counts()), c.Output)
		return nil
	}

	sink := ctx.Store.Sink()
	if sink == nil {
		return fmt.Errorf("no export target configured, use --output")
	}
	if err := ctx.Store.ExportSnapshot(ctx.Ctx(), agg); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	fmt.Fprintf(ctx.Stdout(), "Exported %s to %s\n", describe(agg.Counts()), sink.Target())
	return nil
}

type ImportCmd struct {
	File   string `arg:"" help:"Snapshot file to import, '-' for stdin."`
	Yes    bool   `short:"y" help:"Replace the current records without asking."`
	DryRun bool   `short:"n" help:"Parse and check the file without saving it."`
}

// Run replaces the whole aggregate with the file's contents. The current
// records are backed up first.
func (c *ImportCmd) Run(ctx *cli.Context) error {
	// the snapshot consumes stdin, leaving nothing to answer the prompt with
	if c.File == "-" && !c.Yes && !c.DryRun {
		return errors.New("importing from stdin needs --yes (or --dry-run)")
	}

	var r io.Reader = os.Stdin
	if c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", c.File, err)
		}
		defer f.Close()
		r = f
	}

	imported, err := ctx.Store.ImportSnapshot(r)
	if err != nil {
		return fmt.Errorf("import rejected: %w", err)
	}

	out := ctx.Stdout()
	fmt.Fprintf(out, "Read %s from %s\n", describe(imported.Counts()), filepath.Base(c.File))

	result := validation.New().ValidateAggregate(imported)
	if result.HasConflicts() {
		fmt.Fprintln(out, result.FormatReport())
	}
	if c.DryRun {
		fmt.Fprintln(out, "Dry run, nothing saved.")
		return nil
	}

	current := ctx.Store.GetAggregate(ctx.Ctx())
	prompt := fmt.Sprintf("Replace %s with the imported records?", describe(current.Counts()))
	ok, err := ctx.Confirmer(c.Yes).Confirm(prompt)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(out, "Import cancelled.")
		return nil
	}

	if !current.IsEmpty() && ctx.Backups != nil {
		path, err := ctx.Backups.CreateBackup(ctx.Ctx())
		if err != nil {
			return fmt.Errorf("failed to back up current records: %w", err)
		}
		fmt.Fprintf(out, "Backed up current records to %s\n", filepath.Base(path))
	}

	if err := ctx.Store.SaveAggregate(ctx.Ctx(), imported); err != nil {
		return fmt.Errorf("failed to save imported records: %w", err)
	}
	fmt.Fprintln(out, "Import complete.")
	return nil
}
