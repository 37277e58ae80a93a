package system

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/snapshot"
	"github.com/julianstephens/questlog/internal/storage"
	"github.com/julianstephens/questlog/internal/validation"
)

type DoctorCmd struct{}

type severity int

const (
	failure severity = iota
	warning
)

type check struct {
	name     string
	severity severity
	// needsSlot checks are skipped when the storage cannot be reached
	needsSlot bool
	run       func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsSlot: true, run: checkSchemaVersion},
	{name: "Records readable", needsSlot: true, run: checkRecordsReadable},
	{name: "Backups present", severity: warning, run: checkBackupsPresent},
	{name: "Record integrity", severity: warning, needsSlot: true, run: checkIntegrity},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()
	fmt.Fprintln(out, "Running diagnostics...")
	fmt.Fprintln(out)

	hasError := false
	slotReachable := true
	if err := ctx.Slot.Load(ctx.Ctx()); err != nil {
		report(out, "Storage reachable", failure, fmt.Errorf("failed to load %s: %w", ctx.Slot.GetConfigPath(), err))
		hasError = true
		slotReachable = false
	} else {
		fmt.Fprintf(out, "✓ Storage reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsSlot && !slotReachable {
			fmt.Fprintf(out, "⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		if err == nil {
			fmt.Fprintf(out, "✓ %s: OK\n", c.name)
			continue
		}
		report(out, c.name, c.severity, err)
		if c.severity == failure {
			hasError = true
		}
	}

	fmt.Fprintln(out)
	if hasError {
		fmt.Fprintln(out, "Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Fprintln(out, "All diagnostics passed!")
	return nil
}

func report(out io.Writer, name string, sev severity, err error) {
	if sev == warning {
		fmt.Fprintf(out, "⚠ %s: WARNING\n", name)
		fmt.Fprintf(out, "   %v\n", err)
		return
	}
	fmt.Fprintf(out, "❌ %s: FAIL\n", name)
	fmt.Fprintf(out, "   Error: %v\n", err)
}

func checkSchemaVersion(ctx *cli.Context) error {
	reporter, ok := ctx.Slot.(storage.SchemaReporter)
	if !ok {
		return nil
	}

	current, latest, err := reporter.SchemaStatus(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

// checkRecordsReadable decodes the stored aggregate directly. The store
// itself would silently fall back to an empty aggregate.
func checkRecordsReadable(ctx *cli.Context) error {
	data, err := ctx.Slot.Read(ctx.Ctx(), constants.AggregateKey)
	if stderrors.Is(err, storage.ErrSlotEmpty) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read records: %w", err)
	}
	if _, err := snapshot.Decode(data); err != nil {
		return fmt.Errorf("stored records cannot be parsed and will be treated as empty: %w", err)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	backups, err := ctx.Backups.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'questlog backup create'")
	}

	latest := backups[0]
	if ctx.Store.Now().Sub(latest.Timestamp) > constants.StaleBackupAge {
		return fmt.Errorf("latest backup %s is from %s", latest.Name(), humanize.RelTime(latest.Timestamp, ctx.Store.Now(), "ago", "from now"))
	}
	return nil
}

func checkIntegrity(ctx *cli.Context) error {
	result := validation.New().ValidateAggregate(ctx.Store.GetAggregate(ctx.Ctx()))
	if !result.HasConflicts() {
		return nil
	}
	return fmt.Errorf("%d conflicts found, run 'questlog validate' for details", len(result.Conflicts))
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Store.Now()
	// Check if time is in a reasonable range (after 2020 and before 2100)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(constants.TimestampFormat))
	}
	return nil
}
