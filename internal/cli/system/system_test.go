package system

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/questlog/internal/backup"
	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/cli/clitest"
	"github.com/julianstephens/questlog/internal/config"
	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/records"
	"github.com/julianstephens/questlog/internal/storage/sqlite"
)

func setupSQLite(t *testing.T) (*cli.Context, *strings.Builder, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "questlog.db")
	slot := sqlite.NewStore(dbPath)
	t.Cleanup(func() {
		if err := slot.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	cfg, err := config.LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	store := records.New(slot, records.WithClock(clitest.NewClock().Now))
	out := &strings.Builder{}
	ctx := &cli.Context{
		Store:    store,
		Backups:  backup.NewManager(store, filepath.Dir(dbPath)),
		Config:   cfg,
		Slot:     slot,
		Location: dbPath,
		Out:      out,
	}
	return ctx, out, dbPath
}

func TestInitCmd_Success(t *testing.T) {
	ctx, out, dbPath := setupSQLite(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}
	if !strings.Contains(out.String(), "Initialized questlog storage") {
		t.Errorf("unexpected output: %s", out.String())
	}

	// Run init second time - should be idempotent
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Errorf("second init failed (should be idempotent): %v", err)
	}
}

func TestInitCmd_ForceDeletesExisting(t *testing.T) {
	ctx, out, _ := setupSQLite(t)
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("initial init failed: %v", err)
	}
	agg := models.EmptyAggregate()
	agg.Campaigns = append(agg.Campaigns, models.NewCampaign("Strahd", "Ada", ctx.Store.Now()))
	if err := ctx.Store.SaveAggregate(context.Background(), agg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("force init failed: %v", err)
	}
	if !strings.Contains(out.String(), "Deleted existing database") {
		t.Errorf("expected deletion notice: %s", out.String())
	}
	if got := ctx.Store.GetAggregate(context.Background()); !got.IsEmpty() {
		t.Errorf("force init should start from empty storage, got %+v", got.Counts())
	}
}

func TestInitCmd_ForceIgnoresMemory(t *testing.T) {
	env := clitest.New(t, true)
	if err := (&InitCmd{Force: true}).Run(env.Ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(env.Out.String(), "leaving memory storage untouched") {
		t.Errorf("unexpected output: %s", env.Out.String())
	}
}

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, out, _ := setupSQLite(t)
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	// Missing backups is a warning, not a failure
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v\n%s", err, out.String())
	}
	for _, want := range []string{"✓ Storage reachable", "✓ Schema version", "⚠ Backups present"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("missing %q in:\n%s", want, out.String())
		}
	}
}

func TestDoctorCmd_Uninitialized(t *testing.T) {
	ctx, out, _ := setupSQLite(t)

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail when storage is not initialized")
	}
	if !strings.Contains(out.String(), "SKIPPED (storage not reachable)") {
		t.Errorf("dependent checks should be skipped:\n%s", out.String())
	}
}

func TestDoctorCmd_UnparsableRecords(t *testing.T) {
	env := clitest.New(t, true)
	if err := env.Slot.Write(context.Background(), constants.AggregateKey, []byte("{not json")); err != nil {
		t.Fatal(err)
	}

	if err := (&DoctorCmd{}).Run(env.Ctx); err == nil {
		t.Error("doctor should fail on unparsable records")
	}
	if !strings.Contains(env.Out.String(), "❌ Records readable: FAIL") {
		t.Errorf("unexpected output:\n%s", env.Out.String())
	}
}

func TestDoctorCmd_IntegrityIsWarning(t *testing.T) {
	env := clitest.New(t, true)
	env.Seed(t, models.Aggregate{
		Characters: []models.Character{
			{ID: "character-1", Name: "Ireena", CampaignIDs: []string{"campaign-gone"}},
		},
	})

	if err := (&DoctorCmd{}).Run(env.Ctx); err != nil {
		t.Errorf("dangling references should only warn: %v", err)
	}
	if !strings.Contains(env.Out.String(), "⚠ Record integrity: WARNING") {
		t.Errorf("unexpected output:\n%s", env.Out.String())
	}
}

func TestValidateCmd(t *testing.T) {
	env := clitest.New(t, true)
	if err := (&ValidateCmd{Strict: true}).Run(env.Ctx); err != nil {
		t.Fatalf("validate on empty records failed: %v", err)
	}
	if !strings.Contains(env.Out.String(), "No conflicts detected.") {
		t.Errorf("unexpected output: %s", env.Out.String())
	}

	env.Seed(t, models.Aggregate{
		Characters: []models.Character{
			{ID: "character-1", Name: "Ireena", CampaignIDs: []string{"campaign-gone"}},
		},
	})
	if err := (&ValidateCmd{}).Run(env.Ctx); err != nil {
		t.Errorf("non-strict validate should not fail: %v", err)
	}
	if err := (&ValidateCmd{Strict: true}).Run(env.Ctx); err == nil {
		t.Error("strict validate should fail on conflicts")
	}
}

func TestDebugDumpCommands(t *testing.T) {
	env := clitest.New(t, true)
	env.Seed(t, models.Aggregate{
		Campaigns: []models.Campaign{{ID: "campaign-1", Name: "Curse of Strahd", Master: "Ada"}},
	})

	if err := (&DebugDumpCampaignCmd{ID: "campaign-1"}).Run(env.Ctx); err != nil {
		t.Fatalf("dump campaign failed: %v", err)
	}
	if !strings.Contains(env.Out.String(), `"name": "Curse of Strahd"`) {
		t.Errorf("unexpected output: %s", env.Out.String())
	}

	if err := (&DebugDumpCharacterCmd{ID: "character-404"}).Run(env.Ctx); err == nil {
		t.Error("expected not found error")
	}

	env.Out.Reset()
	if err := (&DebugPathCmd{}).Run(env.Ctx); err != nil {
		t.Fatalf("debug path failed: %v", err)
	}
	if !strings.Contains(env.Out.String(), `"backend": "memory"`) {
		t.Errorf("unexpected output: %s", env.Out.String())
	}
}

func TestVersionCmd(t *testing.T) {
	env := clitest.New(t, true)
	if err := (&VersionCmd{}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(env.Out.String()); got != constants.AppName+" "+constants.Version {
		t.Errorf("unexpected version line %q", got)
	}
}
