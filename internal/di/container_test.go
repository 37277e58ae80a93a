package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/di/providers"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/storage/backend"
)

func TestResolveMemoryBackend(t *testing.T) {
	exportDir := t.TempDir()
	injector := NewContainer(Options{
		Location: "memory://",
		Env:      map[string]string{"QUESTLOG_EXPORT_DIR": exportDir, "QUESTLOG_MAX_BACKUPS": "4"},
	})
	t.Cleanup(func() { _ = Shutdown(injector) })

	svc, err := Resolve(injector)
	require.NoError(t, err)
	assert.Equal(t, backend.KindMemory, svc.Slot.Kind)
	assert.Equal(t, 4, svc.Config.MaxBackups)

	locker := do.MustInvoke[*providers.LockHandle](injector)
	assert.Nil(t, locker.Locker, "memory backend runs without a lock file")

	ctx := context.Background()
	require.NoError(t, svc.Slot.Load(ctx))

	agg := models.EmptyAggregate()
	agg.Campaigns = append(agg.Campaigns, models.NewCampaign("Curse of Strahd", "Ada", svc.Store.Now()))
	require.NoError(t, svc.Store.SaveAggregate(ctx, agg))

	_, err = os.Stat(filepath.Join(exportDir, constants.ExportFileName))
	assert.NoError(t, err, "save should export a snapshot")
	assert.Equal(t, agg, svc.Store.GetAggregate(ctx))
}

func TestResolveSQLiteBackendUsesLockAndDataDir(t *testing.T) {
	dir := t.TempDir()
	injector := NewContainer(Options{
		Location: filepath.Join(dir, "questlog.db"),
		Env:      map[string]string{},
	})
	t.Cleanup(func() { _ = Shutdown(injector) })

	svc, err := Resolve(injector)
	require.NoError(t, err)
	assert.Equal(t, backend.KindSQLite, svc.Slot.Kind)
	assert.Equal(t, filepath.Join(dir, constants.BackupDirName), svc.Backups.GetBackupDir())

	locker := do.MustInvoke[*providers.LockHandle](injector)
	assert.NotNil(t, locker.Locker)
}

func TestExportDisabled(t *testing.T) {
	injector := NewContainer(Options{
		Location: "memory",
		Env:      map[string]string{"QUESTLOG_EXPORT_DISABLED": "true"},
	})
	t.Cleanup(func() { _ = Shutdown(injector) })

	svc, err := Resolve(injector)
	require.NoError(t, err)
	assert.Equal(t, "none", svc.Store.Sink().Target())
}

func TestResolveReportsProviderErrors(t *testing.T) {
	injector := NewContainer(Options{
		Location: "memory",
		Env:      map[string]string{"QUESTLOG_MAX_BACKUPS": "many"},
	})
	t.Cleanup(func() { _ = Shutdown(injector) })

	_, err := Resolve(injector)
	assert.Error(t, err)
}
