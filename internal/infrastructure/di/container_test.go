package di

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storagegateway "github.com/YoshitsuguKoike/kindred/internal/adapter/gateway/storage"
	appconfig "github.com/YoshitsuguKoike/kindred/internal/app/config"
	"github.com/YoshitsuguKoike/kindred/internal/application/service"
)

func testConfig(home, storage, bucket string) *appconfig.AppConfig {
	return appconfig.NewAppConfig(
		home, ":0", "http://localhost:8080",
		storage, filepath.Join(home, "kindred.db"),
		"local", "", "", 10,
		"info", "console",
		"kindred_session", false,
		bucket, "", "",
		"default", "",
	)
}

func TestContainer_MemoryStorage(t *testing.T) {
	fs := afero.NewMemMapFs()
	c, err := NewContainer(context.Background(), testConfig("/home", StorageMemory, ""), WithFs(fs))
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, StorageMemory, c.StorageName())
	assert.NotNil(t, c.GetCatalog())
	assert.IsType(t, &storagegateway.LocalExportStore{}, c.GetExportStore())

	ws := c.NewWorkspace("owner-1")
	_, err = ws.Tracker.Add(context.Background(), service.InteractionForm{Person: "Mom", Type: "support", Description: "Cooked dinner"})
	require.NoError(t, err)

	doc, err := c.GetExporter().Snapshot(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Len(t, doc.Interactions, 1)
}

func TestContainer_SQLiteStorage(t *testing.T) {
	home := t.TempDir()
	c, err := NewContainer(context.Background(), testConfig(home, StorageSQLite, ""))
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, StorageSQLite, c.StorageName())

	ctx := context.Background()
	ws := c.NewWorkspace("owner-1")
	_, err = ws.Tracker.Add(ctx, service.InteractionForm{Person: "Sarah", Type: "they-reached", Description: "Called"})
	require.NoError(t, err)
	require.NoError(t, ws.Scripts.Customize(ctx, "1", "mine"))

	// A second session for the same owner reads the same database
	again := c.NewWorkspace("owner-1")
	n, err := again.Tracker.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	doc, err := c.GetExporter().Snapshot(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, doc.Interactions, 1)
	assert.Len(t, doc.Customizations, 1)
}

func TestContainer_Overrides(t *testing.T) {
	store := storagegateway.NewS3ExportStoreWithClient(storagegateway.NewMockS3Client(), "bucket", "kindred")
	c, err := NewContainer(context.Background(), testConfig("/home", StorageMemory, "bucket"),
		WithExportStore(store))
	require.NoError(t, err)
	defer c.Close()

	assert.Same(t, store, c.GetExportStore())
}

func TestContainer_UnknownStorage(t *testing.T) {
	_, err := NewContainer(context.Background(), testConfig(t.TempDir(), "postgres", ""))
	assert.ErrorContains(t, err, "unknown storage type")
}
