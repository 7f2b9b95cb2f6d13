package system

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/jsonfile"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

var reminderAt = time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC)

// newContext returns a context over an uninitialized backend in a temp dir.
// ext selects the backend: ".db" for SQLite, ".json" for a JSON document.
func newContext(t *testing.T, ext string) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "habitual"+ext)

	var backend storage.Backend
	if ext == ".json" {
		backend = jsonfile.NewStore(path)
	} else {
		backend = sqlite.NewStore(path)
	}
	store := storage.NewStore(backend)
	t.Cleanup(func() { _ = store.Close() })

	out := &bytes.Buffer{}
	return &cli.Context{
		Store: store,
		Out:   out,
		Now:   func() time.Time { return reminderAt },
	}, out
}

// setupContext returns an initialized context with UTC settings and the given permission.
func setupContext(t *testing.T, ext string, perm models.Permission, names ...string) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	ctx, out := newContext(t, ext)
	require.NoError(t, ctx.Store.Init())

	settings, err := ctx.Store.GetSettings()
	require.NoError(t, err)
	settings.Timezone = "UTC"
	settings.NotificationPermission = perm
	require.NoError(t, ctx.Store.SaveSettings(settings))

	habits := make([]models.Habit, len(names))
	for i, name := range names {
		habits[i] = models.Habit{ID: int64(i + 1), Name: name}
	}
	require.NoError(t, ctx.Store.SaveHabits(habits))
	return ctx, out
}

func stubTray(t *testing.T, available bool) {
	t.Helper()
	orig := trayAvailable
	trayAvailable = func() bool { return available }
	t.Cleanup(func() { trayAvailable = orig })
}

func permissionOf(t *testing.T, ctx *cli.Context) models.Permission {
	t.Helper()
	settings, err := ctx.Store.GetSettings()
	require.NoError(t, err)
	return settings.NotificationPermission
}
