package settings

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/jsonfile"
)

func setupTestStore(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := storage.NewStore(jsonfile.NewStore(filepath.Join(t.TempDir(), "habitual.json")))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	out := &bytes.Buffer{}
	return &cli.Context{Store: store, Out: out}, out
}

func TestSettingsCmd_List(t *testing.T) {
	ctx, out := setupTestStore(t)

	if err := (&SettingsCmd{List: true}).Run(ctx); err != nil {
		t.Fatalf("settings list failed: %v", err)
	}
	for _, want := range []string{constants.DefaultReminderTime, constants.DefaultTimezone, "unasked"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected %q in output:\n%s", want, out.String())
		}
	}
}

func TestSettingsCmd_Update(t *testing.T) {
	ctx, _ := setupTestStore(t)

	reminder := "21:15"
	dark := true
	tz := "UTC"
	cmd := &SettingsCmd{ReminderTime: &reminder, DarkMode: &dark, Timezone: &tz}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if settings.ReminderTime != reminder || !settings.DarkMode || settings.Timezone != tz {
		t.Errorf("settings not saved: %+v", settings)
	}

	// Dark mode is stored as the literal string "true".
	value, ok, err := ctx.Store.Backend().Get(constants.KeyDarkMode)
	if err != nil || !ok || value != "true" {
		t.Errorf("expected darkMode=\"true\", got %q ok=%v err=%v", value, ok, err)
	}
}

func TestSettingsCmd_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		cmd  SettingsCmd
	}{
		{name: "bad reminder time", cmd: SettingsCmd{ReminderTime: ptr("8pm")}},
		{name: "bad timezone", cmd: SettingsCmd{Timezone: ptr("Nowhere/Special")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestStore(t)
			if err := tt.cmd.Run(ctx); err == nil {
				t.Fatal("expected validation error")
			}
			settings, err := ctx.Store.GetSettings()
			if err != nil {
				t.Fatalf("failed to get settings: %v", err)
			}
			if settings.ReminderTime != constants.DefaultReminderTime || settings.Timezone != constants.DefaultTimezone {
				t.Errorf("invalid update was persisted: %+v", settings)
			}
		})
	}
}

func TestSettingsCmd_NoChanges(t *testing.T) {
	ctx, out := setupTestStore(t)
	if err := (&SettingsCmd{}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "No changes specified") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func ptr(s string) *string { return &s }
