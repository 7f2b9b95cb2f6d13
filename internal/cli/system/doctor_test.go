package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitual/internal/models"
)

func TestDoctorCmdHealthy(t *testing.T) {
	stubTray(t, true)
	ctx, out := setupContext(t, ".db", models.PermissionGranted, "Read")

	require.NoError(t, (&DoctorCmd{}).Run(ctx))

	output := out.String()
	for _, line := range []string{
		"✓ Storage reachable: OK",
		"✓ Schema version: OK",
		"✓ Settings: OK",
		"✓ Habit integrity: OK",
		"⚠ Backups present: WARNING",
		"✓ Clock/timezone: OK",
		"✓ Notifications: OK",
		"All diagnostics passed!",
	} {
		assert.Contains(t, output, line)
	}
}

func TestDoctorCmdWarnsWithoutPermission(t *testing.T) {
	stubTray(t, false)
	ctx, out := setupContext(t, ".json", models.PermissionDenied)

	require.NoError(t, (&DoctorCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "⊘ Schema version: SKIPPED (backend has no schema)")
	assert.Contains(t, out.String(), "permission is denied")
}

func TestDoctorCmdUninitialized(t *testing.T) {
	stubTray(t, false)
	ctx, out := newContext(t, ".db")

	err := (&DoctorCmd{}).Run(ctx)
	require.Error(t, err)
	assert.Contains(t, out.String(), "❌ Storage reachable: FAIL")
	assert.Contains(t, out.String(), "⊘ Habit integrity: SKIPPED")
	assert.Contains(t, out.String(), "Diagnostics completed with errors.")
}

func TestDoctorCmdHabitIntegrity(t *testing.T) {
	stubTray(t, true)

	tests := []struct {
		name   string
		habits []models.Habit
		want   string
	}{
		{
			name:   "duplicate id",
			habits: []models.Habit{{ID: 1, Name: "Read"}, {ID: 1, Name: "Run"}},
			want:   "duplicate habit id 1",
		},
		{
			name:   "negative streak",
			habits: []models.Habit{{ID: 1, Name: "Read", Streak: -1}},
			want:   "negative streak",
		},
		{
			name:   "bad date",
			habits: []models.Habit{{ID: 1, Name: "Read", LastCompleted: "16/03/2026"}},
			want:   "invalid lastCompleted date",
		},
		{
			name:   "completed without date",
			habits: []models.Habit{{ID: 1, Name: "Read", Completed: true}},
			want:   "no completion date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := setupContext(t, ".json", models.PermissionGranted)
			require.NoError(t, ctx.Store.SaveHabits(tt.habits))

			require.Error(t, (&DoctorCmd{}).Run(ctx))
			assert.Contains(t, out.String(), "❌ Habit integrity: FAIL")
			assert.Contains(t, out.String(), tt.want)
		})
	}
}
