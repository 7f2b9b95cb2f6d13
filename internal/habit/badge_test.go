package habit

import (
	"testing"

	"github.com/julianstephens/habitual/internal/models"
)

func TestBadgeFor(t *testing.T) {
	tests := []struct {
		streak int
		want   models.Badge
	}{
		{0, models.BadgeNone},
		{6, models.BadgeNone},
		{7, models.BadgeBronze},
		{29, models.BadgeBronze},
		{30, models.BadgeSilver},
		{59, models.BadgeSilver},
		{60, models.BadgeGold},
		{365, models.BadgeGold},
		{-1, models.BadgeNone},
	}

	for _, tt := range tests {
		if got := BadgeFor(tt.streak); got != tt.want {
			t.Errorf("BadgeFor(%d) = %q, want %q", tt.streak, got, tt.want)
		}
	}
}
