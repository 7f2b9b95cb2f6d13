package habit

import (
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

// BadgeFor maps a streak length to its badge. Tiers are inclusive at the
// lower bound and exclusive at the upper; Gold is unbounded.
func BadgeFor(streak int) models.Badge {
	switch {
	case streak >= constants.GoldStreakDays:
		return models.BadgeGold
	case streak >= constants.SilverStreakDays:
		return models.BadgeSilver
	case streak >= constants.BronzeStreakDays:
		return models.BadgeBronze
	default:
		return models.BadgeNone
	}
}
