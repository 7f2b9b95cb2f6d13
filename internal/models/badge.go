package models

// Badge is a label derived purely from streak length.
type Badge string

const (
	BadgeNone   Badge = ""
	BadgeBronze Badge = "Bronze"
	BadgeSilver Badge = "Silver"
	BadgeGold   Badge = "Gold"
)

// Label returns the display label for the badge, or "" for BadgeNone.
func (b Badge) Label() string {
	switch b {
	case BadgeBronze:
		return "🏅 Bronze Streak"
	case BadgeSilver:
		return "🥈 Silver Streak"
	case BadgeGold:
		return "🥇 Gold Streak"
	default:
		return ""
	}
}
