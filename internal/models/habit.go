package models

// Habit is one tracked behavior. Field names match the persisted snapshot.
type Habit struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Completed     bool   `json:"completed"`
	Streak        int    `json:"streak"`
	LastCompleted string `json:"lastCompleted,omitempty"` // YYYY-MM-DD, empty when never completed
}

// CompletedOn reports whether the habit was last completed on the given day (YYYY-MM-DD).
func (h Habit) CompletedOn(day string) bool {
	return h.LastCompleted != "" && h.LastCompleted == day
}
