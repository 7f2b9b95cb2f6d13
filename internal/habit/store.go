// Package habit owns the ordered habit list and its state transitions.
package habit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
)

// ErrNotFound is returned by lookups for an unknown habit.
var ErrNotFound = errors.New("habit not found")

// Persister receives a full snapshot of the list after every effective mutation.
type Persister interface {
	SaveHabits([]models.Habit) error
}

// Confirmer approves destructive actions.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to a Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// DeletePrompt is the question asked before a habit is removed.
const DeletePrompt = "Are you sure you want to delete this habit?"

// Store is the single controller of the habit list. It is not safe for
// concurrent use; callers that share it across goroutines must serialize access.
type Store struct {
	habits    []models.Habit
	persister Persister
	now       func() time.Time
	loc       *time.Location
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the time zone that decides calendar days.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// New creates a Store over an existing list. The list is copied.
func New(habits []models.Habit, p Persister, opts ...Option) *Store {
	s := &Store{
		habits:    append([]models.Habit(nil), habits...),
		persister: p,
		now:       time.Now,
		loc:       time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current calendar day (YYYY-MM-DD) in the store's location.
func (s *Store) Today() string {
	return s.now().In(s.loc).Format(constants.DateFormat)
}

// List returns a copy of the habits in display order.
func (s *Store) List() []models.Habit {
	return append([]models.Habit(nil), s.habits...)
}

// Len returns the number of habits.
func (s *Store) Len() int { return len(s.habits) }

// Get returns the habit with the given id.
func (s *Store) Get(id int64) (models.Habit, error) {
	i := s.indexOf(id)
	if i < 0 {
		return models.Habit{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return s.habits[i], nil
}

// Find resolves a reference that is either a numeric id or an exact name.
// An id match wins over a name match.
func (s *Store) Find(ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if h, err := s.Get(id); err == nil {
			return h, nil
		}
	}
	name := normalizeName(ref)
	for _, h := range s.habits {
		if h.Name == name {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("%w: %q", ErrNotFound, ref)
}

// Add appends a new habit. An empty or whitespace-only name is ignored and
// reported with ok=false.
func (s *Store) Add(name string) (models.Habit, bool, error) {
	name = normalizeName(name)
	if name == "" {
		return models.Habit{}, false, nil
	}
	s.rollOver()

	h := models.Habit{
		ID:   s.nextID(),
		Name: name,
	}
	s.habits = append(s.habits, h)
	logger.Debug("Habit added", "id", h.ID, "name", h.Name)
	return h, true, s.persist()
}

// ToggleComplete marks the habit done for today. It increments the streak at
// most once per calendar day; a second call on the same day is a no-op.
func (s *Store) ToggleComplete(id int64) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.rollOver()

	today := s.Today()
	h := s.habits[i]
	if h.CompletedOn(today) {
		return false, nil
	}
	if !h.Completed {
		h.Streak++
	}
	h.Completed = true
	h.LastCompleted = today
	s.habits[i] = h

	logger.Debug("Habit completed", "id", id, "streak", h.Streak, "day", today)
	return true, s.persist()
}

// Rename replaces the habit's name. An empty new name or unknown id is a no-op.
func (s *Store) Rename(id int64, newName string) (bool, error) {
	newName = normalizeName(newName)
	if newName == "" {
		return false, nil
	}
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.rollOver()

	s.habits[i].Name = newName
	return true, s.persist()
}

// Delete removes the habit after the confirmer approves. Declining, a nil
// confirmer, or an unknown id leaves the list unchanged.
func (s *Store) Delete(id int64, c Confirmer) (bool, error) {
	i := s.indexOf(id)
	if i < 0 || c == nil || !c.Confirm(DeletePrompt) {
		return false, nil
	}
	s.rollOver()

	s.habits = append(s.habits[:i:i], s.habits[i+1:]...)
	logger.Debug("Habit deleted", "id", id)
	return true, s.persist()
}

// RollOver clears the completed flag of every habit not completed today and
// persists the list if anything changed. Streaks are untouched.
func (s *Store) RollOver() (bool, error) {
	if !s.rollOver() {
		return false, nil
	}
	return true, s.persist()
}

func (s *Store) rollOver() bool {
	today := s.Today()
	changed := false
	for i, h := range s.habits {
		if h.Completed && !h.CompletedOn(today) {
			s.habits[i].Completed = false
			changed = true
		}
	}
	return changed
}

func (s *Store) persist() error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.SaveHabits(s.List()); err != nil {
		return fmt.Errorf("failed to persist habits: %w", err)
	}
	return nil
}

func (s *Store) indexOf(id int64) int {
	for i, h := range s.habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// nextID returns the creation timestamp in milliseconds, bumped past the
// largest existing id so ids stay unique and increasing.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	for _, h := range s.habits {
		if h.ID >= id {
			id = h.ID + 1
		}
	}
	return id
}

func normalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
