package tui

import (
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/jonboulle/clockwork"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/habit"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/notifier"
	"github.com/julianstephens/habitual/internal/reminder"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/tui/components/habits"
)

type SessionState int

const (
	StateHabits SessionState = iota
	StateChart
	StateAddHabit
	StateEditHabit
	StateConfirmDelete
)

type HabitFormModel struct {
	Name         string
	ReminderTime string
}

type EditFormModel struct {
	Name string
}

type Model struct {
	store    *storage.Store
	habits   *habit.Store
	settings models.Settings
	theme    Theme

	clock    *reminder.Clock
	source   *snapshotSource
	notifier notifier.Notifier
	inbox    *statusInbox // fallback sink when no notifier is set
	wall     clockwork.Clock
	period   time.Duration

	state       SessionState
	keys        KeyMap
	help        help.Model
	habitsModel habits.Model
	form        *huh.Form
	habitForm   *HabitFormModel
	editForm    *EditFormModel
	editingID   int64
	deleteID    int64

	banner    string // permission alert, shown until dismissed
	status    string // result of the last action or reminder tick
	formError string
	quitting  bool
	width     int
	height    int
}

type Option func(*Model)

// WithNotifier sets the sink for reminders fired while the view is open.
// Without one, reminders are delivered to the status line.
func WithNotifier(n notifier.Notifier) Option {
	return func(m *Model) {
		if n != nil {
			m.notifier = n
		}
	}
}

// WithBanner shows a one-off message above the habit list.
func WithBanner(text string) Option {
	return func(m *Model) { m.banner = text }
}

// WithClockwork overrides the wall clock used for reminders.
func WithClockwork(c clockwork.Clock) Option {
	return func(m *Model) {
		if c != nil {
			m.wall = c
		}
	}
}

// NewModel builds the single habit view. hs must already be rolled over for today.
func NewModel(store *storage.Store, hs *habit.Store, settings models.Settings, opts ...Option) Model {
	m := Model{
		store:    store,
		habits:   hs,
		settings: settings,
		theme:    ThemeFor(settings.DarkMode),
		source:   &snapshotSource{},
		inbox:    &statusInbox{},
		wall:     clockwork.NewRealClock(),
		period:   constants.ReminderPeriod,
		state:    StateHabits,
		keys:     DefaultKeyMap(),
		help:     help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.notifier == nil {
		m.notifier = notifier.Func(m.inbox.push)
	}
	m.clock = reminder.NewClock(m.source, m.notifier, reminder.WithClockwork(m.wall))
	m.habitsModel = habits.New(hs.List(), 0, 0)
	return m
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case StateHabits:
		return append(m.keys.ShortHelp(), m.habitsModel.ShortHelp()...)
	case StateChart:
		return []key.Binding{m.keys.Chart, m.keys.Theme, m.keys.Quit}
	}
	return []key.Binding{m.keys.Back}
}

func (m Model) FullHelp() [][]key.Binding {
	groups := m.keys.FullHelp()
	if m.state == StateHabits {
		groups = append(groups, m.habitsModel.ShortHelp())
	}
	return groups
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

type reminderTickMsg time.Time

type reminderResultMsg struct {
	result reminder.Result
	err    error
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.period, func(t time.Time) tea.Msg {
		return reminderTickMsg(t)
	})
}

// snapshotSource hands the reminder clock the state captured at the last tick.
type snapshotSource struct {
	mu       sync.Mutex
	habits   []models.Habit
	settings models.Settings
}

func (s *snapshotSource) set(habits []models.Habit, settings models.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.habits = habits
	s.settings = settings
}

func (s *snapshotSource) Habits() ([]models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Habit(nil), s.habits...), nil
}

func (s *snapshotSource) Settings() (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings, nil
}

// statusInbox collects reminders delivered to the status line until the
// update loop drains them.
type statusInbox struct {
	mu    sync.Mutex
	lines []string
}

func (b *statusInbox) push(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, text)
	return nil
}

func (b *statusInbox) drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	lines := b.lines
	b.lines = nil
	return lines
}
