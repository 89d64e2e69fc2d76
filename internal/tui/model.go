package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/horario/internal/alert"
	"github.com/javiermolinar/horario/internal/auth"
	"github.com/javiermolinar/horario/internal/config"
	"github.com/javiermolinar/horario/internal/timetable"
	"github.com/javiermolinar/horario/internal/tui/commands"
	"github.com/javiermolinar/horario/internal/tui/theme"
)

// Mode represents the current screen.
type Mode int

const (
	ModeBoard    Mode = iota // live board
	ModeOverview             // day grid, read only
	ModeAdmin                // day grid with editing
)

var modeNames = []string{"Quadro", "Grade", "Edição"}

// inputTarget identifies what the text input is editing.
type inputTarget int

const (
	inputNone inputTarget = iota
	inputSubject
	inputTeacher
	inputNewSubject
	inputAddTeacher
	inputRemoveTeacher
)

const (
	tickInterval  = time.Second
	statusTimeout = 4 * time.Second
	bannerLinger  = 5 * time.Second
)

// Model is the main TUI model.
type Model struct {
	// Dependencies
	svc       *timetable.Service
	gate      *auth.Gate
	styles    *Styles
	now       func() time.Time
	snapshots <-chan timetable.Snapshot
	alerts    <-chan alert.Alert

	// Data
	entries  []timetable.Entry
	registry []timetable.Subject
	loaded   bool

	// Navigation
	mode   Mode
	clock  time.Time
	days   []int
	dayIdx int
	shift  timetable.Shift
	row    int // slot index in the grid
	col    int // class index in the grid

	// PIN prompt
	unlocked bool
	pinInput textinput.Model
	pinErr   string
	checking bool
	overlay  OverlayModel

	// Text input
	input       textinput.Model
	target      inputTarget
	editID      string
	suggestions []string

	// Registry panel
	showRegistry bool
	registryIdx  int

	// Messages
	banner      string
	bannerUntil time.Time
	status      string
	statusErr   bool

	width  int
	height int
}

// Option configures optional model behavior.
type Option func(*Model)

// WithGate requires a PIN before entering the editor.
func WithGate(gate *auth.Gate) Option {
	return func(m *Model) { m.gate = gate }
}

// WithAlerts shows a banner for every bell event.
func WithAlerts(ch <-chan alert.Alert) Option {
	return func(m *Model) { m.alerts = ch }
}

// WithSnapshots refreshes the model on every store broadcast.
func WithSnapshots(ch <-chan timetable.Snapshot) Option {
	return func(m *Model) { m.snapshots = ch }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithMode sets the starting screen.
func WithMode(mode Mode) Option {
	return func(m *Model) { m.mode = mode }
}

// New creates a new TUI model.
func New(svc *timetable.Service, cfg *config.Config, opts ...Option) *Model {
	if cfg == nil {
		cfg = config.Default()
	}
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load(theme.DefaultName)
	}
	styles := NewStyles(t)

	pin := textinput.New()
	pin.Placeholder = "PIN"
	pin.EchoMode = textinput.EchoPassword
	pin.EchoCharacter = '•'
	pin.CharLimit = 32
	pin.Width = 12

	in := textinput.New()
	in.CharLimit = 80
	in.Width = 40
	in.TextStyle = styles.InputStyle
	in.PromptStyle = styles.InputStyle

	m := &Model{
		svc:      svc,
		styles:   styles,
		now:      time.Now,
		mode:     ModeBoard,
		pinInput: pin,
		input:    in,
		overlay:  NewOverlayModel(styles.DialogBg),
	}
	for _, d := range cfg.Weekdays() {
		m.days = append(m.days, int(d))
	}
	if len(m.days) == 0 {
		m.days = []int{1, 2, 3, 4, 5}
	}
	for _, opt := range opts {
		opt(m)
	}

	m.clock = m.now()
	m.shift = timetable.ShiftAt(timetable.Clock(m.clock))
	today := int(m.clock.Weekday())
	for i, d := range m.days {
		if d == today {
			m.dayIdx = i
		}
	}
	if m.mode == ModeAdmin && m.gate.Enabled() {
		m.mode = ModeBoard
		m.openPIN()
	}
	return m
}

// Init starts loading, the clock, and the store and bell listeners.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		commands.LoadSnapshot(m.svc),
		commands.Tick(tickInterval),
		commands.WaitForSnapshot(m.snapshots),
		commands.WaitForAlert(m.alerts),
	)
}

// day returns the weekday selected in the grid screens.
func (m Model) day() int {
	if len(m.days) == 0 {
		return 1
	}
	return m.days[m.dayIdx]
}

// classes returns the grid columns for the selected shift.
func (m Model) classes() []string {
	return timetable.Classes(m.shift)
}

// slots returns the grid rows for the selected shift.
func (m Model) slots() []timetable.Slot {
	return timetable.Slots(m.shift)
}

// selected returns the entry under the grid cursor.
func (m Model) selected() (timetable.Entry, bool) {
	classes, slots := m.classes(), m.slots()
	if m.col >= len(classes) || m.row >= len(slots) {
		return timetable.Entry{}, false
	}
	return timetable.Cell(m.entries, m.day(), classes[m.col], slots[m.row].Start)
}

// selectedSubject returns the registry subject under the panel cursor.
func (m Model) selectedSubject() (timetable.Subject, bool) {
	if m.registryIdx < 0 || m.registryIdx >= len(m.registry) {
		return timetable.Subject{}, false
	}
	return m.registry[m.registryIdx], true
}

func (m *Model) clampCursor() {
	m.row = clamp(m.row, 0, len(m.slots())-1)
	m.col = clamp(m.col, 0, len(m.classes())-1)
	m.registryIdx = clamp(m.registryIdx, 0, len(m.registry)-1)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
