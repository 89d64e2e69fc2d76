package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/horario/internal/timetable"
	"github.com/javiermolinar/horario/internal/tui/commands"
	"github.com/javiermolinar/horario/internal/tui/input"
)

// handleKeyMsg routes keyboard input by what currently has focus.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch {
	case m.overlay.Active():
		return m.handlePINKeys(msg)
	case m.target != inputNone:
		return m.handleInputKeys(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		m.mode = ModeBoard
		return m, nil
	case "2":
		m.mode = ModeOverview
		return m, nil
	case "3":
		return m.enterAdmin()
	case "tab":
		if m.mode == ModeOverview {
			return m.enterAdmin()
		}
		m.mode = (m.mode + 1) % Mode(len(modeNames))
		return m, nil
	}

	switch m.mode {
	case ModeOverview:
		return m.handleOverviewKeys(msg)
	case ModeAdmin:
		if m.showRegistry {
			return m.handleRegistryKeys(msg)
		}
		return m.handleAdminKeys(msg)
	}
	return m, nil
}

// enterAdmin switches to the editor, asking for the PIN first when one is
// configured and the session is still locked.
func (m Model) enterAdmin() (tea.Model, tea.Cmd) {
	if m.gate.Enabled() && !m.unlocked {
		m.openPIN()
		return m, nil
	}
	m.mode = ModeAdmin
	return m, nil
}

func (m *Model) openPIN() {
	m.pinErr = ""
	m.pinInput.Reset()
	m.pinInput.Focus()
	m.overlay.Open()
}

func (m *Model) closePIN() {
	m.pinInput.Blur()
	m.pinInput.Reset()
	m.overlay.Close()
}

func (m Model) handlePINKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePIN()
		return m, nil
	case "enter":
		if m.checking {
			return m, nil
		}
		m.checking = true
		return m, commands.CheckPIN(m.gate, m.pinInput.Value())
	}
	var cmd tea.Cmd
	m.pinInput, cmd = m.pinInput.Update(msg)
	return m, cmd
}

// handleDayShiftKeys handles navigation shared by the grid screens.
func (m Model) handleDayShiftKeys(key string) (Model, bool) {
	switch key {
	case "[", "<":
		m.dayIdx = (m.dayIdx - 1 + len(m.days)) % len(m.days)
	case "]", ">":
		m.dayIdx = (m.dayIdx + 1) % len(m.days)
	case "s":
		if m.shift == timetable.ShiftMorning {
			m.shift = timetable.ShiftAfternoon
		} else {
			m.shift = timetable.ShiftMorning
		}
		m.clampCursor()
	default:
		return m, false
	}
	return m, true
}

func (m Model) handleOverviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if next, ok := m.handleDayShiftKeys(msg.String()); ok {
		return next, nil
	}
	if msg.String() == "y" {
		text := OverviewText(m.entries, m.day(), m.shift)
		return m, commands.CopyToClipboard(text, "Grade copiada")
	}
	return m, nil
}

func (m Model) handleAdminKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if next, ok := m.handleDayShiftKeys(msg.String()); ok {
		return next, nil
	}

	switch msg.String() {
	case "h", "left":
		m.col = clamp(m.col-1, 0, len(m.classes())-1)
	case "l", "right":
		m.col = clamp(m.col+1, 0, len(m.classes())-1)
	case "k", "up":
		m.row = clamp(m.row-1, 0, len(m.slots())-1)
	case "j", "down":
		m.row = clamp(m.row+1, 0, len(m.slots())-1)

	case "i":
		classes := m.classes()
		if len(classes) == 0 {
			return m, nil
		}
		return m, commands.InitializeDay(m.svc, m.day(), classes[m.col], m.shift)

	case "e", "enter":
		entry, ok := m.selected()
		if !ok {
			cmd := m.setError("Dia não inicializado: pressione i")
			return m, cmd
		}
		m.startInput(inputSubject, entry.Subject, input.SubjectNames(m.registry))
		m.editID = entry.ID

	case "t":
		entry, ok := m.selected()
		if !ok {
			cmd := m.setError("Dia não inicializado: pressione i")
			return m, cmd
		}
		m.startInput(inputTeacher, entry.TeacherName, input.TeacherNames(m.registry, entry.Subject))
		m.editID = entry.ID

	case "x", "delete":
		entry, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, commands.ClearSlot(m.svc, entry.ID)

	case "r":
		m.showRegistry = true

	case "L":
		m.unlocked = false
		m.mode = ModeBoard
		cmd := m.setStatus("Edição bloqueada")
		return m, cmd
	}
	return m, nil
}

func (m Model) handleRegistryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "r":
		m.showRegistry = false
	case "k", "up":
		m.registryIdx = clamp(m.registryIdx-1, 0, len(m.registry)-1)
	case "j", "down":
		m.registryIdx = clamp(m.registryIdx+1, 0, len(m.registry)-1)
	case "n":
		m.startInput(inputNewSubject, "", nil)
	case "a":
		if _, ok := m.selectedSubject(); ok {
			m.startInput(inputAddTeacher, "", timetable.AllTeachers(m.registry))
		}
	case "u":
		if s, ok := m.selectedSubject(); ok {
			m.startInput(inputRemoveTeacher, "", s.Teachers)
		}
	case "d":
		if s, ok := m.selectedSubject(); ok {
			return m, commands.RemoveSubject(m.svc, s.Subject)
		}
	}
	return m, nil
}

func (m *Model) startInput(target inputTarget, value string, suggestions []string) {
	m.target = target
	m.suggestions = suggestions
	m.input.Placeholder = inputLabel(target)
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) stopInput() {
	m.target = inputNone
	m.editID = ""
	m.suggestions = nil
	m.input.Blur()
	m.input.Reset()
}

func (m Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.stopInput()
		return m, nil
	case "tab":
		if name, ok := input.Autocomplete(m.input.Value(), m.suggestions); ok {
			m.input.SetValue(name)
			m.input.CursorEnd()
		}
		return m, nil
	case "enter":
		cmd := m.submitInput()
		m.stopInput()
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitInput turns the current input into a service command.
func (m Model) submitInput() tea.Cmd {
	value := strings.TrimSpace(m.input.Value())
	switch m.target {
	case inputSubject:
		return commands.Edit(m.svc, m.editID, timetable.FieldSubject, value)
	case inputTeacher:
		return commands.Edit(m.svc, m.editID, timetable.FieldTeacher, value)
	case inputNewSubject:
		return commands.AddSubject(m.svc, value)
	}

	s, ok := m.selectedSubject()
	if !ok {
		return nil
	}
	switch m.target {
	case inputAddTeacher:
		return commands.AddTeacher(m.svc, s.Subject, value)
	case inputRemoveTeacher:
		return commands.RemoveTeacher(m.svc, s.Subject, value)
	}
	return nil
}

func inputLabel(target inputTarget) string {
	switch target {
	case inputSubject:
		return "Disciplina"
	case inputTeacher:
		return "Professor"
	case inputNewSubject:
		return "Nova disciplina"
	case inputAddTeacher:
		return "Adicionar professor"
	case inputRemoveTeacher:
		return "Remover professor"
	}
	return ""
}
