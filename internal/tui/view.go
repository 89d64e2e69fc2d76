package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/horario/internal/tui/input"
	"github.com/javiermolinar/horario/internal/tui/view"
)

const registryWidth = 34

// View renders the current screen.
func (m Model) View() string {
	s := m.styles
	screen := view.Screen{
		Width:  m.width,
		Height: m.height,
		Bg:     s.Background(),
		Header: m.renderHeader(),
	}
	if !m.loaded {
		screen.Body = "Carregando horário..."
		return view.Compose(screen)
	}

	if m.banner != "" {
		screen.Banner = s.BannerStyle.Render(m.banner)
		screen.BannerBg = s.palette.Current
	}
	switch m.mode {
	case ModeOverview:
		screen.Body = m.renderOverview(m.width)
	case ModeAdmin:
		screen.Body = m.renderAdmin(m.width)
	default:
		screen.Body = m.renderBoard(m.width)
	}
	screen.Footer = m.footer()
	if m.overlay.Active() {
		screen.Dialog = m.renderPINDialog()
		screen.Overlay = m.overlay
	}
	return view.Compose(screen)
}

func (m Model) renderHeader() string {
	s := m.styles
	parts := []string{s.TitleStyle.Render("horario "), s.AppStyle.Render(" ")}
	for i, label := range view.TabLabels(modeNames, int(m.mode)) {
		style := s.TabStyle
		if i == int(m.mode) {
			style = s.TabActiveStyle
		}
		parts = append(parts, style.Render(label), s.AppStyle.Render(" "))
	}
	parts = append(parts, s.AppStyle.Render("  "), s.ClockStyle.Render(m.clock.Format("15:04:05")))
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderAdmin(width int) string {
	s := m.styles
	gridW := width
	if m.showRegistry {
		gridW = width - registryWidth - 1
	}

	title := m.gridTitle()
	if entry, ok := m.selected(); ok {
		title += " · " + entry.ClassName + " " + view.FormatSpan(entry.StartTime, entry.EndTime)
	}
	grid := lipgloss.JoinVertical(lipgloss.Left,
		s.TitleStyle.Render(title),
		m.renderGrid(gridW, gridOptions{
			cursor:    true,
			row:       m.row,
			col:       m.col,
			conflicts: conflictIDs(m.entries),
		}),
	)
	if !m.showRegistry {
		return grid
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, grid, " ", m.renderRegistry())
}

func (m Model) renderRegistry() string {
	s := m.styles
	inner := registryWidth - s.PanelStyle.GetHorizontalFrameSize()

	lines := []string{s.PanelTitleStyle.Render("Disciplinas"), ""}
	if len(m.registry) == 0 {
		lines = append(lines, s.PanelMutedStyle.Render("Nenhuma disciplina"))
	}
	for i, subj := range m.registry {
		style := s.PanelItemStyle
		if i == m.registryIdx {
			style = s.PanelSelectedStyle
		}
		lines = append(lines, style.Render(view.Truncate(subj.Subject, inner)))
		teachers := "  " + strings.Join(subj.Teachers, ", ")
		if len(subj.Teachers) == 0 {
			teachers = "  (sem professor)"
		}
		lines = append(lines, s.PanelMutedStyle.Render(view.Truncate(teachers, inner)))
	}
	return s.PanelStyle.Width(registryWidth - s.PanelStyle.GetHorizontalBorderSize()).Render(strings.Join(lines, "\n"))
}

func (m Model) footer() view.Footer {
	s := m.styles

	inputLine := ""
	if m.target != inputNone {
		inputLine = s.InputStyle.Render(inputLabel(m.target)+": ") + m.input.View()
		if hints := input.Hints(m.input.Value(), m.suggestions); hints != "" {
			inputLine += s.HintStyle.Render("  " + hints)
		}
	}

	status := s.StatusStyle.Render(m.status)
	if m.statusErr {
		status = s.ErrorStyle.Render(m.status)
	}

	return view.Footer{
		Input:  inputLine,
		Status: status,
		Help:   s.HelpStyle.Render(m.helpText()),
	}
}

func (m Model) helpText() string {
	switch {
	case m.target != inputNone:
		return "enter salvar · tab completar · esc cancelar"
	case m.mode == ModeOverview:
		return "[/] dia · s turno · y copiar · tab editar · q sair"
	case m.mode == ModeAdmin && m.showRegistry:
		return "j/k mover · n nova · a add prof · u rm prof · d remover · esc voltar"
	case m.mode == ModeAdmin:
		return "hjkl mover · [/] dia · s turno · i iniciar dia · e disciplina · t professor · x limpar · r cadastro · L bloquear"
	}
	return "1 quadro · 2 grade · 3 edição · q sair"
}

func (m Model) renderPINDialog() string {
	d := view.Dialog{
		Title:   "PIN de administração",
		Input:   m.pinInput.View(),
		Error:   m.pinErr,
		Actions: []string{"enter entrar", "esc cancelar"},
	}
	if m.checking {
		d.Note = "Verificando..."
	}
	return view.RenderDialog(d, m.styles.Dialog)
}
