// Package tui provides the terminal board and editor for horario.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/horario/internal/tui/theme"
	"github.com/javiermolinar/horario/internal/tui/view"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	AppStyle lipgloss.Style

	// Header
	TitleStyle     lipgloss.Style
	ClockStyle     lipgloss.Style
	TabStyle       lipgloss.Style
	TabActiveStyle lipgloss.Style
	BannerStyle    lipgloss.Style

	// Board cards
	CardStyle         lipgloss.Style
	CardLiveStyle     lipgloss.Style
	CardBreakStyle    lipgloss.Style
	CardEmptyStyle    lipgloss.Style
	CardTitleStyle    lipgloss.Style
	CardEmphasisStyle lipgloss.Style
	CardMutedStyle    lipgloss.Style

	// Grid
	GridBorderStyle   lipgloss.Style
	GridHeaderStyle   lipgloss.Style
	GridTimeStyle     lipgloss.Style
	GridLessonStyle   lipgloss.Style
	GridLessonAlt     lipgloss.Style
	GridBreakStyle    lipgloss.Style
	GridEmptyStyle    lipgloss.Style
	GridCursorStyle   lipgloss.Style
	GridConflictStyle lipgloss.Style

	// Registry panel
	PanelStyle         lipgloss.Style
	PanelTitleStyle    lipgloss.Style
	PanelItemStyle     lipgloss.Style
	PanelSelectedStyle lipgloss.Style
	PanelMutedStyle    lipgloss.Style

	// Footer
	InputStyle  lipgloss.Style
	HintStyle   lipgloss.Style
	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	HelpStyle   lipgloss.Style

	// PIN dialog
	Dialog   view.DialogStyles
	DialogBg lipgloss.Color
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	s := &Styles{palette: p}

	base := lipgloss.NewStyle().Foreground(p.Fg).Background(p.Bg)
	s.AppStyle = base

	s.TitleStyle = base.Bold(true).Foreground(p.Accent)
	s.ClockStyle = base.Bold(true).Foreground(p.Current)
	s.TabStyle = base.Foreground(p.FgMuted)
	s.TabActiveStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.TextOnAccent).
		Background(p.Accent)
	s.BannerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.TextOnCurrent).
		Background(p.Current).
		Padding(0, 1)

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderBackground(p.Bg).
		Padding(0, 1)
	s.CardStyle = card.
		BorderForeground(p.Lesson).
		Background(p.LessonBg).
		Foreground(p.TextOnLesson)
	s.CardLiveStyle = card.
		BorderForeground(p.Current).
		Background(p.LessonBg).
		Foreground(p.TextOnLesson)
	s.CardBreakStyle = card.
		BorderForeground(p.Break).
		Background(p.BreakBg).
		Foreground(p.TextOnBreak)
	s.CardEmptyStyle = card.
		BorderForeground(p.FgMuted).
		Background(p.EmptyBg).
		Foreground(p.FgMuted)
	s.CardTitleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	s.CardEmphasisStyle = lipgloss.NewStyle().Bold(true)
	s.CardMutedStyle = lipgloss.NewStyle().Italic(true)

	s.GridBorderStyle = lipgloss.NewStyle().Foreground(p.FgMuted)
	s.GridHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Foreground(p.Accent).
		Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	s.GridTimeStyle = cell.Foreground(p.Accent)
	s.GridLessonStyle = cell.Background(p.LessonBg).Foreground(p.TextOnLesson)
	s.GridLessonAlt = cell.Background(p.LessonBgAlt).Foreground(p.TextOnLesson)
	s.GridBreakStyle = cell.Background(p.BreakBg).Foreground(p.TextOnBreak).Italic(true)
	s.GridEmptyStyle = cell.Foreground(p.FgMuted)
	s.GridCursorStyle = cell.Bold(true).Background(p.BgSelection).Foreground(p.Accent)
	s.GridConflictStyle = cell.Bold(true).Background(p.Warning).Foreground(p.TextOnWarning)

	s.PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		Padding(0, 1)
	s.PanelTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	s.PanelItemStyle = lipgloss.NewStyle().Foreground(p.Fg)
	s.PanelSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Background(p.BgSelection)
	s.PanelMutedStyle = lipgloss.NewStyle().Foreground(p.FgMuted)

	s.InputStyle = lipgloss.NewStyle().
		Foreground(p.Fg).
		Background(p.BgHighlight)
	s.HintStyle = base.Foreground(p.FgMuted).Italic(true)
	s.StatusStyle = base.Bold(true).Foreground(p.Current)
	s.ErrorStyle = base.Bold(true).Foreground(p.Warning)
	s.HelpStyle = base.Foreground(p.FgMuted)

	m := p.Modal
	s.DialogBg = m.Bg
	onDialog := lipgloss.NewStyle().Background(m.Bg)
	button := lipgloss.NewStyle().Padding(0, 2)
	s.Dialog = view.DialogStyles{
		Frame: onDialog.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(m.Border).
			Foreground(m.Text).
			Padding(1, 2),
		Title:        onDialog.Bold(true).Foreground(m.Text),
		Body:         onDialog.Foreground(m.Text),
		Input:        lipgloss.NewStyle().Foreground(m.Text).Background(m.Panel).Padding(0, 1),
		Error:        onDialog.Foreground(p.Warning),
		Note:         onDialog.Foreground(m.Muted),
		Button:       button.Foreground(m.Text).Background(m.Panel),
		ButtonActive: button.Bold(true).Foreground(m.ReverseText).Background(m.Highlight),
	}

	return s
}

// Background returns the app background color.
func (s *Styles) Background() lipgloss.Color {
	return s.palette.Bg
}
