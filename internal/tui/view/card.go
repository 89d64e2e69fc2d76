package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// CardState describes one board column.
type CardState struct {
	Title     string
	Lines     []string // body lines, first one emphasized
	Footer    string   // may span lines
	Width     int
	Height    int
	EmptyText string

	Style         lipgloss.Style
	TitleStyle    lipgloss.Style
	EmphasisStyle lipgloss.Style
	MutedStyle    lipgloss.Style
}

// RenderCard renders a fixed-size card with a title bar and body.
func RenderCard(state CardState) string {
	if state.Width <= 0 {
		return ""
	}
	inner := state.Width - state.Style.GetHorizontalFrameSize()
	if inner < 1 {
		inner = 1
	}

	rows := []string{state.TitleStyle.Render(Truncate(state.Title, inner)), ""}
	if len(state.Lines) == 0 {
		rows = append(rows, state.MutedStyle.Render(Truncate(state.EmptyText, inner)))
	}
	for i, line := range state.Lines {
		style := state.MutedStyle
		if i == 0 {
			style = state.EmphasisStyle
		}
		for _, part := range strings.Split(line, "\n") {
			rows = append(rows, style.Render(Truncate(part, inner)))
		}
	}
	if state.Footer != "" {
		rows = append(rows, "")
		for _, part := range strings.Split(state.Footer, "\n") {
			rows = append(rows, state.MutedStyle.Render(Truncate(part, inner)))
		}
	}

	card := state.Style.Width(state.Width - state.Style.GetHorizontalBorderSize())
	if state.Height > 0 {
		h := state.Height - state.Style.GetVerticalBorderSize()
		if h > 0 {
			card = card.Height(h)
		}
	}
	return card.Render(strings.Join(rows, "\n"))
}
