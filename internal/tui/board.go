package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/horario/internal/timetable"
	"github.com/javiermolinar/horario/internal/tui/view"
)

const (
	cardGap       = 1
	minCardWidth  = 14
	boardCardRows = 9
)

// renderBoard renders one card per board column with the live entry.
func (m Model) renderBoard(width int) string {
	s := m.styles
	board := timetable.BoardAt(m.entries, m.clock)

	heading := s.TitleStyle.Render(view.BoardTitle(board.Day, board.Clock, board.Shift))

	n := len(board.Columns)
	if n == 0 {
		return heading
	}
	cardW := (width - cardGap*(n-1)) / n
	if cardW < minCardWidth {
		cardW = minCardWidth
	}

	cards := make([]string, 0, 2*n-1)
	for i, col := range board.Columns {
		if i > 0 {
			cards = append(cards, s.AppStyle.Render(" "))
		}
		cards = append(cards, view.RenderCard(m.cardState(col, board.Clock, cardW)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, heading, "", lipgloss.JoinHorizontal(lipgloss.Top, cards...))
}

func (m Model) cardState(col timetable.BoardColumn, clock string, width int) view.CardState {
	s := m.styles
	state := view.CardState{
		Title:         col.Title,
		Width:         width,
		Height:        boardCardRows,
		EmptyText:     "Sem aula",
		Style:         s.CardEmptyStyle,
		TitleStyle:    s.CardTitleStyle,
		EmphasisStyle: s.CardEmphasisStyle,
		MutedStyle:    s.CardMutedStyle,
	}
	e := col.Entry
	if e == nil {
		return state
	}

	footer := view.FormatSpan(e.StartTime, e.EndTime) + "\nfaltam " + view.FormatRemaining(clock, e.EndTime)
	switch {
	case e.IsBreak:
		state.Style = s.CardBreakStyle
		state.Lines = []string{timetable.BreakSubject}
	case e.IsEmpty():
		state.EmptyText = e.PeriodName + " · vago"
	default:
		state.Style = s.CardLiveStyle
		for _, line := range []string{e.Subject, e.TeacherName} {
			if line != "" {
				state.Lines = append(state.Lines, line)
			}
		}
		if !strings.EqualFold(e.ClassName, col.Title) {
			state.Lines = append(state.Lines, e.ClassName)
		}
	}
	state.Footer = footer
	return state
}
