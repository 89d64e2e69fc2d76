package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/horario/internal/dateutil"
	"github.com/javiermolinar/horario/internal/export"
	"github.com/javiermolinar/horario/internal/timetable"
	"github.com/javiermolinar/horario/internal/tui/view"
)

const timeHeader = "Horário"

// OverviewText renders one day and shift as tab-separated text, one slot
// per line, for pasting into a spreadsheet or chat.
func OverviewText(entries []timetable.Entry, day int, shift timetable.Shift) string {
	classes := timetable.Classes(shift)

	var b strings.Builder
	b.WriteString(dateutil.WeekdayLabel(day) + " · " + shift.Label() + "\n")
	b.WriteString(strings.Join(append([]string{timeHeader}, classes...), "\t"))
	for _, slot := range timetable.Slots(shift) {
		row := []string{view.FormatSpan(slot.Start, slot.End)}
		for _, class := range classes {
			e, ok := timetable.Cell(entries, day, class, slot.Start)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, strings.ReplaceAll(export.CellText(e), "\n", " / "))
		}
		b.WriteString("\n" + strings.Join(row, "\t"))
	}
	return b.String()
}

// gridOptions controls the admin decorations on the day grid.
type gridOptions struct {
	cursor    bool
	row, col  int
	conflicts map[string]bool
}

// renderGrid renders the slot × class table for one day and shift.
func (m Model) renderGrid(width int, opts gridOptions) string {
	s := m.styles
	classes := m.classes()
	slots := m.slots()
	day := m.day()

	grid := view.Grid{
		Width:       width,
		Corner:      timeHeader,
		Classes:     classes,
		Rows:        make([]view.GridRow, 0, len(slots)),
		HeaderStyle: s.GridHeaderStyle,
		BorderStyle: s.GridBorderStyle,
	}
	for r, slot := range slots {
		row := view.GridRow{
			Span:  view.GridCell{Text: view.FormatSpan(slot.Start, slot.End), Style: s.GridTimeStyle},
			Cells: make([]view.GridCell, 0, len(classes)),
		}
		for c, class := range classes {
			e, ok := timetable.Cell(m.entries, day, class, slot.Start)
			cell := view.GridCell{Style: s.GridEmptyStyle}
			switch {
			case !ok:
				cell.Text = "·"
			case e.IsBreak:
				cell = view.GridCell{Text: export.CellText(e), Style: s.GridBreakStyle}
			case e.IsEmpty():
				cell.Text = "-"
			default:
				cell = view.GridCell{Text: export.CellText(e), Style: s.GridLessonStyle}
				if (r+c)%2 == 1 {
					cell.Style = s.GridLessonAlt
				}
			}
			if ok && opts.conflicts[e.ID] {
				cell.Style = s.GridConflictStyle
			}
			if opts.cursor && r == opts.row && c == opts.col {
				cell.Style = s.GridCursorStyle
			}
			row.Cells = append(row.Cells, cell)
		}
		grid.Rows = append(grid.Rows, row)
	}
	return view.RenderGrid(grid)
}

func (m Model) gridTitle() string {
	return dateutil.WeekdayLabel(m.day()) + " · " + m.shift.Label()
}

func (m Model) renderOverview(width int) string {
	title := m.styles.TitleStyle.Render(m.gridTitle())
	return lipgloss.JoinVertical(lipgloss.Left, title, m.renderGrid(width, gridOptions{}))
}

// conflictIDs marks every entry involved in a teacher double booking.
func conflictIDs(entries []timetable.Entry) map[string]bool {
	ids := make(map[string]bool)
	for _, pair := range timetable.DoubleBookings(entries) {
		ids[pair[0].ID] = true
		ids[pair[1].ID] = true
	}
	return ids
}
