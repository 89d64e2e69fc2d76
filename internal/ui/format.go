package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/horario/internal/dateutil"
	"github.com/javiermolinar/horario/internal/export"
	"github.com/javiermolinar/horario/internal/timetable"
	"github.com/javiermolinar/horario/internal/tui/view"
)

const (
	timeColWidth = 11 // "07:20-08:10"
	minCellWidth = 10
)

// cellText flattens a cell onto one line: "Física / Ana".
func cellText(e timetable.Entry) string {
	return strings.ReplaceAll(export.CellText(e), "\n", " / ")
}

func padRight(s string, width int) string {
	if gap := width - ansi.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// printBoard prints the live entry of every column.
func printBoard(w io.Writer, board timetable.Board) {
	fmt.Fprintf(w, "=== %s ===\n\n", formatHeader(view.BoardTitle(board.Day, board.Clock, board.Shift)))

	titleW := 0
	for _, col := range board.Columns {
		titleW = max(titleW, ansi.StringWidth(col.Title))
	}

	for _, col := range board.Columns {
		title := padRight(col.Title, titleW)
		e := col.Entry
		if e == nil {
			fmt.Fprintf(w, "  %s  %s\n", title, formatMuted("Sem aula"))
			continue
		}

		var what string
		switch {
		case e.IsBreak:
			what = formatBreak(timetable.BreakSubject)
		case e.IsEmpty():
			what = formatMuted(e.PeriodName + " · vago")
		default:
			what = formatLesson(cellText(*e))
		}
		when := view.FormatSpan(e.StartTime, e.EndTime) + " · faltam " + view.FormatRemaining(board.Clock, e.EndTime)
		fmt.Fprintf(w, "  %s  %s  %s\n", title, what, formatMuted(when))
	}
}

type dayCell struct {
	text  string
	style func(string) string
}

// printDay prints the slot × class grid for one day and shift, fitting the
// cells into width columns.
func printDay(w io.Writer, entries []timetable.Entry, day int, shift timetable.Shift, width int) {
	classes := timetable.Classes(shift)
	slots := timetable.Slots(shift)

	fmt.Fprintf(w, "=== %s ===\n\n", formatHeader(dateutil.WeekdayLabel(day)+" · "+shift.Label()))

	limit := max(minCellWidth, (width-timeColWidth-2)/len(classes)-2)

	rows := make([][]dayCell, len(slots))
	colW := make([]int, len(classes))
	for c, class := range classes {
		colW[c] = ansi.StringWidth(class)
	}
	for r, slot := range slots {
		rows[r] = make([]dayCell, len(classes))
		for c, class := range classes {
			cell := dayCell{text: "·", style: formatMuted}
			if e, ok := timetable.Cell(entries, day, class, slot.Start); ok {
				switch {
				case e.IsBreak:
					cell = dayCell{text: cellText(e), style: formatBreak}
				case e.IsEmpty():
					cell = dayCell{text: "-", style: formatMuted}
				default:
					cell = dayCell{text: cellText(e), style: formatLesson}
				}
			}
			cell.text = ansi.Truncate(cell.text, limit, "…")
			colW[c] = max(colW[c], ansi.StringWidth(cell.text))
			rows[r][c] = cell
		}
	}

	var header strings.Builder
	header.WriteString("  " + padRight("Horário", timeColWidth))
	for c, class := range classes {
		header.WriteString("  " + padRight(class, colW[c]))
	}
	fmt.Fprintln(w, formatHeader(strings.TrimRight(header.String(), " ")))

	for r, slot := range slots {
		var line strings.Builder
		line.WriteString("  " + view.FormatSpan(slot.Start, slot.End))
		for c, cell := range rows[r] {
			line.WriteString("  " + cell.style(padRight(cell.text, colW[c])))
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}

// printRegistry prints one line per subject with its teachers.
func printRegistry(w io.Writer, registry []timetable.Subject) {
	if len(registry) == 0 {
		fmt.Fprintln(w, formatMuted("Nenhuma disciplina cadastrada."))
		return
	}
	nameW := 0
	for _, s := range registry {
		nameW = max(nameW, ansi.StringWidth(s.Subject))
	}
	for _, s := range registry {
		teachers := strings.Join(s.Teachers, ", ")
		if len(s.Teachers) == 0 {
			teachers = formatMuted("(sem professor)")
		}
		fmt.Fprintf(w, "  %s  %s\n", formatLesson(padRight(s.Subject, nameW)), teachers)
	}
}

// printDoubleBookings warns about teachers placed in two classes at once.
func printDoubleBookings(w io.Writer, pairs [][2]timetable.Entry) {
	for _, p := range pairs {
		fmt.Fprintf(w, "  %s %s: %s e %s às %s (%s)\n",
			formatWarn("!"), p[0].TeacherName, p[0].ClassName, p[1].ClassName,
			p[0].StartTime, dateutil.WeekdayLabel(p[0].DayOfWeek))
	}
}
