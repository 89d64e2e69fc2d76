package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// GridCell is one styled cell of the day grid.
type GridCell struct {
	Text  string
	Style lipgloss.Style
}

// GridRow is one slot: its time span and a cell per class.
type GridRow struct {
	Span  GridCell
	Cells []GridCell
}

// Grid is the slot × class table of one day and shift.
type Grid struct {
	Width       int
	Corner      string // heading of the time column
	Classes     []string
	Rows        []GridRow
	HeaderStyle lipgloss.Style
	BorderStyle lipgloss.Style
}

// RenderGrid draws g with a rounded border and a rule between slots. Rows
// with fewer cells than classes are padded with blanks.
func RenderGrid(g Grid) string {
	if len(g.Classes) == 0 {
		return ""
	}

	rows := make([][]string, len(g.Rows))
	for i := range g.Rows {
		row := make([]string, len(g.Classes)+1)
		for col := range row {
			row[col] = g.cell(i, col).Text
		}
		rows[i] = row
	}

	t := table.New().
		Headers(append([]string{g.Corner}, g.Classes...)...).
		Border(lipgloss.RoundedBorder()).
		BorderRow(true).
		BorderStyle(g.BorderStyle).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return g.HeaderStyle
			}
			return g.cell(row, col).Style
		})
	if g.Width > 2 {
		t = t.Width(g.Width - 2)
	}
	return t.Render()
}

func (g Grid) cell(row, col int) GridCell {
	if row < 0 || row >= len(g.Rows) {
		return GridCell{}
	}
	r := g.Rows[row]
	switch {
	case col == 0:
		return r.Span
	case col > 0 && col <= len(r.Cells):
		return r.Cells[col-1]
	}
	return GridCell{}
}
