// Package export renders the timetable as an .xlsx workbook.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/javiermolinar/horario/internal/dateutil"
	"github.com/javiermolinar/horario/internal/timetable"
)

// ErrNoDays is returned when no weekday is requested.
var ErrNoDays = errors.New("export needs at least one day")

// Label written on break rows.
const breakLabel = "INTERVALO"

// Fixed leading columns: period name and time range.
const leadingCols = 2

// Workbook builds a workbook with one sheet per shift. Each requested day
// is a block with a header row and one row per catalog slot; class cohorts
// are the columns. The caller must Close the returned file.
func Workbook(entries []timetable.Entry, days []int) (*excelize.File, error) {
	if len(days) == 0 {
		return nil, ErrNoDays
	}
	for _, d := range days {
		if err := timetable.ValidateDay(d); err != nil {
			return nil, err
		}
	}

	f := excelize.NewFile()

	styles, err := newStyleSet(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	for i, shift := range timetable.Shifts() {
		name := SheetName(shift)
		idx, err := f.NewSheet(name)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("creating sheet %s: %w", name, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		if err := writeShift(f, styles, name, shift, entries, days); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("writing sheet %s: %w", name, err)
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}
	return f, nil
}

// Write renders the workbook into a buffer.
func Write(entries []timetable.Entry, days []int) (*bytes.Buffer, error) {
	f, err := Workbook(entries, days)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf, nil
}

// Filename suggests a file name for an export made at now.
func Filename(now time.Time) string {
	return fmt.Sprintf("horario_%s.xlsx", now.Format("2006-01-02"))
}

// SheetName returns the sheet title of a shift.
func SheetName(shift timetable.Shift) string {
	return shift.Label()
}

// CellText formats an entry as written in a class column.
func CellText(e timetable.Entry) string {
	switch {
	case e.IsBreak:
		return breakLabel
	case e.Subject != "" && e.TeacherName != "":
		return e.Subject + "\n" + e.TeacherName
	case e.Subject != "":
		return e.Subject
	default:
		return e.TeacherName
	}
}

type styleSet struct {
	title  int
	header int
	cell   int
	brk    int
}

func newStyleSet(f *excelize.File) (styleSet, error) {
	var s styleSet
	var err error

	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return s, fmt.Errorf("title style: %w", err)
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return s, fmt.Errorf("header style: %w", err)
	}
	if s.cell, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	}); err != nil {
		return s, fmt.Errorf("cell style: %w", err)
	}
	if s.brk, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Italic: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9D9D9"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return s, fmt.Errorf("break style: %w", err)
	}
	return s, nil
}

func writeShift(f *excelize.File, st styleSet, sheet string, shift timetable.Shift, entries []timetable.Entry, days []int) error {
	classes := timetable.Classes(shift)
	slots := timetable.Slots(shift)
	lastCol := colName(leadingCols + len(classes) - 1)

	if err := f.SetColWidth(sheet, "A", "A", 14); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 14); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, colName(leadingCols), lastCol, 22); err != nil {
		return err
	}

	if err := f.SetCellValue(sheet, "A1", "Horário Escolar - "+shift.Label()); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "A1", cell(lastCol, 1)); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", cell(lastCol, 1), st.title); err != nil {
		return err
	}

	row := 3
	for _, day := range days {
		header := cell("A", row)
		if err := f.SetCellValue(sheet, header, dateutil.WeekdayLabel(day)); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell("B", row), "Horário"); err != nil {
			return err
		}
		for i, class := range classes {
			if err := f.SetCellValue(sheet, cell(colName(leadingCols+i), row), class); err != nil {
				return err
			}
		}
		if err := f.SetCellStyle(sheet, header, cell(lastCol, row), st.header); err != nil {
			return err
		}
		row++

		for _, slot := range slots {
			if err := writeSlotRow(f, st, sheet, row, day, slot, classes, entries, lastCol); err != nil {
				return err
			}
			row++
		}
		row++
	}
	return nil
}

func writeSlotRow(f *excelize.File, st styleSet, sheet string, row, day int, slot timetable.Slot, classes []string, entries []timetable.Entry, lastCol string) error {
	if err := f.SetCellValue(sheet, cell("A", row), slot.Name); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell("B", row), slot.Start+" - "+slot.End); err != nil {
		return err
	}

	first := cell(colName(leadingCols), row)
	last := cell(lastCol, row)

	if slot.IsBreak {
		if err := f.SetCellValue(sheet, first, breakLabel); err != nil {
			return err
		}
		if err := f.MergeCell(sheet, first, last); err != nil {
			return err
		}
		return f.SetCellStyle(sheet, cell("A", row), last, st.brk)
	}

	for i, class := range classes {
		text := ""
		if e, ok := timetable.Cell(entries, day, class, slot.Start); ok {
			text = CellText(e)
		}
		if err := f.SetCellValue(sheet, cell(colName(leadingCols+i), row), text); err != nil {
			return err
		}
	}
	if err := f.SetRowHeight(sheet, row, 30); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, st.cell)
}

// colName converts a zero-based column index to its letters.
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
