package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/horario/internal/export"
	"github.com/javiermolinar/horario/internal/timetable"
)

// Export formats.
const (
	formatXLSX = "xlsx"
	formatJSON = "json"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		dayNames []string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export the timetable to a spreadsheet or JSON",
		Long: `Write the timetable as an Excel workbook (one sheet per shift, one
block per weekday) or as the JSON snapshot that 'horario import' reads.

The file name defaults to horario_<date>.xlsx (or .json). Use "-" to
write to standard output.

Examples:
  horario export
  horario export quadro.xlsx --days seg,ter,qua
  horario export --format json backup.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != formatXLSX && format != formatJSON {
				return fmt.Errorf("unsupported format %q (use %s or %s)", format, formatXLSX, formatJSON)
			}
			days, err := a.resolveDays(dayNames)
			if err != nil {
				return err
			}

			if err := a.ensureService(); err != nil {
				return err
			}
			snap, err := a.svc.Snapshot(context.Background())
			if err != nil {
				return err
			}

			path := exportPath(args, format, a.now)
			if path == "-" {
				return writeExport(a.out, snap, days, format)
			}
			if path, err = resolvePath(path); err != nil {
				return err
			}

			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating %s: %w", path, err)
			}
			if err := writeExport(f, snap, days, format); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", path, err)
			}

			fmt.Fprintf(a.out, "%s %s\n", formatOK("Exported"), path)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&dayNames, "days", nil, "Weekdays to export (default: configured school days)")
	cmd.Flags().StringVar(&format, "format", formatXLSX, "Output format (xlsx|json)")
	return cmd
}

func exportPath(args []string, format string, now func() time.Time) string {
	if len(args) == 1 {
		return args[0]
	}
	name := export.Filename(now())
	if format == formatJSON {
		name = strings.TrimSuffix(name, ".xlsx") + ".json"
	}
	return name
}

func writeExport(w io.Writer, snap timetable.Snapshot, days []int, format string) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}
		return nil
	}

	buf, err := export.Write(snap.Entries, days)
	if err != nil {
		return err
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
