package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/horario/internal/dateutil"
	"github.com/javiermolinar/horario/internal/summary"
)

func (a *App) summaryCmd() *cobra.Command {
	var (
		dayNames []string
		insight  bool
		model    string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the weekly teaching load",
		Long: `Summarize the week: lessons and minutes per teacher, lessons per
subject, and filled versus vacant periods per class.

With --insight the configured LLM adds a short comment on the balance.

Examples:
  horario summary
  horario summary --days seg,ter --insight`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			days, err := a.resolveDays(dayNames)
			if err != nil {
				return err
			}
			if err := a.ensureService(); err != nil {
				return err
			}

			opts := summary.BuildWeekSummaryOptions{Days: days, IncludeInsight: insight}
			if insight {
				if opts.Client, err = a.llmClient(model); err != nil {
					return err
				}
			}

			s, err := summary.BuildWeekSummary(context.Background(), a.svc.Store(), opts)
			if err != nil {
				return err
			}
			printSummary(a.out, s)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&dayNames, "days", nil, "Weekdays to include (default: configured school days)")
	cmd.Flags().BoolVar(&insight, "insight", false, "Ask the LLM for a short comment")
	cmd.Flags().StringVar(&model, "model", "", "LLM model for --insight (default: from config)")
	return cmd
}

func printSummary(w io.Writer, s *summary.WeekSummary) {
	labels := make([]string, len(s.Days))
	for i, d := range s.Days {
		labels[i] = dateutil.WeekdayLabel(d)
	}
	fmt.Fprintf(w, "=== %s ===\n\n", formatHeader("Carga semanal · "+strings.Join(labels, ", ")))

	if s.Lessons == 0 && s.Vacant == 0 {
		fmt.Fprintln(w, "No lessons scheduled for these days.")
		return
	}

	fmt.Fprintln(w, formatHeader("Professores"))
	nameW := 0
	for _, t := range s.Teachers {
		nameW = max(nameW, ansi.StringWidth(t.Teacher))
	}
	for _, t := range s.Teachers {
		fmt.Fprintf(w, "  %s  %3d aulas  %s  %s\n",
			formatLesson(padRight(t.Teacher, nameW)), t.Lessons,
			formatMuted(formatMinutes(t.Minutes)), strings.Join(t.Classes, ", "))
	}
	if len(s.Teachers) == 0 {
		fmt.Fprintln(w, formatMuted("  (nenhum professor atribuído)"))
	}

	fmt.Fprintln(w, "\n"+formatHeader("Disciplinas"))
	nameW = 0
	for _, sub := range s.Subjects {
		nameW = max(nameW, ansi.StringWidth(sub.Subject))
	}
	for _, sub := range s.Subjects {
		fmt.Fprintf(w, "  %s  %3d aulas\n", padRight(sub.Subject, nameW), sub.Lessons)
	}

	fmt.Fprintln(w, "\n"+formatHeader("Turmas"))
	nameW = 0
	for _, c := range s.Classes {
		nameW = max(nameW, ansi.StringWidth(c.Class))
	}
	for _, c := range s.Classes {
		vacant := fmt.Sprintf("%d vagos", c.Vacant)
		if c.Vacant > 0 {
			vacant = formatWarn(vacant)
		}
		fmt.Fprintf(w, "  %s  %3d aulas  %s\n", padRight(c.Class, nameW), c.Lessons, vacant)
	}

	fmt.Fprintf(w, "\nTotal: %d aulas, %d vagos\n", s.Lessons, s.Vacant)
	if s.DoubleBookings > 0 {
		fmt.Fprintf(w, "%s %d conflitos de professor\n", formatWarn("!"), s.DoubleBookings)
	}

	if s.Insight != "" {
		fmt.Fprintf(w, "\n%s\n", formatOK(s.Insight))
	}
}

// formatMinutes formats minutes as "3h20".
func formatMinutes(m int) string {
	return fmt.Sprintf("%dh%02d", m/60, m%60)
}
