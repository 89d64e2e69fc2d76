package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/horario/internal/dateutil"
	"github.com/javiermolinar/horario/internal/llm"
	"github.com/javiermolinar/horario/internal/timetable"
)

func (a *App) generateCmd() *cobra.Command {
	var (
		modelFlag string
		dayNames  []string
		shiftName string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a sample timetable with AI",
		Long: `Ask the configured LLM for a sample timetable laid out on the fixed
periods. Lessons that would put a teacher in two classes at once are
dropped and reported.

Accepting replaces the whole schedule. When the registry is empty it is
filled from the generated lessons.

Examples:
  horario generate
  horario generate --days seg,ter --shift manhã
  horario generate --dry-run

Interactive mode:
  - [a]ccept: Replace the schedule with the proposal
  - [r]etry: Ask for a new proposal
  - [c]ancel: Exit without saving`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			days, err := a.resolveDays(dayNames)
			if err != nil {
				return err
			}
			var shifts []timetable.Shift
			if shiftName != "" {
				shift, err := timetable.ParseShift(shiftName)
				if err != nil {
					return err
				}
				shifts = []timetable.Shift{shift}
			}

			if err := a.ensureService(); err != nil {
				return err
			}
			client, err := a.llmClient(modelFlag)
			if err != nil {
				return err
			}

			ctx := context.Background()
			snap, err := a.svc.Snapshot(ctx)
			if err != nil {
				return err
			}

			gen := llm.NewGenerator(client)
			req := llm.GenerateRequest{Days: days, Shifts: shifts, Registry: snap.Registry}

			for {
				fmt.Fprintln(a.out, "Generating timetable...")
				result, err := gen.Generate(ctx, req)
				if err != nil && !errors.Is(err, llm.ErrEmptyGeneration) {
					return err
				}
				a.displayGenerated(result, req)

				if dryRun {
					fmt.Fprintln(a.out, "\n(Dry run - schedule not saved)")
					return nil
				}

				choice, err := a.readLine("\n[a]ccept / [r]etry / [c]ancel: ")
				if err != nil {
					return err
				}

				switch strings.ToLower(choice) {
				case "a", "accept":
					if result == nil || len(result.Entries) == 0 {
						fmt.Fprintln(a.out, "Nothing to save. Please [r]etry or [c]ancel.")
						continue
					}
					if err := a.authorize(); err != nil {
						return err
					}
					return a.saveGenerated(ctx, result, snap.Registry)

				case "r", "retry":
					continue

				case "c", "cancel", "":
					fmt.Fprintln(a.out, "Generation cancelled.")
					return nil

				default:
					fmt.Fprintln(a.out, "Invalid choice. Please enter 'a', 'r', or 'c'.")
				}
			}
		},
	}

	cmd.Flags().StringVar(&modelFlag, "model", "", "LLM model (overrides config)")
	cmd.Flags().StringSliceVar(&dayNames, "days", nil, "Weekdays to generate (default: configured school days)")
	cmd.Flags().StringVar(&shiftName, "shift", "", "Only generate one shift (morning|afternoon)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the proposal without saving")
	return cmd
}

// llmClient returns the injected client or one built from the config.
func (a *App) llmClient(model string) (llm.Client, error) {
	if a.llm != nil {
		return a.llm, nil
	}
	if model == "" {
		model = a.config.LLM.Model
	}
	client, err := llm.NewClient(a.config.LLM.Provider, model, a.config.LLM.BaseURL, llm.WithLogger(a.log.Named("llm")))
	if err != nil {
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}
	return client, nil
}

// resolveDays parses weekday names, falling back to the configured school
// days.
func (a *App) resolveDays(names []string) ([]int, error) {
	if len(names) == 0 {
		var days []int
		for _, d := range a.config.Weekdays() {
			days = append(days, int(d))
		}
		return days, nil
	}
	days := make([]int, 0, len(names))
	seen := make(map[int]bool)
	for _, name := range names {
		d, err := dateutil.ParseWeekday(name, a.now())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if !seen[int(d)] {
			seen[int(d)] = true
			days = append(days, int(d))
		}
	}
	return days, nil
}

func (a *App) displayGenerated(result *llm.GenerateResult, req llm.GenerateRequest) {
	if result == nil {
		return
	}
	shifts := req.Shifts
	if len(shifts) == 0 {
		shifts = timetable.Shifts()
	}

	fmt.Fprintln(a.out)
	for _, day := range req.Days {
		lessons := 0
		for _, e := range result.Entries {
			if e.DayOfWeek == day && !e.IsBreak && !e.IsEmpty() {
				lessons++
			}
		}
		fmt.Fprintf(a.out, "  %-14s %s\n", dateutil.WeekdayLabel(day), formatMuted(fmt.Sprintf("%d aulas", lessons)))
	}

	if len(req.Days) > 0 {
		for _, shift := range shifts {
			fmt.Fprintln(a.out)
			printDay(a.out, result.Entries, req.Days[0], shift, termWidth())
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(a.out, "\nWarnings:")
		for _, w := range result.Warnings {
			fmt.Fprintf(a.out, "  %s %s\n", formatWarn("!"), w)
		}
	}
}

func (a *App) saveGenerated(ctx context.Context, result *llm.GenerateResult, registry []timetable.Subject) error {
	if err := a.svc.ReplaceSchedule(ctx, result.Entries); err != nil {
		return err
	}
	if len(registry) == 0 {
		if err := a.svc.ReplaceRegistry(ctx, registryFromEntries(result.Entries)); err != nil {
			return err
		}
	}
	fmt.Fprintf(a.out, "\n%s %d entries saved\n", formatOK("Done:"), len(result.Entries))
	return nil
}

// registryFromEntries collects every subject and its teachers from a
// schedule. Breaks and blank slots are skipped.
func registryFromEntries(entries []timetable.Entry) []timetable.Subject {
	var registry []timetable.Subject
	for _, e := range entries {
		if e.IsBreak || e.Subject == "" {
			continue
		}
		if next, err := timetable.AddSubject(registry, e.Subject); err == nil {
			registry = next
		}
		if e.TeacherName == "" {
			continue
		}
		if next, err := timetable.AddTeacher(registry, e.Subject, e.TeacherName); err == nil {
			registry = next
		}
	}
	return registry
}
