package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/horario/internal/auth"
	"github.com/javiermolinar/horario/internal/dateutil"
	"github.com/javiermolinar/horario/internal/timetable"
)

// authorize asks for the admin PIN when one is configured. The --pin flag
// skips the prompt.
func (a *App) authorize() error {
	gate := auth.NewGate(a.config.Admin.PINHash)
	if !gate.Enabled() {
		return nil
	}
	pin := a.pin
	if pin == "" {
		var err error
		if pin, err = a.readSecret("Admin PIN: "); err != nil {
			return err
		}
	}
	return gate.Check(pin)
}

// catalogClass resolves a class name case-insensitively to its catalog
// spelling and shift.
func catalogClass(name string) (string, timetable.Shift, error) {
	shift, ok := timetable.ShiftOfClass(strings.TrimSpace(name))
	if !ok {
		return "", "", fmt.Errorf("unknown class %q (morning: %s; afternoon: %s)", name,
			strings.Join(timetable.Classes(timetable.ShiftMorning), ", "),
			strings.Join(timetable.Classes(timetable.ShiftAfternoon), ", "))
	}
	for _, c := range timetable.Classes(shift) {
		if strings.EqualFold(c, strings.TrimSpace(name)) {
			return c, shift, nil
		}
	}
	return "", "", fmt.Errorf("unknown class %q", name)
}

// slotTarget is the (day, class, start) triple commands address a cell by.
type slotTarget struct {
	day   int
	class string
	start string
}

func parseSlotTarget(now time.Time, args []string) (slotTarget, error) {
	day, err := dateutil.ParseWeekday(args[0], now)
	if err != nil {
		return slotTarget{}, err
	}
	class, _, err := catalogClass(args[1])
	if err != nil {
		return slotTarget{}, err
	}
	if err := timetable.ValidateTime(args[2]); err != nil {
		return slotTarget{}, err
	}
	return slotTarget{day: int(day), class: class, start: args[2]}, nil
}

func (t slotTarget) String() string {
	return fmt.Sprintf("%s %s %s", dateutil.WeekdayLabel(t.day), t.class, t.start)
}

// findSlot looks the target up in the current schedule.
func (a *App) findSlot(ctx context.Context, t slotTarget) (timetable.Entry, error) {
	snap, err := a.svc.Snapshot(ctx)
	if err != nil {
		return timetable.Entry{}, err
	}
	e, ok := timetable.Cell(snap.Entries, t.day, t.class, t.start)
	if !ok {
		return timetable.Entry{}, fmt.Errorf("no slot at %s (run 'horario init' for the day first)", t)
	}
	return e, nil
}

func (a *App) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <day> <class>",
		Short: "Create the day's slots for a class",
		Long: `Create one blank entry per period of the class's shift on the given
day. Breaks are filled in automatically.

Examples:
  horario init segunda "6º EFAF"
  horario init 2 "1ª Série EM"`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			day, err := dateutil.ParseWeekday(args[0], a.now())
			if err != nil {
				return err
			}
			class, shift, err := catalogClass(args[1])
			if err != nil {
				return err
			}
			if err := a.ensureService(); err != nil {
				return err
			}
			if err := a.authorize(); err != nil {
				return err
			}

			if _, err := a.svc.InitializeDay(context.Background(), int(day), class, shift); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s %s · %s · %d slots\n", formatOK("Initialized"),
				class, dateutil.WeekdayLabel(int(day)), len(timetable.Slots(shift)))
			return nil
		},
	}
}

func (a *App) setCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <subject|teacher> <day> <class> <HH:MM> <value>",
		Short: "Set the subject or teacher of a slot",
		Long: `Set the subject or teacher of one slot. Setting a subject that has
exactly one registered teacher also assigns that teacher. A teacher can
never be in two classes at the same time.

Examples:
  horario set subject segunda "6º EFAF" 07:20 Matemática
  horario set teacher segunda "6º EFAF" 07:20 Ana Souza`,
		Args: cobra.MinimumNArgs(4),
		RunE: func(_ *cobra.Command, args []string) error {
			field, err := timetable.ParseField(args[0])
			if err != nil {
				return err
			}
			target, err := parseSlotTarget(a.now(), args[1:4])
			if err != nil {
				return err
			}
			value := strings.TrimSpace(strings.Join(args[4:], " "))

			if err := a.ensureService(); err != nil {
				return err
			}
			if err := a.authorize(); err != nil {
				return err
			}

			ctx := context.Background()
			entry, err := a.findSlot(ctx, target)
			if err != nil {
				return err
			}
			res, err := a.svc.Edit(ctx, entry.ID, field, value)
			if err != nil {
				return err
			}
			if !res.Applied {
				return fmt.Errorf("no slot at %s", target)
			}

			fmt.Fprintf(a.out, "%s %s · %s = %q\n", formatOK("Saved"), target, field, value)
			if res.AutoFilled != "" {
				fmt.Fprintf(a.out, "  teacher: %s\n", res.AutoFilled)
			}
			return nil
		},
	}
	return cmd
}

func (a *App) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <day> <class> <HH:MM>",
		Short: "Remove subject and teacher from a slot",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			target, err := parseSlotTarget(a.now(), args)
			if err != nil {
				return err
			}
			if err := a.ensureService(); err != nil {
				return err
			}
			if err := a.authorize(); err != nil {
				return err
			}

			ctx := context.Background()
			entry, err := a.findSlot(ctx, target)
			if err != nil {
				return err
			}
			if _, err := a.svc.ClearSlot(ctx, entry.ID); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s %s\n", formatOK("Cleared"), target)
			return nil
		},
	}
}
