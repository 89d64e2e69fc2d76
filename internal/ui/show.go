package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/horario/internal/dateutil"
	"github.com/javiermolinar/horario/internal/timetable"
)

func (a *App) boardCmd() *cobra.Command {
	var at, day string

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Print what is live right now",
		Long: `Print the live board once: for every column of the current shift,
the entry in progress and the time left.

Examples:
  horario board
  horario board --at 09:05
  horario board --day terça --at 14:00`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			now, err := boardTime(a.now(), day, at)
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
			printBoard(a.out, timetable.BoardAt(snap.Entries, now))
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Clock time to show (HH:MM)")
	cmd.Flags().StringVar(&day, "day", "", "Weekday to show (default: today)")
	return cmd
}

// boardTime moves now to the requested weekday and clock.
func boardTime(now time.Time, day, at string) (time.Time, error) {
	wd, err := dateutil.ParseWeekday(day, now)
	if err != nil {
		return time.Time{}, err
	}
	now = now.AddDate(0, 0, int(wd)-int(now.Weekday()))
	if at == "" {
		return now, nil
	}
	if err := timetable.ValidateTime(at); err != nil {
		return time.Time{}, fmt.Errorf("--at: %w", err)
	}
	minutes := timetable.TimeToMinutes(at)
	return time.Date(now.Year(), now.Month(), now.Day(), minutes/60, minutes%60, 0, 0, now.Location()), nil
}

func (a *App) showCmd() *cobra.Command {
	var shiftName string

	cmd := &cobra.Command{
		Use:   "show [day]",
		Short: "Show the timetable of one day and shift",
		Long: `Display the slot × class grid of a day and shift.

The day defaults to today and the shift to the one in progress.

Examples:
  horario show
  horario show segunda --shift tarde
  horario show 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			now := a.now()
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			day, err := dateutil.ParseWeekday(arg, now)
			if err != nil {
				return err
			}

			shift := timetable.ShiftAt(timetable.Clock(now))
			if shiftName != "" {
				if shift, err = timetable.ParseShift(shiftName); err != nil {
					return err
				}
			}

			if err := a.ensureService(); err != nil {
				return err
			}
			snap, err := a.svc.Snapshot(context.Background())
			if err != nil {
				return err
			}

			printDay(a.out, snap.Entries, int(day), shift, termWidth())
			return nil
		},
	}

	cmd.Flags().StringVar(&shiftName, "shift", "", "Shift to show (morning|afternoon)")
	return cmd
}
