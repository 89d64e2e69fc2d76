package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/horario/internal/timetable"
)

func (a *App) registryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "registry",
		Aliases: []string{"reg"},
		Short:   "Manage subjects and their teachers",
		Long: `The registry lists every subject and the teachers who can teach it.
A subject with a single teacher fills the teacher in automatically when
it is set on a slot.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List subjects and teachers",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureService(); err != nil {
				return err
			}
			snap, err := a.svc.Snapshot(context.Background())
			if err != nil {
				return err
			}
			printRegistry(a.out, snap.Registry)
			return nil
		},
	})

	cmd.AddCommand(a.registryMutation("add-subject <subject>", "Register a subject", 1,
		func(ctx context.Context, args []string) ([]timetable.Subject, error) {
			return a.svc.AddSubject(ctx, strings.Join(args, " "))
		}))
	cmd.AddCommand(a.registryMutation("rm-subject <subject>", "Remove a subject and its teachers", 1,
		func(ctx context.Context, args []string) ([]timetable.Subject, error) {
			return a.svc.RemoveSubject(ctx, strings.Join(args, " "))
		}))
	cmd.AddCommand(a.registryMutation("add-teacher <subject> <teacher>", "Add a teacher to a subject", 2,
		func(ctx context.Context, args []string) ([]timetable.Subject, error) {
			return a.svc.AddTeacher(ctx, args[0], strings.Join(args[1:], " "))
		}))
	cmd.AddCommand(a.registryMutation("rm-teacher <subject> <teacher>", "Remove a teacher from a subject", 2,
		func(ctx context.Context, args []string) ([]timetable.Subject, error) {
			return a.svc.RemoveTeacher(ctx, args[0], strings.Join(args[1:], " "))
		}))

	return cmd
}

// registryMutation builds a PIN-guarded registry subcommand that prints the
// registry after the change. Extra trailing words are joined into the last
// argument so teacher names need no quoting.
func (a *App) registryMutation(use, short string, minArgs int, fn func(context.Context, []string) ([]timetable.Subject, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(minArgs),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureService(); err != nil {
				return err
			}
			if err := a.authorize(); err != nil {
				return err
			}
			registry, err := fn(context.Background(), args)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, formatOK("Registry updated"))
			printRegistry(a.out, registry)
			return nil
		},
	}
}
