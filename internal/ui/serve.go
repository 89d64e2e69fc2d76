package ui

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/horario/internal/alert"
	"github.com/javiermolinar/horario/internal/auth"
	"github.com/javiermolinar/horario/internal/server"
	"github.com/javiermolinar/horario/internal/timetable"
)

func (a *App) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the timetable over HTTP",
		Long: `Start the JSON API. Read endpoints are open; changes require the
X-Admin-PIN header when an admin PIN is configured.

Examples:
  horario serve
  horario serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.config.Server.Addr
			}
			days, err := a.resolveDays(nil)
			if err != nil {
				return err
			}
			if err := a.ensureService(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(a.svc, server.Options{
				Addr:   addr,
				Days:   days,
				Gate:   auth.NewGate(a.config.Admin.PINHash),
				Logger: a.log.Named("http"),
				Now:    a.now,
			})
			fmt.Fprintf(a.out, "Listening on %s (Ctrl+C to stop)\n", addr)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr from config)")
	return cmd
}

func (a *App) alertsCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Ring the bell at every period boundary",
		Long: `Run the bell without the board, e.g. on the machine wired to the
school speakers. Use --list to print the bell times.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if list {
				a.printTriggerTimes()
				return nil
			}
			if err := a.ensureService(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runAlerts(ctx, a.newAlertDriver(os.Stdout))
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "Print the bell times and exit")
	return cmd
}

func (a *App) printTriggerTimes() {
	fmt.Fprintln(a.out, formatHeader("Bell times"))
	for _, t := range timetable.TriggerTimes() {
		d := a.config.BellDuration()
		note := ""
		if timetable.IsBreakEnd(t) {
			d = a.config.BreakEndDuration()
			note = formatBreak(" fim do intervalo")
		}
		fmt.Fprintf(a.out, "  %s  %s%s\n", t, formatMuted(d.String()), note)
	}
}

// runAlerts starts driver and reports every ring until ctx is done.
func (a *App) runAlerts(ctx context.Context, driver *alert.Driver) error {
	if err := driver.Start(); err != nil {
		return fmt.Errorf("starting alerts: %w", err)
	}
	defer driver.Stop()

	if next, ok := driver.Next(); ok {
		fmt.Fprintf(a.out, "Next bell at %s (Ctrl+C to stop)\n", next.Format("15:04"))
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-driver.Events():
			line := fmt.Sprintf("%s  bell %s", ev.At.Format("15:04:05"), ev.Duration)
			if ev.BreakEnd {
				line += " · fim do intervalo"
			}
			fmt.Fprintln(a.out, line)
		}
	}
}
