package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/horario/internal/alert"
	"github.com/javiermolinar/horario/internal/auth"
	"github.com/javiermolinar/horario/internal/config"
	"github.com/javiermolinar/horario/internal/db"
	"github.com/javiermolinar/horario/internal/llm"
	"github.com/javiermolinar/horario/internal/logging"
	"github.com/javiermolinar/horario/internal/timetable"
	"github.com/javiermolinar/horario/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config *config.Config
	store  timetable.Store
	svc    *timetable.Service
	log    *zap.Logger
	llm    llm.Client
	root   *cobra.Command

	debug   bool
	noColor bool
	pin     string

	out   io.Writer
	in    io.Reader
	stdin *bufio.Reader
	now   func() time.Time
}

// AppOption configures an App.
type AppOption func(*App)

// WithStore makes the app use store instead of opening the configured
// database.
func WithStore(store timetable.Store) AppOption {
	return func(a *App) {
		a.store = store
	}
}

// WithLogger sets the logger instead of building one from the config.
func WithLogger(log *zap.Logger) AppOption {
	return func(a *App) {
		a.log = log
	}
}

// WithLLM sets the client used by generate instead of the configured
// provider.
func WithLLM(client llm.Client) AppOption {
	return func(a *App) {
		a.llm = client
	}
}

// WithOutput redirects command output.
func WithOutput(w io.Writer) AppOption {
	return func(a *App) {
		a.out = w
	}
}

// WithInput sets where prompts read from.
func WithInput(r io.Reader) AppOption {
	return func(a *App) {
		a.in = r
	}
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) AppOption {
	return func(a *App) {
		a.now = now
	}
}

// NewApp creates a new CLI application for cfg.
func NewApp(cfg *config.Config, opts ...AppOption) *App {
	a := &App{
		config: cfg,
		out:    os.Stdout,
		in:     os.Stdin,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.root = &cobra.Command{
		Use:   "horario",
		Short: "School timetable board and editor",
		Long: `Horario shows which class, subject and teacher is live right now
and rings the bell at every period boundary.

Run without a subcommand to open the board. Press 3 to edit the
timetable (asks for the admin PIN when one is configured).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if a.noColor {
				DisableColor()
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runBoard()
		},
	}
	a.root.SetOut(a.out)
	a.root.SetIn(a.in)

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	a.root.PersistentFlags().StringVar(&a.pin, "pin", "", "Admin PIN for commands that change the timetable")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.boardCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.initCmd())
	a.root.AddCommand(a.setCmd())
	a.root.AddCommand(a.clearCmd())
	a.root.AddCommand(a.registryCmd())
	a.root.AddCommand(a.generateCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.serveCmd())
	a.root.AddCommand(a.alertsCmd())
	a.root.AddCommand(a.pinCmd())
	a.root.AddCommand(a.summaryCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.out, "horario %s (commit: %s)\n", Version, Commit)
		},
	}
}

// runBoard opens the TUI. The bell rings in the same process when alerts
// are enabled.
func (a *App) runBoard() error {
	if err := a.ensureService(); err != nil {
		return err
	}

	opts := []tui.Option{tui.WithGate(auth.NewGate(a.config.Admin.PINHash))}
	if a.config.Alerts.Enabled {
		driver := a.newAlertDriver(os.Stdout)
		if err := driver.Start(); err != nil {
			return fmt.Errorf("starting alerts: %w", err)
		}
		defer driver.Stop()
		opts = append(opts, tui.WithAlerts(driver.Events()))
	}

	return tui.Run(a.svc, a.config, opts...)
}

func (a *App) newAlertDriver(w io.Writer) *alert.Driver {
	return alert.New(alert.BellRinger{W: w}, alert.Options{
		BellDuration:     a.config.BellDuration(),
		BreakEndDuration: a.config.BreakEndDuration(),
		Logger:           a.log.Named("alert"),
		SchoolDay:        a.config.IsSchoolDay,
	})
}

// ensureService opens the logger, the store and the service on first use.
func (a *App) ensureService() error {
	if a.svc != nil {
		return nil
	}
	if a.log == nil {
		log, err := logging.New(a.config.Log, a.debug)
		if err != nil {
			return err
		}
		a.log = log
	}
	if a.store == nil {
		store, err := db.New(a.config.Storage.DBPath, db.WithLogger(a.log.Named("db")))
		if err != nil {
			return err
		}
		a.store = store
	}
	a.svc = timetable.NewService(a.store, a.log)
	return nil
}

// Close releases the store and flushes the logger.
func (a *App) Close() error {
	var err error
	if a.store != nil {
		err = a.store.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return err
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// SetArgs overrides the command line, for tests.
func (a *App) SetArgs(args ...string) {
	a.root.SetArgs(args)
}
