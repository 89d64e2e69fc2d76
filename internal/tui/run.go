package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/horario/internal/config"
	"github.com/javiermolinar/horario/internal/timetable"
)

// Run starts the TUI in the alternate screen and blocks until it exits.
// The board refreshes on every store broadcast.
func Run(svc *timetable.Service, cfg *config.Config, opts ...Option) error {
	snapshots, cancel := svc.Store().Subscribe()
	defer cancel()

	opts = append([]Option{WithSnapshots(snapshots)}, opts...)
	m := New(svc, cfg, opts...)

	p := tea.NewProgram(*m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
