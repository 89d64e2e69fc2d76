package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/horario/internal/db"
	"github.com/javiermolinar/horario/internal/timetable"
)

func (a *App) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <snapshot.json|database.db>",
		Short: "Replace the timetable with an exported snapshot",
		Long: `Replace the schedule and the registry with the contents of a JSON
snapshot written by 'horario export --format json', or of another horario
database. The registry is kept when the source has none.

Teachers booked in two classes at once are reported but imported as-is.

Examples:
  horario import backup.json
  horario import /path/to/other.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}

			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("source does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking source: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("source path is a directory: %s", sourcePath)
			}

			ctx := context.Background()
			var snap timetable.Snapshot
			if isJSON(sourcePath) {
				snap, err = readSnapshotFile(sourcePath)
			} else {
				destPath, rerr := resolvePath(a.config.Storage.DBPath)
				if rerr != nil {
					return rerr
				}
				if sourcePath == destPath {
					return fmt.Errorf("source database matches current database")
				}
				snap, err = readSnapshotDB(ctx, sourcePath)
			}
			if err != nil {
				return err
			}

			entries, err := normalizeImported(snap.Entries)
			if err != nil {
				return err
			}
			registry, err := timetable.NormalizeRegistry(snap.Registry)
			if err != nil {
				return fmt.Errorf("importing registry: %w", err)
			}

			if err := a.ensureService(); err != nil {
				return err
			}
			if err := a.authorize(); err != nil {
				return err
			}

			if err := a.svc.ReplaceSchedule(ctx, entries); err != nil {
				return err
			}
			if len(registry) > 0 {
				if err := a.svc.ReplaceRegistry(ctx, registry); err != nil {
					return err
				}
			}

			fmt.Fprintf(a.out, "Imported %d entries and %d subjects from %s\n", len(entries), len(registry), sourcePath)
			if pairs := timetable.DoubleBookings(entries); len(pairs) > 0 {
				fmt.Fprintf(a.out, "%s %d double bookings:\n", formatWarn("Warning:"), len(pairs))
				printDoubleBookings(a.out, pairs)
			}
			return nil
		},
	}

	return cmd
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func readSnapshotFile(path string) (timetable.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return timetable.Snapshot{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var snap timetable.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return timetable.Snapshot{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return snap, nil
}

func readSnapshotDB(ctx context.Context, path string) (timetable.Snapshot, error) {
	source, err := db.New(path, db.ReadOnly())
	if err != nil {
		return timetable.Snapshot{}, fmt.Errorf("opening source database: %w", err)
	}
	defer func() { _ = source.Close() }()

	return timetable.LoadSnapshot(ctx, source)
}

// normalizeImported validates every entry and gives fresh ids to entries
// without one or with a repeated one.
func normalizeImported(entries []timetable.Entry) ([]timetable.Entry, error) {
	out := make([]timetable.Entry, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if err := timetable.ValidateDay(e.DayOfWeek); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		for _, t := range []string{e.StartTime, e.EndTime} {
			if err := timetable.ValidateTime(t); err != nil {
				return nil, fmt.Errorf("entry %d: %w", i+1, err)
			}
		}
		if strings.TrimSpace(e.ClassName) == "" {
			return nil, fmt.Errorf("entry %d: class: %w", i+1, timetable.ErrEmptyName)
		}
		if e.ID == "" || seen[e.ID] {
			e.ID = uuid.NewString()
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	return out, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
