package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS schedule_entries (
			id           TEXT PRIMARY KEY,
			position     INTEGER NOT NULL,
			day_of_week  INTEGER NOT NULL CHECK(day_of_week BETWEEN 0 AND 6),
			start_time   TEXT NOT NULL,
			end_time     TEXT NOT NULL,
			period_name  TEXT NOT NULL DEFAULT '',
			class_name   TEXT NOT NULL,
			subject      TEXT NOT NULL DEFAULT '',
			teacher_name TEXT NOT NULL DEFAULT '',
			is_break     INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_entries_day_start ON schedule_entries(day_of_week, start_time);
		CREATE INDEX IF NOT EXISTS idx_entries_class ON schedule_entries(class_name, day_of_week);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating schedule_entries table: %w", err)
	}

	query = `
		CREATE TABLE IF NOT EXISTS registry_subjects (
			name     TEXT PRIMARY KEY COLLATE NOCASE,
			position INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS registry_teachers (
			subject  TEXT NOT NULL REFERENCES registry_subjects(name) ON DELETE CASCADE,
			name     TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (subject, name)
		);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating registry tables: %w", err)
	}

	return nil
}
