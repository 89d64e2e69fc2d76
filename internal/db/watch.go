package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// watch polls PRAGMA data_version on a dedicated connection and
// re-broadcasts the snapshot whenever another connection has committed.
// Commits from this process's pool count as other connections too, so a
// local save may be broadcast twice; subscribers only keep the newest.
func (s *SQLite) watch() {
	defer close(s.done)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-s.stop
		cancel()
	}()

	conn, err := s.db.Conn(ctx)
	if err != nil {
		s.log.Warn("change watcher disabled", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	last, err := dataVersion(ctx, conn)
	if err != nil {
		s.log.Warn("change watcher disabled", zap.Error(err))
		return
	}

	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		v, err := dataVersion(ctx, conn)
		if err != nil {
			if ctx.Err() == nil {
				s.log.Debug("polling data_version", zap.Error(err))
			}
			continue
		}
		if v == last {
			continue
		}
		last = v
		s.log.Debug("external change detected", zap.Int64("data_version", v))
		s.broadcast(ctx)
	}
}

func dataVersion(ctx context.Context, conn *sql.Conn) (int64, error) {
	var v int64
	if err := conn.QueryRowContext(ctx, `PRAGMA data_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("reading data_version: %w", err)
	}
	return v, nil
}
