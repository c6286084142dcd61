package storage

import (
	"context"
	"log/slog"
)

// Open picks the Postgres store when databaseURL is set and the SQLite file at
// statePath otherwise.
func Open(ctx context.Context, databaseURL, statePath string) (Store, error) {
	if databaseURL != "" {
		slog.Info("using postgres state store")
		return OpenPostgres(ctx, databaseURL)
	}
	slog.Info("using sqlite state store", "path", statePath)
	return OpenSQLite(ctx, statePath)
}
