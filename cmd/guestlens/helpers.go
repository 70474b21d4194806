package main

import (
	"context"
	"fmt"

	"github.com/guestlens/guestlens/internal/config"
	"github.com/guestlens/guestlens/internal/storage"
)

// openStorage opens the SQLite store at the configured path and ensures the
// schema is current.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.DatabasePath()

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", dbPath, err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}
