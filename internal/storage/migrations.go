package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema: reviews and baseline sentiments",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS reviews (
					response_id TEXT PRIMARY KEY,
					question_label TEXT NOT NULL DEFAULT 'COMMENT',
					question_response TEXT NOT NULL,
					status TEXT NOT NULL DEFAULT 'random_sample',
					irrelevant INTEGER NOT NULL DEFAULT 0,
					profane INTEGER NOT NULL DEFAULT 0,
					rewritten_comment TEXT,
					overall_sentiment_score INTEGER,
					overall_sentiment_label TEXT,
					store_id TEXT,
					visit_datetime DATETIME,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_reviews_status ON reviews(status)`,

				`CREATE TABLE IF NOT EXISTS review_sentiments (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					response_id TEXT NOT NULL,
					category TEXT NOT NULL,
					category_sentiment_label TEXT NOT NULL,
					category_sentiment_score REAL NOT NULL DEFAULT 0,
					subcategory TEXT NOT NULL,
					subcategory_sentiment_label TEXT NOT NULL,
					subcategory_sentiment_score REAL NOT NULL DEFAULT 0,
					FOREIGN KEY (response_id) REFERENCES reviews(response_id) ON DELETE CASCADE,
					UNIQUE (response_id, category, subcategory)
				)`,
				`CREATE INDEX idx_review_sentiments_response ON review_sentiments(response_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Human evaluations (ground truth)",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS evaluations (
					review_id TEXT PRIMARY KEY,
					decision TEXT NOT NULL,
					corrections_made INTEGER NOT NULL DEFAULT 0,
					irrelevant INTEGER NOT NULL DEFAULT 0,
					profane INTEGER NOT NULL DEFAULT 0,
					rewritten_comment TEXT,
					overall_sentiment_score INTEGER,
					overall_sentiment_label TEXT,
					category_sentiments TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (review_id) REFERENCES reviews(response_id)
				)`,
				`CREATE INDEX idx_evaluations_created ON evaluations(created_at)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Index evaluations by decision for metrics",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_evaluations_decision ON evaluations(decision)`)
			if err != nil {
				return fmt.Errorf("failed to create decision index: %w", err)
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
