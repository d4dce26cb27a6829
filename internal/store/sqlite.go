package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/VishiATChoudhary/TUMai-LaGent/internal/models"
)

// SQLiteStore is the development read model. The categorizer and
// worker-search pipelines write into the same two tables the production
// database carries.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if necessary initializes) the SQLite read model.
// If dbPath is empty, defaults to "./data/lagent.db".
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/lagent.db"
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// initSchema creates the read-model tables if they don't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS categorizer_results (
		id TEXT PRIMARY KEY,
		message_content TEXT NOT NULL,
		flag TEXT DEFAULT '',
		urgency TEXT DEFAULT 'low',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS maintenance_search_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		search_query TEXT DEFAULT '',
		name TEXT NOT NULL,
		rating TEXT DEFAULT '',
		type TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_categorizer_created ON categorizer_results(created_at);
	CREATE INDEX IF NOT EXISTS idx_workers_created ON maintenance_search_results(created_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() {
	s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CategorizerResults returns all categorizer records, newest first.
func (s *SQLiteStore) CategorizerResults(ctx context.Context) ([]models.CategorizerRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, message_content, flag, urgency, created_at
		FROM categorizer_results
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.CategorizerRecord
	for rows.Next() {
		var rec models.CategorizerRecord
		var createdAt time.Time
		if err := rows.Scan(&rec.ID, &rec.MessageContent, &rec.Flag, &rec.Urgency, &createdAt); err != nil {
			return nil, err
		}
		rec.CreatedAt = createdAt
		records = append(records, rec)
	}
	return records, rows.Err()
}

// TopWorkers returns up to limit worker candidates, newest first.
func (s *SQLiteStore) TopWorkers(ctx context.Context, limit int) ([]models.WorkerOption, error) {
	if limit <= 0 {
		limit = 3
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, type, rating
		FROM maintenance_search_results
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workers []models.WorkerOption
	for rows.Next() {
		var w models.WorkerOption
		if err := rows.Scan(&w.Name, &w.Type, &w.Rating); err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}
	return workers, rows.Err()
}
