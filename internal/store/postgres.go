package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/VishiATChoudhary/TUMai-LaGent/internal/models"
)

// PostgresStore is the production read model, backed by a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL read model with a connection pool.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// CategorizerResults returns all categorizer records, newest first.
func (s *PostgresStore) CategorizerResults(ctx context.Context) ([]models.CategorizerRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, message_content, flag, urgency, created_at
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
		if err := rows.Scan(&rec.ID, &rec.MessageContent, &rec.Flag, &rec.Urgency, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// TopWorkers returns up to limit worker candidates, newest first.
func (s *PostgresStore) TopWorkers(ctx context.Context, limit int) ([]models.WorkerOption, error) {
	if limit <= 0 {
		limit = 3
	}

	rows, err := s.pool.Query(ctx, `
		SELECT name, type, rating
		FROM maintenance_search_results
		ORDER BY created_at DESC
		LIMIT $1
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
