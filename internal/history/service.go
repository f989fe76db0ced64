package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const defaultListLimit = 100

// Service persists and reads the search audit log.
type Service struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewService creates a new history service.
func NewService(db *sql.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With().Str("component", "history").Logger(),
	}
}

// Record stores one completed search.
func (s *Service) Record(ctx context.Context, entry Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO search_history (id, query, imdb_id, media_type, indexer_count, result_count, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Query,
		entry.ImdbID,
		entry.MediaType,
		entry.IndexerCount,
		entry.ResultCount,
		entry.DurationMs,
		entry.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, query, imdb_id, media_type, indexer_count, result_count, duration_ms, created_at
		FROM search_history
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list search history: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(
			&entry.ID,
			&entry.Query,
			&entry.ImdbID,
			&entry.MediaType,
			&entry.IndexerCount,
			&entry.ResultCount,
			&entry.DurationMs,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Prune deletes entries older than the retention window.
func (s *Service) Prune(ctx context.Context, retention time.Duration) error {
	cutoff := time.Now().Add(-retention).UTC()

	result, err := s.db.ExecContext(ctx, `DELETE FROM search_history WHERE created_at < ?`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune search history: %w", err)
	}

	if deleted, err := result.RowsAffected(); err == nil && deleted > 0 {
		s.logger.Info().
			Int64("deleted", deleted).
			Time("cutoff", cutoff).
			Msg("pruned search history")
	}

	return nil
}
