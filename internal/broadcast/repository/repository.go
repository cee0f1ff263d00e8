// Package repository persists the broadcast history log. Logging is
// best-effort; the service treats a nil repository as "history disabled".
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// LogEntry is one row of the broadcast history log.
type LogEntry struct {
	ID            uuid.UUID
	Kind          string
	PropertyCount int
	CharCount     int
	MediaStrategy string
	CreatedBy     *uuid.UUID
	CreatedAt     time.Time
}

// Insert records one broadcast.
func (r *Repository) Insert(ctx context.Context, entry LogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO broadcast_log (id, kind, property_count, char_count, media_strategy, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.Kind, entry.PropertyCount, entry.CharCount, entry.MediaStrategy, entry.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert broadcast log: %w", err)
	}
	return nil
}

// List returns the most recent broadcasts, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]LogEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, kind, property_count, char_count, media_strategy, created_by, created_at
		FROM broadcast_log
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list broadcast log: %w", err)
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.ID, &e.Kind, &e.PropertyCount, &e.CharCount, &e.MediaStrategy, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan broadcast log row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate broadcast log rows: %w", err)
	}
	return entries, nil
}
