package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pos-billing/internal/db"
	"pos-billing/migrations"
)

// PostgresStore shares workflows between server instances.
type PostgresStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects to databaseURL and applies pending migrations.
func NewPostgresStore(ctx context.Context, databaseURL string, ttl time.Duration) (*PostgresStore, error) {
	pool, err := db.NewPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	err = db.Migrate(ctx, pool, migrations.FS, slog.Default())
	if errors.Is(err, db.ErrMigrationLocked) {
		// Another instance is starting up and migrating the same schema.
		slog.Warn("session schema migration skipped", "reason", err)
		err = nil
	}
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate session schema: %w", err)
	}
	return &PostgresStore{pool: pool, ttl: ttl}, nil
}

func (s *PostgresStore) Load(ctx context.Context, key string) (*Workflow, error) {
	var raw []byte
	var updated time.Time
	err := s.pool.QueryRow(ctx,
		"SELECT payload, updated_at FROM billing_workflows WHERE key = $1", key,
	).Scan(&raw, &updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load workflow %s: %w", key, err)
	}
	if expired(updated, s.ttl, time.Now()) {
		_ = s.Clear(ctx, key)
		return nil, ErrNotFound
	}
	var w Workflow
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decode workflow %s: %w", key, err)
	}
	return &w, nil
}

func (s *PostgresStore) Save(ctx context.Context, key string, w *Workflow) error {
	w.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(w)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO billing_workflows (key, payload, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		key, raw, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save workflow %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM billing_workflows WHERE key = $1", key); err != nil {
		return fmt.Errorf("clear workflow %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
