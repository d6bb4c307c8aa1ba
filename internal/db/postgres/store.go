// Package postgres implements the content store over PostgreSQL tables
// holding one JSONB document per entry.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kailas-cloud/contentdex/internal/db"
	"github.com/kailas-cloud/contentdex/internal/domain/record"
)

// Compile-time check: Store implements db.ContentStore.
var _ db.ContentStore = (*Store)(nil)

// Config holds connection parameters.
type Config struct {
	DSN      string
	MaxConns int32
}

// Store implements db.ContentStore via pgxpool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a connection pool. Connectivity is not checked here;
// use db.WaitForReady.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Find runs the query against the collection's table.
func (s *Store) Find(ctx context.Context, q *db.Query) ([]record.Record, error) {
	sql, args, err := Build(q)
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	defer rows.Close()

	var out []record.Record
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, &db.Error{Op: db.OpFind, Err: err}
		}
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, &db.Error{Op: db.OpFind, Err: fmt.Errorf("decode doc: %w", err)}
		}
		out = append(out, record.Record(doc))
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	return out, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the pool.
func (s *Store) Close() {
	s.pool.Close()
}
