//go:build adapters_postgres

// Package postgres provides a cache.Store backed by Postgres, for a response
// cache that survives restarts.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lenagent/go-lenagent/cache"
)

type Store struct {
	conn  *pgx.Conn
	table string
}

// Expect table schema similar to:
// CREATE TABLE IF NOT EXISTS responses (
//   request text PRIMARY KEY,
//   response text NOT NULL,
//   created_at timestamptz NOT NULL DEFAULT now()
// );

func New(conn *pgx.Conn, table string) *Store {
	if table == "" {
		table = "responses"
	}
	return &Store{conn: conn, table: table}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	row := s.conn.QueryRow(ctx, fmt.Sprintf("SELECT response FROM %s WHERE request=$1", s.table), key)
	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value string) error {
	// Entries are insert-only in practice; the upsert keeps Set idempotent
	_, err := s.conn.Exec(ctx, fmt.Sprintf("INSERT INTO %s (request, response) VALUES ($1,$2) ON CONFLICT (request) DO UPDATE SET response=excluded.response", s.table), key, value)
	return err
}

func (s *Store) Len(ctx context.Context) (int, error) {
	row := s.conn.QueryRow(ctx, fmt.Sprintf("SELECT count(*) FROM %s", s.table))
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.conn.Query(ctx, fmt.Sprintf("SELECT request FROM %s", s.table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *Store) Clear(ctx context.Context) error {
	_, err := s.conn.Exec(ctx, fmt.Sprintf("DELETE FROM %s", s.table))
	return err
}

var _ cache.Store = (*Store)(nil)
