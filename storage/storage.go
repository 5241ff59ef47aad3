package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Storage runs parameterized statements against the relational store.
// Statements use named parameters (:id, :task) bound from Params.
type Storage struct {
	db *sqlx.DB
}

// Config configures the database connection pool.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Params binds named statement parameters.
type Params map[string]any

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, cfg Config) (*Storage, error) {
	db, err := sqlx.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Storage{db: db}, nil
}

// New wraps an existing connection.
func New(db *sql.DB) *Storage {
	return &Storage{db: sqlx.NewDb(db, "postgres")}
}

// Close closes the connection pool.
func (s *Storage) Close() error { return s.db.Close() }

// Ping checks that the database is reachable. It backs /healthz.
func (s *Storage) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// DB exposes the underlying handle for migrations.
func (s *Storage) DB() *sql.DB { return s.db.DB }

func (s *Storage) bind(query string, params Params) (string, []any, error) {
	if len(params) == 0 {
		return query, nil, nil
	}
	q, args, err := s.db.BindNamed(query, params)
	if err != nil {
		return "", nil, fmt.Errorf("bind %q: %w", query, err)
	}
	return q, args, nil
}

// Get fetches a single row into dest. It reports false when no row matched.
func (s *Storage) Get(ctx context.Context, dest any, query string, params Params) (bool, error) {
	q, args, err := s.bind(query, params)
	if err != nil {
		return false, err
	}
	if err := s.db.GetContext(ctx, dest, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Select fetches every row into dest, which must point to a slice.
func (s *Storage) Select(ctx context.Context, dest any, query string, params Params) error {
	q, args, err := s.bind(query, params)
	if err != nil {
		return err
	}
	return s.db.SelectContext(ctx, dest, q, args...)
}

// Exec runs a statement and returns the number of affected rows.
func (s *Storage) Exec(ctx context.Context, query string, params Params) (int64, error) {
	q, args, err := s.bind(query, params)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Insert runs an INSERT ... RETURNING id statement and returns the generated id.
func (s *Storage) Insert(ctx context.Context, query string, params Params) (int64, error) {
	var id int64
	ok, err := s.Get(ctx, &id, query, params)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errors.New("insert returned no id")
	}
	return id, nil
}
