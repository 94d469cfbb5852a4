// Package postgres implements the repository interfaces on PostgreSQL using a
// pgx connection pool. Selected when DATABASE_URL is a postgres:// or
// postgresql:// URL.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sakif/fitness-tracker/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// Store owns the pgx pool and hands out the per-entity repositories.
type Store struct {
	pool  *pgxpool.Pool
	users *UserStore
	meals *MealStore
}

// New connects to databaseURL and runs migrations.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping database: %w", err)
	}

	s := &Store{
		pool:  pool,
		users: &UserStore{pool: pool},
		meals: &MealStore{pool: pool},
	}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Users() repository.UserRepository { return s.users }
func (s *Store) Meals() repository.MealRepository { return s.meals }

// Close releases database resources.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			seq BIGSERIAL,
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL DEFAULT '',
			age INTEGER NOT NULL DEFAULT 0,
			weight DOUBLE PRECISION NOT NULL DEFAULT 0,
			height DOUBLE PRECISION NOT NULL DEFAULT 0,
			gender TEXT NOT NULL DEFAULT '',
			bmi DOUBLE PRECISION NOT NULL DEFAULT 0,
			bmr DOUBLE PRECISION NOT NULL DEFAULT 0,
			tdee DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS users_email_idx ON users (email);`,
		`CREATE TABLE IF NOT EXISTS exercises (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT UNIQUE NOT NULL,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			calories INTEGER NOT NULL,
			duration INTEGER NOT NULL,
			date_time TIMESTAMPTZ NOT NULL,
			steps INTEGER NOT NULL DEFAULT 0,
			distance DOUBLE PRECISION NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS exercises_user_id_idx ON exercises (user_id);`,
		`CREATE TABLE IF NOT EXISTS meals (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			calories DOUBLE PRECISION NOT NULL,
			protein DOUBLE PRECISION NOT NULL,
			fat DOUBLE PRECISION NOT NULL,
			category TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: apply migrations: %w", err)
		}
	}
	return nil
}
