// Package sqlite implements the repository interfaces on SQLite through the
// pure-Go modernc.org/sqlite driver (no CGo).
//
// It is the default backend: DATABASE_URL may be a file path such as
// "data/fitness.db", or ":memory:" for tests.
//
// SCHEMA:
// Exercises live in their own table keyed by user_id instead of inside the
// user row. Adding or removing one exercise is then a single INSERT or
// DELETE, never a read-modify-write of the whole user.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/sakif/fitness-tracker/internal/repository"
)

var _ repository.Store = (*DB)(nil)

// DB wraps a sql.DB connection pool and hands out the per-entity repositories.
type DB struct {
	conn  *sql.DB
	users *UserDB
	meals *MealDB
}

// connPragmas run on every pooled connection. busy_timeout comes first so
// that concurrent writers wait for the lock instead of failing with
// SQLITE_BUSY.
var connPragmas = []string{
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"journal_mode(WAL)",
}

// dsn appends connPragmas to dbPath as _pragma query parameters, which the
// modernc driver applies each time it opens a connection.
func dsn(dbPath string) string {
	params := make([]string, len(connPragmas))
	for i, p := range connPragmas {
		params[i] = "_pragma=" + p
	}
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + strings.Join(params, "&")
}

// New opens the database at dbPath and runs migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Every connection to ":memory:" is a separate empty database, so the
	// pool must never grow past one.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}
	db.users = &UserDB{conn: conn}
	db.meals = &MealDB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Users returns the user repository backed by this database.
func (db *DB) Users() repository.UserRepository {
	return db.users
}

// Meals returns the meal repository backed by this database.
func (db *DB) Meals() repository.MealRepository {
	return db.meals
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate is idempotent: every statement is CREATE … IF NOT EXISTS.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL DEFAULT '',
			email         TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL DEFAULT '',
			age           INTEGER NOT NULL DEFAULT 0,
			weight        REAL NOT NULL DEFAULT 0,
			height        REAL NOT NULL DEFAULT 0,
			gender        TEXT NOT NULL DEFAULT '',
			bmi           REAL NOT NULL DEFAULT 0,
			bmr           REAL NOT NULL DEFAULT 0,
			tdee          REAL NOT NULL DEFAULT 0,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// seq preserves insertion order; id is the public identifier.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS exercises (
			seq       INTEGER PRIMARY KEY AUTOINCREMENT,
			id        TEXT NOT NULL UNIQUE,
			user_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name      TEXT NOT NULL,
			calories  INTEGER NOT NULL,
			duration  INTEGER NOT NULL,
			date_time DATETIME NOT NULL,
			steps     INTEGER NOT NULL DEFAULT 0,
			distance  REAL NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_exercises_user_id ON exercises(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating exercises table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS meals (
			seq      INTEGER PRIMARY KEY AUTOINCREMENT,
			id       TEXT NOT NULL UNIQUE,
			name     TEXT NOT NULL,
			calories REAL NOT NULL,
			protein  REAL NOT NULL,
			fat      REAL NOT NULL,
			category TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating meals table: %w", err)
	}

	return nil
}
