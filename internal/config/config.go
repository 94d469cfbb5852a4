// Package config reads runtime configuration from the environment.
// cmd/server loads a .env file first, so either source works.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Backend identifies the storage implementation selected by DatabaseURL.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendMongo    Backend = "mongo"
)

const (
	defaultDatabasePath = "data/fitness.db"
	minJWTSecretLength  = 16
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	AppEnv        string
	Host          string
	Port          int
	DatabaseURL   string
	MongoDatabase string
	CORSOrigins   []string
	JWTSecret     string // empty disables login tokens
	JWTTTL        time.Duration
}

// Load reads configuration from the environment and validates it.
func Load() (Config, error) {
	cfg := Config{
		AppEnv:        fallback(os.Getenv("APP_ENV"), "development"),
		Host:          fallback(os.Getenv("HOST"), "0.0.0.0"),
		DatabaseURL:   fallback(os.Getenv("DATABASE_URL"), fallback(os.Getenv("MONGO_URI"), defaultDatabasePath)),
		MongoDatabase: fallback(os.Getenv("MONGO_DATABASE"), "fitness"),
		CORSOrigins:   parseCSV(fallback(os.Getenv("ALLOWED_ORIGINS"), "*")),
		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
	}

	port, err := strconv.Atoi(fallback(os.Getenv("PORT"), "3000"))
	if err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("config: invalid PORT %q", os.Getenv("PORT"))
	}
	cfg.Port = port

	ttl, err := ParseLifetime(fallback(os.Getenv("JWT_EXPIRATION"), "7d"))
	if err != nil {
		return Config{}, fmt.Errorf("config: JWT_EXPIRATION: %w", err)
	}
	cfg.JWTTTL = ttl

	if cfg.JWTSecret != "" && len(cfg.JWTSecret) < minJWTSecretLength {
		return Config{}, fmt.Errorf("config: JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// IsDevelopment reports whether debug logging should be enabled.
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

// Backend picks the storage implementation from the DatabaseURL scheme.
// Anything that is not a Postgres or Mongo URL is a SQLite path.
func (c Config) Backend() Backend {
	u := strings.ToLower(c.DatabaseURL)
	switch {
	case strings.HasPrefix(u, "mongodb://"), strings.HasPrefix(u, "mongodb+srv://"):
		return BackendMongo
	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		return BackendPostgres
	default:
		return BackendSQLite
	}
}

// ParseLifetime accepts a Go duration ("12h", "90m") or a whole number of
// days ("7d").
func ParseLifetime(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d <= 0 {
		return 0, errors.New("duration must be positive")
	}
	return d, nil
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
