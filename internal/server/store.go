package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sakif/fitness-tracker/internal/config"
	"github.com/sakif/fitness-tracker/internal/repository"
	"github.com/sakif/fitness-tracker/internal/repository/mongo"
	"github.com/sakif/fitness-tracker/internal/repository/postgres"
	sqliteRepo "github.com/sakif/fitness-tracker/internal/repository/sqlite"
)

// OpenStore connects to the backend named by cfg.DatabaseURL and runs its
// migrations. The caller owns the returned store and must Close it.
func OpenStore(ctx context.Context, cfg config.Config) (repository.Store, error) {
	// A failed open must return a nil interface, not a typed nil.
	switch cfg.Backend() {
	case config.BackendMongo:
		store, err := mongo.New(ctx, cfg.DatabaseURL, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.BackendPostgres:
		store, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil

	default:
		if cfg.DatabaseURL != ":memory:" {
			// Like `mkdir -p`: create the data directory if it is missing.
			dir := filepath.Dir(cfg.DatabaseURL)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
			}
		}
		store, err := sqliteRepo.New(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}
