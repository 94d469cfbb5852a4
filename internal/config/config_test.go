package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"APP_ENV", "HOST", "PORT", "DATABASE_URL", "MONGO_URI", "MONGO_DATABASE",
	"ALLOWED_ORIGINS", "JWT_SECRET", "JWT_EXPIRATION",
}

// clearEnv blanks every variable Load reads; t.Setenv restores them.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envVars {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "0.0.0.0:3000", cfg.HTTPAddress())
	assert.Equal(t, "data/fitness.db", cfg.DatabaseURL)
	assert.Equal(t, BackendSQLite, cfg.Backend())
	assert.Equal(t, "fitness", cfg.MongoDatabase)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "8081")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("ALLOWED_ORIGINS", "http://a.local, http://b.local ,")
	t.Setenv("JWT_SECRET", "a-long-enough-secret")
	t.Setenv("JWT_EXPIRATION", "12h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "127.0.0.1:8081", cfg.HTTPAddress())
	assert.Equal(t, BackendMongo, cfg.Backend())
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.CORSOrigins)
	assert.Equal(t, 12*time.Hour, cfg.JWTTTL)
}

func TestLoad_DatabaseURLWinsOverMongoURI(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/fit")
	t.Setenv("MONGO_URI", "mongodb://localhost")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.Backend())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"non-numeric port", "PORT", "abc"},
		{"port out of range", "PORT", "70000"},
		{"short secret", "JWT_SECRET", "short"},
		{"bad expiration", "JWT_EXPIRATION", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestBackend(t *testing.T) {
	tests := map[string]Backend{
		"mongodb+srv://cluster.example.net/db": BackendMongo,
		"MONGODB://localhost":                  BackendMongo,
		"postgresql://localhost/fit":           BackendPostgres,
		":memory:":                             BackendSQLite,
		"/var/lib/fitness.db":                  BackendSQLite,
	}
	for url, want := range tests {
		assert.Equal(t, want, Config{DatabaseURL: url}.Backend(), url)
	}
}

func TestParseLifetime(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"7d", 7 * 24 * time.Hour, false},
		{"1d", 24 * time.Hour, false},
		{"90m", 90 * time.Minute, false},
		{"0d", 0, true},
		{"-1h", 0, true},
		{"xd", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLifetime(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
