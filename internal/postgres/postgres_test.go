package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://app:secret@db:5432/market?sslmode=disable",
		migrateURL("postgres://app:secret@db:5432/market?sslmode=disable"))
	assert.Equal(t, "pgx5://db/market", migrateURL("postgresql://db/market"))
	assert.Equal(t, "pgx5://db/market", migrateURL("pgx5://db/market"))
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationFS.ReadDir("migrations")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "0001_init.up.sql")
	assert.Contains(t, names, "0002_seed_games.up.sql")
}

func TestConnectAndMigrateIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping postgres integration test")
	}

	require.NoError(t, Migrate(dsn))
	require.NoError(t, Migrate(dsn), "second run must be a no-op")

	pool, err := Connect(context.Background(), dsn, PoolOptions{MaxConns: 2})
	require.NoError(t, err)
	defer pool.Close()

	var n int
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM games`).Scan(&n))
	assert.GreaterOrEqual(t, n, 8)
}
