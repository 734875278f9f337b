// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/usergroups/internal/database"
)

// PostgresURLEnv names the variable holding the integration database URL.
const PostgresURLEnv = "USERGROUPS_INTEGRATION_POSTGRES_URL"

// MustResolveTestPostgres migrates the database named by PostgresURLEnv,
// empties every table and returns a pool closed at the end of the test.
// The test is skipped when the variable is unset.
func MustResolveTestPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv(PostgresURLEnv)
	if url == "" {
		t.Skipf("%s not set", PostgresURLEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, url)
	require.NoError(t, err, "connecting to test postgres")
	defer conn.Close(ctx)

	logger := zerolog.Nop()
	require.NoError(t, database.MigrateConn(ctx, &logger, conn), "migrating test postgres")

	_, err = conn.Exec(ctx, `TRUNCATE user_groups, groups, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "truncating test postgres")

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err, "opening test postgres pool")
	t.Cleanup(pool.Close)

	return pool
}
