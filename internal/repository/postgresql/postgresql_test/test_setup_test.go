package postgresql_test

import (
	"context"
	"os"
	"testing"

	"github.com/cmlabs-hris/dtr-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/dtr-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// newTestDatabase connects to TEST_DATABASE_URL, applies the schema and
// empties the tables. The test is skipped when the variable is unset.
func newTestDatabase(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 5})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, postgresql.Migrate(ctx, db))
	truncateAll(t, db)
	t.Cleanup(func() { truncateAll(t, db) })

	return db
}

func truncateAll(t *testing.T, db *database.DB) {
	t.Helper()
	_, err := db.Exec(context.Background(), "TRUNCATE TABLE attendance_days, users CASCADE")
	require.NoError(t, err)
}
