//go:build integration

package database_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/database"
)

func startPostgres(t *testing.T) string {
	t.Helper()

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "pgvector/pgvector:pg16",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "facecheck_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://test:test@%s:%s/facecheck_test?sslmode=disable", host, port.Port())
}

// TestMigratorIntegration tests the migration functionality
func TestMigratorIntegration(t *testing.T) {
	dsn := startPostgres(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, database.DefaultPoolConfig(dsn))
	require.NoError(t, err)
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer func() { _ = db.Close() }()

	t.Run("Up runs migrations successfully", func(t *testing.T) {
		migrator, err := database.NewMigrator(pool)
		require.NoError(t, err)

		defer func() { _ = migrator.Close() }()

		require.NoError(t, migrator.Up())
		// Second run is a no-op
		require.NoError(t, migrator.Up())

		assertTableExists(t, db, "enrollments")
		assertTableExists(t, db, "authentication_attempts")
	})

	t.Run("Version returns current version", func(t *testing.T) {
		migrator, err := database.NewMigrator(pool)
		require.NoError(t, err)
		defer func() { _ = migrator.Close() }()

		version, dirty, err := migrator.Version()
		require.NoError(t, err)
		assert.False(t, dirty, "migration should not be dirty")
		assert.Equal(t, uint(2), version)
	})

	t.Run("enrollments table has correct columns", func(t *testing.T) {
		columns := getTableColumns(t, db, "enrollments")
		for _, col := range []string{"id", "user_id", "embedding", "detection_confidence", "created_at", "updated_at"} {
			assert.Contains(t, columns, col, "enrollments should have column %s", col)
		}
	})

	t.Run("user_id is unique", func(t *testing.T) {
		insert := `INSERT INTO enrollments (id, user_id, embedding) VALUES (gen_random_uuid(), $1, '[1,0,0]')`

		_, err := db.Exec(insert, "alice")
		require.NoError(t, err)
		_, err = db.Exec(insert, "alice")
		assert.Error(t, err)
	})

	t.Run("Down rolls back one step", func(t *testing.T) {
		migrator, err := database.NewMigrator(pool)
		require.NoError(t, err)

		defer func() { _ = migrator.Close() }()

		require.NoError(t, migrator.Down())

		version, _, err := migrator.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(1), version)
	})

	t.Run("Migrate restores the latest version", func(t *testing.T) {
		require.NoError(t, database.Migrate(pool))

		migrator, err := database.NewMigrator(pool)
		require.NoError(t, err)
		defer func() { _ = migrator.Close() }()

		version, _, err := migrator.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(2), version)
	})

	t.Run("HealthCheck succeeds on a live pool", func(t *testing.T) {
		assert.NoError(t, database.HealthCheck(context.Background(), pool))
	})
}

func assertTableExists(t *testing.T, db *sql.DB, tableName string) {
	t.Helper()

	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`, tableName).Scan(&exists)

	require.NoError(t, err)
	assert.True(t, exists, "table %s should exist", tableName)
}

func getTableColumns(t *testing.T, db *sql.DB, tableName string) []string {
	t.Helper()

	rows, err := db.Query(`
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = 'public'
		AND table_name = $1
		ORDER BY ordinal_position
	`, tableName)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var columns []string
	for rows.Next() {
		var col string
		require.NoError(t, rows.Scan(&col))
		columns = append(columns, col)
	}

	return columns
}
