//go:build integration

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/database"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/domain"
)

func setupIntegrationTest(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
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
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("postgres://test:test@%s:%s/facecheck_test?sslmode=disable", host, port.Port())

	db, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	// Schema comes from the embedded migrations
	require.NoError(t, database.Migrate(db))

	cleanup := func() {
		db.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return db, cleanup
}

func TestEnrollmentRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewEnrollmentRepository(db)

	fixtures := map[string][]float64{
		"user-identical":    {1, 0, 0},
		"user-very-similar": {0.95, 0.05, 0},
		"user-different":    {0, 1, 0},
		"user-opposite":     {-1, 0, 0},
	}
	for userID, embedding := range fixtures {
		err := repo.Create(ctx, &domain.Enrollment{UserID: userID, Embedding: embedding, DetectionConfidence: 0.9})
		require.NoError(t, err, "failed to insert enrollment: %s", userID)
	}

	t.Run("duplicate user is rejected", func(t *testing.T) {
		err := repo.Create(ctx, &domain.Enrollment{UserID: "user-identical", Embedding: []float64{0, 0, 1}})
		assert.ErrorIs(t, err, domain.ErrEnrollmentExists)
	})

	t.Run("search orders by cosine distance", func(t *testing.T) {
		matches, err := repo.SearchByEmbedding(ctx, []float64{1, 0, 0}, 3)
		require.NoError(t, err)
		require.Len(t, matches, 3)

		assert.Equal(t, "user-identical", matches[0].UserID)
		assert.Equal(t, "user-very-similar", matches[1].UserID)
		assert.Equal(t, "user-different", matches[2].UserID)
		assert.Len(t, matches[0].Embedding, 3)
	})

	t.Run("search skips other dimensionalities", func(t *testing.T) {
		matches, err := repo.SearchByEmbedding(ctx, []float64{1, 0}, 10)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("update replaces embedding", func(t *testing.T) {
		e := &domain.Enrollment{UserID: "user-opposite", Embedding: []float64{0, 0, 1}, DetectionConfidence: 0.5}
		require.NoError(t, repo.Update(ctx, e))

		got, err := repo.GetByUserID(ctx, "user-opposite")
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0, 0, 1}, got.Embedding, 1e-6)
		assert.Equal(t, 0.5, got.DetectionConfidence)
	})

	t.Run("list pages through enrollments", func(t *testing.T) {
		first, err := repo.List(ctx, 2, 0)
		require.NoError(t, err)
		rest, err := repo.List(ctx, 10, 2)
		require.NoError(t, err)
		assert.Len(t, first, 2)
		assert.Len(t, rest, 2)
	})

	t.Run("delete then lookup", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "user-different"))

		_, err := repo.GetByUserID(ctx, "user-different")
		assert.ErrorIs(t, err, domain.ErrEnrollmentNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "user-different"), domain.ErrEnrollmentNotFound)
	})

	t.Run("attempts are recorded", func(t *testing.T) {
		attempts := NewAttemptRepository(db)
		a := &domain.Authentication{
			UserID:        "user-identical",
			Authenticated: true,
			Match:         domain.MatchResult{Similarity: 0.99, Accepted: true},
			Liveness:      &domain.LivenessReport{OverallScore: 0.7, IsLive: true},
			FaceCount:     1,
			LatencyMs:     12,
		}
		require.NoError(t, attempts.Create(ctx, a))

		got, err := attempts.ListByUserID(ctx, "user-identical", 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, a.ID, got[0].ID)
		assert.True(t, got[0].Authenticated)
	})
}
