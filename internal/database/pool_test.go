package database

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectPing()

		assert.NoError(t, HealthCheck(context.Background(), mock))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unreachable", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		err = HealthCheck(context.Background(), mock)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database unhealthy")
	})
}

func TestDefaultPoolConfig(t *testing.T) {
	cfg := DefaultPoolConfig("postgres://localhost/facecheck")

	assert.Equal(t, "postgres://localhost/facecheck", cfg.DSN)
	assert.Greater(t, cfg.MaxConns, cfg.MinConns)
	assert.Positive(t, cfg.MaxConnLifetime)
}

func TestNewPool_InvalidDSN(t *testing.T) {
	_, err := NewPool(context.Background(), PoolConfig{DSN: "postgres://%zz"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse database url")
}
