package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig defines connection pool settings
type PoolConfig struct {
	DSN               string
	MaxConns          int32         // Max open connections
	MinConns          int32         // Connections kept warm
	MaxConnLifetime   time.Duration // Max connection lifetime
	MaxConnIdleTime   time.Duration // Max idle time before close
	HealthCheckPeriod time.Duration
}

// DefaultPoolConfig returns pool settings sized for embedding lookups
func DefaultPoolConfig(dsn string) PoolConfig {
	return PoolConfig{
		DSN:               dsn,
		MaxConns:          25,
		MinConns:          2,
		MaxConnLifetime:   30 * time.Minute, // Rotate connections
		MaxConnIdleTime:   5 * time.Minute,  // Close idle quickly
		HealthCheckPeriod: time.Minute,
	}
}

// NewPool creates a configured connection pool and verifies it
func NewPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Verify connection
	if err := HealthCheck(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// Pinger is satisfied by *pgxpool.Pool and pgxmock pools
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck verifies database connectivity
func HealthCheck(ctx context.Context, db Pinger) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("database unhealthy: %w", err)
	}

	return nil
}
