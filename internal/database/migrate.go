package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrator applies the embedded schema migrations (enrollments and
// authentication attempts) to the pool's database
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator opens a database/sql handle on pool for golang-migrate.
// The handle is released by Close; the pool itself stays open.
func NewMigrator(pool *pgxpool.Pool) (*Migrator, error) {
	dbName := pool.Config().ConnConfig.Database

	driver, err := postgres.WithInstance(stdlib.OpenDBFromPool(pool), &postgres.Config{
		DatabaseName: dbName,
	})
	if err != nil {
		return nil, fmt.Errorf("create postgres driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, dbName, driver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}

	return &Migrator{m: m}, nil
}

// Migrate brings the schema up to date and releases the migrator
func Migrate(pool *pgxpool.Pool) error {
	m, err := NewMigrator(pool)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if err := m.Close(); err != nil && upErr == nil {
		return err
	}
	return upErr
}

// Up applies pending migrations. An up-to-date schema is not an error.
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Down reverts the most recent migration
func (m *Migrator) Down() error {
	if err := m.m.Steps(-1); err != nil {
		return fmt.Errorf("revert migration: %w", err)
	}
	return nil
}

// Version reports the applied version; 0 means no migration has run
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, false, nil
	case err != nil:
		return 0, false, fmt.Errorf("read version: %w", err)
	}
	return version, dirty, nil
}

// Force records version as applied without running anything. Used to
// recover from a dirty state after a failed migration.
func (m *Migrator) Force(version int) error {
	if err := m.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}
