package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/domain"
)

// PgxPool is the subset of *pgxpool.Pool the repositories use.
// pgxmock.PgxPoolIface satisfies it in tests.
type PgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// EnrollmentRepositoryInterface defines operations for enrollment data access
type EnrollmentRepositoryInterface interface {
	Create(ctx context.Context, e *domain.Enrollment) error
	GetByUserID(ctx context.Context, userID string) (*domain.Enrollment, error)
	Update(ctx context.Context, e *domain.Enrollment) error
	Delete(ctx context.Context, userID string) error
	SearchByEmbedding(ctx context.Context, embedding []float64, limit int) ([]domain.Enrollment, error)
	List(ctx context.Context, limit, offset int) ([]domain.Enrollment, error)
}

// AttemptRepositoryInterface defines operations for authentication attempt logging
type AttemptRepositoryInterface interface {
	Create(ctx context.Context, a *domain.Authentication) error
	ListByUserID(ctx context.Context, userID string, limit int) ([]domain.Authentication, error)
}
