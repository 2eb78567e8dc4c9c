package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/domain"
)

const enrollmentColumns = `id, user_id, embedding, detection_confidence, created_at, updated_at`

type EnrollmentRepository struct {
	pool PgxPool
}

func NewEnrollmentRepository(pool PgxPool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

func (r *EnrollmentRepository) Create(ctx context.Context, e *domain.Enrollment) error {
	query := `
		INSERT INTO enrollments (id, user_id, embedding, detection_confidence, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		e.ID,
		e.UserID,
		toVector(e.Embedding),
		e.DetectionConfidence,
	).Scan(&e.CreatedAt, &e.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEnrollmentExists
		}
		return fmt.Errorf("create enrollment: %w", err)
	}

	return nil
}

func (r *EnrollmentRepository) GetByUserID(ctx context.Context, userID string) (*domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE user_id = $1`

	e, err := scanEnrollment(r.pool.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEnrollmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get enrollment by user_id: %w", err)
	}

	return e, nil
}

// Update replaces the embedding of an existing enrollment
func (r *EnrollmentRepository) Update(ctx context.Context, e *domain.Enrollment) error {
	query := `
		UPDATE enrollments
		SET embedding = $2, detection_confidence = $3, updated_at = NOW()
		WHERE user_id = $1
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		e.UserID,
		toVector(e.Embedding),
		e.DetectionConfidence,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrEnrollmentNotFound
	}
	if err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}

	return nil
}

func (r *EnrollmentRepository) Delete(ctx context.Context, userID string) error {
	query := `DELETE FROM enrollments WHERE user_id = $1`

	result, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrEnrollmentNotFound
	}

	return nil
}

// SearchByEmbedding returns the enrollments nearest to embedding by cosine
// distance. It is a prefilter: callers rank and threshold the candidates.
func (r *EnrollmentRepository) SearchByEmbedding(ctx context.Context, embedding []float64, limit int) ([]domain.Enrollment, error) {
	// <=> is the cosine distance operator in pgvector
	query := `
		SELECT ` + enrollmentColumns + `
		FROM enrollments
		WHERE vector_dims(embedding) = $2
		ORDER BY embedding <=> $1
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, toVector(embedding), len(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("search enrollments: %w", err)
	}
	defer rows.Close()

	return collectEnrollments(rows, "search enrollments")
}

func (r *EnrollmentRepository) List(ctx context.Context, limit, offset int) ([]domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments ORDER BY created_at, user_id LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	return collectEnrollments(rows, "list enrollments")
}

func scanEnrollment(row pgx.Row) (*domain.Enrollment, error) {
	var e domain.Enrollment
	var embedding *pgvector.Vector

	if err := row.Scan(
		&e.ID,
		&e.UserID,
		&embedding,
		&e.DetectionConfidence,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	e.Embedding = fromVector(embedding)
	return &e, nil
}

func collectEnrollments(rows pgx.Rows, op string) ([]domain.Enrollment, error) {
	enrollments := make([]domain.Enrollment, 0)
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		enrollments = append(enrollments, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return enrollments, nil
}
