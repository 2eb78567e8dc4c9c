package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/domain"
)

type AttemptRepository struct {
	pool PgxPool
}

func NewAttemptRepository(pool PgxPool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

func (r *AttemptRepository) Create(ctx context.Context, a *domain.Authentication) error {
	query := `
		INSERT INTO authentication_attempts (
			id, user_id, authenticated, similarity, match_accepted,
			liveness_score, is_live, face_count, latency_ms, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING created_at
	`

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	var livenessScore float64
	var isLive bool
	if a.Liveness != nil {
		livenessScore = a.Liveness.OverallScore
		isLive = a.Liveness.IsLive
	}

	err := r.pool.QueryRow(ctx, query,
		a.ID,
		a.UserID,
		a.Authenticated,
		a.Match.Similarity,
		a.Match.Accepted,
		livenessScore,
		isLive,
		a.FaceCount,
		a.LatencyMs,
	).Scan(&a.CreatedAt)

	if err != nil {
		return fmt.Errorf("create authentication attempt: %w", err)
	}

	return nil
}

// ListByUserID returns the most recent attempts for a user, newest first.
// Per-signal scores are not stored, so Liveness carries only the fused values.
func (r *AttemptRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]domain.Authentication, error) {
	query := `
		SELECT id, user_id, authenticated, similarity, match_accepted,
			liveness_score, is_live, face_count, latency_ms, created_at
		FROM authentication_attempts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list authentication attempts: %w", err)
	}
	defer rows.Close()

	attempts := make([]domain.Authentication, 0)
	for rows.Next() {
		var a domain.Authentication
		liveness := &domain.LivenessReport{}

		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.Authenticated,
			&a.Match.Similarity,
			&a.Match.Accepted,
			&liveness.OverallScore,
			&liveness.IsLive,
			&a.FaceCount,
			&a.LatencyMs,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("list authentication attempts: scan: %w", err)
		}

		a.Liveness = liveness
		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list authentication attempts: %w", err)
	}

	return attempts, nil
}
