package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/domain"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/liveness"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/matcher"
)

// identifyCandidates bounds the pgvector prefilter before exact ranking
const identifyCandidates = 10

type EnrollmentRepositoryInterface interface {
	Create(ctx context.Context, e *domain.Enrollment) error
	GetByUserID(ctx context.Context, userID string) (*domain.Enrollment, error)
	Update(ctx context.Context, e *domain.Enrollment) error
	Delete(ctx context.Context, userID string) error
	SearchByEmbedding(ctx context.Context, embedding []float64, limit int) ([]domain.Enrollment, error)
}

type AttemptRepositoryInterface interface {
	Create(ctx context.Context, a *domain.Authentication) error
}

// AuthService enrolls users and authenticates live captures against them
type AuthService struct {
	face              *FaceService
	enrollments       EnrollmentRepositoryInterface
	attempts          AttemptRepositoryInterface
	identifyThreshold float64
}

func NewAuthService(
	face *FaceService,
	enrollments EnrollmentRepositoryInterface,
	attempts AttemptRepositoryInterface,
) *AuthService {
	return &AuthService{
		face:              face,
		enrollments:       enrollments,
		attempts:          attempts,
		identifyThreshold: 0.5,
	}
}

func (s *AuthService) WithIdentifyThreshold(threshold float64) *AuthService {
	s.identifyThreshold = threshold
	return s
}

// Enroll stores the embedding of the largest face in the image for userID.
// An existing enrollment is only overwritten when replace is set.
func (s *AuthService) Enroll(ctx context.Context, userID string, imageBytes []byte, replace bool) (*domain.Enrollment, error) {
	if userID == "" {
		return nil, domain.ErrValidationFailed.WithError(fmt.Errorf("user_id is required"))
	}

	result, err := s.face.Extract(ctx, imageBytes)
	if err != nil {
		return nil, err
	}

	if err := matcher.ValidateEmbedding(result.Embedding); err != nil {
		return nil, err
	}

	enrollment := &domain.Enrollment{
		UserID:              userID,
		Embedding:           result.Embedding,
		DetectionConfidence: result.DetectionConfidence,
	}

	err = s.enrollments.Create(ctx, enrollment)
	if err == nil {
		return enrollment, nil
	}
	if !replace || !errors.Is(err, domain.ErrEnrollmentExists) {
		return nil, err
	}

	if err := s.enrollments.Update(ctx, enrollment); err != nil {
		return nil, err
	}

	s.face.logger.Info("enrollment replaced", slog.String("user_id", userID))
	return enrollment, nil
}

func (s *AuthService) Unenroll(ctx context.Context, userID string) error {
	if err := s.enrollments.Delete(ctx, userID); err != nil {
		return err
	}
	return nil
}

// Authenticate verifies that the image shows the enrolled userID and that
// the capture is live. Detection runs once and feeds both checks.
func (s *AuthService) Authenticate(ctx context.Context, userID string, imageBytes []byte) (*domain.Authentication, error) {
	start := time.Now()

	enrollment, err := s.enrollments.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	analysis, err := s.face.extractor.Analyze(ctx, imageBytes)
	if err != nil {
		return nil, err
	}

	match, err := s.face.matcher.Compare(enrollment.Embedding, analysis.Result.Embedding)
	if err != nil {
		return nil, err
	}

	report, err := s.face.scorer.Assess(ctx, liveness.NewDetectedFrame(analysis.Image, analysis.Faces))
	if err != nil {
		return nil, err
	}

	auth := &domain.Authentication{
		UserID: userID,
		Authenticated: match.Accepted &&
			report.IsLive &&
			report.OverallScore >= s.face.livenessThreshold,
		Match:     match,
		Liveness:  report,
		FaceCount: analysis.Result.FaceCount,
		LatencyMs: time.Since(start).Milliseconds(),
	}

	// The verdict stands even when the audit record cannot be written
	if err := s.attempts.Create(ctx, auth); err != nil {
		s.face.logger.Warn("failed to record authentication attempt",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}

	s.face.logger.Debug("authentication evaluated",
		slog.String("user_id", userID),
		slog.Bool("authenticated", auth.Authenticated),
		slog.Float64("similarity", match.Similarity),
		slog.Float64("liveness_score", report.OverallScore),
		slog.Int64("latency_ms", auth.LatencyMs),
	)

	return auth, nil
}

// Identify finds the enrolled user closest to the face in the image.
// excludeUserID, when set, is never returned.
func (s *AuthService) Identify(ctx context.Context, imageBytes []byte, excludeUserID string) (*domain.IdentifyMatch, error) {
	result, err := s.face.Extract(ctx, imageBytes)
	if err != nil {
		return nil, err
	}

	if err := matcher.ValidateEmbedding(result.Embedding); err != nil {
		return nil, err
	}

	nearest, err := s.enrollments.SearchByEmbedding(ctx, result.Embedding, identifyCandidates)
	if err != nil {
		return nil, fmt.Errorf("identify: %w", err)
	}

	candidates := make([]matcher.Candidate, 0, len(nearest))
	for _, e := range nearest {
		if excludeUserID != "" && e.UserID == excludeUserID {
			continue
		}
		candidates = append(candidates, matcher.Candidate{UserID: e.UserID, Embedding: e.Embedding})
	}

	return s.face.matcher.BestMatch(result.Embedding, candidates, s.identifyThreshold)
}
