package service

import (
	"context"
	"log/slog"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/domain"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/embedding"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/liveness"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/matcher"
)

// FaceService serves the stateless operations: extraction, liveness and
// embedding comparison. It needs no database.
type FaceService struct {
	extractor         *embedding.Extractor
	scorer            *liveness.Scorer
	matcher           *matcher.Matcher
	livenessThreshold float64
	logger            *slog.Logger
}

func NewFaceService(
	extractor *embedding.Extractor,
	scorer *liveness.Scorer,
	m *matcher.Matcher,
	livenessThreshold float64,
	logger *slog.Logger,
) *FaceService {
	return &FaceService{
		extractor:         extractor,
		scorer:            scorer,
		matcher:           m,
		livenessThreshold: livenessThreshold,
		logger:            logger,
	}
}

// LivenessThreshold is the default applied when a caller gives none
func (s *FaceService) LivenessThreshold() float64 {
	return s.livenessThreshold
}

func (s *FaceService) Extract(ctx context.Context, imageBytes []byte) (*domain.EmbeddingResult, error) {
	return s.extractor.Extract(ctx, imageBytes)
}

// CheckLiveness scores the image and checks it against threshold.
// A nil threshold uses the configured default.
func (s *FaceService) CheckLiveness(ctx context.Context, imageBytes []byte, threshold *float64) (*domain.LivenessVerification, error) {
	t := s.livenessThreshold
	if threshold != nil {
		t = *threshold
	}
	if !domain.ValidThreshold(t) {
		return nil, domain.ErrInvalidThreshold
	}

	return s.scorer.Verify(ctx, imageBytes, t)
}

func (s *FaceService) Compare(e1, e2 []float64) (domain.MatchResult, error) {
	return s.matcher.Compare(e1, e2)
}
