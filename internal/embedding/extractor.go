// Package embedding turns an image into the identity embedding of its primary
// face.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/domain"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/imaging"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/provider"
)

// Analysis carries the intermediate products of an extraction so callers can
// reuse the decoded image and the detection without running them twice
type Analysis struct {
	Image    image.Image
	Faces    []provider.DetectedFace
	Selected int
	Result   *domain.EmbeddingResult
}

type Extractor struct {
	detector provider.Detector
	logger   *slog.Logger
}

func NewExtractor(detector provider.Detector, logger *slog.Logger) *Extractor {
	return &Extractor{
		detector: detector,
		logger:   logger,
	}
}

// Extract returns the embedding of the largest face in the image
func (e *Extractor) Extract(ctx context.Context, data []byte) (*domain.EmbeddingResult, error) {
	a, err := e.Analyze(ctx, data)
	if err != nil {
		return nil, err
	}
	return a.Result, nil
}

// Analyze decodes the image, runs detection once and selects the primary face
func (e *Extractor) Analyze(ctx context.Context, data []byte) (*Analysis, error) {
	img, _, err := imaging.Decode(data)
	if err != nil {
		return nil, domain.ErrImageUnreadable.WithError(err)
	}

	faces, err := e.detector.Detect(ctx, data)
	if err != nil {
		return nil, DetectorError(ctx, err)
	}

	if len(faces) == 0 {
		return nil, domain.ErrNoFaceDetected
	}

	idx := SelectLargest(faces)
	face := faces[idx]

	if len(face.Embedding) == 0 {
		return nil, domain.ErrEmbeddingUnsupported
	}

	if len(faces) > 1 {
		e.logger.DebugContext(ctx, "multiple faces detected, using largest",
			slog.Int("num_faces", len(faces)),
			slog.Int("selected", idx),
		)
	}

	return &Analysis{
		Image:    img,
		Faces:    faces,
		Selected: idx,
		Result: &domain.EmbeddingResult{
			Embedding:           face.Embedding,
			BoundingBox:         face.BoundingBox.Array(),
			DetectionConfidence: face.Confidence,
			FaceCount:           len(faces),
		},
	}, nil
}

// DetectorError maps a provider failure to the domain taxonomy. Context
// cancellation passes through unchanged.
func DetectorError(ctx context.Context, err error) error {
	switch {
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		return err
	case errors.Is(err, provider.ErrInvalidImage):
		return domain.ErrImageUnreadable.WithError(err)
	case errors.Is(err, provider.ErrUnavailable):
		return domain.ErrDetectorUnavailable.WithError(err)
	default:
		return domain.ErrDetectorUnavailable.WithError(fmt.Errorf("detect faces: %w", err))
	}
}
