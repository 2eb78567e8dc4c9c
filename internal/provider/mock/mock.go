package mock

import (
	"context"
	"crypto/sha256"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/imaging"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/provider"
)

const embeddingDimension = 512

// Provider implements provider.Detector for tests and development.
// Results are deterministic: the embedding is derived from the image hash and
// the face fills the central 80% of the frame.
type Provider struct {
	faceCount  int
	confidence float64
}

type Option func(*Provider)

// WithFaceCount makes Detect report n faces, each smaller than the last
func WithFaceCount(n int) Option {
	return func(p *Provider) { p.faceCount = n }
}

// WithConfidence sets the detection confidence of every face
func WithConfidence(c float64) Option {
	return func(p *Provider) { p.confidence = c }
}

func New(opts ...Option) *Provider {
	p := &Provider{faceCount: 1, confidence: 0.99}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Detect simulates face detection
func (p *Provider) Detect(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg, _, err := imaging.DecodeConfig(image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrInvalidImage, err)
	}

	embedding := generateEmbedding(image)
	w, h := float64(cfg.Width), float64(cfg.Height)

	faces := make([]provider.DetectedFace, 0, p.faceCount)
	for i := 0; i < p.faceCount; i++ {
		// each extra face is inset further
		inset := 0.1 + 0.1*float64(i)
		if inset >= 0.5 {
			inset = 0.45
		}
		box := provider.BoundingBox{
			X1: w * inset,
			Y1: h * inset,
			X2: w * (1 - inset),
			Y2: h * (1 - inset),
		}

		faces = append(faces, provider.DetectedFace{
			BoundingBox: box,
			Confidence:  p.confidence,
			Embedding:   embedding,
			Landmarks:   fivePoints(box),
		})
	}

	return faces, nil
}

// fivePoints places eyes, nose and mouth corners at typical positions inside box
func fivePoints(b provider.BoundingBox) []provider.Point {
	w, h := b.X2-b.X1, b.Y2-b.Y1
	at := func(fx, fy float64) provider.Point {
		return provider.Point{X: b.X1 + fx*w, Y: b.Y1 + fy*h}
	}
	return []provider.Point{
		at(0.30, 0.38), // left eye
		at(0.70, 0.38), // right eye
		at(0.50, 0.55), // nose
		at(0.35, 0.75), // mouth left
		at(0.65, 0.75), // mouth right
	}
}

// generateEmbedding derives a unit-length embedding from the image hash
func generateEmbedding(image []byte) []float64 {
	hash := sha256.Sum256(image)
	embedding := make([]float64, embeddingDimension)

	for i := range embedding {
		embedding[i] = (float64(hash[i%len(hash)])/255.0)*2 - 1
	}

	if n := floats.Norm(embedding, 2); n > 0 {
		floats.Scale(1/n, embedding)
	}
	return embedding
}

var _ provider.Detector = (*Provider)(nil)
