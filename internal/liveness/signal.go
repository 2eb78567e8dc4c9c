package liveness

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/domain"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/imaging"
)

// neutral is the fallback score of a signal that has no evidence either way
const neutral = 0.5

// Signal is one liveness heuristic. When Score returns an error, the returned
// score is the signal's documented fallback.
type Signal interface {
	Name() string
	Score(ctx context.Context, f *Frame) (float64, error)
}

// EyeBlink is a single-frame proxy for blink detection: the detection
// confidence of the first face. Printed and replayed faces tend to detect
// with lower confidence.
type EyeBlink struct{}

func (EyeBlink) Name() string { return domain.SignalEyeBlink }

func (EyeBlink) Score(ctx context.Context, f *Frame) (float64, error) {
	faces, err := f.Faces(ctx)
	if err != nil {
		return neutral, fmt.Errorf("detect faces: %w", err)
	}
	if len(faces) == 0 {
		return 0, nil
	}
	return clamp01(faces[0].Confidence), nil
}

// MicroExpression uses the spread of the first face's landmark coordinates.
// It scores neutral without failing when the detection carries no landmarks.
type MicroExpression struct {
	Norm float64
}

func (MicroExpression) Name() string { return domain.SignalExpression }

func (s MicroExpression) Score(ctx context.Context, f *Frame) (float64, error) {
	faces, err := f.Faces(ctx)
	if err != nil {
		return neutral, fmt.Errorf("detect faces: %w", err)
	}
	if len(faces) == 0 {
		return 0, nil
	}

	// Detectors without a landmark model give no evidence either way
	landmarks := faces[0].Landmarks
	if len(landmarks) == 0 {
		return neutral, nil
	}

	coords := make([]float64, 0, 2*len(landmarks))
	for _, p := range landmarks {
		coords = append(coords, p.X, p.Y)
	}

	return clamp01(stat.PopStdDev(coords, nil) / s.Norm), nil
}

// Texture scores sharpness as the variance of the Laplacian
type Texture struct {
	Norm float64
}

func (Texture) Name() string { return domain.SignalTexture }

func (s Texture) Score(_ context.Context, f *Frame) (float64, error) {
	return clamp01(imaging.LaplacianVariance(f.Gray()) / s.Norm), nil
}

// Frequency penalizes energy concentrated in few spectral peaks, as produced
// by screen pixel grids and halftone printing
type Frequency struct{}

func (Frequency) Name() string { return domain.SignalFrequency }

func (Frequency) Score(_ context.Context, f *Frame) (float64, error) {
	maxVal, mean := imaging.MagnitudeSpectrum(f.Gray()).MaxMean()
	if maxVal == 0 {
		return neutral, nil
	}

	concentration := (maxVal - mean) / (maxVal + mean + 1e-6)
	return clamp01(1 - min(concentration, 1)), nil
}

// Color measures how much of the a* chrominance falls into the skin band
type Color struct {
	BandLow  int
	BandHigh int
}

func (Color) Name() string { return domain.SignalColor }

func (s Color) Score(_ context.Context, f *Frame) (float64, error) {
	hist := imaging.AChannelHistogram(f.Image)
	return clamp01(imaging.BandFraction(hist, s.BandLow, s.BandHigh)), nil
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
