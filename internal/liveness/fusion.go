package liveness

import (
	"fmt"
	"math"
	"strings"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/domain"
)

// FailurePolicy decides what a failed signal contributes to the fused score
type FailurePolicy string

const (
	// PolicyNeutral uses the signal's fallback score
	PolicyNeutral FailurePolicy = "neutral"
	// PolicyPropagate aborts the assessment on the first failed signal
	PolicyPropagate FailurePolicy = "propagate"
	// PolicyReweight drops failed signals and renormalizes the remaining weights
	PolicyReweight FailurePolicy = "reweight"
)

func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch p := FailurePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyNeutral, PolicyPropagate, PolicyReweight:
		return p, nil
	case "":
		return PolicyNeutral, nil
	default:
		return "", fmt.Errorf("unknown liveness failure policy %q", s)
	}
}

// Weights maps signal names to their share of the fused score
type Weights map[string]float64

// DefaultWeights returns eye-blink 0.25, texture 0.20, frequency 0.20,
// color 0.20 and micro-expression 0.15
func DefaultWeights() Weights {
	return Weights{
		domain.SignalEyeBlink:   0.25,
		domain.SignalTexture:    0.20,
		domain.SignalFrequency:  0.20,
		domain.SignalColor:      0.20,
		domain.SignalExpression: 0.15,
	}
}

// Validate checks that every weight is non-negative and that they sum to 1
func (w Weights) Validate() error {
	if len(w) == 0 {
		return fmt.Errorf("no liveness weights")
	}

	var sum float64
	for name, v := range w {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("liveness weight %s: invalid value %v", name, v)
		}
		sum += v
	}

	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("liveness weights sum to %v, want 1", sum)
	}
	return nil
}

// Fuse combines signal scores into a report. Scores and weights are matched
// by name; a signal without a weight does not contribute.
func Fuse(scores map[string]float64, weights Weights) *domain.LivenessReport {
	var overall float64
	clamped := make(map[string]float64, len(scores))

	for name, s := range scores {
		s = clamp01(s)
		clamped[name] = s
		overall += weights[name] * s
	}

	// map order changes the float summation; round off the last bits so
	// the verdict at exactly 0.5 is stable
	overall = math.Round(overall*1e12) / 1e12

	return report(clamp01(overall), clamped)
}

func report(overall float64, scores map[string]float64) *domain.LivenessReport {
	return &domain.LivenessReport{
		OverallScore: overall,
		IsLive:       overall > 0.5,
		Confidence:   math.Abs(overall-0.5) * 2,
		SignalScores: scores,
	}
}

// renormalize returns weights restricted to keep, scaled to sum to 1.
// ok is false when nothing with positive weight remains.
func (w Weights) renormalize(keep map[string]bool) (Weights, bool) {
	var sum float64
	for name := range keep {
		sum += w[name]
	}
	if sum <= 0 {
		return nil, false
	}

	out := make(Weights, len(keep))
	for name := range keep {
		out[name] = w[name] / sum
	}
	return out, true
}
