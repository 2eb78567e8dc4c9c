// Package liveness scores how likely an image shows a live person rather
// than a photo, screen or mask, by fusing several independent heuristics.
package liveness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/domain"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/imaging"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/provider"
)

type Config struct {
	Weights        Weights
	Policy         FailurePolicy
	TextureNorm    float64
	ExpressionNorm float64
	SkinBandLow    int
	SkinBandHigh   int
}

func DefaultConfig() Config {
	return Config{
		Weights:        DefaultWeights(),
		Policy:         PolicyNeutral,
		TextureNorm:    500,
		ExpressionNorm: 10,
		SkinBandLow:    100,
		SkinBandHigh:   135,
	}
}

func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if _, err := ParseFailurePolicy(string(c.Policy)); err != nil {
		return err
	}
	if !positiveFinite(c.TextureNorm) {
		return fmt.Errorf("texture normalizer must be positive, got %v", c.TextureNorm)
	}
	if !positiveFinite(c.ExpressionNorm) {
		return fmt.Errorf("expression normalizer must be positive, got %v", c.ExpressionNorm)
	}
	if c.SkinBandLow < 0 || c.SkinBandHigh > 256 || c.SkinBandLow >= c.SkinBandHigh {
		return fmt.Errorf("invalid skin band [%d, %d)", c.SkinBandLow, c.SkinBandHigh)
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

type Scorer struct {
	detector provider.Detector
	signals  []Signal
	weights  Weights
	policy   FailurePolicy
	logger   *slog.Logger
}

func NewScorer(detector provider.Detector, cfg Config, logger *slog.Logger) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("liveness config: %w", err)
	}

	policy, _ := ParseFailurePolicy(string(cfg.Policy))

	signals := []Signal{
		EyeBlink{},
		Texture{Norm: cfg.TextureNorm},
		Frequency{},
		Color{BandLow: cfg.SkinBandLow, BandHigh: cfg.SkinBandHigh},
		MicroExpression{Norm: cfg.ExpressionNorm},
	}

	for _, sig := range signals {
		if _, ok := cfg.Weights[sig.Name()]; !ok {
			return nil, fmt.Errorf("liveness config: missing weight for %s", sig.Name())
		}
	}
	if len(cfg.Weights) != len(signals) {
		return nil, fmt.Errorf("liveness config: expected %d weights, got %d", len(signals), len(cfg.Weights))
	}

	return &Scorer{
		detector: detector,
		signals:  signals,
		weights:  cfg.Weights,
		policy:   policy,
		logger:   logger,
	}, nil
}

func (s *Scorer) Policy() FailurePolicy {
	return s.policy
}

// Score decodes data and runs every signal. An unreadable image or a
// detector that cannot initialize fails the whole assessment; any other
// signal failure is handled by the configured policy.
func (s *Scorer) Score(ctx context.Context, data []byte) (*domain.LivenessReport, error) {
	img, _, err := imaging.Decode(data)
	if err != nil {
		return nil, domain.ErrImageUnreadable.WithError(err)
	}

	if err := provider.EnsureReady(ctx, s.detector); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domain.ErrDetectorUnavailable.WithError(err)
	}

	return s.Assess(ctx, NewFrame(img, data, s.detector))
}

// Verify scores data and checks the result against threshold
func (s *Scorer) Verify(ctx context.Context, data []byte, threshold float64) (*domain.LivenessVerification, error) {
	if !domain.ValidThreshold(threshold) {
		return nil, domain.ErrInvalidThreshold
	}

	report, err := s.Score(ctx, data)
	if err != nil {
		return nil, err
	}

	return &domain.LivenessVerification{
		LivenessReport: *report,
		Threshold:      threshold,
		Verified:       report.IsLive && report.OverallScore >= threshold,
	}, nil
}

type outcome struct {
	score float64
	err   error
}

// Assess runs all signals concurrently over f and fuses their scores
func (s *Scorer) Assess(ctx context.Context, f *Frame) (*domain.LivenessReport, error) {
	outcomes := make([]outcome, len(s.signals))

	g, gctx := errgroup.WithContext(ctx)
	for i, sig := range s.signals {
		g.Go(func() error {
			score, err := runSignal(gctx, sig, f)
			outcomes[i] = outcome{score: score, err: err}

			if err != nil && s.policy == PolicyPropagate {
				return domain.ErrSignalFailed.WithError(fmt.Errorf("%s: %w", sig.Name(), err))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scores := make(map[string]float64, len(s.signals))
	measured := make(map[string]bool, len(s.signals))
	var failed []string

	for i, sig := range s.signals {
		o := outcomes[i]
		scores[sig.Name()] = o.score
		if o.err == nil {
			measured[sig.Name()] = true
			continue
		}

		failed = append(failed, sig.Name())
		s.logger.WarnContext(ctx, "liveness signal failed",
			slog.String("signal", sig.Name()),
			slog.String("policy", string(s.policy)),
			slog.Float64("fallback", o.score),
			slog.Any("error", o.err),
		)
	}

	var rep *domain.LivenessReport
	if s.policy == PolicyReweight && len(failed) > 0 {
		weights, ok := s.weights.renormalize(measured)
		if !ok {
			return nil, domain.ErrSignalFailed.WithError(errors.New("no liveness signal could be measured"))
		}

		kept := make(map[string]float64, len(measured))
		for name := range measured {
			kept[name] = scores[name]
		}
		rep = Fuse(kept, weights)
		for _, name := range failed {
			rep.SignalScores[name] = clamp01(scores[name])
		}
	} else {
		rep = Fuse(scores, s.weights)
	}
	rep.Failed = failed

	s.logger.DebugContext(ctx, "liveness assessed",
		slog.Float64("score", rep.OverallScore),
		slog.Bool("is_live", rep.IsLive),
		slog.Int("failed", len(failed)),
	)

	return rep, nil
}

// runSignal absorbs panics from a signal into its neutral fallback
func runSignal(ctx context.Context, sig Signal, f *Frame) (score float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			score = neutral
			err = fmt.Errorf("signal panicked: %v", r)
		}
	}()
	return sig.Score(ctx, f)
}
