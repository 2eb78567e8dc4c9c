// Package matcher compares face embeddings by cosine similarity.
package matcher

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/domain"
)

// DefaultThreshold is the 1:1 acceptance threshold used when none is configured
const DefaultThreshold = 0.6

// Candidate is an enrolled embedding considered during 1:N identification
type Candidate struct {
	UserID    string
	Embedding []float64
}

type Matcher struct {
	threshold float64
}

func New(threshold float64) (*Matcher, error) {
	if !domain.ValidThreshold(threshold) {
		return nil, domain.ErrInvalidThreshold
	}
	return &Matcher{threshold: threshold}, nil
}

func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Compare returns the cosine similarity of e1 and e2 and whether it reaches
// the acceptance threshold
func (m *Matcher) Compare(e1, e2 []float64) (domain.MatchResult, error) {
	sim, err := CosineSimilarity(e1, e2)
	if err != nil {
		return domain.MatchResult{}, err
	}

	return domain.MatchResult{
		Similarity: sim,
		Accepted:   sim >= m.threshold,
	}, nil
}

// BestMatch returns the candidate most similar to query whose similarity is
// strictly above threshold. Candidates that cannot be compared are skipped.
func (m *Matcher) BestMatch(query []float64, candidates []Candidate, threshold float64) (*domain.IdentifyMatch, error) {
	if !domain.ValidThreshold(threshold) {
		return nil, domain.ErrInvalidThreshold
	}
	if _, err := norm(query); err != nil {
		return nil, err
	}

	var best *domain.IdentifyMatch
	for _, c := range candidates {
		sim, err := CosineSimilarity(query, c.Embedding)
		if err != nil {
			continue
		}
		if sim <= threshold {
			continue
		}
		if best == nil || sim > best.Similarity {
			best = &domain.IdentifyMatch{UserID: c.UserID, Similarity: sim}
		}
	}

	if best == nil {
		return nil, domain.ErrNoMatch
	}
	return best, nil
}

// CosineSimilarity is dot(e1,e2) / (|e1|*|e2|), clamped to [-1, 1].
// Zero-norm or empty vectors are degenerate; lengths must agree.
func CosineSimilarity(e1, e2 []float64) (float64, error) {
	if len(e1) != len(e2) {
		return 0, domain.ErrDimensionMismatch.WithError(fmt.Errorf("%d != %d", len(e1), len(e2)))
	}

	n1, err := norm(e1)
	if err != nil {
		return 0, err
	}
	n2, err := norm(e2)
	if err != nil {
		return 0, err
	}

	sim := floats.Dot(e1, e2) / (n1 * n2)
	return math.Max(-1, math.Min(1, sim)), nil
}

func norm(v []float64) (float64, error) {
	if len(v) == 0 {
		return 0, domain.ErrDegenerateEmbedding.WithError(fmt.Errorf("empty vector"))
	}

	n := floats.Norm(v, 2)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, domain.ErrDegenerateEmbedding.WithError(fmt.Errorf("norm %v", n))
	}
	return n, nil
}

// ValidateEmbedding rejects vectors no comparison could use
func ValidateEmbedding(e []float64) error {
	_, err := norm(e)
	return err
}
