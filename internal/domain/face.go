package domain

import (
	"time"

	"github.com/google/uuid"
)

// Signal names reported in LivenessReport.SignalScores
const (
	SignalEyeBlink   = "eye_blink"
	SignalTexture    = "texture"
	SignalFrequency  = "frequency"
	SignalColor      = "color"
	SignalExpression = "expression"
)

// ValidThreshold reports whether t lies within [0, 1]. NaN is rejected.
func ValidThreshold(t float64) bool {
	return t >= 0 && t <= 1
}

// EmbeddingResult is the outcome of a successful embedding extraction
type EmbeddingResult struct {
	Embedding           []float64  `json:"embedding"`
	BoundingBox         [4]float64 `json:"bbox"` // x1, y1, x2, y2 in pixels
	DetectionConfidence float64    `json:"det_score"`
	FaceCount           int        `json:"num_faces"`
}

// Enrollment is the embedding captured for a user at registration time
type Enrollment struct {
	ID                  uuid.UUID `json:"id"`
	UserID              string    `json:"user_id"`
	Embedding           []float64 `json:"-"`
	DetectionConfidence float64   `json:"detection_confidence"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// MatchResult is the verdict of a 1:1 embedding comparison
type MatchResult struct {
	Similarity float64 `json:"similarity"`
	Accepted   bool    `json:"accepted"`
}

// IdentifyMatch is the best 1:N candidate for a probe embedding
type IdentifyMatch struct {
	UserID     string  `json:"user_id"`
	Similarity float64 `json:"similarity"`
}

// LivenessReport is the fused outcome of all liveness signals
type LivenessReport struct {
	OverallScore float64            `json:"liveness_score"`
	IsLive       bool               `json:"is_live"`
	Confidence   float64            `json:"confidence"`
	SignalScores map[string]float64 `json:"signal_scores"`
	// Failed lists the signals whose score is a fallback rather than a measurement
	Failed []string `json:"failed_signals,omitempty"`
}

// Authentication is the combined identity and liveness verdict for one attempt
type Authentication struct {
	ID            uuid.UUID       `json:"id"`
	UserID        string          `json:"user_id"`
	Authenticated bool            `json:"authenticated"`
	Match         MatchResult     `json:"match"`
	Liveness      *LivenessReport `json:"liveness"`
	FaceCount     int             `json:"num_faces"`
	LatencyMs     int64           `json:"latency_ms"`
	CreatedAt     time.Time       `json:"created_at"`
}

// LivenessVerification is a liveness report checked against a caller threshold
type LivenessVerification struct {
	LivenessReport
	Threshold float64 `json:"threshold"`
	Verified  bool    `json:"verified"`
}
