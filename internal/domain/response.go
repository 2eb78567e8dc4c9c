package domain

// EmbeddingResponse is the wire shape of a successful extraction, shared by
// the HTTP API and the CLI
type EmbeddingResponse struct {
	Success bool `json:"success"`
	*EmbeddingResult
}

// NewEmbeddingResponse wraps a successful extraction
func NewEmbeddingResponse(r *EmbeddingResult) EmbeddingResponse {
	return EmbeddingResponse{Success: true, EmbeddingResult: r}
}

// LivenessResponse is the wire shape of a liveness check
type LivenessResponse struct {
	Success       bool               `json:"success"`
	LivenessScore float64            `json:"liveness_score"`
	IsLive        bool               `json:"is_live"`
	Confidence    float64            `json:"confidence"`
	Details       map[string]float64 `json:"details"`
	FailedSignals []string           `json:"failed_signals,omitempty"`
	Threshold     float64            `json:"threshold"`
	Verified      bool               `json:"verified"`
}

// NewLivenessResponse renders signal scores under their *_score detail keys
func NewLivenessResponse(v *LivenessVerification) LivenessResponse {
	details := make(map[string]float64, len(v.SignalScores))
	for name, score := range v.SignalScores {
		details[name+"_score"] = score
	}

	return LivenessResponse{
		Success:       true,
		LivenessScore: v.OverallScore,
		IsLive:        v.IsLive,
		Confidence:    v.Confidence,
		Details:       details,
		FailedSignals: v.Failed,
		Threshold:     v.Threshold,
		Verified:      v.Verified,
	}
}
