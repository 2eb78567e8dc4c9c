package config

import (
	"fmt"
	"math"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/domain"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database. Optional: without it only stateless endpoints are served.
	DatabaseURL string `envconfig:"DATABASE_URL"`
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"false"`

	// Provider
	FaceProvider     string        `envconfig:"FACE_PROVIDER" default:"deepface"`
	DeepFaceURL      string        `envconfig:"DEEPFACE_URL" default:"http://localhost:5005"`
	DeepFaceModel    string        `envconfig:"DEEPFACE_MODEL" default:"ArcFace"`
	DeepFaceDetector string        `envconfig:"DEEPFACE_DETECTOR" default:"retinaface"`
	DeepFaceTimeout  time.Duration `envconfig:"DEEPFACE_TIMEOUT" default:"30s"`
	AWSRegion        string        `envconfig:"AWS_REGION" default:"us-east-1"`
	DlibModelDir     string        `envconfig:"DLIB_MODEL_DIR" default:"./models"`

	// Matching
	MatchThreshold    float64 `envconfig:"MATCH_THRESHOLD" default:"0.6"`
	IdentifyThreshold float64 `envconfig:"IDENTIFY_THRESHOLD" default:"0.5"`

	// Liveness
	LivenessThreshold      float64 `envconfig:"LIVENESS_THRESHOLD" default:"0.5"`
	LivenessFailurePolicy  string  `envconfig:"LIVENESS_FAILURE_POLICY" default:"neutral"`
	LivenessTextureNorm    float64 `envconfig:"LIVENESS_TEXTURE_NORM" default:"500"`
	LivenessExpressionNorm float64 `envconfig:"LIVENESS_EXPRESSION_NORM" default:"10"`
	LivenessSkinBandLow    int     `envconfig:"LIVENESS_SKIN_BAND_LOW" default:"100"`
	LivenessSkinBandHigh   int     `envconfig:"LIVENESS_SKIN_BAND_HIGH" default:"135"`
	// LivenessWeights replaces the default fusion weights, e.g.
	// "eye_blink:0.3,texture:0.2,frequency:0.2,color:0.2,expression:0.1".
	// Empty keeps the defaults.
	LivenessWeights map[string]float64 `envconfig:"LIVENESS_WEIGHTS"`

	// Rate limiting
	RateLimitMax    int           `envconfig:"RATE_LIMIT_MAX" default:"120"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges envconfig cannot express
func (c *Config) Validate() error {
	thresholds := map[string]float64{
		"MATCH_THRESHOLD":    c.MatchThreshold,
		"IDENTIFY_THRESHOLD": c.IdentifyThreshold,
		"LIVENESS_THRESHOLD": c.LivenessThreshold,
	}
	for name, v := range thresholds {
		if !domain.ValidThreshold(v) {
			return fmt.Errorf("%s must be within [0, 1], got %v", name, v)
		}
	}

	if !(c.LivenessTextureNorm > 0) || math.IsInf(c.LivenessTextureNorm, 1) {
		return fmt.Errorf("LIVENESS_TEXTURE_NORM must be positive, got %v", c.LivenessTextureNorm)
	}
	if !(c.LivenessExpressionNorm > 0) || math.IsInf(c.LivenessExpressionNorm, 1) {
		return fmt.Errorf("LIVENESS_EXPRESSION_NORM must be positive, got %v", c.LivenessExpressionNorm)
	}
	if c.LivenessSkinBandLow < 0 || c.LivenessSkinBandHigh > 256 || c.LivenessSkinBandLow >= c.LivenessSkinBandHigh {
		return fmt.Errorf("invalid skin band [%d, %d)", c.LivenessSkinBandLow, c.LivenessSkinBandHigh)
	}
	if c.RateLimitMax <= 0 || c.RateLimitWindow <= 0 {
		return fmt.Errorf("rate limit must be positive, got %d per %s", c.RateLimitMax, c.RateLimitWindow)
	}

	return nil
}

func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
