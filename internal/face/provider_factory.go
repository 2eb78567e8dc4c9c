// Package face wires configuration into the detection provider and the
// liveness scorer settings.
package face

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/config"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/liveness"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/provider"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/provider/deepface"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/provider/dlib"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/provider/mock"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/provider/rekognition"
)

// ProviderType defines supported face detection provider types
type ProviderType string

const (
	// ProviderTypeDeepFace is a DeepFace HTTP server (self-hosted)
	ProviderTypeDeepFace ProviderType = "deepface"
	// ProviderTypeRekognition is AWS Rekognition (cloud, detection only)
	ProviderTypeRekognition ProviderType = "rekognition"
	// ProviderTypeDlib is in-process dlib via go-face (build tag dlib)
	ProviderTypeDlib ProviderType = "dlib"
	// ProviderTypeMock is a deterministic fake for development
	ProviderTypeMock ProviderType = "mock"
)

// NewDetector returns the configured provider behind a lazy initializer.
// Nothing is contacted or loaded until the first detection or readiness check.
//
// Environment variables:
//   - FACE_PROVIDER: "deepface", "rekognition", "dlib" or "mock" (default: "deepface")
//   - DEEPFACE_URL, DEEPFACE_MODEL, DEEPFACE_DETECTOR, DEEPFACE_TIMEOUT
//   - AWS_REGION plus the AWS SDK credential chain
//   - DLIB_MODEL_DIR
func NewDetector(cfg *config.Config, logger *slog.Logger) (*provider.Lazy, error) {
	providerType := ProviderType(cfg.FaceProvider)

	var factory provider.Factory
	switch providerType {
	case ProviderTypeDeepFace, "":
		providerType = ProviderTypeDeepFace
		factory = deepFaceFactory(cfg)
	case ProviderTypeRekognition:
		factory = func(ctx context.Context) (provider.Detector, error) {
			return rekognition.NewProvider(ctx, rekognition.Config{Region: cfg.AWSRegion})
		}
	case ProviderTypeDlib:
		factory = func(context.Context) (provider.Detector, error) {
			return dlib.New(cfg.DlibModelDir)
		}
	case ProviderTypeMock:
		factory = func(context.Context) (provider.Detector, error) {
			return mock.New(), nil
		}
	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s, %s, %s)",
			cfg.FaceProvider, ProviderTypeDeepFace, ProviderTypeRekognition, ProviderTypeDlib, ProviderTypeMock)
	}

	return provider.NewLazy(string(providerType), factory, logger), nil
}

// deepFaceFactory checks the server is reachable before declaring it ready
func deepFaceFactory(cfg *config.Config) provider.Factory {
	return func(ctx context.Context) (provider.Detector, error) {
		dfCfg := deepface.DefaultConfig()
		if cfg.DeepFaceURL != "" {
			dfCfg.BaseURL = cfg.DeepFaceURL
		}
		if cfg.DeepFaceModel != "" {
			dfCfg.Model = cfg.DeepFaceModel
		}
		if cfg.DeepFaceDetector != "" {
			dfCfg.Detector = cfg.DeepFaceDetector
		}
		if cfg.DeepFaceTimeout > 0 {
			dfCfg.Timeout = cfg.DeepFaceTimeout
		}

		p := deepface.NewProvider(dfCfg)
		if err := p.Ping(ctx); err != nil {
			return nil, err
		}
		return p, nil
	}
}

// LivenessConfig builds the scorer settings from configuration
func LivenessConfig(cfg *config.Config) (liveness.Config, error) {
	policy, err := liveness.ParseFailurePolicy(cfg.LivenessFailurePolicy)
	if err != nil {
		return liveness.Config{}, err
	}

	lc := liveness.DefaultConfig()
	lc.Policy = policy
	lc.TextureNorm = cfg.LivenessTextureNorm
	lc.ExpressionNorm = cfg.LivenessExpressionNorm
	lc.SkinBandLow = cfg.LivenessSkinBandLow
	lc.SkinBandHigh = cfg.LivenessSkinBandHigh

	if len(cfg.LivenessWeights) > 0 {
		defaults := liveness.DefaultWeights()
		for name := range cfg.LivenessWeights {
			if _, ok := defaults[name]; !ok {
				return liveness.Config{}, fmt.Errorf("LIVENESS_WEIGHTS: unknown signal %q", name)
			}
		}
		if len(cfg.LivenessWeights) != len(defaults) {
			return liveness.Config{}, fmt.Errorf("LIVENESS_WEIGHTS: want a weight for each of %d signals, got %d", len(defaults), len(cfg.LivenessWeights))
		}
		lc.Weights = liveness.Weights(cfg.LivenessWeights)
	}

	return lc, lc.Validate()
}
