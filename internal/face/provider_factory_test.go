package face

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/config"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/domain"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/liveness"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/provider"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/provider/deepface"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/provider/dlib"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/provider/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewDetector_DeepFace(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/represent" {
			var req deepface.RepresentRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "Facenet512", req.Model)
			_ = json.NewEncoder(w).Encode(deepface.RepresentResponse{})
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := &config.Config{
		FaceProvider:  "",
		DeepFaceURL:   server.URL,
		DeepFaceModel: "Facenet512",
	}

	lazy, err := NewDetector(cfg, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, provider.StateUninitialized, lazy.State())

	d, err := lazy.Init(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &deepface.Provider{}, d)

	faces, err := lazy.Detect(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Empty(t, faces)
}

func TestNewDetector_DeepFaceUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	lazy, err := NewDetector(&config.Config{FaceProvider: "deepface", DeepFaceURL: server.URL}, discardLogger())
	require.NoError(t, err)

	_, err = lazy.Init(context.Background())
	assert.ErrorIs(t, err, provider.ErrUnavailable)
	assert.Equal(t, provider.StateFailed, lazy.State())
}

func TestNewDetector_Mock(t *testing.T) {
	lazy, err := NewDetector(&config.Config{FaceProvider: "mock"}, discardLogger())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 20, 20))))

	faces, err := lazy.Detect(context.Background(), buf.Bytes())
	require.NoError(t, err)
	assert.Len(t, faces, 1)
}

func TestNewDetector_Dlib(t *testing.T) {
	if dlib.Available {
		t.Skip("dlib models are not available in unit tests")
	}

	lazy, err := NewDetector(&config.Config{FaceProvider: "dlib", DlibModelDir: "/nonexistent"}, discardLogger())
	require.NoError(t, err)

	_, err = lazy.Init(context.Background())
	assert.ErrorIs(t, err, provider.ErrUnavailable)
}

func TestNewDetector_UnknownType(t *testing.T) {
	_, err := NewDetector(&config.Config{FaceProvider: "opencv"}, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider type: opencv")
}

func TestLivenessConfig(t *testing.T) {
	cfg := &config.Config{
		LivenessFailurePolicy:  "propagate",
		LivenessTextureNorm:    250,
		LivenessExpressionNorm: 5,
		LivenessSkinBandLow:    90,
		LivenessSkinBandHigh:   140,
	}

	lc, err := LivenessConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, liveness.PolicyPropagate, lc.Policy)
	assert.Equal(t, 250.0, lc.TextureNorm)
	assert.Equal(t, 5.0, lc.ExpressionNorm)
	assert.Equal(t, 90, lc.SkinBandLow)
	assert.Equal(t, 140, lc.SkinBandHigh)
	assert.Equal(t, liveness.DefaultWeights(), lc.Weights)

	cfg.LivenessFailurePolicy = "lenient"
	_, err = LivenessConfig(cfg)
	assert.Error(t, err)
}

func TestLivenessConfig_Weights(t *testing.T) {
	base := func() *config.Config {
		return &config.Config{
			LivenessFailurePolicy:  "neutral",
			LivenessTextureNorm:    500,
			LivenessExpressionNorm: 10,
			LivenessSkinBandLow:    100,
			LivenessSkinBandHigh:   135,
		}
	}

	t.Run("custom weights replace defaults", func(t *testing.T) {
		cfg := base()
		cfg.LivenessWeights = map[string]float64{
			domain.SignalEyeBlink:   0.4,
			domain.SignalTexture:    0.15,
			domain.SignalFrequency:  0.15,
			domain.SignalColor:      0.15,
			domain.SignalExpression: 0.15,
		}

		lc, err := LivenessConfig(cfg)
		require.NoError(t, err)
		assert.Equal(t, 0.4, lc.Weights[domain.SignalEyeBlink])

		_, err = liveness.NewScorer(mock.New(), lc, discardLogger())
		assert.NoError(t, err)
	})

	tests := []struct {
		name    string
		weights map[string]float64
	}{
		{name: "sum below one", weights: map[string]float64{
			domain.SignalEyeBlink: 0.2, domain.SignalTexture: 0.2, domain.SignalFrequency: 0.2,
			domain.SignalColor: 0.2, domain.SignalExpression: 0.1,
		}},
		{name: "unknown signal", weights: map[string]float64{
			domain.SignalEyeBlink: 0.2, domain.SignalTexture: 0.2, domain.SignalFrequency: 0.2,
			domain.SignalColor: 0.2, "heartbeat": 0.2,
		}},
		{name: "missing signal", weights: map[string]float64{
			domain.SignalEyeBlink: 0.25, domain.SignalTexture: 0.25, domain.SignalFrequency: 0.25,
			domain.SignalColor: 0.25,
		}},
		{name: "negative weight", weights: map[string]float64{
			domain.SignalEyeBlink: 0.6, domain.SignalTexture: -0.2, domain.SignalFrequency: 0.2,
			domain.SignalColor: 0.2, domain.SignalExpression: 0.2,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			cfg.LivenessWeights = tt.weights
			_, err := LivenessConfig(cfg)
			assert.Error(t, err)
		})
	}
}
