package deepface

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/provider"
)

func confidence(v float64) *float64 { return &v }

func TestProvider_Detect(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse RepresentResponse
		serverStatus   int
		wantErr        bool
		validate       func(*testing.T, []provider.DetectedFace)
	}{
		{
			name: "maps facial area and eyes",
			serverResponse: RepresentResponse{
				Results: []RepresentResult{
					{
						Embedding:      []float64{0.1, 0.2, 0.3},
						FacialArea:     FacialArea{X: 10, Y: 20, W: 200, H: 100, LeftEye: &[2]int{60, 50}, RightEye: &[2]int{150, 55}},
						FaceConfidence: confidence(0.97),
					},
				},
			},
			serverStatus: http.StatusOK,
			validate: func(t *testing.T, faces []provider.DetectedFace) {
				require.Len(t, faces, 1)
				f := faces[0]
				assert.Equal(t, provider.BoundingBox{X1: 10, Y1: 20, X2: 210, Y2: 120}, f.BoundingBox)
				assert.Equal(t, 0.97, f.Confidence)
				assert.Equal(t, []float64{0.1, 0.2, 0.3}, f.Embedding)
				assert.Equal(t, []provider.Point{{X: 60, Y: 50}, {X: 150, Y: 55}}, f.Landmarks)
			},
		},
		{
			name: "estimates confidence when the server omits it",
			serverResponse: RepresentResponse{
				Results: []RepresentResult{
					{Embedding: make([]float64, 512), FacialArea: FacialArea{X: 0, Y: 0, W: 500, H: 500}},
				},
			},
			serverStatus: http.StatusOK,
			validate: func(t *testing.T, faces []provider.DetectedFace) {
				require.Len(t, faces, 1)
				assert.InDelta(t, 0.99, faces[0].Confidence, 1e-9)
				assert.Empty(t, faces[0].Landmarks)
			},
		},
		{
			name: "drops zero-confidence placeholder",
			serverResponse: RepresentResponse{
				Results: []RepresentResult{
					{Embedding: make([]float64, 512), FacialArea: FacialArea{X: 0, Y: 0, W: 640, H: 480}, FaceConfidence: confidence(0)},
				},
			},
			serverStatus: http.StatusOK,
			validate: func(t *testing.T, faces []provider.DetectedFace) {
				assert.Empty(t, faces)
				assert.NotNil(t, faces)
			},
		},
		{
			name: "multiple faces keep server order",
			serverResponse: RepresentResponse{
				Results: []RepresentResult{
					{Embedding: make([]float64, 512), FacialArea: FacialArea{X: 10, Y: 10, W: 100, H: 100}, FaceConfidence: confidence(0.9)},
					{Embedding: make([]float64, 512), FacialArea: FacialArea{X: 200, Y: 10, W: 150, H: 150}, FaceConfidence: confidence(0.8)},
				},
			},
			serverStatus: http.StatusOK,
			validate: func(t *testing.T, faces []provider.DetectedFace) {
				require.Len(t, faces, 2)
				assert.Equal(t, 0.9, faces[0].Confidence)
				assert.Equal(t, 0.8, faces[1].Confidence)
			},
		},
		{
			name:         "server error",
			serverStatus: http.StatusInternalServerError,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.serverStatus)
				_ = json.NewEncoder(w).Encode(tt.serverResponse)
			}))
			defer server.Close()

			p := NewProvider(testConfig(server.URL, 0))
			faces, err := p.Detect(context.Background(), []byte("test-image"))

			if tt.wantErr {
				assert.ErrorIs(t, err, provider.ErrUnavailable)
				return
			}

			require.NoError(t, err)
			tt.validate(t, faces)
		})
	}
}

func TestCalculateConfidence(t *testing.T) {
	tests := []struct {
		name     string
		faceArea float64
		wantMin  float64
		wantMax  float64
	}{
		{name: "very small face", faceArea: 1000, wantMin: 0.49, wantMax: 0.51},
		{name: "minimum face area", faceArea: minFaceArea, wantMin: 0.69, wantMax: 0.71},
		{name: "medium face", faceArea: 40000, wantMin: 0.73, wantMax: 0.77},
		{name: "large face", faceArea: maxFaceArea, wantMin: 0.98, wantMax: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confidence := calculateConfidence(tt.faceArea)
			assert.GreaterOrEqual(t, confidence, tt.wantMin)
			assert.LessOrEqual(t, confidence, tt.wantMax)
		})
	}
}
