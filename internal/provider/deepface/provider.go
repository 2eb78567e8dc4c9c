package deepface

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/provider"
)

const (
	// minFaceArea is the minimum face area (in pixels²) for reliable detection
	minFaceArea = 2500 // 50x50 pixels
	// maxFaceArea is used for confidence scaling
	maxFaceArea = 250000 // 500x500 pixels
)

// Provider implements provider.Detector using the DeepFace API
type Provider struct {
	client *Client
}

// NewProvider creates a new DeepFace provider
func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
	}
}

// Ping verifies the DeepFace server is reachable
func (p *Provider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

// Detect detects faces and returns their embeddings and eye landmarks
func (p *Provider) Detect(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	imageBase64 := base64.StdEncoding.EncodeToString(image)

	resp, err := p.client.Represent(ctx, imageBase64)
	if err != nil {
		return nil, fmt.Errorf("deepface represent: %w", err)
	}

	faces := make([]provider.DetectedFace, 0, len(resp.Results))
	for _, result := range resp.Results {
		area := result.FacialArea

		confidence := calculateConfidence(float64(area.W * area.H))
		if result.FaceConfidence != nil {
			if *result.FaceConfidence <= 0 {
				continue
			}
			confidence = *result.FaceConfidence
		}

		faces = append(faces, provider.DetectedFace{
			BoundingBox: provider.BoundingBox{
				X1: float64(area.X),
				Y1: float64(area.Y),
				X2: float64(area.X + area.W),
				Y2: float64(area.Y + area.H),
			},
			Confidence: confidence,
			Embedding:  result.Embedding,
			Landmarks:  eyeLandmarks(area),
		})
	}

	return faces, nil
}

func eyeLandmarks(area FacialArea) []provider.Point {
	var points []provider.Point
	for _, eye := range []*[2]int{area.LeftEye, area.RightEye} {
		if eye != nil {
			points = append(points, provider.Point{X: float64(eye[0]), Y: float64(eye[1])})
		}
	}
	return points
}

// calculateConfidence estimates confidence from face area for servers that
// do not report face_confidence. Larger faces are detected more reliably.
func calculateConfidence(faceArea float64) float64 {
	if faceArea < minFaceArea {
		return 0.5
	}
	// Scale from 0.7 to 0.99 based on face area
	normalized := math.Min(1.0, (faceArea-minFaceArea)/(maxFaceArea-minFaceArea))
	return 0.7 + (normalized * 0.29)
}

var _ provider.Detector = (*Provider)(nil)
