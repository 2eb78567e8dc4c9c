package rekognition

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/imaging"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/provider"
)

// maxImageSize is the maximum image size supported by AWS Rekognition (5MB)
const maxImageSize = 5 * 1024 * 1024

// Provider implements provider.Detector using AWS Rekognition DetectFaces.
// Rekognition does not expose embeddings, so detected faces carry none.
type Provider struct {
	client *Client
}

var _ provider.Detector = (*Provider)(nil)

// NewProvider creates a new Rekognition provider
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create rekognition client: %w", err)
	}
	return &Provider{client: client}, nil
}

// validateImage checks size limits and returns the pixel dimensions
func validateImage(image []byte) (int, int, error) {
	if len(image) > maxImageSize {
		return 0, 0, fmt.Errorf("%w: image too large (%d bytes, maximum %d)", ErrInvalidImage, len(image), maxImageSize)
	}

	cfg, _, err := imaging.DecodeConfig(image)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return cfg.Width, cfg.Height, nil
}

// Detect detects faces in an image. Bounding boxes and landmarks are
// converted from ratios to pixels, confidence from percent to [0,1].
// Returns an empty slice if no faces are detected (not an error).
func (p *Provider) Detect(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	width, height, err := validateImage(image)
	if err != nil {
		return nil, err
	}

	output, err := p.client.rekognition.DetectFaces(ctx, &rekognition.DetectFacesInput{
		Image:      &types.Image{Bytes: image},
		Attributes: []types.Attribute{types.AttributeDefault},
	})
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", ParseAPIError(err))
	}

	w, h := float64(width), float64(height)
	faces := make([]provider.DetectedFace, 0, len(output.FaceDetails))
	for _, detail := range output.FaceDetails {
		conf := deref(detail.Confidence)
		if conf < p.client.config.MinConfidence {
			continue
		}

		bb := detail.BoundingBox
		if bb == nil {
			return nil, ErrMissingBoundingBox
		}

		left, top := float64(deref(bb.Left))*w, float64(deref(bb.Top))*h
		faces = append(faces, provider.DetectedFace{
			BoundingBox: provider.BoundingBox{
				X1: left,
				Y1: top,
				X2: left + float64(deref(bb.Width))*w,
				Y2: top + float64(deref(bb.Height))*h,
			},
			Confidence: float64(conf) / 100,
			Landmarks:  landmarks(detail.Landmarks, w, h),
		})
	}

	return faces, nil
}

func landmarks(in []types.Landmark, w, h float64) []provider.Point {
	if len(in) == 0 {
		return nil
	}

	points := make([]provider.Point, 0, len(in))
	for _, l := range in {
		if l.X == nil || l.Y == nil {
			continue
		}
		points = append(points, provider.Point{
			X: float64(*l.X) * w,
			Y: float64(*l.Y) * h,
		})
	}
	return points
}

func deref(v *float32) float32 {
	if v == nil {
		return 0
	}
	return *v
}
