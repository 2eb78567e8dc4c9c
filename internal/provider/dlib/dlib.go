//go:build dlib

// Package dlib detects faces locally with dlib through go-face. It needs the
// dlib models (shape_predictor_5_face_landmarks.dat,
// dlib_face_recognition_resnet_model_v1.dat, mmod_human_face_detector.dat)
// and is only built with the dlib tag.
package dlib

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"sync"

	"github.com/Kagami/go-face"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/imaging"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/provider"
)

// Available reports whether this binary was built with dlib support
const Available = true

// Provider wraps a go-face recognizer. The recognizer is not safe for
// concurrent use, so calls are serialized.
type Provider struct {
	mu  sync.Mutex
	rec *face.Recognizer
}

// New loads the models from modelDir
func New(modelDir string) (*Provider, error) {
	rec, err := face.NewRecognizer(modelDir)
	if err != nil {
		return nil, fmt.Errorf("load dlib models from %s: %w", modelDir, err)
	}
	return &Provider{rec: rec}, nil
}

// Detect returns every face with its 128-d descriptor and 5-point shape.
// dlib reports no detection score, so confidence is 1.
func (p *Provider) Detect(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := asJPEG(image)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.rec == nil {
		return nil, fmt.Errorf("%w: recognizer closed", provider.ErrUnavailable)
	}

	found, err := p.rec.Recognize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrInvalidImage, err)
	}

	faces := make([]provider.DetectedFace, 0, len(found))
	for _, f := range found {
		r := f.Rectangle

		embedding := make([]float64, len(f.Descriptor))
		for i, v := range f.Descriptor {
			embedding[i] = float64(v)
		}

		landmarks := make([]provider.Point, 0, len(f.Shapes))
		for _, s := range f.Shapes {
			landmarks = append(landmarks, provider.Point{X: float64(s.X), Y: float64(s.Y)})
		}

		faces = append(faces, provider.DetectedFace{
			BoundingBox: provider.BoundingBox{
				X1: float64(r.Min.X),
				Y1: float64(r.Min.Y),
				X2: float64(r.Max.X),
				Y2: float64(r.Max.Y),
			},
			Confidence: 1.0,
			Embedding:  embedding,
			Landmarks:  landmarks,
		})
	}

	return faces, nil
}

// Close releases the dlib models
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.rec != nil {
		p.rec.Close()
		p.rec = nil
	}
	return nil
}

// asJPEG re-encodes non-JPEG input, since go-face only reads JPEG
func asJPEG(image []byte) ([]byte, error) {
	img, format, err := imaging.Decode(image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrInvalidImage, err)
	}
	if format == "jpeg" {
		return image, nil
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		return nil, fmt.Errorf("%w: re-encode %s: %v", provider.ErrInvalidImage, format, err)
	}
	return buf.Bytes(), nil
}

var _ provider.Detector = (*Provider)(nil)
