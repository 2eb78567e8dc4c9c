package liveness

import (
	"context"
	"image"
	"sync"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/imaging"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/provider"
)

// Frame is one decoded image under assessment. Derived data (grayscale raster,
// face detection) is computed on first use and shared by all signals.
type Frame struct {
	Image image.Image

	raw      []byte
	detector provider.Detector

	grayOnce sync.Once
	gray     *imaging.Gray

	detectOnce sync.Once
	faces      []provider.DetectedFace
	detectErr  error
}

// NewFrame prepares img for assessment; raw is handed to detector on demand
func NewFrame(img image.Image, raw []byte, detector provider.Detector) *Frame {
	return &Frame{
		Image:    img,
		raw:      raw,
		detector: detector,
	}
}

// NewDetectedFrame builds a frame whose detection already happened
func NewDetectedFrame(img image.Image, faces []provider.DetectedFace) *Frame {
	f := &Frame{Image: img, faces: faces}
	f.detectOnce.Do(func() {})
	return f
}

func (f *Frame) Gray() *imaging.Gray {
	f.grayOnce.Do(func() {
		f.gray = imaging.Grayscale(f.Image)
	})
	return f.gray
}

// Faces runs detection once. The context of the first caller is used.
func (f *Frame) Faces(ctx context.Context) ([]provider.DetectedFace, error) {
	f.detectOnce.Do(func() {
		if f.detector == nil {
			f.detectErr = provider.ErrUnavailable
			return
		}
		f.faces, f.detectErr = f.detector.Detect(ctx, f.raw)
	})
	return f.faces, f.detectErr
}
