package provider

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable is returned when the underlying detection model could not
	// be initialized or reached
	ErrUnavailable = errors.New("face provider unavailable")
	// ErrInvalidImage is returned when the provider rejects the image bytes
	ErrInvalidImage = errors.New("face provider rejected image")
)

// Detector is the face detection capability consumed by the core.
// Implementations return an empty slice (not an error) when no face is found.
type Detector interface {
	Detect(ctx context.Context, image []byte) ([]DetectedFace, error)
}

// Initializer is implemented by detectors that can be warmed up ahead of
// the first Detect call
type Initializer interface {
	Init(ctx context.Context) (Detector, error)
}

// EnsureReady initializes d when it supports it. Plain detectors are
// always ready.
func EnsureReady(ctx context.Context, d Detector) error {
	if init, ok := d.(Initializer); ok {
		_, err := init.Init(ctx)
		return err
	}
	return nil
}

// DetectedFace represents a detected face in the image
type DetectedFace struct {
	BoundingBox BoundingBox `json:"bbox"`
	Confidence  float64     `json:"confidence"`
	Embedding   []float64   `json:"embedding,omitempty"`
	Landmarks   []Point     `json:"landmarks,omitempty"`
}

// BoundingBox represents the face area in pixel coordinates
type BoundingBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Area returns (x2-x1)*(y2-y1)
func (b BoundingBox) Area() float64 {
	return (b.X2 - b.X1) * (b.Y2 - b.Y1)
}

// Array returns the box as [x1, y1, x2, y2]
func (b BoundingBox) Array() [4]float64 {
	return [4]float64{b.X1, b.Y1, b.X2, b.Y2}
}

// Point is a facial landmark in pixel coordinates
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
