package deepface

import (
	"errors"
	"fmt"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/provider"
)

var (
	ErrDeepFaceUnavailable = fmt.Errorf("deepface service unavailable: %w", provider.ErrUnavailable)
	ErrInvalidResponse     = errors.New("invalid response from deepface")
	ErrInvalidImageFormat  = fmt.Errorf("invalid image format for deepface: %w", provider.ErrInvalidImage)
)

// StatusError is a non-2xx answer from the DeepFace server
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("deepface returned status %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether retrying may succeed
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}
