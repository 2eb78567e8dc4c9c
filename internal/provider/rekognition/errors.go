package rekognition

import (
	"errors"
	"fmt"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/provider"
)

var (
	// ErrInvalidCredentials indicates that AWS credentials are invalid or missing
	ErrInvalidCredentials = fmt.Errorf("invalid or missing AWS credentials: %w", provider.ErrUnavailable)

	// ErrThrottled indicates the account exceeded its Rekognition throughput
	ErrThrottled = fmt.Errorf("rekognition throughput exceeded: %w", provider.ErrUnavailable)

	// ErrInvalidImage indicates the image was rejected before or by Rekognition
	ErrInvalidImage = fmt.Errorf("invalid image for rekognition: %w", provider.ErrInvalidImage)

	// ErrMissingBoundingBox indicates a face detail without geometry
	ErrMissingBoundingBox = errors.New("rekognition face without bounding box")
)
