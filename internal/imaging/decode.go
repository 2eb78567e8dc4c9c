// Package imaging holds the raster primitives used by face analysis:
// decoding, grayscale conversion, Laplacian response, frequency spectrum and
// L*a*b* chrominance histograms.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MaxPixels bounds the decoded raster size
const MaxPixels = 16_000_000

var (
	// ErrUndecodable is returned for empty, corrupt or unsupported image data
	ErrUndecodable = errors.New("image could not be decoded")
	// ErrTooLarge is returned when the image exceeds MaxPixels
	ErrTooLarge = errors.New("image exceeds maximum pixel count")
)

// Decode decodes any registered raster format (jpeg, png, gif, bmp, webp)
// and returns the image with its format name
func Decode(data []byte) (image.Image, string, error) {
	cfg, _, err := DecodeConfig(data)
	if err != nil {
		return nil, "", err
	}
	if cfg.Width*cfg.Height > MaxPixels {
		return nil, "", fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	if img.Bounds().Empty() {
		return nil, "", fmt.Errorf("%w: empty bounds", ErrUndecodable)
	}

	return img, format, nil
}

// DecodeConfig reads only the header of the image
func DecodeConfig(data []byte) (image.Config, string, error) {
	if len(data) == 0 {
		return image.Config{}, "", fmt.Errorf("%w: no data", ErrUndecodable)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return image.Config{}, "", fmt.Errorf("%w: invalid dimensions %dx%d", ErrUndecodable, cfg.Width, cfg.Height)
	}

	return cfg, format, nil
}
