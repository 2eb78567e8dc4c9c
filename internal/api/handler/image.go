package handler

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/domain"
)

const (
	maxImageSize = 10 * 1024 * 1024 // 10MB
)

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
	"image/bmp":  true,
}

// extractAndValidateImage extracts and validates the image from the form
func extractAndValidateImage(c *fiber.Ctx) ([]byte, error) {
	// 1. Extract file
	file, err := c.FormFile("image")
	if err != nil {
		return nil, domain.ErrValidationFailed.WithError(errors.New("image is required"))
	}

	// 2. Validate size
	if file.Size == 0 || file.Size > maxImageSize {
		return nil, domain.ErrValidationFailed.WithError(
			fmt.Errorf("image size must be between 1 and %d bytes, got %d", maxImageSize, file.Size))
	}

	// 3. Validate Content-Type
	contentType := file.Header.Get("Content-Type")
	if !validImageTypes[contentType] {
		return nil, domain.ErrValidationFailed.WithError(fmt.Errorf("unsupported content type %q", contentType))
	}

	// 4. Read image bytes
	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrImageUnreadable.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	imageBytes, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrImageUnreadable.WithError(err)
	}

	return imageBytes, nil
}

// optionalThreshold parses a [0, 1] form value; empty means unset
func optionalThreshold(c *fiber.Ctx, key string) (*float64, error) {
	raw := strings.TrimSpace(c.FormValue(key))
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !domain.ValidThreshold(v) {
		return nil, domain.ErrInvalidThreshold
	}
	return &v, nil
}

// formBool accepts the usual truthy spellings; anything else is false
func formBool(c *fiber.Ctx, key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(c.FormValue(key)))
	return err == nil && v
}
