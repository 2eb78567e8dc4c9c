package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/domain"
)

// FaceService interface for the stateless operations
type FaceService interface {
	Extract(ctx context.Context, imageBytes []byte) (*domain.EmbeddingResult, error)
	CheckLiveness(ctx context.Context, imageBytes []byte, threshold *float64) (*domain.LivenessVerification, error)
	Compare(e1, e2 []float64) (domain.MatchResult, error)
}

// FaceHandler handles extraction, liveness and comparison requests
type FaceHandler struct {
	service FaceService
	logger  *slog.Logger
}

// NewFaceHandler creates a new FaceHandler instance
func NewFaceHandler(service FaceService, logger *slog.Logger) *FaceHandler {
	return &FaceHandler{
		service: service,
		logger:  logger,
	}
}

// CompareRequest request for the compare endpoint
type CompareRequest struct {
	Embedding1 []float64 `json:"embedding1"`
	Embedding2 []float64 `json:"embedding2"`
}

// Extract POST /v1/embeddings - embedding of the largest face
func (h *FaceHandler) Extract(c *fiber.Ctx) error {
	imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return fmt.Errorf("extract embedding: %w", err)
	}

	result, err := h.service.Extract(c.Context(), imageBytes)
	if err != nil {
		return err
	}

	return c.JSON(domain.NewEmbeddingResponse(result))
}

// CheckLiveness POST /v1/liveness - passive liveness of a single image
func (h *FaceHandler) CheckLiveness(c *fiber.Ctx) error {
	imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return fmt.Errorf("check liveness: %w", err)
	}

	threshold, err := optionalThreshold(c, "threshold")
	if err != nil {
		return err
	}

	result, err := h.service.CheckLiveness(c.Context(), imageBytes, threshold)
	if err != nil {
		return err
	}

	return c.JSON(domain.NewLivenessResponse(result))
}

// Compare POST /v1/compare - cosine similarity of two embeddings
func (h *FaceHandler) Compare(c *fiber.Ctx) error {
	var req CompareRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	result, err := h.service.Compare(req.Embedding1, req.Embedding2)
	if err != nil {
		return err
	}

	return c.JSON(result)
}
