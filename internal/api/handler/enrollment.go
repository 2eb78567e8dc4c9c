package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/domain"
)

// AuthService interface for the operations that need enrollments
type AuthService interface {
	Enroll(ctx context.Context, userID string, imageBytes []byte, replace bool) (*domain.Enrollment, error)
	Unenroll(ctx context.Context, userID string) error
	Authenticate(ctx context.Context, userID string, imageBytes []byte) (*domain.Authentication, error)
	Identify(ctx context.Context, imageBytes []byte, excludeUserID string) (*domain.IdentifyMatch, error)
}

// EnrollmentHandler handles enrollment, authentication and identification
type EnrollmentHandler struct {
	service AuthService
	logger  *slog.Logger
}

// NewEnrollmentHandler creates a new EnrollmentHandler instance
func NewEnrollmentHandler(service AuthService, logger *slog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		service: service,
		logger:  logger,
	}
}

// EnrollResponse response for the enroll endpoint
type EnrollResponse struct {
	ID                  string  `json:"id"`
	UserID              string  `json:"user_id"`
	DetectionConfidence float64 `json:"detection_confidence"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

// Enroll POST /v1/enrollments - enroll a user from an image
func (h *EnrollmentHandler) Enroll(c *fiber.Ctx) error {
	// 1. Extract user_id from form
	userID := strings.TrimSpace(c.FormValue("user_id"))
	if userID == "" {
		return domain.ErrValidationFailed.WithError(errors.New("user_id is required"))
	}

	// 2. Extract and validate image
	imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return fmt.Errorf("enroll: %w", err)
	}

	// 3. Call service to enroll
	enrollment, err := h.service.Enroll(c.Context(), userID, imageBytes, formBool(c, "replace"))
	if err != nil {
		return err
	}

	// 4. Return response
	return c.Status(fiber.StatusCreated).JSON(EnrollResponse{
		ID:                  enrollment.ID.String(),
		UserID:              enrollment.UserID,
		DetectionConfidence: enrollment.DetectionConfidence,
		CreatedAt:           enrollment.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:           enrollment.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// Unenroll DELETE /v1/enrollments/:user_id - remove a user's biometric data
func (h *EnrollmentHandler) Unenroll(c *fiber.Ctx) error {
	userID := strings.TrimSpace(c.Params("user_id"))
	if userID == "" {
		return domain.ErrValidationFailed.WithError(errors.New("user_id is required"))
	}

	if err := h.service.Unenroll(c.Context(), userID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Authenticate POST /v1/authenticate - identity match plus liveness, 1:1
func (h *EnrollmentHandler) Authenticate(c *fiber.Ctx) error {
	userID := strings.TrimSpace(c.FormValue("user_id"))
	if userID == "" {
		return domain.ErrValidationFailed.WithError(errors.New("user_id is required"))
	}

	imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}

	auth, err := h.service.Authenticate(c.Context(), userID, imageBytes)
	if err != nil {
		return err
	}

	return c.JSON(auth)
}

// Identify POST /v1/identify - best enrolled match, 1:N
func (h *EnrollmentHandler) Identify(c *fiber.Ctx) error {
	imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return fmt.Errorf("identify: %w", err)
	}

	match, err := h.service.Identify(c.Context(), imageBytes, strings.TrimSpace(c.FormValue("exclude_user_id")))
	if err != nil {
		return err
	}

	return c.JSON(match)
}
