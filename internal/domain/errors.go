package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError carrying the same code, so values produced by
// WithError still satisfy errors.Is against the pre-defined error.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Rate limit exceeded, please try again later",
		StatusCode: 429,
	}

	ErrInvalidThreshold = &AppError{
		Code:       "INVALID_THRESHOLD",
		Message:    "Threshold must be between 0 and 1",
		StatusCode: 422,
	}

	// Face analysis errors

	ErrImageUnreadable = &AppError{
		Code:       "IMAGE_UNREADABLE",
		Message:    "unreadable image",
		StatusCode: 422,
	}

	ErrNoFaceDetected = &AppError{
		Code:       "NO_FACE_DETECTED",
		Message:    "no face detected",
		StatusCode: 422,
	}

	ErrDetectorUnavailable = &AppError{
		Code:       "DETECTOR_UNAVAILABLE",
		Message:    "face detector unavailable",
		StatusCode: 503,
	}

	ErrEmbeddingUnsupported = &AppError{
		Code:       "EMBEDDING_UNSUPPORTED",
		Message:    "face provider does not expose embeddings",
		StatusCode: 501,
	}

	ErrDegenerateEmbedding = &AppError{
		Code:       "DEGENERATE_EMBEDDING",
		Message:    "degenerate embedding",
		StatusCode: 422,
	}

	ErrDimensionMismatch = &AppError{
		Code:       "DIMENSION_MISMATCH",
		Message:    "embedding dimensions differ",
		StatusCode: 422,
	}

	ErrSignalFailed = &AppError{
		Code:       "SIGNAL_FAILED",
		Message:    "liveness signal could not be computed",
		StatusCode: 422,
	}

	// Enrollment errors

	ErrEnrollmentNotFound = &AppError{
		Code:       "ENROLLMENT_NOT_FOUND",
		Message:    "No enrollment found for this user",
		StatusCode: 404,
	}

	ErrEnrollmentExists = &AppError{
		Code:       "ENROLLMENT_EXISTS",
		Message:    "User is already enrolled",
		StatusCode: 409,
	}

	ErrNoMatch = &AppError{
		Code:       "NO_MATCH",
		Message:    "No enrolled face matches the image",
		StatusCode: 404,
	}
)
