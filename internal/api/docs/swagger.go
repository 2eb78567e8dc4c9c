package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// EmbeddingResponse represents a successful embedding extraction
type EmbeddingResponse struct {
	Success   bool       `json:"success" example:"true"`
	Embedding []float64  `json:"embedding" example:"0.012,-0.094,0.031"`
	BBox      [4]float64 `json:"bbox" example:"112,64,348,372"`
	DetScore  float64    `json:"det_score" example:"0.998"`
	NumFaces  int        `json:"num_faces" example:"1"`
}

// LivenessDetails holds the per-signal scores
type LivenessDetails struct {
	EyeBlinkScore   float64 `json:"eye_blink_score" example:"0.99"`
	TextureScore    float64 `json:"texture_score" example:"0.74"`
	FrequencyScore  float64 `json:"frequency_score" example:"0.41"`
	ColorScore      float64 `json:"color_score" example:"0.83"`
	ExpressionScore float64 `json:"expression_score" example:"0.66"`
}

// LivenessResponse represents the outcome of a liveness check
type LivenessResponse struct {
	Success       bool            `json:"success" example:"true"`
	LivenessScore float64         `json:"liveness_score" example:"0.74"`
	IsLive        bool            `json:"is_live" example:"true"`
	Confidence    float64         `json:"confidence" example:"0.48"`
	Details       LivenessDetails `json:"details"`
	FailedSignals []string        `json:"failed_signals,omitempty" example:"[]"`
	Threshold     float64         `json:"threshold" example:"0.5"`
	Verified      bool            `json:"verified" example:"true"`
}

// CompareRequest carries the two embeddings to compare
type CompareRequest struct {
	Embedding1 []float64 `json:"embedding1" example:"0.6,0.8"`
	Embedding2 []float64 `json:"embedding2" example:"0.8,0.6"`
}

// MatchResponse represents a 1:1 comparison verdict
type MatchResponse struct {
	Similarity float64 `json:"similarity" example:"0.96"`
	Accepted   bool    `json:"accepted" example:"true"`
}

// EnrollResponse represents a stored enrollment
type EnrollResponse struct {
	ID                  string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID              string  `json:"user_id" example:"user-123"`
	DetectionConfidence float64 `json:"detection_confidence" example:"0.99"`
	CreatedAt           string  `json:"created_at" example:"2024-01-01T00:00:00Z"`
	UpdatedAt           string  `json:"updated_at" example:"2024-01-01T00:00:00Z"`
}

// LivenessSummary is the fused liveness part of an authentication
type LivenessSummary struct {
	LivenessScore float64            `json:"liveness_score" example:"0.74"`
	IsLive        bool               `json:"is_live" example:"true"`
	Confidence    float64            `json:"confidence" example:"0.48"`
	SignalScores  map[string]float64 `json:"signal_scores"`
}

// AuthenticationResponse represents the combined verdict of one attempt
type AuthenticationResponse struct {
	ID            string          `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID        string          `json:"user_id" example:"user-123"`
	Authenticated bool            `json:"authenticated" example:"true"`
	Match         MatchResponse   `json:"match"`
	Liveness      LivenessSummary `json:"liveness"`
	NumFaces      int             `json:"num_faces" example:"1"`
	LatencyMs     int64           `json:"latency_ms" example:"180"`
	CreatedAt     string          `json:"created_at" example:"2024-01-01T00:00:00Z"`
}

// IdentifyResponse represents the best 1:N match
type IdentifyResponse struct {
	UserID     string  `json:"user_id" example:"user-123"`
	Similarity float64 `json:"similarity" example:"0.91"`
}

// HealthResponse represents the liveness probe answer
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version" example:"0.1.0"`
}

// ReadyResponse represents the readiness probe answer
type ReadyResponse struct {
	Status   string `json:"status" example:"ready"`
	Detector string `json:"detector" example:"ready"`
	Database string `json:"database" example:"ok"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// EmptyResponse represents no content response (204)
type EmptyResponse struct{}

var (
	errValidation  = response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity")
	errUnreadable  = response.New(ErrorResponse{Code: "IMAGE_UNREADABLE", Message: "Image could not be decoded"}, "422", "Unprocessable Entity")
	errNoFace      = response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in image"}, "422", "Unprocessable Entity")
	errRateLimit   = response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded"}, "429", "Too Many Requests")
	errInternal    = response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error")
	errUnsupported = response.New(ErrorResponse{Code: "EMBEDDING_UNSUPPORTED", Message: "Face provider does not produce embeddings"}, "501", "Not Implemented")
	errUnavailable = response.New(ErrorResponse{Code: "DETECTOR_UNAVAILABLE", Message: "Face detector unavailable"}, "503", "Service Unavailable")
)

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "FaceCheck API",
		Version:     "v1.0.0",
		Description: "Face authentication: embedding extraction, identity matching and passive liveness scoring",
		Host:        "localhost:3000",
		Path:        "/",
	})

	endpoints := []*endpoint.EndPoint{
		// GET /health
		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Liveness probe"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Service is up"),
			}),
		),

		// GET /ready
		endpoint.New(
			endpoint.GET,
			"/ready",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Readiness probe"),
			endpoint.WithDescription("Reports the face detector lifecycle state and, when configured, database connectivity"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ReadyResponse{}, "200", "Ready to serve"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ReadyResponse{Status: "unavailable", Detector: "failed", Database: "ok"}, "503", "Service Unavailable"),
			}),
		),

		// POST /v1/embeddings
		endpoint.New(
			endpoint.POST,
			"/v1/embeddings",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("Extract a face embedding"),
			endpoint.WithDescription("Multipart field image (required). Detects faces and returns the embedding of the largest one together with the number of faces found"),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmbeddingResponse{}, "200", "Embedding extracted"),
			}),
			endpoint.WithErrors([]response.Response{errValidation, errUnreadable, errNoFace, errRateLimit, errInternal, errUnsupported, errUnavailable}),
		),

		// POST /v1/liveness
		endpoint.New(
			endpoint.POST,
			"/v1/liveness",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("Score passive liveness"),
			endpoint.WithDescription("Fuses five signals (eye blink proxy, texture, frequency, color, micro expression) into a liveness score"),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("threshold", parameter.Query, parameter.WithDescription("Score required for verified (0-1, default: LIVENESS_THRESHOLD)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(LivenessResponse{}, "200", "Liveness scored"),
			}),
			endpoint.WithErrors([]response.Response{
				errValidation,
				errUnreadable,
				response.New(ErrorResponse{Code: "INVALID_THRESHOLD", Message: "Threshold must be between 0 and 1"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "SIGNAL_FAILED", Message: "A liveness signal could not be computed"}, "422", "Unprocessable Entity"),
				errRateLimit, errInternal, errUnavailable,
			}),
		),

		// POST /v1/compare
		endpoint.New(
			endpoint.POST,
			"/v1/compare",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("Compare two embeddings"),
			endpoint.WithDescription("JSON body {\"embedding1\": [...], \"embedding2\": [...]}. Cosine similarity against MATCH_THRESHOLD"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MatchResponse{}, "200", "Embeddings compared"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "DEGENERATE_EMBEDDING", Message: "Embedding has zero norm"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "DIMENSION_MISMATCH", Message: "Embeddings differ in length"}, "422", "Unprocessable Entity"),
				errRateLimit,
			}),
		),

		// POST /v1/enrollments
		endpoint.New(
			endpoint.POST,
			"/v1/enrollments",
			endpoint.WithTags("Enrollments"),
			endpoint.WithSummary("Enroll a user"),
			endpoint.WithDescription("Stores the embedding of the largest face for user_id. Fails with 409 when already enrolled unless replace is true."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("user_id", parameter.Query, parameter.WithDescription("Required. Caller-defined user identifier")),
				parameter.StrParam("replace", parameter.Query, parameter.WithDescription("Overwrite an existing enrollment")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EnrollResponse{}, "201", "User enrolled"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "ENROLLMENT_EXISTS", Message: "User is already enrolled"}, "409", "Conflict"),
				errValidation, errUnreadable, errNoFace, errRateLimit, errInternal, errUnsupported, errUnavailable,
			}),
		),

		// DELETE /v1/enrollments/:user_id
		endpoint.New(
			endpoint.DELETE,
			"/v1/enrollments/{user_id}",
			endpoint.WithTags("Enrollments"),
			endpoint.WithSummary("Delete an enrollment"),
			endpoint.WithDescription("Removes the stored biometric data of user_id"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("user_id", parameter.Path, parameter.WithDescription("Caller-defined user identifier")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Enrollment deleted"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "ENROLLMENT_NOT_FOUND", Message: "User is not enrolled"}, "404", "Not Found"),
				errRateLimit, errInternal,
			}),
		),

		// POST /v1/authenticate
		endpoint.New(
			endpoint.POST,
			"/v1/authenticate",
			endpoint.WithTags("Authentication"),
			endpoint.WithSummary("Authenticate a user"),
			endpoint.WithDescription("Matches the face against the enrollment of user_id and scores liveness on the same capture"),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("user_id", parameter.Query, parameter.WithDescription("Required. Claimed user identifier")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AuthenticationResponse{}, "200", "Authentication evaluated"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "ENROLLMENT_NOT_FOUND", Message: "User is not enrolled"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "DIMENSION_MISMATCH", Message: "Enrollment was made with another model"}, "422", "Unprocessable Entity"),
				errValidation, errUnreadable, errNoFace, errRateLimit, errInternal, errUnsupported, errUnavailable,
			}),
		),

		// POST /v1/identify
		endpoint.New(
			endpoint.POST,
			"/v1/identify",
			endpoint.WithTags("Authentication"),
			endpoint.WithSummary("Identify a face"),
			endpoint.WithDescription("Returns the enrolled user most similar to the face, above IDENTIFY_THRESHOLD"),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("exclude_user_id", parameter.Query, parameter.WithDescription("User never returned as a match")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(IdentifyResponse{}, "200", "Match found"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "NO_MATCH", Message: "No enrolled user matched"}, "404", "Not Found"),
				errValidation, errUnreadable, errNoFace, errRateLimit, errInternal, errUnsupported, errUnavailable,
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
