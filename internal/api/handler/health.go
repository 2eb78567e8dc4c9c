package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/provider"
)

// Version is reported by /health
var Version = "0.1.0"

// DetectorState reports the lifecycle of the lazily initialized provider
type DetectorState interface {
	State() provider.State
}

// Pinger checks database connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	detector DetectorState
	db       Pinger
	logger   *slog.Logger
}

// NewHealthHandler creates a health handler. db may be nil when the service
// runs without a database.
func NewHealthHandler(detector DetectorState, db Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		detector: detector,
		db:       db,
		logger:   logger,
	}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// ReadyResponse details each dependency checked by /ready
type ReadyResponse struct {
	Status   string `json:"status"`
	Detector string `json:"detector"`
	Database string `json:"database"`
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

// Ready reports 503 when the detector failed to initialize or the database
// is unreachable. A detector that has not been used yet counts as ready.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	resp := ReadyResponse{
		Status:   "ready",
		Detector: "disabled",
		Database: "disabled",
	}

	if h.detector != nil {
		state := h.detector.State()
		resp.Detector = state.String()
		if state == provider.StateFailed {
			resp.Status = "unavailable"
		}
	}

	if h.db != nil {
		resp.Database = "ok"
		if err := h.db.Ping(c.Context()); err != nil {
			h.logger.Warn("readiness database check failed", slog.Any("error", err))
			resp.Database = "unreachable"
			resp.Status = "unavailable"
		}
	}

	if resp.Status != "ready" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
