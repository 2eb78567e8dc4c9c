package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/provider"
)

// bodyLimit leaves room for multipart framing around a 10MB image
const bodyLimit = 11 * 1024 * 1024

type Dependencies struct {
	Detector    *provider.Lazy
	FaceService handler.FaceService
	// AuthService is nil when no database is configured; enrollment routes
	// are not mounted in that case.
	AuthService handler.AuthService
	DB          *pgxpool.Pool
	RateLimit   middleware.RateLimiterConfig
}

type Router struct {
	app         *fiber.App
	logger      *slog.Logger
	deps        *Dependencies
	rateLimiter *middleware.RateLimiter
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "FaceCheck API",
		BodyLimit:    bodyLimit,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Swagger documentation
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints
	var db handler.Pinger
	if r.deps != nil && r.deps.DB != nil {
		db = r.deps.DB
	}
	var detector handler.DetectorState
	if r.deps != nil && r.deps.Detector != nil {
		detector = r.deps.Detector
	}
	healthHandler := handler.NewHealthHandler(detector, db, r.logger)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	if r.deps == nil {
		return
	}

	v1 := r.app.Group("/v1")

	// Rate limiting (per client IP)
	r.rateLimiter = middleware.NewRateLimiter(r.deps.RateLimit)
	v1.Use(r.rateLimiter.Handler())

	if r.deps.FaceService != nil {
		faceHandler := handler.NewFaceHandler(r.deps.FaceService, r.logger)
		v1.Post("/embeddings", faceHandler.Extract)
		v1.Post("/liveness", faceHandler.CheckLiveness)
		v1.Post("/compare", faceHandler.Compare)
	}

	if r.deps.AuthService != nil {
		enrollmentHandler := handler.NewEnrollmentHandler(r.deps.AuthService, r.logger)
		v1.Post("/enrollments", enrollmentHandler.Enroll)
		v1.Delete("/enrollments/:user_id", enrollmentHandler.Unenroll)
		v1.Post("/authenticate", enrollmentHandler.Authenticate)
		v1.Post("/identify", enrollmentHandler.Identify)
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	// Stop rate limiter cleanup goroutine
	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	if err := r.app.Shutdown(); err != nil {
		return err
	}

	if r.deps != nil && r.deps.Detector != nil {
		if err := r.deps.Detector.Close(); err != nil {
			r.logger.Warn("failed to close face provider", "error", err)
		}
	}

	return nil
}
