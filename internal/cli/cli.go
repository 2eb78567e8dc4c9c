package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/config"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/domain"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/embedding"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/face"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/liveness"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/matcher"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/service"
)

// Version is the application version
const Version = "0.1.0"

// FaceService is what the commands need from the service layer
type FaceService interface {
	Extract(ctx context.Context, imageBytes []byte) (*domain.EmbeddingResult, error)
	CheckLiveness(ctx context.Context, imageBytes []byte, threshold *float64) (*domain.LivenessVerification, error)
	Compare(e1, e2 []float64) (domain.MatchResult, error)
}

// ServiceFactory builds the face service and returns a cleanup func
type ServiceFactory func(ctx context.Context, stderr io.Writer) (FaceService, func(), error)

type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	// NewService defaults to a service configured from the environment
	NewService ServiceFactory
}

// errorResult is printed for domain errors; the process still exits 0
type errorResult struct {
	Error string `json:"error"`
}

// NewRootCommand builds the facecheck command tree. Every command prints
// exactly one JSON document on stdout. A returned error means no result
// could be produced.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.NewService == nil {
		opts.NewService = EnvService
	}

	root := &cobra.Command{
		Use:           "facecheck",
		Short:         "Face embedding extraction, matching and liveness scoring",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(
		newExtractCommand(opts),
		newLivenessCommand(opts),
		newCompareCommand(opts),
	)

	return root
}

// Execute runs the CLI and returns the process exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand(Options{})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

// EnvService wires the face service the same way the API server does
func EnvService(ctx context.Context, stderr io.Writer) (FaceService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := config.NewLoggerTo(stderr, cfg.Environment)

	detector, err := face.NewDetector(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := detector.Close(); err != nil {
			logger.Warn("failed to close face provider", slog.Any("error", err))
		}
	}

	livenessCfg, err := face.LivenessConfig(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	scorer, err := liveness.NewScorer(detector, livenessCfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	m, err := matcher.New(cfg.MatchThreshold)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	svc := service.NewFaceService(
		embedding.NewExtractor(detector, logger),
		scorer,
		m,
		cfg.LivenessThreshold,
		logger,
	)
	return svc, cleanup, nil
}

// render prints v, or {"error": ...} when err is a result-level failure.
// Context cancellation yields no result.
func render(w io.Writer, v any, err error) error {
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		v = errorResult{Error: err.Error()}
	}

	enc := json.NewEncoder(w)
	if encErr := enc.Encode(v); encErr != nil {
		return fmt.Errorf("write result: %w", encErr)
	}
	return nil
}

func withService(cmd *cobra.Command, opts Options, fn func(svc FaceService) error) error {
	svc, cleanup, err := opts.NewService(cmd.Context(), opts.Stderr)
	if err != nil {
		return fmt.Errorf("configure face service: %w", err)
	}
	if cleanup != nil {
		defer cleanup()
	}
	return fn(svc)
}
