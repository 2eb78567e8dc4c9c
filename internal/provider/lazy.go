package provider

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// State is the lifecycle of a lazily initialized detector
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Factory builds the underlying detector. It is called at most once per Lazy.
type Factory func(ctx context.Context) (Detector, error)

// Lazy defers construction of an expensive detector (model load, cloud client)
// until first use. Concurrent first callers block on the same initialization;
// once Ready, Detect goes straight to the detector without locking.
// A failed initialization is sticky.
type Lazy struct {
	name    string
	factory Factory
	logger  *slog.Logger

	mu       sync.Mutex
	state    atomic.Int32
	detector Detector
	initErr  error
}

// NewLazy wraps factory. name is used in logs only.
func NewLazy(name string, factory Factory, logger *slog.Logger) *Lazy {
	return &Lazy{
		name:    name,
		factory: factory,
		logger:  logger,
	}
}

// State reports the current lifecycle state
func (l *Lazy) State() State {
	return State(l.state.Load())
}

// Init initializes the detector if needed and returns it
func (l *Lazy) Init(ctx context.Context) (Detector, error) {
	if l.State() == StateReady {
		return l.detector, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.State() {
	case StateReady:
		return l.detector, nil
	case StateFailed:
		return nil, l.initErr
	}

	l.state.Store(int32(StateInitializing))
	start := time.Now()

	// Initialization outlives the request that triggered it
	detector, err := l.factory(context.WithoutCancel(ctx))
	if err != nil {
		l.initErr = fmt.Errorf("%w: %s: %v", ErrUnavailable, l.name, err)
		l.state.Store(int32(StateFailed))
		l.logger.Error("face provider initialization failed",
			slog.String("provider", l.name),
			slog.Any("error", err),
		)
		return nil, l.initErr
	}

	l.detector = detector
	l.state.Store(int32(StateReady))
	l.logger.Info("face provider ready",
		slog.String("provider", l.name),
		slog.Duration("took", time.Since(start)),
	)

	return detector, nil
}

// Detect implements Detector
func (l *Lazy) Detect(ctx context.Context, image []byte) ([]DetectedFace, error) {
	detector, err := l.Init(ctx)
	if err != nil {
		return nil, err
	}
	return detector.Detect(ctx, image)
}

// Close releases the underlying detector if it holds resources
func (l *Lazy) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if closer, ok := l.detector.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

var _ Detector = (*Lazy)(nil)
