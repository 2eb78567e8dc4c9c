package provider

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticDetector struct {
	faces  []DetectedFace
	closed atomic.Bool
}

func (d *staticDetector) Detect(context.Context, []byte) ([]DetectedFace, error) {
	return d.faces, nil
}

func (d *staticDetector) Close() error {
	d.closed.Store(true)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLazy_InitializesOnce(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	inner := &staticDetector{faces: []DetectedFace{{Confidence: 0.9}}}

	lazy := NewLazy("test", func(ctx context.Context) (Detector, error) {
		calls.Add(1)
		<-release
		return inner, nil
	}, discardLogger())

	assert.Equal(t, StateUninitialized, lazy.State())

	const callers = 32
	var wg sync.WaitGroup
	results := make([][]DetectedFace, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = lazy.Detect(context.Background(), nil)
		}(i)
	}

	require.Eventually(t, func() bool { return lazy.State() == StateInitializing }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, StateReady, lazy.State())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Len(t, results[i], 1)
	}
}

func TestLazy_FailureIsSticky(t *testing.T) {
	var calls atomic.Int32
	lazy := NewLazy("broken", func(ctx context.Context) (Detector, error) {
		calls.Add(1)
		return nil, errors.New("model not found")
	}, discardLogger())

	_, err := lazy.Detect(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "model not found")

	_, err = lazy.Init(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)

	assert.Equal(t, StateFailed, lazy.State())
	assert.Equal(t, int32(1), calls.Load())
}

func TestLazy_CancelledRequestDoesNotPoisonInit(t *testing.T) {
	lazy := NewLazy("slow", func(ctx context.Context) (Detector, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &staticDetector{}, nil
	}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := lazy.Init(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateReady, lazy.State())
}

func TestLazy_Close(t *testing.T) {
	inner := &staticDetector{}
	lazy := NewLazy("closable", func(context.Context) (Detector, error) { return inner, nil }, discardLogger())

	require.NoError(t, lazy.Close())
	assert.False(t, inner.closed.Load())

	_, err := lazy.Init(context.Background())
	require.NoError(t, err)
	require.NoError(t, lazy.Close())
	assert.True(t, inner.closed.Load())
}

func TestEnsureReady(t *testing.T) {
	assert.NoError(t, EnsureReady(context.Background(), &staticDetector{}))

	lazy := NewLazy("broken", func(context.Context) (Detector, error) {
		return nil, errors.New("no credentials")
	}, discardLogger())
	assert.ErrorIs(t, EnsureReady(context.Background(), lazy), ErrUnavailable)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "initializing", StateInitializing.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestBoundingBox(t *testing.T) {
	b := BoundingBox{X1: 5, Y1: 5, X2: 25, Y2: 25}
	assert.Equal(t, 400.0, b.Area())
	assert.Equal(t, [4]float64{5, 5, 25, 25}, b.Array())
}
