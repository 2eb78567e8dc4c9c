package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/domain"
)

// RateLimiterConfig holds configuration for rate limiting
type RateLimiterConfig struct {
	// Max requests per window
	Max int
	// Window duration
	Window time.Duration
	// Key generator function - returns the client key, the remote IP by default
	KeyGenerator func(c *fiber.Ctx) string
}

// DefaultRateLimiterConfig returns default configuration
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Max:    120,
		Window: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}
}

// clientLimiter tracks rate limiting state for a client
type clientLimiter struct {
	count      int
	windowEnd  time.Time
	lastAccess time.Time
}

// RateLimiter implements fixed-window per-client rate limiting
type RateLimiter struct {
	config   RateLimiterConfig
	limiters map[string]*clientLimiter
	mu       sync.Mutex
	done     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	defaults := DefaultRateLimiterConfig()
	if config.Max == 0 {
		config.Max = defaults.Max
	}
	if config.Window == 0 {
		config.Window = defaults.Window
	}
	if config.KeyGenerator == nil {
		config.KeyGenerator = defaults.KeyGenerator
	}

	rl := &RateLimiter{
		config:   config,
		limiters: make(map[string]*clientLimiter),
		done:     make(chan struct{}),
	}

	// Start cleanup goroutine
	go rl.cleanup()

	return rl
}

// Stop shuts down the cleanup goroutine. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

// Handler returns the Fiber middleware handler
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := rl.config.KeyGenerator(c)
		now := time.Now()

		rl.mu.Lock()
		limiter, exists := rl.limiters[key]
		if !exists || now.After(limiter.windowEnd) {
			limiter = &clientLimiter{windowEnd: now.Add(rl.config.Window)}
			rl.limiters[key] = limiter
		}
		limiter.count++
		limiter.lastAccess = now
		count := limiter.count
		windowEnd := limiter.windowEnd
		rl.mu.Unlock()

		remaining := rl.config.Max - count
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.config.Max))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Set("X-RateLimit-Reset", windowEnd.Format(time.RFC3339))

		if count > rl.config.Max {
			c.Set("Retry-After", strconv.Itoa(int(time.Until(windowEnd).Seconds())+1))
			return domain.ErrRateLimitExceeded
		}

		return c.Next()
	}
}

// cleanup removes stale entries
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.evict(time.Now())
		}
	}
}

// evict drops clients not seen for two windows
func (rl *RateLimiter) evict(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, limiter := range rl.limiters {
		if now.Sub(limiter.lastAccess) > 2*rl.config.Window {
			delete(rl.limiters, key)
		}
	}
}
