package middleware

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apperrors "github.com/KirMaid/CloudCS-Lab1/internal/pkg/errors"
	"github.com/KirMaid/CloudCS-Lab1/internal/pkg/metrics"
)

// Decision is the outcome of one limiter check
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	Reset      time.Time
	RetryAfter time.Duration
}

// Limiter decides whether a request identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// LocalLimiter is a process-wide token bucket shared by every client
type LocalLimiter struct {
	limiter *rate.Limiter
	burst   int
	now     func() time.Time
}

// NewLocalLimiter creates a token bucket refilled at rps up to burst tokens
func NewLocalLimiter(rps float64, burst int) *LocalLimiter {
	return &LocalLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow takes one token if available
func (l *LocalLimiter) Allow(_ context.Context, _ string) (Decision, error) {
	now := l.now()
	d := Decision{Limit: l.burst, Reset: now.Add(time.Second)}

	r := l.limiter.ReserveN(now, 1)
	if !r.OK() {
		return d, nil
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		d.RetryAfter = delay
		d.Reset = now.Add(delay)
		return d, nil
	}

	d.Allowed = true
	d.Remaining = int(math.Max(0, l.limiter.TokensAt(now)))
	return d, nil
}

// RedisLimiter is a sliding window counter shared across replicas
type RedisLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRedisLimiter allows limit requests per key within each window
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		redis:  client,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow records the request in the key's window if it fits
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now()
	redisKey := "ratelimit:" + key
	windowStart := now.Add(-l.window).UnixMilli()
	d := Decision{Limit: l.limit, Reset: now.Add(l.window)}

	pipe := l.redis.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", strconv.FormatInt(windowStart, 10))
	count := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return d, fmt.Errorf("failed to read rate limit window: %w", err)
	}

	if count.Val() >= int64(l.limit) {
		d.RetryAfter = l.window
		return d, nil
	}

	pipe = l.redis.TxPipeline()
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: fmt.Sprintf("%d:%d", now.UnixNano(), count.Val()),
	})
	pipe.Expire(ctx, redisKey, l.window*2)
	if _, err := pipe.Exec(ctx); err != nil {
		return d, fmt.Errorf("failed to record request: %w", err)
	}

	d.Allowed = true
	d.Remaining = l.limit - int(count.Val()) - 1
	return d, nil
}

// WindowLimit converts a per-second rate into a request count for window
func WindowLimit(rps float64, window time.Duration) int {
	n := int(math.Ceil(rps * window.Seconds()))
	if n < 1 {
		return 1
	}
	return n
}

// RateLimitConfig configures the rate limit middleware
type RateLimitConfig struct {
	KeyGenerator func(*fiber.Ctx) string
	Skip         func(*fiber.Ctx) bool
}

// DefaultRateLimitConfig limits per client IP and never limits the health and metrics routes
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		Skip: InternalRouteSkipper,
	}
}

// RateLimitMiddleware rejects requests the limiter refuses
type RateLimitMiddleware struct {
	limiter Limiter
	logger  *zap.Logger
	config  RateLimitConfig
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(limiter Limiter, logger *zap.Logger, config ...RateLimitConfig) *RateLimitMiddleware {
	cfg := DefaultRateLimitConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	return &RateLimitMiddleware{
		limiter: limiter,
		logger:  logger,
		config:  cfg,
	}
}

// Handler returns the rate limit handler. Limiter failures let the request through.
func (m *RateLimitMiddleware) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.config.Skip != nil && m.config.Skip(c) {
			return c.Next()
		}

		d, err := m.limiter.Allow(c.UserContext(), m.config.KeyGenerator(c))
		if err != nil {
			m.logger.Warn("rate limiter unavailable, allowing request",
				zap.Error(err),
				zap.String("request_id", GetRequestID(c)),
			)
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(d.Reset.Unix(), 10))

		if !d.Allowed {
			metrics.RecordRateLimitRejection()
			retry := int64(math.Ceil(d.RetryAfter.Seconds()))
			if retry < 1 {
				retry = 1
			}
			return apperrors.RateLimited().WithHeader(fiber.HeaderRetryAfter, strconv.FormatInt(retry, 10))
		}

		return c.Next()
	}
}
