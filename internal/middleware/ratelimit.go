package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"agriconnect/config"
	"agriconnect/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// CounterStore is a fixed-window counter. Incr bumps the counter for the
// key, starting the window on first increment, and returns the new count.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter backs the fixed-window counters with Redis INCR + EXPIRE.
type RedisCounter struct {
	rdb *redis.Client
}

func NewRedisCounter(rdb *redis.Client) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	// NX keeps the TTL set by the first increment, so the window stays
	// fixed instead of sliding forward on every request.
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// MemoryCounter is an in-process CounterStore used in tests and as a
// fallback when Redis is unavailable.
type MemoryCounter struct {
	mu      sync.Mutex
	counts  map[string]int64
	expires map[string]time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{
		counts:  make(map[string]int64),
		expires: make(map[string]time.Time),
	}
}

func (m *MemoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	if exp, ok := m.expires[key]; !ok || now.After(exp) {
		m.counts[key] = 0
		m.expires[key] = now.Add(window)
	}
	m.counts[key]++
	return m.counts[key], nil
}

// Tier is one rate-limit bucket: separate limits for anonymous and
// authenticated callers over their own windows.
type Tier struct {
	Name       string
	AnonLimit  int
	AnonWindow time.Duration
	UserLimit  int
	UserWindow time.Duration
}

// Tiers derives the dashboard rate-limit tiers from configuration.
func Tiers(cfg *config.RateLimitConfig) (dashboard, analytics, scan Tier) {
	dashboard = Tier{
		Name:       "admin_dashboard",
		AnonLimit:  cfg.AnonLimit,
		AnonWindow: cfg.AnonWindow,
		UserLimit:  cfg.UserLimit,
		UserWindow: cfg.UserWindow,
	}
	analytics = Tier{
		Name:       "analytics",
		AnonLimit:  cfg.AnalyticsAnon,
		AnonWindow: cfg.AnalyticsWindow,
		UserLimit:  cfg.UserLimit,
		UserWindow: cfg.UserWindow,
	}
	scan = Tier{
		Name:       "scan",
		AnonLimit:  cfg.ScanLimit,
		AnonWindow: cfg.ScanWindow,
		UserLimit:  cfg.ScanLimit,
		UserWindow: cfg.ScanWindow,
	}
	return dashboard, analytics, scan
}

// RateLimit enforces the tier's fixed-window limit. Anonymous callers
// are keyed by client IP, authenticated callers by user ID. Staff and
// ADMIN accounts bypass limiting entirely.
func RateLimit(store CounterStore, tier Tier) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims != nil && claims.IsAdmin() {
			c.Next()
			return
		}

		limit := tier.AnonLimit
		window := tier.AnonWindow
		key := fmt.Sprintf("ratelimit:%s:ip:%s", tier.Name, c.ClientIP())
		if claims != nil {
			limit = tier.UserLimit
			window = tier.UserWindow
			key = fmt.Sprintf("ratelimit:%s:user:%d", tier.Name, claims.UserID)
		}

		count, err := store.Incr(c.Request.Context(), key, window)
		if err != nil {
			// Counter backend failure must not take the API down.
			c.Next()
			return
		}
		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			response.AbortErr(c, http.StatusTooManyRequests,
				"Rate limit exceeded", response.CodeRateLimited,
				fmt.Sprintf("Too many requests: limit is %d per %s.", limit, window), response.Help{
					"issue":    "You have exceeded the request allowance for this endpoint group.",
					"solution": fmt.Sprintf("Wait up to %s before retrying.", window),
					"limit":    strconv.Itoa(limit),
					"window":   window.String(),
				})
			return
		}
		c.Next()
	}
}
