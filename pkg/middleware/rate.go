// Package middleware provides the HTTP middleware stack.
package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/jantrick/jantrick/pkg/logger"
	"github.com/jantrick/jantrick/pkg/metrics"
	"github.com/jantrick/jantrick/pkg/response"
)

// Limiter decides whether one more request for key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter keeps one token bucket per key in process memory.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	idle    time.Duration
	now     func() time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// maxBuckets bounds the bucket map before idle buckets are swept.
const maxBuckets = 10000

// NewMemoryLimiter allows perMinute requests per key, refilled evenly.
func NewMemoryLimiter(perMinute int) *MemoryLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &MemoryLimiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   perMinute,
		idle:    10 * time.Minute,
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= maxBuckets {
			l.sweepLocked(now)
		}
		b = &bucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1), nil
}

func (l *MemoryLimiter) sweepLocked(now time.Time) {
	for k, b := range l.buckets {
		if now.Sub(b.seen) > l.idle {
			delete(l.buckets, k)
		}
	}
}

// RedisLimiter counts requests per key in fixed windows stored in Redis, so
// every server instance shares one budget.
type RedisLimiter struct {
	rdb    *redis.Client
	max    int64
	window time.Duration
	prefix string
	now    func() time.Time
}

// NewRedisLimiter allows perMinute requests per key per minute.
func NewRedisLimiter(rdb *redis.Client, perMinute int) *RedisLimiter {
	return &RedisLimiter{
		rdb:    rdb,
		max:    int64(perMinute),
		window: time.Minute,
		prefix: "jantrick:ratelimit",
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	slot := l.now().Unix() / int64(l.window/time.Second)
	k := fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, fmt.Errorf("ratelimit: redis: %w", err)
	}
	return incr.Val() <= l.max, nil
}

// RateLimit rejects clients over their budget with 429. A limiter error is
// logged and the request is let through.
func RateLimit(l Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := l.Allow(r.Context(), ClientIP(r))
			if err != nil {
				logger.WithCtx(r.Context()).Warn("rate limiter unavailable", "error", err)
			}
			if !ok {
				metrics.RateLimited.Inc()
				w.Header().Set("Retry-After", strconv.Itoa(60))
				response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the remote host. Forwarded headers are honoured only
// through RealIP, which rewrites RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
