// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
)

// Policy is a named request budget. The name namespaces its Redis keys and
// labels rejections in metrics.
type Policy struct {
	Name  string
	Limit redis_rate.Limit
	Key   func(*http.Request) string
}

type LimitRecorder interface {
	RateLimited(ctx context.Context, policy string)
}

type RateLimitConfig struct {
	Policy   Policy
	Recorder LimitRecorder
}

// RateLimiter enforces one Policy through Redis. While Redis is unreachable
// each replica falls back to an in-process token bucket.
type RateLimiter struct {
	redis    *redis_rate.Limiter
	local    *memoryLimiter
	policy   Policy
	recorder LimitRecorder
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.Policy.Key == nil {
		cfg.Policy.Key = KeyByClientIP
	}
	if cfg.Policy.Name == "" {
		cfg.Policy.Name = "default"
	}

	return &RateLimiter{
		redis:    redis_rate.NewLimiter(rdb),
		local:    newMemoryLimiter(),
		policy:   cfg.Policy,
		recorder: cfg.Recorder,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "ratelimit:" + rl.policy.Name + ":" + rl.policy.Key(r)
		res := rl.allow(r.Context(), key)

		setRateLimitHeaders(w, res, rl.policy.Limit)

		if res.Allowed == 0 {
			if rl.recorder != nil {
				rl.recorder.RateLimited(r.Context(), rl.policy.Name)
			}
			writeRateLimitExceeded(w, res)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(ctx context.Context, key string) *redis_rate.Result {
	res, err := rl.redis.Allow(ctx, key, rl.policy.Limit)
	if err == nil {
		return res
	}

	slog.WarnContext(ctx, "rate limiter store unavailable, using local bucket",
		"policy", rl.policy.Name,
		"error", err,
	)
	return rl.local.allow(key, rl.policy.Limit)
}

// ClientIP prefers the address appended by the nearest proxy.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		if ip := strings.TrimSpace(hops[len(hops)-1]); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func KeyByClientIP(r *http.Request) string {
	return "ip:" + ClientIP(r)
}

// KeyBySubmitter budgets signed-in callers per user and everyone else per
// address. It must run after OptionalAuth.
func KeyBySubmitter(r *http.Request) string {
	if userID := GetUserID(r.Context()); userID != "" {
		return "user:" + userID
	}
	return KeyByClientIP(r)
}

func setRateLimitHeaders(
	w http.ResponseWriter,
	res *redis_rate.Result,
	limit redis_rate.Limit,
) {
	h := w.Header()

	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(
		time.Now().Add(res.ResetAfter).Unix(), 10))
	h.Set("RateLimit-Policy", fmt.Sprintf(`%d;w=%d`, limit.Rate, int(limit.Period.Seconds())))
}

func writeRateLimitExceeded(w http.ResponseWriter, res *redis_rate.Result) {
	retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
	if retryAfter < 1 {
		retryAfter = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

	core.JSON(w, http.StatusTooManyRequests, core.ErrorResponse{
		Message: fmt.Sprintf("Too many requests. Retry after %d seconds.", retryAfter),
		Code:    "RATE_LIMITED",
	})
}

const (
	sweepInterval = 5 * time.Minute
	entryIdle     = 10 * time.Minute
)

type memoryEntry struct {
	limiter *rate.Limiter
	seen    time.Time
}

type memoryLimiter struct {
	mu        sync.Mutex
	entries   map[string]*memoryEntry
	lastSweep time.Time
	now       func() time.Time
}

func newMemoryLimiter() *memoryLimiter {
	return &memoryLimiter{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (m *memoryLimiter) allow(key string, limit redis_rate.Limit) *redis_rate.Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) > sweepInterval {
		for k, e := range m.entries {
			if now.Sub(e.seen) > entryIdle {
				delete(m.entries, k)
			}
		}
		m.lastSweep = now
	}

	perSecond := rate.Inf
	if limit.Period > 0 && limit.Rate > 0 {
		perSecond = rate.Limit(float64(limit.Rate) / limit.Period.Seconds())
	}

	e, ok := m.entries[key]
	if !ok {
		e = &memoryEntry{limiter: rate.NewLimiter(perSecond, max(limit.Burst, 1))}
		m.entries[key] = e
	}
	e.seen = now

	var interval time.Duration
	if perSecond != rate.Inf {
		interval = time.Duration(float64(time.Second) / float64(perSecond))
	}

	res := &redis_rate.Result{
		Limit:      limit,
		RetryAfter: -1,
		ResetAfter: interval,
	}
	if e.limiter.AllowN(now, 1) {
		res.Allowed = 1
	} else {
		res.RetryAfter = interval
	}
	res.Remaining = max(int(e.limiter.TokensAt(now)), 0)

	return res
}

func PerMinute(rate, burst int) redis_rate.Limit {
	return PerWindow(rate, burst, time.Minute)
}

// PerWindow builds a limit of rate requests per window.
func PerWindow(rate, burst int, window time.Duration) redis_rate.Limit {
	return redis_rate.Limit{
		Rate:   rate,
		Burst:  burst,
		Period: window,
	}
}
