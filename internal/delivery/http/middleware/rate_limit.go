package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware keeps one token bucket per authenticated profile.
type RateLimitMiddleware struct {
	limit rate.Limit
	burst int

	mu        sync.Mutex
	entries   map[string]*limiterEntry
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimitMiddleware allows perMinute requests per profile with the given burst.
// perMinute <= 0 disables limiting.
func NewRateLimitMiddleware(perMinute, burst int) *RateLimitMiddleware {
	if burst <= 0 {
		burst = 1
	}
	lim := rate.Inf
	if perMinute > 0 {
		lim = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return &RateLimitMiddleware{
		limit:   lim,
		burst:   burst,
		entries: map[string]*limiterEntry{},
		now:     time.Now,
	}
}

func (m *RateLimitMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if m.limit == rate.Inf {
			return c.Next()
		}

		key := c.IP()
		if pid, ok := ProfileID(c); ok {
			key = pid.String()
		}

		if wait, ok := m.reserve(key); !ok {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			return NewAppError(fiber.StatusTooManyRequests, "Too many caption requests, please wait a moment", nil, nil)
		}
		return c.Next()
	}
}

func (m *RateLimitMiddleware) reserve(key string) (time.Duration, bool) {
	now := m.now()

	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.entries[key] = e
	}
	e.lastSeen = now
	if now.Sub(m.lastSweep) > limiterIdleTTL {
		m.sweep(now)
	}
	m.mu.Unlock()

	r := e.limiter.ReserveN(now, 1)
	if !r.OK() {
		return time.Second, false
	}
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return d, false
	}
	return 0, true
}

func (m *RateLimitMiddleware) sweep(now time.Time) {
	for k, e := range m.entries {
		if now.Sub(e.lastSeen) > limiterIdleTTL {
			delete(m.entries, k)
		}
	}
	m.lastSweep = now
}
