package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/tbourn/go-booking-backend/internal/metrics"
)

const (
	bucketIdleTTL = 10 * time.Minute
	sweepEvery    = 4096
)

// KeyFunc maps a request to the identity whose bucket it draws from.
type KeyFunc func(*gin.Context) string

// KeyByIP buckets requests per client address. The site has no accounts,
// so the address is the only identity available.
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string { return "ip:" + c.ClientIP() }
}

// KeyByRouteAndIP gives every route its own bucket per client address, so a
// burst of chat messages does not block the contact form.
func KeyByRouteAndIP() KeyFunc {
	return func(c *gin.Context) string { return "route:" + routeOf(c) + "|ip:" + c.ClientIP() }
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter is an in-process token bucket per key. Buckets idle for longer
// than bucketIdleTTL are swept every sweepEvery lookups. Limits are per
// replica; they protect the paid providers from a single noisy client and
// are not an authorization mechanism.
type RateLimiter struct {
	name   string
	limit  rate.Limit
	burst  int
	key    KeyFunc
	exempt map[string]struct{}
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
	lookups int
}

// NewRateLimiter builds a limiter refilling rps tokens per second up to
// burst (at least 1). name labels the rejections metric.
func NewRateLimiter(name string, rps float64, burst int, key KeyFunc) *RateLimiter {
	return &RateLimiter{
		name:    name,
		limit:   rate.Limit(rps),
		burst:   max(burst, 1),
		key:     key,
		exempt:  map[string]struct{}{},
		now:     time.Now,
		buckets: map[string]*bucket{},
	}
}

// Exempt lists paths that never draw tokens, such as probes and scrapes.
// Call it before serving.
func (rl *RateLimiter) Exempt(paths ...string) *RateLimiter {
	for _, p := range paths {
		rl.exempt[p] = struct{}{}
	}
	return rl
}

func (rl *RateLimiter) exempted(c *gin.Context) bool {
	if c.Request == nil || c.Request.URL == nil {
		return false
	}
	_, ok := rl.exempt[c.Request.URL.Path]
	return ok
}

// limiterFor returns the bucket of key, sweeping idle buckets first so that
// a stale bucket is replaced rather than refreshed.
func (rl *RateLimiter) limiterFor(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.lookups++; rl.lookups >= sweepEvery {
		rl.lookups = 0
		for k, b := range rl.buckets {
			if now.Sub(b.seen) >= bucketIdleTTL {
				delete(rl.buckets, k)
			}
		}
	}

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.seen = now
	return b.lim
}

// Handler rejects requests without an available token with 429 and a
// Retry-After telling the client when the next token is due.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.exempted(c) {
			c.Next()
			return
		}

		now := rl.now()
		res := rl.limiterFor(rl.key(c), now).ReserveN(now, 1)
		delay := res.DelayFrom(now)
		if res.OK() && delay == 0 {
			c.Next()
			return
		}
		res.CancelAt(now)

		retry := 1
		if res.OK() {
			retry = max(int(math.Ceil(delay.Seconds())), 1)
		}
		metrics.RecordRateLimited(rl.name, routeOf(c))
		c.Header("Retry-After", strconv.Itoa(retry))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": RequestIDFrom(c),
			"code":       "too_many_requests",
			"message":    "troppe richieste, riprova più tardi",
		})
	}
}
