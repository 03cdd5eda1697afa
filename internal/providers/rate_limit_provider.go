package providers

import (
	"net"
	"net/http"
	"plantao/internal/structures"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const staleBucketAge = 10 * time.Minute

type RateLimiterInterface interface {
	// Allow reports whether a request from key may proceed and, if not,
	// how long the client should wait.
	Allow(key string) (bool, time.Duration)
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client key. Idle buckets are
// swept lazily from Allow.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	rate      rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(conf *structures.Config, logger Logger) RateLimiterInterface {
	rl := conf.RateLimit
	if !rl.Enabled || rl.Requests <= 0 || rl.Window <= 0 {
		return &noopLimiter{}
	}
	burst := max(rl.Burst, 1)
	logger.Infof(TypeApp, "Write rate limit: %d requests per %s, burst %d", rl.Requests, rl.Window, burst)

	return &RateLimiter{
		buckets:   make(map[string]*bucket),
		rate:      rate.Limit(float64(rl.Requests) / rl.Window.Seconds()),
		burst:     burst,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) > staleBucketAge {
		l.sweep(now)
	}
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	l.mu.Unlock()

	reservation := b.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, time.Second
	}
	delay := reservation.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	reservation.CancelAt(now)
	return false, max(delay, time.Second)
}

// sweep must be called with mu held.
func (l *RateLimiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > staleBucketAge {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

type noopLimiter struct{}

func (n *noopLimiter) Allow(_ string) (bool, time.Duration) { return true, 0 }

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware rejects requests over the per-client budget with 429.
func RateLimitMiddleware(limiter RateLimiterInterface, metrics MetricsProviderInterface, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		ok, retryAfter := limiter.Allow(clientKey(r))
		if !ok {
			metrics.IncRateLimited()
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Round(time.Second).Seconds())))
			WriteJSONError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
