package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit throttles requests per client IP with a token bucket. Run chi's
// RealIP first when the service sits behind a proxy.
type RateLimit struct {
	limit     rate.Limit
	perMinute float64
	burst     int
	idle      time.Duration

	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimit allows perMinute requests per client with the given burst.
// A non-positive perMinute disables limiting.
func NewRateLimit(perMinute float64, burst int) *RateLimit {
	if burst <= 0 {
		burst = 1
	}
	lim := rate.Inf
	if perMinute > 0 {
		lim = rate.Limit(perMinute / 60)
	}
	return &RateLimit{
		limit:     lim,
		perMinute: perMinute,
		burst:     burst,
		idle:      10 * time.Minute,
		clients:   make(map[string]*clientLimiter),
		now:       time.Now,
	}
}

func (rl *RateLimit) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.limit == rate.Inf || rl.get(clientKey(r)).Allow() {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfterSeconds()))
		writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":   "rate_limited",
			"message": "too many requests, retry later",
		})
	})
}

// Clients reports how many client buckets are tracked.
func (rl *RateLimit) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

func (rl *RateLimit) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > rl.idle {
		for k, c := range rl.clients {
			if now.Sub(c.lastSeen) > rl.idle {
				delete(rl.clients, k)
			}
		}
		rl.lastSweep = now
	}

	c, ok := rl.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter
}

func (rl *RateLimit) retryAfterSeconds() int {
	s := int(math.Ceil(60 / rl.perMinute))
	if s < 1 {
		s = 1
	}
	return s
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
