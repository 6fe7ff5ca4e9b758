package middleware

import (
	"net"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hugh/go-planner/internal/tenant"
)

// limiter admits at most limit requests per key in any trailing window.
// Each key keeps the times of its admitted requests, oldest first; idle keys
// are swept lazily once per window instead of by a background goroutine.
type limiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	hits      map[string][]time.Time
	lastSweep time.Time
}

func newLimiter(limit, windowSeconds int) *limiter {
	if limit <= 0 {
		limit = 100
	}
	if windowSeconds <= 0 {
		windowSeconds = 60
	}
	return &limiter{
		limit:  limit,
		window: time.Duration(windowSeconds) * time.Second,
		now:    time.Now,
		hits:   make(map[string][]time.Time),
	}
}

// take records a request for key when the window has room. It returns
// whether the request is admitted, how many remain and when the window next
// frees a slot.
func (l *limiter) take(key string) (bool, int, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(now)
	}

	hits := live(l.hits[key], now.Add(-l.window))
	if len(hits) >= l.limit {
		l.hits[key] = hits
		return false, 0, hits[0].Add(l.window)
	}

	hits = append(hits, now)
	l.hits[key] = hits
	return true, l.limit - len(hits), hits[0].Add(l.window)
}

// sweep forgets keys with no request inside the window. Caller holds mu.
func (l *limiter) sweep(now time.Time) {
	cutoff := now.Add(-l.window)
	for key, hits := range l.hits {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(l.hits, key)
		}
	}
	l.lastSweep = now
}

// live drops the hits at or before cutoff.
func live(hits []time.Time, cutoff time.Time) []time.Time {
	i := sort.Search(len(hits), func(i int) bool { return hits[i].After(cutoff) })
	return hits[i:]
}

// admit records a request for key, sets the rate limit headers and answers
// 429 when the window is full.
func (l *limiter) admit(w http.ResponseWriter, key string) bool {
	allowed, remaining, resetTime := l.take(key)

	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

	if !allowed {
		w.Header().Set("Retry-After", strconv.FormatInt(int64(resetTime.Sub(l.now()).Seconds())+1, 10))
		writeError(w, http.StatusTooManyRequests, "Rate limit exceeded")
		return false
	}
	return true
}

// RateLimit limits requests per client IP.
func RateLimit(requests int, windowSeconds int) func(http.Handler) http.Handler {
	limiter := newLimiter(requests, windowSeconds)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := getClientIP(r)

			if !limiter.admit(w, key) {
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP prefers the proxy headers and falls back to RemoteAddr without
// its port.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// RateLimitByUser limits authenticated callers per user id.
func RateLimitByUser(requests int, windowSeconds int) func(http.Handler) http.Handler {
	limiter := newLimiter(requests, windowSeconds)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Authenticated callers are limited per user, everyone else per IP.
			key := getClientIP(r)
			if actor, err := tenant.FromContext(r.Context()); err == nil {
				key = "user:" + actor.UserID.String()
			}

			if !limiter.admit(w, key) {
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
