package httpapi

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/triptales/internal/common"
	"golang.org/x/time/rate"
)

type ipLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// LoginLimiter throttles login attempts per client IP.
type LoginLimiter struct {
	limit rate.Limit
	burst int
	// retryAfter is the refill time of one attempt, in whole seconds.
	retryAfter int
	now        func() time.Time

	mu       sync.Mutex
	limiters map[string]*ipLimiter
}

// NewLoginLimiter allows perMinute attempts per IP, refilled evenly over a
// minute. A non-positive perMinute disables throttling.
func NewLoginLimiter(perMinute int64) *LoginLimiter {
	l := &LoginLimiter{
		limit:      rate.Inf,
		burst:      1,
		retryAfter: 1,
		now:        time.Now,
		limiters:   make(map[string]*ipLimiter),
	}
	if perMinute > 0 {
		l.limit = rate.Limit(float64(perMinute) / 60.0)
		l.burst = int(perMinute)
		l.retryAfter = int(max((60+perMinute-1)/perMinute, 1))
	}
	return l
}

func (l *LoginLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.limiters[ip]
	if !ok {
		e = &ipLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = e
	}
	e.lastAccess = now
	return e.limiter.AllowN(now, 1)
}

// Len reports how many client IPs are tracked.
func (l *LoginLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Cleanup forgets IPs not seen for longer than idle.
func (l *LoginLimiter) Cleanup(idle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for ip, e := range l.limiters {
		if now.Sub(e.lastAccess) > idle {
			delete(l.limiters, ip)
		}
	}
}

// Run calls Cleanup every interval until ctx is done.
func (l *LoginLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Cleanup(2 * interval)
		case <-ctx.Done():
			return
		}
	}
}

// Middleware answers 429 with Retry-After once the caller's IP is out of
// attempts.
func (l *LoginLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(l.retryAfter))
			writeError(w, common.ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
