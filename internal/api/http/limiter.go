package http

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/pixelsinav/pixelsinav/internal/i18n"
)

const limiterIdle = 10 * time.Minute

type client struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// loginLimiter throttles login attempts per client address. Addresses idle for
// limiterIdle are forgotten.
type loginLimiter struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
}

func newLoginLimiter(perMinute int) *loginLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	return &loginLimiter{
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   perMinute,
		now:     time.Now,
		clients: map[string]*client{},
	}
}

func (l *loginLimiter) allow(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.Sub(l.lastSweep) > limiterIdle/2 {
		l.sweep(now)
	}
	c, found := l.clients[addr]
	if !found {
		c = &client{lim: rate.NewLimiter(l.limit, l.burst)}
		l.clients[addr] = c
	}
	c.lastSeen = now
	return c.lim.AllowN(now, 1)
}

// sweep drops idle clients. Callers hold l.mu.
func (l *loginLimiter) sweep(now time.Time) {
	for addr, c := range l.clients {
		if now.Sub(c.lastSeen) > limiterIdle {
			delete(l.clients, addr)
		}
	}
	l.lastSweep = now
}

func (l *loginLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *loginLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !l.allow(host) {
			w.Header().Set("Retry-After", "60")
			fail(w, r, http.StatusTooManyRequests, i18n.TooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
