package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/avialine/backoffice/internal/http/response"
)

// RateLimiter is a fixed-window per-client limiter for coarse request
// throttling. It is not the login brute-force guard; that lives in the
// service layer and is keyed by identity, not by client address.
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	windows map[string]*rateWindow
	sweepAt time.Time
}

type rateWindow struct {
	count   int
	startAt time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		windows: make(map[string]*rateWindow),
		sweepAt: time.Now().Add(window),
	}
}

func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, retryAfter := rl.allow(requestIP(r))
			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Round(time.Second).Seconds())))
				response.Error(w, r, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) allow(key string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.After(rl.sweepAt) {
		for k, win := range rl.windows {
			if now.Sub(win.startAt) > 2*rl.window {
				delete(rl.windows, k)
			}
		}
		rl.sweepAt = now.Add(rl.window)
	}

	win, ok := rl.windows[key]
	if !ok || now.Sub(win.startAt) >= rl.window {
		win = &rateWindow{startAt: now}
		rl.windows[key] = win
	}
	if win.count >= rl.limit {
		retry := win.startAt.Add(rl.window).Sub(now)
		if retry <= 0 {
			retry = time.Second
		}
		return false, retry
	}
	win.count++
	return true, 0
}
