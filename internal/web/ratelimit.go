package web

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// rateLimiter keeps one token bucket per client address.
type rateLimiter struct {
	mu     sync.Mutex
	limits map[string]*rate.Limiter
	every  time.Duration
	burst  int
}

func newRateLimiter(every time.Duration, burst int) *rateLimiter {
	return &rateLimiter{
		limits: make(map[string]*rate.Limiter),
		every:  every,
		burst:  burst,
	}
}

func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	limiter, ok := rl.limits[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(rl.every), rl.burst)
		rl.limits[key] = limiter
	}
	rl.mu.Unlock()
	return limiter.Allow()
}

// rateLimit rejects clients that generate quizzes faster than the limiter allows.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			handleError(w, r, &APIError{
				Code:    CodeRateLimited,
				Message: "too many quiz requests, slow down",
				Status:  http.StatusTooManyRequests,
			})
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
