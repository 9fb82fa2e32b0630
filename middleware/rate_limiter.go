package middleware

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"stakevault/utils"
)

// In-memory sliding-window rate limiting, per IP for unauthenticated traffic
// and per user for authenticated traffic. Memory only; a multi-instance
// deployment would move this to Redis.

type timestamps []int64 // unix nanos

func nowUnix() int64 { return time.Now().UnixNano() }

func getEnvDuration(key string, def time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return time.Duration(v) * time.Second
		}
	}
	return def
}

// clientIPGeneric returns the client IP. X-Forwarded-For / X-Real-IP are
// honored only when the remote address is inside one of the trusted CIDRs or
// IPs, otherwise a client could spoof its way past the limiter.
func clientIPGeneric(r *http.Request, trustedCIDR []string) string {
	remoteHost, _, _ := net.SplitHostPort(r.RemoteAddr)
	remoteIP := net.ParseIP(remoteHost)
	trusted := false
	for _, cidr := range trustedCIDR {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}
		if strings.Contains(cidr, "/") {
			if _, ipnet, err := net.ParseCIDR(cidr); err == nil {
				if remoteIP != nil && ipnet.Contains(remoteIP) {
					trusted = true
					break
				}
			}
			continue
		}
		if ip := net.ParseIP(cidr); ip != nil && remoteIP != nil && ip.Equal(remoteIP) {
			trusted = true
			break
		}
	}
	if trusted {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			if len(parts) > 0 {
				return strings.TrimSpace(parts[0])
			}
		}
		if xr := r.Header.Get("X-Real-IP"); xr != "" {
			return strings.TrimSpace(xr)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func tooManyRequests(w http.ResponseWriter, retryAfter int) {
	w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": "Too many requests, try again later",
		"data":    map[string]interface{}{"retry_after_seconds": retryAfter},
	})
}

type slidingWindow struct {
	mu          sync.Mutex
	state       map[string]timestamps
	window      time.Duration
	cleanupTick time.Duration
}

func newSlidingWindow(window time.Duration) *slidingWindow {
	s := &slidingWindow{
		state:       make(map[string]timestamps),
		window:      window,
		cleanupTick: getEnvDuration("RATE_CLEANUP_SECONDS", 60*time.Second),
	}
	go s.cleanupLoop()
	return s
}

// hit records one request under key and returns the in-window count plus the
// seconds until the oldest request leaves the window.
func (s *slidingWindow) hit(key string) (int, int) {
	now := nowUnix()
	cutoff := now - int64(s.window)

	s.mu.Lock()
	defer s.mu.Unlock()

	var filtered timestamps
	for _, ts := range s.state[key] {
		if ts >= cutoff {
			filtered = append(filtered, ts)
		}
	}
	filtered = append(filtered, now)
	s.state[key] = filtered

	retryAfter := int((filtered[0] + int64(s.window) - now) / 1e9)
	if retryAfter < 1 {
		retryAfter = 1
	}
	return len(filtered), retryAfter
}

func (s *slidingWindow) cleanupLoop() {
	tick := time.NewTicker(s.cleanupTick)
	defer tick.Stop()
	for range tick.C {
		cutoff := nowUnix() - int64(s.window)
		s.mu.Lock()
		for k, arr := range s.state {
			var filtered timestamps
			for _, ts := range arr {
				if ts >= cutoff {
					filtered = append(filtered, ts)
				}
			}
			if len(filtered) == 0 {
				delete(s.state, k)
			} else {
				s.state[k] = filtered
			}
		}
		s.mu.Unlock()
	}
}

// IPRateLimiter limits unauthenticated traffic per client IP.
type IPRateLimiter struct {
	win         *slidingWindow
	max         int
	trustedCIDR []string
}

func NewIPRateLimiter(maxReq int, window time.Duration) *IPRateLimiter {
	l := &IPRateLimiter{win: newSlidingWindow(window), max: maxReq}
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		l.trustedCIDR = strings.Split(v, ",")
	}
	return l
}

func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count, retryAfter := l.win.hit(clientIPGeneric(r, l.trustedCIDR))

		remaining := l.max - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", l.max))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if count > l.max {
			tooManyRequests(w, retryAfter)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserRateLimiter limits authenticated traffic per user, with separate
// budgets for reads and writes. Requests without a user in context fall
// through to the IP limiter.
type UserRateLimiter struct {
	win      *slidingWindow
	maxRead  int
	maxWrite int
}

func NewUserRateLimiter(maxRead, maxWrite, windowSec int) *UserRateLimiter {
	return &UserRateLimiter{
		win:      newSlidingWindow(time.Duration(windowSec) * time.Second),
		maxRead:  maxRead,
		maxWrite: maxWrite,
	}
}

func (l *UserRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := utils.GetUserID(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		kind := "r"
		limit := l.maxRead
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			kind = "w"
			limit = l.maxWrite
		}

		count, retryAfter := l.win.hit(fmt.Sprintf("u:%d:%s", uid, kind))
		if count > limit {
			tooManyRequests(w, retryAfter)
			return
		}
		next.ServeHTTP(w, r)
	})
}
