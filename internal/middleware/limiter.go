package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/wizzzeystore/wizzzey-store-web/internal/logger"
	"github.com/wizzzeystore/wizzzey-store-web/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Rate Limit Tiers
const (
	// Collection management (Strict)
	limitStrict = rate.Limit(2)
	burstStrict = 5

	// Internal / trusted services
	limitInternal = rate.Limit(100)
	burstInternal = 200

	// Frontend-heavy clients get twice the general quota.
	frontendFactor = 2

	visitorTTL      = 3 * time.Minute
	cleanupInterval = time.Minute
)

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per visitor and tier.
type RateLimiter struct {
	general     rate.Limit
	burst       int
	internalKey string

	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewRateLimiter builds a limiter whose general tier allows rps requests per
// second with the given burst.
func NewRateLimiter(rps float64, burst int, internalKey string) *RateLimiter {
	if rps <= 0 {
		rps = 10
	}
	if burst <= 0 {
		burst = 20
	}
	return &RateLimiter{
		general:     rate.Limit(rps),
		burst:       burst,
		internalKey: internalKey,
		visitors:    make(map[string]*visitor),
	}
}

// getVisitor retrieves or creates a rate limiter for the given key.
func (rl *RateLimiter) getVisitor(key string, r rate.Limit, b int) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(r, b)
		rl.visitors[key] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// Cleanup drops idle visitors until ctx is done.
func (rl *RateLimiter) Cleanup(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.evict(time.Now())
		}
	}
}

func (rl *RateLimiter) evict(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	n := 0
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(rl.visitors, key)
			n++
		}
	}
	return n
}

// Middleware rejects requests over the visitor's quota with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, burst, tier := rl.resolveRateTier(r)

		// Same visitor gets separate quotas per tier, e.g. "ip:1.2.3.4:general".
		key := fmt.Sprintf("%s:%s", visitorIdentity(r), tier)

		if !rl.getVisitor(key, limit, burst).Allow() {
			logger.FromCtx(r.Context()).Warn("rate limit exceeded",
				zap.String("tier", tier),
				zap.String("path", r.URL.Path),
			)
			utils.WriteJSONError(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// resolveRateTier determines which rate limit policy applies to the request.
func (rl *RateLimiter) resolveRateTier(r *http.Request) (rate.Limit, int, string) {
	if rl.internalKey != "" && r.Header.Get(ServiceAuthHeader) == rl.internalKey {
		return limitInternal, burstInternal, "internal"
	}
	if strings.HasPrefix(r.URL.Path, "/api/admin/") {
		return limitStrict, burstStrict, "strict"
	}
	if r.Header.Get("X-Client-Type") == "frontend-heavy" {
		return rl.general * frontendFactor, rl.burst * frontendFactor, "frontend"
	}
	return rl.general, rl.burst, "general"
}

func visitorIdentity(r *http.Request) string {
	if deviceID := r.Header.Get("X-Device-ID"); deviceID != "" {
		return "device:" + deviceID
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}
