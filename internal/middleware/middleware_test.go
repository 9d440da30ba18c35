package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/wizzzeystore/wizzzey-store-web/internal/metrics"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCors(t *testing.T) {
	handler := CORS("http://localhost:3000")(okHandler())

	t.Run("OPTIONS request", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/shop", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Normal request", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/shop", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Unknown origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/shop", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Wildcard", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/shop", nil)
		w := httptest.NewRecorder()

		CORS("*")(okHandler()).ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequireServiceKey(t *testing.T) {
	t.Run("Missing key", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/admin/collections", nil)
		w := httptest.NewRecorder()

		RequireServiceKey("secret")(okHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Wrong key", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/admin/collections", nil)
		req.Header.Set(ServiceAuthHeader, "nope")
		w := httptest.NewRecorder()

		RequireServiceKey("secret")(okHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Valid key", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/admin/collections", nil)
		req.Header.Set(ServiceAuthHeader, "secret")
		w := httptest.NewRecorder()

		RequireServiceKey("secret")(okHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("No secret configured", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/admin/collections", nil)
		w := httptest.NewRecorder()

		RequireServiceKey("")(okHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	t.Run("Blocks after burst", func(t *testing.T) {
		rl := NewRateLimiter(1, 2, "")
		handler := rl.Middleware(okHandler())

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest("GET", "/api/shop", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			codes = append(codes, w.Code)
		}

		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})

	t.Run("Visitors are separate", func(t *testing.T) {
		rl := NewRateLimiter(1, 1, "")
		handler := rl.Middleware(okHandler())

		for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
			req := httptest.NewRequest("GET", "/api/shop", nil)
			req.RemoteAddr = addr
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}

		req := httptest.NewRequest("GET", "/api/shop", nil)
		req.RemoteAddr = "10.0.0.1:2"
		req.Header.Set("X-Device-ID", "phone-1")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Tiers", func(t *testing.T) {
		rl := NewRateLimiter(5, 10, "internal-secret")

		req := httptest.NewRequest("GET", "/api/shop", nil)
		limit, burst, tier := rl.resolveRateTier(req)
		assert.Equal(t, "general", tier)
		assert.Equal(t, 5.0, float64(limit))
		assert.Equal(t, 10, burst)

		req.Header.Set("X-Client-Type", "frontend-heavy")
		limit, burst, tier = rl.resolveRateTier(req)
		assert.Equal(t, "frontend", tier)
		assert.Equal(t, 10.0, float64(limit))
		assert.Equal(t, 20, burst)

		admin := httptest.NewRequest("POST", "/api/admin/collections", nil)
		_, _, tier = rl.resolveRateTier(admin)
		assert.Equal(t, "strict", tier)

		admin.Header.Set(ServiceAuthHeader, "internal-secret")
		_, burst, tier = rl.resolveRateTier(admin)
		assert.Equal(t, "internal", tier)
		assert.Equal(t, burstInternal, burst)
	})

	t.Run("Defaults", func(t *testing.T) {
		rl := NewRateLimiter(0, 0, "")
		assert.Equal(t, 10.0, float64(rl.general))
		assert.Equal(t, 20, rl.burst)
	})

	t.Run("Evicts idle visitors", func(t *testing.T) {
		rl := NewRateLimiter(1, 1, "")
		rl.getVisitor("ip:1:general", rl.general, rl.burst)
		rl.getVisitor("ip:2:general", rl.general, rl.burst)
		rl.visitors["ip:1:general"].lastSeen = time.Now().Add(-10 * time.Minute)

		assert.Equal(t, 1, rl.evict(time.Now()))
		assert.Len(t, rl.visitors, 1)
		assert.Contains(t, rl.visitors, "ip:2:general")
	})
}

func TestMetrics(t *testing.T) {
	r := mux.NewRouter()
	r.Use(Metrics)
	r.HandleFunc("/api/collections/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	counter := metrics.HTTPRequests.WithLabelValues("/api/collections/{slug}", "404")
	before := testutil.ToFloat64(counter)

	for _, slug := range []string{"summer", "winter"} {
		req := httptest.NewRequest("GET", "/api/collections/"+slug, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}
