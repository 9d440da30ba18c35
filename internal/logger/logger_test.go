package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit(t *testing.T) {
	originalLog := log.Load()
	defer log.Store(originalLog)

	t.Run("Production", func(t *testing.T) {
		Init("production")
		assert.NotNil(t, log.Load())
	})

	t.Run("Development", func(t *testing.T) {
		Init("development")
		assert.NotNil(t, log.Load())
	})

	t.Run("LevelOverride", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "error")
		Init("production")
		assert.False(t, log.Load().Core().Enabled(zapcore.WarnLevel))
		assert.True(t, log.Load().Core().Enabled(zapcore.ErrorLevel))
	})
}

func TestL(t *testing.T) {
	originalLog := log.Load()
	defer log.Store(originalLog)

	// Force nil to test lazy initialization
	log.Store(nil)
	t.Setenv("APP_ENV", "test")

	l := L()
	assert.NotNil(t, l)
	assert.Same(t, l, log.Load())
}

func TestL_ConcurrentFirstUse(t *testing.T) {
	originalLog := log.Load()
	defer log.Store(originalLog)

	log.Store(nil)
	t.Setenv("APP_ENV", "test")

	const workers = 50
	got := make([]*zap.Logger, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = L()
		}()
	}
	wg.Wait()

	for _, l := range got {
		assert.Same(t, got[0], l)
	}
}

func TestReplace(t *testing.T) {
	originalLog := L()
	nop := zap.NewNop()

	restore := Replace(nop)
	assert.Same(t, nop, L())

	restore()
	assert.Same(t, originalLog, log.Load())
}

func TestContextFunctions(t *testing.T) {
	ctx := context.Background()
	reqID := "test-request-id-123"

	t.Run("WithRequestID", func(t *testing.T) {
		newCtx := WithRequestID(ctx, reqID)
		assert.Equal(t, reqID, newCtx.Value(requestIDKey))
	})

	t.Run("RequestIDFrom", func(t *testing.T) {
		assert.Equal(t, reqID, RequestIDFrom(WithRequestID(ctx, reqID)))
		assert.Equal(t, "", RequestIDFrom(ctx))
	})
}

func TestFromCtx(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	defer Replace(zap.New(core))()

	t.Run("WithRequestID", func(t *testing.T) {
		reqID := "req-abc-123"
		ctx := WithRequestID(context.Background(), reqID)

		FromCtx(ctx).Info("test message with id")

		logs := observed.TakeAll()
		assert.Len(t, logs, 1)
		assert.Equal(t, "test message with id", logs[0].Message)
		assert.Equal(t, reqID, logs[0].ContextMap()["request_id"])
	})

	t.Run("WithoutRequestID", func(t *testing.T) {
		FromCtx(context.Background()).Info("test message without id")

		logs := observed.TakeAll()
		assert.Len(t, logs, 1)
		_, ok := logs[0].ContextMap()["request_id"]
		assert.False(t, ok)
	})
}

func TestSync(t *testing.T) {
	assert.NotPanics(t, func() {
		Sync()
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, RequestIDFrom(r.Context()))
	})

	handler := RequestIDMiddleware(nextHandler)

	t.Run("Generates ID when missing", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	})

	t.Run("Preserves existing ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, "test-id-123")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "test-id-123", w.Header().Get(RequestIDHeader))
	})
}

func TestLoggingMiddleware(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	defer Replace(zap.New(core))()

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest("GET", "/api/shop?page=2", nil)
	w := httptest.NewRecorder()

	LoggingMiddleware(nextHandler).ServeHTTP(w, req)

	logs := observed.TakeAll()
	assert.Len(t, logs, 1)
	assert.Equal(t, "incoming request", logs[0].Message)
	fields := logs[0].ContextMap()
	assert.Equal(t, "/api/shop", fields["path"])
	assert.Equal(t, "page=2", fields["query"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
}
