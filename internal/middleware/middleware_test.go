package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"inventory-api/pkg/api"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	t.Run("Should generate request ID when not provided", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()

		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NotEmpty(t, GetRequestIDFromRequest(r))
			w.WriteHeader(http.StatusOK)
		}))

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	})

	t.Run("Should use provided request ID", func(t *testing.T) {
		expectedID := "test-request-id"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, expectedID)
		w := httptest.NewRecorder()

		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, expectedID, GetRequestIDFromRequest(r))
			w.WriteHeader(http.StatusOK)
		}))

		handler.ServeHTTP(w, req)

		assert.Equal(t, expectedID, w.Header().Get(RequestIDHeader))
	})
}

func TestRequestIDSanitizing(t *testing.T) {
	for name, supplied := range map[string]string{
		"Newline":  "abc\nlevel=error msg=forged",
		"Space":    "abc def",
		"Quote":    `abc"`,
		"TooLong":  strings.Repeat("a", MaxRequestIDLength+1),
		"NonASCII": "idé",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set(RequestIDHeader, supplied)
			w := httptest.NewRecorder()

			var seen string
			RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetRequestIDFromRequest(r)
			})).ServeHTTP(w, req)

			assert.NotEqual(t, supplied, seen)
			_, err := uuid.Parse(seen)
			assert.NoError(t, err)
			assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
		})
	}

	t.Run("Should keep a well-formed id at the length limit", func(t *testing.T) {
		id := "trace-1:span_2." + strings.Repeat("x", MaxRequestIDLength-15)
		require.Len(t, id, MaxRequestIDLength)
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, id)
		w := httptest.NewRecorder()

		RequestID(okHandler()).ServeHTTP(w, req)

		assert.Equal(t, id, w.Header().Get(RequestIDHeader))
	})
}

func TestLoggerFor(t *testing.T) {
	t.Run("Should tag entries with the request id", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		ctx := context.WithValue(context.Background(), RequestIDKey, "req-7")

		LoggerFor(ctx, zap.New(core)).Info("hello")

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "req-7", logs.All()[0].ContextMap()["request_id"])
	})

	t.Run("Should leave the logger alone without an id", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)

		LoggerFor(context.Background(), zap.New(core)).Info("hello")

		require.Equal(t, 1, logs.Len())
		assert.NotContains(t, logs.All()[0].ContextMap(), "request_id")
	})

	t.Run("Should tolerate a nil logger", func(t *testing.T) {
		assert.NotNil(t, LoggerFor(context.Background(), nil))
	})
}

func TestGetRequestID(t *testing.T) {
	t.Run("Should return request ID from context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), RequestIDKey, "test-id")
		assert.Equal(t, "test-id", GetRequestID(ctx))
	})

	t.Run("Should return empty string when no request ID in context", func(t *testing.T) {
		assert.Empty(t, GetRequestID(context.Background()))
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	t.Run("Should handle panic gracefully", func(t *testing.T) {
		core, logs := observer.New(zapcore.ErrorLevel)
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()

		handler := Recovery(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("test panic")
		}))

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"An internal error occurred"}`, w.Body.String())
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "Panic recovered", logs.All()[0].Message)
	})

	t.Run("Should pass through normal requests", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()

		Recovery(nil)(okHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestTimeoutMiddleware(t *testing.T) {
	t.Run("Should allow normal requests to complete", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()

		handler := Timeout(5*time.Second, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Custom", "kept")
			api.Success(w, http.StatusCreated, map[string]string{"status": "ok"})
		}))

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "kept", w.Header().Get("X-Custom"))
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})

	t.Run("Should answer 503 when the deadline passes", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/slow", nil)
		w := httptest.NewRecorder()

		handler := Timeout(20*time.Millisecond, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
			api.Success(w, http.StatusOK, map[string]string{"status": "late"})
		}))

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"error":"Request timeout"}`, w.Body.String())
	})

	t.Run("Should be a no-op for a zero timeout", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()

		Timeout(0, nil)(okHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCircuitBreakerMiddleware(t *testing.T) {
	t.Run("Should pass through successful requests", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()

		CircuitBreaker(DefaultCircuitBreakerConfig("test"), nil)(okHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Should handle 5xx errors as failures", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()

		handler := CircuitBreaker(DefaultCircuitBreakerConfig("test-failure"), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			api.Error(w, http.StatusInternalServerError, "boom")
		}))

		handler.ServeHTTP(w, req)

		// The breaker records the failure but keeps the handler's response.
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"boom"}`, w.Body.String())
	})

	t.Run("Should open after sustained failures", func(t *testing.T) {
		config := DefaultCircuitBreakerConfig("test-trip")
		handler := CircuitBreaker(config, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		for i := 0; i < int(config.MinRequests); i++ {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
			assert.Equal(t, http.StatusInternalServerError, w.Code)
		}

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("Should not count client errors", func(t *testing.T) {
		config := DefaultCircuitBreakerConfig("test-4xx")
		handler := CircuitBreaker(config, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			api.Error(w, http.StatusUnprocessableEntity, "bad input")
		}))

		for i := 0; i < int(config.MinRequests)*2; i++ {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		}
	})
}

func TestLoggerMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := RequestID(Logger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.Error(w, http.StatusNotFound, "item not found")
	})))

	req := httptest.NewRequest("DELETE", "/items/abc", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	ctx := entry.ContextMap()
	assert.Equal(t, "req-1", ctx["request_id"])
	assert.Equal(t, "DELETE", ctx["method"])
	assert.Equal(t, "/items/abc", ctx["path"])
	assert.EqualValues(t, http.StatusNotFound, ctx["status"])
}
