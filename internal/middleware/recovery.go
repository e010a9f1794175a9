package middleware

import (
	"net/http"
	"runtime/debug"

	"inventory-api/pkg/api"

	"go.uber.org/zap"
)

// Recovery converts panics into a 500 response and logs them with their stack.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					LoggerFor(r.Context(), logger).Error("Panic recovered",
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.Any("panic", err),
						zap.ByteString("stack", debug.Stack()),
					)

					// Headers already sent means the body is partial; nothing to fix.
					if w.Header().Get("Content-Type") == "" {
						api.Error(w, http.StatusInternalServerError, "An internal error occurred")
					}
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
