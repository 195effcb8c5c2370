package middleware

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"lifeos-backend/internal/contextutil"

	chimw "github.com/go-chi/chi/v5/middleware"
)

const accessKey contextKey = "access"

type accessInfo struct {
	userID string
}

func setAccessUser(ctx context.Context, userID string) {
	if info, ok := ctx.Value(accessKey).(*accessInfo); ok {
		info.userID = userID
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// LoggerMiddleware attaches a request-scoped logger and writes one access line per request.
// It expects chi's RequestID middleware to run first.
func LoggerMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			logger := base.With(
				"request_id", chimw.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
			)

			info := &accessInfo{}
			ctx := context.WithValue(r.Context(), accessKey, info)
			ctx = contextutil.WithLogger(ctx, logger)

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r.WithContext(ctx))

			userID := info.userID
			if userID == "" {
				userID = "anonymous"
			}

			logger.Info("request completed",
				"remote_addr", r.RemoteAddr,
				"status", rw.statusCode,
				"duration", time.Since(start),
				"user", userID,
			)
		})
	}
}
