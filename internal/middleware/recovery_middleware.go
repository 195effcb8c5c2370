package middleware

import (
	"net/http"
	"runtime/debug"

	"lifeos-backend/internal/contextutil"
	"lifeos-backend/pkg/response"
)

// RecoveryMiddleware turns a handler panic into a generic 500.
func RecoveryMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					contextutil.LoggerFromContext(r.Context()).Error("Unhandled panic",
						"panic", rec,
						"stack", string(debug.Stack()),
					)
					response.InternalError(w, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
