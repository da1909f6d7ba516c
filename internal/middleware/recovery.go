package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"atelier/internal/httputil"
)

// Recovery converts handler panics into problem responses so a single bad
// request cannot take the workspace down. The log entry carries the request
// line, the authenticated user when one is present, and the stack.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					attrs := []any{
						"panic", v,
						"method", r.Method,
						"path", r.URL.Path,
					}
					if userID := httputil.GetUserID(r); userID != "" {
						attrs = append(attrs, "user_id", userID)
					}
					attrs = append(attrs, "stack", string(debug.Stack()))
					logger.Error("request panicked", attrs...)

					httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
