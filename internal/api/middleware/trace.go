package middleware

import (
	"log/slog"
	"net/http"

	"github.com/marchukov/upkeep-api/internal/api/shared"
)

// TraceMiddleware stamps every request context with a trace ID. Apply it
// before any handler that logs or writes error responses, since both
// read the ID back out of the context.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		slog.Debug("request started",
			slog.String("trace_id", traceID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
