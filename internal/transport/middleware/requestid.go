package middleware

import (
	"context"
	"net/http"

	"github.com/frahmantamala/asset-management/pkg/logger"

	"github.com/google/uuid"
)

type traceIDKey struct{}

// TraceIDFromContext returns the id RequestID assigned, or "" outside it.
func TraceIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}

// RequestID tags every request with a trace id. Inbound X-Trace-ID headers are
// honored only when they parse as a UUID; anything else gets replaced so log
// correlation keys stay well-formed.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), traceIDKey{}, traceID)
		ctx = logger.With(ctx, "traceID", traceID)
		w.Header().Set("X-Trace-ID", traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
