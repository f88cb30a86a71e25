// Package middleware provides HTTP middleware for request logging, panic
// recovery, and request timeouts. It integrates with zerolog and tags
// every request with a unique request ID for tracing.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sitesmith/sitesmith/internal/common/uuid"
)

// requestIdContextKey is a custom type for the request ID context key.
type requestIdContextKey string

const (
	requestIdKey    = requestIdContextKey("requestId")
	RequestIDHeader = "X-Sitesmith-Request-ID"
)

// RequestLogger logs incoming requests and adds a unique request ID to
// both the request context and the response headers. The request-scoped
// zerolog logger carries the ID so every downstream log line is
// correlated.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()

		requestID := newRequestId()
		ctx = context.WithValue(ctx, requestIdKey, requestID)
		ctx = log.With().Str("request_id", requestID).Logger().WithContext(ctx)

		w.Header().Set(RequestIDHeader, requestID)

		log.Ctx(ctx).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_ip", r.RemoteAddr).
			Str("proto", r.Proto).
			Msg("incoming request")

		defer func() {
			log.Ctx(ctx).Info().
				Str("duration", fmt.Sprintf("%dms", time.Since(start).Milliseconds())).
				Msg("request completed")
		}()

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIdFromContext returns the request ID stored by RequestLogger,
// or an empty string when absent.
func RequestIdFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIdKey).(string); ok {
		return id
	}
	return ""
}

// newRequestId generates a unique request identifier, falling back to a
// timestamp-based ID if UUID generation fails.
func newRequestId() string {
	u, err := uuid.NewRandom()
	if err == nil {
		return u.String()
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}
