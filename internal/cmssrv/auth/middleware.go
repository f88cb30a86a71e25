package auth

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sitesmith/sitesmith/internal/common/httpx"
)

// UserAuthMiddleware authenticates requests with a bearer session token.
// WebSocket clients cannot set headers, so a token query parameter is
// accepted as a fallback.
func UserAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := ""
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		} else if qt := r.URL.Query().Get("token"); qt != "" {
			token = qt
		}

		if token == "" {
			log.Ctx(ctx).Warn().Msg("missing or invalid authorization header")
			httpx.ErrUnAuthorized("missing or invalid authorization header").Send(w)
			return
		}

		ctx, err := ValidateToken(ctx, token)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("token validation failed")
			httpx.ErrUnAuthorized("invalid authorization. login required").Send(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
