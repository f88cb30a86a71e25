package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sitesmith/sitesmith/internal/common/httpx"
)

// Router creates the router for authentication endpoints. Login is the
// only unauthenticated route; everything else requires a valid session
// token.
func Router() chi.Router {
	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Method(http.MethodPost, "/login", httpx.WrapHttpRsp(LoginUser))
	})
	router.Group(func(r chi.Router) {
		r.Use(UserAuthMiddleware)
		r.Method(http.MethodPost, "/logout", httpx.WrapHttpRsp(LogoutUser))
		r.Method(http.MethodGet, "/session", httpx.WrapHttpRsp(GetSession))
		r.Get("/events", SessionEvents)
	})
	return router
}
