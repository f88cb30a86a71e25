// Package server assembles the sitesmith HTTP server: middleware stack,
// route mounting, and the version and readiness endpoints.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/sitesmith/sitesmith/internal/cmssrv/apis"
	"github.com/sitesmith/sitesmith/internal/cmssrv/auth"
	"github.com/sitesmith/sitesmith/internal/cmssrv/config"
	"github.com/sitesmith/sitesmith/internal/cmssrv/db"
	"github.com/sitesmith/sitesmith/internal/cmssrv/sessionhub"
	commonmiddleware "github.com/sitesmith/sitesmith/internal/common/middleware"
)

// SiteServer is the sitesmith HTTP server.
type SiteServer struct {
	Router *chi.Mux
	store  db.Store
	hub    *sessionhub.Hub
}

// CreateNewServer creates a server over the given store. The session
// hub is created here and shared with the auth package.
func CreateNewServer(store db.Store) (*SiteServer, error) {
	s := &SiteServer{
		Router: chi.NewRouter(),
		store:  store,
		hub:    sessionhub.New(),
	}
	auth.SetSessionHub(s.hub)
	return s, nil
}

// Hub exposes the session event hub, mainly for tests.
func (s *SiteServer) Hub() *sessionhub.Hub {
	return s.hub
}

// Shutdown closes the session hub, dropping all event streams.
func (s *SiteServer) Shutdown() {
	s.hub.Shutdown()
}

// MountHandlers sets up the middleware stack and registers all routes.
func (s *SiteServer) MountHandlers() {
	s.Router.Use(commonmiddleware.RequestLogger)
	s.Router.Use(commonmiddleware.PanicHandler)
	s.Router.Use(db.StoreMiddleware(s.store))
	s.Router.Use(limitRequestBody(config.Config().MaxRequestBodySize))
	if config.Config().HandleCORS {
		s.Router.Use(s.HandleCORS)
	}

	// The session events stream is long-lived, so the auth router mounts
	// outside the request timeout.
	s.Router.Mount("/auth", auth.Router())

	s.Router.Group(func(r chi.Router) {
		r.Use(commonmiddleware.SetTimeout(config.Config().GetRequestTimeout()))
		apis.Router(r)
		r.Get("/version", s.getVersion)
		r.Get("/ready", s.getReadiness)
	})
}

func limitRequestBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// HandleCORS provides CORS middleware for cross-origin requests from
// the console origin.
func (s *SiteServer) HandleCORS(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{config.Config().CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length", "Accept-Encoding"},
		ExposedHeaders:   []string{"Link", "Location", commonmiddleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})(next)
}
