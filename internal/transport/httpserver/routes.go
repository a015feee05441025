package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"profile-service-go/internal/config"
	"profile-service-go/internal/transport/httpserver/handler"
	"profile-service-go/internal/transport/httpserver/middleware"
	"profile-service-go/internal/transport/httpserver/static"
	"profile-service-go/pkg/logger"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogging(log))
	r.Use(chimw.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.NewCORS(cfg.CORSAllowedOrigins, handler.ProfileSourceHeader))

	r.Get("/health", handlers.Health)
	r.Post("/update-profile", handlers.UpdateProfile)
	r.Get("/get-profile", handlers.GetProfile)

	r.Get("/*", static.Handler().ServeHTTP)

	return r
}
