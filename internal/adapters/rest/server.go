package rest

import (
	"context"
	"net/http"
	"time"

	core_port "catalog-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

// NewRouter собирает chi-роутер со всеми маршрутами каталога
func NewRouter(
	propertyHandlers *PropertyHandler,
	adminHandlers *AdminHandler,
	allowedOrigins []string,
	baseLogger core_port.LoggerPort,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(LoggerMiddleware(baseLogger), middleware.Recoverer)

	r.Get("/health", adminHandlers.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", adminHandlers.Health)

		r.Route("/properties", func(r chi.Router) {
			r.Get("/", propertyHandlers.ListProperties)
			r.Post("/", adminHandlers.CreateProperty)
			r.Get("/featured", propertyHandlers.FeaturedProperties)
			r.Get("/stats", adminHandlers.Stats)
			r.Post("/search", propertyHandlers.SearchProperties)

			r.Get("/{propertyID}", propertyHandlers.GetProperty)
			r.Put("/{propertyID}", adminHandlers.UpdateProperty)
			r.Delete("/{propertyID}", adminHandlers.DeleteProperty)
		})
	})

	return r
}

func NewServer(port string, handler http.Handler, baseLogger core_port.LoggerPort) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: baseLogger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", core_port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
