package rest

import (
	"context"
	"net/http"
	"time"

	"supramolecular/infrastructure/di"
	"supramolecular/interfaces/http/rest/handlers"
	"supramolecular/interfaces/http/rest/middleware"
	pkgerrors "supramolecular/pkg/errors"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
	errors    *pkgerrors.ErrorHandler
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{
		container: container,
		errors:    pkgerrors.NewErrorHandler(container.Logger, container.Config.IsDevelopment()),
		logger:    container.Logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	c := rt.container
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(rt.errors.Middleware)
	router.Use(middleware.Logger(rt.logger))
	if c.Config.EnableMetrics {
		router.Use(middleware.Metrics(c.Collector))
	}
	router.Use(middleware.Version)

	if c.Config.EnableCORS {
		origins := c.Config.CORSOrigins
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "Location"},
			AllowCredentials: !allowsAnyOrigin(origins),
			MaxAge:           300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errors.HandleStatus(w, r, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.errors.HandleStatus(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if c.Config.EnableMetrics {
		router.Handle("/metrics", c.Collector.Handler())
	}

	fitters := handlers.NewFitterHandler(c.QueryBus, rt.errors, rt.logger)
	data := handlers.NewDataHandler(c.CommandBus, c.QueryBus, c.DomainConfig.MaxUploadBytes, rt.errors, rt.logger)
	fits := handlers.NewFitHandler(c.CommandBus, c.QueryBus, rt.errors, rt.logger)
	authenticate := middleware.Authenticate(c.JWTValidator, rt.errors)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(c.RateLimiter, rt.errors))

		r.Get("/fitters", fitters.ListFitters)
		r.Post("/sim", fitters.Simulate)
		r.Post("/fit", fits.RunFit)
		r.Get("/data/{dataID}", data.GetData)
		r.Get("/fits", fits.ListFits)
		r.Get("/fits/{fitID}", fits.GetFit)

		// Writes
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/data", data.Upload)
			r.Post("/fits", fits.SaveFit)
			r.Delete("/fits/{fitID}", fits.DeleteFit)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck pings the storage backend
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
	defer cancel()

	if err := rt.container.Health.Ping(ctx); err != nil {
		rt.errors.Handle(w, req, pkgerrors.NewUnavailableError("storage").WithCause(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready","storage":"` + rt.container.Config.StorageDriver + `"}`))
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
