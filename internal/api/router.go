package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/braccet/bracketlayout/internal/api/handlers"
	apimiddleware "github.com/braccet/bracketlayout/internal/api/middleware"
	"github.com/braccet/bracketlayout/internal/cache"
)

// NewRouter wires the HTTP surface around one shared LayoutCache.
// Layout computation is public; cache introspection and invalidation
// require a bearer JWT.
func NewRouter(layoutCache *cache.LayoutCache) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:4200", "http://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	layoutHandler := handlers.NewLayoutHandler(layoutCache)
	cacheHandler := handlers.NewCacheHandler(layoutCache)

	r.Get("/health", handlers.Health)

	r.Post("/layouts", layoutHandler.Compute)
	r.Post("/layouts/swiss", layoutHandler.ComputeSwiss)

	r.Group(func(r chi.Router) {
		r.Use(apimiddleware.Auth)
		r.Get("/layouts/cache/stats", cacheHandler.Stats)
		r.Delete("/layouts/cache", cacheHandler.Invalidate)
	})

	return r
}
