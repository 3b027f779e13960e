package main

import (
	"log"
	"net/http"

	"github.com/braccet/bracketlayout/internal/api"
	"github.com/braccet/bracketlayout/internal/cache"
	"github.com/braccet/bracketlayout/internal/config"
)

func main() {
	cfg := config.Load()

	layoutCache := cache.NewLayoutCache(
		cache.WithMaxEntries(cfg.CacheMaxEntries),
		cache.WithTTL(cfg.CacheTTL),
	)

	router := api.NewRouter(layoutCache)

	log.Printf("bracketlayout service starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
