package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/braccet/bracketlayout/internal/cache"
)

// CacheHandler exposes the layout cache's introspection and
// invalidation surface. Both routes require authentication — an
// unauthenticated caller can compute layouts but not inspect or clear
// the shared cache.
type CacheHandler struct {
	cache *cache.LayoutCache
}

func NewCacheHandler(c *cache.LayoutCache) *CacheHandler {
	return &CacheHandler{cache: c}
}

func (h *CacheHandler) Stats(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.cache.Stats())
}

type invalidateRequest struct {
	MatchIDs []string `json:"matchIds"`
}

// Invalidate clears the shared layout cache. Cache keys are content
// hashes, not match ids, so there's no way to selectively drop
// entries touching a given match; any call — with or without a
// matchIds body — discards everything.
func (h *CacheHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	var req invalidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ids := map[string]struct{}{"*": {}}
	for _, id := range req.MatchIDs {
		ids[id] = struct{}{}
	}
	h.cache.Invalidate(ids)

	w.WriteHeader(http.StatusNoContent)
}
