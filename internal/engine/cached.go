package engine

import (
	"github.com/braccet/bracketlayout/internal/cache"
	"github.com/braccet/bracketlayout/internal/domain"
)

// CachedComputeLayout wraps ComputeLayout with content-hash
// memoization. Swiss layouts are never routed through here — they're
// cheap and the spec requires them to re-derive from raw inputs on
// every call.
func CachedComputeLayout(c *cache.LayoutCache, matches []domain.Match, edges []domain.Edge, bracketTypeHint string, cfg domain.LayoutConfig, profile *domain.DEProfile) domain.BracketLayout {
	key := cache.BuildKey(matches, edges, bracketTypeHint, cfg)

	if layout, ok := c.Get(key); ok {
		return layout
	}

	layout := ComputeLayout(matches, edges, bracketTypeHint, cfg, profile)
	c.Set(key, layout)
	return layout
}
