package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/braccet/bracketlayout/internal/cache"
	"github.com/braccet/bracketlayout/internal/converter"
	"github.com/braccet/bracketlayout/internal/domain"
	"github.com/braccet/bracketlayout/internal/engine"
)

// LayoutHandler serves the elimination and Swiss layout endpoints. It
// holds no match state: every call computes (or retrieves from cache)
// a layout strictly from its request body.
type LayoutHandler struct {
	cache *cache.LayoutCache
}

func NewLayoutHandler(c *cache.LayoutCache) *LayoutHandler {
	return &LayoutHandler{cache: c}
}

// ComputeLayoutRequest is the body for POST /layouts: a raw stage
// structure (converted internally) plus the geometry configuration
// and an optional known DE format profile id.
type ComputeLayoutRequest struct {
	Stage           converter.StageStructure `json:"stage"`
	BracketTypeHint string                   `json:"bracketTypeHint"`
	Config          domain.LayoutConfig      `json:"config"`
	ProfileID       string                   `json:"profileId,omitempty"`
}

// ComputeSwissLayoutRequest is the body for POST /layouts/swiss: a raw
// Swiss stage structure (converted internally) plus geometry
// configuration. Any edges the converter flattens are not used — the
// Swiss layout has no progression graph.
type ComputeSwissLayoutRequest struct {
	Stage  converter.StageStructure `json:"stage"`
	Config domain.LayoutConfig      `json:"config"`
}

func (h *LayoutHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req ComputeLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	data, err := converter.Convert(req.Stage, nil)
	if err != nil {
		if errors.Is(err, converter.ErrUnsupportedStageType) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var profile *domain.DEProfile
	if req.ProfileID != "" {
		found, ok := engine.ProfileByID(req.ProfileID)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown profileId")
			return
		}
		profile = &found
	} else if detected, ok := engine.DetectProfile(data.Matches); ok {
		profile = &detected
	}

	layout := engine.CachedComputeLayout(h.cache, data.Matches, data.Edges, req.BracketTypeHint, req.Config, profile)
	json.NewEncoder(w).Encode(layout)
}

func (h *LayoutHandler) ComputeSwiss(w http.ResponseWriter, r *http.Request) {
	var req ComputeSwissLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	data, err := converter.Convert(req.Stage, nil)
	if err != nil {
		if errors.Is(err, converter.ErrUnsupportedStageType) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	layout := engine.ComputeSwissLayout(data.Matches, req.Config)
	json.NewEncoder(w).Encode(layout)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
