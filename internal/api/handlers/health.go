package handlers

import (
	"encoding/json"
	"net/http"
)

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Health reports process liveness only: the layout engine and cache
// have no external dependency to ping, so there is no degraded state
// between "up" and "not responding".
func Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:  "healthy",
		Service: "bracketlayout",
	}
	json.NewEncoder(w).Encode(resp)
}
