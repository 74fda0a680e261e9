// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// RecommendationHandler handles budget recommendation requests.
type RecommendationHandler struct {
	engine Engine
}

// NewRecommendationHandler creates a new recommendation handler.
func NewRecommendationHandler(engine Engine) *RecommendationHandler {
	return &RecommendationHandler{engine: engine}
}

// HandleGet handles GET /v1/recommendation requests. Sparse history is not
// an error: the engine answers with a low-confidence cold-start result.
func (h *RecommendationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.recommendation"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	rec, err := h.engine.Recommend(r.Context())
	if err != nil {
		writeEngineError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
