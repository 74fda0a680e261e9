// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// HistoryHandler handles history wipe requests.
type HistoryHandler struct {
	engine Engine
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(engine Engine) *HistoryHandler {
	return &HistoryHandler{engine: engine}
}

// HandleReset handles DELETE /v1/history requests: a user-initiated wipe of
// all recorded events, in memory and on disk.
func (h *HistoryHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	const op = "api.reset_history"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}

	if err := h.engine.ResetHistory(r.Context()); err != nil {
		writeEngineError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "reset"})
}
