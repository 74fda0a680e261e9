// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// ExpensesHandler handles expense submission requests.
type ExpensesHandler struct {
	engine Engine
}

// NewExpensesHandler creates a new expenses handler.
func NewExpensesHandler(engine Engine) *ExpensesHandler {
	return &ExpensesHandler{engine: engine}
}

// HandleSubmit handles POST /v1/expenses requests.
func (h *ExpensesHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_expense"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	req, ok := decodeEvent(w, r, op)
	if !ok {
		return
	}
	e := req.toModel()

	if err := h.engine.SubmitExpense(r.Context(), e); err != nil {
		writeEngineError(w, op, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", ID: e.ID})
}
